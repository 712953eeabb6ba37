package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/nccfarm/internal/domain/models"
	"github.com/mamadbah2/nccfarm/internal/metrics"
	"github.com/mamadbah2/nccfarm/internal/session"
	"github.com/mamadbah2/nccfarm/internal/validation"
)

// LoginInput is the login form. Password is accepted and ignored.
type LoginInput struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password"`
	Remember  bool   `json:"remember"`
	Role      string `json:"role" validate:"omitempty,oneof=admin staff"`
	Workspace string `json:"workspace" validate:"omitempty,max=64"`
}

// Seeder prepares a workspace on its first login.
type Seeder interface {
	EnsureSeeded(ctx context.Context, tenant string) error
}

// Service logs sessions in and out.
type Service struct {
	seeder           Seeder
	defaultWorkspace string
	logger           *zap.Logger
	now              func() time.Time
}

// NewService wires an auth service.
func NewService(seeder Seeder, defaultWorkspace string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		seeder:           seeder,
		defaultWorkspace: defaultWorkspace,
		logger:           logger,
		now:              time.Now,
	}
}

// LoginView renders the login form.
func (s *Service) LoginView(context.Context, session.State) (models.LoginView, error) {
	return models.LoginView{
		Screen:           models.ScreenLogin,
		DefaultWorkspace: s.defaultWorkspace,
		Roles:            []models.Role{models.RoleStaff, models.RoleAdmin},
	}, nil
}

// Login accepts any non-empty username, seeds the workspace on first use and
// lands on the project list, or the dashboard for admins.
func (s *Service) Login(ctx context.Context, st *session.State, in LoginInput) error {
	in.Username = strings.TrimSpace(in.Username)
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))
	in.Workspace = strings.TrimSpace(in.Workspace)
	if err := validation.Struct(in); err != nil {
		return err
	}

	workspace := in.Workspace
	if workspace == "" {
		workspace = s.defaultWorkspace
	}
	if err := s.seeder.EnsureSeeded(ctx, workspace); err != nil {
		return fmt.Errorf("prepare workspace %q: %w", workspace, err)
	}

	user := models.User{
		ID:         in.Username,
		Role:       models.ParseRole(in.Role),
		Workspace:  workspace,
		LoggedInAt: s.now(),
	}

	*st = session.State{
		ID:       st.ID,
		User:     user,
		LoggedIn: true,
		Remember: in.Remember,
		Screen:   models.ScreenProjectList,
	}
	if user.IsAdmin() {
		st.Screen = models.ScreenDashboard
	}

	metrics.IncrementLogin(string(user.Role))
	s.logger.Info("user logged in",
		zap.String("user", user.ID),
		zap.String("role", string(user.Role)),
		zap.String("workspace", workspace),
	)
	return nil
}

// Logout resets the session to the login screen.
func (s *Service) Logout(st *session.State) {
	if st.LoggedIn {
		s.logger.Info("user logged out", zap.String("user", st.User.ID), zap.String("workspace", st.Tenant()))
	}
	*st = session.State{ID: st.ID, Screen: models.ScreenLogin}
}
