package directory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/nccfarm/internal/domain/models"
	"github.com/mamadbah2/nccfarm/internal/repository"
	"github.com/mamadbah2/nccfarm/internal/session"
)

// Service renders the contacts and profile screens.
type Service struct {
	store  repository.Store
	logger *zap.Logger
}

// NewService wires a directory service.
func NewService(store repository.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// Contacts groups the tenant's contacts by category in first-seen order.
func (s *Service) Contacts(ctx context.Context, st session.State) (models.ContactsView, error) {
	if err := st.RequireLogin(); err != nil {
		return models.ContactsView{}, err
	}

	contacts, err := s.store.ListContacts(ctx, st.Tenant())
	if err != nil {
		return models.ContactsView{}, fmt.Errorf("list contacts: %w", err)
	}

	groups := []models.ContactGroup{}
	index := make(map[string]int)
	for _, c := range contacts {
		i, ok := index[c.Category]
		if !ok {
			i = len(groups)
			index[c.Category] = i
			groups = append(groups, models.ContactGroup{Category: c.Category})
		}
		groups[i].Contacts = append(groups[i].Contacts, c)
	}
	return models.ContactsView{Screen: models.ScreenContacts, Groups: groups}, nil
}

// Profile summarizes the user's projects and stock movements.
func (s *Service) Profile(ctx context.Context, st session.State) (models.ProfileView, error) {
	if err := st.RequireLogin(); err != nil {
		return models.ProfileView{}, err
	}

	projects, err := s.store.ListProjects(ctx, st.Tenant())
	if err != nil {
		return models.ProfileView{}, fmt.Errorf("list projects: %w", err)
	}
	movements, err := s.store.ListMovements(ctx, st.Tenant(), "")
	if err != nil {
		return models.ProfileView{}, fmt.Errorf("list movements: %w", err)
	}

	view := models.ProfileView{Screen: models.ScreenProfile, User: st.User}
	for _, p := range projects {
		if p.Involves(st.User.ID) {
			view.ProjectCount++
		}
	}
	for _, mv := range movements {
		if mv.Actor == st.User.ID {
			view.MovementCount++
		}
	}
	return view, nil
}
