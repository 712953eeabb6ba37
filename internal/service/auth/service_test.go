package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mamadbah2/nccfarm/internal/domain/models"
	"github.com/mamadbah2/nccfarm/internal/session"
)

type recordingSeeder struct {
	tenants []string
	err     error
}

func (r *recordingSeeder) EnsureSeeded(_ context.Context, tenant string) error {
	r.tenants = append(r.tenants, tenant)
	return r.err
}

func newTestService(seeder Seeder) *Service {
	svc := NewService(seeder, "ncc", nil)
	svc.now = func() time.Time { return time.Date(2025, 1, 12, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestLoginStaffLandsOnProjectList(t *testing.T) {
	seeder := &recordingSeeder{}
	svc := newTestService(seeder)
	st := session.State{ID: "s1", Screen: models.ScreenLogin, PurchaseDraft: []models.PurchaseRequestRow{{Name: "stale"}}}

	if err := svc.Login(context.Background(), &st, LoginInput{Username: " Staff01 ", Password: "whatever", Remember: true}); err != nil {
		t.Fatal(err)
	}

	if !st.LoggedIn || st.User.ID != "Staff01" || st.User.Role != models.RoleStaff || st.Tenant() != "ncc" {
		t.Fatalf("state = %+v", st)
	}
	if st.Screen != models.ScreenProjectList || !st.Remember || st.ID != "s1" {
		t.Fatalf("state = %+v", st)
	}
	if st.PurchaseDraft != nil {
		t.Fatal("previous scratch rows survived login")
	}
	if len(seeder.tenants) != 1 || seeder.tenants[0] != "ncc" {
		t.Fatalf("seeded = %v", seeder.tenants)
	}
}

func TestLoginAdminLandsOnDashboard(t *testing.T) {
	svc := newTestService(&recordingSeeder{})
	st := session.State{ID: "s1"}

	if err := svc.Login(context.Background(), &st, LoginInput{Username: "admin", Role: "ADMIN", Workspace: "east"}); err != nil {
		t.Fatal(err)
	}
	if st.Screen != models.ScreenDashboard || !st.User.IsAdmin() || st.Tenant() != "east" {
		t.Fatalf("state = %+v", st)
	}
}

func TestLoginRejectsEmptyUsername(t *testing.T) {
	seeder := &recordingSeeder{}
	svc := newTestService(seeder)
	st := session.State{ID: "s1", Screen: models.ScreenLogin}

	err := svc.Login(context.Background(), &st, LoginInput{Username: "   "})
	var verr *models.ValidationError
	if !errors.As(err, &verr) || verr.Fields["username"] != "is required" {
		t.Fatalf("err = %v", err)
	}
	if st.LoggedIn || len(seeder.tenants) != 0 {
		t.Fatal("empty username logged in")
	}
	if err := svc.Login(context.Background(), &st, LoginInput{Username: "x", Role: "owner"}); !models.IsValidation(err) {
		t.Fatalf("bad role err = %v", err)
	}
}

func TestLoginAcceptsLongUsername(t *testing.T) {
	svc := newTestService(&recordingSeeder{})
	st := session.State{ID: "s1"}
	name := strings.Repeat("a", 200)

	if err := svc.Login(context.Background(), &st, LoginInput{Username: name}); err != nil {
		t.Fatalf("Login() = %v", err)
	}
	if !st.LoggedIn || st.User.ID != name {
		t.Fatalf("state = %+v", st)
	}
}

func TestLoginSeedFailure(t *testing.T) {
	svc := newTestService(&recordingSeeder{err: errors.New("mongo down")})
	st := session.State{ID: "s1"}

	if err := svc.Login(context.Background(), &st, LoginInput{Username: "admin"}); err == nil {
		t.Fatal("expected error")
	}
	if st.LoggedIn {
		t.Fatal("logged in despite seed failure")
	}
}

func TestLogout(t *testing.T) {
	svc := newTestService(&recordingSeeder{})
	st := session.State{ID: "s1"}
	_ = svc.Login(context.Background(), &st, LoginInput{Username: "admin"})

	svc.Logout(&st)
	if st.LoggedIn || st.Screen != models.ScreenLogin || st.ID != "s1" || st.User.ID != "" {
		t.Fatalf("state = %+v", st)
	}
}
