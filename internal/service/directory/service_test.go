package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/mamadbah2/nccfarm/internal/domain/models"
	"github.com/mamadbah2/nccfarm/internal/repository/memory"
	"github.com/mamadbah2/nccfarm/internal/session"
)

func loggedIn(user string) session.State {
	return session.State{ID: "s1", LoggedIn: true, User: models.User{ID: user, Workspace: "ncc"}}
}

func TestContactsGroupedInFirstSeenOrder(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	for _, c := range []models.Contact{
		{Category: "hospital", Name: "County"},
		{Category: "engineering liaison", Name: "Zhang"},
		{Category: "hospital", Name: "Clinic"},
	} {
		_ = store.CreateContact(ctx, "ncc", c)
	}

	view, err := NewService(store, nil).Contacts(ctx, loggedIn("admin"))
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Groups) != 2 || view.Groups[0].Category != "hospital" || len(view.Groups[0].Contacts) != 2 {
		t.Fatalf("groups = %+v", view.Groups)
	}
}

func TestProfileCounts(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	_, _ = store.CreateProject(ctx, "ncc", models.Project{Name: "a", Leader: "Staff01"})
	_, _ = store.CreateProject(ctx, "ncc", models.Project{Name: "b", Leader: "admin", Members: []string{"Staff01"}})
	_, _ = store.CreateProject(ctx, "ncc", models.Project{Name: "c", Leader: "admin"})
	_ = store.CreateItem(ctx, "ncc", models.InventoryItem{SKU: "A1", Quantity: 10})
	_, _ = store.ApplyMovement(ctx, "ncc", models.StockMovement{SKU: "A1", Delta: -1, Actor: "Staff01"})
	_, _ = store.ApplyMovement(ctx, "ncc", models.StockMovement{SKU: "A1", Delta: -1, Actor: "admin"})

	view, err := NewService(store, nil).Profile(ctx, loggedIn("Staff01"))
	if err != nil {
		t.Fatal(err)
	}
	if view.ProjectCount != 2 || view.MovementCount != 1 || view.User.ID != "Staff01" {
		t.Fatalf("profile = %+v", view)
	}
}

func TestRequiresLogin(t *testing.T) {
	svc := NewService(memory.New(), nil)
	if _, err := svc.Profile(context.Background(), session.State{}); !errors.Is(err, models.ErrNotLoggedIn) {
		t.Fatalf("err = %v", err)
	}
}
