package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/mamadbah2/nccfarm/internal/domain/models"
)

func TestProjectIDsAreNeverReused(t *testing.T) {
	ctx := context.Background()
	s := New()

	a, _ := s.CreateProject(ctx, "ncc", models.Project{Name: "barn"})
	b, _ := s.CreateProject(ctx, "ncc", models.Project{Name: "fence"})
	other, _ := s.CreateProject(ctx, "other", models.Project{Name: "well"})

	if a.ID != 1 || b.ID != 2 {
		t.Fatalf("ids = %d, %d", a.ID, b.ID)
	}
	if other.ID != 1 {
		t.Fatalf("tenants share a counter: other id = %d", other.ID)
	}
}

func TestProjectsAreCopied(t *testing.T) {
	ctx := context.Background()
	s := New()

	p, _ := s.CreateProject(ctx, "ncc", models.Project{Nodes: []models.Milestone{{Content: "dig"}}})
	p.Nodes[0].Done = true

	stored, err := s.GetProject(ctx, "ncc", p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Nodes[0].Done {
		t.Fatal("caller mutation leaked into the store")
	}
}

func TestCreateItemRejectsDuplicateSKU(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.CreateItem(ctx, "ncc", models.InventoryItem{SKU: "A1"}); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateItem(ctx, "ncc", models.InventoryItem{SKU: "A1"}); !errors.Is(err, models.ErrDuplicateSKU) {
		t.Fatalf("duplicate insert err = %v", err)
	}
}

func TestApplyMovement(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.CreateItem(ctx, "ncc", models.InventoryItem{SKU: "A1", Quantity: 5})

	item, err := s.ApplyMovement(ctx, "ncc", models.StockMovement{SKU: "A1", Delta: -3})
	if err != nil || item.Quantity != 2 {
		t.Fatalf("ApplyMovement(-3) = (%+v, %v)", item, err)
	}

	if _, err := s.ApplyMovement(ctx, "ncc", models.StockMovement{SKU: "A1", Delta: -3}); !errors.Is(err, models.ErrInsufficientStock) {
		t.Fatalf("overdraw err = %v", err)
	}
	if _, err := s.ApplyMovement(ctx, "ncc", models.StockMovement{SKU: "B9", Delta: 1}); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("unknown sku err = %v", err)
	}

	mvs, _ := s.ListMovements(ctx, "ncc", "A1")
	if len(mvs) != 1 || mvs[0].ResultQty != 2 {
		t.Fatalf("movements = %+v", mvs)
	}
}

func TestClaimSeedOnce(t *testing.T) {
	ctx := context.Background()
	s := New()

	first, _ := s.ClaimSeed(ctx, "ncc")
	second, _ := s.ClaimSeed(ctx, "ncc")
	if !first || second {
		t.Fatalf("ClaimSeed = %v, %v", first, second)
	}

	tenants, _ := s.Tenants(ctx)
	if len(tenants) != 1 || tenants[0] != "ncc" {
		t.Fatalf("Tenants() = %v", tenants)
	}
}

func TestReleasedSeedCanBeClaimedAgain(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, _ = s.ClaimSeed(ctx, "ncc")
	if err := s.ReleaseSeed(ctx, "ncc"); err != nil {
		t.Fatal(err)
	}
	if again, _ := s.ClaimSeed(ctx, "ncc"); !again {
		t.Fatal("released tenant could not be claimed")
	}

	if err := s.CommitSeed(ctx, "ncc"); err != nil {
		t.Fatal(err)
	}
	_ = s.ReleaseSeed(ctx, "ncc")
	if again, _ := s.ClaimSeed(ctx, "ncc"); again {
		t.Fatal("committed tenant was claimed again")
	}
}
