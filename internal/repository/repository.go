// Package repository defines the per-tenant persistence contracts shared by
// the in-memory and MongoDB stores.
package repository

import (
	"context"

	"github.com/mamadbah2/nccfarm/internal/domain/models"
)

// TenantStore tracks which workspaces exist and whether they were seeded.
type TenantStore interface {
	// ClaimSeed reserves the tenant for seeding and reports whether the caller
	// holds the claim. It returns false once the tenant is seeded or while
	// another claim is in flight.
	ClaimSeed(ctx context.Context, tenant string) (bool, error)
	// CommitSeed marks a claimed tenant as seeded for good.
	CommitSeed(ctx context.Context, tenant string) error
	// ReleaseSeed drops an uncommitted claim so a later login retries.
	ReleaseSeed(ctx context.Context, tenant string) error
	Tenants(ctx context.Context) ([]string, error)
}

// ProjectStore persists projects and their milestones.
type ProjectStore interface {
	ListProjects(ctx context.Context, tenant string) ([]models.Project, error)
	GetProject(ctx context.Context, tenant string, id int) (models.Project, error)
	// CreateProject assigns the next unused id and returns the stored project.
	CreateProject(ctx context.Context, tenant string, p models.Project) (models.Project, error)
	UpdateProject(ctx context.Context, tenant string, p models.Project) error
}

// InventoryStore persists stock items and their movement audit trail.
type InventoryStore interface {
	ListItems(ctx context.Context, tenant string) ([]models.InventoryItem, error)
	GetItem(ctx context.Context, tenant, sku string) (models.InventoryItem, error)
	CreateItem(ctx context.Context, tenant string, item models.InventoryItem) error
	// ApplyMovement adds mv.Delta to the item's quantity, refusing to go below
	// zero, and records mv with its resulting quantity.
	ApplyMovement(ctx context.Context, tenant string, mv models.StockMovement) (models.InventoryItem, error)
	// ListMovements returns movements oldest first; an empty sku lists all.
	ListMovements(ctx context.Context, tenant, sku string) ([]models.StockMovement, error)
}

// MaintenanceStore persists maintenance tasks.
type MaintenanceStore interface {
	ListTasks(ctx context.Context, tenant string) ([]models.MaintenanceTask, error)
	GetTask(ctx context.Context, tenant string, id int) (models.MaintenanceTask, error)
	CreateTask(ctx context.Context, tenant string, t models.MaintenanceTask) (models.MaintenanceTask, error)
	UpdateTask(ctx context.Context, tenant string, t models.MaintenanceTask) error
}

// ContactStore persists the read-only directory.
type ContactStore interface {
	ListContacts(ctx context.Context, tenant string) ([]models.Contact, error)
	CreateContact(ctx context.Context, tenant string, c models.Contact) error
}

// Store is the full persistence surface used by the services.
type Store interface {
	TenantStore
	ProjectStore
	InventoryStore
	MaintenanceStore
	ContactStore
}
