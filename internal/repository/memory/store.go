// Package memory is a mutex-guarded Store used when no database is configured
// and in tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mamadbah2/nccfarm/internal/domain/models"
	"github.com/mamadbah2/nccfarm/internal/repository"
)

type seedState int

const (
	seedNone seedState = iota
	seedClaimed
	seedDone
)

type tenantData struct {
	projects    []models.Project
	nextProject int
	items       []models.InventoryItem
	movements   []models.StockMovement
	tasks       []models.MaintenanceTask
	nextTask    int
	contacts    []models.Contact
	seed        seedState
}

// Store keeps every tenant's collections in process memory.
type Store struct {
	mu      sync.RWMutex
	tenants map[string]*tenantData
}

var _ repository.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{tenants: make(map[string]*tenantData)}
}

func (s *Store) tenant(name string) *tenantData {
	td, ok := s.tenants[name]
	if !ok {
		td = &tenantData{nextProject: 1, nextTask: 1}
		s.tenants[name] = td
	}
	return td
}

// ClaimSeed implements repository.TenantStore.
func (s *Store) ClaimSeed(_ context.Context, tenant string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	td := s.tenant(tenant)
	if td.seed != seedNone {
		return false, nil
	}
	td.seed = seedClaimed
	return true, nil
}

// CommitSeed implements repository.TenantStore.
func (s *Store) CommitSeed(_ context.Context, tenant string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tenant(tenant).seed = seedDone
	return nil
}

// ReleaseSeed implements repository.TenantStore.
func (s *Store) ReleaseSeed(_ context.Context, tenant string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if td := s.tenant(tenant); td.seed == seedClaimed {
		td.seed = seedNone
	}
	return nil
}

// Tenants implements repository.TenantStore.
func (s *Store) Tenants(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.tenants))
	for name := range s.tenants {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// ListProjects implements repository.ProjectStore.
func (s *Store) ListProjects(_ context.Context, tenant string) ([]models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	td, ok := s.tenants[tenant]
	if !ok {
		return nil, nil
	}
	out := make([]models.Project, 0, len(td.projects))
	for _, p := range td.projects {
		out = append(out, cloneProject(p))
	}
	return out, nil
}

// GetProject implements repository.ProjectStore.
func (s *Store) GetProject(_ context.Context, tenant string, id int) (models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if td, ok := s.tenants[tenant]; ok {
		for _, p := range td.projects {
			if p.ID == id {
				return cloneProject(p), nil
			}
		}
	}
	return models.Project{}, models.ErrNotFound
}

// CreateProject implements repository.ProjectStore.
func (s *Store) CreateProject(_ context.Context, tenant string, p models.Project) (models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	td := s.tenant(tenant)
	p.ID = td.nextProject
	td.nextProject++
	td.projects = append(td.projects, cloneProject(p))
	return cloneProject(p), nil
}

// UpdateProject implements repository.ProjectStore.
func (s *Store) UpdateProject(_ context.Context, tenant string, p models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if td, ok := s.tenants[tenant]; ok {
		for i := range td.projects {
			if td.projects[i].ID == p.ID {
				td.projects[i] = cloneProject(p)
				return nil
			}
		}
	}
	return models.ErrNotFound
}

// ListItems implements repository.InventoryStore.
func (s *Store) ListItems(_ context.Context, tenant string) ([]models.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	td, ok := s.tenants[tenant]
	if !ok {
		return nil, nil
	}
	return append([]models.InventoryItem(nil), td.items...), nil
}

// GetItem implements repository.InventoryStore.
func (s *Store) GetItem(_ context.Context, tenant, sku string) (models.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if td, ok := s.tenants[tenant]; ok {
		for _, it := range td.items {
			if it.SKU == sku {
				return it, nil
			}
		}
	}
	return models.InventoryItem{}, models.ErrNotFound
}

// CreateItem implements repository.InventoryStore.
func (s *Store) CreateItem(_ context.Context, tenant string, item models.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	td := s.tenant(tenant)
	for _, it := range td.items {
		if it.SKU == item.SKU {
			return models.ErrDuplicateSKU
		}
	}
	td.items = append(td.items, item)
	return nil
}

// ApplyMovement implements repository.InventoryStore.
func (s *Store) ApplyMovement(_ context.Context, tenant string, mv models.StockMovement) (models.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	td, ok := s.tenants[tenant]
	if !ok {
		return models.InventoryItem{}, models.ErrNotFound
	}
	for i := range td.items {
		if td.items[i].SKU != mv.SKU {
			continue
		}
		next := td.items[i].Quantity + mv.Delta
		if next < 0 {
			return td.items[i], models.ErrInsufficientStock
		}
		td.items[i].Quantity = next
		mv.ResultQty = next
		td.movements = append(td.movements, mv)
		return td.items[i], nil
	}
	return models.InventoryItem{}, models.ErrNotFound
}

// ListMovements implements repository.InventoryStore.
func (s *Store) ListMovements(_ context.Context, tenant, sku string) ([]models.StockMovement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	td, ok := s.tenants[tenant]
	if !ok {
		return nil, nil
	}
	var out []models.StockMovement
	for _, mv := range td.movements {
		if sku == "" || mv.SKU == sku {
			out = append(out, mv)
		}
	}
	return out, nil
}

// ListTasks implements repository.MaintenanceStore.
func (s *Store) ListTasks(_ context.Context, tenant string) ([]models.MaintenanceTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	td, ok := s.tenants[tenant]
	if !ok {
		return nil, nil
	}
	return append([]models.MaintenanceTask(nil), td.tasks...), nil
}

// GetTask implements repository.MaintenanceStore.
func (s *Store) GetTask(_ context.Context, tenant string, id int) (models.MaintenanceTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if td, ok := s.tenants[tenant]; ok {
		for _, t := range td.tasks {
			if t.ID == id {
				return t, nil
			}
		}
	}
	return models.MaintenanceTask{}, models.ErrNotFound
}

// CreateTask implements repository.MaintenanceStore.
func (s *Store) CreateTask(_ context.Context, tenant string, t models.MaintenanceTask) (models.MaintenanceTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	td := s.tenant(tenant)
	t.ID = td.nextTask
	td.nextTask++
	td.tasks = append(td.tasks, t)
	return t, nil
}

// UpdateTask implements repository.MaintenanceStore.
func (s *Store) UpdateTask(_ context.Context, tenant string, t models.MaintenanceTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if td, ok := s.tenants[tenant]; ok {
		for i := range td.tasks {
			if td.tasks[i].ID == t.ID {
				td.tasks[i] = t
				return nil
			}
		}
	}
	return models.ErrNotFound
}

// ListContacts implements repository.ContactStore.
func (s *Store) ListContacts(_ context.Context, tenant string) ([]models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	td, ok := s.tenants[tenant]
	if !ok {
		return nil, nil
	}
	return append([]models.Contact(nil), td.contacts...), nil
}

// CreateContact implements repository.ContactStore.
func (s *Store) CreateContact(_ context.Context, tenant string, c models.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	td := s.tenant(tenant)
	td.contacts = append(td.contacts, c)
	return nil
}

func cloneProject(p models.Project) models.Project {
	p.Members = append([]string(nil), p.Members...)
	p.Nodes = append([]models.Milestone(nil), p.Nodes...)
	return p
}
