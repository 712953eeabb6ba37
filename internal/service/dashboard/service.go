package dashboard

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/nccfarm/internal/domain/models"
	"github.com/mamadbah2/nccfarm/internal/repository"
	"github.com/mamadbah2/nccfarm/internal/session"
)

// InventoryPreview is how many inventory rows the overview shows.
const InventoryPreview = 10

// MaintenanceRows lists a tenant's tasks with overdue flags.
type MaintenanceRows interface {
	Rows(ctx context.Context, tenant string) ([]models.MaintenanceRow, int, error)
}

// WarningSource reports data-load warnings for a tenant.
type WarningSource interface {
	Warnings(tenant string) []string
}

// Service renders the admin overview.
type Service struct {
	store       repository.Store
	maintenance MaintenanceRows
	warnings    WarningSource
	logger      *zap.Logger
}

// NewService wires a dashboard service. warnings may be nil.
func NewService(store repository.Store, maintenance MaintenanceRows, warnings WarningSource, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, maintenance: maintenance, warnings: warnings, logger: logger}
}

// Overview renders maintenance, the first inventory rows and project progress.
func (s *Service) Overview(ctx context.Context, st session.State) (models.DashboardView, error) {
	if err := st.RequireLogin(); err != nil {
		return models.DashboardView{}, err
	}
	tenant := st.Tenant()

	rows, overdue, err := s.maintenance.Rows(ctx, tenant)
	if err != nil {
		return models.DashboardView{}, err
	}

	items, err := s.store.ListItems(ctx, tenant)
	if err != nil {
		return models.DashboardView{}, fmt.Errorf("list items: %w", err)
	}
	if len(items) > InventoryPreview {
		items = items[:InventoryPreview]
	}

	projects, err := s.store.ListProjects(ctx, tenant)
	if err != nil {
		return models.DashboardView{}, fmt.Errorf("list projects: %w", err)
	}
	var sum float64
	for _, p := range projects {
		sum += p.Progress()
	}
	avg := 0.0
	if len(projects) > 0 {
		avg = sum / float64(len(projects))
	}

	view := models.DashboardView{
		Screen:          models.ScreenDashboard,
		User:            st.User,
		Maintenance:     rows,
		OverdueCount:    overdue,
		Inventory:       items,
		ProjectCount:    len(projects),
		AverageProgress: avg,
	}
	if s.warnings != nil {
		view.Warnings = s.warnings.Warnings(tenant)
	}
	return view, nil
}
