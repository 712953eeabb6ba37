package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/nccfarm/internal/domain/models"
	"github.com/mamadbah2/nccfarm/internal/metrics"
	"github.com/mamadbah2/nccfarm/internal/repository"
	"github.com/mamadbah2/nccfarm/internal/session"
	"github.com/mamadbah2/nccfarm/internal/table"
	"github.com/mamadbah2/nccfarm/internal/validation"
)

// NoResultsHint is shown when a search matches nothing.
const NoResultsHint = "No matching material in stock. Use the purchase request form to request it."

// AdjustInput is a signed stock change.
type AdjustInput struct {
	Delta  int    `json:"delta" validate:"ne=0"`
	Reason string `json:"reason" validate:"omitempty,oneof=in out adjust"`
	Note   string `json:"note" validate:"max=200"`
}

// IssueInput books material out to a worker or project.
type IssueInput struct {
	Quantity int    `json:"quantity" validate:"gt=0"`
	Note     string `json:"note" validate:"max=200"`
}

// ItemInput creates a new stocked item.
type ItemInput struct {
	SKU       string `json:"sku" validate:"required,max=64"`
	Name      string `json:"name" validate:"required,max=120"`
	Spec      string `json:"spec" validate:"max=200"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
	UnitPrice string `json:"unit_price"`
}

// Service implements the inventory search and detail screens.
type Service struct {
	store  repository.InventoryStore
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires an inventory service.
func NewService(store repository.InventoryStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// List renders the search screen for the session's last query.
func (s *Service) List(ctx context.Context, st session.State) (models.InventoryListView, error) {
	return s.Search(ctx, &st, st.InventoryQuery)
}

// Search filters the tenant's items by a case-insensitive substring over every
// cell and remembers the query on the session.
func (s *Service) Search(ctx context.Context, st *session.State, query string) (models.InventoryListView, error) {
	if err := st.RequireLogin(); err != nil {
		return models.InventoryListView{}, err
	}

	items, err := s.store.ListItems(ctx, st.Tenant())
	if err != nil {
		return models.InventoryListView{}, fmt.Errorf("list items: %w", err)
	}

	st.InventoryQuery = query
	matched := table.Filter(items, models.InventoryItem.Cells, query)

	view := models.InventoryListView{
		Screen:  models.ScreenInventoryList,
		Query:   query,
		Columns: models.InventoryColumns,
		Items:   matched,
	}
	if len(matched) == 0 {
		view.Hint = NoResultsHint
	}
	return view, nil
}

// Select opens the detail screen of an item.
func (s *Service) Select(ctx context.Context, st *session.State, sku string) error {
	if err := st.RequireLogin(); err != nil {
		return err
	}
	if _, err := s.store.GetItem(ctx, st.Tenant(), sku); err != nil {
		return fmt.Errorf("select item %q: %w", sku, err)
	}
	st.SelectedSKU = sku
	st.Screen = models.ScreenInventoryDetail
	return nil
}

// Detail renders the selected item with its movement history.
func (s *Service) Detail(ctx context.Context, st session.State) (models.InventoryDetailView, error) {
	return s.DetailBySKU(ctx, st, st.SelectedSKU)
}

// DetailBySKU renders an item by SKU.
func (s *Service) DetailBySKU(ctx context.Context, st session.State, sku string) (models.InventoryDetailView, error) {
	if err := st.RequireLogin(); err != nil {
		return models.InventoryDetailView{}, err
	}

	item, err := s.store.GetItem(ctx, st.Tenant(), sku)
	if err != nil {
		return models.InventoryDetailView{}, fmt.Errorf("get item %q: %w", sku, err)
	}
	movements, err := s.store.ListMovements(ctx, st.Tenant(), sku)
	if err != nil {
		return models.InventoryDetailView{}, fmt.Errorf("list movements for %q: %w", sku, err)
	}
	if movements == nil {
		movements = []models.StockMovement{}
	}

	return models.InventoryDetailView{
		Screen:    models.ScreenInventoryDetail,
		Item:      item,
		Movements: movements,
	}, nil
}

// Adjust applies a signed delta. Positive deltas default to reason "in",
// negative ones to "out".
func (s *Service) Adjust(ctx context.Context, st session.State, sku string, in AdjustInput) (models.InventoryItem, error) {
	if err := st.RequireLogin(); err != nil {
		return models.InventoryItem{}, err
	}
	if err := validation.Struct(in); err != nil {
		return models.InventoryItem{}, err
	}

	reason := models.MovementReason(in.Reason)
	if reason == "" {
		reason = models.MovementIn
		if in.Delta < 0 {
			reason = models.MovementOut
		}
	}
	if (reason == models.MovementIn && in.Delta < 0) || (reason == models.MovementOut && in.Delta > 0) {
		return models.InventoryItem{}, models.NewValidationError("delta", "sign does not match reason "+string(reason))
	}
	return s.apply(ctx, st, sku, in.Delta, reason, in.Note)
}

// Issue books qty units out of stock.
func (s *Service) Issue(ctx context.Context, st session.State, sku string, in IssueInput) (models.InventoryItem, error) {
	if err := st.RequireLogin(); err != nil {
		return models.InventoryItem{}, err
	}
	if err := validation.Struct(in); err != nil {
		return models.InventoryItem{}, err
	}
	return s.apply(ctx, st, sku, -in.Quantity, models.MovementIssue, in.Note)
}

// CreateItem adds a new item to the tenant's stock.
func (s *Service) CreateItem(ctx context.Context, st session.State, in ItemInput) (models.InventoryItem, error) {
	if err := st.RequireLogin(); err != nil {
		return models.InventoryItem{}, err
	}

	in.SKU = strings.TrimSpace(in.SKU)
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return models.InventoryItem{}, err
	}

	price := decimal.Zero
	if v := strings.TrimSpace(in.UnitPrice); v != "" {
		p, err := decimal.NewFromString(v)
		if err != nil || p.IsNegative() {
			return models.InventoryItem{}, models.NewValidationError("unit_price", "must be a non-negative number")
		}
		price = p
	}

	item := models.InventoryItem{
		SKU:       in.SKU,
		Name:      in.Name,
		Spec:      strings.TrimSpace(in.Spec),
		Quantity:  in.Quantity,
		UnitPrice: price,
	}
	if err := s.store.CreateItem(ctx, st.Tenant(), item); err != nil {
		return models.InventoryItem{}, fmt.Errorf("create item %q: %w", item.SKU, err)
	}

	s.logger.Info("inventory item created", zap.String("tenant", st.Tenant()), zap.String("sku", item.SKU))
	return item, nil
}

func (s *Service) apply(ctx context.Context, st session.State, sku string, delta int, reason models.MovementReason, note string) (models.InventoryItem, error) {
	mv := models.StockMovement{
		ID:        uuid.NewString(),
		SKU:       sku,
		Delta:     delta,
		Reason:    reason,
		Note:      strings.TrimSpace(note),
		Actor:     st.User.ID,
		CreatedAt: s.now(),
	}

	item, err := s.store.ApplyMovement(ctx, st.Tenant(), mv)
	if err != nil {
		if errors.Is(err, models.ErrInsufficientStock) {
			s.logger.Info("stock movement rejected",
				zap.String("sku", sku),
				zap.Int("delta", delta),
				zap.Int("quantity", item.Quantity),
			)
		}
		return models.InventoryItem{}, fmt.Errorf("apply movement to %q: %w", sku, err)
	}

	metrics.IncrementStockMovement(string(reason))
	s.logger.Info("stock movement applied",
		zap.String("tenant", st.Tenant()),
		zap.String("sku", sku),
		zap.Int("delta", delta),
		zap.String("reason", string(reason)),
		zap.Int("quantity", item.Quantity),
		zap.String("actor", st.User.ID),
	)
	return item, nil
}
