package purchase

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/nccfarm/internal/domain/models"
	"github.com/mamadbah2/nccfarm/internal/export"
	"github.com/mamadbah2/nccfarm/internal/metrics"
	"github.com/mamadbah2/nccfarm/internal/repository"
	"github.com/mamadbah2/nccfarm/internal/repository/sheets"
	"github.com/mamadbah2/nccfarm/internal/session"
	"github.com/mamadbah2/nccfarm/internal/validation"
)

// Supported export formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var contentTypes = map[string]string{
	FormatCSV:  "text/csv; charset=utf-8",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// RowInput is one line typed into the request form.
type RowInput struct {
	Name      string `json:"name" validate:"required,max=120"`
	Spec      string `json:"spec" validate:"max=200"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
	SKU       string `json:"sku" validate:"max=64"`
	Link      string `json:"link" validate:"omitempty,url"`
	Requester string `json:"requester" validate:"max=64"`
}

// File is a rendered export ready to download.
type File struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Service implements the purchase request screen. It only reads inventory.
type Service struct {
	items  repository.InventoryStore
	sheet  sheets.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a purchase service. sheet may be nil when Google Sheets is
// not configured.
func NewService(items repository.InventoryStore, sheet sheets.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{items: items, sheet: sheet, logger: logger, now: time.Now}
}

// View renders the scratch rows with line totals and the grand total.
func (s *Service) View(ctx context.Context, st session.State) (models.PurchaseRequestView, error) {
	if err := st.RequireLogin(); err != nil {
		return models.PurchaseRequestView{}, err
	}

	prices, err := s.priceBook(ctx, st.Tenant())
	if err != nil {
		return models.PurchaseRequestView{}, err
	}

	rows := make([]models.PurchaseLineView, 0, len(st.PurchaseDraft))
	for i, r := range st.PurchaseDraft {
		_, matched := prices[r.Name]
		rows = append(rows, models.PurchaseLineView{
			PurchaseRequestRow: r,
			Index:              i,
			Amount:             r.LineTotal(),
			Matched:            matched,
		})
	}

	return models.PurchaseRequestView{
		Screen: models.ScreenPurchaseRequest,
		Rows:   rows,
		Total:  models.PurchaseTotal(st.PurchaseDraft),
	}, nil
}

// AddRow appends a request line, pricing it from inventory.
func (s *Service) AddRow(ctx context.Context, st *session.State, in RowInput) error {
	row, err := s.row(ctx, *st, in)
	if err != nil {
		return err
	}
	st.PurchaseDraft = append(st.PurchaseDraft, row)
	return nil
}

// UpdateRow replaces the request line at index, pricing it again.
func (s *Service) UpdateRow(ctx context.Context, st *session.State, index int, in RowInput) error {
	if err := st.RequireLogin(); err != nil {
		return err
	}
	if index < 0 || index >= len(st.PurchaseDraft) {
		return fmt.Errorf("purchase row %d: %w", index, models.ErrIndexOutOfRange)
	}

	row, err := s.row(ctx, *st, in)
	if err != nil {
		return err
	}
	st.PurchaseDraft[index] = row
	return nil
}

// RemoveRow drops the request line at index.
func (s *Service) RemoveRow(st *session.State, index int) error {
	if err := st.RequireLogin(); err != nil {
		return err
	}
	if index < 0 || index >= len(st.PurchaseDraft) {
		return fmt.Errorf("purchase row %d: %w", index, models.ErrIndexOutOfRange)
	}
	st.PurchaseDraft = append(st.PurchaseDraft[:index], st.PurchaseDraft[index+1:]...)
	return nil
}

// Export renders the scratch rows in format, appends them to the purchase
// sheet when one is configured and clears the scratch rows.
func (s *Service) Export(ctx context.Context, st *session.State, format string) (File, error) {
	if err := st.RequireLogin(); err != nil {
		return File{}, err
	}

	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatCSV
	}
	contentType, ok := contentTypes[format]
	if !ok {
		return File{}, models.NewValidationError("format", "must be one of [csv xlsx]")
	}
	if len(st.PurchaseDraft) == 0 {
		return File{}, models.NewValidationError("rows", "is required")
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case FormatXLSX:
		err = export.WriteXLSX(&buf, st.PurchaseDraft)
	default:
		err = export.WriteCSV(&buf, st.PurchaseDraft)
	}
	if err != nil {
		metrics.IncrementPurchaseExport(format, "failed")
		return File{}, fmt.Errorf("render %s export: %w", format, err)
	}

	if s.sheet != nil {
		if err := s.sheet.AppendRows(ctx, sheets.PurchaseRequestRange, s.sheetRows(st.PurchaseDraft)); err != nil {
			s.logger.Warn("purchase request not appended to sheet", zap.String("tenant", st.Tenant()), zap.Error(err))
		}
	}

	metrics.IncrementPurchaseExport(format, "success")
	s.logger.Info("purchase request exported",
		zap.String("tenant", st.Tenant()),
		zap.String("format", format),
		zap.Int("rows", len(st.PurchaseDraft)),
		zap.String("total", models.PurchaseTotal(st.PurchaseDraft).StringFixed(2)),
	)

	st.PurchaseDraft = nil
	return File{
		Filename:    export.Filename(format),
		ContentType: contentType,
		Body:        buf.Bytes(),
	}, nil
}

func (s *Service) row(ctx context.Context, st session.State, in RowInput) (models.PurchaseRequestRow, error) {
	if err := st.RequireLogin(); err != nil {
		return models.PurchaseRequestRow{}, err
	}

	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return models.PurchaseRequestRow{}, err
	}

	prices, err := s.priceBook(ctx, st.Tenant())
	if err != nil {
		return models.PurchaseRequestRow{}, err
	}

	requester := strings.TrimSpace(in.Requester)
	if requester == "" {
		requester = st.User.ID
	}
	return models.PurchaseRequestRow{
		Name:      in.Name,
		Spec:      strings.TrimSpace(in.Spec),
		Quantity:  in.Quantity,
		SKU:       strings.TrimSpace(in.SKU),
		Link:      strings.TrimSpace(in.Link),
		UnitPrice: prices[in.Name],
		Requester: requester,
	}, nil
}

// priceBook maps item names to the unit price of the first item carrying
// that exact name.
func (s *Service) priceBook(ctx context.Context, tenant string) (map[string]decimal.Decimal, error) {
	items, err := s.items.ListItems(ctx, tenant)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	prices := make(map[string]decimal.Decimal, len(items))
	for _, it := range items {
		if _, seen := prices[it.Name]; !seen {
			prices[it.Name] = it.UnitPrice
		}
	}
	return prices, nil
}

func (s *Service) sheetRows(rows []models.PurchaseRequestRow) [][]interface{} {
	stamp := s.now().Format(models.DateLayout)
	records := export.Records(rows)

	out := make([][]interface{}, 0, len(records))
	for _, rec := range records {
		row := make([]interface{}, 0, len(rec)+1)
		row = append(row, stamp)
		for _, cell := range rec {
			row = append(row, cell)
		}
		out = append(out, row)
	}
	return out
}
