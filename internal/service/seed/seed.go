package seed

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/nccfarm/internal/config"
	"github.com/mamadbah2/nccfarm/internal/domain/models"
	"github.com/mamadbah2/nccfarm/internal/repository"
	"github.com/mamadbah2/nccfarm/internal/table"
)

// Header aliases accepted in legacy files, English and Chinese.
var (
	skuColumns      = []string{"SKU", "编号", "物料编码"}
	nameColumns     = []string{"Name", "名称", "物资名称"}
	specColumns     = []string{"Spec", "规格"}
	quantityColumns = []string{"Quantity", "Qty", "库存", "数量"}
	priceColumns    = []string{"Unit Price", "Price", "单价"}

	taskColumns    = []string{"Task", "Name", "任务"}
	periodColumns  = []string{"Period", "周期"}
	quarterColumns = []string{"Quarter", "季度"}
	dueColumns     = []string{"Due Date", "Due", "截止日期"}
	doneColumns    = []string{"Done", "Status", "状态"}
)

// TableLoader reads the optional legacy CSV files.
type TableLoader interface {
	LoadFile(path string) table.Table
}

// Service fills a workspace with its initial collections exactly once.
type Service struct {
	store  repository.Store
	loader TableLoader
	files  config.DataConfig
	logger *zap.Logger
	now    func() time.Time

	mu       sync.RWMutex
	warnings map[string][]string
}

// NewService wires a seeder.
func NewService(store repository.Store, loader TableLoader, files config.DataConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		loader:   loader,
		files:    files,
		logger:   logger,
		now:      time.Now,
		warnings: make(map[string][]string),
	}
}

// Warnings returns the data-load warnings raised while seeding tenant.
func (s *Service) Warnings(tenant string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.warnings[tenant]...)
}

// EnsureSeeded populates the tenant on its first use. Later calls are no-ops.
// A failed attempt leaves the tenant unseeded so the next login retries; rows
// written by the failed attempt are kept and not duplicated.
func (s *Service) EnsureSeeded(ctx context.Context, tenant string) error {
	first, err := s.store.ClaimSeed(ctx, tenant)
	if err != nil {
		return fmt.Errorf("claim seed: %w", err)
	}
	if !first {
		return nil
	}

	s.logger.Info("seeding workspace", zap.String("tenant", tenant))
	warnings, err := s.seed(ctx, tenant)
	if err != nil {
		if relErr := s.store.ReleaseSeed(context.WithoutCancel(ctx), tenant); relErr != nil {
			s.logger.Error("failed to release seed claim", zap.String("tenant", tenant), zap.Error(relErr))
		}
		return err
	}
	if err := s.store.CommitSeed(ctx, tenant); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}

	s.mu.Lock()
	s.warnings[tenant] = warnings
	s.mu.Unlock()

	return nil
}

func (s *Service) seed(ctx context.Context, tenant string) ([]string, error) {
	today := models.DateOnly(s.now())

	var warnings []string
	items, warn := s.inventory()
	if warn != "" {
		warnings = append(warnings, warn)
	}
	for _, it := range items {
		if err := s.store.CreateItem(ctx, tenant, it); err != nil {
			s.logger.Warn("skip seed item", zap.String("sku", it.SKU), zap.Error(err))
		}
	}

	tasks, warn := s.maintenance(today)
	if warn != "" {
		warnings = append(warnings, warn)
	}
	existingTasks, err := s.store.ListTasks(ctx, tenant)
	if err != nil {
		return nil, fmt.Errorf("list seeded tasks: %w", err)
	}
	haveTask := names(existingTasks, func(t models.MaintenanceTask) string { return t.Name })
	for _, t := range tasks {
		if haveTask[t.Name] {
			continue
		}
		if _, err := s.store.CreateTask(ctx, tenant, t); err != nil {
			return nil, fmt.Errorf("seed maintenance task %q: %w", t.Name, err)
		}
	}

	existingProjects, err := s.store.ListProjects(ctx, tenant)
	if err != nil {
		return nil, fmt.Errorf("list seeded projects: %w", err)
	}
	haveProject := names(existingProjects, func(p models.Project) string { return p.Name })
	for _, p := range demoProjects(today) {
		if haveProject[p.Name] {
			continue
		}
		if _, err := s.store.CreateProject(ctx, tenant, p); err != nil {
			return nil, fmt.Errorf("seed project %q: %w", p.Name, err)
		}
	}

	existingContacts, err := s.store.ListContacts(ctx, tenant)
	if err != nil {
		return nil, fmt.Errorf("list seeded contacts: %w", err)
	}
	haveContact := names(existingContacts, func(c models.Contact) string { return c.Name + "\x00" + c.Phone })
	for _, c := range demoContacts() {
		if haveContact[c.Name+"\x00"+c.Phone] {
			continue
		}
		if err := s.store.CreateContact(ctx, tenant, c); err != nil {
			return nil, fmt.Errorf("seed contact %q: %w", c.Name, err)
		}
	}

	return warnings, nil
}

func names[T any](rows []T, key func(T) string) map[string]bool {
	out := make(map[string]bool, len(rows))
	for _, r := range rows {
		out[key(r)] = true
	}
	return out
}

// inventory prefers the legacy file and falls back to demo items.
func (s *Service) inventory() ([]models.InventoryItem, string) {
	if s.loader == nil || s.files.InventoryCSVPath == "" {
		return demoItems(), ""
	}

	t := s.loader.LoadFile(s.files.InventoryCSVPath)
	if t.Warning != "" {
		return demoItems(), "inventory: " + t.Warning
	}

	items := ItemsFromTable(t, s.logger)
	if len(items) == 0 {
		return demoItems(), "inventory: file has no usable rows"
	}
	return items, ""
}

func (s *Service) maintenance(today time.Time) ([]models.MaintenanceTask, string) {
	if s.loader == nil || s.files.MaintenanceCSVPath == "" {
		return demoTasks(today), ""
	}

	t := s.loader.LoadFile(s.files.MaintenanceCSVPath)
	if t.Warning != "" {
		return demoTasks(today), "maintenance: " + t.Warning
	}

	tasks := TasksFromTable(t, s.logger)
	if len(tasks) == 0 {
		return demoTasks(today), "maintenance: file has no usable rows"
	}
	return tasks, ""
}

// ItemsFromTable maps a legacy inventory table to items, skipping rows
// without a name, with a bad quantity, or repeating an earlier SKU.
func ItemsFromTable(t table.Table, logger *zap.Logger) []models.InventoryItem {
	if logger == nil {
		logger = zap.NewNop()
	}

	skuIdx := t.Index(skuColumns...)
	nameIdx := t.Index(nameColumns...)
	specIdx := t.Index(specColumns...)
	qtyIdx := t.Index(quantityColumns...)
	priceIdx := t.Index(priceColumns...)

	seen := make(map[string]struct{})
	var out []models.InventoryItem
	for i, row := range t.Rows {
		name := table.Value(row, nameIdx)
		if name == "" {
			logger.Debug("skip inventory row without name", zap.Int("row", i+1))
			continue
		}

		sku := table.Value(row, skuIdx)
		if sku == "" {
			sku = fmt.Sprintf("ITEM-%03d", i+1)
		}
		if _, dup := seen[sku]; dup {
			logger.Warn("skip duplicate sku", zap.String("sku", sku), zap.Int("row", i+1))
			continue
		}

		qty := 0
		if v := table.Value(row, qtyIdx); v != "" {
			n, err := strconv.Atoi(strings.TrimSuffix(v, ".0"))
			if err != nil || n < 0 {
				logger.Debug("skip inventory row with invalid quantity", zap.String("value", v), zap.Int("row", i+1))
				continue
			}
			qty = n
		}

		price := decimal.Zero
		if v := table.Value(row, priceIdx); v != "" {
			p, err := decimal.NewFromString(v)
			if err != nil {
				logger.Debug("skip inventory row with invalid price", zap.String("value", v), zap.Int("row", i+1))
				continue
			}
			price = p
		}

		seen[sku] = struct{}{}
		out = append(out, models.InventoryItem{
			SKU:       sku,
			Name:      name,
			Spec:      table.Value(row, specIdx),
			Quantity:  qty,
			UnitPrice: price,
		})
	}
	return out
}

// TasksFromTable maps a legacy maintenance-plan table to tasks, skipping rows
// without a name or a parseable due date.
func TasksFromTable(t table.Table, logger *zap.Logger) []models.MaintenanceTask {
	if logger == nil {
		logger = zap.NewNop()
	}

	nameIdx := t.Index(taskColumns...)
	periodIdx := t.Index(periodColumns...)
	quarterIdx := t.Index(quarterColumns...)
	dueIdx := t.Index(dueColumns...)
	doneIdx := t.Index(doneColumns...)

	var out []models.MaintenanceTask
	for i, row := range t.Rows {
		name := table.Value(row, nameIdx)
		if name == "" {
			continue
		}

		due, err := models.ParseDate(table.Value(row, dueIdx))
		if err != nil {
			logger.Debug("skip maintenance row with invalid due date", zap.Int("row", i+1), zap.Error(err))
			continue
		}

		period, ok := models.ParsePeriod(table.Value(row, periodIdx))
		if !ok {
			period = models.PeriodMonthly
		}

		quarter := table.Value(row, quarterIdx)
		if quarter == "" {
			quarter = models.QuarterLabel(due)
		}

		out = append(out, models.MaintenanceTask{
			Name:    name,
			Period:  period,
			Quarter: quarter,
			DueDate: due,
			Done:    isDone(table.Value(row, doneIdx)),
		})
	}
	return out
}

func isDone(value string) bool {
	switch strings.ToLower(value) {
	case "done", "true", "yes", "1", "完成", "已完成":
		return true
	default:
		return false
	}
}
