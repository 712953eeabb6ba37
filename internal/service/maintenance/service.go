package maintenance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/nccfarm/internal/domain/models"
	"github.com/mamadbah2/nccfarm/internal/repository"
	"github.com/mamadbah2/nccfarm/internal/session"
	"github.com/mamadbah2/nccfarm/internal/validation"
)

// TaskInput creates a maintenance task.
type TaskInput struct {
	Name    string `json:"name" validate:"required,max=120"`
	Period  string `json:"period" validate:"omitempty,oneof=weekly monthly quarterly"`
	Quarter string `json:"quarter" validate:"max=16"`
	DueDate string `json:"due_date" validate:"required,datetime=2006-01-02"`
}

// Service implements the maintenance board.
type Service struct {
	store  repository.MaintenanceStore
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a maintenance service.
func NewService(store repository.MaintenanceStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// Rows returns every task of the tenant flagged with its overdue state, in
// stored order, and the number of overdue tasks.
func (s *Service) Rows(ctx context.Context, tenant string) ([]models.MaintenanceRow, int, error) {
	tasks, err := s.store.ListTasks(ctx, tenant)
	if err != nil {
		return nil, 0, fmt.Errorf("list maintenance tasks: %w", err)
	}

	today := s.now()
	rows := make([]models.MaintenanceRow, 0, len(tasks))
	overdue := 0
	for _, t := range tasks {
		late := t.IsOverdue(today)
		if late {
			overdue++
		}
		rows = append(rows, models.MaintenanceRow{MaintenanceTask: t, Overdue: late})
	}
	return rows, overdue, nil
}

// Board renders overdue tasks first, then the rest.
func (s *Service) Board(ctx context.Context, st session.State) (models.MaintenanceBoardView, error) {
	if err := st.RequireLogin(); err != nil {
		return models.MaintenanceBoardView{}, err
	}

	rows, _, err := s.Rows(ctx, st.Tenant())
	if err != nil {
		return models.MaintenanceBoardView{}, err
	}

	view := models.MaintenanceBoardView{
		Screen:  models.ScreenMaintenance,
		Overdue: []models.MaintenanceTask{},
		Others:  []models.MaintenanceTask{},
	}
	for _, r := range rows {
		if r.Overdue {
			view.Overdue = append(view.Overdue, r.MaintenanceTask)
		} else {
			view.Others = append(view.Others, r.MaintenanceTask)
		}
	}
	return view, nil
}

// Create adds a task. The quarter defaults to the due date's quarter and the
// period to monthly.
func (s *Service) Create(ctx context.Context, st session.State, in TaskInput) (models.MaintenanceTask, error) {
	if err := st.RequireLogin(); err != nil {
		return models.MaintenanceTask{}, err
	}

	in.Name = strings.TrimSpace(in.Name)
	in.DueDate = strings.TrimSpace(in.DueDate)
	if err := validation.Struct(in); err != nil {
		return models.MaintenanceTask{}, err
	}

	due, err := models.ParseDate(in.DueDate)
	if err != nil {
		return models.MaintenanceTask{}, models.NewValidationError("due_date", "must be a date formatted as "+models.DateLayout)
	}
	period, ok := models.ParsePeriod(in.Period)
	if !ok {
		period = models.PeriodMonthly
	}
	quarter := strings.TrimSpace(in.Quarter)
	if quarter == "" {
		quarter = models.QuarterLabel(due)
	}

	task, err := s.store.CreateTask(ctx, st.Tenant(), models.MaintenanceTask{
		Name:    in.Name,
		Period:  period,
		Quarter: quarter,
		DueDate: due,
	})
	if err != nil {
		return models.MaintenanceTask{}, fmt.Errorf("create maintenance task: %w", err)
	}

	s.logger.Info("maintenance task created", zap.String("tenant", st.Tenant()), zap.Int("task_id", task.ID))
	return task, nil
}

// SetDone marks or reopens a task, recording who closed it.
func (s *Service) SetDone(ctx context.Context, st session.State, id int, done bool) (models.MaintenanceTask, error) {
	if err := st.RequireLogin(); err != nil {
		return models.MaintenanceTask{}, err
	}

	task, err := s.store.GetTask(ctx, st.Tenant(), id)
	if err != nil {
		return models.MaintenanceTask{}, fmt.Errorf("get maintenance task %d: %w", id, err)
	}

	task.Done = done
	if done {
		at := s.now()
		task.DoneBy = st.User.ID
		task.DoneAt = &at
	} else {
		task.DoneBy = ""
		task.DoneAt = nil
	}

	if err := s.store.UpdateTask(ctx, st.Tenant(), task); err != nil {
		return models.MaintenanceTask{}, fmt.Errorf("update maintenance task %d: %w", id, err)
	}

	s.logger.Info("maintenance task toggled",
		zap.String("tenant", st.Tenant()),
		zap.Int("task_id", id),
		zap.Bool("done", done),
		zap.String("actor", st.User.ID),
	)
	return task, nil
}
