package projects

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/nccfarm/internal/domain/models"
	"github.com/mamadbah2/nccfarm/internal/repository"
	"github.com/mamadbah2/nccfarm/internal/session"
	"github.com/mamadbah2/nccfarm/internal/table"
	"github.com/mamadbah2/nccfarm/internal/validation"
)

// CreateInput is the project form submitted together with the scratch milestones.
type CreateInput struct {
	Name        string   `json:"name" validate:"required,max=120"`
	Description string   `json:"description" validate:"max=2000"`
	Leader      string   `json:"leader" validate:"required"`
	Members     []string `json:"members"`
	Status      string   `json:"status" validate:"omitempty,oneof=planning in_progress on_hold completed"`
}

// MilestoneInput edits one scratch milestone row.
type MilestoneInput struct {
	TimeLabel string `json:"time_label" validate:"max=120"`
	Content   string `json:"content" validate:"max=500"`
	Start     string `json:"start" validate:"omitempty,datetime=2006-01-02"`
	End       string `json:"end" validate:"omitempty,datetime=2006-01-02"`
	Done      bool   `json:"done"`
}

// Service implements the project list, create and detail screens.
type Service struct {
	store  repository.ProjectStore
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a project service.
func NewService(store repository.ProjectStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// List renders the project list for the session's last query.
func (s *Service) List(ctx context.Context, st session.State) (models.ProjectListView, error) {
	return s.Search(ctx, &st, st.ProjectQuery)
}

// Search lists projects oldest first, keeping those with a cell that contains
// query case-insensitively, and remembers the query on the session.
func (s *Service) Search(ctx context.Context, st *session.State, query string) (models.ProjectListView, error) {
	if err := st.RequireLogin(); err != nil {
		return models.ProjectListView{}, err
	}

	projects, err := s.store.ListProjects(ctx, st.Tenant())
	if err != nil {
		return models.ProjectListView{}, fmt.Errorf("list projects: %w", err)
	}
	models.SortProjectsByCreated(projects)
	st.ProjectQuery = query
	projects = table.Filter(projects, models.Project.Cells, query)

	rows := make([]models.ProjectRow, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, models.ProjectRow{
			ID:                 p.ID,
			Name:               p.Name,
			Leader:             p.Leader,
			Status:             p.Status,
			Progress:           p.Progress(),
			ExpectedCompletion: p.ExpectedCompletion(),
			CreatedAt:          p.CreatedAt.Format(models.DateLayout),
		})
	}
	return models.ProjectListView{Screen: models.ScreenProjectList, Query: query, Projects: rows}, nil
}

// Select opens the detail screen of an existing project.
func (s *Service) Select(ctx context.Context, st *session.State, id int) error {
	if err := st.RequireLogin(); err != nil {
		return err
	}
	if _, err := s.store.GetProject(ctx, st.Tenant(), id); err != nil {
		return fmt.Errorf("select project %d: %w", id, err)
	}

	st.SelectedProject = id
	st.Screen = models.ScreenProjectDetail
	return nil
}

// CreateForm renders the create screen with the current scratch rows.
func (s *Service) CreateForm(_ context.Context, st session.State) (models.ProjectCreateView, error) {
	if err := st.RequireLogin(); err != nil {
		return models.ProjectCreateView{}, err
	}

	draft := st.MilestoneDraft
	if draft == nil {
		draft = []models.Milestone{}
	}
	return models.ProjectCreateView{
		Screen: models.ScreenProjectCreate,
		Draft:  draft,
		Statuses: []models.ProjectStatus{
			models.ProjectPlanning,
			models.ProjectInProgress,
			models.ProjectOnHold,
			models.ProjectCompleted,
		},
	}, nil
}

// AddDraftMilestone appends a blank scratch row.
func (s *Service) AddDraftMilestone(st *session.State) error {
	if err := st.RequireLogin(); err != nil {
		return err
	}
	st.MilestoneDraft = append(st.MilestoneDraft, models.Milestone{})
	return nil
}

// UpdateDraftMilestone replaces the scratch row at index.
func (s *Service) UpdateDraftMilestone(st *session.State, index int, in MilestoneInput) error {
	if err := st.RequireLogin(); err != nil {
		return err
	}
	if index < 0 || index >= len(st.MilestoneDraft) {
		return fmt.Errorf("milestone row %d: %w", index, models.ErrIndexOutOfRange)
	}

	m, err := parseMilestone(in)
	if err != nil {
		return err
	}
	st.MilestoneDraft[index] = m
	return nil
}

// RemoveDraftMilestone drops the scratch row at index.
func (s *Service) RemoveDraftMilestone(st *session.State, index int) error {
	if err := st.RequireLogin(); err != nil {
		return err
	}
	if index < 0 || index >= len(st.MilestoneDraft) {
		return fmt.Errorf("milestone row %d: %w", index, models.ErrIndexOutOfRange)
	}
	st.MilestoneDraft = append(st.MilestoneDraft[:index], st.MilestoneDraft[index+1:]...)
	return nil
}

// Create stores a new project from the form and the scratch rows, clears the
// scratch rows and opens the new project's detail screen. Rows left entirely
// blank are dropped.
func (s *Service) Create(ctx context.Context, st *session.State, in CreateInput) (models.Project, error) {
	if err := st.RequireLogin(); err != nil {
		return models.Project{}, err
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Leader = strings.TrimSpace(in.Leader)
	if err := validation.Struct(in); err != nil {
		return models.Project{}, err
	}
	status, _ := models.ParseProjectStatus(in.Status)

	nodes := make([]models.Milestone, 0, len(st.MilestoneDraft))
	invalid := make(map[string]string)
	for i, m := range st.MilestoneDraft {
		if strings.TrimSpace(m.TimeLabel) == "" && strings.TrimSpace(m.Content) == "" && m.Start == nil && m.End == nil {
			continue
		}
		if strings.TrimSpace(m.Content) == "" {
			invalid[fmt.Sprintf("milestones[%d].content", i)] = "is required"
			continue
		}
		nodes = append(nodes, m)
	}
	if len(invalid) > 0 {
		return models.Project{}, &models.ValidationError{Fields: invalid}
	}

	project, err := s.store.CreateProject(ctx, st.Tenant(), models.Project{
		Name:        in.Name,
		Description: strings.TrimSpace(in.Description),
		Leader:      in.Leader,
		Members:     models.NormalizeMembers(in.Members),
		Nodes:       nodes,
		Status:      status,
		CreatedAt:   models.DateOnly(s.now()),
	})
	if err != nil {
		return models.Project{}, fmt.Errorf("create project: %w", err)
	}

	s.logger.Info("project created",
		zap.String("tenant", st.Tenant()),
		zap.Int("project_id", project.ID),
		zap.Int("milestones", len(nodes)),
	)

	st.MilestoneDraft = nil
	st.SelectedProject = project.ID
	st.Screen = models.ScreenProjectDetail
	return project, nil
}

// Detail renders the selected project.
func (s *Service) Detail(ctx context.Context, st session.State) (models.ProjectDetailView, error) {
	if err := st.RequireLogin(); err != nil {
		return models.ProjectDetailView{}, err
	}
	return s.detail(ctx, st.Tenant(), st.SelectedProject)
}

// DetailByID renders a project by id without changing the selection.
func (s *Service) DetailByID(ctx context.Context, st session.State, id int) (models.ProjectDetailView, error) {
	if err := st.RequireLogin(); err != nil {
		return models.ProjectDetailView{}, err
	}
	return s.detail(ctx, st.Tenant(), id)
}

// SetMilestoneDone marks or unmarks the milestone at index.
func (s *Service) SetMilestoneDone(ctx context.Context, st session.State, id, index int, done bool) (models.ProjectDetailView, error) {
	if err := st.RequireLogin(); err != nil {
		return models.ProjectDetailView{}, err
	}

	p, err := s.store.GetProject(ctx, st.Tenant(), id)
	if err != nil {
		return models.ProjectDetailView{}, fmt.Errorf("get project %d: %w", id, err)
	}
	if index < 0 || index >= len(p.Nodes) {
		return models.ProjectDetailView{}, fmt.Errorf("milestone %d of project %d: %w", index, id, models.ErrIndexOutOfRange)
	}

	p.Nodes[index].Done = done
	if err := s.store.UpdateProject(ctx, st.Tenant(), p); err != nil {
		return models.ProjectDetailView{}, fmt.Errorf("update project %d: %w", id, err)
	}

	s.logger.Info("milestone toggled",
		zap.String("tenant", st.Tenant()),
		zap.Int("project_id", id),
		zap.Int("index", index),
		zap.Bool("done", done),
		zap.String("actor", st.User.ID),
	)
	return s.view(p), nil
}

func (s *Service) detail(ctx context.Context, tenant string, id int) (models.ProjectDetailView, error) {
	p, err := s.store.GetProject(ctx, tenant, id)
	if err != nil {
		return models.ProjectDetailView{}, fmt.Errorf("get project %d: %w", id, err)
	}
	return s.view(p), nil
}

func (s *Service) view(p models.Project) models.ProjectDetailView {
	today := s.now()
	milestones := make([]models.MilestoneView, 0, len(p.Nodes))
	for i, m := range p.Nodes {
		mv := models.MilestoneView{Milestone: m, Index: i}
		if days, late := m.DaysOverdue(today); late {
			mv.Late = true
			mv.DaysOverdue = days
			mv.Warning = fmt.Sprintf("%d days overdue", days)
		}
		milestones = append(milestones, mv)
	}

	return models.ProjectDetailView{
		Screen:             models.ScreenProjectDetail,
		Project:            p,
		Progress:           p.Progress(),
		ExpectedCompletion: p.ExpectedCompletion(),
		Milestones:         milestones,
	}
}

func parseMilestone(in MilestoneInput) (models.Milestone, error) {
	if err := validation.Struct(in); err != nil {
		return models.Milestone{}, err
	}

	m := models.Milestone{
		TimeLabel: strings.TrimSpace(in.TimeLabel),
		Content:   strings.TrimSpace(in.Content),
		Done:      in.Done,
	}
	if in.Start != "" {
		t, err := models.ParseDate(in.Start)
		if err != nil {
			return models.Milestone{}, models.NewValidationError("start", "must be a date formatted as "+models.DateLayout)
		}
		m.Start = &t
	}
	if in.End != "" {
		t, err := models.ParseDate(in.End)
		if err != nil {
			return models.Milestone{}, models.NewValidationError("end", "must be a date formatted as "+models.DateLayout)
		}
		m.End = &t
	}
	if m.Start != nil && m.End != nil && m.End.Before(*m.Start) {
		return models.Milestone{}, models.NewValidationError("end", "must not be before start")
	}
	if m.TimeLabel == "" && m.Start != nil && m.End != nil {
		m.TimeLabel = m.Start.Format(models.DateLayout) + " ~ " + m.End.Format(models.DateLayout)
	}
	return m, nil
}
