package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/nccfarm/internal/domain/models"
	"github.com/mamadbah2/nccfarm/internal/service/projects"
	"github.com/mamadbah2/nccfarm/internal/session"
)

// ProjectService describes the project operations the HTTP layer performs.
type ProjectService interface {
	Search(ctx context.Context, st *session.State, query string) (models.ProjectListView, error)
	Select(ctx context.Context, st *session.State, id int) error
	CreateForm(ctx context.Context, st session.State) (models.ProjectCreateView, error)
	AddDraftMilestone(st *session.State) error
	UpdateDraftMilestone(st *session.State, index int, in projects.MilestoneInput) error
	RemoveDraftMilestone(st *session.State, index int) error
	Create(ctx context.Context, st *session.State, in projects.CreateInput) (models.Project, error)
	Detail(ctx context.Context, st session.State) (models.ProjectDetailView, error)
	DetailByID(ctx context.Context, st session.State, id int) (models.ProjectDetailView, error)
	SetMilestoneDone(ctx context.Context, st session.State, id, index int, done bool) (models.ProjectDetailView, error)
}

// ProjectHandler serves the project screens.
type ProjectHandler struct {
	svc    ProjectService
	logger *zap.Logger
}

// NewProjectHandler constructs the HTTP handler adapter.
func NewProjectHandler(svc ProjectService, logger *zap.Logger) *ProjectHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectHandler{svc: svc, logger: logger}
}

type toggleRequest struct {
	Done *bool `json:"done" binding:"required"`
}

// List returns the project list filtered by the q query parameter.
func (h *ProjectHandler) List(c *gin.Context) {
	st := current(c)
	view, err := h.svc.Search(c.Request.Context(), st, c.Query("q"))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	st.Screen = models.ScreenProjectList
	c.JSON(http.StatusOK, view)
}

// Select opens a project's detail screen.
func (h *ProjectHandler) Select(c *gin.Context) {
	id, err := intParam(c, "id")
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	st := current(c)
	if err := h.svc.Select(c.Request.Context(), st, id); err != nil {
		fail(c, h.logger, err)
		return
	}
	h.detail(c, http.StatusOK)
}

// Draft returns the create form with its scratch milestones.
func (h *ProjectHandler) Draft(c *gin.Context) {
	st := current(c)
	st.Screen = models.ScreenProjectCreate
	h.draft(c)
}

// AddMilestone appends a blank scratch milestone.
func (h *ProjectHandler) AddMilestone(c *gin.Context) {
	st := current(c)
	if err := h.svc.AddDraftMilestone(st); err != nil {
		fail(c, h.logger, err)
		return
	}
	st.Screen = models.ScreenProjectCreate
	h.draft(c)
}

// UpdateMilestone edits a scratch milestone.
func (h *ProjectHandler) UpdateMilestone(c *gin.Context) {
	index, err := intParam(c, "index")
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	var in projects.MilestoneInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c, h.logger, err)
		return
	}

	if err := h.svc.UpdateDraftMilestone(current(c), index, in); err != nil {
		fail(c, h.logger, err)
		return
	}
	h.draft(c)
}

// RemoveMilestone drops a scratch milestone.
func (h *ProjectHandler) RemoveMilestone(c *gin.Context) {
	index, err := intParam(c, "index")
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	if err := h.svc.RemoveDraftMilestone(current(c), index); err != nil {
		fail(c, h.logger, err)
		return
	}
	h.draft(c)
}

// Create stores a project from the form and the scratch milestones.
func (h *ProjectHandler) Create(c *gin.Context) {
	var in projects.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c, h.logger, err)
		return
	}

	if _, err := h.svc.Create(c.Request.Context(), current(c), in); err != nil {
		fail(c, h.logger, err)
		return
	}
	h.detail(c, http.StatusCreated)
}

// Get returns a project's detail without changing the selection.
func (h *ProjectHandler) Get(c *gin.Context) {
	id, err := intParam(c, "id")
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	view, err := h.svc.DetailByID(c.Request.Context(), *current(c), id)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ToggleMilestone sets a milestone's done flag.
func (h *ProjectHandler) ToggleMilestone(c *gin.Context) {
	id, err := intParam(c, "id")
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	index, err := intParam(c, "index")
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, h.logger, err)
		return
	}

	view, err := h.svc.SetMilestoneDone(c.Request.Context(), *current(c), id, index, *req.Done)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *ProjectHandler) draft(c *gin.Context) {
	view, err := h.svc.CreateForm(c.Request.Context(), *current(c))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *ProjectHandler) detail(c *gin.Context, status int) {
	view, err := h.svc.Detail(c.Request.Context(), *current(c))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(status, view)
}
