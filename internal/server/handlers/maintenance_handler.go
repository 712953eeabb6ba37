package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/nccfarm/internal/domain/models"
	"github.com/mamadbah2/nccfarm/internal/service/maintenance"
	"github.com/mamadbah2/nccfarm/internal/session"
)

// MaintenanceService describes the maintenance board operations.
type MaintenanceService interface {
	Board(ctx context.Context, st session.State) (models.MaintenanceBoardView, error)
	Create(ctx context.Context, st session.State, in maintenance.TaskInput) (models.MaintenanceTask, error)
	SetDone(ctx context.Context, st session.State, id int, done bool) (models.MaintenanceTask, error)
}

// MaintenanceHandler serves the maintenance board.
type MaintenanceHandler struct {
	svc    MaintenanceService
	logger *zap.Logger
}

// NewMaintenanceHandler constructs the HTTP handler adapter.
func NewMaintenanceHandler(svc MaintenanceService, logger *zap.Logger) *MaintenanceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaintenanceHandler{svc: svc, logger: logger}
}

// Board lists overdue tasks first.
func (h *MaintenanceHandler) Board(c *gin.Context) {
	st := current(c)
	st.Screen = models.ScreenMaintenance
	h.board(c, http.StatusOK)
}

// Create adds a task.
func (h *MaintenanceHandler) Create(c *gin.Context) {
	var in maintenance.TaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c, h.logger, err)
		return
	}

	if _, err := h.svc.Create(c.Request.Context(), *current(c), in); err != nil {
		fail(c, h.logger, err)
		return
	}
	h.board(c, http.StatusCreated)
}

// Toggle sets a task's done flag.
func (h *MaintenanceHandler) Toggle(c *gin.Context) {
	id, err := intParam(c, "id")
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, h.logger, err)
		return
	}

	if _, err := h.svc.SetDone(c.Request.Context(), *current(c), id, *req.Done); err != nil {
		fail(c, h.logger, err)
		return
	}
	h.board(c, http.StatusOK)
}

func (h *MaintenanceHandler) board(c *gin.Context, status int) {
	view, err := h.svc.Board(c.Request.Context(), *current(c))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(status, view)
}
