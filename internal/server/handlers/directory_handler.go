package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/nccfarm/internal/domain/models"
	"github.com/mamadbah2/nccfarm/internal/service/alerts"
	"github.com/mamadbah2/nccfarm/internal/session"
)

// DirectoryService renders contacts and the profile.
type DirectoryService interface {
	Contacts(ctx context.Context, st session.State) (models.ContactsView, error)
	Profile(ctx context.Context, st session.State) (models.ProfileView, error)
}

// AlertService reports the session workspace's alerts.
type AlertService interface {
	ForSession(ctx context.Context, st session.State) (alerts.TenantDigest, error)
}

// DirectoryHandler serves contacts, profile and alerts.
type DirectoryHandler struct {
	svc    DirectoryService
	alerts AlertService
	logger *zap.Logger
}

// NewDirectoryHandler constructs the HTTP handler adapter.
func NewDirectoryHandler(svc DirectoryService, alertSvc AlertService, logger *zap.Logger) *DirectoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryHandler{svc: svc, alerts: alertSvc, logger: logger}
}

func (h *DirectoryHandler) Contacts(c *gin.Context) {
	st := current(c)
	view, err := h.svc.Contacts(c.Request.Context(), *st)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	st.Screen = models.ScreenContacts
	c.JSON(http.StatusOK, view)
}

func (h *DirectoryHandler) Profile(c *gin.Context) {
	st := current(c)
	view, err := h.svc.Profile(c.Request.Context(), *st)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	st.Screen = models.ScreenProfile
	c.JSON(http.StatusOK, view)
}

// Alerts returns late milestones and overdue tasks of the workspace.
func (h *DirectoryHandler) Alerts(c *gin.Context) {
	digest, err := h.alerts.ForSession(c.Request.Context(), *current(c))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, digest)
}
