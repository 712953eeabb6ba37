package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/nccfarm/internal/service/auth"
	"github.com/mamadbah2/nccfarm/internal/session"
)

// AuthService logs sessions in and out.
type AuthService interface {
	Login(ctx context.Context, st *session.State, in auth.LoginInput) error
	Logout(st *session.State)
}

// Navigator moves sessions between screens and renders them.
type Navigator interface {
	Navigate(st *session.State, target string) error
	Render(ctx context.Context, st session.State) (any, error)
}

// ScreenHandler serves login, logout and generic screen navigation.
type ScreenHandler struct {
	auth     AuthService
	nav      Navigator
	sessions *Sessions
	logger   *zap.Logger
}

// NewScreenHandler constructs the HTTP handler adapter.
func NewScreenHandler(authSvc AuthService, nav Navigator, sessions *Sessions, logger *zap.Logger) *ScreenHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScreenHandler{auth: authSvc, nav: nav, sessions: sessions, logger: logger}
}

type navigateRequest struct {
	Screen string `json:"screen" binding:"required"`
}

// Login authenticates the session and renders its landing screen.
func (h *ScreenHandler) Login(c *gin.Context) {
	var in auth.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c, h.logger, err)
		return
	}

	st := current(c)
	if err := h.auth.Login(c.Request.Context(), st, in); err != nil {
		fail(c, h.logger, err)
		return
	}
	if err := h.sessions.Refresh(c, *st); err != nil {
		fail(c, h.logger, err)
		return
	}
	h.render(c, http.StatusOK)
}

// Logout drops the session and renders the login screen.
func (h *ScreenHandler) Logout(c *gin.Context) {
	st := current(c)
	h.auth.Logout(st)
	h.sessions.Forget(c, st)
	h.render(c, http.StatusOK)
}

// Screen renders the session's current screen.
func (h *ScreenHandler) Screen(c *gin.Context) {
	h.render(c, http.StatusOK)
}

// Navigate switches the current screen and renders it.
func (h *ScreenHandler) Navigate(c *gin.Context) {
	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, h.logger, err)
		return
	}

	if err := h.nav.Navigate(current(c), req.Screen); err != nil {
		fail(c, h.logger, err)
		return
	}
	h.render(c, http.StatusOK)
}

func (h *ScreenHandler) render(c *gin.Context, status int) {
	view, err := h.nav.Render(c.Request.Context(), *current(c))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(status, view)
}
