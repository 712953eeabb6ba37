package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/nccfarm/internal/domain/models"
	"github.com/mamadbah2/nccfarm/internal/service/purchase"
	"github.com/mamadbah2/nccfarm/internal/session"
)

// PurchaseService describes the purchase request operations the HTTP layer performs.
type PurchaseService interface {
	View(ctx context.Context, st session.State) (models.PurchaseRequestView, error)
	AddRow(ctx context.Context, st *session.State, in purchase.RowInput) error
	UpdateRow(ctx context.Context, st *session.State, index int, in purchase.RowInput) error
	RemoveRow(st *session.State, index int) error
	Export(ctx context.Context, st *session.State, format string) (purchase.File, error)
}

// PurchaseHandler serves the purchase request screen and its export.
type PurchaseHandler struct {
	svc    PurchaseService
	logger *zap.Logger
}

// NewPurchaseHandler constructs the HTTP handler adapter.
func NewPurchaseHandler(svc PurchaseService, logger *zap.Logger) *PurchaseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PurchaseHandler{svc: svc, logger: logger}
}

// Get returns the scratch rows and their total.
func (h *PurchaseHandler) Get(c *gin.Context) {
	current(c).Screen = models.ScreenPurchaseRequest
	h.view(c, http.StatusOK)
}

// AddRow appends a request line.
func (h *PurchaseHandler) AddRow(c *gin.Context) {
	var in purchase.RowInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c, h.logger, err)
		return
	}

	if err := h.svc.AddRow(c.Request.Context(), current(c), in); err != nil {
		fail(c, h.logger, err)
		return
	}
	h.view(c, http.StatusCreated)
}

// UpdateRow replaces a request line.
func (h *PurchaseHandler) UpdateRow(c *gin.Context) {
	index, err := intParam(c, "index")
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	var in purchase.RowInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c, h.logger, err)
		return
	}

	if err := h.svc.UpdateRow(c.Request.Context(), current(c), index, in); err != nil {
		fail(c, h.logger, err)
		return
	}
	h.view(c, http.StatusOK)
}

// RemoveRow drops a request line.
func (h *PurchaseHandler) RemoveRow(c *gin.Context) {
	index, err := intParam(c, "index")
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	if err := h.svc.RemoveRow(current(c), index); err != nil {
		fail(c, h.logger, err)
		return
	}
	h.view(c, http.StatusOK)
}

// Export downloads the request as CSV or XLSX.
func (h *PurchaseHandler) Export(c *gin.Context) {
	file, err := h.svc.Export(c.Request.Context(), current(c), c.DefaultQuery("format", purchase.FormatCSV))
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", file.Filename, url.PathEscape(file.Filename)))
	c.Data(http.StatusOK, file.ContentType, file.Body)
}

func (h *PurchaseHandler) view(c *gin.Context, status int) {
	view, err := h.svc.View(c.Request.Context(), *current(c))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(status, view)
}
