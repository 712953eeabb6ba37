package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/nccfarm/internal/domain/models"
	"github.com/mamadbah2/nccfarm/internal/service/inventory"
	"github.com/mamadbah2/nccfarm/internal/session"
)

// InventoryService describes the inventory operations the HTTP layer performs.
type InventoryService interface {
	Search(ctx context.Context, st *session.State, query string) (models.InventoryListView, error)
	Select(ctx context.Context, st *session.State, sku string) error
	DetailBySKU(ctx context.Context, st session.State, sku string) (models.InventoryDetailView, error)
	Adjust(ctx context.Context, st session.State, sku string, in inventory.AdjustInput) (models.InventoryItem, error)
	Issue(ctx context.Context, st session.State, sku string, in inventory.IssueInput) (models.InventoryItem, error)
	CreateItem(ctx context.Context, st session.State, in inventory.ItemInput) (models.InventoryItem, error)
}

// InventoryHandler serves the inventory screens.
type InventoryHandler struct {
	svc    InventoryService
	logger *zap.Logger
}

// NewInventoryHandler constructs the HTTP handler adapter.
func NewInventoryHandler(svc InventoryService, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{svc: svc, logger: logger}
}

// Search filters items by the q query parameter.
func (h *InventoryHandler) Search(c *gin.Context) {
	st := current(c)
	view, err := h.svc.Search(c.Request.Context(), st, c.Query("q"))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	st.Screen = models.ScreenInventoryList
	c.JSON(http.StatusOK, view)
}

// Create adds an item.
func (h *InventoryHandler) Create(c *gin.Context) {
	var in inventory.ItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c, h.logger, err)
		return
	}

	item, err := h.svc.CreateItem(c.Request.Context(), *current(c), in)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// Get opens an item's detail screen.
func (h *InventoryHandler) Get(c *gin.Context) {
	st := current(c)
	sku := c.Param("sku")
	if err := h.svc.Select(c.Request.Context(), st, sku); err != nil {
		fail(c, h.logger, err)
		return
	}
	h.detail(c, sku)
}

// Adjust applies a signed stock change.
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var in inventory.AdjustInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c, h.logger, err)
		return
	}

	sku := c.Param("sku")
	if _, err := h.svc.Adjust(c.Request.Context(), *current(c), sku, in); err != nil {
		fail(c, h.logger, err)
		return
	}
	h.detail(c, sku)
}

// Issue books material out of stock.
func (h *InventoryHandler) Issue(c *gin.Context) {
	var in inventory.IssueInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c, h.logger, err)
		return
	}

	sku := c.Param("sku")
	if _, err := h.svc.Issue(c.Request.Context(), *current(c), sku, in); err != nil {
		fail(c, h.logger, err)
		return
	}
	h.detail(c, sku)
}

func (h *InventoryHandler) detail(c *gin.Context, sku string) {
	view, err := h.svc.DetailBySKU(c.Request.Context(), *current(c), sku)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
