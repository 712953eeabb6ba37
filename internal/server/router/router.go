package router

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mamadbah2/nccfarm/internal/metrics"
	"github.com/mamadbah2/nccfarm/internal/server/handlers"
)

// Handlers groups the HTTP adapters mounted by New.
type Handlers struct {
	Sessions    *handlers.Sessions
	Screens     *handlers.ScreenHandler
	Projects    *handlers.ProjectHandler
	Inventory   *handlers.InventoryHandler
	Purchase    *handlers.PurchaseHandler
	Maintenance *handlers.MaintenanceHandler
	Directory   *handlers.DirectoryHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(metricsMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api", h.Sessions.Middleware())
	api.POST("/login", h.Screens.Login)
	api.POST("/logout", h.Screens.Logout)
	api.GET("/screen", h.Screens.Screen)
	api.POST("/navigate", h.Screens.Navigate)

	authed := api.Group("", h.Sessions.RequireLogin())

	authed.GET("/projects", h.Projects.List)
	authed.POST("/projects", h.Projects.Create)
	authed.GET("/projects/draft", h.Projects.Draft)
	authed.POST("/projects/draft/milestones", h.Projects.AddMilestone)
	authed.PUT("/projects/draft/milestones/:index", h.Projects.UpdateMilestone)
	authed.DELETE("/projects/draft/milestones/:index", h.Projects.RemoveMilestone)
	authed.GET("/projects/:id", h.Projects.Get)
	authed.POST("/projects/:id/select", h.Projects.Select)
	authed.PUT("/projects/:id/milestones/:index", h.Projects.ToggleMilestone)

	authed.GET("/inventory", h.Inventory.Search)
	authed.POST("/inventory", h.Inventory.Create)
	authed.GET("/inventory/:sku", h.Inventory.Get)
	authed.POST("/inventory/:sku/adjust", h.Inventory.Adjust)
	authed.POST("/inventory/:sku/issue", h.Inventory.Issue)

	authed.GET("/purchase", h.Purchase.Get)
	authed.POST("/purchase/rows", h.Purchase.AddRow)
	authed.PUT("/purchase/rows/:index", h.Purchase.UpdateRow)
	authed.DELETE("/purchase/rows/:index", h.Purchase.RemoveRow)
	authed.GET("/purchase/export", h.Purchase.Export)

	authed.GET("/maintenance", h.Maintenance.Board)
	authed.POST("/maintenance", h.Maintenance.Create)
	authed.PUT("/maintenance/:id", h.Maintenance.Toggle)

	authed.GET("/contacts", h.Directory.Contacts)
	authed.GET("/profile", h.Directory.Profile)
	authed.GET("/alerts", h.Directory.Alerts)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}

func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequestDuration(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
