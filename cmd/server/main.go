package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/nccfarm/internal/config"
	"github.com/mamadbah2/nccfarm/internal/domain/models"
	"github.com/mamadbah2/nccfarm/internal/repository"
	"github.com/mamadbah2/nccfarm/internal/repository/memory"
	"github.com/mamadbah2/nccfarm/internal/repository/mongodb"
	"github.com/mamadbah2/nccfarm/internal/repository/sheets"
	"github.com/mamadbah2/nccfarm/internal/scheduler"
	"github.com/mamadbah2/nccfarm/internal/server/handlers"
	"github.com/mamadbah2/nccfarm/internal/server/router"
	alertsvc "github.com/mamadbah2/nccfarm/internal/service/alerts"
	authsvc "github.com/mamadbah2/nccfarm/internal/service/auth"
	dashboardsvc "github.com/mamadbah2/nccfarm/internal/service/dashboard"
	directorysvc "github.com/mamadbah2/nccfarm/internal/service/directory"
	inventorysvc "github.com/mamadbah2/nccfarm/internal/service/inventory"
	maintenancesvc "github.com/mamadbah2/nccfarm/internal/service/maintenance"
	"github.com/mamadbah2/nccfarm/internal/service/navigation"
	projectsvc "github.com/mamadbah2/nccfarm/internal/service/projects"
	purchasesvc "github.com/mamadbah2/nccfarm/internal/service/purchase"
	seedsvc "github.com/mamadbah2/nccfarm/internal/service/seed"
	"github.com/mamadbah2/nccfarm/internal/session"
	"github.com/mamadbah2/nccfarm/internal/table"
	whatsappclient "github.com/mamadbah2/nccfarm/pkg/clients/whatsapp"
	"github.com/mamadbah2/nccfarm/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	var store repository.Store
	if cfg.MongoDB.Enabled() {
		connectCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		mongoRepo, err := mongodb.NewMongoDBRepository(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName, logger.Named(baseLogger, "repo.mongodb"))
		cancel()
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		store = mongoRepo
	} else {
		baseLogger.Warn("MONGODB_URI missing, using in-memory store")
		store = memory.New()
	}

	var sheetsRepo sheets.Repository
	if cfg.Sheets.Enabled() {
		sheetsRepo, err = sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
	} else {
		baseLogger.Info("google sheets not configured, purchase requests are download-only")
	}

	var whatsClient whatsappclient.Client
	if cfg.WhatsApp.Enabled() {
		whatsClient = whatsappclient.NewClient(cfg.WhatsApp)
		baseLogger.Info("whatsapp alert delivery enabled")
	} else {
		baseLogger.Warn("whatsapp not configured, alert digests are only logged")
	}

	seeder := seedsvc.NewService(store, table.NewLoader(logger.Named(baseLogger, "table")), cfg.Data, logger.Named(baseLogger, "svc.seed"))
	authSvc := authsvc.NewService(seeder, cfg.Server.DefaultWorkspace, logger.Named(baseLogger, "svc.auth"))
	projectSvc := projectsvc.NewService(store, logger.Named(baseLogger, "svc.projects"))
	inventorySvc := inventorysvc.NewService(store, logger.Named(baseLogger, "svc.inventory"))
	purchaseSvc := purchasesvc.NewService(store, sheetsRepo, logger.Named(baseLogger, "svc.purchase"))
	maintenanceSvc := maintenancesvc.NewService(store, logger.Named(baseLogger, "svc.maintenance"))
	directorySvc := directorysvc.NewService(store, logger.Named(baseLogger, "svc.directory"))
	dashboardSvc := dashboardsvc.NewService(store, maintenanceSvc, seeder, logger.Named(baseLogger, "svc.dashboard"))
	alertSvc := alertsvc.NewService(store, whatsClient, cfg.WhatsApp.AlertTo, logger.Named(baseLogger, "svc.alerts"))

	nav, err := navigation.New(map[models.Screen]navigation.Renderer{
		models.ScreenLogin:           navigation.View(authSvc.LoginView),
		models.ScreenDashboard:       navigation.View(dashboardSvc.Overview),
		models.ScreenProjectList:     navigation.View(projectSvc.List),
		models.ScreenProjectCreate:   navigation.View(projectSvc.CreateForm),
		models.ScreenProjectDetail:   navigation.View(projectSvc.Detail),
		models.ScreenInventoryList:   navigation.View(inventorySvc.List),
		models.ScreenInventoryDetail: navigation.View(inventorySvc.Detail),
		models.ScreenPurchaseRequest: navigation.View(purchaseSvc.View),
		models.ScreenMaintenance:     navigation.View(maintenanceSvc.Board),
		models.ScreenContacts:        navigation.View(directorySvc.Contacts),
		models.ScreenProfile:         navigation.View(directorySvc.Profile),
	}, logger.Named(baseLogger, "navigation"))
	if err != nil {
		baseLogger.Fatal("failed to build screen router", zap.Error(err))
	}

	sessionManager := session.NewManager()
	sessions := handlers.NewSessions(sessionManager, session.NewTokens(cfg.Session.Secret, cfg.Session.TTL), cfg.Session.Secure, logger.Named(baseLogger, "handlers.session"))

	engine := router.New(router.Handlers{
		Sessions:    sessions,
		Screens:     handlers.NewScreenHandler(authSvc, nav, sessions, logger.Named(baseLogger, "handlers.screen")),
		Projects:    handlers.NewProjectHandler(projectSvc, logger.Named(baseLogger, "handlers.projects")),
		Inventory:   handlers.NewInventoryHandler(inventorySvc, logger.Named(baseLogger, "handlers.inventory")),
		Purchase:    handlers.NewPurchaseHandler(purchaseSvc, logger.Named(baseLogger, "handlers.purchase")),
		Maintenance: handlers.NewMaintenanceHandler(maintenanceSvc, logger.Named(baseLogger, "handlers.maintenance")),
		Directory:   handlers.NewDirectoryHandler(directorySvc, alertSvc, logger.Named(baseLogger, "handlers.directory")),
	}, logger.Named(baseLogger, "router"))

	// Initialize Scheduler
	sched, err := scheduler.NewScheduler(*cfg, alertSvc, sessionManager, logger.Named(baseLogger, "scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
