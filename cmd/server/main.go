package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/aeroclubhq/aeroclub/internal/config"
	"github.com/aeroclubhq/aeroclub/internal/repository/prefstore"
	"github.com/aeroclubhq/aeroclub/internal/scheduler"
	"github.com/aeroclubhq/aeroclub/internal/server/handlers"
	"github.com/aeroclubhq/aeroclub/internal/server/router"
	"github.com/aeroclubhq/aeroclub/internal/service/appsettings"
	"github.com/aeroclubhq/aeroclub/internal/service/auth"
	"github.com/aeroclubhq/aeroclub/internal/service/dashboard"
	"github.com/aeroclubhq/aeroclub/internal/service/datasources"
	"github.com/aeroclubhq/aeroclub/internal/service/finance"
	"github.com/aeroclubhq/aeroclub/pkg/clients/gateway"
	"github.com/aeroclubhq/aeroclub/pkg/events"
	"github.com/aeroclubhq/aeroclub/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	prefRepo, err := prefstore.NewMongoRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init preference store", zap.Error(err))
	}
	defer func() {
		if err := prefRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close preference store connection", zap.Error(err))
		}
	}()

	gatewayClient := gateway.NewClient(cfg.Gateway)
	data := datasources.NewService(gatewayClient, baseLogger.Named("datasources"))

	sessions := auth.NewSessionManager(cfg.Session.TTL)
	authSvc := auth.NewService(gatewayClient, sessions, prefRepo, baseLogger.Named("svc.auth"))
	dashboardSvc := dashboard.NewService(gatewayClient, baseLogger.Named("svc.dashboard"))
	settingsSvc := appsettings.NewService(prefRepo, baseLogger.Named("svc.settings"))

	financeLogger := baseLogger.Named("svc.finance")
	pages := handlers.NewPageRegistry(func() *finance.Controller {
		return finance.NewController(data, gatewayClient, events.NewBus(), financeLogger)
	})

	engine := router.New(router.Handlers{
		Auth:      handlers.NewAuthHandler(authSvc, pages, baseLogger.Named("handlers.auth")),
		Dashboard: handlers.NewDashboardHandler(dashboardSvc, data, baseLogger.Named("handlers.dashboard")),
		Finance:   handlers.NewFinanceHandler(pages, baseLogger.Named("handlers.finance")),
		Settings:  handlers.NewSettingsHandler(settingsSvc, baseLogger.Named("handlers.settings")),
	}, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Session, sessions, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
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
