package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/RadicalxChange/lanna-edges/configs"
	"github.com/RadicalxChange/lanna-edges/internal/decay"
	"github.com/RadicalxChange/lanna-edges/internal/engine"
	"github.com/RadicalxChange/lanna-edges/internal/handlers"
	"github.com/RadicalxChange/lanna-edges/internal/jobs"
	"github.com/RadicalxChange/lanna-edges/internal/logger"
	"github.com/RadicalxChange/lanna-edges/internal/notify"
	"github.com/RadicalxChange/lanna-edges/internal/routes"
	"github.com/RadicalxChange/lanna-edges/internal/seed"
	"github.com/RadicalxChange/lanna-edges/internal/store"
)

func main() {
	logger.Init()
	defer logger.Log.Sync()

	configs.LoadConfig()

	ctx := context.Background()

	st, err := store.NewPostgres(configs.AppConfig.DB.DSN)
	if err != nil {
		logger.Log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := st.Migrate(); err != nil {
		logger.Log.Fatal("migrations failed", zap.Error(err))
	}
	if err := seed.Run(ctx, st); err != nil {
		logger.Log.Fatal("seed failed", zap.Error(err))
	}

	var notifier notify.Notifier = notify.Log{}
	if url := configs.AppConfig.Notify.WebhookURL; url != "" {
		notifier = notify.NewWebhook(url)
	}

	eng := engine.New(st, notifier)

	decaySvc, err := decay.New(st, configs.AppConfig.Decay.Retention)
	if err != nil {
		logger.Log.Fatal("invalid decay config", zap.Error(err))
	}

	var scheduler *jobs.Scheduler
	if spec := configs.AppConfig.Decay.Schedule; spec != "" {
		scheduler = jobs.NewScheduler(decaySvc)
		if err := scheduler.Start(ctx, spec); err != nil {
			logger.Log.Fatal("failed to start scheduler", zap.Error(err))
		}
	}

	router := routes.NewRoutes(handlers.New(st, eng, decaySvc))

	srv := &http.Server{
		Addr:         configs.AppConfig.Server.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	logger.Log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("graceful shutdown failed", zap.Error(err))
	}

	if scheduler != nil {
		scheduler.Stop()
	}

	if err := st.Close(); err != nil {
		logger.Log.Error("db close skipped, reason:", zap.Error(err))
	} else {
		logger.Log.Info("db closed")
	}

	logger.Log.Info("server stopped")
}
