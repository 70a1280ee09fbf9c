package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jaminalder/gomoku/internal/app"
	"github.com/jaminalder/gomoku/internal/bootstrap"
	"github.com/jaminalder/gomoku/internal/web"
	"go.uber.org/zap"
)

func main() {
	cfgPath := flag.String("config", ".env", "path to config file")
	flag.Parse()

	cfg, err := bootstrap.Setup(*cfgPath)
	if err != nil {
		zap.NewExample().Sugar().Fatalw("failed to setup configuration", "error", err)
	}
	logger, err := bootstrap.NewLogger(*cfg)
	if err != nil {
		zap.NewExample().Sugar().Fatalw("failed to initialize logger", "error", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := app.NewService(
		app.WithLogger(logger.Named("games")),
		app.WithSubscriberBuffer(cfg.SubscriberBuffer),
	)
	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: web.NewServer(svc, web.Options{Logger: logger.Named("http"), Heartbeat: cfg.SSEHeartbeat}),
	}

	go func() {
		<-ctx.Done()
		logger.Info("received shutdown signal")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Errorw("graceful shutdown failed", "error", err)
		}
	}()

	logger.Infof("server is running on %s", cfg.ServerAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalw("failed to start server", "error", err)
	}
	logger.Info("server stopped")
}
