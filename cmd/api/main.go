package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tmarkov/subledger/internal/clock"
	"github.com/tmarkov/subledger/internal/config"
	"github.com/tmarkov/subledger/internal/db"
	"github.com/tmarkov/subledger/internal/gateway"
	"github.com/tmarkov/subledger/internal/handlers"
	"github.com/tmarkov/subledger/internal/notifier"
	"github.com/tmarkov/subledger/internal/reconciler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting subledger api",
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
	)

	ctx := context.Background()
	database, err := db.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	gw := gateway.NewSimulator(&cfg.Gateway, logger)
	n := notifier.FromConfig(cfg.SMTP, logger)
	clk := clock.NewSystem()

	router := handlers.NewRouter(database, gw, n, clk, cfg, logger)

	reconcilerCtx, stopReconciler := context.WithCancel(ctx)
	rec := reconciler.New(database, gw, clk, logger, cfg.App.ReconcileInterval)
	go rec.Run(reconcilerCtx)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	// Stop the reconciler and wait for it; exiting mid-pass would lose a
	// settlement whose provider charge already went through.
	stopReconciler()
	rec.Wait()

	logger.Info("server stopped")
}
