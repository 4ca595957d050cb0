package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/ugcgo/ugcgo-backend/docs"
	"github.com/ugcgo/ugcgo-backend/internal/bootstrap"
)

// @title			UGC Video Subscription API
// @version		1.0
// @description	Subscription, quota and gift credit entitlements for video creation

// @BasePath	/api

// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
// @description					Supabase access token

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Initialize(ctx)
	if err != nil {
		log.Fatalf("CRITICAL: Failed to initialize application: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			slog.Error("Failed to release resources", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:              ":" + app.Config.HTTPPort,
		Handler:           app.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "port", app.Config.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
