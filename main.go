package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inkwellhq/inkwell/internal/config"
	"github.com/inkwellhq/inkwell/internal/handler"
	"github.com/inkwellhq/inkwell/internal/repository/sqlite"
	"github.com/inkwellhq/inkwell/internal/service"
)

const (
	dbConnectAttempts = 3
	dbConnectBackoff  = 5 * time.Second
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.NewWithRetry(context.Background(), cfg.DBPath, dbConnectAttempts, dbConnectBackoff)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	uploadService := service.NewUploadService(cfg.UploadDir)
	if err := uploadService.EnsureDirs(); err != nil {
		slog.Error("failed to create upload directories", "error", err)
		os.Exit(1)
	}

	authService := service.NewAuthService(db.Users(), cfg.JWTSecret, cfg.TokenTTL, cfg.BcryptCost)
	userService := service.NewUserService(db.Users(), cfg.BcryptCost)
	postService := service.NewPostService(db.Posts())

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, authService, userService, postService, uploadService, handler.Options{
		UploadRoot: cfg.UploadDir,
		Dev:        cfg.Dev,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler.SecurityHeaders(handler.RequestLogger(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
