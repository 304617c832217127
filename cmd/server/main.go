package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meal-labels/internal/config"
	"meal-labels/internal/handler"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}
	// Wiring
	container := config.NewContainer()
	cfg := container.GetConfig()

	labelHandler := handler.NewLabelHandler(
		container.UploadHandler,
		cfg.GetMaxFileSize(),
		container.Logger,
	)

	var authMiddleware func(http.Handler) http.Handler
	if authService := container.GetAuthService(); authService != nil {
		authMiddleware = handler.NewAuthMiddleware(authService, container.Logger).Middleware
	}

	// Router
	router := handler.NewRouter(labelHandler, authMiddleware, container.Logger)

	// start server
	server := &http.Server{
		Addr:              ":" + cfg.GetServerPort(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, groupCtx := errgroup.WithContext(ctx)

	// Run server
	g.Go(func() error {
		container.Logger.Info("Server listening", "address", server.Addr, "processor", cfg.GetProcessorURL())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	// Graceful shutdown
	g.Go(func() error {
		<-groupCtx.Done()
		container.Logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			_ = server.Close()
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		container.Logger.Error("Server stopped with error", err)
		stop()
		os.Exit(1)
	}
	container.Logger.Info("Server exited")
}
