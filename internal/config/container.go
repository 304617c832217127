package config

import (
	"net/http"

	"meal-labels/internal/domain"
	"meal-labels/internal/infra/supabase"
	"meal-labels/internal/service"
	"meal-labels/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config         domain.Config
	Logger         domain.Logger
	AuthService    domain.AuthService
	LabelProcessor domain.LabelProcessor
	UploadHandler  *service.UploadHandler
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	cfg := NewConfig()
	appLogger := logger.NewLogger(cfg.GetLogLevel())

	processor := service.NewLabelClient(cfg.GetProcessorURL(), cfg.GetBranding(), &http.Client{}, appLogger)

	container := &Container{
		Config:         cfg,
		Logger:         appLogger,
		LabelProcessor: processor,
		UploadHandler:  service.NewUploadHandler(processor),
	}

	if !cfg.AuthEnabled() {
		appLogger.Warn("Supabase not configured, API routes are open")
		return container
	}

	var supabaseClient domain.SupabaseClient = supabase.NewSupabaseClient(cfg, appLogger)
	if err := supabaseClient.Initialize(); err != nil {
		// Fail closed: the routes stay protected and every token is rejected.
		appLogger.Error("Supabase initialization failed", err)
	}
	container.AuthService = service.NewAuthService(supabaseClient, appLogger)

	return container
}

// GetConfig returns the configuration instance
func (c *Container) GetConfig() domain.Config {
	return c.Config
}

// GetLogger returns the logger instance
func (c *Container) GetLogger() domain.Logger {
	return c.Logger
}

// GetAuthService returns the auth service, nil when auth is disabled
func (c *Container) GetAuthService() domain.AuthService {
	return c.AuthService
}
