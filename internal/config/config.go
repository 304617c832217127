package config

import (
	"os"
	"strconv"
	"strings"

	"meal-labels/internal/domain"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort   string
	ProcessorURL string
	MaxFileSize  int64
	LogLevel     string
	SupabaseURL  string
	SupabaseKey  string
	Branding     string
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return &AppConfig{
		// PaaS hosts provide the listening port via PORT.
		ServerPort:   getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		ProcessorURL: strings.TrimRight(getEnvOrDefault("PROCESSOR_URL", "http://localhost:5000"), "/"),
		MaxFileSize:  getEnvInt64OrDefault("MAX_FILE_SIZE", 10*1024*1024), // 10MB default
		LogLevel:     getEnvOrDefault("LOG_LEVEL", "info"),
		SupabaseURL:  getEnvOrDefault("SUPABASE_URL", ""),
		SupabaseKey:  getEnvOrDefault("SUPABASE_ANON_KEY", ""),
		Branding:     getEnvOrDefault("LABEL_BRANDING", ""),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetProcessorURL returns the base URL of the label processing server
func (c *AppConfig) GetProcessorURL() string {
	return c.ProcessorURL
}

// GetMaxFileSize returns the maximum allowed upload size
func (c *AppConfig) GetMaxFileSize() int64 {
	return c.MaxFileSize
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetSupabaseURL returns the Supabase URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseKey returns the Supabase anon key
func (c *AppConfig) GetSupabaseKey() string {
	return c.SupabaseKey
}

// GetBranding returns the branding sent along with uploads, if any
func (c *AppConfig) GetBranding() string {
	return c.Branding
}

// AuthEnabled reports whether label routes require a Supabase session
func (c *AppConfig) AuthEnabled() bool {
	return c.SupabaseURL != "" && c.SupabaseKey != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}
