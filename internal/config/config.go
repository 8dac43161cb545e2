// Package config provides application configuration management through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Server configuration
	ServerHost string
	ServerPort int

	// Storage configuration. DataDir holds one SQLite file per tenant
	// (system.db, secrets.db, transit.db).
	DataDir string

	// DevMode auto-unseals on startup with a single, plaintext-stored
	// master key. Never appropriate in production.
	DevMode bool

	// Logging
	LogLevel string

	// JWT authentication. Secret is required for the JWT backend to be
	// wired in; an empty secret disables JWT auth and leaves the root
	// token as the only credential.
	JWTSecret   []byte
	JWTIssuer   string
	JWTAudience string

	// Rate limiting for authenticated routes (keyed by client IP).
	RateLimitEnabled        bool
	RateLimitRequestsPerSec float64
	RateLimitBurst          int

	// Rate limiting for the unauthenticated init/unseal endpoints.
	RateLimitTokenEnabled        bool
	RateLimitTokenRequestsPerSec float64
	RateLimitTokenBurst          int

	// CORS
	CORSEnabled      bool
	CORSAllowOrigins string

	// Metrics
	MetricsEnabled   bool
	MetricsNamespace string
	MetricsPort      int
}

// Load loads configuration from environment variables.
// It first attempts to load a .env file by searching recursively from the current directory
// up to the root directory. If no .env file is found, it continues with existing environment variables.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost: env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort: env.GetInt("SERVER_PORT", 8200),

		// Storage configuration
		DataDir: env.GetString("DATA_DIR", "./egide-data"),
		DevMode: env.GetBool("DEV_MODE", false),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// JWT authentication
		JWTSecret:   env.GetBase64ToBytes("JWT_SECRET", []byte("")),
		JWTIssuer:   env.GetString("JWT_ISSUER", "egide"),
		JWTAudience: env.GetString("JWT_AUDIENCE", "egide-clients"),

		// Rate limiting (authenticated routes)
		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 10.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 20),

		// Rate limiting (unauthenticated sys endpoints)
		RateLimitTokenEnabled:        env.GetBool("RATE_LIMIT_TOKEN_ENABLED", true),
		RateLimitTokenRequestsPerSec: env.GetFloat64("RATE_LIMIT_TOKEN_REQUESTS_PER_SEC", 1.0),
		RateLimitTokenBurst:          env.GetInt("RATE_LIMIT_TOKEN_BURST", 5),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "egide"),
		MetricsPort:      env.GetInt("METRICS_PORT", 9090),
	}
}

// GetGinMode maps the configured log level to a Gin run mode: debug
// logging runs Gin in debug mode, everything else runs release mode.
func (c *Config) GetGinMode() string {
	if c.LogLevel == "debug" {
		return "debug"
	}
	return "release"
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	// Search for .env file recursively up the directory tree
	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// .env file found, load it
			_ = godotenv.Load(envPath)
			return
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}
