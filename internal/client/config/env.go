package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from the process environment. A .env
// file in the working directory is loaded first when present; real
// environment variables win over it (godotenv never overrides existing
// variables).
//
// Recognized variables:
//
//	MEMHUB_BACKEND_URL      base URL of the hosted backend
//	MEMHUB_ANON_KEY         public anonymous key
//	MEMHUB_REQUEST_TIMEOUT  duration, e.g. "10s"
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("MEMHUB_BACKEND_URL"); v != "" {
		cfg.BackendURL = v
	}
	if v := os.Getenv("MEMHUB_ANON_KEY"); v != "" {
		cfg.AnonKey = v
	}
	if v := os.Getenv("MEMHUB_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
}
