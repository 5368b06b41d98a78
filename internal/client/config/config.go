package config

import "time"

// Config holds runtime settings for the MemHub CLI.
//
// Fields:
//   - BackendURL: base URL of the hosted backend (auth + record API).
//   - AnonKey: the backend's public anonymous key.
//   - RequestTimeout: per-request deadline for backend calls.
//   - ErrorToastTimeout / InfoToastTimeout: message auto-expiry.
//   - NotesPageSize: notes fetched per keyset page.
type Config struct {
	BackendURL        string
	AnonKey           string
	RequestTimeout    time.Duration
	ErrorToastTimeout time.Duration
	InfoToastTimeout  time.Duration
	NotesPageSize     int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BackendURL = "http://127.0.0.1:54321"
	c.RequestTimeout = 10 * time.Second
	c.ErrorToastTimeout = 6 * time.Second
	c.InfoToastTimeout = 4 * time.Second
	c.NotesPageSize = 30
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment (including a .env file when present), a JSON file,
// and command-line flags. Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
