package config

import "time"

// Config holds runtime settings for the blobhost CLI.
//
// Fields:
//   - ServerURL: base URL of the server, e.g. http://127.0.0.1:8080.
//   - Timeout: per-request HTTP client timeout.
//   - UploadPassword: sent as the Authorization header on uploads.
type Config struct {
	ServerURL      string
	Timeout        time.Duration
	UploadPassword string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.Timeout = 30 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
