// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults come from New; file and env layers override them in Load.
// - External errors are wrapped via this package's error kinds.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StorePath is the SQLite database file holding the event log.
	// Empty selects the in-memory store (ephemeral matches).
	StorePath string `koanf:"store_path"`

	// StoreBusyTimeoutMS bounds how long SQLite waits on a locked file.
	StoreBusyTimeoutMS int `koanf:"store_busy_timeout_ms"`

	// MetricsEnabled toggles Prometheus recording.
	MetricsEnabled bool `koanf:"metrics_enabled"`
}

// New returns the configuration defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9090",
		StorePath:          "blitzlog.db",
		StoreBusyTimeoutMS: 5000,
		MetricsEnabled:     true,
	}
}
