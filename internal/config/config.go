package config

import "time"

// TrackerConfig is the root configuration for a tracker instance.
type TrackerConfig struct {
	Instance InstanceConfig `yaml:"instance"`
	API      APIConfig      `yaml:"api"`
	Refresh  RefreshConfig  `yaml:"refresh"`
	Server   ServerConfig   `yaml:"server"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Log      LogConfig      `yaml:"log"`
}

// InstanceConfig identifies this tracker.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// APIConfig holds upstream price API settings.
type APIConfig struct {
	BaseURL   string        `yaml:"base_url"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"` // Per request
}

// RefreshConfig holds the refresh scheduler's pacing.
type RefreshConfig struct {
	IntraFetchDelay time.Duration `yaml:"intra_fetch_delay"` // Between an asset's price and history requests
	InterAssetDelay time.Duration `yaml:"inter_asset_delay"` // Between assets in a cycle
	CycleDelay      time.Duration `yaml:"cycle_delay"`       // After a normal cycle
	BackoffDelay    time.Duration `yaml:"backoff_delay"`     // After a rate-limited cycle
	InitialDelay    time.Duration `yaml:"initial_delay"`     // Before the first cycle
	HistoryDays     int           `yaml:"history_days"`
}

// ServerConfig holds HTTP and WebSocket settings.
type ServerConfig struct {
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	PingInterval   time.Duration `yaml:"ping_interval"` // WebSocket keepalive
	PongTimeout    time.Duration `yaml:"pong_timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}
