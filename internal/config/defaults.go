package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultInstanceID      = "tracker"
	DefaultBaseURL         = "https://api.coingecko.com/api/v3"
	DefaultAPITimeout      = 30 * time.Second
	DefaultIntraFetchDelay = 2 * time.Second
	DefaultInterAssetDelay = 4 * time.Second
	DefaultCycleDelay      = 60 * time.Second
	DefaultBackoffDelay    = 120 * time.Second
	DefaultHistoryDays     = 1
	DefaultServerPort      = 3000
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultPingInterval    = 30 * time.Second
	DefaultPongTimeout     = 60 * time.Second
	DefaultMetricsPath     = "/metrics"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
)

func (c *TrackerConfig) applyDefaults() {
	if c.Instance.ID == "" {
		c.Instance.ID = DefaultInstanceID
	}

	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}

	// Refresh defaults. InitialDelay stays zero unless set.
	if c.Refresh.IntraFetchDelay == 0 {
		c.Refresh.IntraFetchDelay = DefaultIntraFetchDelay
	}
	if c.Refresh.InterAssetDelay == 0 {
		c.Refresh.InterAssetDelay = DefaultInterAssetDelay
	}
	if c.Refresh.CycleDelay == 0 {
		c.Refresh.CycleDelay = DefaultCycleDelay
	}
	if c.Refresh.BackoffDelay == 0 {
		c.Refresh.BackoffDelay = DefaultBackoffDelay
	}
	if c.Refresh.HistoryDays == 0 {
		c.Refresh.HistoryDays = DefaultHistoryDays
	}

	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = DefaultReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}
	if c.Server.PingInterval == 0 {
		c.Server.PingInterval = DefaultPingInterval
	}
	if c.Server.PongTimeout == 0 {
		c.Server.PongTimeout = DefaultPongTimeout
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}

	// Metrics defaults
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}

	// Log defaults
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}
