package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *TrackerConfig) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if c.API.BaseURL == "" {
		return errors.New("api.base_url is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url must be an http(s) URL, got %q", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return errors.New("api.timeout must be > 0")
	}

	if err := c.Refresh.validate("refresh"); err != nil {
		return err
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.PingInterval <= 0 {
		return errors.New("server.ping_interval must be > 0")
	}
	if c.Server.PongTimeout <= c.Server.PingInterval {
		return fmt.Errorf("server.pong_timeout (%s) must exceed server.ping_interval (%s)",
			c.Server.PongTimeout, c.Server.PingInterval)
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with /, got %q", c.Metrics.Path)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	return nil
}

func (r *RefreshConfig) validate(prefix string) error {
	if r.IntraFetchDelay < 0 {
		return fmt.Errorf("%s.intra_fetch_delay must be >= 0", prefix)
	}
	if r.InterAssetDelay < 0 {
		return fmt.Errorf("%s.inter_asset_delay must be >= 0", prefix)
	}
	if r.CycleDelay <= 0 {
		return fmt.Errorf("%s.cycle_delay must be > 0", prefix)
	}
	if r.BackoffDelay < r.CycleDelay {
		return fmt.Errorf("%s.backoff_delay (%s) cannot be shorter than cycle_delay (%s)", prefix, r.BackoffDelay, r.CycleDelay)
	}
	if r.InitialDelay < 0 {
		return fmt.Errorf("%s.initial_delay must be >= 0", prefix)
	}
	if r.HistoryDays < 1 {
		return fmt.Errorf("%s.history_days must be >= 1", prefix)
	}
	return nil
}
