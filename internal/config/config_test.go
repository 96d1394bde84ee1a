package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	yaml := `
instance:
  id: test-tracker
api:
  base_url: https://pro-api.coingecko.com/api/v3
  timeout: 10s
refresh:
  inter_asset_delay: 5s
  cycle_delay: 90s
  backoff_delay: 3m
server:
  port: 8080
  allowed_origins:
    - https://app.example.com
metrics:
  enabled: true
log:
  level: debug
  format: json
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Instance.ID != "test-tracker" {
		t.Errorf("Instance.ID = %q, want %q", cfg.Instance.ID, "test-tracker")
	}
	if cfg.API.BaseURL != "https://pro-api.coingecko.com/api/v3" {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Errorf("API.Timeout = %v, want 10s", cfg.API.Timeout)
	}
	if cfg.Refresh.BackoffDelay != 3*time.Minute {
		t.Errorf("Refresh.BackoffDelay = %v, want 3m", cfg.Refresh.BackoffDelay)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "https://app.example.com" {
		t.Errorf("Server.AllowedOrigins = %v", cfg.Server.AllowedOrigins)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = false, want true")
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want json", cfg.Log.Format)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_TRACKER_UA", "tracker-test/1.0")

	yaml := `
api:
  user_agent: ${TEST_TRACKER_UA}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.API.UserAgent != "tracker-test/1.0" {
		t.Errorf("API.UserAgent = %q, want %q", cfg.API.UserAgent, "tracker-test/1.0")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil || !strings.Contains(err.Error(), "read config file") {
		t.Errorf("Load(missing) error = %v, want read error", err)
	}

	path := writeTempFile(t, "refresh: [not, a, map]\n")
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "parse config yaml") {
		t.Errorf("Load(bad yaml) error = %v, want parse error", err)
	}
}

func TestLoadWithDefaults(t *testing.T) {
	yaml := `
instance:
  id: test-tracker
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	// Check defaults were applied
	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("API.BaseURL = %q, want default %q", cfg.API.BaseURL, DefaultBaseURL)
	}
	if cfg.API.Timeout != DefaultAPITimeout {
		t.Errorf("API.Timeout = %v, want default %v", cfg.API.Timeout, DefaultAPITimeout)
	}
	if cfg.Refresh.IntraFetchDelay != 2*time.Second {
		t.Errorf("Refresh.IntraFetchDelay = %v, want 2s", cfg.Refresh.IntraFetchDelay)
	}
	if cfg.Refresh.InterAssetDelay != 4*time.Second {
		t.Errorf("Refresh.InterAssetDelay = %v, want 4s", cfg.Refresh.InterAssetDelay)
	}
	if cfg.Refresh.CycleDelay != 60*time.Second {
		t.Errorf("Refresh.CycleDelay = %v, want 60s", cfg.Refresh.CycleDelay)
	}
	if cfg.Refresh.BackoffDelay != 120*time.Second {
		t.Errorf("Refresh.BackoffDelay = %v, want 120s", cfg.Refresh.BackoffDelay)
	}
	if cfg.Refresh.InitialDelay != 0 {
		t.Errorf("Refresh.InitialDelay = %v, want 0", cfg.Refresh.InitialDelay)
	}
	if cfg.Server.Port != DefaultServerPort {
		t.Errorf("Server.Port = %d, want default %d", cfg.Server.Port, DefaultServerPort)
	}
	if cfg.Metrics.Path != DefaultMetricsPath {
		t.Errorf("Metrics.Path = %q, want default %q", cfg.Metrics.Path, DefaultMetricsPath)
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled should stay as written in the file")
	}
}

func TestLoadAndValidate(t *testing.T) {
	t.Run("empty path uses defaults", func(t *testing.T) {
		cfg, err := LoadAndValidate("")
		if err != nil {
			t.Fatalf("LoadAndValidate(\"\") failed: %v", err)
		}
		if !cfg.Metrics.Enabled {
			t.Error("Metrics.Enabled = false, want true by default")
		}
		if cfg.Instance.ID != DefaultInstanceID {
			t.Errorf("Instance.ID = %q, want %q", cfg.Instance.ID, DefaultInstanceID)
		}
	})

	t.Run("invalid file", func(t *testing.T) {
		path := writeTempFile(t, "log:\n  level: loud\n")
		_, err := LoadAndValidate(path)
		if err == nil || !strings.HasPrefix(err.Error(), "validate config: ") {
			t.Errorf("error = %v, want validate config error", err)
		}
	})
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *TrackerConfig)
		wantErr string
	}{
		{
			name:    "missing instance id",
			mutate:  func(c *TrackerConfig) { c.Instance.ID = "" },
			wantErr: "instance.id is required",
		},
		{
			name:    "missing base url",
			mutate:  func(c *TrackerConfig) { c.API.BaseURL = "" },
			wantErr: "api.base_url is required",
		},
		{
			name:    "base url without scheme",
			mutate:  func(c *TrackerConfig) { c.API.BaseURL = "api.coingecko.com" },
			wantErr: `api.base_url must be an http(s) URL, got "api.coingecko.com"`,
		},
		{
			name:    "zero cycle delay",
			mutate:  func(c *TrackerConfig) { c.Refresh.CycleDelay = 0 },
			wantErr: "refresh.cycle_delay must be > 0",
		},
		{
			name: "backoff shorter than cycle",
			mutate: func(c *TrackerConfig) {
				c.Refresh.CycleDelay = 2 * time.Minute
				c.Refresh.BackoffDelay = time.Minute
			},
			wantErr: "refresh.backoff_delay (1m0s) cannot be shorter than cycle_delay (2m0s)",
		},
		{
			name:    "negative inter asset delay",
			mutate:  func(c *TrackerConfig) { c.Refresh.InterAssetDelay = -time.Second },
			wantErr: "refresh.inter_asset_delay must be >= 0",
		},
		{
			name:    "zero history days",
			mutate:  func(c *TrackerConfig) { c.Refresh.HistoryDays = 0 },
			wantErr: "refresh.history_days must be >= 1",
		},
		{
			name:    "port out of range",
			mutate:  func(c *TrackerConfig) { c.Server.Port = 70000 },
			wantErr: "server.port must be between 1 and 65535, got 70000",
		},
		{
			name: "pong timeout not above ping interval",
			mutate: func(c *TrackerConfig) {
				c.Server.PingInterval = time.Minute
				c.Server.PongTimeout = time.Minute
			},
			wantErr: "server.pong_timeout (1m0s) must exceed server.ping_interval (1m0s)",
		},
		{
			name:    "relative metrics path",
			mutate:  func(c *TrackerConfig) { c.Metrics.Path = "metrics" },
			wantErr: `metrics.path must start with /, got "metrics"`,
		},
		{
			name:    "unknown log level",
			mutate:  func(c *TrackerConfig) { c.Log.Level = "trace" },
			wantErr: `log.level must be one of debug, info, warn, error, got "trace"`,
		},
		{
			name:    "unknown log format",
			mutate:  func(c *TrackerConfig) { c.Log.Format = "xml" },
			wantErr: `log.format must be text or json, got "xml"`,
		},
		{
			name:    "valid config",
			mutate:  func(c *TrackerConfig) {},
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("Validate() expected error containing %q, got nil", tt.wantErr)
				} else if err.Error() != tt.wantErr {
					t.Errorf("Validate() error = %q, want %q", err.Error(), tt.wantErr)
				}
			}
		})
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}
