package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(body), 0o600))
	t.Setenv("MARNIX_CONFIG_PATH", dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MARNIX_CONFIG_PATH", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000", cfg.SiteURL)
	assert.Equal(t, "Marnix 13", cfg.ProductName)
	assert.Equal(t, "log", cfg.MailTransport)
	assert.Equal(t, 5*time.Second, cfg.HealthCheckTimeout())
	assert.Equal(t, "default", cfg.Source("site_url"))
	assert.NoError(t, cfg.Validate())
}

func TestLoadFileAndEnvironment(t *testing.T) {
	writeConfig(t, `
site_url: https://portal.example.com
jellyfin_url: https://jellyfin.example.com
health_check_enabled: false
admin_rate_limit: 10
`)
	t.Setenv("MARNIX_ADMIN_RATE_LIMIT", "5")
	t.Setenv("NEXT_PUBLIC_SONARR_URL", "https://sonarr.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://portal.example.com", cfg.SiteURL)
	assert.Equal(t, "file", cfg.Source("site_url"))
	assert.False(t, cfg.HealthCheckEnabled)
	assert.Equal(t, "file", cfg.Source("health_check_enabled"))
	assert.Equal(t, 5, cfg.AdminRateLimit)
	assert.Equal(t, "environment", cfg.Source("admin_rate_limit"))
	assert.Equal(t, "https://sonarr.example.com", cfg.SonarrURL)
	assert.Equal(t, "environment", cfg.Source("sonarr_url"))
}

func TestLoadInvalidYAML(t *testing.T) {
	writeConfig(t, "site_url: [unterminated")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *PortalConfig)
		wantErr string
	}{
		{"bad site url", func(c *PortalConfig) { c.SiteURL = "not a url" }, "site_url"},
		{"bad service url", func(c *PortalConfig) { c.RadarrURL = "ftp://radarr" }, "radarr_url"},
		{"unknown transport", func(c *PortalConfig) { c.MailTransport = "carrier-pigeon" }, "mail_transport"},
		{"smtp without host", func(c *PortalConfig) { c.MailTransport = "smtp" }, "smtp_host"},
		{"timeout too low", func(c *PortalConfig) { c.HealthCheckTimeoutMs = 10 }, "health_check_timeout_ms"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newDefault()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFormatJSON(t *testing.T) {
	t.Setenv("MARNIX_CONFIG_PATH", t.TempDir())
	cfg, err := Load()
	require.NoError(t, err)

	out, err := cfg.FormatJSON()
	require.NoError(t, err)

	var parsed struct {
		ConfigFile string      `json:"config_file"`
		Attributes []Attribute `json:"attributes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Len(t, parsed.Attributes, len(attributeNames()))
	assert.Contains(t, cfg.FormatText(), "mail_transport")
}

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := writeConfig(t, "site_url: https://one.example.com\n")
	path := filepath.Join(dir, ConfigFileName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *PortalConfig, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(cfg *PortalConfig, err error) {
			if err != nil {
				return
			}
			select {
			case reloaded <- cfg:
			default:
			}
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("site_url: https://two.example.com\n"), 0o600))

	// A single write can surface as several events, some seeing a truncated file.
	timeout := time.After(5 * time.Second)
	for seen := false; !seen; {
		select {
		case cfg := <-reloaded:
			seen = cfg.SiteURL == "https://two.example.com"
		case <-timeout:
			t.Fatal("config was not reloaded")
		}
	}
	assert.Equal(t, "https://two.example.com", Get().SiteURL)

	cancel()
	assert.NoError(t, <-done)
}
