package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v0xg/webvision/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(viper.New(), "")
	require.NoError(t, err)

	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 1280, cfg.Browser.Width)
	assert.Equal(t, 30*time.Second, cfg.Browser.PageTimeout)
	assert.Equal(t, 2*time.Second, cfg.Extraction.LookupTimeout)
	assert.False(t, cfg.Extraction.IncludeHidden)
	assert.Equal(t, "claude", cfg.AI.Provider)
	assert.False(t, cfg.Login.Enabled())
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webvision.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
browser:
  width: 1024
  settle_timeout: 1500ms
extraction:
  include_hidden: true
login:
  url: https://app.example.com/login
  username: admin
`), 0o600))
	t.Setenv("WEBVISION_LOGIN_PASSWORD", "s3cret")
	t.Setenv("WEBVISION_EXTRACTION_LOOKUP_TIMEOUT", "750ms")

	cfg, err := config.Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, 1024, cfg.Browser.Width)
	assert.Equal(t, 720, cfg.Browser.Height)
	assert.Equal(t, 1500*time.Millisecond, cfg.Browser.SettleTimeout)
	assert.True(t, cfg.Extraction.IncludeHidden)
	assert.Equal(t, 750*time.Millisecond, cfg.Extraction.LookupTimeout)
	assert.True(t, cfg.Login.Enabled())
	assert.Equal(t, "s3cret", cfg.Login.Password)
	assert.Equal(t, "#username", cfg.Login.UsernameSelector)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() config.Config {
		return config.Config{
			Browser:    config.BrowserConfig{Width: 10, Height: 10, PageTimeout: time.Second},
			Extraction: config.ExtractionConfig{LookupTimeout: time.Second},
		}
	}

	tests := []struct {
		name   string
		mutate func(*config.Config)
		ok     bool
	}{
		{"valid", func(*config.Config) {}, true},
		{"zero width", func(c *config.Config) { c.Browser.Width = 0 }, false},
		{"zero lookup timeout", func(c *config.Config) { c.Extraction.LookupTimeout = 0 }, false},
		{"login without password", func(c *config.Config) {
			c.Login = config.LoginConfig{URL: "https://x", Username: "u", UsernameSelector: "#u", PasswordSelector: "#p", SubmitSelector: "#s"}
		}, false},
		{"complete login", func(c *config.Config) {
			c.Login = config.LoginConfig{URL: "https://x", Username: "u", Password: "p", UsernameSelector: "#u", PasswordSelector: "#p", SubmitSelector: "#s"}
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
