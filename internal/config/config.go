// Package config loads webvision settings from defaults, an optional YAML
// file, WEBVISION_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// WEBVISION_BROWSER_HEADLESS.
const EnvPrefix = "WEBVISION"

// Config is the full set of runtime settings.
type Config struct {
	Browser    BrowserConfig    `mapstructure:"browser"`
	Extraction ExtractionConfig `mapstructure:"extraction"`
	Output     OutputConfig     `mapstructure:"output"`
	Login      LoginConfig      `mapstructure:"login"`
	AI         AIConfig         `mapstructure:"ai"`
	Log        LogConfig        `mapstructure:"log"`
}

// BrowserConfig controls the headless browser.
type BrowserConfig struct {
	Headless      bool          `mapstructure:"headless"`
	Width         int           `mapstructure:"width"`
	Height        int           `mapstructure:"height"`
	ProfileDir    string        `mapstructure:"profile_dir"`
	PageTimeout   time.Duration `mapstructure:"page_timeout"`
	SettleTimeout time.Duration `mapstructure:"settle_timeout"`
}

// ExtractionConfig controls the component extractor.
type ExtractionConfig struct {
	IncludeHidden bool          `mapstructure:"include_hidden"`
	LookupTimeout time.Duration `mapstructure:"lookup_timeout"`
}

// OutputConfig controls where artifacts are written.
type OutputConfig struct {
	Dir            string `mapstructure:"dir"`
	ThumbnailWidth uint   `mapstructure:"thumbnail_width"`
}

// LoginConfig describes an optional form login performed before extraction.
type LoginConfig struct {
	URL              string `mapstructure:"url"`
	Username         string `mapstructure:"username"`
	Password         string `mapstructure:"password"`
	UsernameSelector string `mapstructure:"username_selector"`
	PasswordSelector string `mapstructure:"password_selector"`
	SubmitSelector   string `mapstructure:"submit_selector"`
}

// Enabled reports whether a login should run.
func (l LoginConfig) Enabled() bool {
	return l.URL != ""
}

// AIConfig selects the LLM used for match suggestions.
type AIConfig struct {
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// SetDefaults registers every key so environment overrides are seen by Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.width", 1280)
	v.SetDefault("browser.height", 720)
	v.SetDefault("browser.profile_dir", "")
	v.SetDefault("browser.page_timeout", 30*time.Second)
	v.SetDefault("browser.settle_timeout", 5*time.Second)

	v.SetDefault("extraction.include_hidden", false)
	v.SetDefault("extraction.lookup_timeout", 2*time.Second)

	v.SetDefault("output.dir", "target/extractor_output")
	v.SetDefault("output.thumbnail_width", 800)

	v.SetDefault("login.url", "")
	v.SetDefault("login.username", "")
	v.SetDefault("login.password", "")
	v.SetDefault("login.username_selector", "#username")
	v.SetDefault("login.password_selector", "#password")
	v.SetDefault("login.submit_selector", "button[type=submit], input[type=submit]")

	v.SetDefault("ai.provider", "claude")
	v.SetDefault("ai.model", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// Load resolves the configuration held by v. A non-empty file must exist.
// Flags should already be bound to v.
func Load(v *viper.Viper, file string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the browser or extractor cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Browser.Width <= 0 || c.Browser.Height <= 0 {
		errs = append(errs, fmt.Errorf("browser viewport must be positive, got %dx%d", c.Browser.Width, c.Browser.Height))
	}
	if c.Browser.PageTimeout <= 0 {
		errs = append(errs, errors.New("browser.page_timeout must be positive"))
	}
	if c.Browser.SettleTimeout < 0 {
		errs = append(errs, errors.New("browser.settle_timeout must not be negative"))
	}
	if c.Extraction.LookupTimeout <= 0 {
		errs = append(errs, errors.New("extraction.lookup_timeout must be positive"))
	}
	if c.Login.Enabled() {
		if c.Login.Username == "" || c.Login.Password == "" {
			errs = append(errs, errors.New("login.url is set but login.username or login.password is empty"))
		}
		if c.Login.UsernameSelector == "" || c.Login.PasswordSelector == "" || c.Login.SubmitSelector == "" {
			errs = append(errs, errors.New("login selectors must not be empty"))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
