package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// AutoSessionID asks Finalize to generate a fresh session identifier per run.
const AutoSessionID = "auto"

type Config struct {
	Endpoint  string `toml:"endpoint" env:"ENDPOINT"`
	SessionID string `toml:"session_id" env:"SESSION_ID"`

	// Optional personalization forwarded with every chat request
	Name     string `toml:"name,omitempty" env:"NAME"`
	Currency string `toml:"currency,omitempty" env:"CURRENCY"`

	RevealInterval  Duration `toml:"reveal_interval" env:"REVEAL_INTERVAL"`
	SendDelay       Duration `toml:"send_delay" env:"SEND_DELAY"`
	ScrollThreshold int      `toml:"scroll_threshold" env:"SCROLL_THRESHOLD"`

	Theme             string   `toml:"theme" env:"THEME"`
	ThemePollInterval Duration `toml:"theme_poll_interval" env:"THEME_POLL_INTERVAL"`

	ShowSplash  bool     `toml:"show_splash" env:"SHOW_SPLASH"`
	Greeting    string   `toml:"greeting" env:"GREETING"`
	Seed        []string `toml:"seed" env:"SEED" envSeparator:"|"`
	Suggestions []string `toml:"suggestions" env:"SUGGESTIONS" envSeparator:"|"`

	Keybindings KeyBindingsConfig `toml:"keybindings"`
}

// Duration lets TOML files carry Go duration strings such as "18ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// BaseURL strips the chat path from the endpoint so sibling routes
// (/health, /remember, /memory) can be derived from it.
func (c *Config) BaseURL() string {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return c.Endpoint
	}
	u.Path = strings.TrimSuffix(u.Path, "/chat")
	u.RawQuery = ""
	return strings.TrimSuffix(u.String(), "/")
}

// Validate reports every problem at once so a broken config file
// can be fixed in one pass.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Endpoint == "" {
		result = multierror.Append(result, fmt.Errorf("endpoint must not be empty"))
	} else if u, err := url.Parse(c.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
		result = multierror.Append(result, fmt.Errorf("endpoint %q is not an absolute URL", c.Endpoint))
	}
	if strings.TrimSpace(c.SessionID) == "" {
		result = multierror.Append(result, fmt.Errorf("session_id must not be empty"))
	}
	if c.RevealInterval.Duration <= 0 {
		result = multierror.Append(result, fmt.Errorf("reveal_interval must be positive, got %s", c.RevealInterval.Duration))
	}
	if c.SendDelay.Duration < 0 {
		result = multierror.Append(result, fmt.Errorf("send_delay must not be negative, got %s", c.SendDelay.Duration))
	}
	if c.ScrollThreshold < 0 {
		result = multierror.Append(result, fmt.Errorf("scroll_threshold must not be negative, got %d", c.ScrollThreshold))
	}
	switch c.Theme {
	case "auto", "dark", "light":
	default:
		result = multierror.Append(result, fmt.Errorf("theme must be one of auto, dark, light, got %q", c.Theme))
	}
	if c.ThemePollInterval.Duration <= 0 {
		result = multierror.Append(result, fmt.Errorf("theme_poll_interval must be positive, got %s", c.ThemePollInterval.Duration))
	}
	if ok, warning := c.Keybindings.Validate(); !ok {
		result = multierror.Append(result, fmt.Errorf("keybindings: %s", warning))
	}

	return result.ErrorOrNil()
}

func (c *Config) applyEnvOverrides() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: "FINCOPILOT_"}); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}

// ResolveSessionID swaps "auto" for a fresh UUID. Only callers that talk
// to the backend resolve it; the stored config keeps "auto".
func (c *Config) ResolveSessionID() {
	if c.SessionID == AutoSessionID {
		c.SessionID = uuid.New().String()
	}
}

func CheckDebug() bool {
	debug := os.Getenv("FINCOPILOT_DEBUG")
	return debug == "true" || debug == "1"
}

// InitDebugLog points the global zerolog logger at <dir>/debug.log when
// FINCOPILOT_DEBUG is set. Otherwise logging stays disabled so nothing
// writes over the alt screen.
func InitDebugLog(dir string) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	if !CheckDebug() {
		return
	}

	if err := EnsureDir(dir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not create log directory %s: %v\n", dir, err)
		return
	}

	logPath := filepath.Join(dir, "debug.log")

	// 0600 - prompts and replies end up in here
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	zerolog.TimeFieldFormat = time.RFC3339Nano
	log.Logger = zerolog.New(f).With().Timestamp().Caller().Logger()
	log.Debug().
		Str("FINCOPILOT_DEBUG", os.Getenv("FINCOPILOT_DEBUG")).
		Str("path", logPath).
		Msg("debug logging started")
}

// Load reads the config file (creating it from the template on first run),
// then applies FINCOPILOT_* environment overrides. An empty path means the
// default location.
func Load(path string) (*Config, error) {
	if path == "" {
		path = GetConfigFilePath()
	}

	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Check validates without resolving derived values, so the result can be
// written back to disk as the user wrote it.
func (c *Config) Check() error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Finalize validates and resolves derived values. Callers apply CLI flag
// overrides between Load and Finalize.
func (c *Config) Finalize() error {
	if err := c.Check(); err != nil {
		return err
	}
	c.ResolveSessionID()
	return nil
}
