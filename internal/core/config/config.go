// Package config handles configuration loading and validation for toastkit.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hay-kot/criterio"
	"gopkg.in/yaml.v3"

	"github.com/colonyops/toastkit/internal/core/styles"
	"github.com/colonyops/toastkit/internal/core/toast"
)

// Config holds the application configuration.
type Config struct {
	Toasts ToastsConfig `yaml:"toasts"`
	TUI    TUIConfig    `yaml:"tui"`
}

// ToastsConfig tunes the toast manager.
type ToastsConfig struct {
	DefaultDuration time.Duration `yaml:"default_duration"` // auto-dismiss delay when a request has none
	GraceInterval   time.Duration `yaml:"grace_interval"`   // closing -> removed delay
	MaxVisible      int           `yaml:"max_visible"`      // 0 = unlimited
}

// TUIConfig holds presentation settings.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Toasts: ToastsConfig{
			DefaultDuration: toast.DefaultDuration,
			GraceInterval:   toast.GraceInterval,
			MaxVisible:      0,
		},
		TUI: TUIConfig{
			Theme: styles.DefaultTheme,
		},
	}
}

// Load reads configuration from the given path.
// If configPath is empty or doesn't exist, returns defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Toasts.DefaultDuration == 0 {
		c.Toasts.DefaultDuration = defaults.Toasts.DefaultDuration
	}
	if c.Toasts.GraceInterval == 0 {
		c.Toasts.GraceInterval = defaults.Toasts.GraceInterval
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("toasts.default_duration", c.Toasts.DefaultDuration, positiveDuration),
		criterio.Run("toasts.grace_interval", c.Toasts.GraceInterval, positiveDuration),
		criterio.Run("toasts.max_visible", c.Toasts.MaxVisible, nonNegative),
		criterio.Run("tui.theme", c.TUI.Theme, knownTheme),
	)
}

// ToastOptions converts the toast settings into manager options.
func (c *Config) ToastOptions() toast.Options {
	return toast.Options{
		DefaultDuration: c.Toasts.DefaultDuration,
		GraceInterval:   c.Toasts.GraceInterval,
		MaxVisible:      c.Toasts.MaxVisible,
	}
}

func positiveDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("must be greater than zero, got %s", d)
	}
	return nil
}

func nonNegative(n int) error {
	if n < 0 {
		return fmt.Errorf("must not be negative, got %d", n)
	}
	return nil
}

func knownTheme(name string) error {
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q (available: %v)", name, styles.ThemeNames())
	}
	return nil
}
