package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hay-kot/criterio"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs Validate plus checks that touch the filesystem.
// The configPath argument is the config file location to check (empty
// string skips the check).
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
	)
}

// crowdedVisible is the max_visible value above which a warning is issued.
const crowdedVisible = 10

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Toasts.GraceInterval >= c.Toasts.DefaultDuration {
		warnings = append(warnings, ValidationWarning{
			Category: "Toasts",
			Item:     "grace_interval",
			Message:  fmt.Sprintf("grace interval %s is not shorter than the default duration %s", c.Toasts.GraceInterval, c.Toasts.DefaultDuration),
		})
	}

	if c.Toasts.DefaultDuration < time.Second {
		warnings = append(warnings, ValidationWarning{
			Category: "Toasts",
			Item:     "default_duration",
			Message:  "toasts shorter than 1s are hard to read",
		})
	}

	if c.Toasts.MaxVisible > crowdedVisible {
		warnings = append(warnings, ValidationWarning{
			Category: "Toasts",
			Item:     "max_visible",
			Message:  fmt.Sprintf("more than %d visible toasts may overflow small terminals", crowdedVisible),
		})
	}

	return warnings
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}
