package commands

import (
	"context"
	"errors"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/toastkit/internal/core/config"
	"github.com/colonyops/toastkit/internal/printer"
	"github.com/colonyops/toastkit/pkg/iojson"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "toastkit config validate [options]",
				Description: "Validates the configuration file, checking toast timings, limits, and the theme name.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

// ValidationError is a single field-level problem.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type validationResult struct {
	Valid    bool                       `json:"valid"`
	Errors   []ValidationError          `json:"errors,omitempty"`
	Warnings []config.ValidationWarning `json:"warnings,omitempty"`
}

func (cmd *ConfigValidateCmd) run(ctx context.Context, c *cli.Command) error {
	result := cmd.validate()

	if cmd.format == "json" {
		if err := iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, result); err != nil {
			return err
		}
		if !result.Valid {
			return cli.Exit("", 1)
		}
		return nil
	}

	return cmd.outputText(printer.Ctx(ctx), result)
}

// validate reloads the config file so that load errors are reported
// instead of aborting the command.
func (cmd *ConfigValidateCmd) validate() validationResult {
	cfg, err := config.Load(cmd.flags.ConfigPath)
	if err == nil {
		err = cfg.ValidateDeep(cmd.flags.ConfigPath)
	}
	if err != nil {
		return validationResult{Valid: false, Errors: toValidationErrors(err)}
	}

	return validationResult{Valid: true, Warnings: cfg.Warnings()}
}

func toValidationErrors(err error) []ValidationError {
	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return []ValidationError{{Field: "config", Message: err.Error()}}
	}

	out := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{Field: fe.Field, Message: fe.Err.Error()})
	}
	return out
}

func (cmd *ConfigValidateCmd) outputText(p *printer.Printer, result validationResult) error {
	p.Printf("Config: %s", cmd.flags.ConfigPath)

	for _, warn := range result.Warnings {
		p.Warnf("%s: %s", warn.Category, warn.Message)
		if warn.Item != "" {
			p.Printf("  Item: %s", warn.Item)
		}
	}

	for _, err := range result.Errors {
		p.Errorf("%s: %s", err.Field, err.Message)
	}

	p.Printf("")
	if result.Valid {
		p.Successf("Configuration is valid")
		return nil
	}

	p.Errorf("%d error(s) found", len(result.Errors))
	return cli.Exit("", 1)
}
