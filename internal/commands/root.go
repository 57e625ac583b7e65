package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// NewRoot builds the toastkit command tree. Callers attach Version and
// the Before/After hooks.
func NewRoot(flags *Flags) *cli.Command {
	root := &cli.Command{
		Name:      "toastkit",
		Usage:     "Toast notification lifecycle demo and scenario player",
		UsageText: "toastkit [global options] command [command options]",
		Description: `toastkit manages short-lived toast notifications: each toast is shown,
dismissed by a timer or by hand, and removed after a short exit grace period.

Run 'toastkit' with no arguments to open the interactive demo.
Run 'toastkit play <glob>' to replay scripted scenarios and print every transition.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("TOASTKIT_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (the tui defaults to the state dir, other commands log to stderr)",
				Sources:     cli.EnvVars("TOASTKIT_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("TOASTKIT_CONFIG"),
				Value:       DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
		},
	}

	tuiCmd := NewTuiCmd(flags)

	root = tuiCmd.Register(root)
	root = NewPlayCmd(flags).Register(root)
	root = NewConfigValidateCmd(flags).Register(root)

	// Register TUI flags on root command
	root.Flags = append(root.Flags, tuiCmd.Flags()...)

	// Set TUI as default action when no subcommand is provided
	root.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'toastkit --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	return root
}

// RunsTUI reports whether the invocation opens the interactive demo.
func RunsTUI(c *cli.Command) bool {
	name := c.Args().First()
	return name == "" || name == "tui"
}
