package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/toastkit/internal/commands"
	"github.com/colonyops/toastkit/internal/core/config"
	"github.com/colonyops/toastkit/internal/core/logging"
	"github.com/colonyops/toastkit/internal/core/styles"
	"github.com/colonyops/toastkit/internal/printer"
	"github.com/colonyops/toastkit/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, build() falls back
	// to runtime/debug.BuildInfo.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := printer.WithPrinter(context.Background(), printer.New(os.Stdout))

	var logCloser func()

	flags := &commands.Flags{}

	app := commands.NewRoot(flags)
	app.Version = build()
	app.Before = func(ctx context.Context, c *cli.Command) (context.Context, error) {
		// The tui owns the terminal, so it always logs to a file.
		logFile := flags.LogFile
		if logFile == "" && commands.RunsTUI(c) {
			logFile = commands.DefaultLogFile()
		}

		logger, closer, err := logutils.New(flags.LogLevel, logFile)
		if err != nil {
			return ctx, fmt.Errorf("setup logger: %w", err)
		}
		log.Logger = logger.Hook(logging.ContextHook{})
		logCloser = closer

		cfg, err := config.Load(flags.ConfigPath)
		if err != nil {
			// config validate reports load errors itself.
			if c.Args().First() == "config" {
				log.Warn().Err(err).Msg("config invalid, using defaults")
				defaults := config.DefaultConfig()
				flags.Config = &defaults
				return ctx, nil
			}
			return ctx, fmt.Errorf("load config: %w", err)
		}
		flags.Config = cfg

		// Apply configured theme (validation ensures name is valid)
		palette, _ := styles.GetPalette(cfg.TUI.Theme)
		styles.SetTheme(palette)

		return ctx, nil
	}
	app.After = func(ctx context.Context, c *cli.Command) error {
		if logCloser != nil {
			logCloser()
		}
		return nil
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		if msg := runErr.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		exitCode = 1
	}

	os.Exit(exitCode)
}
