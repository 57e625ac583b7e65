package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/toastkit/internal/core/eventbus"
	"github.com/colonyops/toastkit/internal/core/logging"
	"github.com/colonyops/toastkit/internal/core/notify"
	"github.com/colonyops/toastkit/internal/core/toast"
	"github.com/colonyops/toastkit/internal/tui"
)

// ErrNotTerminal is returned when the TUI is started without a terminal.
var ErrNotTerminal = errors.New("toastkit tui requires an interactive terminal")

const busBuffer = 64

type TuiCmd struct {
	flags *Flags

	historySize int

	// isTerminal is swapped in tests.
	isTerminal func(fd int) bool
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags) *TuiCmd {
	return &TuiCmd{
		flags:      flags,
		isTerminal: term.IsTerminal,
	}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "history-size",
			Usage:       "number of notifications kept in the history modal",
			Sources:     cli.EnvVars("TOASTKIT_HISTORY_SIZE"),
			Value:       notify.DefaultHistorySize,
			Destination: &cmd.historySize,
		},
	}
}

// Register adds the tui command to the application.
func (cmd *TuiCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "tui",
		Usage:       "Open the interactive toast demo",
		UsageText:   "toastkit tui [options]",
		Description: "Runs the toast demo. Press ? inside the app for key bindings.",
		Flags:       cmd.Flags(),
		Action:      cmd.Run,
	})

	return app
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, _ *cli.Command) error {
	if !cmd.isTerminal(int(os.Stdin.Fd())) || !cmd.isTerminal(int(os.Stdout.Fd())) {
		return ErrNotTerminal
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bus := eventbus.New(busBuffer)
	eventbus.RegisterDebugLogger(bus, logging.Component("eventbus"))
	go bus.Start(ctx)

	opts := cmd.flags.Config.ToastOptions()
	manager := toast.New(opts)
	defer manager.Close()

	stopForward := eventbus.ForwardToasts(bus, manager)
	defer stopForward()

	notifier := notify.NewBus(manager, notify.NewMemoryStore(cmd.historySize))

	m := tui.New(tui.Options{
		Manager: manager,
		Notify:  notifier,
		Bus:     bus,
	})
	defer m.Close()

	log.Info().
		Dur("default_duration", opts.DefaultDuration).
		Int("max_visible", opts.MaxVisible).
		Msg("starting tui")

	if _, err := tea.NewProgram(m).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	return nil
}
