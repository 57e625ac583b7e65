package commands

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/toastkit/internal/core/eventbus"
	"github.com/colonyops/toastkit/internal/core/logging"
	"github.com/colonyops/toastkit/internal/core/scenario"
	"github.com/colonyops/toastkit/internal/core/toast"
	"github.com/colonyops/toastkit/internal/printer"
	"github.com/colonyops/toastkit/pkg/iojson"
)

const busIdleTimeout = 2 * time.Second

type PlayCmd struct {
	flags *Flags

	json     bool
	realtime bool
}

// NewPlayCmd creates a new play command.
func NewPlayCmd(flags *Flags) *PlayCmd {
	return &PlayCmd{flags: flags}
}

// Register adds the play command to the application.
func (cmd *PlayCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "play",
		Usage:     "Play toast scenarios and print every lifecycle transition",
		UsageText: "toastkit play [options] <glob>...",
		Description: `Loads YAML scenario files and runs each against a fresh toast manager.

By default scenarios run on a virtual clock and finish instantly with exact
timings. Use --realtime to play them on the wall clock.

Patterns support ** for recursive matching, e.g. 'scenarios/**/*.yaml'.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print one JSON object per line",
				Destination: &cmd.json,
			},
			&cli.BoolFlag{
				Name:        "realtime",
				Usage:       "run on the wall clock instead of virtual time",
				Destination: &cmd.realtime,
			},
		},
		Action: cmd.run,
	})

	return app
}

type eventLine struct {
	Scenario string  `json:"scenario"`
	OffsetMS float64 `json:"offset_ms"`
	scenario.Event
}

type summaryLine struct {
	Scenario  string               `json:"scenario"`
	Summary   eventbus.TallyCounts `json:"summary"`
	Remaining int                  `json:"remaining"`
	ElapsedMS float64              `json:"elapsed_ms"`
}

func (cmd *PlayCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() == 0 {
		return fmt.Errorf("at least one scenario file or glob is required")
	}

	files, err := scenario.Discover(c.Args().Slice()...)
	if err != nil {
		return err
	}

	p := printer.Ctx(ctx)
	out := c.Root().Writer
	failed := 0

	for _, file := range files {
		if err := cmd.play(ctx, p, out, file); err != nil {
			failed++
			log.Error().Err(err).Str("file", file).Msg("scenario failed")

			if cmd.json {
				if werr := iojson.WriteError(c.Root().ErrWriter, err.Error(), map[string]any{"file": file}); werr != nil {
					log.Error().Err(werr).Str("file", file).Msg("failed to write error line")
				}
			} else {
				p.Errorf("%s: %v", file, err)
			}
		}
	}

	if failed > 0 {
		if !cmd.json {
			p.Errorf("%d of %d scenario(s) failed", failed, len(files))
		}
		return cli.Exit("", 1)
	}

	return nil
}

func (cmd *PlayCmd) play(ctx context.Context, p *printer.Printer, out io.Writer, file string) error {
	sc, err := scenario.Load(file)
	if err != nil {
		return err
	}

	busCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	bus := eventbus.New(busBuffer)
	eventbus.RegisterDebugLogger(bus, logging.Component("eventbus"))
	tally := eventbus.NewTally(bus)
	go bus.Start(busCtx)

	lines := iojson.NewLineWriter(out)
	onEvent := func(e scenario.Event) {
		if cmd.json {
			if err := lines.Write(eventLine{Scenario: sc.Name, OffsetMS: millis(e.Offset), Event: e}); err != nil {
				log.Error().Err(err).Str("scenario", sc.Name).Msg("failed to write event line")
			}
			return
		}
		p.Printf("  %s", formatEvent(e))
	}

	if !cmd.json {
		p.Section(fmt.Sprintf("%s (%s)", sc.Name, file))
		if sc.Description != "" {
			p.Printf("  %s", sc.Description)
		}
	}

	res, err := scenario.Run(ctx, sc, scenario.Options{
		Toasts:   cmd.flags.Config.ToastOptions(),
		Realtime: cmd.realtime,
		Bus:      bus,
		OnEvent:  onEvent,
	})
	if err != nil {
		return err
	}

	idleCtx, idleCancel := context.WithTimeout(ctx, busIdleTimeout)
	defer idleCancel()
	if err := bus.WaitIdle(idleCtx); err != nil {
		log.Warn().Err(err).Str("scenario", sc.Name).Msg("event bus did not drain")
	}

	counts := tally.Counts()
	if cmd.json {
		return lines.Write(summaryLine{
			Scenario:  sc.Name,
			Summary:   counts,
			Remaining: len(res.Remaining),
			ElapsedMS: millis(res.Elapsed),
		})
	}

	p.Successf("%s", formatSummary(counts, len(res.Remaining), res.Elapsed))
	return nil
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// formatEvent renders one transition, e.g.
//
//	+5.000s closing  a1b2c3d4e error   "Failed" <Retry> [saved] (timeout)
func formatEvent(e scenario.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "+%.3fs %-8s %s %-7s %q", e.Offset.Seconds(), e.Kind, e.ToastID, e.Variant, e.Description)
	if e.Action != "" {
		fmt.Fprintf(&b, " <%s>", e.Action)
	}
	if e.Ref != "" {
		fmt.Fprintf(&b, " [%s]", e.Ref)
	}
	if e.Reason != toast.ReasonNone {
		fmt.Fprintf(&b, " (%s)", e.Reason)
	}
	return b.String()
}

func formatSummary(c eventbus.TallyCounts, remaining int, elapsed time.Duration) string {
	closing := 0
	reasons := make([]string, 0, len(c.Closing))
	for reason, n := range c.Closing {
		closing += n
		reasons = append(reasons, fmt.Sprintf("%s %d", reason, n))
	}
	sort.Strings(reasons)

	s := fmt.Sprintf("enqueued %d, closing %d", c.Enqueued, closing)
	if len(reasons) > 0 {
		s += " (" + strings.Join(reasons, ", ") + ")"
	}
	return fmt.Sprintf("%s, removed %d, remaining %d in %s", s, c.Removed, remaining, elapsed)
}
