package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/warlord/internal/clock"
	"github.com/cory-johannsen/warlord/internal/daemon"
	"github.com/cory-johannsen/warlord/internal/server"
)

func newServeCommand(withApp appRunner) *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Advance the save one day per interval until interrupted",
		Long: `serve runs the simulation as a daemon. Every interval it advances the save one
day and stores the result; a day is only committed once it has been saved.
SIGINT or SIGTERM stops the clock after the tick in progress.`,
		Args: cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *App, _ []string) error {
			s, err := a.load(ctx)
			if err != nil {
				return err
			}
			every := a.DayInterval
			if interval > 0 {
				every = interval
			}
			if every <= 0 {
				return fmt.Errorf("day interval must be positive, got %s", every)
			}

			logger := nopLogger(a).Named("daemon")
			runner := daemon.NewRunner(a.Engine, a.Store, a.SaveID, s, logger)
			dayClock := clock.New(every, runner.Tick, logger)

			lc := server.NewLifecycle(logger)
			lc.Add("day-clock", dayClock)
			logger.Info("serving", zap.Int("day", s.Day), zap.Duration("interval", every))
			if err := lc.Run(ctx); err != nil {
				return err
			}
			final := runner.State()
			okColor.Fprintf(a.Out, "✓ stopped on day %d after %d ticks\n", final.Day, dayClock.Ticks())
			return nil
		}),
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "override game.day_interval")
	return cmd
}
