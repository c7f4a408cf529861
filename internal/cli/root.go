package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/warlord/internal/config"
	"github.com/cory-johannsen/warlord/internal/game/catalog"
	"github.com/cory-johannsen/warlord/internal/game/gameerr"
	"github.com/cory-johannsen/warlord/internal/game/realm"
	"github.com/cory-johannsen/warlord/internal/observability"
	"github.com/cory-johannsen/warlord/internal/storage/postgres"
)

// globals holds the persistent flags shared by every command.
type globals struct {
	configPath string
	saveID     string
}

// NewRootCommand creates the warlord command tree. A nil open uses the
// configuration file and PostgreSQL.
func NewRootCommand(open Opener) *cobra.Command {
	g := &globals{}
	if open == nil {
		open = g.openFromConfig
	}

	rootCmd := &cobra.Command{
		Use:   "warlord",
		Short: "Day-tick economy and army simulation",
		Long: `warlord runs a turn-based economy and military simulation. Buy and sell at
the market, run production buildings, train soldiers in the barracks, form
units from the pool and advance the world one day at a time.

Examples:
  warlord new
  warlord recruit 20
  warlord train LIGHT_INF_SWORD 10
  warlord advance --days 7
  warlord unit create LIGHT_INF_SWORD --take NOVICE=10 --auto-buy
  warlord status`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "path to configuration file (defaults and WARLORD_* env when empty)")
	rootCmd.PersistentFlags().StringVar(&g.saveID, "save", "", "save slot to operate on (overrides game.save_id)")

	// withApp opens an App for the duration of one command.
	withApp := func(run func(ctx context.Context, a *App, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			app, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()
			if g.saveID != "" {
				app.SaveID = g.saveID
			}
			if app.Out == nil {
				app.Out = cmd.OutOrStdout()
			}
			return run(cmd.Context(), app, args)
		}
	}

	rootCmd.AddCommand(
		newGameCommand(withApp),
		newStatusCommand(withApp),
		newAdvanceCommand(withApp),
		newBuyCommand(withApp),
		newSellCommand(withApp),
		newBuildingCommand(withApp),
		newBarracksCommand(withApp),
		newRecruitCommand(withApp),
		newTrainCommand(withApp),
		newConvertCommand(withApp),
		newUnitCommand(withApp),
		newCatalogCommand(withApp),
		newSavesCommand(withApp),
		newServeCommand(withApp),
	)
	return rootCmd
}

type appRunner = func(run func(ctx context.Context, a *App, args []string) error) func(*cobra.Command, []string) error

func (g *globals) openFromConfig(ctx context.Context) (*App, func(), error) {
	var (
		cfg config.Config
		err error
	)
	if g.configPath == "" {
		cfg, err = config.Default()
	} else {
		cfg, err = config.Load(g.configPath)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if g.saveID != "" {
		cfg.Game.SaveID = g.saveID
	}
	logger, err := observability.NewGameLogger(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("creating logger: %w", err)
	}
	reg, err := catalog.Load(cfg.Game.ContentDir)
	if err != nil {
		return nil, nil, fmt.Errorf("loading catalog: %w", err)
	}
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}

	app := &App{
		Engine:         realm.NewEngine(reg, realm.WithLogger(logger.Named("realm"))),
		Store:          pgStore{repo: postgres.NewSaveRepository(pool.DB())},
		SaveID:         cfg.Game.SaveID,
		StartingWallet: cfg.Game.StartingWallet,
		DayInterval:    cfg.Game.DayInterval,
		Logger:         logger,
	}
	return app, func() {
		pool.Close()
		_ = logger.Sync()
	}, nil
}

// Execute runs the command tree against os.Args and exits non-zero on failure.
func Execute() {
	if err := run(context.Background(), NewRootCommand(nil), os.Args[1:], os.Stderr); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, root *cobra.Command, args []string, stderr io.Writer) error {
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	// Rejections were already printed by the command.
	if err != nil && !gameerr.IsRejection(err) {
		fmt.Fprintln(stderr, "error:", err)
	}
	return err
}

func nopLogger(a *App) *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}
