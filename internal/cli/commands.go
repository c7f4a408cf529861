package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/warlord/internal/game/catalog"
	"github.com/cory-johannsen/warlord/internal/game/production"
	"github.com/cory-johannsen/warlord/internal/game/realm"
)

func parseQty(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("quantity %q is not a number", s)
	}
	return n, nil
}

// parsePlan converts --take NOVICE=10,TRAINED=5 into a per-rank plan.
func parsePlan(take map[string]int) (map[catalog.Rank]int, error) {
	if len(take) == 0 {
		return nil, fmt.Errorf("--take is required, e.g. --take NOVICE=10")
	}
	plan := make(map[catalog.Rank]int, len(take))
	for name, n := range take {
		r, err := catalog.ParseRank(strings.ToUpper(name))
		if err != nil {
			return nil, err
		}
		plan[r] = n
	}
	return plan, nil
}

func soldierType(s string) catalog.SoldierType {
	return catalog.SoldierType(strings.ToUpper(s))
}

func newGameCommand(withApp appRunner) *cobra.Command {
	var (
		wallet int64
		force  bool
	)
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new game in the current save slot",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *App, _ []string) error {
			if _, err := a.Store.Load(ctx, a.SaveID); err == nil && !force {
				return fmt.Errorf("save %q already exists; pass --force to overwrite", a.SaveID)
			}
			start := a.StartingWallet
			if wallet >= 0 {
				start = wallet
			}
			s := realm.NewGame(start)
			if err := a.Store.Save(ctx, a.SaveID, s); err != nil {
				return fmt.Errorf("saving %q: %w", a.SaveID, err)
			}
			okColor.Fprintf(a.Out, "✓ new game %q: day %d, wallet %s\n", a.SaveID, s.Day, catalog.FormatCopper(s.Wallet))
			return nil
		}),
	}
	cmd.Flags().Int64Var(&wallet, "wallet", -1, "starting copper (defaults to game.starting_wallet)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing save")
	return cmd
}

func newStatusCommand(withApp appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show wallet, buildings, stock, barracks and units",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *App, _ []string) error {
			s, err := a.load(ctx)
			if err != nil {
				return err
			}
			renderStatus(a.Out, a.Engine, s)
			return nil
		}),
	}
}

func newAdvanceCommand(withApp appRunner) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "advance",
		Short: "Advance the simulation one or more days",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *App, _ []string) error {
			if days < 1 {
				return fmt.Errorf("--days must be >= 1, got %d", days)
			}
			s, err := a.load(ctx)
			if err != nil {
				return err
			}
			for i := 0; i < days; i++ {
				var rep realm.DayReport
				s, rep = a.Engine.AdvanceDay(s)
				fmt.Fprintln(a.Out, rep.Summary())
			}
			if err := a.Store.Save(ctx, a.SaveID, s); err != nil {
				return fmt.Errorf("saving %q: %w", a.SaveID, err)
			}
			okColor.Fprintf(a.Out, "✓ now day %d, wallet %s\n", s.Day, catalog.FormatCopper(s.Wallet))
			return nil
		}),
	}
	cmd.Flags().IntVar(&days, "days", 1, "number of days to simulate")
	return cmd
}

func newBuyCommand(withApp appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "buy ITEM QTY",
		Short: "Buy items or resources at market price",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(ctx context.Context, a *App, args []string) error {
			item := strings.ToUpper(args[0])
			qty, err := parseQty(args[1])
			if err != nil {
				return err
			}
			return a.apply(ctx, func(s realm.State) (realm.State, string, error) {
				next, err := a.Engine.Buy(s, item, qty)
				return next, fmt.Sprintf("bought %d %s for %s", qty, item, catalog.FormatCopper(s.Wallet-next.Wallet)), err
			})
		}),
	}
}

func newSellCommand(withApp appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "sell ITEM QTY",
		Short: "Sell items or resources at market price",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(ctx context.Context, a *App, args []string) error {
			item := strings.ToUpper(args[0])
			qty, err := parseQty(args[1])
			if err != nil {
				return err
			}
			return a.apply(ctx, func(s realm.State) (realm.State, string, error) {
				next, err := a.Engine.Sell(s, item, qty)
				return next, fmt.Sprintf("sold %d %s for %s", qty, item, catalog.FormatCopper(next.Wallet-s.Wallet)), err
			})
		}),
	}
}

func newBuildingCommand(withApp appRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "building",
		Short: "Buy and configure production buildings",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "buy TYPE",
			Short: "Buy a building",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(func(ctx context.Context, a *App, args []string) error {
				t := production.BuildingType(strings.ToUpper(args[0]))
				return a.apply(ctx, func(s realm.State) (realm.State, string, error) {
					next, err := a.Engine.BuyBuilding(s, t)
					return next, fmt.Sprintf("bought a %s", t), err
				})
			}),
		},
		&cobra.Command{
			Use:   "focus ID PCT",
			Short: "Set the share of a building's budget kept as coin (0-100 in steps of 20)",
			Args:  cobra.ExactArgs(2),
			RunE: withApp(func(ctx context.Context, a *App, args []string) error {
				pct, err := parseQty(args[1])
				if err != nil {
					return err
				}
				return a.apply(ctx, func(s realm.State) (realm.State, string, error) {
					next, err := a.Engine.SetBuildingFocus(s, args[0], pct)
					return next, fmt.Sprintf("%s focus set to %d%% coin", args[0], pct), err
				})
			}),
		},
		&cobra.Command{
			Use:   "output ID ITEM",
			Short: "Choose what a building produces",
			Args:  cobra.ExactArgs(2),
			RunE: withApp(func(ctx context.Context, a *App, args []string) error {
				item := strings.ToUpper(args[1])
				return a.apply(ctx, func(s realm.State) (realm.State, string, error) {
					next, err := a.Engine.SetBuildingOutput(s, args[0], item)
					return next, fmt.Sprintf("%s now produces %s", args[0], item), err
				})
			}),
		},
	)
	return cmd
}

func newBarracksCommand(withApp appRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "barracks",
		Short: "Manage the barracks",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "upgrade",
		Short: "Raise the barracks one level",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *App, _ []string) error {
			return a.apply(ctx, func(s realm.State) (realm.State, string, error) {
				next, err := a.Engine.UpgradeBarracks(s)
				return next, fmt.Sprintf("barracks is now level %d", next.Barracks.Level), err
			})
		}),
	})
	return cmd
}

func newRecruitCommand(withApp appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "recruit QTY",
		Short: "Add untrained recruits",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *App, args []string) error {
			n, err := parseQty(args[0])
			if err != nil {
				return err
			}
			return a.apply(ctx, func(s realm.State) (realm.State, string, error) {
				next, err := a.Engine.Recruit(s, n)
				return next, fmt.Sprintf("%d recruits waiting", next.Barracks.Recruits.Count), err
			})
		}),
	}
}

func newTrainCommand(withApp appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "train TARGET QTY",
		Short: "Queue recruits for light training into TARGET",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(ctx context.Context, a *App, args []string) error {
			target := soldierType(args[0])
			qty, err := parseQty(args[1])
			if err != nil {
				return err
			}
			return a.apply(ctx, func(s realm.State) (realm.State, string, error) {
				next, err := a.Engine.QueueLightTraining(s, target, qty)
				return next, fmt.Sprintf("queued %d recruits for %s", qty, target), err
			})
		}),
	}
}

func newConvertCommand(withApp appRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Queue pool soldiers for conversion",
	}
	queue := func(use, short string, nargs int, fn func(*realm.Engine, realm.State, []string, int) (realm.State, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.ExactArgs(nargs),
			RunE: withApp(func(ctx context.Context, a *App, args []string) error {
				qty, err := parseQty(args[len(args)-1])
				if err != nil {
					return err
				}
				return a.apply(ctx, func(s realm.State) (realm.State, string, error) {
					next, err := fn(a.Engine, s, args, qty)
					return next, fmt.Sprintf("queued %d soldiers (%s)", qty, strings.Fields(use)[0]), err
				})
			}),
		}
	}
	cmd.AddCommand(
		queue("light-cav SOURCE QTY", "Convert light infantry into light cavalry", 2,
			func(e *realm.Engine, s realm.State, args []string, qty int) (realm.State, error) {
				return e.QueueLightCavConversion(s, soldierType(args[0]), qty)
			}),
		queue("heavy SOURCE QTY", "Convert ADVANCED+ light cavalry or heavy infantry into heavy cavalry", 2,
			func(e *realm.Engine, s realm.State, args []string, qty int) (realm.State, error) {
				return e.QueueHeavyConversion(s, soldierType(args[0]), qty)
			}),
		queue("horse-archer QTY", "Convert ADVANCED+ light archers into horse archers", 1,
			func(e *realm.Engine, s realm.State, _ []string, qty int) (realm.State, error) {
				return e.QueueHorseArcherConversion(s, qty)
			}),
	)
	return cmd
}

func newUnitCommand(withApp appRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unit",
		Short: "Form, reinforce, split, merge and train units",
	}

	var (
		createTake    map[string]int
		createAutoBuy bool
	)
	create := &cobra.Command{
		Use:   "create TYPE",
		Short: "Form a unit from pool soldiers",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *App, args []string) error {
			plan, err := parsePlan(createTake)
			if err != nil {
				return err
			}
			t := soldierType(args[0])
			return a.apply(ctx, func(s realm.State) (realm.State, string, error) {
				next, u, err := a.Engine.CreateUnit(s, t, plan, createAutoBuy)
				return next, fmt.Sprintf("formed %s: %d %s", u.ID, u.Size(), t), err
			})
		}),
	}
	create.Flags().StringToIntVar(&createTake, "take", nil, "soldiers per rank, e.g. NOVICE=10,TRAINED=5")
	create.Flags().BoolVar(&createAutoBuy, "auto-buy", false, "buy missing equipment at market price")

	var (
		replTake    map[string]int
		replAutoBuy bool
	)
	replenish := &cobra.Command{
		Use:   "replenish ID",
		Short: "Reinforce a unit from pool soldiers of its type",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *App, args []string) error {
			plan, err := parsePlan(replTake)
			if err != nil {
				return err
			}
			return a.apply(ctx, func(s realm.State) (realm.State, string, error) {
				next, err := a.Engine.ReplenishUnit(s, args[0], plan, replAutoBuy)
				msg := ""
				if i := next.FindUnit(args[0]); i >= 0 {
					msg = fmt.Sprintf("%s now has %d soldiers", args[0], next.Units[i].Size())
				}
				return next, msg, err
			})
		}),
	}
	replenish.Flags().StringToIntVar(&replTake, "take", nil, "soldiers per rank, e.g. NOVICE=10")
	replenish.Flags().BoolVar(&replAutoBuy, "auto-buy", false, "buy missing equipment at market price")

	split := &cobra.Command{
		Use:   "split ID QTY",
		Short: "Move QTY soldiers and their share of equipment into a new unit",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(ctx context.Context, a *App, args []string) error {
			qty, err := parseQty(args[1])
			if err != nil {
				return err
			}
			return a.apply(ctx, func(s realm.State) (realm.State, string, error) {
				next, taken, err := a.Engine.SplitUnit(s, args[0], qty)
				return next, fmt.Sprintf("split %d soldiers into %s", qty, taken.ID), err
			})
		}),
	}

	merge := &cobra.Command{
		Use:   "merge A B",
		Short: "Merge two units of the same type into a new unit",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(ctx context.Context, a *App, args []string) error {
			return a.apply(ctx, func(s realm.State) (realm.State, string, error) {
				next, merged, err := a.Engine.MergeUnits(s, args[0], args[1])
				return next, fmt.Sprintf("merged into %s: %d soldiers", merged.ID, merged.Size()), err
			})
		}),
	}

	train := &cobra.Command{
		Use:   "train ID",
		Short: "Toggle daily training for a unit",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *App, args []string) error {
			return a.apply(ctx, func(s realm.State) (realm.State, string, error) {
				next, err := a.Engine.ToggleTraining(s, args[0])
				state := "off"
				if i := next.FindUnit(args[0]); i >= 0 && next.Units[i].Training {
					state = "on"
				}
				return next, fmt.Sprintf("training %s for %s", state, args[0]), err
			})
		}),
	}

	cmd.AddCommand(create, replenish, split, merge, train)
	return cmd
}

func newCatalogCommand(withApp appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List items, unit templates, recipes and buildings",
		Args:  cobra.NoArgs,
		RunE: withApp(func(_ context.Context, a *App, _ []string) error {
			renderCatalog(a.Out, a.Engine.Catalog())
			return nil
		}),
	}
}

func newSavesCommand(withApp appRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saves",
		Short: "List and delete save slots",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List save slots",
			Args:  cobra.NoArgs,
			RunE: withApp(func(ctx context.Context, a *App, _ []string) error {
				saves, err := a.Store.List(ctx)
				if err != nil {
					return err
				}
				renderSaves(a.Out, saves)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete a save slot",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(func(ctx context.Context, a *App, args []string) error {
				if err := a.Store.Delete(ctx, args[0]); err != nil {
					return fmt.Errorf("deleting %q: %w", args[0], err)
				}
				okColor.Fprintf(a.Out, "✓ deleted %s\n", args[0])
				return nil
			}),
		},
	)
	return cmd
}
