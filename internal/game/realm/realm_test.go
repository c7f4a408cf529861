package realm_test

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/warlord/internal/game/barracks"
	"github.com/cory-johannsen/warlord/internal/game/catalog"
	"github.com/cory-johannsen/warlord/internal/game/gameerr"
	"github.com/cory-johannsen/warlord/internal/game/production"
	"github.com/cory-johannsen/warlord/internal/game/realm"
)

func newEngine(t testing.TB, opts ...realm.Option) *realm.Engine {
	t.Helper()
	n := 0
	ids := realm.WithIDSource(func(prefix string) string {
		n++
		return fmt.Sprintf("%s_%d", prefix, n)
	})
	return realm.NewEngine(catalog.Core(), append([]realm.Option{ids}, opts...)...)
}

func snapshot(t testing.TB, s realm.State) string {
	t.Helper()
	b, err := json.Marshal(s)
	require.NoError(t, err)
	return string(b)
}

// withPool returns a fresh game whose barracks pool holds n soldiers of t at r.
func withPool(t catalog.SoldierType, r catalog.Rank, n, xp int) realm.State {
	s := realm.NewGame(realm.DefaultStartingWallet)
	s.Barracks.Pool.Add(t, r, barracks.Cohort{Count: n, AvgXP: xp})
	return s
}

func TestNewGame(t *testing.T) {
	s := realm.NewGame(realm.DefaultStartingWallet)
	assert.Equal(t, 1, s.Day)
	assert.Equal(t, 10*catalog.Gold, s.Wallet)
	assert.Equal(t, 1, s.Barracks.Level)
	assert.True(t, s.Owns(production.Woodworker))
	assert.True(t, s.Owns(production.Market))
	assert.False(t, s.Owns(production.Stable))
	assert.Empty(t, s.Units)
	assert.Equal(t, 1, s.TrainingSlots())
}

func TestBuySell(t *testing.T) {
	e := newEngine(t)
	s := realm.NewGame(realm.DefaultStartingWallet)

	s, err := e.Buy(s, "SWORD", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, s.Inventory.Weapons["SWORD"])
	assert.Equal(t, 10*catalog.Gold-60*catalog.Silver, s.Wallet)

	s, err = e.Buy(s, "IRON_ORE", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Resources["IRON_ORE"])

	s, err = e.Sell(s, "SWORD", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Inventory.Weapons["SWORD"])

	_, err = e.Sell(s, "SWORD", 4)
	assert.ErrorIs(t, err, gameerr.ErrInsufficientStock)
	_, err = e.Buy(s, "DRAGON", 1)
	assert.ErrorIs(t, err, gameerr.ErrUnknownCatalogEntry)
	_, err = e.Buy(s, "SWORD", 0)
	assert.ErrorIs(t, err, gameerr.ErrInvalidArgument)
}

func TestBuy_RejectionLeavesStateUntouched(t *testing.T) {
	e := newEngine(t)
	s := realm.NewGame(50)
	before := snapshot(t, s)

	got, err := e.Buy(s, "HEAVY_ARMOR", 1)
	assert.ErrorIs(t, err, gameerr.ErrInsufficientFunds)
	assert.True(t, gameerr.IsRejection(err))
	assert.Equal(t, before, snapshot(t, got))
	assert.Equal(t, before, snapshot(t, s))
}

func TestBuy_HugeQuantityCannotOverdraw(t *testing.T) {
	e := newEngine(t)
	s := realm.NewGame(realm.DefaultStartingWallet)
	before := snapshot(t, s)

	// price × qty wraps past MaxInt64 into a small positive cost.
	qty := int(math.MaxInt64/(15*catalog.Silver)) + 1
	got, err := e.Buy(s, "SWORD", qty)
	require.ErrorIs(t, err, gameerr.ErrInsufficientFunds)
	assert.Equal(t, before, snapshot(t, got))

	got, err = e.Buy(s, "BOW", math.MaxInt)
	require.ErrorIs(t, err, gameerr.ErrInsufficientFunds)
	assert.Equal(t, before, snapshot(t, got))

	broke := realm.NewGame(0)
	broke.Wallet = -1
	_, err = e.Buy(broke, "SHIELD", 1)
	assert.ErrorIs(t, err, gameerr.ErrInsufficientFunds)
}

func TestSell_HugeStockCannotWrapWallet(t *testing.T) {
	e := newEngine(t)
	s := realm.NewGame(math.MaxInt64 - 10)
	s.Inventory.Add(catalog.CategoryWeapon, "SWORD", 2)
	before := snapshot(t, s)

	got, err := e.Sell(s, "SWORD", 1)
	require.ErrorIs(t, err, gameerr.ErrInvalidArgument)
	assert.Equal(t, before, snapshot(t, got))
}

func TestRecruit_OverflowRejected(t *testing.T) {
	e := newEngine(t)
	s, err := e.Recruit(realm.NewGame(0), 10)
	require.NoError(t, err)

	got, err := e.Recruit(s, math.MaxInt)
	require.ErrorIs(t, err, gameerr.ErrInvalidArgument)
	assert.Equal(t, 10, got.Barracks.Recruits.Count)
}

func TestBuy_HorsesNeedStable(t *testing.T) {
	e := newEngine(t)
	s := realm.NewGame(realm.DefaultStartingWallet)

	_, err := e.Buy(s, "LIGHT_HORSE", 1)
	require.ErrorIs(t, err, gameerr.ErrBuildingRequired)

	s, err = e.BuyBuilding(s, production.Stable)
	require.NoError(t, err)
	s, err = e.Buy(s, "LIGHT_HORSE", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Inventory.Horses["LIGHT_HORSE"].Active)
	assert.Equal(t, 10*catalog.Gold-4*catalog.Gold-5*catalog.Gold, s.Wallet)
}

func TestBuyBuilding(t *testing.T) {
	e := newEngine(t)
	s := realm.NewGame(realm.DefaultStartingWallet)

	_, err := e.BuyBuilding(s, production.Woodworker)
	assert.ErrorIs(t, err, gameerr.ErrAlreadyOwned)
	_, err = e.BuyBuilding(s, production.BuildingType("CASTLE"))
	assert.ErrorIs(t, err, gameerr.ErrInvalidArgument)
	_, err = e.BuyBuilding(s, production.Blacksmith)
	assert.ErrorIs(t, err, gameerr.ErrInsufficientFunds)

	s, err = e.BuyBuilding(s, production.Tailor)
	require.NoError(t, err)
	i := s.FindBuilding("tailor_1")
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, "LIGHT_ARMOR", s.Buildings[i].Output())
	assert.Equal(t, 100, s.Buildings[i].FocusCoinPct)
}

func TestSetBuildingFocusAndOutput(t *testing.T) {
	e := newEngine(t)
	s := realm.NewGame(realm.DefaultStartingWallet)
	s.Buildings[s.FindBuilding("wood1")].FractionalBuffer = 0.5

	_, err := e.SetBuildingFocus(s, "wood1", 50)
	assert.ErrorIs(t, err, gameerr.ErrInvalidArgument)
	_, err = e.SetBuildingFocus(s, "market", 20)
	assert.ErrorIs(t, err, gameerr.ErrInvalidArgument)
	_, err = e.SetBuildingFocus(s, "nowhere", 20)
	assert.ErrorIs(t, err, gameerr.ErrNotFound)

	next, err := e.SetBuildingFocus(s, "wood1", 20)
	require.NoError(t, err)
	assert.Equal(t, 20, next.Buildings[next.FindBuilding("wood1")].FocusCoinPct)

	same, err := e.SetBuildingOutput(s, "wood1", "BOW")
	require.NoError(t, err)
	assert.Equal(t, 0.5, same.Buildings[same.FindBuilding("wood1")].FractionalBuffer)

	next, err = e.SetBuildingOutput(s, "wood1", "SHIELD")
	require.NoError(t, err)
	w := next.Buildings[next.FindBuilding("wood1")]
	assert.Equal(t, "SHIELD", w.Output())
	assert.Zero(t, w.FractionalBuffer)

	_, err = e.SetBuildingOutput(s, "wood1", "SWORD")
	assert.ErrorIs(t, err, gameerr.ErrInvalidArgument)
}

func TestUpgradeBarracks(t *testing.T) {
	e := newEngine(t)
	s := realm.NewGame(100 * catalog.Gold)

	for level := 2; level <= barracks.MaxLevel; level++ {
		var err error
		s, err = e.UpgradeBarracks(s)
		require.NoError(t, err, "level %d", level)
		assert.Equal(t, level, s.Barracks.Level)
	}
	assert.Equal(t, 100*catalog.Gold-(5000+15000+40000+80000), s.Wallet)
	_, err := e.UpgradeBarracks(s)
	assert.ErrorIs(t, err, gameerr.ErrMaxLevel)
}

func TestLightTrainingLandsInPool(t *testing.T) {
	e := newEngine(t)
	s := realm.NewGame(realm.DefaultStartingWallet)

	s, err := e.Recruit(s, 12)
	require.NoError(t, err)

	_, err = e.QueueLightTraining(s, catalog.LightInfSword, 10)
	require.ErrorIs(t, err, gameerr.ErrInsufficientEquipment)

	for _, id := range []string{"SWORD", "LIGHT_ARMOR", "SHIELD"} {
		s, err = e.Buy(s, id, 10)
		require.NoError(t, err)
	}
	s, err = e.QueueLightTraining(s, catalog.LightInfSword, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Barracks.Recruits.Count)
	assert.Zero(t, s.Inventory.Weapons["SWORD"])
	require.Len(t, s.Barracks.Queue, 1)

	var rep realm.DayReport
	for d := 0; d < barracks.DurationDays(1); d++ {
		assert.Zero(t, s.Barracks.Pool.Get(catalog.LightInfSword, catalog.Novice).Count)
		s, rep = e.AdvanceDay(s)
	}
	require.Len(t, rep.Completed, 1)
	assert.Contains(t, rep.Summary(), "LIGHT_TRAIN 10 → LIGHT_INF_SWORD done")
	assert.Empty(t, s.Barracks.Queue)
	assert.Equal(t, barracks.Cohort{Count: 10}, s.Barracks.Pool.Get(catalog.LightInfSword, catalog.Novice))
}

func TestHeavyConversion(t *testing.T) {
	e := newEngine(t)
	s := withPool(catalog.LightCav, catalog.Advanced, 5, 300)
	s.Barracks.Pool.Add(catalog.LightCav, catalog.Novice, barracks.Cohort{Count: 5})
	s.Inventory.Add(catalog.CategoryHorse, "HEAVY_HORSE", 5)
	s.Inventory.Add(catalog.CategoryArmor, "HORSE_ARMOR", 5)

	_, err := e.QueueHeavyConversion(s, catalog.LightCav, 5)
	require.ErrorIs(t, err, gameerr.ErrInsufficientEquipment)

	s.Inventory.Add(catalog.CategoryArmor, "HEAVY_ARMOR", 5)
	_, err = e.QueueHeavyConversion(s, catalog.LightCav, 6)
	require.ErrorIs(t, err, gameerr.ErrInsufficientStock)

	s, err = e.QueueHeavyConversion(s, catalog.LightCav, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, s.Barracks.Pool.Get(catalog.LightCav, catalog.Novice).Count)
	assert.Zero(t, s.Barracks.Pool.Get(catalog.LightCav, catalog.Advanced).Count)

	_, err = e.QueueHorseArcherConversion(s, 1)
	assert.ErrorIs(t, err, gameerr.ErrInsufficientStock)
}

func TestCreateUnit(t *testing.T) {
	e := newEngine(t)
	s := withPool(catalog.LightInfSword, catalog.Novice, 10, 0)
	before := snapshot(t, s)

	_, _, err := e.CreateUnit(s, catalog.LightInfSword, map[catalog.Rank]int{catalog.Novice: 10}, false)
	require.ErrorIs(t, err, gameerr.ErrInsufficientEquipment)
	assert.Equal(t, before, snapshot(t, s))

	_, _, err = e.CreateUnit(s, catalog.LightInfSword, map[catalog.Rank]int{catalog.Novice: 11}, true)
	require.ErrorIs(t, err, gameerr.ErrInsufficientStock)

	next, u, err := e.CreateUnit(s, catalog.LightInfSword, map[catalog.Rank]int{catalog.Novice: 10}, true)
	require.NoError(t, err)
	assert.Equal(t, s.Wallet-190*catalog.Silver, next.Wallet)
	assert.Equal(t, 10, u.Size())
	assert.Equal(t, 10, u.Equip.Get(catalog.CategoryWeapon, "SWORD"))
	assert.Zero(t, next.Barracks.Pool.Get(catalog.LightInfSword, catalog.Novice).Count)

	view, ok := e.Unit(next, u.ID)
	require.True(t, ok)
	assert.Equal(t, 10, view.Readiness)
	assert.Empty(t, view.Missing)
	assert.Equal(t, "Light Infantry (Sword)", view.Name)
}

func TestReplenishUnit(t *testing.T) {
	e := newEngine(t)
	s := withPool(catalog.LightInfSword, catalog.Trained, 10, 200)
	s, u, err := e.CreateUnit(s, catalog.LightInfSword, map[catalog.Rank]int{catalog.Trained: 10}, true)
	require.NoError(t, err)
	s.Barracks.Pool.Add(catalog.LightInfSword, catalog.Novice, barracks.Cohort{Count: 5})

	s, err = e.ReplenishUnit(s, u.ID, map[catalog.Rank]int{catalog.Novice: 5}, true)
	require.NoError(t, err)
	got := s.Units[s.FindUnit(u.ID)]
	assert.Equal(t, 15, got.Size())
	// 5 novices join with 10% of 200 XP.
	assert.Equal(t, 20, got.Buckets[0].AvgXP)
	assert.Equal(t, (10*200+5*20)/15, got.AvgXP)
	assert.Equal(t, 15, got.Equip.Get(catalog.CategoryWeapon, "SWORD"))

	_, err = e.ReplenishUnit(s, "U_404", map[catalog.Rank]int{catalog.Novice: 1}, true)
	assert.ErrorIs(t, err, gameerr.ErrNotFound)
}

func TestSplitAndMergeKeepOrder(t *testing.T) {
	e := newEngine(t)
	s := withPool(catalog.LightInfSword, catalog.Novice, 30, 0)
	plan := map[catalog.Rank]int{catalog.Novice: 10}
	s, a, err := e.CreateUnit(s, catalog.LightInfSword, plan, true)
	require.NoError(t, err)
	s, b, err := e.CreateUnit(s, catalog.LightInfSword, plan, true)
	require.NoError(t, err)

	s, taken, err := e.SplitUnit(s, a.ID, 4)
	require.NoError(t, err)
	require.Len(t, s.Units, 3)
	assert.Equal(t, []string{a.ID, taken.ID, b.ID}, unitIDs(s))
	assert.Equal(t, 6, s.Units[0].Size())
	assert.Equal(t, 4, taken.Size())

	_, _, err = e.SplitUnit(s, a.ID, 6)
	assert.ErrorIs(t, err, gameerr.ErrInvalidArgument)

	s, merged, err := e.MergeUnits(s, b.ID, taken.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, merged.ID}, unitIDs(s))
	assert.Equal(t, 14, merged.Size())
	assert.Equal(t, 14, merged.Equip.Get(catalog.CategoryWeapon, "SWORD"))

	_, _, err = e.MergeUnits(s, a.ID, b.ID)
	assert.ErrorIs(t, err, gameerr.ErrNotFound)
}

func unitIDs(s realm.State) []string {
	out := make([]string, len(s.Units))
	for i, u := range s.Units {
		out[i] = u.ID
	}
	return out
}

func TestToggleTrainingAndDailyXP(t *testing.T) {
	e := newEngine(t)
	s := withPool(catalog.LightInfSword, catalog.Novice, 20, 0)
	plan := map[catalog.Rank]int{catalog.Novice: 10}
	s, a, err := e.CreateUnit(s, catalog.LightInfSword, plan, true)
	require.NoError(t, err)
	s, b, err := e.CreateUnit(s, catalog.LightInfSword, plan, true)
	require.NoError(t, err)

	s, err = e.ToggleTraining(s, a.ID)
	require.NoError(t, err)
	_, err = e.ToggleTraining(s, b.ID)
	require.ErrorIs(t, err, gameerr.ErrQueueFull)

	s, rep := e.AdvanceDay(s)
	assert.Equal(t, []string{a.ID}, rep.Trained)
	assert.Equal(t, 25, s.Units[s.FindUnit(a.ID)].AvgXP)
	assert.Zero(t, s.Units[s.FindUnit(b.ID)].AvgXP)

	s, err = e.ToggleTraining(s, a.ID)
	require.NoError(t, err)
	assert.False(t, s.Units[s.FindUnit(a.ID)].Training)
}

func TestAdvanceDay_Summary(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	e := newEngine(t, realm.WithLogger(zap.New(core)))
	s := realm.NewGame(realm.DefaultStartingWallet)

	next, rep := e.AdvanceDay(s)
	assert.Equal(t, 2, next.Day)
	assert.Equal(t, 1, s.Day)
	assert.Equal(t, int64(1200), rep.WalletDelta)
	assert.Equal(t, s.Wallet+1200, next.Wallet)
	assert.Equal(t, 16, next.Inventory.Weapons["BOW"])
	assert.Nil(t, rep.Stable)
	assert.Equal(t, "Day 1 — WOODWORKER → +16 BOW, +12s | Wallet Δ 12s", rep.Summary())

	entries := logs.FilterMessage("day advanced").All()
	require.Len(t, entries, 1)
	assert.Equal(t, rep.Summary(), entries[0].ContextMap()["summary"])
}

func TestAdvanceDay_StableUpkeepCanOverdraw(t *testing.T) {
	e := newEngine(t)
	s := realm.NewGame(0)
	s.Buildings = append(s.Buildings, production.NewBuilding("stable", production.Stable))
	s.Buildings[s.FindBuilding("wood1")].FocusCoinPct = 0
	s.Inventory.Add(catalog.CategoryHorse, "LIGHT_HORSE", 200)

	next, rep := e.AdvanceDay(s)
	require.NotNil(t, rep.Stable)
	assert.Equal(t, 202, next.Inventory.Horses["LIGHT_HORSE"].Active)
	assert.Equal(t, int64(-202*50), next.Wallet)
	assert.Contains(t, rep.Summary(), "Stable: +2 foals")
	assert.Contains(t, rep.Summary(), "Wallet Δ -1g 1s")
}

func TestState_JSONRoundTrip(t *testing.T) {
	e := newEngine(t)
	s := withPool(catalog.LightInfSword, catalog.Veteran, 10, 800)
	s, _, err := e.CreateUnit(s, catalog.LightInfSword, map[catalog.Rank]int{catalog.Veteran: 6}, true)
	require.NoError(t, err)
	s, err = e.Recruit(s, 5)
	require.NoError(t, err)
	s.Inventory.Add(catalog.CategoryWeapon, "SWORD", 5)
	s.Inventory.Add(catalog.CategoryArmor, "LIGHT_ARMOR", 5)
	s.Inventory.Add(catalog.CategoryArmor, "SHIELD", 5)
	s, err = e.QueueLightTraining(s, catalog.LightInfSword, 5)
	require.NoError(t, err)
	s, _ = e.AdvanceDay(s)

	raw := snapshot(t, s)
	var back realm.State
	require.NoError(t, json.Unmarshal([]byte(raw), &back))
	assert.JSONEq(t, raw, snapshot(t, back))
	assert.Equal(t, s.Day, back.Day)
	assert.Equal(t, s.Wallet, back.Wallet)
	assert.Equal(t, s.Barracks.Pool.Get(catalog.LightInfSword, catalog.Veteran), back.Barracks.Pool.Get(catalog.LightInfSword, catalog.Veteran))
	assert.Equal(t, s.Units[0].Buckets, back.Units[0].Buckets)

	// The restored state must keep simulating identically.
	a, _ := e.AdvanceDay(s)
	b, _ := e.AdvanceDay(back)
	assert.JSONEq(t, snapshot(t, a), snapshot(t, b))
}

func TestProperty_RejectedCommandsChangeNothing(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		e := newEngine(t)
		s := withPool(catalog.LightInfSword, catalog.Advanced, rapid.IntRange(0, 40).Draw(rt, "pool"), 300)
		s.Wallet = rapid.Int64Range(0, 20*catalog.Gold).Draw(rt, "wallet")

		steps := rapid.IntRange(1, 30).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			before := snapshot(t, s)
			qty := rapid.IntRange(-1, 25).Draw(rt, "qty")
			var next realm.State
			var err error
			switch rapid.IntRange(0, 8).Draw(rt, "cmd") {
			case 0:
				next, err = e.Buy(s, rapid.SampledFrom([]string{"SWORD", "SHIELD", "LIGHT_HORSE", "WOOD"}).Draw(rt, "item"), qty)
			case 1:
				next, err = e.Sell(s, rapid.SampledFrom([]string{"SWORD", "BOW", "WOOD"}).Draw(rt, "item"), qty)
			case 2:
				next, err = e.Recruit(s, qty)
			case 3:
				next, err = e.QueueLightTraining(s, catalog.LightInfSpear, qty)
			case 4:
				next, _, err = e.CreateUnit(s, catalog.LightInfSword, map[catalog.Rank]int{catalog.Advanced: qty}, rapid.Bool().Draw(rt, "autoBuy"))
			case 5:
				if len(s.Units) == 0 {
					continue
				}
				next, _, err = e.SplitUnit(s, s.Units[0].ID, qty)
			case 6:
				next, err = e.UpgradeBarracks(s)
			case 7:
				next, err = e.BuyBuilding(s, rapid.SampledFrom(production.BuildingTypes()).Draw(rt, "building"))
			default:
				next, _ = e.AdvanceDay(s)
			}
			if snapshot(t, s) != before {
				rt.Fatalf("step %d mutated its input", i)
			}
			if err != nil {
				if !gameerr.IsRejection(err) {
					rt.Fatalf("step %d: unexpected error %v", i, err)
				}
				if snapshot(t, next) != before {
					rt.Fatalf("step %d: rejection %v changed state", i, err)
				}
				continue
			}
			if !next.Owns(production.Stable) && next.Wallet < 0 {
				rt.Fatalf("step %d: wallet %d went negative without upkeep", i, next.Wallet)
			}
			s = next
		}
	})
}
