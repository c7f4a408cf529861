package realm

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/warlord/internal/game/barracks"
	"github.com/cory-johannsen/warlord/internal/game/catalog"
	"github.com/cory-johannsen/warlord/internal/game/equipment"
	"github.com/cory-johannsen/warlord/internal/game/gameerr"
	"github.com/cory-johannsen/warlord/internal/game/unit"
)

// Recruit adds n untyped recruits.
func (e *Engine) Recruit(s State, n int) (State, error) {
	const cmd = "recruit"
	b, err := barracks.Recruit(s.Barracks, n)
	if err != nil {
		return e.reject(cmd, s, err)
	}
	next := s.Clone()
	next.Barracks = b
	e.accept(cmd, next, zap.Int("qty", n), zap.Int("recruits", b.Recruits.Count))
	return next, nil
}

func (e *Engine) enqueue(cmd string, s State, req barracks.Request) (State, error) {
	b, inv, batch, err := barracks.Enqueue(e.reg, s.Barracks, s.Inventory, req, e.newID("B"))
	if err != nil {
		return e.reject(cmd, s, err)
	}
	next := s.Clone()
	next.Barracks = b
	next.Inventory = inv
	e.accept(cmd, next,
		zap.String("batch", batch.ID),
		zap.String("kind", string(batch.Kind)),
		zap.String("target", string(batch.Target)),
		zap.Int("qty", batch.Quantity),
		zap.Int("days", batch.DaysRemaining),
	)
	return next, nil
}

// QueueLightTraining trains qty recruits into target, reserving their equipment now.
func (e *Engine) QueueLightTraining(s State, target catalog.SoldierType, qty int) (State, error) {
	return e.enqueue("queue light training", s, barracks.Request{Kind: barracks.LightTrain, Target: target, Quantity: qty})
}

// QueueLightCavConversion converts qty light infantry of source into light cavalry.
func (e *Engine) QueueLightCavConversion(s State, source catalog.SoldierType, qty int) (State, error) {
	return e.enqueue("queue light cavalry conversion", s, barracks.Request{Kind: barracks.ConvertLightCav, Source: source, Quantity: qty})
}

// QueueHeavyConversion converts qty ADVANCED+ soldiers of source into heavy cavalry.
func (e *Engine) QueueHeavyConversion(s State, source catalog.SoldierType, qty int) (State, error) {
	return e.enqueue("queue heavy cavalry conversion", s, barracks.Request{Kind: barracks.ConvertHeavy, Source: source, Quantity: qty})
}

// QueueHorseArcherConversion converts qty ADVANCED+ light archers into horse archers.
func (e *Engine) QueueHorseArcherConversion(s State, qty int) (State, error) {
	return e.enqueue("queue horse archer conversion", s, barracks.Request{Kind: barracks.ConvertHorseArcher, Source: catalog.LightArcher, Quantity: qty})
}

func bucketsFrom(taken map[catalog.Rank]barracks.Cohort) []unit.Bucket {
	var out []unit.Bucket
	for _, r := range catalog.Ranks() {
		if c, ok := taken[r]; ok {
			out = append(out, unit.Bucket{Rank: r, Count: c.Count, AvgXP: c.AvgXP})
		}
	}
	return out
}

// CreateUnit forms a new unit of type t from the pool using a per-rank plan
// and equips it from stock, buying the shortfall when autoBuy is set.
func (e *Engine) CreateUnit(s State, t catalog.SoldierType, plan map[catalog.Rank]int, autoBuy bool) (State, unit.Unit, error) {
	const cmd = "create unit"
	tmpl, ok := e.reg.Unit(t)
	if !ok {
		next, err := e.reject(cmd, s, gameerr.Rejectf(gameerr.ErrUnknownCatalogEntry, "soldier type %q", t))
		return next, unit.Unit{}, err
	}
	n := barracks.PlanSize(plan)
	if n < 1 {
		next, err := e.reject(cmd, s, gameerr.Rejectf(gameerr.ErrInvalidArgument, "a unit needs at least one soldier"))
		return next, unit.Unit{}, err
	}
	pool, taken, err := s.Barracks.Pool.Withdraw(t, plan)
	if err != nil {
		next, err := e.reject(cmd, s, err)
		return next, unit.Unit{}, err
	}
	demand := equipment.DemandFor(e.reg, t, n)
	settled := equipment.Settle(e.reg, s.Inventory, s.Wallet, demand, autoBuy)
	if !settled.OK {
		next, err := e.reject(cmd, s, settled.Err())
		return next, unit.Unit{}, err
	}

	u := unit.New(e.newID("U"), t, bucketsFrom(taken), demand)
	u.Loadout = tmpl.Loadout
	next := s.Clone()
	next.Barracks.Pool = pool
	next.Inventory = settled.Inventory
	next.Wallet = settled.Wallet
	next.Units = append(next.Units, u)
	e.accept(cmd, next,
		zap.String("unit", u.ID),
		zap.String("type", string(t)),
		zap.Int("qty", n),
		zap.Int("avgXp", u.AvgXP),
		zap.Int64("spent", settled.Spent),
	)
	return next, u, nil
}

// ReplenishUnit adds soldiers of the unit's type from the pool. Incoming
// soldiers gain 10% of the unit's average XP, and their equipment is settled
// like CreateUnit.
func (e *Engine) ReplenishUnit(s State, unitID string, plan map[catalog.Rank]int, autoBuy bool) (State, error) {
	const cmd = "replenish unit"
	i := s.FindUnit(unitID)
	if i < 0 {
		return e.reject(cmd, s, gameerr.Rejectf(gameerr.ErrNotFound, "unit %q", unitID))
	}
	u := s.Units[i]
	n := barracks.PlanSize(plan)
	if n < 1 {
		return e.reject(cmd, s, gameerr.Rejectf(gameerr.ErrInvalidArgument, "replenish needs at least one soldier"))
	}
	pool, taken, err := s.Barracks.Pool.Withdraw(u.Type, plan)
	if err != nil {
		return e.reject(cmd, s, err)
	}
	incoming := unit.Unit{Type: u.Type, Loadout: u.Loadout, Buckets: []unit.Bucket{{Count: n}}}
	demand := unit.RequiredEquipment(e.reg, incoming)
	settled := equipment.Settle(e.reg, s.Inventory, s.Wallet, demand, autoBuy)
	if !settled.OK {
		return e.reject(cmd, s, settled.Err())
	}

	next := s.Clone()
	next.Barracks.Pool = pool
	next.Inventory = settled.Inventory
	next.Wallet = settled.Wallet
	reinforced, bonus := unit.Reinforce(u, bucketsFrom(taken), demand)
	next.Units[i] = reinforced
	e.accept(cmd, next,
		zap.String("unit", unitID),
		zap.Int("qty", n),
		zap.Int("xpBonus", bonus),
		zap.Int("size", reinforced.Size()),
		zap.Int64("spent", settled.Spent),
	)
	return next, nil
}

// SplitUnit moves take soldiers and a proportional share of equipment into a
// new unit placed right after the original.
func (e *Engine) SplitUnit(s State, unitID string, take int) (State, unit.Unit, error) {
	const cmd = "split unit"
	i := s.FindUnit(unitID)
	if i < 0 {
		next, err := e.reject(cmd, s, gameerr.Rejectf(gameerr.ErrNotFound, "unit %q", unitID))
		return next, unit.Unit{}, err
	}
	remaining, taken, err := unit.Split(s.Units[i], take, e.newID("U"))
	if err != nil {
		next, err := e.reject(cmd, s, err)
		return next, unit.Unit{}, err
	}
	next := s.Clone()
	units := make([]unit.Unit, 0, len(next.Units)+1)
	units = append(units, next.Units[:i]...)
	units = append(units, remaining, taken)
	units = append(units, next.Units[i+1:]...)
	next.Units = units
	e.accept(cmd, next, zap.String("unit", unitID), zap.String("taken", taken.ID), zap.Int("qty", take))
	return next, taken, nil
}

// MergeUnits retires units a and b and replaces them with one new unit at the
// position of the earlier of the two.
func (e *Engine) MergeUnits(s State, aID, bID string) (State, unit.Unit, error) {
	const cmd = "merge units"
	ia, ib := s.FindUnit(aID), s.FindUnit(bID)
	if ia < 0 || ib < 0 {
		missing := aID
		if ia >= 0 {
			missing = bID
		}
		next, err := e.reject(cmd, s, gameerr.Rejectf(gameerr.ErrNotFound, "unit %q", missing))
		return next, unit.Unit{}, err
	}
	pair, err := unit.PairForMerge(s.Units[ia], s.Units[ib])
	if err != nil {
		next, err := e.reject(cmd, s, err)
		return next, unit.Unit{}, err
	}
	merged := unit.Merge(pair, e.newID("U"))

	next := s.Clone()
	first := min(ia, ib)
	units := make([]unit.Unit, 0, len(next.Units)-1)
	for j, u := range next.Units {
		switch {
		case j == first:
			units = append(units, merged)
		case j == ia || j == ib:
		default:
			units = append(units, u)
		}
	}
	next.Units = units
	e.accept(cmd, next, zap.String("unit", merged.ID), zap.Strings("retired", []string{aID, bID}), zap.Int("size", merged.Size()))
	return next, merged, nil
}

// ToggleTraining flips a unit's training flag. Turning it on is rejected when
// every training slot is taken.
func (e *Engine) ToggleTraining(s State, unitID string) (State, error) {
	const cmd = "toggle training"
	i := s.FindUnit(unitID)
	if i < 0 {
		return e.reject(cmd, s, gameerr.Rejectf(gameerr.ErrNotFound, "unit %q", unitID))
	}
	if !s.Units[i].Training && s.TrainingUnits() >= s.TrainingSlots() {
		return e.reject(cmd, s, gameerr.Rejectf(gameerr.ErrQueueFull, "%d/%d training slots in use", s.TrainingUnits(), s.TrainingSlots()))
	}
	next := s.Clone()
	next.Units[i].Training = !next.Units[i].Training
	e.accept(cmd, next, zap.String("unit", unitID), zap.Bool("training", next.Units[i].Training))
	return next, nil
}
