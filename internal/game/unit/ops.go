package unit

import (
	"math"

	"github.com/cory-johannsen/warlord/internal/game/catalog"
	"github.com/cory-johannsen/warlord/internal/game/gameerr"
)

// Split moves take soldiers out of u into a new unit with id newID. Buckets
// are allocated proportionally with nearest-integer rounding and the drift is
// reconciled so the taken unit holds exactly take soldiers. Each equipment
// entry moves floor(have*take/size); the remainder stays with u.
//
// Precondition: 0 < take < u.Size().
// Postcondition: remaining.Size()+taken.Size() == u.Size(), equipment is
// conserved per item, and taken.Training is false. u is not modified.
func Split(u Unit, take int, newID string) (remaining, taken Unit, err error) {
	size := u.Size()
	if take <= 0 || take >= size {
		return u, Unit{}, gameerr.Rejectf(gameerr.ErrInvalidArgument,
			"split of %s must take between 1 and %d soldiers, got %d", u.ID, size-1, take)
	}
	ratio := float64(take) / float64(size)

	want := make([]int, len(u.Buckets))
	got := 0
	for i, b := range u.Buckets {
		n := int(math.Round(float64(b.Count) * ratio))
		if n > b.Count {
			n = b.Count
		}
		want[i] = n
		got += n
	}
	for i := 0; got < take && i < len(u.Buckets); i++ {
		move := min(take-got, u.Buckets[i].Count-want[i])
		want[i] += move
		got += move
	}
	for i := len(u.Buckets) - 1; got > take && i >= 0; i-- {
		move := min(got-take, want[i])
		want[i] -= move
		got -= move
	}

	var takenBuckets, leftBuckets []Bucket
	for i, b := range u.Buckets {
		takenBuckets = append(takenBuckets, Bucket{Rank: b.Rank, Count: want[i], AvgXP: b.AvgXP})
		leftBuckets = append(leftBuckets, Bucket{Rank: b.Rank, Count: b.Count - want[i], AvgXP: b.AvgXP})
	}

	var takenEquip, leftEquip catalog.Gear
	u.Equip.Each(func(cat catalog.Category, id string, have int) {
		moved := have * take / size
		takenEquip.Set(cat, id, moved)
		leftEquip.Set(cat, id, have-moved)
	})

	remaining = New(u.ID, u.Type, leftBuckets, leftEquip)
	remaining.Training = u.Training
	remaining.Loadout = u.Loadout

	taken = New(newID, u.Type, takenBuckets, takenEquip)
	taken.Loadout = u.Loadout
	return remaining, taken, nil
}

// MergePair is two units already known to share a soldier type. It can only
// be built by PairForMerge.
type MergePair struct {
	a, b Unit
}

// PairForMerge checks that a and b can be merged.
//
// Postcondition: returns ErrTypeMismatch when the soldier types differ, and
// ErrInvalidArgument when a and b are the same unit.
func PairForMerge(a, b Unit) (MergePair, error) {
	if a.Type != b.Type {
		return MergePair{}, gameerr.Rejectf(gameerr.ErrTypeMismatch, "cannot merge %s (%s) with %s (%s)", a.ID, a.Type, b.ID, b.Type)
	}
	if a.ID == b.ID {
		return MergePair{}, gameerr.Rejectf(gameerr.ErrInvalidArgument, "cannot merge %s with itself", a.ID)
	}
	return MergePair{a: a, b: b}, nil
}

// Merge combines the pair into a new unit with id newID. Buckets combine by
// rank with the weighted-mean XP rule and equipment sums item by item. The
// loadout is kept when both units agree and reset to the default otherwise.
//
// Postcondition: the result is independent of the argument order passed to PairForMerge.
func Merge(p MergePair, newID string) Unit {
	if p.a.Type == "" && p.b.Type == "" {
		panic("unit: Merge called with an unchecked pair")
	}
	out := New(newID, p.a.Type, combine(p.a.Buckets, p.b.Buckets), p.a.Equip.Plus(p.b.Equip))
	if p.a.Loadout == p.b.Loadout {
		out.Loadout = p.a.Loadout
	}
	return out
}

// TrainOneDay adds each bucket's per-day rank gain to its XP.
//
// Postcondition: bucket counts are unchanged; AvgXP is recomputed.
func TrainOneDay(u Unit) Unit {
	out := u.Clone()
	for i := range out.Buckets {
		out.Buckets[i].AvgXP += out.Buckets[i].Rank.XPGainPerDay()
	}
	out.AvgXP = ComputeAvgXP(out.Buckets)
	return out
}

// SelectForTraining returns the indexes of the first slots units flagged for
// training, in slice order.
func SelectForTraining(units []Unit, slots int) []int {
	var out []int
	for i, u := range units {
		if len(out) >= slots {
			break
		}
		if u.Training {
			out = append(out, i)
		}
	}
	return out
}

// ReplenishBonusPct is the share of a unit's average XP granted to incoming soldiers.
const ReplenishBonusPct = 10

// Reinforce adds incoming soldiers and equipment to u. Each incoming bucket
// gains floor(u.AvgXP*ReplenishBonusPct/100) XP before merging.
//
// Postcondition: result.Size() == u.Size() + Σ incoming counts.
func Reinforce(u Unit, incoming []Bucket, equip catalog.Gear) (Unit, int) {
	bonus := u.AvgXP * ReplenishBonusPct / 100
	boosted := make([]Bucket, len(incoming))
	for i, b := range incoming {
		boosted[i] = Bucket{Rank: b.Rank, Count: b.Count, AvgXP: b.AvgXP + bonus}
	}
	out := u.Clone()
	out.Buckets = combine(u.Buckets, boosted)
	out.AvgXP = ComputeAvgXP(out.Buckets)
	out.Equip = u.Equip.Plus(equip)
	return out, bonus
}
