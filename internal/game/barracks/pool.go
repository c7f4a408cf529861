// Package barracks holds the soldier pool, the untyped recruit counter and
// the bounded queue of training and conversion batches.
package barracks

import (
	"fmt"

	"github.com/cory-johannsen/warlord/internal/game/catalog"
	"github.com/cory-johannsen/warlord/internal/game/gameerr"
)

// Cohort is a group of soldiers sharing a mean experience.
//
// Invariant: Count >= 0; AvgXP is meaningless (and kept 0) when Count == 0.
type Cohort struct {
	Count int `json:"count"`
	AvgXP int `json:"avgXp"`
}

// Merge returns the union of c and o with the count-weighted floor mean XP.
func (c Cohort) Merge(o Cohort) Cohort {
	n := c.Count + o.Count
	if n == 0 {
		return Cohort{}
	}
	return Cohort{Count: n, AvgXP: (c.Count*c.AvgXP + o.Count*o.AvgXP) / n}
}

// Pool maps soldier type and rank to the cohort waiting in the barracks.
type Pool map[catalog.SoldierType]map[catalog.Rank]Cohort

// Get returns the cohort at (t, r); missing entries are empty.
func (p Pool) Get(t catalog.SoldierType, r catalog.Rank) Cohort {
	return p[t][r]
}

// Clone returns a deep copy.
func (p Pool) Clone() Pool {
	out := make(Pool, len(p))
	for t, ranks := range p {
		m := make(map[catalog.Rank]Cohort, len(ranks))
		for r, c := range ranks {
			m[r] = c
		}
		out[t] = m
	}
	return out
}

// Add merges c into the cohort at (t, r).
func (p Pool) Add(t catalog.SoldierType, r catalog.Rank, c Cohort) {
	if c.Count < 0 {
		panic(fmt.Sprintf("barracks: Pool.Add: negative count %d", c.Count))
	}
	if c.Count == 0 {
		return
	}
	if p[t] == nil {
		p[t] = make(map[catalog.Rank]Cohort)
	}
	p[t][r] = p[t][r].Merge(c)
}

// Total returns the number of soldiers of type t at any of ranks.
func (p Pool) Total(t catalog.SoldierType, ranks ...catalog.Rank) int {
	if len(ranks) == 0 {
		ranks = catalog.Ranks()
	}
	n := 0
	for _, r := range ranks {
		n += p[t][r].Count
	}
	return n
}

// Plan scans ranks in the given order and returns how many soldiers to take
// from each to reach qty.
//
// Postcondition: returns ErrInsufficientStock when the ranks cannot supply qty;
// the plan never includes zero entries.
func (p Pool) Plan(t catalog.SoldierType, ranks []catalog.Rank, qty int) (map[catalog.Rank]int, error) {
	plan := make(map[catalog.Rank]int)
	rem := qty
	for _, r := range ranks {
		if rem == 0 {
			break
		}
		take := min(p[t][r].Count, rem)
		if take > 0 {
			plan[r] = take
			rem -= take
		}
	}
	if rem > 0 {
		return nil, gameerr.Rejectf(gameerr.ErrInsufficientStock,
			"need %d %s at %v, have %d", qty, t, ranks, qty-rem)
	}
	return plan, nil
}

// Withdraw removes plan from the pool and returns the removed cohorts, each
// carrying the XP of the rank it came from. The receiver is not modified.
//
// Postcondition: returns ErrInsufficientStock (and a nil Pool) if any rank is short.
func (p Pool) Withdraw(t catalog.SoldierType, plan map[catalog.Rank]int) (Pool, map[catalog.Rank]Cohort, error) {
	for _, r := range catalog.Ranks() {
		want := plan[r]
		if want < 0 {
			return nil, nil, gameerr.Rejectf(gameerr.ErrInvalidArgument, "negative take %d at %s", want, r)
		}
		if have := p[t][r].Count; want > have {
			return nil, nil, gameerr.Rejectf(gameerr.ErrInsufficientStock, "need %d %s %s, have %d", want, r, t, have)
		}
	}
	next := p.Clone()
	taken := make(map[catalog.Rank]Cohort)
	for _, r := range catalog.Ranks() {
		want := plan[r]
		if want == 0 {
			continue
		}
		c := next[t][r]
		taken[r] = Cohort{Count: want, AvgXP: c.AvgXP}
		c.Count -= want
		if c.Count == 0 {
			c.AvgXP = 0
		}
		next[t][r] = c
	}
	return next, taken, nil
}

// PlanSize returns the soldier count of a per-rank plan.
func PlanSize(plan map[catalog.Rank]int) int {
	n := 0
	for _, q := range plan {
		n += q
	}
	return n
}
