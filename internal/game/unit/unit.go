// Package unit models a military unit: rank-bucketed soldier counts plus the
// equipment the unit carries.
package unit

import (
	"fmt"
	"sort"

	"github.com/cory-johannsen/warlord/internal/game/catalog"
)

// Bucket is the soldiers of one rank within a unit.
type Bucket struct {
	Rank  catalog.Rank `json:"rank"`
	Count int          `json:"count"`
	AvgXP int          `json:"avgXp"`
}

// Unit is a military unit. It owns its soldiers and equipment exclusively.
//
// Invariant: AvgXP == ComputeAvgXP(Buckets).
type Unit struct {
	ID       string              `json:"id"`
	Type     catalog.SoldierType `json:"type"`
	Buckets  []Bucket            `json:"buckets"`
	AvgXP    int                 `json:"avgXp"`
	Training bool                `json:"training"`
	// Loadout overrides the template loadout; a zero value means the default.
	Loadout catalog.Loadout `json:"loadout"`
	Equip   catalog.Gear    `json:"equip"`
}

// New builds a Unit from buckets, normalising them into ascending rank order
// with empty buckets removed.
//
// Precondition: every bucket has Count >= 0 and a valid Rank.
// Postcondition: AvgXP == ComputeAvgXP(result.Buckets).
func New(id string, t catalog.SoldierType, buckets []Bucket, equip catalog.Gear) Unit {
	u := Unit{ID: id, Type: t, Buckets: combine(buckets), Equip: equip.Clone()}
	u.AvgXP = ComputeAvgXP(u.Buckets)
	return u
}

// ComputeAvgXP returns the count-weighted mean XP of buckets, floored, or 0
// when there are no soldiers.
func ComputeAvgXP(buckets []Bucket) int {
	total, weighted := 0, 0
	for _, b := range buckets {
		total += b.Count
		weighted += b.Count * b.AvgXP
	}
	if total == 0 {
		return 0
	}
	return weighted / total
}

// Size returns the total soldier count.
func (u Unit) Size() int {
	n := 0
	for _, b := range u.Buckets {
		n += b.Count
	}
	return n
}

// Clone returns a deep copy.
func (u Unit) Clone() Unit {
	out := u
	out.Buckets = append([]Bucket(nil), u.Buckets...)
	out.Equip = u.Equip.Clone()
	return out
}

// CountAt returns the number of soldiers at rank r.
func (u Unit) CountAt(r catalog.Rank) int {
	for _, b := range u.Buckets {
		if b.Rank == r {
			return b.Count
		}
	}
	return 0
}

// combine merges same-rank buckets with the weighted-mean XP rule, drops
// empty buckets and sorts by rank.
func combine(buckets ...[]Bucket) []Bucket {
	type acc struct{ count, weighted int }
	byRank := make(map[catalog.Rank]*acc)
	for _, list := range buckets {
		for _, b := range list {
			if b.Count < 0 {
				panic(fmt.Sprintf("unit: negative bucket count %d at %s", b.Count, b.Rank))
			}
			a := byRank[b.Rank]
			if a == nil {
				a = &acc{}
				byRank[b.Rank] = a
			}
			a.count += b.Count
			a.weighted += b.Count * b.AvgXP
		}
	}
	out := make([]Bucket, 0, len(byRank))
	for r, a := range byRank {
		if a.count == 0 {
			continue
		}
		out = append(out, Bucket{Rank: r, Count: a.count, AvgXP: a.weighted / a.count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out
}
