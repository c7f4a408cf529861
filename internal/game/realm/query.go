package realm

import (
	"github.com/cory-johannsen/warlord/internal/game/catalog"
	"github.com/cory-johannsen/warlord/internal/game/unit"
)

// UnitView is a unit with its derived combat readiness.
type UnitView struct {
	unit.Unit
	Name      string
	Readiness int
	Missing   []unit.Missing
}

// Units returns a view of every unit in state order.
func (e *Engine) Units(s State) []UnitView {
	out := make([]UnitView, 0, len(s.Units))
	for _, u := range s.Units {
		out = append(out, e.view(u))
	}
	return out
}

// Unit returns the view of the unit with id.
func (e *Engine) Unit(s State, id string) (UnitView, bool) {
	i := s.FindUnit(id)
	if i < 0 {
		return UnitView{}, false
	}
	return e.view(s.Units[i]), true
}

func (e *Engine) view(u unit.Unit) UnitView {
	v := UnitView{
		Unit:      u,
		Name:      string(u.Type),
		Readiness: unit.Readiness(e.reg, u),
		Missing:   unit.MissingEquipment(e.reg, u),
	}
	if t, ok := e.reg.Unit(u.Type); ok && t.Name != "" {
		v.Name = t.Name
	}
	return v
}

// PoolRow is one (type, rank) line of the barracks pool.
type PoolRow struct {
	Type  catalog.SoldierType
	Rank  catalog.Rank
	Count int
	AvgXP int
}

// PoolRows lists non-empty pool cohorts by catalog type order then rank.
func (e *Engine) PoolRows(s State) []PoolRow {
	var rows []PoolRow
	for _, t := range e.reg.SoldierTypes() {
		for _, r := range catalog.Ranks() {
			c := s.Barracks.Pool.Get(t, r)
			if c.Count == 0 {
				continue
			}
			rows = append(rows, PoolRow{Type: t, Rank: r, Count: c.Count, AvgXP: c.AvgXP})
		}
	}
	return rows
}
