// Package equipment holds the player's equipment stockpile and resolves
// aggregate equipment demand against it.
package equipment

import (
	"fmt"

	"github.com/cory-johannsen/warlord/internal/game/catalog"
)

// HorseStock splits a horse type into mounts that can be equipped and mounts
// that cannot.
type HorseStock struct {
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

// Inventory is the pooled equipment stockpile.
type Inventory struct {
	Weapons map[string]int        `json:"weapons"`
	Armors  map[string]int        `json:"armors"`
	Horses  map[string]HorseStock `json:"horses"`
}

// NewInventory returns an Inventory with every map allocated.
func NewInventory() Inventory {
	return Inventory{
		Weapons: make(map[string]int),
		Armors:  make(map[string]int),
		Horses:  make(map[string]HorseStock),
	}
}

// Clone returns a deep copy.
func (inv Inventory) Clone() Inventory {
	out := NewInventory()
	for k, v := range inv.Weapons {
		out.Weapons[k] = v
	}
	for k, v := range inv.Armors {
		out.Armors[k] = v
	}
	for k, v := range inv.Horses {
		out.Horses[k] = v
	}
	return out
}

// Count returns the usable quantity of id in cat. For horses only the active
// count is usable.
func (inv Inventory) Count(cat catalog.Category, id string) int {
	switch cat {
	case catalog.CategoryWeapon:
		return inv.Weapons[id]
	case catalog.CategoryArmor:
		return inv.Armors[id]
	case catalog.CategoryHorse:
		return inv.Horses[id].Active
	}
	return 0
}

// Add adjusts the usable quantity of id in cat by qty, which may be negative.
//
// Precondition: the resulting quantity is >= 0.
// Postcondition: Count(cat, id) increases by qty.
func (inv *Inventory) Add(cat catalog.Category, id string, qty int) {
	if next := inv.Count(cat, id) + qty; next < 0 {
		panic(fmt.Sprintf("equipment: Inventory.Add: %s %s would go negative (%d)", cat, id, next))
	}
	inv.ensure()
	switch cat {
	case catalog.CategoryWeapon:
		inv.Weapons[id] += qty
	case catalog.CategoryArmor:
		inv.Armors[id] += qty
	case catalog.CategoryHorse:
		h := inv.Horses[id]
		h.Active += qty
		inv.Horses[id] = h
	default:
		panic("equipment: Inventory.Add: category " + string(cat) + " is not equipment")
	}
}

// Put adds every entry of g.
func (inv *Inventory) Put(g catalog.Gear) {
	g.Each(func(cat catalog.Category, id string, qty int) { inv.Add(cat, id, qty) })
}

// Take removes every entry of g.
//
// Precondition: Diff(*inv, g).Any is false.
func (inv *Inventory) Take(g catalog.Gear) {
	g.Each(func(cat catalog.Category, id string, qty int) { inv.Add(cat, id, -qty) })
}

// ActiveHorses returns the total active horse count across all types.
func (inv Inventory) ActiveHorses() int {
	total := 0
	for _, h := range inv.Horses {
		total += h.Active
	}
	return total
}

func (inv *Inventory) ensure() {
	if inv.Weapons == nil {
		inv.Weapons = make(map[string]int)
	}
	if inv.Armors == nil {
		inv.Armors = make(map[string]int)
	}
	if inv.Horses == nil {
		inv.Horses = make(map[string]HorseStock)
	}
}
