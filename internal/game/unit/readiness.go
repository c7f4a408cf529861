package unit

import (
	"fmt"

	"github.com/cory-johannsen/warlord/internal/game/catalog"
)

// RequiredEquipment returns the equipment u needs at its current size.
// A loadout weapon different from the template default replaces the default
// weapon's requirement at the same per-soldier quantity.
//
// Postcondition: an unknown soldier type yields an empty Gear.
func RequiredEquipment(reg *catalog.Registry, u Unit) catalog.Gear {
	tmpl, ok := reg.Unit(u.Type)
	if !ok {
		return catalog.Gear{}
	}
	size := u.Size()
	req := tmpl.Requirement.Scale(size)

	def, cur := tmpl.Loadout.Weapon, u.Loadout.Weapon
	if def != "" && cur != "" && def != cur {
		perSoldier := tmpl.Requirement.Get(catalog.CategoryWeapon, def)
		if perSoldier > 0 {
			req.Delete(catalog.CategoryWeapon, def)
			req.Set(catalog.CategoryWeapon, cur, perSoldier*size)
		}
	}
	return req
}

// Readiness is the number of soldiers the scarcest equipped item can field.
//
// Postcondition: 0 <= result <= u.Size(); 0 when nothing is required.
func Readiness(reg *catalog.Registry, u Unit) int {
	size := u.Size()
	req := RequiredEquipment(reg, u)
	if size == 0 || req.IsZero() {
		return 0
	}
	ready := size
	req.Each(func(cat catalog.Category, id string, need int) {
		if need <= 0 {
			return
		}
		if c := u.Equip.Get(cat, id) * size / need; c < ready {
			ready = c
		}
	})
	return ready
}

// Missing is one item a unit is short of.
type Missing struct {
	Category catalog.Category
	ID       string
	Qty      int
}

func (m Missing) String() string { return fmt.Sprintf("%s: %d", m.ID, m.Qty) }

// MissingEquipment lists every required item u holds fewer of than needed.
//
// Postcondition: an empty result means u is fully equipped.
func MissingEquipment(reg *catalog.Registry, u Unit) []Missing {
	var out []Missing
	RequiredEquipment(reg, u).Each(func(cat catalog.Category, id string, need int) {
		if have := u.Equip.Get(cat, id); need > have {
			out = append(out, Missing{Category: cat, ID: id, Qty: need - have})
		}
	})
	return out
}
