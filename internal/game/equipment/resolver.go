package equipment

import (
	"github.com/cory-johannsen/warlord/internal/game/catalog"
	"github.com/cory-johannsen/warlord/internal/game/gameerr"
)

// DemandFor returns the equipment n soldiers of type t require.
//
// Postcondition: keys absent from the template are absent from the result;
// an unknown soldier type yields an empty Gear.
func DemandFor(reg *catalog.Registry, t catalog.SoldierType, n int) catalog.Gear {
	tmpl, ok := reg.Unit(t)
	if !ok {
		return catalog.Gear{}
	}
	return tmpl.Requirement.Scale(n)
}

// Shortfall is the result of diffing demand against an inventory.
type Shortfall struct {
	Any     bool
	Missing catalog.Gear
}

// Diff subtracts inv from demand per item, clamped at zero.
//
// Postcondition: Missing holds only strictly positive entries; Any is true iff Missing is non-empty.
func Diff(inv Inventory, demand catalog.Gear) Shortfall {
	var out Shortfall
	demand.Each(func(cat catalog.Category, id string, qty int) {
		if short := qty - inv.Count(cat, id); short > 0 {
			out.Missing.Set(cat, id, short)
			out.Any = true
		}
	})
	return out
}

// Cost returns the market price of g in copper. Unknown ids cost nothing.
func Cost(reg *catalog.Registry, g catalog.Gear) int64 {
	var total int64
	g.Each(func(_ catalog.Category, id string, qty int) {
		total += int64(qty) * reg.Price(id)
	})
	return total
}

// Settlement is the outcome of Settle. On failure Inventory and Wallet are
// the values passed in.
type Settlement struct {
	Inventory Inventory
	Wallet    int64
	OK        bool
	Spent     int64
	Missing   catalog.Gear
	err       error
}

// Err returns nil on success, otherwise the rejection explaining the failure.
func (s Settlement) Err() error { return s.err }

// Settle reserves demand out of inv, optionally buying the shortfall first.
// It is all-or-nothing: either the full demand is deducted or nothing changes.
//
// Precondition: wallet >= 0.
// Postcondition: on success the returned Inventory is a fresh copy with demand
// deducted and Wallet reduced by Spent; on failure inv is returned unchanged
// and Err reports ErrInsufficientEquipment or ErrInsufficientFunds.
func Settle(reg *catalog.Registry, inv Inventory, wallet int64, demand catalog.Gear, autoBuy bool) Settlement {
	short := Diff(inv, demand)
	if short.Any && !autoBuy {
		return Settlement{
			Inventory: inv,
			Wallet:    wallet,
			Missing:   short.Missing,
			err:       gameerr.Rejectf(gameerr.ErrInsufficientEquipment, "missing %s", short.Missing),
		}
	}

	var spent int64
	if short.Any {
		spent = Cost(reg, short.Missing)
		if wallet < spent {
			return Settlement{
				Inventory: inv,
				Wallet:    wallet,
				Missing:   short.Missing,
				err: gameerr.Rejectf(gameerr.ErrInsufficientFunds, "buying %s costs %s, wallet holds %s",
					short.Missing, catalog.FormatCopper(spent), catalog.FormatCopper(wallet)),
			}
		}
	}

	next := inv.Clone()
	next.Put(short.Missing)
	next.Take(demand)
	return Settlement{
		Inventory: next,
		Wallet:    wallet - spent,
		OK:        true,
		Spent:     spent,
		Missing:   short.Missing,
	}
}
