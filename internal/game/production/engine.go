package production

import (
	"fmt"
	"math"
	"strings"

	"github.com/cory-johannsen/warlord/internal/game/catalog"
	"github.com/cory-johannsen/warlord/internal/game/equipment"
)

const (
	// GoodsEfficiency is the share of market value recovered when budget is
	// turned into goods.
	GoodsEfficiency = 0.7
	// MintPayoutNum/MintPayoutDen is the multiple of an ingot's price a mint pays.
	MintPayoutNum = 6
	MintPayoutDen = 5
	// BreedPct is the share of active horses born per day in a stable.
	BreedPct = 1
	// UpkeepPerHorse is the daily copper cost of one active horse.
	UpkeepPerHorse int64 = 50
)

// Yield splits a daily budget into coin and a fractional goods quantity.
// Coin is rounded; goods are floored with the fraction carried in the buffer.
//
// Postcondition: items + newBuffer == remainder/(0.7*price) + buffer; 0 <= newBuffer < 1.
// A price <= 0 produces no goods and leaves the buffer untouched.
func Yield(budget float64, focusPct int, price int64, buffer float64) (coin int64, items int, newBuffer float64) {
	coinF := math.Round(budget * float64(focusPct) / 100)
	coin = int64(coinF)
	if price <= 0 {
		return coin, 0, buffer
	}
	itemsFloat := (budget-coinF)/(GoodsEfficiency*float64(price)) + buffer
	whole := math.Floor(itemsFloat)
	return coin, int(whole), itemsFloat - whole
}

// Line reports one building's output for a day.
type Line struct {
	BuildingID string
	Type       BuildingType
	Item       string
	Coin       int64
	// Produced is what was manufactured; Idle is budget-backed output the
	// recipe inputs could not cover.
	Produced int
	Idle     int
	Consumed map[string]int
	// Minted is the number of ingots a mint turned into coin.
	Minted int
}

func (l Line) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s → ", l.Type)
	if l.Type == Mint {
		fmt.Fprintf(&sb, "minted %d %s", l.Minted, l.Item)
	} else {
		fmt.Fprintf(&sb, "+%d %s", l.Produced, l.Item)
	}
	fmt.Fprintf(&sb, ", +%s", catalog.FormatCopper(l.Coin))
	if l.Idle > 0 {
		fmt.Fprintf(&sb, " (%d idle: missing inputs)", l.Idle)
	}
	return sb.String()
}

// Outcome is the result of one production day.
type Outcome struct {
	Buildings []Building
	Inventory equipment.Inventory
	Resources Resources
	Coin      int64
	Lines     []Line
}

// RunDay runs every goods and mint building once. Recipe inputs are drawn
// from the start-of-day resources in building order; outputs are added after
// every building has run, so nothing produced today is consumed today.
//
// Postcondition: inputs are not modified; resource counts never go negative.
func RunDay(reg *catalog.Registry, buildings []Building, inv equipment.Inventory, res Resources) Outcome {
	out := Outcome{
		Buildings: make([]Building, len(buildings)),
		Inventory: inv.Clone(),
		Resources: res.Clone(),
	}
	available := res.Clone()
	made := make(map[string]int)

	for i, b := range buildings {
		out.Buildings[i] = b
		spec, ok := SpecFor(b.Type)
		if !ok || (spec.Role != RoleGoods && spec.Role != RoleMint) {
			continue
		}
		item := b.Output()
		coin, items, buffer := Yield(spec.DailyBudget(), b.FocusCoinPct, reg.Price(item), b.FractionalBuffer)
		out.Buildings[i].FractionalBuffer = buffer
		line := Line{BuildingID: b.ID, Type: b.Type, Item: item, Coin: coin}

		if spec.Role == RoleMint {
			minted := min(items, available[item])
			available[item] -= minted
			line.Minted = minted
			line.Idle = items - minted
			line.Coin += int64(minted) * reg.Price(item) * MintPayoutNum / MintPayoutDen
			if minted > 0 {
				line.Consumed = map[string]int{item: minted}
			}
		} else {
			produced := items
			if rc, ok := reg.Recipe(item); ok {
				for in, per := range rc.Inputs {
					produced = min(produced, available[in]/per)
				}
				if produced > 0 {
					line.Consumed = make(map[string]int, len(rc.Inputs))
					for in, per := range rc.Inputs {
						available[in] -= produced * per
						line.Consumed[in] = produced * per
					}
				}
			}
			line.Produced = produced
			line.Idle = items - produced
			made[item] += produced
		}
		out.Coin += line.Coin
		out.Lines = append(out.Lines, line)
	}

	for id, n := range available {
		out.Resources[id] = n
	}
	for id, n := range made {
		def, ok := reg.Item(id)
		if !ok || n == 0 {
			continue
		}
		if def.Category == catalog.CategoryResource {
			out.Resources[id] += n
		} else {
			out.Inventory.Add(def.Category, id, n)
		}
	}
	return out
}

// StableReport is the stable's daily breeding and upkeep.
type StableReport struct {
	Bred   map[string]int
	Horses int
	Upkeep int64
}

func (s StableReport) String() string {
	bred := 0
	for _, n := range s.Bred {
		bred += n
	}
	return fmt.Sprintf("Stable: +%d foals; upkeep %s for %d horses", bred, catalog.FormatCopper(s.Upkeep), s.Horses)
}

// StableDay breeds floor(1%) of each horse type's active count and charges
// upkeep on the active total after breeding.
//
// Postcondition: inv is not modified.
func StableDay(inv equipment.Inventory) (equipment.Inventory, StableReport) {
	next := inv.Clone()
	rep := StableReport{Bred: make(map[string]int)}
	for id, h := range inv.Horses {
		if foals := h.Active * BreedPct / 100; foals > 0 {
			next.Add(catalog.CategoryHorse, id, foals)
			rep.Bred[id] = foals
		}
	}
	rep.Horses = next.ActiveHorses()
	rep.Upkeep = int64(rep.Horses) * UpkeepPerHorse
	return next, rep
}
