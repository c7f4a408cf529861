// Package production runs the daily output of owned buildings: coin versus
// goods allocation, recipe-gated manufacturing, smelting, minting and the
// stable's breeding and upkeep.
package production

import (
	"github.com/cory-johannsen/warlord/internal/game/catalog"
)

// BuildingType identifies a kind of building.
type BuildingType string

const (
	Barracks   BuildingType = "BARRACKS"
	Market     BuildingType = "MARKET"
	Stable     BuildingType = "STABLE"
	Blacksmith BuildingType = "BLACKSMITH"
	Armory     BuildingType = "ARMORY"
	Woodworker BuildingType = "WOODWORKER"
	Tailor     BuildingType = "TAILOR"
	Lumbermill BuildingType = "LUMBERMILL"
	Quarry     BuildingType = "QUARRY"
	Mine       BuildingType = "MINE"
	Smelter    BuildingType = "SMELTER"
	Mint       BuildingType = "MINT"
)

// Role describes what a building does on a day tick.
type Role int

const (
	// RoleNone buildings have no daily output.
	RoleNone Role = iota
	// RoleGoods buildings split their budget between coin and an output item.
	RoleGoods
	// RoleMint buildings turn ingots into coin.
	RoleMint
	// RoleStable is the stable's breeding and upkeep.
	RoleStable
)

// Spec is the static definition of a building type.
type Spec struct {
	Type BuildingType
	Name string
	// Cost is the purchase price in copper; daily budget derives from it.
	Cost int64
	// Outputs lists the selectable output items; the first is the default.
	Outputs []string
	Role    Role
}

var specs = []Spec{
	{Type: Barracks, Name: "Barracks", Role: RoleNone},
	{Type: Market, Name: "Market", Role: RoleNone},
	{Type: Stable, Name: "Stable", Cost: 4 * catalog.Gold, Role: RoleStable},
	{Type: Blacksmith, Name: "Blacksmith", Cost: 100 * catalog.Gold, Outputs: []string{"HALBERD", "SPEAR", "SWORD"}, Role: RoleGoods},
	{Type: Armory, Name: "Armory", Cost: 100 * catalog.Gold, Outputs: []string{"HEAVY_ARMOR", "HORSE_ARMOR"}, Role: RoleGoods},
	{Type: Woodworker, Name: "Woodworker", Cost: 2 * catalog.Gold, Outputs: []string{"BOW", "SHIELD"}, Role: RoleGoods},
	{Type: Tailor, Name: "Tailor", Cost: 3*catalog.Gold + 50*catalog.Silver, Outputs: []string{"LIGHT_ARMOR"}, Role: RoleGoods},
	{Type: Lumbermill, Name: "Lumbermill", Cost: 1 * catalog.Gold, Outputs: []string{"WOOD"}, Role: RoleGoods},
	{Type: Quarry, Name: "Quarry", Cost: 1 * catalog.Gold, Outputs: []string{"STONE"}, Role: RoleGoods},
	{Type: Mine, Name: "Mine", Cost: 5 * catalog.Gold, Outputs: []string{"IRON_ORE", "COPPER_ORE", "SILVER_ORE", "COAL"}, Role: RoleGoods},
	{Type: Smelter, Name: "Smelter", Cost: 10 * catalog.Gold, Outputs: []string{"IRON_INGOT", "COPPER_INGOT", "SILVER_INGOT"}, Role: RoleGoods},
	{Type: Mint, Name: "Mint", Cost: 50 * catalog.Gold, Outputs: []string{"IRON_INGOT", "COPPER_INGOT", "SILVER_INGOT"}, Role: RoleMint},
}

// BuildingTypes returns every building type in display order.
func BuildingTypes() []BuildingType {
	out := make([]BuildingType, len(specs))
	for i, s := range specs {
		out[i] = s.Type
	}
	return out
}

// SpecFor returns the definition of t.
func SpecFor(t BuildingType) (Spec, bool) {
	for _, s := range specs {
		if s.Type == t {
			return s, true
		}
	}
	return Spec{}, false
}

// Offers reports whether item is a selectable output of s.
func (s Spec) Offers(item string) bool {
	for _, o := range s.Outputs {
		if o == item {
			return true
		}
	}
	return false
}

// DailyBudget is the fixed 10% of purchase cost a building yields per day.
func (s Spec) DailyBudget() float64 {
	return float64(s.Cost) / 10
}

// FocusOptions are the allowed coin percentages.
var FocusOptions = []int{100, 80, 60, 40, 20, 0}

// ValidFocus reports whether pct is one of FocusOptions.
func ValidFocus(pct int) bool {
	for _, f := range FocusOptions {
		if f == pct {
			return true
		}
	}
	return false
}

// Building is an owned building.
//
// Invariant: 0 <= FractionalBuffer < 1.
type Building struct {
	ID               string       `json:"id"`
	Type             BuildingType `json:"type"`
	FocusCoinPct     int          `json:"focusCoinPct"`
	OutputItem       string       `json:"outputItem,omitempty"`
	FractionalBuffer float64      `json:"fractionalBuffer"`
}

// NewBuilding returns a freshly bought building: full coin focus and the
// default output.
func NewBuilding(id string, t BuildingType) Building {
	b := Building{ID: id, Type: t, FocusCoinPct: 100}
	if s, ok := SpecFor(t); ok && len(s.Outputs) > 0 {
		b.OutputItem = s.Outputs[0]
	}
	return b
}

// Output returns the building's configured output, falling back to the default.
func (b Building) Output() string {
	if b.OutputItem != "" {
		return b.OutputItem
	}
	if s, ok := SpecFor(b.Type); ok && len(s.Outputs) > 0 {
		return s.Outputs[0]
	}
	return ""
}

// Resources is a stockpile of raw and refined materials.
type Resources map[string]int

// Clone returns a copy.
func (r Resources) Clone() Resources {
	out := make(Resources, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
