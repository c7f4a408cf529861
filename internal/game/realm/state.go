// Package realm is the simulation's command and query surface. Every command
// takes the current State and returns either a new State or a rejection; the
// input State is never modified.
package realm

import (
	"github.com/cory-johannsen/warlord/internal/game/barracks"
	"github.com/cory-johannsen/warlord/internal/game/catalog"
	"github.com/cory-johannsen/warlord/internal/game/equipment"
	"github.com/cory-johannsen/warlord/internal/game/production"
	"github.com/cory-johannsen/warlord/internal/game/unit"
)

// DefaultStartingWallet is the copper a new game starts with.
const DefaultStartingWallet = 10 * catalog.Gold

// State is the full simulation snapshot. It is everything needed to resume a
// game and is serialised as-is by the save repository.
type State struct {
	Day       int                   `json:"day"`
	Wallet    int64                 `json:"wallet"`
	Inventory equipment.Inventory   `json:"inventory"`
	Resources production.Resources  `json:"resources"`
	Buildings []production.Building `json:"buildings"`
	Barracks  barracks.Barracks     `json:"barracks"`
	Units     []unit.Unit           `json:"units"`
}

// NewGame returns day 1 with a level 1 barracks, a market, a woodworker
// making bows at 60% coin focus, and wallet copper.
func NewGame(wallet int64) State {
	wood := production.NewBuilding("wood1", production.Woodworker)
	wood.FocusCoinPct = 60
	wood.OutputItem = "BOW"
	return State{
		Day:       1,
		Wallet:    wallet,
		Inventory: equipment.NewInventory(),
		Resources: production.Resources{},
		Buildings: []production.Building{
			production.NewBuilding("barracks", production.Barracks),
			wood,
			production.NewBuilding("market", production.Market),
		},
		Barracks: barracks.New(),
		Units:    []unit.Unit{},
	}
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := s
	out.Inventory = s.Inventory.Clone()
	out.Resources = s.Resources.Clone()
	out.Buildings = append([]production.Building(nil), s.Buildings...)
	out.Barracks = s.Barracks.Clone()
	out.Units = make([]unit.Unit, len(s.Units))
	for i, u := range s.Units {
		out.Units[i] = u.Clone()
	}
	return out
}

// FindUnit returns the index of the unit with id, or -1.
func (s State) FindUnit(id string) int {
	for i, u := range s.Units {
		if u.ID == id {
			return i
		}
	}
	return -1
}

// FindBuilding returns the index of the building with id, or -1.
func (s State) FindBuilding(id string) int {
	for i, b := range s.Buildings {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// Owns reports whether a building of type t is owned.
func (s State) Owns(t production.BuildingType) bool {
	for _, b := range s.Buildings {
		if b.Type == t {
			return true
		}
	}
	return false
}

// TrainingSlots is the number of units that may train at once.
func (s State) TrainingSlots() int {
	return s.Barracks.Level
}

// TrainingUnits counts units flagged for training.
func (s State) TrainingUnits() int {
	n := 0
	for _, u := range s.Units {
		if u.Training {
			n++
		}
	}
	return n
}
