package barracks

import (
	"github.com/cory-johannsen/warlord/internal/game/catalog"
)

// Kind identifies a batch's edge in the conversion graph.
type Kind string

const (
	LightTrain         Kind = "LIGHT_TRAIN"
	ConvertLightCav    Kind = "CONVERT_LIGHT_CAV"
	ConvertHeavy       Kind = "CONVERT_HEAVY"
	ConvertHorseArcher Kind = "CONVERT_HORSE_ARCHER"
)

// Kinds returns every batch kind.
func Kinds() []Kind {
	return []Kind{LightTrain, ConvertLightCav, ConvertHeavy, ConvertHorseArcher}
}

// Conversion is one rank-sourced edge of the conversion graph.
type Conversion struct {
	Kind    Kind
	Target  catalog.SoldierType
	MinRank catalog.Rank
	// sources lists the soldier types allowed on this edge.
	sources []catalog.SoldierType
	// cost returns the per-soldier equipment consumed for a given source.
	cost func(source catalog.SoldierType) catalog.Gear
}

// Allows reports whether source may feed this conversion.
func (c Conversion) Allows(source catalog.SoldierType) bool {
	for _, s := range c.sources {
		if s == source {
			return true
		}
	}
	return false
}

// Sources returns the allowed source types.
func (c Conversion) Sources() []catalog.SoldierType {
	return append([]catalog.SoldierType(nil), c.sources...)
}

// CostPerSoldier returns the equipment one converted soldier from source consumes.
func (c Conversion) CostPerSoldier(source catalog.SoldierType) catalog.Gear {
	return c.cost(source)
}

// Ranks returns the eligible ranks in ascending order.
func (c Conversion) Ranks() []catalog.Rank {
	return catalog.RanksFrom(c.MinRank)
}

var conversions = map[Kind]Conversion{
	ConvertLightCav: {
		Kind:    ConvertLightCav,
		Target:  catalog.LightCav,
		MinRank: catalog.Novice,
		sources: coreTypes(catalog.SoldierType.IsLightInfantry),
		cost: func(catalog.SoldierType) catalog.Gear {
			return catalog.Gear{Horses: map[string]int{"LIGHT_HORSE": 1}}
		},
	},
	ConvertHeavy: {
		Kind:    ConvertHeavy,
		Target:  catalog.HeavyCav,
		MinRank: catalog.Advanced,
		sources: append([]catalog.SoldierType{catalog.LightCav}, coreTypes(catalog.SoldierType.IsHeavyInfantry)...),
		cost: func(source catalog.SoldierType) catalog.Gear {
			g := catalog.Gear{
				Horses: map[string]int{"HEAVY_HORSE": 1},
				Armors: map[string]int{"HORSE_ARMOR": 1},
			}
			if source == catalog.LightCav {
				g.Armors["HEAVY_ARMOR"] = 1
			}
			return g
		},
	},
	ConvertHorseArcher: {
		Kind:    ConvertHorseArcher,
		Target:  catalog.HorseArcher,
		MinRank: catalog.Advanced,
		sources: []catalog.SoldierType{catalog.LightArcher},
		cost: func(catalog.SoldierType) catalog.Gear {
			return catalog.Gear{Horses: map[string]int{"LIGHT_HORSE": 1}}
		},
	},
}

// ConversionFor returns the conversion edge for kind. LIGHT_TRAIN is not
// rank-sourced and has no entry.
func ConversionFor(kind Kind) (Conversion, bool) {
	c, ok := conversions[kind]
	return c, ok
}

// LightTrainTargets returns the soldier types recruits may train into.
func LightTrainTargets() []catalog.SoldierType {
	return append(coreTypes(catalog.SoldierType.IsLightInfantry), catalog.LightArcher)
}

// coreTypes returns the core soldier types matching keep, in core order.
func coreTypes(keep func(catalog.SoldierType) bool) []catalog.SoldierType {
	var out []catalog.SoldierType
	for _, t := range catalog.CoreSoldierTypes() {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// IsLightTrainTarget reports whether t is a valid LIGHT_TRAIN target.
func IsLightTrainTarget(t catalog.SoldierType) bool {
	for _, x := range LightTrainTargets() {
		if x == t {
			return true
		}
	}
	return false
}
