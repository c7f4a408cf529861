package catalog

import (
	"fmt"
	"strings"
)

// Category classifies an ItemDef.
type Category string

const (
	// CategoryWeapon covers weapons carried by soldiers.
	CategoryWeapon Category = "WEAPON"
	// CategoryArmor covers body armor, shields and horse armor.
	CategoryArmor Category = "ARMOR"
	// CategoryHorse covers mounts.
	CategoryHorse Category = "HORSE"
	// CategoryResource covers raw and refined materials.
	CategoryResource Category = "RESOURCE"
)

// Categories returns every Category in display order.
func Categories() []Category {
	return []Category{CategoryWeapon, CategoryArmor, CategoryHorse, CategoryResource}
}

// Valid reports whether c is one of the four known categories.
func (c Category) Valid() bool {
	for _, k := range Categories() {
		if c == k {
			return true
		}
	}
	return false
}

// SoldierType identifies a unit template. The core types below form the closed
// set the conversion graph is defined over; extensions may register more.
type SoldierType string

const (
	LightInfSword   SoldierType = "LIGHT_INF_SWORD"
	LightInfSpear   SoldierType = "LIGHT_INF_SPEAR"
	LightInfHalberd SoldierType = "LIGHT_INF_HALBERD"
	HeavyInfSword   SoldierType = "HEAVY_INF_SWORD"
	HeavyInfSpear   SoldierType = "HEAVY_INF_SPEAR"
	HeavyInfHalberd SoldierType = "HEAVY_INF_HALBERD"
	LightArcher     SoldierType = "LIGHT_ARCHER"
	HeavyArcher     SoldierType = "HEAVY_ARCHER"
	LightCav        SoldierType = "LIGHT_CAV"
	HeavyCav        SoldierType = "HEAVY_CAV"
	HorseArcher     SoldierType = "HORSE_ARCHER"
)

// CoreSoldierTypes returns the built-in soldier types in a fixed order.
func CoreSoldierTypes() []SoldierType {
	return []SoldierType{
		LightInfSword, LightInfSpear, LightInfHalberd,
		HeavyInfSword, HeavyInfSpear, HeavyInfHalberd,
		LightArcher, HeavyArcher,
		LightCav, HeavyCav,
		HorseArcher,
	}
}

// IsLightInfantry reports whether t is one of the LIGHT_INF_* types.
func (t SoldierType) IsLightInfantry() bool {
	return t == LightInfSword || t == LightInfSpear || t == LightInfHalberd
}

// IsHeavyInfantry reports whether t is one of the HEAVY_INF_* types.
func (t SoldierType) IsHeavyInfantry() bool {
	return t == HeavyInfSword || t == HeavyInfSpear || t == HeavyInfHalberd
}

// Rank is a soldier's experience tier. Ranks are ordered NOVICE < ... < ELITE.
type Rank int

const (
	Novice Rank = iota
	Trained
	Advanced
	Veteran
	Elite
)

var rankNames = [...]string{"NOVICE", "TRAINED", "ADVANCED", "VETERAN", "ELITE"}

// Ranks returns every rank in ascending order.
func Ranks() []Rank {
	return []Rank{Novice, Trained, Advanced, Veteran, Elite}
}

// RanksFrom returns every rank >= min in ascending order.
func RanksFrom(min Rank) []Rank {
	var out []Rank
	for _, r := range Ranks() {
		if r >= min {
			out = append(out, r)
		}
	}
	return out
}

// Level returns the integer level 0-4.
func (r Rank) Level() int { return int(r) }

// Valid reports whether r is within NOVICE..ELITE.
func (r Rank) Valid() bool { return r >= Novice && r <= Elite }

// XPGainPerDay is the experience a training soldier of rank r earns per day.
//
// Postcondition: 25 + 10*level for levels 0-2; 0 for VETERAN and ELITE.
func (r Rank) XPGainPerDay() int {
	if r >= Veteran {
		return 0
	}
	return 25 + 10*r.Level()
}

func (r Rank) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Rank(%d)", int(r))
	}
	return rankNames[r]
}

// ParseRank converts a rank name (case-insensitive) into a Rank.
func ParseRank(s string) (Rank, error) {
	u := strings.ToUpper(strings.TrimSpace(s))
	for i, name := range rankNames {
		if name == u {
			return Rank(i), nil
		}
	}
	return 0, fmt.Errorf("catalog: unknown rank %q", s)
}

// MarshalText encodes the rank by name so rank-keyed maps serialise readably.
func (r Rank) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("catalog: invalid rank %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText decodes a rank name.
func (r *Rank) UnmarshalText(b []byte) error {
	parsed, err := ParseRank(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
