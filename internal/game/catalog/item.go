package catalog

import (
	"errors"
	"fmt"
)

// ItemDef defines the static properties of a tradeable item.
type ItemDef struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Category Category `yaml:"category"`
	// Price is the market price in copper.
	Price int64 `yaml:"price"`
}

// Validate checks that the ItemDef satisfies its invariants.
//
// Precondition: d is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (d *ItemDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if !d.Category.Valid() {
		errs = append(errs, fmt.Errorf("Category must be one of WEAPON, ARMOR, HORSE, RESOURCE; got %q", d.Category))
	}
	if d.Price < 0 {
		errs = append(errs, errors.New("Price must be >= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("item validation failed: %v", errs)
	}
	return nil
}

// Loadout describes what a unit template fields by default. Weapon is the
// only field that affects requirements; the flags are informational.
type Loadout struct {
	Weapon     string `json:"weapon,omitempty" yaml:"weapon"`
	Shield     bool   `json:"shield,omitempty" yaml:"shield"`
	LightArmor bool   `json:"lightArmor,omitempty" yaml:"light_armor"`
	HeavyArmor bool   `json:"heavyArmor,omitempty" yaml:"heavy_armor"`
	HorseArmor bool   `json:"horseArmor,omitempty" yaml:"horse_armor"`
}

// UnitTemplate defines a soldier type's per-soldier equipment requirement.
type UnitTemplate struct {
	ID          SoldierType `yaml:"id"`
	Name        string      `yaml:"name"`
	Requirement Gear        `yaml:"requirement"`
	Loadout     Loadout     `yaml:"loadout"`
}

// Validate checks that the UnitTemplate satisfies its invariants.
func (u *UnitTemplate) Validate() error {
	var errs []error
	if u.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if u.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	u.Requirement.Each(func(cat Category, id string, qty int) {
		if qty < 1 {
			errs = append(errs, fmt.Errorf("requirement %s %s must be >= 1, got %d", cat, id, qty))
		}
	})
	if u.Loadout.Weapon != "" && u.Requirement.Get(CategoryWeapon, u.Loadout.Weapon) == 0 {
		errs = append(errs, fmt.Errorf("loadout weapon %q is not in the requirement", u.Loadout.Weapon))
	}
	if len(errs) > 0 {
		return fmt.Errorf("unit template validation failed: %v", errs)
	}
	return nil
}

// Recipe lists the resources consumed to manufacture one unit of Output.
type Recipe struct {
	Output string         `yaml:"output"`
	Inputs map[string]int `yaml:"inputs"`
}

// Validate checks that the Recipe satisfies its invariants.
func (r *Recipe) Validate() error {
	var errs []error
	if r.Output == "" {
		errs = append(errs, errors.New("Output must not be empty"))
	}
	if len(r.Inputs) == 0 {
		errs = append(errs, errors.New("Inputs must not be empty"))
	}
	for id, qty := range r.Inputs {
		if qty < 1 {
			errs = append(errs, fmt.Errorf("input %s must be >= 1, got %d", id, qty))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("recipe validation failed: %v", errs)
	}
	return nil
}
