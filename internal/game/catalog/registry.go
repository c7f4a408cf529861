package catalog

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/warlord/internal/game/gameerr"
)

// ErrSealed is returned when registering into a sealed Registry.
var ErrSealed = errors.New("catalog: registry is sealed")

// Registry holds item, unit-template and recipe definitions. Registration is
// additive only; once sealed the Registry is read-only and safe to share.
type Registry struct {
	items     map[string]*ItemDef
	itemOrder []string
	units     map[SoldierType]*UnitTemplate
	unitOrder []SoldierType
	recipes   map[string]*Recipe
	recOrder  []string
	sealed    bool
}

// NewRegistry returns an empty Registry.
//
// Postcondition: all internal maps are initialised.
func NewRegistry() *Registry {
	return &Registry{
		items:   make(map[string]*ItemDef),
		units:   make(map[SoldierType]*UnitTemplate),
		recipes: make(map[string]*Recipe),
	}
}

// Seal freezes the Registry. Subsequent Register calls return ErrSealed.
func (r *Registry) Seal() { r.sealed = true }

// Sealed reports whether Seal has been called.
func (r *Registry) Sealed() bool { return r.sealed }

// RegisterItem adds d to the registry.
//
// Precondition:  d must not be nil.
// Postcondition: Item(d.ID) returns (d, true); returns error if d.ID already registered or d is invalid.
func (r *Registry) RegisterItem(d *ItemDef) error {
	if r.sealed {
		return ErrSealed
	}
	if err := d.Validate(); err != nil {
		return fmt.Errorf("catalog: Registry.RegisterItem: %w", err)
	}
	if _, exists := r.items[d.ID]; exists {
		return fmt.Errorf("catalog: Registry.RegisterItem: item ID %q already registered", d.ID)
	}
	r.items[d.ID] = d
	r.itemOrder = append(r.itemOrder, d.ID)
	return nil
}

// RegisterUnit adds u to the registry. Every item named in the requirement
// must already be registered under the matching category.
//
// Precondition:  u must not be nil.
// Postcondition: Unit(u.ID) returns (u, true); returns error on duplicate, invalid or dangling references.
func (r *Registry) RegisterUnit(u *UnitTemplate) error {
	if r.sealed {
		return ErrSealed
	}
	if err := u.Validate(); err != nil {
		return fmt.Errorf("catalog: Registry.RegisterUnit: %w", err)
	}
	if _, exists := r.units[u.ID]; exists {
		return fmt.Errorf("catalog: Registry.RegisterUnit: unit ID %q already registered", u.ID)
	}
	var missing []string
	u.Requirement.Each(func(cat Category, id string, _ int) {
		def, ok := r.items[id]
		if !ok || def.Category != cat {
			missing = append(missing, fmt.Sprintf("%s %s", cat, id))
		}
	})
	if len(missing) > 0 {
		return gameerr.Rejectf(gameerr.ErrUnknownCatalogEntry, "unit %q requires %v", u.ID, missing)
	}
	r.units[u.ID] = u
	r.unitOrder = append(r.unitOrder, u.ID)
	return nil
}

// RegisterRecipe adds rc to the registry. Output and inputs must be registered items.
//
// Precondition:  rc must not be nil.
// Postcondition: Recipe(rc.Output) returns (rc, true); returns error on duplicate, invalid or dangling references.
func (r *Registry) RegisterRecipe(rc *Recipe) error {
	if r.sealed {
		return ErrSealed
	}
	if err := rc.Validate(); err != nil {
		return fmt.Errorf("catalog: Registry.RegisterRecipe: %w", err)
	}
	if _, exists := r.recipes[rc.Output]; exists {
		return fmt.Errorf("catalog: Registry.RegisterRecipe: recipe for %q already registered", rc.Output)
	}
	if _, ok := r.items[rc.Output]; !ok {
		return gameerr.Rejectf(gameerr.ErrUnknownCatalogEntry, "recipe output %q", rc.Output)
	}
	for id := range rc.Inputs {
		if def, ok := r.items[id]; !ok || def.Category != CategoryResource {
			return gameerr.Rejectf(gameerr.ErrUnknownCatalogEntry, "recipe for %q uses %q which is not a registered resource", rc.Output, id)
		}
	}
	r.recipes[rc.Output] = rc
	r.recOrder = append(r.recOrder, rc.Output)
	return nil
}

// Item returns the ItemDef for the given id and whether it was found.
//
// Postcondition: ok is true iff the id is registered.
func (r *Registry) Item(id string) (*ItemDef, bool) {
	d, ok := r.items[id]
	return d, ok
}

// Price returns the market price of id in copper, or 0 when id is unknown.
func (r *Registry) Price(id string) int64 {
	if d, ok := r.items[id]; ok {
		return d.Price
	}
	return 0
}

// Unit returns the UnitTemplate for t and whether it was found.
func (r *Registry) Unit(t SoldierType) (*UnitTemplate, bool) {
	u, ok := r.units[t]
	return u, ok
}

// Recipe returns the manufacturing recipe producing output, if any.
func (r *Registry) Recipe(output string) (*Recipe, bool) {
	rc, ok := r.recipes[output]
	return rc, ok
}

// AllItems returns every ItemDef in registration order.
func (r *Registry) AllItems() []*ItemDef {
	out := make([]*ItemDef, 0, len(r.itemOrder))
	for _, id := range r.itemOrder {
		out = append(out, r.items[id])
	}
	return out
}

// ItemsIn returns every ItemDef of category cat in registration order.
func (r *Registry) ItemsIn(cat Category) []*ItemDef {
	var out []*ItemDef
	for _, id := range r.itemOrder {
		if d := r.items[id]; d.Category == cat {
			out = append(out, d)
		}
	}
	return out
}

// AllUnits returns every UnitTemplate in registration order.
func (r *Registry) AllUnits() []*UnitTemplate {
	out := make([]*UnitTemplate, 0, len(r.unitOrder))
	for _, id := range r.unitOrder {
		out = append(out, r.units[id])
	}
	return out
}

// SoldierTypes returns the id of every registered template in registration order.
func (r *Registry) SoldierTypes() []SoldierType {
	out := make([]SoldierType, len(r.unitOrder))
	copy(out, r.unitOrder)
	return out
}

// AllRecipes returns every Recipe in registration order.
func (r *Registry) AllRecipes() []*Recipe {
	out := make([]*Recipe, 0, len(r.recOrder))
	for _, id := range r.recOrder {
		out = append(out, r.recipes[id])
	}
	return out
}
