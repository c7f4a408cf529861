package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Gear is a quantity map split by equipment category. It is used for
// per-soldier requirements, aggregate demand, shortfalls and the equipment a
// unit carries. Keys absent from a map mean zero.
type Gear struct {
	Weapons map[string]int `json:"weapons,omitempty" yaml:"weapons,omitempty"`
	Armors  map[string]int `json:"armors,omitempty" yaml:"armors,omitempty"`
	Horses  map[string]int `json:"horses,omitempty" yaml:"horses,omitempty"`
}

// GearCategories are the categories a Gear can hold, in iteration order.
var GearCategories = []Category{CategoryWeapon, CategoryArmor, CategoryHorse}

func (g *Gear) slot(cat Category) *map[string]int {
	switch cat {
	case CategoryWeapon:
		return &g.Weapons
	case CategoryArmor:
		return &g.Armors
	case CategoryHorse:
		return &g.Horses
	}
	panic("catalog.Gear: category " + string(cat) + " is not equipment")
}

// Get returns the quantity of id in cat.
func (g Gear) Get(cat Category, id string) int {
	return (*g.slot(cat))[id]
}

// Set stores qty for id in cat, allocating the map if needed.
func (g *Gear) Set(cat Category, id string, qty int) {
	m := g.slot(cat)
	if *m == nil {
		*m = make(map[string]int)
	}
	(*m)[id] = qty
}

// Add increments id in cat by qty.
func (g *Gear) Add(cat Category, id string, qty int) {
	g.Set(cat, id, g.Get(cat, id)+qty)
}

// Delete removes id from cat.
func (g *Gear) Delete(cat Category, id string) {
	delete(*g.slot(cat), id)
}

// Each calls fn for every entry, categories in GearCategories order and ids
// sorted within a category.
func (g Gear) Each(fn func(cat Category, id string, qty int)) {
	for _, cat := range GearCategories {
		m := *g.slot(cat)
		ids := make([]string, 0, len(m))
		for id := range m {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			fn(cat, id, m[id])
		}
	}
}

// Clone returns a deep copy.
func (g Gear) Clone() Gear {
	var out Gear
	g.Each(func(cat Category, id string, qty int) { out.Set(cat, id, qty) })
	return out
}

// Scale returns g with every quantity multiplied by n.
func (g Gear) Scale(n int) Gear {
	var out Gear
	g.Each(func(cat Category, id string, qty int) { out.Set(cat, id, qty*n) })
	return out
}

// Plus returns the item-by-item sum of g and o.
func (g Gear) Plus(o Gear) Gear {
	out := g.Clone()
	o.Each(func(cat Category, id string, qty int) { out.Add(cat, id, qty) })
	return out
}

// IsZero reports whether every quantity is zero.
func (g Gear) IsZero() bool {
	zero := true
	g.Each(func(_ Category, _ string, qty int) {
		if qty != 0 {
			zero = false
		}
	})
	return zero
}

// Len returns the number of entries.
func (g Gear) Len() int {
	return len(g.Weapons) + len(g.Armors) + len(g.Horses)
}

// String renders the non-zero entries as "10 HEAVY_HORSE, 4 SHIELD" in Each order.
func (g Gear) String() string {
	var parts []string
	g.Each(func(_ Category, id string, qty int) {
		if qty != 0 {
			parts = append(parts, fmt.Sprintf("%d %s", qty, id))
		}
	})
	if len(parts) == 0 {
		return "nothing"
	}
	return strings.Join(parts, ", ")
}
