package catalog

import "fmt"

func req(weapons, armors, horses map[string]int) Gear {
	return Gear{Weapons: weapons, Armors: armors, Horses: horses}
}

var coreItems = []*ItemDef{
	{ID: "WOOD", Name: "Wood", Category: CategoryResource, Price: 50},
	{ID: "STONE", Name: "Stone", Category: CategoryResource, Price: 50},
	{ID: "COAL", Name: "Coal", Category: CategoryResource, Price: 100},
	{ID: "IRON_ORE", Name: "Iron Ore", Category: CategoryResource, Price: 100},
	{ID: "COPPER_ORE", Name: "Copper Ore", Category: CategoryResource, Price: 80},
	{ID: "SILVER_ORE", Name: "Silver Ore", Category: CategoryResource, Price: 200},
	{ID: "IRON_INGOT", Name: "Iron Ingot", Category: CategoryResource, Price: 300},
	{ID: "COPPER_INGOT", Name: "Copper Ingot", Category: CategoryResource, Price: 250},
	{ID: "SILVER_INGOT", Name: "Silver Ingot", Category: CategoryResource, Price: 600},

	{ID: "HALBERD", Name: "Halberd", Category: CategoryWeapon, Price: 12 * Silver},
	{ID: "SPEAR", Name: "Spear", Category: CategoryWeapon, Price: 3 * Silver},
	{ID: "SWORD", Name: "Sword", Category: CategoryWeapon, Price: 15 * Silver},
	{ID: "BOW", Name: "Bow", Category: CategoryWeapon, Price: 70},

	{ID: "SHIELD", Name: "Shield", Category: CategoryArmor, Price: 1 * Silver},
	{ID: "HEAVY_ARMOR", Name: "Heavy Armor", Category: CategoryArmor, Price: 10 * Gold},
	{ID: "LIGHT_ARMOR", Name: "Light Armor", Category: CategoryArmor, Price: 3 * Silver},
	{ID: "HORSE_ARMOR", Name: "Horse Armor", Category: CategoryArmor, Price: 8 * Gold},

	{ID: "LIGHT_HORSE", Name: "Light Horse", Category: CategoryHorse, Price: 5 * Gold},
	{ID: "HEAVY_HORSE", Name: "Heavy Horse", Category: CategoryHorse, Price: 15 * Gold},
}

var coreUnits = []*UnitTemplate{
	{
		ID: LightInfSword, Name: "Light Infantry (Sword)",
		Requirement: req(map[string]int{"SWORD": 1}, map[string]int{"LIGHT_ARMOR": 1, "SHIELD": 1}, nil),
		Loadout:     Loadout{Weapon: "SWORD", Shield: true, LightArmor: true},
	},
	{
		ID: LightInfSpear, Name: "Light Infantry (Spear)",
		Requirement: req(map[string]int{"SPEAR": 1}, map[string]int{"LIGHT_ARMOR": 1, "SHIELD": 1}, nil),
		Loadout:     Loadout{Weapon: "SPEAR", Shield: true, LightArmor: true},
	},
	{
		ID: LightInfHalberd, Name: "Light Infantry (Halberd)",
		Requirement: req(map[string]int{"HALBERD": 1}, map[string]int{"LIGHT_ARMOR": 1, "SHIELD": 1}, nil),
		Loadout:     Loadout{Weapon: "HALBERD", Shield: true, LightArmor: true},
	},
	{
		ID: HeavyInfSword, Name: "Heavy Infantry (Sword)",
		Requirement: req(map[string]int{"SWORD": 1}, map[string]int{"HEAVY_ARMOR": 1, "SHIELD": 1}, nil),
		Loadout:     Loadout{Weapon: "SWORD", Shield: true, HeavyArmor: true},
	},
	{
		ID: HeavyInfSpear, Name: "Heavy Infantry (Spear)",
		Requirement: req(map[string]int{"SPEAR": 1}, map[string]int{"HEAVY_ARMOR": 1, "SHIELD": 1}, nil),
		Loadout:     Loadout{Weapon: "SPEAR", Shield: true, HeavyArmor: true},
	},
	{
		ID: HeavyInfHalberd, Name: "Heavy Infantry (Halberd)",
		Requirement: req(map[string]int{"HALBERD": 1}, map[string]int{"HEAVY_ARMOR": 1, "SHIELD": 1}, nil),
		Loadout:     Loadout{Weapon: "HALBERD", Shield: true, HeavyArmor: true},
	},
	{
		ID: LightArcher, Name: "Light Archer",
		Requirement: req(map[string]int{"BOW": 1}, map[string]int{"LIGHT_ARMOR": 1}, nil),
		Loadout:     Loadout{Weapon: "BOW", LightArmor: true},
	},
	{
		ID: HeavyArcher, Name: "Heavy Archer",
		Requirement: req(map[string]int{"BOW": 1}, map[string]int{"HEAVY_ARMOR": 1}, nil),
		Loadout:     Loadout{Weapon: "BOW", HeavyArmor: true},
	},
	{
		ID: LightCav, Name: "Light Cavalry",
		Requirement: req(map[string]int{"SPEAR": 1}, map[string]int{"LIGHT_ARMOR": 1}, map[string]int{"LIGHT_HORSE": 1}),
		Loadout:     Loadout{Weapon: "SPEAR", LightArmor: true},
	},
	{
		ID: HeavyCav, Name: "Heavy Cavalry",
		Requirement: req(map[string]int{"HALBERD": 1}, map[string]int{"HEAVY_ARMOR": 1, "HORSE_ARMOR": 1}, map[string]int{"HEAVY_HORSE": 1}),
		Loadout:     Loadout{Weapon: "HALBERD", HeavyArmor: true, HorseArmor: true},
	},
	{
		ID: HorseArcher, Name: "Horse Archer",
		Requirement: req(map[string]int{"BOW": 1}, map[string]int{"LIGHT_ARMOR": 1}, map[string]int{"LIGHT_HORSE": 1}),
		Loadout:     Loadout{Weapon: "BOW", LightArmor: true},
	},
}

var coreRecipes = []*Recipe{
	{Output: "IRON_INGOT", Inputs: map[string]int{"IRON_ORE": 2, "COAL": 1}},
	{Output: "COPPER_INGOT", Inputs: map[string]int{"COPPER_ORE": 2, "COAL": 1}},
	{Output: "SILVER_INGOT", Inputs: map[string]int{"SILVER_ORE": 2, "COAL": 1}},
	{Output: "SWORD", Inputs: map[string]int{"IRON_INGOT": 2}},
	{Output: "HALBERD", Inputs: map[string]int{"IRON_INGOT": 3}},
	{Output: "SPEAR", Inputs: map[string]int{"WOOD": 1}},
	{Output: "SHIELD", Inputs: map[string]int{"WOOD": 2}},
	{Output: "HEAVY_ARMOR", Inputs: map[string]int{"IRON_INGOT": 20}},
	{Output: "HORSE_ARMOR", Inputs: map[string]int{"IRON_INGOT": 15}},
}

// Core returns an unsealed Registry populated with the built-in items, unit
// templates and recipes. Callers may extend it before sealing.
//
// Postcondition: every CoreSoldierTypes() entry has a template.
func Core() *Registry {
	r := NewRegistry()
	for _, d := range coreItems {
		c := *d
		mustRegister(r.RegisterItem(&c))
	}
	for _, u := range coreUnits {
		c := *u
		c.Requirement = u.Requirement.Clone()
		mustRegister(r.RegisterUnit(&c))
	}
	for _, rc := range coreRecipes {
		c := Recipe{Output: rc.Output, Inputs: make(map[string]int, len(rc.Inputs))}
		for k, v := range rc.Inputs {
			c.Inputs[k] = v
		}
		mustRegister(r.RegisterRecipe(&c))
	}
	return r
}

func mustRegister(err error) {
	if err != nil {
		panic(fmt.Sprintf("catalog.Core: %v", err))
	}
}
