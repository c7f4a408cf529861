package realm

import (
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/warlord/internal/game/barracks"
	"github.com/cory-johannsen/warlord/internal/game/catalog"
	"github.com/cory-johannsen/warlord/internal/game/gameerr"
	"github.com/cory-johannsen/warlord/internal/game/production"
)

// Buy purchases qty of item at market price. Horses need an owned stable;
// resources go to the resource stockpile.
func (e *Engine) Buy(s State, itemID string, qty int) (State, error) {
	const cmd = "buy"
	def, ok := e.reg.Item(itemID)
	if !ok {
		return e.reject(cmd, s, gameerr.Rejectf(gameerr.ErrUnknownCatalogEntry, "item %q", itemID))
	}
	if qty < 1 {
		return e.reject(cmd, s, gameerr.Rejectf(gameerr.ErrInvalidArgument, "quantity must be >= 1, got %d", qty))
	}
	if def.Category == catalog.CategoryHorse && !s.Owns(production.Stable) {
		return e.reject(cmd, s, gameerr.Rejectf(gameerr.ErrBuildingRequired, "a STABLE is needed to keep horses"))
	}
	// qty*price <= wallet iff qty <= wallet/price, which cannot overflow.
	if def.Price > 0 && (s.Wallet < 0 || int64(qty) > s.Wallet/def.Price) {
		return e.reject(cmd, s, gameerr.Rejectf(gameerr.ErrInsufficientFunds,
			"%d %s at %s each, wallet holds %s", qty, itemID, catalog.FormatCopper(def.Price), catalog.FormatCopper(s.Wallet)))
	}
	if !roomFor(stockOf(s, def), qty) {
		return e.reject(cmd, s, gameerr.Rejectf(gameerr.ErrInvalidArgument, "quantity %d overflows %s stock", qty, itemID))
	}
	cost := def.Price * int64(qty)

	next := s.Clone()
	next.Wallet -= cost
	if def.Category == catalog.CategoryResource {
		next.Resources[itemID] += qty
	} else {
		next.Inventory.Add(def.Category, itemID, qty)
	}
	e.accept(cmd, next, zap.String("item", itemID), zap.Int("qty", qty), zap.Int64("spent", cost))
	return next, nil
}

// Sell sells qty of item from stock at market price.
func (e *Engine) Sell(s State, itemID string, qty int) (State, error) {
	const cmd = "sell"
	def, ok := e.reg.Item(itemID)
	if !ok {
		return e.reject(cmd, s, gameerr.Rejectf(gameerr.ErrUnknownCatalogEntry, "item %q", itemID))
	}
	if qty < 1 {
		return e.reject(cmd, s, gameerr.Rejectf(gameerr.ErrInvalidArgument, "quantity must be >= 1, got %d", qty))
	}
	if have := stockOf(s, def); have < qty {
		return e.reject(cmd, s, gameerr.Rejectf(gameerr.ErrInsufficientStock, "selling %d %s, have %d", qty, itemID, have))
	}
	if def.Price > 0 && int64(qty) > (math.MaxInt64-max(s.Wallet, 0))/def.Price {
		return e.reject(cmd, s, gameerr.Rejectf(gameerr.ErrInvalidArgument, "selling %d %s overflows the wallet", qty, itemID))
	}

	gain := def.Price * int64(qty)
	next := s.Clone()
	next.Wallet += gain
	if def.Category == catalog.CategoryResource {
		next.Resources[itemID] -= qty
	} else {
		next.Inventory.Add(def.Category, itemID, -qty)
	}
	e.accept(cmd, next, zap.String("item", itemID), zap.Int("qty", qty), zap.Int64("earned", gain))
	return next, nil
}

func stockOf(s State, def *catalog.ItemDef) int {
	if def.Category == catalog.CategoryResource {
		return s.Resources[def.ID]
	}
	return s.Inventory.Count(def.Category, def.ID)
}

// roomFor reports whether have+qty fits in an int.
func roomFor(have, qty int) bool {
	return qty <= math.MaxInt-have
}

// BuyBuilding purchases a building of type t. At most one of each type is owned.
func (e *Engine) BuyBuilding(s State, t production.BuildingType) (State, error) {
	const cmd = "buy building"
	spec, ok := production.SpecFor(t)
	if !ok {
		return e.reject(cmd, s, gameerr.Rejectf(gameerr.ErrInvalidArgument, "unknown building type %q", t))
	}
	if s.Owns(t) {
		return e.reject(cmd, s, gameerr.Rejectf(gameerr.ErrAlreadyOwned, "a %s is already owned", t))
	}
	if s.Wallet < spec.Cost {
		return e.reject(cmd, s, gameerr.Rejectf(gameerr.ErrInsufficientFunds,
			"%s costs %s, wallet holds %s", t, catalog.FormatCopper(spec.Cost), catalog.FormatCopper(s.Wallet)))
	}

	next := s.Clone()
	next.Wallet -= spec.Cost
	b := production.NewBuilding(e.newID(strings.ToLower(string(t))), t)
	next.Buildings = append(next.Buildings, b)
	e.accept(cmd, next, zap.String("building", b.ID), zap.String("type", string(t)), zap.Int64("spent", spec.Cost))
	return next, nil
}

func (e *Engine) producer(s State, buildingID string) (int, production.Spec, error) {
	i := s.FindBuilding(buildingID)
	if i < 0 {
		return -1, production.Spec{}, gameerr.Rejectf(gameerr.ErrNotFound, "building %q", buildingID)
	}
	spec, _ := production.SpecFor(s.Buildings[i].Type)
	if spec.Role != production.RoleGoods && spec.Role != production.RoleMint {
		return -1, spec, gameerr.Rejectf(gameerr.ErrInvalidArgument, "%s has no production to configure", spec.Type)
	}
	return i, spec, nil
}

// SetBuildingFocus sets the share of a building's budget kept as coin.
func (e *Engine) SetBuildingFocus(s State, buildingID string, pct int) (State, error) {
	const cmd = "set building focus"
	i, _, err := e.producer(s, buildingID)
	if err != nil {
		return e.reject(cmd, s, err)
	}
	if !production.ValidFocus(pct) {
		return e.reject(cmd, s, gameerr.Rejectf(gameerr.ErrInvalidArgument, "focus must be one of %v, got %d", production.FocusOptions, pct))
	}
	next := s.Clone()
	next.Buildings[i].FocusCoinPct = pct
	e.accept(cmd, next, zap.String("building", buildingID), zap.Int("pct", pct))
	return next, nil
}

// SetBuildingOutput selects what a building produces. The fractional buffer
// is reset because it was counted in the old item.
func (e *Engine) SetBuildingOutput(s State, buildingID, item string) (State, error) {
	const cmd = "set building output"
	i, spec, err := e.producer(s, buildingID)
	if err != nil {
		return e.reject(cmd, s, err)
	}
	if !spec.Offers(item) {
		return e.reject(cmd, s, gameerr.Rejectf(gameerr.ErrInvalidArgument, "%s produces %v, not %q", spec.Type, spec.Outputs, item))
	}
	next := s.Clone()
	if next.Buildings[i].Output() != item {
		next.Buildings[i].FractionalBuffer = 0
	}
	next.Buildings[i].OutputItem = item
	e.accept(cmd, next, zap.String("building", buildingID), zap.String("item", item))
	return next, nil
}

// UpgradeBarracks raises the barracks one level for the cost table price.
func (e *Engine) UpgradeBarracks(s State) (State, error) {
	const cmd = "upgrade barracks"
	cost, err := barracks.UpgradeCost(s.Barracks.Level)
	if err != nil {
		return e.reject(cmd, s, err)
	}
	if s.Wallet < cost {
		return e.reject(cmd, s, gameerr.Rejectf(gameerr.ErrInsufficientFunds,
			"upgrade to level %d costs %s, wallet holds %s", s.Barracks.Level+1, catalog.FormatCopper(cost), catalog.FormatCopper(s.Wallet)))
	}
	next := s.Clone()
	next.Wallet -= cost
	next.Barracks.Level++
	e.accept(cmd, next, zap.Int("level", next.Barracks.Level), zap.Int64("spent", cost))
	return next, nil
}
