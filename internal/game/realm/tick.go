package realm

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/warlord/internal/game/barracks"
	"github.com/cory-johannsen/warlord/internal/game/catalog"
	"github.com/cory-johannsen/warlord/internal/game/production"
	"github.com/cory-johannsen/warlord/internal/game/unit"
)

// DayReport describes everything that changed in one day tick.
type DayReport struct {
	// Day is the day that was simulated; the returned State is on Day+1.
	Day         int
	WalletDelta int64
	Trained     []string
	Completed   []barracks.Batch
	Lines       []production.Line
	Stable      *production.StableReport
}

// Summary renders the report as a single log line.
func (r DayReport) Summary() string {
	var notes []string
	if len(r.Trained) > 0 {
		notes = append(notes, fmt.Sprintf("Trained %s", strings.Join(r.Trained, ", ")))
	}
	for _, b := range r.Completed {
		notes = append(notes, fmt.Sprintf("%s %d → %s done", b.Kind, b.Quantity, b.Target))
	}
	for _, l := range r.Lines {
		notes = append(notes, l.String())
	}
	if r.Stable != nil {
		notes = append(notes, r.Stable.String())
	}
	if len(notes) == 0 {
		notes = append(notes, "quiet day")
	}
	return fmt.Sprintf("Day %d — %s | Wallet Δ %s", r.Day, strings.Join(notes, "; "), catalog.FormatCopper(r.WalletDelta))
}

// AdvanceDay simulates one day. Every stage reads the prior stage's result
// and the whole day is committed at once: training, batch countdown,
// building production, then stable breeding and upkeep.
//
// Postcondition: s is not modified; the returned State is on s.Day+1. Upkeep
// may leave the wallet negative.
func (e *Engine) AdvanceDay(s State) (State, DayReport) {
	next := s.Clone()
	rep := DayReport{Day: s.Day}

	for _, i := range unit.SelectForTraining(next.Units, next.TrainingSlots()) {
		next.Units[i] = unit.TrainOneDay(next.Units[i])
		rep.Trained = append(rep.Trained, next.Units[i].ID)
	}

	next.Barracks, rep.Completed = barracks.Tick(next.Barracks)

	out := production.RunDay(e.reg, next.Buildings, next.Inventory, next.Resources)
	next.Buildings, next.Inventory, next.Resources = out.Buildings, out.Inventory, out.Resources
	rep.Lines = out.Lines
	rep.WalletDelta = out.Coin

	if next.Owns(production.Stable) {
		inv, stable := production.StableDay(next.Inventory)
		next.Inventory = inv
		rep.Stable = &stable
		rep.WalletDelta -= stable.Upkeep
	}

	next.Wallet += rep.WalletDelta
	next.Day++

	e.logger.Info("day advanced",
		zap.Int("day", rep.Day),
		zap.Int64("walletDelta", rep.WalletDelta),
		zap.Int("trained", len(rep.Trained)),
		zap.Int("completed", len(rep.Completed)),
		zap.String("summary", rep.Summary()),
	)
	return next, rep
}
