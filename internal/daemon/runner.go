// Package daemon advances a saved game on a timer and persists every day.
package daemon

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/warlord/internal/game/realm"
)

// Store persists realm snapshots by save id.
type Store interface {
	Save(ctx context.Context, id string, s realm.State) error
}

// Runner owns the live State of one save. Each Tick advances it one day and
// commits the new day only once it has been stored.
//
// Invariant: the in-memory State always equals the last stored snapshot.
type Runner struct {
	engine *realm.Engine
	store  Store
	saveID string
	logger *zap.Logger

	mu    sync.Mutex
	state realm.State
}

// NewRunner creates a Runner starting from initial.
//
// Precondition: engine and store must not be nil; saveID must be non-empty.
func NewRunner(engine *realm.Engine, store Store, saveID string, initial realm.State, logger *zap.Logger) *Runner {
	if engine == nil || store == nil {
		panic("daemon.NewRunner: engine and store must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{engine: engine, store: store, saveID: saveID, logger: logger, state: initial}
}

// Tick advances one day and stores it.
//
// Postcondition: on error the in-memory State is unchanged, so the next Tick
// retries the same day.
func (r *Runner) Tick(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next, rep := r.engine.AdvanceDay(r.state)
	if err := r.store.Save(ctx, r.saveID, next); err != nil {
		return fmt.Errorf("persisting day %d: %w", rep.Day, err)
	}
	r.state = next
	r.logger.Info("day committed",
		zap.Int("day", next.Day),
		zap.Int64("wallet", next.Wallet),
	)
	return nil
}

// State returns the last committed State.
func (r *Runner) State() realm.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Clone()
}
