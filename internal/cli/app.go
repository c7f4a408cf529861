// Package cli implements the warlord command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/cory-johannsen/warlord/internal/game/catalog"
	"github.com/cory-johannsen/warlord/internal/game/gameerr"
	"github.com/cory-johannsen/warlord/internal/game/realm"
	"github.com/cory-johannsen/warlord/internal/storage/postgres"
)

// ErrNoSave is returned by a Store when the save id does not exist.
var ErrNoSave = errors.New("no such save")

// Store persists realm snapshots by save id.
type Store interface {
	Save(ctx context.Context, id string, s realm.State) error
	Load(ctx context.Context, id string) (realm.State, error)
	List(ctx context.Context) ([]postgres.SaveInfo, error)
	Delete(ctx context.Context, id string) error
}

// App is everything a command needs once configuration has been resolved.
type App struct {
	Engine         *realm.Engine
	Store          Store
	SaveID         string
	StartingWallet int64
	DayInterval    time.Duration
	Out            io.Writer
	Logger         *zap.Logger
}

// Opener builds an App for one command invocation. The returned func
// releases its resources.
type Opener func(ctx context.Context) (*App, func(), error)

var (
	okColor     = color.New(color.FgGreen, color.Bold)
	rejectColor = color.New(color.FgRed, color.Bold)
	titleColor  = color.New(color.FgCyan, color.Bold)
)

// load reads the current save.
func (a *App) load(ctx context.Context) (realm.State, error) {
	s, err := a.Store.Load(ctx, a.SaveID)
	if errors.Is(err, ErrNoSave) {
		return realm.State{}, fmt.Errorf("save %q does not exist; run `warlord new` first", a.SaveID)
	}
	if err != nil {
		return realm.State{}, err
	}
	return s, nil
}

// apply loads the save, runs fn and stores the result. Rejections are
// printed and returned; nothing is stored for them.
func (a *App) apply(ctx context.Context, fn func(realm.State) (realm.State, string, error)) error {
	s, err := a.load(ctx)
	if err != nil {
		return err
	}
	next, msg, err := fn(s)
	if err != nil {
		if gameerr.IsRejection(err) {
			rejectColor.Fprintf(a.Out, "✗ %s\n", gameerr.Reason(err))
		}
		return err
	}
	if err := a.Store.Save(ctx, a.SaveID, next); err != nil {
		return fmt.Errorf("saving %q: %w", a.SaveID, err)
	}
	okColor.Fprintf(a.Out, "✓ %s\n", msg)
	fmt.Fprintf(a.Out, "  day %d, wallet %s\n", next.Day, catalog.FormatCopper(next.Wallet))
	return nil
}

// pgStore adapts the postgres repository to Store.
type pgStore struct {
	repo *postgres.SaveRepository
}

func (p pgStore) Save(ctx context.Context, id string, s realm.State) error {
	return p.repo.Save(ctx, id, s)
}

func (p pgStore) Load(ctx context.Context, id string) (realm.State, error) {
	s, err := p.repo.Load(ctx, id)
	if errors.Is(err, postgres.ErrSaveNotFound) {
		return realm.State{}, ErrNoSave
	}
	return s, err
}

func (p pgStore) List(ctx context.Context) ([]postgres.SaveInfo, error) {
	return p.repo.List(ctx)
}

func (p pgStore) Delete(ctx context.Context, id string) error {
	err := p.repo.Delete(ctx, id)
	if errors.Is(err, postgres.ErrSaveNotFound) {
		return ErrNoSave
	}
	return err
}
