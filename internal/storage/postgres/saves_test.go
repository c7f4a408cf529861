package postgres_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/warlord/internal/game/barracks"
	"github.com/cory-johannsen/warlord/internal/game/catalog"
	"github.com/cory-johannsen/warlord/internal/game/realm"
	"github.com/cory-johannsen/warlord/internal/storage/postgres"
	"github.com/cory-johannsen/warlord/internal/testutil"
)

func setupSaves(t *testing.T) *postgres.SaveRepository {
	t.Helper()
	pc := testutil.NewPostgresContainer(t)
	return postgres.NewSaveRepository(pc.RawPool)
}

// playedState returns a game with units, a queued batch and a few days behind it.
func playedState(t *testing.T) realm.State {
	t.Helper()
	n := 0
	e := realm.NewEngine(catalog.Core(), realm.WithIDSource(func(p string) string {
		n++
		return fmt.Sprintf("%s_%d", p, n)
	}))
	s := realm.NewGame(realm.DefaultStartingWallet)
	s.Barracks.Pool.Add(catalog.LightInfSword, catalog.Trained, barracks.Cohort{Count: 12, AvgXP: 150})
	s, _, err := e.CreateUnit(s, catalog.LightInfSword, map[catalog.Rank]int{catalog.Trained: 8}, true)
	require.NoError(t, err)
	s, err = e.Recruit(s, 3)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		s, _ = e.AdvanceDay(s)
	}
	return s
}

func TestSaveRepository_SaveLoad(t *testing.T) {
	repo := setupSaves(t)
	ctx := context.Background()
	s := playedState(t)

	require.NoError(t, repo.Save(ctx, "campaign", s))
	got, err := repo.Load(ctx, "campaign")
	require.NoError(t, err)

	assert.Equal(t, s.Day, got.Day)
	assert.Equal(t, s.Wallet, got.Wallet)
	assert.Equal(t, s.Units[0].Buckets, got.Units[0].Buckets)
	assert.Equal(t, s.Barracks.Pool.Get(catalog.LightInfSword, catalog.Trained), got.Barracks.Pool.Get(catalog.LightInfSword, catalog.Trained))
	assert.Equal(t, s.Inventory.Weapons, got.Inventory.Weapons)
}

func TestSaveRepository_SaveOverwrites(t *testing.T) {
	repo := setupSaves(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "slot", realm.NewGame(1)))
	later := realm.NewGame(2)
	later.Day = 9
	require.NoError(t, repo.Save(ctx, "slot", later))

	got, err := repo.Load(ctx, "slot")
	require.NoError(t, err)
	assert.Equal(t, 9, got.Day)
	assert.Equal(t, int64(2), got.Wallet)

	saves, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, saves, 1)
	assert.Equal(t, postgres.SaveInfo{ID: "slot", Day: 9, Wallet: 2, UpdatedAt: saves[0].UpdatedAt}, saves[0])
}

func TestSaveRepository_NotFound(t *testing.T) {
	repo := setupSaves(t)
	ctx := context.Background()

	_, err := repo.Load(ctx, "missing")
	assert.ErrorIs(t, err, postgres.ErrSaveNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "missing"), postgres.ErrSaveNotFound)
}

func TestSaveRepository_Delete(t *testing.T) {
	repo := setupSaves(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "a", realm.NewGame(1)))
	require.NoError(t, repo.Save(ctx, "b", realm.NewGame(1)))
	require.NoError(t, repo.Delete(ctx, "a"))

	saves, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, saves, 1)
	assert.Equal(t, "b", saves[0].ID)
}

func TestSaveRepository_RejectsBadIDs(t *testing.T) {
	repo := setupSaves(t)
	ctx := context.Background()

	assert.Error(t, repo.Save(ctx, "", realm.NewGame(1)))
	assert.Error(t, repo.Save(ctx, strings.Repeat("x", postgres.MaxSaveIDLen+1), realm.NewGame(1)))
}

func TestProperty_SaveLoadPreservesWalletAndDay(t *testing.T) {
	repo := setupSaves(t)
	ctx := context.Background()

	rapid.Check(t, func(rt *rapid.T) {
		s := realm.NewGame(rapid.Int64Range(-1_000_000, 1_000_000_000).Draw(rt, "wallet"))
		s.Day = rapid.IntRange(1, 100_000).Draw(rt, "day")
		id := rapid.StringMatching(`[a-z0-9_-]{1,64}`).Draw(rt, "id")

		if err := repo.Save(ctx, id, s); err != nil {
			rt.Fatalf("save: %v", err)
		}
		got, err := repo.Load(ctx, id)
		if err != nil {
			rt.Fatalf("load: %v", err)
		}
		if got.Day != s.Day || got.Wallet != s.Wallet {
			rt.Fatalf("round trip changed day/wallet: %d/%d → %d/%d", s.Day, s.Wallet, got.Day, got.Wallet)
		}
	})
}
