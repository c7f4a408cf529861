package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/warlord/internal/game/realm"
)

// ErrSaveNotFound is returned when no save exists under the requested id.
var ErrSaveNotFound = errors.New("save not found")

// MaxSaveIDLen is the width of the saves.id column.
const MaxSaveIDLen = 64

// SaveInfo summarises a stored save without decoding its state.
type SaveInfo struct {
	ID        string
	Day       int
	Wallet    int64
	UpdatedAt time.Time
}

// SaveRepository stores realm snapshots as JSONB keyed by save id.
type SaveRepository struct {
	db *pgxpool.Pool
}

// NewSaveRepository creates a SaveRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewSaveRepository(db *pgxpool.Pool) *SaveRepository {
	return &SaveRepository{db: db}
}

func validSaveID(id string) error {
	if id == "" || len(id) > MaxSaveIDLen {
		return fmt.Errorf("save id must be 1-%d bytes, got %d", MaxSaveIDLen, len(id))
	}
	return nil
}

// Save writes s under id, replacing any previous snapshot.
//
// Postcondition: a subsequent Load(id) returns a State equal to s.
func (r *SaveRepository) Save(ctx context.Context, id string, s realm.State) error {
	if err := validSaveID(id); err != nil {
		return err
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding save %q: %w", id, err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO saves (id, day, wallet, state)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET day = EXCLUDED.day, wallet = EXCLUDED.wallet, state = EXCLUDED.state, updated_at = NOW()`,
		id, s.Day, s.Wallet, payload,
	)
	if err != nil {
		return fmt.Errorf("writing save %q: %w", id, err)
	}
	return nil
}

// Load reads the snapshot stored under id.
//
// Postcondition: returns ErrSaveNotFound when id does not exist.
func (r *SaveRepository) Load(ctx context.Context, id string) (realm.State, error) {
	var payload []byte
	err := r.db.QueryRow(ctx, `SELECT state FROM saves WHERE id = $1`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return realm.State{}, ErrSaveNotFound
		}
		return realm.State{}, fmt.Errorf("reading save %q: %w", id, err)
	}
	var s realm.State
	if err := json.Unmarshal(payload, &s); err != nil {
		return realm.State{}, fmt.Errorf("decoding save %q: %w", id, err)
	}
	return s, nil
}

// List returns every save, most recently updated first.
func (r *SaveRepository) List(ctx context.Context) ([]SaveInfo, error) {
	rows, err := r.db.Query(ctx, `SELECT id, day, wallet, updated_at FROM saves ORDER BY updated_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing saves: %w", err)
	}
	defer rows.Close()

	var out []SaveInfo
	for rows.Next() {
		var info SaveInfo
		if err := rows.Scan(&info.ID, &info.Day, &info.Wallet, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning save: %w", err)
		}
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating saves: %w", err)
	}
	return out, nil
}

// Delete removes the save stored under id.
//
// Postcondition: returns ErrSaveNotFound when id does not exist.
func (r *SaveRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM saves WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting save %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSaveNotFound
	}
	return nil
}
