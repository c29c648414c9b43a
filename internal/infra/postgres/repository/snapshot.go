package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
	"github.com/aliskhannn/mindgrowth-bot/internal/infra/postgres"
	"github.com/aliskhannn/mindgrowth-bot/internal/repository"
)

// SnapshotRepository stores one JSONB progress snapshot per user.
type SnapshotRepository struct {
	db postgres.DBTX
}

func NewSnapshotRepository(db postgres.DBTX) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Get returns the stored snapshot or repository.ErrSnapshotNotFound.
func (r *SnapshotRepository) Get(ctx context.Context, userID int64) (entities.Snapshot, error) {
	var raw []byte
	err := r.db.QueryRow(ctx, `SELECT snapshot FROM progress_snapshots WHERE user_id = $1`, userID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entities.Snapshot{}, repository.ErrSnapshotNotFound
		}
		return entities.Snapshot{}, fmt.Errorf("get snapshot: %w", err)
	}

	var s entities.Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return entities.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}

// Put replaces the snapshot of the user.
func (r *SnapshotRepository) Put(ctx context.Context, userID int64, s entities.Snapshot) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	query := `
		INSERT INTO progress_snapshots (user_id, snapshot, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			snapshot = EXCLUDED.snapshot,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := r.db.Exec(ctx, query, userID, raw); err != nil {
		return fmt.Errorf("put snapshot: %w", err)
	}
	return nil
}

// Delete removes the snapshot; deleting a missing snapshot is not an error.
func (r *SnapshotRepository) Delete(ctx context.Context, userID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM progress_snapshots WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}
