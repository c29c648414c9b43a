package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
	"github.com/aliskhannn/mindgrowth-bot/internal/infra/postgres"
	"github.com/aliskhannn/mindgrowth-bot/internal/repository"
)

// UserRepository provides access to user data in the database.
type UserRepository struct {
	db postgres.DBTX
}

// NewUserRepository creates a new UserRepository with the provided database pool.
func NewUserRepository(db postgres.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Save inserts a new user or updates an existing one and reports whether it was created.
func (r *UserRepository) Save(ctx context.Context, user *entities.User) (bool, error) {
	query := `
		INSERT INTO users (id, chat_id, track, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			chat_id = EXCLUDED.chat_id,
			is_active = EXCLUDED.is_active
		RETURNING (xmax = 0) AS created
	`

	var created bool
	err := r.db.QueryRow(ctx, query, user.ID, user.ChatID, string(user.Track), user.IsActive, user.CreatedAt).Scan(&created)
	if err != nil {
		return false, fmt.Errorf("save user: %w", err)
	}

	return created, nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*entities.User, error) {
	query := `
		SELECT id, chat_id, track, is_active, created_at
		FROM users
		WHERE id = $1
	`

	var (
		user  entities.User
		track string
	)
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&user.ChatID,
		&track,
		&user.IsActive,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	user.Track = entities.Track(track)

	return &user, nil
}

// SetTrack switches the learning track of a user.
func (r *UserRepository) SetTrack(ctx context.Context, userID int64, track entities.Track) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET track = $2 WHERE id = $1`, userID, string(track))
	if err != nil {
		return fmt.Errorf("set track: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}

// Deactivate stops reminders for a user, e.g. after the bot was blocked.
func (r *UserRepository) Deactivate(ctx context.Context, userID int64) error {
	if _, err := r.db.Exec(ctx, `UPDATE users SET is_active = FALSE WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	return nil
}

// ListActive returns every active user that can be reminded.
func (r *UserRepository) ListActive(ctx context.Context) ([]entities.ReminderTarget, error) {
	rows, err := r.db.Query(ctx, `SELECT id, chat_id, track FROM users WHERE is_active ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list active users: %w", err)
	}
	defer rows.Close()

	var targets []entities.ReminderTarget
	for rows.Next() {
		var (
			t     entities.ReminderTarget
			track string
		)
		if err := rows.Scan(&t.UserID, &t.ChatID, &track); err != nil {
			return nil, fmt.Errorf("scan active user: %w", err)
		}
		t.Track = entities.Track(track)
		targets = append(targets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list active users: %w", err)
	}

	return targets, nil
}
