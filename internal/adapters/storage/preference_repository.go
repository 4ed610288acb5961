package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xvierd/wod-cli/internal/ports"
)

// preferenceRepository implements ports.PreferenceRepository using SQLite.
type preferenceRepository struct {
	db *sql.DB
}

func newPreferenceRepository(db *sql.DB) ports.PreferenceRepository {
	return &preferenceRepository{db: db}
}

// Get returns the stored value and whether the key exists.
func (r *preferenceRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get preference %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores a value, replacing any previous one.
func (r *preferenceRepository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, key, value, time.Now()); err != nil {
		return fmt.Errorf("failed to set preference %s: %w", key, err)
	}
	return nil
}
