package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/xvierd/wod-cli/internal/domain"
	"github.com/xvierd/wod-cli/internal/ports"
)

const blockColumns = `id, title, mode, work_time, rest_time, rounds, prepare_time, exercises, notes, created_at, updated_at`

// blockRepository implements ports.BlockRepository using SQLite.
type blockRepository struct {
	db *sql.DB
}

// newBlockRepository creates a new block repository.
func newBlockRepository(db *sql.DB) ports.BlockRepository {
	return &blockRepository{db: db}
}

// Save persists a block to storage.
func (r *blockRepository) Save(ctx context.Context, block *domain.WorkoutBlock) error {
	query := `INSERT INTO blocks (` + blockColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	s := block.Settings
	_, err := r.db.ExecContext(ctx, query,
		block.ID,
		block.Title,
		string(s.Mode),
		s.WorkTime,
		s.RestTime,
		s.Rounds,
		s.PrepareTime,
		strings.Join(block.Exercises, "\n"),
		block.Notes,
		block.CreatedAt,
		block.UpdatedAt,
	)
	if isUniqueConstraintError(err) {
		return fmt.Errorf("failed to save block: %w: duplicate id %s", domain.ErrInvalidBlockID, block.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to save block: %w", err)
	}

	return nil
}

// FindByID retrieves a block by its ID. A unique ID prefix also matches,
// so the short IDs printed by the CLI can be typed back.
func (r *blockRepository) FindByID(ctx context.Context, id string) (*domain.WorkoutBlock, error) {
	id = strings.TrimSpace(id)
	if id == "" || strings.ContainsAny(id, "%_") {
		return nil, domain.ErrInvalidBlockID
	}

	query := `SELECT ` + blockColumns + ` FROM blocks WHERE id = ? OR id LIKE ? ORDER BY id = ? DESC LIMIT 2`
	rows, err := r.db.QueryContext(ctx, query, id, id+"%", id)
	if err != nil {
		return nil, fmt.Errorf("failed to find block: %w", err)
	}
	defer func() { _ = rows.Close() }()

	blocks, err := scanBlocks(rows)
	if err != nil {
		return nil, err
	}

	switch {
	case len(blocks) == 0:
		return nil, domain.ErrBlockNotFound
	case blocks[0].ID == id || len(blocks) == 1:
		return blocks[0], nil
	default:
		return nil, fmt.Errorf("%w: %q matches more than one block", domain.ErrAmbiguousBlockID, id)
	}
}

// FindAll retrieves all blocks, most recently updated first.
func (r *blockRepository) FindAll(ctx context.Context) ([]*domain.WorkoutBlock, error) {
	query := `SELECT ` + blockColumns + ` FROM blocks ORDER BY updated_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query blocks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanBlocks(rows)
}

// FindByTitle does a fuzzy search for blocks by title.
func (r *blockRepository) FindByTitle(ctx context.Context, query string) ([]*domain.WorkoutBlock, error) {
	blocks, err := r.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get blocks for fuzzy search: %w", err)
	}

	titles := make([]string, len(blocks))
	for i, block := range blocks {
		titles[i] = block.Title
	}

	var result []*domain.WorkoutBlock
	for _, match := range fuzzy.Find(query, titles) {
		if match.Score > 0 {
			result = append(result, blocks[match.Index])
		}
	}

	return result, nil
}

// Update modifies an existing block.
func (r *blockRepository) Update(ctx context.Context, block *domain.WorkoutBlock) error {
	query := `
		UPDATE blocks
		SET title = ?, mode = ?, work_time = ?, rest_time = ?, rounds = ?, prepare_time = ?,
			exercises = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`

	s := block.Settings
	result, err := r.db.ExecContext(ctx, query,
		block.Title,
		string(s.Mode),
		s.WorkTime,
		s.RestTime,
		s.Rounds,
		s.PrepareTime,
		strings.Join(block.Exercises, "\n"),
		block.Notes,
		block.UpdatedAt,
		block.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update block: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrBlockNotFound
	}

	return nil
}

// Delete removes a block from storage. Runs of the block keep their title.
func (r *blockRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM blocks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete block: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrBlockNotFound
	}

	return nil
}

func scanBlocks(rows *sql.Rows) ([]*domain.WorkoutBlock, error) {
	var blocks []*domain.WorkoutBlock

	for rows.Next() {
		block, err := scanBlock(rows)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}

	return blocks, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBlock(row rowScanner) (*domain.WorkoutBlock, error) {
	var block domain.WorkoutBlock
	var exercises, notes sql.NullString

	err := row.Scan(
		&block.ID,
		&block.Title,
		&block.Settings.Mode,
		&block.Settings.WorkTime,
		&block.Settings.RestTime,
		&block.Settings.Rounds,
		&block.Settings.PrepareTime,
		&exercises,
		&notes,
		&block.CreatedAt,
		&block.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBlockNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan block: %w", err)
	}

	block.Notes = notes.String
	// Initialize exercises as empty slice to avoid null in JSON
	block.Exercises = []string{}
	if exercises.String != "" {
		block.Exercises = strings.Split(exercises.String, "\n")
	}

	return &block, nil
}
