// Package ports defines the interfaces (driven and driving ports)
// for the wod application following hexagonal architecture principles.
// These interfaces define the contracts between the domain layer and
// external infrastructure.
package ports

import (
	"context"
	"time"

	"github.com/xvierd/wod-cli/internal/domain"
)

// BlockRepository defines the interface for workout block persistence.
// This is a driven port (implemented by adapters).
type BlockRepository interface {
	// Save persists a new block to storage.
	Save(ctx context.Context, block *domain.WorkoutBlock) error

	// FindByID retrieves a block by its full ID or an unambiguous ID prefix.
	FindByID(ctx context.Context, id string) (*domain.WorkoutBlock, error)

	// FindAll retrieves all blocks, most recently updated first.
	FindAll(ctx context.Context) ([]*domain.WorkoutBlock, error)

	// FindByTitle fuzzy-matches block titles, best match first.
	FindByTitle(ctx context.Context, query string) ([]*domain.WorkoutBlock, error)

	// Update modifies an existing block.
	Update(ctx context.Context, block *domain.WorkoutBlock) error

	// Delete removes a block from storage.
	Delete(ctx context.Context, id string) error
}

// RunRepository defines the interface for workout run log persistence.
// This is a driven port (implemented by adapters).
type RunRepository interface {
	// Save persists a run to storage.
	Save(ctx context.Context, run *domain.WorkoutRun) error

	// FindByID retrieves a run by its unique identifier.
	FindByID(ctx context.Context, id string) (*domain.WorkoutRun, error)

	// FindRecent retrieves runs started since the given time, newest first.
	// A limit of zero or less returns every match.
	FindRecent(ctx context.Context, since time.Time, limit int) ([]*domain.WorkoutRun, error)

	// FindByBlock retrieves all runs of a block, newest first.
	FindByBlock(ctx context.Context, blockID string) ([]*domain.WorkoutRun, error)

	// GetDailyStats returns aggregated statistics for a specific date.
	GetDailyStats(ctx context.Context, date time.Time) (*domain.WorkoutStats, error)
}

// Preference keys.
const (
	PrefSound     = "sound"
	PrefLastBlock = "last_block"
)

// PreferenceRepository stores small user preferences such as the sound
// toggle. This is a driven port (implemented by adapters).
type PreferenceRepository interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores a value, replacing any previous one.
	Set(ctx context.Context, key, value string) error
}

// Storage is the combined repository interface.
// This is a driven port (implemented by adapters).
type Storage interface {
	// Blocks provides access to workout block operations.
	Blocks() BlockRepository

	// Runs provides access to run log operations.
	Runs() RunRepository

	// Preferences provides access to stored preferences.
	Preferences() PreferenceRepository

	// Close closes the storage connection.
	Close() error

	// Migrate runs database migrations.
	Migrate() error
}
