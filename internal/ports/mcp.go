package ports

import (
	"context"
	"time"

	"github.com/xvierd/wod-cli/internal/domain"
)

// MCPHandler defines the interface for MCP server operations.
// This is a driving port (called by the application layer).
type MCPHandler interface {
	// Start begins serving MCP requests.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the server.
	Stop() error

	// IsRunning returns true if the server is active.
	IsRunning() bool
}

// MCPStateProvider provides the block library and run log to the MCP server.
// This is a driven port (implemented by services layer).
type MCPStateProvider interface {
	// ListBlocks returns all workout blocks.
	ListBlocks(ctx context.Context) ([]*domain.WorkoutBlock, error)

	// GetBlock returns a block by ID, ID prefix or title search.
	GetBlock(ctx context.Context, ref string) (*domain.WorkoutBlock, error)

	// CreateBlock adds a block. Nil settings are inferred from the title.
	CreateBlock(ctx context.Context, title string, settings *domain.TimerSettings) (*domain.WorkoutBlock, error)

	// ParseTitle returns the settings a title would produce and the
	// names of the fields recognised in it.
	ParseTitle(ctx context.Context, title string) (domain.TimerSettings, []string, error)

	// GetRecentRuns returns the most recent runs, newest first.
	GetRecentRuns(ctx context.Context, limit int) ([]*domain.WorkoutRun, error)

	// GetDailyStats returns run statistics for a day.
	GetDailyStats(ctx context.Context, date time.Time) (*domain.WorkoutStats, error)
}
