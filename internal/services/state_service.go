package services

import (
	"context"
	"time"

	"github.com/xvierd/wod-cli/internal/domain"
	"github.com/xvierd/wod-cli/internal/ports"
)

// StateService implements the MCPStateProvider interface.
type StateService struct {
	blocks   *BlockService
	workouts *WorkoutService
}

// NewStateService creates a new state service.
func NewStateService(blocks *BlockService, workouts *WorkoutService) *StateService {
	return &StateService{blocks: blocks, workouts: workouts}
}

// ListBlocks implements ports.MCPStateProvider.
func (s *StateService) ListBlocks(ctx context.Context) ([]*domain.WorkoutBlock, error) {
	return s.blocks.ListBlocks(ctx)
}

// GetBlock implements ports.MCPStateProvider.
func (s *StateService) GetBlock(ctx context.Context, ref string) (*domain.WorkoutBlock, error) {
	return s.blocks.ResolveBlock(ctx, ref)
}

// CreateBlock implements ports.MCPStateProvider.
func (s *StateService) CreateBlock(ctx context.Context, title string, settings *domain.TimerSettings) (*domain.WorkoutBlock, error) {
	return s.blocks.AddBlock(ctx, AddBlockRequest{Title: title, Settings: settings})
}

// ParseTitle implements ports.MCPStateProvider.
func (s *StateService) ParseTitle(_ context.Context, title string) (domain.TimerSettings, []string, error) {
	parsed, settings := s.blocks.ParseTitle(title)
	return settings, parsed.Fields(), nil
}

// GetRecentRuns implements ports.MCPStateProvider.
func (s *StateService) GetRecentRuns(ctx context.Context, limit int) ([]*domain.WorkoutRun, error) {
	return s.workouts.History(ctx, time.Time{}, limit)
}

// GetDailyStats implements ports.MCPStateProvider.
func (s *StateService) GetDailyStats(ctx context.Context, date time.Time) (*domain.WorkoutStats, error) {
	return s.workouts.DailyStats(ctx, date)
}

// Ensure StateService implements MCPStateProvider.
var _ ports.MCPStateProvider = (*StateService)(nil)
