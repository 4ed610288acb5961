// Package services implements the application layer (use cases)
// following hexagonal architecture principles.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/xvierd/wod-cli/internal/domain"
	"github.com/xvierd/wod-cli/internal/ports"
	"github.com/xvierd/wod-cli/internal/titleparse"
)

// BlockService handles workout block use cases.
type BlockService struct {
	storage  ports.Storage
	defaults domain.TimerSettings
}

// NewBlockService creates a new block service. defaults are the settings a
// new block starts from before its title is parsed.
func NewBlockService(storage ports.Storage, defaults domain.TimerSettings) *BlockService {
	return &BlockService{storage: storage, defaults: defaults}
}

// AddBlockRequest contains the data needed to create a new block.
type AddBlockRequest struct {
	// ID is kept when set, so re-importing an exported library is idempotent.
	ID    string
	Title string
	// Settings, when set, are used as-is instead of parsing the title.
	Settings  *domain.TimerSettings
	Exercises []string
	Notes     string
}

// AddBlock creates a new block. Without explicit settings the title is
// parsed and whatever it names is merged into the defaults.
func (s *BlockService) AddBlock(ctx context.Context, req AddBlockRequest) (*domain.WorkoutBlock, error) {
	settings := mergeTitle(titleparse.Parse(req.Title), s.defaults)
	if req.Settings != nil {
		settings = *req.Settings
	}

	block, err := domain.NewWorkoutBlock(req.Title, settings)
	if err != nil {
		return nil, fmt.Errorf("invalid block: %w", err)
	}

	if req.ID != "" {
		block.ID = req.ID
	}
	block.Notes = req.Notes
	for _, exercise := range req.Exercises {
		block.AddExercise(exercise)
	}

	if err := s.storage.Blocks().Save(ctx, block); err != nil {
		return nil, fmt.Errorf("failed to save block: %w", err)
	}

	return block, nil
}

// ImportBlocks adds every block whose ID is not already stored and returns
// the added blocks and how many were skipped.
func (s *BlockService) ImportBlocks(ctx context.Context, reqs []AddBlockRequest) ([]*domain.WorkoutBlock, int, error) {
	var added []*domain.WorkoutBlock
	skipped := 0
	for _, req := range reqs {
		if req.ID != "" {
			existing, err := s.storage.Blocks().FindByID(ctx, req.ID)
			switch {
			case err == nil && existing.ID == req.ID:
				skipped++
				continue
			case err != nil && !errors.Is(err, domain.ErrBlockNotFound) &&
				!errors.Is(err, domain.ErrInvalidBlockID) && !errors.Is(err, domain.ErrAmbiguousBlockID):
				return added, skipped, fmt.Errorf("failed to check block %q: %w", req.Title, err)
			}
		}
		block, err := s.AddBlock(ctx, req)
		if err != nil {
			return added, skipped, fmt.Errorf("failed to import %q: %w", req.Title, err)
		}
		added = append(added, block)
	}
	return added, skipped, nil
}

// ListBlocks retrieves all blocks.
func (s *BlockService) ListBlocks(ctx context.Context) ([]*domain.WorkoutBlock, error) {
	return s.storage.Blocks().FindAll(ctx)
}

// GetBlock retrieves a single block by ID or ID prefix.
func (s *BlockService) GetBlock(ctx context.Context, id string) (*domain.WorkoutBlock, error) {
	return s.storage.Blocks().FindByID(ctx, id)
}

// FindBlocks fuzzy-searches block titles.
func (s *BlockService) FindBlocks(ctx context.Context, query string) ([]*domain.WorkoutBlock, error) {
	return s.storage.Blocks().FindByTitle(ctx, query)
}

// ResolveBlock finds a block by ID first and falls back to the best title match.
func (s *BlockService) ResolveBlock(ctx context.Context, ref string) (*domain.WorkoutBlock, error) {
	block, err := s.storage.Blocks().FindByID(ctx, ref)
	if err == nil {
		return block, nil
	}
	if !errors.Is(err, domain.ErrBlockNotFound) && !errors.Is(err, domain.ErrInvalidBlockID) {
		return nil, err
	}

	matches, err := s.storage.Blocks().FindByTitle(ctx, ref)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, domain.ErrBlockNotFound
	}
	return matches[0], nil
}

// RenameBlock changes a block's title and re-parses it. Only the settings
// the new title names are changed; a title with no hints keeps them all.
func (s *BlockService) RenameBlock(ctx context.Context, id, title string) (*domain.WorkoutBlock, error) {
	block, err := s.storage.Blocks().FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find block: %w", err)
	}

	if err := block.Rename(title); err != nil {
		return nil, err
	}
	if parsed := titleparse.Parse(title); parsed != nil {
		if err := block.ApplySettings(mergeTitle(parsed, block.Settings)); err != nil {
			return nil, err
		}
	}

	if err := s.storage.Blocks().Update(ctx, block); err != nil {
		return nil, fmt.Errorf("failed to update block: %w", err)
	}
	return block, nil
}

// UpdateSettings replaces a block's timer settings after validating them.
func (s *BlockService) UpdateSettings(ctx context.Context, id string, settings domain.TimerSettings) (*domain.WorkoutBlock, error) {
	block, err := s.storage.Blocks().FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find block: %w", err)
	}

	if err := block.ApplySettings(settings); err != nil {
		return nil, err
	}

	if err := s.storage.Blocks().Update(ctx, block); err != nil {
		return nil, fmt.Errorf("failed to update block: %w", err)
	}
	return block, nil
}

// AddExercises appends exercise lines to a block.
func (s *BlockService) AddExercises(ctx context.Context, id string, exercises ...string) (*domain.WorkoutBlock, error) {
	block, err := s.storage.Blocks().FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find block: %w", err)
	}

	for _, exercise := range exercises {
		block.AddExercise(exercise)
	}

	if err := s.storage.Blocks().Update(ctx, block); err != nil {
		return nil, fmt.Errorf("failed to update block: %w", err)
	}
	return block, nil
}

// DeleteBlock removes a block. Its runs stay in the log.
func (s *BlockService) DeleteBlock(ctx context.Context, id string) error {
	block, err := s.storage.Blocks().FindByID(ctx, id)
	if err != nil {
		return err
	}
	return s.storage.Blocks().Delete(ctx, block.ID)
}

// ParseTitle previews what a title would set, starting from the defaults.
func (s *BlockService) ParseTitle(title string) (*titleparse.ParsedTitle, domain.TimerSettings) {
	parsed := titleparse.Parse(title)
	return parsed, mergeTitle(parsed, s.defaults)
}

// mergeTitle merges a parsed title into base. A work time that belongs to
// another mode is not a time cap, so a title that switches to AMRAP or Time
// Cap without naming minutes starts from DefaultCapTime.
func mergeTitle(parsed *titleparse.ParsedTitle, base domain.TimerSettings) domain.TimerSettings {
	if parsed != nil && parsed.Mode != nil && parsed.Mode.IsCapped() && parsed.WorkTime == nil && !base.Mode.IsCapped() {
		base.WorkTime = domain.DefaultCapTime
	}
	return parsed.Merge(base)
}

// Defaults returns the settings new blocks start from.
func (s *BlockService) Defaults() domain.TimerSettings {
	return s.defaults
}
