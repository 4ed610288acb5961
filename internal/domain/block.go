// Package domain contains the core entities of wod: timer settings and
// state, workout blocks and the runs logged against them. Nothing here
// depends on storage, terminal or network code.
package domain

import (
	"errors"
	"strings"
	"time"
)

// Common domain errors.
var (
	ErrInvalidBlockID   = errors.New("invalid block ID")
	ErrAmbiguousBlockID = errors.New("ambiguous block ID")
	ErrEmptyBlockTitle  = errors.New("block title cannot be empty")
	ErrBlockNotFound    = errors.New("block not found")
	ErrRunNotFound      = errors.New("run not found")
	ErrInvalidSettings  = errors.New("invalid timer settings")
	ErrTimerBusy        = errors.New("timer is running; reset it first")
	ErrNoTimer          = errors.New("block has no timer")
)

// WorkoutBlock is one entry of a workout: a title, its timer settings and
// the exercises performed during it.
type WorkoutBlock struct {
	ID        string
	Title     string
	Settings  TimerSettings
	Exercises []string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewWorkoutBlock creates a block with the given title and settings.
// Settings are normalized; invalid settings are rejected.
func NewWorkoutBlock(title string, settings TimerSettings) (*WorkoutBlock, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyBlockTitle
	}

	settings = settings.Normalize()
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	return &WorkoutBlock{
		ID:        newID(),
		Title:     title,
		Settings:  settings,
		Exercises: []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Rename changes the title. Settings are left to the caller.
func (b *WorkoutBlock) Rename(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyBlockTitle
	}
	b.Title = title
	b.UpdatedAt = time.Now()
	return nil
}

// ApplySettings replaces the timer settings after normalizing and validating them.
func (b *WorkoutBlock) ApplySettings(settings TimerSettings) error {
	settings = settings.Normalize()
	if err := settings.Validate(); err != nil {
		return err
	}
	b.Settings = settings
	b.UpdatedAt = time.Now()
	return nil
}

// AddExercise appends an exercise line, skipping blanks and duplicates.
func (b *WorkoutBlock) AddExercise(exercise string) {
	exercise = strings.TrimSpace(exercise)
	if exercise == "" {
		return
	}
	for _, existing := range b.Exercises {
		if strings.EqualFold(existing, exercise) {
			return
		}
	}
	b.Exercises = append(b.Exercises, exercise)
	b.UpdatedAt = time.Now()
}

// ShortID returns the first eight characters of the ID for display.
func (b *WorkoutBlock) ShortID() string {
	if len(b.ID) > 8 {
		return b.ID[:8]
	}
	return b.ID
}
