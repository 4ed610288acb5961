// Package library reads and writes portable copies of the block library
// (YAML) and the run log (CSV).
package library

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xvierd/wod-cli/internal/domain"
	"gopkg.in/yaml.v3"
)

// FormatVersion is written to every exported library file.
const FormatVersion = 1

// ErrUnsupportedVersion is returned for files written by a newer release.
var ErrUnsupportedVersion = errors.New("unsupported library version")

type yamlLibrary struct {
	Version    int         `yaml:"version"`
	ExportedAt time.Time   `yaml:"exported_at"`
	Blocks     []yamlBlock `yaml:"blocks"`
}

type yamlBlock struct {
	ID        string    `yaml:"id,omitempty"`
	Title     string    `yaml:"title"`
	Mode      string    `yaml:"mode,omitempty"`
	WorkTime  *int      `yaml:"work_time,omitempty"`
	RestTime  *int      `yaml:"rest_time,omitempty"`
	Rounds    *int      `yaml:"rounds,omitempty"`
	Prepare   *int      `yaml:"prepare_time,omitempty"`
	Exercises []string  `yaml:"exercises,omitempty"`
	Notes     string    `yaml:"notes,omitempty"`
	CreatedAt time.Time `yaml:"created_at,omitempty"`
}

// ImportedBlock is one entry read from a library file. Settings is nil when
// the entry names no timer fields, leaving them to the title.
type ImportedBlock struct {
	ID        string
	Title     string
	Settings  *domain.TimerSettings
	Exercises []string
	Notes     string
}

// WriteYAML writes blocks as a versioned YAML library.
func WriteYAML(w io.Writer, blocks []*domain.WorkoutBlock) error {
	lib := yamlLibrary{
		Version:    FormatVersion,
		ExportedAt: time.Now().UTC().Truncate(time.Second),
		Blocks:     make([]yamlBlock, 0, len(blocks)),
	}
	for _, b := range blocks {
		s := b.Settings
		lib.Blocks = append(lib.Blocks, yamlBlock{
			ID:        b.ID,
			Title:     b.Title,
			Mode:      string(s.Mode),
			WorkTime:  intPtr(s.WorkTime),
			RestTime:  intPtr(s.RestTime),
			Rounds:    intPtr(s.Rounds),
			Prepare:   intPtr(s.PrepareTime),
			Exercises: b.Exercises,
			Notes:     b.Notes,
			CreatedAt: b.CreatedAt.UTC().Truncate(time.Second),
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(lib); err != nil {
		return fmt.Errorf("marshal library yaml: %w", err)
	}
	return enc.Close()
}

// ReadYAML parses a library file. Entries that carry timer fields get
// settings built on defaults; missing fields fall back to defaults too.
func ReadYAML(r io.Reader, defaults domain.TimerSettings) ([]ImportedBlock, error) {
	var lib yamlLibrary
	if err := yaml.NewDecoder(r).Decode(&lib); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse library yaml: %w", err)
	}
	if lib.Version > FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, lib.Version)
	}

	out := make([]ImportedBlock, 0, len(lib.Blocks))
	for i, yb := range lib.Blocks {
		title := strings.TrimSpace(yb.Title)
		if title == "" {
			return nil, fmt.Errorf("block %d: %w", i+1, domain.ErrEmptyBlockTitle)
		}
		ib := ImportedBlock{
			ID:        yb.ID,
			Title:     title,
			Exercises: yb.Exercises,
			Notes:     yb.Notes,
		}
		if yb.hasSettings() {
			s, err := yb.settings(defaults)
			if err != nil {
				return nil, fmt.Errorf("block %d (%s): %w", i+1, title, err)
			}
			ib.Settings = &s
		}
		out = append(out, ib)
	}
	return out, nil
}

func (yb yamlBlock) hasSettings() bool {
	return yb.Mode != "" || yb.WorkTime != nil || yb.RestTime != nil || yb.Rounds != nil || yb.Prepare != nil
}

func (yb yamlBlock) settings(defaults domain.TimerSettings) (domain.TimerSettings, error) {
	s := defaults
	if yb.Mode != "" {
		mode, err := domain.ValidateTimerMode(yb.Mode)
		if err != nil {
			return s, err
		}
		s.Mode = mode
	}
	if yb.WorkTime != nil {
		s.WorkTime = *yb.WorkTime
	}
	if yb.RestTime != nil {
		s.RestTime = *yb.RestTime
	}
	if yb.Rounds != nil {
		s.Rounds = *yb.Rounds
	}
	if yb.Prepare != nil {
		s.PrepareTime = *yb.Prepare
	}
	s = s.Normalize()
	return s, s.Validate()
}

func intPtr(v int) *int {
	return &v
}

var runHeader = []string{
	"date", "started_at", "block", "mode", "status",
	"completed_intervals", "total_intervals", "elapsed_seconds", "planned_seconds",
}

// WriteRunsCSV writes the run log as CSV with a header row.
func WriteRunsCSV(w io.Writer, runs []*domain.WorkoutRun) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(runHeader); err != nil {
		return err
	}
	for _, r := range runs {
		record := []string{
			r.StartedAt.Format("2006-01-02"),
			r.StartedAt.Format("15:04:05"),
			r.BlockTitle,
			string(r.Mode),
			string(r.Status),
			strconv.Itoa(r.CompletedIntervals),
			strconv.Itoa(r.TotalIntervals),
			strconv.Itoa(r.ElapsedSeconds),
			strconv.Itoa(r.PlannedSeconds),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
