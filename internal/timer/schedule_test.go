package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xvierd/wod-cli/internal/domain"
)

func TestSchedule(t *testing.T) {
	tests := []struct {
		name     string
		settings domain.TimerSettings
		phases   []domain.TimerStatus
	}{
		{
			name:     "interval with prepare",
			settings: domain.TimerSettings{Mode: domain.ModeInterval, WorkTime: 30, RestTime: 15, Rounds: 3, PrepareTime: 10},
			phases: []domain.TimerStatus{
				domain.TimerPreparing,
				domain.TimerRunning, domain.TimerResting,
				domain.TimerRunning, domain.TimerResting,
				domain.TimerRunning,
			},
		},
		{
			name:     "emom never rests",
			settings: domain.TimerSettings{Mode: domain.ModeEMOM, Rounds: 3, RestTime: 30},
			phases:   []domain.TimerStatus{domain.TimerRunning, domain.TimerRunning, domain.TimerRunning},
		},
		{
			name:     "amrap",
			settings: domain.TimerSettings{Mode: domain.ModeAMRAP, WorkTime: 720, PrepareTime: 10},
			phases:   []domain.TimerStatus{domain.TimerPreparing, domain.TimerRunning},
		},
		{
			name:     "no timer",
			settings: domain.TimerSettings{Mode: domain.ModeNoTimer},
		},
		{
			name:     "invalid",
			settings: domain.TimerSettings{Mode: domain.ModeInterval},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments := Schedule(tt.settings)

			var phases []domain.TimerStatus
			sum := 0
			for _, seg := range segments {
				assert.Equal(t, sum, seg.StartsAt)
				phases = append(phases, seg.Phase)
				sum += seg.Duration
			}
			assert.Equal(t, tt.phases, phases)
			if len(segments) > 0 {
				assert.Equal(t, tt.settings.Normalize().TotalDuration(), sum)
			}
		})
	}
}

func TestSchedule_Rounds(t *testing.T) {
	segments := Schedule(domain.TimerSettings{Mode: domain.ModeTabata})

	assert.Len(t, segments, 15)
	assert.Equal(t, 1, segments[0].Round)
	assert.Equal(t, 8, segments[len(segments)-1].Round)
	assert.Equal(t, 20, segments[len(segments)-1].Duration)
}
