package titleparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvierd/wod-cli/internal/domain"
)

func modePtr(m domain.TimerMode) *domain.TimerMode { return &m }

func TestParse(t *testing.T) {
	tests := []struct {
		title string
		want  *ParsedTitle
	}{
		{"EMOM 10", &ParsedTitle{Mode: modePtr(domain.ModeEMOM), Rounds: intPtr(10)}},
		{"emom 12 min", &ParsedTitle{Mode: modePtr(domain.ModeEMOM), Rounds: intPtr(12)}},
		{"10 min EMOM", &ParsedTitle{Mode: modePtr(domain.ModeEMOM), Rounds: intPtr(10)}},
		{"AMRAP 12 min", &ParsedTitle{Mode: modePtr(domain.ModeAMRAP), WorkTime: intPtr(720)}},
		{"AMRAP 15", &ParsedTitle{Mode: modePtr(domain.ModeAMRAP), WorkTime: intPtr(900)}},
		{"Time Cap 15", &ParsedTitle{Mode: modePtr(domain.ModeTimeCap), WorkTime: intPtr(900)}},
		{"time-cap 20 minuter", &ParsedTitle{Mode: modePtr(domain.ModeTimeCap), WorkTime: intPtr(1200)}},
		{"5 varv", &ParsedTitle{Rounds: intPtr(5)}},
		{"3 omgångar styrka", &ParsedTitle{Rounds: intPtr(3)}},
		{"4 rounds for time", &ParsedTitle{Rounds: intPtr(4)}},
		{"40/20", &ParsedTitle{Mode: modePtr(domain.ModeInterval), WorkTime: intPtr(40), RestTime: intPtr(20)}},
		{"3s/2s sprint", &ParsedTitle{Mode: modePtr(domain.ModeInterval), WorkTime: intPtr(3), RestTime: intPtr(2)}},
		{"20/10 styrka", &ParsedTitle{Mode: modePtr(domain.ModeInterval), WorkTime: intPtr(20), RestTime: intPtr(10)}},
		{"5/5 set", &ParsedTitle{Mode: modePtr(domain.ModeInterval), WorkTime: intPtr(5), RestTime: intPtr(5)}},
		{"Intervaller 6 x 30s/15s", &ParsedTitle{
			Mode: modePtr(domain.ModeInterval), Rounds: intPtr(6), WorkTime: intPtr(30), RestTime: intPtr(15),
		}},
		{"Intervall 8", &ParsedTitle{Mode: modePtr(domain.ModeInterval), Rounds: intPtr(8)}},
		{"Stoppur", &ParsedTitle{Mode: modePtr(domain.ModeStopwatch)}},
		{"Tabata", &ParsedTitle{
			Mode: modePtr(domain.ModeTabata), Rounds: intPtr(8), WorkTime: intPtr(20), RestTime: intPtr(10),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.title))
		})
	}
}

func TestParse_NoMatch(t *testing.T) {
	titles := []string{
		"Benpass måndag",
		"",
		"   ",
		"Pass 2",
		"Min favorit",
		"Uppvärmning 🔥",
		"500 varv",
		"1/2 pass",
		"3/4 styrka",
	}

	for _, title := range titles {
		assert.Nil(t, Parse(title), "title %q", title)
	}
}

func TestParse_NullMergeLeavesSettings(t *testing.T) {
	base := domain.TimerSettings{Mode: domain.ModeInterval, WorkTime: 45, RestTime: 15, Rounds: 4, PrepareTime: 10}

	p := Parse("Benpass måndag")
	require.Nil(t, p)
	assert.Equal(t, base, p.Merge(base))
	assert.Empty(t, p.Fields())
}

func TestParse_OutOfRangeNumbersDropped(t *testing.T) {
	assert.Equal(t, &ParsedTitle{Mode: modePtr(domain.ModeEMOM)}, Parse("EMOM 0"))
	assert.Equal(t, &ParsedTitle{Mode: modePtr(domain.ModeAMRAP)}, Parse("AMRAP 999"))
	assert.Equal(t, &ParsedTitle{Mode: modePtr(domain.ModeEMOM)}, Parse("EMOM 250"))
}

func TestParse_TabataIgnoresNumbers(t *testing.T) {
	for _, title := range []string{"Tabata 4 rounds", "Tabata 45/15", "12 min tabata"} {
		got := Parse(title).Merge(domain.DefaultTimerSettings())

		assert.Equal(t, domain.ModeTabata, got.Mode, title)
		assert.Equal(t, 20, got.WorkTime, title)
		assert.Equal(t, 10, got.RestTime, title)
		assert.Equal(t, 8, got.Rounds, title)
	}
}

func TestParse_FirstKeywordWins(t *testing.T) {
	tests := []struct {
		title string
		mode  domain.TimerMode
		check func(t *testing.T, p *ParsedTitle)
	}{
		{"EMOM 10 / AMRAP 20", domain.ModeEMOM, func(t *testing.T, p *ParsedTitle) {
			assert.Equal(t, 10, *p.Rounds)
			assert.Nil(t, p.WorkTime)
		}},
		{"AMRAP 20 then EMOM 10", domain.ModeAMRAP, func(t *testing.T, p *ParsedTitle) {
			assert.Equal(t, 1200, *p.WorkTime)
			assert.Nil(t, p.Rounds)
		}},
		{"Tabata + EMOM 6", domain.ModeTabata, func(t *testing.T, p *ParsedTitle) {
			assert.Equal(t, 8, *p.Rounds)
		}},
		{"EMOM 8 rounds 12", domain.ModeEMOM, func(t *testing.T, p *ParsedTitle) {
			assert.Equal(t, 8, *p.Rounds)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			p := Parse(tt.title)
			require.NotNil(t, p)
			assert.Equal(t, tt.mode, *p.Mode)
			tt.check(t, p)
		})
	}
}

func TestParsedTitle_Merge(t *testing.T) {
	base := domain.TimerSettings{Mode: domain.ModeInterval, WorkTime: 45, RestTime: 15, Rounds: 4, PrepareTime: 10}

	t.Run("rounds only keeps mode and times", func(t *testing.T) {
		got := Parse("5 varv").Merge(base)
		assert.Equal(t, domain.TimerSettings{Mode: domain.ModeInterval, WorkTime: 45, RestTime: 15, Rounds: 5, PrepareTime: 10}, got)
	})

	t.Run("emom normalizes work and rest", func(t *testing.T) {
		got := Parse("EMOM 10").Merge(base)
		assert.Equal(t, domain.TimerSettings{Mode: domain.ModeEMOM, WorkTime: 60, RestTime: 0, Rounds: 10, PrepareTime: 10}, got)
		assert.Equal(t, 610, got.TotalDuration())
	})

	t.Run("amrap sets a single round", func(t *testing.T) {
		got := Parse("AMRAP 12 min").Merge(base)
		assert.Equal(t, domain.TimerSettings{Mode: domain.ModeAMRAP, WorkTime: 720, RestTime: 0, Rounds: 1, PrepareTime: 10}, got)
	})
}

func TestParsedTitle_Fields(t *testing.T) {
	assert.Equal(t, []string{"mode", "rounds"}, Parse("EMOM 10").Fields())
	assert.Equal(t, []string{"mode", "rounds", "work_time", "rest_time"}, Parse("Intervaller 6 x 40/20").Fields())
}

func FuzzParse(f *testing.F) {
	for _, seed := range []string{"EMOM 10", "5 varv", "40/20", "Time Cap 15", "99999999999999999999 rounds"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, title string) {
		p := Parse(title)
		if p == nil {
			return
		}
		if p.Rounds != nil && (*p.Rounds < 1 || *p.Rounds > MaxRounds) {
			t.Fatalf("rounds out of range: %d", *p.Rounds)
		}
		if p.WorkTime != nil && (*p.WorkTime < 1 || *p.WorkTime > MaxMinutes*60) {
			t.Fatalf("work time out of range: %d", *p.WorkTime)
		}
	})
}
