package domain

import (
	"errors"
	"testing"
)

func TestValidateTimerMode(t *testing.T) {
	tests := []struct {
		input   string
		want    TimerMode
		wantErr bool
	}{
		{"interval", ModeInterval, false},
		{" Tabata ", ModeTabata, false},
		{"AMRAP", ModeAMRAP, false},
		{"time-cap", ModeTimeCap, false},
		{"time_cap", ModeTimeCap, false},
		{"stopwatch", ModeStopwatch, false},
		{"notimer", ModeNoTimer, false},
		{"crossfit", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ValidateTimerMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateTimerMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ValidateTimerMode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTimerSettings_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   TimerSettings
		want TimerSettings
	}{
		{
			name: "tabata is fixed",
			in:   TimerSettings{Mode: ModeTabata, WorkTime: 45, RestTime: 15, Rounds: 3, PrepareTime: 5},
			want: TimerSettings{Mode: ModeTabata, WorkTime: 20, RestTime: 10, Rounds: 8, PrepareTime: 5},
		},
		{
			name: "emom minutes",
			in:   TimerSettings{Mode: ModeEMOM, WorkTime: 30, RestTime: 10, Rounds: 12},
			want: TimerSettings{Mode: ModeEMOM, WorkTime: 60, Rounds: 12},
		},
		{
			name: "amrap single interval",
			in:   TimerSettings{Mode: ModeAMRAP, WorkTime: 720, RestTime: 15, Rounds: 3},
			want: TimerSettings{Mode: ModeAMRAP, WorkTime: 720, Rounds: 1},
		},
		{
			name: "stopwatch ceiling",
			in:   TimerSettings{Mode: ModeStopwatch},
			want: TimerSettings{Mode: ModeStopwatch, WorkTime: DefaultStopwatchCeiling, Rounds: 1},
		},
		{
			name: "interval untouched",
			in:   TimerSettings{Mode: ModeInterval, WorkTime: 40, RestTime: 20, Rounds: 6},
			want: TimerSettings{Mode: ModeInterval, WorkTime: 40, RestTime: 20, Rounds: 6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalize(); got != tt.want {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTimerSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		s       TimerSettings
		wantErr bool
	}{
		{"interval", TimerSettings{Mode: ModeInterval, WorkTime: 30, Rounds: 3}, false},
		{"interval without work", TimerSettings{Mode: ModeInterval, Rounds: 3}, true},
		{"interval without rounds", TimerSettings{Mode: ModeInterval, WorkTime: 30}, true},
		{"emom without rounds", TimerSettings{Mode: ModeEMOM, WorkTime: 60}, true},
		{"amrap without cap", TimerSettings{Mode: ModeAMRAP, Rounds: 1}, true},
		{"timecap", TimerSettings{Mode: ModeTimeCap, WorkTime: 900, Rounds: 1}, false},
		{"negative prepare", TimerSettings{Mode: ModeTabata, WorkTime: 20, RestTime: 10, Rounds: 8, PrepareTime: -1}, true},
		{"no timer", TimerSettings{Mode: ModeNoTimer}, false},
		{"unknown mode", TimerSettings{Mode: "yoga", WorkTime: 30, Rounds: 1}, true},
		{"day-long amrap", TimerSettings{Mode: ModeAMRAP, WorkTime: MaxPhaseTime, Rounds: 1}, false},
		{"amrap past a day", TimerSettings{Mode: ModeAMRAP, WorkTime: MaxPhaseTime + 1, Rounds: 1}, true},
		{"huge work time", TimerSettings{Mode: ModeAMRAP, WorkTime: MaxPhaseTime * 1000, Rounds: 1}, true},
		{"huge rest", TimerSettings{Mode: ModeInterval, WorkTime: 30, RestTime: MaxPhaseTime + 1, Rounds: 2}, true},
		{"huge prepare", TimerSettings{Mode: ModeTabata, WorkTime: 20, RestTime: 10, Rounds: 8, PrepareTime: MaxPhaseTime + 1}, true},
		{"too many rounds", TimerSettings{Mode: ModeEMOM, WorkTime: 60, Rounds: MaxRounds + 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidSettings) {
				t.Errorf("Validate() error = %v, want ErrInvalidSettings", err)
			}
		})
	}
}

func TestTimerSettings_TotalDuration(t *testing.T) {
	tests := []struct {
		name      string
		s         TimerSettings
		intervals int
		want      int
	}{
		{"tabata", TimerSettings{Mode: ModeTabata, WorkTime: 20, RestTime: 10, Rounds: 8, PrepareTime: 10}, 8, 240},
		{"emom", TimerSettings{Mode: ModeEMOM, WorkTime: 60, Rounds: 10}, 10, 600},
		{"no trailing rest", TimerSettings{Mode: ModeInterval, WorkTime: 40, RestTime: 20, Rounds: 3}, 3, 160},
		{"amrap", TimerSettings{Mode: ModeAMRAP, WorkTime: 720, Rounds: 1, PrepareTime: 10}, 1, 730},
		{"no timer", TimerSettings{Mode: ModeNoTimer, PrepareTime: 10}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.TotalWorkIntervals(); got != tt.intervals {
				t.Errorf("TotalWorkIntervals() = %d, want %d", got, tt.intervals)
			}
			if got := tt.s.TotalDuration(); got != tt.want {
				t.Errorf("TotalDuration() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTimerSettings_Summary(t *testing.T) {
	tests := []struct {
		s    TimerSettings
		want string
	}{
		{TimerSettings{Mode: ModeInterval, WorkTime: 40, RestTime: 20, Rounds: 6}, "6 × 00:40 / 00:20"},
		{TimerSettings{Mode: ModeInterval, WorkTime: 90, Rounds: 5}, "5 × 01:30"},
		{TimerSettings{Mode: ModeTabata, WorkTime: 20, RestTime: 10, Rounds: 8}, "Tabata 8 × 20s/10s"},
		{TimerSettings{Mode: ModeEMOM, WorkTime: 60, Rounds: 10}, "EMOM 10 min"},
		{TimerSettings{Mode: ModeAMRAP, WorkTime: 720, Rounds: 1}, "AMRAP 12:00"},
		{TimerSettings{Mode: ModeTimeCap, WorkTime: 900, Rounds: 1}, "Time Cap 15:00"},
		{TimerSettings{Mode: ModeStopwatch}, "Stopwatch"},
		{TimerSettings{Mode: ModeNoTimer}, "No timer"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.s.Summary(); got != tt.want {
				t.Errorf("Summary() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{-5, "00:00"},
		{0, "00:00"},
		{59, "00:59"},
		{610, "10:10"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatSeconds(tt.secs); got != tt.want {
				t.Errorf("FormatSeconds(%d) = %q, want %q", tt.secs, got, tt.want)
			}
		})
	}
}
