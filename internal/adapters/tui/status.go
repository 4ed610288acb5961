package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/xvierd/wod-cli/internal/domain"
	"github.com/xvierd/wod-cli/internal/modes"
	"github.com/xvierd/wod-cli/internal/timer"
)

// StatusLine renders one plain-text line for a timer state, as printed by
// the headless runner.
func StatusLine(s domain.TimerState) string {
	mode := modes.ForTimerMode(s.Mode)

	var phase string
	switch s.Status {
	case domain.TimerRunning:
		phase = mode.WorkLabel()
	case domain.TimerPreparing:
		phase = "GET READY"
	case domain.TimerResting:
		phase = "REST"
	case domain.TimerFinished:
		phase = "DONE"
	default:
		phase = strings.ToUpper(s.Status.Label())
	}

	line := fmt.Sprintf("[%-9s] %s", phase, domain.FormatSeconds(s.CurrentTime))
	if s.Status == domain.TimerFinished {
		line = fmt.Sprintf("[%-9s] %d/%d intervals", phase, s.CompletedWorkIntervals, s.TotalWorkIntervals)
	} else if s.TotalWorkIntervals > 1 {
		line += fmt.Sprintf("  round %d/%d", s.CurrentRound, s.TotalWorkIntervals)
	}
	return line + fmt.Sprintf("  %s/%s", domain.FormatSeconds(s.TotalTimeElapsed), domain.FormatSeconds(s.TotalBlockDuration))
}

// ShowBlock prints a block with its timer settings and phase plan.
func ShowBlock(w io.Writer, b *domain.WorkoutBlock) {
	fmt.Fprintf(w, "%s  %s\n", b.ShortID(), b.Title)
	fmt.Fprintf(w, "   Timer: %s\n", b.Settings.Summary())
	if b.Settings.HasTimer() {
		fmt.Fprintf(w, "   Total: %s (prepare %ds)\n", domain.FormatSeconds(b.Settings.TotalDuration()), b.Settings.PrepareTime)
	}
	if len(b.Exercises) > 0 {
		fmt.Fprintln(w, "   Exercises:")
		for _, e := range b.Exercises {
			fmt.Fprintf(w, "     - %s\n", e)
		}
	}
	if b.Notes != "" {
		fmt.Fprintf(w, "   Notes: %s\n", b.Notes)
	}

	segments := timer.Schedule(b.Settings)
	if len(segments) == 0 {
		return
	}
	fmt.Fprintln(w, "   Plan:")
	for _, seg := range segments {
		label := seg.Phase.Label()
		if seg.Round > 0 {
			label = fmt.Sprintf("%s %d", label, seg.Round)
		}
		fmt.Fprintf(w, "     %s  %-10s %s\n", domain.FormatSeconds(seg.StartsAt), label, domain.FormatSeconds(seg.Duration))
	}
}
