package tui

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xvierd/wod-cli/internal/config"
	"github.com/xvierd/wod-cli/internal/domain"
	"github.com/xvierd/wod-cli/internal/timer"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

var t0 = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func at(secs float64) tickMsg {
	return tickMsg(t0.Add(time.Duration(secs * float64(time.Second))))
}

func send(m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

// finishRecorder collects the states passed to OnFinish.
type finishRecorder struct {
	states []domain.TimerState
}

func (r *finishRecorder) record(s domain.TimerState, _ time.Time) {
	r.states = append(r.states, s)
}

// 3s work, 1s rest, two rounds, no prepare: 7s in total.
func shortIntervalModel(t *testing.T, opts Options) (Model, *finishRecorder) {
	t.Helper()
	e, err := timer.NewEngineWithSettings(domain.TimerSettings{
		Mode:     domain.ModeInterval,
		WorkTime: 3,
		RestTime: 1,
		Rounds:   2,
	})
	if err != nil {
		t.Fatalf("NewEngineWithSettings() error = %v", err)
	}
	rec := &finishRecorder{}
	opts.OnFinish = rec.record
	return NewModel(e, opts), rec
}

type memPrefs struct {
	values map[string]string
}

func (p *memPrefs) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := p.values[key]
	return v, ok, nil
}

func (p *memPrefs) Set(_ context.Context, key, value string) error {
	p.values[key] = value
	return nil
}

// ---------------------------------------------------------------------------
// Timer screen
// ---------------------------------------------------------------------------

func TestModel_FirstTickAnchors(t *testing.T) {
	m, _ := shortIntervalModel(t, Options{})

	m, _ = send(m, at(0), key("s"), at(1))
	if got := m.engine.CurrentTime(); got != 2 {
		t.Errorf("CurrentTime() = %d, want 2", got)
	}
	if m.engine.Status() != domain.TimerRunning {
		t.Errorf("Status() = %v, want running", m.engine.Status())
	}
}

func TestModel_TicksBeforeStartAreIgnored(t *testing.T) {
	m, _ := shortIntervalModel(t, Options{})

	m, _ = send(m, at(0), at(30), key("s"), at(30.5))
	if got := m.engine.Remaining(); got != 2500*time.Millisecond {
		t.Errorf("Remaining() = %v, want 2.5s", got)
	}
}

func TestModel_PauseAndResume(t *testing.T) {
	m, _ := shortIntervalModel(t, Options{})

	m, _ = send(m, at(0), key("s"), at(1), key(" "))
	if m.engine.Status() != domain.TimerPaused {
		t.Fatalf("Status() = %v, want paused", m.engine.Status())
	}

	m, _ = send(m, at(20))
	if got := m.engine.CurrentTime(); got != 2 {
		t.Errorf("paused engine moved: CurrentTime() = %d, want 2", got)
	}

	m, _ = send(m, key("p"), at(21))
	if m.engine.Status() != domain.TimerRunning || m.engine.CurrentTime() != 1 {
		t.Errorf("after resume: %v %d, want running 1", m.engine.Status(), m.engine.CurrentTime())
	}
}

func TestModel_FinishReportsOnce(t *testing.T) {
	m, rec := shortIntervalModel(t, Options{})

	m, _ = send(m, at(0), key("s"), at(7))
	if m.engine.Status() != domain.TimerFinished {
		t.Fatalf("Status() = %v, want finished", m.engine.Status())
	}
	if len(rec.states) != 1 {
		t.Fatalf("OnFinish called %d times, want 1", len(rec.states))
	}
	if rec.states[0].CompletedWorkIntervals != 2 || rec.states[0].TotalTimeElapsed != 7 {
		t.Errorf("reported state = %+v", rec.states[0])
	}

	m, cmd := send(m, at(8), at(9), key("q"))
	if !isQuit(cmd) {
		t.Error("q should quit")
	}
	if len(rec.states) != 1 {
		t.Errorf("OnFinish called %d times after quitting, want 1", len(rec.states))
	}
}

func TestModel_QuitMidRunReportsAbandonedRun(t *testing.T) {
	m, rec := shortIntervalModel(t, Options{})

	_, cmd := send(m, at(0), key("s"), at(2), key("q"))
	if !isQuit(cmd) {
		t.Error("q should quit")
	}
	if len(rec.states) != 1 {
		t.Fatalf("OnFinish called %d times, want 1", len(rec.states))
	}
	if rec.states[0].Status != domain.TimerRunning {
		t.Errorf("reported status = %v, want running", rec.states[0].Status)
	}
}

func TestModel_QuitBeforeStartReportsNothing(t *testing.T) {
	m, rec := shortIntervalModel(t, Options{})

	send(m, at(0), key("ctrl+c"))
	if len(rec.states) != 0 {
		t.Errorf("OnFinish called %d times for a run that never started", len(rec.states))
	}
}

func TestModel_StopNeedsConfirmation(t *testing.T) {
	m, rec := shortIntervalModel(t, Options{})

	m, _ = send(m, at(0), key("s"), at(1), key("f"))
	if !m.confirmStop {
		t.Fatal("first f should ask for confirmation")
	}
	m, _ = send(m, key("esc"))
	if m.confirmStop || m.engine.Status() != domain.TimerRunning {
		t.Fatal("esc should cancel the stop")
	}

	m, _ = send(m, key("f"), key("f"))
	if m.engine.Status() != domain.TimerFinished {
		t.Fatalf("Status() = %v, want finished", m.engine.Status())
	}
	if len(rec.states) != 1 || rec.states[0].CompletedWorkIntervals != 0 {
		t.Errorf("reported = %+v, want one run with no intervals", rec.states)
	}
}

func TestModel_SkipAndReset(t *testing.T) {
	m, _ := shortIntervalModel(t, Options{})

	m, _ = send(m, at(0), key("s"), key("n"))
	if m.engine.Status() != domain.TimerResting {
		t.Fatalf("skip from work: Status() = %v, want resting", m.engine.Status())
	}
	if m.engine.CompletedWorkIntervals() != 0 {
		t.Error("skip must not credit the interval")
	}

	m, _ = send(m, key("r"))
	if m.engine.Status() != domain.TimerIdle {
		t.Errorf("reset: Status() = %v, want idle", m.engine.Status())
	}
}

func TestModel_ResetMidRunReportsAbandonedRun(t *testing.T) {
	m, rec := shortIntervalModel(t, Options{})

	m, _ = send(m, at(0), key("s"), at(2), key("r"))
	if m.engine.Status() != domain.TimerIdle {
		t.Fatalf("Status() = %v, want idle", m.engine.Status())
	}
	if len(rec.states) != 1 {
		t.Fatalf("OnFinish called %d times, want 1", len(rec.states))
	}
	if rec.states[0].Status != domain.TimerRunning || rec.states[0].TotalTimeElapsed != 2 {
		t.Errorf("reported state = %+v, want running after 2s", rec.states[0])
	}

	// A reset after the run ended, and quitting while idle, report nothing more.
	m, _ = send(m, key("r"), key("q"))
	if len(rec.states) != 1 {
		t.Errorf("OnFinish called %d times, want 1", len(rec.states))
	}

	m, _ = send(m, at(3), key("s"), at(10), key("r"))
	if len(rec.states) != 2 || rec.states[1].Status != domain.TimerFinished {
		t.Errorf("second run: reported = %+v, want one finished run", rec.states[1:])
	}
}

func TestModel_StartAgainAfterFinish(t *testing.T) {
	m, rec := shortIntervalModel(t, Options{})

	m, _ = send(m, at(0), key("s"), at(7), key("s"), at(14))
	if len(rec.states) != 2 {
		t.Fatalf("OnFinish called %d times, want 2", len(rec.states))
	}
	if m.engine.Status() != domain.TimerFinished {
		t.Errorf("Status() = %v, want finished", m.engine.Status())
	}
}

func TestModel_AutoClose(t *testing.T) {
	m, _ := shortIntervalModel(t, Options{AutoClose: 2 * time.Second})

	m, cmd := send(m, at(0), key("s"), at(7))
	if !m.autoClosing {
		t.Fatal("auto close should start when the run finishes")
	}
	if isQuitMsgCmd(cmd) {
		t.Fatal("should not quit on the finishing tick")
	}

	m, cmd = send(m, at(8))
	if isQuitMsgCmd(cmd) {
		t.Fatal("quit too early")
	}
	_, cmd = send(m, at(9))
	if !isQuit(cmd) {
		t.Error("should quit once the auto close delay has passed")
	}
}

func TestModel_KeyCancelsAutoClose(t *testing.T) {
	m, _ := shortIntervalModel(t, Options{AutoClose: time.Second})

	m, _ = send(m, at(0), key("s"), at(7), key("x"))
	if m.autoClosing {
		t.Fatal("a key press should cancel auto close")
	}
	m, _ = send(m, at(20))
	if m.autoClosing {
		t.Error("auto close restarted without a new run")
	}
}

// isQuitMsgCmd reports a quit without invoking tick commands, which block.
func isQuitMsgCmd(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		_, ok := msg.(tea.QuitMsg)
		return ok
	case <-time.After(50 * time.Millisecond):
		return false
	}
}

func TestModel_SoundToggle(t *testing.T) {
	prefs := &memPrefs{values: map[string]string{}}
	var toggled []bool
	m, _ := shortIntervalModel(t, Options{
		Sound:         true,
		Prefs:         prefs,
		OnSoundToggle: func(on bool) { toggled = append(toggled, on) },
	})

	m, cmd := send(m, key("tab"))
	if m.sound {
		t.Error("tab should turn sound off")
	}
	if len(toggled) != 1 || toggled[0] {
		t.Errorf("OnSoundToggle calls = %v, want [false]", toggled)
	}
	if cmd == nil {
		t.Fatal("tab should return a command persisting the preference")
	}
	msg := cmd()
	if saved, ok := msg.(prefSavedMsg); !ok || saved.err != nil {
		t.Fatalf("cmd() = %#v", msg)
	}
	if prefs.values["sound"] != "off" {
		t.Errorf("stored sound = %q, want off", prefs.values["sound"])
	}

	m, _ = send(m, msg)
	if !strings.Contains(m.helpText(m.engine.Snapshot()), "tab:sound off") {
		t.Error("help line should show the sound state")
	}
}

func TestModel_AutoStart(t *testing.T) {
	m, _ := shortIntervalModel(t, Options{AutoStart: true})
	if cmd := m.Init(); cmd == nil {
		t.Error("Init() should schedule a tick")
	}
	if m.engine.Status() != domain.TimerRunning {
		t.Errorf("Status() = %v, want running", m.engine.Status())
	}
}

func TestModel_View(t *testing.T) {
	m, _ := shortIntervalModel(t, Options{Title: "Burpees"})

	if got := m.View(); got != "Loading..." {
		t.Errorf("View() before a size = %q", got)
	}

	m, _ = send(m, tea.WindowSizeMsg{Width: 100, Height: 30}, at(0))
	idle := m.View()
	if !strings.Contains(idle, "READY") || !strings.Contains(idle, "Burpees") {
		t.Errorf("idle view missing title or phase:\n%s", idle)
	}

	m, _ = send(m, key("s"), at(1))
	view := m.View()
	for _, want := range []string{"WORK", "Round 1/2", "00:01 / 00:07", "[space] pause"} {
		if !strings.Contains(view, want) {
			t.Errorf("running view missing %q:\n%s", want, view)
		}
	}

	m, _ = send(m, key(" "))
	if view := m.View(); !strings.Contains(view, "PAUSED") || !strings.Contains(view, "[space] resume") {
		t.Errorf("paused view:\n%s", view)
	}

	m, _ = send(m, key("p"), at(7))
	if view := m.View(); !strings.Contains(view, "Intervals done!") || !strings.Contains(view, "2/2 intervals") {
		t.Errorf("finished view:\n%s", view)
	}
}

func TestModel_ViewInline(t *testing.T) {
	m, _ := shortIntervalModel(t, Options{Title: "Burpees", Inline: true})
	m.width = 90

	m, _ = send(m, at(0), key("s"), at(1))
	view := m.View()
	if strings.Count(view, "\n") != 2 {
		t.Errorf("inline view should be two lines:\n%s", view)
	}
	if !strings.Contains(view, "round 1/2") {
		t.Errorf("inline view missing round:\n%s", view)
	}
}

func TestModel_ViewNoTimer(t *testing.T) {
	block, _ := domain.NewWorkoutBlock("Mobility", domain.TimerSettings{Mode: domain.ModeNoTimer})
	m := NewModel(timer.NewEngine(block), Options{})

	m, _ = send(m, key("s"))
	if !strings.Contains(m.View(), "no timer") {
		t.Errorf("View() = %q", m.View())
	}
}

// ---------------------------------------------------------------------------
// Rendering helpers
// ---------------------------------------------------------------------------

func TestRenderBigTime(t *testing.T) {
	narrow := renderBigTime("04:30", "#FFFFFF", 30)
	if strings.Contains(narrow, "\n") {
		t.Error("narrow terminals should get a single line")
	}

	wide := renderBigTime("04:30", "#FFFFFF", 100)
	if lines := strings.Split(wide, "\n"); len(lines) != glyphHeight {
		t.Errorf("got %d lines, want %d", len(lines), glyphHeight)
	}

	hour := renderBigTime("1:00:00", "#FFFFFF", 100)
	if strings.Count(hour, "\n") != glyphHeight-1 {
		t.Error("hour clocks should render in block digits on a wide terminal")
	}
}

func TestResolveTheme(t *testing.T) {
	custom := &config.ThemeConfig{ColorWork: "#000000"}
	got := resolveTheme(custom)

	if got.ColorWork != "#000000" {
		t.Errorf("ColorWork = %q, custom value lost", got.ColorWork)
	}
	if got.ColorRest != config.DefaultThemeConfig().ColorRest {
		t.Errorf("ColorRest = %q, want default", got.ColorRest)
	}
	if resolveTheme(nil) != config.DefaultThemeConfig() {
		t.Error("nil theme should resolve to the default")
	}
}

func TestStatusLine(t *testing.T) {
	tests := []struct {
		state domain.TimerState
		want  string
	}{
		{
			domain.TimerState{Mode: domain.ModeEMOM, Status: domain.TimerRunning, CurrentTime: 42, CurrentRound: 3, TotalWorkIntervals: 10, TotalTimeElapsed: 138, TotalBlockDuration: 610},
			"[MINUTE   ] 00:42  round 3/10  02:18/10:10",
		},
		{
			domain.TimerState{Mode: domain.ModeAMRAP, Status: domain.TimerPreparing, CurrentTime: 5, TotalWorkIntervals: 1, TotalBlockDuration: 610},
			"[GET READY] 00:05  00:00/10:10",
		},
		{
			domain.TimerState{Mode: domain.ModeTabata, Status: domain.TimerFinished, CompletedWorkIntervals: 8, TotalWorkIntervals: 8, TotalTimeElapsed: 240, TotalBlockDuration: 240},
			"[DONE     ] 8/8 intervals  04:00/04:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := StatusLine(tt.state); got != tt.want {
				t.Errorf("StatusLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShowBlock(t *testing.T) {
	block, _ := domain.NewWorkoutBlock("Tabata", domain.TimerSettings{Mode: domain.ModeTabata, PrepareTime: 10})
	block.AddExercise("Air squats")

	var buf bytes.Buffer
	ShowBlock(&buf, block)
	out := buf.String()

	for _, want := range []string{"Tabata 8 × 20s/10s", "Total: 04:00", "- Air squats", "Plan:", "Work 8"} {
		if !strings.Contains(out, want) {
			t.Errorf("ShowBlock() missing %q:\n%s", want, out)
		}
	}
}

// ---------------------------------------------------------------------------
// Picker and editor
// ---------------------------------------------------------------------------

func testItems() []PickerItem {
	return []PickerItem{
		{Label: "Warm-up", Desc: "Stopwatch"},
		{Label: "EMOM 10", Desc: "EMOM 10 min"},
		{Label: "Tabata legs", Desc: "Tabata 8 × 20s/10s"},
	}
}

func sendPicker(m pickerModel, msgs ...tea.Msg) pickerModel {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(pickerModel)
	}
	return m
}

func TestPicker_Navigate(t *testing.T) {
	m := newPickerModel("Pick a block", testItems(), "", config.DefaultThemeConfig())

	m = sendPicker(m, key("down"), key("down"), key("down"), key("enter"))
	if !m.chosen || m.selected() != 2 {
		t.Errorf("selected() = %d, chosen = %v; want 2, true", m.selected(), m.chosen)
	}
}

func TestPicker_Filter(t *testing.T) {
	m := newPickerModel("Pick a block", testItems(), "", config.DefaultThemeConfig())

	m = sendPicker(m, key("t"), key("a"), key("b"))
	if len(m.visible) != 1 || m.selected() != 2 {
		t.Fatalf("visible = %v, want only Tabata legs", m.visible)
	}

	m = sendPicker(m, key("backspace"), key("backspace"), key("backspace"))
	if len(m.visible) != 3 {
		t.Errorf("clearing the query should show every item, got %v", m.visible)
	}

	m = sendPicker(m, key("z"), key("z"), key("z"), key("enter"))
	if m.chosen {
		t.Error("enter with no matches should not choose")
	}
	if !strings.Contains(m.View(), "no matches") {
		t.Error("view should say there are no matches")
	}
}

func TestPicker_Abort(t *testing.T) {
	m := newPickerModel("Pick a block", testItems(), "", config.DefaultThemeConfig())
	m = sendPicker(m, key("esc"))
	if !m.aborted {
		t.Error("esc should abort")
	}
}

func TestBlockItems(t *testing.T) {
	block, _ := domain.NewWorkoutBlock("EMOM 10", domain.TimerSettings{Mode: domain.ModeEMOM, Rounds: 10})
	items := BlockItems([]*domain.WorkoutBlock{block})
	if len(items) != 1 || items[0].Label != "EMOM 10" || items[0].Desc != "EMOM 10 min" {
		t.Errorf("BlockItems() = %+v", items)
	}
}

func fakeParse(title string) (domain.TimerSettings, []string) {
	if strings.HasPrefix(strings.ToLower(title), "emom") {
		return domain.TimerSettings{Mode: domain.ModeEMOM, WorkTime: 60, Rounds: 10}, []string{"mode", "rounds"}
	}
	return domain.DefaultTimerSettings(), nil
}

func sendEditor(m editorModel, msgs ...tea.Msg) editorModel {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(editorModel)
	}
	return m
}

func TestEditor_LivePreview(t *testing.T) {
	m := newEditorModel("", fakeParse, config.DefaultThemeConfig())
	if len(m.fields) != 0 {
		t.Fatalf("empty title recognised %v", m.fields)
	}
	if !strings.Contains(m.View(), "(defaults)") {
		t.Error("an empty title should preview the defaults")
	}

	m = sendEditor(m, key("E"), key("M"), key("O"), key("M"))
	if m.preview.Mode != domain.ModeEMOM {
		t.Errorf("preview mode = %v, want emom", m.preview.Mode)
	}
	if !strings.Contains(m.View(), "from title: mode, rounds") {
		t.Errorf("view should list recognised fields:\n%s", m.View())
	}
}

func TestEditor_Save(t *testing.T) {
	m := newEditorModel("EMOM 10", fakeParse, config.DefaultThemeConfig())

	m = sendEditor(m, key("tab"), key("Clean, Jerk ,, "), key("enter"))
	got := m.result()
	if got.Aborted {
		t.Fatal("result should not be aborted")
	}
	if got.Title != "EMOM 10" || got.Settings.Mode != domain.ModeEMOM {
		t.Errorf("result = %+v", got)
	}
	if len(got.Exercises) != 2 || got.Exercises[0] != "Clean" || got.Exercises[1] != "Jerk" {
		t.Errorf("exercises = %q", got.Exercises)
	}
}

func TestEditor_RequiresTitle(t *testing.T) {
	m := newEditorModel("  ", fakeParse, config.DefaultThemeConfig())

	m = sendEditor(m, key("enter"))
	if m.done || m.err == "" {
		t.Error("enter without a title should show an error and stay open")
	}

	m = sendEditor(m, key("esc"))
	if !m.result().Aborted {
		t.Error("esc should abort")
	}
}
