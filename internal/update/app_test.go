package update

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/nova/internal/clock"
	"github.com/sandeepkv93/nova/internal/model"
	"github.com/sandeepkv93/nova/internal/scheduler"
	"github.com/sandeepkv93/nova/internal/state"
	"github.com/sandeepkv93/nova/internal/store"
)

var testNow = time.Date(2026, 3, 14, 15, 0, 0, 0, time.Local)

type fakeSilencer struct {
	playing string
	stops   int
}

func (f *fakeSilencer) Stop()           { f.stops++; f.playing = "" }
func (f *fakeSilencer) Playing() string { return f.playing }

func openTestStore(t *testing.T, dir string) *store.Store {
	t.Helper()
	st, err := store.Open("sqlite", filepath.Join(dir, "nova.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func newTestModel(t *testing.T) (Model, *store.Store, string) {
	t.Helper()
	dir := t.TempDir()
	st := openTestStore(t, dir)
	s := state.New(st.Load(context.Background()), st)
	m := NewModel(Deps{State: s, Clock: clock.NewManual(testNow), Player: &fakeSilencer{}})
	return m, st, dir
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func runPalette(t *testing.T, m Model, command string) Model {
	t.Helper()
	m = press(t, m, "/")
	if !m.Palette.Active {
		t.Fatal("expected palette to be active")
	}
	m = press(t, m, command, "enter")
	if m.Palette.Active {
		t.Fatal("expected palette to close after enter")
	}
	return m
}

func TestNewModelDefaults(t *testing.T) {
	m := NewModel(Deps{})
	if m.CurrentView != ViewUpcoming {
		t.Fatalf("expected default view %q, got %q", ViewUpcoming, m.CurrentView)
	}
	if m.Keys.Quit != "q" {
		t.Fatalf("expected quit key q, got %q", m.Keys.Quit)
	}
	if m.Init() != nil {
		t.Fatal("expected no subscription without a fired channel")
	}
}

func TestUpdateKeySwitchesView(t *testing.T) {
	m := NewModel(Deps{})
	m = press(t, m, "2")
	if m.CurrentView != ViewAlarms {
		t.Fatalf("expected alarms view, got %q", m.CurrentView)
	}
	m = press(t, m, "3")
	if m.CurrentView != ViewLog {
		t.Fatalf("expected log view, got %q", m.CurrentView)
	}
	m = press(t, m, "1")
	if m.CurrentView != ViewUpcoming {
		t.Fatalf("expected upcoming view, got %q", m.CurrentView)
	}
}

func TestUpdateSwitchViewMsg(t *testing.T) {
	m := NewModel(Deps{})
	updated, _ := m.Update(SwitchViewMsg{View: ViewLog})
	next := updated.(Model)
	if next.CurrentView != ViewLog {
		t.Fatalf("expected log view, got %q", next.CurrentView)
	}

	updated, _ = next.Update(SwitchViewMsg{View: View("Unknown")})
	next = updated.(Model)
	if next.CurrentView != ViewLog {
		t.Fatalf("expected view unchanged for unknown view, got %q", next.CurrentView)
	}
}

func TestUpdateStatusAndError(t *testing.T) {
	m := NewModel(Deps{})
	updated, _ := m.Update(SetStatusMsg{Text: "ready", IsError: false})
	next := updated.(Model)
	if next.Status.Text != "ready" || next.Status.IsError {
		t.Fatalf("unexpected status: %+v", next.Status)
	}

	updated, _ = next.Update(AppErrorMsg{Err: errors.New("boom")})
	next = updated.(Model)
	if next.LastError == nil || next.LastError.Error() != "boom" {
		t.Fatalf("expected last error boom, got: %v", next.LastError)
	}
	if !next.Status.IsError || next.Status.Text != "boom" {
		t.Fatalf("unexpected error status: %+v", next.Status)
	}

	updated, _ = next.Update(ClearStatusMsg{})
	next = updated.(Model)
	if next.Status.Text != "" || next.Status.IsError {
		t.Fatalf("expected cleared status, got: %+v", next.Status)
	}
}

func TestQuitKey(t *testing.T) {
	m := NewModel(Deps{})
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if !updated.(Model).Quitting || cmd == nil {
		t.Fatal("expected quit")
	}
}

func TestPaletteAddsEventAndPersists(t *testing.T) {
	m, st, dir := newTestModel(t)
	m = runPalette(t, m, "event 2026-03-20 09:30 dentist color:rose")
	if m.Status.IsError {
		t.Fatalf("unexpected error: %s", m.Status.Text)
	}
	if len(m.Events) != 1 || m.Events[0].Title != "dentist" || m.Events[0].Color != model.ColorRose {
		t.Fatalf("unexpected events: %+v", m.Events)
	}
	if m.CurrentView != ViewUpcoming {
		t.Fatalf("expected upcoming view, got %q", m.CurrentView)
	}

	_ = st.Close()
	reopened := openTestStore(t, dir)
	snap := reopened.Load(context.Background())
	if len(snap.Events) != 1 || snap.Events[0].Time != "09:30" {
		t.Fatalf("event not persisted: %+v", snap.Events)
	}
}

func TestPaletteRejectsBadInput(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = runPalette(t, m, "event 2026-13-01 09:30 nope")
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "invalid_argument") {
		t.Fatalf("expected invalid argument error, got %+v", m.Status)
	}
	if len(m.Events) != 0 {
		t.Fatalf("expected no events, got %d", len(m.Events))
	}

	m = runPalette(t, m, "rm does-not-exist")
	if !m.Status.IsError {
		t.Fatalf("expected error for unknown id, got %+v", m.Status)
	}
}

func TestPaletteEscCloses(t *testing.T) {
	m := NewModel(Deps{})
	m = press(t, m, "/", "event", "esc")
	if m.Palette.Active || m.Palette.Input != "" {
		t.Fatalf("expected closed empty palette, got %+v", m.Palette)
	}
}

func TestUpcomingHidesPastDays(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = runPalette(t, m, "event 2026-03-13 09:00 yesterday")
	m = runPalette(t, m, "event 2026-03-14 08:00 earlier today")
	m = runPalette(t, m, "event 2026-03-15 09:00 tomorrow")
	if len(m.Events) != 2 {
		t.Fatalf("expected 2 upcoming events, got %+v", m.Events)
	}
	if m.Events[0].Title != "earlier today" || m.Events[1].Title != "tomorrow" {
		t.Fatalf("unexpected order: %+v", m.Events)
	}
}

func TestEventsDeleteSelected(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = runPalette(t, m, "event 2026-03-15 09:00 first")
	m = runPalette(t, m, "event 2026-03-16 09:00 second")
	m = press(t, m, "j")
	if m.EventCursor != 1 {
		t.Fatalf("expected cursor 1, got %d", m.EventCursor)
	}
	m = press(t, m, "x")
	if len(m.Events) != 1 || m.Events[0].Title != "first" {
		t.Fatalf("expected only first left, got %+v", m.Events)
	}
	if m.EventCursor != 0 {
		t.Fatalf("expected cursor clamped to 0, got %d", m.EventCursor)
	}
}

func TestAlarmsToggleAndDelete(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = runPalette(t, m, "alarm 2026-03-14 16:00 stretch sound:zen")
	if m.CurrentView != ViewAlarms {
		t.Fatalf("expected alarms view, got %q", m.CurrentView)
	}
	if len(m.Alarms) != 1 || !m.Alarms[0].IsEnabled || m.Alarms[0].Sound != "zen" {
		t.Fatalf("unexpected alarms: %+v", m.Alarms)
	}

	m = press(t, m, " ")
	if m.Alarms[0].IsEnabled {
		t.Fatal("expected alarm disabled after toggle")
	}
	m = press(t, m, " ")
	if !m.Alarms[0].IsEnabled {
		t.Fatal("expected alarm enabled after second toggle")
	}

	m = press(t, m, "x")
	if len(m.Alarms) != 0 {
		t.Fatalf("expected alarm deleted, got %+v", m.Alarms)
	}
}

func TestThemeKeyPersists(t *testing.T) {
	m, st, dir := newTestModel(t)
	if m.Dark {
		t.Fatal("expected light theme by default")
	}
	m = press(t, m, "t")
	if !m.Dark {
		t.Fatal("expected dark theme after toggle")
	}
	_ = st.Close()
	if !openTestStore(t, dir).Load(context.Background()).Dark {
		t.Fatal("expected dark theme persisted")
	}

	m = runPalette(t, m, "theme light")
	if m.Dark {
		t.Fatal("expected light theme after palette command")
	}
}

func TestSilenceStopsPlayer(t *testing.T) {
	player := &fakeSilencer{playing: "digital"}
	m := NewModel(Deps{Player: player})
	m = press(t, m, "s")
	if player.stops != 1 {
		t.Fatalf("expected one stop, got %d", player.stops)
	}
	if !strings.Contains(m.Status.Text, "digital") {
		t.Fatalf("unexpected status: %q", m.Status.Text)
	}
}

func TestFiredMsgAppendsLogAndResubscribes(t *testing.T) {
	ch := make(chan scheduler.Fired, 1)
	m := NewModel(Deps{Fired: ch})
	if m.Init() == nil {
		t.Fatal("expected subscription command")
	}

	fired := scheduler.Fired{
		Match: model.Match{Kind: model.MatchEventUpcoming, ID: "e1", Title: "standup", Date: "2026-03-14", Time: "15:10"},
		At:    testNow,
	}
	updated, cmd := m.Update(FiredMsg{Fired: fired})
	next := updated.(Model)
	if cmd == nil {
		t.Fatal("expected resubscribe command")
	}
	if len(next.Log) != 1 {
		t.Fatalf("expected one log entry, got %d", len(next.Log))
	}
	if next.Log[0].Title != "📅 Upcoming event: standup" || next.Log[0].Body != "Starts in 10 minutes (15:10)" {
		t.Fatalf("unexpected log entry: %+v", next.Log[0])
	}

	ch <- fired
	if msg, ok := cmd().(FiredMsg); !ok || msg.Fired.Match.ID != "e1" {
		t.Fatalf("expected fired msg from channel, got %#v", msg)
	}
	close(ch)
	if msg := waitForFiredCmd(ch)(); msg != nil {
		t.Fatalf("expected nil msg after close, got %#v", msg)
	}
}

func TestLogIsBounded(t *testing.T) {
	m := NewModel(Deps{})
	for i := 0; i < maxLogEntries+5; i++ {
		m.appendLog(LogEntry{Title: "x"})
	}
	if len(m.Log) != maxLogEntries {
		t.Fatalf("expected %d entries, got %d", maxLogEntries, len(m.Log))
	}
}

func TestPromptModalBlocksKeysUntilDismissed(t *testing.T) {
	m := NewModel(Deps{})
	var sent []tea.Msg
	ProgramPrompter{Send: func(msg tea.Msg) { sent = append(sent, msg) }}.Prompt("⏰ Alarm: tea", "It's time: 15:00")
	if len(sent) != 1 {
		t.Fatalf("expected one message, got %d", len(sent))
	}
	updated, _ := m.Update(sent[0])
	m = updated.(Model)
	if len(m.Modals) != 1 {
		t.Fatalf("expected modal, got %d", len(m.Modals))
	}
	if !strings.Contains(m.View(), "⏰ Alarm: tea") {
		t.Fatal("expected modal in view")
	}

	m = press(t, m, "2")
	if m.CurrentView != ViewUpcoming || len(m.Modals) != 1 {
		t.Fatal("expected keys swallowed while modal is up")
	}
	m = press(t, m, "enter")
	if len(m.Modals) != 0 {
		t.Fatal("expected modal dismissed")
	}
}

func TestViewRendersPanels(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = runPalette(t, m, "event 2026-03-15 09:00 dentist")
	if out := m.View(); !strings.Contains(out, "upcoming events:") || !strings.Contains(out, "dentist") {
		t.Fatalf("unexpected upcoming view:\n%s", out)
	}
	m = press(t, m, "2", "?")
	out := m.View()
	if !strings.Contains(out, "alarms:") || !strings.Contains(out, "help:") {
		t.Fatalf("unexpected alarms view:\n%s", out)
	}
}

func TestSyncTickShowsWritesFromAnotherProcess(t *testing.T) {
	m, _, dir := newTestModel(t)
	if m.Init() == nil {
		t.Fatal("expected a sync subscription when backed by a store")
	}

	other := openTestStore(t, dir)
	cli := state.New(other.Load(context.Background()), other)
	alarm, err := model.NewAlarm("from cli", "2026-03-14", "18:00", "")
	if err != nil {
		t.Fatalf("new alarm: %v", err)
	}
	if err := cli.AddAlarm(context.Background(), alarm); err != nil {
		t.Fatalf("cli add: %v", err)
	}
	if len(m.Alarms) != 0 {
		t.Fatalf("expected no alarms before the tick, got %+v", m.Alarms)
	}

	updated, cmd := m.Update(SyncTickMsg{At: testNow})
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("expected the sync tick to be rescheduled")
	}
	if len(m.Alarms) != 1 || m.Alarms[0].ID != alarm.ID {
		t.Fatalf("expected synced alarm, got %+v", m.Alarms)
	}

	m = press(t, m, "2", " ")
	snap, err := other.Reload(context.Background())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(snap.Alarms) != 1 || snap.Alarms[0].IsEnabled {
		t.Fatalf("expected toggle to persist on the synced alarm, got %+v", snap.Alarms)
	}
}

func TestMonthViewNavigatesAndListsEvents(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = runPalette(t, m, "event 2026-03-13 09:00 yesterday")
	m = runPalette(t, m, "event 2026-04-02 10:00 april review")
	m = press(t, m, "4")
	if m.CurrentView != ViewMonth {
		t.Fatalf("expected month view, got %s", m.CurrentView)
	}

	out := m.renderMonthView()
	if !strings.Contains(out, "month: March 2026") || !strings.Contains(out, "2026-03-13 09:00  yesterday") {
		t.Fatalf("expected March with past event:\n%s", out)
	}
	if strings.Contains(out, "april review") {
		t.Fatalf("expected April event outside March:\n%s", out)
	}
	// March 2026 starts on a Sunday, the zero-value first column.
	if !strings.Contains(out, " Su  Mo  Tu  We  Th  Fr  Sa \n  1 ") {
		t.Fatalf("expected the 1st in the first column:\n%s", out)
	}
	if !strings.Contains(out, ">14 ") {
		t.Fatalf("expected today marked:\n%s", out)
	}

	m = press(t, m, "l")
	if out := m.renderMonthView(); !strings.Contains(out, "month: April 2026") || !strings.Contains(out, "april review") {
		t.Fatalf("expected April:\n%s", out)
	}
	m = press(t, m, "h", "h")
	if out := m.renderMonthView(); !strings.Contains(out, "month: February 2026") || !strings.Contains(out, "(no events this month)") {
		t.Fatalf("expected empty February:\n%s", out)
	}
	m = press(t, m, "0")
	if m.MonthOffset != 0 || !strings.Contains(m.View(), "month: March 2026") {
		t.Fatalf("expected back on March, offset %d", m.MonthOffset)
	}
}

func TestMonthViewHonorsWeekStart(t *testing.T) {
	m := NewModel(Deps{Clock: clock.NewManual(testNow), WeekStart: time.Monday})
	out := m.renderMonthView()
	if !strings.Contains(out, " Mo  Tu  We  Th  Fr  Sa  Su \n"+strings.Repeat(" ", 24)+"  1 \n") {
		t.Fatalf("expected the 1st under Sunday:\n%s", out)
	}
	if !strings.Contains(out, "(no events this month)") {
		t.Fatalf("expected no events without state:\n%s", out)
	}
}
