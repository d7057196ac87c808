package state

import (
	"context"
	"errors"
	"testing"

	"github.com/sandeepkv93/nova/internal/model"
	"github.com/sandeepkv93/nova/internal/store"
)

type fakePersister struct {
	events   [][]model.CalendarEvent
	alarms   [][]model.Alarm
	themes   []bool
	notified []map[string]string
	err      error
}

func (f *fakePersister) SaveEvents(_ context.Context, events []model.CalendarEvent) error {
	f.events = append(f.events, events)
	return f.err
}

func (f *fakePersister) SaveAlarms(_ context.Context, alarms []model.Alarm) error {
	f.alarms = append(f.alarms, alarms)
	return f.err
}

func (f *fakePersister) SaveTheme(_ context.Context, dark bool) error {
	f.themes = append(f.themes, dark)
	return f.err
}

func (f *fakePersister) SaveNotified(_ context.Context, notified map[string]string) error {
	f.notified = append(f.notified, notified)
	return f.err
}

func mustEvent(t *testing.T, title, date, clock string) model.CalendarEvent {
	t.Helper()
	ev, err := model.NewCalendarEvent(title, date, clock, "", "")
	if err != nil {
		t.Fatalf("new event: %v", err)
	}
	return ev
}

func mustAlarm(t *testing.T, title, date, clock string) model.Alarm {
	t.Helper()
	a, err := model.NewAlarm(title, date, clock, "")
	if err != nil {
		t.Fatalf("new alarm: %v", err)
	}
	return a
}

func TestAddAndDeleteEventPersists(t *testing.T) {
	p := &fakePersister{}
	s := New(store.Snapshot{}, p)
	ctx := context.Background()

	ev := mustEvent(t, "Dentist", "2026-10-16", "15:30")
	if err := s.AddEvent(ctx, ev); err != nil {
		t.Fatalf("add event: %v", err)
	}
	if len(p.events) != 1 || len(p.events[0]) != 1 {
		t.Fatalf("expected one save with one event, got %+v", p.events)
	}
	if err := s.AddEvent(ctx, ev); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	if err := s.DeleteEvent(ctx, ev.ID); err != nil {
		t.Fatalf("delete event: %v", err)
	}
	if len(p.events) != 2 || len(p.events[1]) != 0 {
		t.Fatalf("expected second save with no events, got %+v", p.events)
	}
	if err := s.DeleteEvent(ctx, ev.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddEventRejectsInvalid(t *testing.T) {
	s := New(store.Snapshot{}, &fakePersister{})
	err := s.AddEvent(context.Background(), model.CalendarEvent{ID: "x", Title: "t", Date: "tomorrow", Time: "10:00"})
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestEventsAreSortedCopies(t *testing.T) {
	late := mustEvent(t, "Late", "2026-10-17", "09:00")
	early := mustEvent(t, "Early", "2026-10-16", "09:00")
	s := New(store.Snapshot{Events: []model.CalendarEvent{late, early}}, &fakePersister{})

	got := s.Events()
	if got[0].ID != early.ID || got[1].ID != late.ID {
		t.Fatalf("unexpected order: %+v", got)
	}
	got[0].Title = "mutated"
	if ev, _ := s.Event(early.ID); ev.Title != "Early" {
		t.Fatal("expected Events to return a copy")
	}
}

func TestToggleAndDisableAlarm(t *testing.T) {
	p := &fakePersister{}
	a := mustAlarm(t, "Wake", "2026-10-16", "07:00")
	s := New(store.Snapshot{Alarms: []model.Alarm{a}}, p)
	ctx := context.Background()

	got, err := s.ToggleAlarm(ctx, a.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got.IsEnabled {
		t.Fatal("expected alarm disabled after toggle")
	}
	got, err = s.ToggleAlarm(ctx, a.ID)
	if err != nil || !got.IsEnabled {
		t.Fatalf("expected alarm re-enabled, got %+v err=%v", got, err)
	}

	if err := s.DisableAlarm(ctx, a.ID); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if err := s.DisableAlarm(ctx, a.ID); err != nil {
		t.Fatalf("second disable: %v", err)
	}
	if len(p.alarms) != 3 {
		t.Fatalf("expected disable of a disabled alarm to skip save, got %d saves", len(p.alarms))
	}
	if alarm, _ := s.Alarm(a.ID); alarm.IsEnabled {
		t.Fatal("expected alarm disabled")
	}
	if _, err := s.ToggleAlarm(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.DisableAlarm(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddDeleteAlarm(t *testing.T) {
	p := &fakePersister{}
	s := New(store.Snapshot{}, p)
	ctx := context.Background()
	a := mustAlarm(t, "Tea", "2026-10-16", "17:00")
	if err := s.AddAlarm(ctx, a); err != nil {
		t.Fatalf("add alarm: %v", err)
	}
	if err := s.AddAlarm(ctx, a); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if err := s.DeleteAlarm(ctx, a.ID); err != nil {
		t.Fatalf("delete alarm: %v", err)
	}
	if len(s.Alarms()) != 0 {
		t.Fatal("expected no alarms")
	}
	if err := s.DeleteAlarm(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestThemePersists(t *testing.T) {
	p := &fakePersister{}
	s := New(store.Snapshot{Dark: true}, p)
	ctx := context.Background()

	dark, err := s.ToggleTheme(ctx)
	if err != nil || dark {
		t.Fatalf("expected light after toggle, got dark=%v err=%v", dark, err)
	}
	if err := s.SetDark(ctx, true); err != nil {
		t.Fatalf("set dark: %v", err)
	}
	if !s.Dark() {
		t.Fatal("expected dark")
	}
	if len(p.themes) != 2 || p.themes[0] || !p.themes[1] {
		t.Fatalf("unexpected theme saves %v", p.themes)
	}
}

func TestNotifiedLedger(t *testing.T) {
	p := &fakePersister{}
	ev := mustEvent(t, "Standup", "2026-10-16", "09:30")
	s := New(store.Snapshot{
		Events:   []model.CalendarEvent{ev},
		Notified: map[string]string{"gone": "2026-10-01 10:00"},
	}, p)
	ctx := context.Background()

	key := ev.Date + " " + ev.Time
	if s.WasNotified(ev.ID, key) {
		t.Fatal("expected not yet notified")
	}
	if err := s.MarkNotified(ctx, ev.ID, key); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if !s.WasNotified(ev.ID, key) {
		t.Fatal("expected notified")
	}
	if s.WasNotified(ev.ID, "2026-10-17 09:30") {
		t.Fatal("expected a rescheduled occurrence to be fresh")
	}
	saved := p.notified[len(p.notified)-1]
	if _, ok := saved["gone"]; ok {
		t.Fatalf("expected stale ledger entry pruned, got %v", saved)
	}

	if err := s.DeleteEvent(ctx, ev.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(p.notified[len(p.notified)-1]) != 0 {
		t.Fatalf("expected ledger cleared on delete, got %v", p.notified[len(p.notified)-1])
	}
}

func TestImportEventsSkipsDuplicates(t *testing.T) {
	p := &fakePersister{}
	existing := mustEvent(t, "Existing", "2026-10-16", "09:00")
	s := New(store.Snapshot{Events: []model.CalendarEvent{existing}}, p)
	fresh := mustEvent(t, "Fresh", "2026-10-16", "11:00")

	added, err := s.ImportEvents(context.Background(), []model.CalendarEvent{existing, fresh, fresh})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if added != 1 || len(s.Events()) != 2 {
		t.Fatalf("expected one added, got %d (total %d)", added, len(s.Events()))
	}
	if len(p.events) != 1 {
		t.Fatalf("expected a single save, got %d", len(p.events))
	}
}

func TestPersistErrorIsWrappedButMutationKept(t *testing.T) {
	p := &fakePersister{err: errors.New("readonly")}
	s := New(store.Snapshot{}, p)
	a := mustAlarm(t, "Wake", "2026-10-16", "07:00")
	err := s.AddAlarm(context.Background(), a)
	if !errors.Is(err, p.err) {
		t.Fatalf("expected wrapped persist error, got %v", err)
	}
	if len(s.Alarms()) != 1 {
		t.Fatal("expected in-memory alarm kept")
	}
}
