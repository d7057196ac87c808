// Package state owns the in-memory event and alarm collections. Every
// mutation goes through one mutex, starts from the latest persisted copy
// and is persisted before the call returns.
package state

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sandeepkv93/nova/internal/model"
	"github.com/sandeepkv93/nova/internal/store"
)

var (
	ErrNotFound  = errors.New("state: not found")
	ErrDuplicate = errors.New("state: duplicate id")
)

// Persister is the subset of store.Store the container writes through.
type Persister interface {
	SaveEvents(ctx context.Context, events []model.CalendarEvent) error
	SaveAlarms(ctx context.Context, alarms []model.Alarm) error
	SaveTheme(ctx context.Context, dark bool) error
	SaveNotified(ctx context.Context, notified map[string]string) error
}

// Source is implemented by persisters shared with other processes (the CLI,
// the daemon and the TUI all open the same store). Stamp reports ok=false
// when write times are unknown.
type Source interface {
	Stamp(ctx context.Context) (string, bool)
	Reload(ctx context.Context) (store.Snapshot, error)
}

type State struct {
	mu       sync.Mutex
	events   []model.CalendarEvent
	alarms   []model.Alarm
	dark     bool
	notified map[string]string
	persist  Persister
	source   Source
	// stamp is the store stamp the collections were last loaded at. Empty
	// means unknown and forces the next sync to reload.
	stamp    string
}

func New(snap store.Snapshot, persist Persister) *State {
	s := &State{
		events:   append([]model.CalendarEvent(nil), snap.Events...),
		alarms:   append([]model.Alarm(nil), snap.Alarms...),
		dark:     snap.Dark,
		notified: make(map[string]string, len(snap.Notified)),
		persist:  persist,
	}
	for id, key := range snap.Notified {
		s.notified[id] = key
	}
	if src, ok := persist.(Source); ok {
		s.source = src
		if stamp, ok := src.Stamp(context.Background()); ok {
			s.stamp = stamp
		}
	}
	return s
}

// Sync picks up writes made by other processes since the last load. It is
// a no-op for a persister that is not a Source.
func (s *State) Sync(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncLocked(ctx)
}

func (s *State) syncLocked(ctx context.Context) error {
	if s.source == nil {
		return nil
	}
	stamp, ok := s.source.Stamp(ctx)
	if ok && stamp != "" && stamp == s.stamp {
		return nil
	}
	snap, err := s.source.Reload(ctx)
	if err != nil {
		return fmt.Errorf("sync state: %w", err)
	}
	s.events = append([]model.CalendarEvent(nil), snap.Events...)
	s.alarms = append([]model.Alarm(nil), snap.Alarms...)
	s.dark = snap.Dark
	s.notified = make(map[string]string, len(snap.Notified))
	for id, key := range snap.Notified {
		s.notified[id] = key
	}
	if ok {
		s.stamp = stamp
	} else {
		s.stamp = ""
	}
	return nil
}

// Events returns a sorted copy.
func (s *State) Events() []model.CalendarEvent {
	s.mu.Lock()
	out := append([]model.CalendarEvent(nil), s.events...)
	s.mu.Unlock()
	model.SortEvents(out)
	return out
}

// Alarms returns a sorted copy.
func (s *State) Alarms() []model.Alarm {
	s.mu.Lock()
	out := append([]model.Alarm(nil), s.alarms...)
	s.mu.Unlock()
	model.SortAlarms(out)
	return out
}

func (s *State) Dark() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dark
}

func (s *State) Event(id string) (model.CalendarEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.eventIndex(id); i >= 0 {
		return s.events[i], nil
	}
	return model.CalendarEvent{}, fmt.Errorf("event %s: %w", id, ErrNotFound)
}

func (s *State) Alarm(id string) (model.Alarm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.alarmIndex(id); i >= 0 {
		return s.alarms[i], nil
	}
	return model.Alarm{}, fmt.Errorf("alarm %s: %w", id, ErrNotFound)
}

func (s *State) AddEvent(ctx context.Context, ev model.CalendarEvent) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.syncLocked(ctx); err != nil {
		return err
	}
	if s.eventIndex(ev.ID) >= 0 {
		return fmt.Errorf("event %s: %w", ev.ID, ErrDuplicate)
	}
	s.events = append(s.events, ev)
	return s.saveEventsLocked(ctx)
}

// ImportEvents adds every event whose id is not already present and saves
// once. It returns how many were added.
func (s *State) ImportEvents(ctx context.Context, events []model.CalendarEvent) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.syncLocked(ctx); err != nil {
		return 0, err
	}
	added := 0
	for _, ev := range events {
		if ev.Validate() != nil || s.eventIndex(ev.ID) >= 0 {
			continue
		}
		s.events = append(s.events, ev)
		added++
	}
	if added == 0 {
		return 0, nil
	}
	return added, s.saveEventsLocked(ctx)
}

func (s *State) DeleteEvent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.syncLocked(ctx); err != nil {
		return err
	}
	i := s.eventIndex(id)
	if i < 0 {
		return fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	s.events = append(s.events[:i], s.events[i+1:]...)
	if err := s.saveEventsLocked(ctx); err != nil {
		return err
	}
	if _, ok := s.notified[id]; ok {
		delete(s.notified, id)
		return s.saveNotifiedLocked(ctx)
	}
	return nil
}

func (s *State) AddAlarm(ctx context.Context, a model.Alarm) error {
	if err := a.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.syncLocked(ctx); err != nil {
		return err
	}
	if s.alarmIndex(a.ID) >= 0 {
		return fmt.Errorf("alarm %s: %w", a.ID, ErrDuplicate)
	}
	s.alarms = append(s.alarms, a)
	return s.saveAlarmsLocked(ctx)
}

func (s *State) DeleteAlarm(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.syncLocked(ctx); err != nil {
		return err
	}
	i := s.alarmIndex(id)
	if i < 0 {
		return fmt.Errorf("alarm %s: %w", id, ErrNotFound)
	}
	s.alarms = append(s.alarms[:i], s.alarms[i+1:]...)
	return s.saveAlarmsLocked(ctx)
}

// ToggleAlarm flips isEnabled and returns the updated alarm.
func (s *State) ToggleAlarm(ctx context.Context, id string) (model.Alarm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.syncLocked(ctx); err != nil {
		return model.Alarm{}, err
	}
	i := s.alarmIndex(id)
	if i < 0 {
		return model.Alarm{}, fmt.Errorf("alarm %s: %w", id, ErrNotFound)
	}
	s.alarms[i].IsEnabled = !s.alarms[i].IsEnabled
	return s.alarms[i], s.saveAlarmsLocked(ctx)
}

// DisableAlarm is the fire path: it only ever turns an alarm off, so a user
// toggle racing with a tick cannot re-arm it by accident.
func (s *State) DisableAlarm(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.syncLocked(ctx); err != nil {
		return err
	}
	i := s.alarmIndex(id)
	if i < 0 {
		return fmt.Errorf("alarm %s: %w", id, ErrNotFound)
	}
	if !s.alarms[i].IsEnabled {
		return nil
	}
	s.alarms[i].IsEnabled = false
	return s.saveAlarmsLocked(ctx)
}

func (s *State) SetDark(ctx context.Context, dark bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.syncLocked(ctx); err != nil {
		return err
	}
	s.dark = dark
	return s.saveThemeLocked(ctx)
}

// ToggleTheme flips the theme and returns the new value.
func (s *State) ToggleTheme(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.syncLocked(ctx); err != nil {
		return false, err
	}
	s.dark = !s.dark
	return s.dark, s.saveThemeLocked(ctx)
}

// WasNotified reports whether event id was already pre-notified for key
// ("date time").
func (s *State) WasNotified(id, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notified[id] == key
}

// MarkNotified records the pre-notification and drops ledger entries for
// events that no longer exist.
func (s *State) MarkNotified(ctx context.Context, id, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.syncLocked(ctx); err != nil {
		return err
	}
	s.notified[id] = key
	for known := range s.notified {
		if s.eventIndex(known) < 0 {
			delete(s.notified, known)
		}
	}
	return s.saveNotifiedLocked(ctx)
}

func (s *State) eventIndex(id string) int {
	for i := range s.events {
		if s.events[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *State) alarmIndex(id string) int {
	for i := range s.alarms {
		if s.alarms[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *State) saveEventsLocked(ctx context.Context) error {
	s.stamp = ""
	if err := s.persist.SaveEvents(ctx, append([]model.CalendarEvent(nil), s.events...)); err != nil {
		return fmt.Errorf("persist events: %w", err)
	}
	return nil
}

func (s *State) saveAlarmsLocked(ctx context.Context) error {
	s.stamp = ""
	if err := s.persist.SaveAlarms(ctx, append([]model.Alarm(nil), s.alarms...)); err != nil {
		return fmt.Errorf("persist alarms: %w", err)
	}
	return nil
}

func (s *State) saveThemeLocked(ctx context.Context) error {
	s.stamp = ""
	if err := s.persist.SaveTheme(ctx, s.dark); err != nil {
		return fmt.Errorf("persist theme: %w", err)
	}
	return nil
}

func (s *State) saveNotifiedLocked(ctx context.Context) error {
	cp := make(map[string]string, len(s.notified))
	for id, key := range s.notified {
		cp[id] = key
	}
	s.stamp = ""
	if err := s.persist.SaveNotified(ctx, cp); err != nil {
		return fmt.Errorf("persist notified: %w", err)
	}
	return nil
}
