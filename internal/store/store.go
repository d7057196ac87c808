package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sandeepkv93/nova/internal/log"
	"github.com/sandeepkv93/nova/internal/model"
)

const (
	SlotEvents   = "nova_events"
	SlotAlarms   = "nova_alarms"
	SlotTheme    = "nova_theme"
	SlotNotified = "nova_notified"

	themeDark  = "dark"
	themeLight = "light"
)

var ErrSlotEmpty = errors.New("store: slot empty")

// Backend persists opaque slot payloads. Get returns ErrSlotEmpty for a slot
// that was never written.
type Backend interface {
	Get(ctx context.Context, slot string) ([]byte, error)
	Put(ctx context.Context, slot string, payload []byte) error
	Close() error
}

// Stamper is implemented by backends that can tell when a slot was last
// written, by this process or any other.
type Stamper interface {
	UpdatedAt(ctx context.Context, slot string) (time.Time, error)
}

var slots = []string{SlotEvents, SlotAlarms, SlotTheme, SlotNotified}

// Snapshot is everything restored at startup.
type Snapshot struct {
	Events []model.CalendarEvent
	Alarms []model.Alarm
	Dark   bool
	// Notified maps event id to the "date time" it was pre-notified for.
	Notified map[string]string
}

type Store struct {
	backend Backend
}

func New(backend Backend) *Store {
	return &Store{backend: backend}
}

// Open builds a Store for the given driver ("sqlite" or "diskv").
func Open(driver, path string) (*Store, error) {
	switch driver {
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
		backend, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return New(backend), nil
	case "diskv":
		if err := os.MkdirAll(path, 0o700); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
		return New(OpenDiskv(path)), nil
	default:
		return nil, fmt.Errorf("store: unknown driver %q", driver)
	}
}

func (s *Store) Close() error {
	return s.backend.Close()
}

// Load never fails: a slot that is missing, unreadable or malformed comes
// back as its default value.
func (s *Store) Load(ctx context.Context) Snapshot {
	snap, _ := s.load(ctx, false)
	return snap
}

// Reload is Load for a store that is already in use. A slot that cannot be
// read is an error instead of an empty collection, so a transient failure
// never replaces live data with defaults. Malformed slots still load as
// defaults.
func (s *Store) Reload(ctx context.Context) (Snapshot, error) {
	return s.load(ctx, true)
}

// Stamp summarizes the last write time of every slot. ok is false when the
// backend cannot report write times; callers must then assume a change.
func (s *Store) Stamp(ctx context.Context) (string, bool) {
	st, ok := s.backend.(Stamper)
	if !ok {
		return "", false
	}
	var b strings.Builder
	for _, slot := range slots {
		at, err := st.UpdatedAt(ctx, slot)
		switch {
		case errors.Is(err, ErrSlotEmpty):
			b.WriteString("-")
		case err != nil:
			log.Debug("slot stamp unavailable", "slot", slot, "reason", err)
			return "", false
		default:
			b.WriteString(at.UTC().Format(time.RFC3339Nano))
		}
		b.WriteByte('|')
	}
	return b.String(), true
}

func (s *Store) load(ctx context.Context, strict bool) (Snapshot, error) {
	snap := Snapshot{
		Events:   []model.CalendarEvent{},
		Alarms:   []model.Alarm{},
		Notified: map[string]string{},
	}

	var events []model.CalendarEvent
	ok, err := s.readJSON(ctx, SlotEvents, &events)
	if err != nil && strict {
		return Snapshot{}, err
	}
	if ok {
		for _, ev := range events {
			if err := ev.Validate(); err != nil {
				log.Debug("dropping stored event", "id", ev.ID, "reason", err)
				continue
			}
			snap.Events = append(snap.Events, ev)
		}
	}

	var alarms []model.Alarm
	ok, err = s.readJSON(ctx, SlotAlarms, &alarms)
	if err != nil && strict {
		return Snapshot{}, err
	}
	if ok {
		for _, a := range alarms {
			if err := a.Validate(); err != nil {
				log.Debug("dropping stored alarm", "id", a.ID, "reason", err)
				continue
			}
			snap.Alarms = append(snap.Alarms, a)
		}
	}

	raw, ok, err := s.read(ctx, SlotTheme)
	if err != nil && strict {
		return Snapshot{}, err
	}
	if ok {
		snap.Dark = string(raw) == themeDark
	}

	var notified map[string]string
	ok, err = s.readJSON(ctx, SlotNotified, &notified)
	if err != nil && strict {
		return Snapshot{}, err
	}
	if ok && notified != nil {
		snap.Notified = notified
	}
	return snap, nil
}

func (s *Store) SaveEvents(ctx context.Context, events []model.CalendarEvent) error {
	if events == nil {
		events = []model.CalendarEvent{}
	}
	return s.writeJSON(ctx, SlotEvents, events)
}

func (s *Store) SaveAlarms(ctx context.Context, alarms []model.Alarm) error {
	if alarms == nil {
		alarms = []model.Alarm{}
	}
	return s.writeJSON(ctx, SlotAlarms, alarms)
}

func (s *Store) SaveTheme(ctx context.Context, dark bool) error {
	value := themeLight
	if dark {
		value = themeDark
	}
	if err := s.backend.Put(ctx, SlotTheme, []byte(value)); err != nil {
		return fmt.Errorf("save %s: %w", SlotTheme, err)
	}
	return nil
}

func (s *Store) SaveNotified(ctx context.Context, notified map[string]string) error {
	if notified == nil {
		notified = map[string]string{}
	}
	return s.writeJSON(ctx, SlotNotified, notified)
}

// read reports ok=false for an empty slot. A backend failure is logged and
// returned so strict callers can refuse to continue.
func (s *Store) read(ctx context.Context, slot string) ([]byte, bool, error) {
	raw, err := s.backend.Get(ctx, slot)
	if err != nil {
		if errors.Is(err, ErrSlotEmpty) {
			return nil, false, nil
		}
		log.Debug("slot unreadable", "slot", slot, "reason", err)
		return nil, false, fmt.Errorf("read %s: %w", slot, err)
	}
	return raw, true, nil
}

func (s *Store) readJSON(ctx context.Context, slot string, out any) (bool, error) {
	raw, ok, err := s.read(ctx, slot)
	if !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Debug("slot malformed", "slot", slot, "reason", err)
		return false, nil
	}
	return true, nil
}

func (s *Store) writeJSON(ctx context.Context, slot string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", slot, err)
	}
	if err := s.backend.Put(ctx, slot, payload); err != nil {
		return fmt.Errorf("save %s: %w", slot, err)
	}
	return nil
}
