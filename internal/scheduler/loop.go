package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sandeepkv93/nova/internal/clock"
	"github.com/sandeepkv93/nova/internal/log"
	"github.com/sandeepkv93/nova/internal/matcher"
	"github.com/sandeepkv93/nova/internal/model"
	"github.com/sandeepkv93/nova/internal/notify"
)

const DefaultInterval = 15 * time.Second

var (
	ErrInvalidInterval = errors.New("scheduler: interval must be at least 1s")
	ErrStopped         = errors.New("scheduler: loop stopped")
)

// Collections is the view of the state container the loop reads and
// mutates.
type Collections interface {
	Alarms() []model.Alarm
	Events() []model.CalendarEvent
	DisableAlarm(ctx context.Context, id string) error
	WasNotified(id, key string) bool
	MarkNotified(ctx context.Context, id, key string) error
}

// Syncer is implemented by collections shared with other processes.
type Syncer interface {
	Sync(ctx context.Context) error
}

type Player interface {
	Play(id string)
}

// Fired is published on C() for every match the loop handled.
type Fired struct {
	Match model.Match
	At    time.Time
}

type Options struct {
	Interval time.Duration
	Buffer   int
	Band     matcher.Band
	Clock    clock.Clock
}

type Loop struct {
	mu      sync.Mutex
	evalMu  sync.Mutex
	cron    *cron.Cron
	state   Collections
	sink    notify.Sink
	player  Player
	clock   clock.Clock
	band    matcher.Band
	every   time.Duration
	out     chan Fired
	started bool
	stopped bool
	closed  bool
	dropped uint64
}

func New(state Collections, sink notify.Sink, player Player, opts Options) *Loop {
	if opts.Interval == 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Buffer <= 0 {
		opts.Buffer = 1
	}
	if opts.Band == (matcher.Band{}) {
		opts.Band = matcher.DefaultBand
	}
	if opts.Clock == nil {
		opts.Clock = clock.NewSystem()
	}
	logger := cronLogger{}
	return &Loop{
		cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		state:  state,
		sink:   sink,
		player: player,
		clock:  opts.Clock,
		band:   opts.Band,
		every:  opts.Interval,
		out:    make(chan Fired, opts.Buffer),
	}
}

func (l *Loop) C() <-chan Fired {
	return l.out
}

func (l *Loop) Dropped() uint64 {
	return atomic.LoadUint64(&l.dropped)
}

// Start arms the recurring evaluation. The first tick runs one interval
// after Start.
func (l *Loop) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return ErrStopped
	}
	if l.started {
		return nil
	}
	if l.every < time.Second {
		return ErrInvalidInterval
	}
	spec := "@every " + l.every.String()
	if _, err := l.cron.AddFunc(spec, l.tick); err != nil {
		return fmt.Errorf("schedule %q: %w", spec, err)
	}
	l.cron.Start()
	l.started = true
	log.Info("scheduler started", "interval", l.every)
	return nil
}

// Stop waits for an in-flight evaluation to finish. No tick runs after Stop
// returns.
func (l *Loop) Stop() {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.stopped = true
	started := l.started
	l.mu.Unlock()

	if started {
		<-l.cron.Stop().Done()
	}
	l.evalMu.Lock()
	l.mu.Lock()
	l.closed = true
	close(l.out)
	l.mu.Unlock()
	l.evalMu.Unlock()
	log.Info("scheduler stopped", "dropped", l.Dropped())
}

func (l *Loop) tick() {
	l.RunOnce(l.clock.Now())
}

// RunOnce evaluates the latest persisted collections at now and handles
// every match. It returns the matches that were acted on. A panic while
// handling one match is logged and does not stop the others.
func (l *Loop) RunOnce(now time.Time) []model.Match {
	l.evalMu.Lock()
	defer l.evalMu.Unlock()

	ctx := context.Background()
	if s, ok := l.state.(Syncer); ok {
		if err := s.Sync(ctx); err != nil {
			log.Warn("evaluating cached collections", "reason", err)
		}
	}
	matches := matcher.EvaluateBand(now, l.state.Alarms(), l.state.Events(), l.band)
	handled := make([]model.Match, 0, len(matches))
	for _, m := range matches {
		if !l.handle(ctx, m) {
			continue
		}
		handled = append(handled, m)
		l.publish(Fired{Match: m, At: now})
	}
	if len(matches) > 0 {
		log.Debug("evaluation done", "matches", len(matches), "handled", len(handled))
	}
	return handled
}

func (l *Loop) handle(ctx context.Context, m model.Match) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("handle match", fmt.Errorf("panic: %v", r), "kind", m.Kind, "id", m.ID)
		}
	}()
	switch m.Kind {
	case model.MatchAlarmFired:
		return l.fireAlarm(ctx, m)
	case model.MatchEventUpcoming:
		return l.announceEvent(ctx, m)
	}
	return false
}

// fireAlarm disables before notifying so a failing sink or player cannot
// leave the alarm armed for the rest of its minute.
func (l *Loop) fireAlarm(ctx context.Context, m model.Match) bool {
	log.Info("alarm fired", "id", m.ID, "title", m.Title, "time", m.Time)
	if err := l.state.DisableAlarm(ctx, m.ID); err != nil {
		log.Error("disable fired alarm", err, "id", m.ID)
	}
	l.sink.Notify(AlarmTitle(m.Title), AlarmBody(m.Time))
	l.player.Play(m.Sound)
	return true
}

func (l *Loop) announceEvent(ctx context.Context, m model.Match) bool {
	key := m.Key()
	if l.state.WasNotified(m.ID, key) {
		log.Debug("event already announced", "id", m.ID, "at", key)
		return false
	}
	if err := l.state.MarkNotified(ctx, m.ID, key); err != nil {
		log.Error("record event announcement", err, "id", m.ID)
	}
	log.Info("event upcoming", "id", m.ID, "title", m.Title, "time", m.Time)
	l.sink.Notify(EventTitle(m.Title), EventBody(m.Time))
	return true
}

func (l *Loop) publish(f Fired) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	select {
	case l.out <- f:
	default:
		atomic.AddUint64(&l.dropped, 1)
	}
}

func AlarmTitle(title string) string { return "⏰ Alarm: " + title }
func AlarmBody(at string) string { return "It's time: " + at }
func EventTitle(title string) string { return "📅 Upcoming event: " + title }
func EventBody(at string) string { return "Starts in 10 minutes (" + at + ")" }
