// Package matcher decides which alarms and events are due at a given instant.
// It is pure: the same inputs always produce the same matches.
package matcher

import (
	"time"

	"github.com/sandeepkv93/nova/internal/model"
)

// Band is the half-open lead window (Lower, Upper] an event's start must be
// ahead of now for its pre-notification to match.
type Band struct {
	Lower time.Duration
	Upper time.Duration
}

// DefaultBand is (9.7, 10] minutes. Its 18s width is sized against the 15s
// evaluation cadence so exactly one tick lands inside it.
var DefaultBand = Band{
	Lower: 9*time.Minute + 42*time.Second,
	Upper: 10 * time.Minute,
}

func (b Band) Contains(ahead time.Duration) bool {
	return ahead > b.Lower && ahead <= b.Upper
}

// Evaluate applies DefaultBand.
func Evaluate(now time.Time, alarms []model.Alarm, events []model.CalendarEvent) []model.Match {
	return EvaluateBand(now, alarms, events, DefaultBand)
}

func EvaluateBand(now time.Time, alarms []model.Alarm, events []model.CalendarEvent, band Band) []model.Match {
	currentDate := model.DateOf(now)
	currentTime := model.TimeOf(now)

	out := make([]model.Match, 0)
	for _, a := range alarms {
		if !a.IsEnabled || a.Date != currentDate || a.Time != currentTime {
			continue
		}
		out = append(out, model.Match{
			Kind:  model.MatchAlarmFired,
			ID:    a.ID,
			Title: a.Title,
			Date:  a.Date,
			Time:  a.Time,
			Sound: a.Sound,
		})
	}

	for _, ev := range events {
		if ev.Date != currentDate {
			continue
		}
		ahead, ok := Ahead(ev, now)
		if !ok || !band.Contains(ahead) {
			continue
		}
		out = append(out, model.Match{
			Kind:  model.MatchEventUpcoming,
			ID:    ev.ID,
			Title: ev.Title,
			Date:  ev.Date,
			Time:  ev.Time,
		})
	}
	return out
}

// Ahead is the signed distance from now to the event start, computed in
// now's location. ok is false when the event's date or time cannot be read.
func Ahead(ev model.CalendarEvent, now time.Time) (time.Duration, bool) {
	at, err := ev.ScheduledAt(now.Location())
	if err != nil {
		return 0, false
	}
	return at.Sub(now), true
}

// MinutesAhead reports Ahead in fractional minutes.
func MinutesAhead(ev model.CalendarEvent, now time.Time) float64 {
	d, ok := Ahead(ev, now)
	if !ok {
		return 0
	}
	return d.Minutes()
}
