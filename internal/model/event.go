package model

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Color string

const (
	ColorIndigo  Color = "indigo"
	ColorRose    Color = "rose"
	ColorEmerald Color = "emerald"
	ColorAmber   Color = "amber"
	ColorSky     Color = "sky"
	ColorViolet  Color = "violet"
)

const DefaultColor = ColorIndigo

func (c Color) IsKnown() bool {
	switch c {
	case ColorIndigo, ColorRose, ColorEmerald, ColorAmber, ColorSky, ColorViolet:
		return true
	default:
		return false
	}
}

// CalendarEvent is a user-defined appointment that gets a pre-notification
// shortly before it starts.
type CalendarEvent struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Color       Color  `json:"color"`
}

// NewCalendarEvent normalizes the given fields and assigns a fresh id.
func NewCalendarEvent(title, date, clock string, color Color, description string) (CalendarEvent, error) {
	d, err := ParseDate(date)
	if err != nil {
		return CalendarEvent{}, err
	}
	t, err := ParseTime(clock)
	if err != nil {
		return CalendarEvent{}, err
	}
	if color == "" {
		color = DefaultColor
	}
	ev := CalendarEvent{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Date:        d,
		Time:        t,
		Color:       color,
	}
	return ev, ev.Validate()
}

func (e CalendarEvent) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return errors.New("model: event id is required")
	}
	if strings.TrimSpace(e.Title) == "" {
		return errors.New("model: event title is required")
	}
	return validateWhen(e.Date, e.Time)
}

func (e CalendarEvent) ScheduledAt(loc *time.Location) (time.Time, error) {
	return At(e.Date, e.Time, loc)
}

func SortEvents(events []CalendarEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return lessWhen(events[i].Date, events[i].Time, events[i].Title, events[j].Date, events[j].Time, events[j].Title)
	})
}

func lessWhen(d1, t1, n1, d2, t2, n2 string) bool {
	if d1 != d2 {
		return d1 < d2
	}
	if t1 != t2 {
		return t1 < t2
	}
	return n1 < n2
}
