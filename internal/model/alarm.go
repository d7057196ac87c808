package model

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const DefaultSound = "digital"

// Alarm is a one-shot alarm. Firing disables it; only an explicit toggle
// arms it again.
type Alarm struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	IsEnabled bool   `json:"isEnabled"`
	Sound     string `json:"sound"`
}

func NewAlarm(title, date, clock, sound string) (Alarm, error) {
	d, err := ParseDate(date)
	if err != nil {
		return Alarm{}, err
	}
	t, err := ParseTime(clock)
	if err != nil {
		return Alarm{}, err
	}
	sound = strings.TrimSpace(sound)
	if sound == "" {
		sound = DefaultSound
	}
	a := Alarm{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(title),
		Date:      d,
		Time:      t,
		IsEnabled: true,
		Sound:     sound,
	}
	return a, a.Validate()
}

func (a Alarm) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return errors.New("model: alarm id is required")
	}
	if strings.TrimSpace(a.Title) == "" {
		return errors.New("model: alarm title is required")
	}
	return validateWhen(a.Date, a.Time)
}

func (a Alarm) ScheduledAt(loc *time.Location) (time.Time, error) {
	return At(a.Date, a.Time, loc)
}

func SortAlarms(alarms []Alarm) {
	sort.SliceStable(alarms, func(i, j int) bool {
		return lessWhen(alarms[i].Date, alarms[i].Time, alarms[i].Title, alarms[j].Date, alarms[j].Time, alarms[j].Title)
	})
}
