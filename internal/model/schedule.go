package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var (
	ErrInvalidDate = errors.New("model: invalid date")
	ErrInvalidTime = errors.New("model: invalid time")
)

// ParseDate accepts YYYY-MM-DD and returns the canonical form.
func ParseDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	d, err := time.Parse(DateLayout, raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return d.Format(DateLayout), nil
}

// ParseTime accepts H:MM or HH:MM (24h) and returns the zero-padded form.
func ParseTime(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	t, err := time.Parse(TimeLayout, raw)
	if err != nil {
		t, err = time.Parse("15:4", raw)
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidTime, raw)
		}
	}
	return t.Format(TimeLayout), nil
}

// At joins a date and a time-of-day into an instant in loc, seconds zero.
func At(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	d, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	t, err := time.Parse(TimeLayout, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, clock)
	}
	y, m, day := d.Date()
	return time.Date(y, m, day, t.Hour(), t.Minute(), 0, 0, loc), nil
}

// DateOf and TimeOf split an instant into the persisted string fields.
func DateOf(t time.Time) string { return t.Format(DateLayout) }

func TimeOf(t time.Time) string { return t.Format(TimeLayout) }

func validateWhen(date, clock string) error {
	if canon, err := ParseDate(date); err != nil || canon != date {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	if canon, err := ParseTime(clock); err != nil || canon != clock {
		return fmt.Errorf("%w: %q", ErrInvalidTime, clock)
	}
	return nil
}
