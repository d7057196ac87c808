// Package ics converts iCalendar data into calendar events.
package ics

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/sandeepkv93/nova/internal/log"
	"github.com/sandeepkv93/nova/internal/model"
)

var ErrEmpty = errors.New("ics: no calendar data")

// Result holds the converted events plus counts of what was left out.
type Result struct {
	Events         []model.CalendarEvent
	SkippedAllDay  int
	SkippedInvalid int
}

// Parse converts each timed VEVENT to a CalendarEvent at its first
// occurrence, in loc. Recurrence rules are ignored and all-day entries are
// skipped. The UID becomes the event id; repeated UIDs keep the first.
func Parse(r io.Reader, loc *time.Location) (Result, error) {
	if loc == nil {
		loc = time.Local
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("read ics: %w", err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return Result{}, ErrEmpty
	}
	cal, err := ical.ParseCalendar(strings.NewReader(string(body)))
	if err != nil {
		return Result{}, fmt.Errorf("parse ics: %w", err)
	}

	var out Result
	seen := make(map[string]struct{})
	for _, ve := range cal.Events() {
		ev, allDay, err := convert(ve, loc)
		if allDay {
			out.SkippedAllDay++
			continue
		}
		if err != nil {
			log.Debug("ics vevent skipped", "reason", err)
			out.SkippedInvalid++
			continue
		}
		if _, dup := seen[ev.ID]; dup {
			continue
		}
		seen[ev.ID] = struct{}{}
		out.Events = append(out.Events, ev)
	}
	model.SortEvents(out.Events)
	log.Info("ics parse completed", "events", len(out.Events), "all_day", out.SkippedAllDay, "invalid", out.SkippedInvalid)
	return out, nil
}

func ParseFile(path string, loc *time.Location) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open ics: %w", err)
	}
	defer f.Close()
	return Parse(f, loc)
}

func convert(ve *ical.VEvent, loc *time.Location) (model.CalendarEvent, bool, error) {
	uid := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uid == nil || strings.TrimSpace(uid.Value) == "" {
		return model.CalendarEvent{}, false, errors.New("missing UID")
	}
	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return model.CalendarEvent{}, false, fmt.Errorf("%s: missing DTSTART", uid.Value)
	}
	if isAllDay(dtStart) {
		return model.CalendarEvent{}, true, nil
	}
	start, err := ve.GetStartAt()
	if err != nil {
		return model.CalendarEvent{}, false, fmt.Errorf("%s: %w", uid.Value, err)
	}
	start = start.In(loc)

	ev := model.CalendarEvent{
		ID:    strings.TrimSpace(uid.Value),
		Title: propValue(ve, ical.ComponentPropertySummary),
		Date:  model.DateOf(start),
		Time:  model.TimeOf(start),
		Color: model.DefaultColor,
	}
	if ev.Title == "" {
		ev.Title = "(untitled)"
	}
	ev.Description = propValue(ve, ical.ComponentPropertyDescription)
	if where := propValue(ve, ical.ComponentPropertyLocation); where != "" {
		if ev.Description != "" {
			ev.Description += "\n\n"
		}
		ev.Description += "Location: " + where
	}
	return ev, false, ev.Validate()
}

// isAllDay treats VALUE=DATE or a value without a time part as all-day.
func isAllDay(p *ical.IANAProperty) bool {
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

func propValue(ve *ical.VEvent, name ical.ComponentProperty) string {
	if p := ve.GetProperty(name); p != nil {
		return unescape(strings.TrimSpace(p.Value))
	}
	return ""
}

var textUnescaper = strings.NewReplacer(`\n`, "\n", `\N`, "\n", `\,`, ",", `\;`, ";", `\\`, `\`)

func unescape(s string) string {
	return textUnescaper.Replace(s)
}
