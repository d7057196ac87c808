package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/sandeepkv93/nova/internal/model"
	"github.com/sandeepkv93/nova/internal/scheduler"
)

var eventColors = map[model.Color]color.Attribute{
	model.ColorIndigo:  color.FgBlue,
	model.ColorRose:    color.FgHiRed,
	model.ColorEmerald: color.FgGreen,
	model.ColorAmber:   color.FgYellow,
	model.ColorSky:     color.FgHiCyan,
	model.ColorViolet:  color.FgMagenta,
}

type printer struct {
	w      io.Writer
	showID bool
}

func (p printer) title(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)
	_, _ = t.Fprint(p.w, title)
	switch count {
	case 1:
		_, _ = c.Fprintf(p.w, " - %d entry\n", count)
	default:
		_, _ = c.Fprintf(p.w, " - %d entries\n", count)
	}
}

func (p printer) none() {
	_, _ = color.New(color.Faint, color.Italic).Fprint(p.w, "  none\n")
}

func (p printer) id(id string) {
	if p.showID {
		_, _ = color.New(color.Faint).Fprintf(p.w, "%s  ", id)
	}
}

func (p printer) events(events []model.CalendarEvent) {
	p.title("Events", len(events))
	if len(events) == 0 {
		p.none()
		return
	}
	for _, ev := range events {
		attr, ok := eventColors[ev.Color]
		if !ok {
			attr = eventColors[model.DefaultColor]
		}
		p.id(ev.ID)
		_, _ = color.New(attr).Fprint(p.w, "● ")
		_, _ = fmt.Fprintf(p.w, "%s %s  %s\n", ev.Date, ev.Time, ev.Title)
		if ev.Description != "" {
			for _, line := range strings.Split(ev.Description, "\n") {
				_, _ = color.New(color.Faint).Fprintf(p.w, "      %s\n", line)
			}
		}
	}
}

func (p printer) alarms(alarms []model.Alarm) {
	p.title("Alarms", len(alarms))
	if len(alarms) == 0 {
		p.none()
		return
	}
	for _, a := range alarms {
		p.id(a.ID)
		state := color.New(color.Faint).Sprint("off")
		if a.IsEnabled {
			state = color.New(color.FgGreen, color.Bold).Sprint("on ")
		}
		_, _ = fmt.Fprintf(p.w, "[%s] %s %s  %s ", state, a.Date, a.Time, a.Title)
		_, _ = color.New(color.FgHiYellow, color.Italic, color.Faint).Fprintf(p.w, "(%s)\n", soundLabel(a.Sound))
	}
}

func (p printer) match(m model.Match, suppressed bool) {
	var line string
	switch m.Kind {
	case model.MatchAlarmFired:
		line = scheduler.AlarmTitle(m.Title) + " | " + scheduler.AlarmBody(m.Time)
	default:
		line = scheduler.EventTitle(m.Title) + " | " + scheduler.EventBody(m.Time)
	}
	p.id(m.ID)
	if suppressed {
		_, _ = color.New(color.Faint).Fprintf(p.w, "%s (already notified)\n", line)
		return
	}
	_, _ = color.New(color.Bold).Fprintln(p.w, line)
}

func (p printer) ok(format string, args ...any) {
	_, _ = color.New(color.FgGreen).Fprintf(p.w, format+"\n", args...)
}

// soundLabel keeps inline data URIs from flooding the listing.
func soundLabel(id string) string {
	if strings.HasPrefix(id, "data:") {
		return "inline"
	}
	return id
}
