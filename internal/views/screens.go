package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type EventRowData struct {
	ID    string
	Title string
	Date  string
	Time  string
	Color string
}

type UpcomingPanelData struct {
	TableView   string
	Selected    *EventRowData
	Description string
	Dark        bool
}

type AlarmRowData struct {
	ID      string
	Title   string
	Date    string
	Time    string
	Sound   string
	Enabled bool
}

type AlarmsPanelData struct {
	TableView string
	Selected  *AlarmRowData
	Playing   string
}

// MonthDayData is one grid cell. Day is 0 for padding before the 1st and
// after the last day.
type MonthDayData struct {
	Day    int
	Events int
	Color  string
	Today  bool
}

type MonthPanelData struct {
	Title    string
	Weekdays []string
	Weeks    [][]MonthDayData
	Agenda   []EventRowData
}

type LogEntryData struct {
	At    string
	Kind  string
	Title string
	Body  string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

// colorTags maps event color tags to terminal colors.
var colorTags = map[string]lipgloss.Color{
	"indigo":  lipgloss.Color("63"),
	"rose":    lipgloss.Color("204"),
	"emerald": lipgloss.Color("42"),
	"amber":   lipgloss.Color("214"),
	"sky":     lipgloss.Color("117"),
	"violet":  lipgloss.Color("141"),
}

func ColorSwatch(tag string) string {
	c, ok := colorTags[tag]
	if !ok {
		c = colorTags["indigo"]
	}
	return lipgloss.NewStyle().Foreground(c).Render("●")
}

func RenderUpcomingPanel(data UpcomingPanelData) string {
	var b strings.Builder
	b.WriteString("upcoming events:\n")
	b.WriteString("actions: [j/k]move [x]delete [/]add via palette\n")
	b.WriteString(data.TableView + "\n")
	if data.Selected == nil {
		b.WriteString("\n(no events)")
		return b.String()
	}
	b.WriteString("\nevent:\n")
	b.WriteString(fmt.Sprintf("%s %s\n", ColorSwatch(data.Selected.Color), data.Selected.Title))
	b.WriteString(fmt.Sprintf("id: %s\n", data.Selected.ID))
	b.WriteString(fmt.Sprintf("when: %s %s\n", data.Selected.Date, data.Selected.Time))
	if data.Description != "" {
		b.WriteString("\n" + data.Description)
	}
	return strings.TrimSpace(b.String())
}

func RenderAlarmsPanel(data AlarmsPanelData) string {
	var b strings.Builder
	b.WriteString("alarms:\n")
	b.WriteString("actions: [j/k]move [space]toggle [x]delete [s]silence\n")
	b.WriteString(data.TableView + "\n")
	if data.Playing != "" {
		b.WriteString(fmt.Sprintf("\nplaying: %s\n", data.Playing))
	}
	if data.Selected == nil {
		b.WriteString("\n(no alarms)")
		return b.String()
	}
	state := "off"
	if data.Selected.Enabled {
		state = "on"
	}
	b.WriteString("\nalarm:\n")
	b.WriteString(fmt.Sprintf("id: %s\n", data.Selected.ID))
	b.WriteString(fmt.Sprintf("when: %s %s [%s]\n", data.Selected.Date, data.Selected.Time, state))
	b.WriteString(fmt.Sprintf("sound: %s\n", data.Selected.Sound))
	return strings.TrimSpace(b.String())
}

func RenderLogPanel(entries []LogEntryData) string {
	var b strings.Builder
	b.WriteString("log:\n")
	if len(entries) == 0 {
		b.WriteString("(nothing fired yet)")
		return b.String()
	}
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		b.WriteString(fmt.Sprintf("%s [%s] %s\n", e.At, strings.ToUpper(e.Kind), e.Title))
		if e.Body != "" {
			b.WriteString("    " + e.Body + "\n")
		}
	}
	return strings.TrimSpace(b.String())
}

// RenderMonthPanel draws a week-per-row grid. ">" marks today and "•" a day
// with events, tinted with the first event's color.
func RenderMonthPanel(data MonthPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("month: %s\n", data.Title))
	b.WriteString("actions: [h/l]previous/next [0]this month\n\n")
	for _, wd := range data.Weekdays {
		b.WriteString(fmt.Sprintf(" %s ", wd))
	}
	b.WriteString("\n")
	for _, week := range data.Weeks {
		for _, cell := range week {
			b.WriteString(renderMonthCell(cell))
		}
		b.WriteString("\n")
	}
	if len(data.Agenda) == 0 {
		b.WriteString("\n(no events this month)")
		return b.String()
	}
	b.WriteString("\nthis month:\n")
	for _, ev := range data.Agenda {
		b.WriteString(fmt.Sprintf("%s %s %s  %s\n", ColorSwatch(ev.Color), ev.Date, ev.Time, ev.Title))
	}
	return strings.TrimSpace(b.String())
}

func renderMonthCell(cell MonthDayData) string {
	if cell.Day == 0 {
		return "    "
	}
	mark := " "
	if cell.Today {
		mark = ">"
	}
	day := fmt.Sprintf("%2d", cell.Day)
	dot := " "
	if cell.Events > 0 {
		c, ok := colorTags[cell.Color]
		if !ok {
			c = colorTags["indigo"]
		}
		day = lipgloss.NewStyle().Foreground(c).Bold(true).Render(day)
		dot = "•"
	}
	return mark + day + dot
}

func RenderCommandPalette(active bool, inputView string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command:\n%s\n\nevent <date> <time> <title> [color:x]\nalarm <date> <time> <title> [sound:x]\ntoggle <id> | rm <id> | theme [dark|light]", inputView)
}

func RenderModal(title, body string) string {
	if title == "" && body == "" {
		return ""
	}
	return title + "\n" + body
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}
