package update

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/sandeepkv93/nova/internal/views"
)

func (m *Model) initBubbleComponents() {
	eventCols := []table.Column{
		{Title: "", Width: 2},
		{Title: "Date", Width: 12},
		{Title: "Time", Width: 7},
		{Title: "Title", Width: 28},
	}
	m.eventsTable = table.New(table.WithColumns(eventCols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(10))

	alarmCols := []table.Column{
		{Title: "On", Width: 4},
		{Title: "Date", Width: 12},
		{Title: "Time", Width: 7},
		{Title: "Sound", Width: 10},
		{Title: "Title", Width: 24},
	}
	m.alarmsTable = table.New(table.WithColumns(alarmCols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(10))

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.helpModel = help.New()
}

func (m *Model) syncBubbleData() {
	eventRows := make([]table.Row, 0, len(m.Events))
	for _, ev := range m.Events {
		eventRows = append(eventRows, table.Row{views.ColorSwatch(string(ev.Color)), ev.Date, ev.Time, ev.Title})
	}
	m.eventsTable.SetRows(eventRows)
	if len(eventRows) > 0 {
		m.eventsTable.SetCursor(m.EventCursor)
	}

	alarmRows := make([]table.Row, 0, len(m.Alarms))
	for _, a := range m.Alarms {
		on := "off"
		if a.IsEnabled {
			on = "on"
		}
		alarmRows = append(alarmRows, table.Row{on, a.Date, a.Time, a.Sound, a.Title})
	}
	m.alarmsTable.SetRows(alarmRows)
	if len(alarmRows) > 0 {
		m.alarmsTable.SetCursor(m.AlarmCursor)
	}
}

func (m Model) renderUpcomingView() string {
	data := views.UpcomingPanelData{TableView: m.eventsTable.View(), Dark: m.Dark}
	if ev, ok := m.currentEvent(); ok {
		data.Selected = &views.EventRowData{
			ID:    ev.ID,
			Title: ev.Title,
			Date:  ev.Date,
			Time:  ev.Time,
			Color: string(ev.Color),
		}
		if ev.Description != "" {
			data.Description = views.RenderMarkdown(ev.Description, m.Dark)
		}
	}
	return views.RenderUpcomingPanel(data)
}

func (m Model) renderAlarmsView() string {
	data := views.AlarmsPanelData{TableView: m.alarmsTable.View()}
	if m.player != nil {
		data.Playing = m.player.Playing()
	}
	if a, ok := m.currentAlarm(); ok {
		data.Selected = &views.AlarmRowData{
			ID:      a.ID,
			Title:   a.Title,
			Date:    a.Date,
			Time:    a.Time,
			Sound:   a.Sound,
			Enabled: a.IsEnabled,
		}
	}
	return views.RenderAlarmsPanel(data)
}

func (m Model) renderLogView() string {
	entries := make([]views.LogEntryData, 0, len(m.Log))
	for _, e := range m.Log {
		entries = append(entries, views.LogEntryData{
			At:    e.At.Format("2006-01-02 15:04:05"),
			Kind:  e.Kind,
			Title: e.Title,
			Body:  e.Body,
		})
	}
	return views.RenderLogPanel(entries)
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.commandInput.View())
}

func (m Model) renderLastFired() string {
	if len(m.Log) == 0 {
		return ""
	}
	last := m.Log[len(m.Log)-1]
	return last.Title + " | " + last.Body
}
