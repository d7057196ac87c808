package update

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/nova/internal/model"
)

func (m Model) handleEventsKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "up", "k":
		if m.EventCursor > 0 {
			m.EventCursor--
		}
	case "down", "j":
		if m.EventCursor < len(m.Events)-1 {
			m.EventCursor++
		}
	case "x", "delete":
		ev, ok := m.currentEvent()
		if !ok {
			m.Status = StatusBar{Text: "no event selected", IsError: true}
			return m
		}
		m.removeEvent(ev)
	}
	return m
}

func (m Model) currentEvent() (model.CalendarEvent, bool) {
	if m.EventCursor < 0 || m.EventCursor >= len(m.Events) {
		return model.CalendarEvent{}, false
	}
	return m.Events[m.EventCursor], true
}

func (m *Model) removeEvent(ev model.CalendarEvent) {
	if m.state == nil {
		return
	}
	err := m.state.DeleteEvent(context.Background(), ev.ID)
	m.refresh()
	if err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return
	}
	m.Status = StatusBar{Text: "deleted event: " + ev.Title, IsError: false}
}
