package update

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/nova/internal/model"
)

func (m Model) handleAlarmsKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "up", "k":
		if m.AlarmCursor > 0 {
			m.AlarmCursor--
		}
	case "down", "j":
		if m.AlarmCursor < len(m.Alarms)-1 {
			m.AlarmCursor++
		}
	case " ", "space", "enter":
		a, ok := m.currentAlarm()
		if !ok {
			m.Status = StatusBar{Text: "no alarm selected", IsError: true}
			return m
		}
		m.toggleAlarm(a.ID)
	case "x", "delete":
		a, ok := m.currentAlarm()
		if !ok {
			m.Status = StatusBar{Text: "no alarm selected", IsError: true}
			return m
		}
		m.removeAlarm(a)
	}
	return m
}

func (m Model) currentAlarm() (model.Alarm, bool) {
	if m.AlarmCursor < 0 || m.AlarmCursor >= len(m.Alarms) {
		return model.Alarm{}, false
	}
	return m.Alarms[m.AlarmCursor], true
}

func (m *Model) toggleAlarm(id string) {
	if m.state == nil {
		return
	}
	a, err := m.state.ToggleAlarm(context.Background(), id)
	m.refresh()
	if err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return
	}
	state := "off"
	if a.IsEnabled {
		state = "on"
	}
	m.Status = StatusBar{Text: fmt.Sprintf("alarm %s: %s", state, a.Title), IsError: false}
}

func (m *Model) removeAlarm(a model.Alarm) {
	if m.state == nil {
		return
	}
	err := m.state.DeleteAlarm(context.Background(), a.ID)
	m.refresh()
	if err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return
	}
	m.Status = StatusBar{Text: "deleted alarm: " + a.Title, IsError: false}
}
