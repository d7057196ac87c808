package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/nova/internal/views"
)

// helpKeyMap shows global keys in one column and the current view's keys in
// another.
type helpKeyMap struct {
	global []key.Binding
	view   []key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding {
	return append(append([]key.Binding{}, k.global...), k.view...)
}

func (k helpKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.global, k.view}
}

func binding(keys, desc string) key.Binding {
	return key.NewBinding(key.WithKeys(keys), key.WithHelp(keys, desc))
}

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	km := helpKeyMap{global: m.globalBindings(), view: m.viewBindings()}
	lines := make([]string, 0, len(km.view))
	for _, b := range km.view {
		h := b.Help()
		lines = append(lines, fmt.Sprintf("- %s: %s", h.Key, h.Desc))
	}

	hm := m.helpModel
	hm.ShowAll = true
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    lines,
		HelpView:    hm.View(km),
	})
}

func (m Model) globalBindings() []key.Binding {
	return []key.Binding{
		binding(m.Keys.Upcoming, "upcoming"),
		binding(m.Keys.Alarms, "alarms"),
		binding(m.Keys.Log, "log"),
		binding(m.Keys.Month, "month"),
		binding(m.Keys.Theme, "theme"),
		binding(m.Keys.Silence, "silence"),
		binding("/", "command"),
		binding(m.Keys.Help, "help"),
		binding(m.Keys.Quit, "quit"),
	}
}

func (m Model) viewBindings() []key.Binding {
	switch m.CurrentView {
	case ViewUpcoming:
		return []key.Binding{
			binding("j/k", "move cursor"),
			binding("x", "delete event"),
		}
	case ViewAlarms:
		return []key.Binding{
			binding("j/k", "move cursor"),
			binding("space", "enable/disable alarm"),
			binding("x", "delete alarm"),
		}
	case ViewMonth:
		return []key.Binding{
			binding("h/l", "previous/next month"),
			binding("0", "this month"),
		}
	default:
		return []key.Binding{binding("-", "no contextual keys")}
	}
}
