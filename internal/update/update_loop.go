package update

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/nova/internal/views"
)

func (m Model) Init() tea.Cmd {
	if m.state == nil {
		return waitForFiredCmd(m.fired)
	}
	return tea.Batch(waitForFiredCmd(m.fired), syncTickCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		keyStr := typed.String()
		if keyStr == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}

		if len(m.Modals) > 0 {
			switch keyStr {
			case "enter", "esc", " ":
				m.Modals = m.Modals[1:]
			}
			return m, nil
		}

		if m.Palette.Active {
			next := m.handlePaletteKey(typed)
			return next, nil
		}

		switch keyStr {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.Focus()
			m.commandInput.SetValue("")
			m.Status = StatusBar{Text: "command palette active", IsError: false}
			return m, nil
		case m.Keys.Upcoming:
			m.CurrentView = ViewUpcoming
			return m, nil
		case m.Keys.Alarms:
			m.CurrentView = ViewAlarms
			return m, nil
		case m.Keys.Log:
			m.CurrentView = ViewLog
			return m, nil
		case m.Keys.Month:
			m.CurrentView = ViewMonth
			return m, nil
		case m.Keys.Theme:
			m.toggleTheme()
			return m, nil
		case m.Keys.Silence:
			m.silence()
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown", IsError: false}
			} else {
				m.Status = StatusBar{Text: "help hidden", IsError: false}
			}
			return m, nil
		case m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}
		switch m.CurrentView {
		case ViewUpcoming:
			return m.handleEventsKey(typed), nil
		case ViewAlarms:
			return m.handleAlarmsKey(typed), nil
		case ViewMonth:
			return m.handleMonthKey(typed), nil
		}
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	case FiredMsg:
		m.onFired(typed.Fired)
		return m, waitForFiredCmd(m.fired)
	case PromptMsg:
		m.Modals = append(m.Modals, Modal{Title: typed.Title, Body: typed.Body})
		return m, nil
	case SyncTickMsg:
		m.syncState()
		return m, syncTickCmd()
	}

	return m, nil
}

func (m Model) View() string {
	m.syncBubbleData()

	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	modal := ""
	if len(m.Modals) > 0 {
		modal = views.RenderModal(m.Modals[0].Title, m.Modals[0].Body)
	}

	leftPane := ""
	switch m.CurrentView {
	case ViewUpcoming:
		leftPane = m.renderUpcomingView()
	case ViewAlarms:
		leftPane = m.renderAlarmsView()
	case ViewLog:
		leftPane = m.renderLogView()
	case ViewMonth:
		leftPane = m.renderMonthView()
	}
	rightPane := m.renderCommandPalette() + m.renderHelpIfVisible()

	theme := "light"
	if m.Dark {
		theme = "dark"
	}
	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("nova | view: %s | %s | theme: %s", m.CurrentView, m.clock.Now().Format("2006-01-02 15:04"), theme),
		LeftPane:     leftPane,
		RightPane:    rightPane,
		StatusLine:   status,
		StatusError:  m.Status.IsError,
		Notification: m.renderLastFired(),
		Modal:        modal,
		Dark:         m.Dark,
		Footer:       fmt.Sprintf("keys: %s upcoming | %s alarms | %s log | %s month | %s theme | %s silence | / cmd | %s help | %s quit", m.Keys.Upcoming, m.Keys.Alarms, m.Keys.Log, m.Keys.Month, m.Keys.Theme, m.Keys.Silence, m.Keys.Help, m.Keys.Quit),
	})
}

func isKnownView(v View) bool {
	switch v {
	case ViewUpcoming, ViewAlarms, ViewLog, ViewMonth:
		return true
	default:
		return false
	}
}

func (m *Model) toggleTheme() {
	if m.state == nil {
		m.Dark = !m.Dark
		return
	}
	dark, err := m.state.ToggleTheme(context.Background())
	m.Dark = dark
	if err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return
	}
	m.Status = StatusBar{Text: "theme: " + views.GlamourStyle(dark), IsError: false}
}

func (m *Model) silence() {
	if m.player == nil {
		return
	}
	playing := m.player.Playing()
	m.player.Stop()
	if playing == "" {
		m.Status = StatusBar{Text: "nothing playing", IsError: false}
		return
	}
	m.Status = StatusBar{Text: "silenced " + playing, IsError: false}
}
