package update

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/nova/internal/commands"
	"github.com/sandeepkv93/nova/internal/model"
	"github.com/sandeepkv93/nova/internal/state"
)

var errNoState = errors.New("no state attached")

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed", IsError: false}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.closePalette()
		return m
	}

	res, err := commands.Execute(cmd, m.paletteHandlers())
	m.refresh()
	if err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: err.Error(), IsError: true}
	} else {
		m.Status = StatusBar{Text: res.Message, IsError: false}
	}
	m.closePalette()
	return m
}

// paletteHandlers binds palette commands to the state container. Save
// failures keep the in-memory change and surface as an error.
func (m *Model) paletteHandlers() commands.Handlers {
	ctx := context.Background()
	st := m.state
	return commands.Handlers{
		Event: func(a commands.EventArgs) (commands.Result, error) {
			if st == nil {
				return commands.Result{}, errNoState
			}
			ev, err := model.NewCalendarEvent(a.Title, a.Date, a.Time, a.Color, "")
			if err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			if err := st.AddEvent(ctx, ev); err != nil {
				return commands.Result{}, err
			}
			m.CurrentView = ViewUpcoming
			return commands.Result{Message: fmt.Sprintf("added event: %s (%s %s)", ev.Title, ev.Date, ev.Time)}, nil
		},
		Alarm: func(a commands.AlarmArgs) (commands.Result, error) {
			if st == nil {
				return commands.Result{}, errNoState
			}
			alarm, err := model.NewAlarm(a.Title, a.Date, a.Time, a.Sound)
			if err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			if err := st.AddAlarm(ctx, alarm); err != nil {
				return commands.Result{}, err
			}
			m.CurrentView = ViewAlarms
			return commands.Result{Message: fmt.Sprintf("added alarm: %s (%s %s)", alarm.Title, alarm.Date, alarm.Time)}, nil
		},
		Toggle: func(t commands.TargetArgs) (commands.Result, error) {
			if st == nil {
				return commands.Result{}, errNoState
			}
			a, err := st.ToggleAlarm(ctx, t.ID)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("alarm %s enabled=%t", a.Title, a.IsEnabled)}, nil
		},
		Remove: func(t commands.TargetArgs) (commands.Result, error) {
			if st == nil {
				return commands.Result{}, errNoState
			}
			err := st.DeleteEvent(ctx, t.ID)
			if errors.Is(err, state.ErrNotFound) {
				err = st.DeleteAlarm(ctx, t.ID)
			}
			if errors.Is(err, state.ErrNotFound) {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no event or alarm with id %s", t.ID)}
			}
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "removed " + t.ID}, nil
		},
		Theme: func(t commands.ThemeArgs) (commands.Result, error) {
			if st == nil {
				return commands.Result{}, errNoState
			}
			var err error
			switch t.Mode {
			case "dark":
				err = st.SetDark(ctx, true)
			case "light":
				err = st.SetDark(ctx, false)
			default:
				_, err = st.ToggleTheme(ctx)
			}
			if err != nil {
				return commands.Result{}, err
			}
			mode := "light"
			if st.Dark() {
				mode = "dark"
			}
			return commands.Result{Message: "theme: " + mode}, nil
		},
	}
}
