package update

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/nova/internal/model"
	"github.com/sandeepkv93/nova/internal/notify"
	"github.com/sandeepkv93/nova/internal/scheduler"
)

// waitForFiredCmd blocks on the scheduler channel. A closed or nil channel
// ends the subscription.
func waitForFiredCmd(ch <-chan scheduler.Fired) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		f, ok := <-ch
		if !ok {
			return nil
		}
		return FiredMsg{Fired: f}
	}
}

// syncInterval is how often the TUI picks up writes made by the CLI or a
// daemon sharing the store.
const syncInterval = 5 * time.Second

func syncTickCmd() tea.Cmd {
	return tea.Tick(syncInterval, func(t time.Time) tea.Msg {
		return SyncTickMsg{At: t}
	})
}

func (m *Model) syncState() {
	if m.state == nil {
		return
	}
	if err := m.state.Sync(context.Background()); err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return
	}
	m.refresh()
}

func (m *Model) onFired(f scheduler.Fired) {
	m.refresh()
	entry := LogEntry{At: f.At, Kind: string(f.Match.Kind)}
	switch f.Match.Kind {
	case model.MatchAlarmFired:
		entry.Title = scheduler.AlarmTitle(f.Match.Title)
		entry.Body = scheduler.AlarmBody(f.Match.Time)
	default:
		entry.Title = scheduler.EventTitle(f.Match.Title)
		entry.Body = scheduler.EventBody(f.Match.Time)
	}
	m.appendLog(entry)
	m.Status = StatusBar{Text: entry.Title, IsError: false}
}

// ProgramPrompter shows notifications as TUI modals. Send is usually
// (*tea.Program).Send.
type ProgramPrompter struct {
	Send func(tea.Msg)
}

var _ notify.Prompter = ProgramPrompter{}

func (p ProgramPrompter) Prompt(title, body string) {
	if p.Send == nil {
		return
	}
	p.Send(PromptMsg{Title: title, Body: body})
}
