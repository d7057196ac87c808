package update

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/sandeepkv93/nova/internal/clock"
	"github.com/sandeepkv93/nova/internal/model"
	"github.com/sandeepkv93/nova/internal/scheduler"
	"github.com/sandeepkv93/nova/internal/state"
)

type View string

const (
	ViewUpcoming View = "Upcoming"
	ViewAlarms   View = "Alarms"
	ViewLog      View = "Log"
	ViewMonth    View = "Month"
)

const maxLogEntries = 50

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Upcoming string
	Alarms   string
	Log      string
	Month    string
	Theme    string
	Silence  string
	Help     string
	Quit     string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

// Modal is the blocking banner used when desktop notifications are not
// available. It stays up until dismissed.
type Modal struct {
	Title string
	Body  string
}

type LogEntry struct {
	At    time.Time
	Kind  string
	Title string
	Body  string
}

// Silencer stops the current alarm sound.
type Silencer interface {
	Stop()
	Playing() string
}

type Deps struct {
	State  *state.State
	Fired  <-chan scheduler.Fired
	Player Silencer
	Clock  clock.Clock

	// WeekStart is the first column of the month grid.
	WeekStart time.Weekday
}

type Model struct {
	CurrentView View
	Events      []model.CalendarEvent
	Alarms      []model.Alarm
	EventCursor int
	AlarmCursor int
	// MonthOffset is the shown month relative to the current one.
	MonthOffset int
	Dark        bool
	Log         []LogEntry
	Modals      []Modal
	Palette     CommandPaletteState
	HelpVisible bool
	Status      StatusBar
	Keys        GlobalKeyMap
	Quitting    bool
	LastError   error

	state  *state.State
	fired  <-chan scheduler.Fired
	player Silencer
	clock  clock.Clock

	// calendar is every event, past ones included, for the month grid.
	calendar  []model.CalendarEvent
	weekStart time.Weekday

	eventsTable  table.Model
	alarmsTable  table.Model
	commandInput textinput.Model
	helpModel    help.Model
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// FiredMsg carries a match the scheduler handled.
type FiredMsg struct {
	Fired scheduler.Fired
}

// SyncTickMsg reloads the collections from the shared store.
type SyncTickMsg struct {
	At time.Time
}

// PromptMsg asks the TUI to show a modal.
type PromptMsg struct {
	Title string
	Body  string
}

func NewModel(deps Deps) Model {
	if deps.Clock == nil {
		deps.Clock = clock.NewSystem()
	}
	m := Model{
		CurrentView: ViewUpcoming,
		Keys: GlobalKeyMap{
			Upcoming: "1",
			Alarms:   "2",
			Log:      "3",
			Month:    "4",
			Theme:    "t",
			Silence:  "s",
			Help:     "?",
			Quit:     "q",
		},
		state:  deps.State,
		fired:  deps.Fired,
		player: deps.Player,
		clock:  deps.Clock,

		weekStart: deps.WeekStart,
	}
	m.initBubbleComponents()
	m.refresh()
	return m
}

// refresh reloads collections from the state container and clamps cursors.
func (m *Model) refresh() {
	if m.state == nil {
		return
	}
	m.calendar = m.state.Events()
	m.Events = upcoming(m.calendar, model.DateOf(m.clock.Now()))
	m.Alarms = m.state.Alarms()
	m.Dark = m.state.Dark()
	m.EventCursor = clampCursor(m.EventCursor, len(m.Events))
	m.AlarmCursor = clampCursor(m.AlarmCursor, len(m.Alarms))
}

// upcoming keeps events dated today or later; events is already sorted.
func upcoming(events []model.CalendarEvent, today string) []model.CalendarEvent {
	out := make([]model.CalendarEvent, 0, len(events))
	for _, ev := range events {
		if ev.Date >= today {
			out = append(out, ev)
		}
	}
	return out
}

func clampCursor(cursor, n int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}

func (m *Model) appendLog(e LogEntry) {
	m.Log = append(m.Log, e)
	if len(m.Log) > maxLogEntries {
		m.Log = m.Log[len(m.Log)-maxLogEntries:]
	}
}
