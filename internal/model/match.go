package model

type MatchKind string

const (
	MatchAlarmFired    MatchKind = "alarm-fired"
	MatchEventUpcoming MatchKind = "event-upcoming"
)

// Match is produced by one evaluation cycle and never persisted.
type Match struct {
	Kind  MatchKind
	ID    string
	Title string
	Date  string
	Time  string
	Sound string
}

// Key identifies the scheduled occurrence a match refers to.
func (m Match) Key() string {
	return m.Date + " " + m.Time
}
