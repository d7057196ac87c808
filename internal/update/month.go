package update

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/nova/internal/model"
	"github.com/sandeepkv93/nova/internal/views"
)

func (m Model) handleMonthKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "h", "left", "[":
		m.MonthOffset--
	case "l", "right", "]":
		m.MonthOffset++
	case "0":
		m.MonthOffset = 0
	}
	return m
}

// shownMonth is the first day of the month on screen.
func (m Model) shownMonth() time.Time {
	now := m.clock.Now()
	return time.Date(now.Year(), now.Month()+time.Month(m.MonthOffset), 1, 0, 0, 0, 0, now.Location())
}

func (m Model) renderMonthView() string {
	first := m.shownMonth()
	prefix := first.Format("2006-01-")
	today := model.DateOf(m.clock.Now())

	byDate := map[string][]model.CalendarEvent{}
	data := views.MonthPanelData{Title: first.Format("January 2006")}
	for _, ev := range m.calendar {
		if !strings.HasPrefix(ev.Date, prefix) {
			continue
		}
		byDate[ev.Date] = append(byDate[ev.Date], ev)
		data.Agenda = append(data.Agenda, views.EventRowData{
			ID:    ev.ID,
			Title: ev.Title,
			Date:  ev.Date,
			Time:  ev.Time,
			Color: string(ev.Color),
		})
	}

	for i := 0; i < 7; i++ {
		data.Weekdays = append(data.Weekdays, ((m.weekStart + time.Weekday(i)) % 7).String()[:2])
	}

	lead := (int(first.Weekday()) - int(m.weekStart) + 7) % 7
	days := time.Date(first.Year(), first.Month()+1, 0, 0, 0, 0, 0, first.Location()).Day()
	cells := make([]views.MonthDayData, lead, lead+days+6)
	for d := 1; d <= days; d++ {
		date := fmt.Sprintf("%s%02d", prefix, d)
		cell := views.MonthDayData{Day: d, Today: date == today, Events: len(byDate[date])}
		if cell.Events > 0 {
			cell.Color = string(byDate[date][0].Color)
		}
		cells = append(cells, cell)
	}
	for len(cells)%7 != 0 {
		cells = append(cells, views.MonthDayData{})
	}
	for i := 0; i < len(cells); i += 7 {
		data.Weeks = append(data.Weeks, cells[i:i+7])
	}
	return views.RenderMonthPanel(data)
}
