package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Header       string
	LeftPane     string
	RightPane    string
	StatusLine   string
	StatusError  bool
	Footer       string
	Notification string
	Modal        string
	Dark         bool
}

// Palette is the set of colors one theme uses.
type Palette struct {
	Accent lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	OK     lipgloss.Color
	Error  lipgloss.Color
	Border lipgloss.Color
}

var (
	darkPalette = Palette{
		Accent: lipgloss.Color("12"),
		Text:   lipgloss.Color("15"),
		Muted:  lipgloss.Color("8"),
		OK:     lipgloss.Color("10"),
		Error:  lipgloss.Color("9"),
		Border: lipgloss.Color("62"),
	}
	lightPalette = Palette{
		Accent: lipgloss.Color("4"),
		Text:   lipgloss.Color("0"),
		Muted:  lipgloss.Color("244"),
		OK:     lipgloss.Color("2"),
		Error:  lipgloss.Color("1"),
		Border: lipgloss.Color("250"),
	}
)

func PaletteFor(dark bool) Palette {
	if dark {
		return darkPalette
	}
	return lightPalette
}

// GlamourStyle names the glamour standard style matching the theme.
func GlamourStyle(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}

func RenderApp(data AppData) string {
	p := PaletteFor(data.Dark)
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(p.Accent)
	statusStyle := lipgloss.NewStyle().Foreground(p.OK)
	errorStyle := lipgloss.NewStyle().Foreground(p.Error)
	panelStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Border).Padding(0, 1)
	footerStyle := lipgloss.NewStyle().Foreground(p.Muted)

	if data.Modal != "" {
		modalStyle := lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(p.Error).Padding(1, 3).Bold(true)
		return strings.Join([]string{
			headerStyle.Render(data.Header),
			modalStyle.Render(data.Modal),
			footerStyle.Render("[enter] dismiss"),
		}, "\n")
	}

	left := panelStyle.Width(62).Render(data.LeftPane)
	row := left
	if strings.TrimSpace(data.RightPane) != "" {
		right := panelStyle.Width(46).Render(data.RightPane)
		row = lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	}

	status := statusStyle.Render(data.StatusLine)
	if data.StatusError {
		status = errorStyle.Render(data.StatusLine)
	}

	lines := []string{
		headerStyle.Render(data.Header),
		row,
		status,
	}
	if data.Notification != "" {
		lines = append(lines, panelStyle.Render(data.Notification))
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

func RenderMarkdown(md string, dark bool) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, GlamourStyle(dark))
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
