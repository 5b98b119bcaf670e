package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"smarttodo-cli/internal/binder"
	"smarttodo-cli/internal/timefmt"
)

const calendarCellWidth = 5

// monthGrid returns the weeks (Monday first) covering the month of anchor.
// Days outside the month fill the first and last week.
func monthGrid(anchor time.Time) [][]time.Time {
	loc := anchor.Location()
	first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, loc)
	offset := (int(first.Weekday()) + 6) % 7
	start := first.AddDate(0, 0, -offset)

	var weeks [][]time.Time
	for d := start; ; {
		week := make([]time.Time, 7)
		for i := range week {
			week[i] = d
			d = d.AddDate(0, 0, 1)
		}
		weeks = append(weeks, week)
		if d.Month() != anchor.Month() {
			break
		}
	}
	return weeks
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// addMonths moves by n months, clamping the day to the target month's length.
func addMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, t.Location())
}

func (m appModel) selectedDate() string {
	return m.selected.Format(timefmt.LayoutDate)
}

func (m appModel) updateCalendar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		m.selected = m.selected.AddDate(0, 0, -1)
	case "right", "l":
		m.selected = m.selected.AddDate(0, 0, 1)
	case "up", "k":
		m.selected = m.selected.AddDate(0, 0, -7)
	case "down", "j":
		m.selected = m.selected.AddDate(0, 0, 7)
	case "[", "pgup":
		m.selected = addMonths(m.selected, -1)
	case "]", "pgdown":
		m.selected = addMonths(m.selected, 1)
	case "t":
		m.selected = m.today()
	case "enter", " ":
		m.dayOpen = true
		m.dayCursor = 0
		m.day = nil
		cmd := m.loadDayCmd(m.selectedDate())
		return m, cmd
	}
	return m, nil
}

func (m *appModel) loadDayCmd(date string) tea.Cmd {
	m.dayLoading = date
	b, ctx := m.binder, m.ctx
	return func() tea.Msg {
		return dayLoadedMsg{date: date, res: b.CalendarDayClicked(ctx, date)}
	}
}

func (m appModel) applyDayLoaded(msg dayLoadedMsg) appModel {
	if msg.date != m.dayLoading {
		// Superseded by a later request.
		return m
	}
	m.dayLoading = ""
	m.pushNotice(msg.res.Notice)
	if msg.res.Effect == binder.EffectShowDay && msg.res.Day != nil {
		m.day = msg.res.Day
		if m.dayCursor >= len(m.day.Entries) {
			m.dayCursor = len(m.day.Entries) - 1
		}
		if m.dayCursor < 0 {
			m.dayCursor = 0
		}
		return m
	}
	if m.day == nil {
		m.dayOpen = false
	}
	return m
}

func (m appModel) viewCalendar(width, height int) string {
	grid := m.renderMonth()
	if !m.dayOpen {
		return lipgloss.NewStyle().Width(width).Height(height).Render(grid)
	}
	modalWidth := width - lipgloss.Width(grid) - 4
	if modalWidth < 24 {
		modalWidth = 24
	}
	return lipgloss.NewStyle().Width(width).Height(height).Render(
		lipgloss.JoinHorizontal(lipgloss.Top, grid, "  ", m.renderDay(modalWidth)),
	)
}

func (m appModel) renderMonth() string {
	today := m.today()
	var b strings.Builder

	title := m.selected.Format(m.cat.MonthLayout)
	b.WriteString(styleHeader().Render(padCenter(title, calendarCellWidth*7)))
	b.WriteString("\n")

	for _, wd := range m.cat.Weekdays {
		b.WriteString(styleMuted().Render(padLeft(wd, calendarCellWidth)))
	}
	b.WriteString("\n")

	for _, week := range monthGrid(m.selected) {
		for _, d := range week {
			cell := padLeft(d.Format("2"), calendarCellWidth-1) + " "
			st := lipgloss.NewStyle()
			switch {
			case sameDay(d, m.selected):
				st = styleSelected()
			case sameDay(d, today):
				st = st.Foreground(colorToday).Bold(true)
			case d.Month() != m.selected.Month():
				st = styleMuted()
			}
			b.WriteString(st.Render(cell))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func padLeft(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return strings.Repeat(" ", width-w) + s
}

func padCenter(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-w-left)
}
