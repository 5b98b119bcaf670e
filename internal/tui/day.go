package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"smarttodo-cli/internal/binder"
)

func (m appModel) updateDay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		m.dayOpen = false
		m.dayLoading = ""
		return m, nil
	case "up", "k", "ctrl+p":
		if m.dayCursor > 0 {
			m.dayCursor--
		}
	case "down", "j", "ctrl+n":
		if m.day != nil && m.dayCursor < len(m.day.Entries)-1 {
			m.dayCursor++
		}
	case "r":
		cmd := m.loadDayCmd(m.selectedDate())
		return m, cmd
	case " ", "x":
		if m.day == nil || m.dayCursor >= len(m.day.Entries) {
			return m, nil
		}
		e := m.day.Entries[m.dayCursor]
		if e.Placeholder {
			return m, nil
		}
		b, ctx, date := m.binder, m.ctx, m.day.Date
		return m, func() tea.Msg {
			return taskToggledMsg{date: date, res: b.TaskToggled(ctx, e.TaskID, !e.Completed)}
		}
	}
	return m, nil
}

func (m appModel) applyTaskToggled(msg taskToggledMsg) (tea.Model, tea.Cmd) {
	m.pushNotice(msg.res.Notice)
	if msg.res.Effect != binder.EffectReload || !m.dayOpen || m.selectedDate() != msg.date {
		return m, nil
	}
	cmd := m.loadDayCmd(msg.date)
	return m, cmd
}

func (m appModel) renderDay(width int) string {
	inner := width - 4
	var lines []string

	switch {
	case m.day == nil:
		lines = append(lines, styleHeader().Render(m.cat.DayTitlePrefix+m.selectedDate()))
		lines = append(lines, styleMuted().Render(m.cat.Loading))
	default:
		title := m.day.Title
		if m.day.Stale {
			title += "  " + styleMuted().Render("("+m.cat.Offline+" "+m.day.FetchedAt+")")
		}
		lines = append(lines, styleHeader().Render(title))
		for i, e := range m.day.Entries {
			var line string
			switch {
			case e.Placeholder:
				line = styleMuted().Render(e.Text)
			case e.Completed:
				line = "[x] " + lipgloss.NewStyle().Foreground(colorDone).Strikethrough(true).Render(e.Text)
			default:
				line = "[ ] " + e.Text
			}
			line = xansi.Truncate(line, inner, "…")
			if i == m.dayCursor && !e.Placeholder {
				line = styleSelected().Render(xansi.Strip(line))
			}
			lines = append(lines, line)
		}
	}
	return styleModal().Width(width - 2).Render(strings.Join(lines, "\n"))
}
