package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"smarttodo-cli/internal/binder"
	"smarttodo-cli/internal/format"
	"smarttodo-cli/internal/model"
)

// composerKey maps a terminal key to the composer's key model. Terminals
// deliver Ctrl+Enter as Ctrl+J (line feed) and cannot report Shift+Enter.
func composerKey(msg tea.KeyMsg) binder.Key {
	switch msg.Type {
	case tea.KeyEnter:
		return binder.Key{Name: "enter", Alt: msg.Alt}
	case tea.KeyCtrlJ:
		return binder.Key{Name: "enter", Ctrl: true}
	}
	return binder.Key{Name: msg.String(), Alt: msg.Alt}
}

func (m *appModel) setComposeFocus(f composeFocus) {
	m.focus = f
	if m.view != viewMessages {
		return
	}
	if f == focusRecipient {
		m.composer.Blur()
		m.recipient.Focus()
		return
	}
	m.recipient.Blur()
	m.composer.Focus()
}

func (m appModel) receiverID() int {
	id, err := strconv.Atoi(strings.TrimSpace(m.recipient.Value()))
	if err != nil {
		return 0
	}
	return id
}

func (m appModel) updateMessages(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+r" {
		if m.focus == focusRecipient {
			m.setComposeFocus(focusBody)
		} else {
			m.setComposeFocus(focusRecipient)
		}
		return m, nil
	}

	if m.focus == focusRecipient {
		return m.updateRecipient(msg)
	}

	switch binder.MessageKey(composerKey(msg)) {
	case binder.KeySubmit:
		b, ctx := m.binder, m.ctx
		receiver, content := m.receiverID(), m.composer.Value()
		return m, func() tea.Msg {
			return messageSentMsg{res: b.MessageSubmitted(ctx, receiver, content)}
		}
	case binder.KeyNewline:
		m.composer.InsertString("\n")
		return m, nil
	}
	return m.updateComposerFields(msg)
}

// updateRecipient handles the recipient field: a numeric id is taken as is,
// anything else (optionally prefixed with @) is looked up in the user
// directory and picked from the results.
func (m appModel) updateRecipient(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(m.candidates) > 0 {
		switch msg.String() {
		case "up", "ctrl+p":
			if m.candidate > 0 {
				m.candidate--
			}
			return m, nil
		case "down", "ctrl+n":
			if m.candidate < len(m.candidates)-1 {
				m.candidate++
			}
			return m, nil
		case "esc":
			m.candidates = nil
			return m, nil
		case "enter":
			m.pickRecipient(m.candidates[m.candidate])
			return m, nil
		}
		m.candidates = nil
	}

	if msg.Type != tea.KeyEnter {
		return m.updateComposerFields(msg)
	}
	value := strings.TrimSpace(m.recipient.Value())
	if m.receiverID() > 0 || value == "" {
		m.setComposeFocus(focusBody)
		return m, nil
	}
	query := strings.TrimSpace(strings.TrimPrefix(value, "@"))
	if query == "" || m.users == nil {
		m.showNotice(m.cat.NoticeNoReceiver, true)
		return m, nil
	}
	m.searching = query
	users, ctx := m.users, m.ctx
	return m, func() tea.Msg {
		found, err := users.SearchUsers(ctx, query)
		return usersFoundMsg{query: query, users: found, err: err}
	}
}

func (m *appModel) applyUsersFound(msg usersFoundMsg) {
	if msg.query != m.searching {
		return
	}
	m.searching = ""
	switch {
	case msg.err != nil:
		m.pushNotice(m.binder.Fail(msg.err).Notice)
	case len(msg.users) == 0:
		m.showNotice(fmt.Sprintf(m.cat.NoUsersFound, msg.query), true)
	case len(msg.users) == 1:
		m.pickRecipient(msg.users[0])
	default:
		for _, u := range msg.users {
			if strings.EqualFold(u.Username, msg.query) {
				m.pickRecipient(u)
				return
			}
		}
		m.candidates = msg.users
		m.candidate = 0
	}
}

func (m *appModel) pickRecipient(u model.User) {
	m.recipient.SetValue(strconv.Itoa(u.ID))
	m.picked = u.DisplayName()
	m.candidates = nil
	m.setComposeFocus(focusBody)
}

func (m appModel) updateComposerFields(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.focus == focusRecipient {
		before := m.recipient.Value()
		m.recipient, cmd = m.recipient.Update(msg)
		if m.recipient.Value() != before {
			m.picked = ""
		}
	} else {
		m.composer, cmd = m.composer.Update(msg)
	}
	return m, cmd
}

func (m *appModel) applyMessageSent(msg messageSentMsg) {
	m.pushNotice(msg.res.Notice)
	if msg.res.Effect == binder.EffectClearInput {
		m.composer.Reset()
	}
}

func (m appModel) viewMessages(width, height int) string {
	m.composer.SetWidth(width)
	recipient := m.recipient.View()
	if m.picked != "" {
		recipient += "  " + styleMuted().Render("→ "+m.picked)
	}
	parts := []string{recipient}
	for i, u := range m.candidates {
		line := fmt.Sprintf("  %d  %s (@%s)", u.ID, u.DisplayName(), u.Username)
		if i == m.candidate {
			line = styleSelected().Render(line)
		}
		parts = append(parts, line)
	}
	parts = append(parts, "", m.composer.View())
	if preview := renderMarkdown(format.PostContentMarkdown(m.composer.Value()), width); preview != "" {
		parts = append(parts, "", styleMuted().Render("—"), preview)
	}
	return lipgloss.NewStyle().Width(width).Height(height).MaxHeight(height).Render(strings.Join(parts, "\n"))
}
