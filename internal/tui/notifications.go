package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"smarttodo-cli/internal/binder"
	"smarttodo-cli/internal/format"
	"smarttodo-cli/internal/model"
)

type notificationItem struct {
	n   model.Notification
	age string
}

func (it notificationItem) Title() string {
	if it.n.Read {
		return "  " + it.n.Title
	}
	return "● " + it.n.Title
}

func (it notificationItem) Description() string {
	desc := format.Truncate(strings.ReplaceAll(it.n.Content, "\n", " "), 60)
	if it.age == "" {
		return desc
	}
	if desc == "" {
		return it.age
	}
	return it.age + " · " + desc
}

func (it notificationItem) FilterValue() string { return it.n.Title + " " + it.n.Content }

func newList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	// esc is "back"; only q and ctrl+c quit.
	l.KeyMap.Quit.SetKeys("q")
	cursorUpKeys := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	l.KeyMap.CursorUp.SetKeys(append(cursorUpKeys, "ctrl+p")...)
	cursorDownKeys := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	l.KeyMap.CursorDown.SetKeys(append(cursorDownKeys, "ctrl+n")...)
	return l
}

func (m appModel) loadNotificationsCmd() tea.Cmd {
	if m.source == nil {
		return nil
	}
	src, ctx := m.source, m.ctx
	return func() tea.Msg {
		items, err := src.Notifications(ctx)
		return notificationsLoadedMsg{items: items, err: err}
	}
}

func (m *appModel) applyNotificationsLoaded(msg notificationsLoadedMsg) {
	if msg.err != nil {
		m.pushNotice(m.binderFailure(msg.err))
		return
	}
	m.notifLoaded = true
	m.notifications = msg.items
	m.refreshNotifications()
}

// binderFailure describes an error the same way handler results do.
func (m appModel) binderFailure(err error) *binder.Notice {
	return m.binder.Fail(err).Notice
}

func (m *appModel) refreshNotifications() {
	cur := m.notifList.Index()
	items := make([]list.Item, 0, len(m.notifications))
	for _, n := range m.notifications {
		age, err := m.fmt.RelativeString(n.CreatedAt, m.now)
		if err != nil {
			age = ""
		}
		items = append(items, notificationItem{n: n, age: age})
	}
	m.notifList.SetItems(items)
	if cur < len(items) {
		m.notifList.Select(cur)
	}
}

func (m appModel) unreadCount() int {
	n := 0
	for _, it := range m.notifications {
		if !it.Read {
			n++
		}
	}
	return n
}

func (m appModel) notificationsTabLabel() string {
	if c := m.unreadCount(); c > 0 {
		return m.cat.TabNotifications + " (" + strconv.Itoa(c) + ")"
	}
	return m.cat.TabNotifications
}

func (m appModel) updateNotifications(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.notifList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.notifList, cmd = m.notifList.Update(msg)
		return m, cmd
	}
	switch msg.String() {
	case "r":
		return m, m.loadNotificationsCmd()
	case "enter":
		it, ok := m.notifList.SelectedItem().(notificationItem)
		if !ok || it.n.Read {
			return m, nil
		}
		b, ctx, id := m.binder, m.ctx, it.n.ID
		return m, func() tea.Msg {
			return notificationReadMsg{res: b.NotificationClicked(ctx, id)}
		}
	}
	var cmd tea.Cmd
	m.notifList, cmd = m.notifList.Update(msg)
	return m, cmd
}

func (m *appModel) applyNotificationRead(msg notificationReadMsg) {
	m.pushNotice(msg.res.Notice)
	if msg.res.Effect != binder.EffectMarkRead {
		return
	}
	for i := range m.notifications {
		if m.notifications[i].ID == msg.res.ID {
			m.notifications[i].Read = true
		}
	}
	m.refreshNotifications()
}

func (m appModel) viewNotifications(width, height int) string {
	if m.notifLoaded && len(m.notifications) == 0 {
		return lipgloss.NewStyle().Width(width).Height(height).Render(styleMuted().Render(m.cat.NoNotifications))
	}
	if !m.notifLoaded {
		return lipgloss.NewStyle().Width(width).Height(height).Render(styleMuted().Render(m.cat.Loading))
	}

	listWidth := width / 2
	m.notifList.SetSize(listWidth, height)
	left := m.notifList.View()

	detailWidth := width - listWidth - 2
	var detail string
	if it, ok := m.notifList.SelectedItem().(notificationItem); ok {
		head := styleHeader().Render(xansi.Truncate(it.n.Title, detailWidth, "…"))
		if at, err := m.fmt.FormatDateTimeString(it.n.CreatedAt); err == nil {
			head += "\n" + styleMuted().Render(at)
		}
		detail = head + "\n\n" + renderMarkdown(format.PostContentMarkdown(it.n.Content), detailWidth)
	}
	detail = lipgloss.NewStyle().Width(detailWidth).Height(height).Render(detail)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", detail)
}
