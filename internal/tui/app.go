package tui

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"smarttodo-cli/internal/binder"
	"smarttodo-cli/internal/i18n"
	"smarttodo-cli/internal/model"
	"smarttodo-cli/internal/store"
	"smarttodo-cli/internal/timefmt"
)

const clockInterval = time.Second

type appModel struct {
	ctx    context.Context
	binder *binder.Binder
	source NotificationSource
	users  UserDirectory
	state  UIStateStore
	clock  timefmt.Clock
	fmt    timefmt.Formatter
	cat    *i18n.Catalog

	width  int
	height int

	view view
	now  time.Time

	// Calendar.
	selected   time.Time // midnight, formatter location
	day        *model.DayView
	dayOpen    bool
	dayCursor  int
	dayLoading string // date being fetched, "" when idle

	// Notifications.
	notifications []model.Notification
	notifList     list.Model
	notifLoaded   bool

	// Messages.
	recipient  textinput.Model
	composer   textarea.Model
	focus      composeFocus
	candidates []model.User // search results awaiting a pick
	candidate  int
	searching  string // query in flight, "" when idle
	picked     string // display name of the picked recipient

	notices binder.Notices
}

func newAppModel(ctx context.Context, opts Options) appModel {
	if ctx == nil {
		ctx = context.Background()
	}
	clock := opts.Clock
	if clock == nil {
		clock = timefmt.SystemClock{}
	}
	b := opts.Binder
	if b == nil {
		b = &binder.Binder{}
	}
	cat := b.Catalog
	if cat == nil {
		cat = i18n.MustResolve(i18n.DefaultLocale)
	}

	m := appModel{
		ctx:    ctx,
		binder: b,
		source: opts.Notifications,
		users:  opts.Users,
		state:  opts.State,
		clock:  clock,
		fmt:    b.Formatter,
		cat:    cat,
		view:   viewCalendar,
		now:    clock.Now(),
	}
	m.fmt.Catalog = cat

	m.notifList = newList(cat.TabNotifications)

	m.recipient = textinput.New()
	m.recipient.Prompt = cat.RecipientPrompt
	m.recipient.CharLimit = 40

	m.composer = textarea.New()
	m.composer.Placeholder = cat.ComposerPlaceholder
	m.composer.ShowLineNumbers = false
	m.composer.SetHeight(5)

	m.selected = m.today()
	if m.state != nil {
		if st, err := m.state.LoadUIState(); err == nil && st != nil {
			m.view = parseView(st.View)
			if d, ok := m.parseDay(st.SelectedDate); ok {
				m.selected = d
			}
			if st.LastReceiverID > 0 {
				m.recipient.SetValue(strconv.Itoa(st.LastReceiverID))
			}
		}
	}
	if d, ok := m.parseDay(opts.Date); ok {
		m.selected = d
		m.view = viewCalendar
	}
	m.setComposeFocus(focusBody)
	if m.recipient.Value() == "" {
		m.setComposeFocus(focusRecipient)
	}
	return m
}

func (m appModel) Init() tea.Cmd {
	cmds := []tea.Cmd{tickClock(), m.loadNotificationsCmd()}
	return tea.Batch(cmds...)
}

func tickClock() tea.Cmd {
	return tea.Tick(clockInterval, func(t time.Time) tea.Msg { return clockTickMsg{at: t} })
}

func (m appModel) location() *time.Location {
	if m.fmt.Location != nil {
		return m.fmt.Location
	}
	return time.UTC
}

func (m appModel) today() time.Time {
	n := m.clock.Now().In(m.location())
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, m.location())
}

func (m appModel) parseDay(s string) (time.Time, bool) {
	s, err := timefmt.ParseDate(s)
	if err != nil {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(timefmt.LayoutDate, s, m.location())
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (m *appModel) pushNotice(n *binder.Notice) {
	if n == nil {
		return
	}
	m.notices.Push(*n)
}

func (m *appModel) showNotice(text string, isErr bool) {
	lvl := binder.NoticeInfo
	if isErr {
		lvl = binder.NoticeError
	}
	m.notices.Push(binder.Notice{Text: text, Level: lvl, At: m.clock.Now()})
}

func (m appModel) saveUIState() {
	if m.state == nil {
		return
	}
	st := &store.UIState{
		Version:      1,
		View:         m.view.String(),
		SelectedDate: m.selected.Format(timefmt.LayoutDate),
	}
	if id, err := strconv.Atoi(strings.TrimSpace(m.recipient.Value())); err == nil && id > 0 {
		st.LastReceiverID = id
	}
	// Best effort: failing to remember the screen is not worth an error on exit.
	_ = m.state.SaveUIState(st)
}

func (m *appModel) switchView(v view) {
	m.view = v
	if v == viewMessages {
		m.setComposeFocus(m.focus)
	} else {
		m.recipient.Blur()
		m.composer.Blur()
	}
}

// typing reports whether printable keys belong to a text field.
func (m appModel) typing() bool {
	return m.view == viewMessages || m.notifList.FilterState() == list.Filtering
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case clockTickMsg:
		m.now = m.clock.Now()
		m.notices.Expire(m.now)
		return m, tickClock()

	case dayLoadedMsg:
		return m.applyDayLoaded(msg), nil

	case taskToggledMsg:
		return m.applyTaskToggled(msg)

	case notificationsLoadedMsg:
		m.applyNotificationsLoaded(msg)
		return m, nil

	case notificationReadMsg:
		m.applyNotificationRead(msg)
		return m, nil

	case messageSentMsg:
		m.applyMessageSent(msg)
		return m, nil

	case usersFoundMsg:
		m.applyUsersFound(msg)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.saveUIState()
			return m, tea.Quit
		case "tab":
			if !m.dayOpen {
				m.switchView((m.view + 1) % view(len(viewNames)))
				return m, nil
			}
		case "shift+tab":
			if !m.dayOpen {
				m.switchView((m.view + view(len(viewNames)) - 1) % view(len(viewNames)))
				return m, nil
			}
		case "q":
			if !m.typing() && !m.dayOpen {
				m.saveUIState()
				return m, tea.Quit
			}
		}

		switch m.view {
		case viewCalendar:
			if m.dayOpen {
				return m.updateDay(msg)
			}
			return m.updateCalendar(msg)
		case viewNotifications:
			return m.updateNotifications(msg)
		case viewMessages:
			return m.updateMessages(msg)
		}
	}

	switch m.view {
	case viewNotifications:
		var cmd tea.Cmd
		m.notifList, cmd = m.notifList.Update(msg)
		return m, cmd
	case viewMessages:
		return m.updateComposerFields(msg)
	}
	return m, nil
}

func (m *appModel) resize() {
	w, h := m.bodySize()
	m.notifList.SetSize(w/2, h)
	m.recipient.Width = w - xansi.StringWidth(m.recipient.Prompt) - 2
	m.composer.SetWidth(w)
}

// bodySize is the area between the header and the notice line.
func (m appModel) bodySize() (int, int) {
	w := m.width
	if w < 40 {
		w = 40
	}
	h := m.height - 4
	if h < 8 {
		h = 8
	}
	return w, h
}

func (m appModel) View() string {
	w, h := m.bodySize()

	var body string
	switch m.view {
	case viewCalendar:
		body = m.viewCalendar(w, h)
	case viewNotifications:
		body = m.viewNotifications(w, h)
	case viewMessages:
		body = m.viewMessages(w, h)
	}

	return strings.Join([]string{m.viewHeader(w), body, m.viewFooter(w)}, "\n")
}

func (m appModel) viewHeader(width int) string {
	tabs := lipgloss.JoinHorizontal(lipgloss.Top,
		styleTab(m.view == viewCalendar).Render(m.cat.TabCalendar),
		styleTab(m.view == viewNotifications).Render(m.notificationsTabLabel()),
		styleTab(m.view == viewMessages).Render(m.cat.TabMessages),
	)
	clock := styleHeader().Render(m.binder.ClockTicked(m.now))
	gap := width - xansi.StringWidth(tabs) - xansi.StringWidth(clock)
	if gap < 1 {
		return xansi.Truncate(tabs+" "+clock, width, "…")
	}
	return tabs + strings.Repeat(" ", gap) + clock
}

func (m appModel) viewFooter(width int) string {
	if n, ok := m.notices.Latest(); ok && !n.Expired(m.now) {
		return styleNotice(n.Level == binder.NoticeError).Render(xansi.Truncate(n.Text, width-2, "…"))
	}
	var help string
	switch {
	case m.view == viewCalendar && m.dayOpen:
		help = "↑/↓: select  space: toggle  r: reload  esc: close"
	case m.view == viewCalendar:
		help = "←/→/↑/↓: move  [ ]: month  t: today  enter: open day  tab: next view  q: quit"
	case m.view == viewNotifications:
		help = "enter: mark read  r: reload  /: filter  tab: next view  q: quit"
	case m.view == viewMessages && len(m.candidates) > 0:
		help = "↑/↓: select  enter: pick recipient  esc: cancel"
	case m.view == viewMessages && m.focus == focusRecipient:
		help = "enter: confirm id or search @name  ctrl+r: message  tab: next view"
	default:
		help = "enter: send  ctrl+j/alt+enter: new line  ctrl+r: recipient/message  tab: next view"
	}
	return styleMuted().Render(xansi.Truncate(help, width, "…"))
}
