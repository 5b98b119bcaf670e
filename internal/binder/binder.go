// Package binder turns user interface events into backend calls and explicit
// results. It never touches the screen: the caller applies the returned
// Effect and shows the Notice.
package binder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"smarttodo-cli/internal/client"
	"smarttodo-cli/internal/i18n"
	"smarttodo-cli/internal/model"
	"smarttodo-cli/internal/store"
	"smarttodo-cli/internal/timefmt"
)

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrNoReceiver   = errors.New("no message receiver")
	ErrInvalidDate  = errors.New("invalid date")
)

// Backend is the subset of the web API the binder drives.
type Backend interface {
	ToggleTask(ctx context.Context, id int, completed bool) error
	MarkNotificationRead(ctx context.Context, id int) error
	SendMessage(ctx context.Context, msg model.Message) error
	TasksOnDate(ctx context.Context, date string) ([]model.Task, error)
}

// DayCache keeps the last good task list per day for offline viewing.
type DayCache interface {
	PutDay(ctx context.Context, server, date string, tasks []model.Task, fetchedAt time.Time) error
	Day(ctx context.Context, server, date string) (store.CachedDay, bool, error)
}

type Effect int

const (
	EffectNone Effect = iota
	// EffectReload asks for the whole task view to be refetched.
	EffectReload
	// EffectMarkRead flips the read flag of Result.ID locally.
	EffectMarkRead
	// EffectClearInput empties the message composer.
	EffectClearInput
	// EffectShowDay opens Result.Day.
	EffectShowDay
)

func (e Effect) String() string {
	switch e {
	case EffectReload:
		return "reload"
	case EffectMarkRead:
		return "mark-read"
	case EffectClearInput:
		return "clear-input"
	case EffectShowDay:
		return "show-day"
	default:
		return "none"
	}
}

// Result is the outcome of one handled event. Err is nil on success; Notice
// is set whenever there is something to tell the user.
type Result struct {
	Effect Effect
	ID     int
	Day    *model.DayView
	Notice *Notice
	Err    error
}

func (r Result) OK() bool { return r.Err == nil }

type Binder struct {
	Backend Backend
	// Cache is optional.
	Cache DayCache
	// Server scopes cache entries.
	Server    string
	Catalog   *i18n.Catalog
	Formatter timefmt.Formatter
	Clock     timefmt.Clock
	Logger    *slog.Logger
}

func New(backend Backend, cache DayCache, server string, f timefmt.Formatter, clock timefmt.Clock) *Binder {
	if clock == nil {
		clock = timefmt.SystemClock{}
	}
	return &Binder{
		Backend:   backend,
		Cache:     cache,
		Server:    server,
		Catalog:   f.Catalog,
		Formatter: f,
		Clock:     clock,
	}
}

func (b *Binder) catalog() *i18n.Catalog {
	if b.Catalog != nil {
		return b.Catalog
	}
	return i18n.MustResolve(i18n.DefaultLocale)
}

func (b *Binder) now() time.Time {
	if b.Clock == nil {
		return time.Now()
	}
	return b.Clock.Now()
}

func (b *Binder) log() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return b.Logger
}

func (b *Binder) info(text string) *Notice {
	return &Notice{Text: text, Level: NoticeInfo, At: b.now()}
}

// Fail wraps err into a failed Result with a notice describing it.
func (b *Binder) Fail(err error) Result {
	return Result{Err: err, Notice: &Notice{Text: b.describe(err), Level: NoticeError, At: b.now()}}
}

func (b *Binder) describe(err error) string {
	c := b.catalog()
	switch {
	case errors.Is(err, client.ErrUnauthenticated):
		return c.NoticeUnauth
	case errors.Is(err, client.ErrNetwork):
		return fmt.Sprintf(c.NoticeNetwork, err)
	case errors.Is(err, ErrEmptyMessage):
		return c.NoticeEmptyMessage
	case errors.Is(err, ErrNoReceiver):
		return c.NoticeNoReceiver
	default:
		return err.Error()
	}
}

// TaskToggled handles a task checkbox change. On success the task view must
// be reloaded since the backend may also change the task's status.
func (b *Binder) TaskToggled(ctx context.Context, taskID int, checked bool) Result {
	if err := b.Backend.ToggleTask(ctx, taskID, checked); err != nil {
		b.log().Warn("toggle task failed", "task", taskID, "err", err)
		return b.Fail(err)
	}
	return Result{Effect: EffectReload, ID: taskID, Notice: b.info(b.catalog().NoticeTaskUpdated)}
}

// NotificationClicked marks a notification read. Only the clicked entry
// changes; nothing is reloaded.
func (b *Binder) NotificationClicked(ctx context.Context, notificationID int) Result {
	if err := b.Backend.MarkNotificationRead(ctx, notificationID); err != nil {
		b.log().Warn("mark notification read failed", "notification", notificationID, "err", err)
		return b.Fail(err)
	}
	return Result{Effect: EffectMarkRead, ID: notificationID}
}

// MessageSubmitted sends content to receiverID. Whitespace-only content is
// rejected without a backend call.
func (b *Binder) MessageSubmitted(ctx context.Context, receiverID int, content string) Result {
	if strings.TrimSpace(content) == "" {
		return b.Fail(ErrEmptyMessage)
	}
	if receiverID <= 0 {
		return b.Fail(ErrNoReceiver)
	}
	if err := b.Backend.SendMessage(ctx, model.Message{ReceiverID: receiverID, Content: content}); err != nil {
		b.log().Warn("send message failed", "receiver", receiverID, "err", err)
		return b.Fail(err)
	}
	return Result{Effect: EffectClearInput, ID: receiverID, Notice: b.info(b.catalog().NoticeMessageSent)}
}

// CalendarDayClicked loads the tasks of date (YYYY-MM-DD). When the backend is
// unreachable the last cached copy of the day is shown instead, marked stale.
func (b *Binder) CalendarDayClicked(ctx context.Context, date string) Result {
	date, err := timefmt.ParseDate(date)
	if err != nil {
		return b.Fail(fmt.Errorf("%w: %v", ErrInvalidDate, err))
	}

	tasks, err := b.Backend.TasksOnDate(ctx, date)
	if err == nil {
		if b.Cache != nil {
			if cerr := b.Cache.PutDay(ctx, b.Server, date, tasks, b.now()); cerr != nil {
				b.log().Warn("cache day failed", "date", date, "err", cerr)
			}
		}
		day := BuildDayView(b.catalog(), date, tasks)
		return Result{Effect: EffectShowDay, Day: &day}
	}

	b.log().Warn("load day failed", "date", date, "err", err)
	if b.Cache == nil || !errors.Is(err, client.ErrNetwork) || errors.Is(err, client.ErrUnauthenticated) {
		return b.Fail(err)
	}
	cached, ok, cerr := b.Cache.Day(ctx, b.Server, date)
	if cerr != nil || !ok {
		if cerr != nil {
			b.log().Warn("read cached day failed", "date", date, "err", cerr)
		}
		return b.Fail(err)
	}

	day := BuildDayView(b.catalog(), date, cached.Tasks)
	day.Stale = true
	day.FetchedAt = b.Formatter.FormatDateTime(cached.FetchedAt)
	age, rerr := b.Formatter.Relative(cached.FetchedAt, b.now())
	if rerr != nil {
		age = day.FetchedAt
	}
	res := b.Fail(err)
	res.Effect = EffectShowDay
	res.Day = &day
	res.Notice.Text = fmt.Sprintf(b.catalog().NoticeStaleDay, age) + " · " + res.Notice.Text
	return res
}

// ClockTicked returns the clock line for now.
func (b *Binder) ClockTicked(now time.Time) string {
	return b.Formatter.ClockLine(now)
}

// BuildDayView renders tasks as day entries in backend order. An empty day
// gets one placeholder entry.
func BuildDayView(c *i18n.Catalog, date string, tasks []model.Task) model.DayView {
	day := model.DayView{
		Date:  date,
		Title: c.DayTitlePrefix + date,
	}
	if len(tasks) == 0 {
		day.Entries = []model.DayEntry{{Text: c.EmptyDay, Placeholder: true}}
		return day
	}
	day.Entries = make([]model.DayEntry, 0, len(tasks))
	for _, t := range tasks {
		day.Entries = append(day.Entries, model.DayEntry{
			TaskID:    t.ID,
			Text:      t.Name,
			Completed: t.Completed(),
		})
	}
	return day
}
