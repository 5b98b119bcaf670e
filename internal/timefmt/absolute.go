package timefmt

import (
	"time"

	"smarttodo-cli/internal/i18n"
)

// Formatter renders instants for one locale and time zone.
// The zero value renders zh-CN in UTC.
type Formatter struct {
	Catalog  *i18n.Catalog
	Location *time.Location
}

func New(c *i18n.Catalog, loc *time.Location) Formatter {
	return Formatter{Catalog: c, Location: loc}
}

func (f Formatter) catalog() *i18n.Catalog {
	if f.Catalog == nil {
		return i18n.MustResolve(i18n.DefaultLocale)
	}
	return f.Catalog
}

func (f Formatter) location() *time.Location {
	if f.Location == nil {
		return time.UTC
	}
	return f.Location
}

// Layouts matching the browser's Intl output for each locale.
const (
	dateLayoutZH  = "2006年1月2日 15:04"
	dateLayoutEN  = "Jan 2, 2006, 03:04 PM"
	clockLayoutZH = "2006/01/02 15:04:05"
	clockLayoutEN = "01/02/2006, 03:04:05 PM"
)

// FormatDate is the reusable absolute-date rendering: year, short month, day,
// two-digit hour and minute.
func (f Formatter) FormatDate(t time.Time) string {
	t = t.In(f.location())
	if f.catalog().IsChinese() {
		return t.Format(dateLayoutZH)
	}
	return t.Format(dateLayoutEN)
}

// FormatDateTime is the numeric "YYYY-MM-DD HH:MM" form used in lists.
func (f Formatter) FormatDateTime(t time.Time) string {
	return t.In(f.location()).Format(LayoutDateTime)
}

func (f Formatter) FormatTimeOfDay(t time.Time) string {
	return t.In(f.location()).Format(LayoutTime)
}

// FormatClock renders the live clock value (seconds precision).
func (f Formatter) FormatClock(t time.Time) string {
	t = t.In(f.location())
	if f.catalog().IsChinese() {
		return t.Format(clockLayoutZH)
	}
	return t.Format(clockLayoutEN)
}

// ClockLine is the full header line, e.g. "当前时间: 2026/10/17 14:05:09".
func (f Formatter) ClockLine(t time.Time) string {
	return f.catalog().ClockPrefix + f.FormatClock(t)
}

func (f Formatter) FormatDateString(ts string) (string, error) {
	t, err := Parse(ts, f.location())
	if err != nil {
		return "", err
	}
	return f.FormatDate(t), nil
}

func (f Formatter) FormatDateTimeString(ts string) (string, error) {
	t, err := Parse(ts, f.location())
	if err != nil {
		return "", err
	}
	return f.FormatDateTime(t), nil
}

func (f Formatter) FormatTimeOfDayString(ts string) (string, error) {
	t, err := Parse(ts, f.location())
	if err != nil {
		return "", err
	}
	return f.FormatTimeOfDay(t), nil
}
