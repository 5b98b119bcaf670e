package timefmt

import (
	"fmt"
	"time"
)

// Bucket is the elapsed-time category a relative string is rendered from.
type Bucket int

const (
	BucketJustNow Bucket = iota
	BucketMinutes
	BucketHours
	BucketDays
	BucketMonths
	BucketYears
)

func (b Bucket) String() string {
	switch b {
	case BucketJustNow:
		return "just-now"
	case BucketMinutes:
		return "minutes"
	case BucketHours:
		return "hours"
	case BucketDays:
		return "days"
	case BucketMonths:
		return "months"
	case BucketYears:
		return "years"
	default:
		return "unknown"
	}
}

// Months are 30 days and years are 12 such months. These are not calendar
// accurate and must stay that way: the web client renders the same buckets.
const (
	daysPerMonth   = 30
	monthsPerYear  = 12
	secondsPerDay  = 24 * 60 * 60
	secondsPerHour = 60 * 60
)

// ElapsedSeconds is the whole number of seconds from t to now, with
// sub-second remainders dropped. Unlike now.Sub(t) it does not saturate for
// instants centuries apart.
func ElapsedSeconds(t, now time.Time) int64 {
	s := now.Unix() - t.Unix()
	ns := now.Nanosecond() - t.Nanosecond()
	switch {
	case s > 0 && ns < 0:
		s--
	case s < 0 && ns > 0:
		s++
	}
	return s
}

// Between classifies the time elapsed from t to now. An instant after now,
// even by a fraction of a second, is ErrFutureTimestamp.
func Between(t, now time.Time) (Bucket, int64, error) {
	if t.After(now) {
		ahead := -ElapsedSeconds(t, now)
		return 0, 0, fmt.Errorf("%w: %ds ahead", ErrFutureTimestamp, ahead)
	}
	return Classify(ElapsedSeconds(t, now))
}

// Classify picks the bucket for an elapsed number of seconds, largest unit
// first, with floor truncation at every step. Negative values are
// ErrFutureTimestamp.
func Classify(seconds int64) (Bucket, int64, error) {
	if seconds < 0 {
		return 0, 0, fmt.Errorf("%w: %ds ahead", ErrFutureTimestamp, -seconds)
	}
	s := seconds
	if s < 60 {
		return BucketJustNow, 0, nil
	}
	minutes := s / 60
	if minutes < 60 {
		return BucketMinutes, minutes, nil
	}
	hours := s / secondsPerHour
	if hours < 24 {
		return BucketHours, hours, nil
	}
	days := s / secondsPerDay
	if days < daysPerMonth {
		return BucketDays, days, nil
	}
	months := days / daysPerMonth
	if months < monthsPerYear {
		return BucketMonths, months, nil
	}
	return BucketYears, months / monthsPerYear, nil
}

// Relative renders how long before now the instant t was.
func (f Formatter) Relative(t, now time.Time) (string, error) {
	b, n, err := Between(t, now)
	if err != nil {
		return "", err
	}
	c := f.catalog()
	switch b {
	case BucketJustNow:
		return c.JustNow, nil
	case BucketMinutes:
		return fmt.Sprintf(c.MinutesAgo, n), nil
	case BucketHours:
		return fmt.Sprintf(c.HoursAgo, n), nil
	case BucketDays:
		return fmt.Sprintf(c.DaysAgo, n), nil
	case BucketMonths:
		return fmt.Sprintf(c.MonthsAgo, n), nil
	default:
		return fmt.Sprintf(c.YearsAgo, n), nil
	}
}

// RelativeString parses ts and renders it relative to now.
func (f Formatter) RelativeString(ts string, now time.Time) (string, error) {
	t, err := Parse(ts, f.location())
	if err != nil {
		return "", err
	}
	return f.Relative(t, now)
}
