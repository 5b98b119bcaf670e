package timefmt

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	// ErrInvalidTimestamp is returned when an input cannot be parsed into an instant.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	// ErrFutureTimestamp is returned when the instant lies after "now".
	ErrFutureTimestamp = errors.New("timestamp is in the future")
)

const (
	LayoutDate     = "2006-01-02"
	LayoutDateTime = "2006-01-02 15:04"
	LayoutTime     = "15:04"
)

var (
	reDateOnly   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	reSpaceSep   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d`)
	reHasOffset  = regexp.MustCompile(`(Z|[+-]\d{2}:?\d{2})$`)
	naiveLayouts = []string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
	}
)

// Parse turns a serialized timestamp into an instant.
//
// Accepted:
// - RFC3339 / RFC3339Nano (including a trailing Z)
// - naive ISO date-times (YYYY-MM-DDTHH:MM[:SS[.ffffff]]), as emitted by the backend
// - the same with a space instead of T
// - YYYY-MM-DD (midnight)
//
// Naive values carry no offset and are interpreted in loc.
func Parse(s string, loc *time.Location) (time.Time, error) {
	raw := s
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidTimestamp)
	}
	if loc == nil {
		loc = time.UTC
	}
	if reSpaceSep.MatchString(s) {
		s = s[:10] + "T" + s[11:]
	}

	if reDateOnly.MatchString(s) {
		t, err := time.ParseInLocation(LayoutDate, s, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, raw)
		}
		return t, nil
	}

	if reHasOffset.MatchString(s) {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t, nil
		}
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, raw)
	}

	for _, layout := range naiveLayouts {
		// Fractional seconds after the seconds field are accepted without being in the layout.
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q (expected RFC3339, YYYY-MM-DDTHH:MM[:SS] or YYYY-MM-DD)", ErrInvalidTimestamp, raw)
}

// ParseDate validates a calendar date (YYYY-MM-DD) and returns it normalized.
func ParseDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !reDateOnly.MatchString(s) {
		return "", fmt.Errorf("%w: %q (expected YYYY-MM-DD)", ErrInvalidTimestamp, s)
	}
	t, err := time.Parse(LayoutDate, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
	}
	return t.Format(LayoutDate), nil
}
