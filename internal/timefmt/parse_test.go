package timefmt

import (
	"errors"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	t.Parallel()

	cst := time.FixedZone("CST", 8*60*60)
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2026-10-17T14:05:09Z", time.Date(2026, 10, 17, 14, 5, 9, 0, time.UTC)},
		{"2026-10-17T14:05:09+08:00", time.Date(2026, 10, 17, 6, 5, 9, 0, time.UTC)},
		{"2026-10-17 14:05:09+08:00", time.Date(2026, 10, 17, 6, 5, 9, 0, time.UTC)},
		{"2026-10-17T14:05:09.250000", time.Date(2026, 10, 17, 14, 5, 9, 250_000_000, cst)},
		{"2026-10-17T14:05", time.Date(2026, 10, 17, 14, 5, 0, 0, cst)},
		{"2026-10-17 14:05", time.Date(2026, 10, 17, 14, 5, 0, 0, cst)},
		{"  2026-10-17  ", time.Date(2026, 10, 17, 0, 0, 0, 0, cst)},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in, cst)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.in, err)
		}
		if !got.Equal(tt.want) {
			t.Fatalf("Parse(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "   ", "now", "2026-10-17T25:00", "2026-10-17T14:05+0800x"} {
		if _, err := Parse(in, time.UTC); !errors.Is(err, ErrInvalidTimestamp) {
			t.Fatalf("Parse(%q): expected ErrInvalidTimestamp, got %v", in, err)
		}
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	if got, err := ParseDate(" 2026-02-03 "); err != nil || got != "2026-02-03" {
		t.Fatalf("got %q err=%v", got, err)
	}
	for _, in := range []string{"2026-2-3", "2026-02-30", "tomorrow"} {
		if _, err := ParseDate(in); !errors.Is(err, ErrInvalidTimestamp) {
			t.Fatalf("ParseDate(%q): expected error, got %v", in, err)
		}
	}
}
