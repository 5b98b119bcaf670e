package binder

import (
	"testing"
	"time"
)

func TestNotices_Expire(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	var q Notices
	q.Push(Notice{Text: "a", At: t0})
	q.Push(Notice{Text: "b", At: t0.Add(3 * time.Second)})
	q.Push(Notice{Text: ""})

	if q.Len() != 2 {
		t.Fatalf("empty notices should be ignored, len=%d", q.Len())
	}
	if n := q.Expire(t0.Add(4999 * time.Millisecond)); n != 0 {
		t.Fatalf("dropped %d before lifetime", n)
	}
	if n := q.Expire(t0.Add(5 * time.Second)); n != 1 {
		t.Fatalf("dropped %d at 5s, want 1", n)
	}
	if latest, ok := q.Latest(); !ok || latest.Text != "b" {
		t.Fatalf("latest=%#v ok=%v", latest, ok)
	}
	q.Expire(t0.Add(time.Minute))
	if _, ok := q.Latest(); ok || len(q.Active()) != 0 {
		t.Fatalf("queue should be empty")
	}
}
