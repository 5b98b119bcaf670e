package binder

import "time"

// NoticeLifetime is how long a notice stays on screen.
const NoticeLifetime = 5 * time.Second

type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeError
)

// Notice is a short non-blocking message for the user.
type Notice struct {
	Text  string
	Level NoticeLevel
	At    time.Time
}

func (n Notice) Expired(now time.Time) bool {
	return !now.Before(n.At.Add(NoticeLifetime))
}

// Notices is a FIFO of notices. The zero value is ready to use.
type Notices struct {
	items []Notice
}

func (q *Notices) Push(n Notice) {
	if n.Text == "" {
		return
	}
	q.items = append(q.items, n)
}

// Expire drops every notice whose lifetime has elapsed at now and reports how
// many were dropped.
func (q *Notices) Expire(now time.Time) int {
	kept := q.items[:0]
	for _, n := range q.items {
		if !n.Expired(now) {
			kept = append(kept, n)
		}
	}
	dropped := len(q.items) - len(kept)
	q.items = kept
	return dropped
}

// Active returns the live notices, oldest first.
func (q *Notices) Active() []Notice {
	out := make([]Notice, len(q.items))
	copy(out, q.items)
	return out
}

// Latest returns the newest notice, if any.
func (q *Notices) Latest() (Notice, bool) {
	if len(q.items) == 0 {
		return Notice{}, false
	}
	return q.items[len(q.items)-1], true
}

func (q *Notices) Len() int { return len(q.items) }
