package binder

// Key is a key press as seen by the message composer.
type Key struct {
	Name  string // "enter", "a", "backspace", ...
	Ctrl  bool
	Alt   bool
	Shift bool
}

type KeyDecision int

const (
	// KeyPass leaves the key to the text input.
	KeyPass KeyDecision = iota
	// KeySubmit sends the message.
	KeySubmit
	// KeyNewline inserts a line break.
	KeyNewline
)

func (d KeyDecision) String() string {
	switch d {
	case KeySubmit:
		return "submit"
	case KeyNewline:
		return "newline"
	default:
		return "pass"
	}
}

// MessageKey decides what a key press in the composer does: plain Enter
// submits, Enter with any modifier breaks the line.
func MessageKey(k Key) KeyDecision {
	if k.Name != "enter" {
		return KeyPass
	}
	if k.Ctrl || k.Alt || k.Shift {
		return KeyNewline
	}
	return KeySubmit
}
