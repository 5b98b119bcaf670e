package store

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
)

// UIState stores small, user-facing TUI state for restoring the last screen on relaunch.
// It is best effort: callers should tolerate missing/invalid data.
type UIState struct {
	Version int `json:"version"`

	// View is one of: calendar|notifications|messages
	View string `json:"view,omitempty"`

	// SelectedDate is the focused calendar day (YYYY-MM-DD).
	SelectedDate string `json:"selectedDate,omitempty"`

	// LastReceiverID pre-fills the message composer.
	LastReceiverID int `json:"lastReceiverId,omitempty"`
}

func (s Store) LoadUIState() (*UIState, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return &UIState{Version: 1}, nil
	}
	b, err := os.ReadFile(s.uiStatePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &UIState{Version: 1}, nil
		}
		return nil, err
	}
	var st UIState
	if err := json.Unmarshal(b, &st); err != nil {
		// Best-effort; if corrupted, treat as missing.
		return &UIState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

func (s Store) SaveUIState(st *UIState) error {
	if st == nil || strings.TrimSpace(s.Dir) == "" {
		return nil
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(s.Dir, "ui_state.json.*.tmp", s.uiStatePath(), b, 0o600)
}
