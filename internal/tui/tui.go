// Package tui is the interactive terminal front end: a month calendar with a
// day modal, the notification list and a message composer.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"smarttodo-cli/internal/binder"
	"smarttodo-cli/internal/model"
	"smarttodo-cli/internal/store"
	"smarttodo-cli/internal/timefmt"
)

// NotificationSource lists the notifications shown in the notifications view.
type NotificationSource interface {
	Notifications(ctx context.Context) ([]model.Notification, error)
}

// UserDirectory resolves a recipient name typed into the composer.
type UserDirectory interface {
	SearchUsers(ctx context.Context, q string) ([]model.User, error)
}

// UIStateStore persists the screen to restore on the next launch.
type UIStateStore interface {
	LoadUIState() (*store.UIState, error)
	SaveUIState(st *store.UIState) error
}

type Options struct {
	Binder        *binder.Binder
	Notifications NotificationSource
	// Users is optional; without it only numeric recipients work.
	Users UserDirectory
	// State is optional.
	State UIStateStore
	// Date overrides the restored calendar day (YYYY-MM-DD).
	Date  string
	Clock timefmt.Clock
}

func Run(ctx context.Context, opts Options) error {
	applyThemePreference()
	applyColorProfilePreference()

	m := newAppModel(ctx, opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
