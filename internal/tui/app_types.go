package tui

import (
	"time"

	"smarttodo-cli/internal/binder"
	"smarttodo-cli/internal/model"
)

type view int

const (
	viewCalendar view = iota
	viewNotifications
	viewMessages
)

var viewNames = []string{"calendar", "notifications", "messages"}

func (v view) String() string {
	if int(v) < 0 || int(v) >= len(viewNames) {
		return viewNames[0]
	}
	return viewNames[v]
}

func parseView(s string) view {
	for i, n := range viewNames {
		if n == s {
			return view(i)
		}
	}
	return viewCalendar
}

type composeFocus int

const (
	focusRecipient composeFocus = iota
	focusBody
)

type clockTickMsg struct{ at time.Time }

type dayLoadedMsg struct {
	date string
	res  binder.Result
}

type taskToggledMsg struct {
	date string
	res  binder.Result
}

type notificationsLoadedMsg struct {
	items []model.Notification
	err   error
}

type notificationReadMsg struct{ res binder.Result }

type messageSentMsg struct{ res binder.Result }

type usersFoundMsg struct {
	query string
	users []model.User
	err   error
}
