package cli

import (
	"strconv"

	"smarttodo-cli/internal/format"
	"smarttodo-cli/internal/i18n"
	"smarttodo-cli/internal/model"
	"smarttodo-cli/internal/store"
	"smarttodo-cli/internal/timefmt"
)

// Table renderings for --format table.

type taskTable struct {
	Date  string       `json:"date"`
	Tasks []model.Task `json:"tasks"`

	cat *i18n.Catalog
	fmt timefmt.Formatter
}

func (t taskTable) TableHeader() []string {
	return []string{"ID", "NAME", "STATUS", "START", "LOCATION"}
}

func (t taskTable) TableRows() [][]string {
	rows := make([][]string, 0, len(t.Tasks))
	for _, task := range t.Tasks {
		start := task.StartTime
		if s, err := t.fmt.FormatTimeOfDayString(task.StartTime); err == nil {
			start = s
		}
		rows = append(rows, []string{
			strconv.Itoa(task.ID),
			format.Truncate(task.Name, 40),
			t.cat.StatusLabel(string(task.Status)),
			start,
			task.Location,
		})
	}
	return rows
}

type dayTable struct {
	model.DayView
}

func (d dayTable) TableHeader() []string {
	return []string{"", d.Title}
}

func (d dayTable) TableRows() [][]string {
	rows := make([][]string, 0, len(d.Entries))
	for _, e := range d.Entries {
		mark := "[ ]"
		switch {
		case e.Placeholder:
			mark = ""
		case e.Completed:
			mark = "[x]"
		}
		rows = append(rows, []string{mark, e.Text})
	}
	return rows
}

type notificationView struct {
	model.Notification
	Ago  string `json:"ago,omitempty"`
	When string `json:"when,omitempty"`
}

type notificationTable []notificationView

func (t notificationTable) TableHeader() []string {
	return []string{"ID", "", "TITLE", "CONTENT", "WHEN"}
}

func (t notificationTable) TableRows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, n := range t {
		unread := "●"
		if n.Read {
			unread = ""
		}
		rows = append(rows, []string{
			strconv.Itoa(n.ID),
			unread,
			n.Title,
			format.Truncate(n.Content, 50),
			n.Ago,
		})
	}
	return rows
}

type userTable []model.User

func (t userTable) TableHeader() []string {
	return []string{"ID", "USERNAME", "NICKNAME", "RELATION"}
}

func (t userTable) TableRows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, u := range t {
		rows = append(rows, []string{strconv.Itoa(u.ID), u.Username, u.Nickname, u.Category})
	}
	return rows
}

type configTable struct {
	store.Config
}

func (c configTable) TableHeader() []string { return []string{"KEY", "VALUE"} }

func (c configTable) TableRows() [][]string {
	return [][]string{
		{"server", c.Server},
		{"locale", c.Locale},
		{"timezone", c.Timezone},
		{"timeout_seconds", strconv.Itoa(c.TimeoutSeconds)},
		{"rate_per_second", strconv.FormatFloat(c.RatePerSecond, 'f', -1, 64)},
		{"rate_burst", strconv.Itoa(c.RateBurst)},
		{"retries", strconv.Itoa(c.Retries)},
		{"format", c.Format},
	}
}
