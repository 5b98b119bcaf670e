package model

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Task mirrors the backend's task record. Timestamps are kept as the raw
// strings the backend emits (naive ISO or datetime-local values); parse them
// with timefmt when they need to be displayed.
type Task struct {
	ID             int        `json:"id"`
	UserID         int        `json:"user_id,omitempty"`
	Name           string     `json:"name"`
	Description    string     `json:"description,omitempty"`
	StartTime      string     `json:"start_time,omitempty"`
	Location       string     `json:"location,omitempty"`
	Duration       string     `json:"duration,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	Status         TaskStatus `json:"status,omitempty"`
	CompletionRate int        `json:"completion_rate,omitempty"`
	CreatedAt      string     `json:"created_at,omitempty"`
}

func (t Task) Completed() bool { return t.Status == TaskStatusCompleted }

type Notification struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content,omitempty"`
	Type      string `json:"type,omitempty"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at,omitempty"`
}

// User is a search result from the user directory. Category is the relation
// to the current user: mutual, following, followers or all.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Nickname string `json:"nickname,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Category string `json:"category,omitempty"`
}

// DisplayName is the nickname when set, else the username.
func (u User) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.Username
}

// Message is an outbound direct message.
type Message struct {
	ReceiverID int    `json:"receiver_id"`
	Content    string `json:"content"`
}

// DayEntry is one rendered line of a calendar day.
// Placeholder is set for the single "no tasks" entry of an empty day.
type DayEntry struct {
	TaskID      int    `json:"taskId,omitempty"`
	Text        string `json:"text"`
	Completed   bool   `json:"completed,omitempty"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

type DayView struct {
	Date    string     `json:"date"` // YYYY-MM-DD
	Title   string     `json:"title"`
	Entries []DayEntry `json:"entries"`

	// Stale is set when the entries came from the offline cache.
	Stale     bool   `json:"stale,omitempty"`
	FetchedAt string `json:"fetchedAt,omitempty"`
}
