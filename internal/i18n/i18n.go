// Package i18n holds the user-facing strings for each supported locale.
//
// The locale is always an explicit value passed down from configuration;
// nothing in this package consults the process environment.
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// DefaultLocale is the locale the web application ships with.
const DefaultLocale = "zh-CN"

type Catalog struct {
	Tag language.Tag

	JustNow    string
	MinutesAgo string // fmt template, one %d
	HoursAgo   string
	DaysAgo    string
	MonthsAgo  string
	YearsAgo   string

	ClockPrefix    string
	DayTitlePrefix string
	EmptyDay       string
	MonthLayout    string    // time layout for the calendar header
	Weekdays       [7]string // Monday first

	TabCalendar         string
	TabNotifications    string
	TabMessages         string
	NoNotifications     string
	RecipientPrompt     string
	NoUsersFound        string // fmt template, one %s (query)
	ComposerPlaceholder string
	Loading             string
	Offline             string

	StatusPending    string
	StatusInProgress string
	StatusCompleted  string

	NoticeNetwork      string // fmt template, one %s (error text)
	NoticeUnauth       string
	NoticeEmptyMessage string
	NoticeNoReceiver   string
	NoticeMessageSent  string
	NoticeTaskUpdated  string
	NoticeStaleDay     string // fmt template, one %s (fetched-at)
}

var zhCN = Catalog{
	Tag: language.MustParse("zh-CN"),

	JustNow:    "刚刚",
	MinutesAgo: "%d分钟前",
	HoursAgo:   "%d小时前",
	DaysAgo:    "%d天前",
	MonthsAgo:  "%d个月前",
	YearsAgo:   "%d年前",

	ClockPrefix:    "当前时间: ",
	DayTitlePrefix: "任务 - ",
	EmptyDay:       "当天没有任务",
	MonthLayout:    "2006年1月",
	Weekdays:       [7]string{"一", "二", "三", "四", "五", "六", "日"},

	TabCalendar:         "日历",
	TabNotifications:    "通知",
	TabMessages:         "私信",
	NoNotifications:     "暂无通知",
	RecipientPrompt:     "收件人 (ID 或 @用户名): ",
	NoUsersFound:        "没有找到用户: %s",
	ComposerPlaceholder: "输入消息... (Enter 发送, Ctrl+J 换行)",
	Loading:             "加载中...",
	Offline:             "离线",

	StatusPending:    "待开始",
	StatusInProgress: "进行中",
	StatusCompleted:  "已完成",

	NoticeNetwork:      "网络错误: %s",
	NoticeUnauth:       "请先登录",
	NoticeEmptyMessage: "消息内容不能为空",
	NoticeNoReceiver:   "请选择收件人",
	NoticeMessageSent:  "消息发送成功",
	NoticeTaskUpdated:  "任务已更新",
	NoticeStaleDay:     "离线数据 (更新于 %s)",
}

var en = Catalog{
	Tag: language.English,

	JustNow:    "just now",
	MinutesAgo: "%d minutes ago",
	HoursAgo:   "%d hours ago",
	DaysAgo:    "%d days ago",
	MonthsAgo:  "%d months ago",
	YearsAgo:   "%d years ago",

	ClockPrefix:    "Current time: ",
	DayTitlePrefix: "Tasks - ",
	EmptyDay:       "No tasks on this day",
	MonthLayout:    "January 2006",
	Weekdays:       [7]string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"},

	TabCalendar:         "Calendar",
	TabNotifications:    "Notifications",
	TabMessages:         "Messages",
	NoNotifications:     "No notifications",
	RecipientPrompt:     "Recipient (ID or @name): ",
	NoUsersFound:        "No users match %s",
	ComposerPlaceholder: "Type a message... (Enter sends, Ctrl+J new line)",
	Loading:             "Loading...",
	Offline:             "offline",

	StatusPending:    "Pending",
	StatusInProgress: "In progress",
	StatusCompleted:  "Completed",

	NoticeNetwork:      "Network error: %s",
	NoticeUnauth:       "Please log in first",
	NoticeEmptyMessage: "Message is empty",
	NoticeNoReceiver:   "Choose a recipient",
	NoticeMessageSent:  "Message sent",
	NoticeTaskUpdated:  "Task updated",
	NoticeStaleDay:     "Offline data (fetched %s)",
}

var (
	catalogs = []*Catalog{&zhCN, &en}
	matcher  = language.NewMatcher([]language.Tag{zhCN.Tag, en.Tag})
)

// Resolve returns the catalog that best matches tag. An empty tag selects
// DefaultLocale. Tags that parse but match nothing supported are an error, so
// a typo in config does not silently fall back to another language.
func Resolve(tag string) (*Catalog, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		tag = DefaultLocale
	}
	want, err := language.Parse(tag)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", tag, err)
	}
	_, idx, conf := matcher.Match(want)
	if conf == language.No {
		return nil, fmt.Errorf("unsupported locale %q (supported: %s)", tag, strings.Join(Supported(), ", "))
	}
	return catalogs[idx], nil
}

// MustResolve is Resolve for tags known at compile time.
func MustResolve(tag string) *Catalog {
	c, err := Resolve(tag)
	if err != nil {
		panic(err)
	}
	return c
}

func Supported() []string {
	out := make([]string, 0, len(catalogs))
	for _, c := range catalogs {
		out = append(out, c.Tag.String())
	}
	return out
}

// IsChinese reports whether the catalog renders CJK date layouts.
func (c *Catalog) IsChinese() bool {
	base, _ := c.Tag.Base()
	return base.String() == "zh"
}

func (c *Catalog) StatusLabel(status string) string {
	switch status {
	case "pending":
		return c.StatusPending
	case "in_progress":
		return c.StatusInProgress
	case "completed":
		return c.StatusCompleted
	default:
		return status
	}
}
