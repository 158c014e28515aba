// Package i18n holds every user-visible string the bot sends.
package i18n

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

// Messages is a catalog of user-visible text. Fields holding a format verb
// are used with fmt.Sprintf.
type Messages struct {
	Weekdays []string `yaml:"weekdays"` // Monday first
	Months   []string `yaml:"months"`   // January first

	TotalHeader string `yaml:"total_header"` // %s: total duration
	Year        string `yaml:"year"`         // %d: year
	Month       string `yaml:"month"`        // %s: month name
	DayLine     string `yaml:"day_line"`     // day, weekday, duration, start, end
	Duration    string `yaml:"duration"`     // %d hours, %d minutes
	InProgress  string `yaml:"in_progress"`
	NotExited   string `yaml:"not_exited"`
	Title       string `yaml:"title"` // %s: student name
	Footer      string `yaml:"footer"`

	CommandDescription string `yaml:"command_description"`
	NameDescription    string `yaml:"name_description"`
	Prompt             string `yaml:"prompt"`
	Placeholder        string `yaml:"placeholder"`

	StudentsFailed string `yaml:"students_failed"`
	LogsFailed     string `yaml:"logs_failed"`
	NameRequired   string `yaml:"name_required"`
	NoStudent      string `yaml:"no_student"` // %s: searched name
	NoLogs         string `yaml:"no_logs"`
	SelectFailed   string `yaml:"select_failed"`
	SendFailed     string `yaml:"send_failed"`
}

var English = Messages{
	Weekdays: []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
	Months: []string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	},

	TotalHeader: "**Total time in the last week: %s**\n",
	Year:        "**%d**",
	Month:       "**%s**",
	DayLine:     "%d (%s) %s %s → %s",
	Duration:    "%d hours %d minutes",
	InProgress:  "in progress",
	NotExited:   "not yet exited",
	Title:       "%s attendance log",
	Footer:      "powered by nyutai × Discord Bot",

	CommandDescription: "Show the entrance/exit log (search by name, then pick a student)",
	NameDescription:    "Student name to search for (required)",
	Prompt:             "Select a student:",
	Placeholder:        "Select a student",

	StudentsFailed: "Failed to retrieve the student list.",
	LogsFailed:     "Failed to retrieve the entrance/exit logs.",
	NameRequired:   "Please enter a student name.",
	NoStudent:      "No student matching %q was found.",
	NoLogs:         "No matching log entries.",
	SelectFailed:   "That student is not part of this selection.",
	SendFailed:     "Something went wrong while showing the students. Please try again.",
}

var Japanese = Messages{
	Weekdays: []string{"月", "火", "水", "木", "金", "土", "日"},
	Months: []string{
		"1月", "2月", "3月", "4月", "5月", "6月",
		"7月", "8月", "9月", "10月", "11月", "12月",
	},

	TotalHeader: "**直近一週間の合計滞在時間: %s**\n",
	Year:        "**%d年**",
	Month:       "**%s**",
	DayLine:     "%d日（%s） %s %s → %s",
	Duration:    "%d時間%d分",
	InProgress:  "滞在中",
	NotExited:   "未退室",
	Title:       "%s の入退室ログ",
	Footer:      "powered by 入退くん × Discord Bot",

	CommandDescription: "入退室ログを表示（名前検索 or 一覧から選択）",
	NameDescription:    "生徒名を入力してください（必須）",
	Prompt:             "生徒を選んでください：",
	Placeholder:        "生徒を選んでください",

	StudentsFailed: "生徒一覧の取得に失敗しました。",
	LogsFailed:     "入退室ログの取得に失敗しました。",
	NameRequired:   "生徒名を入力してください。",
	NoStudent:      "「%s」に一致する生徒が見つかりませんでした。",
	NoLogs:         "該当ログがありません。",
	SelectFailed:   "この生徒は選択肢に含まれていません。",
	SendFailed:     "生徒一覧の表示に失敗しました。もう一度お試しください。",
}

var (
	supported = []language.Tag{language.English, language.Japanese}
	catalogs  = []Messages{English, Japanese}
	matcher   = language.NewMatcher(supported)
)

// ForLocale returns the closest built-in catalog, falling back to English.
func ForLocale(tag language.Tag) Messages {
	_, index, _ := matcher.Match(tag)
	return catalogs[index].clone()
}

func (m Messages) clone() Messages {
	m.Weekdays = append([]string(nil), m.Weekdays...)
	m.Months = append([]string(nil), m.Months...)
	return m
}

// Overlay returns m with every non-empty field of override applied.
func (m Messages) Overlay(override Messages) Messages {
	out := m.clone()

	if len(override.Weekdays) > 0 {
		out.Weekdays = append([]string(nil), override.Weekdays...)
	}
	if len(override.Months) > 0 {
		out.Months = append([]string(nil), override.Months...)
	}

	strs := []struct {
		dst *string
		src string
	}{
		{&out.TotalHeader, override.TotalHeader},
		{&out.Year, override.Year},
		{&out.Month, override.Month},
		{&out.DayLine, override.DayLine},
		{&out.Duration, override.Duration},
		{&out.InProgress, override.InProgress},
		{&out.NotExited, override.NotExited},
		{&out.Title, override.Title},
		{&out.Footer, override.Footer},
		{&out.CommandDescription, override.CommandDescription},
		{&out.NameDescription, override.NameDescription},
		{&out.Prompt, override.Prompt},
		{&out.Placeholder, override.Placeholder},
		{&out.StudentsFailed, override.StudentsFailed},
		{&out.LogsFailed, override.LogsFailed},
		{&out.NameRequired, override.NameRequired},
		{&out.NoStudent, override.NoStudent},
		{&out.NoLogs, override.NoLogs},
		{&out.SelectFailed, override.SelectFailed},
		{&out.SendFailed, override.SendFailed},
	}
	for _, s := range strs {
		if s.src != "" {
			*s.dst = s.src
		}
	}

	return out
}

func (m Messages) Validate() error {
	if len(m.Weekdays) != 7 {
		return fmt.Errorf("messages: expected 7 weekdays, got %d", len(m.Weekdays))
	}
	if len(m.Months) != 12 {
		return fmt.Errorf("messages: expected 12 months, got %d", len(m.Months))
	}
	return nil
}

// Weekday maps a time.Weekday onto the Monday-first Weekdays list.
func (m Messages) Weekday(d time.Weekday) string {
	return m.Weekdays[(int(d)+6)%7]
}

func (m Messages) MonthName(month time.Month) string {
	return m.Months[month-1]
}

// FormatDuration renders d in whole hours and minutes.
func (m Messages) FormatDuration(d time.Duration) string {
	minutes := int(d / time.Minute)
	return fmt.Sprintf(m.Duration, minutes/60, minutes%60)
}
