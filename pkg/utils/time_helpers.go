package utils

import (
	"strings"
	"time"

	"request-console/pkg/constants"
)

// Форматы, в которых сервер отдаёт даты. Flask jsonify сериализует datetime как RFC1123 GMT.
var serverTimeLayouts = []string{
	time.RFC1123,
	time.RFC1123Z,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	constants.NaiveDateTimeLayout,
	"2006-01-02 15:04:05",
	constants.DateLayout,
}

// FormatNaive форматирует время для отправки на сервер: локальное, без часового пояса.
func FormatNaive(t time.Time) string {
	return t.Format(constants.NaiveDateTimeLayout)
}

// ParseServerTime разбирает дату из ответа сервера. Значение без зоны считается UTC.
func ParseServerTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range serverTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// FormatDisplay возвращает дату для отображения (в UTC) или "" для пустых и некорректных значений.
func FormatDisplay(s string) string {
	t, ok := ParseServerTime(s)
	if !ok {
		return ""
	}
	return t.Format(constants.DisplayDateTimeLayout)
}

// NormalizeNaive приводит введённое пользователем значение (datetime-local, "YYYY-MM-DDTHH:mm"
// или полный ISO) к формату сервера. Значения с зоной переводятся в локальное время.
func NormalizeNaive(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return FormatNaive(t.Local()), true
	}
	for _, layout := range []string{constants.NaiveDateTimeLayout, "2006-01-02T15:04", "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return FormatNaive(t), true
		}
	}
	return "", false
}

// ExpandFilterDate приводит дату из формы фильтра к YYYY-MM-DDTHH:mm:ss.
// Дата без времени достраивается до dayBound ("T00:00:00" или "T23:59:59").
func ExpandFilterDate(s, dayBound string) (string, bool) {
	s = strings.TrimSpace(s)
	if _, err := time.Parse(constants.DateLayout, s); err == nil {
		return s + dayBound, true
	}
	return NormalizeNaive(s)
}

// SameDay сравнивает календарные дни двух моментов.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
