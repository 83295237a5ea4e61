package dateutil

import (
	"fmt"
	"strings"
	"time"
)

// ISODate is the layout used for calendar-date keys (holiday lists, host form values)
const ISODate = "2006-01-02"

// StartOfDay returns the start of the day (00:00:00) for the given date
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// StartOfMonth returns the 1st of the month for the given date
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// AddMonths shifts the month of date by n, always landing on the 1st.
// time.AddDate normalizes Jan 31 + 1 month to Mar 2/3, which would skip February.
func AddMonths(date time.Time, n int) time.Time {
	return StartOfMonth(date).AddDate(0, n, 0)
}

// ISOWeekday returns the ISO weekday number (Monday = 1 ... Sunday = 7)
func ISOWeekday(date time.Time) int {
	weekday := int(date.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return weekday
}

// StartOfWeek returns the Monday of the week for the given date
func StartOfWeek(date time.Time) time.Time {
	daysFromMonday := ISOWeekday(date) - 1
	return StartOfDay(date.AddDate(0, 0, -daysFromMonday))
}

// IsSunday returns true if the date falls on a Sunday
func IsSunday(date time.Time) bool {
	return date.Weekday() == time.Sunday
}

// IsSameDay returns true if two dates are on the same day
func IsSameDay(date1, date2 time.Time) bool {
	return date1.Year() == date2.Year() &&
		date1.Month() == date2.Month() &&
		date1.Day() == date2.Day()
}

// IsSameMonth returns true if two dates are in the same month of the same year
func IsSameMonth(date1, date2 time.Time) bool {
	return date1.Year() == date2.Year() && date1.Month() == date2.Month()
}

// FormatDate formats a date as YYYY-MM-DD
func FormatDate(date time.Time) string {
	return date.Format(ISODate)
}

// ParseDate parses date string in various formats
func ParseDate(dateStr string) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	formats := []string{
		ISODate,
		"02.01.2006",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05Z",
		"2006-01-02T15:04:05-0700",
		time.RFC3339,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unsupported date format: %q", dateStr)
}

// ParseMonth parses a YYYY-MM month value and returns the 1st of that month
func ParseMonth(monthStr string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01", strings.TrimSpace(monthStr), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q: %w", monthStr, err)
	}
	return t, nil
}

// Today returns today's date (start of day)
func Today() time.Time {
	return StartOfDay(time.Now())
}
