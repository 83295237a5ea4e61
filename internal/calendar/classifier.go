package calendar

import (
	"time"

	"github.com/username/workout-booking/internal/holiday"
	"github.com/username/workout-booking/pkg/dateutil"
)

// Reason explains why a date cannot be selected
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonWeekend         Reason = "WEEKEND"
	ReasonNationalHoliday Reason = "NATIONAL_HOLIDAY"
)

// Classification is the result of classifying a single date
type Classification struct {
	Selectable     bool
	Reason         Reason
	ObservanceName string
}

// IsObservance reports whether the date carries an informational observance
func (c Classification) IsObservance() bool {
	return c.Selectable && c.ObservanceName != ""
}

// Classify decides whether date may be booked. Rules apply in order:
// Sundays are blocked, national holidays are blocked, observances are
// selectable with a name attached, everything else is selectable.
func Classify(date time.Time, idx holiday.Index) Classification {
	if dateutil.IsSunday(date) {
		return Classification{Reason: ReasonWeekend}
	}

	h, ok := idx.Lookup(date)
	if !ok {
		return Classification{Selectable: true}
	}

	switch h.Kind {
	case holiday.KindNationalHoliday:
		return Classification{Reason: ReasonNationalHoliday}
	case holiday.KindObservance:
		return Classification{Selectable: true, ObservanceName: h.Name}
	default:
		return Classification{Selectable: true}
	}
}

// ClassifyISO classifies a raw date value coming from the host form.
// Unparsable input is reported as not selectable without a reason.
func ClassifyISO(s string, idx holiday.Index) Classification {
	date, ok := ParseSelectedDate(s)
	if !ok {
		return Classification{}
	}
	return Classify(date, idx)
}

// ParseSelectedDate parses a host supplied date. ok is false for empty or malformed input,
// which callers treat as "nothing selected".
func ParseSelectedDate(s string) (time.Time, bool) {
	date, err := dateutil.ParseDate(s)
	if err != nil {
		return time.Time{}, false
	}
	return civilDate(date), true
}
