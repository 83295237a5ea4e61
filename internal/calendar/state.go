package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/username/workout-booking/internal/holiday"
	"github.com/username/workout-booking/pkg/dateutil"
)

// Direction of month navigation
type Direction int

const (
	Prev Direction = -1
	Next Direction = 1
)

// ParseDirection parses "prev" or "next"
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prev", "previous":
		return Prev, nil
	case "next":
		return Next, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

// ViewState is the selection state of one calendar view.
// SelectedTime is nil whenever SelectedDate is nil.
type ViewState struct {
	VisibleMonth Month
	SelectedDate *time.Time
	SelectedTime *TimeSlot
	InfoMessage  string
}

// NewViewState shows the month of now with nothing selected
func NewViewState(now time.Time) ViewState {
	return ViewState{VisibleMonth: MonthOf(now)}
}

// SelectedISO returns the selected date as YYYY-MM-DD, or "" when unset
func (s ViewState) SelectedISO() string {
	if s.SelectedDate == nil {
		return ""
	}
	return dateutil.FormatDate(*s.SelectedDate)
}

// SelectedTimeString returns the selected slot as HH:MM, or "" when unset
func (s ViewState) SelectedTimeString() string {
	if s.SelectedTime == nil {
		return ""
	}
	return s.SelectedTime.String()
}

// IsSelected reports whether date is the selected date
func (s ViewState) IsSelected(date time.Time) bool {
	return s.SelectedDate != nil && dateutil.IsSameDay(*s.SelectedDate, date)
}

// Equal compares two states by value
func (s ViewState) Equal(o ViewState) bool {
	return s.VisibleMonth == o.VisibleMonth &&
		s.SelectedISO() == o.SelectedISO() &&
		s.SelectedTimeString() == o.SelectedTimeString() &&
		s.InfoMessage == o.InfoMessage
}

// InfoMessageFor formats the note shown when an observance is selected
func InfoMessageFor(observanceName string) string {
	return "Info: " + observanceName
}

// NavigateMonth moves the visible month one month in dir.
// The selection is kept, even when it leaves the view.
func NavigateMonth(s ViewState, dir Direction) ViewState {
	step := 1
	if dir == Prev {
		step = -1
	}
	s.VisibleMonth = s.VisibleMonth.Add(step)
	return s
}

// SelectDate selects date if it lies in the visible month and is selectable.
// Otherwise the state is returned unchanged. Choosing a different date clears
// the selected time. changed reports whether the state differs from s.
func SelectDate(s ViewState, date time.Time, idx holiday.Index) (next ViewState, changed bool) {
	if !s.VisibleMonth.Contains(date) {
		return s, false
	}

	class := Classify(date, idx)
	if !class.Selectable {
		return s, false
	}

	next = s
	if !s.IsSelected(date) {
		d := civilDate(date)
		next.SelectedDate = &d
		next.SelectedTime = nil
	}

	if class.ObservanceName != "" {
		next.InfoMessage = InfoMessageFor(class.ObservanceName)
	} else {
		next.InfoMessage = ""
	}

	return next, !next.Equal(s)
}

// SelectTime sets the time slot. It is ignored while no date is selected.
func SelectTime(s ViewState, slot TimeSlot) (next ViewState, changed bool) {
	if s.SelectedDate == nil {
		return s, false
	}
	if s.SelectedTime != nil && *s.SelectedTime == slot {
		return s, false
	}

	next = s
	next.SelectedTime = &slot
	return next, true
}

// ClearSelection drops the selected date, time and info message
func ClearSelection(s ViewState) ViewState {
	s.SelectedDate = nil
	s.SelectedTime = nil
	s.InfoMessage = ""
	return s
}
