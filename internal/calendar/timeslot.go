package calendar

import (
	"fmt"
	"time"
)

// TimeSlot is a time of day offered for a workout
type TimeSlot struct {
	Hour   int
	Minute int
}

// DefaultSlots are offered for every selectable date
var DefaultSlots = []TimeSlot{
	{Hour: 12, Minute: 0},
	{Hour: 14, Minute: 0},
	{Hour: 16, Minute: 30},
	{Hour: 18, Minute: 30},
	{Hour: 20, Minute: 0},
}

// ParseTimeSlot parses an HH:MM value
func ParseTimeSlot(s string) (TimeSlot, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeSlot{}, fmt.Errorf("invalid time slot %q: %w", s, err)
	}
	return TimeSlot{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// ParseTimeSlots parses a list of HH:MM values, keeping their order
func ParseTimeSlots(values []string) ([]TimeSlot, error) {
	slots := make([]TimeSlot, 0, len(values))
	for _, v := range values {
		slot, err := ParseTimeSlot(v)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

// String returns the slot as HH:MM
func (t TimeSlot) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// On returns the instant of the slot on the given date
func (t TimeSlot) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, 0, 0, date.Location())
}

// ContainsSlot reports whether slot is part of slots
func ContainsSlot(slots []TimeSlot, slot TimeSlot) bool {
	for _, s := range slots {
		if s == slot {
			return true
		}
	}
	return false
}

// AvailableSlots returns the slots to show for the current selection.
// Nothing is offered until a date is chosen; once it is, every slot is offered.
func AvailableSlots(state ViewState, slots []TimeSlot) []TimeSlot {
	if state.SelectedDate == nil {
		return nil
	}
	return slots
}
