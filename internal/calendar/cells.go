package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/username/workout-booking/internal/holiday"
)

// DateCell is one classified cell of the month view
type DateCell struct {
	Date               time.Time
	InCurrentMonthView bool
	IsSelectable       bool // in the visible month and allowed by Classify
	IsSelected         bool
	Classification     Classification
}

// Cells builds and classifies the grid of the visible month
func Cells(s ViewState, idx holiday.Index) [GridSize]DateCell {
	var cells [GridSize]DateCell
	for i, date := range BuildGrid(s.VisibleMonth) {
		class := Classify(date, idx)
		inMonth := s.VisibleMonth.Contains(date)
		cells[i] = DateCell{
			Date:               date,
			InCurrentMonthView: inMonth,
			IsSelectable:       inMonth && class.Selectable,
			IsSelected:         s.IsSelected(date),
			Classification:     class,
		}
	}
	return cells
}

// marker returns the cell text used by Render
func (c DateCell) marker() string {
	day := fmt.Sprintf("%2d", c.Date.Day())
	switch {
	case !c.InCurrentMonthView:
		return " " + day + " "
	case c.IsSelected:
		return "[" + day + "]"
	case c.Classification.Reason == ReasonWeekend:
		return " " + day + "x"
	case c.Classification.Reason == ReasonNationalHoliday:
		return " " + day + "h"
	case c.Classification.IsObservance():
		return " " + day + "*"
	default:
		return " " + day + " "
	}
}

// Render writes a text version of the month view, its info message and the
// available time slots
func Render(w io.Writer, s ViewState, idx holiday.Index, slots []TimeSlot) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", s.VisibleMonth.Label())
	for _, name := range WeekdayHeader {
		fmt.Fprintf(&b, " %s ", name)
	}
	b.WriteString("\n")

	for i, cell := range Cells(s, idx) {
		b.WriteString(cell.marker())
		if i%7 == 6 {
			b.WriteString("\n")
		}
	}

	if s.InfoMessage != "" {
		fmt.Fprintf(&b, "%s\n", s.InfoMessage)
	}

	if available := AvailableSlots(s, slots); len(available) > 0 {
		parts := make([]string, 0, len(available))
		for _, slot := range available {
			label := slot.String()
			if s.SelectedTime != nil && *s.SelectedTime == slot {
				label = "[" + label + "]"
			}
			parts = append(parts, label)
		}
		fmt.Fprintf(&b, "Time: %s\n", strings.Join(parts, " "))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
