package calendar

import (
	"fmt"
	"time"

	"github.com/username/workout-booking/pkg/dateutil"
)

// GridSize is the number of cells of a month view (6 full weeks)
const GridSize = 42

// WeekdayHeader holds the column labels of the grid, Monday first
var WeekdayHeader = [7]string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

// Month identifies a calendar month
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month t falls in
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses a YYYY-MM value
func ParseMonth(s string) (Month, error) {
	t, err := dateutil.ParseMonth(s, time.UTC)
	if err != nil {
		return Month{}, err
	}
	return MonthOf(t), nil
}

// First returns the 1st of the month
func (m Month) First() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Add shifts the month by n calendar months
func (m Month) Add(n int) Month {
	return MonthOf(dateutil.AddMonths(m.First(), n))
}

// Contains reports whether t falls in the month
func (m Month) Contains(t time.Time) bool {
	return t.Year() == m.Year && t.Month() == m.Month
}

// String returns the month as YYYY-MM
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Label returns a heading such as "March 2024"
func (m Month) Label() string {
	return m.First().Format("January 2006")
}

// BuildGrid returns the 42 consecutive dates shown for month m.
// The first cell is the Monday on or before the 1st of the month.
func BuildGrid(m Month) [GridSize]time.Time {
	first := m.First()
	anchor := first.AddDate(0, 0, -(dateutil.ISOWeekday(first) - 1))

	var grid [GridSize]time.Time
	for i := range grid {
		grid[i] = time.Date(anchor.Year(), anchor.Month(), anchor.Day()+i, 0, 0, 0, 0, time.UTC)
	}
	return grid
}

// civilDate strips time of day and location, keeping the calendar date only
func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
