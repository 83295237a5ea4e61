package booking

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/username/workout-booking/internal/calendar"
	"github.com/username/workout-booking/internal/holiday"
	"go.uber.org/zap"
)

// SelectionHandler receives the selected date (YYYY-MM-DD) and time (HH:MM).
// Either value is "" when unset.
type SelectionHandler func(date, timeOfDay string)

// Options configures a Component
type Options struct {
	Country string
	Year    int
	Slots   []calendar.TimeSlot
	Now     func() time.Time

	OnSelectionChange SelectionHandler
	OnDateChange      func(date string)
}

// Component is the date/time picker of the booking form. It owns the view
// state and the holiday data; every event is applied under one lock, in the
// order it arrives.
type Component struct {
	mu       sync.Mutex
	state    calendar.ViewState
	holidays holiday.Index
	slots    []calendar.TimeSlot
	loaded   bool
	mounted  bool
	disposed bool

	loader            *holiday.Loader
	onSelectionChange SelectionHandler
	onDateChange      func(date string)
	logger            *zap.Logger
}

// NewComponent creates a calendar component. Holiday data is requested on Mount.
func NewComponent(dir holiday.Directory, opts Options, logger *zap.Logger) *Component {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	today := now()

	year := opts.Year
	if year == 0 {
		year = today.Year()
	}

	slots := opts.Slots
	if len(slots) == 0 {
		slots = calendar.DefaultSlots
	}

	return &Component{
		state:             calendar.NewViewState(today),
		holidays:          holiday.NewIndex(holiday.NoHolidays),
		slots:             slots,
		loader:            holiday.NewLoader(dir, opts.Country, year, logger),
		onSelectionChange: opts.OnSelectionChange,
		onDateChange:      opts.OnDateChange,
		logger:            logger,
	}
}

// Mount starts the one-shot holiday fetch
func (c *Component) Mount(ctx context.Context) {
	c.mu.Lock()
	if c.mounted || c.disposed {
		c.mu.Unlock()
		return
	}
	c.mounted = true
	c.mu.Unlock()

	c.loader.Start(ctx, c.setHolidays)
}

// Unmount cancels a pending fetch and ignores every later event
func (c *Component) Unmount() {
	c.mu.Lock()
	c.disposed = true
	c.mu.Unlock()

	// the loader may be delivering under its own lock, which takes c.mu
	c.loader.Stop()
}

// HolidaysLoaded is closed once the holiday fetch has finished
func (c *Component) HolidaysLoaded() <-chan struct{} {
	return c.loader.Done()
}

func (c *Component) setHolidays(records []holiday.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return
	}
	c.holidays = holiday.NewIndex(records)
	c.loaded = true

	c.logger.Debug("Holiday data applied", zap.Int("count", len(records)))
}

// HolidaysKnown reports whether holiday data has been applied
func (c *Component) HolidaysKnown() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// State returns a copy of the current view state
func (c *Component) State() calendar.ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SelectedDate returns the selected date as YYYY-MM-DD, or ""
func (c *Component) SelectedDate() string {
	return c.State().SelectedISO()
}

// Cells returns the classified grid of the visible month
func (c *Component) Cells() [calendar.GridSize]calendar.DateCell {
	c.mu.Lock()
	defer c.mu.Unlock()
	return calendar.Cells(c.state, c.holidays)
}

// Classify labels date with the holiday data currently known
func (c *Component) Classify(date time.Time) calendar.Classification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return calendar.Classify(date, c.holidays)
}

// Slots returns the time slots currently offered
func (c *Component) Slots() []calendar.TimeSlot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return calendar.AvailableSlots(c.state, c.slots)
}

// Render writes the text view of the calendar
func (c *Component) Render(w io.Writer) error {
	c.mu.Lock()
	state, idx, slots := c.state, c.holidays, c.slots
	c.mu.Unlock()

	return calendar.Render(w, state, idx, slots)
}

// NavigateMonth moves the visible month
func (c *Component) NavigateMonth(dir calendar.Direction) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return
	}
	c.state = calendar.NavigateMonth(c.state, dir)
}

// ShowMonth jumps to month m, keeping the selection
func (c *Component) ShowMonth(m calendar.Month) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return
	}
	c.state.VisibleMonth = m
}

// SelectDate handles a click on a date cell. It returns false when the click
// was ignored.
func (c *Component) SelectDate(date time.Time) bool {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return false
	}

	prev := c.state
	next, changed := calendar.SelectDate(prev, date, c.holidays)
	if !changed {
		c.mu.Unlock()
		c.logger.Debug("Date click ignored", zap.Time("date", date))
		return false
	}
	c.state = next
	c.mu.Unlock()

	c.notify(next, next.SelectedISO() != prev.SelectedISO())
	return true
}

// SelectTime handles a click on a time slot
func (c *Component) SelectTime(slot calendar.TimeSlot) bool {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return false
	}

	next, changed := calendar.SelectTime(c.state, slot)
	if !changed {
		c.mu.Unlock()
		return false
	}
	c.state = next
	c.mu.Unlock()

	c.notify(next, false)
	return true
}

// SetSelectedDate applies a date value coming from the host form. Malformed
// or non-selectable values clear the selection; valid ones bring their month
// into view.
func (c *Component) SetSelectedDate(value string) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}

	prev := c.state
	date, ok := calendar.ParseSelectedDate(value)
	if ok {
		shown := c.state
		shown.VisibleMonth = calendar.MonthOf(date)
		next, changed := calendar.SelectDate(shown, date, c.holidays)
		if changed || shown.IsSelected(date) {
			c.state = next
		} else {
			ok = false
		}
	}
	if !ok {
		if value != "" {
			c.logger.Debug("Ignoring unusable selected date", zap.String("value", value))
		}
		c.state = calendar.ClearSelection(c.state)
	}

	next := c.state
	c.mu.Unlock()

	if next.SelectedISO() != prev.SelectedISO() {
		c.notify(next, true)
	}
}

// notify runs outside the lock so handlers may call back into the component
func (c *Component) notify(s calendar.ViewState, dateChanged bool) {
	if dateChanged && c.onDateChange != nil {
		c.onDateChange(s.SelectedISO())
	}
	if c.onSelectionChange != nil {
		c.onSelectionChange(s.SelectedISO(), s.SelectedTimeString())
	}
}
