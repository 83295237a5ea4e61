package booking

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/username/workout-booking/internal/calendar"
	"github.com/username/workout-booking/internal/holiday"
	"go.uber.org/zap"
)

type staticDirectory struct {
	records []holiday.Record
	err     error
}

func (s staticDirectory) Holidays(ctx context.Context, country string, year int) ([]holiday.Record, error) {
	return s.records, s.err
}

type gatedDirectory struct {
	release chan struct{}
	records []holiday.Record
}

func (g *gatedDirectory) Holidays(ctx context.Context, country string, year int) ([]holiday.Record, error) {
	select {
	case <-g.release:
		return g.records, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type selectionRecorder struct {
	mu    sync.Mutex
	calls [][2]string
	dates []string
}

func (r *selectionRecorder) onSelection(date, timeOfDay string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, [2]string{date, timeOfDay})
}

func (r *selectionRecorder) onDate(date string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dates = append(r.dates, date)
}

func (r *selectionRecorder) last() [2]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return [2]string{}
	}
	return r.calls[len(r.calls)-1]
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var may2024 = []holiday.Record{
	{Date: day(2024, 5, 1), Kind: holiday.KindObservance, Name: "Labour Day"},
	{Date: day(2024, 5, 3), Kind: holiday.KindNationalHoliday, Name: "Constitution Day"},
}

func newMountedComponent(t *testing.T, dir holiday.Directory, rec *selectionRecorder) *Component {
	t.Helper()

	opts := Options{
		Country: "PL",
		Year:    2024,
		Now:     func() time.Time { return time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC) },
	}
	if rec != nil {
		opts.OnSelectionChange = rec.onSelection
		opts.OnDateChange = rec.onDate
	}

	c := NewComponent(dir, opts, zap.NewNop())
	c.Mount(context.Background())
	t.Cleanup(c.Unmount)

	select {
	case <-c.HolidaysLoaded():
	case <-time.After(2 * time.Second):
		t.Fatal("holidays were not loaded in time")
	}
	return c
}

func TestComponent_ObservanceSelection(t *testing.T) {
	rec := &selectionRecorder{}
	c := newMountedComponent(t, staticDirectory{records: may2024}, rec)

	if !c.HolidaysKnown() {
		t.Fatal("HolidaysKnown() = false after load")
	}
	if !c.SelectDate(day(2024, 5, 1)) {
		t.Fatal("SelectDate(2024-05-01) was ignored")
	}

	s := c.State()
	if c.SelectedDate() != "2024-05-01" {
		t.Errorf("SelectedDate() = %q, want 2024-05-01", c.SelectedDate())
	}
	if s.InfoMessage != "Info: Labour Day" {
		t.Errorf("InfoMessage = %q, want %q", s.InfoMessage, "Info: Labour Day")
	}
	if got := rec.last(); got != [2]string{"2024-05-01", ""} {
		t.Errorf("last selection = %v, want [2024-05-01 \"\"]", got)
	}
	if len(rec.dates) != 1 || rec.dates[0] != "2024-05-01" {
		t.Errorf("OnDateChange calls = %v, want [2024-05-01]", rec.dates)
	}
}

func TestComponent_BlockedDates(t *testing.T) {
	rec := &selectionRecorder{}
	c := newMountedComponent(t, staticDirectory{records: may2024}, rec)

	for _, d := range []time.Time{day(2024, 5, 3), day(2024, 5, 5), day(2024, 6, 4)} {
		if c.SelectDate(d) {
			t.Errorf("SelectDate(%s) accepted, want ignored", d.Format("2006-01-02"))
		}
	}
	if c.SelectedDate() != "" {
		t.Errorf("SelectedDate() = %q, want empty", c.SelectedDate())
	}
	if len(rec.calls) != 0 {
		t.Errorf("selection handler called %d times, want 0", len(rec.calls))
	}
}

func TestComponent_TimeSelectionReachesHost(t *testing.T) {
	app := NewApplication()
	c := NewComponent(staticDirectory{records: may2024}, Options{
		Country:           "PL",
		Year:              2024,
		Now:               func() time.Time { return day(2024, 5, 10) },
		OnSelectionChange: app.OnSelectionChange,
	}, zap.NewNop())

	if c.SelectTime(calendar.TimeSlot{Hour: 12}) {
		t.Error("SelectTime() before a date was accepted")
	}
	if slots := c.Slots(); slots != nil {
		t.Errorf("Slots() before a date = %v, want nil", slots)
	}

	c.SelectDate(day(2024, 5, 14))
	if slots := c.Slots(); len(slots) != len(calendar.DefaultSlots) {
		t.Errorf("len(Slots()) = %d, want %d", len(slots), len(calendar.DefaultSlots))
	}
	c.SelectTime(calendar.TimeSlot{Hour: 16, Minute: 30})

	if app.Date != "2024-05-14" || app.Time != "16:30" {
		t.Errorf("application got %s %s, want 2024-05-14 16:30", app.Date, app.Time)
	}

	c.SelectDate(day(2024, 5, 15))
	if app.Date != "2024-05-15" || app.Time != "" {
		t.Errorf("application got %s %q after date change, want 2024-05-15 and no time", app.Date, app.Time)
	}
}

func TestComponent_FetchFailureKeepsCalendarUsable(t *testing.T) {
	c := newMountedComponent(t, staticDirectory{err: errors.New("503")}, nil)

	// 3 May is only blocked when holiday data is known
	if !c.SelectDate(day(2024, 5, 3)) {
		t.Error("SelectDate(2024-05-03) ignored without holiday data")
	}
	if c.SelectDate(day(2024, 5, 12)) {
		t.Error("SelectDate(Sunday) accepted without holiday data")
	}
}

func TestComponent_NavigationKeepsSelection(t *testing.T) {
	c := newMountedComponent(t, staticDirectory{}, nil)
	c.ShowMonth(calendar.Month{Year: 2024, Month: time.March})
	c.SelectDate(day(2024, 3, 15))

	c.NavigateMonth(calendar.Next)

	s := c.State()
	if s.VisibleMonth != (calendar.Month{Year: 2024, Month: time.April}) {
		t.Errorf("VisibleMonth = %s, want 2024-04", s.VisibleMonth)
	}
	if c.SelectedDate() != "2024-03-15" {
		t.Errorf("SelectedDate() = %q, want 2024-03-15", c.SelectedDate())
	}
	for _, cell := range c.Cells() {
		if cell.IsSelected {
			t.Errorf("cell %s marked selected in April view", cell.Date.Format("2006-01-02"))
		}
	}
}

func TestComponent_SetSelectedDate(t *testing.T) {
	rec := &selectionRecorder{}
	c := newMountedComponent(t, staticDirectory{records: may2024}, rec)

	c.SetSelectedDate("2024-06-04")
	if c.SelectedDate() != "2024-06-04" {
		t.Fatalf("SelectedDate() = %q, want 2024-06-04", c.SelectedDate())
	}
	if s := c.State(); s.VisibleMonth != (calendar.Month{Year: 2024, Month: time.June}) {
		t.Errorf("VisibleMonth = %s, want 2024-06", s.VisibleMonth)
	}

	tests := []string{"", "garbage", "2024-13-01", "2024-05-03", "2024-06-09"}
	for _, value := range tests {
		c.SetSelectedDate("2024-06-04")
		c.SetSelectedDate(value)
		if c.SelectedDate() != "" {
			t.Errorf("SetSelectedDate(%q) left %q selected", value, c.SelectedDate())
		}
		if s := c.State(); s.SelectedTime != nil {
			t.Errorf("SetSelectedDate(%q) left a time selected", value)
		}
	}
}

func TestComponent_UnmountDiscardsLateHolidays(t *testing.T) {
	dir := &gatedDirectory{release: make(chan struct{}), records: may2024}
	c := NewComponent(dir, Options{
		Country: "PL",
		Year:    2024,
		Now:     func() time.Time { return day(2024, 5, 10) },
	}, zap.NewNop())

	c.Mount(context.Background())
	c.Unmount()
	close(dir.release)

	select {
	case <-c.HolidaysLoaded():
	case <-time.After(2 * time.Second):
		t.Fatal("loader did not finish after Unmount")
	}

	if c.HolidaysKnown() {
		t.Error("holidays applied after Unmount")
	}
	if c.SelectDate(day(2024, 5, 14)) {
		t.Error("SelectDate() accepted after Unmount")
	}
}

func TestComponent_HandlerMayReadState(t *testing.T) {
	var c *Component
	var seen string
	c = NewComponent(staticDirectory{}, Options{
		Now: func() time.Time { return day(2024, 5, 10) },
		OnSelectionChange: func(date, timeOfDay string) {
			seen = c.SelectedDate()
		},
	}, zap.NewNop())

	c.SelectDate(day(2024, 5, 14))
	if seen != "2024-05-14" {
		t.Errorf("handler saw %q, want 2024-05-14", seen)
	}
}

func TestComponent_Render(t *testing.T) {
	c := newMountedComponent(t, staticDirectory{records: may2024}, nil)
	c.SelectDate(day(2024, 5, 1))

	var buf bytes.Buffer
	if err := c.Render(&buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"May 2024", "[ 1]", " 3h", "Info: Labour Day", "Time: 12:00"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q:\n%s", want, out)
		}
	}
}
