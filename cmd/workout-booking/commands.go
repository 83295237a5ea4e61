package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/username/workout-booking/internal/booking"
	"github.com/username/workout-booking/internal/calendar"
	"github.com/username/workout-booking/internal/holiday"
	"github.com/username/workout-booking/pkg/dateutil"
	"go.uber.org/zap"
)

func holidaysCmd() *cobra.Command {
	var country string
	var year int

	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "Print the holiday list used by the calendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if country == "" {
				country = cfg.Holidays.Country
			}
			if year == 0 {
				year = cfg.Holidays.GetYear(dateutil.Today())
			}

			dir, cleanup := buildDirectory(ctx, cfg, logger)
			defer cleanup()

			records := holiday.Fetch(ctx, dir, strings.ToUpper(country), year, logger)

			outPrintf("📅 Holidays for %s %d\n", strings.ToUpper(country), year)
			outPrintln("═══════════════════════════════════════════════════════")
			if len(records) == 0 {
				outPrintln("  (none known, only Sundays are blocked)")
				return nil
			}
			for _, r := range records {
				outPrintf("  %s  %-17s %s\n", r.Date.Format(dateutil.ISODate), r.Kind, r.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&country, "country", "", "ISO country code (default: holidays.country)")
	cmd.Flags().IntVar(&year, "year", 0, "Year (default: holidays.year or current year)")

	return cmd
}

func calendarCmd() *cobra.Command {
	var month string
	var selectDate string
	var selectTime string
	var navigate []string

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Render the month grid with blocked dates and the current selection",
		Long: `Render the month grid with blocked dates and the current selection.

Markers: x = weekend, h = national holiday, * = observance, [d] = selected`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var visible *calendar.Month
			if month != "" {
				m, err := calendar.ParseMonth(month)
				if err != nil {
					return err
				}
				visible = &m
			}

			comp, cleanup, err := mountComponent(ctx, visible, selectDate, nil)
			if err != nil {
				return err
			}
			defer cleanup()

			if selectDate != "" {
				if err := clickDate(comp, selectDate, visible != nil); err != nil {
					return err
				}
			}
			if selectTime != "" {
				if err := clickTime(comp, selectTime); err != nil {
					return err
				}
			}
			for _, step := range navigate {
				dir, err := calendar.ParseDirection(step)
				if err != nil {
					return err
				}
				comp.NavigateMonth(dir)
			}

			return comp.Render(out)
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "Month to show, YYYY-MM (default: month of --select or current month)")
	cmd.Flags().StringVar(&selectDate, "select", "", "Date to click, YYYY-MM-DD")
	cmd.Flags().StringVar(&selectTime, "time", "", "Time slot to click after the date, HH:MM")
	cmd.Flags().StringSliceVar(&navigate, "navigate", nil, "Month navigation steps applied last (prev,next)")

	return cmd
}

func bookCmd() *cobra.Command {
	var dryRun bool
	var date string
	var slot string
	app := booking.NewApplication()

	cmd := &cobra.Command{
		Use:   "book",
		Short: "Pick a date and time like the booking form does and submit the application",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			comp, cleanup, err := mountComponent(ctx, nil, date, app.OnSelectionChange)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := clickDate(comp, date, false); err != nil {
				return err
			}
			if err := clickTime(comp, slot); err != nil {
				return err
			}

			logger.Info("Booking selection",
				zap.String("id", app.ID.String()),
				zap.String("date", app.Date),
				zap.String("time", app.Time))

			var submitter booking.Submitter
			if dryRun || cfg.Booking.SubmitURL == "" {
				submitter = booking.NewLogSubmitter(logger)
			} else {
				submitter = booking.NewHTTPSubmitter(cfg.Booking.SubmitURL, cfg.Booking.GetTimeout(), logger)
			}

			if err := submitter.Submit(ctx, app); err != nil {
				return fmt.Errorf("failed to submit application: %w", err)
			}

			payload, err := json.MarshalIndent(app, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode application: %w", err)
			}
			outPrintln(string(payload))

			if dryRun || cfg.Booking.SubmitURL == "" {
				outPrintln("\n[DRY RUN] Application was not sent")
			} else {
				outPrintln("\n✅ Application submitted!")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&app.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&app.LastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&app.Email, "email", "", "Email address")
	cmd.Flags().IntVar(&app.Age, "age", booking.DefaultAge, fmt.Sprintf("Age (%d-%d)", booking.MinAge, booking.MaxAge))
	cmd.Flags().StringVar(&app.PhotoPath, "photo", "", "Path to the photo to upload")
	cmd.Flags().StringVar(&date, "date", "", "Workout date, YYYY-MM-DD")
	cmd.Flags().StringVar(&slot, "time", "", "Workout time slot, HH:MM")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate and print the application without sending it")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("time")

	return cmd
}

// mountComponent creates the calendar component for the holiday year of
// the date of interest and waits for its holiday data.
func mountComponent(ctx context.Context, visible *calendar.Month, date string, onSelection booking.SelectionHandler) (*booking.Component, func(), error) {
	year := cfg.Holidays.GetYear(dateutil.Today())
	if visible != nil {
		year = visible.Year
	} else if d, ok := calendar.ParseSelectedDate(date); ok && cfg.Holidays.Year == 0 {
		year = d.Year()
	}

	dir, cleanupDir := buildDirectory(ctx, cfg, logger)

	comp := booking.NewComponent(dir, booking.Options{
		Country:           strings.ToUpper(cfg.Holidays.Country),
		Year:              year,
		Slots:             cfg.Calendar.GetTimeSlots(),
		OnSelectionChange: onSelection,
		OnDateChange: func(date string) {
			logger.Debug("Selected date changed", zap.String("date", date))
		},
	}, logger)
	if visible != nil {
		comp.ShowMonth(*visible)
	}

	cleanup := func() {
		comp.Unmount()
		cleanupDir()
	}

	comp.Mount(ctx)

	// the directory enforces its own timeout; this only bounds a stuck cache
	wait := time.NewTimer(cfg.Holidays.GetTimeout() + 5*time.Second)
	defer wait.Stop()

	select {
	case <-comp.HolidaysLoaded():
	case <-wait.C:
		logger.Warn("Holiday data not available in time, continuing without it")
	case <-ctx.Done():
		cleanup()
		return nil, nil, ctx.Err()
	}

	return comp, cleanup, nil
}

// clickDate selects date. When the month was chosen explicitly the date
// must lie in it, like a click on the visible grid; otherwise the view
// follows the date.
func clickDate(comp *booking.Component, value string, monthFixed bool) error {
	date, ok := calendar.ParseSelectedDate(value)
	if !ok {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}

	if monthFixed {
		if !comp.SelectDate(date) && !comp.State().IsSelected(date) {
			return fmt.Errorf("date %s cannot be selected in %s", value, comp.State().VisibleMonth)
		}
		return nil
	}

	comp.SetSelectedDate(value)
	if comp.SelectedDate() != date.Format(dateutil.ISODate) {
		return fmt.Errorf("date %s cannot be selected (%s)", value, comp.Classify(date).Reason)
	}
	return nil
}

func clickTime(comp *booking.Component, value string) error {
	slot, err := calendar.ParseTimeSlot(value)
	if err != nil {
		return err
	}
	if !calendar.ContainsSlot(comp.Slots(), slot) {
		return fmt.Errorf("time %s is not offered, available: %s", slot, joinSlots(comp.Slots()))
	}
	comp.SelectTime(slot)
	return nil
}

func joinSlots(slots []calendar.TimeSlot) string {
	parts := make([]string, 0, len(slots))
	for _, s := range slots {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, ", ")
}
