package booking

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/username/workout-booking/internal/calendar"
	"github.com/username/workout-booking/internal/holiday"
	"go.uber.org/zap"
)

const (
	MinAge     = 8
	MaxAge     = 100
	DefaultAge = MinAge
)

// Domain errors
var (
	ErrEmptyFirstName = errors.New("first name cannot be empty")
	ErrEmptyLastName  = errors.New("last name cannot be empty")
	ErrInvalidEmail   = errors.New("email address is invalid")
	ErrAgeOutOfRange  = errors.New("age is out of range")
	ErrMissingPhoto   = errors.New("photo is required")
	ErrMissingDate    = errors.New("workout date is required")
	ErrMissingTime    = errors.New("workout time is required")
)

// Application is the completed booking form
type Application struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Age       int       `json:"age"`
	PhotoPath string    `json:"photo"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
}

// NewApplication returns an empty application with a fresh request id
func NewApplication() *Application {
	return &Application{
		ID:  uuid.New(),
		Age: DefaultAge,
	}
}

// OnSelectionChange receives the calendar selection. Pass it to the
// calendar component so the chosen time reaches the submitted payload.
func (a *Application) OnSelectionChange(date, timeOfDay string) {
	a.Date = date
	a.Time = timeOfDay
}

// Validate checks the application is complete
func (a *Application) Validate() error {
	if strings.TrimSpace(a.FirstName) == "" {
		return ErrEmptyFirstName
	}
	if strings.TrimSpace(a.LastName) == "" {
		return ErrEmptyLastName
	}
	if _, err := mail.ParseAddress(a.Email); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, a.Email)
	}
	if a.Age < MinAge || a.Age > MaxAge {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrAgeOutOfRange, a.Age, MinAge, MaxAge)
	}
	if strings.TrimSpace(a.PhotoPath) == "" {
		return ErrMissingPhoto
	}
	if _, ok := calendar.ParseSelectedDate(a.Date); !ok {
		return ErrMissingDate
	}
	if _, err := calendar.ParseTimeSlot(a.Time); err != nil {
		return ErrMissingTime
	}
	return nil
}

// Fields returns the form fields as sent to the submission endpoint
func (a *Application) Fields() map[string]string {
	return map[string]string{
		"id":         a.ID.String(),
		"first_name": a.FirstName,
		"last_name":  a.LastName,
		"email":      a.Email,
		"age":        strconv.Itoa(a.Age),
		"date":       a.Date,
		"time":       a.Time,
	}
}

// Submitter sends a completed application to the booking endpoint
type Submitter interface {
	Submit(ctx context.Context, app *Application) error
}

// IsDateDisabled is the check the host form applies to its date field.
// Malformed values are not disabled; they simply count as "not selected".
func IsDateDisabled(value string, idx holiday.Index) bool {
	date, ok := calendar.ParseSelectedDate(value)
	if !ok {
		return false
	}
	return !calendar.Classify(date, idx).Selectable
}

// LogSubmitter is a dry-run Submitter that only logs the application
type LogSubmitter struct {
	logger *zap.Logger
}

// NewLogSubmitter creates a new LogSubmitter
func NewLogSubmitter(logger *zap.Logger) *LogSubmitter {
	return &LogSubmitter{logger: logger}
}

// Submit validates and logs the application fields
func (s *LogSubmitter) Submit(ctx context.Context, app *Application) error {
	if err := app.Validate(); err != nil {
		return fmt.Errorf("invalid application: %w", err)
	}

	fields := make([]zap.Field, 0, 8)
	for k, v := range app.Fields() {
		fields = append(fields, zap.String(k, v))
	}
	s.logger.Info("Application ready for submission (dry run)", fields...)
	return nil
}
