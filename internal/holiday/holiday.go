package holiday

import (
	"context"
	"strings"
	"time"

	"github.com/username/workout-booking/pkg/dateutil"
)

// Kind represents the type of a holiday record as reported by the provider
type Kind string

const (
	KindNationalHoliday Kind = "NATIONAL_HOLIDAY"
	KindObservance      Kind = "OBSERVANCE"
	KindOther           Kind = "OTHER"
)

// ParseKind maps a provider type string to a Kind. Unknown values become KindOther.
func ParseKind(s string) Kind {
	switch Kind(strings.ToUpper(strings.TrimSpace(s))) {
	case KindNationalHoliday:
		return KindNationalHoliday
	case KindObservance:
		return KindObservance
	default:
		return KindOther
	}
}

// Record represents a single holiday entry
type Record struct {
	Date time.Time
	Kind Kind
	Name string
}

// Key returns the ISO date the record is keyed by
func (r Record) Key() string {
	return dateutil.FormatDate(r.Date)
}

// NoHolidays is the fail-open default used whenever holiday data is unavailable.
// With no holidays known only the Sunday rule blocks dates.
var NoHolidays = []Record{}

// Directory provides holiday lists scoped by country and year
type Directory interface {
	Holidays(ctx context.Context, country string, year int) ([]Record, error)
}

// Index is a lookup of holiday records by ISO date
type Index map[string]Record

// NewIndex builds an Index. When several records share a date the first one wins.
func NewIndex(records []Record) Index {
	idx := make(Index, len(records))
	for _, r := range records {
		key := r.Key()
		if _, exists := idx[key]; exists {
			continue
		}
		idx[key] = r
	}
	return idx
}

// Lookup returns the record for the calendar date of t, ignoring time of day
func (idx Index) Lookup(t time.Time) (Record, bool) {
	if idx == nil {
		return Record{}, false
	}
	r, ok := idx[dateutil.FormatDate(t)]
	return r, ok
}
