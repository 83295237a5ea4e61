package holiday

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/pl"
	"github.com/rickar/cal/v2/us"
	"go.uber.org/zap"
)

// staticHolidaySets maps ISO country codes to the holiday rules shipped with rickar/cal
var staticHolidaySets = map[string][]*cal.Holiday{
	"PL": pl.Holidays,
	"US": us.Holidays,
}

// StaticDirectory implements Directory by computing holidays offline.
// Public holidays are reported as national holidays, every other observance type as an observance.
type StaticDirectory struct {
	logger *zap.Logger
}

// NewStaticDirectory creates a new StaticDirectory instance
func NewStaticDirectory(logger *zap.Logger) *StaticDirectory {
	return &StaticDirectory{logger: logger}
}

// SupportsCountry reports whether a static holiday set exists for country
func SupportsCountry(country string) bool {
	_, ok := staticHolidaySets[strings.ToUpper(country)]
	return ok
}

// Holidays computes the holidays of the given country and year
func (d *StaticDirectory) Holidays(ctx context.Context, country string, year int) ([]Record, error) {
	set, ok := staticHolidaySets[strings.ToUpper(country)]
	if !ok {
		return nil, fmt.Errorf("no static holiday set for country %q", country)
	}

	records := make([]Record, 0, len(set))
	for _, h := range set {
		actual, _ := h.Calc(year)
		if actual.IsZero() {
			continue // rule not in effect for this year
		}

		kind := KindObservance
		if h.Type == cal.ObservancePublic {
			kind = KindNationalHoliday
		}

		records = append(records, Record{
			Date: actual,
			Kind: kind,
			Name: h.Name,
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})

	d.logger.Debug("Static holidays computed",
		zap.String("country", country),
		zap.Int("year", year),
		zap.Int("count", len(records)))

	return records, nil
}
