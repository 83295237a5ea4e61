package holiday

import (
	"context"

	"go.uber.org/zap"
)

// Fetch asks dir for the holidays of country/year and never fails.
// Any error is logged and NoHolidays is returned instead.
func Fetch(ctx context.Context, dir Directory, country string, year int, logger *zap.Logger) []Record {
	records, err := dir.Holidays(ctx, country, year)
	if err != nil {
		logger.Warn("Failed to fetch holidays, continuing without holiday data",
			zap.String("country", country),
			zap.Int("year", year),
			zap.Error(err))
		return NoHolidays
	}
	if records == nil {
		return NoHolidays
	}
	return records
}
