package holiday

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// CompositeDirectory implements Directory with fallback strategy
// Primary: APIDirectory (remote provider)
// Fallback: FileDirectory or StaticDirectory (local data)
type CompositeDirectory struct {
	primary  Directory
	fallback Directory
	logger   *zap.Logger
}

// NewCompositeDirectory creates a new CompositeDirectory
func NewCompositeDirectory(primary, fallback Directory, logger *zap.Logger) *CompositeDirectory {
	return &CompositeDirectory{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Holidays tries the primary directory first and falls back on error
func (cd *CompositeDirectory) Holidays(ctx context.Context, country string, year int) ([]Record, error) {
	records, err := cd.primary.Holidays(ctx, country, year)
	if err == nil {
		return records, nil
	}

	cd.logger.Warn("Primary holiday directory failed, using fallback",
		zap.String("country", country),
		zap.Int("year", year),
		zap.Error(err))

	records, fallbackErr := cd.fallback.Holidays(ctx, country, year)
	if fallbackErr != nil {
		return nil, fmt.Errorf("primary and fallback both failed: primary=%w, fallback=%v", err, fallbackErr)
	}

	return records, nil
}

// LoadFallback loads the fallback directory (if FileDirectory)
func (cd *CompositeDirectory) LoadFallback() error {
	if fd, ok := cd.fallback.(*FileDirectory); ok {
		if err := fd.Load(); err != nil {
			return fmt.Errorf("failed to load fallback holidays: %w", err)
		}
		cd.logger.Info("Fallback holiday file loaded successfully")
	}
	return nil
}
