package holiday

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/username/workout-booking/pkg/dateutil"
	"go.uber.org/zap"
)

// FileDirectory implements Directory using a local text file.
// The file describes a single country, so the country argument is ignored.
type FileDirectory struct {
	filePath string
	logger   *zap.Logger
	mu       sync.RWMutex
	data     map[int][]Record // year → records
	loaded   bool
}

// NewFileDirectory creates a new FileDirectory instance
func NewFileDirectory(filePath string, logger *zap.Logger) *FileDirectory {
	return &FileDirectory{
		filePath: filePath,
		logger:   logger,
		data:     make(map[int][]Record),
	}
}

// Load loads holiday data from file
func (fd *FileDirectory) Load() error {
	file, err := os.Open(fd.filePath)
	if err != nil {
		return fmt.Errorf("failed to open holiday file: %w", err)
	}
	defer file.Close()

	data := make(map[int][]Record)
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Format: YYYY-MM-DD TYPE name
		// Example: 2024-05-01 NATIONAL_HOLIDAY Labour Day
		parts := strings.SplitN(line, " ", 3)
		if len(parts) < 2 {
			fd.logger.Warn("Invalid line format", zap.String("line", line))
			continue
		}

		date, err := time.Parse(dateutil.ISODate, parts[0])
		if err != nil {
			fd.logger.Warn("Failed to parse date", zap.String("date", parts[0]), zap.Error(err))
			continue
		}

		name := ""
		if len(parts) == 3 {
			name = strings.TrimSpace(parts[2])
		}

		data[date.Year()] = append(data[date.Year()], Record{
			Date: date,
			Kind: ParseKind(parts[1]),
			Name: name,
		})
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading holiday file: %w", err)
	}

	for year := range data {
		records := data[year]
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Date.Before(records[j].Date)
		})
	}

	fd.mu.Lock()
	fd.data = data
	fd.loaded = true
	fd.mu.Unlock()

	fd.logger.Info("Holiday file loaded",
		zap.String("file", fd.filePath),
		zap.Int("years", len(data)))

	return nil
}

// Holidays returns the records of the given year
func (fd *FileDirectory) Holidays(ctx context.Context, country string, year int) ([]Record, error) {
	fd.mu.RLock()
	defer fd.mu.RUnlock()

	if !fd.loaded {
		return nil, fmt.Errorf("holiday file not loaded: %s", fd.filePath)
	}

	records, ok := fd.data[year]
	if !ok {
		return nil, fmt.Errorf("year not found in holiday file: %d", year)
	}

	return records, nil
}
