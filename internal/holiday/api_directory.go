package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/username/workout-booking/pkg/dateutil"
	"go.uber.org/zap"
)

const (
	DefaultAPIURL   = "https://api.api-ninjas.com/v1/holidays"
	defaultTimeout  = 10 * time.Second
	defaultCacheTTL = 24 * time.Hour
	apiKeyHeader    = "X-Api-Key"
)

// APIDirectory implements Directory using the api-ninjas holidays endpoint
type APIDirectory struct {
	apiURL     string
	apiKey     string
	cacheTTL   time.Duration
	httpClient *http.Client
	logger     *zap.Logger
	cache      map[string]*cachedYear
	cacheMu    sync.RWMutex
}

type cachedYear struct {
	data      []Record
	fetchedAt time.Time
}

// apiHoliday represents a single entry of the API response
type apiHoliday struct {
	Date string `json:"date"`
	Type string `json:"type"`
	Name string `json:"name"`
}

// NewAPIDirectory creates a new APIDirectory instance
func NewAPIDirectory(apiURL, apiKey string, timeout, cacheTTL time.Duration, logger *zap.Logger) *APIDirectory {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if cacheTTL == 0 {
		cacheTTL = defaultCacheTTL
	}

	return &APIDirectory{
		apiURL:   apiURL,
		apiKey:   apiKey,
		cacheTTL: cacheTTL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
		cache:  make(map[string]*cachedYear),
	}
}

// Holidays returns the holiday list for the given country and year
func (d *APIDirectory) Holidays(ctx context.Context, country string, year int) ([]Record, error) {
	cacheKey := fmt.Sprintf("%s-%d", strings.ToUpper(country), year)

	d.cacheMu.RLock()
	if cached, ok := d.cache[cacheKey]; ok {
		if time.Since(cached.fetchedAt) < d.cacheTTL {
			d.cacheMu.RUnlock()
			d.logger.Debug("Using cached holidays",
				zap.String("country", country),
				zap.Int("year", year))
			return cached.data, nil
		}
	}
	d.cacheMu.RUnlock()

	records, err := d.fetchYear(ctx, country, year)
	if err != nil {
		return nil, err
	}

	d.cacheMu.Lock()
	d.cache[cacheKey] = &cachedYear{
		data:      records,
		fetchedAt: time.Now(),
	}
	d.cacheMu.Unlock()

	d.logger.Info("Holidays fetched and cached",
		zap.String("country", country),
		zap.Int("year", year),
		zap.Int("count", len(records)))

	return records, nil
}

// fetchYear performs a single request against the provider
func (d *APIDirectory) fetchYear(ctx context.Context, country string, year int) ([]Record, error) {
	u, err := url.Parse(d.apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid holidays API URL: %w", err)
	}
	q := u.Query()
	q.Set("country", country)
	q.Set("year", strconv.Itoa(year))
	u.RawQuery = q.Encode()

	d.logger.Debug("Fetching holidays",
		zap.String("url", u.String()),
		zap.String("country", country),
		zap.Int("year", year))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if d.apiKey != "" {
		req.Header.Set(apiKeyHeader, d.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch holidays: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var apiResp []apiHoliday
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to parse API response: %w", err)
	}

	return d.toRecords(apiResp), nil
}

func (d *APIDirectory) toRecords(apiResp []apiHoliday) []Record {
	records := make([]Record, 0, len(apiResp))
	for _, h := range apiResp {
		date, err := time.Parse(dateutil.ISODate, h.Date)
		if err != nil {
			d.logger.Warn("Failed to parse holiday date",
				zap.String("date", h.Date),
				zap.String("name", h.Name),
				zap.Error(err))
			continue
		}

		records = append(records, Record{
			Date: date,
			Kind: ParseKind(h.Type),
			Name: h.Name,
		})
	}
	return records
}

// ClearCache clears the cache
func (d *APIDirectory) ClearCache() {
	d.cacheMu.Lock()
	defer d.cacheMu.Unlock()

	d.cache = make(map[string]*cachedYear)
	d.logger.Info("Holiday cache cleared")
}
