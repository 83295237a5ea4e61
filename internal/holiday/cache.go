package holiday

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/username/workout-booking/pkg/dateutil"
	"go.uber.org/zap"
)

// CacheStore is a byte-oriented key/value store with expiry
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedDirectory wraps a Directory with a shared cache.
// Cache failures are logged and never prevent a lookup on the wrapped directory.
type CachedDirectory struct {
	inner  Directory
	store  CacheStore
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedDirectory creates a new CachedDirectory
func NewCachedDirectory(inner Directory, store CacheStore, ttl time.Duration, logger *zap.Logger) *CachedDirectory {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CachedDirectory{
		inner:  inner,
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

func cacheKey(country string, year int) string {
	return fmt.Sprintf("holidays:%s:%d", strings.ToUpper(country), year)
}

// Holidays returns cached records when present, otherwise asks the wrapped directory
func (cd *CachedDirectory) Holidays(ctx context.Context, country string, year int) ([]Record, error) {
	key := cacheKey(country, year)

	data, ok, err := cd.store.Get(ctx, key)
	if err != nil {
		cd.logger.Warn("Holiday cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		records, decodeErr := decodeRecords(data)
		if decodeErr == nil {
			cd.logger.Debug("Using shared holiday cache", zap.String("key", key))
			return records, nil
		}
		cd.logger.Warn("Discarding corrupt holiday cache entry", zap.String("key", key), zap.Error(decodeErr))
	}

	records, err := cd.inner.Holidays(ctx, country, year)
	if err != nil {
		return nil, err
	}
	cd.put(ctx, key, records)

	return records, nil
}

// Refresh fetches the list from the wrapped directory and overwrites the
// cache entry, whatever its age. It returns the number of records stored.
func (cd *CachedDirectory) Refresh(ctx context.Context, country string, year int) (int, error) {
	records, err := cd.inner.Holidays(ctx, country, year)
	if err != nil {
		return 0, fmt.Errorf("failed to refresh holidays for %s %d: %w", strings.ToUpper(country), year, err)
	}

	key := cacheKey(country, year)
	encoded, err := encodeRecords(records)
	if err != nil {
		return 0, fmt.Errorf("failed to encode holidays: %w", err)
	}
	if err := cd.store.Set(ctx, key, encoded, cd.ttl); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", key, err)
	}
	return len(records), nil
}

func (cd *CachedDirectory) put(ctx context.Context, key string, records []Record) {
	encoded, err := encodeRecords(records)
	if err != nil {
		cd.logger.Warn("Failed to encode holidays for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := cd.store.Set(ctx, key, encoded, cd.ttl); err != nil {
		cd.logger.Warn("Holiday cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func encodeRecords(records []Record) ([]byte, error) {
	wire := make([]apiHoliday, 0, len(records))
	for _, r := range records {
		wire = append(wire, apiHoliday{
			Date: r.Key(),
			Type: string(r.Kind),
			Name: r.Name,
		})
	}
	return json.Marshal(wire)
}

func decodeRecords(data []byte) ([]Record, error) {
	var wire []apiHoliday
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(wire))
	for _, w := range wire {
		date, err := time.Parse(dateutil.ISODate, w.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid cached date %q: %w", w.Date, err)
		}
		records = append(records, Record{Date: date, Kind: ParseKind(w.Type), Name: w.Name})
	}
	return records, nil
}

// RedisStore implements CacheStore on top of Redis
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis backed cache store
func NewRedisStore(addr, password string, db int) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// Ping checks connectivity within a short timeout
func (s *RedisStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if _, err := s.client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return nil
}

// Get returns the value stored under key
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores value under key with the given ttl
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// Close closes the underlying client
func (s *RedisStore) Close() error {
	return s.client.Close()
}
