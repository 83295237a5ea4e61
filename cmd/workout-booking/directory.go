package main

import (
	"context"
	"fmt"

	"github.com/username/workout-booking/internal/config"
	"github.com/username/workout-booking/internal/holiday"
	"go.uber.org/zap"
)

// buildDirectory assembles the holiday directory described by cfg, behind
// the shared cache when one is configured and reachable. The returned
// cleanup func releases the cache connection, if any.
func buildDirectory(ctx context.Context, cfg *config.Config, logger *zap.Logger) (holiday.Directory, func()) {
	dir := buildSource(cfg, logger)

	if cfg.Cache.RedisAddr == "" {
		return dir, func() {}
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		logger.Warn("Redis unavailable, holiday cache disabled",
			zap.String("addr", cfg.Cache.RedisAddr),
			zap.Error(err))
		return dir, func() {}
	}

	logger.Debug("Using shared holiday cache", zap.String("addr", cfg.Cache.RedisAddr))
	return holiday.NewCachedDirectory(dir, store, cfg.Cache.GetTTL(), logger), func() { _ = store.Close() }
}

// buildSource returns the uncached holiday source for cfg.Holidays.Source
func buildSource(cfg *config.Config, logger *zap.Logger) holiday.Directory {
	switch cfg.Holidays.Source {
	case config.SourceStatic:
		return holiday.NewStaticDirectory(logger)

	case config.SourceFile:
		fd := holiday.NewFileDirectory(cfg.Holidays.FallbackFile, logger)
		if err := fd.Load(); err != nil {
			// every lookup fails and the calendar falls back to the Sunday rule
			logger.Warn("Failed to load holiday file", zap.Error(err))
		}
		return fd
	}

	api := holiday.NewAPIDirectory(
		cfg.Holidays.APIURL,
		cfg.Holidays.APIKey,
		cfg.Holidays.GetTimeout(),
		cfg.Cache.GetTTL(),
		logger,
	)

	switch {
	case cfg.Holidays.FallbackFile != "":
		composite := holiday.NewCompositeDirectory(api, holiday.NewFileDirectory(cfg.Holidays.FallbackFile, logger), logger)
		if err := composite.LoadFallback(); err != nil {
			logger.Warn("Fallback holiday file unavailable, using API only", zap.Error(err))
			return api
		}
		return composite
	case cfg.Holidays.StaticFallback && holiday.SupportsCountry(cfg.Holidays.Country):
		return holiday.NewCompositeDirectory(api, holiday.NewStaticDirectory(logger), logger)
	}
	return api
}

func openStore(ctx context.Context, cfg *config.Config) (*holiday.RedisStore, error) {
	store := holiday.NewRedisStore(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("redis %s: %w", cfg.Cache.RedisAddr, err)
	}
	return store, nil
}
