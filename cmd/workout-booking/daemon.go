package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/username/workout-booking/internal/daemon"
	"github.com/username/workout-booking/internal/holiday"
	"go.uber.org/zap"
)

func daemonCmd() *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Keep the shared Redis holiday cache warm",
		Long: `Refresh the holiday lists of the current year and the following years
into the shared Redis cache on a fixed interval, so calendar views never
wait on the remote provider.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Cache.RedisAddr == "" {
				return fmt.Errorf("cache.redis_addr is required to run the daemon")
			}

			store, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			cached := holiday.NewCachedDirectory(buildSource(cfg, logger), store, cfg.Cache.GetTTL(), logger)
			d := daemon.NewDaemon(
				cached,
				strings.ToUpper(cfg.Holidays.Country),
				cfg.Daemon.GetRefreshInterval(),
				cfg.Daemon.YearsAhead,
				cfg.Daemon.SystemTray,
				logger,
			)

			if once {
				if err := d.Refresh(cmd.Context()); err != nil {
					return fmt.Errorf("refresh failed: %w", err)
				}
				outPrintf("✅ Holidays refreshed for %s %v\n", strings.ToUpper(cfg.Holidays.Country), d.Years())
				return nil
			}

			logger.Info("Starting holiday cache daemon",
				zap.String("redis_addr", cfg.Cache.RedisAddr),
				zap.Duration("interval", cfg.Daemon.GetRefreshInterval()))
			return d.Start()
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "Refresh once and exit")

	return cmd
}
