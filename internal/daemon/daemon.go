package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const defaultInterval = 12 * time.Hour

// Refresher rewrites the shared cache entry of one holiday list
type Refresher interface {
	Refresh(ctx context.Context, country string, year int) (int, error)
}

// Daemon keeps the shared holiday cache warm so that calendar views never
// wait on the remote provider. It refreshes the current year and the
// configured number of years ahead on a fixed interval.
type Daemon struct {
	refresher  Refresher
	country    string
	interval   time.Duration
	yearsAhead int
	systemTray bool
	now        func() time.Time
	logger     *zap.Logger
	ctx        context.Context
	cancel     context.CancelFunc
	trayApp    *TrayApp

	mu          sync.Mutex
	running     bool        // a refresh round is in progress
	lastRunTime time.Time   // end of the last finished round
	lastCounts  map[int]int // records stored per year in the last round
	lastErr     error
}

// NewDaemon creates a new daemon instance
func NewDaemon(refresher Refresher, country string, interval time.Duration, yearsAhead int, systemTray bool, logger *zap.Logger) *Daemon {
	ctx, cancel := context.WithCancel(context.Background())

	if interval <= 0 {
		interval = defaultInterval
	}
	if yearsAhead < 0 {
		yearsAhead = 0
	}

	return &Daemon{
		refresher:  refresher,
		country:    country,
		interval:   interval,
		yearsAhead: yearsAhead,
		systemTray: systemTray,
		now:        time.Now,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start starts the daemon and blocks until it is stopped
func (d *Daemon) Start() error {
	// System tray is only available on Windows
	if d.systemTray {
		d.logger.Info("Initializing system tray")
		trayApp, err := NewTrayApp(d, d.logger)
		if err != nil {
			d.logger.Warn("Failed to initialize system tray", zap.Error(err))
			return d.startConsole()
		}
		d.trayApp = trayApp
		// Run tray (blocks until Quit)
		d.trayApp.Run()
		return nil
	}

	d.logger.Info("Running without system tray")
	return d.startConsole()
}

func (d *Daemon) startConsole() error {
	ctx, stop := signal.NotifyContext(d.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return d.Run(ctx)
}

// Run refreshes immediately, then on every interval until ctx is done
func (d *Daemon) Run(ctx context.Context) error {
	d.logger.Info("Holiday cache daemon started",
		zap.String("country", d.country),
		zap.Ints("years", d.Years()),
		zap.Duration("interval", d.interval))

	d.refreshAndReport(ctx)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Daemon stopped")
			if d.trayApp != nil {
				d.trayApp.Stop()
			}
			return nil

		case <-ticker.C:
			d.refreshAndReport(ctx)
		}
	}
}

// Stop stops the daemon
func (d *Daemon) Stop() {
	d.cancel()
}

// RefreshNow triggers an immediate refresh (called from tray menu)
func (d *Daemon) RefreshNow() {
	d.logger.Info("Manual refresh triggered")
	d.refreshAndReport(d.ctx)
}

func (d *Daemon) refreshAndReport(ctx context.Context) {
	if err := d.Refresh(ctx); err != nil {
		d.logger.Error("Holiday refresh failed", zap.Error(err))
		if d.trayApp != nil {
			d.trayApp.ShowNotification("Refresh Failed", fmt.Sprintf("Error: %v", err))
		}
		return
	}

	next := d.now().Add(d.interval)
	d.logger.Info("Next refresh scheduled", zap.Time("next_run", next))
	if d.trayApp != nil {
		d.trayApp.ShowNotification("Holidays Refreshed", fmt.Sprintf("Next refresh at %s", next.Format("2006-01-02 15:04")))
	}
}

// Years returns the holiday years kept in the cache
func (d *Daemon) Years() []int {
	current := d.now().Year()
	years := make([]int, 0, d.yearsAhead+1)
	for i := 0; i <= d.yearsAhead; i++ {
		years = append(years, current+i)
	}
	return years
}

// Refresh runs one refresh round. Concurrent rounds are rejected; a failing
// year does not stop the others.
func (d *Daemon) Refresh(ctx context.Context) error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		d.logger.Warn("Refresh already running, skipping concurrent execution")
		return fmt.Errorf("refresh already in progress")
	}
	d.running = true
	d.mu.Unlock()

	counts := make(map[int]int)
	var errs error
	for _, year := range d.Years() {
		n, err := d.refresher.Refresh(ctx, d.country, year)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		counts[year] = n
		d.logger.Info("Holidays refreshed",
			zap.String("country", d.country),
			zap.Int("year", year),
			zap.Int("count", n))
	}

	d.mu.Lock()
	d.running = false
	d.lastRunTime = d.now()
	d.lastCounts = counts
	d.lastErr = errs
	d.mu.Unlock()

	return errs
}

// GetStatus returns daemon status
func (d *Daemon) GetStatus() map[string]interface{} {
	d.mu.Lock()
	defer d.mu.Unlock()

	status := map[string]interface{}{
		"country":  d.country,
		"interval": d.interval.String(),
		"running":  d.running,
	}
	if !d.lastRunTime.IsZero() {
		status["last_run"] = d.lastRunTime.Format(time.RFC3339)
		status["next_run"] = d.lastRunTime.Add(d.interval).Format(time.RFC3339)

		counts := make(map[int]int, len(d.lastCounts))
		for year, n := range d.lastCounts {
			counts[year] = n
		}
		status["counts"] = counts
	}
	if d.lastErr != nil {
		status["last_error"] = d.lastErr.Error()
	}
	return status
}
