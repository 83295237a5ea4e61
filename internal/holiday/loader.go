package holiday

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Loader runs the one-shot holiday fetch of a mounted calendar as a cancellable task.
// Results arriving after Stop are discarded.
type Loader struct {
	dir     Directory
	country string
	year    int
	logger  *zap.Logger

	mu      sync.Mutex
	started bool
	stopped bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewLoader creates a new Loader
func NewLoader(dir Directory, country string, year int, logger *zap.Logger) *Loader {
	return &Loader{
		dir:     dir,
		country: country,
		year:    year,
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// Start launches the fetch. deliver is called at most once, never after Stop has returned.
// Calling Start more than once, or after Stop, does nothing.
func (l *Loader) Start(ctx context.Context, deliver func([]Record)) {
	l.mu.Lock()
	if l.started || l.stopped {
		l.mu.Unlock()
		return
	}
	l.started = true
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.mu.Unlock()

	go func() {
		defer close(l.done)
		defer cancel()

		records := Fetch(ctx, l.dir, l.country, l.year, l.logger)

		l.mu.Lock()
		defer l.mu.Unlock()

		if l.stopped || ctx.Err() != nil {
			l.logger.Debug("Discarding late holiday result",
				zap.String("country", l.country),
				zap.Int("year", l.year))
			return
		}
		deliver(records)
	}()
}

// Stop cancels a running fetch. Safe to call multiple times.
func (l *Loader) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stopped {
		return
	}
	l.stopped = true
	if l.cancel != nil {
		l.cancel()
	}
	if !l.started {
		close(l.done)
	}
}

// Done is closed once a started fetch has finished (delivered or discarded),
// or by Stop when the fetch never started
func (l *Loader) Done() <-chan struct{} {
	return l.done
}
