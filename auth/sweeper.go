package auth

import (
	"context"
	"time"
)

// Sweeper periodically purges session ledger rows whose tokens have expired
// anyway. It replaces the cron job the platform used to run for session
// maintenance.
type Sweeper struct {
	sessions Sessions
	interval time.Duration
	maxAge   time.Duration
	logger   Logger
	sink     ActivitySink
}

// NewSweeper builds a sweeper deleting rows older than maxAge every interval.
func NewSweeper(sessions Sessions, interval, maxAge time.Duration) *Sweeper {
	return &Sweeper{
		sessions: sessions,
		interval: interval,
		maxAge:   maxAge,
		logger:   defLogger{},
		sink:     noopActivitySink{},
	}
}

func (s *Sweeper) WithLogger(logger Logger) *Sweeper {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithActivitySink configures an ActivitySink for sweep events.
func (s *Sweeper) WithActivitySink(sink ActivitySink) *Sweeper {
	s.sink = normalizeActivitySink(sink)
	return s
}

// Run blocks until the context is cancelled, sweeping on every tick.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep deletes expired rows once and logs the outcome.
func (s *Sweeper) Sweep(ctx context.Context) {
	deleted, err := s.sessions.DeleteExpired(ctx, s.maxAge)
	if err != nil {
		s.logger.Error("session sweep failed", "error", err)
		return
	}

	if deleted == 0 {
		return
	}

	s.logger.Info("session sweep removed expired rows", "deleted", deleted)

	event := ActivityEvent{
		EventType:  ActivityEventSessionSwept,
		Metadata:   map[string]any{"deleted": deleted},
		OccurredAt: time.Now(),
	}
	if err := s.sink.Record(ctx, event); err != nil {
		s.logger.Warn("activity sink record error", "error", err)
	}
}
