package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/travelsmart/backend/services/booking/internal/clock"
	"github.com/travelsmart/backend/services/booking/internal/metrics"
)

type SweeperRepository interface {
	ExpireStaleLocks(ctx context.Context, now time.Time) (int64, error)
	DeleteExpiredLocksBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Sweeper is the background backstop for holders that never release: it
// periodically demotes stale held locks to expired and, on a much longer
// cycle, purges expired rows past the retention window. Correctness elsewhere
// does not depend on its timing; acquire re-checks expiry itself.
type Sweeper struct {
	repo          SweeperRepository
	clock         clock.Clock
	log           zerolog.Logger
	sweepInterval time.Duration
	purgeInterval time.Duration
	retention     time.Duration
}

const (
	defaultSweepInterval = time.Minute
	defaultPurgeInterval = 24 * time.Hour
	defaultRetention     = 7 * 24 * time.Hour
)

func NewSweeper(repo SweeperRepository, clk clock.Clock, log zerolog.Logger, opts ...SweeperOption) *Sweeper {
	s := &Sweeper{
		repo:          repo,
		clock:         clk,
		log:           log,
		sweepInterval: defaultSweepInterval,
		purgeInterval: defaultPurgeInterval,
		retention:     defaultRetention,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type SweeperOption func(*Sweeper)

func WithSweepInterval(d time.Duration) SweeperOption {
	return func(s *Sweeper) {
		if d > 0 {
			s.sweepInterval = d
		}
	}
}

func WithPurgeInterval(d time.Duration) SweeperOption {
	return func(s *Sweeper) {
		if d > 0 {
			s.purgeInterval = d
		}
	}
}

func WithRetention(d time.Duration) SweeperOption {
	return func(s *Sweeper) {
		if d > 0 {
			s.retention = d
		}
	}
}

// ExpireStale demotes every held lock whose window has elapsed.
func (s *Sweeper) ExpireStale(ctx context.Context) (int64, error) {
	n, err := s.repo.ExpireStaleLocks(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		metrics.HoldsExpired.Add(float64(n))
		s.log.Info().Int64("count", n).Msg("expired stale seat locks")
	}
	return n, nil
}

// PurgeExpired deletes expired locks older than the retention cutoff.
func (s *Sweeper) PurgeExpired(ctx context.Context) (int64, error) {
	cutoff := s.clock.Now().Add(-s.retention)
	n, err := s.repo.DeleteExpiredLocksBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		metrics.HoldsPurged.Add(float64(n))
		s.log.Info().Int64("count", n).Msg("purged old seat locks")
	}
	return n, nil
}

// Run drives both cycles until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ticker := time.NewTicker(s.sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if _, err := s.ExpireStale(ctx); err != nil && ctx.Err() == nil {
					s.log.Error().Err(err).Msg("sweep failed")
				}
			}
		}
	})

	g.Go(func() error {
		ticker := time.NewTicker(s.purgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if _, err := s.PurgeExpired(ctx); err != nil && ctx.Err() == nil {
					s.log.Error().Err(err).Msg("purge failed")
				}
			}
		}
	})

	return g.Wait()
}
