package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// SweepLocker is the cross-instance mutual exclusion for the sweep; see
// internal/lock for the redis implementation.
type SweepLocker interface {
	TryAcquire(ctx context.Context, holder string) (bool, error)
	Release(ctx context.Context, holder string) error
}

// Sweeper periodically escalates overdue complaints through the lifecycle
// engine. Each complaint is its own atomic unit: an interrupted sweep leaves
// already-escalated items escalated, which is the intended granularity.
type Sweeper struct {
	engine      *LifecycleService
	complaints  ComplaintStore
	locker      SweepLocker
	interval    time.Duration
	concurrency int
	holder      string
	log         zerolog.Logger
}

func NewSweeper(
	engine *LifecycleService,
	complaints ComplaintStore,
	locker SweepLocker,
	interval time.Duration,
	concurrency int,
	log zerolog.Logger,
) *Sweeper {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Sweeper{
		engine:      engine,
		complaints:  complaints,
		locker:      locker,
		interval:    interval,
		concurrency: concurrency,
		holder:      uuid.NewString(),
		log:         log,
	}
}

// Run blocks until ctx is canceled, sweeping once per interval.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info().Dur("interval", s.interval).Msg("escalation sweeper started")
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("escalation sweeper stopped")
			return
		case <-ticker.C:
			if err := s.SweepOnce(ctx); err != nil {
				s.log.Error().Err(err).Msg("sweep failed")
			}
		}
	}
}

// SweepOnce escalates every overdue, not-yet-capped complaint by one level.
// Version conflicts mean another actor just touched the complaint; those
// items are skipped, not retried, and the next run picks them up if still
// overdue.
func (s *Sweeper) SweepOnce(ctx context.Context) error {
	if s.locker != nil {
		ok, err := s.locker.TryAcquire(ctx, s.holder)
		if err != nil {
			return err
		}
		if !ok {
			s.log.Debug().Msg("sweep lease held elsewhere, skipping run")
			return nil
		}
		defer func() {
			if err := s.locker.Release(context.WithoutCancel(ctx), s.holder); err != nil {
				s.log.Warn().Err(err).Msg("sweep lease release failed")
			}
		}()
	}

	now := s.engine.sla.Now()
	due, err := s.complaints.ListOverdue(ctx, now, s.engine.sla.Cap())
	if err != nil {
		return err
	}
	if len(due) == 0 {
		return nil
	}

	var escalated, skipped int
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	results := make([]error, len(due))
	for i := range due {
		i := i
		g.Go(func() error {
			results[i] = s.engine.AutoEscalate(gctx, &due[i])
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range results {
		switch {
		case err == nil:
			escalated++
		case errors.Is(err, ErrConflict):
			skipped++
		default:
			s.log.Error().Err(err).Str("complaint_id", due[i].ID.String()).Msg("escalation failed")
		}
	}

	s.log.Info().
		Int("overdue", len(due)).
		Int("escalated", escalated).
		Int("conflicts", skipped).
		Msg("sweep completed")
	return nil
}
