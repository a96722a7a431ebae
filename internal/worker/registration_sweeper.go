package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/spec-kit/finance-service/internal/observability"
)

// SweepLeaseKey guards a sweep iteration across replicas.
const SweepLeaseKey = "finance:sweep:registration"

// ExpiredRegistrationDeleter removes PENDING accounts past their window.
type ExpiredRegistrationDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// Lease grants one holder a key for ttl.
type Lease interface {
	AcquireLease(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// RegistrationSweeper periodically deletes unconfirmed registrations.
// Each iteration waits a full interval after the previous one finished.
type RegistrationSweeper struct {
	deleter  ExpiredRegistrationDeleter
	lease    Lease
	clock    clockwork.Clock
	interval time.Duration
	metrics  *observability.Metrics
	logger   *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// SweeperOptions configures a RegistrationSweeper. Lease and Metrics are optional.
type SweeperOptions struct {
	Interval time.Duration
	Clock    clockwork.Clock
	Lease    Lease
	Metrics  *observability.Metrics
}

// NewRegistrationSweeper constructs a stopped sweeper.
func NewRegistrationSweeper(deleter ExpiredRegistrationDeleter, opts SweeperOptions, logger *zap.Logger) *RegistrationSweeper {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &RegistrationSweeper{
		deleter:  deleter,
		lease:    opts.Lease,
		clock:    clock,
		interval: opts.Interval,
		metrics:  opts.Metrics,
		logger:   logger,
	}
}

// Start launches the sweep loop. Calling Start on a running sweeper is a no-op.
func (s *RegistrationSweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.loop(ctx, s.done)
	s.logger.Info("registration sweeper started", zap.Duration("interval", s.interval))
}

// Stop cancels the loop and waits for a running iteration to finish.
func (s *RegistrationSweeper) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	s.logger.Info("registration sweeper stopped")
}

func (s *RegistrationSweeper) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.clock.After(s.interval):
		}
		if err := s.RunOnce(ctx); err != nil {
			s.metrics.RecordSweepFailure()
			s.logger.Error("registration sweep failed", zap.Error(err))
		}
	}
}

// RunOnce performs one sweep iteration.
func (s *RegistrationSweeper) RunOnce(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sweep panic: %v", r)
		}
	}()

	if s.lease != nil {
		acquired, leaseErr := s.lease.AcquireLease(ctx, SweepLeaseKey, s.interval)
		switch {
		case leaseErr != nil:
			s.logger.Warn("sweep lease unavailable, sweeping anyway", zap.Error(leaseErr))
		case !acquired:
			s.metrics.RecordSweepSkipped()
			s.logger.Debug("sweep lease held by another replica")
			return nil
		}
	}

	deleted, err := s.deleter.DeleteExpired(ctx)
	if err != nil {
		return err
	}
	s.metrics.RecordSweep(deleted)
	s.logger.Info("registration sweep finished", zap.Int64("deleted", deleted))
	return nil
}
