package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/finance-service/internal/observability"
)

type scriptedDeleter struct {
	calls chan struct{}
	steps []func() (int64, error)
	n     int
}

func newScriptedDeleter(steps ...func() (int64, error)) *scriptedDeleter {
	return &scriptedDeleter{calls: make(chan struct{}, 16), steps: steps}
}

func (d *scriptedDeleter) DeleteExpired(context.Context) (int64, error) {
	defer func() { d.calls <- struct{}{} }()
	step := d.steps[d.n%len(d.steps)]
	d.n++
	return step()
}

type fakeLease struct {
	acquired bool
	err      error
	keys     []string
}

func (l *fakeLease) AcquireLease(_ context.Context, key string, _ time.Duration) (bool, error) {
	l.keys = append(l.keys, key)
	return l.acquired, l.err
}

func waitCall(t *testing.T, d *scriptedDeleter) {
	t.Helper()
	select {
	case <-d.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("sweep did not run")
	}
}

func advance(t *testing.T, clock *clockwork.FakeClock, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(d)
}

func TestRegistrationSweeper_KeepsRunningAfterFailures(t *testing.T) {
	clock := clockwork.NewFakeClock()
	deleter := newScriptedDeleter(
		func() (int64, error) { return 0, errors.New("db down") },
		func() (int64, error) { panic("boom") },
		func() (int64, error) { return 2, nil },
	)
	sweeper := NewRegistrationSweeper(deleter, SweeperOptions{
		Interval: 5 * time.Minute,
		Clock:    clock,
		Metrics:  observability.NewMetrics(prometheus.NewRegistry()),
	}, zap.NewNop())

	sweeper.Start(context.Background())
	defer sweeper.Stop()

	for i := 0; i < 3; i++ {
		advance(t, clock, 5*time.Minute)
		waitCall(t, deleter)
	}
	assert.Equal(t, 3, deleter.n)
}

func TestRegistrationSweeper_WaitsFullInterval(t *testing.T) {
	clock := clockwork.NewFakeClock()
	deleter := newScriptedDeleter(func() (int64, error) { return 0, nil })
	sweeper := NewRegistrationSweeper(deleter, SweeperOptions{Interval: time.Minute, Clock: clock}, zap.NewNop())

	sweeper.Start(context.Background())
	defer sweeper.Stop()

	advance(t, clock, 59*time.Second)
	select {
	case <-deleter.calls:
		t.Fatal("swept before the interval elapsed")
	case <-time.After(50 * time.Millisecond):
	}

	clock.Advance(time.Second)
	waitCall(t, deleter)
}

func TestRegistrationSweeper_StopEndsLoop(t *testing.T) {
	clock := clockwork.NewFakeClock()
	deleter := newScriptedDeleter(func() (int64, error) { return 0, nil })
	sweeper := NewRegistrationSweeper(deleter, SweeperOptions{Interval: time.Minute, Clock: clock}, zap.NewNop())

	sweeper.Start(context.Background())
	sweeper.Start(context.Background())
	advance(t, clock, time.Minute)
	waitCall(t, deleter)

	sweeper.Stop()
	sweeper.Stop()
	clock.Advance(time.Hour)
	select {
	case <-deleter.calls:
		t.Fatal("swept after stop")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRegistrationSweeper_RunOnceLease(t *testing.T) {
	ctx := context.Background()

	t.Run("held elsewhere", func(t *testing.T) {
		deleter := newScriptedDeleter(func() (int64, error) { return 1, nil })
		lease := &fakeLease{acquired: false}
		sweeper := NewRegistrationSweeper(deleter, SweeperOptions{Interval: time.Minute, Lease: lease}, zap.NewNop())

		require.NoError(t, sweeper.RunOnce(ctx))
		assert.Equal(t, 0, deleter.n)
		assert.Equal(t, []string{SweepLeaseKey}, lease.keys)
	})

	t.Run("lease error still sweeps", func(t *testing.T) {
		deleter := newScriptedDeleter(func() (int64, error) { return 1, nil })
		lease := &fakeLease{err: errors.New("redis down")}
		sweeper := NewRegistrationSweeper(deleter, SweeperOptions{Interval: time.Minute, Lease: lease}, zap.NewNop())

		require.NoError(t, sweeper.RunOnce(ctx))
		assert.Equal(t, 1, deleter.n)
	})

	t.Run("acquired", func(t *testing.T) {
		deleter := newScriptedDeleter(func() (int64, error) { return 0, errors.New("db down") })
		sweeper := NewRegistrationSweeper(deleter, SweeperOptions{Interval: time.Minute, Lease: &fakeLease{acquired: true}}, zap.NewNop())

		assert.EqualError(t, sweeper.RunOnce(ctx), "db down")
	})
}
