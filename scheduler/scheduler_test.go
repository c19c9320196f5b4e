package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newNop() *zap.Logger { return zap.NewNop() }

func counter(n *int32) TaskFn {
	return func(context.Context) error {
		atomic.AddInt32(n, 1)
		return nil
	}
}

func TestAddTicker_Fires(t *testing.T) {
	s := New(newNop())
	defer s.Stop()

	var count int32
	s.AddTicker("tick", 20*time.Millisecond, counter(&count))

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&count) >= 3 }, time.Second, 10*time.Millisecond)
}

func TestAddTicker_Replaces(t *testing.T) {
	s := New(newNop())
	defer s.Stop()

	var count1, count2 int32
	s.AddTicker("task", 20*time.Millisecond, counter(&count1))
	time.Sleep(30 * time.Millisecond)
	s.AddTicker("task", 20*time.Millisecond, counter(&count2))
	time.Sleep(80 * time.Millisecond)

	snap1 := atomic.LoadInt32(&count1)
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, snap1, atomic.LoadInt32(&count1), "old ticker must stop after replacement")
	assert.Positive(t, atomic.LoadInt32(&count2))
	assert.Len(t, s.ListTickers(), 1)
}

func TestAddTicker_NonPositiveIntervalDisabled(t *testing.T) {
	s := New(newNop())
	defer s.Stop()

	var count int32
	s.AddTicker("off", 0, counter(&count))
	assert.Empty(t, s.ListTickers())
}

func TestRemove_CancelsContext(t *testing.T) {
	s := New(newNop())
	defer s.Stop()

	started := make(chan struct{})
	var cancelled atomic.Bool
	s.AddTicker("task", 10*time.Millisecond, func(ctx context.Context) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-ctx.Done()
		cancelled.Store(true)
		return ctx.Err()
	})
	<-started
	s.Remove("task")
	assert.Eventually(t, cancelled.Load, time.Second, 5*time.Millisecond)
}

func TestRemove_NonExistent(t *testing.T) {
	s := New(newNop())
	defer s.Stop()
	s.Remove("nope")
}

func TestStop_WaitsAndStopsAll(t *testing.T) {
	s := New(newNop())

	var c1, c2 int32
	s.AddTicker("a", 20*time.Millisecond, counter(&c1))
	s.AddTicker("b", 20*time.Millisecond, counter(&c2))
	time.Sleep(50 * time.Millisecond)
	s.Stop()
	snap1, snap2 := atomic.LoadInt32(&c1), atomic.LoadInt32(&c2)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, snap1, atomic.LoadInt32(&c1))
	assert.Equal(t, snap2, atomic.LoadInt32(&c2))
	assert.Empty(t, s.ListTickers())
}

func TestStop_Idempotent(t *testing.T) {
	s := New(newNop())
	s.Stop()
	s.Stop()
	s.AddTicker("late", time.Millisecond, func(context.Context) error { return nil })
	assert.Empty(t, s.ListTickers())
}

func TestListTickers(t *testing.T) {
	s := New(newNop())
	defer s.Stop()

	require.Empty(t, s.ListTickers())
	noop := func(context.Context) error { return nil }
	s.AddTicker("alpha", time.Hour, noop)
	s.AddTicker("beta", time.Hour, noop)
	names := s.ListTickers()
	assert.Len(t, names, 2)
	assert.Contains(t, names, "alpha")
	assert.Contains(t, names, "beta")

	s.Remove("alpha")
	assert.Equal(t, []string{"beta"}, s.ListTickers())
}

func TestTicker_ErrorsAndPanicsAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := New(zap.New(core))
	defer s.Stop()

	var calls int32
	s.AddTicker("flaky", 10*time.Millisecond, func(context.Context) error {
		if atomic.AddInt32(&calls, 1) == 1 {
			panic("oops")
		}
		return errors.New("db down")
	})

	assert.Eventually(t, func() bool {
		return logs.FilterMessage("scheduler task panicked").Len() > 0 &&
			logs.FilterMessage("scheduler task failed").Len() > 0
	}, time.Second, 10*time.Millisecond)
}
