package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelasco/rsvp-api/internal/rsvp"
)

// countingEvaluator tracks passes and fails the test if two ever overlap.
type countingEvaluator struct {
	t      *testing.T
	passes atomic.Int64
	inPass atomic.Bool
}

func (e *countingEvaluator) RunEvaluationPass(ctx context.Context) (rsvp.PassStats, error) {
	if !e.inPass.CompareAndSwap(false, true) {
		e.t.Error("evaluation passes overlapped")
	}
	time.Sleep(time.Millisecond) // hold the pass open so overlap would show
	e.inPass.Store(false)
	e.passes.Add(1)
	return rsvp.PassStats{Evaluated: 1}, nil
}

func TestScheduler_StartStopIdempotent(t *testing.T) {
	eval := &countingEvaluator{t: t}
	s := NewReminderScheduler(eval, zerolog.Nop(), WithPollInterval(time.Hour))

	assert.False(t, s.Running())
	s.Start()
	assert.True(t, s.Running())
	s.Start() // no-op
	assert.True(t, s.Running())

	s.Stop()
	assert.False(t, s.Running())
	s.Stop() // no-op
	assert.False(t, s.Running())

	// A stopped scheduler can be started again.
	s.Start()
	assert.True(t, s.Running())
	s.Stop()
}

func TestScheduler_IntervalTrigger(t *testing.T) {
	eval := &countingEvaluator{t: t}
	s := NewReminderScheduler(eval, zerolog.Nop(), WithPollInterval(5*time.Millisecond))

	s.Start()
	assert.Eventually(t, func() bool { return eval.passes.Load() >= 2 },
		time.Second, time.Millisecond, "ticker should drive repeated passes")
	s.Stop()

	// Stop prevents future ticks.
	after := eval.passes.Load()
	time.Sleep(25 * time.Millisecond)
	assert.Equal(t, after, eval.passes.Load())
}

func TestScheduler_RunNowSerializedWithTicks(t *testing.T) {
	eval := &countingEvaluator{t: t}
	s := NewReminderScheduler(eval, zerolog.Nop(), WithPollInterval(time.Millisecond))

	s.Start()
	defer s.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stats, err := s.RunNow(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, 1, stats.Evaluated)
		}()
	}
	wg.Wait()

	// countingEvaluator errors the test if any two passes ran concurrently.
	assert.GreaterOrEqual(t, eval.passes.Load(), int64(5))
}

func TestScheduler_RunNowWorksWhileStopped(t *testing.T) {
	eval := &countingEvaluator{t: t}
	s := NewReminderScheduler(eval, zerolog.Nop())

	stats, err := s.RunNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Evaluated)
	assert.False(t, s.Running())
}

func TestScheduler_DailyRunComputation(t *testing.T) {
	base := time.Date(2026, 5, 10, 8, 0, 0, 0, time.Local)
	s := NewReminderScheduler(&countingEvaluator{t: t}, zerolog.Nop(),
		WithDailyAt("10:00"),
		WithClock(func() time.Time { return base }),
	)
	assert.Equal(t, 2*time.Hour, s.untilNextDailyRun())

	// Past today's slot: wait until tomorrow.
	s2 := NewReminderScheduler(&countingEvaluator{t: t}, zerolog.Nop(),
		WithDailyAt("10:00"),
		WithClock(func() time.Time { return base.Add(3 * time.Hour) }),
	)
	assert.Equal(t, 23*time.Hour, s2.untilNextDailyRun())
}
