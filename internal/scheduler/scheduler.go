package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/avelasco/rsvp-api/internal/rsvp"
)

const (
	// DefaultPollInterval is the catch-up cadence between daily runs, so
	// invitations crossing into the reminder window never wait a full day.
	DefaultPollInterval = time.Hour
	// DefaultDailyAt is the fixed wall-clock time of the daily run.
	DefaultDailyAt = "10:00"
)

// Evaluator runs one full sweep of pending invitations. Implemented by the
// rsvp service.
type Evaluator interface {
	RunEvaluationPass(ctx context.Context) (rsvp.PassStats, error)
}

// ReminderScheduler owns the background evaluation loop. Two states: stopped
// and running. Start and Stop are idempotent; Stop is cooperative and only
// prevents future ticks, a pass already underway runs to completion.
type ReminderScheduler struct {
	evaluator    Evaluator
	logger       zerolog.Logger
	pollInterval time.Duration
	dailyHour    int
	dailyMinute  int
	now          func() time.Time

	lifecycleMu sync.Mutex
	running     atomic.Bool
	stop        chan struct{}
	done        chan struct{}

	// passMu funnels the two timer triggers (and RunNow) into one pass at a
	// time; a trigger firing mid-pass waits instead of racing the day-level
	// dedup check.
	passMu sync.Mutex
}

type Option func(*ReminderScheduler)

// WithPollInterval overrides the catch-up cadence.
func WithPollInterval(d time.Duration) Option {
	return func(s *ReminderScheduler) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// WithDailyAt sets the wall-clock time ("15:04") of the daily run.
func WithDailyAt(hhmm string) Option {
	return func(s *ReminderScheduler) {
		if t, err := time.Parse("15:04", hhmm); err == nil {
			s.dailyHour, s.dailyMinute = t.Hour(), t.Minute()
		}
	}
}

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *ReminderScheduler) {
		if now != nil {
			s.now = now
		}
	}
}

func NewReminderScheduler(evaluator Evaluator, logger zerolog.Logger, opts ...Option) *ReminderScheduler {
	s := &ReminderScheduler{
		evaluator:    evaluator,
		logger:       logger.With().Str("component", "reminder_scheduler").Logger(),
		pollInterval: DefaultPollInterval,
		dailyHour:    10,
		dailyMinute:  0,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start transitions stopped to running. Calling Start on a running scheduler
// is a no-op.
func (s *ReminderScheduler) Start() {
	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()
	if s.running.Load() {
		s.logger.Debug().Msg("start requested but scheduler already running")
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.running.Store(true)
	go s.run(s.stop, s.done)
	s.logger.Info().
		Dur("poll_interval", s.pollInterval).
		Int("daily_hour", s.dailyHour).
		Msg("scheduler started")
}

// Stop signals the loop to exit at the next polling boundary and waits for
// it. Calling Stop on a stopped scheduler is a no-op.
func (s *ReminderScheduler) Stop() {
	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()
	if !s.running.Load() {
		return
	}
	close(s.stop)
	<-s.done
	s.running.Store(false)
	s.logger.Info().Msg("scheduler stopped")
}

// Running reports the lifecycle state.
func (s *ReminderScheduler) Running() bool {
	return s.running.Load()
}

// RunNow performs one evaluation pass synchronously, outside the timers. It
// shares the pass lock, so it waits for any in-flight pass rather than
// running concurrently with it.
func (s *ReminderScheduler) RunNow(ctx context.Context) (rsvp.PassStats, error) {
	return s.runPass(ctx)
}

func (s *ReminderScheduler) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	daily := time.NewTimer(s.untilNextDailyRun())
	defer daily.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.tick("interval")
		case <-daily.C:
			s.tick("daily")
			daily.Reset(s.untilNextDailyRun())
		}
	}
}

func (s *ReminderScheduler) tick(trigger string) {
	stats, err := s.runPass(context.Background())
	if err != nil {
		s.logger.Error().Err(err).Str("trigger", trigger).Msg("evaluation pass failed")
		return
	}
	s.logger.Debug().
		Str("trigger", trigger).
		Int("evaluated", stats.Evaluated).
		Int("sent", stats.Sent).
		Msg("evaluation pass finished")
}

func (s *ReminderScheduler) runPass(ctx context.Context) (rsvp.PassStats, error) {
	s.passMu.Lock()
	defer s.passMu.Unlock()
	return s.evaluator.RunEvaluationPass(ctx)
}

// untilNextDailyRun computes the wait until the next fixed wall-clock run
// (today if still ahead, otherwise tomorrow).
func (s *ReminderScheduler) untilNextDailyRun() time.Duration {
	now := s.now()
	next := time.Date(now.Year(), now.Month(), now.Day(), s.dailyHour, s.dailyMinute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}
