package cycle

import (
	"time"

	"github.com/eliseohh/wingobot/internal/logger"
	"github.com/eliseohh/wingobot/internal/metrics"
)

// Option configures a Scheduler.
type Option func(*Scheduler)

func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.clock = c
		}
	}
}

func WithLogger(l logger.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.log = l
		}
	}
}

func WithJournal(j Journal) Option {
	return func(s *Scheduler) {
		if j != nil {
			s.journal = j
		}
	}
}

func WithMetrics(m *metrics.Manager) Option {
	return func(s *Scheduler) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithCycleLength sets the wall-clock period the loop aligns to.
func WithCycleLength(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.cycleLength = d
		}
	}
}

// WithStepDelays sets the offsets of scoring (from the boundary) and of
// publishing (from the end of scoring).
func WithStepDelays(score, publish time.Duration) Option {
	return func(s *Scheduler) {
		if score >= 0 {
			s.scoreDelay = score
		}
		if publish >= 0 {
			s.publishDelay = publish
		}
	}
}

// WithLossLimit sets the streak that triggers the warning and cooldown.
func WithLossLimit(n int, cooldown time.Duration) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.lossLimit = n
		}
		if cooldown >= 0 {
			s.cooldown = cooldown
		}
	}
}
