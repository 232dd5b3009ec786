// Package cycle runs the minute-aligned loop that scores the held
// prediction and then publishes the next one.
package cycle

import (
	"context"
	"time"

	"github.com/eliseohh/wingobot/internal/feed"
	"github.com/eliseohh/wingobot/internal/journal"
	"github.com/eliseohh/wingobot/internal/logger"
	"github.com/eliseohh/wingobot/internal/metrics"
	"github.com/eliseohh/wingobot/internal/wingo"
	"github.com/google/uuid"
)

// alignSlack is how late past a boundary a cycle may start and still
// count as aligned. Timers fire a little after their deadline.
const alignSlack = 250 * time.Millisecond

type Feed interface {
	LatestResults(ctx context.Context) ([]wingo.Draw, error)
	CurrentPeriod(ctx context.Context) (string, error)
}

type Notifier interface {
	// SendPrediction posts the guess and returns the message id used for replies.
	SendPrediction(ctx context.Context, period string, cat wingo.Category) (int, error)
	SendWin(ctx context.Context, replyTo int) error
	SendWarning(ctx context.Context) error
}

type Journal interface {
	RecordPrediction(ctx context.Context, cycleID string, p wingo.Prediction) error
	RecordOutcome(ctx context.Context, p wingo.Prediction, outcome journal.Outcome, d wingo.Draw) error
}

// State is everything the loop carries from one cycle to the next.
// It is owned by a single goroutine and never shared.
type State struct {
	// Current is the prediction awaiting its draw, nil when none is live.
	Current    *wingo.Prediction
	LossStreak int
}

type Scheduler struct {
	feed     Feed
	notifier Notifier
	journal  Journal
	metrics  *metrics.Manager
	clock    Clock
	log      logger.Logger

	cycleLength  time.Duration
	scoreDelay   time.Duration
	publishDelay time.Duration
	lossLimit    int
	cooldown     time.Duration
}

func New(f Feed, n Notifier, opts ...Option) *Scheduler {
	s := &Scheduler{
		feed:         f,
		notifier:     n,
		journal:      journal.Nop{},
		metrics:      metrics.Default(),
		clock:        RealClock{},
		log:          logger.Nop(),
		cycleLength:  time.Minute,
		scoreDelay:   2 * time.Second,
		publishDelay: time.Second,
		lossLimit:    3,
		cooldown:     2 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run cycles until ctx is done and returns ctx.Err().
func (s *Scheduler) Run(ctx context.Context) error {
	var st State
	s.log.Info(ctx, "scheduler started",
		logger.Duration("cycle", s.cycleLength),
		logger.Int("loss_limit", s.lossLimit))
	for {
		if err := s.RunCycle(ctx, &st); err != nil {
			s.log.Info(ctx, "scheduler stopped", logger.Error(err))
			return err
		}
	}
}

// RunCycle waits for the next boundary, scores, publishes and then pads
// the cycle out to its full length. It only fails when ctx is done.
func (s *Scheduler) RunCycle(ctx context.Context, st *State) error {
	now := s.clock.Now()
	boundary := now.Truncate(s.cycleLength)
	if off := now.Sub(boundary); off > alignSlack {
		boundary = boundary.Add(s.cycleLength)
		if err := s.clock.Sleep(ctx, boundary.Sub(now)); err != nil {
			return err
		}
	}

	cycleID := uuid.NewString()
	log := s.log.Named("cycle")

	if err := s.clock.Sleep(ctx, s.scoreDelay); err != nil {
		return err
	}
	workStart := s.clock.Now()
	log.Info(ctx, "updating result", logger.String("cycle_id", cycleID))
	if err := s.Score(ctx, st); err != nil {
		return err
	}

	if err := s.clock.Sleep(ctx, s.publishDelay); err != nil {
		return err
	}
	log.Info(ctx, "fetching current period and sending prediction", logger.String("cycle_id", cycleID))
	s.Publish(ctx, st, cycleID)
	s.metrics.ObserveCycle(s.clock.Now().Sub(workStart).Seconds())

	remaining := s.cycleLength - s.clock.Now().Sub(boundary)
	if remaining <= 0 {
		log.Warn(ctx, "cycle overran", logger.Duration("overrun", -remaining))
		return ctx.Err()
	}
	return s.clock.Sleep(ctx, remaining)
}

// Score settles the held prediction against the newest draw. Feed lag
// (newest draw is for another period) and feed failures leave st untouched.
// The returned error is non-nil only when ctx ends during the cooldown.
func (s *Scheduler) Score(ctx context.Context, st *State) error {
	if st.Current == nil {
		return nil
	}
	p := *st.Current
	log := s.log.Named("score")

	draws, err := s.feed.LatestResults(ctx)
	if err == nil && len(draws) == 0 {
		err = feed.ErrEmpty
	}
	if err != nil {
		s.feedFailed(ctx, "results", err)
		return nil
	}
	latest := draws[0]
	if latest.Period != p.Period {
		log.Debug(ctx, "draw not settled yet",
			logger.String("held", p.Period),
			logger.String("latest", latest.Period))
		return nil
	}

	hit := p.Hit(latest)
	s.metrics.RecordOutcome(hit)
	outcome := journal.Miss
	if hit {
		outcome = journal.Hit
	}
	if err := s.journal.RecordOutcome(ctx, p, outcome, latest); err != nil {
		log.Warn(ctx, "journal outcome failed", logger.Error(err))
	}

	st.Current = nil

	if hit {
		log.Info(ctx, "prediction won",
			logger.String("period", p.Period),
			logger.String("category", string(p.Category)),
			logger.Int("number", latest.Number))
		if err := s.notifier.SendWin(ctx, p.MessageID); err != nil {
			s.metrics.RecordNotifyError("sticker")
			log.Error(ctx, "send win sticker failed", logger.Error(err))
		}
		st.LossStreak = 0
		s.metrics.SetLossStreak(0)
		return nil
	}

	st.LossStreak++
	s.metrics.SetLossStreak(st.LossStreak)
	log.Info(ctx, "prediction lost",
		logger.String("period", p.Period),
		logger.String("category", string(p.Category)),
		logger.Int("number", latest.Number),
		logger.Int("streak", st.LossStreak))

	if st.LossStreak < s.lossLimit {
		return nil
	}

	if err := s.notifier.SendWarning(ctx); err != nil {
		s.metrics.RecordNotifyError("warning")
		log.Error(ctx, "send warning failed", logger.Error(err))
	}
	s.metrics.RecordCooldown()
	st.LossStreak = 0
	s.metrics.SetLossStreak(0)
	log.Warn(ctx, "loss limit reached, pausing", logger.Duration("cooldown", s.cooldown))
	return s.clock.Sleep(ctx, s.cooldown)
}

// Publish posts a prediction for the open period and stores it in st.
// Any missing input skips the step without side effects.
func (s *Scheduler) Publish(ctx context.Context, st *State, cycleID string) {
	log := s.log.Named("publish")

	period, err := s.feed.CurrentPeriod(ctx)
	if err != nil {
		s.feedFailed(ctx, "period", err)
		return
	}
	draws, err := s.feed.LatestResults(ctx)
	if err != nil {
		s.feedFailed(ctx, "results", err)
		return
	}
	mode, cat, err := wingo.FromHistory(draws)
	if err != nil {
		s.metrics.RecordFeedError("results", "short")
		log.Warn(ctx, "skipping prediction", logger.Error(err))
		return
	}

	msgID, err := s.notifier.SendPrediction(ctx, period, cat)
	if err != nil {
		s.metrics.RecordNotifyError("prediction")
		log.Error(ctx, "send prediction failed", logger.String("period", period), logger.Error(err))
		return
	}

	if old := st.Current; old != nil {
		log.Warn(ctx, "replacing unscored prediction", logger.String("period", old.Period))
		if err := s.journal.RecordOutcome(ctx, *old, journal.Replaced, wingo.Draw{}); err != nil {
			log.Warn(ctx, "journal outcome failed", logger.Error(err))
		}
	}

	p := wingo.Prediction{
		ID:        uuid.NewString(),
		Period:    period,
		Category:  cat,
		Mode:      mode,
		MessageID: msgID,
		CreatedAt: s.clock.Now(),
	}
	st.Current = &p
	s.metrics.RecordPublished(string(mode))
	log.Info(ctx, "prediction sent",
		logger.String("period", period),
		logger.String("mode", string(mode)),
		logger.String("category", string(cat)),
		logger.Int("message_id", msgID))

	if err := s.journal.RecordPrediction(ctx, cycleID, p); err != nil {
		log.Warn(ctx, "journal prediction failed", logger.Error(err))
	}
}

func (s *Scheduler) feedFailed(ctx context.Context, endpoint string, err error) {
	kind := feed.Kind(err)
	s.metrics.RecordFeedError(endpoint, kind)
	s.log.Named("feed").Warn(ctx, "feed unavailable",
		logger.String("endpoint", endpoint),
		logger.String("kind", kind),
		logger.Error(err))
}
