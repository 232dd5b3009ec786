// Package journal keeps an append-only sqlite record of published
// predictions and how each one settled. The scheduler only writes to it.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/eliseohh/wingobot/internal/wingo"
)

// Outcome is how a journaled prediction ended.
type Outcome string

const (
	Hit  Outcome = "hit"
	Miss Outcome = "miss"
	// Replaced means a newer prediction was posted before this one could be scored.
	Replaced Outcome = "replaced"
)

// ErrDisabled is returned by Nop.Stats.
var ErrDisabled = errors.New("journal disabled")

// Stats is a tally over the whole journal.
type Stats struct {
	Published int
	Hits      int
	Misses    int
	Replaced  int
	Pending   int
}

// HitRate is hits over scored predictions, 0 when nothing was scored.
func (s Stats) HitRate() float64 {
	scored := s.Hits + s.Misses
	if scored == 0 {
		return 0
	}
	return float64(s.Hits) / float64(scored)
}

type Journal struct {
	db *DB
}

// Open creates or opens the journal at path and applies the schema.
func Open(path string) (*Journal, error) {
	db, err := NewDB(path)
	if err != nil {
		return nil, err
	}
	if err := db.InitSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return &Journal{db: db}, nil
}

func (j *Journal) Close() error { return j.db.Close() }

func (j *Journal) RecordPrediction(ctx context.Context, cycleID string, p wingo.Prediction) error {
	_, err := j.db.ExecContext(ctx, `INSERT INTO predictions
		(id, cycle_id, period, mode, category, message_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, cycleID, p.Period, string(p.Mode), string(p.Category), p.MessageID, p.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("record prediction %s: %w", p.Period, err)
	}
	return nil
}

// RecordOutcome settles p. d is ignored for Replaced.
func (j *Journal) RecordOutcome(ctx context.Context, p wingo.Prediction, outcome Outcome, d wingo.Draw) error {
	var (
		actual sql.NullString
		drawn  sql.NullInt64
	)
	if outcome != Replaced {
		actual = sql.NullString{String: string(wingo.Actual(p.Mode, d.Number)), Valid: true}
		drawn = sql.NullInt64{Int64: int64(d.Number), Valid: true}
	}

	res, err := j.db.ExecContext(ctx, `UPDATE predictions
		SET outcome = ?, actual = ?, drawn = ?, scored_at = ?
		WHERE id = ? AND outcome IS NULL`,
		string(outcome), actual, drawn, time.Now().Unix(), p.ID)
	if err != nil {
		return fmt.Errorf("record outcome %s: %w", p.Period, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("record outcome %s: no pending prediction %s", p.Period, p.ID)
	}
	return nil
}

func (j *Journal) Stats(ctx context.Context) (Stats, error) {
	rows, err := j.db.QueryContext(ctx, `SELECT COALESCE(outcome, ''), COUNT(*) FROM predictions GROUP BY 1`)
	if err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	defer rows.Close()

	var s Stats
	for rows.Next() {
		var (
			outcome string
			n       int
		)
		if err := rows.Scan(&outcome, &n); err != nil {
			return Stats{}, fmt.Errorf("stats: %w", err)
		}
		s.Published += n
		switch Outcome(outcome) {
		case Hit:
			s.Hits = n
		case Miss:
			s.Misses = n
		case Replaced:
			s.Replaced = n
		default:
			s.Pending += n
		}
	}
	return s, rows.Err()
}

// Nop is used when no journal path is configured.
type Nop struct{}

func (Nop) RecordPrediction(context.Context, string, wingo.Prediction) error { return nil }
func (Nop) RecordOutcome(context.Context, wingo.Prediction, Outcome, wingo.Draw) error {
	return nil
}
func (Nop) Stats(context.Context) (Stats, error) { return Stats{}, ErrDisabled }
func (Nop) Close() error                         { return nil }
