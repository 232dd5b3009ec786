package journal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/eliseohh/wingobot/internal/wingo"
)

func openTemp(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournal(t *testing.T) {
	ctx := context.Background()
	j := openTemp(t)

	preds := []wingo.Prediction{
		{ID: "a", Period: "100", Mode: wingo.ModeSize, Category: wingo.Big, MessageID: 11, CreatedAt: time.Now()},
		{ID: "b", Period: "101", Mode: wingo.ModeColor, Category: wingo.Red, MessageID: 12, CreatedAt: time.Now()},
		{ID: "c", Period: "102", Mode: wingo.ModeColor, Category: wingo.Green, MessageID: 13, CreatedAt: time.Now()},
		{ID: "d", Period: "103", Mode: wingo.ModeSize, Category: wingo.Small, MessageID: 14, CreatedAt: time.Now()},
	}
	for _, p := range preds {
		if err := j.RecordPrediction(ctx, "cycle-1", p); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("Outcomes", func(t *testing.T) {
		if err := j.RecordOutcome(ctx, preds[0], Hit, wingo.Draw{Period: "100", Number: 8}); err != nil {
			t.Fatal(err)
		}
		if err := j.RecordOutcome(ctx, preds[1], Miss, wingo.Draw{Period: "101", Number: 3}); err != nil {
			t.Fatal(err)
		}
		if err := j.RecordOutcome(ctx, preds[2], Replaced, wingo.Draw{}); err != nil {
			t.Fatal(err)
		}

		var actual string
		var drawn int
		if err := j.db.QueryRow("SELECT actual, drawn FROM predictions WHERE id = 'b'").Scan(&actual, &drawn); err != nil {
			t.Fatal(err)
		}
		if actual != string(wingo.Green) || drawn != 3 {
			t.Errorf("b settled as %s/%d, want GREEN/3", actual, drawn)
		}
	})

	t.Run("Settled Once", func(t *testing.T) {
		if err := j.RecordOutcome(ctx, preds[0], Miss, wingo.Draw{Period: "100", Number: 1}); err == nil {
			t.Error("expected error settling an already settled prediction")
		}
	})

	t.Run("Stats", func(t *testing.T) {
		s, err := j.Stats(ctx)
		if err != nil {
			t.Fatal(err)
		}
		want := Stats{Published: 4, Hits: 1, Misses: 1, Replaced: 1, Pending: 1}
		if s != want {
			t.Errorf("Stats = %+v, want %+v", s, want)
		}
		if s.HitRate() != 0.5 {
			t.Errorf("HitRate = %v", s.HitRate())
		}
	})

	t.Run("Duplicate ID", func(t *testing.T) {
		if err := j.RecordPrediction(ctx, "cycle-2", preds[0]); err == nil {
			t.Error("expected primary key violation")
		}
	})
}

func TestNop(t *testing.T) {
	var n Nop
	ctx := context.Background()
	if err := n.RecordPrediction(ctx, "x", wingo.Prediction{}); err != nil {
		t.Error(err)
	}
	if _, err := n.Stats(ctx); !errors.Is(err, ErrDisabled) {
		t.Errorf("Stats err = %v, want ErrDisabled", err)
	}
	if (Stats{}).HitRate() != 0 {
		t.Error("empty stats should have zero hit rate")
	}
}
