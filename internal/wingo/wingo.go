// Package wingo holds the game vocabulary: draws, categories and the
// two-draw heuristic that picks what to post next.
package wingo

import (
	"fmt"
	"time"
)

// Category is a published guess.
type Category string

const (
	Big   Category = "BIG"
	Small Category = "SMALL"
	Red   Category = "RED"
	Green Category = "GREEN"
)

// Mode is the axis a guess is made on.
type Mode string

const (
	ModeSize  Mode = "SIZE"
	ModeColor Mode = "COLOR"
)

// Draw is one settled round.
type Draw struct {
	Period string
	Number int
}

// Prediction is the single live guess awaiting its outcome.
type Prediction struct {
	ID        string
	Period    string
	Category  Category
	Mode      Mode
	MessageID int
	CreatedAt time.Time
}

// Size maps 0-4 to SMALL and 5-9 to BIG.
func Size(n int) Category {
	if n >= 0 && n <= 4 {
		return Small
	}
	return Big
}

// Color maps even digits to RED and odd digits to GREEN.
func Color(n int) Category {
	if n%2 == 0 {
		return Red
	}
	return Green
}

// Actual is the category a drawn number falls in under mode.
func Actual(mode Mode, n int) Category {
	if mode == ModeSize {
		return Size(n)
	}
	return Color(n)
}

// Predict keeps betting on size while the last two draws agree on it,
// otherwise it switches to the colour of the latest draw.
func Predict(latest, previous Draw) (Mode, Category) {
	if Size(latest.Number) == Size(previous.Number) {
		return ModeSize, Size(latest.Number)
	}
	return ModeColor, Color(latest.Number)
}

// FromHistory runs Predict on the two most recent draws of a
// most-recent-first history.
func FromHistory(draws []Draw) (Mode, Category, error) {
	if len(draws) < 2 {
		return "", "", fmt.Errorf("need at least 2 draws, have %d", len(draws))
	}
	mode, cat := Predict(draws[0], draws[1])
	return mode, cat, nil
}

// Hit reports whether the draw settles p in its favour.
func (p Prediction) Hit(d Draw) bool {
	return Actual(p.Mode, d.Number) == p.Category
}
