// Package pattern defines the recognizable pattern vocabulary: discrete
// key sequences, geometric pointer gestures, and scroll rhythms.
//
// Definitions are registered once at engine start and are read-only
// afterwards; all mutable matching progress lives inside the matchers.
package pattern

import (
	"errors"
	"fmt"

	"easteregg/internal/difficulty"
	"easteregg/internal/input"
)

// Shape enumerates the gesture shapes the gesture matcher can classify.
type Shape string

const (
	ShapeCircle Shape = "circle"
	ShapeZigzag Shape = "zigzag"
)

// RhythmKind enumerates the scroll rhythm classes.
type RhythmKind string

const (
	RhythmRapidReversal RhythmKind = "rapid_reversal"
	RhythmPacedCadence  RhythmKind = "paced_cadence"
)

// Sequence is a discrete ordered key-token pattern with timing budgets.
type Sequence struct {
	ID                string
	Tokens            []string
	MaxStepIntervalMs int64
	TotalBudgetMs     int64
	Difficulty        difficulty.Level
}

// Gesture is a pointer/touch trajectory pattern classified by shape.
type Gesture struct {
	ID         string
	Shape      Shape
	MinPoints  int     // 0 means use the difficulty policy's minimum
	Tolerance  float64 // 0 means use the difficulty policy's tolerance
	Difficulty difficulty.Level
}

// Rhythm is a timed scroll/wheel pattern.
type Rhythm struct {
	ID             string
	Kind           RhythmKind
	CadenceMs      int64 // target inter-arrival gap for paced cadence
	ToleranceMs    int64 // allowed deviation from the cadence
	MinRepetitions int   // consecutive conforming gaps required
	Difficulty     difficulty.Level
}

// Match is the output of a successful classification, produced by a
// matcher and consumed by the dispatcher.
type Match struct {
	PatternID   string
	Category    input.Category
	Difficulty  difficulty.Level
	TimestampMs int64
}

var (
	ErrEmptyID     = errors.New("pattern: empty pattern id")
	ErrDuplicateID = errors.New("pattern: duplicate pattern id")
)

// Validate checks a sequence definition for registration.
func (s Sequence) Validate() error {
	if s.ID == "" {
		return ErrEmptyID
	}
	if len(s.Tokens) == 0 {
		return fmt.Errorf("pattern %q: no tokens", s.ID)
	}
	for i, tok := range s.Tokens {
		if tok == "" {
			return fmt.Errorf("pattern %q: empty token at index %d", s.ID, i)
		}
	}
	if s.MaxStepIntervalMs <= 0 {
		return fmt.Errorf("pattern %q: max step interval must be positive", s.ID)
	}
	if s.TotalBudgetMs <= 0 {
		return fmt.Errorf("pattern %q: total budget must be positive", s.ID)
	}
	if s.TotalBudgetMs < s.MaxStepIntervalMs {
		return fmt.Errorf("pattern %q: total budget shorter than one step interval", s.ID)
	}
	return nil
}

// Validate checks a gesture definition for registration.
func (g Gesture) Validate() error {
	if g.ID == "" {
		return ErrEmptyID
	}
	switch g.Shape {
	case ShapeCircle, ShapeZigzag:
	default:
		return fmt.Errorf("pattern %q: unknown shape %q", g.ID, g.Shape)
	}
	if g.MinPoints < 0 {
		return fmt.Errorf("pattern %q: negative min points", g.ID)
	}
	if g.Tolerance < 0 || g.Tolerance >= 1 {
		return fmt.Errorf("pattern %q: tolerance must be in [0,1)", g.ID)
	}
	return nil
}

// Validate checks a rhythm definition for registration.
func (r Rhythm) Validate() error {
	if r.ID == "" {
		return ErrEmptyID
	}
	switch r.Kind {
	case RhythmRapidReversal:
		// Run length and window come from the difficulty policy.
	case RhythmPacedCadence:
		if r.CadenceMs <= 0 {
			return fmt.Errorf("pattern %q: cadence must be positive", r.ID)
		}
		if r.ToleranceMs < 0 {
			return fmt.Errorf("pattern %q: negative tolerance", r.ID)
		}
		if r.MinRepetitions < 2 {
			return fmt.Errorf("pattern %q: need at least 2 repetitions", r.ID)
		}
	default:
		return fmt.Errorf("pattern %q: unknown rhythm kind %q", r.ID, r.Kind)
	}
	return nil
}
