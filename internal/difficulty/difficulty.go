// Package difficulty maps the engine's difficulty level to the concrete
// tolerance and timing parameters every matcher consumes.
//
// The mapping is a pure function: same level in, same parameters out.
// Level 3 is the baseline tuning; lower levels loosen tolerances so
// patterns trigger more readily, higher levels tighten them.
package difficulty

import "fmt"

// Level is the engine-wide difficulty setting, 1 (easiest) to 5 (hardest).
type Level int

const (
	Min     Level = 1
	Default Level = 3
	Max     Level = 5
)

// Valid reports whether l is within the supported range.
func (l Level) Valid() bool { return l >= Min && l <= Max }

// Clamp returns l limited to the supported range, with zero mapping to
// the default.
func (l Level) Clamp() Level {
	if l == 0 {
		return Default
	}
	if l < Min {
		return Min
	}
	if l > Max {
		return Max
	}
	return l
}

func (l Level) String() string { return fmt.Sprintf("%d", int(l)) }

// Params holds every difficulty-derived matcher parameter.
type Params struct {
	// Sequence matching. Step and total budgets from the pattern are
	// multiplied by this scale; 1.0 leaves them untouched.
	SequenceBudgetScale float64

	// Gesture classification.
	GestureTolerance float64 // relative tolerance for circle variance and closure
	GestureMinPoints int     // minimum samples before a capture is classified
	CircleMinRadius  float64 // px
	CircleMaxRadius  float64 // px
	ZigzagReversalRate float64 // direction reversals per sample to qualify
	ZigzagMinSpan      float64 // px of traversal along the dominant axis

	// Rhythm classification.
	ReversalRunLength  int   // same-sign samples per run for rapid reversal
	ReversalWindowMs   int64 // both runs must complete inside this window
	CadenceTolScale    float64 // multiplies a pattern's cadence tolerance
	CadenceExtraReps   int     // added to a pattern's minimum repetitions
}

// ForLevel returns the parameter set for a difficulty level. Out-of-range
// levels are clamped first.
func ForLevel(l Level) Params {
	l = l.Clamp()
	n := int(l)

	p := Params{
		SequenceBudgetScale: 1.0,
		GestureTolerance:    0.50 - 0.05*float64(n), // 0.45 .. 0.25
		GestureMinPoints:    5 + n,                  // 6 .. 10
		CircleMinRadius:     20,
		CircleMaxRadius:     400,
		ZigzagReversalRate:  0.10 + 0.05*float64(n), // 0.15 .. 0.35
		ZigzagMinSpan:       100,
		ReversalRunLength:   2 + n,                    // 3 .. 7
		ReversalWindowMs:    int64(4500 - 500*n),      // 4000 .. 2000
		CadenceTolScale:     1.30 - 0.10*float64(n),   // 1.20 .. 0.80
		CadenceExtraReps:    0,
	}
	// The two hardest levels also demand longer rhythm streaks and give
	// the sequence budgets less slack.
	if n >= 4 {
		p.CadenceExtraReps = n - 3
		p.SequenceBudgetScale = 1.0 - 0.15*float64(n-3) // 0.85, 0.70
	}
	return p
}
