// Package rhythm classifies timed bursts of wheel/scroll events into
// periodic patterns: rapid sign reversals and paced cadences.
//
// Samples live in a fixed-length ring buffer, so memory is bounded no
// matter how fast the host scrolls. A successful classification clears
// the ring to avoid re-triggering on overlapping windows.
package rhythm

import (
	"easteregg/internal/difficulty"
	"easteregg/internal/input"
	"easteregg/internal/pattern"
)

// ringCapacity bounds the sample history.
const ringCapacity = 32

// sample is one wheel event reduced to what the classifiers need.
type sample struct {
	sign      int // +1 scroll down, -1 scroll up
	magnitude float64
	tMs       int64
}

// Matcher recognizes registered rhythm patterns in a wheel-delta stream.
type Matcher struct {
	patterns []pattern.Rhythm
	params   difficulty.Params

	ring  [ringCapacity]sample
	head  int
	count int
}

// New builds a matcher for the given patterns.
func New(patterns []pattern.Rhythm, params difficulty.Params) *Matcher {
	return &Matcher{patterns: patterns, params: params}
}

// Feed records one wheel event and returns any completed patterns.
// Zero deltas are ignored. tsMs must be non-decreasing across calls.
func (m *Matcher) Feed(deltaY float64, tsMs int64) []pattern.Match {
	s := sample{magnitude: deltaY, tMs: tsMs}
	switch {
	case deltaY > 0:
		s.sign = 1
	case deltaY < 0:
		s.sign = -1
	default:
		return nil
	}
	if deltaY < 0 {
		s.magnitude = -deltaY
	}
	m.push(s)

	var matches []pattern.Match
	for i := range m.patterns {
		p := &m.patterns[i]
		ok := false
		switch p.Kind {
		case pattern.RhythmRapidReversal:
			ok = m.hasRapidReversal()
		case pattern.RhythmPacedCadence:
			ok = m.hasCadence(p)
		}
		if ok {
			matches = append(matches, pattern.Match{
				PatternID:   p.ID,
				Category:    input.CategoryScroll,
				Difficulty:  p.Difficulty,
				TimestampMs: tsMs,
			})
		}
	}
	if len(matches) > 0 {
		m.Reset()
	}
	return matches
}

// Reset clears the sample ring.
func (m *Matcher) Reset() {
	m.head = 0
	m.count = 0
}

func (m *Matcher) push(s sample) {
	m.ring[m.head] = s
	m.head = (m.head + 1) % ringCapacity
	if m.count < ringCapacity {
		m.count++
	}
}

// window returns the buffered samples in arrival order.
func (m *Matcher) window() []sample {
	out := make([]sample, m.count)
	start := 0
	if m.count == ringCapacity {
		start = m.head
	}
	for i := 0; i < m.count; i++ {
		out[i] = m.ring[(start+i)%ringCapacity]
	}
	return out
}

// hasRapidReversal looks for a run of N same-sign samples immediately
// followed by a run of N opposite-sign samples, with both runs inside
// the difficulty window.
func (m *Matcher) hasRapidReversal() bool {
	n := m.params.ReversalRunLength
	if m.count < 2*n {
		return false
	}
	win := m.window()
	// Scan ending positions; the newest sample must close the second
	// run, otherwise the match already fired on an earlier event.
	end := len(win)
	tail := win[end-1].sign
	run2 := 0
	i := end - 1
	for i >= 0 && win[i].sign == tail {
		run2++
		i--
	}
	if run2 < n {
		return false
	}
	run1 := 0
	for i >= 0 && win[i].sign == -tail {
		run1++
		i--
	}
	if run1 < n {
		return false
	}
	// Time the N+N samples closest to the reversal boundary.
	first := end - run2 - n
	elapsed := win[end-1].tMs - win[first].tMs
	return elapsed <= m.params.ReversalWindowMs
}

// hasCadence looks for MinRepetitions consecutive inter-arrival gaps
// that all land within the pattern's cadence tolerance, scaled by the
// difficulty policy.
func (m *Matcher) hasCadence(p *pattern.Rhythm) bool {
	reps := p.MinRepetitions + m.params.CadenceExtraReps
	if m.count < reps+1 {
		return false
	}
	tol := int64(float64(p.ToleranceMs) * m.params.CadenceTolScale)
	win := m.window()
	// The newest gap must participate, same reasoning as above.
	conforming := 0
	for i := len(win) - 1; i > 0; i-- {
		gap := win[i].tMs - win[i-1].tMs
		if gap >= p.CadenceMs-tol && gap <= p.CadenceMs+tol {
			conforming++
			if conforming >= reps {
				return true
			}
		} else {
			break
		}
	}
	return false
}
