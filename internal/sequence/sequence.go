// Package sequence recognizes discrete ordered key-token patterns within
// per-step and total timing budgets.
//
// Each registered pattern gets an independent cursor, so patterns never
// share mutable state and repeated-identical-token sequences work: the
// cursor compares against the pattern's next expected token, not global
// token identity. Timeouts are evaluated lazily against event timestamps;
// there are no timers.
package sequence

import (
	"easteregg/internal/difficulty"
	"easteregg/internal/input"
	"easteregg/internal/pattern"
)

// cursor tracks matching progress for one pattern.
type cursor struct {
	matched int   // tokens matched so far
	firstMs int64 // timestamp of the first matched token
	lastMs  int64 // timestamp of the most recent matched token
}

func (c *cursor) reset() { c.matched = 0; c.firstMs = 0; c.lastMs = 0 }

// Matcher recognizes registered sequence patterns in a key-token stream.
type Matcher struct {
	patterns []pattern.Sequence
	cursors  []cursor
	scale    float64 // budget scale from the difficulty policy
}

// New builds a matcher for the given patterns with budgets scaled by
// the difficulty parameters.
func New(patterns []pattern.Sequence, params difficulty.Params) *Matcher {
	scale := params.SequenceBudgetScale
	if scale <= 0 {
		scale = 1.0
	}
	return &Matcher{
		patterns: patterns,
		cursors:  make([]cursor, len(patterns)),
		scale:    scale,
	}
}

// Feed advances every pattern cursor with one key token and returns the
// patterns completed by it. tsMs must be non-decreasing across calls.
func (m *Matcher) Feed(token string, tsMs int64) []pattern.Match {
	var matches []pattern.Match
	for i := range m.patterns {
		if m.advance(i, token, tsMs) {
			p := &m.patterns[i]
			matches = append(matches, pattern.Match{
				PatternID:   p.ID,
				Category:    input.CategoryKeyboard,
				Difficulty:  p.Difficulty,
				TimestampMs: tsMs,
			})
		}
	}
	return matches
}

// advance applies one token to one cursor and reports completion.
func (m *Matcher) advance(i int, token string, tsMs int64) bool {
	p := &m.patterns[i]
	c := &m.cursors[i]
	stepBudget := int64(float64(p.MaxStepIntervalMs) * m.scale)
	totalBudget := int64(float64(p.TotalBudgetMs) * m.scale)

	// Lazy timeout invalidation: a stale window is discarded before the
	// token is considered, so the token may still start a fresh attempt.
	if c.matched > 0 {
		if tsMs-c.firstMs > totalBudget || tsMs-c.lastMs > stepBudget {
			c.reset()
		}
	}

	if token == p.Tokens[c.matched] {
		if c.matched == 0 {
			c.firstMs = tsMs
		}
		c.matched++
		c.lastMs = tsMs
		if c.matched == len(p.Tokens) {
			c.reset()
			return true
		}
		return false
	}

	// Wrong token: restart, testing whether this token begins the
	// pattern fresh. A wrong key resets progress but a subsequent full
	// correct sequence still completes.
	c.reset()
	if token == p.Tokens[0] {
		c.matched = 1
		c.firstMs = tsMs
		c.lastMs = tsMs
	}
	return false
}

// Reset clears all cursors.
func (m *Matcher) Reset() {
	for i := range m.cursors {
		m.cursors[i].reset()
	}
}
