// Package gesture classifies captured pointer/touch trajectories as one
// of a fixed set of shapes.
//
// A capture opens on pointer/touch-down, accumulates move samples into a
// fixed-capacity buffer, and is classified once on pointer/touch-up.
// Classification failures are absorbed: a capture that matches no shape
// is discarded with no event.
package gesture

import (
	"math"

	"easteregg/internal/difficulty"
	"easteregg/internal/input"
	"easteregg/internal/pattern"
)

// maxSamples bounds the capture buffer. Once full, the oldest samples
// are overwritten so memory stays constant regardless of event rate.
const maxSamples = 256

// Point is one trajectory sample.
type Point struct {
	X, Y float64
	TMs  int64
}

// Matcher captures one trajectory at a time and classifies it against
// the registered gesture patterns.
type Matcher struct {
	patterns []pattern.Gesture
	params   difficulty.Params
	category input.Category

	active bool
	buf    [maxSamples]Point
	head   int // next write position
	count  int // valid samples, ≤ maxSamples
}

// New builds a matcher for the given patterns. category is the modality
// the matcher reports in its matches (mouse or touch).
func New(patterns []pattern.Gesture, params difficulty.Params, category input.Category) *Matcher {
	return &Matcher{patterns: patterns, params: params, category: category}
}

// Begin opens a capture at the contact point.
func (m *Matcher) Begin(x, y float64, tsMs int64) {
	m.active = true
	m.head = 0
	m.count = 0
	m.append(Point{X: x, Y: y, TMs: tsMs})
}

// Move appends a sample to the active capture. Moves outside a capture
// are ignored.
func (m *Matcher) Move(x, y float64, tsMs int64) {
	if !m.active {
		return
	}
	m.append(Point{X: x, Y: y, TMs: tsMs})
}

// End closes the capture and classifies it, returning any matches.
func (m *Matcher) End(tsMs int64) []pattern.Match {
	if !m.active {
		return nil
	}
	m.active = false
	pts := m.samples()
	m.head = 0
	m.count = 0

	var matches []pattern.Match
	for i := range m.patterns {
		p := &m.patterns[i]
		minPoints := p.MinPoints
		if minPoints == 0 {
			minPoints = m.params.GestureMinPoints
		}
		if len(pts) < minPoints {
			continue // too short to classify
		}
		tol := p.Tolerance
		if tol == 0 {
			tol = m.params.GestureTolerance
		}
		ok := false
		switch p.Shape {
		case pattern.ShapeCircle:
			ok = m.isCircle(pts, tol)
		case pattern.ShapeZigzag:
			ok = m.isZigzag(pts)
		}
		if ok {
			matches = append(matches, pattern.Match{
				PatternID:   p.ID,
				Category:    m.category,
				Difficulty:  p.Difficulty,
				TimestampMs: tsMs,
			})
		}
	}
	return matches
}

// Reset abandons any active capture.
func (m *Matcher) Reset() {
	m.active = false
	m.head = 0
	m.count = 0
}

func (m *Matcher) append(p Point) {
	m.buf[m.head] = p
	m.head = (m.head + 1) % maxSamples
	if m.count < maxSamples {
		m.count++
	}
}

// samples returns the captured points in arrival order.
func (m *Matcher) samples() []Point {
	out := make([]Point, m.count)
	start := 0
	if m.count == maxSamples {
		start = m.head
	}
	for i := 0; i < m.count; i++ {
		out[i] = m.buf[(start+i)%maxSamples]
	}
	return out
}

// isCircle accepts a trajectory whose points sit at a consistent radius
// around their centroid and whose signed angular traversal closes
// roughly one full loop.
func (m *Matcher) isCircle(pts []Point, tol float64) bool {
	cx, cy := centroid(pts)

	mean, rel := radiusSpread(pts, cx, cy)
	if mean < m.params.CircleMinRadius || mean > m.params.CircleMaxRadius {
		return false
	}
	if rel > tol {
		return false
	}

	sweep := math.Abs(angularSweep(pts, cx, cy))
	lo := 2 * math.Pi * (1 - tol)
	hi := 2 * math.Pi * (1 + tol)
	return sweep >= lo && sweep <= hi
}

// isZigzag accepts a trajectory with a high density of direction
// reversals along its dominant axis and enough total span.
func (m *Matcher) isZigzag(pts []Point) bool {
	if len(pts) < 3 {
		return false
	}
	var spanX, spanY float64
	for i := 1; i < len(pts); i++ {
		spanX += math.Abs(pts[i].X - pts[i-1].X)
		spanY += math.Abs(pts[i].Y - pts[i-1].Y)
	}
	horizontal := spanX >= spanY
	span := spanX
	if !horizontal {
		span = spanY
	}
	if span < m.params.ZigzagMinSpan {
		return false
	}

	reversals := 0
	prevSign := 0
	for i := 1; i < len(pts); i++ {
		d := pts[i].X - pts[i-1].X
		if !horizontal {
			d = pts[i].Y - pts[i-1].Y
		}
		sign := 0
		if d > 0 {
			sign = 1
		} else if d < 0 {
			sign = -1
		}
		if sign == 0 {
			continue
		}
		if prevSign != 0 && sign != prevSign {
			reversals++
		}
		prevSign = sign
	}
	rate := float64(reversals) / float64(len(pts))
	return rate > m.params.ZigzagReversalRate
}

func centroid(pts []Point) (cx, cy float64) {
	for _, p := range pts {
		cx += p.X
		cy += p.Y
	}
	n := float64(len(pts))
	return cx / n, cy / n
}

// radiusSpread returns the mean distance from the centroid and the
// relative spread stddev/mean.
func radiusSpread(pts []Point, cx, cy float64) (mean, rel float64) {
	radii := make([]float64, len(pts))
	for i, p := range pts {
		radii[i] = math.Hypot(p.X-cx, p.Y-cy)
		mean += radii[i]
	}
	mean /= float64(len(pts))
	if mean == 0 {
		return 0, math.Inf(1)
	}
	var variance float64
	for _, r := range radii {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(pts))
	return mean, math.Sqrt(variance) / mean
}

// angularSweep sums the signed angle deltas around the centroid across
// consecutive points. A closed single loop sums to ±2π.
func angularSweep(pts []Point, cx, cy float64) float64 {
	var sweep float64
	prev := math.Atan2(pts[0].Y-cy, pts[0].X-cx)
	for _, p := range pts[1:] {
		a := math.Atan2(p.Y-cy, p.X-cx)
		d := a - prev
		// Normalize to (-π, π] so wrap-around does not inflate the sum.
		for d > math.Pi {
			d -= 2 * math.Pi
		}
		for d <= -math.Pi {
			d += 2 * math.Pi
		}
		sweep += d
		prev = a
	}
	return sweep
}
