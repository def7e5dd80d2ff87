package gesture

import (
	"math"
	"testing"

	"easteregg/internal/difficulty"
	"easteregg/internal/input"
	"easteregg/internal/pattern"
)

func newDefault() *Matcher {
	return New(
		pattern.Defaults(difficulty.Default).Gestures(),
		difficulty.ForLevel(difficulty.Default),
		input.CategoryMouse,
	)
}

// traceCircle feeds a capture of n evenly spaced points on a circle of
// the given radius, starting and ending at angle 0.
func traceCircle(m *Matcher, cx, cy, radius float64, n int, startMs int64) []pattern.Match {
	m.Begin(cx+radius, cy, startMs)
	ts := startMs
	for i := 1; i <= n; i++ {
		ts += 20
		a := 2 * math.Pi * float64(i) / float64(n)
		m.Move(cx+radius*math.Cos(a), cy+radius*math.Sin(a), ts)
	}
	return m.End(ts + 20)
}

func TestCircleClassification(t *testing.T) {
	m := newDefault()
	matches := traceCircle(m, 100, 100, 50, 8, 1000)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].PatternID != pattern.IDCircle {
		t.Errorf("pattern id = %q, want %q", matches[0].PatternID, pattern.IDCircle)
	}
	if matches[0].Category != input.CategoryMouse {
		t.Errorf("category = %q, want mouse", matches[0].Category)
	}
}

func TestCircleTooFewPoints(t *testing.T) {
	m := newDefault()
	if matches := traceCircle(m, 100, 100, 50, 4, 0); len(matches) != 0 {
		t.Fatalf("short capture classified: %+v", matches)
	}
}

func TestCircleTooSmall(t *testing.T) {
	m := newDefault()
	if matches := traceCircle(m, 100, 100, 5, 12, 0); len(matches) != 0 {
		t.Fatalf("5px circle classified: %+v", matches)
	}
}

func TestHalfCircleRejected(t *testing.T) {
	m := newDefault()
	m.Begin(150, 100, 0)
	ts := int64(0)
	for i := 1; i <= 8; i++ {
		ts += 20
		a := math.Pi * float64(i) / 8 // only half a loop
		m.Move(100+50*math.Cos(a), 100+50*math.Sin(a), ts)
	}
	if matches := m.End(ts); len(matches) != 0 {
		t.Fatalf("half circle classified: %+v", matches)
	}
}

func TestStraightLineRejected(t *testing.T) {
	m := newDefault()
	m.Begin(0, 100, 0)
	for i := 1; i <= 20; i++ {
		m.Move(float64(i)*15, 100, int64(i)*20)
	}
	if matches := m.End(500); len(matches) != 0 {
		t.Fatalf("straight line classified: %+v", matches)
	}
}

func TestZigzagClassification(t *testing.T) {
	m := newDefault()
	m.Begin(100, 100, 0)
	ts := int64(0)
	for i := 1; i <= 12; i++ {
		ts += 30
		x := 100.0
		if i%2 == 1 {
			x = 220.0
		}
		m.Move(x, 100+float64(i), ts)
	}
	matches := m.End(ts)
	if len(matches) != 1 || matches[0].PatternID != pattern.IDZigzag {
		t.Fatalf("got %+v, want single zigzag match", matches)
	}
}

func TestZigzagNeedsSpan(t *testing.T) {
	// Same reversal density but tiny amplitude: total span stays under
	// the minimum.
	m := New(
		[]pattern.Gesture{{ID: "z", Shape: pattern.ShapeZigzag, Difficulty: difficulty.Default}},
		difficulty.ForLevel(difficulty.Default),
		input.CategoryMouse,
	)
	m.Begin(100, 100, 0)
	for i := 1; i <= 12; i++ {
		x := 100.0
		if i%2 == 1 {
			x = 103.0
		}
		m.Move(x, 100, int64(i)*30)
	}
	if matches := m.End(400); len(matches) != 0 {
		t.Fatalf("low-amplitude wiggle classified: %+v", matches)
	}
}

func TestMoveWithoutBeginIgnored(t *testing.T) {
	m := newDefault()
	m.Move(10, 10, 0)
	if matches := m.End(10); matches != nil {
		t.Fatalf("end without begin produced %+v", matches)
	}
}

func TestCaptureBufferBounded(t *testing.T) {
	m := newDefault()
	m.Begin(150, 100, 0)
	// Loop far more samples than the buffer holds; the retained window
	// is the tail of the trajectory, which is still a clean circle.
	ts := int64(0)
	for i := 1; i <= maxSamples*4; i++ {
		ts += 5
		a := 2 * math.Pi * float64(i) / float64(maxSamples*4)
		m.Move(100+50*math.Cos(a), 100+50*math.Sin(a), ts)
	}
	if m.count > maxSamples {
		t.Fatalf("buffer grew to %d samples, cap is %d", m.count, maxSamples)
	}
	m.End(ts)
}

func TestTouchCategory(t *testing.T) {
	m := New(
		pattern.Defaults(difficulty.Default).Gestures(),
		difficulty.ForLevel(difficulty.Default),
		input.CategoryTouch,
	)
	matches := traceCircle(m, 200, 200, 80, 16, 0)
	if len(matches) != 1 || matches[0].Category != input.CategoryTouch {
		t.Fatalf("got %+v, want single touch-category match", matches)
	}
}

func TestHarderDifficultyNarrowsTolerance(t *testing.T) {
	// A sloppy loop: radius alternates between 35 and 65. Relative
	// spread is ~0.3, inside level-1 tolerance but outside level-5.
	trace := func(m *Matcher) []pattern.Match {
		n := 16
		m.Begin(100+35, 100, 0)
		ts := int64(0)
		for i := 1; i <= n; i++ {
			ts += 20
			r := 35.0
			if i%2 == 1 {
				r = 65.0
			}
			a := 2 * math.Pi * float64(i) / float64(n)
			m.Move(100+r*math.Cos(a), 100+r*math.Sin(a), ts)
		}
		return m.End(ts)
	}

	circleOnly := func(l difficulty.Level) []pattern.Gesture {
		return []pattern.Gesture{{ID: pattern.IDCircle, Shape: pattern.ShapeCircle, Difficulty: l}}
	}
	easy := New(circleOnly(1), difficulty.ForLevel(1), input.CategoryMouse)
	hard := New(circleOnly(5), difficulty.ForLevel(5), input.CategoryMouse)

	if got := trace(easy); len(got) != 1 {
		t.Fatalf("easy level rejected sloppy circle: %+v", got)
	}
	if got := trace(hard); len(got) != 0 {
		t.Fatalf("hard level accepted sloppy circle: %+v", got)
	}
}
