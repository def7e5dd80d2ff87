// Package input defines the canonical input-event model and the normalizer
// that converts raw host notifications into it.
//
// Events exist only as small rolling windows inside the matchers and are
// discarded once consumed. Nothing in this package (or anything downstream
// of it) performs network I/O.
package input

import (
	"fmt"
)

// Kind categorizes a raw input notification.
type Kind int

const (
	KindUnknown Kind = iota
	KindKey          // Key press with a key token
	KindPointerDown  // Mouse button press with coordinates
	KindPointerMove  // Mouse movement with coordinates
	KindPointerUp    // Mouse button release
	KindWheel        // Wheel/scroll with a signed delta
	KindTouchStart   // Touch contact with coordinates
	KindTouchMove    // Touch movement with coordinates
	KindTouchEnd     // Touch release
)

// String returns the string representation of the event kind.
func (k Kind) String() string {
	switch k {
	case KindKey:
		return "key"
	case KindPointerDown:
		return "pointer_down"
	case KindPointerMove:
		return "pointer_move"
	case KindPointerUp:
		return "pointer_up"
	case KindWheel:
		return "wheel"
	case KindTouchStart:
		return "touch_start"
	case KindTouchMove:
		return "touch_move"
	case KindTouchEnd:
		return "touch_end"
	default:
		return "unknown"
	}
}

// Category groups event kinds by the input modality they belong to.
// Filters and discoveries are expressed in these terms.
type Category string

const (
	CategoryKeyboard Category = "keyboard"
	CategoryMouse    Category = "mouse"
	CategoryScroll   Category = "scroll"
	CategoryTouch    Category = "touch"
	CategoryNone     Category = ""
)

// CategoryOf maps an event kind to its input category.
func (k Kind) CategoryOf() Category {
	switch k {
	case KindKey:
		return CategoryKeyboard
	case KindPointerDown, KindPointerMove, KindPointerUp:
		return CategoryMouse
	case KindWheel:
		return CategoryScroll
	case KindTouchStart, KindTouchMove, KindTouchEnd:
		return CategoryTouch
	default:
		return CategoryNone
	}
}

// Event is the canonical record produced once per raw notification.
// Events are immutable values; matchers never mutate them.
type Event struct {
	Kind Kind `json:"kind"`

	// Key holds the key token for KindKey events (e.g. "ArrowUp", "a").
	Key string `json:"key,omitempty"`

	// X, Y hold coordinates for pointer and touch events.
	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`

	// DeltaY holds the signed scroll delta for KindWheel events.
	DeltaY float64 `json:"delta_y,omitempty"`

	// TimestampMs is a monotonic millisecond timestamp. The normalizer
	// guarantees it never decreases across consecutive events.
	TimestampMs int64 `json:"timestamp_ms"`
}

// Valid reports whether the event carries the payload its kind requires.
func (e Event) Valid() bool {
	switch e.Kind {
	case KindKey:
		return e.Key != ""
	case KindPointerDown, KindPointerMove, KindPointerUp,
		KindTouchStart, KindTouchMove, KindTouchEnd:
		return true
	case KindWheel:
		return e.DeltaY != 0
	default:
		return false
	}
}

func (e Event) String() string {
	switch e.Kind {
	case KindKey:
		return fmt.Sprintf("key(%s)@%d", e.Key, e.TimestampMs)
	case KindWheel:
		return fmt.Sprintf("wheel(%+.0f)@%d", e.DeltaY, e.TimestampMs)
	default:
		return fmt.Sprintf("%s(%.0f,%.0f)@%d", e.Kind, e.X, e.Y, e.TimestampMs)
	}
}

// Handler consumes normalized events.
type Handler func(Event)

// Source is the abstract registration surface the engine attaches to.
// It is owned and provided by the host UI layer; the engine never hooks
// the OS directly.
type Source interface {
	// Attach registers a handler for raw input notifications and returns
	// a detach function. Attach is called exactly once per engine.
	Attach(h Handler) (detach func(), err error)
}

// SourceFunc adapts a function literal to the Source interface.
type SourceFunc func(h Handler) (func(), error)

// Attach calls the underlying function.
func (f SourceFunc) Attach(h Handler) (func(), error) { return f(h) }
