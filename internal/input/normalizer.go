package input

// Filter controls which input categories the normalizer forwards.
// A disabled category is dropped before any matcher sees it, which is
// what guarantees that disabled categories can never fire a discovery.
type Filter struct {
	Keyboard bool
	Mouse    bool
	Scroll   bool
	Touch    bool
}

// AllowAll returns a filter with every category enabled.
func AllowAll() Filter {
	return Filter{Keyboard: true, Mouse: true, Scroll: true, Touch: true}
}

// Allows reports whether events of the given category pass the filter.
func (f Filter) Allows(c Category) bool {
	switch c {
	case CategoryKeyboard:
		return f.Keyboard
	case CategoryMouse:
		return f.Mouse
	case CategoryScroll:
		return f.Scroll
	case CategoryTouch:
		return f.Touch
	default:
		return false
	}
}

// Normalizer converts raw notifications into canonical events, enforces
// monotonic timestamps, and drops events for disabled categories.
// It has no side effects beyond forwarding and never panics on malformed
// input; an event it cannot classify is silently dropped.
type Normalizer struct {
	filter  Filter
	clock   func() int64
	lastMs  int64
	forward Handler

	// Counters for observability. Read via Stats.
	seen    uint64
	dropped uint64
}

// NormalizerStats reports normalizer activity since construction.
type NormalizerStats struct {
	Seen    uint64 `json:"seen"`
	Dropped uint64 `json:"dropped"`
}

// NewNormalizer builds a normalizer that forwards passing events to h.
// clock supplies millisecond timestamps for events that arrive without
// one; pass nil to require host timestamps.
func NewNormalizer(filter Filter, clock func() int64, h Handler) *Normalizer {
	return &Normalizer{filter: filter, clock: clock, forward: h}
}

// Handle accepts one raw event. It runs synchronously and returns once
// the event is either dropped or fully consumed downstream.
func (n *Normalizer) Handle(ev Event) {
	n.seen++
	if !ev.Valid() {
		n.dropped++
		return
	}
	if !n.filter.Allows(ev.Kind.CategoryOf()) {
		n.dropped++
		return
	}
	if ev.TimestampMs == 0 && n.clock != nil {
		ev.TimestampMs = n.clock()
	}
	// Host clocks can step backwards; pin to the last seen timestamp so
	// matcher timing arithmetic stays non-negative.
	if ev.TimestampMs < n.lastMs {
		ev.TimestampMs = n.lastMs
	}
	n.lastMs = ev.TimestampMs
	if n.forward != nil {
		n.forward(ev)
	}
}

// Stats returns the number of events seen and dropped so far.
func (n *Normalizer) Stats() NormalizerStats {
	return NormalizerStats{Seen: n.seen, Dropped: n.dropped}
}
