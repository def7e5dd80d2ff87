package input

import (
	"testing"
)

func TestKindCategory(t *testing.T) {
	cases := []struct {
		kind Kind
		want Category
	}{
		{KindKey, CategoryKeyboard},
		{KindPointerDown, CategoryMouse},
		{KindPointerMove, CategoryMouse},
		{KindPointerUp, CategoryMouse},
		{KindWheel, CategoryScroll},
		{KindTouchStart, CategoryTouch},
		{KindTouchMove, CategoryTouch},
		{KindTouchEnd, CategoryTouch},
		{KindUnknown, CategoryNone},
	}
	for _, tc := range cases {
		if got := tc.kind.CategoryOf(); got != tc.want {
			t.Errorf("%v: category = %q, want %q", tc.kind, got, tc.want)
		}
	}
}

func TestEventValid(t *testing.T) {
	if (Event{Kind: KindKey}).Valid() {
		t.Error("key event without token should be invalid")
	}
	if !(Event{Kind: KindKey, Key: "a"}).Valid() {
		t.Error("key event with token should be valid")
	}
	if (Event{Kind: KindWheel}).Valid() {
		t.Error("wheel event with zero delta should be invalid")
	}
	if !(Event{Kind: KindWheel, DeltaY: -100}).Valid() {
		t.Error("wheel event with delta should be valid")
	}
	if (Event{Kind: KindUnknown}).Valid() {
		t.Error("unknown kind should be invalid")
	}
}

func TestNormalizerFiltersDisabledCategories(t *testing.T) {
	var forwarded []Event
	filter := Filter{Keyboard: false, Mouse: true, Scroll: true, Touch: true}
	n := NewNormalizer(filter, nil, func(ev Event) {
		forwarded = append(forwarded, ev)
	})

	n.Handle(Event{Kind: KindKey, Key: "a", TimestampMs: 1})
	n.Handle(Event{Kind: KindWheel, DeltaY: 100, TimestampMs: 2})
	n.Handle(Event{Kind: KindPointerMove, X: 1, Y: 2, TimestampMs: 3})

	if len(forwarded) != 2 {
		t.Fatalf("forwarded %d events, want 2", len(forwarded))
	}
	for _, ev := range forwarded {
		if ev.Kind == KindKey {
			t.Error("keyboard event forwarded despite disabled category")
		}
	}

	stats := n.Stats()
	if stats.Seen != 3 || stats.Dropped != 1 {
		t.Errorf("stats = %+v, want seen=3 dropped=1", stats)
	}
}

func TestNormalizerMonotonicTimestamps(t *testing.T) {
	var got []int64
	n := NewNormalizer(AllowAll(), nil, func(ev Event) {
		got = append(got, ev.TimestampMs)
	})

	n.Handle(Event{Kind: KindKey, Key: "a", TimestampMs: 100})
	n.Handle(Event{Kind: KindKey, Key: "b", TimestampMs: 50}) // clock stepped back
	n.Handle(Event{Kind: KindKey, Key: "c", TimestampMs: 120})

	want := []int64{100, 100, 120}
	if len(got) != len(want) {
		t.Fatalf("forwarded %d events, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d timestamp = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestNormalizerClockFillsMissingTimestamp(t *testing.T) {
	now := int64(5000)
	var got Event
	n := NewNormalizer(AllowAll(), func() int64 { return now }, func(ev Event) {
		got = ev
	})

	n.Handle(Event{Kind: KindKey, Key: "x"})
	if got.TimestampMs != 5000 {
		t.Errorf("timestamp = %d, want 5000", got.TimestampMs)
	}
}

func TestNormalizerDropsMalformed(t *testing.T) {
	called := false
	n := NewNormalizer(AllowAll(), nil, func(Event) { called = true })
	n.Handle(Event{Kind: KindUnknown, TimestampMs: 1})
	n.Handle(Event{Kind: KindKey, TimestampMs: 2}) // no token
	if called {
		t.Error("malformed events must not be forwarded")
	}
}
