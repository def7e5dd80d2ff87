package engine

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"easteregg/internal/difficulty"
	"easteregg/internal/input"
	"easteregg/internal/ledger"
	"easteregg/internal/metrics"
	"easteregg/internal/pattern"
	"easteregg/internal/store"
)

// fakeSource is a host-driven input source for tests. All timing is
// synthetic: tests advance a millisecond cursor instead of sleeping.
type fakeSource struct {
	h        input.Handler
	detached bool
	now      int64
}

func (s *fakeSource) Attach(h input.Handler) (func(), error) {
	s.h = h
	return func() { s.detached = true }, nil
}

func (s *fakeSource) emit(ev input.Event) {
	if ev.TimestampMs == 0 {
		ev.TimestampMs = s.now
	}
	s.now = ev.TimestampMs
	if s.h != nil {
		s.h(ev)
	}
}

func (s *fakeSource) key(tok string, gapMs int64) {
	s.emit(input.Event{Kind: input.KindKey, Key: tok, TimestampMs: s.now + gapMs})
}

func (s *fakeSource) wheel(delta float64, gapMs int64) {
	s.emit(input.Event{Kind: input.KindWheel, DeltaY: delta, TimestampMs: s.now + gapMs})
}

// circle emits a pointer-down, n evenly spaced points around a circle
// of the given radius back to the start, and a pointer-up.
func (s *fakeSource) circle(cx, cy, radius float64, n int) {
	s.emit(input.Event{Kind: input.KindPointerDown, X: cx + radius, Y: cy, TimestampMs: s.now + 10})
	for i := 1; i <= n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		s.emit(input.Event{
			Kind:        input.KindPointerMove,
			X:           cx + radius*math.Cos(a),
			Y:           cy + radius*math.Sin(a),
			TimestampMs: s.now + 20,
		})
	}
	s.emit(input.Event{Kind: input.KindPointerUp, TimestampMs: s.now + 10})
}

// recorder collects callback invocations in order.
type recorder struct {
	discoveries  []Discovery
	achievements []Achievement
	order        []string // interleaved callback log
}

func (r *recorder) options(src input.Source) Options {
	return Options{
		Source: src,
		Filter: input.AllowAll(),
		OnDiscovery: func(d Discovery) {
			r.discoveries = append(r.discoveries, d)
			r.order = append(r.order, "discovery:"+d.PatternID)
		},
		OnAchievementUnlock: func(a Achievement) {
			r.achievements = append(r.achievements, a)
			r.order = append(r.order, "achievement:"+a.ID)
		},
	}
}

func newTestEngine(t *testing.T) (*Engine, *fakeSource, *recorder) {
	t.Helper()
	src := &fakeSource{now: 1000}
	rec := &recorder{}
	e, err := New(rec.options(src))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { e.Close() })
	return e, src, rec
}

func konamiTokens() []string {
	return []string{
		"ArrowUp", "ArrowUp", "ArrowDown", "ArrowDown",
		"ArrowLeft", "ArrowRight", "ArrowLeft", "ArrowRight",
		"b", "a",
	}
}

func TestNewRequiresSource(t *testing.T) {
	_, err := New(Options{Filter: input.AllowAll()})
	if !errors.Is(err, ErrNoSource) {
		t.Fatalf("got %v, want ErrNoSource", err)
	}
}

func TestScenarioKonami(t *testing.T) {
	_, src, rec := newTestEngine(t)

	for _, tok := range konamiTokens() {
		src.key(tok, 200) // well inside 1000ms/step and 15000ms total
	}

	if len(rec.discoveries) != 1 {
		t.Fatalf("got %d discoveries, want 1", len(rec.discoveries))
	}
	d := rec.discoveries[0]
	if d.PatternID != pattern.IDKonami || d.Category != input.CategoryKeyboard {
		t.Errorf("discovery = %+v", d)
	}
	if d.Difficulty != difficulty.Default {
		t.Errorf("difficulty = %v, want default", d.Difficulty)
	}

	if len(rec.achievements) != 2 {
		t.Fatalf("got %d achievements, want 2: %+v", len(rec.achievements), rec.achievements)
	}
	if rec.achievements[0].ID != AchievementFirstDiscovery {
		t.Errorf("first achievement = %q, want %q", rec.achievements[0].ID, AchievementFirstDiscovery)
	}
	if rec.achievements[1].ID != "konami-master" {
		t.Errorf("second achievement = %q, want konami-master", rec.achievements[1].ID)
	}

	// Discovery callback precedes achievement callbacks.
	if rec.order[0] != "discovery:konami" {
		t.Errorf("callback order = %v", rec.order)
	}
}

func TestScenarioCircle(t *testing.T) {
	_, src, rec := newTestEngine(t)

	src.circle(100, 100, 50, 8)

	if len(rec.discoveries) != 1 {
		t.Fatalf("got %d discoveries, want 1", len(rec.discoveries))
	}
	d := rec.discoveries[0]
	if d.PatternID != pattern.IDCircle || d.Category != input.CategoryMouse {
		t.Errorf("discovery = %+v", d)
	}
}

func TestScenarioRapidYoYo(t *testing.T) {
	_, src, rec := newTestEngine(t)

	for i := 0; i < 10; i++ {
		src.wheel(100, 50)
	}
	for i := 0; i < 10; i++ {
		src.wheel(-100, 50)
	}

	if len(rec.discoveries) != 1 {
		t.Fatalf("got %d discoveries, want 1", len(rec.discoveries))
	}
	d := rec.discoveries[0]
	if d.PatternID != pattern.IDRapidYoYo || d.Category != input.CategoryScroll {
		t.Errorf("discovery = %+v", d)
	}
}

func TestScenarioCorruptPersistedState(t *testing.T) {
	mem := store.NewMemory()
	mem.Seed([]byte("definitely not json {"))

	src := &fakeSource{now: 1000}
	rec := &recorder{}
	opts := rec.options(src)
	opts.Store = mem

	e, err := New(opts)
	if err != nil {
		t.Fatalf("New with corrupt state: %v", err)
	}
	defer e.Close()

	p := e.Progress()
	if len(p.DiscoveredPatternIDs) != 0 {
		t.Fatalf("progress not empty after corrupt load: %+v", p)
	}

	for _, tok := range konamiTokens() {
		src.key(tok, 100)
	}
	if len(rec.discoveries) != 1 {
		t.Fatalf("discovery after recovery: got %d, want 1", len(rec.discoveries))
	}
	data, err := mem.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(data) == "definitely not json {" {
		t.Error("corrupt blob never replaced")
	}
}

func TestDisabledKeyboardNeverFires(t *testing.T) {
	src := &fakeSource{now: 1000}
	rec := &recorder{}
	opts := rec.options(src)
	opts.Filter = input.Filter{Keyboard: false, Mouse: true, Scroll: true, Touch: true}

	e, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer e.Close()

	for n := 0; n < 5; n++ {
		for _, tok := range konamiTokens() {
			src.key(tok, 100)
		}
	}
	if len(rec.discoveries) != 0 {
		t.Fatalf("disabled keyboard fired %d discoveries", len(rec.discoveries))
	}
}

func TestRediscoveryFiresDiscoveryNotAchievement(t *testing.T) {
	_, src, rec := newTestEngine(t)

	for _, tok := range konamiTokens() {
		src.key(tok, 100)
	}
	src.now += 30_000
	for _, tok := range konamiTokens() {
		src.key(tok, 100)
	}

	if len(rec.discoveries) != 2 {
		t.Fatalf("got %d discoveries, want 2 (discoveries are not deduplicated)", len(rec.discoveries))
	}
	if len(rec.achievements) != 2 {
		t.Fatalf("got %d achievements, want 2 (achievements are deduplicated)", len(rec.achievements))
	}
}

func TestFirstDiscoveryOnlyOnce(t *testing.T) {
	_, src, rec := newTestEngine(t)

	for _, tok := range konamiTokens() {
		src.key(tok, 100)
	}
	src.now += 30_000
	src.circle(200, 200, 60, 12)

	if len(rec.discoveries) != 2 {
		t.Fatalf("got %d discoveries, want 2", len(rec.discoveries))
	}
	var firsts int
	for _, a := range rec.achievements {
		if a.ID == AchievementFirstDiscovery {
			firsts++
		}
	}
	if firsts != 1 {
		t.Errorf("first-discovery unlocked %d times, want 1", firsts)
	}
	// konami-master, first-discovery, perfect-circle
	if len(rec.achievements) != 3 {
		t.Errorf("got %d achievements, want 3: %+v", len(rec.achievements), rec.achievements)
	}
}

func TestProgressPersistsAcrossEngines(t *testing.T) {
	mem := store.NewMemory()

	src := &fakeSource{now: 1000}
	rec := &recorder{}
	opts := rec.options(src)
	opts.Store = mem
	e, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, tok := range konamiTokens() {
		src.key(tok, 100)
	}
	e.Close()

	// Second session on the same store: discovery fires again, but no
	// achievement is re-unlocked.
	src2 := &fakeSource{now: 1000}
	rec2 := &recorder{}
	opts2 := rec2.options(src2)
	opts2.Store = mem
	e2, err := New(opts2)
	if err != nil {
		t.Fatalf("second New: %v", err)
	}
	defer e2.Close()

	if !e2.Progress().Has(pattern.IDKonami) {
		t.Fatal("persisted discovery not visible in second session")
	}
	for _, tok := range konamiTokens() {
		src2.key(tok, 100)
	}
	if len(rec2.discoveries) != 1 {
		t.Fatalf("second session: got %d discoveries, want 1", len(rec2.discoveries))
	}
	if len(rec2.achievements) != 0 {
		t.Fatalf("second session re-unlocked achievements: %+v", rec2.achievements)
	}
}

func TestLedgerCapHolds(t *testing.T) {
	mem := store.NewMemory()
	src := &fakeSource{now: 0}
	rec := &recorder{}

	// Register far more sequence patterns than the cap.
	reg := pattern.NewRegistry()
	for i := 0; i < ledger.Cap+15; i++ {
		err := reg.AddSequence(pattern.Sequence{
			ID:                fmt.Sprintf("seq-%02d", i),
			Tokens:            []string{fmt.Sprintf("k%d", i), fmt.Sprintf("k%d", i)},
			MaxStepIntervalMs: 1000,
			TotalBudgetMs:     5000,
		})
		if err != nil {
			t.Fatalf("register %d: %v", i, err)
		}
	}

	opts := rec.options(src)
	opts.Store = mem
	opts.Registry = reg
	e, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer e.Close()

	for i := 0; i < ledger.Cap+15; i++ {
		src.key(fmt.Sprintf("k%d", i), 2000)
		src.key(fmt.Sprintf("k%d", i), 100)
	}

	p := e.Progress()
	if len(p.DiscoveredPatternIDs) > ledger.Cap {
		t.Fatalf("discovered set has %d entries, cap is %d", len(p.DiscoveredPatternIDs), ledger.Cap)
	}
	if len(rec.discoveries) != ledger.Cap+15 {
		t.Errorf("got %d discoveries, want %d", len(rec.discoveries), ledger.Cap+15)
	}
}

func TestCallbacksAreSynchronous(t *testing.T) {
	// The discovery callback must run before the triggering event
	// returns to the source.
	src := &fakeSource{now: 1000}
	fired := false
	opts := Options{
		Source:      src,
		Filter:      input.AllowAll(),
		OnDiscovery: func(Discovery) { fired = true },
	}
	e, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer e.Close()

	toks := konamiTokens()
	for _, tok := range toks[:len(toks)-1] {
		src.key(tok, 100)
	}
	if fired {
		t.Fatal("fired before the sequence completed")
	}
	src.key(toks[len(toks)-1], 100)
	if !fired {
		t.Fatal("callback did not run synchronously with the final event")
	}
}

func TestCloseDetachesAndStops(t *testing.T) {
	e, src, rec := newTestEngine(t)

	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !src.detached {
		t.Fatal("source not detached on close")
	}
	for _, tok := range konamiTokens() {
		src.key(tok, 100)
	}
	if len(rec.discoveries) != 0 {
		t.Fatal("closed engine still dispatching")
	}
	if err := e.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestStressTenThousandEvents(t *testing.T) {
	e, src, rec := newTestEngine(t)

	// A noisy mix of all categories; timing deliberately avoids every
	// built-in pattern.
	for i := 0; i < 10_000; i++ {
		switch i % 4 {
		case 0:
			src.key("x", 700)
		case 1:
			src.wheel(100, 900)
		case 2:
			src.emit(input.Event{Kind: input.KindPointerMove, X: float64(i % 50), Y: 10, TimestampMs: src.now + 5})
		case 3:
			src.key("ArrowUp", 700)
		}
	}

	if len(rec.discoveries) != 0 {
		t.Fatalf("noise produced %d discoveries", len(rec.discoveries))
	}
	p := e.Progress()
	if len(p.DiscoveredPatternIDs) != 0 {
		t.Fatal("noise polluted the ledger")
	}
}

func TestMetricsCount(t *testing.T) {
	src := &fakeSource{now: 1000}
	rec := &recorder{}
	opts := rec.options(src)
	opts.Metrics = metrics.NewRegistry()
	e, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer e.Close()

	for _, tok := range konamiTokens() {
		src.key(tok, 100)
	}

	snap := e.Metrics()
	if snap.Counters[metrics.EventsSeen] != 10 {
		t.Errorf("events_seen = %d, want 10", snap.Counters[metrics.EventsSeen])
	}
	if snap.Counters[metrics.Discoveries] != 1 {
		t.Errorf("discoveries = %d, want 1", snap.Counters[metrics.Discoveries])
	}
	if snap.Counters[metrics.Achievements] != 2 {
		t.Errorf("achievements = %d, want 2", snap.Counters[metrics.Achievements])
	}
}
