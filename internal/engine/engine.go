// Package engine wires the normalizer, the matchers, the ledger, and
// the dispatcher into the discovery engine.
//
// The engine is an explicit lifecycle object: the host constructs it
// once, passes it around by handle, and closes it on teardown. There is
// no module-level state, so remounting a host surface can never leak a
// half-initialized engine.
//
// All recognition runs synchronously inside the handler invoked per raw
// input notification; there is no background goroutine and no timer.
// Nothing in the engine performs network I/O.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"easteregg/internal/config"
	"easteregg/internal/difficulty"
	"easteregg/internal/gesture"
	"easteregg/internal/input"
	"easteregg/internal/ledger"
	"easteregg/internal/logging"
	"easteregg/internal/metrics"
	"easteregg/internal/pattern"
	"easteregg/internal/rhythm"
	"easteregg/internal/sequence"
	"easteregg/internal/store"
)

var (
	// ErrNoSource is returned when constructing an engine without an
	// input source; there is nothing useful it can do without input.
	ErrNoSource = errors.New("engine: no input source")

	// ErrClosed is returned by operations on a closed engine.
	ErrClosed = errors.New("engine: closed")
)

// Discovery is the externally visible result of a successful match.
// Discoveries are not deduplicated: re-entering a pattern fires again.
type Discovery struct {
	PatternID   string           `json:"patternId"`
	Category    input.Category   `json:"category"`
	Difficulty  difficulty.Level `json:"difficulty"`
	TimestampMs int64            `json:"timestampMs"`
}

// Options configures an engine. Source is required; everything else
// has a usable default.
type Options struct {
	// Source is the host-provided input registration surface.
	Source input.Source

	// Filter selects the forwarded input categories. Disabled
	// categories never reach a matcher and so can never fire a
	// discovery. Use input.AllowAll() to enable everything.
	Filter input.Filter

	// Difficulty is the engine-wide level, 1-5. Zero means default.
	Difficulty difficulty.Level

	// Registry holds the recognizable patterns. Nil selects the
	// built-in set at the configured difficulty.
	Registry *pattern.Registry

	// Store persists user progress. Nil selects an in-memory store,
	// meaning progress does not survive the session.
	Store store.Store

	// OnDiscovery is invoked synchronously once per successful match.
	OnDiscovery func(Discovery)

	// OnAchievementUnlock is invoked synchronously once per newly
	// unlocked achievement, after OnDiscovery.
	OnAchievementUnlock func(Achievement)

	// Logger receives structured engine logs. Nil discards them.
	Logger *slog.Logger

	// Metrics receives engine counters. Nil disables collection.
	Metrics *metrics.Registry

	// Clock supplies millisecond timestamps for events the host did
	// not stamp. Nil uses the wall clock. Tests inject synthetic
	// clocks here and drive timing entirely through event timestamps.
	Clock func() int64
}

// Engine recognizes input patterns and dispatches discoveries.
type Engine struct {
	mu     sync.Mutex
	closed bool
	detach func()

	norm    *input.Normalizer
	seq     *sequence.Matcher
	mouse   *gesture.Matcher
	touch   *gesture.Matcher
	rhythm  *rhythm.Matcher
	ledger  *ledger.Ledger
	st      store.Store
	log     *slog.Logger
	metrics *metrics.Registry

	onDiscovery   func(Discovery)
	onAchievement func(Achievement)
}

// New constructs an engine and attaches it to the source. It fails
// fast when the source is missing or refuses the attachment, and when
// the persisted progress store cannot be opened.
func New(opts Options) (*Engine, error) {
	if opts.Source == nil {
		return nil, ErrNoSource
	}

	level := opts.Difficulty.Clamp()
	params := difficulty.ForLevel(level)

	reg := opts.Registry
	if reg == nil {
		reg = pattern.Defaults(level)
	}
	reg.Freeze()

	st := opts.Store
	if st == nil {
		st = store.NewMemory()
	}

	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}

	led, err := ledger.Open(st, log)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		seq:           sequence.New(reg.Sequences(), params),
		mouse:         gesture.New(reg.Gestures(), params, input.CategoryMouse),
		touch:         gesture.New(reg.Gestures(), params, input.CategoryTouch),
		rhythm:        rhythm.New(reg.Rhythms(), params),
		ledger:        led,
		st:            st,
		log:           log,
		metrics:       opts.Metrics,
		onDiscovery:   opts.OnDiscovery,
		onAchievement: opts.OnAchievementUnlock,
	}

	clock := opts.Clock
	if clock == nil {
		clock = func() int64 { return time.Now().UnixMilli() }
	}
	e.norm = input.NewNormalizer(opts.Filter, clock, e.route)

	detach, err := opts.Source.Attach(e.handle)
	if err != nil {
		return nil, fmt.Errorf("engine: attach input source: %w", err)
	}
	e.detach = detach

	log.Info("engine started",
		"patterns", reg.Len(),
		"difficulty", level,
		"keyboard", opts.Filter.Keyboard,
		"mouse", opts.Filter.Mouse,
		"scroll", opts.Filter.Scroll,
		"touch", opts.Filter.Touch,
	)
	return e, nil
}

// NewFromConfig builds the store, registry, and logger from a loaded
// configuration and constructs the engine around them.
func NewFromConfig(cfg *config.Config, src input.Source, opts Options) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level := difficulty.Level(cfg.Engine.Difficulty).Clamp()

	if opts.Logger == nil {
		log, err := logging.New(cfg.LoggerConfig("engine"))
		if err != nil {
			return nil, err
		}
		opts.Logger = log
	}

	if opts.Registry == nil && cfg.Patterns.ManifestPath != "" {
		reg, err := pattern.LoadManifest(cfg.Patterns.ManifestPath, level)
		if err != nil {
			return nil, err
		}
		opts.Registry = reg
	}

	if opts.Store == nil {
		st, err := store.Open(cfg.Storage.Backend, cfg.Storage.Path)
		if err != nil {
			return nil, err
		}
		opts.Store = st
	}

	opts.Source = src
	opts.Difficulty = level
	opts.Filter = input.Filter{
		Keyboard: cfg.Engine.EnableKeyboard,
		Mouse:    cfg.Engine.EnableMouse,
		Scroll:   cfg.Engine.EnableScroll,
		Touch:    cfg.Engine.EnableTouch,
	}
	return New(opts)
}

// handle is the raw callback registered on the source.
func (e *Engine) handle(ev input.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.metrics.Inc(metrics.EventsSeen)
	e.norm.Handle(ev)
}

// route receives normalized, filtered events and feeds the matchers.
// Runs under e.mu via handle.
func (e *Engine) route(ev input.Event) {
	var matches []pattern.Match
	switch ev.Kind {
	case input.KindKey:
		matches = e.seq.Feed(ev.Key, ev.TimestampMs)
	case input.KindPointerDown:
		e.mouse.Begin(ev.X, ev.Y, ev.TimestampMs)
	case input.KindPointerMove:
		e.mouse.Move(ev.X, ev.Y, ev.TimestampMs)
	case input.KindPointerUp:
		matches = e.mouse.End(ev.TimestampMs)
		if len(matches) == 0 {
			e.metrics.Inc(metrics.GestureDiscards)
		}
	case input.KindWheel:
		matches = e.rhythm.Feed(ev.DeltaY, ev.TimestampMs)
	case input.KindTouchStart:
		e.touch.Begin(ev.X, ev.Y, ev.TimestampMs)
	case input.KindTouchMove:
		e.touch.Move(ev.X, ev.Y, ev.TimestampMs)
	case input.KindTouchEnd:
		matches = e.touch.End(ev.TimestampMs)
		if len(matches) == 0 {
			e.metrics.Inc(metrics.GestureDiscards)
		}
	}
	for _, m := range matches {
		e.dispatch(m)
	}
}

// dispatch turns a match into a discovery, updates the ledger, and
// notifies the host. Ledger persistence failures are logged and
// absorbed: recognition keeps working even when the disk does not.
func (e *Engine) dispatch(m pattern.Match) {
	e.metrics.Inc(metrics.Matches)

	isNew, err := e.ledger.RecordDiscovery(m.PatternID)
	if err != nil {
		e.log.Warn("persist discovery", "pattern", m.PatternID, "error", err)
	} else if isNew {
		e.metrics.Inc(metrics.PersistenceWrites)
	}

	d := Discovery{
		PatternID:   m.PatternID,
		Category:    m.Category,
		Difficulty:  m.Difficulty,
		TimestampMs: m.TimestampMs,
	}
	e.metrics.Inc(metrics.Discoveries)
	if isNew {
		e.metrics.Inc(metrics.NewDiscoveries)
	}

	var unlocked []Achievement
	if isNew {
		unlocked = e.evaluateAchievements(m.PatternID, m.TimestampMs)
	}

	e.log.Info("discovery", "pattern", d.PatternID, "category", d.Category, "new", isNew)
	if e.onDiscovery != nil {
		e.onDiscovery(d)
	}
	for _, a := range unlocked {
		e.metrics.Inc(metrics.Achievements)
		e.log.Info("achievement unlocked", "achievement", a.ID)
		if e.onAchievement != nil {
			e.onAchievement(a)
		}
	}
}

// Progress returns a copy of the persisted progress snapshot.
func (e *Engine) Progress() ledger.Progress {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Progress()
}

// Metrics returns a snapshot of the engine counters. The normalizer's
// drop count is reflected as a gauge at snapshot time.
func (e *Engine) Metrics() metrics.Snapshot {
	e.mu.Lock()
	stats := e.norm.Stats()
	e.mu.Unlock()
	e.metrics.SetGauge(metrics.EventsDropped, int64(stats.Dropped))
	return e.metrics.Snapshot()
}

// Close detaches from the source and drops all in-memory match state.
// Persisted progress is left intact. Close is idempotent.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	if e.detach != nil {
		e.detach()
	}
	e.seq.Reset()
	e.mouse.Reset()
	e.touch.Reset()
	e.rhythm.Reset()
	e.log.Info("engine closed")
	return e.st.Close()
}
