// Package metrics provides in-process counters and gauges for the
// discovery engine.
//
// The registry is purely local: the host can read a snapshot and expose
// it however it likes, but nothing here opens a listener or sends a
// byte anywhere.
package metrics

import (
	"sort"
	"sync"
)

// Well-known metric names used by the engine.
const (
	EventsSeen        = "events_seen"
	EventsDropped     = "events_dropped"
	Matches           = "matches"
	Discoveries       = "discoveries"
	NewDiscoveries    = "new_discoveries"
	Achievements      = "achievements"
	GestureDiscards   = "gesture_discards"
	PersistenceWrites = "persistence_writes"
)

// Registry holds named counters and gauges. Safe for concurrent use.
type Registry struct {
	mu       sync.Mutex
	counters map[string]uint64
	gauges   map[string]int64
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		counters: make(map[string]uint64),
		gauges:   make(map[string]int64),
	}
}

// Inc increments a counter by one.
func (r *Registry) Inc(name string) { r.Add(name, 1) }

// Add increments a counter by n.
func (r *Registry) Add(name string, n uint64) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.counters[name] += n
	r.mu.Unlock()
}

// SetGauge sets a gauge value.
func (r *Registry) SetGauge(name string, v int64) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.gauges[name] = v
	r.mu.Unlock()
}

// Counter returns the current value of a counter.
func (r *Registry) Counter(name string) uint64 {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counters[name]
}

// Snapshot captures all metrics at a point in time.
type Snapshot struct {
	Counters map[string]uint64 `json:"counters"`
	Gauges   map[string]int64  `json:"gauges"`
}

// Snapshot returns a copy of every metric.
func (r *Registry) Snapshot() Snapshot {
	s := Snapshot{
		Counters: make(map[string]uint64),
		Gauges:   make(map[string]int64),
	}
	if r == nil {
		return s
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range r.counters {
		s.Counters[k] = v
	}
	for k, v := range r.gauges {
		s.Gauges[k] = v
	}
	return s
}

// Names returns the sorted counter names in the snapshot.
func (s Snapshot) Names() []string {
	names := make([]string, 0, len(s.Counters))
	for k := range s.Counters {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
