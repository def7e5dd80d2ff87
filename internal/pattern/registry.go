package pattern

import (
	"errors"
	"fmt"

	"easteregg/internal/difficulty"
)

// ErrFrozen is returned when registering into a frozen registry.
var ErrFrozen = errors.New("pattern: registry is frozen")

// Registry holds the registered pattern definitions. Register everything
// up front, then Freeze before handing the registry to the engine; a
// frozen registry is safe for concurrent readers because it never
// changes again.
type Registry struct {
	sequences []Sequence
	gestures  []Gesture
	rhythms   []Rhythm
	ids       map[string]struct{}
	frozen    bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ids: make(map[string]struct{})}
}

func (r *Registry) claim(id string) error {
	if r.frozen {
		return ErrFrozen
	}
	if _, dup := r.ids[id]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateID, id)
	}
	r.ids[id] = struct{}{}
	return nil
}

// AddSequence validates and registers a sequence pattern.
func (r *Registry) AddSequence(s Sequence) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := r.claim(s.ID); err != nil {
		return err
	}
	s.Difficulty = s.Difficulty.Clamp()
	r.sequences = append(r.sequences, s)
	return nil
}

// AddGesture validates and registers a gesture pattern.
func (r *Registry) AddGesture(g Gesture) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if err := r.claim(g.ID); err != nil {
		return err
	}
	g.Difficulty = g.Difficulty.Clamp()
	r.gestures = append(r.gestures, g)
	return nil
}

// AddRhythm validates and registers a rhythm pattern.
func (r *Registry) AddRhythm(rp Rhythm) error {
	if err := rp.Validate(); err != nil {
		return err
	}
	if err := r.claim(rp.ID); err != nil {
		return err
	}
	rp.Difficulty = rp.Difficulty.Clamp()
	r.rhythms = append(r.rhythms, rp)
	return nil
}

// Freeze marks the registry read-only. Idempotent.
func (r *Registry) Freeze() { r.frozen = true }

// Len returns the total number of registered patterns.
func (r *Registry) Len() int {
	return len(r.sequences) + len(r.gestures) + len(r.rhythms)
}

// Sequences returns the registered sequence patterns. Callers must not
// mutate the returned slice.
func (r *Registry) Sequences() []Sequence { return r.sequences }

// Gestures returns the registered gesture patterns.
func (r *Registry) Gestures() []Gesture { return r.gestures }

// Rhythms returns the registered rhythm patterns.
func (r *Registry) Rhythms() []Rhythm { return r.rhythms }

// Built-in pattern IDs.
const (
	IDKonami       = "konami"
	IDCircle       = "circle"
	IDZigzag       = "zigzag"
	IDRapidYoYo    = "rapid-yo-yo"
	IDPacedCadence = "paced-cadence"
)

// Defaults returns a frozen registry holding the built-in pattern set
// at the given difficulty.
func Defaults(level difficulty.Level) *Registry {
	r := NewRegistry()
	// Registration of the built-ins cannot fail; the definitions below
	// are validated by TestDefaults.
	_ = r.AddSequence(Sequence{
		ID: IDKonami,
		Tokens: []string{
			"ArrowUp", "ArrowUp", "ArrowDown", "ArrowDown",
			"ArrowLeft", "ArrowRight", "ArrowLeft", "ArrowRight",
			"b", "a",
		},
		MaxStepIntervalMs: 1000,
		TotalBudgetMs:     15000,
		Difficulty:        level,
	})
	_ = r.AddGesture(Gesture{ID: IDCircle, Shape: ShapeCircle, Difficulty: level})
	_ = r.AddGesture(Gesture{ID: IDZigzag, Shape: ShapeZigzag, Difficulty: level})
	_ = r.AddRhythm(Rhythm{ID: IDRapidYoYo, Kind: RhythmRapidReversal, Difficulty: level})
	_ = r.AddRhythm(Rhythm{
		ID:             IDPacedCadence,
		Kind:           RhythmPacedCadence,
		CadenceMs:      500,
		ToleranceMs:    150,
		MinRepetitions: 6,
		Difficulty:     level,
	})
	r.Freeze()
	return r
}
