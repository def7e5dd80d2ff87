package pattern

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"easteregg/internal/difficulty"
)

// ManifestVersion is the current manifest schema version.
const ManifestVersion = 1

// Manifest is the on-disk YAML form of a pattern set. Hosts that want
// patterns beyond the built-ins ship one of these.
type Manifest struct {
	Version   int                `yaml:"version"`
	Sequences []SequenceManifest `yaml:"sequences"`
	Gestures  []GestureManifest  `yaml:"gestures"`
	Rhythms   []RhythmManifest   `yaml:"rhythms"`
}

// SequenceManifest is the YAML form of a Sequence.
type SequenceManifest struct {
	ID                string   `yaml:"id"`
	Tokens            []string `yaml:"tokens"`
	MaxStepIntervalMs int64    `yaml:"max_step_interval_ms"`
	TotalBudgetMs     int64    `yaml:"total_budget_ms"`
	Difficulty        int      `yaml:"difficulty"`
}

// GestureManifest is the YAML form of a Gesture.
type GestureManifest struct {
	ID         string  `yaml:"id"`
	Shape      string  `yaml:"shape"`
	MinPoints  int     `yaml:"min_points"`
	Tolerance  float64 `yaml:"tolerance"`
	Difficulty int     `yaml:"difficulty"`
}

// RhythmManifest is the YAML form of a Rhythm.
type RhythmManifest struct {
	ID             string `yaml:"id"`
	Kind           string `yaml:"kind"`
	CadenceMs      int64  `yaml:"cadence_ms"`
	ToleranceMs    int64  `yaml:"tolerance_ms"`
	MinRepetitions int    `yaml:"min_repetitions"`
	Difficulty     int    `yaml:"difficulty"`
}

// ParseManifest decodes and validates a YAML manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if m.Version != ManifestVersion {
		return nil, fmt.Errorf("manifest version %d not supported (want %d)", m.Version, ManifestVersion)
	}
	if len(m.Sequences)+len(m.Gestures)+len(m.Rhythms) == 0 {
		return nil, fmt.Errorf("manifest defines no patterns")
	}
	return &m, nil
}

// Registry builds a frozen registry from the manifest, clamping each
// pattern's difficulty against the engine-wide level. A pattern without
// its own difficulty inherits level.
func (m *Manifest) Registry(level difficulty.Level) (*Registry, error) {
	r := NewRegistry()
	for _, s := range m.Sequences {
		d := difficulty.Level(s.Difficulty)
		if d == 0 {
			d = level
		}
		err := r.AddSequence(Sequence{
			ID:                s.ID,
			Tokens:            s.Tokens,
			MaxStepIntervalMs: s.MaxStepIntervalMs,
			TotalBudgetMs:     s.TotalBudgetMs,
			Difficulty:        d,
		})
		if err != nil {
			return nil, err
		}
	}
	for _, g := range m.Gestures {
		d := difficulty.Level(g.Difficulty)
		if d == 0 {
			d = level
		}
		err := r.AddGesture(Gesture{
			ID:         g.ID,
			Shape:      Shape(g.Shape),
			MinPoints:  g.MinPoints,
			Tolerance:  g.Tolerance,
			Difficulty: d,
		})
		if err != nil {
			return nil, err
		}
	}
	for _, rp := range m.Rhythms {
		d := difficulty.Level(rp.Difficulty)
		if d == 0 {
			d = level
		}
		err := r.AddRhythm(Rhythm{
			ID:             rp.ID,
			Kind:           RhythmKind(rp.Kind),
			CadenceMs:      rp.CadenceMs,
			ToleranceMs:    rp.ToleranceMs,
			MinRepetitions: rp.MinRepetitions,
			Difficulty:     d,
		})
		if err != nil {
			return nil, err
		}
	}
	r.Freeze()
	return r, nil
}

// LoadManifest reads a manifest file and builds its registry.
func LoadManifest(path string, level difficulty.Level) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}
	return m.Registry(level)
}
