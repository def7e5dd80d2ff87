package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Cap is the maximum number of entries each progress set retains.
// Insertion beyond the cap evicts the oldest entry (FIFO).
const Cap = 25

// progressSchema validates persisted blobs before they are trusted.
// Anything that fails validation is treated as empty progress.
const progressSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["discoveredPatternIds", "unlockedAchievementIds"],
  "properties": {
    "discoveredPatternIds": {
      "type": "array",
      "items": {"type": "string", "minLength": 1},
      "maxItems": 25
    },
    "unlockedAchievementIds": {
      "type": "array",
      "items": {"type": "string", "minLength": 1},
      "maxItems": 25
    }
  }
}`

var compiledSchema = jsonschema.MustCompileString("progress.schema.json", progressSchema)

// Progress is the persisted snapshot shape. Both slices are ordered
// oldest first.
type Progress struct {
	DiscoveredPatternIDs   []string `json:"discoveredPatternIds"`
	UnlockedAchievementIDs []string `json:"unlockedAchievementIds"`
}

// Has reports whether the snapshot contains a discovered pattern ID.
func (p Progress) Has(patternID string) bool {
	for _, id := range p.DiscoveredPatternIDs {
		if id == patternID {
			return true
		}
	}
	return false
}

// emptyProgress returns a snapshot with non-nil slices so the persisted
// JSON always contains both arrays.
func emptyProgress() Progress {
	return Progress{
		DiscoveredPatternIDs:   []string{},
		UnlockedAchievementIDs: []string{},
	}
}

// decodeProgress parses and validates a persisted blob. A malformed or
// schema-violating blob yields empty progress and ok=false; it is never
// an error.
func decodeProgress(data []byte) (Progress, bool) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return emptyProgress(), false
	}
	if err := compiledSchema.Validate(raw); err != nil {
		return emptyProgress(), false
	}
	var p Progress
	if err := json.Unmarshal(data, &p); err != nil {
		return emptyProgress(), false
	}
	if p.DiscoveredPatternIDs == nil {
		p.DiscoveredPatternIDs = []string{}
	}
	if p.UnlockedAchievementIDs == nil {
		p.UnlockedAchievementIDs = []string{}
	}
	return p, true
}

// encodeProgress serializes a snapshot for persistence.
func encodeProgress(p Progress) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("ledger: encode progress: %w", err)
	}
	return data, nil
}

// cappedSet is an ordered set with FIFO eviction at Cap entries.
type cappedSet struct {
	ids   []string
	index map[string]struct{}
}

func newCappedSet(ids []string) *cappedSet {
	s := &cappedSet{index: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.add(id)
	}
	return s
}

func (s *cappedSet) has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// add inserts id and reports whether it was new. When the cap is
// exceeded the oldest entry is evicted.
func (s *cappedSet) add(id string) bool {
	if s.has(id) {
		return false
	}
	s.ids = append(s.ids, id)
	s.index[id] = struct{}{}
	if len(s.ids) > Cap {
		oldest := s.ids[0]
		s.ids = s.ids[1:]
		delete(s.index, oldest)
	}
	return true
}

func (s *cappedSet) snapshot() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}
