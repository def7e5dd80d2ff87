package engine

import "easteregg/internal/pattern"

// AchievementCategory separates one-off milestones from per-pattern
// achievements.
type AchievementCategory string

const (
	AchievementMilestone AchievementCategory = "milestone"
	AchievementPattern   AchievementCategory = "pattern"
)

// Achievement is a one-time-unlockable milestone derived from
// discoveries. Unlike discoveries, achievements are deduplicated
// permanently through the ledger.
type Achievement struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Category    AchievementCategory `json:"category"`
	TimestampMs int64               `json:"timestampMs"`
}

// AchievementFirstDiscovery is unlocked the very first time any
// pattern is recorded.
const AchievementFirstDiscovery = "first-discovery"

var firstDiscovery = Achievement{
	ID:          AchievementFirstDiscovery,
	Name:        "First Discovery",
	Description: "Uncover your first hidden pattern.",
	Category:    AchievementMilestone,
}

// patternAchievements maps built-in pattern IDs 1:1 to their named
// achievements. Patterns registered through a manifest have no entry
// and unlock nothing beyond the milestone.
var patternAchievements = map[string]Achievement{
	pattern.IDKonami: {
		ID:          "konami-master",
		Name:        "Konami Master",
		Description: "Enter the classic code without missing a beat.",
		Category:    AchievementPattern,
	},
	pattern.IDCircle: {
		ID:          "perfect-circle",
		Name:        "Perfect Circle",
		Description: "Draw a full loop steady enough to pass for a compass.",
		Category:    AchievementPattern,
	},
	pattern.IDZigzag: {
		ID:          "lightning-hand",
		Name:        "Lightning Hand",
		Description: "Carve a zigzag across the page.",
		Category:    AchievementPattern,
	},
	pattern.IDRapidYoYo: {
		ID:          "scroll-yo-yo",
		Name:        "Scroll Yo-Yo",
		Description: "Whip the wheel back and forth without losing the rhythm.",
		Category:    AchievementPattern,
	},
	pattern.IDPacedCadence: {
		ID:          "metronome",
		Name:        "Metronome",
		Description: "Keep a perfectly paced scroll cadence.",
		Category:    AchievementPattern,
	},
}

// evaluateAchievements runs the achievement rules for a newly recorded
// discovery and returns the achievements unlocked by it, milestone
// first. Runs under e.mu.
func (e *Engine) evaluateAchievements(patternID string, tsMs int64) []Achievement {
	var unlocked []Achievement

	record := func(a Achievement) {
		isNew, err := e.ledger.RecordAchievement(a.ID)
		if err != nil {
			e.log.Warn("persist achievement", "achievement", a.ID, "error", err)
		}
		if isNew {
			a.TimestampMs = tsMs
			unlocked = append(unlocked, a)
		}
	}

	record(firstDiscovery)
	if a, ok := patternAchievements[patternID]; ok {
		record(a)
	}
	return unlocked
}
