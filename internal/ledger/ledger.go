// Package ledger keeps the idempotent, size-capped record of discovered
// patterns and unlocked achievements.
//
// The ledger exclusively owns the persisted UserProgress record: no
// other component reads or writes it. Persistence happens synchronously
// after every new insertion and only then; re-recording an existing
// entry performs no write at all.
package ledger

import (
	"errors"
	"fmt"
	"log/slog"

	"easteregg/internal/store"
)

// Ledger tracks discovered patterns and unlocked achievements.
// It is not safe for concurrent use; the engine serializes access.
type Ledger struct {
	st           store.Store
	discoveries  *cappedSet
	achievements *cappedSet
	log          *slog.Logger
}

// Open loads persisted progress from st. A missing or malformed record
// is replaced with empty progress; only a hard store failure (an I/O
// error other than "not found") is surfaced.
func Open(st store.Store, log *slog.Logger) (*Ledger, error) {
	if log == nil {
		log = slog.Default()
	}
	l := &Ledger{st: st, log: log}

	data, err := st.Load()
	switch {
	case err == nil:
		p, ok := decodeProgress(data)
		if !ok {
			log.Warn("persisted progress malformed, starting empty")
		}
		l.discoveries = newCappedSet(p.DiscoveredPatternIDs)
		l.achievements = newCappedSet(p.UnlockedAchievementIDs)
	case errors.Is(err, store.ErrNotFound):
		l.discoveries = newCappedSet(nil)
		l.achievements = newCappedSet(nil)
	default:
		return nil, fmt.Errorf("ledger: load progress: %w", err)
	}
	return l, nil
}

// HasDiscovered reports whether the pattern was already recorded.
func (l *Ledger) HasDiscovered(patternID string) bool {
	return l.discoveries.has(patternID)
}

// HasAchievement reports whether the achievement was already unlocked.
func (l *Ledger) HasAchievement(achievementID string) bool {
	return l.achievements.has(achievementID)
}

// RecordDiscovery inserts a pattern ID. It is idempotent: an already
// present ID returns isNew=false with no mutation and no persistence
// write. A new ID is inserted (evicting the oldest past the cap) and
// the full snapshot is persisted before returning.
func (l *Ledger) RecordDiscovery(patternID string) (bool, error) {
	if !l.discoveries.add(patternID) {
		return false, nil
	}
	if err := l.persist(); err != nil {
		return true, err
	}
	l.log.Debug("discovery recorded", "pattern", patternID)
	return true, nil
}

// RecordAchievement inserts an achievement ID, with the same
// idempotency contract as RecordDiscovery.
func (l *Ledger) RecordAchievement(achievementID string) (bool, error) {
	if !l.achievements.add(achievementID) {
		return false, nil
	}
	if err := l.persist(); err != nil {
		return true, err
	}
	l.log.Debug("achievement recorded", "achievement", achievementID)
	return true, nil
}

// Progress returns a copy of the current snapshot.
func (l *Ledger) Progress() Progress {
	return Progress{
		DiscoveredPatternIDs:   l.discoveries.snapshot(),
		UnlockedAchievementIDs: l.achievements.snapshot(),
	}
}

// Reset clears all progress and persists the empty snapshot.
func (l *Ledger) Reset() error {
	l.discoveries = newCappedSet(nil)
	l.achievements = newCappedSet(nil)
	return l.persist()
}

func (l *Ledger) persist() error {
	data, err := encodeProgress(l.Progress())
	if err != nil {
		return err
	}
	if err := l.st.Save(data); err != nil {
		return fmt.Errorf("ledger: persist progress: %w", err)
	}
	return nil
}
