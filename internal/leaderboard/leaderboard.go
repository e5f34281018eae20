// Package leaderboard keeps the ranked list of completed games.
package leaderboard

import (
	"context"
	"fmt"
	"sync"

	"ladder-quiz/internal/domain"
	"ladder-quiz/pkg/logger"
)

// MaxEntries is the default retained size.
const MaxEntries = 100

// Store persists the whole ranked list.
type Store interface {
	Load(ctx context.Context) ([]domain.LeaderboardEntry, error)
	Save(ctx context.Context, entries []domain.LeaderboardEntry) error
}

// Leaderboard is shared by every game of a process.
type Leaderboard struct {
	store Store
	max   int

	// saveMu orders writes so a newer snapshot is never overwritten by an older one.
	saveMu  sync.Mutex
	mu      sync.RWMutex
	entries []domain.LeaderboardEntry
}

// New loads the persisted list and re-applies the ordering. max <= 0 selects MaxEntries.
func New(ctx context.Context, store Store, max int) (*Leaderboard, error) {
	if max <= 0 {
		max = MaxEntries
	}
	entries, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	sorted := MergeSort(entries, Ranks)
	if len(sorted) > max {
		sorted = sorted[:max]
	}
	return &Leaderboard{store: store, max: max, entries: sorted}, nil
}

// AddEntry appends, re-sorts, truncates and writes through. A failed write is
// logged; the in-memory list stays authoritative.
func (l *Leaderboard) AddEntry(ctx context.Context, e domain.LeaderboardEntry) {
	l.saveMu.Lock()
	defer l.saveMu.Unlock()

	l.mu.Lock()
	sorted := MergeSort(append(l.entries, e), Ranks)
	if len(sorted) > l.max {
		sorted = sorted[:l.max]
	}
	l.entries = sorted
	snapshot := l.snapshotLocked()
	l.mu.Unlock()

	if err := l.store.Save(ctx, snapshot); err != nil {
		logger.Error("save leaderboard", "error", err.Error(), "entries", len(snapshot))
	}
}

// Save writes the current list.
func (l *Leaderboard) Save(ctx context.Context) error {
	l.saveMu.Lock()
	defer l.saveMu.Unlock()

	l.mu.RLock()
	snapshot := l.snapshotLocked()
	l.mu.RUnlock()
	return l.store.Save(ctx, snapshot)
}

// Top returns the first n entries of the already sorted list.
func (l *Leaderboard) Top(n int) []domain.LeaderboardEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if n < 0 {
		n = 0
	}
	if n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]domain.LeaderboardEntry, n)
	copy(out, l.entries[:n])
	return out
}

func (l *Leaderboard) Entries() []domain.LeaderboardEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snapshotLocked()
}

func (l *Leaderboard) snapshotLocked() []domain.LeaderboardEntry {
	out := make([]domain.LeaderboardEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// TotalGames counts retained entries.
func (l *Leaderboard) TotalGames() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

func (l *Leaderboard) TotalPrizePool() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var total int64
	for _, e := range l.entries {
		total += e.Winnings
	}
	return total
}

func (l *Leaderboard) AverageLevel() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.entries) == 0 {
		return 0
	}
	sum := 0
	for _, e := range l.entries {
		sum += e.Level
	}
	return float64(sum) / float64(len(l.entries))
}

// PlayerHistory lists a player's retained entries in rank order.
func (l *Leaderboard) PlayerHistory(name string) []domain.LeaderboardEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []domain.LeaderboardEntry
	for _, e := range l.entries {
		if e.PlayerName == name {
			out = append(out, e)
		}
	}
	return out
}
