package memory

import (
	"context"
	"sync"

	"ladder-quiz/internal/domain"
)

// LeaderboardStore keeps the ranked list in process memory.
type LeaderboardStore struct {
	mu      sync.RWMutex
	entries []domain.LeaderboardEntry
}

func NewLeaderboardStore(seed ...domain.LeaderboardEntry) *LeaderboardStore {
	return &LeaderboardStore{entries: append([]domain.LeaderboardEntry(nil), seed...)}
}

func (s *LeaderboardStore) Load(context.Context) ([]domain.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.LeaderboardEntry(nil), s.entries...), nil
}

func (s *LeaderboardStore) Save(_ context.Context, entries []domain.LeaderboardEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append([]domain.LeaderboardEntry(nil), entries...)
	return nil
}

// ProfileStore keeps profiles in process memory.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles []domain.PlayerProfile
}

func NewProfileStore(seed ...domain.PlayerProfile) *ProfileStore {
	return &ProfileStore{profiles: append([]domain.PlayerProfile(nil), seed...)}
}

func (s *ProfileStore) Load(context.Context) ([]domain.PlayerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.PlayerProfile(nil), s.profiles...), nil
}

func (s *ProfileStore) Save(_ context.Context, profiles []domain.PlayerProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = append([]domain.PlayerProfile(nil), profiles...)
	return nil
}
