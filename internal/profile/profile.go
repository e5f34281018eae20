// Package profile keeps lifetime aggregates per player name.
package profile

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"ladder-quiz/internal/domain"
	"ladder-quiz/pkg/logger"
)

// Store persists every profile at once.
type Store interface {
	Load(ctx context.Context) ([]domain.PlayerProfile, error)
	Save(ctx context.Context, profiles []domain.PlayerProfile) error
}

// Profiles is a write-through registry of player profiles.
type Profiles struct {
	store Store

	// saveMu keeps store writes in snapshot order.
	saveMu   sync.Mutex
	mu       sync.RWMutex
	profiles map[string]domain.PlayerProfile
}

func New(ctx context.Context, store Store) (*Profiles, error) {
	loaded, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	profiles := make(map[string]domain.PlayerProfile, len(loaded))
	for _, p := range loaded {
		profiles[p.Name] = p
	}
	return &Profiles{store: store, profiles: profiles}, nil
}

// GetOrCreate returns the stored profile, creating a zeroed one on first sight.
// The gender of an existing profile is not overwritten.
func (p *Profiles) GetOrCreate(ctx context.Context, name, gender string) (domain.PlayerProfile, error) {
	if name == "" {
		return domain.PlayerProfile{}, domain.ErrEmptyName
	}

	p.saveMu.Lock()
	defer p.saveMu.Unlock()

	p.mu.Lock()
	if existing, ok := p.profiles[name]; ok {
		p.mu.Unlock()
		return existing, nil
	}
	created := domain.PlayerProfile{Name: name, Gender: gender}
	p.profiles[name] = created
	snapshot := p.snapshotLocked()
	p.mu.Unlock()

	p.persist(ctx, snapshot)
	return created, nil
}

// UpdateStats adds one finished game to the player's aggregates.
func (p *Profiles) UpdateStats(ctx context.Context, name string, winnings int64, level, answered, correct int) (domain.PlayerProfile, error) {
	p.saveMu.Lock()
	defer p.saveMu.Unlock()

	p.mu.Lock()
	profile, ok := p.profiles[name]
	if !ok {
		p.mu.Unlock()
		return domain.PlayerProfile{}, fmt.Errorf("%w: %s", domain.ErrProfileNotFound, name)
	}
	profile.GamesPlayed++
	profile.TotalWinnings += winnings
	if level > profile.MaxLevel {
		profile.MaxLevel = level
	}
	profile.TotalAnswered += answered
	profile.TotalCorrect += correct
	p.profiles[name] = profile
	snapshot := p.snapshotLocked()
	p.mu.Unlock()

	p.persist(ctx, snapshot)
	return profile, nil
}

func (p *Profiles) Get(name string) (domain.PlayerProfile, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	profile, ok := p.profiles[name]
	return profile, ok
}

// All returns every profile sorted by name.
func (p *Profiles) All() []domain.PlayerProfile {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshotLocked()
}

func (p *Profiles) Save(ctx context.Context) error {
	p.saveMu.Lock()
	defer p.saveMu.Unlock()
	return p.store.Save(ctx, p.All())
}

func (p *Profiles) persist(ctx context.Context, snapshot []domain.PlayerProfile) {
	if err := p.store.Save(ctx, snapshot); err != nil {
		logger.Error("save profiles", "error", err.Error(), "profiles", len(snapshot))
	}
}

func (p *Profiles) snapshotLocked() []domain.PlayerProfile {
	out := make([]domain.PlayerProfile, 0, len(p.profiles))
	for _, profile := range p.profiles {
		out = append(out, profile)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
