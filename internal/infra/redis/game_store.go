package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"ladder-quiz/internal/app"
)

// GameStore is a Redis-aware GameRegistry.
// Controllers stay in a local map; Redis only carries a liveness marker per
// game so other instances can count live games with LiveGames.
type GameStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	mu     sync.RWMutex
	games  map[string]*app.GameController
}

func NewGameStore(client *redis.Client, ttl time.Duration, prefix string) *GameStore {
	return &GameStore{
		client: client,
		ttl:    ttl,
		prefix: prefix,
		games:  make(map[string]*app.GameController),
	}
}

func (s *GameStore) Register(ctx context.Context, id string, game *app.GameController) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[id] = game
	// best-effort liveness marker
	_ = s.client.Set(ctx, s.key(id), "1", s.ttl).Err()
}

func (s *GameStore) Get(id string) (*app.GameController, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	return game, ok
}

func (s *GameStore) Remove(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
	_ = s.client.Del(ctx, s.key(id)).Err()
}

func (s *GameStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// LiveGames counts liveness markers across all instances sharing the prefix.
func (s *GameStore) LiveGames(ctx context.Context) (int, error) {
	var (
		cursor uint64
		total  int
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.prefix+"game:*", 100).Result()
		if err != nil {
			return 0, err
		}
		total += len(keys)
		if next == 0 {
			return total, nil
		}
		cursor = next
	}
}

func (s *GameStore) key(id string) string {
	return s.prefix + "game:" + id
}
