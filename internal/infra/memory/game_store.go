package memory

import (
	"context"
	"sync"

	"ladder-quiz/internal/app"
)

// GameStore is an in-process GameRegistry.
type GameStore struct {
	mu    sync.RWMutex
	games map[string]*app.GameController
}

func NewGameStore() *GameStore {
	return &GameStore{games: make(map[string]*app.GameController)}
}

func (s *GameStore) Register(_ context.Context, id string, game *app.GameController) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[id] = game
}

func (s *GameStore) Get(id string) (*app.GameController, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	return game, ok
}

func (s *GameStore) Remove(_ context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
}

func (s *GameStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}
