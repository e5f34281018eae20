package app

import "context"

// GameRegistry tracks the games currently being played, keyed by game id.
type GameRegistry interface {
	Register(ctx context.Context, id string, game *GameController)
	Get(id string) (*GameController, bool)
	Remove(ctx context.Context, id string)
	Count() int
}
