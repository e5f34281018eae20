package domain

import "errors"

var (
	// ErrNoQuestionsLoaded is returned when a question source yields no usable record.
	ErrNoQuestionsLoaded = errors.New("no questions loaded")
	// ErrMalformedRecord marks a delimited line that cannot be decoded.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrInvalidState is returned when an entry point is called in the wrong controller state.
	ErrInvalidState = errors.New("action not allowed in current state")
	// ErrInvalidOption indicates an answer index outside A-D.
	ErrInvalidOption = errors.New("invalid answer option")
	// ErrUnknownLifeline indicates a lifeline type that does not exist.
	ErrUnknownLifeline = errors.New("unknown lifeline")
	// ErrEmptyName is returned when player setup carries no usable name.
	ErrEmptyName = errors.New("player name is empty")
	// ErrProfileNotFound is returned when stats are recorded for an unknown player.
	ErrProfileNotFound = errors.New("player profile not found")
	// ErrInvalidToken is returned when a player token fails verification.
	ErrInvalidToken = errors.New("invalid player token")
)
