package game

import "ladder-quiz/internal/domain"

// DefaultLevels is the canonical 16-rung ladder; ordinal 0 means "not started".
var DefaultLevels = []domain.LadderLevel{
	{Ordinal: 0, Payout: 0, Safety: true},
	{Ordinal: 1, Payout: 100},
	{Ordinal: 2, Payout: 200},
	{Ordinal: 3, Payout: 300},
	{Ordinal: 4, Payout: 500},
	{Ordinal: 5, Payout: 1000, Safety: true},
	{Ordinal: 6, Payout: 2000},
	{Ordinal: 7, Payout: 4000},
	{Ordinal: 8, Payout: 8000},
	{Ordinal: 9, Payout: 16000},
	{Ordinal: 10, Payout: 32000, Safety: true},
	{Ordinal: 11, Payout: 64000},
	{Ordinal: 12, Payout: 125000},
	{Ordinal: 13, Payout: 250000},
	{Ordinal: 14, Payout: 500000},
	{Ordinal: 15, Payout: 1000000, Safety: true},
}

// Ladder is the prize progression. Levels are indexed by ordinal, so the
// current position is a plain index into the table.
type Ladder struct {
	levels  []domain.LadderLevel
	current int
}

// NewLadder copies levels into a ladder positioned at ordinal 0. Nil or empty
// input selects DefaultLevels.
func NewLadder(levels []domain.LadderLevel) *Ladder {
	if len(levels) == 0 {
		levels = DefaultLevels
	}
	owned := make([]domain.LadderLevel, len(levels))
	copy(owned, levels)
	return &Ladder{levels: owned}
}

// MoveForward advances one rung; it is a no-op on the final rung.
func (l *Ladder) MoveForward() {
	if l.current < len(l.levels)-1 {
		l.current++
	}
}

// MoveToSafetyLevel drops to the nearest strictly-earlier safety rung, or to
// ordinal 0 when there is none. It does nothing when the current rung is
// already a safety rung.
func (l *Ladder) MoveToSafetyLevel() {
	if l.levels[l.current].Safety {
		return
	}
	for i := l.current - 1; i >= 0; i-- {
		if l.levels[i].Safety {
			l.current = i
			return
		}
	}
	l.current = 0
}

// Reset returns to ordinal 0 for a new session.
func (l *Ladder) Reset() {
	l.current = 0
}

func (l *Ladder) CurrentPrize() int64 {
	return l.levels[l.current].Payout
}

func (l *Ladder) CurrentLevel() int {
	return l.levels[l.current].Ordinal
}

func (l *Ladder) IsSafetyLevel() bool {
	return l.levels[l.current].Safety
}

// FinalLevel is the ordinal of the top rung.
func (l *Ladder) FinalLevel() int {
	return l.levels[len(l.levels)-1].Ordinal
}

// AtFinalLevel reports whether the top rung has been reached.
func (l *Ladder) AtFinalLevel() bool {
	return l.current == len(l.levels)-1
}

// Levels returns a copy of the table.
func (l *Ladder) Levels() []domain.LadderLevel {
	out := make([]domain.LadderLevel, len(l.levels))
	copy(out, l.levels)
	return out
}
