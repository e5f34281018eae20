package game

import (
	"testing"

	"ladder-quiz/internal/domain"
)

// fifteenLevels is a 15-rung ladder with safety points at 5 and 10 only.
func fifteenLevels() []domain.LadderLevel {
	levels := make([]domain.LadderLevel, 16)
	for i := range levels {
		levels[i] = domain.LadderLevel{Ordinal: i, Payout: int64(i) * 100, Safety: i == 5 || i == 10}
	}
	return levels
}

func climb(l *Ladder, steps int) {
	for i := 0; i < steps; i++ {
		l.MoveForward()
	}
}

func TestLadderSafetyFallback(t *testing.T) {
	tests := []struct {
		name string
		from int
		want int
	}{
		{name: "level 7 falls to 5", from: 7, want: 5},
		{name: "level 3 falls to head", from: 3, want: 0},
		{name: "level 12 falls to 10", from: 12, want: 10},
		{name: "safety level stays", from: 10, want: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLadder(fifteenLevels())
			climb(l, tt.from)
			l.MoveToSafetyLevel()
			if got := l.CurrentLevel(); got != tt.want {
				t.Fatalf("CurrentLevel() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLadderMoveForwardStopsAtFinal(t *testing.T) {
	l := NewLadder(nil)
	prev := l.CurrentLevel()
	for i := 0; i < 40; i++ {
		l.MoveForward()
		if l.CurrentLevel() < prev {
			t.Fatalf("MoveForward decreased level from %d to %d", prev, l.CurrentLevel())
		}
		prev = l.CurrentLevel()
	}
	if !l.AtFinalLevel() || l.CurrentLevel() != 15 || l.CurrentPrize() != 1000000 {
		t.Fatalf("expected final rung, got level %d prize %d", l.CurrentLevel(), l.CurrentPrize())
	}
}

func TestLadderDefaultTable(t *testing.T) {
	l := NewLadder(nil)
	if err := domain.ValidateLadder(l.Levels()); err != nil {
		t.Fatalf("default ladder invalid: %v", err)
	}
	if l.FinalLevel() != 15 || !l.IsSafetyLevel() || l.CurrentPrize() != 0 {
		t.Fatalf("unexpected initial state level=%d safety=%v", l.CurrentLevel(), l.IsSafetyLevel())
	}

	climb(l, 8)
	l.MoveToSafetyLevel()
	if l.CurrentLevel() != 5 || l.CurrentPrize() != 1000 {
		t.Fatalf("expected fallback to 5/1000, got %d/%d", l.CurrentLevel(), l.CurrentPrize())
	}

	l.Reset()
	if l.CurrentLevel() != 0 {
		t.Fatalf("Reset() left level %d", l.CurrentLevel())
	}
}

func TestNewLadderCopiesInput(t *testing.T) {
	levels := fifteenLevels()
	l := NewLadder(levels)
	levels[1].Payout = 999999
	if l.Levels()[1].Payout != 100 {
		t.Fatalf("ladder shares caller's slice")
	}
}
