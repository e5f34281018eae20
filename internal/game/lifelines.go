package game

import (
	"math/rand"

	"ladder-quiz/internal/domain"
)

// FriendAccuracy is the percent chance that Ask-Friend names the correct option.
const FriendAccuracy = 85

// NoSuggestion is returned by AskFriend when the lifeline is spent.
const NoSuggestion = -1

// LifelineState tracks one lifeline. UsageCount mirrors Used and is kept for diagnostics.
type LifelineState struct {
	Used       bool `json:"used"`
	UsageCount int  `json:"usageCount"`
}

// Lifelines holds the four one-shot aids of a session.
type Lifelines struct {
	rng     *rand.Rand
	states  [domain.LifelineCount]LifelineState
	history []domain.LifelineType
}

func NewLifelines(rng *rand.Rand) *Lifelines {
	return &Lifelines{rng: rng}
}

// Available is the single availability check callers consult before applying a lifeline.
func (l *Lifelines) Available(t domain.LifelineType) bool {
	if !t.Valid() {
		return false
	}
	return !l.states[t].Used
}

func (l *Lifelines) consume(t domain.LifelineType) {
	l.states[t].Used = true
	l.states[t].UsageCount++
	l.history = append(l.history, t)
}

// FiftyFifty returns two wrong option indices to hide, chosen with a partial
// Fisher-Yates shuffle of the three wrong indices. A spent lifeline returns nil.
func (l *Lifelines) FiftyFifty(q domain.Question) []int {
	if !l.Available(domain.FiftyFifty) {
		return nil
	}

	wrong := make([]int, 0, domain.OptionCount-1)
	for i := 0; i < domain.OptionCount; i++ {
		if i != q.CorrectIndex {
			wrong = append(wrong, i)
		}
	}
	for i := 0; i < 2 && i < len(wrong)-1; i++ {
		j := i + l.rng.Intn(len(wrong)-i)
		wrong[i], wrong[j] = wrong[j], wrong[i]
	}

	l.consume(domain.FiftyFifty)
	if len(wrong) < 2 {
		return wrong
	}
	return wrong[:2]
}

// AskFriend suggests the correct index with FriendAccuracy percent probability,
// otherwise a uniformly chosen wrong index. A spent lifeline returns NoSuggestion.
func (l *Lifelines) AskFriend(q domain.Question) int {
	if !l.Available(domain.AskFriend) {
		return NoSuggestion
	}

	suggestion := q.CorrectIndex
	if l.rng.Intn(100) >= FriendAccuracy {
		suggestion = l.rng.Intn(domain.OptionCount - 1)
		if suggestion >= q.CorrectIndex {
			suggestion++
		}
	}

	l.consume(domain.AskFriend)
	return suggestion
}

// Skip marks the current question as bypassed. The caller moves on to the next
// question. A spent lifeline returns false.
func (l *Lifelines) Skip() bool {
	if !l.Available(domain.Skip) {
		return false
	}
	l.consume(domain.Skip)
	return true
}

// Hint reveals the stored hint. A spent lifeline returns "".
func (l *Lifelines) Hint(q domain.Question) string {
	if !l.Available(domain.Hint) {
		return ""
	}
	l.consume(domain.Hint)
	return q.Hint
}

// Reset makes every lifeline available again; called once per player setup.
func (l *Lifelines) Reset() {
	l.states = [domain.LifelineCount]LifelineState{}
	l.history = nil
}

func (l *Lifelines) State(t domain.LifelineType) LifelineState {
	if !t.Valid() {
		return LifelineState{}
	}
	return l.states[t]
}

// History lists lifelines in the order they were used.
func (l *Lifelines) History() []domain.LifelineType {
	out := make([]domain.LifelineType, len(l.history))
	copy(out, l.history)
	return out
}

func (l *Lifelines) TotalUsed() int {
	total := 0
	for _, s := range l.states {
		if s.Used {
			total++
		}
	}
	return total
}
