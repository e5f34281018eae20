package domain

import "fmt"

// OptionCount is the number of answer options every question carries.
const OptionCount = 4

// NoMoreQuestionsID identifies the sentinel returned once a bank is exhausted.
const NoMoreQuestionsID = "-1"

// Question models a single multiple-choice item with exactly one correct option.
type Question struct {
	ID           string              `json:"id"`
	Category     string              `json:"category"`
	Difficulty   int                 `json:"difficulty"`
	Text         string              `json:"text"`
	Options      [OptionCount]string `json:"options"`
	CorrectIndex int                 `json:"-"`
	Hint         string              `json:"-"`
}

// NoMoreQuestions returns the sentinel question handed out when nothing is left to ask.
func NoMoreQuestions() Question {
	return Question{ID: NoMoreQuestionsID, Text: "No more questions", CorrectIndex: -1}
}

// IsSentinel reports whether q is the "no more questions" marker.
func (q Question) IsSentinel() bool {
	return q.ID == NoMoreQuestionsID
}

// CorrectOption returns the text of the correct option.
func (q Question) CorrectOption() string {
	if q.CorrectIndex < 0 || q.CorrectIndex >= OptionCount {
		return ""
	}
	return q.Options[q.CorrectIndex]
}

// Validate checks the structural invariants of a loaded question.
func (q Question) Validate() error {
	if q.ID == "" {
		return fmt.Errorf("%w: empty id", ErrMalformedRecord)
	}
	if q.ID == NoMoreQuestionsID {
		return fmt.Errorf("%w: id %q is reserved", ErrMalformedRecord, q.ID)
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= OptionCount {
		return fmt.Errorf("%w: correct index %d out of range", ErrMalformedRecord, q.CorrectIndex)
	}
	return nil
}

var categoryNames = map[int]string{
	0: "ADT & Data Structures",
	1: "Linked Lists",
	2: "Stacks & Queues",
	3: "Trees",
	4: "Graphs",
	5: "Hashing / Advanced Topics",
}

// CategoryName resolves a numeric category code through the fixed lookup table.
func CategoryName(code int) string {
	if name, ok := categoryNames[code]; ok {
		return name
	}
	return "Unknown"
}

// LadderLevel is one rung of the prize ladder.
type LadderLevel struct {
	Ordinal int   `json:"ordinal" yaml:"ordinal"`
	Payout  int64 `json:"payout" yaml:"payout"`
	Safety  bool  `json:"safety" yaml:"safety"`
}

// ValidateLadder checks that levels are numbered 0..n-1 with non-negative,
// non-decreasing payouts.
func ValidateLadder(levels []LadderLevel) error {
	if len(levels) < 2 {
		return fmt.Errorf("ladder needs at least 2 levels, got %d", len(levels))
	}
	for i, lvl := range levels {
		if lvl.Ordinal != i {
			return fmt.Errorf("ladder level %d has ordinal %d", i, lvl.Ordinal)
		}
		if lvl.Payout < 0 {
			return fmt.Errorf("ladder level %d has negative payout", i)
		}
		if i > 0 && lvl.Payout < levels[i-1].Payout {
			return fmt.Errorf("ladder level %d payout %d below previous %d", i, lvl.Payout, levels[i-1].Payout)
		}
	}
	return nil
}

// LeaderboardEntry is an immutable record of one completed game.
type LeaderboardEntry struct {
	PlayerName        string `json:"playerName"`
	Winnings          int64  `json:"winnings"`
	Level             int    `json:"level"`
	QuestionsAnswered int    `json:"questionsAnswered"`
}

// PlayerProfile aggregates a player's results across sessions.
type PlayerProfile struct {
	Name          string `json:"name"`
	Gender        string `json:"gender"`
	GamesPlayed   int    `json:"gamesPlayed"`
	TotalWinnings int64  `json:"totalWinnings"`
	MaxLevel      int    `json:"maxLevel"`
	TotalCorrect  int    `json:"totalCorrect"`
	TotalAnswered int    `json:"totalAnswered"`
}

// WinRate is the percentage of answered questions that were correct.
func (p PlayerProfile) WinRate() float64 {
	if p.TotalAnswered == 0 {
		return 0
	}
	return float64(p.TotalCorrect) / float64(p.TotalAnswered) * 100
}

// LifelineType enumerates the one-shot aids.
type LifelineType int

const (
	FiftyFifty LifelineType = iota
	AskFriend
	Skip
	Hint
)

// LifelineCount is the number of lifeline types.
const LifelineCount = 4

var lifelineNames = [LifelineCount]string{"fifty-fifty", "ask-friend", "skip", "hint"}

func (t LifelineType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("lifeline(%d)", int(t))
	}
	return lifelineNames[t]
}

// Valid reports whether t names a known lifeline.
func (t LifelineType) Valid() bool {
	return t >= 0 && int(t) < LifelineCount
}

// ParseLifeline accepts either the lifeline name or its 1-based menu number.
func ParseLifeline(raw string) (LifelineType, error) {
	for i, name := range lifelineNames {
		if raw == name || raw == fmt.Sprint(i+1) {
			return LifelineType(i), nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrUnknownLifeline, raw)
}
