package game

import (
	"fmt"
	"io"
	"math/rand"

	"ladder-quiz/internal/domain"
	"ladder-quiz/internal/record"
	"ladder-quiz/pkg/logger"
)

// AskedSet is the view of a session the bank needs for no-repeat selection.
type AskedSet interface {
	HasAsked(id string) bool
}

// Bank holds one shuffled load of questions.
type Bank struct {
	rng       *rand.Rand
	questions []domain.Question
	byID      map[string]int
}

func NewBank(rng *rand.Rand) *Bank {
	return &Bank{rng: rng, byID: make(map[string]int)}
}

// Load parses a pipe-delimited stream. Malformed lines are logged and skipped;
// a stream with no usable question returns ErrNoQuestionsLoaded.
func (b *Bank) Load(r io.Reader) (int, error) {
	questions, skipped, err := record.ReadQuestions(r)
	for _, le := range skipped {
		logger.Warn("skipping question record", "line", le.Line, "error", le.Err.Error())
	}
	if err != nil {
		return 0, fmt.Errorf("load questions: %w", err)
	}
	return b.LoadQuestions(questions)
}

// LoadQuestions replaces the bank contents. Each question gets its options
// shuffled and the whole set is then permuted.
func (b *Bank) LoadQuestions(questions []domain.Question) (int, error) {
	loaded := make([]domain.Question, 0, len(questions))
	byID := make(map[string]int, len(questions))
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			logger.Warn("skipping invalid question", "id", q.ID, "error", err.Error())
			continue
		}
		if _, dup := byID[q.ID]; dup {
			logger.Warn("skipping duplicate question id", "id", q.ID)
			continue
		}
		byID[q.ID] = len(loaded)
		loaded = append(loaded, b.shuffleOptions(q))
	}
	if len(loaded) == 0 {
		return 0, domain.ErrNoQuestionsLoaded
	}

	for i := len(loaded) - 1; i > 0; i-- {
		j := b.rng.Intn(i + 1)
		loaded[i], loaded[j] = loaded[j], loaded[i]
	}
	for i, q := range loaded {
		byID[q.ID] = i
	}

	b.questions = loaded
	b.byID = byID
	logger.Info("question bank loaded", "count", len(loaded))
	return len(loaded), nil
}

// shuffleOptions permutes option positions and follows the correct option to
// its new slot, so identical option texts cannot leave a stale index.
func (b *Bank) shuffleOptions(q domain.Question) domain.Question {
	perm := b.rng.Perm(domain.OptionCount)
	var shuffled [domain.OptionCount]string
	correct := q.CorrectIndex
	for dst, src := range perm {
		shuffled[dst] = q.Options[src]
		if src == q.CorrectIndex {
			correct = dst
		}
	}
	q.Options = shuffled
	q.CorrectIndex = correct
	return q
}

// Next returns the first question in shuffled order not yet asked, or the
// sentinel once everything has been asked.
func (b *Bank) Next(asked AskedSet) domain.Question {
	for _, q := range b.questions {
		if !asked.HasAsked(q.ID) {
			return q
		}
	}
	return domain.NoMoreQuestions()
}

// IsCorrect is false for unknown ids and out-of-range options.
func (b *Bank) IsCorrect(id string, option int) bool {
	idx, ok := b.byID[id]
	if !ok {
		return false
	}
	return b.questions[idx].CorrectIndex == option
}

// Get looks a loaded question up by id.
func (b *Bank) Get(id string) (domain.Question, bool) {
	idx, ok := b.byID[id]
	if !ok {
		return domain.Question{}, false
	}
	return b.questions[idx], true
}

func (b *Bank) Len() int {
	return len(b.questions)
}

// Questions returns the shuffled order as a copy.
func (b *Bank) Questions() []domain.Question {
	out := make([]domain.Question, len(b.questions))
	copy(out, b.questions)
	return out
}
