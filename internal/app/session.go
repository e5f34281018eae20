package app

import "ladder-quiz/internal/domain"

// Session is the transient state of one play-through. Winnings are not stored
// here; they always mirror the ladder payout.
type Session struct {
	Name              string
	Gender            string
	QuestionsAnswered int
	CorrectAnswers    int
	Streak            int
	TotalPoints       int

	asked map[string]struct{}
	order []string
}

func newSession(name, gender string) *Session {
	return &Session{Name: name, Gender: gender, asked: make(map[string]struct{})}
}

// HasAsked reports whether the question was already presented.
func (s *Session) HasAsked(id string) bool {
	_, ok := s.asked[id]
	return ok
}

func (s *Session) markAsked(id string) {
	if _, ok := s.asked[id]; ok {
		return
	}
	s.asked[id] = struct{}{}
	s.order = append(s.order, id)
}

// Asked lists question ids in the order they were presented.
func (s *Session) Asked() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Session) recordAnswer(correct bool) {
	s.QuestionsAnswered++
	if correct {
		s.CorrectAnswers++
		s.Streak++
		return
	}
	s.Streak = 0
}

// SessionView is the read-only projection handed to rendering layers.
type SessionView struct {
	Name              string                     `json:"name"`
	Gender            string                     `json:"gender"`
	Level             int                        `json:"level"`
	Winnings          int64                      `json:"winnings"`
	SafetyLevel       bool                       `json:"safetyLevel"`
	LifelinesUsed     [domain.LifelineCount]bool `json:"lifelinesUsed"`
	QuestionsAnswered int                        `json:"questionsAnswered"`
	CorrectAnswers    int                        `json:"correctAnswers"`
	Streak            int                        `json:"streak"`
	TotalPoints       int                        `json:"totalPoints"`
	Asked             int                        `json:"asked"`
}
