package app

import "ladder-quiz/internal/domain"

// Snapshot is everything a rendering layer needs to draw the current screen.
type Snapshot struct {
	State           domain.State         `json:"state"`
	Result          domain.Result        `json:"result"`
	Outcome         domain.Outcome       `json:"outcome,omitempty"`
	Question        *domain.Question     `json:"question,omitempty"`
	HiddenOptions   []int                `json:"hiddenOptions,omitempty"`
	CorrectOption   string               `json:"correctOption,omitempty"`
	RemainingMillis int64                `json:"remainingMillis"`
	TimedOut        bool                 `json:"timedOut,omitempty"`
	LastPoints      int                  `json:"lastPoints"`
	LifelineMessage string               `json:"lifelineMessage,omitempty"`
	Quote           string               `json:"quote,omitempty"`
	Session         *SessionView         `json:"session,omitempty"`
	Ladder          []domain.LadderLevel `json:"ladder,omitempty"`
}

// Snapshot captures the controller for display. The correct option is only
// revealed once the answer has been scored.
func (c *GameController) Snapshot() Snapshot {
	snap := Snapshot{
		State:           c.state,
		Result:          c.result,
		Outcome:         c.outcome,
		RemainingMillis: c.timer.Remaining().Milliseconds(),
		TimedOut:        c.timedOut,
		LastPoints:      c.lastPoints,
		LifelineMessage: c.lifelineMsg,
	}
	if q, ok := c.CurrentQuestion(); ok {
		snap.Question = &q
		snap.HiddenOptions = c.HiddenOptions()
	}
	switch c.state {
	case domain.StateResultDisplay:
		snap.CorrectOption = c.current.CorrectOption()
		snap.Quote = c.quote
	case domain.StatePrizeLadder:
		snap.Ladder = c.ladder.Levels()
	}
	if view, ok := c.Session(); ok {
		snap.Session = &view
	}
	return snap
}
