package app

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"ladder-quiz/internal/domain"
	"ladder-quiz/internal/game"
	"ladder-quiz/pkg/logger"
)

// LeaderboardService records finished games and serves the ranking.
type LeaderboardService interface {
	AddEntry(ctx context.Context, e domain.LeaderboardEntry)
	Top(n int) []domain.LeaderboardEntry
}

// ProfileService keeps lifetime aggregates per player.
type ProfileService interface {
	GetOrCreate(ctx context.Context, name, gender string) (domain.PlayerProfile, error)
	UpdateStats(ctx context.Context, name string, winnings int64, level, answered, correct int) (domain.PlayerProfile, error)
}

// Options tunes a controller. Zero values pick the defaults.
type Options struct {
	Ladder   []domain.LadderLevel
	Rand     *rand.Rand
	Now      func() time.Time
	Sanitize func(string) string
	Quotes   []string
}

// LifelineOutcome describes what a lifeline invocation did. Applied is false
// when the lifeline had already been used.
type LifelineOutcome struct {
	Type       domain.LifelineType `json:"-"`
	Name       string              `json:"type"`
	Applied    bool                `json:"applied"`
	Removed    []int               `json:"removed,omitempty"`
	Suggestion int                 `json:"suggestion"`
	Hint       string              `json:"hint,omitempty"`
	Skipped    bool                `json:"skipped,omitempty"`
	Message    string              `json:"message"`
}

// GameController drives one player through the game. It is not safe for
// concurrent use; transports serialise calls.
type GameController struct {
	bank        *game.Bank
	ladder      *game.Ladder
	lifelines   *game.Lifelines
	timer       *game.Countdown
	quotes      *game.QuoteBook
	rng         *rand.Rand
	sanitize    func(string) string
	leaderboard LeaderboardService
	profiles    ProfileService

	state       domain.State
	result      domain.Result
	outcome     domain.Outcome
	session     *Session
	current     domain.Question
	hidden      []int
	lifelineMsg string
	lastPoints  int
	timedOut    bool
	quote       string
	finalized   bool
}

func NewGameController(bank *game.Bank, leaderboard LeaderboardService, profiles ProfileService, opts Options) *GameController {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	sanitize := opts.Sanitize
	if sanitize == nil {
		sanitize = strings.TrimSpace
	}
	return &GameController{
		bank:        bank,
		ladder:      game.NewLadder(opts.Ladder),
		lifelines:   game.NewLifelines(rng),
		timer:       game.NewCountdownWithClock(now),
		quotes:      game.NewQuoteBook(opts.Quotes),
		rng:         rng,
		sanitize:    sanitize,
		leaderboard: leaderboard,
		profiles:    profiles,
		state:       domain.StateMenu,
		result:      domain.ResultNone,
	}
}

func (c *GameController) require(states ...domain.State) error {
	for _, s := range states {
		if c.state == s {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidState, c.state)
}

func (c *GameController) transition(to domain.State) {
	logger.Debug("game state change", "from", string(c.state), "to", string(to))
	c.state = to
}

// StartGame moves from the menu to player setup. An empty bank refuses to start.
func (c *GameController) StartGame() error {
	if err := c.require(domain.StateMenu); err != nil {
		return err
	}
	if c.bank == nil || c.bank.Len() == 0 {
		return domain.ErrNoQuestionsLoaded
	}
	c.transition(domain.StatePlayerSetup)
	return nil
}

func (c *GameController) ViewLeaderboard() error {
	if err := c.require(domain.StateMenu); err != nil {
		return err
	}
	c.transition(domain.StateLeaderboard)
	return nil
}

func (c *GameController) Exit() error {
	if err := c.require(domain.StateMenu); err != nil {
		return err
	}
	c.transition(domain.StateExit)
	return nil
}

// SubmitPlayerSetup starts a new session and presents the first question.
func (c *GameController) SubmitPlayerSetup(ctx context.Context, name, gender string) error {
	if err := c.require(domain.StatePlayerSetup); err != nil {
		return err
	}
	name = c.sanitize(name)
	if name == "" {
		return domain.ErrEmptyName
	}
	gender = c.sanitize(gender)

	c.session = newSession(name, gender)
	c.lifelines.Reset()
	c.ladder.Reset()
	c.result = domain.ResultNone
	c.outcome = domain.OutcomeNone
	c.lastPoints = 0
	c.finalized = false

	if c.profiles != nil {
		if _, err := c.profiles.GetOrCreate(ctx, name, gender); err != nil {
			logger.Warn("profile lookup failed", "player", name, "error", err.Error())
		}
	}
	logger.Info("game started", "player", name)
	c.presentQuestion(ctx)
	return nil
}

// presentQuestion passes through QUESTION_DISPLAY: it pulls the next unseen
// question and arms the timer, or ends the game when the bank is exhausted.
func (c *GameController) presentQuestion(ctx context.Context) {
	c.transition(domain.StateQuestionDisplay)
	c.hidden = nil
	c.lifelineMsg = ""
	c.timedOut = false

	q := c.bank.Next(c.session)
	if q.IsSentinel() {
		c.current = domain.Question{}
		c.gameOver(ctx, domain.OutcomeExhausted)
		return
	}
	c.session.markAsked(q.ID)
	c.current = q
	c.timer.Start(game.TimeLimit(game.DifficultyTier(c.ladder.CurrentLevel())))
	c.transition(domain.StateAnswerProcessing)
}

// SubmitAnswer scores an option index 0-3. An answer arriving after the timer
// expired counts as a timeout.
func (c *GameController) SubmitAnswer(ctx context.Context, option int) error {
	if err := c.require(domain.StateAnswerProcessing); err != nil {
		return err
	}
	if option < 0 || option >= domain.OptionCount {
		return fmt.Errorf("%w: %d", domain.ErrInvalidOption, option)
	}
	if c.timer.Expired() {
		c.timedOut = true
		c.score(false)
		return nil
	}
	c.score(c.bank.IsCorrect(c.current.ID, option))
	return nil
}

func (c *GameController) score(correct bool) {
	c.timer.Stop()
	level := c.ladder.CurrentLevel()
	c.session.recordAnswer(correct)

	if correct {
		points := game.CalculatePoints(level, game.DifficultyTier(level)) + game.StreakBonus(c.session.Streak)
		c.session.TotalPoints += points
		c.lastPoints = points
		c.result = domain.ResultCorrect
	} else {
		c.lastPoints = 0
		c.result = domain.ResultWrong
		c.ladder.MoveToSafetyLevel()
	}
	c.quote = c.quotes.Random(c.rng)
	logger.Debug("answer scored", "player", c.session.Name, "question", c.current.ID,
		"correct", correct, "timedOut", c.timedOut, "level", c.ladder.CurrentLevel())
	c.transition(domain.StateResultDisplay)
}

// Tick polls the countdown. It reports whether the timer expired and the
// pending question was scored as wrong.
func (c *GameController) Tick(context.Context) bool {
	if c.state != domain.StateAnswerProcessing || !c.timer.Expired() {
		return false
	}
	c.timedOut = true
	c.score(false)
	return true
}

// InvokeLifeline applies a lifeline to the current question. A spent lifeline
// is a no-op with Applied=false, not an error.
func (c *GameController) InvokeLifeline(ctx context.Context, t domain.LifelineType) (LifelineOutcome, error) {
	if err := c.require(domain.StateAnswerProcessing); err != nil {
		return LifelineOutcome{}, err
	}
	if !t.Valid() {
		return LifelineOutcome{}, fmt.Errorf("%w: %d", domain.ErrUnknownLifeline, int(t))
	}

	out := LifelineOutcome{Type: t, Name: t.String(), Suggestion: game.NoSuggestion}
	if !c.lifelines.Available(t) {
		out.Message = fmt.Sprintf("%s has already been used", t)
		return out, nil
	}

	q := c.current
	switch t {
	case domain.FiftyFifty:
		out.Removed = c.lifelines.FiftyFifty(q)
		c.hidden = append([]int(nil), out.Removed...)
		out.Message = fmt.Sprintf("Removed options %s and %s", optionLetter(out.Removed[0]), optionLetter(out.Removed[1]))
	case domain.AskFriend:
		out.Suggestion = c.lifelines.AskFriend(q)
		out.Message = fmt.Sprintf("Your friend thinks the answer is %s", optionLetter(out.Suggestion))
	case domain.Hint:
		out.Hint = c.lifelines.Hint(q)
		out.Message = "Hint: " + out.Hint
	case domain.Skip:
		out.Skipped = c.lifelines.Skip()
		out.Message = "Question skipped"
	}
	out.Applied = true
	logger.Debug("lifeline used", "player", c.session.Name, "lifeline", t.String(), "question", q.ID)

	if t == domain.Skip {
		c.timer.Stop()
		c.presentQuestion(ctx)
	}
	c.lifelineMsg = out.Message
	return out, nil
}

// Advance moves past an informational pause.
func (c *GameController) Advance(ctx context.Context) error {
	switch c.state {
	case domain.StateResultDisplay:
		if c.result == domain.ResultCorrect {
			c.ladder.MoveForward()
			c.transition(domain.StatePrizeLadder)
			return nil
		}
		c.gameOver(ctx, domain.OutcomeLost)
	case domain.StatePrizeLadder:
		if c.ladder.AtFinalLevel() {
			c.gameOver(ctx, domain.OutcomeWon)
			return nil
		}
		c.presentQuestion(ctx)
	case domain.StateGameOver:
		c.transition(domain.StateFinalScore)
	case domain.StateFinalScore, domain.StateLeaderboard:
		c.transition(domain.StateMenu)
	default:
		return fmt.Errorf("%w: %s", domain.ErrInvalidState, c.state)
	}
	return nil
}

// Quit ends the game keeping the current payout; there is no safety fallback.
func (c *GameController) Quit(ctx context.Context) error {
	if err := c.require(domain.StateQuestionDisplay, domain.StateAnswerProcessing); err != nil {
		return err
	}
	c.timer.Stop()
	c.result = domain.ResultQuit
	c.gameOver(ctx, domain.OutcomeQuit)
	return nil
}

// gameOver records the game exactly once per session.
func (c *GameController) gameOver(ctx context.Context, outcome domain.Outcome) {
	c.timer.Stop()
	c.outcome = outcome
	c.transition(domain.StateGameOver)
	if c.finalized {
		return
	}
	c.finalized = true

	s := c.session
	entry := domain.LeaderboardEntry{
		PlayerName:        s.Name,
		Winnings:          c.ladder.CurrentPrize(),
		Level:             c.ladder.CurrentLevel(),
		QuestionsAnswered: s.QuestionsAnswered,
	}
	if c.leaderboard != nil {
		c.leaderboard.AddEntry(ctx, entry)
	}
	if c.profiles != nil {
		if _, err := c.profiles.UpdateStats(ctx, s.Name, entry.Winnings, entry.Level, s.QuestionsAnswered, s.CorrectAnswers); err != nil {
			logger.Error("update profile", "player", s.Name, "error", err.Error())
		}
	}
	logger.Info("game over", "player", s.Name, "outcome", string(outcome),
		"winnings", entry.Winnings, "level", entry.Level, "points", s.TotalPoints)
}

func (c *GameController) State() domain.State {
	return c.state
}

// Result is the verdict on the last scored answer.
func (c *GameController) Result() domain.Result {
	return c.result
}

func (c *GameController) Outcome() domain.Outcome {
	return c.outcome
}

// CurrentQuestion is only available while an answer is pending.
func (c *GameController) CurrentQuestion() (domain.Question, bool) {
	if c.state != domain.StateAnswerProcessing {
		return domain.Question{}, false
	}
	return c.current, true
}

// LastQuestion is the most recently presented question, including its answer.
func (c *GameController) LastQuestion() domain.Question {
	return c.current
}

func (c *GameController) Session() (SessionView, bool) {
	if c.session == nil {
		return SessionView{}, false
	}
	s := c.session
	view := SessionView{
		Name:              s.Name,
		Gender:            s.Gender,
		Level:             c.ladder.CurrentLevel(),
		Winnings:          c.ladder.CurrentPrize(),
		SafetyLevel:       c.ladder.IsSafetyLevel(),
		QuestionsAnswered: s.QuestionsAnswered,
		CorrectAnswers:    s.CorrectAnswers,
		Streak:            s.Streak,
		TotalPoints:       s.TotalPoints,
		Asked:             len(s.order),
	}
	for i := 0; i < domain.LifelineCount; i++ {
		view.LifelinesUsed[i] = !c.lifelines.Available(domain.LifelineType(i))
	}
	return view, true
}

func (c *GameController) LeaderboardTop(n int) []domain.LeaderboardEntry {
	if c.leaderboard == nil {
		return nil
	}
	return c.leaderboard.Top(n)
}

func (c *GameController) LifelineAvailable(t domain.LifelineType) bool {
	return c.lifelines.Available(t)
}

// LifelineHistory lists the lifelines used this session, in order.
func (c *GameController) LifelineHistory() []domain.LifelineType {
	return c.lifelines.History()
}

// HiddenOptions are the indices removed by Fifty-Fifty for the current question.
func (c *GameController) HiddenOptions() []int {
	return append([]int(nil), c.hidden...)
}

func (c *GameController) LifelineMessage() string {
	return c.lifelineMsg
}

func (c *GameController) Remaining() time.Duration {
	return c.timer.Remaining()
}

func (c *GameController) LastPoints() int {
	return c.lastPoints
}

func (c *GameController) TimedOut() bool {
	return c.timedOut
}

func (c *GameController) Quote() string {
	return c.quote
}

func (c *GameController) Ladder() []domain.LadderLevel {
	return c.ladder.Levels()
}

func optionLetter(i int) string {
	if i < 0 || i >= domain.OptionCount {
		return "?"
	}
	return string(rune('A' + i))
}
