package domain

// State is a node of the game controller's state machine.
type State string

const (
	StateMenu             State = "menu"
	StatePlayerSetup      State = "player_setup"
	StateQuestionDisplay  State = "question_display"
	StateAnswerProcessing State = "answer_processing"
	StateResultDisplay    State = "result_display"
	StatePrizeLadder      State = "prize_ladder"
	StateGameOver         State = "game_over"
	StateFinalScore       State = "final_score"
	StateLeaderboard      State = "leaderboard"
	StateExit             State = "exit"
)

// Result is the outcome of the last decision taken in a game.
type Result string

const (
	ResultNone    Result = "none"
	ResultCorrect Result = "correct"
	ResultWrong   Result = "wrong"
	ResultQuit    Result = "quit"
)

// Outcome is how a finished game ended.
type Outcome string

const (
	OutcomeNone      Outcome = ""
	OutcomeWon       Outcome = "won"
	OutcomeLost      Outcome = "lost"
	OutcomeQuit      Outcome = "quit"
	OutcomeExhausted Outcome = "exhausted"
)
