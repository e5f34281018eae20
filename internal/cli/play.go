package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"ladder-quiz/internal/app"
	"ladder-quiz/internal/config"
	"ladder-quiz/internal/domain"
	"ladder-quiz/pkg/logger"
)

// NewPlayCmd runs the game in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	var ephemeral bool
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), *configPath, ephemeral)
		},
	}
	cmd.Flags().BoolVar(&ephemeral, "ephemeral", false, "keep the leaderboard and profiles in memory only")
	return cmd
}

func runPlay(ctx context.Context, in io.Reader, out io.Writer, configPath string, ephemeral bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	// keep JSON logs out of the game screen
	logger.Init("error")
	if ephemeral {
		cfg.Storage.Backend = config.BackendMemory
	}

	d, err := buildDeps(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer d.Close()

	g, err := d.newGame(ctx)
	if err != nil {
		return err
	}
	return newConsole(g, in, out).run(ctx)
}

type console struct {
	game *app.GameController
	in   *bufio.Scanner
	out  io.Writer
}

func newConsole(g *app.GameController, in io.Reader, out io.Writer) *console {
	return &console{game: g, in: bufio.NewScanner(in), out: out}
}

// run drives the controller until the player exits or input ends. A game in
// progress when input ends is recorded as a quit.
func (c *console) run(ctx context.Context) error {
	for {
		var ok bool
		switch state := c.game.State(); state {
		case domain.StateMenu:
			ok = c.menu()
		case domain.StatePlayerSetup:
			ok = c.setup(ctx)
		case domain.StateAnswerProcessing:
			ok = c.question(ctx)
		case domain.StateResultDisplay:
			ok = c.result(ctx)
		case domain.StatePrizeLadder:
			ok = c.prizeLadder(ctx)
		case domain.StateGameOver:
			c.gameOver()
			ok = c.advance(ctx)
		case domain.StateFinalScore:
			ok = c.finalScore(ctx)
		case domain.StateLeaderboard:
			ok = c.leaderboard(ctx)
		case domain.StateExit:
			fmt.Fprintln(c.out, "Goodbye!")
			return nil
		default:
			return fmt.Errorf("unexpected state %s", state)
		}
		if !ok {
			if c.game.State() == domain.StateAnswerProcessing {
				_ = c.game.Quit(ctx)
			}
			return nil
		}
	}
}

func (c *console) readLine(prompt string) (string, bool) {
	fmt.Fprint(c.out, prompt)
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

func (c *console) pause() bool {
	_, ok := c.readLine("Press Enter to continue...")
	return ok
}

func (c *console) advance(ctx context.Context) bool {
	if err := c.game.Advance(ctx); err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
	}
	return true
}

func (c *console) menu() bool {
	fmt.Fprintln(c.out, "\n=== LADDER QUIZ ===")
	fmt.Fprintln(c.out, "1. Play")
	fmt.Fprintln(c.out, "2. Leaderboard")
	fmt.Fprintln(c.out, "3. Exit")
	line, ok := c.readLine("> ")
	if !ok {
		return false
	}

	var err error
	switch line {
	case "1":
		err = c.game.StartGame()
	case "2":
		err = c.game.ViewLeaderboard()
	case "3":
		err = c.game.Exit()
	default:
		fmt.Fprintln(c.out, "Invalid choice.")
	}
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
	}
	return true
}

func (c *console) setup(ctx context.Context) bool {
	name, ok := c.readLine("Enter your name: ")
	if !ok {
		return false
	}
	gender, ok := c.readLine("Enter your gender: ")
	if !ok {
		return false
	}
	if err := c.game.SubmitPlayerSetup(ctx, name, gender); err != nil {
		if errors.Is(err, domain.ErrEmptyName) {
			fmt.Fprintln(c.out, "Name cannot be empty.")
		} else {
			fmt.Fprintf(c.out, "Error: %v\n", err)
		}
	}
	return true
}

func (c *console) question(ctx context.Context) bool {
	snap := c.game.Snapshot()
	q, view := snap.Question, snap.Session

	fmt.Fprintf(c.out, "\nLevel %d | Winnings $%d | Time left %ds\n", view.Level, view.Winnings, snap.RemainingMillis/1000)
	if q.Category != "" {
		fmt.Fprintf(c.out, "[%s]\n", q.Category)
	}
	fmt.Fprintln(c.out, q.Text)
	hidden := make(map[int]bool, len(snap.HiddenOptions))
	for _, i := range snap.HiddenOptions {
		hidden[i] = true
	}
	for i, opt := range q.Options {
		if hidden[i] {
			opt = "---"
		}
		fmt.Fprintf(c.out, "  %c) %s\n", 'A'+i, opt)
	}
	if snap.LifelineMessage != "" {
		fmt.Fprintln(c.out, snap.LifelineMessage)
	}

	var lifelines []string
	for i := 0; i < domain.LifelineCount; i++ {
		if t := domain.LifelineType(i); c.game.LifelineAvailable(t) {
			lifelines = append(lifelines, fmt.Sprintf("L%d %s", i+1, t))
		}
	}
	if len(lifelines) > 0 {
		fmt.Fprintf(c.out, "Lifelines: %s\n", strings.Join(lifelines, ", "))
	}

	line, ok := c.readLine("Answer (A-D), L<n> for a lifeline, Q to quit: ")
	if !ok {
		return false
	}
	upper := strings.ToUpper(line)
	var err error
	switch {
	case len(upper) == 1 && upper[0] >= 'A' && upper[0] <= 'D':
		err = c.game.SubmitAnswer(ctx, int(upper[0]-'A'))
	case upper == "Q":
		err = c.game.Quit(ctx)
	case strings.HasPrefix(upper, "L") && len(upper) > 1:
		var t domain.LifelineType
		if t, err = domain.ParseLifeline(strings.ToLower(strings.TrimSpace(line[1:]))); err == nil {
			var out app.LifelineOutcome
			if out, err = c.game.InvokeLifeline(ctx, t); err == nil && !out.Applied {
				fmt.Fprintln(c.out, out.Message)
			}
		}
	default:
		fmt.Fprintln(c.out, "Invalid input.")
	}
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
	}
	return true
}

func (c *console) result(ctx context.Context) bool {
	snap := c.game.Snapshot()
	switch {
	case snap.Result == domain.ResultCorrect:
		fmt.Fprintf(c.out, "\nCorrect! +%d points\n", snap.LastPoints)
	case snap.TimedOut:
		fmt.Fprintln(c.out, "\nTime's up!")
	default:
		fmt.Fprintln(c.out, "\nWrong answer.")
	}
	fmt.Fprintf(c.out, "The correct answer was: %s\n", snap.CorrectOption)
	if snap.Quote != "" {
		fmt.Fprintf(c.out, "\"%s\"\n", snap.Quote)
	}
	if !c.pause() {
		return false
	}
	return c.advance(ctx)
}

func (c *console) prizeLadder(ctx context.Context) bool {
	snap := c.game.Snapshot()
	fmt.Fprintln(c.out, "\n--- Prize ladder ---")
	for i := len(snap.Ladder) - 1; i > 0; i-- {
		lvl := snap.Ladder[i]
		marker := "  "
		if snap.Session != nil && lvl.Ordinal == snap.Session.Level {
			marker = "> "
		}
		safe := ""
		if lvl.Safety {
			safe = " (safe)"
		}
		fmt.Fprintf(c.out, "%s%2d  $%d%s\n", marker, lvl.Ordinal, lvl.Payout, safe)
	}
	if !c.pause() {
		return false
	}
	return c.advance(ctx)
}

func (c *console) gameOver() {
	snap := c.game.Snapshot()
	view := snap.Session
	switch snap.Outcome {
	case domain.OutcomeWon:
		fmt.Fprintf(c.out, "\nCongratulations %s, you won $%d!\n", view.Name, view.Winnings)
	case domain.OutcomeQuit:
		fmt.Fprintf(c.out, "\nYou walked away with $%d.\n", view.Winnings)
	case domain.OutcomeExhausted:
		fmt.Fprintf(c.out, "\nNo more questions! You leave with $%d.\n", view.Winnings)
	default:
		fmt.Fprintf(c.out, "\nGame over. You leave with $%d.\n", view.Winnings)
	}
}

func (c *console) finalScore(ctx context.Context) bool {
	view, _ := c.game.Session()
	fmt.Fprintln(c.out, "\n=== Final score ===")
	fmt.Fprintf(c.out, "Player:   %s\n", view.Name)
	fmt.Fprintf(c.out, "Winnings: $%d (level %d)\n", view.Winnings, view.Level)
	fmt.Fprintf(c.out, "Correct:  %d of %d\n", view.CorrectAnswers, view.QuestionsAnswered)
	fmt.Fprintf(c.out, "Points:   %d\n", view.TotalPoints)
	if used := c.game.LifelineHistory(); len(used) > 0 {
		names := make([]string, len(used))
		for i, t := range used {
			names[i] = t.String()
		}
		fmt.Fprintf(c.out, "Lifelines used: %s\n", strings.Join(names, ", "))
	}
	if !c.pause() {
		return false
	}
	return c.advance(ctx)
}

func (c *console) leaderboard(ctx context.Context) bool {
	fmt.Fprintln(c.out, "\n=== Leaderboard ===")
	printEntries(c.out, c.game.LeaderboardTop(10))
	if !c.pause() {
		return false
	}
	return c.advance(ctx)
}
