package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ladder-quiz/internal/domain"
)

// NewLeaderboardCmd prints the ranking and aggregate statistics.
func NewLeaderboardCmd(configPath *string) *cobra.Command {
	var (
		top    int
		player string
	)
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the top scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLeaderboard(cmd.Context(), cmd.OutOrStdout(), *configPath, top, player)
		},
	}
	cmd.Flags().IntVarP(&top, "top", "n", 10, "number of entries to show")
	cmd.Flags().StringVar(&player, "player", "", "show every recorded game of one player")
	return cmd
}

func runLeaderboard(ctx context.Context, w io.Writer, configPath string, top int, player string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	d, err := buildDeps(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer d.Close()

	entries := d.leaderboard.Top(top)
	if player != "" {
		entries = d.leaderboard.PlayerHistory(player)
	}
	printEntries(w, entries)
	fmt.Fprintf(w, "\nGames played: %d  Prize pool: $%d  Average level: %.1f\n",
		d.leaderboard.TotalGames(), d.leaderboard.TotalPrizePool(), d.leaderboard.AverageLevel())
	return nil
}

func printEntries(w io.Writer, entries []domain.LeaderboardEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No games recorded yet.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tPLAYER\tWINNINGS\tLEVEL\tANSWERED")
	for i, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t$%d\t%d\t%d\n", i+1, e.PlayerName, e.Winnings, e.Level, e.QuestionsAnswered)
	}
	tw.Flush()
}
