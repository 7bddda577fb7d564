package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/coinquest/internal/account"
	"github.com/abhisek/coinquest/internal/leaderboard"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		boardName, _ := cmd.Flags().GetString("board")
		user, _ := cmd.Flags().GetString("user")

		board, err := parseBoard(boardName)
		if err != nil {
			return err
		}

		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := ctxOf(cmd)
		var me *account.Account
		if user != "" {
			p, err := rt.profile.Open(ctx, user)
			if err != nil {
				return fmt.Errorf("open %s: %w", user, err)
			}
			me = p.Snapshot().Account
		}

		var ranked []leaderboard.Entry
		if board == nil {
			// Stored accounts only.
			ranked, err = rt.profile.Leaderboard(ctx, nil, me)
			if err != nil {
				return err
			}
		} else {
			ranked = leaderboard.Rank(board, me)
		}

		fmt.Printf("%4s  %-3s %-20s  %6s  %5s  %6s\n", "Rank", "", "Name", "XP", "Level", "Streak")
		fmt.Println(strings.Repeat("─", 54))
		for _, e := range ranked {
			marker := " "
			if e.You {
				marker = "*"
			}
			fmt.Printf("%3d%s  %-3s %-20s  %6d  %5d  %6d\n", e.Rank, marker, e.Avatar, truncate(e.Username, 20), e.XP, e.Level, e.Streak)
		}
		return nil
	},
}

func parseBoard(name string) ([]leaderboard.Entry, error) {
	switch strings.ToLower(name) {
	case "", "worldwide":
		return leaderboard.Worldwide(), nil
	case "friends":
		return leaderboard.Friends(), nil
	case "local":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown board %q: use worldwide, friends or local", name)
}

func init() {
	leaderboardCmd.Flags().StringP("board", "b", "worldwide", "Board to show: worldwide, friends or local")
	leaderboardCmd.Flags().StringP("user", "u", "", "Place this learner on the board")
}
