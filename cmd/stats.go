package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/coinquest/internal/account"
	"github.com/abhisek/coinquest/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats <username>",
	Short: "Show a learner's progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := ctxOf(cmd)
		p, err := rt.profile.Open(ctx, args[0])
		if err != nil {
			return fmt.Errorf("open %s: %w", args[0], err)
		}
		a := p.Snapshot().Account

		completions, err := rt.profile.History(ctx, a.Username, store.QueryOpts{Kind: store.KindLessonComplete})
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}

		fmt.Printf("%s %s (%s)\n", a.Avatar, a.Username, a.AccountType)
		fmt.Println(strings.Repeat("─", 40))
		fmt.Printf("Level:      %d (%d/%d XP to next)\n", a.Level, a.XP%account.XPPerLevel, account.XPPerLevel)
		fmt.Printf("XP:         %d\n", a.XP)
		fmt.Printf("Coins:      %d\n", a.Coins)
		fmt.Printf("Streak:     %d days\n", a.Streak)
		fmt.Printf("Accuracy:   %.0f%% (%d/%d)\n", a.Accuracy(), a.CorrectAnswers, a.TotalQuestions)
		fmt.Printf("Lessons:    %d completed, %d perfect, %d runs\n", len(a.CompletedLessons), len(a.PerfectLessons), len(completions))
		fmt.Printf("Badges:     %s\n", listOrNone(a.Badges))
		fmt.Printf("Purchases:  %s\n", listOrNone(a.Purchases))
		if recent := a.RecentLessons(3); len(recent) > 0 {
			fmt.Printf("Recent:     %s\n", strings.Join(recent, ", "))
		}
		return nil
	},
}

func listOrNone(xs []string) string {
	if len(xs) == 0 {
		return "none"
	}
	return strings.Join(xs, ", ")
}
