package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/coinquest/internal/unlock"
)

var lessonsCmd = &cobra.Command{
	Use:   "lessons",
	Short: "List lessons, with unlock status for a learner",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")

		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		cat := rt.profile.Engine().Catalog()
		if user == "" {
			fmt.Printf("%-4s  %-36s  %5s  %9s\n", "#", "Lesson", "Level", "Questions")
			fmt.Println(strings.Repeat("─", 60))
			for i, l := range cat.Lessons() {
				fmt.Printf("%-4d  %-36s  %5d  %9d\n", i+1, truncate(l.Name, 36), l.Level, l.QuestionCount())
			}
			fmt.Printf("\n%d lessons (catalog %s)\n", cat.Len(), cat.Version())
			return nil
		}

		p, err := rt.profile.Open(ctxOf(cmd), user)
		if err != nil {
			return fmt.Errorf("open %s: %w", user, err)
		}
		fmt.Printf("%-4s  %-36s  %-10s  %s\n", "#", "Lesson", "Status", "Runs")
		fmt.Println(strings.Repeat("─", 60))
		for _, st := range unlock.Statuses(cat, p.Snapshot().Account) {
			fmt.Printf("%-4d  %-36s  %-10s  %d\n", st.Index+1, truncate(st.Lesson.Name, 36), statusLabel(st), st.Completions)
		}
		return nil
	},
}

func statusLabel(st unlock.Status) string {
	switch {
	case st.Perfect:
		return "perfect"
	case st.Completed:
		return "completed"
	case st.Accessible:
		return "open"
	}
	return "locked"
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func init() {
	lessonsCmd.Flags().StringP("user", "u", "", "Show progress for this learner")
}
