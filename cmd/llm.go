package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/coinquest/internal/llm"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect LLM usage",
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated LLM token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		usage, err := rt.store.LLMUsage(ctxOf(cmd))
		if err != nil {
			return err
		}
		if len(usage) == 0 {
			fmt.Println("No LLM usage recorded yet.")
			return nil
		}

		fmt.Printf("%-28s  %-14s  %5s  %4s  %8s  %8s  %7s  %9s\n",
			"Model", "Purpose", "Calls", "Fail", "Input", "Output", "Avg Ms", "Cost")
		fmt.Println(strings.Repeat("─", 98))

		var totalCost float64
		var unknown []string
		for _, u := range usage {
			cost := "?"
			if c, ok := llm.EstimateCost(u.Model, u.InputTokens, u.OutputTokens); ok {
				totalCost += c
				cost = formatCost(c)
			} else {
				unknown = append(unknown, u.Model)
			}
			fmt.Printf("%-28s  %-14s  %5d  %4d  %8d  %8d  %7d  %9s\n",
				truncate(u.Model, 28), truncate(u.Purpose, 14), u.Calls, u.Failures,
				u.InputTokens, u.OutputTokens, u.AvgLatencyMs, cost)
		}

		fmt.Println(strings.Repeat("─", 98))
		label := "TOTAL"
		if len(unknown) > 0 {
			label = "TOTAL (partial)"
		}
		fmt.Printf("%-28s  %69s\n", label, formatCost(totalCost))
		if len(unknown) > 0 {
			fmt.Printf("\nPricing unavailable for: %s\n", strings.Join(unknown, ", "))
		}
		return nil
	},
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmCmd.AddCommand(llmStatsCmd)
}
