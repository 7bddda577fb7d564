package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/coinquest/internal/config"
	"github.com/abhisek/coinquest/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "coinquest",
	Short: "Financial literacy quests in your terminal",
	Long:  "CoinQuest: short money lessons with quizzes, coins, badges and daily streaks.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides COINQUEST_DB)")
	pf.String("catalog", "", "Path to a YAML lesson catalog (overrides COINQUEST_CATALOG)")
	pf.String("backend", "", "Account storage: sqlite or redis (overrides COINQUEST_BACKEND)")
	pf.String("redis", "", "Redis address for the redis backend (overrides COINQUEST_REDIS_ADDR)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(lessonsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(authorCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the environment and applies flag overrides on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, cfg)
	return cfg, cfg.Validate()
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if v, _ := flags.GetString("db"); v != "" {
		cfg.DBPath = v
	}
	if v, _ := flags.GetString("catalog"); v != "" {
		cfg.CatalogPath = v
	}
	if v, _ := flags.GetString("backend"); v != "" {
		cfg.Backend = strings.ToLower(v)
	}
	if v, _ := flags.GetString("redis"); v != "" {
		cfg.RedisAddr = v
	}
}

// resolveDBPath returns the database path using --db / COINQUEST_DB
// (already folded into cfg), then the default XDG path.
func resolveDBPath(cfg *config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}
