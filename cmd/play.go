package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/coinquest/internal/app"
	"github.com/abhisek/coinquest/internal/screen"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start the interactive game",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// runApp builds dependencies and launches the TUI.
func runApp(cmd *cobra.Command) error {
	rt, err := openRuntime(cmd, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	return app.Run(&screen.Deps{Profile: rt.profile, Log: rt.log})
}
