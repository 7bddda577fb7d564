package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/coinquest/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset <username>",
	Short: "Delete a learner's account (history is kept)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		user := args[0]
		if !yes && !confirm(fmt.Sprintf("Delete account %q? Coins, badges and streak will be lost. [y/N] ", user)) {
			fmt.Println("Aborted.")
			return nil
		}

		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := rt.profile.Reset(ctxOf(cmd), user); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no account named %q", user)
			}
			return err
		}
		fmt.Printf("Account %q deleted.\n", user)
		return nil
	},
}

func confirm(question string) bool {
	fmt.Print(question)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
