package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/coinquest/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and manage lesson catalogs",
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a YAML catalog for errors",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := catalog.LoadFile(args[0])
		if err != nil {
			return err
		}
		questions := 0
		for _, l := range c.Lessons() {
			questions += l.QuestionCount()
		}
		fmt.Printf("%s: ok (version %s, %d lessons, %d questions)\n", args[0], c.Version(), c.Len(), questions)
		return nil
	},
}

var catalogExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the built-in catalog to a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(args[0]); err == nil && !force {
			return fmt.Errorf("%s exists (use --force to overwrite)", args[0])
		}
		if err := catalog.Default().WriteFile(args[0]); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", args[0])
		return nil
	},
}

func init() {
	catalogExportCmd.Flags().Bool("force", false, "Overwrite an existing file")

	catalogCmd.AddCommand(catalogValidateCmd)
	catalogCmd.AddCommand(catalogExportCmd)
}
