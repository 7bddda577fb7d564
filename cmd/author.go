package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/coinquest/internal/authoring"
	"github.com/abhisek/coinquest/internal/catalog"
	"github.com/abhisek/coinquest/internal/llm"
)

var authorCmd = &cobra.Command{
	Use:   "author",
	Short: "Draft a new lesson with an LLM and append it to a catalog",
	Long: `Ask the configured LLM for a lesson on a topic, validate it with the
catalog rules and append it to the end of a YAML catalog file.

The provider is chosen from COINQUEST_LLM_PROVIDER, or discovered from
GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY or OPENROUTER_API_KEY.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		level, _ := cmd.Flags().GetInt("level")
		questions, _ := cmd.Flags().GetInt("questions")
		out, _ := cmd.Flags().GetString("out")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		if out == "" {
			out = rt.cfg.CatalogPath
		}
		if out == "" && !dryRun {
			return errors.New("no catalog file: pass --out or set COINQUEST_CATALOG")
		}

		base, err := catalogForAppend(out)
		if err != nil {
			return err
		}

		ctx := ctxOf(cmd)
		provider, err := llm.NewProviderFromEnv(ctx, rt.store.EventRepo(), rt.log)
		if err != nil {
			return fmt.Errorf("LLM provider: %w", err)
		}

		fmt.Fprintf(os.Stderr, "Drafting a lesson on %q with %s...\n", topic, provider.ModelID())
		svc := authoring.NewService(provider, base, rt.log)
		lesson, err := svc.Draft(ctx, authoring.Brief{Topic: topic, Level: level, Questions: questions})
		if err != nil {
			return err
		}

		if dryRun {
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(lesson)
		}

		updated, err := base.With(lesson)
		if err != nil {
			return fmt.Errorf("append lesson: %w", err)
		}
		if err := updated.WriteFile(out); err != nil {
			return err
		}
		fmt.Printf("Added %q (%d questions) to %s as lesson %d.\n", lesson.Name, lesson.QuestionCount(), out, updated.Len())
		return nil
	},
}

// catalogForAppend loads path, or starts from the built-in catalog when
// the file does not exist yet.
func catalogForAppend(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	c, err := catalog.LoadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return catalog.Default(), nil
	}
	return c, err
}

func init() {
	f := authorCmd.Flags()
	f.StringP("topic", "t", "", "Lesson topic (required)")
	f.IntP("level", "l", 1, "Difficulty level, 1-10")
	f.IntP("questions", "q", 3, "Number of questions, 1-12")
	f.StringP("out", "o", "", "Catalog file to append to (defaults to --catalog)")
	f.Bool("dry-run", false, "Print the drafted lesson instead of saving it")
	_ = authorCmd.MarkFlagRequired("topic")
}
