package main

import (
	"fmt"
	"os"
	"strconv"

	"codeberg.org/practicetestbulk/client/internal/generator"
	"codeberg.org/practicetestbulk/client/internal/pages"
	"codeberg.org/practicetestbulk/client/internal/usage"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newUsageCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Show this month's question usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			page := pages.NewApp(c.deps, c.view)

			if err := page.Load(cmd.Context()); err != nil {
				err = c.result(err)
				c.followUp()
				return err
			}

			if _, ok := c.nav.last(); ok {
				c.followUp()
				return fmt.Errorf("not signed in")
			}

			printUsage(c, c.view.usage)
			return nil
		},
	}
}

func printUsage(c *cli, s *pages.UsageSnapshot) {
	if s == nil || !s.Known {
		fmt.Fprintln(c.out, "Usage is unavailable right now.")
		return
	}

	fmt.Fprintf(c.out, "%s (%s plan)\n", s.Username, s.TierLabel)

	if s.Unlimited {
		if s.Remaining > 0 {
			fmt.Fprintf(c.out, "%s questions remaining\n", usage.FormatNumber(s.Remaining))
		} else {
			fmt.Fprintln(c.out, "Unlimited questions")
		}
		return
	}

	fmt.Fprintf(c.out, "%s (%d%%)\n", s.UsageText, s.Percent)
	fmt.Fprintf(c.out, "%s questions remaining\n", usage.FormatNumber(s.Remaining))
}

// reads a YAML form file into f
func loadForm(path string, f *generator.Form) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is the user's own form file
	if err != nil {
		return fmt.Errorf("failed to read form file: %w", err)
	}

	if err := yaml.Unmarshal(data, f); err != nil {
		return fmt.Errorf("failed to parse form file %s: %w", path, err)
	}

	return nil
}

func newGenerateCommand(c *cli) *cobra.Command {
	var (
		formPath  string
		questions int
		input     generator.Form
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a practice test and save it as CSV",
		Example: `  ptb generate --form go-basics.yaml
  ptb generate --title "Go Basics" --objective goroutines --objective channels \
    --objective interfaces --objective generics --questions 20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			form := generator.Form{
				Category:         generator.Categories[0],
				DifficultyLevel:  "intermediate",
				ExplanationStyle: generator.ExplanationStyles[0],
				NumQuestions:     "10",
			}

			if formPath != "" {
				if err := loadForm(formPath, &form); err != nil {
					return err
				}
			}

			// flags given on the command line win over the file
			flags := cmd.Flags()
			override := func(name string, dst *string, v string) {
				if flags.Changed(name) {
					*dst = v
				}
			}
			override("title", &form.WorkingTitle, input.WorkingTitle)
			override("test-title", &form.PracticeTestTitle, input.PracticeTestTitle)
			override("category", &form.Category, input.Category)
			override("requirements", &form.Requirements, input.Requirements)
			override("audience", &form.TargetAudience, input.TargetAudience)
			override("difficulty", &form.DifficultyLevel, input.DifficultyLevel)
			override("explanation", &form.ExplanationStyle, input.ExplanationStyle)

			if flags.Changed("objective") {
				form.LearningObjectives = input.LearningObjectives
			}
			if flags.Changed("format") {
				form.QuestionFormats = input.QuestionFormats
			}
			if flags.Changed("questions") {
				form.NumQuestions = strconv.Itoa(questions)
			}

			page := pages.NewApp(c.deps, c.view)

			if err := page.Load(ctx); err != nil {
				err = c.result(err)
				c.followUp()
				return err
			}
			if _, ok := c.nav.last(); ok {
				c.followUp()
				return fmt.Errorf("not signed in")
			}

			if _, err := page.Submit(ctx, form); err != nil {
				return c.result(err)
			}

			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&formPath, "form", "", "YAML file with the form fields")
	f.StringVar(&input.WorkingTitle, "title", "", "working title (also names the CSV file)")
	f.StringVar(&input.PracticeTestTitle, "test-title", "", "title shown to students")
	f.StringVar(&input.Category, "category", "", "course category")
	f.StringArrayVar(&input.LearningObjectives, "objective", nil, "learning objective; repeat 4 to 10 times")
	f.StringVar(&input.Requirements, "requirements", "", "prerequisites")
	f.StringVar(&input.TargetAudience, "audience", "", "target audience")
	f.StringVar(&input.DifficultyLevel, "difficulty", "", "beginner, intermediate, advanced or mixed")
	f.IntVarP(&questions, "questions", "n", 10, "number of questions")
	f.StringSliceVar(&input.QuestionFormats, "format", nil, "question formats (default single-choice)")
	f.StringVar(&input.ExplanationStyle, "explanation", "", "explanation style")

	return cmd
}
