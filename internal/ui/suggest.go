package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/dayring/internal/llm"
)

const llmTimeout = 2 * time.Minute

// WithLLMClient replaces the configured LLM provider.
func WithLLMClient(c llm.Client) AppOption {
	return func(a *App) { a.llm = c }
}

func (a *App) llmClient() (llm.Client, error) {
	if a.llm != nil {
		return a.llm, nil
	}
	c, err := llm.FromConfig(a.config.LLM)
	if err != nil {
		return nil, fmt.Errorf("creating LLM client: %w", err)
	}
	a.llm = c
	return c, nil
}

func (a *App) suggestCmd() *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "suggest REQUEST",
		Short: "Ask the LLM to propose a schedule",
		Long: `Describe the day you want in plain words. The LLM proposes a full
schedule, which is printed. Pass --apply to replace the current schedule
with it.

Example:
  dayring suggest "sleep 23 to 7, gym before work, work 9 to 5"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request := strings.Join(args, " ")
			client, err := a.llmClient()
			if err != nil {
				return err
			}
			ed, err := a.openEditor(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatMuted("Asking the LLM..."))

			ctx, cancel := contextWithTimeout(cmd, llmTimeout)
			defer cancel()
			s, err := llm.NewSuggester(client, ed.Model()).Suggest(ctx, request, ed.Partition(), a.config.LLM.Retries)
			if err != nil {
				return err
			}

			printSchedule(out, s.Partition)
			for _, w := range s.Warnings {
				fmt.Fprintf(out, "%s %s\n", formatLongest("!"), w)
			}

			if !apply {
				fmt.Fprintln(out, formatMuted("\nRun again with --apply to use this schedule."))
				return nil
			}
			if err := ed.Replace(cmd.Context(), s.Partition); err != nil {
				return err
			}
			fmt.Fprintln(out, formatOK("\nSchedule replaced."))
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "Replace the current schedule with the suggestion")
	return cmd
}

func (a *App) reviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "review",
		Short: "Ask the LLM for feedback on the schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.llmClient()
			if err != nil {
				return err
			}
			ed, err := a.openEditor(cmd.Context())
			if err != nil {
				return err
			}

			ctx, cancel := contextWithTimeout(cmd, llmTimeout)
			defer cancel()
			text, err := llm.NewReviewer(client).Review(ctx, ed.Partition())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printSchedule(out, ed.Partition())
			fmt.Fprintf(out, "\n%s\n%s\n", formatHeader("Review"), strings.TrimSpace(text))
			return nil
		},
	}
}
