package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/javiermolinar/dayring/internal/schedule"
)

const reviewSystemPrompt = `You are a minimalist daily-rhythm analyst. Output ONLY the exact format shown - no markdown, no extra text. Be extremely concise.`

const reviewPromptTemplate = `Review this 24-hour routine and output EXACTLY this format (no markdown, no code blocks):

THEME: [ 2-4 word theme ]

SLEEP: One sentence on sleep length and timing.
BALANCE: One sentence on how the waking hours are split.
GAPS: Mention unlabeled blocks, if any.

TRY:
> First specific change.
> Second specific change.

Routine:
%s
Rules:
- Keep each line under 70 characters
- Be specific with times and durations from the data
- If nothing stands out for a line, omit it
- Output plain text only`

// Reviewer asks the model for a short critique of a day.
type Reviewer struct {
	client Client
}

// NewReviewer creates a Reviewer with the given LLM client.
func NewReviewer(client Client) *Reviewer {
	return &Reviewer{client: client}
}

// Review sends the day to the model and returns its plain-text critique.
func (r *Reviewer) Review(ctx context.Context, p schedule.Partition) (string, error) {
	out, err := r.client.Chat(ctx, []Message{
		{Role: RoleSystem, Content: reviewSystemPrompt},
		{Role: RoleUser, Content: fmt.Sprintf(reviewPromptTemplate, formatDay(p))},
	})
	if err != nil {
		return "", fmt.Errorf("reviewing schedule: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// formatDay lists slots with durations and the longest block marked.
func formatDay(p schedule.Partition) string {
	sum := schedule.Summarize(p)
	var sb strings.Builder
	for _, e := range sum.Entries {
		mark := "  "
		if e.Index == sum.Longest {
			mark = "* "
		}
		label := e.Slot.Label
		if label == "" {
			label = "(unlabeled)"
		}
		fmt.Fprintf(&sb, "%s%s-%s  %-14s %s\n", mark, e.Slot.Start, e.Slot.End, label, schedule.FormatDuration(e.Duration))
	}
	return sb.String()
}
