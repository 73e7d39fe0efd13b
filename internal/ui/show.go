package ui

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/dayring/internal/db"
	"github.com/javiermolinar/dayring/internal/schedule"
)

func (a *App) showCmd() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the schedule",
		Long: `Print the slots of the schedule, clockwise from the first one,
with their durations. The longest slot is highlighted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}
			ed, err := a.openEditor(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printSchedule(out, ed.Partition())
			if ts, ok := a.store.(db.Timestamped); ok {
				if at, err := ts.UpdatedAt(cmd.Context(), db.ScheduleKey); err == nil && !at.IsZero() {
					fmt.Fprintln(out, formatMuted("Saved "+at.Local().Format("2006-01-02 15:04")))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

// printSchedule writes p as a table followed by a one-line summary.
func printSchedule(w io.Writer, p schedule.Partition) {
	sum := schedule.Summarize(p)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = uint(max(16, termWidth()-40))
	tbl.AddRow(formatHeader("#"), formatHeader("Time"), formatHeader("Length"), formatHeader("Color"), formatHeader("Label"))
	for i, s := range p.Slots() {
		label := s.Label
		if label == "" {
			label = formatMuted("(blank)")
		}
		if i == sum.Longest {
			label = formatLongest(label)
		}
		tbl.AddRow(
			strconv.Itoa(i),
			formatTime(s.Start.String()+"-"+s.End.String()),
			schedule.FormatDuration(s.Duration()),
			formatMuted(string(s.Color)),
			label,
		)
	}
	tbl.RightAlign(0)

	_, _ = fmt.Fprintln(w, tbl)
	longest := p.Slot(sum.Longest)
	_, _ = fmt.Fprintf(w, "\n%d slots, longest %s (%s)\n",
		p.Len(), displayLabel(longest.Label), schedule.FormatDuration(longest.Duration()))
}

func displayLabel(label string) string {
	if label == "" {
		return "(blank)"
	}
	return strconv.Quote(label)
}
