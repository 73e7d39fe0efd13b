package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/dayring/internal/editor"
	"github.com/javiermolinar/dayring/internal/schedule"
)

// editFunc applies one edit to the slot at index; args are the remaining
// positional arguments.
type editFunc func(ctx context.Context, ed *editor.Editor, index int, args []string) error

// editCmd builds a command taking a slot index plus extra arguments. On
// success it prints the updated schedule.
func (a *App) editCmd(use, short, example string, extra int, fn editFunc) *cobra.Command {
	return &cobra.Command{
		Use:     use,
		Short:   short,
		Example: example,
		Args:    cobra.ExactArgs(1 + extra),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("slot index %q is not a number", args[0])
			}
			ed, err := a.openEditor(cmd.Context())
			if err != nil {
				return err
			}
			if err := fn(cmd.Context(), ed, index, args[1:]); err != nil {
				return err
			}
			printSchedule(cmd.OutOrStdout(), ed.Partition())
			return nil
		},
	}
}

func (a *App) retimeCmd() *cobra.Command {
	return a.editCmd("retime INDEX HH:MM", "Move the end of a slot",
		"  dayring retime 0 07:30", 1,
		func(ctx context.Context, ed *editor.Editor, i int, args []string) error {
			end, err := schedule.ParseTime(args[0])
			if err != nil {
				return err
			}
			return ed.Retime(ctx, i, end)
		})
}

func (a *App) startCmd() *cobra.Command {
	return a.editCmd("start INDEX HH:MM", "Move the start of a slot",
		"  dayring start 2 12:30", 1,
		func(ctx context.Context, ed *editor.Editor, i int, args []string) error {
			start, err := schedule.ParseTime(args[0])
			if err != nil {
				return err
			}
			return ed.MoveStart(ctx, i, start)
		})
}

func (a *App) insertCmd() *cobra.Command {
	return a.editCmd("insert INDEX", "Split the slot after INDEX to make room for a new one",
		"  dayring insert 1", 0,
		func(ctx context.Context, ed *editor.Editor, i int, _ []string) error {
			return ed.Insert(ctx, i)
		})
}

func (a *App) deleteCmd() *cobra.Command {
	return a.editCmd("delete INDEX", "Delete a slot; the next slot takes its time",
		"  dayring delete 3", 0,
		func(ctx context.Context, ed *editor.Editor, i int, _ []string) error {
			return ed.Delete(ctx, i)
		})
}

func (a *App) renameCmd() *cobra.Command {
	return a.editCmd("rename INDEX LABEL", "Change the label of a slot",
		`  dayring rename 0 "Sleep"`, 1,
		func(ctx context.Context, ed *editor.Editor, i int, args []string) error {
			return ed.Rename(ctx, i, strings.TrimSpace(args[0]))
		})
}

func (a *App) colorCmd() *cobra.Command {
	return a.editCmd("color INDEX HEX", "Change the color of a slot",
		"  dayring color 0 #89b4fa", 1,
		func(ctx context.Context, ed *editor.Editor, i int, args []string) error {
			return ed.Recolor(ctx, i, args[0])
		})
}
