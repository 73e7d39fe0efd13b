package ui

import (
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/dayring/internal/preset"
)

func (a *App) templateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "List or load starter schedules",
	}
	cmd.AddCommand(a.templateListCmd(), a.templateLoadCmd())
	return cmd
}

func (a *App) templateListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.templates == nil {
				a.templates = preset.Open(a.config.Schedule.TemplatesDir)
			}
			tbl := uitable.New()
			tbl.Separator = "  "
			tbl.AddRow(formatHeader("Name"), formatHeader("Slots"), formatHeader("Description"))
			for _, name := range a.templates.Names() {
				slots, desc := "?", ""
				if p, ok := a.templates.(*preset.Provider); ok {
					if pr, err := p.Load(name); err == nil {
						slots, desc = fmt.Sprint(len(pr.Slots)), pr.Description
					}
				} else if s, err := a.templates.Template(name); err == nil {
					slots = fmt.Sprint(len(s))
				}
				if name == a.config.Schedule.DefaultTemplate {
					name += formatMuted(" (default)")
				}
				tbl.AddRow(name, slots, desc)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), tbl)
			return nil
		},
	}
}

func (a *App) templateLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "load NAME",
		Short:   "Replace the schedule with a template",
		Example: "  dayring template load workday",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := a.openEditor(cmd.Context())
			if err != nil {
				return err
			}
			if err := ed.LoadTemplate(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSchedule(cmd.OutOrStdout(), ed.Partition())
			return nil
		},
	}
}
