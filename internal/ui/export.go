package ui

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/dayring/internal/export"
)

func (a *App) exportCmd() *cobra.Command {
	var (
		format string
		out    string
		width  int
		height int
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the ring as an SVG or PNG image",
		Long: `Render the schedule as an image.

The format defaults to the extension of --out.

Example:
  dayring export --out day.png
  dayring export --format svg --out -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format == "" {
				format = filepath.Ext(out)
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			opts := a.exportOptions()
			if width > 0 {
				opts.Width = width
			}
			if height > 0 {
				opts.Height = height
			}

			ed, err := a.openEditor(cmd.Context())
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := export.Write(&buf, f, ed.Partition(), opts); err != nil {
				return err
			}
			if out == "-" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatOK("Wrote"), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Image format: svg or png")
	cmd.Flags().StringVarP(&out, "out", "o", "dayring.svg", "Output file, - for stdout")
	cmd.Flags().IntVar(&width, "width", 0, "Image width in pixels (default from config)")
	cmd.Flags().IntVar(&height, "height", 0, "Image height in pixels (default from config)")
	return cmd
}
