package ui

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/dayring/internal/server"
)

func (a *App) serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the schedule editor over HTTP",
		Long: `Expose the editor as a JSON API under /api/v1, plus SVG and PNG
renderings of the ring. Stops on Ctrl+C.

Example:
  dayring serve --addr 127.0.0.1:8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ed, err := a.openEditor(cmd.Context())
			if err != nil {
				return err
			}
			cfg := a.config.Server
			if addr != "" {
				cfg.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s/api/v1/schedule\n", cfg.Addr)
			srv := server.New(ed, cfg,
				server.WithLogger(a.logger),
				server.WithExportOptions(a.exportOptions()),
			)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}

// contextWithTimeout bounds a command's context.
func contextWithTimeout(cmd *cobra.Command, d time.Duration) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, d)
}
