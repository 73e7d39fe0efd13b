// Package ui provides the dayring command line.
package ui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/dayring/internal/config"
	"github.com/javiermolinar/dayring/internal/db"
	"github.com/javiermolinar/dayring/internal/editor"
	"github.com/javiermolinar/dayring/internal/export"
	"github.com/javiermolinar/dayring/internal/llm"
	"github.com/javiermolinar/dayring/internal/logging"
	"github.com/javiermolinar/dayring/internal/preset"
	"github.com/javiermolinar/dayring/internal/ring"
	"github.com/javiermolinar/dayring/internal/schedule"
	"github.com/javiermolinar/dayring/internal/tui"
	"github.com/javiermolinar/dayring/internal/tui/commands"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	config    *config.Config
	store     db.Store
	templates editor.Templates
	logger    *zap.Logger
	editor    *editor.Editor
	llm       llm.Client
	root      *cobra.Command
	debug     bool // Enable debug logging
}

// AppOption configures an App.
type AppOption func(*App)

// WithStore uses store instead of opening the configured backend.
func WithStore(store db.Store) AppOption {
	return func(a *App) { a.store = store }
}

// WithTemplates replaces the template provider.
func WithTemplates(t editor.Templates) AppOption {
	return func(a *App) { a.templates = t }
}

// NewApp creates a new CLI application with the given config.
func NewApp(cfg *config.Config, opts ...AppOption) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	a := &App{config: cfg}
	for _, opt := range opts {
		opt(a)
	}

	a.root = &cobra.Command{
		Use:   "dayring",
		Short: "Plan your day on a 24-hour ring",
		Long: `dayring edits a single 24-hour schedule drawn as a ring.

The day is split into slots on a 30-minute grid. Drag the boundaries
with the mouse, or use the subcommands to edit the schedule from scripts.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ed, err := a.openEditor(cmd.Context())
			if err != nil {
				return err
			}
			return tui.Run(ed, a.config, a.debug, a.tuiOptions(cmd.Context(), ed)...)
		},
	}

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (logs to "+logging.DebugFile+")")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.retimeCmd())
	a.root.AddCommand(a.startCmd())
	a.root.AddCommand(a.insertCmd())
	a.root.AddCommand(a.deleteCmd())
	a.root.AddCommand(a.renameCmd())
	a.root.AddCommand(a.colorCmd())
	a.root.AddCommand(a.templateCmd())
	a.root.AddCommand(a.exportCmd())
	a.root.AddCommand(a.importCmd())
	a.root.AddCommand(a.suggestCmd())
	a.root.AddCommand(a.reviewCmd())
	a.root.AddCommand(a.serveCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dayring %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.ExecuteContext(context.Background())
}

// ExecuteContext runs the CLI with ctx and the given arguments and output.
// It is used by tests.
func (a *App) ExecuteContext(ctx context.Context, args []string, out io.Writer) error {
	a.root.SetArgs(args)
	a.root.SetOut(out)
	a.root.SetErr(out)
	return a.root.ExecuteContext(ctx)
}

// Close releases the store and flushes the logger.
func (a *App) Close() error {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

// openEditor lazily opens the store, the logger and the editor. Commands that
// never touch the schedule (version, config) don't create a database.
func (a *App) openEditor(ctx context.Context) (*editor.Editor, error) {
	if a.editor != nil {
		return a.editor, nil
	}
	if a.logger == nil {
		l, err := logging.New(a.config.Log)
		if err != nil {
			return nil, err
		}
		a.logger = l
	}
	if a.store == nil {
		store, err := db.Open(a.config.Storage)
		if err != nil {
			return nil, fmt.Errorf("opening storage: %w", err)
		}
		a.store = store
	}
	if a.templates == nil {
		a.templates = preset.Open(a.config.Schedule.TemplatesDir)
	}

	ed, err := editor.Open(ctx, a.store, a.templates,
		editor.WithLogger(a.logger),
		editor.WithDefaultTemplate(a.config.Schedule.DefaultTemplate),
		editor.WithRing(ringFor(a.config.Ring.Size)),
	)
	if err != nil {
		return nil, err
	}
	a.editor = ed
	return ed, nil
}

// ringFor is the pointer frame of a size x size diagram, matching the
// proportions of exported images.
func ringFor(size int) ring.Ring {
	return export.Options{Width: size, Height: size}.Ring()
}

// tuiOptions hands the app's settings to the full-screen editor. An injected
// LLM client replaces the configured provider there too.
func (a *App) tuiOptions(ctx context.Context, ed *editor.Editor) []tui.ModelOption {
	opts := []tui.ModelOption{
		tui.WithContext(ctx),
		tui.WithExportDir(a.config.Export.Dir),
	}
	if a.llm != nil {
		s := llm.NewSuggester(a.llm, ed.Model())
		opts = append(opts, tui.WithSuggest(func(request string, current schedule.Partition) tea.Cmd {
			return commands.SuggestWith(s, request, current, a.config.LLM.Retries)
		}))
	}
	return opts
}

func (a *App) exportOptions() export.Options {
	return export.FromConfig(a.config.Export)
}
