package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/dayring/internal/config"
	"github.com/javiermolinar/dayring/internal/preset"
	"github.com/javiermolinar/dayring/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  dayring config`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInteractive(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runConfigInteractive(in io.Reader, out io.Writer) error {
	configPath := config.DefaultConfigPath()
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	printConfig(out, cfg)

	reader := bufio.NewReader(in)
	if !promptYesNo(reader, out, "\nWould you like to edit the configuration?") {
		return nil
	}

	editConfig(reader, out, cfg)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, formatOK("\nConfiguration saved!"))
	return nil
}

// editConfig walks the user through the settings worth changing by hand.
func editConfig(reader *bufio.Reader, out io.Writer, cfg *config.Config) {
	p := prompter{r: reader, w: out}

	cfg.Ring.Size = p.int("Ring size (200-800)", cfg.Ring.Size)
	cfg.Schedule.TemplatesDir = p.value("Templates directory (empty for built-ins only)", cfg.Schedule.TemplatesDir)
	cfg.Schedule.DefaultTemplate = p.template(cfg.Schedule.DefaultTemplate, cfg.Schedule.TemplatesDir)
	cfg.Storage.Backend = p.choice("Storage backend", cfg.Storage.Backend, []string{config.BackendSQLite, config.BackendDiskv})
	if cfg.Storage.Backend == config.BackendDiskv {
		cfg.Storage.DiskvPath = p.value("Store directory", cfg.Storage.DiskvPath)
	} else {
		cfg.Storage.DBPath = p.value("Database path", cfg.Storage.DBPath)
	}
	cfg.Export.Dir = p.value("Export directory", cfg.Export.Dir)
	cfg.UI.Theme = p.choice("UI theme", cfg.UI.Theme, theme.Available())
	cfg.LLM.Provider = p.value("LLM provider", cfg.LLM.Provider)
	cfg.LLM.Model = p.value("LLM model", cfg.LLM.Model)
	cfg.LLM.BaseURL = p.value("LLM base URL (Ollama/LM Studio)", cfg.LLM.BaseURL)
	cfg.LLM.Retries = p.int("LLM retries", cfg.LLM.Retries)
	cfg.Server.Addr = p.value("Server address", cfg.Server.Addr)
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintln(w, "──────────────────────")
	fmt.Fprintln(w, "[ring]")
	fmt.Fprintf(w, "  size             = %d\n", cfg.Ring.Size)
	fmt.Fprintln(w, "\n[schedule]")
	fmt.Fprintf(w, "  default_template = %s\n", cfg.Schedule.DefaultTemplate)
	if cfg.Schedule.TemplatesDir != "" {
		fmt.Fprintf(w, "  templates_dir    = %s\n", cfg.Schedule.TemplatesDir)
	}
	fmt.Fprintln(w, "\n[storage]")
	fmt.Fprintf(w, "  backend          = %s\n", cfg.Storage.Backend)
	if cfg.Storage.Backend == config.BackendDiskv {
		fmt.Fprintf(w, "  diskv_path       = %s\n", cfg.Storage.DiskvPath)
	} else {
		fmt.Fprintf(w, "  db_path          = %s\n", cfg.Storage.DBPath)
	}
	fmt.Fprintln(w, "\n[ui]")
	fmt.Fprintf(w, "  theme            = %s\n", cfg.UI.Theme)
	fmt.Fprintln(w, "\n[llm]")
	fmt.Fprintf(w, "  provider         = %s\n", cfg.LLM.Provider)
	fmt.Fprintf(w, "  model            = %s\n", cfg.LLM.Model)
	fmt.Fprintf(w, "  base_url         = %s\n", cfg.LLM.BaseURL)
	fmt.Fprintf(w, "  retries          = %d\n", cfg.LLM.Retries)
	fmt.Fprintln(w, "\n[export]")
	fmt.Fprintf(w, "  width            = %d\n", cfg.Export.Width)
	fmt.Fprintf(w, "  height           = %d\n", cfg.Export.Height)
	fmt.Fprintf(w, "  dir              = %s\n", cfg.Export.Dir)
	fmt.Fprintln(w, "\n[server]")
	fmt.Fprintf(w, "  addr             = %s\n", cfg.Server.Addr)
	fmt.Fprintf(w, "  max_requests     = %d\n", cfg.Server.MaxRequests)
	fmt.Fprintln(w, "\n[log]")
	fmt.Fprintf(w, "  level            = %s\n", cfg.Log.Level)
	if cfg.Log.File != "" {
		fmt.Fprintf(w, "  file             = %s\n", cfg.Log.File)
	}
}

func promptYesNo(reader *bufio.Reader, w io.Writer, question string) bool {
	fmt.Fprintf(w, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

type prompter struct {
	r *bufio.Reader
	w io.Writer
}

// value returns current when the user just presses enter.
func (p prompter) value(label, current string) string {
	if current == "" {
		fmt.Fprintf(p.w, "  %s: ", label)
	} else {
		fmt.Fprintf(p.w, "  %s [%s]: ", label, current)
	}
	input, err := p.r.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" || (err != nil && err != io.EOF) {
		return current
	}
	return input
}

func (p prompter) int(label string, current int) int {
	for {
		raw := p.value(label, strconv.Itoa(current))
		n, err := strconv.Atoi(raw)
		if err == nil {
			return n
		}
		fmt.Fprintf(p.w, "  Not a number: %q\n", raw)
		if p.r.Buffered() == 0 {
			return current
		}
	}
}

func (p prompter) choice(label, current string, options []string) string {
	joined := strings.Join(options, ", ")
	label = fmt.Sprintf("%s (%s)", label, joined)
	for {
		value := strings.ToLower(p.value(label, current))
		for _, o := range options {
			if value == o {
				return value
			}
		}
		fmt.Fprintf(p.w, "  Invalid value %q. Available: %s\n", value, joined)
		if p.r.Buffered() == 0 {
			return current
		}
	}
}

func (p prompter) template(current, dir string) string {
	return p.choice("Default template", current, preset.Open(dir).Names())
}
