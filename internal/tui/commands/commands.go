// Package commands provides TUI command constructors and message types.
package commands

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/dayring/internal/config"
	"github.com/javiermolinar/dayring/internal/export"
	"github.com/javiermolinar/dayring/internal/llm"
	"github.com/javiermolinar/dayring/internal/schedule"
)

// ExportBaseName is the file name, without extension, of TUI exports.
const ExportBaseName = "dayring"

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// ExportedMsg is sent after the ring was written to disk.
type ExportedMsg struct {
	Paths []string
}

// SuggestStartedMsg is sent when an LLM suggestion starts.
type SuggestStartedMsg struct{}

// SuggestionMsg carries a normalized LLM suggestion.
type SuggestionMsg struct {
	Suggestion *llm.Suggestion
}

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

// ClearStatusAfter clears the status line after d.
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

// Export writes p as SVG and PNG into dir.
func Export(p schedule.Partition, dir string, opts export.Options) tea.Cmd {
	return func() tea.Msg {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return ErrMsg{Err: fmt.Errorf("creating export directory: %w", err)}
		}
		var paths []string
		for _, format := range []string{export.FormatSVG, export.FormatPNG} {
			path := filepath.Join(dir, ExportBaseName+"."+format)
			if err := writeFile(path, format, p, opts); err != nil {
				return ErrMsg{Err: err}
			}
			paths = append(paths, path)
		}
		return ExportedMsg{Paths: paths}
	}
}

func writeFile(path, format string, p schedule.Partition, opts export.Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := export.Write(f, format, p, opts); err != nil {
		_ = f.Close()
		return fmt.Errorf("exporting %s: %w", format, err)
	}
	return f.Close()
}

// CopySVG puts the SVG rendering of p on the system clipboard.
func CopySVG(p schedule.Partition, opts export.Options) tea.Cmd {
	return func() tea.Msg {
		var buf bytes.Buffer
		if err := export.SVG(&buf, p, opts); err != nil {
			return ErrMsg{Err: err}
		}
		if err := writeClipboard(buf.String()); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying to clipboard: %w", err)}
		}
		return StatusMsgCmd{Msg: "SVG copied to clipboard"}
	}
}

// Suggest asks the configured LLM for a schedule matching request.
func Suggest(cfg config.LLMConfig, model *schedule.Model, request string, current schedule.Partition) tea.Cmd {
	return func() tea.Msg {
		client, err := llm.FromConfig(cfg)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("creating LLM client: %w", err)}
		}
		return runSuggest(llm.NewSuggester(client, model), request, current, cfg.Retries)
	}
}

// SuggestWith is Suggest with a ready Suggester.
func SuggestWith(s *llm.Suggester, request string, current schedule.Partition, retries int) tea.Cmd {
	return func() tea.Msg {
		return runSuggest(s, request, current, retries)
	}
}

func runSuggest(s *llm.Suggester, request string, current schedule.Partition, retries int) tea.Msg {
	suggestion, err := s.Suggest(context.Background(), request, current, retries)
	if err != nil {
		return ErrMsg{Err: fmt.Errorf("suggesting: %w", err)}
	}
	return SuggestionMsg{Suggestion: suggestion}
}
