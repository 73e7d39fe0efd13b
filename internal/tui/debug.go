package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/dayring/internal/logging"
)

// debugLog is a no-op unless --debug was given.
var debugLog = zap.NewNop()

// InitDebugLogger starts writing the debug trace to logging.DebugFile when
// enabled. The returned func flushes and closes it.
func InitDebugLogger(enabled bool) (*zap.Logger, func(), error) {
	if !enabled {
		debugLog = zap.NewNop()
		return debugLog, func() {}, nil
	}
	logger, closeFn, err := logging.NewDebug(logging.DebugFile)
	if err != nil {
		return nil, nil, err
	}
	debugLog = logger
	debugLog.Debug("debug start", zap.String("log_file", logging.DebugFile))
	return logger, func() {
		debugLog.Debug("debug end")
		closeFn()
		debugLog = zap.NewNop()
	}, nil
}

// LogKeyPress logs a key press event.
func LogKeyPress(msg tea.KeyMsg, mode Mode) {
	debugLog.Debug("key press", zap.String("key", msg.String()), zap.Stringer("mode", mode))
}

// LogMouse logs a mouse event and where it landed on the dial.
func LogMouse(msg tea.MouseMsg, x, y float64) {
	debugLog.Debug("mouse",
		zap.String("action", msg.Action.String()),
		zap.String("button", msg.Button.String()),
		zap.Int("col", msg.X), zap.Int("row", msg.Y),
		zap.Float64("x", x), zap.Float64("y", y))
}

// LogModeChange logs a mode change.
func LogModeChange(from, to Mode, reason string) {
	if from == to {
		return
	}
	debugLog.Debug("mode change", zap.Stringer("from", from), zap.Stringer("to", to), zap.String("reason", reason))
}

// LogError logs an error with context.
func LogError(context string, err error) {
	debugLog.Debug("error", zap.String("context", context), zap.Error(err))
}
