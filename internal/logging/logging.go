// Package logging builds the zap loggers used across dayring.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/javiermolinar/dayring/internal/config"
)

// DebugFile is the file the TUI writes its --debug trace to.
const DebugFile = "dayring-debug.log"

// Level maps a config level name onto a zap level. Unknown names fall back to info.
func Level(name string) zapcore.Level {
	switch strings.ToLower(name) {
	case "debug":
		return zap.DebugLevel
	case "info":
		return zap.InfoLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// New builds a JSON logger from cfg. An empty cfg.File logs to stderr so
// stdout stays free for command output.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	outputPaths := []string{"stderr"}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		outputPaths = []string{cfg.File}
	}

	zcfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(Level(cfg.Level)),
		Encoding:         "json",
		EncoderConfig:    encoderConfig(),
		OutputPaths:      outputPaths,
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// NewDebug builds a debug-level logger that truncates and writes path.
// The TUI owns the terminal, so its trace cannot go to stderr.
func NewDebug(path string) (*zap.Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening debug log: %w", err)
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(f), zap.DebugLevel)
	logger := zap.New(core).Named("tui")
	closeFn := func() {
		_ = logger.Sync()
		_ = f.Close()
	}
	return logger, closeFn, nil
}
