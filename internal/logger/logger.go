package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls where and how verbosely the service logs.
type Config struct {
	Level string
	// File enables a rotating log file next to stderr output when set.
	File string
	// JSON switches the formatter to one JSON object per line.
	JSON bool
}

// New builds the service logger. Unknown levels fall back to info.
func New(cfg Config) (*log.Logger, error) {
	var writer io.Writer = os.Stderr
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, err
		}
		writer = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		})
	}
	return NewWithWriter(writer, cfg), nil
}

func NewWithWriter(writer io.Writer, cfg Config) *log.Logger {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}
	formatter := log.TextFormatter
	if cfg.JSON {
		formatter = log.JSONFormatter
	}
	return log.NewWithOptions(writer, log.Options{
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "ilgi",
		Formatter:       formatter,
	})
}

// Discard is used by tests and tools that do not want output.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}
