package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config selects the log level, output format and optional rotated file.
type Config struct {
	Level  string
	Format string // "text" or "json"
	// File, when set, receives a rotated copy of everything written to stderr.
	File string
}

// Setup configures the standard logrus logger and returns a closer for the
// log file, if any.
func Setup(cfg Config) (io.Closer, error) {
	return configure(logrus.StandardLogger(), cfg, os.Stderr)
}

func configure(logger *logrus.Logger, cfg Config, console io.Writer) (io.Closer, error) {
	level := logrus.InfoLevel
	if cfg.Level != "" {
		parsed, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid log level %q", cfg.Level)
		}
		level = parsed
	}
	logger.SetLevel(level)

	switch cfg.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, errors.Errorf("unknown log format %q", cfg.Format)
	}

	if cfg.File == "" {
		logger.SetOutput(console)
		return nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create log directory")
	}

	file := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
	logger.SetOutput(io.MultiWriter(console, file))
	return file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
