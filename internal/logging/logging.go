// Package logging sets up the application logger. The TUI owns the
// terminal, so everything goes to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Setup opens the log file and returns a configured entry carrying the
// app field. An empty path discards all output, which tests rely on.
func Setup(path, level string) (*logrus.Entry, func() error, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	closeFn := func() error { return nil }
	if path == "" {
		logger.SetOutput(io.Discard)
		return logrus.NewEntry(logger), closeFn, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	logger.SetOutput(f)
	return logrus.NewEntry(logger).WithField("app", "recruitmail"), f.Close, nil
}
