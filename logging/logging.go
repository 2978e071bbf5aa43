package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New builds a logger writing to out. Unknown levels fall back to info.
func New(level string, out io.Writer, asJSON bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	if asJSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

// NewFile builds a JSON logger appending to path. The terminal UI owns
// stdout, so its diagnostics go to a file instead.
func NewFile(level, path string) (*logrus.Logger, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return New(level, io.Discard, true), nopCloser{}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(level, f, true), f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
