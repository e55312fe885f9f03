// Package logging builds the process logger from config.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/invoicer-dev/invoicer/internal/config"
)

// DefaultLevel applies when the config leaves the level empty.
const DefaultLevel = logrus.WarnLevel

// New returns a logger writing to w with the configured level and format.
func New(cfg config.LogConfig, w io.Writer) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(w)

	level := DefaultLevel
	if cfg.Level != "" {
		l, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("parsing log level: %w", err)
		}
		level = l
	}
	logger.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
	return logger, nil
}

// LogError logs err with the operation that produced it.
func LogError(logger logrus.FieldLogger, op string, data any, err error) {
	entry := logger.WithField("op", op)
	if data != nil {
		entry = entry.WithField("data", data)
	}
	entry.Error(err.Error())
}
