// Package logging configures the logrus logger shared by every package.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"

	DefaultLogFormat = LogFormatText
	DefaultLogLevel  = logrus.InfoLevel
)

// DefaultLogger is the logger all packages derive from with WithField.
var DefaultLogger = initializeDefaultLogger()

func initializeDefaultLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(newFormatter(DefaultLogFormat))
	logger.SetLevel(DefaultLogLevel)
	return logger
}

func newFormatter(format LogFormat) logrus.Formatter {
	switch format {
	case LogFormatJSON:
		return &logrus.JSONFormatter{DisableTimestamp: true}
	default:
		return &logrus.TextFormatter{DisableTimestamp: true, DisableColors: true}
	}
}

// ParseLogLevel is case insensitive; empty means DefaultLogLevel.
func ParseLogLevel(s string) (logrus.Level, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultLogLevel, nil
	}
	lvl, err := logrus.ParseLevel(strings.ToLower(s))
	if err != nil {
		return DefaultLogLevel, fmt.Errorf("invalid log level %q", s)
	}
	return lvl, nil
}

// ParseLogFormat is case insensitive; empty means DefaultLogFormat.
func ParseLogFormat(s string) (LogFormat, error) {
	switch f := LogFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return DefaultLogFormat, nil
	case LogFormatText, LogFormatJSON:
		return f, nil
	default:
		return DefaultLogFormat, fmt.Errorf("invalid log format %q (want text|json)", s)
	}
}

func SetLogLevel(level logrus.Level) { DefaultLogger.SetLevel(level) }

func SetLogFormat(format LogFormat) { DefaultLogger.SetFormatter(newFormatter(format)) }

// SetupLogging points DefaultLogger at w with the given level and format.
func SetupLogging(w io.Writer, level, format string) error {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return err
	}
	f, err := ParseLogFormat(format)
	if err != nil {
		return err
	}
	if w != nil {
		DefaultLogger.SetOutput(w)
	}
	SetLogLevel(lvl)
	SetLogFormat(f)
	return nil
}
