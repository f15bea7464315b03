// Package log configures the process-wide logrus logger.
package log

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Init sets level and formatter of the standard logger.
// Valid levels: "debug", "info", "warn", "error". Format is "text" or "json".
func Init(level, format string) error {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return fmt.Errorf("logrus.ParseLevel: %w", err)
	}

	l := logrus.StandardLogger()
	l.SetLevel(lvl)
	l.SetOutput(os.Stdout)

	switch strings.ToLower(format) {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("log format[%s] is not supported", format)
	}

	return nil
}

// L returns the standard logger.
func L() *logrus.Logger {
	return logrus.StandardLogger()
}

// With returns an entry tagged with the component name.
func With(component string) *logrus.Entry {
	return L().WithField("component", component)
}
