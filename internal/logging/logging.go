// Package logging builds the logrus logger shared by the CLI and the HTTP
// server.
package logging

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Supported formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// New returns a logger writing to out. An unparsable level falls back to
// info. "json" selects the JSON formatter; anything else is text with full
// timestamps.
func New(level, format string, out io.Writer) *logrus.Logger {
	log := logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	if strings.ToLower(format) == FormatJSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	log.SetOutput(out)
	return log
}
