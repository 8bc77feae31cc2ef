package app

import (
	"io"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a text logger on out at the named level. An unknown
// level falls back to warn.
func NewLogger(level string, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.WarnLevel
	}
	log.SetLevel(lvl)
	return log
}
