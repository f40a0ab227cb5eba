package utils

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// InitLogger logs to stderr, stdout is left to the data being forwarded.
func InitLogger(verbose bool) *logrus.Logger {
	return newLogger(os.Stderr, verbose)
}

func newLogger(out io.Writer, verbose bool) *logrus.Logger {
	var log = logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}
