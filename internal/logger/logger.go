package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetLevel(logrus.InfoLevel)
}

// Level is the logging verbosity threshold
type Level = logrus.Level

// ParseLevel parses a level name (trace, debug, info, warn, error, fatal, panic)
func ParseLevel(name string) (Level, error) {
	return logrus.ParseLevel(name)
}

// SetLevel sets the global logging level
func SetLevel(level Level) {
	log.SetLevel(level)
}

// SetOutput redirects log output (e.g. to a file)
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

func Trace(format string, args ...any) {
	log.Tracef(format, args...)
}

func Debug(format string, args ...any) {
	log.Debugf(format, args...)
}

func Info(format string, args ...any) {
	log.Infof(format, args...)
}

func Warn(format string, args ...any) {
	log.Warnf(format, args...)
}

func Error(format string, args ...any) {
	log.Errorf(format, args...)
}

func Fatal(format string, args ...any) {
	log.Fatalf(format, args...)
}
