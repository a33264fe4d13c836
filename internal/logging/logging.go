package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the process-wide structured logger.
var Logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// Configure sets the level by name; unknown names keep info.
func Configure(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		Logger.WithField("level", level).Warn("unknown log level, using info")
		lvl = logrus.InfoLevel
	}
	Logger.SetLevel(lvl)
}

// WithFields is a shortcut for Logger.WithFields.
func WithFields(fields map[string]interface{}) *logrus.Entry {
	return Logger.WithFields(logrus.Fields(fields))
}
