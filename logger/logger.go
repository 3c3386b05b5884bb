package logger

import (
	"github.com/sirupsen/logrus"
)

// Logger is the process-wide logger. It is usable before Init with logrus
// defaults.
var Logger = logrus.New()

// Init configures Logger with a timestamped text formatter and the given
// level. An unknown level falls back to info.
func Init(level string) {
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		Logger.WithField("level", level).Warn("unknown log level, using info")
		lvl = logrus.InfoLevel
	}
	Logger.SetLevel(lvl)
}
