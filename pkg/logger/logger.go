package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New configures the process-wide logrus logger. Text output in
// development, JSON everywhere else, level taken from LOG_LEVEL.
func New(env string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if env == "development" {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	return log
}
