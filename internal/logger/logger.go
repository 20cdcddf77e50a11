package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New настраивает логгер процесса: JSON в релизном окружении, текст и
// debug-уровень в остальных.
func New(output io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(output)
	l.SetFormatter(new(logrus.JSONFormatter))
	l.SetLevel(logrus.InfoLevel)

	if os.Getenv("GIN_MODE") != "release" {
		l.SetLevel(logrus.DebugLevel)
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return l
}
