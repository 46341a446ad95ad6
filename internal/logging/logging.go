package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// SetupLogging builds the JSON logger shared by every layer. Logs go to
// stderr unless out is set, so the chat command can own stdout.
func SetupLogging(level logrus.Level, out io.Writer) *logrus.Logger {
	if out == nil {
		out = os.Stderr
	}

	return &logrus.Logger{
		Formatter: &logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyLevel: "loglevel",
			},
		},
		Out:          out,
		Level:        level,
		Hooks:        make(logrus.LevelHooks),
		ReportCaller: level >= logrus.DebugLevel,
	}
}
