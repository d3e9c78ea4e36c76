// Package logger configures the process-wide structured logger.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

var global = newDefault()

func newDefault() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
	return l
}

// Setup applies the configured level and, when file is non-empty, mirrors
// output to a size-rotated log file.
func Setup(level, file string, maxSizeMB, maxBackups, maxAgeDays int) {
	if lvl, err := logrus.ParseLevel(strings.ToLower(level)); err == nil {
		global.SetLevel(lvl)
	}
	if file != "" {
		rotated := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   true,
		}
		global.SetOutput(io.MultiWriter(os.Stdout, rotated))
	}
}

// L returns the shared logger.
func L() *logrus.Logger { return global }

// WithComponent tags log entries with the emitting component.
func WithComponent(component string) *logrus.Entry {
	return global.WithField("component", component)
}
