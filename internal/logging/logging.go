package logging

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	logger *logrus.Logger
	mu     sync.Mutex
)

func newLogger(level logrus.Level, format string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(level)
	if format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l
}

// InitLogger replaces the process logger. format is "text" or "json".
func InitLogger(level logrus.Level, format string) *logrus.Logger {
	l := newLogger(level, format)
	mu.Lock()
	logger = l
	mu.Unlock()
	return l
}

// GetLogger returns the process logger, creating an info-level text logger
// on first use.
func GetLogger() *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = newLogger(logrus.InfoLevel, "text")
	}
	return logger
}

// Configure parses level and installs the logger.
func Configure(level, format string) (*logrus.Logger, error) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return InitLogger(parsed, format), nil
}
