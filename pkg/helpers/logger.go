package helpers

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger creates a configured Logrus logger: text at debug level in development, JSON at info level elsewhere
func NewLogger(appName, env string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if env == "development" {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	logger.WithFields(logrus.Fields{"app": appName, "env": env}).Info("logger initialized")
	return logger
}

// NewDiscardLogger returns a logger that writes nowhere (tests, tooling)
func NewDiscardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// LogError, LogWarn and LogInfo tolerate a nil logger so optional components can log unconditionally
func LogError(logger *logrus.Logger, msg string, err error, fields logrus.Fields) {
	entry(logger, err, fields).Error(msg)
}

func LogWarn(logger *logrus.Logger, msg string, err error, fields logrus.Fields) {
	entry(logger, err, fields).Warn(msg)
}

func LogInfo(logger *logrus.Logger, msg string, fields logrus.Fields) {
	entry(logger, nil, fields).Info(msg)
}

func entry(logger *logrus.Logger, err error, fields logrus.Fields) *logrus.Entry {
	if logger == nil {
		logger = discard
	}
	e := logger.WithFields(fields)
	if err != nil {
		e = e.WithError(err)
	}
	return e
}

var discard = NewDiscardLogger()
