package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserID     = "user_id"
)

// New builds the application logger. Unknown levels fall back to info.
func New(level string) *logrus.Logger {
	return NewWithOutput(level, os.Stdout)
}

func NewWithOutput(level string, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.JSONFormatter{})

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)
	logger.AddHook(RequestIDHook{})
	return logger
}

// RequestIDHook copies the request id from an entry's context into its fields,
// so `logger.WithContext(ctx)` is enough to correlate a line with its request.
type RequestIDHook struct{}

func (RequestIDHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (RequestIDHook) Fire(entry *logrus.Entry) error {
	if entry.Context == nil {
		return nil
	}
	if id := RequestID(entry.Context); id != "" {
		entry.Data[FieldRequestID] = id
	}
	return nil
}

// Component returns an entry tagged with the given component name.
func Component(logger *logrus.Logger, name string) *logrus.Entry {
	return logger.WithField(FieldComponent, name)
}
