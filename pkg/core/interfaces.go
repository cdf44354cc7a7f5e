package core

import "log"

// Logger interface for load and build diagnostics
type Logger interface {
	Printf(format string, args ...interface{})
}

// DefaultLogger implements Logger on top of the standard log package
type DefaultLogger struct {
	logger *log.Logger
}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	dl.logger.Printf(format, args...)
}

// NewDefaultLogger creates a logger writing to the standard logger's output
func NewDefaultLogger() Logger {
	return &DefaultLogger{logger: log.Default()}
}

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) Printf(string, ...interface{}) {}
