package logger

import (
	charm "github.com/charmbracelet/log"
)

// SetLevel sets the level on the global default logger.
func SetLevel(level charm.Level) {
	Default().SetLevel(level)
}

// ParseLevel converts a level string such as "debug" or "warn" into a level.
func ParseLevel(s string) (charm.Level, error) {
	return charm.ParseLevel(s)
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg interface{}, keyvals ...interface{}) {
	Default().Debug(msg, keyvals...)
}

// Info logs an info message with optional key-value pairs.
func Info(msg interface{}, keyvals ...interface{}) {
	Default().Info(msg, keyvals...)
}

// Warn logs a warning message with optional key-value pairs.
func Warn(msg interface{}, keyvals ...interface{}) {
	Default().Warn(msg, keyvals...)
}

// Error logs an error message with optional key-value pairs.
func Error(msg interface{}, keyvals ...interface{}) {
	Default().Error(msg, keyvals...)
}
