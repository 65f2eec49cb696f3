package log

import (
	"log/slog"
	"maps"
	"slices"
)

// Fields defines the predefined fields of a FieldedLogger.
type Fields map[string]any

// FieldedLogger prepends a fixed, sorted set of fields to every log
// entry. Components create one per concern, keyed on "component".
type FieldedLogger struct {
	fields []any
}

// NewFieldedLogger creates a new FieldedLogger with the given fields.
func NewFieldedLogger(args *Fields) *FieldedLogger {
	sortedArgs := make([]any, 0, len(*args)*2)
	for _, k := range slices.Sorted(maps.Keys(*args)) {
		sortedArgs = append(sortedArgs, k, (*args)[k])
	}
	return &FieldedLogger{fields: sortedArgs}
}

// Debug logs a message at the debug level with the predefined fields.
func (fl *FieldedLogger) Debug(msg string, args ...any) {
	fl.logWithLevel(slog.LevelDebug, msg, args...)
}

// Info logs a message at the info level with the predefined fields.
func (fl *FieldedLogger) Info(msg string, args ...any) {
	fl.logWithLevel(slog.LevelInfo, msg, args...)
}

// Warn logs a message at the warn level with the predefined fields.
func (fl *FieldedLogger) Warn(msg string, args ...any) {
	fl.logWithLevel(slog.LevelWarn, msg, args...)
}

// Error logs a message at the error level with the predefined fields.
func (fl *FieldedLogger) Error(msg string, args ...any) {
	fl.logWithLevel(slog.LevelError, msg, args...)
}

func (fl *FieldedLogger) logWithLevel(level slog.Level, msg string, args ...any) {
	combinedArgs := make([]any, 0, len(fl.fields)+len(args))
	combinedArgs = append(combinedArgs, fl.fields...)
	combinedArgs = append(combinedArgs, args...)
	logWithLevel(level, msg, combinedArgs...)
}
