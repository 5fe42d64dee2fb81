package logger

import (
	"fmt"
	"strings"
	"sync/atomic"
)

var global atomic.Pointer[Logger]

func init() {
	global.Store(NewDefault())
}

// ParseLevel parses a level name such as "info" or "WARNING".
func ParseLevel(level string) (LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return DEBUG, nil
	case "INFO", "":
		return INFO, nil
	case "WARN", "WARNING":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	default:
		return INFO, fmt.Errorf("unknown log level %q", level)
	}
}

// ParseFormat parses "json", "text" or "auto".
func ParseFormat(format string) (LogFormat, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return JSONFormat, nil
	case "text":
		return TextFormat, nil
	case "auto", "":
		return AutoFormat, nil
	default:
		return AutoFormat, fmt.Errorf("unknown log format %q", format)
	}
}

// Configure applies level and format names to the global logger.
func Configure(level, format string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	f, err := ParseFormat(format)
	if err != nil {
		return err
	}
	l := Global()
	l.SetLevel(lvl)
	l.SetFormat(f)
	return nil
}

// Global returns the process-wide logger.
func Global() *Logger {
	return global.Load()
}

// SetGlobal replaces the process-wide logger.
func SetGlobal(l *Logger) {
	global.Store(l)
}

// Component returns a child of the global logger for a named component.
func Component(name string) *Logger {
	return Global().WithComponent(name)
}

// Info logs an info message using the global logger
func Info(message string, fields ...Fields) {
	Global().log(INFO, message, firstFields(fields), nil)
}

// Warn logs a warning message using the global logger
func Warn(message string, fields ...Fields) {
	Global().log(WARN, message, firstFields(fields), nil)
}

// Error logs an error message using the global logger
func Error(message string, err error, fields ...Fields) {
	Global().log(ERROR, message, firstFields(fields), err)
}
