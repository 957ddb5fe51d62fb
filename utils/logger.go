package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

// Level is a logging severity
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps debug, info, warn/warning and error to a Level
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level: %s", s)
}

// Logger wraps standard log with level-based output
type Logger struct {
	min   Level
	info  *log.Logger
	warn  *log.Logger
	error *log.Logger
	debug *log.Logger
}

// NewLogger creates a logger writing info/warn/debug to stdout and errors to stderr
func NewLogger(min Level) *Logger {
	flags := log.Lmsgprefix
	return &Logger{
		min:   min,
		info:  log.New(os.Stdout, "[INFO]  ", flags),
		warn:  log.New(os.Stdout, "[WARN]  ", flags),
		error: log.New(os.Stderr, "[ERROR] ", flags),
		debug: log.New(os.Stdout, "[DEBUG] ", flags),
	}
}

// NewLoggerTo creates a logger sending every level to w
func NewLoggerTo(w io.Writer, min Level) *Logger {
	flags := log.Lmsgprefix
	return &Logger{
		min:   min,
		info:  log.New(w, "[INFO]  ", flags),
		warn:  log.New(w, "[WARN]  ", flags),
		error: log.New(w, "[ERROR] ", flags),
		debug: log.New(w, "[DEBUG] ", flags),
	}
}

// NewNopLogger discards everything
func NewNopLogger() *Logger {
	return NewLoggerTo(io.Discard, LevelError+1)
}

func (l *Logger) prefix() string {
	return fmt.Sprintf(" %s ", time.Now().Format("15:04:05"))
}

func (l *Logger) Info(msg string, args ...interface{}) {
	if l.min <= LevelInfo {
		l.info.Printf(l.prefix()+msg, args...)
	}
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	if l.min <= LevelWarn {
		l.warn.Printf(l.prefix()+msg, args...)
	}
}

func (l *Logger) Error(msg string, args ...interface{}) {
	if l.min <= LevelError {
		l.error.Printf(l.prefix()+msg, args...)
	}
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	if l.min <= LevelDebug {
		l.debug.Printf(l.prefix()+msg, args...)
	}
}
