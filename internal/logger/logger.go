// Package logger is appify's leveled logger. Output is discarded unless a log
// file is configured, so the alt-screen wizard is never written over.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level represents a log level
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of a log level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a log level string
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("invalid log level: %s", s)
	}
}

// Logger is a simple leveled logger
type Logger struct {
	mu     sync.Mutex
	level  Level
	prefix string
	logger *log.Logger
	file   *os.File
}

// Default is the process-wide logger used by the package-level functions.
var Default = New()

// New creates a logger from APPIFY_LOG_LEVEL and APPIFY_LOG_FILE.
func New() *Logger {
	l := &Logger{
		level:  LevelInfo,
		logger: log.New(io.Discard, "", log.LstdFlags),
	}

	if levelStr := os.Getenv("APPIFY_LOG_LEVEL"); levelStr != "" {
		if level, err := ParseLevel(levelStr); err == nil {
			l.level = level
		}
	}

	if logFile := os.Getenv("APPIFY_LOG_FILE"); logFile != "" {
		_ = l.openFile(logFile)
	}

	return l
}

// Configure applies a level and log file taken from the loaded config.
// An empty file keeps the current output.
func (l *Logger) Configure(level, file string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	l.SetLevel(lvl)
	if file == "" {
		return nil
	}
	return l.openFile(file)
}

func (l *Logger) openFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		_ = l.file.Close()
	}
	l.file = f
	l.logger.SetOutput(f)
	return nil
}

// Close closes the logger and any open file handles
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		l.logger.SetOutput(io.Discard)
		return err
	}
	return nil
}

// SetLevel sets the log level
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetOutput sets the output writer
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.SetOutput(w)
}

// Named returns a logger sharing this logger's output that tags every line
// with the given component name.
func (l *Logger) Named(component string) *Component {
	return &Component{parent: l, name: component}
}

func (l *Logger) Debug(format string, v ...interface{}) { l.log(LevelDebug, "", format, v...) }
func (l *Logger) Info(format string, v ...interface{})  { l.log(LevelInfo, "", format, v...) }
func (l *Logger) Warn(format string, v ...interface{})  { l.log(LevelWarn, "", format, v...) }
func (l *Logger) Error(format string, v ...interface{}) { l.log(LevelError, "", format, v...) }

func (l *Logger) log(level Level, component, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	msg := fmt.Sprintf(format, v...)
	if component != "" {
		l.logger.Printf("[%s] %s: %s", level, component, msg)
		return
	}
	l.logger.Printf("[%s] %s", level, msg)
}

// Component is a named view of a Logger.
type Component struct {
	parent *Logger
	name   string
}

func (c *Component) Debug(format string, v ...interface{}) {
	c.parent.log(LevelDebug, c.name, format, v...)
}

func (c *Component) Info(format string, v ...interface{}) {
	c.parent.log(LevelInfo, c.name, format, v...)
}

func (c *Component) Warn(format string, v ...interface{}) {
	c.parent.log(LevelWarn, c.name, format, v...)
}

func (c *Component) Error(format string, v ...interface{}) {
	c.parent.log(LevelError, c.name, format, v...)
}

// Package-level functions that use the default logger

func Debug(format string, v ...interface{}) { Default.Debug(format, v...) }
func Info(format string, v ...interface{})  { Default.Info(format, v...) }
func Warn(format string, v ...interface{})  { Default.Warn(format, v...) }
func Error(format string, v ...interface{}) { Default.Error(format, v...) }

// Named returns a component logger on the default logger.
func Named(component string) *Component { return Default.Named(component) }

// Close closes the default logger
func Close() error {
	return Default.Close()
}
