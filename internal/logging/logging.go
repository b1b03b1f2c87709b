// Package logging provides component-scoped loggers shared by the CLI,
// TUI, and headless modes. There is no daemon here, so unlike the
// teacher's package this one skips log rotation entirely: one run opens
// one file, appends, and closes it on exit.
//
// There is also only ever one consumer of live log output, the TUI's
// log pane, and it already redraws on a fixed tick, so it polls
// GetLogBuffer().Entries() each frame rather than being pushed updates
// over a channel. That removes the need for the teacher's subscriber
// fan-out entirely: a logger call appends straight to the shared
// LogBuffer, which guards its entries with its own mutex.
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Level represents a logging level.
type Level int

// Log levels from least to most severe.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

func (l Level) toCharmLevel() log.Level {
	switch l {
	case LevelDebug:
		return log.DebugLevel
	case LevelInfo:
		return log.InfoLevel
	case LevelWarn:
		return log.WarnLevel
	case LevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// ErrInvalidLevel is returned when an invalid log level string is provided.
var ErrInvalidLevel = errors.New("logging: invalid level")

// ParseLevel parses a string into a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("%w: %s", ErrInvalidLevel, s)
	}
}

// Config configures the logging system for one run.
type Config struct {
	// Level is the default log level (debug, info, warn, error).
	Level string

	// Path is the log file path. Empty uses DefaultLogPath().
	Path string

	// ConsoleLevel enables console output at the specified level.
	// Empty disables console output.
	ConsoleLevel string

	// Components maps component names to per-component level overrides.
	Components map[string]string

	// TUIMode disables console output (the TUI owns the screen) and
	// enables the ring buffer so the TUI can render recent log lines.
	TUIMode bool
}

// LogEntry is one emitted log line. In TUI mode it is also retained in
// the shared ring buffer for the log pane to poll.
type LogEntry struct {
	Time      time.Time
	Level     Level
	Component string
	Message   string
}

// Logger wraps charmbracelet/log with a component name.
type Logger struct {
	file      *log.Logger
	console   *log.Logger
	component string
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.log(LevelDebug, msg, args...) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log(LevelInfo, msg, args...) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log(LevelWarn, msg, args...) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log(LevelError, msg, args...) }

func (l *Logger) log(level Level, msg string, args ...interface{}) {
	logTo(l.file, level, msg, args...)
	if l.console != nil {
		logTo(l.console, level, msg, args...)
	}
	if buf := globalState.buffer(); buf != nil {
		buf.Add(LogEntry{
			Time:      time.Now(),
			Level:     level,
			Component: l.component,
			Message:   msg,
		})
	}
}

func logTo(logger *log.Logger, level Level, msg string, args ...interface{}) {
	switch level {
	case LevelDebug:
		logger.Debug(msg, args...)
	case LevelInfo:
		logger.Info(msg, args...)
	case LevelWarn:
		logger.Warn(msg, args...)
	case LevelError:
		logger.Error(msg, args...)
	}
}

// With returns a new logger with additional structured context.
func (l *Logger) With(args ...interface{}) *Logger {
	derived := &Logger{file: l.file.With(args...), component: l.component}
	if l.console != nil {
		derived.console = l.console.With(args...)
	}
	return derived
}

type state struct {
	mu          sync.Mutex
	initialized bool
	file        *os.File
	level       Level
	loggers     map[string]*Logger

	components map[string]Level

	consoleEnabled bool
	consoleLevel   Level
	tuiMode        bool

	logBuffer *LogBuffer
}

var globalState = &state{
	loggers:    make(map[string]*Logger),
	components: make(map[string]Level),
}

// buffer returns the active TUI ring buffer, or nil outside TUI mode.
func (s *state) buffer() *LogBuffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logBuffer
}

// Init opens the log file and configures the default level and console
// output. Loggers created via Get before Init write to io.Discard.
func Init(cfg Config) error {
	globalState.mu.Lock()
	defer globalState.mu.Unlock()

	if globalState.initialized && globalState.file != nil {
		if err := globalState.file.Close(); err != nil {
			return fmt.Errorf("logging: closing existing log file: %w", err)
		}
	}
	globalState.loggers = make(map[string]*Logger)
	globalState.components = make(map[string]Level)

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("logging: parsing level: %w", err)
	}
	globalState.level = level

	for comp, lvl := range cfg.Components {
		parsedLevel, err := ParseLevel(lvl)
		if err != nil {
			return fmt.Errorf("logging: parsing level for component %s: %w", comp, err)
		}
		globalState.components[comp] = parsedLevel
	}

	globalState.tuiMode = cfg.TUIMode
	globalState.consoleEnabled = false
	if cfg.ConsoleLevel != "" && !cfg.TUIMode {
		consoleLevel, err := ParseLevel(cfg.ConsoleLevel)
		if err != nil {
			return fmt.Errorf("logging: parsing console level: %w", err)
		}
		globalState.consoleLevel = consoleLevel
		globalState.consoleEnabled = true
	}

	if cfg.TUIMode {
		globalState.logBuffer = NewLogBuffer(DefaultBufferSize)
	} else {
		globalState.logBuffer = nil
	}

	path := cfg.Path
	if path == "" {
		path = DefaultLogPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("logging: creating log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("logging: opening log file: %w", err)
	}
	globalState.file = file
	globalState.initialized = true

	for component := range globalState.loggers {
		globalState.loggers[component] = newLogger(component)
	}
	return nil
}

// Get returns the logger for a component, creating it on first use. A
// CLI run creates on the order of a dozen component loggers total, so
// this takes the write lock unconditionally rather than optimizing the
// lookup path with a read-lock probe first; the map is tiny and Get is
// never called on a hot path.
func Get(component string) *Logger {
	globalState.mu.Lock()
	defer globalState.mu.Unlock()
	if logger, ok := globalState.loggers[component]; ok {
		return logger
	}
	logger := newLogger(component)
	globalState.loggers[component] = logger
	return logger
}

func (s *state) levelFor(component string) Level {
	if lvl, ok := s.components[component]; ok {
		return lvl
	}
	return s.level
}

// newLogger builds a Logger for component from the current global
// state. Must be called with globalState.mu held.
func newLogger(component string) *Logger {
	level := globalState.levelFor(component)

	if !globalState.initialized {
		return &Logger{file: discardLogger(component, level), component: component}
	}

	logger := &Logger{
		file:      fileLogger(globalState.file, component, level),
		component: component,
	}
	if globalState.consoleEnabled && !globalState.tuiMode {
		logger.console = consoleLogger(component, globalState.consoleLevel)
	}
	return logger
}

func discardLogger(component string, level Level) *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{
		Level:  level.toCharmLevel(),
		Prefix: component,
	})
}

func fileLogger(w io.Writer, component string, level Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level.toCharmLevel(),
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          component,
	})
}

func consoleLogger(component string, level Level) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level.toCharmLevel(),
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          component,
	})
}

// Close flushes and closes the log file. Safe to call even if Init was
// never called.
func Close() error {
	globalState.mu.Lock()
	defer globalState.mu.Unlock()

	if !globalState.initialized {
		return nil
	}
	if globalState.file != nil {
		if err := globalState.file.Close(); err != nil {
			return fmt.Errorf("logging: closing log file: %w", err)
		}
		globalState.file = nil
	}
	globalState.initialized = false
	globalState.loggers = make(map[string]*Logger)
	return nil
}

// GetLogBuffer returns the ring buffer used in TUI mode, or nil. The
// TUI's log pane polls this on every redraw rather than subscribing to
// a push feed, since it already redraws on a fixed tick regardless.
func GetLogBuffer() *LogBuffer {
	return globalState.buffer()
}
