// Package logger provides the leveled diagnostic channel for moodchat.
//
// Three levels exist: off (no output), normal (info/warn/error) and
// verbose (adds debug). Loggers created with [Logger.Named] share the
// parent's level and writer but tag each line with a component name, so
// poll failures and chat failures can be told apart in the log file.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Level controls the verbosity of the logger.
type Level int

const (
	// LevelOff disables all log output.
	LevelOff Level = iota
	// LevelNormal enables info, warn, and error output.
	LevelNormal
	// LevelVerbose enables all output including debug.
	LevelVerbose
)

// String returns the flag-friendly name of the level.
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelNormal:
		return "normal"
	case LevelVerbose:
		return "verbose"
	default:
		return "unknown"
	}
}

// levelState is shared between a root logger and its named children.
type levelState struct {
	mu    sync.RWMutex
	level Level
}

// Logger is a leveled logger. All methods are safe for concurrent use.
type Logger struct {
	state     *levelState
	component string
	debug     *log.Logger
	info      *log.Logger
	warn      *log.Logger
	errLog    *log.Logger
}

// New creates a logger with the given level, writing to the given output.
// If out is nil, os.Stderr is used.
func New(level Level, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}
	return build(&levelState{level: level}, "", out)
}

// Nop returns a logger that never writes. Handy in tests.
func Nop() *Logger {
	return New(LevelOff, io.Discard)
}

func build(state *levelState, component string, out io.Writer) *Logger {
	flags := log.Ltime
	tag := ""
	if component != "" {
		tag = component + ": "
	}
	return &Logger{
		state:     state,
		component: component,
		debug:     log.New(out, "[DBG] "+tag, flags|log.Lmsgprefix),
		info:      log.New(out, "[INF] "+tag, flags|log.Lmsgprefix),
		warn:      log.New(out, "[WRN] "+tag, flags|log.Lmsgprefix),
		errLog:    log.New(out, "[ERR] "+tag, flags|log.Lmsgprefix),
	}
}

// Named returns a child logger tagged with component. The child follows
// level changes made on any logger in the family.
func (l *Logger) Named(component string) *Logger {
	if l.component != "" {
		component = l.component + "." + component
	}
	return build(l.state, component, l.info.Writer())
}

// Component returns the tag set by Named, or "" for the root logger.
func (l *Logger) Component() string { return l.component }

// SetLevel changes the log level at runtime.
func (l *Logger) SetLevel(level Level) {
	l.state.mu.Lock()
	defer l.state.mu.Unlock()
	l.state.level = level
}

// GetLevel returns the current log level.
func (l *Logger) GetLevel() Level {
	l.state.mu.RLock()
	defer l.state.mu.RUnlock()
	return l.state.level
}

func (l *Logger) enabled(min Level) bool {
	return l.GetLevel() >= min
}

// Debug logs a message at debug level (only visible in verbose mode).
func (l *Logger) Debug(format string, args ...any) {
	if l.enabled(LevelVerbose) {
		l.debug.Output(2, fmt.Sprintf(format, args...))
	}
}

// Info logs a message at info level.
func (l *Logger) Info(format string, args ...any) {
	if l.enabled(LevelNormal) {
		l.info.Output(2, fmt.Sprintf(format, args...))
	}
}

// Warn logs a message at warn level.
func (l *Logger) Warn(format string, args ...any) {
	if l.enabled(LevelNormal) {
		l.warn.Output(2, fmt.Sprintf(format, args...))
	}
}

// Error logs a message at error level.
func (l *Logger) Error(format string, args ...any) {
	if l.enabled(LevelNormal) {
		l.errLog.Output(2, fmt.Sprintf(format, args...))
	}
}
