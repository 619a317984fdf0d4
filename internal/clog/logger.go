// Package clog is the compiler pipeline's logging façade, adapted from the
// teacher's log package (log/logger.go, log/golog_logger.go): a small
// leveled Logger interface with a github.com/kataras/golog-backed default
// implementation, used by package chictx to log module loads and cache
// hits.
package clog

import "github.com/kataras/golog"

// Level mirrors golog's own severity levels, narrowed to what the
// compiler pipeline actually emits.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelNone
)

func (l Level) gologName() string {
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
		return "disable"
	}
}

// Logger is the interface every component in this module logs through.
type Logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
}

// gologLogger wraps a *golog.Logger to satisfy Logger.
type gologLogger struct {
	l *golog.Logger
}

// New returns a Logger backed by a fresh golog.Logger at the given level,
// prefixed the way the teacher prefixes its own default logger.
func New(level Level) Logger {
	l := golog.New()
	l.SetLevel(level.gologName())
	l.SetPrefix("[chigraph] ")
	return &gologLogger{l: l}
}

// Wrap adapts an existing *golog.Logger (e.g. one shared with a host
// application) to the Logger interface.
func Wrap(l *golog.Logger) Logger {
	return &gologLogger{l: l}
}

func (g *gologLogger) Debugf(format string, v ...any) { g.l.Debugf(format, v...) }
func (g *gologLogger) Infof(format string, v ...any)  { g.l.Infof(format, v...) }
func (g *gologLogger) Warnf(format string, v ...any)  { g.l.Warnf(format, v...) }
func (g *gologLogger) Errorf(format string, v ...any) { g.l.Errorf(format, v...) }

// NoOp is a Logger that discards everything, used in tests.
type noOp struct{}

func (noOp) Debugf(string, ...any) {}
func (noOp) Infof(string, ...any)  {}
func (noOp) Warnf(string, ...any)  {}
func (noOp) Errorf(string, ...any) {}

// NoOp returns a Logger that discards all output.
func NoOp() Logger { return noOp{} }
