// Package wsmlog provides the leveled, category-tagged logger used across
// wsm. It mirrors the verbosity levels of the -l/--log-level CLI flag.
package wsmlog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level is a log verbosity, matching the -l/--log-level flag 1:1.
type Level int

const (
	Silent Level = iota
	Error
	Info
	Debug
)

func (l Level) String() string {
	switch l {
	case Silent:
		return "SILENT"
	case Error:
		return "ERROR"
	case Info:
		return "INFO"
	case Debug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// Category groups related log lines by subsystem.
type Category string

const (
	CatServer      Category = "server"
	CatNode        Category = "node"
	CatScene       Category = "scene"
	CatContainer   Category = "container"
	CatWorkspace   Category = "workspace"
	CatTransaction Category = "txn"
	CatSeat        Category = "seat"
	CatCursor      Category = "cursor"
	CatOutput      Category = "output"
	CatView        Category = "view"
	CatXWayland    Category = "xwayland"
)

// TerminateFunc is invoked by Abort after logging. It is swappable so that
// init-path assertions (the only place that may abort, per spec §7) can be
// exercised in tests without calling os.Exit.
type TerminateFunc func(code int)

type logger struct {
	mu       sync.Mutex
	w        io.Writer
	minLevel Level
	terminate TerminateFunc
}

var (
	def     *logger
	defOnce sync.Once
)

func instance() *logger {
	defOnce.Do(func() {
		def = &logger{
			w:         os.Stderr,
			minLevel:  Error,
			terminate: func(code int) { os.Exit(code) },
		}
	})
	return def
}

// Init sets the process-wide minimum log level and output writer. Init is
// idempotent-safe: calling it again just mutates the already-constructed
// singleton, which is what cmd/wsm does once flags are parsed.
func Init(minLevel Level, w io.Writer) {
	l := instance()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.minLevel = minLevel
	if w != nil {
		l.w = w
	}
}

// SetTerminate overrides the callback Abort uses to end the process.
func SetTerminate(fn TerminateFunc) {
	l := instance()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.terminate = fn
}

func (l *logger) log(level Level, cat Category, msg string, fields ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level > l.minLevel || l.minLevel == Silent {
		return
	}
	ts := time.Now().Format("2006-01-02T15:04:05.000")
	line := fmt.Sprintf("%s [%s] [%s] %s", ts, level, cat, msg)
	for i := 0; i+1 < len(fields); i += 2 {
		line += fmt.Sprintf(" %v=%v", fields[i], fields[i+1])
	}
	if len(fields)%2 != 0 {
		line += fmt.Sprintf(" %v=<missing>", fields[len(fields)-1])
	}
	fmt.Fprintln(l.w, line)
}

// Debugf logs at Debug level.
func Debugf(cat Category, msg string, fields ...any) { instance().log(Debug, cat, msg, fields...) }

// Infof logs at Info level.
func Infof(cat Category, msg string, fields ...any) { instance().log(Info, cat, msg, fields...) }

// Errorf logs at Error level.
func Errorf(cat Category, msg string, fields ...any) { instance().log(Error, cat, msg, fields...) }

// Assert logs at Error level when cond is false and returns cond unchanged,
// mirroring original_source's _wsm_assert: callers use it as a guarded
// early-return rather than a panic.
func Assert(cond bool, cat Category, format string, args ...any) bool {
	if !cond {
		instance().log(Error, cat, "assertion failed: "+fmt.Sprintf(format, args...))
	}
	return cond
}

// Abort logs a fatal init-path error and terminates the process with exit
// code 1. Only the fatal-init branch of spec §7 may call this.
func Abort(cat Category, format string, args ...any) {
	l := instance()
	l.log(Error, cat, "fatal: "+fmt.Sprintf(format, args...))
	l.mu.Lock()
	term := l.terminate
	l.mu.Unlock()
	term(1)
}
