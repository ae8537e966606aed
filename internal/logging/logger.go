package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/pterm/pterm"
)

// Enumeration of the different log levels
const (
	LogLevelSilent  = iota // no output at all
	LogLevelError          // only errors
	LogLevelWarning        // errors and warnings
	LogLevelVerbose        // errors, warnings and stage progress
	LogLevelTrace          // everything, including internal stacks
)

type logger struct {
	level   int
	timings bool
	out     io.Writer
	m       sync.Mutex
}

var std = &logger{level: LogLevelError, out: os.Stderr}

// Initialize sets the log level from its name. Unknown names mean verbose.
func Initialize(loglevelname string) {
	var level int
	switch loglevelname {
	case "silent":
		level = LogLevelSilent
	case "error":
		level = LogLevelError
	case "warn", "warning":
		level = LogLevelWarning
	case "trace":
		level = LogLevelTrace
	default:
		level = LogLevelVerbose
	}
	std.m.Lock()
	std.level = level
	std.m.Unlock()
}

func Level() int {
	std.m.Lock()
	defer std.m.Unlock()
	return std.level
}

// SetOutput redirects diagnostics; program output never goes through here.
func SetOutput(w io.Writer) {
	std.m.Lock()
	std.out = w
	std.m.Unlock()
}

// SetColor turns terminal styling on or off.
func SetColor(enabled bool) {
	if enabled {
		pterm.EnableColor()
	} else {
		pterm.DisableColor()
	}
}

// EnableTimings makes Timing print regardless of the log level.
func EnableTimings(enabled bool) {
	std.m.Lock()
	std.timings = enabled
	std.m.Unlock()
}

func (l *logger) print(level int, s string) {
	l.m.Lock()
	defer l.m.Unlock()
	if l.level >= level {
		fmt.Fprint(l.out, s)
	}
}

// Stage announces a pipeline stage at verbose level.
func Stage(name string) {
	std.print(LogLevelVerbose, InfoColorFG.Sprint("==> ")+name+"\n")
}

// Timing reports how long a stage took.
func Timing(name string, d time.Duration) {
	level := LogLevelVerbose
	std.m.Lock()
	if std.timings {
		level = LogLevelSilent
	}
	std.m.Unlock()
	std.print(level, fmt.Sprintf("%-14s %s\n", name, InfoColorFG.Sprint(d)))
}

// Trace prints interpreter internals at trace level.
func Trace(format string, args ...interface{}) {
	std.print(LogLevelTrace, pterm.FgGray.Sprintf(format, args...)+"\n")
}
