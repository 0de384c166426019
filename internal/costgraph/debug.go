package costgraph

import (
	"io"
	"log"
	"sync"
)

// LogWriters holds the io.Writers for each logging stream.
type LogWriters struct {
	Ops   io.Writer
	Diag  io.Writer
	Trace io.Writer
}

var (
	logMu       sync.RWMutex
	opsLogger   *log.Logger
	diagLogger  *log.Logger
	traceLogger *log.Logger
)

// SetLogWriters configures the three logging streams. A nil writer mutes
// its stream; all streams are muted until this is called.
func SetLogWriters(w LogWriters) {
	logMu.Lock()
	defer logMu.Unlock()
	opsLogger = newLogger(w.Ops)
	diagLogger = newLogger(w.Diag)
	traceLogger = newLogger(w.Trace)
}

func newLogger(w io.Writer) *log.Logger {
	if w == nil {
		return nil
	}
	return log.New(w, "[costgraph] ", log.LstdFlags|log.Lmicroseconds)
}

func logTo(l **log.Logger, format string, args ...interface{}) {
	logMu.RLock()
	lg := *l
	logMu.RUnlock()
	if lg != nil {
		lg.Printf(format, args...)
	}
}

// Opsf logs rejected builds and other actionable events.
func Opsf(format string, args ...interface{}) { logTo(&opsLogger, format, args...) }

// Diagf logs one summary line per build.
func Diagf(format string, args ...interface{}) { logTo(&diagLogger, format, args...) }

// Tracef logs per-column detail. It is very chatty on large sets.
func Tracef(format string, args ...interface{}) { logTo(&traceLogger, format, args...) }
