package otel

import (
	"os"
	"sync/atomic"
)

// TraceEnv enables per-keystroke events when set to any non-empty value.
const TraceEnv = "NEWSFEED_TRACE"

var traceEnabled atomic.Bool

func init() {
	traceEnabled.Store(os.Getenv(TraceEnv) != "")
}

// TraceEnabled reports whether keystroke tracing is on.
func TraceEnabled() bool {
	return traceEnabled.Load()
}

// SetTraceEnabled overrides the environment setting, e.g. from a CLI flag.
func SetTraceEnabled(v bool) {
	traceEnabled.Store(v)
}
