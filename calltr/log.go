package calltr

// logging functions

import (
	"github.com/intuitivelabs/slog"
)

// Log is the package-wide logger. Embedding processes that want their own
// sink or level can replace it wholesale before processing any traffic.
var Log slog.Log = slog.New(slog.LERR, slog.LbackTraceL|slog.LlocInfoL,
	slog.LStdErr)

// WARN is a shorthand for logging a warning message.
func WARN(f string, a ...interface{}) {
	Log.LLog(slog.LWARN, 1, "WARNING: calltr: ", f, a...)
}

// ERR is a shorthand for logging an error message.
func ERR(f string, a ...interface{}) {
	Log.LLog(slog.LERR, 1, "ERROR: calltr: ", f, a...)
}

// BUG logs an internal inconsistency. It never panics: per the package's
// "never crash on unexpected traffic" contract, a BUG report is a signal
// for whoever watches the logs, not a reason to take the process down.
func BUG(f string, a ...interface{}) {
	Log.LLog(slog.LBUG, 1, "BUG: calltr: ", f, a...)
}
