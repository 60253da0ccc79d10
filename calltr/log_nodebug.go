//+build nodebug

package calltr

// logging functions, no debug version (empty, do nothing functions)

// DBGon reports whether debug logging is enabled.
func DBGon() bool {
	return false
}

// DBG is a shorthand for logging a debug message.
func DBG(f string, a ...interface{}) {
}
