package ai

import "sync/atomic"

// debugLoggingEnabled guards per-turn debug logs of the AI.
// Set via EnableDebugLogging() from main after the log level is known.
var debugLoggingEnabled atomic.Bool

// EnableDebugLogging enables or disables debug logging for AI decisions.
func EnableDebugLogging(enabled bool) {
	debugLoggingEnabled.Store(enabled)
}

// IsDebugEnabled returns true if debug logging is enabled.
func IsDebugEnabled() bool {
	return debugLoggingEnabled.Load()
}
