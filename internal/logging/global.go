package logging

import "sync"

var (
	globalLogger *Logger
	globalMu     sync.RWMutex
)

func init() {
	globalLogger = DefaultLogger()
}

// SetGlobal sets the global logger.
func SetGlobal(l *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = l
}

// Global returns the global logger.
func Global() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// Configure creates and sets a global logger from config values.
// This is typically called during application startup.
func Configure(level, format string) *Logger {
	l := New(Config{
		Level:  ParseLevel(level),
		Format: ParseFormat(format),
	})
	SetGlobal(l)
	return l
}
