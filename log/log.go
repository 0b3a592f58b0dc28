// Package log provides a simple logging abstraction for the taskcheck library.
//
// By default, the library uses a no-op logger that discards all output.
// Callers can configure logging by calling SetLogger with their preferred
// implementation.
//
// The package provides built-in support for zerolog via NewZerologAdapter,
// but any logger implementing the Logger interface can be used.
//
// Example with zerolog:
//
//	import (
//	    "os"
//	    "github.com/rs/zerolog"
//	    "github.com/kestrel-play/taskcheck/log"
//	)
//
//	func main() {
//	    zlog := zerolog.New(os.Stderr).With().Timestamp().Logger()
//	    log.SetLogger(log.NewZerologAdapter(zlog))
//	    // ... use the taskcheck library
//	}
package log

import (
	"sync"
)

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value any
}

// F creates a Field with the given key and value.
//
// Example:
//
//	log.Debug("scene validated", log.F("objects", len(objects)))
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Logger defines the interface for logging in the taskcheck library.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

var (
	globalLogger Logger = &noopLogger{}
	mu           sync.RWMutex
)

// SetLogger sets the global logger used by the taskcheck library.
// Pass nil to disable logging (uses a no-op logger).
//
// Safe to call from multiple goroutines.
func SetLogger(l Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		globalLogger = &noopLogger{}
	} else {
		globalLogger = l
	}
}

// GetLogger returns the current global logger.
func GetLogger() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}

// Debug logs a message at debug level using the global logger.
func Debug(msg string, fields ...Field) { GetLogger().Debug(msg, fields...) }

// Info logs a message at info level using the global logger.
func Info(msg string, fields ...Field) { GetLogger().Info(msg, fields...) }

// Warn logs a message at warn level using the global logger.
func Warn(msg string, fields ...Field) { GetLogger().Warn(msg, fields...) }

// Error logs a message at error level using the global logger.
func Error(msg string, fields ...Field) { GetLogger().Error(msg, fields...) }

type noopLogger struct{}

func (n *noopLogger) Debug(string, ...Field) {}
func (n *noopLogger) Info(string, ...Field)  {}
func (n *noopLogger) Warn(string, ...Field)  {}
func (n *noopLogger) Error(string, ...Field) {}
