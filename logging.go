package reactive

import "time"

// LogEvent describes a diagnostic occurrence inside the engine: a subscriber
// panic, a computed evaluation, an activity hook failure, or a skipped
// restore entry.
type LogEvent struct {
	Op        string
	Namespace string
	Path      string
	Engine    string
	Duration  time.Duration
	Err       error
}

// Logger records engine diagnostics.
type Logger interface {
	Log(LogEvent)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(LogEvent)

// Log implements Logger.
func (f LoggerFunc) Log(event LogEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) Log(LogEvent) {}

// WithLogger attaches a diagnostics logger to the engine configuration.
func WithLogger(logger Logger) Option {
	return func(cfg *config) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}
