package reactive

import (
	"time"

	"github.com/goliatone/go-reactive/pkg/activity"
)

// DefaultHistoryLimit bounds the number of change records a namespace
// retains when no explicit limit is configured.
const DefaultHistoryLimit = 100

// DefaultHistoryQuery is the number of records History returns when the
// caller does not request an explicit count.
const DefaultHistoryQuery = 10

// ChangeRecord is the tuple logged and broadcast on each accepted write. Old
// and new values are deep copies detached from the live tree.
type ChangeRecord struct {
	Path      string    `json:"path"`
	OldValue  any       `json:"old_value,omitempty"`
	NewValue  any       `json:"new_value,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Callback receives the value after the write, the value before it, and the
// change record produced by the write that triggered the notification.
// Ancestor-path subscribers receive the current ancestor value in both value
// positions.
type Callback func(newValue, oldValue any, change ChangeRecord)

// Getter produces a derived value from the namespace's current data. Getters
// must be pure; they may freely read the owning handle.
type Getter func() (any, error)

// Snapshot is an independent deep copy of one namespace's data tree at a
// point in time.
type Snapshot struct {
	ID        string         `json:"id"`
	Namespace string         `json:"namespace"`
	Data      map[string]any `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
}

// GlobalSnapshot aggregates one Snapshot per registered namespace.
type GlobalSnapshot struct {
	ID        string              `json:"id"`
	States    map[string]Snapshot `json:"states"`
	Timestamp time.Time           `json:"timestamp"`
}

// Option configures a Manager or an individual namespace. Options passed to
// NewManager become defaults for every namespace it creates; options passed
// to CreateState override those defaults for that namespace only.
type Option func(*config)

type config struct {
	historyLimit int
	logger       Logger
	evaluator    Evaluator
	programCache ProgramCache
	functions    *FunctionRegistry
	hooks        activity.Hooks
	defaults     []map[string]any
}

func defaultConfig() config {
	return config{
		historyLimit: DefaultHistoryLimit,
		logger:       noopLogger{},
	}
}

func (c config) apply(opts []Option) config {
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	return c
}

// WithHistoryLimit bounds the change-record log for a namespace. Values
// below one fall back to DefaultHistoryLimit.
func WithHistoryLimit(limit int) Option {
	return func(cfg *config) {
		if limit < 1 {
			cfg.historyLimit = DefaultHistoryLimit
			return
		}
		cfg.historyLimit = limit
	}
}

// WithEvaluator configures the expression engine backing DefineComputedExpr.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *config) {
		cfg.evaluator = e
	}
}

// WithDefaults layers fallback trees beneath the initial data passed to
// CreateState, ordered strongest to weakest. Explicit initial values win;
// missing keys are filled from the defaults.
func WithDefaults(defaults ...map[string]any) Option {
	return func(cfg *config) {
		cfg.defaults = append(cfg.defaults, defaults...)
	}
}

// WithActivityHooks attaches activity hooks notified after each accepted
// write, restore, and lifecycle transition. Nil entries are dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := make(activity.Hooks, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	return func(cfg *config) {
		if len(normalized) == 0 {
			cfg.hooks = nil
			return
		}
		cfg.hooks = normalized
	}
}
