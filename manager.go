package reactive

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-reactive/pkg/activity"
	"github.com/google/uuid"
)

// Manager owns the mapping from namespace name to State. It is an explicitly
// constructed registry value meant to be injected wherever state access is
// needed; its lifetime belongs to the owning application container. The
// registry map itself is safe for concurrent use, but individual State
// instances retain their single-writer contract.
type Manager struct {
	mu     sync.RWMutex
	states map[string]*State
	cfg    config
}

// NewManager constructs an empty registry. Options become defaults applied
// to every namespace this manager creates.
func NewManager(opts ...Option) *Manager {
	return &Manager{
		states: map[string]*State{},
		cfg:    defaultConfig().apply(opts),
	}
}

// CreateState registers a new namespace seeded with a deep copy of initial
// and returns its handle. Creating a namespace that already exists fails.
// Per-call options override the manager-level defaults for this namespace.
func (m *Manager) CreateState(namespace string, initial map[string]any, opts ...Option) (*State, error) {
	if namespace == "" {
		return nil, fmt.Errorf("reactive: namespace is required")
	}

	m.mu.Lock()
	if _, exists := m.states[namespace]; exists {
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", ErrNamespaceExists, namespace)
	}
	state := newState(namespace, initial, m.cfg.apply(opts))
	m.states[namespace] = state
	m.mu.Unlock()

	if state.emitter.Enabled() {
		event := activity.BuildStateCreatedEvent(activity.StateEventInput{
			Namespace:  namespace,
			OccurredAt: time.Now(),
		})
		if err := state.emitter.Emit(context.Background(), event); err != nil {
			state.logger().Log(LogEvent{Op: "activity", Namespace: namespace, Err: err})
		}
	}
	return state, nil
}

// GetState returns the handle registered under namespace, or nil when the
// namespace is unknown. Unknown lookups are deliberately non-throwing so
// callers can probe without guarding; every other invalid operation on the
// registry returns an error.
func (m *Manager) GetState(namespace string) *State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.states[namespace]
}

// HasState reports whether namespace is registered.
func (m *Manager) HasState(namespace string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.states[namespace]
	return ok
}

// DeleteState removes the namespace entry and reports whether it existed.
// Outstanding handles and subscriber registrations are not torn down; holding
// a stale handle after deletion is a caller error the registry does not guard
// against.
func (m *Manager) DeleteState(namespace string) bool {
	m.mu.Lock()
	state, ok := m.states[namespace]
	delete(m.states, namespace)
	m.mu.Unlock()

	if ok && state.emitter.Enabled() {
		event := activity.BuildStateDestroyedEvent(activity.StateEventInput{
			Namespace:  namespace,
			OccurredAt: time.Now(),
		})
		if err := state.emitter.Emit(context.Background(), event); err != nil {
			state.logger().Log(LogEvent{Op: "activity", Namespace: namespace, Err: err})
		}
	}
	return ok
}

// DestroyState is an alias for DeleteState kept for feature-lifecycle
// callers that pair it with CreateState during uninstall.
func (m *Manager) DestroyState(namespace string) bool {
	return m.DeleteState(namespace)
}

// Namespaces returns every registered namespace, sorted.
func (m *Manager) Namespaces() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	namespaces := make([]string, 0, len(m.states))
	for namespace := range m.states {
		namespaces = append(namespaces, namespace)
	}
	sort.Strings(namespaces)
	return namespaces
}

// Clear removes every namespace from the registry.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states = map[string]*State{}
}

// Snapshot aggregates one snapshot per registered namespace.
func (m *Manager) Snapshot() GlobalSnapshot {
	m.mu.RLock()
	states := make([]*State, 0, len(m.states))
	for _, state := range m.states {
		states = append(states, state)
	}
	m.mu.RUnlock()

	global := GlobalSnapshot{
		ID:        uuid.NewString(),
		States:    make(map[string]Snapshot, len(states)),
		Timestamp: time.Now(),
	}
	for _, state := range states {
		global.States[state.Namespace()] = state.Snapshot()
	}
	return global
}

// Restore applies each snapshot in the global snapshot to its matching
// registered namespace. A snapshot for an unregistered namespace is skipped
// with a warning, not an error; a global snapshot without a states mapping
// is rejected.
func (m *Manager) Restore(global GlobalSnapshot) error {
	if global.States == nil {
		return fmt.Errorf("%w: missing states mapping", ErrInvalidSnapshot)
	}

	namespaces := make([]string, 0, len(global.States))
	for namespace := range global.States {
		namespaces = append(namespaces, namespace)
	}
	sort.Strings(namespaces)

	for _, namespace := range namespaces {
		state := m.GetState(namespace)
		if state == nil {
			m.logger().Log(LogEvent{
				Op:        "restore",
				Namespace: namespace,
				Err:       fmt.Errorf("reactive: namespace %q not registered, snapshot skipped", namespace),
			})
			continue
		}
		if err := state.Restore(global.States[namespace]); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) logger() Logger {
	if m.cfg.logger != nil {
		return m.cfg.logger
	}
	return noopLogger{}
}
