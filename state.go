package reactive

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/goliatone/go-reactive/deepcopy"
	"github.com/goliatone/go-reactive/pkg/activity"
)

// State is the public handle for one namespace: a nested data tree whose
// reads and writes route through a single interception pipeline that drives
// history, subscriber fan-out, and computed-property invalidation.
//
// A State is deliberately synchronous and reentrant: subscriber callbacks run
// inline on the writing goroutine, and a callback that writes back into the
// same namespace re-enters the pipeline immediately with no recursion guard.
// Callers own arbitration; confine each State to a single writing goroutine
// or guard the whole instance with one mutex.
type State struct {
	namespace string
	data      map[string]any
	cfg       config

	subscribers map[string][]*subscription
	computed    map[string]*computedEntry
	history     *historyLog
	emitter     *activity.Emitter
}

func newState(namespace string, initial map[string]any, cfg config) *State {
	data := deepcopy.Clone(initial)
	if data == nil {
		data = map[string]any{}
	}
	if len(cfg.defaults) > 0 {
		trees := append([]map[string]any{data}, cfg.defaults...)
		data = deepcopy.Merge(trees...)
	}
	return &State{
		namespace:   namespace,
		data:        data,
		cfg:         cfg,
		subscribers: map[string][]*subscription{},
		computed:    map[string]*computedEntry{},
		history:     newHistoryLog(cfg.historyLimit),
		emitter:     activity.NewEmitter(cfg.hooks, activity.Config{Enabled: len(cfg.hooks) > 0}),
	}
}

// Namespace returns the key scoping this state container.
func (s *State) Namespace() string {
	return s.namespace
}

// Get resolves a dotted path against the data tree. Scalars and arrays are
// returned raw; nested objects come back as a fresh View so further access
// keeps routing through the pipeline. Unknown paths resolve to nil.
func (s *State) Get(path string) any {
	value, ok := s.lookup(path)
	if !ok {
		return nil
	}
	if _, isTree := value.(map[string]any); isTree {
		return &View{state: s, path: path}
	}
	return value
}

// Has reports whether path resolves to a value in the data tree.
func (s *State) Has(path string) bool {
	_, ok := s.lookup(path)
	return ok
}

// View returns a lazily wrapped view rooted at path. A fresh View is built on
// every call; views are never cached.
func (s *State) View(path string) *View {
	return &View{state: s, path: path}
}

// Set writes value at the dotted path and runs the mutation pipeline: a write
// whose new value is strictly equal to the current one (reference equality
// for maps, slices, and functions) is a complete no-op; otherwise the raw
// value is assigned, a change record is appended to history, exact and
// ancestor subscribers fire synchronously, and every computed entry is marked
// dirty. Intermediate path segments must already exist as nested objects; the
// final segment may introduce a new key.
func (s *State) Set(path string, value any) error {
	parent, key, err := s.resolveParent(path)
	if err != nil {
		return err
	}
	oldValue := parent[key]
	if sameValue(oldValue, value) {
		return nil
	}
	parent[key] = value

	record := ChangeRecord{
		Path:      path,
		OldValue:  deepcopy.Clone(oldValue),
		NewValue:  deepcopy.Clone(value),
		Timestamp: time.Now(),
	}
	s.history.append(record)
	s.notify(path, value, oldValue, record)
	s.dirtyAll()
	s.emitChanged(record)
	return nil
}

// lookup resolves path to the raw value without wrapping.
func (s *State) lookup(path string) (any, bool) {
	return lookupIn(s.data, path)
}

func lookupIn(tree map[string]any, path string) (any, bool) {
	if path == "" {
		return tree, true
	}
	var node any = tree
	for _, segment := range strings.Split(path, ".") {
		branch, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		node, ok = branch[segment]
		if !ok {
			return nil, false
		}
	}
	return node, true
}

func (s *State) resolveParent(path string) (map[string]any, string, error) {
	if path == "" {
		return nil, "", fmt.Errorf("reactive: path must not be empty")
	}
	segments := strings.Split(path, ".")
	node := s.data
	for i := 0; i < len(segments)-1; i++ {
		child, ok := node[segments[i]].(map[string]any)
		if !ok {
			return nil, "", fmt.Errorf("%w: %q has no object at %q", ErrPathNotFound, path, strings.Join(segments[:i+1], "."))
		}
		node = child
	}
	return node, segments[len(segments)-1], nil
}

// sameValue mirrors strict equality: comparable values compare by value,
// maps, slices, and functions compare by reference identity.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	av := reflect.ValueOf(a)
	bv := reflect.ValueOf(b)
	if av.Type() != bv.Type() {
		return false
	}
	switch av.Kind() {
	case reflect.Map, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return av.Pointer() == bv.Pointer()
	case reflect.Slice:
		// Distinct zero-capacity allocations share the runtime zero base, so a
		// matching pointer only proves identity for non-empty or nil slices.
		if av.Len() == 0 {
			return bv.Len() == 0 && av.IsNil() && bv.IsNil()
		}
		return av.Pointer() == bv.Pointer() && av.Len() == bv.Len()
	case reflect.Pointer:
		return av.Pointer() == bv.Pointer()
	default:
		if !av.Type().Comparable() {
			return false
		}
		return a == b
	}
}

func (s *State) logger() Logger {
	if s.cfg.logger != nil {
		return s.cfg.logger
	}
	return noopLogger{}
}

func (s *State) emitChanged(record ChangeRecord) {
	if !s.emitter.Enabled() {
		return
	}
	event := activity.BuildStateChangedEvent(activity.StateEventInput{
		Namespace:  s.namespace,
		Path:       record.Path,
		OldValue:   record.OldValue,
		NewValue:   record.NewValue,
		OccurredAt: record.Timestamp,
	})
	if err := s.emitter.Emit(context.Background(), event); err != nil {
		s.logger().Log(LogEvent{Op: "activity", Namespace: s.namespace, Path: record.Path, Err: err})
	}
}

func (s *State) emitRestored(snap Snapshot) {
	if !s.emitter.Enabled() {
		return
	}
	event := activity.BuildStateRestoredEvent(activity.StateEventInput{
		Namespace:  s.namespace,
		SnapshotID: snap.ID,
		OccurredAt: time.Now(),
	})
	if err := s.emitter.Emit(context.Background(), event); err != nil {
		s.logger().Log(LogEvent{Op: "activity", Namespace: s.namespace, Err: err})
	}
}
