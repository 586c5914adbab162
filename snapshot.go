package reactive

import (
	"fmt"
	"sort"
	"time"

	"github.com/goliatone/go-reactive/deepcopy"
	"github.com/google/uuid"
)

// Snapshot captures a deep copy of the namespace's data tree. The returned
// snapshot shares no references with the live tree.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		ID:        uuid.NewString(),
		Namespace: s.namespace,
		Data:      deepcopy.Clone(s.data),
		Timestamp: time.Now(),
	}
}

// Restore replaces the tree's contents with deep copies of the snapshot's
// data. The backing object held by external references is preserved: its own
// keys are cleared in place and refilled, never swapped for a new map. Every
// computed entry is then marked dirty, and a notification pass fires each
// subscribed path whose value before and after restoration differs under the
// same strict comparison writes use — structurally equal trees still notify
// when their references differ.
func (s *State) Restore(snap Snapshot) error {
	if snap.Namespace != s.namespace {
		return fmt.Errorf("%w: snapshot from %q, state is %q", ErrNamespaceMismatch, snap.Namespace, s.namespace)
	}

	before := deepcopy.Clone(s.data)
	for key := range s.data {
		delete(s.data, key)
	}
	for key, value := range snap.Data {
		s.data[key] = deepcopy.Clone(value)
	}

	s.dirtyAll()

	paths := s.subscribedPaths()
	sort.Strings(paths)
	now := time.Now()
	for _, path := range paths {
		oldValue, _ := lookupIn(before, path)
		newValue, _ := s.lookup(path)
		if sameValue(oldValue, newValue) {
			continue
		}
		s.deliver(path, newValue, oldValue, ChangeRecord{
			Path:      path,
			OldValue:  oldValue,
			NewValue:  deepcopy.Clone(newValue),
			Timestamp: now,
		})
	}

	s.emitRestored(snap)
	return nil
}
