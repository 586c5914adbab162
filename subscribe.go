package reactive

import (
	"fmt"
	"strings"
)

type subscription struct {
	path string
	fn   Callback
}

// Subscribe registers fn under the dotted path and returns an unsubscribe
// function that removes just that registration. Subscribers on the same path
// fire in registration order. A subscriber fires when its exact path changes,
// and also when any strict descendant of its path changes; descendant-driven
// notifications deliver the current value at the subscribed path in both
// value positions.
func (s *State) Subscribe(path string, fn Callback) func() {
	sub := &subscription{path: path, fn: fn}
	s.subscribers[path] = append(s.subscribers[path], sub)

	return func() {
		subs := s.subscribers[path]
		for i, candidate := range subs {
			if candidate == sub {
				s.subscribers[path] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
		if len(s.subscribers[path]) == 0 {
			delete(s.subscribers, path)
		}
	}
}

// notify fans a write out to exact-path subscribers, then to every strict
// ancestor path, nearest first. Callbacks run inline; a callback that writes
// back into the namespace re-enters the pipeline immediately.
func (s *State) notify(path string, newValue, oldValue any, record ChangeRecord) {
	s.deliver(path, newValue, oldValue, record)

	segments := strings.Split(path, ".")
	for end := len(segments) - 1; end > 0; end-- {
		ancestor := strings.Join(segments[:end], ".")
		if len(s.subscribers[ancestor]) == 0 {
			continue
		}
		current, _ := s.lookup(ancestor)
		s.deliver(ancestor, current, current, record)
	}
}

// deliver invokes every callback registered at path against a snapshot of
// the registration list, so callbacks may subscribe or unsubscribe without
// disturbing the in-flight pass.
func (s *State) deliver(path string, newValue, oldValue any, record ChangeRecord) {
	registered := s.subscribers[path]
	if len(registered) == 0 {
		return
	}
	subs := make([]*subscription, len(registered))
	copy(subs, registered)
	for _, sub := range subs {
		s.invoke(sub, newValue, oldValue, record)
	}
}

// invoke isolates one callback: a panicking subscriber is logged and never
// blocks delivery to its peers or rolls back the write.
func (s *State) invoke(sub *subscription, newValue, oldValue any, record ChangeRecord) {
	defer func() {
		if r := recover(); r != nil {
			s.logger().Log(LogEvent{
				Op:        "notify",
				Namespace: s.namespace,
				Path:      sub.path,
				Err:       fmt.Errorf("reactive: subscriber panic: %v", r),
			})
		}
	}()
	sub.fn(newValue, oldValue, record)
}

// subscribedPaths returns every path with at least one live subscriber.
func (s *State) subscribedPaths() []string {
	paths := make([]string, 0, len(s.subscribers))
	for path := range s.subscribers {
		paths = append(paths, path)
	}
	return paths
}
