package reactive

import (
	"strings"
	"testing"
)

func TestSubscribeExactPath(t *testing.T) {
	s := newTestState(t, "t", map[string]any{"count": 0})

	var gotNew, gotOld any
	var gotRecord ChangeRecord
	calls := 0
	s.Subscribe("count", func(newValue, oldValue any, change ChangeRecord) {
		calls++
		gotNew, gotOld, gotRecord = newValue, oldValue, change
	})

	if err := s.Set("count", 1); err != nil {
		t.Fatalf("set: %v", err)
	}

	if calls != 1 {
		t.Fatalf("expected one call, got %d", calls)
	}
	if gotNew != 1 || gotOld != 0 {
		t.Fatalf("expected (1, 0), got (%v, %v)", gotNew, gotOld)
	}
	if gotRecord.Path != "count" || gotRecord.OldValue != 0 || gotRecord.NewValue != 1 {
		t.Fatalf("unexpected change record: %+v", gotRecord)
	}
	if gotRecord.Timestamp.IsZero() {
		t.Fatalf("expected change record timestamp")
	}
}

func TestSubscribersFireInRegistrationOrder(t *testing.T) {
	s := newTestState(t, "t", map[string]any{"count": 0})

	var order []string
	s.Subscribe("count", func(_, _ any, _ ChangeRecord) { order = append(order, "first") })
	s.Subscribe("count", func(_, _ any, _ ChangeRecord) { order = append(order, "second") })
	s.Subscribe("count", func(_, _ any, _ ChangeRecord) { order = append(order, "third") })

	if err := s.Set("count", 1); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := strings.Join(order, ","); got != "first,second,third" {
		t.Fatalf("expected registration order, got %s", got)
	}
}

func TestAncestorSubscribersReceiveCurrentValueTwice(t *testing.T) {
	s := newTestState(t, "t", map[string]any{
		"user": map[string]any{"profile": map[string]any{"name": "ada"}},
	})

	type delivery struct {
		path     string
		newValue any
		oldValue any
	}
	var deliveries []delivery
	record := func(path string) Callback {
		return func(newValue, oldValue any, _ ChangeRecord) {
			deliveries = append(deliveries, delivery{path, newValue, oldValue})
		}
	}
	s.Subscribe("user.profile.name", record("user.profile.name"))
	s.Subscribe("user.profile", record("user.profile"))
	s.Subscribe("user", record("user"))

	if err := s.Set("user.profile.name", "grace"); err != nil {
		t.Fatalf("set: %v", err)
	}

	if len(deliveries) != 3 {
		t.Fatalf("expected 3 deliveries, got %d", len(deliveries))
	}
	if deliveries[0].path != "user.profile.name" || deliveries[0].newValue != "grace" || deliveries[0].oldValue != "ada" {
		t.Fatalf("unexpected exact delivery: %+v", deliveries[0])
	}
	// Ancestors fire nearest first and receive the current ancestor value in
	// both positions.
	if deliveries[1].path != "user.profile" || deliveries[2].path != "user" {
		t.Fatalf("unexpected ancestor order: %+v", deliveries)
	}
	for _, d := range deliveries[1:] {
		if !sameValue(d.newValue, d.oldValue) {
			t.Fatalf("expected identical old/new at ancestor %q", d.path)
		}
		tree, ok := d.newValue.(map[string]any)
		if !ok {
			t.Fatalf("expected ancestor value to be the raw object, got %T", d.newValue)
		}
		if _, ok := lookupIn(tree, strings.TrimPrefix("user.profile.name", d.path+".")); !ok {
			t.Fatalf("expected ancestor value to contain the written leaf")
		}
	}
}

func TestAncestorWithoutSubscribersIsSkipped(t *testing.T) {
	s := newTestState(t, "t", map[string]any{
		"a": map[string]any{"b": map[string]any{"c": 1}},
	})

	calls := 0
	s.Subscribe("a", func(_, _ any, _ ChangeRecord) { calls++ })

	if err := s.Set("a.b.c", 2); err != nil {
		t.Fatalf("set: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected ancestor subscriber to fire once, got %d", calls)
	}
}

func TestUnsubscribeRemovesOnlyThatCallback(t *testing.T) {
	s := newTestState(t, "t", map[string]any{"count": 0})

	first, second := 0, 0
	unsubscribe := s.Subscribe("count", func(_, _ any, _ ChangeRecord) { first++ })
	s.Subscribe("count", func(_, _ any, _ ChangeRecord) { second++ })

	if err := s.Set("count", 1); err != nil {
		t.Fatalf("set: %v", err)
	}
	unsubscribe()
	if err := s.Set("count", 2); err != nil {
		t.Fatalf("set: %v", err)
	}

	if first != 1 {
		t.Fatalf("expected unsubscribed callback to stop firing, got %d", first)
	}
	if second != 2 {
		t.Fatalf("expected remaining callback to keep firing, got %d", second)
	}
	// Unsubscribing twice is harmless.
	unsubscribe()

	if _, ok := s.subscribers["count"]; !ok {
		t.Fatalf("expected path entry to remain while a subscriber is registered")
	}
}

func TestUnsubscribeCleansUpEmptyPathEntry(t *testing.T) {
	s := newTestState(t, "t", map[string]any{"count": 0})

	unsubscribe := s.Subscribe("count", func(_, _ any, _ ChangeRecord) {})
	unsubscribe()

	if _, ok := s.subscribers["count"]; ok {
		t.Fatalf("expected empty path entry to be removed")
	}
}

func TestPanickingSubscriberDoesNotBlockPeers(t *testing.T) {
	var logged []LogEvent
	s := newTestState(t, "t", map[string]any{"count": 0},
		WithLogger(LoggerFunc(func(event LogEvent) {
			logged = append(logged, event)
		})),
	)

	peerCalls := 0
	s.Subscribe("count", func(_, _ any, _ ChangeRecord) { panic("broken subscriber") })
	s.Subscribe("count", func(_, _ any, _ ChangeRecord) { peerCalls++ })

	if err := s.Set("count", 1); err != nil {
		t.Fatalf("expected write to survive subscriber panic: %v", err)
	}
	if peerCalls != 1 {
		t.Fatalf("expected peer subscriber to fire, got %d", peerCalls)
	}
	if got := s.Get("count"); got != 1 {
		t.Fatalf("expected write to stick, got %v", got)
	}

	found := false
	for _, event := range logged {
		if event.Op == "notify" && event.Err != nil && strings.Contains(event.Err.Error(), "broken subscriber") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected panic to be logged, got %+v", logged)
	}
}

func TestReentrantWriteFromCallback(t *testing.T) {
	s := newTestState(t, "t", map[string]any{"count": 0, "double": 0})

	s.Subscribe("count", func(newValue, _ any, _ ChangeRecord) {
		if err := s.Set("double", newValue.(int)*2); err != nil {
			t.Fatalf("reentrant set: %v", err)
		}
	})

	var observed []any
	s.Subscribe("double", func(newValue, _ any, _ ChangeRecord) {
		observed = append(observed, newValue)
	})

	if err := s.Set("count", 3); err != nil {
		t.Fatalf("set: %v", err)
	}

	// The nested write completes inline, before the outer Set returns.
	if got := s.Get("double"); got != 6 {
		t.Fatalf("expected reentrant write applied, got %v", got)
	}
	if len(observed) != 1 || observed[0] != 6 {
		t.Fatalf("expected one synchronous nested notification, got %v", observed)
	}
}

func TestCallbackMaySubscribeDuringDelivery(t *testing.T) {
	s := newTestState(t, "t", map[string]any{"count": 0})

	lateCalls := 0
	s.Subscribe("count", func(_, _ any, _ ChangeRecord) {
		s.Subscribe("count", func(_, _ any, _ ChangeRecord) { lateCalls++ })
	})

	if err := s.Set("count", 1); err != nil {
		t.Fatalf("set: %v", err)
	}
	// The late subscriber joins after the in-flight pass.
	if lateCalls != 0 {
		t.Fatalf("expected late subscriber to miss the triggering write, got %d", lateCalls)
	}
	if err := s.Set("count", 2); err != nil {
		t.Fatalf("set: %v", err)
	}
	if lateCalls != 1 {
		t.Fatalf("expected late subscriber to fire on next write, got %d", lateCalls)
	}
}
