package reactive

import (
	"errors"
	"reflect"
	"testing"
)

func TestSnapshotIsIndependentDeepCopy(t *testing.T) {
	s := newTestState(t, "t", map[string]any{
		"count": 1,
		"user":  map[string]any{"name": "ada"},
	})

	snap := s.Snapshot()
	if snap.Namespace != "t" {
		t.Fatalf("expected namespace t, got %q", snap.Namespace)
	}
	if snap.ID == "" || snap.Timestamp.IsZero() {
		t.Fatalf("expected snapshot id and timestamp, got %+v", snap)
	}

	if err := s.Set("user.name", "grace"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := snap.Data["user"].(map[string]any)["name"]; got != "ada" {
		t.Fatalf("expected snapshot unaffected by later writes, got %v", got)
	}

	snap.Data["count"] = 99
	if got := s.Get("count"); got != 1 {
		t.Fatalf("expected live tree unaffected by snapshot mutation, got %v", got)
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	s := newTestState(t, "t", map[string]any{
		"count": 1,
		"user":  map[string]any{"name": "ada"},
		"tags":  []any{"x"},
	})

	evaluations := 0
	if err := s.DefineComputed("summary", func() (any, error) {
		evaluations++
		return s.Get("user.name").(string), nil
	}); err != nil {
		t.Fatalf("define: %v", err)
	}
	if _, err := s.Computed("summary"); err != nil {
		t.Fatalf("computed: %v", err)
	}

	snap := s.Snapshot()

	if err := s.Set("count", 42); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set("user.name", "grace"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set("extra", true); err != nil {
		t.Fatalf("set: %v", err)
	}

	if err := s.Restore(snap); err != nil {
		t.Fatalf("restore: %v", err)
	}

	if got := s.Get("count"); got != 1 {
		t.Fatalf("expected count restored to 1, got %v", got)
	}
	if got := s.Get("user.name"); got != "ada" {
		t.Fatalf("expected user.name restored, got %v", got)
	}
	if s.Has("extra") {
		t.Fatalf("expected key introduced after the snapshot to be gone")
	}

	// Computed entries are dirty after a restore and re-evaluate against the
	// restored tree.
	value, err := s.Computed("summary")
	if err != nil {
		t.Fatalf("computed: %v", err)
	}
	if value != "ada" {
		t.Fatalf("expected computed to see restored data, got %v", value)
	}
	if evaluations != 2 {
		t.Fatalf("expected re-evaluation after restore, got %d evaluations", evaluations)
	}
}

func TestRestorePreservesBackingTreeIdentity(t *testing.T) {
	s := newTestState(t, "t", map[string]any{"count": 1})

	before := reflect.ValueOf(s.data).Pointer()
	snap := s.Snapshot()
	if err := s.Set("count", 2); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Restore(snap); err != nil {
		t.Fatalf("restore: %v", err)
	}
	after := reflect.ValueOf(s.data).Pointer()

	if before != after {
		t.Fatalf("expected restore to refill the existing tree, not replace it")
	}
}

func TestRestoreRejectsForeignNamespace(t *testing.T) {
	manager := NewManager()
	other, err := manager.CreateState("other", map[string]any{"count": 1})
	if err != nil {
		t.Fatalf("create other: %v", err)
	}
	test, err := manager.CreateState("test", map[string]any{"count": 1})
	if err != nil {
		t.Fatalf("create test: %v", err)
	}

	err = test.Restore(other.Snapshot())
	if err == nil {
		t.Fatalf("expected namespace mismatch error")
	}
	if !errors.Is(err, ErrNamespaceMismatch) {
		t.Fatalf("expected ErrNamespaceMismatch, got %v", err)
	}
}

func TestRestoreNotifiesChangedScalarPaths(t *testing.T) {
	s := newTestState(t, "t", map[string]any{"count": 1, "label": "fixed"})

	snap := s.Snapshot()
	if err := s.Set("count", 9); err != nil {
		t.Fatalf("set: %v", err)
	}

	type delivery struct {
		newValue any
		oldValue any
	}
	var countDeliveries []delivery
	labelCalls := 0
	s.Subscribe("count", func(newValue, oldValue any, _ ChangeRecord) {
		countDeliveries = append(countDeliveries, delivery{newValue, oldValue})
	})
	s.Subscribe("label", func(_, _ any, _ ChangeRecord) { labelCalls++ })

	if err := s.Restore(snap); err != nil {
		t.Fatalf("restore: %v", err)
	}

	if len(countDeliveries) != 1 {
		t.Fatalf("expected one notification for count, got %d", len(countDeliveries))
	}
	if countDeliveries[0].newValue != 1 || countDeliveries[0].oldValue != 9 {
		t.Fatalf("expected (1, 9), got (%v, %v)", countDeliveries[0].newValue, countDeliveries[0].oldValue)
	}
	// Scalar paths whose value did not change stay silent.
	if labelCalls != 0 {
		t.Fatalf("expected no notification for unchanged scalar, got %d", labelCalls)
	}
}

func TestRestoreComparesObjectPathsByReference(t *testing.T) {
	s := newTestState(t, "t", map[string]any{
		"user": map[string]any{"name": "ada"},
	})

	snap := s.Snapshot()

	calls := 0
	s.Subscribe("user", func(_, _ any, _ ChangeRecord) { calls++ })

	if err := s.Restore(snap); err != nil {
		t.Fatalf("restore: %v", err)
	}

	// The restored subtree is structurally identical but a different
	// reference, so the object-valued path still reports a change.
	if calls != 1 {
		t.Fatalf("expected reference-compared object path to notify, got %d", calls)
	}
}
