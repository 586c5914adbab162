package reactive

import (
	"errors"
	"testing"

	"github.com/goliatone/go-reactive/pkg/activity"
)

func TestActivityHooksObserveLifecycle(t *testing.T) {
	capture := &activity.CaptureHook{}
	manager := NewManager(WithActivityHooks(activity.Hooks{capture}))

	state, err := manager.CreateState("settings", map[string]any{"theme": "light"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	snap := state.Snapshot()
	if err := state.Set("theme", "dark"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := state.Restore(snap); err != nil {
		t.Fatalf("restore: %v", err)
	}
	manager.DeleteState("settings")

	verbs := make([]string, 0, len(capture.Events))
	for _, event := range capture.Events {
		verbs = append(verbs, event.Verb)
	}
	want := []string{"state.created", "state.changed", "state.restored", "state.destroyed"}
	if len(verbs) != len(want) {
		t.Fatalf("expected verbs %v, got %v", want, verbs)
	}
	for i := range want {
		if verbs[i] != want[i] {
			t.Fatalf("expected verbs %v, got %v", want, verbs)
		}
	}

	changed := capture.Events[1]
	if changed.ObjectType != "state" || changed.ObjectID != "settings" {
		t.Fatalf("unexpected change event: %+v", changed)
	}
	if changed.Metadata["path"] != "theme" || changed.Metadata["old_value"] != "light" || changed.Metadata["new_value"] != "dark" {
		t.Fatalf("unexpected change metadata: %v", changed.Metadata)
	}

	restored := capture.Events[2]
	if restored.Metadata["snapshot_id"] != snap.ID {
		t.Fatalf("expected restore event to carry snapshot id, got %v", restored.Metadata)
	}
}

func TestActivityHookErrorsAreLoggedNotPropagated(t *testing.T) {
	failure := errors.New("sink down")
	capture := &activity.CaptureHook{Err: failure}

	var logged []LogEvent
	manager := NewManager(
		WithActivityHooks(activity.Hooks{capture}),
		WithLogger(LoggerFunc(func(event LogEvent) { logged = append(logged, event) })),
	)

	state, err := manager.CreateState("settings", map[string]any{"theme": "light"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := state.Set("theme", "dark"); err != nil {
		t.Fatalf("expected hook failure kept out of the write path, got %v", err)
	}
	if got := state.Get("theme"); got != "dark" {
		t.Fatalf("expected write applied despite hook failure, got %v", got)
	}

	found := false
	for _, event := range logged {
		if event.Op == "activity" && event.Namespace == "settings" && errors.Is(event.Err, failure) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected hook failure logged under activity op, got %+v", logged)
	}
}

func TestNoOpWritesEmitNoActivity(t *testing.T) {
	capture := &activity.CaptureHook{}
	manager := NewManager(WithActivityHooks(activity.Hooks{capture}))

	state, err := manager.CreateState("settings", map[string]any{"theme": "light"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	created := len(capture.Events)

	if err := state.Set("theme", "light"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if len(capture.Events) != created {
		t.Fatalf("expected no activity for a no-op write, got %d new events", len(capture.Events)-created)
	}
}
