package activity

import "time"

// StateEventInput describes the common fields for state lifecycle and
// mutation events.
type StateEventInput struct {
	ActorID    string
	UserID     string
	TenantID   string
	Channel    string
	Recipients []string
	Metadata   map[string]any
	Namespace  string
	Path       string
	OldValue   any
	NewValue   any
	SnapshotID string
	OccurredAt time.Time
}

// BuildStateCreatedEvent constructs a normalized event for namespace creation.
func BuildStateCreatedEvent(input StateEventInput) Event {
	return buildStateEvent("state.created", input)
}

// BuildStateChangedEvent constructs a normalized event for one accepted write.
func BuildStateChangedEvent(input StateEventInput) Event {
	return buildStateEvent("state.changed", input)
}

// BuildStateRestoredEvent constructs a normalized event for a snapshot restore.
func BuildStateRestoredEvent(input StateEventInput) Event {
	return buildStateEvent("state.restored", input)
}

// BuildStateDestroyedEvent constructs a normalized event for namespace removal.
func BuildStateDestroyedEvent(input StateEventInput) Event {
	return buildStateEvent("state.destroyed", input)
}

func buildStateEvent(verb string, input StateEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if input.Path != "" {
		metadata = ensureMetadata(metadata)
		metadata["path"] = input.Path
		metadata["old_value"] = input.OldValue
		metadata["new_value"] = input.NewValue
	}
	if input.SnapshotID != "" {
		metadata = ensureMetadata(metadata)
		metadata["snapshot_id"] = input.SnapshotID
	}

	return NormalizeEvent(Event{
		Verb:       verb,
		ActorID:    input.ActorID,
		UserID:     input.UserID,
		TenantID:   input.TenantID,
		ObjectType: "state",
		ObjectID:   input.Namespace,
		Channel:    input.Channel,
		Recipients: input.Recipients,
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	})
}

func ensureMetadata(metadata map[string]any) map[string]any {
	if metadata == nil {
		return map[string]any{}
	}
	return metadata
}
