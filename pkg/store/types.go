package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	reactive "github.com/goliatone/go-reactive"
	"github.com/google/uuid"
)

var ErrETagMismatch = errors.New("store: etag mismatch")

// Ref identifies one persisted snapshot for one namespace.
type Ref struct {
	Namespace string
}

// Identifier returns the canonical storage key for the reference.
func (r Ref) Identifier() (string, error) {
	if r.Namespace == "" {
		return "", fmt.Errorf("store: namespace is required")
	}
	return fmt.Sprintf("state/%s", r.Namespace), nil
}

// Meta is storage-owned metadata used for trace/audit and concurrency control.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty"`
	ETag       string            `json:"etag,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Store loads/saves one snapshot for a single namespace reference.
type Store interface {
	Load(ctx context.Context, ref Ref) (snapshot reactive.Snapshot, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, snapshot reactive.Snapshot, meta Meta) (Meta, error)
}

// Archiver moves snapshots between a Manager and a Store.
type Archiver struct {
	Store Store
}

// Save persists one namespace's current snapshot. When meta.ETag is set it
// must match the stored ETag or the write is rejected with ErrETagMismatch.
// The returned Meta carries a fresh ETag.
func (a Archiver) Save(ctx context.Context, state *reactive.State, meta Meta) (Meta, error) {
	if a.Store == nil {
		return Meta{}, fmt.Errorf("store: store is required")
	}
	if state == nil {
		return Meta{}, fmt.Errorf("store: state is required")
	}

	ref := Ref{Namespace: state.Namespace()}
	_, storedMeta, ok, err := a.Store.Load(ctx, ref)
	if err != nil {
		return Meta{}, fmt.Errorf("store: load %q: %w", state.Namespace(), err)
	}
	if ok && meta.ETag != "" && storedMeta.ETag != "" && meta.ETag != storedMeta.ETag {
		return storedMeta, fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, meta.ETag, storedMeta.ETag)
	}

	snapshot := state.Snapshot()
	saveMeta := meta
	saveMeta.SnapshotID = snapshot.ID
	saveMeta.ETag = uuid.NewString()
	saveMeta.UpdatedAt = snapshot.Timestamp

	savedMeta, err := a.Store.Save(ctx, ref, snapshot, saveMeta)
	if err != nil {
		return Meta{}, fmt.Errorf("store: save %q: %w", state.Namespace(), err)
	}
	return savedMeta, nil
}

// SaveAll persists a snapshot for every namespace registered on the manager.
func (a Archiver) SaveAll(ctx context.Context, manager *reactive.Manager) error {
	if a.Store == nil {
		return fmt.Errorf("store: store is required")
	}
	if manager == nil {
		return fmt.Errorf("store: manager is required")
	}

	global := manager.Snapshot()
	for _, namespace := range manager.Namespaces() {
		snapshot, ok := global.States[namespace]
		if !ok {
			continue
		}
		meta := Meta{
			SnapshotID: snapshot.ID,
			ETag:       uuid.NewString(),
			UpdatedAt:  snapshot.Timestamp,
		}
		if _, err := a.Store.Save(ctx, Ref{Namespace: namespace}, snapshot, meta); err != nil {
			return fmt.Errorf("store: save %q: %w", namespace, err)
		}
	}
	return nil
}

// LoadAll restores every registered namespace from its stored snapshot.
// Namespaces without a stored snapshot are left untouched.
func (a Archiver) LoadAll(ctx context.Context, manager *reactive.Manager) error {
	if a.Store == nil {
		return fmt.Errorf("store: store is required")
	}
	if manager == nil {
		return fmt.Errorf("store: manager is required")
	}

	states := make(map[string]reactive.Snapshot)
	for _, namespace := range manager.Namespaces() {
		snapshot, _, ok, err := a.Store.Load(ctx, Ref{Namespace: namespace})
		if err != nil {
			return fmt.Errorf("store: load %q: %w", namespace, err)
		}
		if !ok {
			continue
		}
		states[namespace] = snapshot
	}
	if len(states) == 0 {
		return nil
	}
	return manager.Restore(reactive.GlobalSnapshot{
		ID:        uuid.NewString(),
		States:    states,
		Timestamp: time.Now(),
	})
}
