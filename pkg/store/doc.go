// Package store defines persistence-facing contracts for saving and loading
// namespace snapshots, plus a small archiver that moves whole-manager global
// snapshots through any Store implementation.
//
// Responsibilities:
//   - Store only loads/saves a single snapshot for a single Ref.
//   - Archiver iterates a Manager's registered namespaces and delegates the
//     per-namespace work to the Store.
//   - The core reactive package remains persistence-agnostic; all durability
//     decisions stay behind Store implementations supplied by consumers.
//
// Deterministic keys:
//
//	Ref.Identifier() provides the canonical storage key (`state/<namespace>`)
//	so independent Store implementations agree on layout.
//
// Concurrency control:
//
//	Meta.ETag supports optimistic concurrency: Archiver.Save rejects a write
//	whose expected ETag no longer matches the stored one.
package store
