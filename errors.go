package reactive

import "errors"

var (
	// ErrNamespaceExists indicates CreateState was called for a namespace that
	// is already registered.
	ErrNamespaceExists = errors.New("reactive: namespace already exists")
	// ErrComputedExists indicates DefineComputed was called twice for the same
	// name within one namespace.
	ErrComputedExists = errors.New("reactive: computed property already defined")
	// ErrUnknownComputed indicates a computed read for a name that was never
	// defined on the namespace.
	ErrUnknownComputed = errors.New("reactive: computed property not defined")
	// ErrNamespaceMismatch indicates Restore received a snapshot captured from
	// a different namespace.
	ErrNamespaceMismatch = errors.New("reactive: snapshot namespace mismatch")
	// ErrInvalidSnapshot indicates Manager.Restore received a malformed global
	// snapshot.
	ErrInvalidSnapshot = errors.New("reactive: invalid global snapshot")
	// ErrPathNotFound indicates a write addressed a path whose intermediate
	// segments do not resolve to nested objects.
	ErrPathNotFound = errors.New("reactive: path not found")
)
