package reactive

// View is a wrapped window onto one nested object inside a namespace's data
// tree. Reads of nested objects return a fresh child View, reads of scalars
// and arrays return the raw value, and writes route through the owning
// State's mutation pipeline with the view's path as prefix. Views hold no
// data of their own and are rebuilt on every access.
type View struct {
	state *State
	path  string
}

// Path returns the dotted path this view is rooted at. The root view of a
// namespace has an empty path.
func (v *View) Path() string {
	return v.path
}

// Get reads key relative to the view root. Nested objects come back wrapped
// in a fresh View; unknown keys resolve to nil.
func (v *View) Get(key string) any {
	return v.state.Get(v.join(key))
}

// Has reports whether key resolves to a value under the view root.
func (v *View) Has(key string) bool {
	return v.state.Has(v.join(key))
}

// Set writes value at key relative to the view root, running the full
// mutation pipeline of the owning namespace.
func (v *View) Set(key string, value any) error {
	return v.state.Set(v.join(key), value)
}

// View returns a child view rooted at key.
func (v *View) View(key string) *View {
	return v.state.View(v.join(key))
}

func (v *View) join(key string) string {
	if v.path == "" {
		return key
	}
	if key == "" {
		return v.path
	}
	return v.path + "." + key
}
