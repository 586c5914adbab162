package reactive

// ProgramCache stores compiled expression programs keyed by expression
// strings, so repeated DefineComputedExpr calls across namespaces reuse
// compilation work.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// WithProgramCache registers a program cache on the engine configuration.
func WithProgramCache(cache ProgramCache) Option {
	return func(cfg *config) {
		cfg.programCache = cache
	}
}
