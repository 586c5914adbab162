package reactive

import (
	"fmt"
	"time"
)

// ComputedError identifies which computed property failed and the engine that
// ran its getter.
type ComputedError struct {
	Namespace string
	Name      string
	Engine    string
	Err       error
}

func (e *ComputedError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("reactive: computed %q in namespace %q (engine=%s): %v", e.Name, e.Namespace, e.Engine, e.Err)
}

func (e *ComputedError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

type computedEntry struct {
	getter Getter
	engine string
	value  any
	dirty  bool
}

// DefineComputed registers a lazy derived value under name. The getter runs
// on the first read and its result is cached until any write lands anywhere
// in the namespace; invalidation is deliberately coarse and ignores which
// properties the getter actually reads. Defining the same name twice fails.
func (s *State) DefineComputed(name string, getter Getter) error {
	if name == "" {
		return fmt.Errorf("reactive: computed name must not be empty")
	}
	if getter == nil {
		return fmt.Errorf("reactive: computed getter must not be nil")
	}
	if _, exists := s.computed[name]; exists {
		return fmt.Errorf("%w: %q in namespace %q", ErrComputedExists, name, s.namespace)
	}
	s.computed[name] = &computedEntry{getter: getter, engine: "func", dirty: true}
	return nil
}

// DefineComputedExpr registers a computed property whose getter evaluates an
// expression against the namespace's current data tree. Tree keys are bound
// as top-level variables inside the expression. The expression is compiled
// once through the configured evaluator (expr by default) and re-run on each
// invalidated read.
func (s *State) DefineComputedExpr(name, expression string) error {
	evaluator, err := s.resolveEvaluator()
	if err != nil {
		return err
	}
	compiled, err := evaluator.Compile(expression)
	if err != nil {
		return err
	}
	getter := func() (any, error) {
		return compiled.Evaluate(EvalContext{Snapshot: s.data, Namespace: s.namespace})
	}
	if err := s.DefineComputed(name, getter); err != nil {
		return err
	}
	s.computed[name].engine = evaluatorEngineName(evaluator)
	return nil
}

// Computed reads the derived value registered under name, evaluating the
// getter only when the cache is dirty. Getter errors propagate to the reader
// and leave the entry dirty, so the next read retries.
func (s *State) Computed(name string) (any, error) {
	entry, ok := s.computed[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q in namespace %q", ErrUnknownComputed, name, s.namespace)
	}
	if !entry.dirty {
		return entry.value, nil
	}

	start := time.Now()
	value, err := entry.getter()
	s.logger().Log(LogEvent{
		Op:        "computed",
		Namespace: s.namespace,
		Path:      name,
		Engine:    entry.engine,
		Duration:  time.Since(start),
		Err:       err,
	})
	if err != nil {
		return nil, &ComputedError{
			Namespace: s.namespace,
			Name:      name,
			Engine:    entry.engine,
			Err:       err,
		}
	}
	entry.value = value
	entry.dirty = false
	return entry.value, nil
}

// ComputedNames returns the names registered via DefineComputed, unordered.
func (s *State) ComputedNames() []string {
	names := make([]string, 0, len(s.computed))
	for name := range s.computed {
		names = append(names, name)
	}
	return names
}

// dirtyAll invalidates every computed entry. Called after each accepted
// write and after every restore.
func (s *State) dirtyAll() {
	for _, entry := range s.computed {
		entry.dirty = true
	}
}

func (s *State) resolveEvaluator() (Evaluator, error) {
	if s.cfg.evaluator != nil {
		return s.cfg.evaluator, nil
	}
	var exprOpts []ExprEvaluatorOption
	if s.cfg.programCache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(s.cfg.programCache))
	}
	if s.cfg.functions != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(s.cfg.functions))
	}
	evaluator := NewExprEvaluator(exprOpts...)
	if evaluator == nil {
		return nil, ErrNoEvaluator
	}
	s.cfg.evaluator = evaluator
	return evaluator, nil
}
