package reactive

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoEvaluator indicates no expression engine could be resolved.
var ErrNoEvaluator = errors.New("reactive: evaluator not configured")

// EvalContext carries the inputs for one computed-expression evaluation.
// Snapshot is the namespace's current data tree; its top-level keys are bound
// as variables inside the expression.
type EvalContext struct {
	Snapshot  any
	Namespace string
	Now       *time.Time
	Args      map[string]any
	Metadata  map[string]any
}

func (ctx EvalContext) withDefaultNow() EvalContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx EvalContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx EvalContext) withDefaultMaps() EvalContext {
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx EvalContext) namespaceLabel() string {
	if ctx.Namespace != "" {
		return ctx.Namespace
	}
	return "unknown"
}

// Evaluator executes expressions against an evaluation context.
type Evaluator interface {
	Evaluate(ctx EvalContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx EvalContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*reactive.exprEvaluator":
		return "expr"
	case "*reactive.celEvaluator":
		return "cel"
	case "*reactive.jsEvaluator":
		return "js"
	default:
		return "custom"
	}
}
