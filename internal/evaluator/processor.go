package evaluator

import (
	"context"

	"github.com/zyxt-lang/zyxt/internal/config"
	"github.com/zyxt-lang/zyxt/internal/diagnostics"
	"github.com/zyxt-lang/zyxt/internal/pipeline"
	"github.com/zyxt-lang/zyxt/internal/typesystem"
)

type EvaluatorProcessor struct {
	// Context and MaxCallDepth configure the evaluator; zero values fall
	// back to the defaults.
	Context      context.Context
	MaxCallDepth int
}

func (ep *EvaluatorProcessor) Name() string { return "Interpreting" }

func (ep *EvaluatorProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Failed() || ctx.CheckOnly {
		return ctx
	}
	if ctx.AstRoot == nil {
		ctx.AddError(diagnostics.Internal("interpret: no program"))
		return ctx
	}
	depth := ep.MaxCallDepth
	if depth <= 0 {
		depth = config.DefaultMaxCallDepth
	}
	eval := New(ep.Context, depth)
	if ctx.ValueTable == nil {
		ctx.ValueTable = eval.NewSymTable(ctx.Out)
	} else {
		ctx.ValueTable.SetDeferRunner(eval.runDeferred)
	}

	v, err := eval.Interpret(ctx.AstRoot, ctx.ValueTable)
	if err != nil {
		ctx.AddError(err)
		return ctx
	}
	code, err := ExitStatus(v)
	if err != nil {
		ctx.AddError(err)
		return ctx
	}
	if r, ok := v.(*typesystem.Return); ok {
		v = r.Value
	}
	ctx.Result = v
	ctx.ExitCode = code
	return ctx
}

// ExitStatus maps a program's result to a process exit code. Only a
// top-level `ret` sets one; it must carry an i32 or unit.
func ExitStatus(v typesystem.Value) (int, error) {
	r, ok := v.(*typesystem.Return)
	if !ok {
		return 0, nil
	}
	switch rv := r.Value.(type) {
	case *typesystem.Unit:
		return 0, nil
	case *typesystem.Int:
		if rv.Def == typesystem.I32Def {
			return int(rv.V.Int64()), nil
		}
	}
	return 0, diagnostics.ReturnValue(r.Value.Inspect())
}
