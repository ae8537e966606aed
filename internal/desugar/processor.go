package desugar

import (
	"github.com/zyxt-lang/zyxt/internal/ast"
	"github.com/zyxt-lang/zyxt/internal/diagnostics"
	"github.com/zyxt-lang/zyxt/internal/pipeline"
)

type DesugarProcessor struct{}

func (dp *DesugarProcessor) Name() string { return "Desugaring" }

func (dp *DesugarProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Failed() {
		return ctx
	}
	if ctx.AstRoot == nil {
		ctx.AddError(diagnostics.Internal("desugar: no program"))
		return ctx
	}
	out, err := Desugared(ctx.AstRoot)
	if err != nil {
		ctx.AddError(err)
		return ctx
	}
	ctx.AstRoot = out.(*ast.Program)
	return ctx
}
