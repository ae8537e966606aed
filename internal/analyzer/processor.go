package analyzer

import (
	"github.com/zyxt-lang/zyxt/internal/ast"
	"github.com/zyxt-lang/zyxt/internal/diagnostics"
	"github.com/zyxt-lang/zyxt/internal/pipeline"
)

type SemanticAnalyzerProcessor struct{}

func (sap *SemanticAnalyzerProcessor) Name() string { return "Typechecking" }

func (sap *SemanticAnalyzerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Failed() {
		return ctx
	}
	if ctx.AstRoot == nil {
		ctx.AddError(diagnostics.Internal("typecheck: no program"))
		return ctx
	}
	if ctx.TypeTable == nil {
		ctx.TypeTable = NewSymTable()
	}

	out, _, err := New().Typecheck(ctx.AstRoot, ctx.TypeTable)
	if err != nil {
		ctx.AddError(err)
		return ctx
	}
	ctx.AstRoot = out.(*ast.Program)
	return ctx
}
