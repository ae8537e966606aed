package parser

import (
	"github.com/zyxt-lang/zyxt/internal/diagnostics"
	"github.com/zyxt-lang/zyxt/internal/pipeline"
)

type ParserProcessor struct{}

func (pp *ParserProcessor) Name() string { return "Parsing" }

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Failed() {
		return ctx
	}
	if ctx.Tokens == nil {
		ctx.AddError(diagnostics.Internal("parser: token stream is nil"))
		return ctx
	}
	program, err := New(ctx.Tokens, ctx.FilePath).ParseProgram()
	if err != nil {
		ctx.AddError(err)
		return ctx
	}
	ctx.AstRoot = program
	return ctx
}
