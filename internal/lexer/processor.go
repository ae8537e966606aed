package lexer

import (
	"github.com/zyxt-lang/zyxt/internal/pipeline"
)

type LexerProcessor struct{}

func (lp *LexerProcessor) Name() string { return "Lexing" }

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	tokens, err := New(ctx.FilePath, ctx.SourceCode).Tokenize()
	if err != nil {
		ctx.AddError(err)
		return ctx
	}
	ctx.Tokens = tokens
	return ctx
}
