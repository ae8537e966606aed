package main

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/zyxt-lang/zyxt/internal/analyzer"
	"github.com/zyxt-lang/zyxt/internal/config"
	"github.com/zyxt-lang/zyxt/internal/desugar"
	"github.com/zyxt-lang/zyxt/internal/evaluator"
	"github.com/zyxt-lang/zyxt/internal/lexer"
	"github.com/zyxt-lang/zyxt/internal/logging"
	"github.com/zyxt-lang/zyxt/internal/parser"
	"github.com/zyxt-lang/zyxt/internal/pipeline"
	"github.com/zyxt-lang/zyxt/internal/prettyprinter"
	"github.com/zyxt-lang/zyxt/internal/sources"
)

// frontEnd is every stage up to and including the typecheck.
func frontEnd() []pipeline.Processor {
	return []pipeline.Processor{
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&desugar.DesugarProcessor{},
		&analyzer.SemanticAnalyzerProcessor{},
	}
}

func runFile(cfg *config.Config, path string, stdout io.Writer) int {
	cache := sources.NewCache()
	source, err := cache.Import(path)
	if err != nil {
		logging.DisplayError(err, cache)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pctx := pipeline.NewContext(path, source)
	pctx.Out = stdout
	stages := append(frontEnd(), &evaluator.EvaluatorProcessor{Context: ctx, MaxCallDepth: cfg.MaxCallDepth})
	pctx = pipeline.New(stages...).Run(pctx)
	if reportErrors(pctx, cache) {
		return 1
	}
	return pctx.ExitCode
}

func checkFile(path string, stdout io.Writer) int {
	cache := sources.NewCache()
	source, err := cache.Import(path)
	if err != nil {
		logging.DisplayError(err, cache)
		return 1
	}

	pctx := pipeline.NewContext(path, source)
	pctx.Out = stdout
	pctx.CheckOnly = true
	pctx = pipeline.New(frontEnd()...).Run(pctx)
	if reportErrors(pctx, cache) {
		return 1
	}
	logging.PrintInfoMessage("Check", path+" has no errors")
	return 0
}

func printAst(path string, desugared, asSource bool, stdout io.Writer) int {
	cache := sources.NewCache()
	source, err := cache.Import(path)
	if err != nil {
		logging.DisplayError(err, cache)
		return 1
	}

	stages := []pipeline.Processor{&lexer.LexerProcessor{}, &parser.ParserProcessor{}}
	if desugared {
		stages = append(stages, &desugar.DesugarProcessor{})
	}
	pctx := pipeline.New(stages...).Run(pipeline.NewContext(path, source))
	if reportErrors(pctx, cache) {
		return 1
	}

	var out string
	if asSource {
		printer := prettyprinter.NewCodePrinter()
		printer.Print(pctx.AstRoot)
		out = printer.String()
	} else {
		printer := prettyprinter.NewTreePrinter()
		printer.Print(pctx.AstRoot)
		out = printer.String()
	}
	io.WriteString(stdout, out)
	return 0
}

// reportErrors displays the errors recorded in ctx and reports whether
// there were any.
func reportErrors(ctx *pipeline.PipelineContext, cache *sources.Cache) bool {
	for _, err := range ctx.Errors {
		logging.DisplayError(err, cache)
	}
	return ctx.Failed()
}
