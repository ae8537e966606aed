package pipeline

import (
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/zyxt-lang/zyxt/internal/ast"
	"github.com/zyxt-lang/zyxt/internal/diagnostics"
	"github.com/zyxt-lang/zyxt/internal/symbols"
	"github.com/zyxt-lang/zyxt/internal/token"
	"github.com/zyxt-lang/zyxt/internal/typesystem"
)

type StageTiming struct {
	Stage    string
	Duration time.Duration
}

// PipelineContext carries one source text through the stages. TypeTable and
// ValueTable may be supplied by the caller to keep state across runs (REPL);
// otherwise the analyzer and evaluator processors create fresh tables.
type PipelineContext struct {
	RunID      uuid.UUID
	FilePath   string
	SourceCode string
	Tokens     []token.Token
	AstRoot    *ast.Program

	TypeTable  *symbols.SymTable[typesystem.Type]
	ValueTable *symbols.SymTable[typesystem.Value]

	// CheckOnly stops the evaluator processor from running the program.
	CheckOnly bool
	Result    typesystem.Value
	ExitCode  int

	Out     io.Writer
	Errors  []*diagnostics.DiagnosticError
	Timings []StageTiming
}

func NewContext(filePath, source string) *PipelineContext {
	return &PipelineContext{
		RunID:      uuid.New(),
		FilePath:   filePath,
		SourceCode: source,
		Out:        os.Stdout,
	}
}

// Failed reports whether any stage recorded an error.
func (ctx *PipelineContext) Failed() bool {
	return len(ctx.Errors) > 0
}

func (ctx *PipelineContext) AddError(err error) {
	if err == nil {
		return
	}
	de, ok := diagnostics.As(err)
	if !ok {
		de = diagnostics.Internal("%v", err)
	}
	ctx.Errors = append(ctx.Errors, de)
}

func (ctx *PipelineContext) displayName() string {
	if ctx.FilePath == "" {
		return "<stdin>"
	}
	return ctx.FilePath
}
