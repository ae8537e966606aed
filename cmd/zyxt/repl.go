package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"github.com/pterm/pterm"

	"github.com/zyxt-lang/zyxt/internal/analyzer"
	"github.com/zyxt-lang/zyxt/internal/config"
	"github.com/zyxt-lang/zyxt/internal/evaluator"
	"github.com/zyxt-lang/zyxt/internal/logging"
	"github.com/zyxt-lang/zyxt/internal/pipeline"
	"github.com/zyxt-lang/zyxt/internal/sources"
	"github.com/zyxt-lang/zyxt/internal/typesystem"
)

const (
	promptIn  = ">>] "
	promptOut = "[>> "
)

var replHelp = `All commands start with ` + "`;`" + `
help	View this help page
exit	Exit the repl
vars	View all variables
`

// session holds the state shared by every line of one REPL run. Types and
// values declared on one line stay visible on the next, unless the line
// fails; then both tables go back to where they were before it.
type session struct {
	cfg    *config.Config
	out    io.Writer
	cache  *sources.Cache
	types  *analyzer.TypeTable
	values *evaluator.ValueTable
	lines  int
}

func newSession(cfg *config.Config, out io.Writer) *session {
	return &session{
		cfg:    cfg,
		out:    out,
		cache:  sources.NewCache(),
		types:  analyzer.NewSymTable(),
		values: evaluator.New(context.Background(), cfg.MaxCallDepth).NewSymTable(out),
	}
}

func repl(cfg *config.Config, stdin io.Reader, stdout io.Writer) int {
	s := newSession(cfg, stdout)
	fmt.Fprintln(stdout, pterm.Bold.Sprint(logging.WarnColorFG.Sprintf("Zyxt Repl (v%s)", config.Version)))
	fmt.Fprintln(stdout, logging.InfoColorFG.Sprint("`;exit` to exit"))
	fmt.Fprintln(stdout, logging.InfoColorFG.Sprint("`;help` for more commands"))

	f, ok := stdin.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return s.serve(stdin)
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	historyPath := cfg.HistoryPath()
	if hf, err := os.Open(historyPath); err == nil {
		_, _ = ln.ReadHistory(hf)
		_ = hf.Close()
	}
	defer func() {
		if hf, err := os.Create(historyPath); err == nil {
			_, _ = ln.WriteHistory(hf)
			_ = hf.Close()
		}
	}()

	for {
		input, err := ln.Prompt(promptIn)
		if errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(stdout, logging.InfoColorFG.Sprint("`;exit` to exit"))
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(stdout)
			return 0
		}
		if err != nil {
			logging.PrintErrorMessage("REPL Error", err)
			return 1
		}
		if strings.TrimSpace(input) != "" {
			ln.AppendHistory(input)
		}
		if s.handle(input) {
			return 0
		}
	}
}

// serve runs the session over a non-interactive reader, one line at a time.
func (s *session) serve(r io.Reader) int {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if s.handle(scanner.Text()) {
			return 0
		}
	}
	if err := scanner.Err(); err != nil {
		logging.PrintErrorMessage("REPL Error", err)
		return 1
	}
	return 0
}

// handle processes one input line and reports whether the session should end.
func (s *session) handle(input string) bool {
	input = strings.TrimSpace(input)
	if input == "" {
		return false
	}
	if strings.HasPrefix(input, ";") {
		switch input {
		case ";exit":
			return true
		case ";vars":
			fmt.Fprintln(s.out, s.values.Dump(func(v typesystem.Value) string { return v.Inspect() }))
		case ";help":
			fmt.Fprint(s.out, replHelp)
		default:
			logging.PrintErrorMessage("REPL", fmt.Errorf("Invalid command `%s`", input))
		}
		return false
	}

	s.lines++
	name := fmt.Sprintf("[stdin:%d]", s.lines)
	s.cache.Register(name, input)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	typesBefore, valuesBefore := s.types.Checkpoint(), s.values.Checkpoint()
	pctx := pipeline.NewContext(name, input)
	pctx.Out = s.out
	pctx.TypeTable = s.types
	pctx.ValueTable = s.values
	stages := append(frontEnd(), &evaluator.EvaluatorProcessor{Context: ctx, MaxCallDepth: s.cfg.MaxCallDepth})
	pctx = pipeline.New(stages...).Run(pctx)
	if reportErrors(pctx, s.cache) {
		s.types.Restore(typesBefore)
		s.values.Restore(valuesBefore)
		return false
	}
	if pctx.Result != nil && pctx.Result.Kind() != typesystem.UNIT_VAL {
		fmt.Fprintln(s.out, logging.SuccessColorFG.Sprint(promptOut)+pctx.Result.Inspect())
	}
	return false
}
