package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ComedicChimera/olive"
	"github.com/mattn/go-isatty"

	"github.com/zyxt-lang/zyxt/internal/config"
	"github.com/zyxt-lang/zyxt/internal/logging"
)

func main() {
	// Catch panics and show user-friendly error
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("ZYXT_DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	os.Exit(execute(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

// execute runs the zyxt command line and returns the process exit code.
func execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	logging.SetOutput(stderr)

	cli := olive.NewCLI("zyxt", "zyxt runs and checks zyxt programs", true)
	cli.AddSelectorArg("loglevel", "ll", "the log level", false, []string{"silent", "error", "warn", "verbose", "trace"})
	cli.AddStringArg("config", "c", "path to a zyxt.yaml or zyxt.toml file", false)

	runCmd := cli.AddSubcommand("run", "typecheck and run a file", true)
	runCmd.AddPrimaryArg("file", "the source file to run", true)

	checkCmd := cli.AddSubcommand("check", "typecheck a file without running it", true)
	checkCmd.AddPrimaryArg("file", "the source file to check", true)

	astCmd := cli.AddSubcommand("ast", "print the syntax tree of a file", true)
	astCmd.AddPrimaryArg("file", "the source file to parse", true)
	astCmd.AddFlag("desugar", "d", "print the tree after operator desugaring")
	astCmd.AddFlag("source", "s", "print the tree back as source code")

	cli.AddSubcommand("repl", "start an interactive session", false)
	cli.AddSubcommand("version", "print the zyxt version", false)

	result, err := olive.ParseArgs(cli, args)
	if err != nil {
		logging.PrintErrorMessage("CLI Usage Error", err)
		return 2
	}

	cfg, err := loadConfig(result)
	if err != nil {
		logging.PrintErrorMessage("Config Error", err)
		return 2
	}
	logLevel := cfg.LogLevel
	if v, ok := result.Arguments["loglevel"]; ok {
		logLevel = v.(string)
	}
	logging.Initialize(logLevel)
	logging.EnableTimings(cfg.Timings)
	logging.SetColor(useColor(cfg.Color, stderr))

	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "run":
		file, _ := subResult.PrimaryArg()
		return runFile(cfg, file, stdout)
	case "check":
		file, _ := subResult.PrimaryArg()
		return checkFile(file, stdout)
	case "ast":
		file, _ := subResult.PrimaryArg()
		return printAst(file, subResult.HasFlag("desugar"), subResult.HasFlag("source"), stdout)
	case "repl":
		return repl(cfg, stdin, stdout)
	case "version":
		fmt.Fprintf(stdout, "zyxt %s\n", config.Version)
		return 0
	}
	logging.PrintErrorMessage("CLI Usage Error", fmt.Errorf("no command given; try `zyxt run <file>` or `zyxt repl`"))
	return 2
}

func loadConfig(result *olive.ArgParseResult) (*config.Config, error) {
	if path, ok := result.Arguments["config"]; ok {
		return config.Load(path.(string))
	}
	dir, err := os.Getwd()
	if err != nil {
		return config.Default(), nil
	}
	return config.LoadFrom(dir)
}

// useColor resolves the color setting; auto means color on terminals only.
func useColor(setting string, w io.Writer) bool {
	switch setting {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
