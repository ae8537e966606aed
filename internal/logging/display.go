package logging

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/zyxt-lang/zyxt/internal/diagnostics"
	"github.com/zyxt-lang/zyxt/internal/token"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = pterm.FgCyan
	InfoStyleBG    = pterm.NewStyle(pterm.BgCyan, pterm.FgBlack)
)

// PrintErrorMessage prints a standard Go error to the console
func PrintErrorMessage(tag string, err error) {
	std.print(LogLevelError, ErrorStyleBG.Sprint(tag)+ErrorColorFG.Sprint(" "+err.Error())+"\n")
}

// PrintWarningMessage prints a warning message to the console
func PrintWarningMessage(tag, msg string) {
	std.print(LogLevelWarning, WarnStyleBG.Sprint(tag)+WarnColorFG.Sprint(" "+msg)+"\n")
}

// PrintInfoMessage prints an informational message to the user
func PrintInfoMessage(tag, msg string) {
	std.print(LogLevelVerbose, InfoStyleBG.Sprint(tag)+InfoColorFG.Sprint(" "+msg)+"\n")
}

// SourceLines gives access to source text for code selections.
type SourceLines interface {
	Line(file string, n int) (string, bool)
}

// DisplayError prints err. Diagnostic errors get a banner and one code
// selection per trace entry; other errors are printed plainly.
func DisplayError(err error, src SourceLines) {
	var de *diagnostics.DiagnosticError
	if !errors.As(err, &de) {
		PrintErrorMessage("Error", err)
		return
	}
	std.print(LogLevelError, FormatError(de, src))
	if len(de.Stack) > 0 {
		std.print(LogLevelTrace, string(de.Stack))
	}
}

// FormatError renders a diagnostic error the way DisplayError prints it.
func FormatError(de *diagnostics.DiagnosticError, src SourceLines) string {
	var sb strings.Builder
	file := ""
	if len(de.Trace) > 0 {
		file = de.Trace[0].Span.File
	}
	sb.WriteString(banner(de.Category.String()+" Error "+string(de.Code), file))
	sb.WriteString(de.Message)
	sb.WriteString("\n")
	for _, a := range de.Trace {
		sb.WriteString(codeSelection(a, src))
	}
	return sb.String()
}

func banner(title, file string) string {
	width := pterm.GetTerminalWidth() / 2
	if width > 50 || width <= 0 {
		width = 50
	}
	dashes := width - len(title) - len(file) - 2
	if dashes < 3 {
		dashes = 3
	}
	return "-- " + ErrorStyleBG.Sprint(title) + " " + strings.Repeat("-", dashes) + " " + InfoColorFG.Sprint(file) + "\n"
}

func codeSelection(a diagnostics.Annotation, src SourceLines) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "  at %s", a.Span.String())
	if a.Raw != "" && !strings.Contains(a.Raw, "\n") {
		fmt.Fprintf(&sb, " (%s)", a.Raw)
	}
	sb.WriteString("\n")
	if src == nil {
		return sb.String()
	}
	line, ok := src.Line(a.Span.File, a.Span.Start.Line)
	if !ok {
		return sb.String()
	}
	line = strings.ReplaceAll(line, "\t", " ")
	num := strconv.Itoa(a.Span.Start.Line)
	gutter := strings.Repeat(" ", len(num))
	fmt.Fprintf(&sb, "  %s | %s\n", InfoColorFG.Sprint(num), line)
	fmt.Fprintf(&sb, "  %s | %s%s\n", gutter, strings.Repeat(" ", caretOffset(a.Span)), ErrorColorFG.Sprint(strings.Repeat("^", caretWidth(a.Span, line))))
	return sb.String()
}

func caretOffset(span token.Span) int {
	if span.Start.Column <= 1 {
		return 0
	}
	return span.Start.Column - 1
}

func caretWidth(span token.Span, line string) int {
	var width int
	if span.End.Line == span.Start.Line {
		width = span.End.Column - span.Start.Column
	} else {
		width = len([]rune(line)) - caretOffset(span)
	}
	if width < 1 {
		width = 1
	}
	return width
}
