package token

import "fmt"

// Position is a location in a source file. Line and Column are 1-based,
// Offset is a 0-based byte offset.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) Before(o Position) bool {
	return p.Offset < o.Offset
}

// Span is a half-open source range [Start, End).
type Span struct {
	File  string
	Start Position
	End   Position
}

func (s Span) String() string {
	file := s.File
	if file == "" {
		file = "[unknown]"
	}
	return fmt.Sprintf("%s:%d:%d", file, s.Start.Line, s.Start.Column)
}

// Merge combines optional spans into the smallest span covering all of them.
// The result is nil only when every input is nil. Spans from a different file
// than the first present span are ignored.
func Merge(spans ...*Span) *Span {
	var out *Span
	for _, s := range spans {
		if s == nil {
			continue
		}
		if out == nil {
			c := *s
			out = &c
			continue
		}
		if s.File != out.File {
			continue
		}
		if s.Start.Before(out.Start) {
			out.Start = s.Start
		}
		if out.End.Before(s.End) {
			out.End = s.End
		}
	}
	return out
}
