package token

import "testing"

func sp(file string, start, end int) *Span {
	return &Span{
		File:  file,
		Start: Position{Offset: start, Line: 1, Column: start + 1},
		End:   Position{Offset: end, Line: 1, Column: end + 1},
	}
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name  string
		in    []*Span
		want  *Span
		isNil bool
	}{
		{name: "all absent", in: []*Span{nil, nil}, isNil: true},
		{name: "no inputs", in: nil, isNil: true},
		{name: "single", in: []*Span{nil, sp("a", 2, 5)}, want: sp("a", 2, 5)},
		{name: "covering", in: []*Span{sp("a", 4, 6), nil, sp("a", 1, 3), sp("a", 5, 9)}, want: sp("a", 1, 9)},
		{name: "other file ignored", in: []*Span{sp("a", 4, 6), sp("b", 0, 20)}, want: sp("a", 4, 6)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.in...)
			if tt.isNil {
				if got != nil {
					t.Fatalf("Merge() = %v, want nil", got)
				}
				return
			}
			if got == nil || *got != *tt.want {
				t.Fatalf("Merge() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMergeDoesNotAliasInput(t *testing.T) {
	a := sp("a", 3, 4)
	out := Merge(a, sp("a", 0, 10))
	if a.Start.Offset != 3 || a.End.Offset != 4 {
		t.Errorf("input span mutated: %+v", a)
	}
	if out.Start.Offset != 0 || out.End.Offset != 10 {
		t.Errorf("unexpected merge result %+v", out)
	}
}

func TestLookupIdent(t *testing.T) {
	if LookupIdent("proc") != PROC {
		t.Errorf("proc should be a keyword")
	}
	if LookupIdent("procedure") != IDENT {
		t.Errorf("procedure should be an identifier")
	}
}
