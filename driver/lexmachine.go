package driver

import (
	lex "github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"

	"github.com/shiramin/slrgen/spec"
)

type lexMachineTokenStream struct {
	scanner *lex.Scanner
	kinds   []string
	done    bool
	row     int
	col     int
}

// NewLexMachineTokenStream adapts a lexmachine scanner. kinds maps each
// lexmachine token type to a terminal category name; an empty entry makes
// tokens of that type classify by their literal text instead.
func NewLexMachineTokenStream(scanner *lex.Scanner, kinds []string) TokenStream {
	return &lexMachineTokenStream{
		scanner: scanner,
		kinds:   kinds,
		row:     1,
		col:     1,
	}
}

func (s *lexMachineTokenStream) Next() (spec.Token, error) {
	if s.done {
		return NewEOFToken(s.row, s.col), nil
	}
	tok, err, eos := s.scanner.Next()
	if eos {
		s.done = true
		return NewEOFToken(s.row, s.col), nil
	}
	if err != nil {
		if ui, ok := err.(*machines.UnconsumedInput); ok {
			// Surface the unrecognized lexeme as a kind-less token so the
			// parser reports a positioned syntax error instead of aborting.
			s.done = true
			return NewToken("", string(ui.Text[ui.StartTC:ui.FailTC]), ui.StartLine, ui.StartColumn), nil
		}
		return nil, err
	}
	t := tok.(*lex.Token)
	s.row = t.EndLine
	s.col = t.EndColumn
	kind := ""
	if t.Type >= 0 && t.Type < len(s.kinds) {
		kind = s.kinds[t.Type]
	}
	return NewToken(kind, string(t.Lexeme), t.StartLine, t.StartColumn), nil
}
