package driver

import (
	"io"

	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"

	"github.com/shiramin/slrgen/spec"
)

type maleeniTokenStream struct {
	lex  *mldriver.Lexer
	skip map[string]struct{}
}

// NewMaleeniTokenStream adapts a maleeni lexer. Tokens of the skipKinds kinds
// (whitespace, comments) are dropped before the parser sees them. An invalid
// lexeme is passed through as a kind-less token so the parser reports it as a
// syntax error with its position.
func NewMaleeniTokenStream(clspec *mlspec.CompiledLexSpec, src io.Reader, skipKinds ...string) (TokenStream, error) {
	lex, err := mldriver.NewLexer(clspec, src)
	if err != nil {
		return nil, err
	}
	skip := map[string]struct{}{}
	for _, k := range skipKinds {
		skip[k] = struct{}{}
	}
	return &maleeniTokenStream{
		lex:  lex,
		skip: skip,
	}, nil
}

func (s *maleeniTokenStream) Next() (spec.Token, error) {
	for {
		tok, err := s.lex.Next()
		if err != nil {
			return nil, err
		}
		// maleeni counts rows and columns from zero.
		if tok.EOF {
			return NewEOFToken(tok.Row+1, tok.Col+1), nil
		}
		if tok.Invalid {
			return NewToken("", tok.Text(), tok.Row+1, tok.Col+1), nil
		}
		kind := string(tok.KindName)
		if _, ok := s.skip[kind]; ok {
			continue
		}
		return NewToken(kind, tok.Text(), tok.Row+1, tok.Col+1), nil
	}
}
