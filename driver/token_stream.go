package driver

import (
	"github.com/shiramin/slrgen/spec"
)

// TokenStream is the parser's source of tokens. Implementations must keep
// returning an EOF token once the underlying source is exhausted.
type TokenStream interface {
	Next() (spec.Token, error)
}

type token struct {
	kind string
	text string
	row  int
	col  int
	eof  bool
}

// NewToken makes a token. kind is the terminal category the lexer assigned;
// pass "" for tokens that are classified by their literal text.
func NewToken(kind string, text string, row int, col int) spec.Token {
	return &token{
		kind: kind,
		text: text,
		row:  row,
		col:  col,
	}
}

func NewEOFToken(row int, col int) spec.Token {
	return &token{
		row: row,
		col: col,
		eof: true,
	}
}

func (t *token) Kind() string {
	return t.kind
}

func (t *token) Text() string {
	return t.text
}

func (t *token) Position() (int, int) {
	return t.row, t.col
}

func (t *token) EOF() bool {
	return t.eof
}

type sliceTokenStream struct {
	tokens []spec.Token
	pos    int
}

// NewSliceTokenStream makes a stream over a fixed token sequence. The stream
// appends an implicit EOF token and repeats it indefinitely.
func NewSliceTokenStream(tokens []spec.Token) TokenStream {
	return &sliceTokenStream{
		tokens: tokens,
	}
}

func (s *sliceTokenStream) Next() (spec.Token, error) {
	if s.pos >= len(s.tokens) {
		row, col := 0, 0
		if len(s.tokens) > 0 {
			row, col = s.tokens[len(s.tokens)-1].Position()
		}
		return NewEOFToken(row, col), nil
	}
	tok := s.tokens[s.pos]
	s.pos++
	return tok, nil
}
