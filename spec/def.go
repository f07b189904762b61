package spec

import "fmt"

// SymbolDef is one RHS symbol reference in a grammar definition. Exactly one
// field must be set.
type SymbolDef struct {
	NonTerminal string `json:"non_terminal,omitempty"`
	Literal     string `json:"literal,omitempty"`
	Category    string `json:"category,omitempty"`
}

func (d *SymbolDef) Validate() error {
	n := 0
	if d.NonTerminal != "" {
		n++
	}
	if d.Literal != "" {
		n++
	}
	if d.Category != "" {
		n++
	}
	if n != 1 {
		return fmt.Errorf("a symbol reference must set exactly one of non_terminal, literal, or category: %+v", *d)
	}
	return nil
}

type RuleDef struct {
	LHS string       `json:"lhs"`
	RHS []*SymbolDef `json:"rhs"`
}

// GrammarDef is the JSON representation of a grammar a host hands to the
// generator. Semantic actions cannot be expressed here; grammars compiled from a
// definition produce generic parse trees unless the host attaches actions.
type GrammarDef struct {
	Name  string     `json:"name"`
	Start string     `json:"start"`
	Rules []*RuleDef `json:"rules"`
}

// TokenDef is one element of a token list fed to the parse command. A token with
// a kind is a category token; a token with only text is a literal token.
type TokenDef struct {
	Kind string `json:"kind,omitempty"`
	Text string `json:"text"`
}
