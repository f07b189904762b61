package grammar

import (
	"errors"
	"testing"

	"github.com/shiramin/slrgen/spec"
)

type testRule struct {
	lhs string
	rhs []SymbolRef
}

func buildTestGrammar(t *testing.T, start string, rules []testRule) *Grammar {
	t.Helper()

	b := NewBuilder("test", start)
	for _, r := range rules {
		b.AddRule(r.lhs, r.rhs, nil)
	}
	gram, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return gram
}

func TestBuilderBuild(t *testing.T) {
	gram := buildTestGrammar(t, "expr", []testRule{
		{"expr", []SymbolRef{NT("expr"), Lit("+"), NT("term")}},
		{"expr", []SymbolRef{NT("term")}},
		{"term", []SymbolRef{NT("term"), Lit("*"), NT("factor")}},
		{"term", []SymbolRef{NT("factor")}},
		{"factor", []SymbolRef{Lit("("), NT("expr"), Lit(")")}},
		{"factor", []SymbolRef{Cat("int")}},
	})

	// The augmented start production is added on top of the declared rules.
	if got := len(gram.productionSet.getAllProductions()); got != 7 {
		t.Fatalf("unexpected production count: want: 7, got: %v", got)
	}

	start, ok := gram.symbolTable.toSymbol("expr'")
	if !ok || !start.isStart() {
		t.Fatalf("the augmented start symbol was not registered")
	}
	if gram.augmentedStartSymbol != start {
		t.Fatalf("unexpected augmented start symbol: want: %v, got: %v", start, gram.augmentedStartSymbol)
	}

	startProds, ok := gram.productionSet.findByLHS(start)
	if !ok || len(startProds) != 1 {
		t.Fatalf("the start production was not registered")
	}
	p := startProds[0]
	if p.num != productionNumStart {
		t.Fatalf("unexpected start production number: want: %v, got: %v", productionNumStart, p.num)
	}
	if p.rhsLen != 2 || p.rhs[0] != gram.startSymbol || !p.rhs[1].isEOF() {
		t.Fatalf("unexpected start production RHS: %v", p.rhs)
	}

	intSym, ok := gram.symbolTable.toSymbol("int")
	if !ok || !gram.symbolTable.isCategory(intSym) {
		t.Fatalf("the category terminal was not registered")
	}
	plusSym, ok := gram.symbolTable.toSymbol("+")
	if !ok || gram.symbolTable.isCategory(plusSym) {
		t.Fatalf("the literal terminal was not registered")
	}
}

func TestBuilderBuildError(t *testing.T) {
	tests := []struct {
		caption string
		name    string
		start   string
		rules   []testRule
		err     error
	}{
		{
			caption: "a grammar needs a name",
			name:    "",
			start:   "s",
			rules: []testRule{
				{"s", []SymbolRef{Lit("a")}},
			},
			err: semErrNoGrammarName,
		},
		{
			caption: "a grammar needs at least one production",
			name:    "test",
			start:   "s",
			rules:   nil,
			err:     semErrNoProduction,
		},
		{
			caption: "the start symbol needs a production",
			name:    "test",
			start:   "t",
			rules: []testRule{
				{"s", []SymbolRef{Lit("a")}},
			},
			err: semErrUndefinedSym,
		},
		{
			caption: "a non-terminal on a RHS needs a production",
			name:    "test",
			start:   "s",
			rules: []testRule{
				{"s", []SymbolRef{NT("missing")}},
			},
			err: semErrUndefinedSym,
		},
		{
			caption: "an empty alternative is not allowed",
			name:    "test",
			start:   "s",
			rules: []testRule{
				{"s", nil},
			},
			err: semErrEmptyAlternative,
		},
		{
			caption: "a duplicate production is not allowed",
			name:    "test",
			start:   "s",
			rules: []testRule{
				{"s", []SymbolRef{Lit("a")}},
				{"s", []SymbolRef{Lit("a")}},
			},
			err: semErrDuplicateProduction,
		},
		{
			caption: "a terminal cannot share a name with a non-terminal",
			name:    "test",
			start:   "s",
			rules: []testRule{
				{"s", []SymbolRef{Lit("s")}},
			},
			err: semErrDuplicateName,
		},
		{
			caption: "the augmented start name cannot be declared as a non-terminal",
			name:    "test",
			start:   "s",
			rules: []testRule{
				{"s", []SymbolRef{Lit("a"), NT("s'")}},
				{"s'", []SymbolRef{Lit("b")}},
			},
			err: semErrReservedName,
		},
		{
			caption: "the EOF name cannot be used as a literal",
			name:    "test",
			start:   "s",
			rules: []testRule{
				{"s", []SymbolRef{Lit("a"), Lit("<eof>"), Lit("b")}},
			},
			err: semErrReservedName,
		},
		{
			caption: "the EOF name cannot be used as a category",
			name:    "test",
			start:   "s",
			rules: []testRule{
				{"s", []SymbolRef{Cat("<eof>")}},
			},
			err: semErrReservedName,
		},
		{
			caption: "a literal cannot share a name with a category",
			name:    "test",
			start:   "s",
			rules: []testRule{
				{"s", []SymbolRef{Cat("x"), Lit("x")}},
			},
			err: semErrDuplicateName,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			b := NewBuilder(tt.name, tt.start)
			for _, r := range tt.rules {
				b.AddRule(r.lhs, r.rhs, nil)
			}
			_, err := b.Build()
			if !errors.Is(err, tt.err) {
				t.Fatalf("unexpected error: want: %v, got: %v", tt.err, err)
			}
		})
	}
}

func TestFromDef(t *testing.T) {
	def := &spec.GrammarDef{
		Name:  "list",
		Start: "list",
		Rules: []*spec.RuleDef{
			{
				LHS: "list",
				RHS: []*spec.SymbolDef{
					{Literal: "["},
					{NonTerminal: "elems"},
					{Literal: "]"},
				},
			},
			{
				LHS: "elems",
				RHS: []*spec.SymbolDef{
					{Category: "id"},
				},
			},
			{
				LHS: "elems",
				RHS: []*spec.SymbolDef{
					{NonTerminal: "elems"},
					{Literal: ","},
					{Category: "id"},
				},
			},
		},
	}
	gram, err := FromDef(def)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(gram.productionSet.getAllProductions()); got != 4 {
		t.Fatalf("unexpected production count: want: 4, got: %v", got)
	}

	def.Rules[0].RHS[0] = &spec.SymbolDef{Literal: "[", Category: "x"}
	_, err = FromDef(def)
	if err == nil {
		t.Fatalf("an ambiguous symbol reference must be rejected")
	}
}
