package grammar

import (
	"testing"
)

func TestSymbol(t *testing.T) {
	tab := newSymbolTable()
	_, err := tab.registerStartSymbol("s'")
	if err != nil {
		t.Fatal(err)
	}
	nt, err := tab.registerNonTerminalSymbol("s")
	if err != nil {
		t.Fatal(err)
	}
	lit, err := tab.registerLiteralSymbol("+")
	if err != nil {
		t.Fatal(err)
	}
	cat, err := tab.registerCategorySymbol("int")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		caption       string
		sym           symbol
		isNil         bool
		isStart       bool
		isEOF         bool
		isNonTerminal bool
		isTerminal    bool
		num           symbolNum
	}{
		{
			caption: "nil",
			sym:     symbolNil,
			isNil:   true,
		},
		{
			caption:       "start",
			sym:           symbolStart,
			isStart:       true,
			isNonTerminal: true,
			num:           1,
		},
		{
			caption:    "eof",
			sym:        symbolEOF,
			isEOF:      true,
			isTerminal: true,
			num:        1,
		},
		{
			caption:       "non-terminal",
			sym:           nt,
			isNonTerminal: true,
			num:           2,
		},
		{
			caption:    "literal terminal",
			sym:        lit,
			isTerminal: true,
			num:        2,
		},
		{
			caption:    "category terminal",
			sym:        cat,
			isTerminal: true,
			num:        3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			if v := tt.sym.isNil(); v != tt.isNil {
				t.Errorf("isNil: want: %v, got: %v", tt.isNil, v)
			}
			if v := tt.sym.isStart(); v != tt.isStart {
				t.Errorf("isStart: want: %v, got: %v", tt.isStart, v)
			}
			if v := tt.sym.isEOF(); v != tt.isEOF {
				t.Errorf("isEOF: want: %v, got: %v", tt.isEOF, v)
			}
			if v := tt.sym.isNonTerminal(); v != tt.isNonTerminal {
				t.Errorf("isNonTerminal: want: %v, got: %v", tt.isNonTerminal, v)
			}
			if v := tt.sym.isTerminal(); v != tt.isTerminal {
				t.Errorf("isTerminal: want: %v, got: %v", tt.isTerminal, v)
			}
			if v := tt.sym.num(); v != tt.num {
				t.Errorf("num: want: %v, got: %v", tt.num, v)
			}
		})
	}
}

func TestSymbolTable(t *testing.T) {
	tab := newSymbolTable()
	_, err := tab.registerStartSymbol("s'")
	if err != nil {
		t.Fatal(err)
	}
	nt, err := tab.registerNonTerminalSymbol("s")
	if err != nil {
		t.Fatal(err)
	}

	// Registration is idempotent per name.
	nt2, err := tab.registerNonTerminalSymbol("s")
	if err != nil {
		t.Fatal(err)
	}
	if nt != nt2 {
		t.Fatalf("the same name must map to the same symbol: %v, %v", nt, nt2)
	}

	if _, err := tab.registerLiteralSymbol("s"); err == nil {
		t.Fatalf("a terminal must not share a name with a non-terminal")
	}

	cat, err := tab.registerCategorySymbol("int")
	if err != nil {
		t.Fatal(err)
	}
	if !tab.isCategory(cat) {
		t.Fatalf("a category terminal must be marked as a category")
	}
	if _, err := tab.registerLiteralSymbol("int"); err == nil {
		t.Fatalf("a literal must not share a name with a category")
	}

	eof, ok := tab.toSymbol(symbolNameEOF)
	if !ok || !eof.isEOF() {
		t.Fatalf("the EOF symbol must be registered implicitly")
	}
	if _, err := tab.registerLiteralSymbol(symbolNameEOF); err == nil {
		t.Fatalf("the EOF name must not be registrable as a literal")
	}
	if _, err := tab.registerCategorySymbol(symbolNameEOF); err == nil {
		t.Fatalf("the EOF name must not be registrable as a category")
	}

	terms := tab.terminalSymbols()
	if len(terms) != 2 {
		t.Fatalf("unexpected terminal count: want: 2, got: %v", len(terms))
	}
	nonTerms := tab.nonTerminalSymbols()
	if len(nonTerms) != 2 {
		t.Fatalf("unexpected non-terminal count: want: 2, got: %v", len(nonTerms))
	}

	text, ok := tab.toText(cat)
	if !ok || text != "int" {
		t.Fatalf("unexpected text: want: int, got: %v", text)
	}
}
