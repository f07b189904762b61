package grammar

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/shiramin/slrgen/spec"
)

func TestCompile(t *testing.T) {
	gram := exprTestGrammar(t)
	cgram, report, err := Compile(gram, EnableReporting())
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Warnings) > 0 {
		t.Fatalf("unexpected warnings: %+v", report.Warnings)
	}

	ptab := cgram.ParsingTable
	if ptab.StateCount != 13 {
		t.Fatalf("unexpected state count: want: 13, got: %v", ptab.StateCount)
	}
	if len(report.States) != ptab.StateCount {
		t.Fatalf("the report must describe every state: want: %v, got: %v", ptab.StateCount, len(report.States))
	}
	if ptab.InitialState != 0 {
		t.Fatalf("unexpected initial state: want: 0, got: %v", ptab.InitialState)
	}
	if ptab.StartProduction != 1 {
		t.Fatalf("unexpected start production: want: 1, got: %v", ptab.StartProduction)
	}

	// Exactly one accept entry, and it lies in the EOF column.
	accepts := 0
	for state, row := range ptab.Action {
		for term, act := range row {
			switch act.Kind {
			case spec.ActionKindAccept:
				accepts++
				if term != ptab.EOFSymbol {
					t.Errorf("the accept entry must lie in the EOF column: state: %v, terminal: %v", state, term)
				}
			case spec.ActionKindShift:
				if act.Param <= 0 || act.Param >= ptab.StateCount {
					t.Errorf("a shift target is out of range: state: %v, target: %v", state, act.Param)
				}
			case spec.ActionKindReduce:
				if act.Param <= ptab.StartProduction || act.Param >= len(ptab.Arities) {
					t.Errorf("a reduce production is out of range: state: %v, production: %v", state, act.Param)
				}
				if ptab.Arities[act.Param] == 0 {
					t.Errorf("a production must have a non-zero arity: %v", act.Param)
				}
			default:
				t.Errorf("invalid action kind: %v", act.Kind)
			}
		}
	}
	if accepts != 1 {
		t.Fatalf("unexpected accept entry count: want: 1, got: %v", accepts)
	}

	for state, row := range ptab.GoTo {
		for nt, next := range row {
			if next <= 0 || next >= ptab.StateCount {
				t.Errorf("a GOTO target is out of range: state: %v, non-terminal: %v, target: %v", state, nt, next)
			}
		}
	}

	for name, num := range ptab.TerminalIDs {
		if num <= 0 || num >= ptab.TerminalCount {
			t.Errorf("a terminal number is out of range: %v: %v", name, num)
		}
		if ptab.Terminals[num] != name {
			t.Errorf("the terminal list disagrees with the ID map: %v", name)
		}
	}
}

func TestCompileDeterminism(t *testing.T) {
	cgram1, _, err := Compile(exprTestGrammar(t))
	if err != nil {
		t.Fatal(err)
	}
	cgram2, _, err := Compile(exprTestGrammar(t))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cgram1.ParsingTable, cgram2.ParsingTable) {
		t.Fatalf("two compilations of the same grammar must produce identical tables")
	}
}

func TestCompileShiftReduceConflict(t *testing.T) {
	// The dangling-else ambiguity. The shift must win so an else binds to the
	// nearest if.
	gram := buildTestGrammar(t, "s", []testRule{
		{"s", []SymbolRef{Lit("if"), Lit("cond"), Lit("then"), NT("s")}},
		{"s", []SymbolRef{Lit("if"), Lit("cond"), Lit("then"), NT("s"), Lit("else"), NT("s")}},
		{"s", []SymbolRef{Lit("stmt")}},
	})
	cgram, report, err := Compile(gram, EnableReporting())
	if err != nil {
		t.Fatal(err)
	}

	if len(report.Warnings) != 1 {
		t.Fatalf("unexpected warning count: want: 1, got: %v: %+v", len(report.Warnings), report.Warnings)
	}
	w := report.Warnings[0]
	if !strings.Contains(w.Message, "shift/reduce conflict") {
		t.Fatalf("unexpected warning message: %v", w.Message)
	}
	if w.State < 0 {
		t.Fatalf("a shift/reduce warning must be bound to a state: %v", w.State)
	}

	ptab := cgram.ParsingTable
	elseNum, ok := ptab.TerminalIDs["else"]
	if !ok {
		t.Fatalf("the terminal 'else' was not registered")
	}
	act, ok := ptab.Action[w.State][elseNum]
	if !ok || act.Kind != spec.ActionKindShift {
		t.Fatalf("the shift must win the conflict: got: %+v", act)
	}

	found := false
	for _, s := range report.States {
		for _, c := range s.SRConflict {
			if s.Number != w.State || c.Symbol != elseNum {
				t.Fatalf("unexpected conflict description: state: %v, %+v", s.Number, c)
			}
			if c.AdoptedState != act.Param {
				t.Fatalf("the adopted state must be the shift target: want: %v, got: %v", act.Param, c.AdoptedState)
			}
			found = true
		}
	}
	if !found {
		t.Fatalf("the report must describe the resolved conflict")
	}
}

func TestCompileReduceReduceConflict(t *testing.T) {
	gram := buildTestGrammar(t, "s", []testRule{
		{"s", []SymbolRef{NT("a"), Lit("x")}},
		{"s", []SymbolRef{NT("b"), Lit("x")}},
		{"a", []SymbolRef{Lit("a")}},
		{"b", []SymbolRef{Lit("a")}},
	})
	_, _, err := Compile(gram)
	if err == nil {
		t.Fatalf("a reduce/reduce conflict must be fatal")
	}
	var rr *ReduceReduceConflictError
	if !errors.As(err, &rr) {
		t.Fatalf("unexpected error type: %v", err)
	}
	if rr.Symbol != "x" {
		t.Fatalf("unexpected conflict symbol: want: x, got: %v", rr.Symbol)
	}
	if rr.Production1 == rr.Production2 {
		t.Fatalf("a conflict must involve two distinct productions: %v", rr.Production1)
	}
	if len(rr.Derivation) == 0 {
		t.Fatalf("a reduce/reduce error must carry a derivation chain")
	}
	if rr.Derivation[0] != "state 0" {
		t.Fatalf("a derivation chain must start at the initial state: got: %v", rr.Derivation[0])
	}
	if !strings.Contains(err.Error(), "reduce/reduce conflict") {
		t.Fatalf("unexpected error message: %v", err)
	}
}

func TestCompileEmptySetWarnings(t *testing.T) {
	gram := buildTestGrammar(t, "s", []testRule{
		{"s", []SymbolRef{Lit("s")}},
		{"u", []SymbolRef{Lit("u")}},
		{"c", []SymbolRef{NT("c"), Lit("x")}},
	})
	_, report, err := Compile(gram)
	if err != nil {
		t.Fatal(err)
	}

	var first, follow []string
	for _, w := range report.Warnings {
		switch {
		case strings.Contains(w.Message, "FIRST"):
			first = append(first, w.Message)
		case strings.Contains(w.Message, "FOLLOW"):
			follow = append(follow, w.Message)
		}
		if w.State != -1 {
			t.Errorf("an analysis warning is not bound to a state: %+v", w)
		}
	}
	if len(first) != 1 || !strings.Contains(first[0], "'c'") {
		t.Errorf("an empty FIRST set of 'c' must be warned about: %v", first)
	}
	// Both u (unreachable) and c (unreachable and unproductive) have empty
	// FOLLOW sets.
	if len(follow) != 2 {
		t.Errorf("unexpected FOLLOW warning count: want: 2, got: %v", follow)
	}
}
