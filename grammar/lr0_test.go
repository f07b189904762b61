package grammar

import (
	"fmt"
	"sort"
	"testing"
)

func exprTestGrammar(t *testing.T) *Grammar {
	t.Helper()
	return buildTestGrammar(t, "e", []testRule{
		{"e", []SymbolRef{NT("e"), Lit("+"), NT("t")}},
		{"e", []SymbolRef{NT("t")}},
		{"t", []SymbolRef{NT("t"), Lit("*"), NT("f")}},
		{"t", []SymbolRef{NT("f")}},
		{"f", []SymbolRef{Lit("("), NT("e"), Lit(")")}},
		{"f", []SymbolRef{Cat("id")}},
	})
}

func TestGenLR0Automaton(t *testing.T) {
	gram := exprTestGrammar(t)
	automaton, err := genLR0Automaton(gram.productionSet, gram.augmentedStartSymbol)
	if err != nil {
		t.Fatal(err)
	}

	// The canonical LR(0) collection of this grammar has 12 states; the shift
	// over the explicit EOF terminal adds one more.
	if len(automaton.states) != 13 {
		t.Fatalf("unexpected state count: want: 13, got: %v", len(automaton.states))
	}

	initial := automaton.states[automaton.initialState]
	if initial.num != stateNumInitial {
		t.Fatalf("the initial state must be state 0: got: %v", initial.num)
	}
	if len(initial.items) != 1 || !initial.items[0].initial {
		t.Fatalf("the initial state kernel must hold the initial item only: %+v", initial.items)
	}

	// States are numbered densely in discovery order.
	seen := map[stateNum]struct{}{}
	accepting := 0
	for _, s := range automaton.states {
		if _, ok := seen[s.num]; ok {
			t.Fatalf("a state number appears twice: %v", s.num)
		}
		seen[s.num] = struct{}{}
		if s.num.Int() < 0 || s.num.Int() >= len(automaton.states) {
			t.Fatalf("a state number is out of range: %v", s.num)
		}
		if automaton.byNum[s.num.Int()] != s {
			t.Fatalf("byNum disagrees with the state map at %v", s.num)
		}
		if s.accepting {
			accepting++
		}
		for _, kID := range s.next {
			if _, ok := automaton.states[kID]; !ok {
				t.Fatalf("a transition of state %v leads to an unknown state", s.num)
			}
		}
	}
	if accepting != 1 {
		t.Fatalf("unexpected accepting state count: want: 1, got: %v", accepting)
	}

	// Every non-initial state is reachable backwards through its recorded
	// in-transitions.
	for _, s := range automaton.states {
		if s.num == stateNumInitial {
			continue
		}
		chain := automaton.shortestDerivation(s.num)
		if len(chain) == 0 {
			t.Fatalf("state %v has no derivation chain", s.num)
		}
		if chain[0].from != stateNumInitial {
			t.Fatalf("a derivation chain must start at state 0: got: %v", chain[0].from)
		}
		if chain[len(chain)-1].to != s.num {
			t.Fatalf("a derivation chain must end at the target state %v: got: %v", s.num, chain[len(chain)-1].to)
		}
		for i := 1; i < len(chain); i++ {
			if chain[i].from != chain[i-1].to {
				t.Fatalf("a derivation chain must be contiguous: %v, %v", chain[i-1], chain[i])
			}
		}
	}
}

func TestGenLR0AutomatonDeterminism(t *testing.T) {
	render := func(t *testing.T) []string {
		t.Helper()
		gram := exprTestGrammar(t)
		automaton, err := genLR0Automaton(gram.productionSet, gram.augmentedStartSymbol)
		if err != nil {
			t.Fatal(err)
		}
		var edges []string
		it := automaton.edges.Iterator()
		for it.Next() {
			tr := it.Value().(*transition)
			text, _ := gram.symbolTable.toText(tr.sym)
			edges = append(edges, fmt.Sprintf("%v --%v--> %v", tr.from, text, tr.to))
		}
		sort.Strings(edges)
		return edges
	}

	a := render(t)
	b := render(t)
	if len(a) != len(b) {
		t.Fatalf("edge counts differ between runs: %v, %v", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("edge %v differs between runs: %v, %v", i, a[i], b[i])
		}
	}
}
