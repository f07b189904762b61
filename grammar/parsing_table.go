package grammar

import (
	"fmt"
	"strings"
)

type ActionType string

const (
	ActionTypeShift  = ActionType("shift")
	ActionTypeReduce = ActionType("reduce")
	ActionTypeAccept = ActionType("accept")
	ActionTypeError  = ActionType("error")
)

// actionEntry packs one ACTION cell into an int: 0 is the empty cell, a negative
// value is a shift to the negated state, and a positive value is a reduce of
// that production. The accept entry reuses the reduce encoding with the
// augmented start production, which no legitimate reduce can produce because
// FOLLOW of the augmented start symbol is always empty.
type actionEntry int

const actionEntryEmpty = actionEntry(0)

func newShiftActionEntry(state stateNum) actionEntry {
	return actionEntry(state * -1)
}

func newReduceActionEntry(prod productionNum) actionEntry {
	return actionEntry(prod)
}

func newAcceptActionEntry() actionEntry {
	return actionEntry(productionNumStart)
}

func (e actionEntry) isEmpty() bool {
	return e == actionEntryEmpty
}

func (e actionEntry) describe() (ActionType, stateNum, productionNum) {
	if e == actionEntryEmpty {
		return ActionTypeError, stateNumInitial, productionNumNil
	}
	if e < 0 {
		return ActionTypeShift, stateNum(e * -1), productionNumNil
	}
	if productionNum(e) == productionNumStart {
		return ActionTypeAccept, stateNumInitial, productionNumStart
	}
	return ActionTypeReduce, stateNumInitial, productionNum(e)
}

type GoToType string

const (
	GoToTypeRegistered = GoToType("registered")
	GoToTypeError      = GoToType("error")
)

type goToEntry uint

const goToEntryEmpty = goToEntry(0)

func newGoToEntry(state stateNum) goToEntry {
	return goToEntry(state)
}

func (e goToEntry) isEmpty() bool {
	return e == goToEntryEmpty
}

func (e goToEntry) describe() (GoToType, stateNum) {
	if e == goToEntryEmpty {
		return GoToTypeError, stateNumInitial
	}
	return GoToTypeRegistered, stateNum(e)
}

// shiftReduceConflict records a resolved shift/reduce conflict: the shift to
// nextState won over reducing prodNum. It is surfaced as a warning, never an
// error.
type shiftReduceConflict struct {
	state     stateNum
	sym       symbol
	nextState stateNum
	prodNum   productionNum
}

// ReduceReduceConflictError is fatal: the same state and lookahead demand the
// reduction of two distinct productions, and an SLR(1) table cannot represent
// that. Derivation holds a rendered transition chain from the initial state into
// the conflicting state.
type ReduceReduceConflictError struct {
	State       stateNum
	Symbol      string
	Production1 productionNum
	Production2 productionNum
	Derivation  []string
}

func (e *ReduceReduceConflictError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "reduce/reduce conflict at state %v on '%v': production %v vs production %v", e.State, e.Symbol, e.Production1, e.Production2)
	if len(e.Derivation) > 0 {
		fmt.Fprintf(&b, "\n    reachable via: %v", strings.Join(e.Derivation, " "))
	}
	return b.String()
}

type ParsingTable struct {
	actionTable      []actionEntry
	goToTable        []goToEntry
	stateCount       int
	terminalCount    int
	nonTerminalCount int

	InitialState stateNum
}

func (t *ParsingTable) getAction(state stateNum, sym symbolNum) (ActionType, stateNum, productionNum) {
	pos := state.Int()*t.terminalCount + sym.Int()
	return t.actionTable[pos].describe()
}

func (t *ParsingTable) getGoTo(state stateNum, sym symbolNum) (GoToType, stateNum) {
	pos := state.Int()*t.nonTerminalCount + sym.Int()
	return t.goToTable[pos].describe()
}

func (t *ParsingTable) readAction(row int, col int) actionEntry {
	return t.actionTable[row*t.terminalCount+col]
}

func (t *ParsingTable) writeAction(row int, col int, act actionEntry) {
	t.actionTable[row*t.terminalCount+col] = act
}

func (t *ParsingTable) writeGoTo(state stateNum, sym symbol, nextState stateNum) {
	pos := state.Int()*t.nonTerminalCount + sym.num().Int()
	t.goToTable[pos] = newGoToEntry(nextState)
}

type slrTableBuilder struct {
	automaton    *lr0Automaton
	prods        *productionSet
	follow       *followSet
	termCount    int
	nonTermCount int
	symTab       *symbolTable

	conflicts []*shiftReduceConflict
}

func (b *slrTableBuilder) build() (*ParsingTable, error) {
	var ptab *ParsingTable
	{
		initialState := b.automaton.states[b.automaton.initialState]
		ptab = &ParsingTable{
			actionTable:      make([]actionEntry, len(b.automaton.states)*b.termCount),
			goToTable:        make([]goToEntry, len(b.automaton.states)*b.nonTermCount),
			stateCount:       len(b.automaton.states),
			terminalCount:    b.termCount,
			nonTerminalCount: b.nonTermCount,
			InitialState:     initialState.num,
		}
	}

	it := b.automaton.ordered.Iterator()
	for it.Next() {
		state := it.Value().(*lrState)

		for sym, kID := range state.next {
			nextState := b.automaton.states[kID]
			switch {
			case sym.isEOF():
				// EOF occurs in the augmented start production only, so this
				// edge leaves the configuration S' → S・<eof>.
				ptab.writeAction(state.num.Int(), sym.num().Int(), newAcceptActionEntry())
			case sym.isTerminal():
				ptab.writeAction(state.num.Int(), sym.num().Int(), newShiftActionEntry(nextState.num))
			default:
				ptab.writeGoTo(state.num, sym, nextState.num)
			}
		}

		for prodID := range state.reducible {
			prod, ok := b.prods.findByID(prodID)
			if !ok {
				return nil, fmt.Errorf("reducible production not found: %v", prodID)
			}
			if prod.lhs.isStart() {
				// The completed start item lies one transition beyond the accept
				// entry and FOLLOW of the augmented start symbol is empty.
				continue
			}

			flw, err := b.follow.find(prod.lhs)
			if err != nil {
				return nil, err
			}
			for sym := range flw.symbols {
				err := b.writeReduceAction(ptab, state.num, sym, prod.num)
				if err != nil {
					return nil, err
				}
			}
		}
	}

	accepted := false
	for _, e := range ptab.actionTable {
		if ty, _, _ := e.describe(); ty == ActionTypeAccept {
			accepted = true
			break
		}
	}
	if !accepted {
		return nil, fmt.Errorf("no accept action was generated; this indicates a defect in the table builder, not in the grammar")
	}

	return ptab, nil
}

// writeReduceAction writes a reduce action to the parsing table. A shift/reduce
// conflict keeps the already written shift (or accept) and is recorded as a
// warning; a reduce/reduce conflict is fatal.
func (b *slrTableBuilder) writeReduceAction(tab *ParsingTable, state stateNum, sym symbol, prod productionNum) error {
	act := tab.readAction(state.Int(), sym.num().Int())
	if act.isEmpty() {
		tab.writeAction(state.Int(), sym.num().Int(), newReduceActionEntry(prod))
		return nil
	}

	ty, s, p := act.describe()
	switch ty {
	case ActionTypeReduce:
		if p == prod {
			return nil
		}
		symText, _ := b.symTab.toText(sym)
		return &ReduceReduceConflictError{
			State:       state,
			Symbol:      symText,
			Production1: p,
			Production2: prod,
			Derivation:  b.derivationChain(state),
		}
	default: // shift or accept
		b.conflicts = append(b.conflicts, &shiftReduceConflict{
			state:     state,
			sym:       sym,
			nextState: s,
			prodNum:   prod,
		})
		return nil
	}
}

// derivationChain renders the transition chain from the initial state into
// target, reconstructed from the in-transitions recorded during exploration.
func (b *slrTableBuilder) derivationChain(target stateNum) []string {
	chain := b.automaton.shortestDerivation(target)
	if len(chain) == 0 {
		return nil
	}
	parts := []string{fmt.Sprintf("state %v", stateNumInitial)}
	for _, t := range chain {
		name, _ := b.symTab.toText(t.sym)
		parts = append(parts, fmt.Sprintf("--%v--> state %v", name, t.to))
	}
	return parts
}
