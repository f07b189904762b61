package grammar

import (
	"fmt"

	"github.com/shiramin/slrgen/spec"
)

type symbolRefKind int

const (
	refNonTerminal = symbolRefKind(iota)
	refLiteral
	refCategory
)

// SymbolRef is one symbol reference on the RHS of a rule, produced by NT, Lit,
// or Cat.
type SymbolRef struct {
	kind symbolRefKind
	name string
}

// NT references a non-terminal by name.
func NT(name string) SymbolRef {
	return SymbolRef{kind: refNonTerminal, name: name}
}

// Lit references a literal terminal by its exact text.
func Lit(text string) SymbolRef {
	return SymbolRef{kind: refLiteral, name: text}
}

// Cat references an open terminal category by its kind name.
func Cat(name string) SymbolRef {
	return SymbolRef{kind: refCategory, name: name}
}

func (r SymbolRef) String() string {
	switch r.kind {
	case refLiteral:
		return fmt.Sprintf("'%v'", r.name)
	case refCategory:
		return fmt.Sprintf("<%v>", r.name)
	}
	return r.name
}

type ruleEntry struct {
	lhs    string
	rhs    []SymbolRef
	action spec.SemanticAction
}

// Builder accumulates rule declarations and turns them into a validated,
// augmented Grammar. It is the programmatic boundary an external
// grammar-definition compiler feeds.
type Builder struct {
	name  string
	start string
	rules []*ruleEntry
}

func NewBuilder(name, start string) *Builder {
	return &Builder{
		name:  name,
		start: start,
	}
}

// AddRule declares one production. Alternatives of the same non-terminal are
// declared as separate rules. A nil action is allowed; a grammar whose rules all
// have nil actions makes the runtime synthesize generic parse trees.
func (b *Builder) AddRule(lhs string, rhs []SymbolRef, action spec.SemanticAction) *Builder {
	b.rules = append(b.rules, &ruleEntry{
		lhs:    lhs,
		rhs:    rhs,
		action: action,
	})
	return b
}

type Grammar struct {
	name                 string
	symbolTable          *symbolTable
	productionSet        *productionSet
	augmentedStartSymbol symbol
	startSymbol          symbol
	actions              map[productionID]spec.SemanticAction
	hasActions           bool
}

// Build validates the declared rules and assembles the grammar, augmented with
// the start production S' → S <eof>. Every non-terminal referenced on a RHS must
// be defined as a LHS somewhere, and no RHS may be empty.
func (b *Builder) Build() (*Grammar, error) {
	if b.name == "" {
		return nil, semErrNoGrammarName
	}
	if len(b.rules) == 0 {
		return nil, semErrNoProduction
	}

	// The augmented start symbol and EOF get synthesized names; a user symbol
	// aliasing either would corrupt production numbering and the accept
	// encoding.
	augName := b.start + "'"
	lhsNames := map[string]struct{}{}
	for _, r := range b.rules {
		if r.lhs == "" {
			return nil, fmt.Errorf("%w: a rule needs a LHS", semErrUndefinedSym)
		}
		if r.lhs == augName || r.lhs == symbolNameEOF {
			return nil, fmt.Errorf("%w: %v", semErrReservedName, r.lhs)
		}
		lhsNames[r.lhs] = struct{}{}
	}
	if _, ok := lhsNames[b.start]; !ok {
		return nil, fmt.Errorf("%w: the start symbol '%v' has no production", semErrUndefinedSym, b.start)
	}

	symTab := newSymbolTable()
	augStartSym, err := symTab.registerStartSymbol(augName)
	if err != nil {
		return nil, err
	}
	startSym, err := symTab.registerNonTerminalSymbol(b.start)
	if err != nil {
		return nil, err
	}
	for _, r := range b.rules {
		if _, err := symTab.registerNonTerminalSymbol(r.lhs); err != nil {
			return nil, fmt.Errorf("%w: %v", semErrDuplicateName, err)
		}
	}

	prods := newProductionSet()
	actions := map[productionID]spec.SemanticAction{}
	hasActions := false

	startProd, err := newProduction(augStartSym, []symbol{startSym, symbolEOF})
	if err != nil {
		return nil, err
	}
	prods.append(startProd)

	for _, r := range b.rules {
		lhsSym, _ := symTab.toSymbol(r.lhs)

		if len(r.rhs) == 0 {
			return nil, fmt.Errorf("%w; LHS: %v", semErrEmptyAlternative, r.lhs)
		}
		rhs := make([]symbol, 0, len(r.rhs))
		for _, ref := range r.rhs {
			if ref.name == symbolNameEOF {
				return nil, fmt.Errorf("%w: %v", semErrReservedName, ref.name)
			}
			var sym symbol
			switch ref.kind {
			case refNonTerminal:
				if _, ok := lhsNames[ref.name]; !ok {
					return nil, fmt.Errorf("%w: non-terminal '%v' is referenced but has no production", semErrUndefinedSym, ref.name)
				}
				sym, err = symTab.registerNonTerminalSymbol(ref.name)
			case refLiteral:
				sym, err = symTab.registerLiteralSymbol(ref.name)
			case refCategory:
				sym, err = symTab.registerCategorySymbol(ref.name)
			}
			if err != nil {
				return nil, fmt.Errorf("%w: %v", semErrDuplicateName, err)
			}
			rhs = append(rhs, sym)
		}

		prod, err := newProduction(lhsSym, rhs)
		if err != nil {
			return nil, err
		}
		if added := prods.append(prod); !added {
			return nil, fmt.Errorf("%w: %v → %v", semErrDuplicateProduction, r.lhs, r.rhs)
		}
		if r.action != nil {
			actions[prod.id] = r.action
			hasActions = true
		}
	}

	return &Grammar{
		name:                 b.name,
		symbolTable:          symTab,
		productionSet:        prods,
		augmentedStartSymbol: augStartSym,
		startSymbol:          startSym,
		actions:              actions,
		hasActions:           hasActions,
	}, nil
}

// FromDef builds a grammar from its JSON definition. Definitions carry no
// semantic actions.
func FromDef(def *spec.GrammarDef) (*Grammar, error) {
	b := NewBuilder(def.Name, def.Start)
	for _, r := range def.Rules {
		refs := make([]SymbolRef, 0, len(r.RHS))
		for _, s := range r.RHS {
			if err := s.Validate(); err != nil {
				return nil, err
			}
			switch {
			case s.NonTerminal != "":
				refs = append(refs, NT(s.NonTerminal))
			case s.Literal != "":
				refs = append(refs, Lit(s.Literal))
			default:
				refs = append(refs, Cat(s.Category))
			}
		}
		b.AddRule(r.LHS, refs, nil)
	}
	return b.Build()
}

type compileConfig struct {
	reporting bool
}

type CompileOption func(config *compileConfig)

// EnableReporting makes Compile describe every automaton state in the report.
// Warnings are collected regardless.
func EnableReporting() CompileOption {
	return func(config *compileConfig) {
		config.reporting = true
	}
}

// Compile runs the full build-time pipeline: FIRST/FOLLOW analysis, LR(0)
// automaton construction, SLR(1) ACTION/GOTO synthesis, and assembly of the
// portable tables. Reduce/reduce conflicts and a missing accept action are
// fatal; empty FIRST/FOLLOW sets and shift/reduce conflicts (resolved toward
// shift) are warnings in the returned report.
func Compile(gram *Grammar, opts ...CompileOption) (*spec.CompiledGrammar, *spec.Report, error) {
	config := &compileConfig{}
	for _, opt := range opts {
		opt(config)
	}

	fst, err := genFirstSet(gram.productionSet)
	if err != nil {
		return nil, nil, err
	}
	flw, err := genFollowSet(gram.productionSet, fst)
	if err != nil {
		return nil, nil, err
	}

	var warnings []*spec.Warning
	for _, sym := range gram.symbolTable.nonTerminalSymbols() {
		name, _ := gram.symbolTable.toText(sym)
		if e := fst.findBySymbol(sym); e != nil && e.empty() {
			warnings = append(warnings, &spec.Warning{
				Message: fmt.Sprintf("non-terminal '%v' has an empty FIRST set; it can never derive a terminal string", name),
				State:   -1,
			})
		}
		if sym.isStart() {
			// FOLLOW of the augmented start symbol is empty by construction.
			continue
		}
		if e, err := flw.find(sym); err == nil && e.empty() {
			warnings = append(warnings, &spec.Warning{
				Message: fmt.Sprintf("non-terminal '%v' has an empty FOLLOW set; it never occurs in a derivation from the start symbol", name),
				State:   -1,
			})
		}
	}

	automaton, err := genLR0Automaton(gram.productionSet, gram.augmentedStartSymbol)
	if err != nil {
		return nil, nil, err
	}

	termTexts := gram.symbolTable.terminalTexts()
	nonTermTexts := gram.symbolTable.nonTerminalTexts()
	tb := &slrTableBuilder{
		automaton:    automaton,
		prods:        gram.productionSet,
		follow:       flw,
		termCount:    len(termTexts),
		nonTermCount: len(nonTermTexts),
		symTab:       gram.symbolTable,
	}
	ptab, err := tb.build()
	if err != nil {
		return nil, nil, err
	}

	for _, c := range tb.conflicts {
		symText, _ := gram.symbolTable.toText(c.sym)
		warnings = append(warnings, &spec.Warning{
			Message: fmt.Sprintf("shift/reduce conflict at state %v on '%v'; the shift to state %v wins over reducing production %v", c.state, symText, c.nextState, c.prodNum),
			State:   c.state.Int(),
		})
	}

	terminalIDs := map[string]int{}
	for _, sym := range gram.symbolTable.terminalSymbols() {
		name, ok := gram.symbolTable.toText(sym)
		if !ok {
			return nil, nil, fmt.Errorf("symbol not found in the symbol table: %v", sym)
		}
		terminalIDs[name] = sym.num().Int()
	}

	prodCount := gram.productionSet.num.Int()
	ruleNonTerminals := make([]int, prodCount)
	arities := make([]int, prodCount)
	var sems []spec.SemanticAction
	if gram.hasActions {
		sems = make([]spec.SemanticAction, prodCount)
	}
	for _, p := range gram.productionSet.getAllProductions() {
		ruleNonTerminals[p.num.Int()] = p.lhs.num().Int()
		arities[p.num.Int()] = p.rhsLen
		if sems != nil {
			sems[p.num.Int()] = gram.actions[p.id]
		}
	}

	goTo := make([]map[int]int, ptab.stateCount)
	action := make([]map[int]spec.Action, ptab.stateCount)
	for s := 0; s < ptab.stateCount; s++ {
		gRow := map[int]int{}
		for n := 0; n < ptab.nonTerminalCount; n++ {
			if ty, next := ptab.getGoTo(stateNum(s), symbolNum(n)); ty == GoToTypeRegistered {
				gRow[n] = next.Int()
			}
		}
		aRow := map[int]spec.Action{}
		for t := 0; t < ptab.terminalCount; t++ {
			ty, next, prod := ptab.getAction(stateNum(s), symbolNum(t))
			switch ty {
			case ActionTypeAccept:
				aRow[t] = spec.Action{Kind: spec.ActionKindAccept}
			case ActionTypeShift:
				aRow[t] = spec.Action{Kind: spec.ActionKindShift, Param: next.Int()}
			case ActionTypeReduce:
				aRow[t] = spec.Action{Kind: spec.ActionKindReduce, Param: prod.Int()}
			}
		}
		goTo[s] = gRow
		action[s] = aRow
	}

	cgram := &spec.CompiledGrammar{
		Name: gram.name,
		ParsingTable: &spec.ParsingTable{
			TerminalIDs:      terminalIDs,
			RuleNonTerminals: ruleNonTerminals,
			Arities:          arities,
			GoTo:             goTo,
			Action:           action,
			StateCount:       ptab.stateCount,
			InitialState:     ptab.InitialState.Int(),
			StartProduction:  productionNumStart.Int(),
			StartNonTerminal: gram.startSymbol.num().Int(),
			EOFSymbol:        symbolEOF.num().Int(),
			TerminalCount:    len(termTexts),
			NonTerminalCount: len(nonTermTexts),
			Terminals:        termTexts,
			NonTerminals:     nonTermTexts,
		},
		SemanticActions: sems,
	}

	report := &spec.Report{
		Warnings: warnings,
	}
	if config.reporting {
		err := tb.describeTo(report, ptab)
		if err != nil {
			return nil, nil, err
		}
	}

	return cgram, report, nil
}

// describeTo fills the report with the symbol, production, and state details a
// human needs to inspect the generated automaton.
func (b *slrTableBuilder) describeTo(report *spec.Report, tab *ParsingTable) error {
	for _, sym := range b.symTab.terminalSymbols() {
		name, ok := b.symTab.toText(sym)
		if !ok {
			return fmt.Errorf("failed to describe terminals: symbol not found: %v", sym)
		}
		report.Terminals = append(report.Terminals, &spec.Terminal{
			Number:   sym.num().Int(),
			Name:     name,
			Category: b.symTab.isCategory(sym),
		})
	}

	for _, sym := range b.symTab.nonTerminalSymbols() {
		name, ok := b.symTab.toText(sym)
		if !ok {
			return fmt.Errorf("failed to describe non-terminals: symbol not found: %v", sym)
		}
		report.NonTerminals = append(report.NonTerminals, &spec.NonTerminal{
			Number: sym.num().Int(),
			Name:   name,
		})
	}

	prods := make([]*spec.Production, b.prods.num.Int())
	for _, p := range b.prods.getAllProductions() {
		rhs := make([]int, len(p.rhs))
		for i, e := range p.rhs {
			if e.isTerminal() {
				rhs[i] = e.num().Int()
			} else {
				rhs[i] = e.num().Int() * -1
			}
		}
		prods[p.num.Int()] = &spec.Production{
			Number: p.num.Int(),
			LHS:    p.lhs.num().Int(),
			RHS:    rhs,
		}
	}
	for _, p := range prods {
		if p == nil {
			continue
		}
		report.Productions = append(report.Productions, p)
	}

	srConflicts := map[stateNum][]*shiftReduceConflict{}
	for _, c := range b.conflicts {
		srConflicts[c.state] = append(srConflicts[c.state], c)
	}

	it := b.automaton.ordered.Iterator()
	for it.Next() {
		s := it.Value().(*lrState)

		kernel := make([]*spec.Item, len(s.items))
		for i, item := range s.items {
			p, ok := b.prods.findByID(item.prod)
			if !ok {
				return fmt.Errorf("failed to describe states: production of kernel item not found: %v", item.prod)
			}
			kernel[i] = &spec.Item{
				Production: p.num.Int(),
				Dot:        item.dot,
			}
		}

		var shift []*spec.Transition
		var reduce []*spec.Reduce
		var goTo []*spec.Transition
	TERMINALS_LOOP:
		for _, t := range b.symTab.terminalSymbols() {
			act, next, prod := tab.getAction(s.num, t.num())
			switch act {
			case ActionTypeShift:
				shift = append(shift, &spec.Transition{
					Symbol: t.num().Int(),
					State:  next.Int(),
				})
			case ActionTypeReduce:
				for _, r := range reduce {
					if r.Production == prod.Int() {
						r.LookAhead = append(r.LookAhead, t.num().Int())
						continue TERMINALS_LOOP
					}
				}
				reduce = append(reduce, &spec.Reduce{
					LookAhead:  []int{t.num().Int()},
					Production: prod.Int(),
				})
			}
		}
		for _, n := range b.symTab.nonTerminalSymbols() {
			ty, next := tab.getGoTo(s.num, n.num())
			if ty == GoToTypeRegistered {
				goTo = append(goTo, &spec.Transition{
					Symbol: n.num().Int(),
					State:  next.Int(),
				})
			}
		}

		var sr []*spec.SRConflict
		for _, c := range srConflicts[s.num] {
			sr = append(sr, &spec.SRConflict{
				Symbol:       c.sym.num().Int(),
				State:        s.num.Int(),
				Production:   c.prodNum.Int(),
				AdoptedState: c.nextState.Int(),
			})
		}

		report.States = append(report.States, &spec.State{
			Number:     s.num.Int(),
			Kernel:     kernel,
			Shift:      shift,
			Reduce:     reduce,
			GoTo:       goTo,
			SRConflict: sr,
		})
	}

	return nil
}
