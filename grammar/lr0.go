package grammar

import (
	"fmt"
	"sort"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

type lr0Automaton struct {
	initialState kernelID
	states       map[kernelID]*lrState

	// The fields below are filled in by freeze once exploration terminates.
	byNum   []*lrState
	ordered *treeset.Set    // *lrState, sorted by state number
	edges   *arraylist.List // *transition
}

// genLR0Automaton explores the LR(0) item sets breadth-first, starting from the
// kernel {S' →・S <eof>}. States are deduplicated by kernel ID and numbered
// densely in discovery order. Termination is guaranteed because the number of
// distinct kernels is bounded by the finite set of production/dot pairs.
func genLR0Automaton(prods *productionSet, startSym symbol) (*lr0Automaton, error) {
	if !startSym.isStart() {
		return nil, fmt.Errorf("passed symbol is not a start symbol")
	}

	automaton := &lr0Automaton{
		states: map[kernelID]*lrState{},
	}

	currentState := stateNumInitial
	knownKernels := map[kernelID]struct{}{}
	uncheckedKernels := []*kernel{}

	// Generate an initial kernel.
	{
		prods, _ := prods.findByLHS(startSym)
		initialItem, err := newLRItem(prods[0], 0)
		if err != nil {
			return nil, err
		}

		k, err := newKernel([]*lrItem{initialItem})
		if err != nil {
			return nil, err
		}

		automaton.initialState = k.id
		knownKernels[k.id] = struct{}{}
		uncheckedKernels = append(uncheckedKernels, k)
	}

	for len(uncheckedKernels) > 0 {
		nextUncheckedKernels := []*kernel{}
		for _, k := range uncheckedKernels {
			state, neighbours, err := genStateAndNeighbourKernels(k, prods)
			if err != nil {
				return nil, err
			}
			state.num = currentState
			currentState = currentState.next()

			automaton.states[state.id] = state

			for _, k := range neighbours {
				if _, known := knownKernels[k.id]; known {
					continue
				}
				knownKernels[k.id] = struct{}{}
				nextUncheckedKernels = append(nextUncheckedKernels, k)
			}
		}
		uncheckedKernels = nextUncheckedKernels
	}

	automaton.freeze()

	return automaton, nil
}

// freeze records every edge bidirectionally and builds the ordered views of the
// state set. The automaton is immutable afterwards.
func (a *lr0Automaton) freeze() {
	a.byNum = make([]*lrState, len(a.states))
	a.ordered = treeset.NewWith(stateComparator)
	a.edges = arraylist.New()
	for _, s := range a.states {
		s.in = arraylist.New()
		a.byNum[s.num.Int()] = s
		a.ordered.Add(s)
	}
	for _, s := range a.states {
		for sym, kID := range s.next {
			t := &transition{
				from: s.num,
				to:   a.states[kID].num,
				sym:  sym,
			}
			a.edges.Add(t)
			a.states[kID].in.Add(t)
		}
	}
}

// We need this for the ordered set of states. It sorts states by their number.
func stateComparator(a, b interface{}) int {
	s1 := a.(*lrState)
	s2 := b.(*lrState)
	return utils.IntComparator(int(s1.num), int(s2.num))
}

// shortestDerivation walks the in-transitions backwards from a target state to
// the initial state and returns the forward chain of transitions. It is used to
// point a human at a representative token sequence reaching a conflicting state.
func (a *lr0Automaton) shortestDerivation(target stateNum) []*transition {
	if target == stateNumInitial {
		return nil
	}

	visited := map[stateNum]struct{}{target: {}}
	via := map[stateNum]*transition{}
	frontier := []stateNum{target}
	for len(frontier) > 0 {
		nextFrontier := []stateNum{}
		for _, n := range frontier {
			it := a.byNum[n.Int()].in.Iterator()
			for it.Next() {
				t := it.Value().(*transition)
				if _, ok := visited[t.from]; ok {
					continue
				}
				visited[t.from] = struct{}{}
				via[t.from] = t
				if t.from == stateNumInitial {
					return a.chainFrom(via)
				}
				nextFrontier = append(nextFrontier, t.from)
			}
		}
		frontier = nextFrontier
	}

	return nil
}

func (a *lr0Automaton) chainFrom(via map[stateNum]*transition) []*transition {
	chain := []*transition{}
	n := stateNumInitial
	for {
		t, ok := via[n]
		if !ok {
			return chain
		}
		chain = append(chain, t)
		n = t.to
	}
}

func genStateAndNeighbourKernels(k *kernel, prods *productionSet) (*lrState, []*kernel, error) {
	items, err := genLR0Closure(k, prods)
	if err != nil {
		return nil, nil, err
	}
	neighbours, err := genNeighbourKernels(items, prods)
	if err != nil {
		return nil, nil, err
	}

	next := map[symbol]kernelID{}
	kernels := []*kernel{}
	for _, n := range neighbours {
		next[n.symbol] = n.kernel.id
		kernels = append(kernels, n.kernel)
	}

	reducible := map[productionID]struct{}{}
	accepting := false
	for _, item := range items {
		if item.reducible {
			reducible[item.prod] = struct{}{}
		}
		// Only the augmented start production contains EOF, so a dotted EOF
		// identifies the accepting configuration S' → S・<eof>.
		if item.dottedSymbol.isEOF() {
			accepting = true
		}
	}

	return &lrState{
		kernel:    k,
		next:      next,
		reducible: reducible,
		accepting: accepting,
	}, kernels, nil
}

// genLR0Closure adds, for every item whose dot precedes a non-terminal, the
// start items of that non-terminal's productions, until no more items can be
// added. Duplicates are dropped by item ID.
func genLR0Closure(k *kernel, prods *productionSet) ([]*lrItem, error) {
	items := []*lrItem{}
	knownItems := map[lrItemID]struct{}{}
	uncheckedItems := []*lrItem{}
	for _, item := range k.items {
		items = append(items, item)
		knownItems[item.id] = struct{}{}
		uncheckedItems = append(uncheckedItems, item)
	}
	for len(uncheckedItems) > 0 {
		nextUncheckedItems := []*lrItem{}
		for _, item := range uncheckedItems {
			if !item.dottedSymbol.isNonTerminal() {
				continue
			}

			ps, _ := prods.findByLHS(item.dottedSymbol)
			for _, prod := range ps {
				item, err := newLRItem(prod, 0)
				if err != nil {
					return nil, err
				}
				if _, exist := knownItems[item.id]; exist {
					continue
				}
				items = append(items, item)
				knownItems[item.id] = struct{}{}
				nextUncheckedItems = append(nextUncheckedItems, item)
			}
		}
		uncheckedItems = nextUncheckedItems
	}

	return items, nil
}

type neighbourKernel struct {
	symbol symbol
	kernel *kernel
}

// genNeighbourKernels advances the dot past each distinct dotted symbol and
// groups the advanced items into the kernels of the candidate successor states.
func genNeighbourKernels(items []*lrItem, prods *productionSet) ([]*neighbourKernel, error) {
	kItemMap := map[symbol][]*lrItem{}
	for _, item := range items {
		if item.dottedSymbol.isNil() {
			continue
		}
		prod, ok := prods.findByID(item.prod)
		if !ok {
			return nil, fmt.Errorf("a production was not found: %v", item.prod)
		}
		kItem, err := newLRItem(prod, item.dot+1)
		if err != nil {
			return nil, err
		}
		kItemMap[item.dottedSymbol] = append(kItemMap[item.dottedSymbol], kItem)
	}

	nextSyms := []symbol{}
	for sym := range kItemMap {
		nextSyms = append(nextSyms, sym)
	}
	sort.Slice(nextSyms, func(i, j int) bool {
		return nextSyms[i] < nextSyms[j]
	})

	kernels := []*neighbourKernel{}
	for _, sym := range nextSyms {
		k, err := newKernel(kItemMap[sym])
		if err != nil {
			return nil, err
		}
		kernels = append(kernels, &neighbourKernel{
			symbol: sym,
			kernel: k,
		})
	}

	return kernels, nil
}
