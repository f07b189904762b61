package grammar

import "fmt"

type followEntry struct {
	symbols map[symbol]struct{}
}

func newFollowEntry() *followEntry {
	return &followEntry{
		symbols: map[symbol]struct{}{},
	}
}

func (e *followEntry) add(sym symbol) bool {
	if _, ok := e.symbols[sym]; ok {
		return false
	}
	e.symbols[sym] = struct{}{}
	return true
}

func (e *followEntry) mergeFirst(fst *firstEntry) bool {
	if fst == nil {
		return false
	}
	changed := false
	for sym := range fst.symbols {
		added := e.add(sym)
		if added {
			changed = true
		}
	}
	return changed
}

func (e *followEntry) mergeFollow(flw *followEntry) bool {
	if flw == nil || flw == e {
		return false
	}
	changed := false
	for sym := range flw.symbols {
		added := e.add(sym)
		if added {
			changed = true
		}
	}
	return changed
}

func (e *followEntry) empty() bool {
	return len(e.symbols) == 0
}

type followSet struct {
	set map[symbol]*followEntry
}

func newFollowSet(prods *productionSet) *followSet {
	flw := &followSet{
		set: map[symbol]*followEntry{},
	}
	for _, prod := range prods.getAllProductions() {
		if _, ok := flw.set[prod.lhs]; ok {
			continue
		}
		flw.set[prod.lhs] = newFollowEntry()
	}
	return flw
}

func (flw *followSet) find(sym symbol) (*followEntry, error) {
	e, ok := flw.set[sym]
	if !ok {
		return nil, fmt.Errorf("an entry of FOLLOW was not found; symbol: %s", sym)
	}
	return e, nil
}

// genFollowSet computes FOLLOW for every non-terminal as a second monotonic
// fixpoint. A non-terminal followed by a terminal acquires that terminal, a
// non-terminal followed by another non-terminal acquires the successor's FIRST
// set, and the trailing symbol of a production inherits FOLLOW of the LHS. The
// EOF terminal needs no special casing because the augmented start production
// carries it explicitly, so FOLLOW of the start symbol picks it up through plain
// adjacency.
func genFollowSet(prods *productionSet, first *firstSet) (*followSet, error) {
	flw := newFollowSet(prods)
	for {
		more := false
		for _, prod := range prods.getAllProductions() {
			for i, sym := range prod.rhs {
				if !sym.isNonTerminal() {
					continue
				}

				e, err := flw.find(sym)
				if err != nil {
					return nil, err
				}

				var changed bool
				if i+1 < prod.rhsLen {
					next := prod.rhs[i+1]
					if next.isTerminal() {
						changed = e.add(next)
					} else {
						changed = e.mergeFirst(first.findBySymbol(next))
					}
				} else {
					lhsFlw, err := flw.find(prod.lhs)
					if err != nil {
						return nil, err
					}
					changed = e.mergeFollow(lhsFlw)
				}
				if changed {
					more = true
				}
			}
		}
		if !more {
			break
		}
	}

	return flw, nil
}
