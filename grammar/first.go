package grammar

import "fmt"

type firstEntry struct {
	symbols map[symbol]struct{}
}

func newFirstEntry() *firstEntry {
	return &firstEntry{
		symbols: map[symbol]struct{}{},
	}
}

func (e *firstEntry) add(sym symbol) bool {
	if _, ok := e.symbols[sym]; ok {
		return false
	}
	e.symbols[sym] = struct{}{}
	return true
}

func (e *firstEntry) merge(target *firstEntry) bool {
	if target == nil {
		return false
	}
	changed := false
	for sym := range target.symbols {
		added := e.add(sym)
		if added {
			changed = true
		}
	}
	return changed
}

func (e *firstEntry) empty() bool {
	return len(e.symbols) == 0
}

type firstSet struct {
	set map[symbol]*firstEntry
}

func newFirstSet(prods *productionSet) *firstSet {
	fst := &firstSet{
		set: map[symbol]*firstEntry{},
	}
	for _, prod := range prods.getAllProductions() {
		if _, ok := fst.set[prod.lhs]; ok {
			continue
		}
		fst.set[prod.lhs] = newFirstEntry()
	}

	return fst
}

func (fst *firstSet) find(sym symbol) (*firstEntry, error) {
	e, ok := fst.set[sym]
	if !ok {
		return nil, fmt.Errorf("an entry of FIRST was not found; symbol: %s", sym)
	}
	return e, nil
}

func (fst *firstSet) findBySymbol(sym symbol) *firstEntry {
	return fst.set[sym]
}

// genFirstSet computes FIRST for every non-terminal as a monotonic fixpoint over
// all productions. Because the grammar has no empty productions, the head symbol
// of a production alone determines its contribution: a terminal head adds
// itself, a non-terminal head contributes its own FIRST set.
func genFirstSet(prods *productionSet) (*firstSet, error) {
	fst := newFirstSet(prods)
	for {
		more := false
		for _, prod := range prods.getAllProductions() {
			e := fst.findBySymbol(prod.lhs)
			if e == nil {
				return nil, fmt.Errorf("an entry of FIRST was not found; symbol: %s", prod.lhs)
			}

			head := prod.rhs[0]
			var changed bool
			if head.isTerminal() {
				changed = e.add(head)
			} else {
				changed = e.merge(fst.findBySymbol(head))
			}
			if changed {
				more = true
			}
		}
		if !more {
			break
		}
	}
	return fst, nil
}
