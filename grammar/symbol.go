package grammar

import (
	"fmt"
	"sort"
)

type symbolKind string

const (
	symbolKindNonTerminal = symbolKind("non-terminal")
	symbolKindTerminal    = symbolKind("terminal")
)

func (k symbolKind) String() string {
	return string(k)
}

type symbolNum uint16

func (n symbolNum) Int() int {
	return int(n)
}

// symbol packs a grammar symbol into a uint16: the top bit is the kind, the next
// bit marks the augmented start symbol (for non-terminals) or EOF (for
// terminals), and the low 14 bits are the symbol number. Symbols compare by
// value, so two references to the same name are always the same symbol.
type symbol uint16

func (s symbol) String() string {
	kind, isStart, isEOF, num := s.describe()
	var prefix string
	switch {
	case isStart:
		prefix = "s"
	case isEOF:
		prefix = "e"
	case kind == symbolKindNonTerminal:
		prefix = "n"
	case kind == symbolKindTerminal:
		prefix = "t"
	default:
		prefix = "?"
	}
	return fmt.Sprintf("%v%v", prefix, num)
}

const (
	maskKindPart    = uint16(0x8000)
	maskNonTerminal = uint16(0x0000)
	maskTerminal    = uint16(0x8000)

	maskSubKindPart    = uint16(0x4000)
	maskNonStartAndEOF = uint16(0x0000)
	maskStartOrEOF     = uint16(0x4000)

	maskNumberPart = uint16(0x3fff)

	symbolNumStart = uint16(0x0001)
	symbolNumEOF   = uint16(0x0001)

	symbolNil   = symbol(0)
	symbolStart = symbol(maskNonTerminal | maskStartOrEOF | symbolNumStart)
	symbolEOF   = symbol(maskTerminal | maskStartOrEOF | symbolNumEOF) // EOF is treated as a terminal symbol.

	// The symbol name contains `<` and `>` to avoid conflicting with user-defined symbols.
	symbolNameEOF = "<eof>"

	nonTerminalNumMin = symbolNum(2)           // The number 1 is used by the augmented start symbol.
	terminalNumMin    = symbolNum(2)           // The number 1 is used by the EOF symbol.
	symbolNumMax      = symbolNum(0xffff) >> 2 // 0011 1111 1111 1111
)

func newSymbol(kind symbolKind, isStart bool, num symbolNum) (symbol, error) {
	if num > symbolNumMax {
		return symbolNil, fmt.Errorf("a symbol number exceeds the limit; limit: %v, passed: %v", symbolNumMax, num)
	}
	if kind == symbolKindTerminal && isStart {
		return symbolNil, fmt.Errorf("a start symbol must be a non-terminal symbol")
	}

	kindMask := maskNonTerminal
	if kind == symbolKindTerminal {
		kindMask = maskTerminal
	}
	startMask := maskNonStartAndEOF
	if isStart {
		startMask = maskStartOrEOF
	}
	return symbol(kindMask | startMask | uint16(num)), nil
}

func (s symbol) num() symbolNum {
	_, _, _, num := s.describe()
	return num
}

func (s symbol) byte() []byte {
	if s.isNil() {
		return []byte{0, 0}
	}
	return []byte{byte(uint16(s) >> 8), byte(uint16(s) & 0x00ff)}
}

func (s symbol) isNil() bool {
	_, _, _, num := s.describe()
	return num == 0
}

func (s symbol) isStart() bool {
	if s.isNil() {
		return false
	}
	_, isStart, _, _ := s.describe()
	return isStart
}

func (s symbol) isEOF() bool {
	if s.isNil() {
		return false
	}
	_, _, isEOF, _ := s.describe()
	return isEOF
}

func (s symbol) isNonTerminal() bool {
	if s.isNil() {
		return false
	}
	kind, _, _, _ := s.describe()
	return kind == symbolKindNonTerminal
}

func (s symbol) isTerminal() bool {
	if s.isNil() {
		return false
	}
	return !s.isNonTerminal()
}

func (s symbol) describe() (symbolKind, bool, bool, symbolNum) {
	kind := symbolKindNonTerminal
	if uint16(s)&maskKindPart > 0 {
		kind = symbolKindTerminal
	}
	isStart := false
	isEOF := false
	if uint16(s)&maskSubKindPart > 0 {
		if kind == symbolKindNonTerminal {
			isStart = true
		} else {
			isEOF = true
		}
	}
	num := symbolNum(uint16(s) & maskNumberPart)
	return kind, isStart, isEOF, num
}

// symbolTable assigns dense numbers to the symbols of one grammar. Terminal
// numbering and non-terminal numbering are independent; the terminal number 1 is
// reserved for EOF and the non-terminal number 1 for the augmented start symbol.
type symbolTable struct {
	text2Sym     map[string]symbol
	sym2Text     map[symbol]string
	categories   map[symbol]struct{}
	nonTermTexts []string
	termTexts    []string
	nonTermNum   symbolNum
	termNum      symbolNum
}

func newSymbolTable() *symbolTable {
	return &symbolTable{
		text2Sym: map[string]symbol{
			symbolNameEOF: symbolEOF,
		},
		sym2Text: map[symbol]string{
			symbolEOF: symbolNameEOF,
		},
		categories: map[symbol]struct{}{},
		termTexts: []string{
			"",            // Nil
			symbolNameEOF, // EOF
		},
		nonTermTexts: []string{
			"", // Nil
			"", // Start Symbol
		},
		nonTermNum: nonTerminalNumMin,
		termNum:    terminalNumMin,
	}
}

func (t *symbolTable) registerStartSymbol(text string) (symbol, error) {
	if _, ok := t.text2Sym[text]; ok {
		return symbolNil, fmt.Errorf("the augmented start symbol name is already in use: %v", text)
	}
	t.text2Sym[text] = symbolStart
	t.sym2Text[symbolStart] = text
	t.nonTermTexts[symbolStart.num().Int()] = text
	return symbolStart, nil
}

func (t *symbolTable) registerNonTerminalSymbol(text string) (symbol, error) {
	if sym, ok := t.text2Sym[text]; ok {
		if !sym.isNonTerminal() {
			return symbolNil, fmt.Errorf("symbol name is already used as a terminal: %v", text)
		}
		return sym, nil
	}
	sym, err := newSymbol(symbolKindNonTerminal, false, t.nonTermNum)
	if err != nil {
		return symbolNil, err
	}
	t.nonTermNum++
	t.text2Sym[text] = sym
	t.sym2Text[sym] = text
	t.nonTermTexts = append(t.nonTermTexts, text)
	return sym, nil
}

// registerLiteralSymbol registers a terminal matched by its exact text.
func (t *symbolTable) registerLiteralSymbol(text string) (symbol, error) {
	sym, err := t.registerTerminalSymbol(text)
	if err != nil {
		return symbolNil, err
	}
	if _, ok := t.categories[sym]; ok {
		return symbolNil, fmt.Errorf("symbol name is already used as a category: %v", text)
	}
	return sym, nil
}

// registerCategorySymbol registers an open terminal category matched by its kind
// name and carrying an opaque payload.
func (t *symbolTable) registerCategorySymbol(name string) (symbol, error) {
	if name == symbolNameEOF {
		return symbolNil, fmt.Errorf("the symbol name is reserved: %v", name)
	}
	if sym, ok := t.text2Sym[name]; ok {
		if _, isCat := t.categories[sym]; !isCat {
			return symbolNil, fmt.Errorf("symbol name is already used as a literal: %v", name)
		}
		return sym, nil
	}
	sym, err := t.registerTerminalSymbol(name)
	if err != nil {
		return symbolNil, err
	}
	t.categories[sym] = struct{}{}
	return sym, nil
}

func (t *symbolTable) registerTerminalSymbol(text string) (symbol, error) {
	// The pre-registered EOF entry must stay unreachable by name, or an EOF
	// symbol appearing mid-production would turn its automaton edges into
	// accept entries.
	if text == symbolNameEOF {
		return symbolNil, fmt.Errorf("the symbol name is reserved: %v", text)
	}
	if sym, ok := t.text2Sym[text]; ok {
		if !sym.isTerminal() {
			return symbolNil, fmt.Errorf("symbol name is already used as a non-terminal: %v", text)
		}
		return sym, nil
	}
	sym, err := newSymbol(symbolKindTerminal, false, t.termNum)
	if err != nil {
		return symbolNil, err
	}
	t.termNum++
	t.text2Sym[text] = sym
	t.sym2Text[sym] = text
	t.termTexts = append(t.termTexts, text)
	return sym, nil
}

func (t *symbolTable) toSymbol(text string) (symbol, bool) {
	if sym, ok := t.text2Sym[text]; ok {
		return sym, true
	}
	return symbolNil, false
}

func (t *symbolTable) toText(sym symbol) (string, bool) {
	text, ok := t.sym2Text[sym]
	return text, ok
}

func (t *symbolTable) isCategory(sym symbol) bool {
	_, ok := t.categories[sym]
	return ok
}

func (t *symbolTable) terminalSymbols() []symbol {
	syms := make([]symbol, 0, t.termNum.Int()-terminalNumMin.Int())
	for sym := range t.sym2Text {
		if !sym.isTerminal() || sym.isNil() {
			continue
		}
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})
	return syms
}

func (t *symbolTable) terminalTexts() []string {
	return t.termTexts
}

func (t *symbolTable) nonTerminalSymbols() []symbol {
	syms := make([]symbol, 0, t.nonTermNum.Int()-nonTerminalNumMin.Int())
	for sym := range t.sym2Text {
		if !sym.isNonTerminal() || sym.isNil() {
			continue
		}
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})
	return syms
}

func (t *symbolTable) nonTerminalTexts() []string {
	return t.nonTermTexts
}
