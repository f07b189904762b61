package driver

import (
	"fmt"
	"io"

	"github.com/shiramin/slrgen/spec"
)

// SyntaxError reports a token the parser could not act on: either a token no
// terminal of the grammar matches, or a terminal with no ACTION entry in the
// current state.
type SyntaxError struct {
	Row     int
	Col     int
	Kind    string
	Text    string
	Message string
}

func (e *SyntaxError) Error() string {
	switch {
	case e.Text != "":
		return fmt.Sprintf("%v:%v: %v: '%v'", e.Row, e.Col, e.Message, e.Text)
	case e.Kind != "":
		return fmt.Sprintf("%v:%v: %v: <%v>", e.Row, e.Col, e.Message, e.Kind)
	}
	return fmt.Sprintf("%v:%v: %v", e.Row, e.Col, e.Message)
}

// Node is the generic parse tree the parser synthesizes when a grammar carries
// no semantic actions. Terminal nodes have a non-empty Text; non-terminal nodes
// have children.
type Node struct {
	KindName string
	Text     string
	Row      int
	Col      int
	Children []*Node
}

// PrintTree writes a rendition of a parse tree. It is provided as a utility to
// inspect the output of a parser.
func PrintTree(w io.Writer, node *Node) {
	printTree(w, node, "", "")
}

func printTree(w io.Writer, node *Node, ruledLine string, childRuledLinePrefix string) {
	if node == nil {
		return
	}
	if node.Text != "" {
		fmt.Fprintf(w, "%v%v %#v\n", ruledLine, node.KindName, node.Text)
	} else {
		fmt.Fprintf(w, "%v%v\n", ruledLine, node.KindName)
	}
	num := len(node.Children)
	for i, child := range node.Children {
		var line string
		if i < num-1 {
			line = "├─ "
		} else {
			line = "└─ "
		}
		var prefix string
		if i < num-1 {
			prefix = "│  "
		} else {
			prefix = "   "
		}
		printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
	}
}

// Parser is the shift-reduce engine. It never inspects the grammar it runs;
// everything it needs is in the compiled parsing table, so any structurally
// valid table drives it deterministically.
type Parser struct {
	cgram      *spec.CompiledGrammar
	ts         TokenStream
	stateStack []int
	valueStack []any
	look       spec.Token
	hasLook    bool
}

func NewParser(cgram *spec.CompiledGrammar, ts TokenStream) (*Parser, error) {
	if cgram == nil || cgram.ParsingTable == nil {
		return nil, fmt.Errorf("a compiled grammar with a parsing table is required")
	}
	ptab := cgram.ParsingTable
	if len(ptab.Action) != ptab.StateCount || len(ptab.GoTo) != ptab.StateCount {
		return nil, fmt.Errorf("malformed parsing table: %v states but %v ACTION rows and %v GOTO rows", ptab.StateCount, len(ptab.Action), len(ptab.GoTo))
	}
	if len(ptab.Arities) != len(ptab.RuleNonTerminals) {
		return nil, fmt.Errorf("malformed parsing table: %v arities for %v productions", len(ptab.Arities), len(ptab.RuleNonTerminals))
	}
	if cgram.SemanticActions != nil && len(cgram.SemanticActions) != len(ptab.Arities) {
		return nil, fmt.Errorf("a grammar needs one semantic action slot per production: %v slots for %v productions", len(cgram.SemanticActions), len(ptab.Arities))
	}
	return &Parser{
		cgram: cgram,
		ts:    ts,
	}, nil
}

// Parse runs the table until accept or error. On accept it returns the
// semantic value of the start symbol; with no semantic actions, that value is
// the root *Node of a generic parse tree.
func (p *Parser) Parse() (any, error) {
	ptab := p.cgram.ParsingTable
	p.stateStack = append(p.stateStack[:0], ptab.InitialState)
	p.valueStack = p.valueStack[:0]
	p.hasLook = false

	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		termNum, err := p.classify(tok)
		if err != nil {
			return nil, err
		}

		state := p.stateStack[len(p.stateStack)-1]
		act, ok := ptab.Action[state][termNum]
		if !ok {
			return nil, p.newSyntaxError(tok, "unexpected token")
		}

		switch act.Kind {
		case spec.ActionKindShift:
			p.consume()
			p.stateStack = append(p.stateStack, act.Param)
			if p.cgram.SemanticActions == nil {
				p.valueStack = append(p.valueStack, terminalNode(tok))
			} else {
				p.valueStack = append(p.valueStack, tok)
			}
		case spec.ActionKindReduce:
			prod := act.Param
			arity := ptab.Arities[prod]

			children := make([]any, arity)
			copy(children, p.valueStack[len(p.valueStack)-arity:])
			p.stateStack = p.stateStack[:len(p.stateStack)-arity]
			p.valueStack = p.valueStack[:len(p.valueStack)-arity]

			nt := ptab.RuleNonTerminals[prod]
			state = p.stateStack[len(p.stateStack)-1]
			next, ok := ptab.GoTo[state][nt]
			if !ok {
				return nil, fmt.Errorf("missing GOTO entry: state %v, non-terminal %v", state, nt)
			}

			var v any
			if p.cgram.SemanticActions == nil {
				nodes := make([]*Node, len(children))
				for i, c := range children {
					nodes[i] = c.(*Node)
				}
				v = &Node{
					KindName: ptab.NonTerminals[nt],
					Children: nodes,
				}
			} else if sem := p.cgram.SemanticActions[prod]; sem != nil {
				v, err = sem(children, p)
				if err != nil {
					return nil, err
				}
			} else if arity > 0 {
				// A production without its own action passes its first child
				// through.
				v = children[0]
			}

			p.stateStack = append(p.stateStack, next)
			p.valueStack = append(p.valueStack, v)
		case spec.ActionKindAccept:
			return p.valueStack[len(p.valueStack)-1], nil
		default:
			return nil, fmt.Errorf("invalid action kind: %v", act.Kind)
		}
	}
}

// PullToken hands the next raw token to a semantic action, consuming the
// pending lookahead first. Actions can use it to take over scanning, e.g. to
// slurp a raw block the grammar treats as opaque.
func (p *Parser) PullToken() (spec.Token, error) {
	if p.hasLook {
		tok := p.look
		p.hasLook = false
		return tok, nil
	}
	return p.ts.Next()
}

func (p *Parser) peek() (spec.Token, error) {
	if !p.hasLook {
		tok, err := p.ts.Next()
		if err != nil {
			return nil, err
		}
		p.look = tok
		p.hasLook = true
	}
	return p.look, nil
}

func (p *Parser) consume() {
	p.hasLook = false
}

// classify maps a token onto a terminal number. The kind name takes precedence
// so a lexer may assign categories even to tokens that also appear as literals;
// a token matching no terminal at all is a syntax error before any table lookup
// happens.
func (p *Parser) classify(tok spec.Token) (int, error) {
	ptab := p.cgram.ParsingTable
	if tok.EOF() {
		return ptab.EOFSymbol, nil
	}
	if kind := tok.Kind(); kind != "" {
		if num, ok := ptab.TerminalIDs[kind]; ok {
			return num, nil
		}
	}
	if num, ok := ptab.TerminalIDs[tok.Text()]; ok {
		return num, nil
	}
	return 0, p.newSyntaxError(tok, "unknown token")
}

func (p *Parser) newSyntaxError(tok spec.Token, message string) *SyntaxError {
	row, col := tok.Position()
	return &SyntaxError{
		Row:     row,
		Col:     col,
		Kind:    tok.Kind(),
		Text:    tok.Text(),
		Message: message,
	}
}

func terminalNode(tok spec.Token) *Node {
	row, col := tok.Position()
	kindName := tok.Kind()
	if kindName == "" {
		kindName = tok.Text()
	}
	return &Node{
		KindName: kindName,
		Text:     tok.Text(),
		Row:      row,
		Col:      col,
	}
}
