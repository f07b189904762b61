package spec

// ActionKind distinguishes the entries of the ACTION table.
type ActionKind int

const (
	ActionKindAccept = ActionKind(0)
	ActionKindShift  = ActionKind(1)
	ActionKindReduce = ActionKind(2)
)

// Action is one cell of the ACTION table. Param holds the next state for a shift
// action or a production number for a reduce action, and is unused for accept.
type Action struct {
	Kind  ActionKind `json:"kind"`
	Param int        `json:"param"`
}

type ParsingTable struct {
	// TerminalIDs maps the external name of every terminal to its terminal ID.
	// A literal terminal is named by its exact text, a category terminal by its
	// kind name, and the EOF terminal by "<eof>".
	TerminalIDs map[string]int `json:"terminal_ids"`

	// RuleNonTerminals[p] is the non-terminal ID of the LHS of production p.
	RuleNonTerminals []int `json:"rule_non_terminals"`

	// Arities[p] is the number of RHS symbols of production p, that is, the number
	// of stack entries a reduction of p consumes.
	Arities []int `json:"arities"`

	// GoTo[s] maps a non-terminal ID to the state the parser enters after reducing
	// that non-terminal in state s.
	GoTo []map[int]int `json:"goto"`

	// Action[s] maps a terminal ID to the action the parser takes on that
	// lookahead in state s. Terminals without an entry are syntax errors.
	Action []map[int]Action `json:"action"`

	StateCount       int `json:"state_count"`
	InitialState     int `json:"initial_state"`
	StartProduction  int `json:"start_production"`
	StartNonTerminal int `json:"start_non_terminal"`
	EOFSymbol        int `json:"eof_symbol"`
	TerminalCount    int `json:"terminal_count"`
	NonTerminalCount int `json:"non_terminal_count"`

	// Terminals and NonTerminals map symbol IDs back to their names. They are
	// carried for diagnostics and generic parse-tree construction only.
	Terminals    []string `json:"terminals"`
	NonTerminals []string `json:"non_terminals"`
}

// Token is the engine-side view of one lexer token. Category tokens report their
// kind name via Kind and carry their payload in Text; literal tokens report an
// empty kind and are classified by their exact text.
type Token interface {
	Kind() string
	Text() string
	Position() (row, col int)
	EOF() bool
}

// ParseHandle is passed to semantic actions so that category rules can pull
// additional lookahead from the running parse.
type ParseHandle interface {
	PullToken() (Token, error)
}

// SemanticAction synthesizes the value of one production from the values of its
// RHS symbols. children is ordered left to right.
type SemanticAction func(children []any, handle ParseHandle) (any, error)

// CompiledGrammar bundles everything a parser needs to be constructed without any
// further grammar knowledge. The semantic actions cannot be serialized; a host
// that unmarshals a compiled grammar must attach them (or leave them nil to get
// generic parse trees).
type CompiledGrammar struct {
	Name            string           `json:"name"`
	ParsingTable    *ParsingTable    `json:"parsing_table"`
	SemanticActions []SemanticAction `json:"-"`
}
