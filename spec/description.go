package spec

type Terminal struct {
	Number   int    `json:"number"`
	Name     string `json:"name"`
	Category bool   `json:"category"`
}

type NonTerminal struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

type Production struct {
	Number int   `json:"number"`
	LHS    int   `json:"lhs"`
	RHS    []int `json:"rhs"`
}

type Item struct {
	Production int `json:"production"`
	Dot        int `json:"dot"`
}

type Transition struct {
	Symbol int `json:"symbol"`
	State  int `json:"state"`
}

type Reduce struct {
	LookAhead  []int `json:"look_ahead"`
	Production int   `json:"production"`
}

// SRConflict records a shift/reduce conflict. The conflicts the report carries
// are already resolved: the shift to AdoptedState won over reducing Production.
type SRConflict struct {
	Symbol       int `json:"symbol"`
	State        int `json:"state"`
	Production   int `json:"production"`
	AdoptedState int `json:"adopted_state"`
}

type State struct {
	Number     int           `json:"number"`
	Kernel     []*Item       `json:"kernel"`
	Shift      []*Transition `json:"shift"`
	Reduce     []*Reduce     `json:"reduce"`
	GoTo       []*Transition `json:"goto"`
	SRConflict []*SRConflict `json:"sr_conflict"`
}

// Warning is a non-fatal diagnostic emitted during table generation. State is -1
// when the warning is not tied to an automaton state.
type Warning struct {
	Message string `json:"message"`
	State   int    `json:"state"`
}

type Report struct {
	Terminals    []*Terminal    `json:"terminals"`
	NonTerminals []*NonTerminal `json:"non_terminals"`
	Productions  []*Production  `json:"productions"`
	States       []*State       `json:"states,omitempty"`
	Warnings     []*Warning     `json:"warnings"`
}
