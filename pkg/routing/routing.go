// Package routing defines the routing table and the pure decision function
// that picks the next handler for a hop.
package routing

// TerminalToken is the reserved next-step value meaning "stop, no further
// handler". An empty token is equivalent (the handler answered directly).
const TerminalToken = "end"

// EscalationHandler is the designated fallback handler name. When a
// routing token names a handler outside the current reachable set, the
// decision degrades to escalation instead of crashing, provided this
// handler participates in the graph.
const EscalationHandler = "escalation"

// Edge maps a next-step token emitted by a handler to a target handler
// name. The table is a mapping, not a list: at most one target per token.
type Edge struct {
	FromToken string `json:"from_token" yaml:"from_token" mapstructure:"from_token"`
	To        string `json:"to" yaml:"to" mapstructure:"to"`
}

// Table resolves tokens to handler names. A token absent from the table is
// treated as naming a handler directly; the source system used
// loosely-typed tokens that were handler names most of the time.
type Table map[string]string

// NewTable builds a Table from edges. Later edges overwrite earlier ones
// for the same token.
func NewTable(edges []Edge) Table {
	t := make(Table, len(edges))
	for _, e := range edges {
		t[e.FromToken] = e.To
	}
	return t
}

// Target resolves a token to a handler name.
func (t Table) Target(token string) string {
	if target, ok := t[token]; ok {
		return target
	}
	return token
}

// Scope is the current handler's declared routing scope: the set of
// handlers reachable from it, not the global registry.
type Scope struct {
	// Reachable holds the handler names wired into the current subgraph.
	Reachable map[string]bool

	// HasEscalation reports whether the designated escalation handler is
	// available as a fallback target.
	HasEscalation bool
}

// Kind classifies a routing decision.
type Kind int

const (
	// KindTerminate stops the run: the terminal token was emitted, no
	// token was emitted, or no fallback exists.
	KindTerminate Kind = iota
	// KindRoute continues at Decision.Target.
	KindRoute
	// KindEscalate falls back to the escalation handler.
	KindEscalate
)

// Decision is the outcome of one routing decision.
type Decision struct {
	Kind   Kind
	Target string
}

// Decide maps a next-step token and the current routing scope to exactly
// one outcome. It is a pure function: deterministic and side-effect free,
// so identical inputs always produce identical routing.
//
// Fallback rule: a token naming a handler outside the reachable set routes
// to the escalation handler when one is available, and terminates
// otherwise. The source system allowed loosely-typed routing tokens that
// sometimes referenced handlers never wired into a given subgraph; the
// decision must degrade instead of crashing on that input.
func Decide(table Table, nextStep string, scope Scope) Decision {
	if nextStep == "" || nextStep == TerminalToken {
		return Decision{Kind: KindTerminate}
	}

	target := table.Target(nextStep)
	if scope.Reachable[target] {
		return Decision{Kind: KindRoute, Target: target}
	}

	if scope.HasEscalation {
		return Decision{Kind: KindEscalate, Target: EscalationHandler}
	}
	return Decision{Kind: KindTerminate}
}
