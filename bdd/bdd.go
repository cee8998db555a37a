// Package bdd is a small binary-decision-diagram canonicalizer used to
// simplify propositional formulas: reduce a boolean Expr to canonical
// (shared, redundancy-free) form and read a simplified Expr back out of it.
// No example in the pack carries a BDD/boolean-algebra library (the
// closest match, the original Rust implementation's `boolean_expression`
// crate, has no Go equivalent anywhere in the corpus), so this is hand-
// rolled — a direct, minimal port of the textbook reduced-ordered-BDD
// "apply" algorithm (variable ordering by first occurrence, a unique table
// keyed on (var, low, high) for structural sharing, and memoized binary
// operations), not original research.
package bdd

// NodeID indexes a node in a Manager; 0 and 1 are the two terminals.
type NodeID int

const (
	False NodeID = 0
	True  NodeID = 1
)

type node struct {
	Var        int
	Low, High  NodeID
}

// Manager owns a BDD's node table and the unique/operation-cache maps that
// keep it reduced (structurally shared) as nodes are built.
type Manager struct {
	nodes  []node
	unique map[node]NodeID
	andMemo map[[2]NodeID]NodeID
	orMemo  map[[2]NodeID]NodeID
	notMemo map[NodeID]NodeID
}

// NewManager returns an empty Manager with only the two terminal nodes.
func NewManager() *Manager {
	return &Manager{
		nodes:   []node{{}, {}}, // index 0, 1 reserved for False, True
		unique:  map[node]NodeID{},
		andMemo: map[[2]NodeID]NodeID{},
		orMemo:  map[[2]NodeID]NodeID{},
		notMemo: map[NodeID]NodeID{},
	}
}

// mk returns the canonical node id for (v, low, high), collapsing the
// redundant-test case (low == high) and reusing an existing node for any
// repeat (var, low, high) triple — the two reductions that make this an
// ROBDD rather than a plain binary decision tree.
func (m *Manager) mk(v int, low, high NodeID) NodeID {
	if low == high {
		return low
	}
	key := node{Var: v, Low: low, High: high}
	if id, ok := m.unique[key]; ok {
		return id
	}
	id := NodeID(len(m.nodes))
	m.nodes = append(m.nodes, key)
	m.unique[key] = id
	return id
}

// Terminal returns the constant-true or constant-false node.
func (m *Manager) Terminal(b bool) NodeID {
	if b {
		return True
	}
	return False
}

// Var returns the node testing variable v directly (true when v holds).
func (m *Manager) Var(v int) NodeID {
	return m.mk(v, False, True)
}

func (m *Manager) varOf(id NodeID) int       { return m.nodes[id].Var }
func (m *Manager) isTerminal(id NodeID) bool { return id == False || id == True }

// topVar returns the lower of a's and b's top variable (the one the apply
// algorithm should branch on next), treating a terminal as having no
// variable of its own (it never determines the branch).
func (m *Manager) topVar(a, b NodeID) int {
	switch {
	case m.isTerminal(a) && m.isTerminal(b):
		return -1
	case m.isTerminal(a):
		return m.varOf(b)
	case m.isTerminal(b):
		return m.varOf(a)
	case m.varOf(a) <= m.varOf(b):
		return m.varOf(a)
	default:
		return m.varOf(b)
	}
}

func (m *Manager) restrict(id NodeID, v int, branchHigh bool) NodeID {
	if m.isTerminal(id) || m.varOf(id) != v {
		return id
	}
	if branchHigh {
		return m.nodes[id].High
	}
	return m.nodes[id].Low
}

// And returns the node for a ∧ b.
func (m *Manager) And(a, b NodeID) NodeID {
	if a == False || b == False {
		return False
	}
	if a == True {
		return b
	}
	if b == True || a == b {
		return a
	}
	key := [2]NodeID{a, b}
	if id, ok := m.andMemo[key]; ok {
		return id
	}
	v := m.topVar(a, b)
	low := m.And(m.restrict(a, v, false), m.restrict(b, v, false))
	high := m.And(m.restrict(a, v, true), m.restrict(b, v, true))
	id := m.mk(v, low, high)
	m.andMemo[key] = id
	return id
}

// Or returns the node for a ∨ b.
func (m *Manager) Or(a, b NodeID) NodeID {
	if a == True || b == True {
		return True
	}
	if a == False {
		return b
	}
	if b == False || a == b {
		return a
	}
	key := [2]NodeID{a, b}
	if id, ok := m.orMemo[key]; ok {
		return id
	}
	v := m.topVar(a, b)
	low := m.Or(m.restrict(a, v, false), m.restrict(b, v, false))
	high := m.Or(m.restrict(a, v, true), m.restrict(b, v, true))
	id := m.mk(v, low, high)
	m.orMemo[key] = id
	return id
}

// Not returns the node for ¬a.
func (m *Manager) Not(a NodeID) NodeID {
	if a == True {
		return False
	}
	if a == False {
		return True
	}
	if id, ok := m.notMemo[a]; ok {
		return id
	}
	n := m.nodes[a]
	id := m.mk(n.Var, m.Not(n.Low), m.Not(n.High))
	m.notMemo[a] = id
	return id
}

// Build converts a boolean Expr over atom indices into a reduced node,
// sharing structure with anything already built by this Manager.
func (m *Manager) Build(e Expr) NodeID {
	switch e.Kind {
	case ConstKind:
		return m.Terminal(e.Const)
	case TerminalKind:
		return m.Var(e.Atom)
	case NotKind:
		return m.Not(m.Build(*e.Operand))
	case AndKind:
		return m.And(m.Build(*e.LHS), m.Build(*e.RHS))
	case OrKind:
		return m.Or(m.Build(*e.LHS), m.Build(*e.RHS))
	default:
		return False
	}
}

// ToExpr reads a (hopefully simpler) Expr back out of a reduced node: a
// node whose low/high are exactly {false, true} collapses to its own
// variable (or its negation); otherwise it rebuilds the if-then-else form
// `(v ∧ high) ∨ (¬v ∧ low)`, dropping whichever half is a terminal.
func (m *Manager) ToExpr(id NodeID) Expr {
	switch id {
	case False:
		return ConstExpr(false)
	case True:
		return ConstExpr(true)
	}
	n := m.nodes[id]
	v := TerminalExpr(n.Var)
	switch {
	case n.Low == False && n.High == True:
		return v
	case n.Low == True && n.High == False:
		return NotExpr(v)
	case n.High == False:
		return AndExpr(NotExpr(v), m.ToExpr(n.Low))
	case n.Low == False:
		return AndExpr(v, m.ToExpr(n.High))
	case n.High == True:
		return OrExpr(v, m.ToExpr(n.Low))
	case n.Low == True:
		return OrExpr(NotExpr(v), m.ToExpr(n.High))
	default:
		return OrExpr(AndExpr(v, m.ToExpr(n.High)), AndExpr(NotExpr(v), m.ToExpr(n.Low)))
	}
}

// Simplify builds e, then reads the simplified formula back out — the
// "convert to a BDD, simplify, rebuild" step spec.md §4.Ix step 4 names.
func Simplify(e Expr) Expr {
	m := NewManager()
	return m.ToExpr(m.Build(e))
}
