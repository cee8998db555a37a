package bdd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestManagerAndOrNotBasics(t *testing.T) {
	m := NewManager()
	a := m.Var(0)
	b := m.Var(1)

	require.Equal(t, False, m.And(a, m.Not(a)))
	require.Equal(t, True, m.Or(a, m.Not(a)))
	require.Equal(t, a, m.And(a, a))
	require.Equal(t, a, m.Or(a, a))
	require.Equal(t, False, m.And(a, False))
	require.Equal(t, b, m.And(True, b))
}

func TestSimplifyDropsRedundantDisjunct(t *testing.T) {
	// (a AND b) OR a  ==  a
	e := OrExpr(AndExpr(TerminalExpr(0), TerminalExpr(1)), TerminalExpr(0))
	got := Simplify(e)
	require.Equal(t, TerminalKind, got.Kind)
	require.Equal(t, 0, got.Atom)
}

func TestSimplifyCollapsesSelfNegation(t *testing.T) {
	// a AND NOT a == false
	e := AndExpr(TerminalExpr(0), NotExpr(TerminalExpr(0)))
	got := Simplify(e)
	require.Equal(t, ConstKind, got.Kind)
	require.False(t, got.Const)
}

func TestSimplifyDoubleNegationOfConjunction(t *testing.T) {
	// NOT(NOT a AND NOT b) == a OR b, reduced to a two-variable ITE form
	e := NotExpr(AndExpr(NotExpr(TerminalExpr(0)), NotExpr(TerminalExpr(1))))
	m := NewManager()
	got := m.Build(e)
	want := m.Or(m.Var(0), m.Var(1))
	require.Equal(t, want, got)
}

func TestSharedStructureReusesNodes(t *testing.T) {
	m := NewManager()
	a := m.Var(0)
	b := m.Var(1)
	n1 := m.And(a, b)
	n2 := m.And(a, b)
	require.Equal(t, n1, n2, "identical (var, low, high) triples must be shared, not rebuilt")
}
