package invert

import (
	"fmt"
	"strings"

	"github.com/lemma-lang/lemma/ast"
	"github.com/lemma-lang/lemma/bdd"
)

// maxBooleanAtoms caps how many distinct atoms simplifyBoolean will hand to
// the BDD manager: a formula with more distinct atoms than this is left as
// tryFold produced it rather than built into a (potentially exponential)
// diagram, per spec.md §4.Ix step 4's stated 64-atom cap.
const maxBooleanAtoms = 64

// atomTable assigns a stable index to each distinct non-logical subtree
// (Comparison, FactHasAnyValue, or an unresolved RuleReference/
// FactReference; Literals become BDD constants) encountered while converting an
// ast.Expression to a bdd.Expr, so repeated occurrences of the same
// condition across branches share one BDD variable.
type atomTable struct {
	index map[string]int
	atoms []*ast.Expression
}

func newAtomTable() *atomTable {
	return &atomTable{index: map[string]int{}}
}

func (t *atomTable) atomFor(e *ast.Expression) int {
	key := serializeAtom(e)
	if i, ok := t.index[key]; ok {
		return i
	}
	i := len(t.atoms)
	t.index[key] = i
	t.atoms = append(t.atoms, e)
	return i
}

// serializeAtom builds a structural key for e so that two syntactically
// identical conditions (even if cloned to distinct *Expression pointers by
// buildShape) resolve to the same atom.
func serializeAtom(e *ast.Expression) string {
	var b strings.Builder
	writeAtomKey(&b, e)
	return b.String()
}

func writeAtomKey(b *strings.Builder, e *ast.Expression) {
	if e == nil {
		b.WriteString("<nil>")
		return
	}
	switch e.Kind {
	case ast.Literal:
		fmt.Fprintf(b, "Lit(%s)", e.LiteralValue.String())
	case ast.FactReference, ast.RuleReference, ast.FactHasAnyValue:
		fmt.Fprintf(b, "%s(%s)", e.Kind.String(), strings.Join(e.Path, "."))
	case ast.Comparison:
		fmt.Fprintf(b, "Cmp(%d,", e.CompareOp)
		writeAtomKey(b, e.LHS)
		b.WriteByte(',')
		writeAtomKey(b, e.RHS)
		b.WriteByte(')')
	case ast.Arithmetic:
		fmt.Fprintf(b, "Arith(%d,", e.ArithOp)
		writeAtomKey(b, e.LHS)
		b.WriteByte(',')
		writeAtomKey(b, e.RHS)
		b.WriteByte(')')
	case ast.MathematicalComputation:
		fmt.Fprintf(b, "Math(%d,", e.MathOp)
		writeAtomKey(b, e.Operand)
		b.WriteByte(')')
	case ast.UnitConversion:
		fmt.Fprintf(b, "Conv(%d,%s,", e.TargetUnitCategory, e.TargetUnitName)
		writeAtomKey(b, e.Operand)
		b.WriteByte(')')
	default:
		fmt.Fprintf(b, "%s#%d", e.Kind.String(), e.ID)
	}
}

// toBoolExpr converts a boolean-valued ast.Expression subtree (built only
// from LogicalAnd/LogicalOr/LogicalNegation connectives over opaque atoms)
// into a bdd.Expr, registering each atom it bottoms out at.
func toBoolExpr(e *ast.Expression, t *atomTable) bdd.Expr {
	switch e.Kind {
	case ast.LogicalAnd:
		return bdd.AndExpr(toBoolExpr(e.LHS, t), toBoolExpr(e.RHS, t))
	case ast.LogicalOr:
		return bdd.OrExpr(toBoolExpr(e.LHS, t), toBoolExpr(e.RHS, t))
	case ast.LogicalNegation:
		return bdd.NotExpr(toBoolExpr(e.Operand, t))
	case ast.Literal:
		if e.LiteralValue.Bool {
			return bdd.ConstExpr(true)
		}
		return bdd.ConstExpr(false)
	default:
		return bdd.TerminalExpr(t.atomFor(e))
	}
}

// fromBoolExpr rebuilds an ast.Expression from a simplified bdd.Expr,
// substituting each atom's original subtree back in by index.
func fromBoolExpr(e bdd.Expr, t *atomTable) *ast.Expression {
	switch e.Kind {
	case bdd.ConstKind:
		return literalBool(e.Const)
	case bdd.TerminalKind:
		return t.atoms[e.Atom]
	case bdd.NotKind:
		return negate(fromBoolExpr(*e.Operand, t))
	case bdd.AndKind:
		return and(fromBoolExpr(*e.LHS, t), fromBoolExpr(*e.RHS, t))
	case bdd.OrKind:
		l := fromBoolExpr(*e.LHS, t)
		r := fromBoolExpr(*e.RHS, t)
		n := builder.New(l.Span, ast.LogicalOr)
		n.LHS, n.RHS = l, r
		return n
	default:
		return literalBool(false)
	}
}

// simplifyBoolean reduces cond's boolean structure via a BDD round trip.
// Atom subtrees (comparisons, FactHasAnyValue checks, leftover symbolic
// references) are treated as opaque — only the And/Or/Not connectives
// between them are subject to simplification. Formulas with more than
// maxBooleanAtoms distinct atoms are returned as tryFold left them, since
// ROBDD size can blow up combinatorially in the atom count.
func simplifyBoolean(cond *ast.Expression) *ast.Expression {
	folded := tryFold(cond)
	if folded.Kind == ast.Literal {
		return folded
	}

	t := newAtomTable()
	be := toBoolExpr(folded, t)
	if len(t.atoms) > maxBooleanAtoms {
		return folded
	}
	return fromBoolExpr(bdd.Simplify(be), t)
}
