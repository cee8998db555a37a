package invert

import (
	"github.com/lemma-lang/lemma/ast"
	"github.com/lemma-lang/lemma/unit"
	"github.com/lemma-lang/lemma/value"
)

// foldLiteral evaluates e to a concrete value.Value when every leaf is a
// Literal (no FactReference/RuleReference remain — hydrate substitutes
// those it can resolve before this runs). Returns ok=false, leaving e
// untouched, for anything it can't reduce, mirroring the "can't fold"
// fallback the boolean/algebra passes also expect.
func foldLiteral(e *ast.Expression) (value.Value, bool) {
	switch e.Kind {
	case ast.Literal:
		return e.LiteralValue, true

	case ast.LogicalNegation:
		v, ok := foldLiteral(e.Operand)
		if !ok || v.Type != value.Boolean {
			return value.Value{}, false
		}
		return value.NewBoolean(!v.Bool), true

	case ast.LogicalAnd, ast.LogicalOr:
		l, ok := foldLiteral(e.LHS)
		if !ok || l.Type != value.Boolean {
			return value.Value{}, false
		}
		if e.Kind == ast.LogicalAnd && !l.Bool {
			return value.NewBoolean(false), true
		}
		if e.Kind == ast.LogicalOr && l.Bool {
			return value.NewBoolean(true), true
		}
		r, ok := foldLiteral(e.RHS)
		if !ok || r.Type != value.Boolean {
			return value.Value{}, false
		}
		return r, true

	case ast.Comparison:
		l, ok := foldLiteral(e.LHS)
		if !ok {
			return value.Value{}, false
		}
		r, ok := foldLiteral(e.RHS)
		if !ok {
			return value.Value{}, false
		}
		b, err := value.Compare(e.CompareOp, l, r)
		if err != nil {
			return value.Value{}, false
		}
		return value.NewBoolean(b), true

	case ast.Arithmetic:
		l, ok := foldLiteral(e.LHS)
		if !ok {
			return value.Value{}, false
		}
		r, ok := foldLiteral(e.RHS)
		if !ok {
			return value.Value{}, false
		}
		out, err := value.Arithmetic(e.ArithOp, l, r)
		if err != nil {
			return value.Value{}, false
		}
		return out, true

	case ast.MathematicalComputation:
		v, ok := foldLiteral(e.Operand)
		if !ok {
			return value.Value{}, false
		}
		out, err := value.Mathematical(e.MathOp, v)
		if err != nil {
			return value.Value{}, false
		}
		return out, true

	case ast.UnitConversion:
		v, ok := foldLiteral(e.Operand)
		if !ok {
			return value.Value{}, false
		}
		target, ok := unit.Lookup(unit.Category(e.TargetUnitCategory), e.TargetUnitName)
		if !ok {
			return value.Value{}, false
		}
		out, err := value.ConvertTo(v, target)
		if err != nil {
			return value.Value{}, false
		}
		return out, true

	default:
		return value.Value{}, false
	}
}

// tryFold folds e to a Literal expression when foldLiteral succeeds,
// otherwise returns e unchanged — the `try_fold` callback threaded through
// the original boolean-simplification pass.
func tryFold(e *ast.Expression) *ast.Expression {
	v, ok := foldLiteral(e)
	if !ok {
		return e
	}
	lit := builder.New(e.Span, ast.Literal)
	lit.LiteralValue = v
	return lit
}
