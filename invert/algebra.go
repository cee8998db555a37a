package invert

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/lemma-lang/lemma/ast"
	"github.com/lemma-lang/lemma/value"
)

// isolate attempts to rewrite the comparison `expr op k` into an equivalent
// `varPath op' k'` by peeling invertible operations off expr one at a time,
// per spec.md §4.Ix step 5. It supports the additive/multiplicative forms
// (x±k, k−x, x×k, x÷k, k÷x), positive-integer power (x^k, assuming x>0),
// and the exp/log unary forms the spec names explicitly, plus compositions
// of these. Anything else (trigonometric functions, floor/ceil/round/abs,
// a variable appearing on both sides, modulo) returns ok=false: the
// comparison is left as an opaque constraint domain extraction can't
// reduce for varPath, which is a conservative (never unsound) fallback.
func isolate(expr *ast.Expression, op value.CompareOp, k value.Value, varPath string) (value.CompareOp, value.Value, bool) {
	if expr.Kind == ast.FactReference && joinPath(expr.Path) == varPath {
		return op, k, true
	}

	switch expr.Kind {
	case ast.Arithmetic:
		if rc, ok := foldLiteral(expr.RHS); ok && containsVar(expr.LHS, varPath) {
			return isolateArithRHSConst(expr.LHS, expr.ArithOp, op, k, rc, varPath)
		}
		if lc, ok := foldLiteral(expr.LHS); ok && containsVar(expr.RHS, varPath) {
			return isolateArithLHSConst(expr.RHS, expr.ArithOp, op, k, lc, varPath)
		}
		return op, value.Value{}, false

	case ast.MathematicalComputation:
		switch expr.MathOp {
		case value.Exp:
			newK, err := value.Mathematical(value.Log, k)
			if err != nil {
				return op, value.Value{}, false
			}
			return isolate(expr.Operand, op, newK, varPath)
		case value.Log:
			newK, err := value.Mathematical(value.Exp, k)
			if err != nil {
				return op, value.Value{}, false
			}
			return isolate(expr.Operand, op, newK, varPath)
		default:
			return op, value.Value{}, false
		}

	default:
		return op, value.Value{}, false
	}
}

func containsVar(e *ast.Expression, varPath string) bool {
	if e == nil {
		return false
	}
	if e.Kind == ast.FactReference && joinPath(e.Path) == varPath {
		return true
	}
	return containsVar(e.LHS, varPath) || containsVar(e.RHS, varPath) || containsVar(e.Operand, varPath)
}

// isolateArithRHSConst handles `lhs(x) <arith> c  op  k`, where c is a
// folded constant and lhs still contains varPath.
func isolateArithRHSConst(lhs *ast.Expression, arith value.ArithOp, op value.CompareOp, k, c value.Value, varPath string) (value.CompareOp, value.Value, bool) {
	switch arith {
	case value.Add:
		newK, err := value.Arithmetic(value.Sub, k, c)
		if err != nil {
			return op, value.Value{}, false
		}
		return isolate(lhs, op, newK, varPath)

	case value.Sub:
		newK, err := value.Arithmetic(value.Add, k, c)
		if err != nil {
			return op, value.Value{}, false
		}
		return isolate(lhs, op, newK, varPath)

	case value.Mul:
		if isZero(c) {
			return op, value.Value{}, false
		}
		newK, err := value.Arithmetic(value.Div, k, c)
		if err != nil {
			return op, value.Value{}, false
		}
		return isolate(lhs, flipIfNegative(op, c), newK, varPath)

	case value.Div:
		newK, err := value.Arithmetic(value.Mul, k, c)
		if err != nil {
			return op, value.Value{}, false
		}
		return isolate(lhs, flipIfNegative(op, c), newK, varPath)

	case value.Pow:
		exp, ok := asPositiveInt(c)
		if !ok {
			return op, value.Value{}, false
		}
		root, ok := nthRoot(k, exp)
		if !ok {
			return op, value.Value{}, false
		}
		return isolate(lhs, op, root, varPath)

	default:
		return op, value.Value{}, false
	}
}

// isolateArithLHSConst handles `c <arith> rhs(x)  op  k`.
func isolateArithLHSConst(rhs *ast.Expression, arith value.ArithOp, op value.CompareOp, k, c value.Value, varPath string) (value.CompareOp, value.Value, bool) {
	switch arith {
	case value.Add:
		newK, err := value.Arithmetic(value.Sub, k, c)
		if err != nil {
			return op, value.Value{}, false
		}
		return isolate(rhs, op, newK, varPath)

	case value.Sub:
		// c - x op k  <=>  -x op k-c  <=>  x (flip op) c-k
		newK, err := value.Arithmetic(value.Sub, c, k)
		if err != nil {
			return op, value.Value{}, false
		}
		return isolate(rhs, flipOp(op), newK, varPath)

	case value.Mul:
		if isZero(c) {
			return op, value.Value{}, false
		}
		newK, err := value.Arithmetic(value.Div, k, c)
		if err != nil {
			return op, value.Value{}, false
		}
		return isolate(rhs, flipIfNegative(op, c), newK, varPath)

	case value.Div:
		// c / x op k, assuming x>0: a documented simplification — this
		// language's dimensioned values are overwhelmingly positive
		// magnitudes, and a fully sign-aware reciprocal split isn't
		// attempted here. c/x is decreasing for x>0, so the comparison
		// direction flips.
		if isZero(k) {
			return op, value.Value{}, false
		}
		newK, err := value.Arithmetic(value.Div, c, k)
		if err != nil {
			return op, value.Value{}, false
		}
		return isolate(rhs, flipOp(op), newK, varPath)

	default:
		return op, value.Value{}, false
	}
}

func flipOp(op value.CompareOp) value.CompareOp {
	switch op {
	case value.Lt:
		return value.Gt
	case value.Lte:
		return value.Gte
	case value.Gt:
		return value.Lt
	case value.Gte:
		return value.Lte
	default:
		return op
	}
}

func flipIfNegative(op value.CompareOp, c value.Value) value.CompareOp {
	if c.Num.IsNegative() {
		return flipOp(op)
	}
	return op
}

func isZero(v value.Value) bool { return v.Num.IsZero() }

func asPositiveInt(v value.Value) (int, bool) {
	if !v.Num.IsInteger() || v.Num.Sign() <= 0 {
		return 0, false
	}
	f, _ := v.Num.Float64()
	return int(f), true
}

// nthRoot computes k^(1/n) via a float round trip; exact decimal nth roots
// aren't worth the precision machinery here given this path already
// assumes a positive base, a documented approximation.
func nthRoot(k value.Value, n int) (value.Value, bool) {
	if k.Num.IsNegative() {
		return value.Value{}, false
	}
	f, _ := k.Num.Float64()
	out := k
	out.Num = decimal.NewFromFloat(math.Pow(f, 1.0/float64(n)))
	return out, true
}
