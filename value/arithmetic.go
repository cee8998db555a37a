package value

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/lemma-lang/lemma/unit"
)

// ArithOp is one of the binary arithmetic operators `+ - * / % ^`.
type ArithOp int

const (
	Add ArithOp = iota
	Sub
	Mul
	Div
	Mod
	Pow
)

func (op ArithOp) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Mod:
		return "%"
	case Pow:
		return "^"
	default:
		return "?"
	}
}

// CompareOp is one of the comparison operators `== != < <= > >=` (`is` is
// an alias the parser resolves to Eq).
type CompareOp int

const (
	Eq CompareOp = iota
	Neq
	Lt
	Lte
	Gt
	Gte
)

func (op CompareOp) String() string {
	switch op {
	case Eq:
		return "=="
	case Neq:
		return "!="
	case Lt:
		return "<"
	case Lte:
		return "<="
	case Gt:
		return ">"
	case Gte:
		return ">="
	default:
		return "?"
	}
}

// Arithmetic evaluates a binary arithmetic expression following the
// type-aware contract in spec.md §4.V:
//
//   - same-category dimensioned values: RHS is converted into LHS's unit,
//     the result carries LHS's unit;
//   - a dimensioned value (including Money) combined with a plain Number
//     scales the magnitude and keeps the dimensioned type/unit;
//   - Money/Number combined with Percentage follows the type-aware percent
//     rules (+ => ×(1+pct), - => ×(1-pct), * => ×pct, / => ÷pct);
//   - two different dimensioned categories combine by operating on their
//     canonical (base-unit) magnitudes and producing a dimensionless Number;
//   - date - date produces the absolute Duration between their instants;
//     date ± duration shifts the date's instant while keeping its stated
//     offset (only date - duration, not duration - date, is defined);
//   - division or modulo by zero is a runtime error.
func Arithmetic(op ArithOp, lhs, rhs Value) (Value, error) {
	switch {
	case lhs.Type == Percentage && rhs.Type == Percentage:
		n, err := applyOp(op, lhs.Num, rhs.Num)
		if err != nil {
			return Value{}, err
		}
		return NewPercentage(n), nil

	case lhs.Type == Date && rhs.Type == Date:
		if op != Sub {
			return Value{}, errors.Errorf("cannot apply %s to %s and %s", op, lhs.Type, rhs.Type)
		}
		return NewDimensioned(unit.Unit{Category: unit.Duration, Name: "second"}, decimal.NewFromFloat(lhs.Date.Sub(rhs.Date).Seconds())), nil

	case lhs.Type == Date && rhs.Type == Duration:
		return dateDurationArithmetic(op, lhs, rhs)

	case lhs.Type == Duration && rhs.Type == Date && op == Add:
		return dateDurationArithmetic(op, rhs, lhs)

	case lhs.Type == rhs.Type && lhs.Type.IsDimensioned():
		return sameCategoryArithmetic(op, lhs, rhs)

	case lhs.Type == Number && rhs.Type == Number:
		n, err := applyOp(op, lhs.Num, rhs.Num)
		if err != nil {
			return Value{}, err
		}
		return NewNumber(n), nil

	case (lhs.Type == Number || lhs.Type == Money) && rhs.Type == Percentage:
		return numberOrMoneyWithPercentage(op, lhs, rhs.Num, false)

	case lhs.Type == Percentage && (rhs.Type == Number || rhs.Type == Money):
		return numberOrMoneyWithPercentage(op, rhs, lhs.Num, true)

	case lhs.Type == Number && rhs.Type.IsDimensioned() && rhs.Type != Percentage:
		n, err := applyOp(op, lhs.Num, rhs.Num)
		if err != nil {
			return Value{}, err
		}
		return Value{Type: rhs.Type, Num: n, Unit: rhs.Unit}, nil

	case rhs.Type == Number && lhs.Type.IsDimensioned() && lhs.Type != Percentage:
		n, err := applyOp(op, lhs.Num, rhs.Num)
		if err != nil {
			return Value{}, err
		}
		return Value{Type: lhs.Type, Num: n, Unit: lhs.Unit}, nil

	case lhs.Type.IsDimensioned() && rhs.Type.IsDimensioned():
		// Different categories: reduce to a dimensionless Number over the
		// operands' canonical magnitudes.
		lb := canonicalMagnitude(lhs)
		rb := canonicalMagnitude(rhs)
		n, err := applyOp(op, lb, rb)
		if err != nil {
			return Value{}, err
		}
		return NewNumber(n), nil

	default:
		return Value{}, errors.Errorf("cannot apply %s to %s and %s", op, lhs.Type, rhs.Type)
	}
}

func canonicalMagnitude(v Value) decimal.Decimal {
	if v.Type == Temperature {
		return unit.ToBaseTemperature(v.Unit, v.Num)
	}
	return unit.ToBase(v.Unit, v.Num)
}

// dateDurationArithmetic implements date ± duration => date, per spec.md §3:
// it shifts date's instant while preserving date's stated offset, never
// dur's.
func dateDurationArithmetic(op ArithOp, date, dur Value) (Value, error) {
	switch op {
	case Add:
		return NewDate(date.Date.AddDuration(durationFromValue(dur))), nil
	case Sub:
		return NewDate(date.Date.AddDuration(-durationFromValue(dur))), nil
	default:
		return Value{}, errors.Errorf("cannot apply %s to %s and %s", op, date.Type, dur.Type)
	}
}

func durationFromValue(v Value) time.Duration {
	seconds, _ := unit.ToBase(v.Unit, v.Num).Float64()
	return time.Duration(seconds * float64(time.Second))
}

func sameCategoryArithmetic(op ArithOp, lhs, rhs Value) (Value, error) {
	if lhs.Type == Money {
		if lhs.Unit.Name != rhs.Unit.Name {
			return Value{}, errors.Errorf("currency mismatch: %s vs %s", lhs.Unit.Name, rhs.Unit.Name)
		}
		n, err := applyOp(op, lhs.Num, rhs.Num)
		if err != nil {
			return Value{}, err
		}
		return Value{Type: Money, Num: n, Unit: lhs.Unit}, nil
	}

	var rhsConverted decimal.Decimal
	if lhs.Type == Temperature {
		rhsConverted = unit.ConvertTemperature(rhs.Unit, lhs.Unit, rhs.Num)
	} else {
		rhsConverted = unit.Convert(rhs.Unit, lhs.Unit, rhs.Num)
	}
	n, err := applyOp(op, lhs.Num, rhsConverted)
	if err != nil {
		return Value{}, err
	}
	return Value{Type: lhs.Type, Num: n, Unit: lhs.Unit}, nil
}

// numberOrMoneyWithPercentage implements the Money/Number <op> Percentage
// rules. When swapped is true the original expression had Percentage on the
// left (`10% of x`-style); Add and Mul are commutative so the same formula
// applies, Sub/Div have no named formula for that operand order so they
// fall back to plain numeric arithmetic on the percentage's fraction.
func numberOrMoneyWithPercentage(op ArithOp, base Value, pct decimal.Decimal, swapped bool) (Value, error) {
	if swapped && (op == Sub || op == Div) {
		n, err := applyOp(op, pct, base.Num)
		if err != nil {
			return Value{}, err
		}
		if base.Type == Money {
			return Value{Type: Money, Num: n, Unit: base.Unit}, nil
		}
		return NewNumber(n), nil
	}

	var result decimal.Decimal
	switch op {
	case Add:
		result = base.Num.Mul(decimal.NewFromInt(1).Add(pct))
	case Sub:
		result = base.Num.Mul(decimal.NewFromInt(1).Sub(pct))
	case Mul:
		result = base.Num.Mul(pct)
	case Div:
		if pct.IsZero() {
			return Value{}, errors.New("division by zero")
		}
		result = base.Num.Div(pct)
	default:
		return Value{}, errors.Errorf("operator %s is not defined for percentage operands", op)
	}
	if base.Type == Money {
		return Value{Type: Money, Num: result, Unit: base.Unit}, nil
	}
	return NewNumber(result), nil
}

func applyOp(op ArithOp, lhs, rhs decimal.Decimal) (decimal.Decimal, error) {
	switch op {
	case Add:
		return lhs.Add(rhs), nil
	case Sub:
		return lhs.Sub(rhs), nil
	case Mul:
		return lhs.Mul(rhs), nil
	case Div:
		if rhs.IsZero() {
			return decimal.Decimal{}, errors.New("division by zero")
		}
		return lhs.DivRound(rhs, 20), nil
	case Mod:
		if rhs.IsZero() {
			return decimal.Decimal{}, errors.New("modulo by zero")
		}
		return lhs.Mod(rhs), nil
	case Pow:
		return lhs.Pow(rhs), nil
	default:
		return decimal.Decimal{}, errors.Errorf("unknown arithmetic operator %v", op)
	}
}

// Neg negates a Number, Percentage, or dimensioned value in place of its type.
func Neg(v Value) (Value, error) {
	switch {
	case v.Type == Number || v.Type == Percentage || v.Type.IsDimensioned():
		v.Num = v.Num.Neg()
		return v, nil
	default:
		return Value{}, errors.Errorf("cannot negate %s", v.Type)
	}
}
