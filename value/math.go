package value

import (
	"math"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// MathOp is one of the single-argument math calls the grammar recognizes:
// exp, log, sqrt, abs, floor, ceil, round, sin, cos, tan, asin, acos, atan.
type MathOp int

const (
	Exp MathOp = iota
	Log
	Sqrt
	Abs
	Floor
	Ceil
	Round
	Sin
	Cos
	Tan
	Asin
	Acos
	Atan
)

var mathOpNames = map[string]MathOp{
	"exp": Exp, "log": Log, "sqrt": Sqrt, "abs": Abs, "floor": Floor,
	"ceil": Ceil, "round": Round, "sin": Sin, "cos": Cos, "tan": Tan,
	"asin": Asin, "acos": Acos, "atan": Atan,
}

// MathOpByName resolves a math call's function name to a MathOp.
func MathOpByName(name string) (MathOp, bool) {
	op, ok := mathOpNames[name]
	return op, ok
}

func (op MathOp) String() string {
	for name, o := range mathOpNames {
		if o == op {
			return name
		}
	}
	return "unknown"
}

// Mathematical evaluates a single-argument math call. Only Number and
// dimensionless values are accepted; dimensioned values must first be
// converted with `in <unit>` or used through a cross-category computation
// that already reduced them to a Number.
func Mathematical(op MathOp, arg Value) (Value, error) {
	if arg.Type != Number && arg.Type != Percentage {
		return Value{}, errors.Errorf("math function %s requires a number, got %s", op, arg.Type)
	}

	switch op {
	case Abs:
		return NewNumber(arg.Num.Abs()), nil
	case Floor:
		return NewNumber(arg.Num.Floor()), nil
	case Ceil:
		return NewNumber(arg.Num.Ceil()), nil
	case Round:
		return NewNumber(arg.Num.Round(0)), nil
	case Sqrt:
		if arg.Num.IsNegative() {
			return Value{}, errors.New("sqrt of a negative number")
		}
		f, _ := arg.Num.Float64()
		return NewNumber(decimal.NewFromFloat(math.Sqrt(f))), nil
	case Log:
		f, _ := arg.Num.Float64()
		if f <= 0 {
			return Value{}, errors.New("log of a non-positive number")
		}
		return NewNumber(decimal.NewFromFloat(math.Log(f))), nil
	case Exp:
		f, _ := arg.Num.Float64()
		return NewNumber(decimal.NewFromFloat(math.Exp(f))), nil
	case Sin, Cos, Tan, Asin, Acos, Atan:
		f, _ := arg.Num.Float64()
		return NewNumber(decimal.NewFromFloat(trig(op, f))), nil
	default:
		return Value{}, errors.Errorf("unsupported math operation %s", op)
	}
}

func trig(op MathOp, f float64) float64 {
	switch op {
	case Sin:
		return math.Sin(f)
	case Cos:
		return math.Cos(f)
	case Tan:
		return math.Tan(f)
	case Asin:
		return math.Asin(f)
	case Acos:
		return math.Acos(f)
	case Atan:
		return math.Atan(f)
	default:
		return 0
	}
}
