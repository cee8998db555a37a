package value

import (
	"strings"

	"github.com/pkg/errors"
)

// isNumericish reports whether a type's Num field is a meaningful scalar
// magnitude: Number, Percentage, or any dimensioned category.
func isNumericish(t Type) bool {
	return t == Number || t == Percentage || t.IsDimensioned()
}

// Compare evaluates a comparison expression following spec.md §4.V:
//
//   - same-category dimensioned values compare on canonical magnitude;
//   - Money with mismatched currencies is rejected;
//   - Unit vs Number (and any other numeric-ish mismatch) compares the raw
//     stated magnitude only, with no unit conversion;
//   - Date comparison uses the absolute instant;
//   - Text and Regex compare lexicographically/by source pattern;
//   - Boolean supports only equality.
func Compare(op CompareOp, lhs, rhs Value) (bool, error) {
	switch {
	case lhs.Type == Date && rhs.Type == Date:
		return compareOrdered(op, func() int {
			switch {
			case lhs.Date.Equal(rhs.Date):
				return 0
			case lhs.Date.Before(rhs.Date):
				return -1
			default:
				return 1
			}
		}())

	case lhs.Type == Money && rhs.Type == Money:
		if lhs.Unit.Name != rhs.Unit.Name {
			return false, errors.Errorf("currency mismatch: %s vs %s", lhs.Unit.Name, rhs.Unit.Name)
		}
		return compareOrdered(op, lhs.Num.Cmp(rhs.Num))

	case lhs.Type == rhs.Type && lhs.Type.IsDimensioned():
		return compareOrdered(op, canonicalMagnitude(lhs).Cmp(canonicalMagnitude(rhs)))

	case isNumericish(lhs.Type) && isNumericish(rhs.Type):
		return compareOrdered(op, lhs.Num.Cmp(rhs.Num))

	case lhs.Type == Text && rhs.Type == Text:
		return compareOrdered(op, strings.Compare(lhs.Text, rhs.Text))

	case lhs.Type == Boolean && rhs.Type == Boolean:
		if op != Eq && op != Neq {
			return false, errors.Errorf("boolean values only support == and !=")
		}
		eq := lhs.Bool == rhs.Bool
		if op == Neq {
			return !eq, nil
		}
		return eq, nil

	case lhs.Type == Regex && rhs.Type == Regex:
		if op != Eq && op != Neq {
			return false, errors.Errorf("regex values only support == and !=")
		}
		eq := lhs.RegexSrc == rhs.RegexSrc
		if op == Neq {
			return !eq, nil
		}
		return eq, nil

	default:
		return false, errors.Errorf("cannot compare %s and %s", lhs.Type, rhs.Type)
	}
}

func compareOrdered(op CompareOp, cmp int) (bool, error) {
	switch op {
	case Eq:
		return cmp == 0, nil
	case Neq:
		return cmp != 0, nil
	case Lt:
		return cmp < 0, nil
	case Lte:
		return cmp <= 0, nil
	case Gt:
		return cmp > 0, nil
	case Gte:
		return cmp >= 0, nil
	default:
		return false, errors.Errorf("unknown comparison operator %v", op)
	}
}
