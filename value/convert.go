package value

import (
	"github.com/pkg/errors"

	"github.com/lemma-lang/lemma/unit"
)

// ConvertTo implements the `in <unit>` expression: re-express a dimensioned
// value in another unit of the same category. Money has no conversion.
func ConvertTo(v Value, target unit.Unit) (Value, error) {
	if !v.Type.IsDimensioned() {
		return Value{}, errors.Errorf("cannot convert %s to a unit", v.Type)
	}
	if v.Unit.Category != target.Category {
		return Value{}, errors.Errorf("cannot convert %s to %s: different categories", v.Unit.Category, target.Category)
	}
	if v.Type == Money {
		return Value{}, errors.New("money values have no unit conversion")
	}
	var magnitude = v.Num
	if v.Type == Temperature {
		magnitude = unit.ConvertTemperature(v.Unit, target, v.Num)
	} else {
		magnitude = unit.Convert(v.Unit, target, v.Num)
	}
	return Value{Type: v.Type, Num: magnitude, Unit: target}, nil
}
