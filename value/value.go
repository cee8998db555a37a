// Package value implements Lemma's typed literal values: the primitive
// types (Number, Percentage, Boolean, Text, Date, Regex) and the dimensioned
// categories (Mass, Length, Volume, Duration, Temperature, Power, Energy,
// Force, Pressure, Frequency, DataSize, Money), plus the arithmetic and
// comparison contract between them.
//
// Magnitudes are github.com/shopspring/decimal values, never float64 — the
// engine promises fixed-precision decimal results, not floating-point
// reproducibility.
package value

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/lemma-lang/lemma/unit"
)

// Type is a node in Lemma's type lattice.
type Type int

const (
	Number Type = iota
	Percentage
	Boolean
	Text
	Date
	Regex
	Mass
	Length
	Volume
	Duration
	Temperature
	Power
	Energy
	Force
	Pressure
	Frequency
	DataSize
	Money
)

var typeNames = map[Type]string{
	Number: "number", Percentage: "percentage", Boolean: "boolean",
	Text: "text", Date: "date", Regex: "regex",
	Mass: "mass", Length: "length", Volume: "volume", Duration: "duration",
	Temperature: "temperature", Power: "power", Energy: "energy", Force: "force",
	Pressure: "pressure", Frequency: "frequency", DataSize: "data size", Money: "money",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "unknown"
}

// categoryOf maps a dimensioned Type to its unit.Category. ok is false for
// the primitive types (Number, Percentage, Boolean, Text, Date, Regex).
var typeToCategory = map[Type]unit.Category{
	Mass: unit.Mass, Length: unit.Length, Volume: unit.Volume, Duration: unit.Duration,
	Temperature: unit.Temperature, Power: unit.Power, Energy: unit.Energy, Force: unit.Force,
	Pressure: unit.Pressure, Frequency: unit.Frequency, DataSize: unit.DataSize, Money: unit.Money,
}

var categoryToType = func() map[unit.Category]Type {
	m := make(map[unit.Category]Type, len(typeToCategory))
	for t, c := range typeToCategory {
		m[c] = t
	}
	return m
}()

func categoryOf(t Type) (unit.Category, bool) {
	c, ok := typeToCategory[t]
	return c, ok
}

// IsDimensioned reports whether values of this type carry a unit.
func (t Type) IsDimensioned() bool {
	_, ok := typeToCategory[t]
	return ok
}

// TypeForCategory returns the Lemma Type for a unit.Category.
func TypeForCategory(c unit.Category) Type {
	return categoryToType[c]
}

// Value is a single typed Lemma literal.
type Value struct {
	Type Type

	// Num holds the magnitude for Number, Percentage (as a fraction, so 10%
	// is stored as 0.10) and every dimensioned category.
	Num decimal.Decimal

	// Unit holds the unit for dimensioned categories. For Money, Unit.Name
	// is the ISO4217-style currency code.
	Unit unit.Unit

	Text string
	Bool bool
	Date DateValue

	// RegexSrc is the regex literal's source pattern (without the
	// surrounding slashes).
	RegexSrc string
}

func NewNumber(d decimal.Decimal) Value { return Value{Type: Number, Num: d} }

// NewPercentage takes the fraction directly (0.10 for "10%").
func NewPercentage(fraction decimal.Decimal) Value { return Value{Type: Percentage, Num: fraction} }

func NewBoolean(b bool) Value { return Value{Type: Boolean, Bool: b} }

func NewText(s string) Value { return Value{Type: Text, Text: s} }

func NewRegex(src string) Value { return Value{Type: Regex, RegexSrc: src} }

func NewDate(d DateValue) Value { return Value{Type: Date, Date: d} }

// NewDimensioned builds a value of a dimensioned category (or Money, with
// u.Name as the currency code).
func NewDimensioned(u unit.Unit, magnitude decimal.Decimal) Value {
	return Value{Type: TypeForCategory(u.Category), Num: magnitude, Unit: u}
}

func NewMoney(currency string, amount decimal.Decimal) Value {
	return Value{Type: Money, Num: amount, Unit: unit.Unit{Category: unit.Money, Name: currency}}
}

func (v Value) String() string {
	switch v.Type {
	case Number:
		return v.Num.String()
	case Percentage:
		return v.Num.Mul(decimal.NewFromInt(100)).String() + "%"
	case Boolean:
		if v.Bool {
			return "true"
		}
		return "false"
	case Text:
		return v.Text
	case Date:
		return v.Date.String()
	case Regex:
		return "/" + v.RegexSrc + "/"
	case Money:
		return fmt.Sprintf("%s %s", v.Num.String(), v.Unit.Name)
	default:
		return fmt.Sprintf("%s %s", v.Num.String(), v.Unit.Name)
	}
}

// compatibleWith returns an error unless both values have the same Type
// (and, for Money, the same currency).
func (v Value) compatibleWith(other Value) error {
	if v.Type != other.Type {
		return errors.Errorf("type mismatch: %s vs %s", v.Type, other.Type)
	}
	if v.Type == Money && v.Unit.Name != other.Unit.Name {
		return errors.Errorf("currency mismatch: %s vs %s", v.Unit.Name, other.Unit.Name)
	}
	return nil
}
