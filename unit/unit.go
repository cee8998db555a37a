// Package unit defines the unit categories Lemma values can carry and the
// exact conversion factors between units within a category.
//
// Conversions use fixed-precision decimal factors (github.com/shopspring/decimal)
// rather than floating point, per the engine's no-float-drift requirement.
// Temperature is the one affine category: conversion to its base unit is a
// scale-and-shift, not a pure multiplication.
package unit

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Category identifies a dimensioned value's unit family.
type Category int

const (
	Mass Category = iota
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

func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return "unknown"
}

var categoryNames = map[Category]string{
	Mass:        "mass",
	Length:      "length",
	Volume:      "volume",
	Duration:    "duration",
	Temperature: "temperature",
	Power:       "power",
	Energy:      "energy",
	Force:       "force",
	Pressure:    "pressure",
	Frequency:   "frequency",
	DataSize:    "data size",
	Money:       "money",
}

// Unit is a single named unit within a category, e.g. (Mass, "kilogram").
// For Money, Name holds the ISO4217-style currency code instead of a unit name.
type Unit struct {
	Category Category
	Name     string
}

func (u Unit) String() string { return u.Name }

// IsMoney reports whether this unit denotes a currency rather than a
// physical unit of measure.
func (u Unit) IsMoney() bool { return u.Category == Money }

// conversionFactor is the exact multiplier that converts 1 unit into base
// units, except for Temperature where ToBase/FromBase below are used instead.
type conversionFactor struct {
	toBase   decimal.Decimal
	fromBase decimal.Decimal // = 1 / toBase, precomputed to avoid repeated division
}

func factor(s string) conversionFactor {
	d := decimal.RequireFromString(s)
	return conversionFactor{toBase: d, fromBase: decimal.NewFromInt(1).DivRound(d, 34)}
}

// table maps Category -> unit name -> conversion factor to the category's base unit.
var table = map[Category]map[string]conversionFactor{
	Mass: {
		"kilogram":  factor("1"),
		"gram":      factor("0.001"),
		"milligram": factor("0.000001"),
		"pound":     factor("0.45359237"),
		"ounce":     factor("0.028349523125"),
		"ton":       factor("1000"),
	},
	Length: {
		"meter":      factor("1"),
		"millimeter": factor("0.001"),
		"centimeter": factor("0.01"),
		"kilometer":  factor("1000"),
		"inch":       factor("0.0254"),
		"foot":       factor("0.3048"),
		"yard":       factor("0.9144"),
		"mile":       factor("1609.344"),
	},
	Volume: {
		"liter":       factor("1"),
		"milliliter":  factor("0.001"),
		"cubic_meter": factor("1000"),
		"gallon":      factor("3.785411784"),
	},
	Duration: {
		"second": factor("1"),
		"minute": factor("60"),
		"hour":   factor("3600"),
		"day":    factor("86400"),
		"week":   factor("604800"),
	},
	Power: {
		"watt":       factor("1"),
		"kilowatt":   factor("1000"),
		"megawatt":   factor("1000000"),
		"horsepower": factor("745.699872"),
	},
	Energy: {
		"joule":          factor("1"),
		"kilojoule":      factor("1000"),
		"watt_hour":      factor("3600"),
		"kilowatt_hour":  factor("3600000"),
		"calorie":        factor("4.184"),
	},
	Force: {
		"newton":      factor("1"),
		"kilonewton":  factor("1000"),
		"pound_force": factor("4.4482216152605"),
	},
	Pressure: {
		"pascal":     factor("1"),
		"kilopascal": factor("1000"),
		"bar":        factor("100000"),
		"psi":        factor("6894.757293168361"),
		"atmosphere": factor("101325"),
	},
	Frequency: {
		"hertz":     factor("1"),
		"kilohertz": factor("1000"),
		"megahertz": factor("1000000"),
		"gigahertz": factor("1000000000"),
	},
	DataSize: {
		"byte":     factor("1"),
		"bit":      factor("0.125"),
		"kilobyte": factor("1000"),
		"megabyte": factor("1000000"),
		"gigabyte": factor("1000000000"),
		"terabyte": factor("1000000000000"),
	},
}

// baseUnitName is the canonical base unit per category, used as the
// category's fallback display unit and as the result unit of conversions
// that don't resolve to either operand's unit.
var baseUnitName = map[Category]string{
	Mass:        "kilogram",
	Length:      "meter",
	Volume:      "liter",
	Duration:    "second",
	Temperature: "celsius",
	Power:       "watt",
	Energy:      "joule",
	Force:       "newton",
	Pressure:    "pascal",
	Frequency:   "hertz",
	DataSize:    "byte",
}

// displayOrder lists units within a category in the order spec.md names them,
// used only for rendering/enumeration, never for conversion.
var displayOrder = map[Category][]string{
	Mass:        {"gram", "kilogram", "milligram", "pound", "ounce", "ton"},
	Length:      {"millimeter", "centimeter", "meter", "kilometer", "inch", "foot", "yard", "mile"},
	Volume:      {"milliliter", "liter", "cubic_meter", "gallon"},
	Duration:    {"second", "minute", "hour", "day", "week"},
	Temperature: {"celsius", "fahrenheit", "kelvin"},
	Power:       {"watt", "kilowatt", "megawatt", "horsepower"},
	Energy:      {"joule", "kilojoule", "watt_hour", "kilowatt_hour", "calorie"},
	Force:       {"newton", "kilonewton", "pound_force"},
	Pressure:    {"pascal", "kilopascal", "bar", "psi", "atmosphere"},
	Frequency:   {"hertz", "kilohertz", "megahertz", "gigahertz"},
	DataSize:    {"byte", "kilobyte", "megabyte", "gigabyte", "terabyte", "bit"},
}

// Lookup resolves a unit name within a category. The second return value is
// false if the category has no such unit (Temperature and Money are handled
// by their own lookup paths below).
func Lookup(cat Category, name string) (Unit, bool) {
	if cat == Temperature {
		if _, ok := temperatureConversions[name]; ok {
			return Unit{Category: cat, Name: name}, true
		}
		return Unit{}, false
	}
	if cat == Money {
		return Unit{Category: cat, Name: name}, true
	}
	if _, ok := table[cat][name]; ok {
		return Unit{Category: cat, Name: name}, true
	}
	return Unit{}, false
}

// LookupFlexible resolves a unit name the way source text actually spells
// it: the acceptance examples write plural forms ("2 kilograms", "500
// grams") even though the canonical table holds singular names. Try the
// exact name first, then a trailing-"s" stripped form.
func LookupFlexible(cat Category, name string) (Unit, bool) {
	if u, ok := Lookup(cat, name); ok {
		return u, true
	}
	if strings.HasSuffix(name, "s") {
		return Lookup(cat, strings.TrimSuffix(name, "s"))
	}
	return Unit{}, false
}

// LookupAnyFlexible resolves a unit name against every category (used by
// the parser, which sees a bare identifier after a number and must find
// which category, if any, claims it). Money is excluded: currency codes are
// accepted unconditionally by Lookup and would shadow every other category.
func LookupAnyFlexible(name string) (Unit, bool) {
	for cat := Mass; cat <= DataSize; cat++ {
		if u, ok := LookupFlexible(cat, name); ok {
			return u, true
		}
	}
	return Unit{}, false
}

// Base returns the canonical base unit for a category.
func Base(cat Category) Unit {
	return Unit{Category: cat, Name: baseUnitName[cat]}
}

// DisplayOrder returns the units of a category in spec-declaration order.
func DisplayOrder(cat Category) []string {
	return displayOrder[cat]
}

// ToBase converts a magnitude in unit u to the category's base unit.
// Callers must not use this for Temperature; use ToBaseTemperature instead.
func ToBase(u Unit, magnitude decimal.Decimal) decimal.Decimal {
	return magnitude.Mul(table[u.Category][u.Name].toBase)
}

// FromBase converts a base-unit magnitude into unit u.
func FromBase(u Unit, baseMagnitude decimal.Decimal) decimal.Decimal {
	return baseMagnitude.Mul(table[u.Category][u.Name].fromBase)
}

// Convert converts a magnitude from one unit to another within the same
// non-Temperature, non-Money category.
func Convert(from, to Unit, magnitude decimal.Decimal) decimal.Decimal {
	base := ToBase(from, magnitude)
	return FromBase(to, base)
}

// temperatureConversions holds the affine (scale, offset) transform from a
// unit to Celsius (the temperature base unit): celsius = magnitude*scale + offset.
type affine struct {
	toBaseScale, toBaseOffset     decimal.Decimal
	fromBaseScale, fromBaseOffset decimal.Decimal
}

var temperatureConversions = map[string]affine{
	"celsius": {
		toBaseScale: decimal.NewFromInt(1), toBaseOffset: decimal.Zero,
		fromBaseScale: decimal.NewFromInt(1), fromBaseOffset: decimal.Zero,
	},
	"fahrenheit": {
		toBaseScale: decimal.NewFromInt(5).Div(decimal.NewFromInt(9)), toBaseOffset: decimal.RequireFromString("-17.77777777777778"),
		fromBaseScale: decimal.NewFromInt(9).Div(decimal.NewFromInt(5)), fromBaseOffset: decimal.NewFromInt(32),
	},
	"kelvin": {
		toBaseScale: decimal.NewFromInt(1), toBaseOffset: decimal.RequireFromString("-273.15"),
		fromBaseScale: decimal.NewFromInt(1), fromBaseOffset: decimal.RequireFromString("273.15"),
	},
}

// ToBaseTemperature converts a temperature magnitude to Celsius.
func ToBaseTemperature(u Unit, magnitude decimal.Decimal) decimal.Decimal {
	c := temperatureConversions[u.Name]
	return magnitude.Mul(c.toBaseScale).Add(c.toBaseOffset)
}

// FromBaseTemperature converts a Celsius magnitude into unit u.
func FromBaseTemperature(u Unit, celsius decimal.Decimal) decimal.Decimal {
	c := temperatureConversions[u.Name]
	return celsius.Mul(c.fromBaseScale).Add(c.fromBaseOffset)
}

// ConvertTemperature converts between two temperature units.
func ConvertTemperature(from, to Unit, magnitude decimal.Decimal) decimal.Decimal {
	return FromBaseTemperature(to, ToBaseTemperature(from, magnitude))
}
