package value

import "strings"

// typeNameLookup maps the lowercase, underscore-separated spelling used in
// source text (fact type annotations, JSON override type hints) to a Type.
// "data_size" is spelled with an underscore here even though Type.String()
// prints "data size", since source identifiers can't contain a space.
var typeNameLookup = map[string]Type{
	"number": Number, "percentage": Percentage, "boolean": Boolean,
	"text": Text, "date": Date, "regex": Regex,
	"mass": Mass, "length": Length, "volume": Volume, "duration": Duration,
	"temperature": Temperature, "power": Power, "energy": Energy, "force": Force,
	"pressure": Pressure, "frequency": Frequency, "data_size": DataSize, "money": Money,
}

// TypeByName resolves a type annotation's name, e.g. the "mass" in
// `fact weight = [mass]`.
func TypeByName(name string) (Type, bool) {
	t, ok := typeNameLookup[strings.ToLower(name)]
	return t, ok
}
