package unit

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestConvertRoundTrip(t *testing.T) {
	cases := []struct {
		cat       Category
		from, to  string
		magnitude string
	}{
		{Mass, "kilogram", "gram", "2.5"},
		{Mass, "pound", "kilogram", "10"},
		{Length, "mile", "meter", "3"},
		{Volume, "gallon", "liter", "1"},
		{Duration, "hour", "second", "2"},
		{Power, "horsepower", "watt", "1"},
		{Pressure, "psi", "pascal", "14.7"},
		{DataSize, "kilobyte", "byte", "4"},
	}
	for _, tc := range cases {
		from, ok := Lookup(tc.cat, tc.from)
		require.True(t, ok)
		to, ok := Lookup(tc.cat, tc.to)
		require.True(t, ok)
		mag := decimal.RequireFromString(tc.magnitude)

		converted := Convert(from, to, mag)
		back := Convert(to, from, converted)
		require.True(t, mag.Sub(back).Abs().LessThan(decimal.RequireFromString("0.0000001")),
			"%s %s->%s->%s round trip: %s != %s", tc.cat, tc.from, tc.to, tc.from, back, mag)
	}
}

func TestTemperatureConversion(t *testing.T) {
	f, _ := Lookup(Temperature, "fahrenheit")
	c, _ := Lookup(Temperature, "celsius")
	k, _ := Lookup(Temperature, "kelvin")

	boiling := ConvertTemperature(c, f, decimal.NewFromInt(100))
	require.True(t, boiling.Sub(decimal.NewFromInt(212)).Abs().LessThan(decimal.RequireFromString("0.001")))

	freezing := ConvertTemperature(c, k, decimal.Zero)
	require.True(t, freezing.Sub(decimal.RequireFromString("273.15")).Abs().LessThan(decimal.RequireFromString("0.001")))
}

func TestMassSameCategoryArithmeticUnitPreserved(t *testing.T) {
	kg, _ := Lookup(Mass, "kilogram")
	g, _ := Lookup(Mass, "gram")
	// 2 kilograms + 500 grams expressed in kilograms (LHS unit) should be 2.5.
	total := decimal.NewFromInt(2).Add(Convert(g, kg, decimal.NewFromInt(500)))
	require.True(t, total.Equal(decimal.RequireFromString("2.5")))
}
