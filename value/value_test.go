package value

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/lemma-lang/lemma/unit"
)

func mustUnit(t *testing.T, cat unit.Category, name string) unit.Unit {
	t.Helper()
	u, ok := unit.Lookup(cat, name)
	require.True(t, ok)
	return u
}

func TestArithmeticSameCategoryPreservesLHSUnit(t *testing.T) {
	kg := NewDimensioned(mustUnit(t, unit.Mass, "kilogram"), decimal.NewFromInt(2))
	g := NewDimensioned(mustUnit(t, unit.Mass, "gram"), decimal.NewFromInt(500))

	total, err := Arithmetic(Add, kg, g)
	require.NoError(t, err)
	require.Equal(t, Mass, total.Type)
	require.Equal(t, "kilogram", total.Unit.Name)
	require.True(t, total.Num.Equal(decimal.RequireFromString("2.5")))
}

func TestArithmeticMoneyTimesNumber(t *testing.T) {
	price := NewMoney("USD", decimal.NewFromInt(100))
	factor := NewNumber(decimal.RequireFromString("1.21"))

	withTax, err := Arithmetic(Mul, price, factor)
	require.NoError(t, err)
	require.Equal(t, Money, withTax.Type)
	require.Equal(t, "USD", withTax.Unit.Name)
	require.True(t, withTax.Num.Equal(decimal.NewFromInt(121)))
}

func TestArithmeticMoneyPlusPercentage(t *testing.T) {
	price := NewMoney("USD", decimal.NewFromInt(100))
	pct := NewPercentage(decimal.RequireFromString("0.10"))

	total, err := Arithmetic(Add, price, pct)
	require.NoError(t, err)
	require.True(t, total.Num.Equal(decimal.NewFromInt(110)))
}

func TestArithmeticCurrencyMismatchErrors(t *testing.T) {
	usd := NewMoney("USD", decimal.NewFromInt(100))
	eur := NewMoney("EUR", decimal.NewFromInt(80))

	_, err := Compare(Gt, usd, eur)
	require.Error(t, err)

	_, err = Arithmetic(Add, usd, eur)
	require.Error(t, err)
}

func TestArithmeticCrossCategoryProducesNumber(t *testing.T) {
	length := NewDimensioned(mustUnit(t, unit.Length, "meter"), decimal.NewFromInt(100))
	dur := NewDimensioned(mustUnit(t, unit.Duration, "second"), decimal.NewFromInt(10))

	speed, err := Arithmetic(Div, length, dur)
	require.NoError(t, err)
	require.Equal(t, Number, speed.Type)
	require.True(t, speed.Num.Equal(decimal.NewFromInt(10)))
}

func TestDivisionByZero(t *testing.T) {
	_, err := Arithmetic(Div, NewNumber(decimal.NewFromInt(5)), NewNumber(decimal.Zero))
	require.Error(t, err)
}

func TestCompareUnitVsNumberUsesRawMagnitude(t *testing.T) {
	kg := NewDimensioned(mustUnit(t, unit.Mass, "kilogram"), decimal.NewFromInt(5))
	n := NewNumber(decimal.NewFromInt(5))
	eq, err := Compare(Eq, kg, n)
	require.NoError(t, err)
	require.True(t, eq)
}

func TestArithmeticDateMinusDateProducesDuration(t *testing.T) {
	deadline := NewDate(NewDateOnly(2026, 8, 10))
	today := NewDate(NewDateOnly(2026, 8, 3))

	left, err := Arithmetic(Sub, deadline, today)
	require.NoError(t, err)
	require.Equal(t, Duration, left.Type)
	require.Equal(t, "second", left.Unit.Name)
	require.True(t, left.Num.Equal(decimal.NewFromInt(7*86400)))
}

func TestArithmeticDatePlusDurationPreservesOffset(t *testing.T) {
	start := NewDate(NewDateTime(2026, 8, 1, 9, 0, 0, true, 3600))
	oneDay := NewDimensioned(mustUnit(t, unit.Duration, "day"), decimal.NewFromInt(1))

	end, err := Arithmetic(Add, start, oneDay)
	require.NoError(t, err)
	require.Equal(t, Date, end.Type)
	require.True(t, end.Date.HasOffset)
	require.Equal(t, "2026-08-02T09:00:00+01:00", end.Date.String())
}

func TestArithmeticDurationPlusDateIsCommutative(t *testing.T) {
	start := NewDate(NewDateOnly(2026, 8, 1))
	oneWeek := NewDimensioned(mustUnit(t, unit.Duration, "week"), decimal.NewFromInt(1))

	end, err := Arithmetic(Add, oneWeek, start)
	require.NoError(t, err)
	require.Equal(t, Date, end.Type)
	require.Equal(t, "2026-08-08", end.Date.String())
}

func TestArithmeticDateMinusDurationShiftsBackward(t *testing.T) {
	deadline := NewDate(NewDateOnly(2026, 8, 10))
	oneWeek := NewDimensioned(mustUnit(t, unit.Duration, "week"), decimal.NewFromInt(1))

	before, err := Arithmetic(Sub, deadline, oneWeek)
	require.NoError(t, err)
	require.Equal(t, "2026-08-03", before.Date.String())
}

func TestArithmeticDurationMinusDateErrors(t *testing.T) {
	date := NewDate(NewDateOnly(2026, 8, 1))
	oneDay := NewDimensioned(mustUnit(t, unit.Duration, "day"), decimal.NewFromInt(1))

	_, err := Arithmetic(Sub, oneDay, date)
	require.Error(t, err)
}
