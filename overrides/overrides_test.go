package overrides

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/lemma-lang/lemma/parse"
	"github.com/lemma-lang/lemma/value"
)

func TestParseBatchSplitsQuotedValues(t *testing.T) {
	facts, err := ParseBatch(`price="100 USD" active=true`, "s1", parse.Limits{})
	require.NoError(t, err)
	require.Len(t, facts, 2)
	require.Equal(t, "price", facts[0].Name())
	require.Equal(t, value.Money, facts[0].Value.Type)
	require.Equal(t, "active", facts[1].Name())
	require.True(t, facts[1].Value.Bool)
}

func TestParseOneDottedOverride(t *testing.T) {
	f, err := ParseOne("contract.start_date=2024-02-01", "s1", parse.Limits{})
	require.NoError(t, err)
	require.Equal(t, []string{"contract", "start_date"}, f.Path)
	require.False(t, f.IsLocal())
}

func TestParseJSONNumberAsPercentageWhenDeclared(t *testing.T) {
	declared := map[string]DeclaredType{"discount": {Known: true, Kind: value.Percentage}}
	facts, err := ParseJSON([]byte(`{"discount": 10}`), declared, "s1", parse.Limits{})
	require.NoError(t, err)
	require.Len(t, facts, 1)
	require.Equal(t, value.Percentage, facts[0].Value.Type)
	require.True(t, facts[0].Value.Num.Equal(decimal.NewFromFloat(0.10)))
}

func TestParseJSONRejectsBareNumberForMoney(t *testing.T) {
	declared := map[string]DeclaredType{"price": {Known: true, Kind: value.Money, Currency: "USD"}}
	_, err := ParseJSON([]byte(`{"price": 100}`), declared, "s1", parse.Limits{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "requires string form")
}

func TestParseJSONAcceptsStringFormForMoney(t *testing.T) {
	declared := map[string]DeclaredType{"price": {Known: true, Kind: value.Money, Currency: "USD"}}
	facts, err := ParseJSON([]byte(`{"price": "100 USD"}`), declared, "s1", parse.Limits{})
	require.NoError(t, err)
	require.Equal(t, value.Money, facts[0].Value.Type)
}

func TestParseJSONRejectsArray(t *testing.T) {
	_, err := ParseJSON([]byte(`{"x": [1,2]}`), nil, "s1", parse.Limits{})
	require.Error(t, err)
}

func TestCheckTypeRejectsNumberForMoney(t *testing.T) {
	declared := DeclaredType{Known: true, Kind: value.Money, Currency: "USD"}
	err := CheckType(declared, value.NewNumber(decimal.NewFromInt(100)))
	require.Error(t, err)
}

func TestCheckTypeAcceptsMatchingCurrency(t *testing.T) {
	declared := DeclaredType{Known: true, Kind: value.Money, Currency: "USD"}
	err := CheckType(declared, value.NewMoney("USD", decimal.NewFromInt(100)))
	require.NoError(t, err)
}

func TestCheckTypeRejectsCurrencyMismatch(t *testing.T) {
	declared := DeclaredType{Known: true, Kind: value.Money, Currency: "USD"}
	err := CheckType(declared, value.NewMoney("EUR", decimal.NewFromInt(100)))
	require.Error(t, err)
}
