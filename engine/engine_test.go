package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/lemma-lang/lemma/invert"
	"github.com/lemma-lang/lemma/value"
)

func TestAddSourceThenEvaluate(t *testing.T) {
	e := New(DefaultResourceLimits(), nil)

	sourceID, err := e.AddSource("doc t\nfact x = 10\nfact y = 5\nrule sum = x + y\nrule product = x * y", "")
	require.NoError(t, err)
	require.NotEmpty(t, sourceID)

	resp, err := e.Evaluate("t", nil, nil)
	require.NoError(t, err)

	byRule := map[string]*value.Value{}
	for _, r := range resp.Results {
		byRule[r.Rule] = r.Value
	}
	require.True(t, byRule["sum"].Num.Equal(decimal.NewFromInt(15)))
	require.True(t, byRule["product"].Num.Equal(decimal.NewFromInt(50)))
}

func TestAddSourceRollsBackOnValidationFailure(t *testing.T) {
	e := New(DefaultResourceLimits(), nil)

	_, err := e.AddSource("doc t\nfact x = 10\nrule r = x + missing", "")
	require.Error(t, err)
	require.Empty(t, e.ListDocuments(), "a failed AddSource must leave the registry untouched")
}

func TestAddSourceMintsSourceIDWhenEmpty(t *testing.T) {
	e := New(DefaultResourceLimits(), nil)
	id1, err := e.AddSource("doc a\nfact x = 1\nrule r = x", "")
	require.NoError(t, err)
	id2, err := e.AddSource("doc b\nfact y = 2\nrule r = y", "")
	require.NoError(t, err)
	require.NotEqual(t, id1, id2)
}

func TestRemoveDocumentDropsIt(t *testing.T) {
	e := New(DefaultResourceLimits(), nil)
	_, err := e.AddSource("doc t\nfact x = 1\nrule r = x", "s1")
	require.NoError(t, err)
	require.Contains(t, e.ListDocuments(), "t")

	e.RemoveDocument("t")
	require.NotContains(t, e.ListDocuments(), "t")
}

func TestEvaluateOverridesParsesBatchString(t *testing.T) {
	e := New(DefaultResourceLimits(), nil)
	_, err := e.AddSource("doc t\nfact quantity = [number]\nrule discount = 0\n  unless quantity >= 10 then 10", "s1")
	require.NoError(t, err)

	resp, err := e.EvaluateOverrides("t", "quantity=20", nil)
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	require.True(t, resp.Results[0].Value.Num.Equal(decimal.NewFromInt(10)))
}

func TestValidDomainUsesAnyValueTarget(t *testing.T) {
	e := New(DefaultResourceLimits(), nil)
	_, err := e.AddSource("doc t\nfact quantity = [number]\nrule discount = 0\n  unless quantity >= 10 then 10", "s1")
	require.NoError(t, err)

	sols, err := e.ValidDomain("t", "discount", map[string]value.Value{})
	require.NoError(t, err)
	require.NotEmpty(t, sols)
}

func TestInvertThroughEngine(t *testing.T) {
	e := New(DefaultResourceLimits(), nil)
	_, err := e.AddSource("doc s\nfact weight = [mass]\nrule cost = 5 EUR\n  unless weight > 100 kilograms then veto \"too heavy\"", "s1")
	require.NoError(t, err)

	sols, err := e.Invert("s", "cost", invert.VetoTarget("too heavy"), map[string]value.Value{})
	require.NoError(t, err)
	require.Len(t, sols, 1)
}
