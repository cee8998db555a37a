package parse

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lemma-lang/lemma/ast"
	"github.com/lemma-lang/lemma/value"
)

func TestParseSimpleSumAndProduct(t *testing.T) {
	doc, err := Document("doc t\nfact x = 10\nfact y = 5\nrule sum = x + y\nrule product = x * y", "s1", "t.lemma", Limits{})
	require.NoError(t, err)
	require.Equal(t, "t", doc.Name)
	require.Len(t, doc.Facts, 2)
	require.Len(t, doc.Rules, 2)

	sum, ok := doc.FindRule("sum")
	require.True(t, ok)
	require.Equal(t, ast.Arithmetic, sum.Default.Kind)
	require.Equal(t, value.Add, sum.Default.ArithOp)
	require.Equal(t, ast.FactReference, sum.Default.LHS.Kind)
	require.Equal(t, []string{"x"}, sum.Default.LHS.Path)
}

func TestParseUnlessClauses(t *testing.T) {
	src := "doc t\nfact quantity = 15\nrule discount = 0\n  unless quantity >= 10 then 10\n  unless quantity >= 20 then 20"
	doc, err := Document(src, "s1", "t.lemma", Limits{})
	require.NoError(t, err)
	discount, ok := doc.FindRule("discount")
	require.True(t, ok)
	require.Len(t, discount.UnlessClauses, 2)
	require.Equal(t, ast.Comparison, discount.UnlessClauses[0].Condition.Kind)
	require.Equal(t, value.Gte, discount.UnlessClauses[0].Condition.CompareOp)
}

func TestParseMoneyLiteralAndArithmetic(t *testing.T) {
	doc, err := Document("doc t\nfact price = 100 USD\nrule with_tax = price * 1.21", "s1", "t.lemma", Limits{})
	require.NoError(t, err)
	price, ok := doc.FindFact("price")
	require.True(t, ok)
	require.Equal(t, value.Money, price.Value.Type)
	require.Equal(t, "USD", price.Value.Unit.Name)
}

func TestParseDimensionedLiteral(t *testing.T) {
	doc, err := Document("doc t\nfact weight1 = 2 kilograms\nfact weight2 = 500 grams\nrule total = weight1 + weight2", "s1", "t.lemma", Limits{})
	require.NoError(t, err)
	w1, _ := doc.FindFact("weight1")
	require.Equal(t, value.Mass, w1.Value.Type)
	require.Equal(t, "kilogram", w1.Value.Unit.Name)
}

func TestParseVetoWithMessage(t *testing.T) {
	src := `doc s
fact weight = [mass]
rule cost = 5 EUR
  unless weight < 0 kg then veto "invalid"
  unless weight > 100 kg then veto "too heavy"`
	doc, err := Document(src, "s1", "s.lemma", Limits{})
	require.NoError(t, err)
	weight, ok := doc.FindFact("weight")
	require.True(t, ok)
	require.Equal(t, ast.FactTypeAnnotation, weight.ValueKind)
	require.Equal(t, "mass", weight.AnnotatedType)

	cost, ok := doc.FindRule("cost")
	require.True(t, ok)
	require.Len(t, cost.UnlessClauses, 2)
	require.Equal(t, ast.ResultVeto, cost.UnlessClauses[1].ResultKind)
	require.Equal(t, "too heavy", *cost.UnlessClauses[1].VetoMessage)
}

func TestParseRuleReferenceSigil(t *testing.T) {
	doc, err := Document("doc t\nfact x = 1\nrule a = x > 0\nrule b = a? and x > 0", "s1", "t.lemma", Limits{})
	require.NoError(t, err)
	b, ok := doc.FindRule("b")
	require.True(t, ok)
	require.Equal(t, ast.LogicalAnd, b.Default.Kind)
	require.Equal(t, ast.RuleReference, b.Default.LHS.Kind)
	require.Equal(t, []string{"a"}, b.Default.LHS.Path)
}

func TestParseExpressionDepthLimit(t *testing.T) {
	src := "doc t\nfact x = 1\nrule r = " +
		"((((((((((((((((((((x))))))))))))))))))))"
	_, err := Document(src, "s1", "t.lemma", Limits{MaxExpressionDepth: 5})
	require.Error(t, err)
}

func TestParseFileSizeLimit(t *testing.T) {
	_, err := Document("doc t\nfact x = 1", "s1", "t.lemma", Limits{MaxFileSizeBytes: 5})
	require.Error(t, err)
}

func TestParseFactOverride(t *testing.T) {
	fact, err := FactOverride("price=100 USD", "s1", Limits{})
	require.NoError(t, err)
	require.Equal(t, value.Money, fact.Value.Type)
}

func TestParseUnitConversionExpression(t *testing.T) {
	doc, err := Document("doc t\nfact d = 100 meter\nrule in_km = d in kilometer", "s1", "t.lemma", Limits{})
	require.NoError(t, err)
	r, _ := doc.FindRule("in_km")
	require.Equal(t, ast.UnitConversion, r.Default.Kind)
	require.Equal(t, "kilometer", r.Default.TargetUnitName)
}

func TestParseDocumentReferenceFact(t *testing.T) {
	doc, err := Document("doc t\nfact supplier = doc pricing/base", "s1", "t.lemma", Limits{})
	require.NoError(t, err)
	f, ok := doc.FindFact("supplier")
	require.True(t, ok)
	require.Equal(t, ast.FactDocumentReference, f.ValueKind)
	require.Equal(t, "pricing.base", f.ReferencedDocument)
}
