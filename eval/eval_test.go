package eval

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/lemma-lang/lemma/ast"
	"github.com/lemma-lang/lemma/parse"
	"github.com/lemma-lang/lemma/response"
	"github.com/lemma-lang/lemma/validate"
	"github.com/lemma-lang/lemma/value"
)

func mustParse(t *testing.T, src, sourceID, name string) *ast.Document {
	t.Helper()
	doc, err := parse.Document(src, sourceID, name+".lemma", parse.Limits{})
	require.NoError(t, err)
	return doc
}

func findRule(t *testing.T, resp *response.Response, name string) response.RuleResult {
	t.Helper()
	for _, r := range resp.Results {
		if r.Rule == name {
			return r
		}
	}
	t.Fatalf("no result for rule %q", name)
	return response.RuleResult{}
}

func TestEvaluateUsesDefaultWhenNoClauseMatches(t *testing.T) {
	doc := mustParse(t, "doc t\nfact quantity = 5\nrule discount = 0\n  unless quantity >= 10 then 10", "s1", "t")
	reg := validate.Registry{doc.Name: doc}
	_, err := validate.Validate(reg)
	require.NoError(t, err)

	resp, err := Evaluate(reg, doc, nil, nil, 0)
	require.NoError(t, err)

	rr := findRule(t, resp, "discount")
	require.False(t, rr.Vetoed)
	require.NotNil(t, rr.Value)
	require.True(t, rr.Value.Num.Equal(decimal.Zero))
}

func TestEvaluateLastMatchingUnlessClauseWins(t *testing.T) {
	doc := mustParse(t, "doc t\nfact quantity = 50\nrule discount = 0\n"+
		"  unless quantity >= 10 then 10\n"+
		"  unless quantity >= 40 then 20", "s1", "t")
	reg := validate.Registry{doc.Name: doc}
	_, err := validate.Validate(reg)
	require.NoError(t, err)

	resp, err := Evaluate(reg, doc, nil, nil, 0)
	require.NoError(t, err)

	rr := findRule(t, resp, "discount")
	require.False(t, rr.Vetoed)
	require.True(t, rr.Value.Num.Equal(decimal.NewFromInt(20)))
}

func TestEvaluateVetoFromConditionPropagates(t *testing.T) {
	doc := mustParse(t, "doc t\nfact quantity = 50\nrule blocked = 0\n"+
		"  unless quantity > 10 then veto \"blocked\"\nrule discount = 0\n"+
		"  unless blocked? > 0 then 10", "s1", "t")
	reg := validate.Registry{doc.Name: doc}
	_, err := validate.Validate(reg)
	require.NoError(t, err)

	resp, err := Evaluate(reg, doc, nil, nil, 0)
	require.NoError(t, err)

	rr := findRule(t, resp, "discount")
	require.True(t, rr.Vetoed)
	require.NotNil(t, rr.VetoMessage)
	require.Equal(t, "blocked", *rr.VetoMessage)
}

func TestEvaluateVetoResultWithMessage(t *testing.T) {
	doc := mustParse(t, "doc t\nfact quantity = 50\nrule discount = 0\n"+
		"  unless quantity >= 10 then veto \"too many\"", "s1", "t")
	reg := validate.Registry{doc.Name: doc}
	_, err := validate.Validate(reg)
	require.NoError(t, err)

	resp, err := Evaluate(reg, doc, nil, nil, 0)
	require.NoError(t, err)

	rr := findRule(t, resp, "discount")
	require.True(t, rr.Vetoed)
	require.Nil(t, rr.Value)
	require.NotNil(t, rr.VetoMessage)
	require.Equal(t, "too many", *rr.VetoMessage)
}

func TestEvaluateImportsDocumentReferenceAndResolvesRuleReference(t *testing.T) {
	inner := mustParse(t, "doc inner\nfact price = 100 USD\nrule total = price", "s2", "inner")
	outer := mustParse(t, "doc outer\nfact ref = doc inner\nrule grand_total = ref.total?", "s1", "outer")
	reg := validate.Registry{inner.Name: inner, outer.Name: outer}
	_, err := validate.Validate(reg)
	require.NoError(t, err)

	resp, err := Evaluate(reg, outer, nil, nil, 0)
	require.NoError(t, err)

	rr := findRule(t, resp, "grand_total")
	require.False(t, rr.Vetoed)
	require.Equal(t, value.Money, rr.Value.Type)
	require.True(t, rr.Value.Num.Equal(decimal.NewFromInt(100)))
}

func TestEvaluateOverrideReplacesTypeAnnotatedFact(t *testing.T) {
	doc := mustParse(t, "doc t\nfact quantity = [number]\nrule discount = 0\n  unless quantity >= 10 then 10", "s1", "t")
	reg := validate.Registry{doc.Name: doc}
	_, err := validate.Validate(reg)
	require.NoError(t, err)

	override, err := parse.FactOverride("quantity = 15", "ov", parse.Limits{})
	require.NoError(t, err)

	resp, err := Evaluate(reg, doc, []*ast.Fact{override}, nil, 0)
	require.NoError(t, err)

	rr := findRule(t, resp, "discount")
	require.True(t, rr.Value.Num.Equal(decimal.NewFromInt(10)))
}

func TestEvaluateOverrideTypeMismatchIsRejected(t *testing.T) {
	doc := mustParse(t, "doc t\nfact price = [money USD]\nrule r = price", "s1", "t")
	reg := validate.Registry{doc.Name: doc}
	_, err := validate.Validate(reg)
	require.NoError(t, err)

	override, err := parse.FactOverride("price = 15", "ov", parse.Limits{})
	require.NoError(t, err)

	_, err = Evaluate(reg, doc, []*ast.Fact{override}, nil, 0)
	require.Error(t, err)
}

func TestEvaluateMissingFactForUnoverriddenAnnotation(t *testing.T) {
	doc := mustParse(t, "doc t\nfact quantity = [number]\nrule r = quantity", "s1", "t")
	reg := validate.Registry{doc.Name: doc}
	_, err := validate.Validate(reg)
	require.NoError(t, err)

	_, err = Evaluate(reg, doc, nil, nil, 0)
	require.Error(t, err)
	var mf *MissingFact
	require.ErrorAs(t, err, &mf)
}

func TestEvaluateOrdersRulesByDependencyRegardlessOfDeclarationOrder(t *testing.T) {
	// b is declared before a but depends on a; a must evaluate first.
	doc := mustParse(t, "doc t\nfact x = 1\nrule b = a? + 1\nrule a = x + 1", "s1", "t")
	reg := validate.Registry{doc.Name: doc}
	_, err := validate.Validate(reg)
	require.NoError(t, err)

	resp, err := Evaluate(reg, doc, nil, nil, 0)
	require.NoError(t, err)

	a := findRule(t, resp, "a")
	b := findRule(t, resp, "b")
	require.True(t, a.Value.Num.Equal(decimal.NewFromInt(2)))
	require.True(t, b.Value.Num.Equal(decimal.NewFromInt(3)))
}

func TestEvaluateDeclarationOrderTieBreakIsDeterministic(t *testing.T) {
	doc := mustParse(t, "doc t\nfact x = 1\nrule first = x\nrule second = x + 1", "s1", "t")
	reg := validate.Registry{doc.Name: doc}
	_, err := validate.Validate(reg)
	require.NoError(t, err)

	resp1, err := Evaluate(reg, doc, nil, nil, 0)
	require.NoError(t, err)
	resp2, err := Evaluate(reg, doc, nil, nil, 0)
	require.NoError(t, err)

	require.Equal(t, resp1.Results[0].Rule, resp2.Results[0].Rule)
	require.Equal(t, "first", resp1.Results[0].Rule)
	require.Equal(t, "second", resp1.Results[1].Rule)
}

func TestEvaluateRespectsRuleFilter(t *testing.T) {
	doc := mustParse(t, "doc t\nfact x = 1\nrule a = x\nrule b = x + 1", "s1", "t")
	reg := validate.Registry{doc.Name: doc}
	_, err := validate.Validate(reg)
	require.NoError(t, err)

	resp, err := Evaluate(reg, doc, nil, []string{"b"}, 0)
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	require.Equal(t, "b", resp.Results[0].Rule)
}

func TestEvaluateZeroTimeoutDisablesResourceLimit(t *testing.T) {
	doc := mustParse(t, "doc t\nfact x = 1\nrule a = x + 1", "s1", "t")
	reg := validate.Registry{doc.Name: doc}
	_, err := validate.Validate(reg)
	require.NoError(t, err)

	_, err = Evaluate(reg, doc, nil, nil, 0)
	require.NoError(t, err)
}

func TestEvaluateExceedsResourceLimit(t *testing.T) {
	doc := mustParse(t, "doc t\nfact x = 1\nrule a = x + 1", "s1", "t")
	reg := validate.Registry{doc.Name: doc}
	_, err := validate.Validate(reg)
	require.NoError(t, err)

	s := &evalState{
		reg:      reg,
		facts:    map[string]value.Value{"x": value.NewNumber(decimal.NewFromInt(1))},
		ruleMemo: map[string]opResult{},
		tracker:  &timeoutTracker{},
		maxMs:    1,
	}
	s.tracker.start = s.tracker.start.Add(-time.Hour)
	_, err = s.evaluateRule(doc, &doc.Rules[0], nil, 0)
	require.Error(t, err)
	var rle *ResourceLimitExceeded
	require.ErrorAs(t, err, &rle)
}
