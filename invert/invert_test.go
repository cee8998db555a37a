package invert

import (
	"testing"

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

func mustReg(t *testing.T, docs ...*ast.Document) validate.Registry {
	t.Helper()
	reg := validate.Registry{}
	for _, d := range docs {
		reg[d.Name] = d
	}
	_, err := validate.Validate(reg)
	require.NoError(t, err)
	return reg
}

func solutionFor(t *testing.T, sols []response.Solution, free string) response.Domain {
	t.Helper()
	require.Len(t, sols, 1)
	d, ok := sols[0][free]
	require.True(t, ok, "solution missing domain for %q", free)
	return d
}

func TestInvertVetoTargetYieldsExclusiveLowerBound(t *testing.T) {
	doc := mustParse(t, `doc s
fact weight = [mass]
rule cost = 5 EUR
  unless weight < 0 kilograms then veto "invalid"
  unless weight > 100 kilograms then veto "too heavy"`, "s1", "s")
	reg := mustReg(t, doc)

	sols, err := Invert(reg, doc, "cost", VetoTarget("too heavy"), map[string]value.Value{})
	require.NoError(t, err)

	d := solutionFor(t, sols, "weight")
	require.Equal(t, response.Range, d.Kind)
	require.Equal(t, response.Exclusive, d.Min.Kind)
	require.True(t, d.Min.Value.Num.Equal(decimal.NewFromInt(100)))
	require.Equal(t, response.Unbounded, d.Max.Kind)
}

func TestInvertValueTargetOnSimpleComparison(t *testing.T) {
	doc := mustParse(t, `doc s
fact quantity = [number]
rule discount = 0
  unless quantity >= 10 then 10`, "s1", "s")
	reg := mustReg(t, doc)

	sols, err := Invert(reg, doc, "discount", ValueTarget(Eq, value.NewNumber(decimal.NewFromInt(10))), map[string]value.Value{})
	require.NoError(t, err)

	d := solutionFor(t, sols, "quantity")
	require.Equal(t, response.Range, d.Kind)
	require.Equal(t, response.Inclusive, d.Min.Kind)
	require.True(t, d.Min.Value.Num.Equal(decimal.NewFromInt(10)))
	require.Equal(t, response.Unbounded, d.Max.Kind)
}

func TestInvertNoSatisfiableBranchesError(t *testing.T) {
	doc := mustParse(t, `doc s
fact quantity = [number]
rule discount = 0
  unless quantity >= 10 then 10`, "s1", "s")
	reg := mustReg(t, doc)

	_, err := Invert(reg, doc, "discount", ValueTarget(Eq, value.NewNumber(decimal.NewFromInt(999))), map[string]value.Value{})
	require.Error(t, err)
	var nsb *NoSatisfiableBranches
	require.ErrorAs(t, err, &nsb)
}

func TestInvertGivenFactRemovesItFromFreeVariables(t *testing.T) {
	doc := mustParse(t, `doc s
fact quantity = [number]
fact region = [text]
rule discount = 0
  unless quantity >= 10 then 10
  unless region == "EU" then 5`, "s1", "s")
	reg := mustReg(t, doc)

	sols, err := Invert(reg, doc, "discount", ValueTarget(Eq, value.NewNumber(decimal.NewFromInt(5))),
		map[string]value.Value{"region": value.NewText("EU")})
	require.NoError(t, err)
	require.NotEmpty(t, sols)
	for _, s := range sols {
		_, ok := s["region"]
		require.False(t, ok, "a given fact should not reappear as a free variable")
	}
}

func TestInvertAnyVetoTargetMatchesEveryVetoBranch(t *testing.T) {
	doc := mustParse(t, `doc s
fact balance = [money USD]
rule withdrawal = 0 USD
  unless balance < 0 USD then veto "overdrawn"`, "s1", "s")
	reg := mustReg(t, doc)

	sols, err := Invert(reg, doc, "withdrawal", AnyVetoTarget(), map[string]value.Value{})
	require.NoError(t, err)
	require.Len(t, sols, 1)
}
