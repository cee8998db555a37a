package validate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lemma-lang/lemma/parse"
)

func mustParse(t *testing.T, src, sourceID, name string) Registry {
	t.Helper()
	doc, err := parse.Document(src, sourceID, name+".lemma", parse.Limits{})
	require.NoError(t, err)
	return Registry{doc.Name: doc}
}

func TestValidateAcceptsWellFormedDocument(t *testing.T) {
	reg := mustParse(t, "doc t\nfact quantity = 15\nrule discount = 0\n  unless quantity >= 10 then 10", "s1", "t")
	out, err := Validate(reg)
	require.NoError(t, err)
	require.NotNil(t, out)
}

func TestValidateRejectsDuplicateFact(t *testing.T) {
	reg := mustParse(t, "doc t\nfact x = 1\nfact x = 2\nrule r = x", "s1", "t")
	_, err := Validate(reg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate fact")
}

func TestValidateRejectsDuplicateRule(t *testing.T) {
	reg := mustParse(t, "doc t\nfact x = 1\nrule r = x\nrule r = x + 1", "s1", "t")
	_, err := Validate(reg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate rule")
}

func TestValidateRejectsFactRuleNameCollision(t *testing.T) {
	reg := mustParse(t, "doc t\nfact x = 1\nrule x = 2", "s1", "t")
	_, err := Validate(reg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "declared as both a fact and a rule")
}

func TestValidateRejectsUnknownFactReference(t *testing.T) {
	reg := mustParse(t, "doc t\nrule r = missing_fact", "s1", "t")
	_, err := Validate(reg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown fact")
}

func TestValidateRejectsFactReferencedAsRule(t *testing.T) {
	reg := mustParse(t, "doc t\nfact x = 1\nrule r = x?", "s1", "t")
	_, err := Validate(reg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "is a fact")
}

func TestValidateRejectsCurrencyMismatch(t *testing.T) {
	reg := mustParse(t, "doc t\nfact p_usd = 100 USD\nfact p_eur = 80 EUR\nrule more = p_usd > p_eur", "s1", "t")
	_, err := Validate(reg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "cannot compare money")
}

func TestValidateAllowsCrossCategoryArithmeticAsDimensionlessNumber(t *testing.T) {
	// Different dimensioned categories combine by canonical magnitude into a
	// plain Number, per value.Arithmetic's cross-category fallback.
	reg := mustParse(t, "doc t\nfact w = 2 kilograms\nfact l = 3 meters\nrule sum = w + l", "s1", "t")
	_, err := Validate(reg)
	require.NoError(t, err)
}

func TestValidateRejectsIncompatibleTextArithmetic(t *testing.T) {
	reg := mustParse(t, "doc t\nfact name = \"a\"\nfact active = true\nrule r = name + active", "s1", "t")
	_, err := Validate(reg)
	require.Error(t, err)
}

func TestValidateRejectsSelfReferencingRule(t *testing.T) {
	reg := mustParse(t, "doc t\nfact x = 1\nrule r = r? + x", "s1", "t")
	_, err := Validate(reg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "circular rule dependency")
}

func TestValidateRejectsIndirectCycle(t *testing.T) {
	reg := mustParse(t, "doc t\nrule a = b? + 1\nrule b = a? + 1", "s1", "t")
	_, err := Validate(reg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "circular rule dependency")
}

func TestValidateRejectsBranchTypeDisagreement(t *testing.T) {
	reg := mustParse(t, "doc t\nfact quantity = 15\nrule r = 5 USD\n  unless quantity >= 10 then 10", "s1", "t")
	_, err := Validate(reg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "does not agree with")
}

func TestValidateAllowsVetoBranchRegardlessOfType(t *testing.T) {
	reg := mustParse(t, "doc t\nfact quantity = 15\nrule r = 5 USD\n  unless quantity >= 10 then veto \"too much\"", "s1", "t")
	_, err := Validate(reg)
	require.NoError(t, err)
}

func TestValidateResolvesFactThroughDocumentReference(t *testing.T) {
	src := "doc outer\nfact inner = doc inner\nrule r = inner.value > 5"
	reg := mustParse(t, src, "s1", "outer")
	innerDoc, err := parse.Document("doc inner\nfact value = 1", "s2", "inner.lemma", parse.Limits{})
	require.NoError(t, err)
	reg[innerDoc.Name] = innerDoc
	_, err = Validate(reg)
	require.NoError(t, err)
}
