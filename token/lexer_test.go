package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func kinds(t *testing.T, toks []Token) []Kind {
	t.Helper()
	var out []Kind
	for _, tok := range toks {
		out = append(out, tok.Kind)
	}
	return out
}

func TestTokenizeFactAndRule(t *testing.T) {
	toks, err := Tokenize("doc t\nfact x = 10\nrule sum = x + y")
	require.NoError(t, err)
	require.Equal(t, []Kind{
		KwDoc, Ident,
		KwFact, Ident, Equals, Number,
		KwRule, Ident, Equals, Ident, Plus, Ident,
		EOF,
	}, kinds(t, toks))
}

func TestTokenizeMoneyLiteral(t *testing.T) {
	toks, err := Tokenize("100 USD")
	require.NoError(t, err)
	require.Equal(t, []Kind{Number, Ident, EOF}, kinds(t, toks))
	require.Equal(t, "100", toks[0].Lexeme)
	require.Equal(t, "USD", toks[1].Lexeme)
}

func TestTokenizePercentage(t *testing.T) {
	toks, err := Tokenize("10%")
	require.NoError(t, err)
	require.Equal(t, []Kind{PercentNumber, EOF}, kinds(t, toks))
	require.Equal(t, "10", toks[0].Lexeme)
}

func TestTokenizeDate(t *testing.T) {
	toks, err := Tokenize("2024-02-01")
	require.NoError(t, err)
	require.Equal(t, Date, toks[0].Kind)
	require.Equal(t, "2024-02-01", toks[0].Lexeme)
}

func TestTokenizeDateTimeWithOffset(t *testing.T) {
	toks, err := Tokenize("2024-02-01T10:30:00+02:00")
	require.NoError(t, err)
	require.Equal(t, DateTime, toks[0].Kind)
}

func TestTokenizeDivisionVsRegex(t *testing.T) {
	toks, err := Tokenize("x / 2")
	require.NoError(t, err)
	require.Equal(t, []Kind{Ident, Slash, Number, EOF}, kinds(t, toks))

	toks, err = Tokenize(`name == /^[a-z]+$/`)
	require.NoError(t, err)
	require.Equal(t, []Kind{Ident, EqEq, Regex, EOF}, kinds(t, toks))
	require.Equal(t, "^[a-z]+$", toks[2].Lexeme)
}

func TestTokenizeRuleReferenceSigils(t *testing.T) {
	toks, err := Tokenize("discount? and active??")
	require.NoError(t, err)
	require.Equal(t, []Kind{Ident, Question, KwAnd, Ident, QuestionQuestion, EOF}, kinds(t, toks))
}

func TestTokenizeBooleanSynonyms(t *testing.T) {
	toks, err := Tokenize("true yes accept false no reject")
	require.NoError(t, err)
	require.Equal(t, []Kind{KwTrue, KwTrue, KwTrue, KwFalse, KwFalse, KwFalse, EOF}, kinds(t, toks))
}

func TestTokenizeStringEscapes(t *testing.T) {
	toks, err := Tokenize(`"too \"heavy\""`)
	require.NoError(t, err)
	require.Equal(t, String, toks[0].Kind)
	require.Equal(t, `too "heavy"`, toks[0].Lexeme)
}

func TestTokenizeCommentaryBlock(t *testing.T) {
	toks, err := Tokenize(`doc t
"""
pricing rules
"""
fact x = 1`)
	require.NoError(t, err)
	require.Equal(t, Commentary, toks[2].Kind)
}

func TestTokenizeNumberWithUnderscoresAndExponent(t *testing.T) {
	toks, err := Tokenize("1_000.25e2")
	require.NoError(t, err)
	require.Equal(t, Number, toks[0].Kind)
	require.Equal(t, "1_000.25e2", toks[0].Lexeme)
}

func TestTokenizeUnterminatedStringErrors(t *testing.T) {
	_, err := Tokenize(`"unterminated`)
	require.Error(t, err)
}
