// Package token implements Lemma's lexer: it turns source text into a flat
// stream of Tokens, tracking byte offsets and line/column for every one so
// the parser and error renderer can point back at exact source spans.
package token

import "github.com/lemma-lang/lemma/ast"

// Kind classifies a single lexical token.
type Kind int

const (
	EOF Kind = iota
	Ident
	Number
	PercentNumber // "N%", no space allowed between the number and '%'
	String
	Regex
	Date
	DateTime

	// Keywords
	KwDoc
	KwFact
	KwRule
	KwUnless
	KwThen
	KwVeto
	KwIn
	KwIs
	KwAnd
	KwOr
	KwNot
	KwTrue  // true, yes, accept
	KwFalse // false, no, reject

	Commentary // """...""" block, Lexeme holds the decoded contents

	// Punctuation and operators
	LParen
	RParen
	LBracket
	RBracket
	Dot
	Comma
	Equals // "=" (fact/rule definition)
	Plus
	Minus
	Star
	Slash
	Percent
	Caret
	EqEq
	NotEq
	Lt
	Lte
	Gt
	Gte
	Question
	QuestionQuestion
)

var keywords = map[string]Kind{
	"doc":    KwDoc,
	"fact":   KwFact,
	"rule":   KwRule,
	"unless": KwUnless,
	"then":   KwThen,
	"veto":   KwVeto,
	"in":     KwIn,
	"is":     KwIs,
	"and":    KwAnd,
	"or":     KwOr,
	"not":    KwNot,
}

var booleanKeywords = map[string]bool{
	"true": true, "yes": true, "accept": true,
	"false": false, "no": false, "reject": false,
}

// Token is one lexical unit: a kind, its literal text, and its source span.
type Token struct {
	Kind   Kind
	Lexeme string
	Span   ast.Span
}

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Ident:
		return "identifier"
	case Number:
		return "number"
	case PercentNumber:
		return "percentage"
	case String:
		return "string"
	case Regex:
		return "regex"
	case Date:
		return "date"
	case DateTime:
		return "datetime"
	case Commentary:
		return "commentary block"
	default:
		return "token"
	}
}
