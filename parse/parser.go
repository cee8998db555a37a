// Package parse turns a token stream into an ast.Document: fact and rule
// declarations, and the typed expression trees inside them. It is
// depth-limited (max_expression_depth) and size-limited (max_file_size_bytes)
// per spec; both limits are supplied by the caller (the engine facade),
// never hard-coded here, so a single parser binary can serve multiple
// differently-configured Engines.
package parse

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/lemma-lang/lemma/ast"
	"github.com/lemma-lang/lemma/token"
	"github.com/lemma-lang/lemma/value"
)

// Limits bounds what a single parse call will accept. Zero values disable
// the corresponding check.
type Limits struct {
	MaxFileSizeBytes    int
	MaxExpressionDepth  int
	MaxFactValueBytes   int
}

// Parser holds the mutable state of a single document parse.
type Parser struct {
	toks     []token.Token
	pos      int
	builder  *ast.Builder
	limits   Limits
	depth    int

	sourceID   string
	filename   string
	sourceText string
}

// Document parses a single Lemma document. sourceID identifies the source
// for trace correlation; filename and the raw text are carried into every
// error for caret rendering.
func Document(src, sourceID, filename string, limits Limits) (*ast.Document, error) {
	if limits.MaxFileSizeBytes > 0 && len(src) > limits.MaxFileSizeBytes {
		return nil, &ResourceLimitExceeded{
			LimitName: "max_file_size_bytes", LimitValue: limits.MaxFileSizeBytes, Actual: len(src),
		}
	}

	toks, err := token.Tokenize(src)
	if err != nil {
		var lexErr *token.Error
		if errors.As(err, &lexErr) {
			return nil, &Error{
				Span: lexErr.Span, Message: lexErr.Message,
				SourceID: sourceID, Filename: filename, SourceText: src,
			}
		}
		return nil, err
	}

	p := &Parser{
		toks: toks, builder: ast.NewBuilder(), limits: limits,
		sourceID: sourceID, filename: filename, sourceText: src,
	}
	return p.parseDocument()
}

// FactOverride parses a single `name=value` or `a.b=value` override,
// reusing the fact-definition grammar by synthesizing `fact <input>`.
func FactOverride(input, sourceID string, limits Limits) (*ast.Fact, error) {
	doc, err := Document("doc __override__\nfact "+input, sourceID, "<override>", limits)
	if err != nil {
		return nil, err
	}
	if len(doc.Facts) != 1 {
		return nil, &Error{Message: "expected exactly one fact override", SourceID: sourceID}
	}
	return &doc.Facts[0], nil
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.pos]
}

func (p *Parser) at(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	if !p.at(k) {
		return token.Token{}, p.errf("expected %s, found %s", k, p.cur().Kind)
	}
	return p.advance(), nil
}

func (p *Parser) errf(format string, args ...interface{}) error {
	return &Error{
		Span: p.cur().Span, Message: errors.Errorf(format, args...).Error(),
		SourceID: p.sourceID, Filename: p.filename, SourceText: p.sourceText,
	}
}

func (p *Parser) enterExpr() error {
	p.depth++
	if p.limits.MaxExpressionDepth > 0 && p.depth > p.limits.MaxExpressionDepth {
		return &ResourceLimitExceeded{
			LimitName: "max_expression_depth", LimitValue: p.limits.MaxExpressionDepth, Actual: p.depth,
		}
	}
	return nil
}

func (p *Parser) exitExpr() { p.depth-- }

func (p *Parser) parseDocument() (*ast.Document, error) {
	docTok, err := p.expect(token.KwDoc)
	if err != nil {
		return nil, err
	}
	name, err := p.parseDottedName()
	if err != nil {
		return nil, err
	}

	doc := &ast.Document{
		Name: name, SourceID: p.sourceID, Filename: p.filename,
		StartLine: docTok.Span.Line, SourceText: p.sourceText,
	}

	if p.at(token.Commentary) {
		doc.Commentary = p.advance().Lexeme
	}

	for !p.at(token.EOF) {
		switch {
		case p.at(token.KwFact):
			fact, err := p.parseFact()
			if err != nil {
				return nil, err
			}
			doc.Facts = append(doc.Facts, *fact)
		case p.at(token.KwRule):
			rule, err := p.parseRule()
			if err != nil {
				return nil, err
			}
			doc.Rules = append(doc.Rules, *rule)
		default:
			return nil, p.errf("expected 'fact' or 'rule', found %s", p.cur().Kind)
		}
	}
	return doc, nil
}

func (p *Parser) parseDottedName() (string, error) {
	var parts []string
	first, err := p.expect(token.Ident)
	if err != nil {
		return "", err
	}
	parts = append(parts, first.Lexeme)
	for p.at(token.Dot) || p.at(token.Slash) {
		p.advance()
		seg, err := p.expect(token.Ident)
		if err != nil {
			return "", err
		}
		parts = append(parts, seg.Lexeme)
	}
	return strings.Join(parts, "."), nil
}

func (p *Parser) parsePath() ([]string, ast.Span, error) {
	start := p.cur().Span
	first, err := p.expect(token.Ident)
	if err != nil {
		return nil, ast.Span{}, err
	}
	path := []string{first.Lexeme}
	for p.at(token.Dot) {
		p.advance()
		seg, err := p.expect(token.Ident)
		if err != nil {
			return nil, ast.Span{}, err
		}
		path = append(path, seg.Lexeme)
	}
	end := p.toks[p.pos-1].Span
	return path, ast.Span{Start: start.Start, End: end.End, Line: start.Line, Col: start.Col}, nil
}

func (p *Parser) parseFact() (*ast.Fact, error) {
	start := p.cur().Span
	p.advance() // 'fact'
	path, _, err := p.parsePath()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Equals); err != nil {
		return nil, err
	}

	fact := &ast.Fact{Path: path, Span: start}

	switch {
	case p.at(token.KwDoc):
		p.advance()
		refName, err := p.parseDottedName()
		if err != nil {
			return nil, err
		}
		fact.ValueKind = ast.FactDocumentReference
		fact.ReferencedDocument = refName
		return fact, nil

	case p.at(token.LBracket):
		typ, unitName, err := p.parseTypeAnnotation()
		if err != nil {
			return nil, err
		}
		fact.ValueKind = ast.FactTypeAnnotation
		fact.AnnotatedType = typ
		fact.AnnotatedUnit = unitName
		return fact, nil
	}

	lit, err := p.parseLiteralValue()
	if err != nil {
		return nil, err
	}
	if p.limits.MaxFactValueBytes > 0 && len(lit.String()) > p.limits.MaxFactValueBytes {
		return nil, &ResourceLimitExceeded{
			LimitName: "max_fact_value_bytes", LimitValue: p.limits.MaxFactValueBytes, Actual: len(lit.String()),
		}
	}
	fact.ValueKind = ast.FactLiteral
	fact.Value = lit
	return fact, nil
}

// parseTypeAnnotation parses the `[mass]` / `[money USD]` unknown-fact
// declaration form used to mark a fact as a free input for inversion:
// `fact weight = [mass]` declares weight as an unbound Mass value.
func (p *Parser) parseTypeAnnotation() (string, string, error) {
	if _, err := p.expect(token.LBracket); err != nil {
		return "", "", err
	}
	typeTok, err := p.expect(token.Ident)
	if err != nil {
		return "", "", err
	}
	unitName := ""
	if p.at(token.Ident) {
		unitName = p.advance().Lexeme
	}
	if _, err := p.expect(token.RBracket); err != nil {
		return "", "", err
	}
	return typeTok.Lexeme, unitName, nil
}

func (p *Parser) parseRule() (*ast.Rule, error) {
	start := p.cur().Span
	p.advance() // 'rule'
	nameTok, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Equals); err != nil {
		return nil, err
	}
	def, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	rule := &ast.Rule{Name: nameTok.Lexeme, Span: start, Default: def}

	for p.at(token.KwUnless) {
		clauseStart := p.cur().Span
		p.advance()
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.KwThen); err != nil {
			return nil, err
		}
		clause := ast.UnlessClause{Condition: cond, Span: clauseStart}
		if p.at(token.KwVeto) {
			p.advance()
			clause.ResultKind = ast.ResultVeto
			if p.at(token.String) {
				msg := p.advance().Lexeme
				clause.VetoMessage = &msg
			}
		} else {
			result, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			clause.ResultKind = ast.ResultExpression
			clause.Result = result
		}
		rule.UnlessClauses = append(rule.UnlessClauses, clause)
	}
	return rule, nil
}

// parseLiteralValue parses a standalone literal used as a fact's value:
// anything parseExpr's primary() accepts that is not a reference or call.
func (p *Parser) parseLiteralValue() (value.Value, error) {
	expr, err := p.parseExpr()
	if err != nil {
		return value.Value{}, err
	}
	if expr.Kind != ast.Literal {
		return value.Value{}, &Error{
			Span: expr.Span, Message: "fact value must be a literal",
			SourceID: p.sourceID, Filename: p.filename, SourceText: p.sourceText,
		}
	}
	return expr.LiteralValue, nil
}

func parseDateLexeme(lexeme string, withTime bool) (value.DateValue, error) {
	if !withTime {
		t, err := time.Parse("2006-01-02", lexeme)
		if err != nil {
			return value.DateValue{}, errors.Wrap(err, "invalid date literal")
		}
		return value.NewDateOnly(t.Year(), t.Month(), t.Day()), nil
	}
	layouts := []string{
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02T15:04:05Z",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		t, err := time.Parse(layout, lexeme)
		if err != nil {
			continue
		}
		_, offset := t.Zone()
		hasOffset := strings.Contains(lexeme, "+") || strings.Contains(lexeme, "Z") ||
			(strings.Count(lexeme, "-") > 2)
		return value.NewDateTime(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), hasOffset, offset), nil
	}
	return value.DateValue{}, errors.Errorf("invalid datetime literal %q", lexeme)
}
