package parse

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lemma-lang/lemma/ast"
	"github.com/lemma-lang/lemma/token"
	"github.com/lemma-lang/lemma/unit"
	"github.com/lemma-lang/lemma/value"
)

// parseExpr is the entry point for any expression production: a fact's
// value, a rule's default, an unless condition, or an unless result.
//
// Precedence, loosest to tightest:
//
//	or < and < not < comparison < additive < multiplicative < unary/power < in <unit> < primary
func (p *Parser) parseExpr() (*ast.Expression, error) {
	if err := p.enterExpr(); err != nil {
		return nil, err
	}
	defer p.exitExpr()
	return p.parseOr()
}

func (p *Parser) parseOr() (*ast.Expression, error) {
	lhs, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.at(token.KwOr) {
		p.advance()
		rhs, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		lhs = p.binary(ast.LogicalOr, lhs, rhs)
	}
	return lhs, nil
}

func (p *Parser) parseAnd() (*ast.Expression, error) {
	lhs, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.at(token.KwAnd) {
		p.advance()
		rhs, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		lhs = p.binary(ast.LogicalAnd, lhs, rhs)
	}
	return lhs, nil
}

func (p *Parser) parseNot() (*ast.Expression, error) {
	if p.at(token.KwNot) {
		start := p.advance().Span
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		e := p.builder.New(spanFrom(start, operand.Span), ast.LogicalNegation)
		e.Operand = operand
		return e, nil
	}
	return p.parseComparison()
}

var compareOps = map[token.Kind]value.CompareOp{
	token.EqEq: value.Eq, token.KwIs: value.Eq, token.NotEq: value.Neq,
	token.Lt: value.Lt, token.Lte: value.Lte, token.Gt: value.Gt, token.Gte: value.Gte,
}

func (p *Parser) parseComparison() (*ast.Expression, error) {
	lhs, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if op, ok := compareOps[p.cur().Kind]; ok {
		p.advance()
		rhs, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		e := p.builder.New(spanFrom(lhs.Span, rhs.Span), ast.Comparison)
		e.CompareOp = op
		e.LHS, e.RHS = lhs, rhs
		return e, nil
	}
	return lhs, nil
}

var additiveOps = map[token.Kind]value.ArithOp{token.Plus: value.Add, token.Minus: value.Sub}

func (p *Parser) parseAdditive() (*ast.Expression, error) {
	lhs, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := additiveOps[p.cur().Kind]
		if !ok {
			return lhs, nil
		}
		p.advance()
		rhs, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		lhs = p.arith(op, lhs, rhs)
	}
}

var multiplicativeOps = map[token.Kind]value.ArithOp{
	token.Star: value.Mul, token.Slash: value.Div, token.Percent: value.Mod,
}

func (p *Parser) parseMultiplicative() (*ast.Expression, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := multiplicativeOps[p.cur().Kind]
		if !ok {
			return lhs, nil
		}
		p.advance()
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		lhs = p.arith(op, lhs, rhs)
	}
}

// parseUnary handles unary minus, then hands off to power, which is
// right-associative and binds tighter than unary minus's operand parse but
// looser than unit-conversion/primary.
func (p *Parser) parseUnary() (*ast.Expression, error) {
	if p.at(token.Minus) {
		start := p.advance().Span
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		e := p.builder.New(spanFrom(start, operand.Span), ast.Arithmetic)
		e.ArithOp = value.Sub
		zero := p.builder.New(start, ast.Literal)
		zero.LiteralValue = value.NewNumber(decimal.Zero)
		e.LHS, e.RHS = zero, operand
		return e, nil
	}
	return p.parsePower()
}

func (p *Parser) parsePower() (*ast.Expression, error) {
	lhs, err := p.parseUnitConversion()
	if err != nil {
		return nil, err
	}
	if p.at(token.Caret) {
		p.advance()
		rhs, err := p.parseUnary() // right-associative
		if err != nil {
			return nil, err
		}
		lhs = p.arith(value.Pow, lhs, rhs)
	}
	return lhs, nil
}

func (p *Parser) parseUnitConversion() (*ast.Expression, error) {
	operand, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.at(token.KwIn) {
		p.advance()
		unitTok, err := p.expect(token.Ident)
		if err != nil {
			return nil, err
		}
		u, ok := unit.LookupAnyFlexible(unitTok.Lexeme)
		if !ok {
			return nil, p.errf("unknown unit %q", unitTok.Lexeme)
		}
		e := p.builder.New(spanFrom(operand.Span, unitTok.Span), ast.UnitConversion)
		e.Operand = operand
		e.TargetUnitCategory = int(u.Category)
		e.TargetUnitName = u.Name
		operand = e
	}
	return operand, nil
}

func (p *Parser) binary(kind ast.Kind, lhs, rhs *ast.Expression) *ast.Expression {
	e := p.builder.New(spanFrom(lhs.Span, rhs.Span), kind)
	e.LHS, e.RHS = lhs, rhs
	return e
}

func (p *Parser) arith(op value.ArithOp, lhs, rhs *ast.Expression) *ast.Expression {
	e := p.binary(ast.Arithmetic, lhs, rhs)
	e.ArithOp = op
	return e
}

func spanFrom(a, b ast.Span) ast.Span {
	return ast.Span{Start: a.Start, End: b.End, Line: a.Line, Col: a.Col}
}

func (p *Parser) parsePrimary() (*ast.Expression, error) {
	tok := p.cur()
	switch tok.Kind {
	case token.LParen:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		return inner, nil

	case token.Number, token.PercentNumber:
		return p.parseNumericLiteral()

	case token.String:
		p.advance()
		e := p.builder.New(tok.Span, ast.Literal)
		e.LiteralValue = value.NewText(tok.Lexeme)
		return e, nil

	case token.Regex:
		p.advance()
		e := p.builder.New(tok.Span, ast.Literal)
		e.LiteralValue = value.NewRegex(tok.Lexeme)
		return e, nil

	case token.KwTrue, token.KwFalse:
		p.advance()
		e := p.builder.New(tok.Span, ast.Literal)
		e.LiteralValue = value.NewBoolean(tok.Kind == token.KwTrue)
		return e, nil

	case token.Date:
		p.advance()
		d, err := parseDateLexeme(tok.Lexeme, false)
		if err != nil {
			return nil, p.wrapAt(tok.Span, err)
		}
		e := p.builder.New(tok.Span, ast.Literal)
		e.LiteralValue = value.NewDate(d)
		return e, nil

	case token.DateTime:
		p.advance()
		d, err := parseDateLexeme(tok.Lexeme, true)
		if err != nil {
			return nil, p.wrapAt(tok.Span, err)
		}
		e := p.builder.New(tok.Span, ast.Literal)
		e.LiteralValue = value.NewDate(d)
		return e, nil

	case token.KwVeto:
		p.advance()
		e := p.builder.New(tok.Span, ast.Veto)
		if p.at(token.String) {
			msg := p.advance().Lexeme
			e.VetoMessage = &msg
		}
		return e, nil

	case token.Ident:
		return p.parseIdentPrimary()
	}

	return nil, p.errf("unexpected token %s", tok.Kind)
}

func (p *Parser) wrapAt(span ast.Span, err error) error {
	return &Error{Span: span, Message: err.Error(), SourceID: p.sourceID, Filename: p.filename, SourceText: p.sourceText}
}

// mathCallNames are the single-argument math functions recognized in
// primary position when an identifier is immediately followed by '('.
var mathCallNames = map[string]bool{
	"exp": true, "log": true, "sqrt": true, "abs": true, "floor": true, "ceil": true,
	"round": true, "sin": true, "cos": true, "tan": true, "asin": true, "acos": true, "atan": true,
}

func (p *Parser) parseIdentPrimary() (*ast.Expression, error) {
	start := p.cur()

	if mathCallNames[start.Lexeme] && p.peekKind(1) == token.LParen {
		p.advance() // name
		p.advance() // '('
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		closeTok, err := p.expect(token.RParen)
		if err != nil {
			return nil, err
		}
		op, _ := value.MathOpByName(start.Lexeme)
		e := p.builder.New(spanFrom(start.Span, closeTok.Span), ast.MathematicalComputation)
		e.MathOp = op
		e.Operand = arg
		return e, nil
	}

	path, span, err := p.parsePath()
	if err != nil {
		return nil, err
	}

	switch {
	case p.at(token.QuestionQuestion):
		qq := p.advance()
		e := p.builder.New(spanFrom(span, qq.Span), ast.FactHasAnyValue)
		e.Path = path
		return e, nil
	case p.at(token.Question):
		q := p.advance()
		e := p.builder.New(spanFrom(span, q.Span), ast.RuleReference)
		e.Path = path
		return e, nil
	default:
		e := p.builder.New(span, ast.FactReference)
		e.Path = path
		return e, nil
	}
}

func (p *Parser) peekKind(offset int) token.Kind {
	idx := p.pos + offset
	if idx >= len(p.toks) {
		return token.EOF
	}
	return p.toks[idx].Kind
}

// parseNumericLiteral parses a bare Number/PercentNumber token and any
// immediately-following unit or currency identifier: `10`, `10%`,
// `2 kilograms`, `100 USD`.
func (p *Parser) parseNumericLiteral() (*ast.Expression, error) {
	tok := p.advance()
	d, err := decimal.NewFromString(strings.ReplaceAll(tok.Lexeme, "_", ""))
	if err != nil {
		return nil, p.wrapAt(tok.Span, err)
	}

	if tok.Kind == token.PercentNumber {
		e := p.builder.New(tok.Span, ast.Literal)
		e.LiteralValue = value.NewPercentage(d.Div(decimal.NewFromInt(100)))
		return e, nil
	}

	if p.at(token.Ident) {
		name := p.cur()
		if u, ok := unit.LookupAnyFlexible(name.Lexeme); ok {
			p.advance()
			e := p.builder.New(spanFrom(tok.Span, name.Span), ast.Literal)
			e.LiteralValue = value.NewDimensioned(u, d)
			return e, nil
		}
		// Not a recognized physical unit: treat as an ISO4217-style
		// currency code, Lemma's only other `<number> <word>` literal form.
		p.advance()
		e := p.builder.New(spanFrom(tok.Span, name.Span), ast.Literal)
		e.LiteralValue = value.NewMoney(name.Lexeme, d)
		return e, nil
	}

	e := p.builder.New(tok.Span, ast.Literal)
	e.LiteralValue = value.NewNumber(d)
	return e, nil
}
