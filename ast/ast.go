// Package ast defines Lemma's typed expression tree: the Document/Fact/Rule
// records the parser produces and the Expression node every sub-expression
// is built from. Every node carries a stable ExpressionID and a source Span
// so later stages (validation, evaluation, inversion, error rendering) can
// always point back at source text.
package ast

import "github.com/lemma-lang/lemma/value"

// ExpressionID identifies an Expression node uniquely within the Document
// that owns it. IDs are assigned in construction order starting at 1; 0 is
// never a valid id and marks the zero value.
type ExpressionID uint32

// Span is a half-open byte range into a document's source text, plus the
// 1-based line/column of its start, used for caret-style error rendering.
type Span struct {
	Start, End  int
	Line, Col   int
}

// Kind tags the variant an Expression node holds.
type Kind int

const (
	Literal Kind = iota
	FactReference
	RuleReference
	FactHasAnyValue
	Arithmetic
	Comparison
	LogicalAnd
	LogicalOr
	LogicalNegation
	UnitConversion
	MathematicalComputation
	Veto
)

func (k Kind) String() string {
	switch k {
	case Literal:
		return "Literal"
	case FactReference:
		return "FactReference"
	case RuleReference:
		return "RuleReference"
	case FactHasAnyValue:
		return "FactHasAnyValue"
	case Arithmetic:
		return "Arithmetic"
	case Comparison:
		return "Comparison"
	case LogicalAnd:
		return "LogicalAnd"
	case LogicalOr:
		return "LogicalOr"
	case LogicalNegation:
		return "LogicalNegation"
	case UnitConversion:
		return "UnitConversion"
	case MathematicalComputation:
		return "MathematicalComputation"
	case Veto:
		return "Veto"
	default:
		return "Unknown"
	}
}

// Expression is a single node of the typed expression tree. Only the fields
// relevant to Kind are populated; this mirrors the tagged-union shape of
// the original evaluator's expression enum without the allocation overhead
// of one interface implementation per variant.
type Expression struct {
	ID   ExpressionID
	Span Span
	Kind Kind

	// Literal
	LiteralValue value.Value

	// FactReference, RuleReference, FactHasAnyValue: dotted path, e.g.
	// ["contract", "start_date"] or bare ["quantity"].
	Path []string

	// Arithmetic
	ArithOp value.ArithOp
	// Comparison
	CompareOp value.CompareOp

	// Arithmetic, Comparison, LogicalAnd, LogicalOr
	LHS, RHS *Expression

	// LogicalNegation, UnitConversion, MathematicalComputation operand
	Operand *Expression

	// UnitConversion target unit, expressed as (category, unit name);
	// resolved against the unit package by the parser.
	TargetUnitCategory int
	TargetUnitName     string

	// MathematicalComputation
	MathOp value.MathOp

	// Veto
	VetoMessage *string
}

// FactValueKind tags what a Fact's value production is.
type FactValueKind int

const (
	FactLiteral FactValueKind = iota
	FactTypeAnnotation
	FactDocumentReference
)

// Fact is a single `fact <name> = <value>` (or override `fact <a.b.c> =
// <value>`) declaration.
type Fact struct {
	// Path is a single label for a Local fact, or >=2 labels for a Foreign
	// (override) fact; the first label must name a Local fact elsewhere in
	// the same document whose value is a DocumentReference.
	Path []string
	Span Span

	ValueKind FactValueKind

	// FactLiteral
	Value value.Value
	// FactTypeAnnotation: the declared type name as written, e.g. "number",
	// "mass", "money"; AnnotatedUnit holds the optional unit or currency
	// code that follows it (e.g. "USD" in [money USD]).
	AnnotatedType string
	AnnotatedUnit string
	// FactDocumentReference
	ReferencedDocument string
}

// IsLocal reports whether this fact is declared directly in its document
// (a single-label path) as opposed to an override into a referenced document.
func (f Fact) IsLocal() bool { return len(f.Path) == 1 }

// Name returns the fact's single local name; only meaningful when IsLocal.
func (f Fact) Name() string { return f.Path[0] }

// ResultKind tags an UnlessClause's result production.
type ResultKind int

const (
	ResultExpression ResultKind = iota
	ResultVeto
)

// UnlessClause is one `unless <condition> then (<result>|veto [string])`
// guard attached to a rule.
type UnlessClause struct {
	Condition *Expression
	Span      Span

	ResultKind ResultKind
	// ResultExpression
	Result *Expression
	// ResultVeto
	VetoMessage *string
}

// Rule is a single `rule <name> = <default> (unless ...)*` declaration.
type Rule struct {
	Name          string
	Span          Span
	Default       *Expression
	UnlessClauses []UnlessClause
}

// Document is everything parsed from one `doc <name>` header onward.
type Document struct {
	Name        string
	Commentary  string
	SourceID    string
	Filename    string
	StartLine   int
	SourceText  string

	Facts []Fact
	Rules []Rule
}

// FindFact returns the fact declared under the given local name, if any.
func (d *Document) FindFact(name string) (*Fact, bool) {
	for i := range d.Facts {
		if d.Facts[i].IsLocal() && d.Facts[i].Name() == name {
			return &d.Facts[i], true
		}
	}
	return nil, false
}

// FindRule returns the rule declared under the given name, if any.
func (d *Document) FindRule(name string) (*Rule, bool) {
	for i := range d.Rules {
		if d.Rules[i].Name == name {
			return &d.Rules[i], true
		}
	}
	return nil, false
}

// Builder assigns monotonically increasing ExpressionIDs while a Document is
// under construction; the parser owns one Builder per Document.
type Builder struct {
	next ExpressionID
}

// NewBuilder returns a Builder whose first minted id is 1.
func NewBuilder() *Builder { return &Builder{next: 1} }

// New allocates a fresh Expression with the next id and given span/kind.
func (b *Builder) New(span Span, kind Kind) *Expression {
	e := &Expression{ID: b.next, Span: span, Kind: kind}
	b.next++
	return e
}
