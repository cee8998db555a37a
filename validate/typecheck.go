package validate

import (
	"fmt"

	"github.com/lemma-lang/lemma/ast"
	"github.com/lemma-lang/lemma/unit"
	"github.com/lemma-lang/lemma/value"
)

// StaticType is the validator's best-effort compile-time type for an
// expression. Unknown is true when the type couldn't be determined (e.g.
// a bare reference to a DocumentReference fact, or a rule whose branches
// disagree): such expressions are not statically rejected, only left for
// the runtime to check, per spec.md §4.S.4 ("when operands have known
// static types").
type StaticType struct {
	Kind     value.Type
	Currency string // only meaningful when Kind == value.Money
	Unknown  bool
	IsVeto   bool // the expression is (or always reduces to) a Veto
}

func unknownType() StaticType { return StaticType{Unknown: true} }

func typeOf(v value.Value) StaticType {
	st := StaticType{Kind: v.Type}
	if v.Type == value.Money {
		st.Currency = v.Unit.Name
	}
	return st
}

// typeChecker carries the memo tables used while inferring types across a
// (possibly cyclic-looking, though cycles are rejected separately) rule
// dependency graph.
type typeChecker struct {
	reg      Registry
	ruleMemo map[string]StaticType
	errs     []error
}

func (tc *typeChecker) inferFact(doc *ast.Document, f *ast.Fact) StaticType {
	switch f.ValueKind {
	case ast.FactLiteral:
		return typeOf(f.Value)
	case ast.FactTypeAnnotation:
		t, ok := value.TypeByName(f.AnnotatedType)
		if !ok {
			return unknownType()
		}
		st := StaticType{Kind: t}
		if t == value.Money {
			st.Currency = f.AnnotatedUnit
		}
		return st
	default: // FactDocumentReference: not itself a typed value
		return unknownType()
	}
}

func (tc *typeChecker) inferRule(doc *ast.Document, r *ast.Rule) StaticType {
	key := ruleKey(doc, r.Name)
	if st, ok := tc.ruleMemo[key]; ok {
		return st
	}
	// Seed with Unknown to break any accidental recursion during inference
	// (real cycles are rejected by the dedicated cycle check; this memo
	// entry just prevents infinite recursion while that check hasn't run
	// yet on a pathological input).
	tc.ruleMemo[key] = unknownType()

	result := tc.infer(doc, r.Default)
	for _, clause := range r.UnlessClauses {
		if clause.ResultKind == ast.ResultVeto {
			continue
		}
		branchType := tc.infer(doc, clause.Result)
		result = agreeTypes(result, branchType)
	}
	tc.ruleMemo[key] = result
	return result
}

// agreeTypes merges a rule's branch types for memoization purposes: if they
// plainly disagree the rule's static type becomes Unknown rather than
// raising an error here (the dedicated branch-agreement check below is
// responsible for the error; this function must stay error-free so it can
// also be used opportunistically from infer()).
func agreeTypes(a, b StaticType) StaticType {
	if b.IsVeto {
		return a
	}
	if a.IsVeto {
		return b
	}
	if a.Unknown || b.Unknown {
		return unknownType()
	}
	if a.Kind != b.Kind {
		return unknownType()
	}
	return a
}

func (tc *typeChecker) infer(doc *ast.Document, e *ast.Expression) StaticType {
	if e == nil {
		return unknownType()
	}
	switch e.Kind {
	case ast.Literal:
		return typeOf(e.LiteralValue)

	case ast.FactReference:
		fact, owner, err := ResolveFactReference(tc.reg, doc, e.Path)
		if err != nil {
			return unknownType()
		}
		return tc.inferFact(owner, fact)

	case ast.RuleReference:
		rule, owner, err := ResolveRuleReference(tc.reg, doc, e.Path)
		if err != nil {
			return unknownType()
		}
		return tc.inferRule(owner, rule)

	case ast.FactHasAnyValue:
		return StaticType{Kind: value.Boolean}

	case ast.Veto:
		return StaticType{IsVeto: true}

	case ast.LogicalAnd, ast.LogicalOr:
		lhs, rhs := tc.infer(doc, e.LHS), tc.infer(doc, e.RHS)
		tc.checkBoolean(doc, e.LHS.Span, lhs)
		tc.checkBoolean(doc, e.RHS.Span, rhs)
		return StaticType{Kind: value.Boolean}

	case ast.LogicalNegation:
		tc.checkBoolean(doc, e.Operand.Span, tc.infer(doc, e.Operand))
		return StaticType{Kind: value.Boolean}

	case ast.Comparison:
		lhs, rhs := tc.infer(doc, e.LHS), tc.infer(doc, e.RHS)
		tc.checkComparable(doc, e, lhs, rhs)
		return StaticType{Kind: value.Boolean}

	case ast.Arithmetic:
		lhs, rhs := tc.infer(doc, e.LHS), tc.infer(doc, e.RHS)
		return tc.checkArithmetic(doc, e, lhs, rhs)

	case ast.UnitConversion:
		operand := tc.infer(doc, e.Operand)
		if operand.Unknown {
			return unknownType()
		}
		if !operand.Kind.IsDimensioned() {
			tc.fail(doc, e.Span, fmt.Sprintf("cannot convert %s to a unit", operand.Kind))
			return unknownType()
		}
		if operand.Kind == value.Money {
			tc.fail(doc, e.Span, "money values have no unit conversion")
			return unknownType()
		}
		return StaticType{Kind: value.TypeForCategory(unit.Category(e.TargetUnitCategory))}

	case ast.MathematicalComputation:
		operand := tc.infer(doc, e.Operand)
		if !operand.Unknown && operand.Kind != value.Number && operand.Kind != value.Percentage {
			tc.fail(doc, e.Span, fmt.Sprintf("math function %s requires a number, got %s", e.MathOp, operand.Kind))
		}
		return StaticType{Kind: value.Number}

	default:
		return unknownType()
	}
}

func (tc *typeChecker) checkBoolean(doc *ast.Document, span ast.Span, t StaticType) {
	if t.Unknown || t.IsVeto {
		return
	}
	if t.Kind != value.Boolean {
		tc.fail(doc, span, fmt.Sprintf("expected boolean, got %s", t.Kind))
	}
}

// checkComparable statically rejects combinations Compare() can never
// accept at runtime: mismatched Money currencies, and category mismatches
// between two dimensioned types that aren't both "numeric-ish" (a
// dimensioned/Number/Percentage mix is always allowed, per spec.md §4.V's
// "Unit vs Number compares numeric magnitude only").
func (tc *typeChecker) checkComparable(doc *ast.Document, e *ast.Expression, lhs, rhs StaticType) {
	if lhs.Unknown || rhs.Unknown || lhs.IsVeto || rhs.IsVeto {
		return
	}
	if lhs.Kind == value.Money && rhs.Kind == value.Money {
		if lhs.Currency != "" && rhs.Currency != "" && lhs.Currency != rhs.Currency {
			tc.fail(doc, e.Span, fmt.Sprintf("cannot compare money in %s and %s", lhs.Currency, rhs.Currency))
		}
		return
	}
	if lhs.Kind == value.Date && rhs.Kind == value.Date {
		return
	}
	if lhs.Kind == value.Text && rhs.Kind == value.Text {
		return
	}
	if lhs.Kind == value.Boolean && rhs.Kind == value.Boolean {
		return
	}
	if lhs.Kind == value.Regex && rhs.Kind == value.Regex {
		return
	}
	if numericish(lhs.Kind) && numericish(rhs.Kind) {
		return
	}
	tc.fail(doc, e.Span, fmt.Sprintf("cannot compare %s and %s", lhs.Kind, rhs.Kind))
}

func numericish(t value.Type) bool {
	return t == value.Number || t == value.Percentage || t.IsDimensioned()
}

// checkArithmetic mirrors value.Arithmetic's dispatch statically, returning
// the resulting StaticType and recording an error for combinations that can
// never succeed at runtime.
func (tc *typeChecker) checkArithmetic(doc *ast.Document, e *ast.Expression, lhs, rhs StaticType) StaticType {
	if lhs.Unknown || rhs.Unknown || lhs.IsVeto || rhs.IsVeto {
		return unknownType()
	}
	switch {
	case lhs.Kind == value.Date && rhs.Kind == value.Date && e.ArithOp == value.Sub:
		return StaticType{Kind: value.Duration}
	case lhs.Kind == value.Date && rhs.Kind == value.Duration && (e.ArithOp == value.Add || e.ArithOp == value.Sub):
		return StaticType{Kind: value.Date}
	case lhs.Kind == value.Duration && rhs.Kind == value.Date && e.ArithOp == value.Add:
		return StaticType{Kind: value.Date}

	case lhs.Kind == value.Percentage && rhs.Kind == value.Percentage:
		return StaticType{Kind: value.Percentage}

	case lhs.Kind == rhs.Kind && lhs.Kind.IsDimensioned():
		if lhs.Kind == value.Money && lhs.Currency != "" && rhs.Currency != "" && lhs.Currency != rhs.Currency {
			tc.fail(doc, e.Span, fmt.Sprintf("currency mismatch: %s vs %s", lhs.Currency, rhs.Currency))
			return unknownType()
		}
		return lhs

	case lhs.Kind == value.Number && rhs.Kind == value.Number:
		return StaticType{Kind: value.Number}

	case (lhs.Kind == value.Number || lhs.Kind == value.Money) && rhs.Kind == value.Percentage:
		return lhs

	case lhs.Kind == value.Percentage && (rhs.Kind == value.Number || rhs.Kind == value.Money):
		return rhs

	case lhs.Kind == value.Number && rhs.Kind.IsDimensioned() && rhs.Kind != value.Percentage:
		return rhs

	case rhs.Kind == value.Number && lhs.Kind.IsDimensioned() && lhs.Kind != value.Percentage:
		return lhs

	case lhs.Kind.IsDimensioned() && rhs.Kind.IsDimensioned():
		return StaticType{Kind: value.Number}

	default:
		tc.fail(doc, e.Span, fmt.Sprintf("cannot apply %s to %s and %s", e.ArithOp, lhs.Kind, rhs.Kind))
		return unknownType()
	}
}

func (tc *typeChecker) fail(doc *ast.Document, span ast.Span, message string) {
	tc.errs = append(tc.errs, &Error{Span: span, DocName: doc.Name, Message: message})
}
