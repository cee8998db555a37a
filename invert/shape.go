package invert

import (
	"github.com/lemma-lang/lemma/ast"
	"github.com/lemma-lang/lemma/value"
)

// BranchOutcome is what a Branch produces when its Condition holds: either
// a Veto (with an optional message) or a Value (an expression to evaluate).
type BranchOutcome struct {
	Veto    bool
	Message *string        // only when Veto
	Result  *ast.Expression // only when !Veto
}

// Branch is one arm of a rule's symbolic shape, per spec.md §4.Ix step 1.
type Branch struct {
	Condition *ast.Expression
	Outcome   BranchOutcome
}

// Shape is a rule's full symbolic relation: an ordered list of mutually
// exclusive branches (the last-wins unless semantics flattened into
// conjoined conditions) covering every way the rule can resolve.
type Shape struct {
	Doc      *ast.Document
	RuleName string
	Branches []Branch

	// FreeVariables accumulates every fact path (dotted, joined with ".")
	// that hydration left unresolved — an input the caller never supplied,
	// whose domain the inverter still owes a constraint for.
	FreeVariables map[string]bool
}

var builder = ast.NewBuilder()

func negate(e *ast.Expression) *ast.Expression {
	n := builder.New(e.Span, ast.LogicalNegation)
	n.Operand = e
	return n
}

func and(a, b *ast.Expression) *ast.Expression {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	n := builder.New(a.Span, ast.LogicalAnd)
	n.LHS = a
	n.RHS = b
	return n
}

// buildShape flattens rule's unless clauses into Shape's last-wins branch
// list, per spec.md §4.Ix step 1: branch i's effective condition is
// clause_i.cond AND NOT clause_{i+1}.cond AND … AND NOT clause_n.cond, and
// the trailing default branch's condition is the negation of every clause
// (the case where no unless clause matched) — not literally `true`, which
// would make the default branch's extracted domain overlap every other
// branch's and violate spec.md §9's inversion-soundness invariant.
func buildShape(doc *ast.Document, rule *ast.Rule) *Shape {
	n := len(rule.UnlessClauses)
	conds := make([]*ast.Expression, n)
	for i, c := range rule.UnlessClauses {
		conds[i] = ast.Clone(c.Condition)
	}

	var branches []Branch
	for i := 0; i < n; i++ {
		cond := ast.Clone(conds[i])
		for j := i + 1; j < n; j++ {
			cond = and(cond, negate(ast.Clone(conds[j])))
		}
		clause := rule.UnlessClauses[i]
		var outcome BranchOutcome
		if clause.ResultKind == ast.ResultVeto {
			outcome = BranchOutcome{Veto: true, Message: clause.VetoMessage}
		} else {
			outcome = BranchOutcome{Result: ast.Clone(clause.Result)}
		}
		branches = append(branches, Branch{Condition: cond, Outcome: outcome})
	}

	var defaultCond *ast.Expression
	for i := 0; i < n; i++ {
		defaultCond = and(defaultCond, negate(ast.Clone(conds[i])))
	}
	if defaultCond == nil {
		defaultCond = literalBool(true)
	}
	branches = append(branches, Branch{
		Condition: defaultCond,
		Outcome:   BranchOutcome{Result: ast.Clone(rule.Default)},
	})

	return &Shape{Doc: doc, RuleName: rule.Name, Branches: branches, FreeVariables: map[string]bool{}}
}

func literalBool(b bool) *ast.Expression {
	e := builder.New(ast.Span{}, ast.Literal)
	e.LiteralValue = value.NewBoolean(b)
	return e
}
