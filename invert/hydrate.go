package invert

import (
	"strings"

	"github.com/lemma-lang/lemma/ast"
	"github.com/lemma-lang/lemma/eval"
	"github.com/lemma-lang/lemma/validate"
	"github.com/lemma-lang/lemma/value"
)

// maxInlineDepth bounds how many nested RuleReference levels hydrate will
// inline a referenced rule's shape into the caller's, per spec.md §4.Ix
// step 2's "when depth is bounded". Cross-document RuleReference paths
// (length > 1) are never inlined — see the invert/ DESIGN.md entry for why
// that's folded into the already-recorded cross-document inversion Open
// Question rather than attempted here.
const maxInlineDepth = 2

// hydrate substitutes every FactReference covered by given with its Literal
// value, and attempts to resolve every RuleReference to a constant (by
// constant-folding the referenced rule under given) or, failing that, by
// inlining a single-branch (unconditional) referenced rule's result
// expression. Anything it can't resolve is left symbolic and recorded in
// shape.FreeVariables.
func hydrate(reg validate.Registry, shape *Shape, given map[string]value.Value) error {
	return hydrateAtDepth(reg, shape, given, 0)
}

func hydrateAtDepth(reg validate.Registry, shape *Shape, given map[string]value.Value, depth int) error {
	for i := range shape.Branches {
		b := &shape.Branches[i]
		b.Condition = rewrite(b.Condition, reg, shape, given, depth)
		if !b.Outcome.Veto {
			b.Outcome.Result = rewrite(b.Outcome.Result, reg, shape, given, depth)
		}
	}
	return nil
}

func joinPath(path []string) string { return strings.Join(path, ".") }

func rewrite(e *ast.Expression, reg validate.Registry, shape *Shape, given map[string]value.Value, depth int) *ast.Expression {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case ast.Literal, ast.Veto:
		return e

	case ast.FactHasAnyValue:
		if _, ok := given[joinPath(e.Path)]; ok {
			return literalBool(true)
		}
		return e

	case ast.FactReference:
		key := joinPath(e.Path)
		if v, ok := given[key]; ok {
			lit := builder.New(e.Span, ast.Literal)
			lit.LiteralValue = v
			return lit
		}
		shape.FreeVariables[key] = true
		return e

	case ast.RuleReference:
		return hydrateRuleReference(e, reg, shape, given, depth)

	case ast.LogicalNegation:
		e.Operand = rewrite(e.Operand, reg, shape, given, depth)
		return e

	case ast.LogicalAnd, ast.LogicalOr, ast.Comparison, ast.Arithmetic:
		e.LHS = rewrite(e.LHS, reg, shape, given, depth)
		e.RHS = rewrite(e.RHS, reg, shape, given, depth)
		return e

	case ast.UnitConversion, ast.MathematicalComputation:
		e.Operand = rewrite(e.Operand, reg, shape, given, depth)
		return e

	default:
		return e
	}
}

func hydrateRuleReference(e *ast.Expression, reg validate.Registry, shape *Shape, given map[string]value.Value, depth int) *ast.Expression {
	key := joinPath(e.Path)

	if len(e.Path) > 1 {
		// Cross-document rule reference: folding it would require
		// re-keying `given` under the nested document's own local fact
		// names, which this pass doesn't attempt (see the cross-document
		// inversion Open Question). Leave it symbolic.
		shape.FreeVariables[key] = true
		return e
	}

	rule, owner, err := validate.ResolveRuleReference(reg, shape.Doc, e.Path)
	if err != nil {
		shape.FreeVariables[key] = true
		return e
	}

	if depth < maxInlineDepth {
		if resp, err := eval.Evaluate(reg, owner, overridesFromGiven(given), []string{rule.Name}, 0); err == nil && len(resp.Results) == 1 {
			rr := resp.Results[0]
			if !rr.Vetoed {
				lit := builder.New(e.Span, ast.Literal)
				lit.LiteralValue = *rr.Value
				return lit
			}
			// An unconditionally-vetoing nested rule can't satisfy a
			// boolean condition; conservatively fold the occurrence to
			// false rather than modeling full veto propagation through
			// arbitrary surrounding algebra.
			return literalBool(false)
		}

		sub := buildShape(owner, rule)
		if hydrateAtDepth(reg, sub, given, depth+1) == nil && len(sub.Branches) == 1 {
			only := sub.Branches[0]
			if only.Outcome.Veto {
				return literalBool(false)
			}
			for v := range sub.FreeVariables {
				shape.FreeVariables[v] = true
			}
			return only.Outcome.Result
		}
	}

	shape.FreeVariables[key] = true
	return e
}

// overridesFromGiven converts a flat given-fact map into the override Facts
// eval.Evaluate expects, for constant-folding a referenced rule.
func overridesFromGiven(given map[string]value.Value) []*ast.Fact {
	out := make([]*ast.Fact, 0, len(given))
	for key, v := range given {
		out = append(out, &ast.Fact{
			Path:      strings.Split(key, "."),
			ValueKind: ast.FactLiteral,
			Value:     v,
		})
	}
	return out
}
