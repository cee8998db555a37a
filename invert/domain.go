package invert

import (
	"github.com/lemma-lang/lemma/ast"
	"github.com/lemma-lang/lemma/response"
	"github.com/lemma-lang/lemma/value"
)

// shapeToSolutions extracts one response.Solution per kept branch of shape,
// per spec.md §4.Ix step 6: for every free variable, walk that branch's
// (already BDD-simplified) Condition and reduce it to a Domain.
func shapeToSolutions(shape *Shape) []response.Solution {
	solutions := make([]response.Solution, 0, len(shape.Branches))
	for _, b := range shape.Branches {
		if lit, ok := foldLiteral(b.Condition); ok && lit.Type == value.Boolean && !lit.Bool {
			continue // this branch can never actually be reached
		}
		sol := response.Solution{}
		for v := range shape.FreeVariables {
			sol[v] = extractDomainForVar(b.Condition, v)
		}
		solutions = append(solutions, sol)
	}
	return solutions
}

// extractDomainForVar reduces cond to the Domain it constrains varPath to,
// per the original domain_extraction.rs's extract_domain_for_variable: walk
// logical connectives structurally, and reduce to a concrete Domain only at
// a Comparison atom that isolate() can solve for varPath. Anything it can't
// reduce — a comparison mixing multiple free variables, or an operation
// isolate doesn't support — contributes Unconstrained rather than guessing,
// a conservative (never unsound) default.
func extractDomainForVar(cond *ast.Expression, varPath string) response.Domain {
	switch cond.Kind {
	case ast.LogicalAnd:
		return intersectDomain(extractDomainForVar(cond.LHS, varPath), extractDomainForVar(cond.RHS, varPath))

	case ast.LogicalOr:
		return unionDomain(extractDomainForVar(cond.LHS, varPath), extractDomainForVar(cond.RHS, varPath))

	case ast.LogicalNegation:
		return complementDomain(extractDomainForVar(cond.Operand, varPath))

	case ast.Comparison:
		return extractComparisonConstraint(cond, varPath)

	default:
		return response.UnconstrainedDomain()
	}
}

// extractComparisonConstraint handles a single Comparison atom: if one side
// folds to a constant and the other isolates to exactly varPath, the
// resolved (op, bound) pair is turned into a Domain; otherwise the
// comparison doesn't constrain varPath at all (Unconstrained).
func extractComparisonConstraint(cmp *ast.Expression, varPath string) response.Domain {
	if k, ok := foldLiteral(cmp.RHS); ok {
		if op, bound, ok := isolate(cmp.LHS, cmp.CompareOp, k, varPath); ok {
			return comparisonToDomain(op, bound)
		}
	}
	if k, ok := foldLiteral(cmp.LHS); ok {
		if op, bound, ok := isolate(cmp.RHS, flipOp(cmp.CompareOp), k, varPath); ok {
			return comparisonToDomain(op, bound)
		}
	}
	return response.UnconstrainedDomain()
}

// comparisonToDomain converts a resolved `varPath op bound` constraint into
// a Domain, per the original's comparison_to_domain.
func comparisonToDomain(op value.CompareOp, bound value.Value) response.Domain {
	switch op {
	case value.Eq:
		return response.EnumerationDomain(bound)
	case value.Neq:
		return response.ComplementDomain(response.EnumerationDomain(bound))
	case value.Lt:
		return response.RangeDomain(response.UnboundedBound(), response.ExclusiveBound(bound))
	case value.Lte:
		return response.RangeDomain(response.UnboundedBound(), response.InclusiveBound(bound))
	case value.Gt:
		return response.RangeDomain(response.ExclusiveBound(bound), response.UnboundedBound())
	case value.Gte:
		return response.RangeDomain(response.InclusiveBound(bound), response.UnboundedBound())
	default:
		return response.UnconstrainedDomain()
	}
}

func isEmptyDomain(d response.Domain) bool {
	return d.Kind == response.Enumeration && len(d.Values) == 0
}

// intersectDomain combines two Domains that must both hold at once. Range∩
// Range, Enumeration∩Enumeration, Enumeration∩Range, Union distribution,
// and Complement∩Complement (via De Morgan) are exact; a Complement paired
// with a Range or Enumeration it doesn't subsume falls back to returning
// the non-complement side unchanged — an approximation that loses the
// excluded-point precision rather than risk an unsound narrowing.
func intersectDomain(a, b response.Domain) response.Domain {
	switch {
	case a.Kind == response.Unconstrained:
		return b
	case b.Kind == response.Unconstrained:
		return a
	case isEmptyDomain(a) || isEmptyDomain(b):
		return response.EnumerationDomain()
	case a.Kind == response.Union:
		return unionOfIntersections(a.Members, b)
	case b.Kind == response.Union:
		return unionOfIntersections(b.Members, a)
	case a.Kind == response.Complement && b.Kind == response.Complement:
		return response.ComplementDomain(unionDomain(*a.Of, *b.Of))
	case a.Kind == response.Range && b.Kind == response.Range:
		return intersectRanges(a, b)
	case a.Kind == response.Enumeration && b.Kind == response.Enumeration:
		return response.EnumerationDomain(intersectValues(a.Values, b.Values)...)
	case a.Kind == response.Enumeration && b.Kind == response.Range:
		return response.EnumerationDomain(filterInRange(a.Values, b)...)
	case b.Kind == response.Enumeration && a.Kind == response.Range:
		return response.EnumerationDomain(filterInRange(b.Values, a)...)
	case a.Kind == response.Complement:
		return b // approximation: lose the exclusion, keep the non-complement side
	case b.Kind == response.Complement:
		return a
	default:
		return a
	}
}

func unionOfIntersections(members []response.Domain, with response.Domain) response.Domain {
	out := make([]response.Domain, len(members))
	for i, m := range members {
		out[i] = intersectDomain(m, with)
	}
	return response.UnionDomain(out...)
}

// unionDomain combines two Domains where either one holding is sufficient.
func unionDomain(a, b response.Domain) response.Domain {
	switch {
	case a.Kind == response.Unconstrained || b.Kind == response.Unconstrained:
		return response.UnconstrainedDomain()
	case isEmptyDomain(a):
		return b
	case isEmptyDomain(b):
		return a
	default:
		return response.UnionDomain(a, b)
	}
}

// complementDomain negates a Domain. Unconstrained has no meaningful
// complement within this model (there's no narrower "everything but
// nothing" to express), so it complements to itself — a documented
// approximation rather than an attempt at a universe-relative negation.
func complementDomain(a response.Domain) response.Domain {
	switch {
	case a.Kind == response.Unconstrained:
		return response.UnconstrainedDomain()
	case isEmptyDomain(a):
		return response.UnconstrainedDomain()
	case a.Kind == response.Complement:
		return *a.Of
	default:
		return response.ComplementDomain(a)
	}
}

func intersectRanges(a, b response.Domain) response.Domain {
	min := tighterLowerBound(a.Min, b.Min)
	max := tighterUpperBound(a.Max, b.Max)
	if boundsContradict(min, max) {
		return response.EnumerationDomain()
	}
	return response.RangeDomain(min, max)
}

func boundsContradict(min, max response.Bound) bool {
	if min.Kind == response.Unbounded || max.Kind == response.Unbounded {
		return false
	}
	cmp, err := value.Compare(value.Lt, min.Value, max.Value)
	if err != nil {
		return false
	}
	if cmp {
		return false
	}
	eq, err := value.Compare(value.Eq, min.Value, max.Value)
	if err != nil {
		return true
	}
	if eq {
		return min.Kind == response.Exclusive || max.Kind == response.Exclusive
	}
	return true
}

// tighterLowerBound returns whichever lower bound admits fewer values
// (the larger value, or the Exclusive one when equal).
func tighterLowerBound(a, b response.Bound) response.Bound {
	if a.Kind == response.Unbounded {
		return b
	}
	if b.Kind == response.Unbounded {
		return a
	}
	gt, _ := value.Compare(value.Gt, a.Value, b.Value)
	if gt {
		return a
	}
	eq, _ := value.Compare(value.Eq, a.Value, b.Value)
	if eq && a.Kind == response.Exclusive {
		return a
	}
	if eq {
		return b
	}
	return b
}

// tighterUpperBound returns whichever upper bound admits fewer values (the
// smaller value, or the Exclusive one when equal).
func tighterUpperBound(a, b response.Bound) response.Bound {
	if a.Kind == response.Unbounded {
		return b
	}
	if b.Kind == response.Unbounded {
		return a
	}
	lt, _ := value.Compare(value.Lt, a.Value, b.Value)
	if lt {
		return a
	}
	eq, _ := value.Compare(value.Eq, a.Value, b.Value)
	if eq && a.Kind == response.Exclusive {
		return a
	}
	if eq {
		return b
	}
	return b
}

func intersectValues(a, b []value.Value) []value.Value {
	var out []value.Value
	for _, v := range a {
		for _, w := range b {
			if eq, err := value.Compare(value.Eq, v, w); err == nil && eq {
				out = append(out, v)
				break
			}
		}
	}
	return out
}

func filterInRange(values []value.Value, r response.Domain) []value.Value {
	var out []value.Value
	for _, v := range values {
		if withinBounds(v, r.Min, r.Max) {
			out = append(out, v)
		}
	}
	return out
}

func withinBounds(v value.Value, min, max response.Bound) bool {
	if min.Kind != response.Unbounded {
		op := value.Gte
		if min.Kind == response.Exclusive {
			op = value.Gt
		}
		ok, err := value.Compare(op, v, min.Value)
		if err != nil || !ok {
			return false
		}
	}
	if max.Kind != response.Unbounded {
		op := value.Lte
		if max.Kind == response.Exclusive {
			op = value.Lt
		}
		ok, err := value.Compare(op, v, max.Value)
		if err != nil || !ok {
			return false
		}
	}
	return true
}
