package invert

import (
	"fmt"

	"github.com/lemma-lang/lemma/ast"
	"github.com/lemma-lang/lemma/response"
	"github.com/lemma-lang/lemma/validate"
	"github.com/lemma-lang/lemma/value"
)

// Invert implements spec.md §4.Ix end to end: extract doc's ruleName's
// shape, substitute given facts in, apply target, simplify each surviving
// branch's condition, and reduce it to a per-free-variable domain. Each
// element of the returned slice is one independent way to reach target —
// any one of them, combined with given, guarantees target holds.
func Invert(reg validate.Registry, doc *ast.Document, ruleName string, target Target, given map[string]value.Value) ([]response.Solution, error) {
	rule, ok := doc.FindRule(ruleName)
	if !ok {
		return nil, fmt.Errorf("unknown rule %q in document %q", ruleName, doc.Name)
	}

	shape := buildShape(doc, rule)
	if err := hydrate(reg, shape, given); err != nil {
		return nil, err
	}
	if err := applyTarget(shape, target); err != nil {
		return nil, err
	}
	for i := range shape.Branches {
		shape.Branches[i].Condition = simplifyBoolean(shape.Branches[i].Condition)
	}

	return shapeToSolutions(shape), nil
}
