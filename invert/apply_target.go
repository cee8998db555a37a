package invert

import (
	"fmt"

	"github.com/lemma-lang/lemma/ast"
	"github.com/lemma-lang/lemma/value"
)

// toCompareOp converts a TargetOp to the equivalent value.CompareOp; the two
// enums are declared in the same order for exactly this reason.
func toCompareOp(op TargetOp) value.CompareOp { return value.CompareOp(op) }

// describeOutcome renders a branch's producible outcome for
// NoSatisfiableBranches's error message.
func describeOutcome(b Branch) string {
	if b.Outcome.Veto {
		if b.Outcome.Message != nil {
			return fmt.Sprintf("veto %q", *b.Outcome.Message)
		}
		return "veto (no message)"
	}
	if v, ok := foldLiteral(b.Outcome.Result); ok {
		return fmt.Sprintf("value %s", v.String())
	}
	return "a value depending on unresolved facts"
}

// applyTarget prunes and transforms shape's branches so that every
// remaining branch's Condition, once true, guarantees target holds — per
// spec.md §4.Ix step 3. Branches whose outcome can never satisfy target
// (statically, by kind or by a folded-literal comparison) are dropped;
// branches whose outcome depends on unresolved facts get target's
// comparison conjoined onto their Condition so later domain extraction
// constrains those facts accordingly.
func applyTarget(shape *Shape, target Target) error {
	var kept []Branch
	var producible []string

	for _, b := range shape.Branches {
		switch target.Kind {
		case AnyVeto:
			if b.Outcome.Veto {
				kept = append(kept, b)
			}

		case ExactVeto:
			if !b.Outcome.Veto {
				break
			}
			if target.Message != nil {
				if b.Outcome.Message == nil || *b.Outcome.Message != *target.Message {
					break
				}
			}
			kept = append(kept, b)

		case AnyValue:
			if !b.Outcome.Veto {
				kept = append(kept, b)
			}

		case ExactValue:
			if b.Outcome.Veto {
				break
			}
			nb, ok, err := applyValueTarget(b, target)
			if err != nil {
				return err
			}
			if ok {
				kept = append(kept, nb)
			}
		}
		producible = append(producible, describeOutcome(b))
	}

	if len(kept) == 0 {
		return &NoSatisfiableBranches{RuleName: shape.RuleName, Outcomes: producible}
	}

	shape.Branches = kept
	return nil
}

// applyValueTarget handles one non-veto branch under an ExactValue target:
// if the branch's result expression fully folds to a constant, the target
// comparison is decided once and for all (the branch is kept unchanged, or
// dropped); otherwise the comparison is conjoined onto the branch's
// Condition as an additional constraint on whatever facts the result
// expression still depends on.
func applyValueTarget(b Branch, target Target) (Branch, bool, error) {
	if v, ok := foldLiteral(b.Outcome.Result); ok {
		satisfied, err := value.Compare(toCompareOp(target.Op), v, target.Value)
		if err != nil {
			// The branch's result type can never be compared against the
			// target's value type (e.g. Text vs Money) — this branch simply
			// cannot satisfy the target.
			return Branch{}, false, nil
		}
		return b, satisfied, nil
	}

	cmp := builder.New(b.Outcome.Result.Span, ast.Comparison)
	cmp.CompareOp = toCompareOp(target.Op)
	cmp.LHS = ast.Clone(b.Outcome.Result)
	rhs := builder.New(b.Outcome.Result.Span, ast.Literal)
	rhs.LiteralValue = target.Value
	cmp.RHS = rhs

	b.Condition = and(b.Condition, cmp)
	return b, true, nil
}
