package validate

import (
	"fmt"

	"github.com/lemma-lang/lemma/ast"
)

// ValidatedDocuments is the validator's successful output: the registry it
// checked, safe to hand to the evaluator or inverter.
type ValidatedDocuments struct {
	Docs Registry
}

// Validate runs every check in spec.md §4.S over reg (the full registry:
// previously-registered documents plus any newly parsed ones) and returns
// either a ValidatedDocuments or a single aggregated error (MultipleErrors
// when more than one independent failure was found).
func Validate(reg Registry) (*ValidatedDocuments, error) {
	var errs []error

	docs := make([]*ast.Document, 0, len(reg))
	for _, d := range reg {
		docs = append(docs, d)
	}

	for _, doc := range docs {
		errs = append(errs, checkUniqueness(doc)...)
	}
	// Structural errors (cycles) invalidate later checks' assumptions
	// (type inference recurses through rule references), so they're
	// checked eagerly and short-circuit immediately, per spec.md §7.
	if err := newMultiError(errs); err != nil {
		return nil, err
	}

	for _, doc := range docs {
		errs = append(errs, checkReferences(reg, doc)...)
		errs = append(errs, checkDocumentReferences(reg, doc)...)
	}
	if err := newMultiError(errs); err != nil {
		return nil, err
	}

	if err := detectCycles(reg, docs); err != nil {
		return nil, err
	}

	tc := &typeChecker{reg: reg, ruleMemo: map[string]StaticType{}}
	for _, doc := range docs {
		for i := range doc.Rules {
			r := &doc.Rules[i]
			tc.infer(doc, r.Default)
			for _, clause := range r.UnlessClauses {
				tc.infer(doc, clause.Condition)
				if clause.ResultKind == ast.ResultExpression {
					tc.infer(doc, clause.Result)
				}
			}
			checkBranchAgreement(tc, doc, r)
		}
	}
	errs = append(errs, tc.errs...)

	if err := newMultiError(errs); err != nil {
		return nil, err
	}
	return &ValidatedDocuments{Docs: reg}, nil
}

func checkUniqueness(doc *ast.Document) []error {
	var errs []error
	factNames := map[string]bool{}
	for _, f := range doc.Facts {
		if !f.IsLocal() {
			continue
		}
		if factNames[f.Name()] {
			errs = append(errs, &Error{Span: f.Span, DocName: doc.Name, Message: fmt.Sprintf("duplicate fact %q", f.Name())})
		}
		factNames[f.Name()] = true
	}
	ruleNames := map[string]bool{}
	for _, r := range doc.Rules {
		if ruleNames[r.Name] {
			errs = append(errs, &Error{Span: r.Span, DocName: doc.Name, Message: fmt.Sprintf("duplicate rule %q", r.Name)})
		}
		ruleNames[r.Name] = true
		if factNames[r.Name] {
			errs = append(errs, &Error{Span: r.Span, DocName: doc.Name, Message: fmt.Sprintf("%q is declared as both a fact and a rule", r.Name)})
		}
	}
	return errs
}

func checkDocumentReferences(reg Registry, doc *ast.Document) []error {
	var errs []error
	for _, f := range doc.Facts {
		if f.ValueKind != ast.FactDocumentReference {
			continue
		}
		if _, ok := reg[f.ReferencedDocument]; !ok {
			errs = append(errs, &Error{Span: f.Span, DocName: doc.Name, Message: fmt.Sprintf("referenced document %q does not exist", f.ReferencedDocument)})
		}
	}
	return errs
}

func checkReferences(reg Registry, doc *ast.Document) []error {
	var errs []error
	check := func(e *ast.Expression) {
		ast.Walk(e, func(n *ast.Expression) bool {
			switch n.Kind {
			case ast.FactReference, ast.FactHasAnyValue:
				if _, _, err := ResolveFactReference(reg, doc, n.Path); err != nil {
					errs = append(errs, err)
				}
			case ast.RuleReference:
				if _, _, err := ResolveRuleReference(reg, doc, n.Path); err != nil {
					errs = append(errs, err)
				}
			}
			return true
		})
	}
	for i := range doc.Rules {
		r := &doc.Rules[i]
		check(r.Default)
		for _, clause := range r.UnlessClauses {
			check(clause.Condition)
			if clause.ResultKind == ast.ResultExpression {
				check(clause.Result)
			}
		}
	}
	return errs
}

// checkBranchAgreement enforces spec.md §4.S.5: the default expression's
// result type and every non-veto unless clause's result type must agree up
// to unit-category (currency is not part of the agreement check — that's
// enforced dynamically by value.Arithmetic/Compare at evaluation time).
func checkBranchAgreement(tc *typeChecker, doc *ast.Document, r *ast.Rule) {
	defaultType := tc.infer(doc, r.Default)
	if defaultType.Unknown || defaultType.IsVeto {
		return
	}
	for _, clause := range r.UnlessClauses {
		if clause.ResultKind == ast.ResultVeto {
			continue
		}
		branchType := tc.infer(doc, clause.Result)
		if branchType.Unknown || branchType.IsVeto {
			continue
		}
		if branchType.Kind != defaultType.Kind {
			tc.fail(doc, clause.Span, fmt.Sprintf(
				"unless clause result type %s does not agree with rule %q's default type %s",
				branchType.Kind, r.Name, defaultType.Kind))
		}
	}
}
