package eval

import (
	"github.com/lemma-lang/lemma/ast"
	"github.com/lemma-lang/lemma/response"
	"github.com/lemma-lang/lemma/validate"
	"github.com/lemma-lang/lemma/value"
)

// Evaluate implements spec.md §4.E's `evaluate(doc_name, overrides,
// rule_filter?) → Response` contract: it builds the fact map, topologically
// orders doc's rules, evaluates each at most once (memoized), and returns
// every rule's result plus the full operation trace. maxEvaluationTimeMs
// bounds wall-clock time across the whole call; 0 disables the check.
func Evaluate(reg validate.Registry, doc *ast.Document, overrideFacts []*ast.Fact, ruleFilter []string, maxEvaluationTimeMs uint64) (*response.Response, error) {
	facts, err := buildFactMap(reg, doc, overrideFacts)
	if err != nil {
		return nil, err
	}

	order, err := topoSortRules(reg, doc)
	if err != nil {
		return nil, err
	}

	s := &evalState{
		reg:      reg,
		facts:    facts,
		ruleMemo: map[string]opResult{},
		tracker:  newTimeoutTracker(),
		maxMs:    maxEvaluationTimeMs,
	}

	resp := &response.Response{DocName: doc.Name, Facts: documentFacts(doc, facts)}

	for _, rule := range order {
		opStart := len(s.operations)
		res, err := s.evaluateRuleMemoized(doc, rule, nil, 0)
		if err != nil {
			return nil, err
		}
		resp.Results = append(resp.Results, ruleResultFrom(rule.Name, res, s.operations[opStart:]))
	}

	resp.FilterRules(ruleFilter)
	return resp, nil
}

// documentFacts lists doc's own locally-declared facts with whatever value
// (if any) the fact map resolved for them — a TypeAnnotation fact with no
// override is omitted, matching spec.md's "facts: list of {name, optional
// value}" (an absent entry is the Go-idiomatic "optional" for a plain,
// non-pointer Fact slice here; see response.Fact).
func documentFacts(doc *ast.Document, facts map[string]value.Value) []response.Fact {
	out := make([]response.Fact, 0, len(doc.Facts))
	for i := range doc.Facts {
		f := &doc.Facts[i]
		if !f.IsLocal() {
			continue
		}
		if v, ok := facts[f.Name()]; ok {
			out = append(out, response.Fact{Name: f.Name(), Value: v})
		}
	}
	return out
}

func ruleResultFrom(name string, res opResult, ops []response.OperationRecord) response.RuleResult {
	rr := response.RuleResult{Rule: name, Operations: append([]response.OperationRecord{}, ops...)}
	for _, op := range ops {
		if op.Kind == response.FactUsed {
			rr.FactsUsed = append(rr.FactsUsed, response.Fact{Name: joinPath(op.Path), Value: op.Value})
		}
	}
	if res.Vetoed {
		rr.Vetoed = true
		rr.VetoMessage = res.Message
	} else {
		v := res.Value
		rr.Value = &v
	}
	return rr
}
