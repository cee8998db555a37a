package eval

import (
	"github.com/lemma-lang/lemma/ast"
	"github.com/lemma-lang/lemma/response"
	"github.com/lemma-lang/lemma/value"
)

// evaluateRuleMemoized evaluates rule (owned by doc, reached through
// factPrefix) at most once per (factPrefix, rule) pair, caching the result
// in s.ruleMemo — the rule-result cache spec.md §4.E requires, keyed the
// same way fact-map entries are (the accumulated DocumentReference prefix
// plus the rule's local name), since the same document reached through two
// different reference chains can see different fact values.
func (s *evalState) evaluateRuleMemoized(doc *ast.Document, rule *ast.Rule, factPrefix []string, depth int) (opResult, error) {
	key := factKey(append(append([]string{}, factPrefix...), rule.Name))
	if cached, ok := s.ruleMemo[key]; ok {
		return cached, nil
	}
	res, err := s.evaluateRule(doc, rule, factPrefix, depth)
	if err != nil {
		return opResult{}, err
	}
	s.ruleMemo[key] = res
	return res, nil
}

// evaluateRule implements spec.md §4.E's per-rule contract: unless clauses
// are tried in reverse declaration order (last matching wins); a vetoed
// condition or result propagates as the rule's own veto; if nothing
// matches, the default expression is the result.
func (s *evalState) evaluateRule(doc *ast.Document, rule *ast.Rule, factPrefix []string, depth int) (opResult, error) {
	if err := s.tracker.check(s.maxMs); err != nil {
		return opResult{}, err
	}

	for i := len(rule.UnlessClauses) - 1; i >= 0; i-- {
		clause := rule.UnlessClauses[i]

		cond, err := s.evalExpr(doc, factPrefix, clause.Condition, nil, depth)
		if err != nil {
			return opResult{}, err
		}
		if cond.Vetoed {
			return cond, nil
		}
		if cond.Value.Type != value.Boolean {
			return opResult{}, s.runtimeErr(doc, clause.Span, "unless condition must evaluate to boolean")
		}
		if !cond.Value.Bool {
			s.record(nil, depth, func(id response.OperationID) response.OperationRecord {
				return response.OperationRecord{Kind: response.UnlessClauseEvaluated, ClauseIndex: i, Matched: false}
			})
			continue
		}

		switch clause.ResultKind {
		case ast.ResultVeto:
			s.record(nil, depth, func(id response.OperationID) response.OperationRecord {
				return response.OperationRecord{Kind: response.UnlessClauseEvaluated, ClauseIndex: i, Matched: true}
			})
			return vetoResult(clause.VetoMessage), nil
		default:
			result, err := s.evalExpr(doc, factPrefix, clause.Result, nil, depth)
			if err != nil {
				return opResult{}, err
			}
			if result.Vetoed {
				return result, nil
			}
			rv := result.Value
			s.record(nil, depth, func(id response.OperationID) response.OperationRecord {
				return response.OperationRecord{Kind: response.UnlessClauseEvaluated, ClauseIndex: i, Matched: true, ResultIfMatched: &rv}
			})
			return valueResult(rv), nil
		}
	}

	def, err := s.evalExpr(doc, factPrefix, rule.Default, nil, depth)
	if err != nil {
		return opResult{}, err
	}
	if def.Vetoed {
		return def, nil
	}
	s.record(nil, depth, func(id response.OperationID) response.OperationRecord {
		return response.OperationRecord{Kind: response.DefaultValue, Value: def.Value}
	})
	return valueResult(def.Value), nil
}
