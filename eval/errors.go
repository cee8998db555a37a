// Package eval implements the evaluator: topologically-ordered rule
// evaluation over a validated document set, with operation trace recording
// and evaluation-time resource checks, per spec.md §4.E.
package eval

import (
	"fmt"

	"github.com/lemma-lang/lemma/ast"
	"github.com/lemma-lang/lemma/response"
)

// RuntimeError is a rule evaluation failure. It carries the operation log
// accumulated before the failure so callers that want a partial trace can
// still have one, per spec.md §7's "operation log up to the failure is
// preserved in the error".
type RuntimeError struct {
	DocName    string
	Rule       string
	Span       ast.Span
	Message    string
	Operations []response.OperationRecord
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: rule %q: %s", e.DocName, e.Rule, e.Message)
}

// MissingFact is raised when a fact the evaluator needs has no concrete
// value (a TypeAnnotation fact was never overridden).
type MissingFact struct {
	DocName string
	Path    []string
}

func (e *MissingFact) Error() string {
	return fmt.Sprintf("%s: fact %q has no value (override it or supply a concrete literal)", e.DocName, joinPath(e.Path))
}

func joinPath(path []string) string {
	out := path[0]
	for _, p := range path[1:] {
		out += "." + p
	}
	return out
}

// ResourceLimitExceeded is raised when evaluation exceeds max_evaluation_time_ms.
type ResourceLimitExceeded struct {
	LimitName  string
	LimitValue string
	Actual     string
	Suggestion string
}

func (e *ResourceLimitExceeded) Error() string {
	return fmt.Sprintf("resource limit %s exceeded: %s (actual %s). %s", e.LimitName, e.LimitValue, e.Actual, e.Suggestion)
}
