// Package validate implements the semantic validator: name uniqueness,
// reference-kind resolution, currency/type coherence, rule branch-type
// agreement, and rule-dependency cycle detection, per spec.md §4.S.
package validate

import (
	"fmt"

	multierror "github.com/hashicorp/go-multierror"

	"github.com/lemma-lang/lemma/ast"
)

// Error is a single semantic validation failure.
type Error struct {
	Span       ast.Span
	DocName    string
	Message    string
	Suggestion string
}

func (e *Error) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s: %s (%s)", e.DocName, e.Message, e.Suggestion)
	}
	return fmt.Sprintf("%s: %s", e.DocName, e.Message)
}

// CircularDependency is raised when the rule-dependency graph has a cycle.
type CircularDependency struct {
	Cycle []string // "doc.rule" node names, in cycle order
}

func (e *CircularDependency) Error() string {
	msg := "circular rule dependency: "
	for i, n := range e.Cycle {
		if i > 0 {
			msg += " -> "
		}
		msg += n
	}
	return msg
}

// newMultiError collects non-nil errors into a single error, matching the
// validator's "collects multiple errors... returns them together" policy
// (spec.md §7). A single error is returned unwrapped; zero errors yields nil.
func newMultiError(errs []error) error {
	var merr *multierror.Error
	for _, e := range errs {
		if e != nil {
			merr = multierror.Append(merr, e)
		}
	}
	if merr == nil {
		return nil
	}
	if len(merr.Errors) == 1 {
		return merr.Errors[0]
	}
	return merr
}
