// Package response defines the plain, serialization-friendly result types
// produced by evaluation: Response, RuleResult, and the OperationRecord
// trace tree. Nothing here performs evaluation; it's the shape the caller
// receives, mirroring original_source/lemma/src/response.go's data model
// without any of its Rust-side serde/WASM/wire-format concerns.
package response

import "github.com/lemma-lang/lemma/value"

// OperationID identifies a single OperationRecord within one evaluation
// call. IDs increase monotonically in the order operations are recorded.
type OperationID uint64

// Fact is a named value surfaced on a Response or RuleResult: the name a
// rule or the top-level document used, and the value it held. A
// TypeAnnotation fact with no override has no value and is left out of
// Response.Facts.
type Fact struct {
	Name  string
	Value value.Value
}

// ComputationKind tags which of Arithmetic/Comparison/Mathematical produced
// a Computation operation.
type ComputationKind int

const (
	ArithmeticComputation ComputationKind = iota
	ComparisonComputation
	MathematicalComputation
)

func (k ComputationKind) String() string {
	switch k {
	case ArithmeticComputation:
		return "arithmetic"
	case ComparisonComputation:
		return "comparison"
	case MathematicalComputation:
		return "mathematical"
	default:
		return "unknown"
	}
}

// OperationKind tags which shape an OperationRecord holds.
type OperationKind int

const (
	FactUsed OperationKind = iota
	RuleUsed
	Computation
	UnlessClauseEvaluated
	DefaultValue
)

func (k OperationKind) String() string {
	switch k {
	case FactUsed:
		return "fact_used"
	case RuleUsed:
		return "rule_used"
	case Computation:
		return "computation"
	case UnlessClauseEvaluated:
		return "unless_clause_evaluated"
	case DefaultValue:
		return "default_value"
	default:
		return "unknown"
	}
}

// OperationRecord is one entry in the evaluation trace. Only the fields
// relevant to Kind are populated.
type OperationRecord struct {
	ID       OperationID
	ParentID *OperationID
	Depth    int
	Kind     OperationKind

	// FactUsed, RuleUsed
	Path  []string
	Value value.Value

	// Computation
	ComputationKind ComputationKind
	Inputs          []value.Value
	Result          value.Value
	Expr            string

	// UnlessClauseEvaluated
	ClauseIndex     int
	Matched         bool
	ResultIfMatched *value.Value
	ConditionExpr   string
	ResultExpr      string
}

// RuleResult is the outcome of evaluating a single rule. Exactly one of
// Value or Vetoed holds: a vetoed rule has Value == nil, and VetoMessage is
// only meaningful (may itself be nil, for an unmessaged veto) when Vetoed.
type RuleResult struct {
	Rule        string
	Value       *value.Value
	Vetoed      bool
	VetoMessage *string
	FactsUsed   []Fact
	Operations  []OperationRecord
}

// Response is the result of evaluating a document.
type Response struct {
	DocName string
	Facts   []Fact
	Results []RuleResult
}

// FilterRules narrows Results to only the named rules, in the order given.
func (r *Response) FilterRules(names []string) {
	if names == nil {
		return
	}
	byRule := make(map[string]RuleResult, len(r.Results))
	for _, res := range r.Results {
		byRule[res.Rule] = res
	}
	filtered := make([]RuleResult, 0, len(names))
	for _, n := range names {
		if res, ok := byRule[n]; ok {
			filtered = append(filtered, res)
			delete(byRule, n)
		}
	}
	r.Results = filtered
}
