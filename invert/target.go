// Package invert implements spec.md §4.Ix's inverter: given a rule, a
// desired outcome, and a set of already-known facts, it produces the
// constrained domains a rule's remaining free input facts must satisfy
// for the rule to actually produce that outcome.
package invert

import "github.com/lemma-lang/lemma/value"

// TargetOp is one of the six comparison operators a Target may use to
// describe a desired Value outcome.
type TargetOp int

const (
	Eq TargetOp = iota
	Neq
	Lt
	Lte
	Gt
	Gte
)

// OutcomeKind tags which shape a Target's desired outcome holds.
type OutcomeKind int

const (
	// AnyValue matches any non-veto result; AnyVeto matches any veto
	// regardless of message. Both are wildcards with Op forced to Eq.
	AnyValue OutcomeKind = iota
	AnyVeto
	ExactValue
	ExactVeto
)

// Target is the desired outcome an inversion query asks for.
type Target struct {
	Op      TargetOp
	Kind    OutcomeKind
	Value   value.Value // ExactValue
	Message *string     // ExactVeto; nil means any message under that kind
}

// ValueTarget builds a Target matching a specific value under op (defaults
// to Eq for plain "produce exactly this value" queries).
func ValueTarget(op TargetOp, v value.Value) Target {
	return Target{Op: op, Kind: ExactValue, Value: v}
}

// VetoTarget matches a veto carrying exactly message.
func VetoTarget(message string) Target {
	return Target{Op: Eq, Kind: ExactVeto, Message: &message}
}

// AnyVetoTarget matches any veto, regardless of message.
func AnyVetoTarget() Target { return Target{Op: Eq, Kind: AnyVeto} }

// AnyValueTarget matches any non-veto result — the target get_valid_domain
// uses (spec.md §4.X).
func AnyValueTarget() Target { return Target{Op: Eq, Kind: AnyValue} }
