package response

import "github.com/lemma-lang/lemma/value"

// BoundKind tags which shape a Bound holds.
type BoundKind int

const (
	Unbounded BoundKind = iota
	Inclusive
	Exclusive
)

// Bound is one edge of a Range domain.
type Bound struct {
	Kind  BoundKind
	Value value.Value // meaningless when Kind == Unbounded
}

// UnboundedBound is the open edge of a Range with no constraint on that side.
func UnboundedBound() Bound { return Bound{Kind: Unbounded} }

// InclusiveBound is a Range edge that includes v itself.
func InclusiveBound(v value.Value) Bound { return Bound{Kind: Inclusive, Value: v} }

// ExclusiveBound is a Range edge that excludes v itself.
func ExclusiveBound(v value.Value) Bound { return Bound{Kind: Exclusive, Value: v} }

// DomainKind tags which shape a Domain holds.
type DomainKind int

const (
	Unconstrained DomainKind = iota
	Enumeration
	Range
	Union
	Complement
)

// Domain is the set of concrete values a free input fact may take while
// still producing the inverter's target outcome, per spec.md §4.Ix step 6.
// Only the fields relevant to Kind are populated.
type Domain struct {
	Kind DomainKind

	// Enumeration
	Values []value.Value

	// Range
	Min, Max Bound

	// Union
	Members []Domain

	// Complement
	Of *Domain
}

func UnconstrainedDomain() Domain { return Domain{Kind: Unconstrained} }

func EnumerationDomain(values ...value.Value) Domain {
	return Domain{Kind: Enumeration, Values: values}
}

func RangeDomain(min, max Bound) Domain { return Domain{Kind: Range, Min: min, Max: max} }

func UnionDomain(members ...Domain) Domain { return Domain{Kind: Union, Members: members} }

func ComplementDomain(of Domain) Domain { return Domain{Kind: Complement, Of: &of} }

// Solution is one satisfying assignment-shape produced by inversion: a map
// from a free input fact's document-qualified dotted path (joined with ".")
// to the Domain of values it may hold.
type Solution map[string]Domain
