// Package overrides ingests fact overrides from callers — a plain-text
// batch string or a JSON object — into ast.Fact values the evaluator or
// validator can apply, per spec.md's "Fact-override string format" and
// "JSON override ingestion" sections.
package overrides

import (
	"encoding/json"

	"github.com/google/shlex"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/lemma-lang/lemma/ast"
	"github.com/lemma-lang/lemma/parse"
	"github.com/lemma-lang/lemma/unit"
	"github.com/lemma-lang/lemma/value"
)

// ParseBatch splits a space-separated batch of `name=value` tokens,
// honoring quoted substrings the way a shell would (so `name="100 USD"`
// round-trips as one token), then parses each token through the same
// literal grammar inline facts use.
func ParseBatch(batch string, sourceID string, limits parse.Limits) ([]*ast.Fact, error) {
	tokens, err := shlex.Split(batch)
	if err != nil {
		return nil, errors.Wrap(err, "splitting override batch")
	}
	facts := make([]*ast.Fact, 0, len(tokens))
	for _, tok := range tokens {
		f, err := parse.FactOverride(tok, sourceID, limits)
		if err != nil {
			return nil, err
		}
		facts = append(facts, f)
	}
	return facts, nil
}

// ParseOne parses a single `name=value` (or `a.b=value`) override token.
func ParseOne(token string, sourceID string, limits parse.Limits) (*ast.Fact, error) {
	return parse.FactOverride(token, sourceID, limits)
}

// DeclaredType is the statically-known type of the fact being overridden,
// used to disambiguate a bare JSON number (Number vs. Percentage) and to
// require the string form for Money/unit-bearing facts.
type DeclaredType struct {
	Known    bool
	Kind     value.Type
	Currency string
	Category unit.Category
	UnitName string
}

// ParseJSON ingests an object mapping fact names to JSON scalars or
// strings. declared supplies each fact's statically-known type (from the
// document's TypeAnnotation or literal default), used to resolve the
// ambiguity between a bare JSON number meaning Number vs. Percentage, and
// to require the string form for Money and other unit-bearing facts.
func ParseJSON(data []byte, declared map[string]DeclaredType, sourceID string, limits parse.Limits) ([]*ast.Fact, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "parsing JSON override payload")
	}

	facts := make([]*ast.Fact, 0, len(raw))
	for name, v := range raw {
		fact, err := jsonValueToFact(name, v, declared[name], sourceID, limits)
		if err != nil {
			return nil, errors.Wrapf(err, "override %q", name)
		}
		facts = append(facts, fact)
	}
	return facts, nil
}

func jsonValueToFact(name string, v interface{}, decl DeclaredType, sourceID string, limits parse.Limits) (*ast.Fact, error) {
	switch x := v.(type) {
	case string:
		return parse.FactOverride(name+"="+x, sourceID, limits)

	case bool:
		lit := "false"
		if x {
			lit = "true"
		}
		return parse.FactOverride(name+"="+lit, sourceID, limits)

	case float64:
		if decl.Kind == value.Money || (decl.Kind.IsDimensioned() && decl.Kind != value.Percentage) {
			return nil, errors.Errorf("numeric JSON override for %q requires string form (e.g. \"%v %s\")", name, x, unitSuffix(decl))
		}
		if decl.Kind == value.Percentage {
			return &ast.Fact{Path: []string{name}, ValueKind: ast.FactLiteral,
				Value: value.NewPercentage(decimal.NewFromFloat(x / 100.0))}, nil
		}
		return &ast.Fact{Path: []string{name}, ValueKind: ast.FactLiteral,
			Value: value.NewNumber(decimal.NewFromFloat(x))}, nil

	case nil:
		return nil, errors.Errorf("override %q: null is not a valid fact value", name)

	default:
		return nil, errors.Errorf("override %q: arrays and nested objects are not valid fact values", name)
	}
}

func unitSuffix(decl DeclaredType) string {
	if decl.Kind == value.Money {
		return decl.Currency
	}
	return decl.UnitName
}

// CheckType validates an override's literal value against the fact it's
// overriding, rejecting e.g. a plain Number for a Money-typed fact. The
// evaluator calls it when applying overrides into the fact map; the
// validator does not call it, since it never sees overrides.
func CheckType(declared DeclaredType, got value.Value) error {
	if !declared.Known {
		return nil
	}
	switch {
	case declared.Kind == value.Money:
		if got.Type != value.Money {
			return errors.Errorf("expected money (%s), got %s", declared.Currency, got.Type)
		}
		if declared.Currency != "" && got.Unit.Name != declared.Currency {
			return errors.Errorf("currency mismatch: expected %s, got %s", declared.Currency, got.Unit.Name)
		}
	case declared.Kind.IsDimensioned():
		if got.Type != declared.Kind {
			return errors.Errorf("expected %s, got %s", declared.Kind, got.Type)
		}
		if got.Unit.Category != declared.Category {
			return errors.Errorf("expected unit category %s, got %s", declared.Category, got.Unit.Category)
		}
	default:
		if got.Type != declared.Kind {
			return errors.Errorf("expected %s, got %s", declared.Kind, got.Type)
		}
	}
	return nil
}

// DeclaredTypeOf derives a DeclaredType from a Fact's own production: a
// TypeAnnotation names its type/unit directly; a Literal's own value
// carries its type. A DocumentReference fact has no scalar type and
// returns the zero DeclaredType (CheckType then only requires the override
// parse itself succeeded).
func DeclaredTypeOf(f *ast.Fact) DeclaredType {
	switch f.ValueKind {
	case ast.FactTypeAnnotation:
		t, ok := value.TypeByName(f.AnnotatedType)
		if !ok {
			return DeclaredType{}
		}
		d := DeclaredType{Known: true, Kind: t}
		if t == value.Money {
			d.Currency = f.AnnotatedUnit
		} else if t.IsDimensioned() {
			if u, ok := unit.LookupAnyFlexible(f.AnnotatedUnit); ok {
				d.Category = u.Category
				d.UnitName = u.Name
			}
		}
		return d
	case ast.FactLiteral:
		d := DeclaredType{Known: true, Kind: f.Value.Type}
		if f.Value.Type == value.Money {
			d.Currency = f.Value.Unit.Name
		} else if f.Value.Type.IsDimensioned() {
			d.Category = f.Value.Unit.Category
			d.UnitName = f.Value.Unit.Name
		}
		return d
	default:
		return DeclaredType{}
	}
}
