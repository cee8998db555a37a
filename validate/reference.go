package validate

import (
	"fmt"

	"github.com/lemma-lang/lemma/ast"
)

// Registry is the set of documents a reference may resolve against: the
// document currently being validated plus every other document already
// registered with the engine.
type Registry map[string]*ast.Document

// walkToOwnerDoc follows a dotted path's document-reference prefix
// (everything but the path's final label) starting from startDoc, per
// spec.md §4.S.2: "the first segment must be a local fact whose value is a
// DocumentReference. Subsequent segments resolve inside the referenced
// document."
func walkToOwnerDoc(reg Registry, startDoc *ast.Document, prefix []string) (*ast.Document, error) {
	cur := startDoc
	for _, seg := range prefix {
		fact, ok := cur.FindFact(seg)
		if !ok {
			return nil, &Error{DocName: cur.Name, Message: fmt.Sprintf("unknown fact %q in document-reference path", seg)}
		}
		if fact.ValueKind != ast.FactDocumentReference {
			return nil, &Error{DocName: cur.Name, Message: fmt.Sprintf("%q is not a document reference", seg)}
		}
		next, ok := reg[fact.ReferencedDocument]
		if !ok {
			return nil, &Error{DocName: cur.Name, Message: fmt.Sprintf("referenced document %q does not exist", fact.ReferencedDocument)}
		}
		cur = next
	}
	return cur, nil
}

// ResolveFactReference resolves a FactReference or FactHasAnyValue path to
// the Fact it names.
func ResolveFactReference(reg Registry, startDoc *ast.Document, path []string) (*ast.Fact, *ast.Document, error) {
	if len(path) == 1 {
		name := path[0]
		if f, ok := startDoc.FindFact(name); ok {
			return f, startDoc, nil
		}
		if _, ok := startDoc.FindRule(name); ok {
			return nil, nil, &Error{DocName: startDoc.Name, Message: fmt.Sprintf("%q is a rule", name), Suggestion: "use '?' to reference a rule"}
		}
		return nil, nil, &Error{DocName: startDoc.Name, Message: fmt.Sprintf("unknown fact %q", name)}
	}

	owner, err := walkToOwnerDoc(reg, startDoc, path[:len(path)-1])
	if err != nil {
		return nil, nil, err
	}
	last := path[len(path)-1]
	if f, ok := owner.FindFact(last); ok {
		return f, owner, nil
	}
	if _, ok := owner.FindRule(last); ok {
		return nil, nil, &Error{DocName: owner.Name, Message: fmt.Sprintf("%q is a rule", last), Suggestion: "end the path with '?' to reference a rule"}
	}
	return nil, nil, &Error{DocName: owner.Name, Message: fmt.Sprintf("unknown fact %q", last)}
}

// ResolveRuleReference resolves a RuleReference path to the Rule it names.
func ResolveRuleReference(reg Registry, startDoc *ast.Document, path []string) (*ast.Rule, *ast.Document, error) {
	if len(path) == 1 {
		name := path[0]
		if r, ok := startDoc.FindRule(name); ok {
			return r, startDoc, nil
		}
		if _, ok := startDoc.FindFact(name); ok {
			return nil, nil, &Error{DocName: startDoc.Name, Message: fmt.Sprintf("%q is a fact", name), Suggestion: "drop the '?'"}
		}
		return nil, nil, &Error{DocName: startDoc.Name, Message: fmt.Sprintf("unknown rule %q", name)}
	}

	owner, err := walkToOwnerDoc(reg, startDoc, path[:len(path)-1])
	if err != nil {
		return nil, nil, err
	}
	last := path[len(path)-1]
	if r, ok := owner.FindRule(last); ok {
		return r, owner, nil
	}
	if _, ok := owner.FindFact(last); ok {
		return nil, nil, &Error{DocName: owner.Name, Message: fmt.Sprintf("%q is a fact", last), Suggestion: "drop the '?'"}
	}
	return nil, nil, &Error{DocName: owner.Name, Message: fmt.Sprintf("unknown rule %q", last)}
}

// ruleKey returns the dependency-graph node name for a rule owned by doc.
func ruleKey(doc *ast.Document, ruleName string) string { return doc.Name + "." + ruleName }
