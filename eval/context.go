package eval

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/lemma-lang/lemma/ast"
	"github.com/lemma-lang/lemma/overrides"
	"github.com/lemma-lang/lemma/response"
	"github.com/lemma-lang/lemma/validate"
	"github.com/lemma-lang/lemma/value"
)

// factKey joins a dotted path the way the fact map stores it: "a.b.c".
func factKey(path []string) string { return strings.Join(path, ".") }

// ruleKey is the dependency-graph / result-cache node name for a rule.
func ruleKey(doc *ast.Document, ruleName string) string { return doc.Name + "." + ruleName }

// buildFactMap implements spec.md §4.E's fact-map construction: declared
// Literal facts, DocumentReference facts imported (recursively) under the
// prefix "outer_name.inner_name", then overrides applied on top with a
// type check against the fact being overridden.
func buildFactMap(reg validate.Registry, doc *ast.Document, overrideFacts []*ast.Fact) (map[string]value.Value, error) {
	facts := map[string]value.Value{}
	importDoc(reg, doc, nil, facts)

	declared := declaredTypesByKey(reg, doc, nil)
	for _, f := range overrideFacts {
		key := factKey(f.Path)
		decl, ok := declared[key]
		if !ok {
			return nil, errors.Errorf("override %q does not target a known fact", key)
		}
		if err := overrides.CheckType(decl, f.Value); err != nil {
			return nil, errors.Wrapf(err, "override %q", key)
		}
		facts[key] = f.Value
	}
	return facts, nil
}

// importDoc walks doc's own facts, writing Literal values into facts under
// prefix, and recursing into DocumentReference facts under prefix+name.
func importDoc(reg validate.Registry, doc *ast.Document, prefix []string, facts map[string]value.Value) {
	for i := range doc.Facts {
		f := &doc.Facts[i]
		if !f.IsLocal() {
			continue
		}
		path := append(append([]string{}, prefix...), f.Name())
		switch f.ValueKind {
		case ast.FactLiteral:
			facts[factKey(path)] = f.Value
		case ast.FactDocumentReference:
			if ref, ok := reg[f.ReferencedDocument]; ok {
				importDoc(reg, ref, path, facts)
			}
		}
	}
}

// declaredTypesByKey mirrors importDoc's walk to build a declared-type
// lookup for override validation, keyed the same way as the fact map.
func declaredTypesByKey(reg validate.Registry, doc *ast.Document, prefix []string) map[string]overrides.DeclaredType {
	out := map[string]overrides.DeclaredType{}
	var walk func(d *ast.Document, prefix []string)
	walk = func(d *ast.Document, prefix []string) {
		for i := range d.Facts {
			f := &d.Facts[i]
			if !f.IsLocal() {
				continue
			}
			path := append(append([]string{}, prefix...), f.Name())
			key := factKey(path)
			switch f.ValueKind {
			case ast.FactLiteral, ast.FactTypeAnnotation:
				out[key] = overrides.DeclaredTypeOf(f)
			case ast.FactDocumentReference:
				if ref, ok := reg[f.ReferencedDocument]; ok {
					walk(ref, path)
				}
			}
		}
	}
	walk(doc, prefix)
	return out
}
