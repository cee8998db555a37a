// Package engine is the Engine Facade spec.md §3 describes: it owns a
// registry of validated documents and their source text, and exposes the
// only operations a caller needs — add/remove documents, evaluate, invert,
// and the get_valid_domain convenience — without exposing the parser,
// validator, evaluator, or inverter packages directly.
package engine

import (
	"log"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/lemma-lang/lemma/ast"
	"github.com/lemma-lang/lemma/eval"
	"github.com/lemma-lang/lemma/invert"
	"github.com/lemma-lang/lemma/overrides"
	"github.com/lemma-lang/lemma/parse"
	"github.com/lemma-lang/lemma/response"
	"github.com/lemma-lang/lemma/validate"
	"github.com/lemma-lang/lemma/value"
)

// Engine holds a mutable name→Document registry, the source text each
// document was parsed from (for error rendering), and the ResourceLimits
// add_source and evaluate calls are bounded by (Invert applies none of
// them, including the evaluation-time budget). Per spec.md §5 it is
// not internally synchronized: a caller serving concurrent requests is
// expected to impose its own reader/writer lock, taking exclusion only
// around AddSource/RemoveDocument.
type Engine struct {
	documents validate.Registry
	sources   map[string]string
	limits    ResourceLimits
	logger    *log.Logger
}

// New returns an empty Engine under limits. A nil logger means silent,
// matching the teacher's default-zero-value style for optional loggers.
func New(limits ResourceLimits, logger *log.Logger) *Engine {
	return &Engine{
		documents: validate.Registry{},
		sources:   map[string]string{},
		limits:    limits,
		logger:    logger,
	}
}

func (e *Engine) logf(format string, args ...interface{}) {
	if e.logger != nil {
		e.logger.Printf(format, args...)
	}
}

// AddSource parses and validates one document's source text and merges it
// into the registry, per spec.md §3's "parse + validate + merge
// atomically: rollback on any failure." If sourceID is empty, a fresh one
// is minted so callers can still correlate error reports and traces.
// Validation runs over the full prospective registry (existing documents
// plus the new one) so cross-document references and cycles are checked in
// their final context; on any failure the registry is left completely
// unchanged.
func (e *Engine) AddSource(text string, sourceID string) (string, error) {
	if sourceID == "" {
		sourceID = uuid.NewString()
	}

	doc, err := parse.Document(text, sourceID, docFilename(sourceID), e.limits.parseLimits())
	if err != nil {
		return "", errors.Wrapf(err, "parsing source %q", sourceID)
	}

	candidate := make(validate.Registry, len(e.documents)+1)
	for name, d := range e.documents {
		candidate[name] = d
	}
	candidate[doc.Name] = doc

	if _, err := validate.Validate(candidate); err != nil {
		return "", err
	}

	e.documents = candidate
	e.sources[sourceID] = text
	e.logf("added document %q from source %q", doc.Name, sourceID)
	return sourceID, nil
}

func docFilename(sourceID string) string { return sourceID + ".lemma" }

// RemoveDocument drops name from the registry. Documents that reference it
// (FactDocumentReference, cross-document RuleReference) are left as-is;
// they will fail to re-validate the next time AddSource runs, per the
// atomic-merge contract above.
func (e *Engine) RemoveDocument(name string) {
	delete(e.documents, name)
	e.logf("removed document %q", name)
}

// ListDocuments returns every registered document's name, in no particular
// order (matching the teacher-descended original's plain map-keys listing).
func (e *Engine) ListDocuments() []string {
	names := make([]string, 0, len(e.documents))
	for name := range e.documents {
		names = append(names, name)
	}
	return names
}

// Document returns the named document, if registered.
func (e *Engine) Document(name string) (*ast.Document, bool) {
	d, ok := e.documents[name]
	return d, ok
}

// Evaluate runs every rule in docName (or just ruleFilter, when non-empty)
// under overrideFacts, per spec.md §4.E, bounded by the engine's configured
// evaluation-time limit.
func (e *Engine) Evaluate(docName string, overrideFacts []*ast.Fact, ruleFilter []string) (*response.Response, error) {
	doc, ok := e.documents[docName]
	if !ok {
		return nil, errors.Errorf("unknown document %q", docName)
	}
	return eval.Evaluate(e.documents, doc, overrideFacts, ruleFilter, e.limits.MaxEvaluationTimeMs)
}

// EvaluateOverrides parses batch (space-separated name=value tokens, shell-
// quoting honored) into override facts before evaluating, so HTTP/CLI
// callers never need to import the overrides package directly.
func (e *Engine) EvaluateOverrides(docName, batch string, ruleFilter []string) (*response.Response, error) {
	facts, err := overrides.ParseBatch(batch, docName, e.limits.parseLimits())
	if err != nil {
		return nil, err
	}
	return e.Evaluate(docName, facts, ruleFilter)
}

// Invert runs the inverter against docName's rule ruleName under target,
// per spec.md §4.Ix.
func (e *Engine) Invert(docName, ruleName string, target invert.Target, given map[string]value.Value) ([]response.Solution, error) {
	doc, ok := e.documents[docName]
	if !ok {
		return nil, errors.Errorf("unknown document %q", docName)
	}
	return invert.Invert(e.documents, doc, ruleName, target, given)
}

// ValidDomain is Invert with target fixed to "any non-veto value", per
// spec.md §3's get_valid_domain convenience (§4.X).
func (e *Engine) ValidDomain(docName, ruleName string, given map[string]value.Value) ([]response.Solution, error) {
	return e.Invert(docName, ruleName, invert.AnyValueTarget(), given)
}

// SourceText returns the raw text a source id was parsed from, for
// caret-style error rendering by callers that keep their own error UI.
func (e *Engine) SourceText(sourceID string) (string, bool) {
	text, ok := e.sources[sourceID]
	return text, ok
}
