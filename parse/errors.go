package parse

import "github.com/lemma-lang/lemma/ast"

// Error is a parse failure: the grammar rejected the input at Span. It
// carries everything an error renderer needs for caret-style output without
// re-deriving it from the engine.
type Error struct {
	Span       ast.Span
	Message    string
	SourceID   string
	DocName    string
	Filename   string
	StartLine  int
	SourceText string
	Suggestion string
}

func (e *Error) Error() string {
	if e.Suggestion != "" {
		return e.Message + " (" + e.Suggestion + ")"
	}
	return e.Message
}

// ResourceLimitExceeded is raised when a parse exceeds a configured bound
// (file size or expression nesting depth).
type ResourceLimitExceeded struct {
	LimitName  string
	LimitValue int
	Actual     int
	Suggestion string
}

func (e *ResourceLimitExceeded) Error() string {
	return "resource limit exceeded: " + e.LimitName
}
