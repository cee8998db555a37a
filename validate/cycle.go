package validate

import "github.com/lemma-lang/lemma/ast"

// detectCycles builds the rule-to-rule dependency graph (an edge from rule
// A to rule B whenever any expression in A's default, conditions, or
// unless-results contains a RuleReference resolving to B) and rejects any
// strongly-connected component with more than one node, or a self-loop,
// per spec.md §4.S.6.
func detectCycles(reg Registry, docs []*ast.Document) error {
	edges := map[string][]string{}
	for _, doc := range docs {
		for i := range doc.Rules {
			r := &doc.Rules[i]
			from := ruleKey(doc, r.Name)
			addDeps := func(e *ast.Expression) {
				ast.Walk(e, func(n *ast.Expression) bool {
					if n.Kind == ast.RuleReference {
						if rule, owner, err := ResolveRuleReference(reg, doc, n.Path); err == nil {
							edges[from] = append(edges[from], ruleKey(owner, rule.Name))
						}
					}
					return true
				})
			}
			addDeps(r.Default)
			for _, clause := range r.UnlessClauses {
				addDeps(clause.Condition)
				if clause.ResultKind == ast.ResultExpression {
					addDeps(clause.Result)
				}
			}
		}
	}

	const (
		white = iota
		gray
		black
	)
	color := map[string]int{}
	var path []string
	var cyclePath []string

	var visit func(n string) bool
	visit = func(n string) bool {
		color[n] = gray
		path = append(path, n)
		for _, m := range edges[n] {
			if m == n {
				cyclePath = []string{n, n}
				return true
			}
			switch color[m] {
			case white:
				if visit(m) {
					return true
				}
			case gray:
				// Found a back-edge into the current path: extract the cycle.
				idx := indexOf(path, m)
				cyclePath = append(append([]string{}, path[idx:]...), m)
				return true
			}
		}
		path = path[:len(path)-1]
		color[n] = black
		return false
	}

	for n := range edges {
		if color[n] == white {
			if visit(n) {
				return &CircularDependency{Cycle: cyclePath}
			}
		}
	}
	return nil
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
