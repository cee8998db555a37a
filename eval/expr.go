package eval

import (
	"github.com/lemma-lang/lemma/ast"
	"github.com/lemma-lang/lemma/response"
	"github.com/lemma-lang/lemma/unit"
	"github.com/lemma-lang/lemma/validate"
	"github.com/lemma-lang/lemma/value"
)

// opResult is the internal evaluation result of an expression or rule:
// either a concrete Value or a Veto, mirroring original_source/lemma's
// OperationResult.
type opResult struct {
	Vetoed  bool
	Message *string
	Value   value.Value
}

func valueResult(v value.Value) opResult { return opResult{Value: v} }
func vetoResult(msg *string) opResult    { return opResult{Vetoed: true, Message: msg} }

// evalState carries everything a single evaluate() call threads through
// expression and rule evaluation: the registry (for RuleReference/
// cross-document fact resolution), the flat fact map, the operation trace,
// and the rule-result memo cache.
type evalState struct {
	reg        validate.Registry
	facts      map[string]value.Value
	operations []response.OperationRecord
	nextOpID   response.OperationID
	ruleMemo   map[string]opResult
	tracker    *timeoutTracker
	maxMs      uint64
}

func (s *evalState) record(parent *response.OperationID, depth int, build func(id response.OperationID) response.OperationRecord) response.OperationID {
	id := s.nextOpID
	s.nextOpID++
	rec := build(id)
	rec.ID = id
	rec.ParentID = parent
	rec.Depth = depth
	s.operations = append(s.operations, rec)
	return id
}

// evalExpr evaluates e in the context of doc (the document that owns e),
// qualifying any FactReference/RuleReference path with factPrefix — the
// dotted chain of DocumentReference fact names leading from the
// originally-evaluated document down to doc.
func (s *evalState) evalExpr(doc *ast.Document, factPrefix []string, e *ast.Expression, parent *response.OperationID, depth int) (opResult, error) {
	if err := s.tracker.check(s.maxMs); err != nil {
		return opResult{}, err
	}

	switch e.Kind {
	case ast.Literal:
		return valueResult(e.LiteralValue), nil

	case ast.FactReference:
		key := factKey(append(append([]string{}, factPrefix...), e.Path...))
		v, ok := s.facts[key]
		if !ok {
			return opResult{}, &MissingFact{DocName: doc.Name, Path: e.Path}
		}
		s.record(parent, depth, func(id response.OperationID) response.OperationRecord {
			return response.OperationRecord{Kind: response.FactUsed, Path: e.Path, Value: v}
		})
		return valueResult(v), nil

	case ast.FactHasAnyValue:
		key := factKey(append(append([]string{}, factPrefix...), e.Path...))
		_, ok := s.facts[key]
		return valueResult(value.NewBoolean(ok)), nil

	case ast.RuleReference:
		rule, owner, err := validate.ResolveRuleReference(s.reg, doc, e.Path)
		if err != nil {
			return opResult{}, &RuntimeError{DocName: doc.Name, Message: err.Error(), Operations: s.operations}
		}
		nestedPrefix := append(append([]string{}, factPrefix...), e.Path[:len(e.Path)-1]...)
		res, err := s.evaluateRuleMemoized(owner, rule, nestedPrefix, depth+1)
		if err != nil {
			return opResult{}, err
		}
		if !res.Vetoed {
			s.record(parent, depth, func(id response.OperationID) response.OperationRecord {
				return response.OperationRecord{Kind: response.RuleUsed, Path: e.Path, Value: res.Value}
			})
		}
		return res, nil

	case ast.Veto:
		return vetoResult(e.VetoMessage), nil

	case ast.LogicalNegation:
		operand, err := s.evalExpr(doc, factPrefix, e.Operand, parent, depth)
		if err != nil || operand.Vetoed {
			return operand, err
		}
		if operand.Value.Type != value.Boolean {
			return opResult{}, s.runtimeErr(doc, e.Span, "'not' requires a boolean operand")
		}
		return valueResult(value.NewBoolean(!operand.Value.Bool)), nil

	case ast.LogicalAnd, ast.LogicalOr:
		lhs, err := s.evalExpr(doc, factPrefix, e.LHS, parent, depth)
		if err != nil || lhs.Vetoed {
			return lhs, err
		}
		if lhs.Value.Type != value.Boolean {
			return opResult{}, s.runtimeErr(doc, e.LHS.Span, "logical operator requires boolean operands")
		}
		if e.Kind == ast.LogicalAnd && !lhs.Value.Bool {
			return valueResult(value.NewBoolean(false)), nil
		}
		if e.Kind == ast.LogicalOr && lhs.Value.Bool {
			return valueResult(value.NewBoolean(true)), nil
		}
		rhs, err := s.evalExpr(doc, factPrefix, e.RHS, parent, depth)
		if err != nil || rhs.Vetoed {
			return rhs, err
		}
		if rhs.Value.Type != value.Boolean {
			return opResult{}, s.runtimeErr(doc, e.RHS.Span, "logical operator requires boolean operands")
		}
		return valueResult(rhs.Value), nil

	case ast.Comparison:
		return s.evalComparison(doc, factPrefix, e, parent, depth)

	case ast.Arithmetic:
		return s.evalArithmetic(doc, factPrefix, e, parent, depth)

	case ast.UnitConversion:
		operand, err := s.evalExpr(doc, factPrefix, e.Operand, parent, depth)
		if err != nil || operand.Vetoed {
			return operand, err
		}
		target, ok := unit.Lookup(unit.Category(e.TargetUnitCategory), e.TargetUnitName)
		if !ok {
			return opResult{}, s.runtimeErr(doc, e.Span, "unknown unit "+e.TargetUnitName)
		}
		converted, err := value.ConvertTo(operand.Value, target)
		if err != nil {
			return opResult{}, s.runtimeErr(doc, e.Span, err.Error())
		}
		return valueResult(converted), nil

	case ast.MathematicalComputation:
		return s.evalMath(doc, factPrefix, e, parent, depth)

	default:
		return opResult{}, s.runtimeErr(doc, e.Span, "unsupported expression kind")
	}
}

func (s *evalState) evalComparison(doc *ast.Document, factPrefix []string, e *ast.Expression, parent *response.OperationID, depth int) (opResult, error) {
	id := s.record(parent, depth, func(id response.OperationID) response.OperationRecord {
		return response.OperationRecord{Kind: response.Computation, ComputationKind: response.ComparisonComputation}
	})
	lhs, err := s.evalExpr(doc, factPrefix, e.LHS, &id, depth+1)
	if err != nil || lhs.Vetoed {
		return lhs, err
	}
	rhs, err := s.evalExpr(doc, factPrefix, e.RHS, &id, depth+1)
	if err != nil || rhs.Vetoed {
		return rhs, err
	}
	result, err := value.Compare(e.CompareOp, lhs.Value, rhs.Value)
	if err != nil {
		return opResult{}, s.runtimeErr(doc, e.Span, err.Error())
	}
	out := value.NewBoolean(result)
	s.fillComputation(id, []value.Value{lhs.Value, rhs.Value}, out)
	return valueResult(out), nil
}

func (s *evalState) evalArithmetic(doc *ast.Document, factPrefix []string, e *ast.Expression, parent *response.OperationID, depth int) (opResult, error) {
	id := s.record(parent, depth, func(id response.OperationID) response.OperationRecord {
		return response.OperationRecord{Kind: response.Computation, ComputationKind: response.ArithmeticComputation}
	})
	lhs, err := s.evalExpr(doc, factPrefix, e.LHS, &id, depth+1)
	if err != nil || lhs.Vetoed {
		return lhs, err
	}
	rhs, err := s.evalExpr(doc, factPrefix, e.RHS, &id, depth+1)
	if err != nil || rhs.Vetoed {
		return rhs, err
	}
	result, err := value.Arithmetic(e.ArithOp, lhs.Value, rhs.Value)
	if err != nil {
		return opResult{}, s.runtimeErr(doc, e.Span, err.Error())
	}
	s.fillComputation(id, []value.Value{lhs.Value, rhs.Value}, result)
	return valueResult(result), nil
}

func (s *evalState) evalMath(doc *ast.Document, factPrefix []string, e *ast.Expression, parent *response.OperationID, depth int) (opResult, error) {
	id := s.record(parent, depth, func(id response.OperationID) response.OperationRecord {
		return response.OperationRecord{Kind: response.Computation, ComputationKind: response.MathematicalComputation}
	})
	operand, err := s.evalExpr(doc, factPrefix, e.Operand, &id, depth+1)
	if err != nil || operand.Vetoed {
		return operand, err
	}
	result, err := value.Mathematical(e.MathOp, operand.Value)
	if err != nil {
		return opResult{}, s.runtimeErr(doc, e.Span, err.Error())
	}
	s.fillComputation(id, []value.Value{operand.Value}, result)
	return valueResult(result), nil
}

// fillComputation back-patches the Computation record created before its
// operands were evaluated (so children can reference it as parent) with
// the inputs/result now known.
func (s *evalState) fillComputation(id response.OperationID, inputs []value.Value, result value.Value) {
	for i := range s.operations {
		if s.operations[i].ID == id {
			s.operations[i].Inputs = inputs
			s.operations[i].Result = result
			return
		}
	}
}

func (s *evalState) runtimeErr(doc *ast.Document, span ast.Span, msg string) error {
	return &RuntimeError{DocName: doc.Name, Span: span, Message: msg, Operations: s.operations}
}
