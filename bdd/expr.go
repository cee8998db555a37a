package bdd

// Kind tags which shape an Expr holds.
type Kind int

const (
	ConstKind Kind = iota
	TerminalKind
	NotKind
	AndKind
	OrKind
)

// Expr is a boolean formula over integer-indexed atoms — the bridge
// type invert/boolean.go translates ast.Expression subtrees to and from,
// mirroring the single-struct discriminated-union shape ast.Expression and
// response.Domain already use elsewhere in this module.
type Expr struct {
	Kind Kind

	Const bool // ConstKind
	Atom  int  // TerminalKind: index into the caller's atom table

	Operand *Expr // NotKind
	LHS, RHS *Expr // AndKind, OrKind
}

func ConstExpr(b bool) Expr { return Expr{Kind: ConstKind, Const: b} }

func TerminalExpr(atom int) Expr { return Expr{Kind: TerminalKind, Atom: atom} }

func NotExpr(e Expr) Expr { return Expr{Kind: NotKind, Operand: &e} }

func AndExpr(l, r Expr) Expr { return Expr{Kind: AndKind, LHS: &l, RHS: &r} }

func OrExpr(l, r Expr) Expr { return Expr{Kind: OrKind, LHS: &l, RHS: &r} }
