// Package ast defines umo's abstract syntax tree together with the name
// resolution pass that assigns a stable cctx.ID to every binding and use
// site.
package ast

import "github.com/funvibe/umo/internal/cctx"

// Ident pairs a source-level name with the Id resolution assigns to it.
// Parsed identifiers carry the dummy Id; Resolve rewrites it in place.
type Ident struct {
	Name string
	ID   cctx.ID
}

// NewIdent builds an unresolved identifier as the parser produces it.
func NewIdent(name string) Ident {
	return Ident{Name: name}
}

// Stmt is a statement node: Let or Expr.
type Stmt interface {
	stmtNode()
}

// Let binds the value of Init to Lhs for the remainder of the enclosing
// block. Non-recursive: Init is resolved before Lhs becomes visible.
type Let struct {
	Lhs  Ident
	Init Expr
}

// ExprStmt evaluates Expr for effect; if UseValue is true, its value is the
// result of the enclosing block (only legal for the block's last statement).
type ExprStmt struct {
	Expr     Expr
	UseValue bool
}

func (*Let) stmtNode()      {}
func (*ExprStmt) stmtNode() {}

// Expr is an expression node.
type Expr interface {
	exprNode()
}

// Var reads the current value bound to Ident.
type Var struct {
	Ident Ident
}

// Branch evaluates Cond, then Then or Else depending on its truth.
type Branch struct {
	Cond, Then, Else Expr
}

// While repeatedly evaluates Body while Cond holds.
type While struct {
	Cond, Body Expr
}

// Block sequences Stmts, each owning the scope they introduce.
type Block struct {
	Stmts []Stmt
}

// Assign overwrites the value bound to Lhs with Rhs's value.
type Assign struct {
	Lhs Ident
	Rhs Expr
}

// Call invokes Callee with Args, evaluated left to right.
type Call struct {
	Callee Expr
	Args   []Expr
}

// IntegerLiteral is a 32-bit signed integer constant.
type IntegerLiteral struct {
	Value int32
}

// StringLiteral is a string constant.
type StringLiteral struct {
	Value string
}

// BinOp is one of the two built-in binary operators.
type BinOp struct {
	Op       BinOpKind
	Lhs, Rhs Expr
}

// BinOpKind distinguishes + from <.
type BinOpKind int

const (
	Add BinOpKind = iota
	Lt
)

func (*Var) exprNode()            {}
func (*Branch) exprNode()         {}
func (*While) exprNode()          {}
func (*Block) exprNode()          {}
func (*Assign) exprNode()         {}
func (*Call) exprNode()           {}
func (*IntegerLiteral) exprNode() {}
func (*StringLiteral) exprNode()  {}
func (*BinOp) exprNode()          {}

// FuncDecl declares a top-level, non-capturing function. Its Name is
// visible to its own Body (self/mutual recursion) and to every other
// top-level FuncDecl and the program's main Stmts.
type FuncDecl struct {
	Name   Ident
	Params []Ident
	Body   []Stmt
}

// Program is a whole resolved/resolvable source file: zero or more
// top-level function declarations plus the main statement sequence that
// runs first (sir lowering places it in function 0).
type Program struct {
	Funcs []*FuncDecl
	Stmts []Stmt
}

// BuiltinKind enumerates the closed set of host-provided primitives.
type BuiltinKind int

const (
	Puts BuiltinKind = iota
	Puti
	BuiltinAdd
	BuiltinLt
)

func (k BuiltinKind) String() string {
	switch k {
	case Puts:
		return "puts"
	case Puti:
		return "puti"
	case BuiltinAdd:
		return "+"
	case BuiltinLt:
		return "<"
	default:
		return "<unknown builtin>"
	}
}

// BuiltinIDs maps between BuiltinKind and the Ids allocated for them at
// startup, in both directions.
type BuiltinIDs struct {
	ids      map[BuiltinKind]cctx.ID
	builtins map[cctx.ID]BuiltinKind
}

// NewBuiltinIDs allocates one fresh Id per BuiltinKind from ctx.
func NewBuiltinIDs(ctx *cctx.Context) *BuiltinIDs {
	b := &BuiltinIDs{
		ids:      make(map[BuiltinKind]cctx.ID),
		builtins: make(map[cctx.ID]BuiltinKind),
	}
	for _, kind := range []BuiltinKind{Puts, Puti, BuiltinAdd, BuiltinLt} {
		id := ctx.Fresh()
		b.ids[kind] = id
		b.builtins[id] = kind
	}
	return b
}

// IDOf returns the Id reserved for kind.
func (b *BuiltinIDs) IDOf(kind BuiltinKind) cctx.ID {
	return b.ids[kind]
}

// KindOf reports whether id names a builtin, and which one.
func (b *BuiltinIDs) KindOf(id cctx.ID) (BuiltinKind, bool) {
	kind, ok := b.builtins[id]
	return kind, ok
}

// names lists the source-level identifiers bound to builtins in the
// initial scope. Add and Lt are reached primarily through BinOp syntax, but
// still occupy a name per spec so `let f = add;`-style references resolve.
func (b *BuiltinIDs) names() map[string]BuiltinKind {
	return map[string]BuiltinKind{
		"puts": Puts,
		"puti": Puti,
		"add":  BuiltinAdd,
		"lt":   BuiltinLt,
	}
}
