package ast

import "github.com/funvibe/umo/internal/cctx"

// ResolutionError reports a reference to an undefined identifier. It is
// fatal: the pipeline stops and surfaces it rather than attempting any
// recovery.
type ResolutionError struct {
	Name string
}

func (e *ResolutionError) Error() string {
	return "undefined variable: " + e.Name
}

type shadow struct {
	name  string
	prior cctx.ID
	had   bool
}

// Scope is a push/pop stack of bindings: Block resolution snapshots the
// stack, recurses, and rolls back on exit so sibling and outer bindings are
// restored without ever cloning the whole binding map.
type Scope struct {
	bindings map[string]cctx.ID
	stack    []shadow
}

// NewScope builds the initial scope with every builtin name pre-bound.
func NewScope(builtins *BuiltinIDs) *Scope {
	s := &Scope{bindings: make(map[string]cctx.ID)}
	for name, kind := range builtins.names() {
		s.insert(name, builtins.IDOf(kind))
	}
	return s
}

func (s *Scope) insert(name string, id cctx.ID) {
	prior, had := s.bindings[name]
	s.stack = append(s.stack, shadow{name: name, prior: prior, had: had})
	s.bindings[name] = id
}

func (s *Scope) lookup(name string) (cctx.ID, bool) {
	id, ok := s.bindings[name]
	return id, ok
}

func (s *Scope) checkpoint() int {
	return len(s.stack)
}

func (s *Scope) rollback(checkpoint int) {
	for i := len(s.stack) - 1; i >= checkpoint; i-- {
		sh := s.stack[i]
		if sh.had {
			s.bindings[sh.name] = sh.prior
		} else {
			delete(s.bindings, sh.name)
		}
	}
	s.stack = s.stack[:checkpoint]
}

// Resolve assigns a fresh, stable Id to every binding site in prog and
// rewrites every use site's Ident.Id to match, under the bindings visible
// in scope. It mutates prog in place.
func Resolve(ctx *cctx.Context, scope *Scope, prog *Program) error {
	checkpoint := scope.checkpoint()
	for _, fn := range prog.Funcs {
		fn.Name.ID = ctx.Fresh()
		scope.insert(fn.Name.Name, fn.Name.ID)
	}
	for _, fn := range prog.Funcs {
		if err := resolveFuncBody(ctx, scope, fn); err != nil {
			return err
		}
	}
	if err := resolveStmts(ctx, scope, prog.Stmts); err != nil {
		return err
	}
	scope.rollback(checkpoint)
	return nil
}

func resolveFuncBody(ctx *cctx.Context, scope *Scope, fn *FuncDecl) error {
	checkpoint := scope.checkpoint()
	defer scope.rollback(checkpoint)
	for i := range fn.Params {
		fn.Params[i].ID = ctx.Fresh()
		scope.insert(fn.Params[i].Name, fn.Params[i].ID)
	}
	return resolveStmts(ctx, scope, fn.Body)
}

func resolveStmts(ctx *cctx.Context, scope *Scope, stmts []Stmt) error {
	checkpoint := scope.checkpoint()
	defer scope.rollback(checkpoint)
	for _, stmt := range stmts {
		if err := resolveStmt(ctx, scope, stmt); err != nil {
			return err
		}
	}
	return nil
}

func resolveStmt(ctx *cctx.Context, scope *Scope, stmt Stmt) error {
	switch s := stmt.(type) {
	case *Let:
		if err := resolveExpr(ctx, scope, s.Init); err != nil {
			return err
		}
		s.Lhs.ID = ctx.Fresh()
		scope.insert(s.Lhs.Name, s.Lhs.ID)
		return nil
	case *ExprStmt:
		return resolveExpr(ctx, scope, s.Expr)
	default:
		panic("ast: unknown Stmt variant")
	}
}

func resolveExpr(ctx *cctx.Context, scope *Scope, expr Expr) error {
	switch e := expr.(type) {
	case *Var:
		id, ok := scope.lookup(e.Ident.Name)
		if !ok {
			return &ResolutionError{Name: e.Ident.Name}
		}
		e.Ident.ID = id
		return nil
	case *Branch:
		if err := resolveExpr(ctx, scope, e.Cond); err != nil {
			return err
		}
		if err := resolveExpr(ctx, scope, e.Then); err != nil {
			return err
		}
		return resolveExpr(ctx, scope, e.Else)
	case *While:
		if err := resolveExpr(ctx, scope, e.Cond); err != nil {
			return err
		}
		return resolveExpr(ctx, scope, e.Body)
	case *Block:
		return resolveStmts(ctx, scope, e.Stmts)
	case *Assign:
		if err := resolveExpr(ctx, scope, e.Rhs); err != nil {
			return err
		}
		id, ok := scope.lookup(e.Lhs.Name)
		if !ok {
			return &ResolutionError{Name: e.Lhs.Name}
		}
		e.Lhs.ID = id
		return nil
	case *Call:
		if err := resolveExpr(ctx, scope, e.Callee); err != nil {
			return err
		}
		for _, arg := range e.Args {
			if err := resolveExpr(ctx, scope, arg); err != nil {
				return err
			}
		}
		return nil
	case *IntegerLiteral, *StringLiteral:
		return nil
	case *BinOp:
		if err := resolveExpr(ctx, scope, e.Lhs); err != nil {
			return err
		}
		return resolveExpr(ctx, scope, e.Rhs)
	default:
		panic("ast: unknown Expr variant")
	}
}
