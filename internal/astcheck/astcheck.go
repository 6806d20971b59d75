// Package astcheck implements the Hindley-Milner-style type checker that
// runs directly over a resolved ast.Program, before SIR lowering.
package astcheck

import (
	"github.com/funvibe/umo/internal/ast"
	"github.com/funvibe/umo/internal/cctx"
	"github.com/funvibe/umo/internal/types"
)

// checker carries the per-run unification context and the type recorded
// for each resolved variable id, mirroring original_source's TypeChecker.
type checker struct {
	tyCtx    *types.TyCtx
	varTypes map[cctx.ID]types.Type
}

// Check type-checks prog, assuming builtins' signatures are already known.
// The program as a whole must type to Unit (its last top-level statement,
// if any, must use_value=false or type Unit).
func Check(builtins *ast.BuiltinIDs, prog *ast.Program) error {
	c := &checker{tyCtx: &types.TyCtx{}, varTypes: make(map[cctx.ID]types.Type)}
	for _, kind := range []ast.BuiltinKind{ast.Puts, ast.Puti, ast.BuiltinAdd, ast.BuiltinLt} {
		c.varTypes[builtins.IDOf(kind)] = builtinType(kind)
	}

	// Function signatures are bound to fresh meta-vars before any body is
	// walked so mutually-recursive top-level functions type-check.
	sigs := make(map[cctx.ID]types.Function, len(prog.Funcs))
	for _, fn := range prog.Funcs {
		args := make([]types.Type, len(fn.Params))
		for i := range args {
			args[i] = c.tyCtx.Fresh()
		}
		sig := types.Function{Args: args, Ret: c.tyCtx.Fresh()}
		sigs[fn.Name.ID] = sig
		c.varTypes[fn.Name.ID] = sig
	}
	for _, fn := range prog.Funcs {
		sig := sigs[fn.Name.ID]
		for i, p := range fn.Params {
			c.varTypes[p.ID] = sig.Args[i]
		}
		bodyTy, err := c.checkStmts(fn.Body)
		if err != nil {
			return err
		}
		if err := c.tyCtx.Unify(bodyTy, sig.Ret); err != nil {
			return err
		}
	}

	ty, err := c.checkStmts(prog.Stmts)
	if err != nil {
		return err
	}
	return c.tyCtx.Unify(ty, types.Unit{})
}

func (c *checker) checkStmts(stmts []ast.Stmt) (types.Type, error) {
	result := types.Type(types.Unit{})
	for _, stmt := range stmts {
		ty, err := c.checkStmt(stmt)
		if err != nil {
			return nil, err
		}
		result = ty
	}
	return result, nil
}

func (c *checker) checkStmt(stmt ast.Stmt) (types.Type, error) {
	switch s := stmt.(type) {
	case *ast.Let:
		ty, err := c.checkExpr(s.Init)
		if err != nil {
			return nil, err
		}
		c.varTypes[s.Lhs.ID] = ty
		return types.Unit{}, nil
	case *ast.ExprStmt:
		ty, err := c.checkExpr(s.Expr)
		if err != nil {
			return nil, err
		}
		if s.UseValue {
			return ty, nil
		}
		return types.Unit{}, nil
	default:
		panic("astcheck: unknown Stmt variant")
	}
}

func (c *checker) checkExpr(expr ast.Expr) (types.Type, error) {
	switch e := expr.(type) {
	case *ast.Var:
		return c.varTypes[e.Ident.ID], nil
	case *ast.Branch:
		condTy, err := c.checkExpr(e.Cond)
		if err != nil {
			return nil, err
		}
		if err := c.tyCtx.Unify(condTy, types.Bool{}); err != nil {
			return nil, err
		}
		thenTy, err := c.checkExpr(e.Then)
		if err != nil {
			return nil, err
		}
		elseTy, err := c.checkExpr(e.Else)
		if err != nil {
			return nil, err
		}
		if err := c.tyCtx.Unify(thenTy, elseTy); err != nil {
			return nil, err
		}
		return thenTy, nil
	case *ast.While:
		condTy, err := c.checkExpr(e.Cond)
		if err != nil {
			return nil, err
		}
		if err := c.tyCtx.Unify(condTy, types.Bool{}); err != nil {
			return nil, err
		}
		bodyTy, err := c.checkExpr(e.Body)
		if err != nil {
			return nil, err
		}
		if err := c.tyCtx.Unify(bodyTy, types.Unit{}); err != nil {
			return nil, err
		}
		return types.Unit{}, nil
	case *ast.Block:
		return c.checkStmts(e.Stmts)
	case *ast.Assign:
		lhsTy := c.varTypes[e.Lhs.ID]
		rhsTy, err := c.checkExpr(e.Rhs)
		if err != nil {
			return nil, err
		}
		if err := c.tyCtx.Unify(lhsTy, rhsTy); err != nil {
			return nil, err
		}
		return types.Unit{}, nil
	case *ast.Call:
		calleeTy, err := c.checkExpr(e.Callee)
		if err != nil {
			return nil, err
		}
		argTys := make([]types.Type, len(e.Args))
		for i, arg := range e.Args {
			argTy, err := c.checkExpr(arg)
			if err != nil {
				return nil, err
			}
			argTys[i] = argTy
		}
		retTy := c.tyCtx.Fresh()
		if err := c.tyCtx.Unify(calleeTy, types.Function{Args: argTys, Ret: retTy}); err != nil {
			return nil, err
		}
		return retTy, nil
	case *ast.IntegerLiteral:
		return types.Integer{}, nil
	case *ast.StringLiteral:
		return types.String{}, nil
	case *ast.BinOp:
		lhsTy, err := c.checkExpr(e.Lhs)
		if err != nil {
			return nil, err
		}
		rhsTy, err := c.checkExpr(e.Rhs)
		if err != nil {
			return nil, err
		}
		retTy := c.tyCtx.Fresh()
		opTy := binOpType(e.Op)
		if err := c.tyCtx.Unify(opTy, types.Function{Args: []types.Type{lhsTy, rhsTy}, Ret: retTy}); err != nil {
			return nil, err
		}
		return retTy, nil
	default:
		panic("astcheck: unknown Expr variant")
	}
}

func binOpType(op ast.BinOpKind) types.Type {
	switch op {
	case ast.Add:
		return types.Function{Args: []types.Type{types.Integer{}, types.Integer{}}, Ret: types.Integer{}}
	case ast.Lt:
		return types.Function{Args: []types.Type{types.Integer{}, types.Integer{}}, Ret: types.Bool{}}
	default:
		panic("astcheck: unknown BinOpKind")
	}
}

// BuiltinType returns the closed signature type for kind, shared with
// internal/sirtypes so both checkers agree on builtin typing.
func BuiltinType(kind ast.BuiltinKind) types.Type {
	return builtinType(kind)
}

func builtinType(kind ast.BuiltinKind) types.Type {
	switch kind {
	case ast.Puts:
		return types.Function{Args: []types.Type{types.String{}}, Ret: types.Unit{}}
	case ast.Puti:
		return types.Function{Args: []types.Type{types.Integer{}}, Ret: types.Unit{}}
	case ast.BuiltinAdd:
		return types.Function{Args: []types.Type{types.Integer{}, types.Integer{}}, Ret: types.Integer{}}
	case ast.BuiltinLt:
		return types.Function{Args: []types.Type{types.Integer{}, types.Integer{}}, Ret: types.Bool{}}
	default:
		panic("astcheck: unknown BuiltinKind")
	}
}
