package lower

import (
	"github.com/funvibe/umo/internal/ast"
	"github.com/funvibe/umo/internal/cctx"
	"github.com/funvibe/umo/internal/sir"
)

func (l *fnLowering) push(fn *sir.Function, bb int, kind sir.InstKind) {
	fn.Body[bb].Insts = append(fn.Body[bb].Insts, &sir.Inst{Kind: kind})
}

func (l *fnLowering) newBlock(fn *sir.Function) int {
	fn.Body = append(fn.Body, &sir.BasicBlock{})
	return len(fn.Body) - 1
}

// lowerStmts lowers a statement sequence into *bb, writing resultVar with
// the value of the last statement (spec.md §4.4 item 3): only the last
// statement ever writes resultVar directly, earlier ones get a fresh
// discard slot, and a !use_value last statement still writes Unit into
// resultVar so callers always find a well-typed value there.
func (l *fnLowering) lowerStmts(fn *sir.Function, bb *int, stmts []ast.Stmt, resultVar int) {
	for i, stmt := range stmts {
		isLast := i == len(stmts)-1
		if isLast {
			l.lowerStmt(fn, bb, stmt, &resultVar)
		} else {
			l.lowerStmt(fn, bb, stmt, nil)
		}
	}
	if len(stmts) == 0 {
		l.push(fn, *bb, sir.Literal{Lhs: resultVar, Value: sir.UnitLit{}})
	}
}

func (l *fnLowering) lowerStmt(fn *sir.Function, bb *int, stmt ast.Stmt, resultVar *int) {
	switch s := stmt.(type) {
	case *ast.Let:
		varID := l.varIDOf[s.Lhs.ID]
		l.lowerExpr(fn, bb, s.Init, varID)
		if resultVar != nil {
			l.push(fn, *bb, sir.Literal{Lhs: *resultVar, Value: sir.UnitLit{}})
		}
	case *ast.ExprStmt:
		var target int
		if s.UseValue && resultVar != nil {
			target = *resultVar
		} else {
			target = l.fresh()
		}
		l.lowerExpr(fn, bb, s.Expr, target)
		if resultVar != nil && !s.UseValue {
			l.push(fn, *bb, sir.Literal{Lhs: *resultVar, Value: sir.UnitLit{}})
		}
	default:
		panic("lower: unknown Stmt variant")
	}
}

// lowerExpr2 lowers expr into a fresh temporary and returns its slot,
// mirroring ast_lowering.rs's lower_expr2 helper used for operand
// sub-expressions that need their own slot.
func (l *fnLowering) lowerExpr2(fn *sir.Function, bb *int, expr ast.Expr) int {
	v := l.fresh()
	l.lowerExpr(fn, bb, expr, v)
	return v
}

func (l *fnLowering) lowerExpr(fn *sir.Function, bb *int, expr ast.Expr, resultVar int) {
	switch e := expr.(type) {
	case *ast.Var:
		if funcID, ok := l.funcIDOf[e.Ident.ID]; ok {
			l.push(fn, *bb, sir.Closure{Lhs: resultVar, FunctionID: funcID})
			return
		}
		if kind, ok := l.builtins.KindOf(e.Ident.ID); ok {
			l.push(fn, *bb, sir.Builtin{Lhs: resultVar, Builtin: kind})
			return
		}
		l.push(fn, *bb, sir.Copy{Lhs: resultVar, Rhs: l.varIDOf[e.Ident.ID]})
	case *ast.Branch:
		condVar := l.lowerExpr2(fn, bb, e.Cond)
		branchBB := *bb

		thenBB := l.newBlock(fn)
		*bb = thenBB
		l.lowerExpr(fn, bb, e.Then, resultVar)
		thenEnd := *bb

		elseBB := l.newBlock(fn)
		*bb = elseBB
		l.lowerExpr(fn, bb, e.Else, resultVar)
		elseEnd := *bb

		contBB := l.newBlock(fn)

		l.push(fn, branchBB, sir.Branch{Cond: condVar, Then: thenBB, Else: elseBB})
		l.push(fn, thenEnd, sir.Jump{Target: contBB})
		l.push(fn, elseEnd, sir.Jump{Target: contBB})
		*bb = contBB
	case *ast.While:
		prevBB := *bb

		condBB := l.newBlock(fn)
		condVar := l.fresh()
		*bb = condBB
		l.lowerExpr(fn, bb, e.Cond, condVar)
		condEnd := *bb

		bodyBB := l.newBlock(fn)
		*bb = bodyBB
		bodyResult := l.fresh()
		l.lowerExpr(fn, bb, e.Body, bodyResult)
		bodyEnd := *bb

		contBB := l.newBlock(fn)

		l.push(fn, prevBB, sir.Jump{Target: condBB})
		l.push(fn, condEnd, sir.Branch{Cond: condVar, Then: bodyBB, Else: contBB})
		l.push(fn, bodyEnd, sir.Jump{Target: condBB})
		l.push(fn, contBB, sir.Literal{Lhs: resultVar, Value: sir.UnitLit{}})
		*bb = contBB
	case *ast.Block:
		l.lowerStmts(fn, bb, e.Stmts, resultVar)
	case *ast.Assign:
		l.lowerExpr(fn, bb, e.Rhs, l.varIDOf[e.Lhs.ID])
		l.push(fn, *bb, sir.Literal{Lhs: resultVar, Value: sir.UnitLit{}})
	case *ast.Call:
		calleeVar := l.lowerExpr2(fn, bb, e.Callee)
		argVars := make([]int, len(e.Args))
		for i, arg := range e.Args {
			argVars[i] = l.lowerExpr2(fn, bb, arg)
		}
		for _, v := range argVars {
			l.push(fn, *bb, sir.PushArg{ValueRef: v})
		}
		l.push(fn, *bb, sir.Call{Lhs: resultVar, Callee: calleeVar})
	case *ast.IntegerLiteral:
		l.push(fn, *bb, sir.Literal{Lhs: resultVar, Value: sir.IntegerLit{Value: e.Value}})
	case *ast.StringLiteral:
		l.push(fn, *bb, sir.Literal{Lhs: resultVar, Value: sir.StringLit{Value: e.Value}})
	case *ast.BinOp:
		lhsVar := l.lowerExpr2(fn, bb, e.Lhs)
		rhsVar := l.lowerExpr2(fn, bb, e.Rhs)
		calleeVar := l.fresh()
		l.push(fn, *bb, sir.Builtin{Lhs: calleeVar, Builtin: binOpBuiltin(e.Op)})
		l.push(fn, *bb, sir.PushArg{ValueRef: lhsVar})
		l.push(fn, *bb, sir.PushArg{ValueRef: rhsVar})
		l.push(fn, *bb, sir.Call{Lhs: resultVar, Callee: calleeVar})
	default:
		panic("lower: unknown Expr variant")
	}
}

func binOpBuiltin(op ast.BinOpKind) ast.BuiltinKind {
	switch op {
	case ast.Add:
		return ast.BuiltinAdd
	case ast.Lt:
		return ast.BuiltinLt
	default:
		panic("lower: unknown BinOpKind")
	}
}

func collectVarsStmts(stmts []ast.Stmt, visit func(cctx.ID)) {
	for _, stmt := range stmts {
		collectVarsStmt(stmt, visit)
	}
}

func collectVarsStmt(stmt ast.Stmt, visit func(cctx.ID)) {
	switch s := stmt.(type) {
	case *ast.Let:
		visit(s.Lhs.ID)
		collectVarsExpr(s.Init, visit)
	case *ast.ExprStmt:
		collectVarsExpr(s.Expr, visit)
	default:
		panic("lower: unknown Stmt variant")
	}
}

func collectVarsExpr(expr ast.Expr, visit func(cctx.ID)) {
	switch e := expr.(type) {
	case *ast.Var:
		visit(e.Ident.ID)
	case *ast.Branch:
		collectVarsExpr(e.Cond, visit)
		collectVarsExpr(e.Then, visit)
		collectVarsExpr(e.Else, visit)
	case *ast.While:
		collectVarsExpr(e.Cond, visit)
		collectVarsExpr(e.Body, visit)
	case *ast.Block:
		collectVarsStmts(e.Stmts, visit)
	case *ast.Assign:
		visit(e.Lhs.ID)
		collectVarsExpr(e.Rhs, visit)
	case *ast.Call:
		collectVarsExpr(e.Callee, visit)
		for _, arg := range e.Args {
			collectVarsExpr(arg, visit)
		}
	case *ast.IntegerLiteral, *ast.StringLiteral:
	case *ast.BinOp:
		collectVarsExpr(e.Lhs, visit)
		collectVarsExpr(e.Rhs, visit)
	default:
		panic("lower: unknown Expr variant")
	}
}
