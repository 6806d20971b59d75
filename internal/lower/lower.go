// Package lower translates a resolved ast.Program into sir.ProgramUnit,
// generalizing original_source/src/ast_lowering.rs's single-BinOp fragment
// to the full statement/expression set ast.Program supports.
package lower

import (
	"sort"

	"github.com/funvibe/umo/internal/ast"
	"github.com/funvibe/umo/internal/cctx"
	"github.com/funvibe/umo/internal/sir"
)

// Lower produces a function 0 for prog's main statement sequence plus one
// sir.Function per ast.FuncDecl (functions keep their declaration order
// from index 1 on, and every Closure instruction's FunctionID is offset
// by one accordingly).
func Lower(builtins *ast.BuiltinIDs, prog *ast.Program) *sir.ProgramUnit {
	pu := &sir.ProgramUnit{}

	funcIDOf := make(map[cctx.ID]int, len(prog.Funcs))
	for i, fn := range prog.Funcs {
		funcIDOf[fn.Name.ID] = i + 1
	}

	pu.Functions = append(pu.Functions, lowerFunction(builtins, nil, prog.Stmts, funcIDOf))
	for _, fn := range prog.Funcs {
		pu.Functions = append(pu.Functions, lowerFunction(builtins, fn.Params, fn.Body, funcIDOf))
	}

	return pu
}

// lowerFunction lowers one function body (params plus statements) into a
// single sir.Function, per spec.md §4.4.
func lowerFunction(builtins *ast.BuiltinIDs, params []ast.Ident, stmts []ast.Stmt, funcIDOf map[cctx.ID]int) *sir.Function {
	l := &fnLowering{builtins: builtins, funcIDOf: funcIDOf, varIDOf: make(map[cctx.ID]int)}

	for i, p := range params {
		l.varIDOf[p.ID] = i
	}
	numArgs := len(params)
	l.numVars = numArgs

	var referenced []cctx.ID
	seen := make(map[cctx.ID]bool)
	collectVarsStmts(stmts, func(id cctx.ID) {
		if !seen[id] {
			seen[id] = true
			referenced = append(referenced, id)
		}
	})
	sort.Slice(referenced, func(i, j int) bool { return referenced[i].Less(referenced[j]) })
	for _, id := range referenced {
		if _, isParam := l.varIDOf[id]; isParam {
			continue
		}
		if _, isFunc := funcIDOf[id]; isFunc {
			continue
		}
		if _, isBuiltin := builtins.KindOf(id); isBuiltin {
			continue
		}
		l.varIDOf[id] = l.numVars
		l.numVars++
	}

	fn := &sir.Function{NumArgs: numArgs}
	fn.Body = append(fn.Body, &sir.BasicBlock{})
	bb := 0

	resultVar := l.fresh()
	l.lowerStmts(fn, &bb, stmts, resultVar)
	l.push(fn, bb, sir.Return{Rhs: resultVar})

	fn.NumVars = l.numVars
	return fn
}

type fnLowering struct {
	builtins *ast.BuiltinIDs
	varIDOf  map[cctx.ID]int
	funcIDOf map[cctx.ID]int
	numVars  int
}

func (l *fnLowering) fresh() int {
	v := l.numVars
	l.numVars++
	return v
}
