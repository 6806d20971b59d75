// Package sirtypes re-validates type soundness after SIR lowering, using
// the same unification core as internal/astcheck (spec.md §4.5: testable
// property 8, typing soundness preservation).
package sirtypes

import (
	"fmt"

	"github.com/funvibe/umo/internal/ast"
	"github.com/funvibe/umo/internal/astcheck"
	"github.com/funvibe/umo/internal/sir"
	"github.com/funvibe/umo/internal/types"
)

// MismatchError reports a pinpointed unification failure, unlike
// astcheck's opaque types.UnificationFailure: SIR has stable
// function/block/inst coordinates to report, so this checker uses them.
type MismatchError struct {
	Pos   sir.Position
	Cause error
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("sir type mismatch at %s: %v", e.Pos, e.Cause)
}

func (e *MismatchError) Unwrap() error { return e.Cause }

// PendingArgsError reports a block whose PushArg stack was not empty at
// the end of the block. A Call whose pending argument count does not
// match the callee's arity is reported as a MismatchError instead.
type PendingArgsError struct {
	Pos sir.Position
}

func (e *PendingArgsError) Error() string {
	return fmt.Sprintf("pending PushArg stack not empty at %s", e.Pos)
}

// Check re-validates pu under the same unification engine astcheck uses,
// with one fresh function signature per sir.Function (so mutually
// recursive functions type-check) and one fresh type variable per local
// variable, per spec.md §4.5.
func Check(builtins *ast.BuiltinIDs, pu *sir.ProgramUnit) error {
	tyCtx := &types.TyCtx{}

	sigs := make([]types.Function, len(pu.Functions))
	for fid, fn := range pu.Functions {
		args := make([]types.Type, fn.NumArgs)
		for i := range args {
			args[i] = tyCtx.Fresh()
		}
		sigs[fid] = types.Function{Args: args, Ret: tyCtx.Fresh()}
	}

	for fid, fn := range pu.Functions {
		if err := checkFunction(tyCtx, builtins, pu, sigs, fid, fn); err != nil {
			return err
		}
	}
	return nil
}

func checkFunction(tyCtx *types.TyCtx, builtins *ast.BuiltinIDs, pu *sir.ProgramUnit, sigs []types.Function, fid int, fn *sir.Function) error {
	vars := make([]types.Type, fn.NumVars)
	for i := range vars {
		vars[i] = tyCtx.Fresh()
	}
	sig := sigs[fid]
	for i, argTy := range sig.Args {
		if err := tyCtx.Unify(vars[i], argTy); err != nil {
			return &MismatchError{Pos: sir.Position{FunctionID: fid}, Cause: err}
		}
	}

	for bid, bb := range fn.Body {
		if err := checkBlock(tyCtx, builtins, pu, sigs, sig, vars, fid, bid, bb); err != nil {
			return err
		}
	}
	return nil
}

func checkBlock(tyCtx *types.TyCtx, builtins *ast.BuiltinIDs, pu *sir.ProgramUnit, sigs []types.Function, sig types.Function, vars []types.Type, fid, bid int, bb *sir.BasicBlock) error {
	var pending []types.Type
	for iid, inst := range bb.Insts {
		i := iid
		pos := sir.Position{FunctionID: fid, BlockID: &bid, InstID: &i}
		unify := func(a, b types.Type) error {
			if err := tyCtx.Unify(a, b); err != nil {
				return &MismatchError{Pos: pos, Cause: err}
			}
			return nil
		}

		switch k := inst.Kind.(type) {
		case sir.Jump:
			// target validity is sir.Validate's job, not this checker's.
		case sir.Branch:
			if err := unify(vars[k.Cond], types.Bool{}); err != nil {
				return err
			}
		case sir.Return:
			if err := unify(vars[k.Rhs], sig.Ret); err != nil {
				return err
			}
		case sir.Copy:
			if err := unify(vars[k.Lhs], vars[k.Rhs]); err != nil {
				return err
			}
		case sir.Drop:
			// Drop imposes no type constraint.
		case sir.Literal:
			if err := unify(vars[k.Lhs], litType(k.Value)); err != nil {
				return err
			}
		case sir.Closure:
			if err := unify(vars[k.Lhs], sigs[k.FunctionID]); err != nil {
				return err
			}
		case sir.Builtin:
			if err := unify(vars[k.Lhs], astcheck.BuiltinType(k.Builtin)); err != nil {
				return err
			}
		case sir.PushArg:
			pending = append(pending, vars[k.ValueRef])
		case sir.Call:
			args := pending
			pending = nil
			retTy := tyCtx.Fresh()
			if err := unify(vars[k.Callee], types.Function{Args: args, Ret: retTy}); err != nil {
				return err
			}
			if err := unify(vars[k.Lhs], retTy); err != nil {
				return err
			}
		default:
			panic("sirtypes: unknown InstKind")
		}
	}
	if len(pending) != 0 {
		b := bid
		return &PendingArgsError{Pos: sir.Position{FunctionID: fid, BlockID: &b}}
	}
	return nil
}

func litType(lit sir.Lit) types.Type {
	switch lit.(type) {
	case sir.UnitLit:
		return types.Unit{}
	case sir.IntegerLit:
		return types.Integer{}
	case sir.BoolLit:
		return types.Bool{}
	case sir.StringLit:
		return types.String{}
	default:
		panic("sirtypes: unknown Lit variant")
	}
}
