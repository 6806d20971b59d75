package sirtypes_test

import (
	"errors"
	"testing"

	"github.com/funvibe/umo/internal/ast"
	"github.com/funvibe/umo/internal/cctx"
	"github.com/funvibe/umo/internal/sir"
	"github.com/funvibe/umo/internal/sirtypes"
)

func newBuiltins() *ast.BuiltinIDs {
	return ast.NewBuiltinIDs(cctx.New())
}

// oneBlock builds a single-function, single-block ProgramUnit, a
// convenient shape for exercising one instruction shape at a time.
func oneBlock(numArgs, numVars int, insts ...sir.InstKind) *sir.ProgramUnit {
	is := make([]*sir.Inst, len(insts))
	for i, k := range insts {
		is[i] = &sir.Inst{Kind: k}
	}
	return &sir.ProgramUnit{Functions: []*sir.Function{{
		NumArgs: numArgs,
		NumVars: numVars,
		Body:    []*sir.BasicBlock{{Insts: is}},
	}}}
}

func TestCheckAcceptsWellTypedLiteralReturn(t *testing.T) {
	pu := oneBlock(0, 1,
		sir.Literal{Lhs: 0, Value: sir.IntegerLit{Value: 7}},
		sir.Return{Rhs: 0},
	)
	if err := sirtypes.Check(newBuiltins(), pu); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckRejectsBranchOnNonBool(t *testing.T) {
	pu := oneBlock(0, 2,
		sir.Literal{Lhs: 0, Value: sir.IntegerLit{Value: 7}},
		sir.Branch{Cond: 0, Then: 0, Else: 0},
	)
	err := sirtypes.Check(newBuiltins(), pu)
	var mismatch *sirtypes.MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected a *MismatchError, got %v", err)
	}
}

func TestCheckRejectsSameSlotWrittenWithTwoTypes(t *testing.T) {
	// Slot 0 is first bound to an Integer, then a Copy tries to carry a
	// String value into it: the two literal types can never unify.
	pu := oneBlock(0, 2,
		sir.Literal{Lhs: 0, Value: sir.IntegerLit{Value: 1}},
		sir.Literal{Lhs: 1, Value: sir.StringLit{Value: "x"}},
		sir.Copy{Lhs: 0, Rhs: 1},
		sir.Return{Rhs: 0},
	)
	err := sirtypes.Check(newBuiltins(), pu)
	var mismatch *sirtypes.MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected a *MismatchError, got %v", err)
	}
}

func TestCheckRejectsPendingArgsLeftAtBlockEnd(t *testing.T) {
	pu := oneBlock(0, 2,
		sir.Literal{Lhs: 0, Value: sir.IntegerLit{Value: 1}},
		sir.PushArg{ValueRef: 0},
		sir.Literal{Lhs: 1, Value: sir.UnitLit{}},
		sir.Return{Rhs: 1},
	)
	err := sirtypes.Check(newBuiltins(), pu)
	var pending *sirtypes.PendingArgsError
	if !errors.As(err, &pending) {
		t.Fatalf("expected a *PendingArgsError, got %v", err)
	}
}

func TestCheckAcceptsBuiltinCallRoundTrip(t *testing.T) {
	builtins := newBuiltins()
	// puti(1): Builtin(puti) -> 0; Literal(1) -> 1; PushArg(1); Call(0) -> 2; Return(2)
	pu := oneBlock(0, 3,
		sir.Builtin{Lhs: 0, Builtin: ast.Puti},
		sir.Literal{Lhs: 1, Value: sir.IntegerLit{Value: 1}},
		sir.PushArg{ValueRef: 1},
		sir.Call{Lhs: 2, Callee: 0},
		sir.Return{Rhs: 2},
	)
	if err := sirtypes.Check(builtins, pu); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckAcceptsClosureAgreeingWithItsFunctionSignature(t *testing.T) {
	// Function 1 takes one Integer and returns it; function 0 builds a
	// Closure over function 1 and immediately calls it with an Integer.
	pu := &sir.ProgramUnit{Functions: []*sir.Function{
		{
			NumArgs: 0,
			NumVars: 3,
			Body: []*sir.BasicBlock{{Insts: []*sir.Inst{
				{Kind: sir.Closure{Lhs: 0, FunctionID: 1}},
				{Kind: sir.Literal{Lhs: 1, Value: sir.IntegerLit{Value: 3}}},
				{Kind: sir.PushArg{ValueRef: 1}},
				{Kind: sir.Call{Lhs: 2, Callee: 0}},
				{Kind: sir.Return{Rhs: 2}},
			}}},
		},
		{
			NumArgs: 1,
			NumVars: 1,
			Body: []*sir.BasicBlock{{Insts: []*sir.Inst{
				{Kind: sir.Return{Rhs: 0}},
			}}},
		},
	}}
	if err := sirtypes.Check(newBuiltins(), pu); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
