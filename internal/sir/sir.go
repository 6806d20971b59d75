// Package sir defines the Sequential Intermediate Representation: a
// basic-block-structured, three-address form with explicit control-flow
// terminators, targeted by internal/lower and consumed by internal/sircompile
// and internal/sirvm.
package sir

import "github.com/funvibe/umo/internal/ast"

// ProgramUnit is an ordered list of Functions; a Function's position in
// this slice is its function id.
type ProgramUnit struct {
	Functions []*Function
}

// Function is one SIR function: NumArgs variable slots (ids 0..NumArgs)
// hold its parameters, NumVars is the total slot count, and Body's first
// entry is the entry block.
type Function struct {
	NumArgs int
	NumVars int
	Body    []*BasicBlock
}

// BasicBlock is a maximal straight-line instruction sequence ending in
// exactly one tail instruction. LiveIn is filled in by the compilation
// pass; nil beforehand.
type BasicBlock struct {
	Insts  []*Inst
	LiveIn *VarSet
}

// Inst is one SIR instruction. LiveOut is filled in by the compilation
// pass; nil beforehand.
type Inst struct {
	Kind    InstKind
	LiveOut *VarSet
}

// InstKind is the sum of all instruction shapes. Exactly one of the Jump,
// Branch, or Return kinds may appear, and only as a block's last
// instruction (the "tail").
type InstKind interface {
	isInstKind()
	IsTail() bool
}

// Jump unconditionally transfers control to Target.
type Jump struct {
	Target int
}

// Branch transfers control to Then if the value in Cond is truthy
// (non-zero), else to Else.
type Branch struct {
	Cond       int
	Then, Else int
}

// Return ends the function, yielding the value in Rhs to the caller.
type Return struct {
	Rhs int
}

// Copy reads Rhs without consuming it and writes the value into Lhs. It is
// the only instruction that can read a variable without moving it.
type Copy struct {
	Lhs, Rhs int
}

// Drop releases ownership of the value in Rhs; the sole effect of running
// it is to make the slot's value no longer live.
type Drop struct {
	Rhs int
}

// Literal writes Value into Lhs.
type Literal struct {
	Lhs   int
	Value Lit
}

// Closure writes a reference to the top-level function FunctionID into
// Lhs. Non-capturing: FunctionID names a Function in the owning
// ProgramUnit, never a nested closure with free variables.
type Closure struct {
	Lhs        int
	FunctionID int
}

// Builtin writes a reference to the host primitive Kind into Lhs.
type Builtin struct {
	Lhs     int
	Builtin ast.BuiltinKind
}

// PushArg appends the value in ValueRef to the pending call-argument list,
// consuming ValueRef's slot.
type PushArg struct {
	ValueRef int
}

// Call pops all pending pushed arguments, invokes the callable value held
// in Callee, and writes the result into Lhs.
type Call struct {
	Lhs    int
	Callee int
}

func (Jump) isInstKind()    {}
func (Branch) isInstKind()  {}
func (Return) isInstKind()  {}
func (Copy) isInstKind()    {}
func (Drop) isInstKind()    {}
func (Literal) isInstKind() {}
func (Closure) isInstKind() {}
func (Builtin) isInstKind() {}
func (PushArg) isInstKind() {}
func (Call) isInstKind()    {}

func (Jump) IsTail() bool    { return true }
func (Branch) IsTail() bool  { return true }
func (Return) IsTail() bool  { return true }
func (Copy) IsTail() bool    { return false }
func (Drop) IsTail() bool    { return false }
func (Literal) IsTail() bool { return false }
func (Closure) IsTail() bool { return false }
func (Builtin) IsTail() bool { return false }
func (PushArg) IsTail() bool { return false }
func (Call) IsTail() bool    { return false }

// Lit is a SIR literal value.
type Lit interface{ isLit() }

// UnitLit is the sole value of type Unit.
type UnitLit struct{}

// IntegerLit is a 32-bit signed integer constant.
type IntegerLit struct{ Value int32 }

// BoolLit is a boolean constant.
type BoolLit struct{ Value bool }

// StringLit is an immutable, reference-counted-in-spirit string constant
// (Go's string type is itself an immutable, shareable byte sequence, so no
// extra wrapper is needed to get the "Copy never duplicates character
// data" property spec.md §5 asks for).
type StringLit struct{ Value string }

func (UnitLit) isLit()    {}
func (IntegerLit) isLit() {}
func (BoolLit) isLit()    {}
func (StringLit) isLit() {}
