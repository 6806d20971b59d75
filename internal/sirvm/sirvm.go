// Package sirvm is the tree-walking SIR interpreter (spec.md §4.7),
// grounded on original_source/src/sir_eval.rs's eval1, generalized from a
// single block/two-instruction fragment to the full block-graph,
// closure, and call contract.
package sirvm

import (
	"fmt"
	"strconv"

	"github.com/funvibe/umo/internal/ast"
	"github.com/funvibe/umo/internal/sir"
)

// RuntimeHost is the Go encoding of original_source's RtCtx trait: the
// interpreter's sole side-effecting capability.
type RuntimeHost interface {
	Puts(s string)
}

// ValueKind discriminates the interpreter's runtime value representation.
type ValueKind int

const (
	KindUnit ValueKind = iota
	KindInteger
	KindBool
	KindString
	KindFunctionRef
	KindBuiltinRef
)

// Value is the interpreter's runtime value. Exactly one of the typed
// fields is meaningful, selected by Kind.
type Value struct {
	Kind     ValueKind
	Integer  int32
	Bool     bool
	String   string
	FuncID   int
	Builtin  ast.BuiltinKind
}

func unitValue() Value { return Value{Kind: KindUnit} }

// AssertionError reports a violated interpreter invariant: a slot read
// that was never written, or a read of the wrong variant. Per spec.md §7
// this always indicates a compilation-pass bug, never a program bug.
type AssertionError struct {
	Msg string
}

func (e *AssertionError) Error() string { return "runtime assertion failed: " + e.Msg }

type frame struct {
	vars []*Value
	args []Value
}

func newFrame(numVars int) *frame {
	return &frame{vars: make([]*Value, numVars)}
}

func (f *frame) set(slot int, v Value) {
	val := v
	f.vars[slot] = &val
}

func (f *frame) take(slot int) Value {
	v := f.vars[slot]
	if v == nil {
		panic(&AssertionError{Msg: fmt.Sprintf("slot %d read before write", slot)})
	}
	f.vars[slot] = nil
	return *v
}

func (f *frame) peek(slot int) Value {
	v := f.vars[slot]
	if v == nil {
		panic(&AssertionError{Msg: fmt.Sprintf("slot %d read before write", slot)})
	}
	return *v
}

// Options governs behavior left open by spec.md §9: what happens when a
// BuiltinAdd addition overflows int32.
type Options struct {
	// PanicOnOverflow raises an *AssertionError instead of letting the
	// addition wrap with Go's native int32 two's-complement semantics.
	PanicOnOverflow bool
}

// Run executes pu.Functions[0] with no arguments against host under the
// default Options (wrap on overflow), returning its result value.
func Run(pu *sir.ProgramUnit, host RuntimeHost) (Value, error) {
	return RunWithOptions(pu, host, Options{})
}

// RunWithOptions is Run with explicit overflow behavior, wired from
// internal/config's OverflowMode by cmd/umo.
func RunWithOptions(pu *sir.ProgramUnit, host RuntimeHost, opts Options) (result Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ae, ok := r.(*AssertionError); ok {
				err = ae
				return
			}
			panic(r)
		}
	}()
	return callFunction(pu, host, opts, 0, nil), nil
}

// callFunction allocates a fresh frame sized to fn's NumVars, places args
// into slots 0..NumArgs, and runs from block 0 until a Return.
func callFunction(pu *sir.ProgramUnit, host RuntimeHost, opts Options, fid int, args []Value) Value {
	fn := pu.Functions[fid]
	f := newFrame(fn.NumVars)
	for i, a := range args {
		f.set(i, a)
	}

	bid := 0
	for {
		bb := fn.Body[bid]
		for _, inst := range bb.Insts {
			switch k := inst.Kind.(type) {
			case sir.Copy:
				f.set(k.Lhs, f.peek(k.Rhs))
			case sir.Drop:
				f.take(k.Rhs)
			case sir.Literal:
				f.set(k.Lhs, literalValue(k.Value))
			case sir.Closure:
				f.set(k.Lhs, Value{Kind: KindFunctionRef, FuncID: k.FunctionID})
			case sir.Builtin:
				f.set(k.Lhs, Value{Kind: KindBuiltinRef, Builtin: k.Builtin})
			case sir.PushArg:
				f.args = append(f.args, f.take(k.ValueRef))
			case sir.Call:
				callee := f.take(k.Callee)
				callArgs := f.args
				f.args = nil
				f.set(k.Lhs, invoke(pu, host, opts, callee, callArgs))
			case sir.Jump:
				bid = k.Target
			case sir.Branch:
				if truthy(f.take(k.Cond)) {
					bid = k.Then
				} else {
					bid = k.Else
				}
			case sir.Return:
				return f.take(k.Rhs)
			default:
				panic(&AssertionError{Msg: "unknown instruction kind"})
			}
		}
	}
}

func invoke(pu *sir.ProgramUnit, host RuntimeHost, opts Options, callee Value, args []Value) Value {
	switch callee.Kind {
	case KindFunctionRef:
		return callFunction(pu, host, opts, callee.FuncID, args)
	case KindBuiltinRef:
		return callBuiltin(host, opts, callee.Builtin, args)
	default:
		panic(&AssertionError{Msg: "call of non-callable value"})
	}
}

func callBuiltin(host RuntimeHost, opts Options, kind ast.BuiltinKind, args []Value) Value {
	switch kind {
	case ast.Puts:
		host.Puts(args[0].String)
		return unitValue()
	case ast.Puti:
		host.Puts(strconv.FormatInt(int64(args[0].Integer), 10))
		return unitValue()
	case ast.BuiltinAdd:
		sum := args[0].Integer + args[1].Integer
		if opts.PanicOnOverflow && overflowsAdd(args[0].Integer, args[1].Integer, sum) {
			panic(&AssertionError{Msg: "integer overflow in +"})
		}
		return Value{Kind: KindInteger, Integer: sum}
	case ast.BuiltinLt:
		return Value{Kind: KindBool, Bool: args[0].Integer < args[1].Integer}
	default:
		panic(&AssertionError{Msg: "unknown builtin"})
	}
}

// overflowsAdd reports whether a+b wrapped around int32's range to
// produce sum, the standard two-operands-same-sign/result-different-sign
// overflow check.
func overflowsAdd(a, b, sum int32) bool {
	return (a > 0 && b > 0 && sum < 0) || (a < 0 && b < 0 && sum > 0)
}

func literalValue(lit sir.Lit) Value {
	switch l := lit.(type) {
	case sir.UnitLit:
		return unitValue()
	case sir.IntegerLit:
		return Value{Kind: KindInteger, Integer: l.Value}
	case sir.BoolLit:
		return Value{Kind: KindBool, Bool: l.Value}
	case sir.StringLit:
		return Value{Kind: KindString, String: l.Value}
	default:
		panic(&AssertionError{Msg: "unknown literal kind"})
	}
}

// truthy interprets a Branch condition value as spec.md §4.7 describes:
// an integer, 0 is false. Bool values are accepted directly since
// unification guarantees a Branch's condition types to Bool.
func truthy(v Value) bool {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindInteger:
		return v.Integer != 0
	default:
		panic(&AssertionError{Msg: "branch condition is not Bool or Integer"})
	}
}
