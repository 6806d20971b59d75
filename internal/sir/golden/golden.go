// Package golden is a YAML codec for sir.ProgramUnit, grounded on the
// teacher's own YAML marshal/unmarshal usage in
// internal/evaluator/builtins_yaml.go. It is a human-readable,
// deterministic snapshot format for ProgramUnits and the on-disk
// encoding internal/cache stores compiled ProgramUnits in.
// (internal/sircompile's idempotence test compares its own
// instruction-kind snapshot and does not use this package.)
//
// sir.InstKind is a closed interface sum type, which yaml.v3 cannot
// marshal directly; ProgramUnit/Inst below are a tagged-union DTO that
// FromSIR/ToSIR convert to and from.
package golden

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/umo/internal/ast"
	"github.com/funvibe/umo/internal/sir"
)

type ProgramUnit struct {
	Functions []Function `yaml:"functions"`
}

type Function struct {
	NumArgs int          `yaml:"num_args"`
	NumVars int          `yaml:"num_vars"`
	Body    []BasicBlock `yaml:"body"`
}

type BasicBlock struct {
	Insts []Inst `yaml:"insts"`
}

// Inst is a tagged union over every sir.InstKind, one optional field per
// operand name actually used by that kind.
type Inst struct {
	Kind string `yaml:"kind"`

	Target     *int    `yaml:"target,omitempty"`
	Cond       *int    `yaml:"cond,omitempty"`
	Then       *int    `yaml:"then,omitempty"`
	Else       *int    `yaml:"else,omitempty"`
	Rhs        *int    `yaml:"rhs,omitempty"`
	Lhs        *int    `yaml:"lhs,omitempty"`
	FunctionID *int    `yaml:"function_id,omitempty"`
	Builtin    *string `yaml:"builtin,omitempty"`
	ValueRef   *int    `yaml:"value_ref,omitempty"`
	Callee     *int    `yaml:"callee,omitempty"`
	Literal    *Lit    `yaml:"literal,omitempty"`
}

type Lit struct {
	Kind    string  `yaml:"kind"`
	Integer *int32  `yaml:"integer,omitempty"`
	Bool    *bool   `yaml:"bool,omitempty"`
	String  *string `yaml:"string,omitempty"`
}

func ip(v int) *int       { return &v }
func sp(v string) *string { return &v }

// Marshal renders pu as YAML.
func Marshal(pu *sir.ProgramUnit) ([]byte, error) {
	return yaml.Marshal(FromSIR(pu))
}

// Unmarshal parses YAML produced by Marshal back into a sir.ProgramUnit.
func Unmarshal(data []byte) (*sir.ProgramUnit, error) {
	var dto ProgramUnit
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return nil, err
	}
	return dto.ToSIR()
}

// FromSIR converts a compiled or uncompiled ProgramUnit to its DTO form.
// LiveIn/LiveOut are intentionally not captured: the golden format records
// program shape, not the compilation pass's working state.
func FromSIR(pu *sir.ProgramUnit) *ProgramUnit {
	out := &ProgramUnit{Functions: make([]Function, len(pu.Functions))}
	for i, fn := range pu.Functions {
		out.Functions[i] = functionFromSIR(fn)
	}
	return out
}

func functionFromSIR(fn *sir.Function) Function {
	body := make([]BasicBlock, len(fn.Body))
	for i, bb := range fn.Body {
		insts := make([]Inst, len(bb.Insts))
		for j, inst := range bb.Insts {
			insts[j] = instFromSIR(inst.Kind)
		}
		body[i] = BasicBlock{Insts: insts}
	}
	return Function{NumArgs: fn.NumArgs, NumVars: fn.NumVars, Body: body}
}

func instFromSIR(k sir.InstKind) Inst {
	switch v := k.(type) {
	case sir.Jump:
		return Inst{Kind: "jump", Target: ip(v.Target)}
	case sir.Branch:
		return Inst{Kind: "branch", Cond: ip(v.Cond), Then: ip(v.Then), Else: ip(v.Else)}
	case sir.Return:
		return Inst{Kind: "return", Rhs: ip(v.Rhs)}
	case sir.Copy:
		return Inst{Kind: "copy", Lhs: ip(v.Lhs), Rhs: ip(v.Rhs)}
	case sir.Drop:
		return Inst{Kind: "drop", Rhs: ip(v.Rhs)}
	case sir.Literal:
		lit := litFromSIR(v.Value)
		return Inst{Kind: "literal", Lhs: ip(v.Lhs), Literal: &lit}
	case sir.Closure:
		return Inst{Kind: "closure", Lhs: ip(v.Lhs), FunctionID: ip(v.FunctionID)}
	case sir.Builtin:
		return Inst{Kind: "builtin", Lhs: ip(v.Lhs), Builtin: sp(v.Builtin.String())}
	case sir.PushArg:
		return Inst{Kind: "push_arg", ValueRef: ip(v.ValueRef)}
	case sir.Call:
		return Inst{Kind: "call", Lhs: ip(v.Lhs), Callee: ip(v.Callee)}
	default:
		panic(fmt.Sprintf("golden: unknown InstKind %T", k))
	}
}

func litFromSIR(lit sir.Lit) Lit {
	switch v := lit.(type) {
	case sir.UnitLit:
		return Lit{Kind: "unit"}
	case sir.IntegerLit:
		val := v.Value
		return Lit{Kind: "integer", Integer: &val}
	case sir.BoolLit:
		val := v.Value
		return Lit{Kind: "bool", Bool: &val}
	case sir.StringLit:
		val := v.Value
		return Lit{Kind: "string", String: &val}
	default:
		panic(fmt.Sprintf("golden: unknown Lit %T", lit))
	}
}

// ToSIR converts the DTO back to a sir.ProgramUnit with LiveIn/LiveOut
// unset, as if freshly lowered (callers that need a compiled unit must
// run internal/sircompile.Compile again).
func (pu *ProgramUnit) ToSIR() (*sir.ProgramUnit, error) {
	out := &sir.ProgramUnit{Functions: make([]*sir.Function, len(pu.Functions))}
	for i, fn := range pu.Functions {
		sfn, err := fn.toSIR()
		if err != nil {
			return nil, fmt.Errorf("function %d: %w", i, err)
		}
		out.Functions[i] = sfn
	}
	return out, nil
}

func (fn *Function) toSIR() (*sir.Function, error) {
	body := make([]*sir.BasicBlock, len(fn.Body))
	for i, bb := range fn.Body {
		insts := make([]*sir.Inst, len(bb.Insts))
		for j, inst := range bb.Insts {
			kind, err := inst.toSIR()
			if err != nil {
				return nil, fmt.Errorf("block %d inst %d: %w", i, j, err)
			}
			insts[j] = &sir.Inst{Kind: kind}
		}
		body[i] = &sir.BasicBlock{Insts: insts}
	}
	return &sir.Function{NumArgs: fn.NumArgs, NumVars: fn.NumVars, Body: body}, nil
}

func (inst *Inst) toSIR() (sir.InstKind, error) {
	switch inst.Kind {
	case "jump":
		return sir.Jump{Target: *inst.Target}, nil
	case "branch":
		return sir.Branch{Cond: *inst.Cond, Then: *inst.Then, Else: *inst.Else}, nil
	case "return":
		return sir.Return{Rhs: *inst.Rhs}, nil
	case "copy":
		return sir.Copy{Lhs: *inst.Lhs, Rhs: *inst.Rhs}, nil
	case "drop":
		return sir.Drop{Rhs: *inst.Rhs}, nil
	case "literal":
		lit, err := inst.Literal.toSIR()
		if err != nil {
			return nil, err
		}
		return sir.Literal{Lhs: *inst.Lhs, Value: lit}, nil
	case "closure":
		return sir.Closure{Lhs: *inst.Lhs, FunctionID: *inst.FunctionID}, nil
	case "builtin":
		kind, err := builtinFromString(*inst.Builtin)
		if err != nil {
			return nil, err
		}
		return sir.Builtin{Lhs: *inst.Lhs, Builtin: kind}, nil
	case "push_arg":
		return sir.PushArg{ValueRef: *inst.ValueRef}, nil
	case "call":
		return sir.Call{Lhs: *inst.Lhs, Callee: *inst.Callee}, nil
	default:
		return nil, fmt.Errorf("golden: unknown inst kind %q", inst.Kind)
	}
}

func (lit *Lit) toSIR() (sir.Lit, error) {
	switch lit.Kind {
	case "unit":
		return sir.UnitLit{}, nil
	case "integer":
		return sir.IntegerLit{Value: *lit.Integer}, nil
	case "bool":
		return sir.BoolLit{Value: *lit.Bool}, nil
	case "string":
		return sir.StringLit{Value: *lit.String}, nil
	default:
		return nil, fmt.Errorf("golden: unknown literal kind %q", lit.Kind)
	}
}

func builtinFromString(s string) (ast.BuiltinKind, error) {
	for _, k := range []ast.BuiltinKind{ast.Puts, ast.Puti, ast.BuiltinAdd, ast.BuiltinLt} {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("golden: unknown builtin %q", s)
}
