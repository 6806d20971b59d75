package sir

import (
	"testing"

	"github.com/google/uuid"
)

func simpleUnit(fn *Function) *ProgramUnit {
	return &ProgramUnit{Functions: []*Function{fn}}
}

func TestValidateAcceptsWellFormedFunction(t *testing.T) {
	fn := &Function{
		NumArgs: 0,
		NumVars: 1,
		Body: []*BasicBlock{
			{Insts: []*Inst{
				{Kind: Literal{Lhs: 0, Value: UnitLit{}}},
				{Kind: Return{Rhs: 0}},
			}},
		},
	}
	if err := Validate(simpleUnit(fn), uuid.Nil); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestValidateRejectsMissingTail(t *testing.T) {
	fn := &Function{
		NumArgs: 0,
		NumVars: 1,
		Body: []*BasicBlock{
			{Insts: []*Inst{{Kind: Literal{Lhs: 0, Value: UnitLit{}}}}},
		},
	}
	err := Validate(simpleUnit(fn), uuid.Nil)
	ve, ok := err.(*ValidationError)
	if !ok || ve.Kind != ExpectedTailInstruction {
		t.Fatalf("expected ExpectedTailInstruction, got %v", err)
	}
}

func TestValidateRejectsTailInMiddle(t *testing.T) {
	fn := &Function{
		NumArgs: 0,
		NumVars: 1,
		Body: []*BasicBlock{
			{Insts: []*Inst{
				{Kind: Return{Rhs: 0}},
				{Kind: Literal{Lhs: 0, Value: UnitLit{}}},
			}},
		},
	}
	err := Validate(simpleUnit(fn), uuid.Nil)
	ve, ok := err.(*ValidationError)
	if !ok || ve.Kind != UnexpectedTailInstruction {
		t.Fatalf("expected UnexpectedTailInstruction, got %v", err)
	}
}

func TestValidateRejectsOutOfRangeVariable(t *testing.T) {
	fn := &Function{
		NumArgs: 0,
		NumVars: 1,
		Body: []*BasicBlock{
			{Insts: []*Inst{{Kind: Return{Rhs: 5}}}},
		},
	}
	err := Validate(simpleUnit(fn), uuid.Nil)
	ve, ok := err.(*ValidationError)
	if !ok || ve.Kind != InvalidVariableID {
		t.Fatalf("expected InvalidVariableID, got %v", err)
	}
}

func TestValidateRejectsExcessArgs(t *testing.T) {
	fn := &Function{NumArgs: 3, NumVars: 1, Body: []*BasicBlock{{Insts: []*Inst{{Kind: Return{Rhs: 0}}}}}}
	err := Validate(simpleUnit(fn), uuid.Nil)
	ve, ok := err.(*ValidationError)
	if !ok || ve.Kind != ExcessNumArgs {
		t.Fatalf("expected ExcessNumArgs, got %v", err)
	}
}

func TestValidateRejectsInvalidFunctionID(t *testing.T) {
	fn := &Function{
		NumArgs: 0,
		NumVars: 1,
		Body: []*BasicBlock{
			{Insts: []*Inst{
				{Kind: Closure{Lhs: 0, FunctionID: 9}},
				{Kind: Return{Rhs: 0}},
			}},
		},
	}
	err := Validate(simpleUnit(fn), uuid.Nil)
	ve, ok := err.(*ValidationError)
	if !ok || ve.Kind != InvalidFunctionID {
		t.Fatalf("expected InvalidFunctionID, got %v", err)
	}
}
