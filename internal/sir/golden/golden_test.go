package golden_test

import (
	"testing"

	"github.com/funvibe/umo/internal/ast"
	"github.com/funvibe/umo/internal/sir"
	"github.com/funvibe/umo/internal/sir/golden"
)

func sample() *sir.ProgramUnit {
	return &sir.ProgramUnit{Functions: []*sir.Function{{
		NumArgs: 1,
		NumVars: 3,
		Body: []*sir.BasicBlock{{Insts: []*sir.Inst{
			{Kind: sir.Builtin{Lhs: 1, Builtin: ast.Puti}},
			{Kind: sir.PushArg{ValueRef: 0}},
			{Kind: sir.Call{Lhs: 2, Callee: 1}},
			{Kind: sir.Return{Rhs: 2}},
		}}},
	}}}
}

func TestMarshalUnmarshalRoundTrips(t *testing.T) {
	pu := sample()
	data, err := golden.Marshal(pu)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := golden.Unmarshal(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	roundTripped, err := golden.Marshal(got)
	if err != nil {
		t.Fatalf("re-marshal: %v", err)
	}
	if string(roundTripped) != string(data) {
		t.Fatalf("round trip mismatch:\nfirst:  %s\nsecond: %s", data, roundTripped)
	}
}

func TestMarshalIsIdempotentOverIdenticalShapes(t *testing.T) {
	a, err := golden.Marshal(sample())
	if err != nil {
		t.Fatalf("marshal a: %v", err)
	}
	b, err := golden.Marshal(sample())
	if err != nil {
		t.Fatalf("marshal b: %v", err)
	}
	if string(a) != string(b) {
		t.Fatalf("two structurally identical ProgramUnits produced different YAML")
	}
}
