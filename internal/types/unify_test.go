package types

import "testing"

func TestUnifyConcreteEqual(t *testing.T) {
	ctx := &TyCtx{}
	if err := ctx.Unify(Integer{}, Integer{}); err != nil {
		t.Fatalf("Integer should unify with itself: %v", err)
	}
	if err := ctx.Unify(Integer{}, Bool{}); err == nil {
		t.Fatalf("Integer must not unify with Bool")
	}
}

func TestUnifyMetaVarBinds(t *testing.T) {
	ctx := &TyCtx{}
	v := ctx.Fresh()
	if err := ctx.Unify(v, Integer{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := ctx.Resolve(v).(Integer); !ok {
		t.Fatalf("meta-var should resolve to Integer, got %v", ctx.Resolve(v))
	}
}

func TestUnifyFunctionStructural(t *testing.T) {
	ctx := &TyCtx{}
	v := ctx.Fresh()
	f1 := Function{Args: []Type{Integer{}, Integer{}}, Ret: v}
	f2 := Function{Args: []Type{Integer{}, Integer{}}, Ret: Bool{}}
	if err := ctx.Unify(f1, f2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := ctx.Resolve(v).(Bool); !ok {
		t.Fatalf("ret meta-var should resolve to Bool")
	}
}

func TestUnifyFunctionArityMismatch(t *testing.T) {
	ctx := &TyCtx{}
	f1 := Function{Args: []Type{Integer{}}, Ret: Unit{}}
	f2 := Function{Args: []Type{Integer{}, Integer{}}, Ret: Unit{}}
	if err := ctx.Unify(f1, f2); err == nil {
		t.Fatalf("arity mismatch must fail")
	}
}

func TestOccursCheck(t *testing.T) {
	ctx := &TyCtx{}
	v := ctx.Fresh()
	selfRef := Function{Args: []Type{v}, Ret: Unit{}}
	if err := ctx.Unify(v, selfRef); err == nil {
		t.Fatalf("occurs-check cycle must fail")
	}
}

func TestUnifyIsSymmetricForMetaVars(t *testing.T) {
	ctx := &TyCtx{}
	v1 := ctx.Fresh()
	v2 := ctx.Fresh()
	if err := ctx.Unify(v1, v2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ctx.Unify(v2, Integer{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := ctx.Resolve(v1).(Integer); !ok {
		t.Fatalf("v1 should transitively resolve to Integer, got %v", ctx.Resolve(v1))
	}
}
