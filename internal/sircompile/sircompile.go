// Package sircompile implements spec.md §4.6, the SIR compilation pass:
// whole-function fixed-point liveness analysis over the control-flow
// graph, followed by insertion of explicit Copy and Drop instructions so
// every value has a linear, single-owner lifetime. Grounded line-for-line
// on original_source/src/sir_compile.rs.
package sircompile

import "github.com/funvibe/umo/internal/sir"

// Compile rewrites pu in place, function by function, and returns it.
func Compile(pu *sir.ProgramUnit) *sir.ProgramUnit {
	for _, fn := range pu.Functions {
		computeLiveness(fn)
		insertCopyAndDrop(fn)
	}
	return pu
}

// computeLiveness runs the fixed-point outer loop: repeat a full sweep
// over every block, backward within each block, until no block's live_in
// changes.
func computeLiveness(fn *sir.Function) {
	for {
		changed := false
		for _, bb := range fn.Body {
			if livenessPassOverBlock(fn, bb) {
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}

// livenessPassOverBlock runs one backward sweep over bb's instructions,
// reports whether bb.LiveIn changed as a result.
func livenessPassOverBlock(fn *sir.Function, bb *sir.BasicBlock) bool {
	alive := blockLiveOutToBe(fn, bb)
	insts := bb.Insts
	for i := len(insts) - 1; i >= 0; i-- {
		inst := insts[i]
		if inst.LiveOut != nil && inst.LiveOut.Equal(alive) {
			// Converged: this instruction (and, by induction, everything
			// before it in the block) already reflects this alive set.
			return false
		}
		inst.LiveOut = alive.Clone()
		defs, uses := instDefsUses(inst.Kind)
		next := alive.Clone()
		next.DifferenceWith(defs)
		next.UnionWith(uses)
		alive = next
	}
	if bb.LiveIn != nil && bb.LiveIn.Equal(alive) {
		return false
	}
	bb.LiveIn = alive
	return true
}

// blockLiveOutToBe derives a block's eventual live-out from its terminator.
func blockLiveOutToBe(fn *sir.Function, bb *sir.BasicBlock) *sir.VarSet {
	switch k := bb.Insts[len(bb.Insts)-1].Kind.(type) {
	case sir.Jump:
		return liveInOf(fn, k.Target).Clone()
	case sir.Branch:
		s := liveInOf(fn, k.Then).Clone()
		s.UnionWith(liveInOf(fn, k.Else))
		return s
	case sir.Return:
		return sir.NewVarSet()
	default:
		panic("sircompile: block does not end in a tail instruction")
	}
}

func liveInOf(fn *sir.Function, bid int) *sir.VarSet {
	li := fn.Body[bid].LiveIn
	if li == nil {
		return sir.NewVarSet()
	}
	return li
}

// instDefsUses is the per-instruction transfer function table from
// spec.md §4.6 step 1.
func instDefsUses(kind sir.InstKind) (defs, uses *sir.VarSet) {
	switch k := kind.(type) {
	case sir.Jump:
		return sir.NewVarSet(), sir.NewVarSet()
	case sir.Branch:
		return sir.NewVarSet(), sir.VarSetOf(k.Cond)
	case sir.Return:
		return sir.NewVarSet(), sir.VarSetOf(k.Rhs)
	case sir.Copy:
		return sir.VarSetOf(k.Lhs), sir.VarSetOf(k.Rhs)
	case sir.Drop:
		return sir.NewVarSet(), sir.VarSetOf(k.Rhs)
	case sir.Literal:
		return sir.VarSetOf(k.Lhs), sir.NewVarSet()
	case sir.Closure:
		return sir.VarSetOf(k.Lhs), sir.NewVarSet()
	case sir.Builtin:
		return sir.VarSetOf(k.Lhs), sir.NewVarSet()
	case sir.PushArg:
		return sir.NewVarSet(), sir.VarSetOf(k.ValueRef)
	case sir.Call:
		return sir.VarSetOf(k.Lhs), sir.VarSetOf(k.Callee)
	default:
		panic("sircompile: unknown InstKind")
	}
}
