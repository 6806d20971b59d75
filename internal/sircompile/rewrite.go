package sircompile

import "github.com/funvibe/umo/internal/sir"

// insertCopyAndDrop is sir_compile.rs's insert_copy: computes each
// block's carried-over set from predecessor terminators, then rewrites
// every block so each non-Copy, non-Drop instruction consumes each of
// its input operands exactly once.
func insertCopyAndDrop(fn *sir.Function) {
	preds := predecessorsOf(fn)
	carriedOver := make([]*sir.VarSet, len(fn.Body))
	for bid := range fn.Body {
		co := sir.NewVarSet()
		for _, p := range preds[bid] {
			co.UnionWith(tailLiveOut(fn.Body[p]))
		}
		if bid == 0 {
			for a := 0; a < fn.NumArgs; a++ {
				co.Insert(a)
			}
		}
		carriedOver[bid] = co
	}

	for bid, bb := range fn.Body {
		rewriteBlock(fn, bb, carriedOver[bid])
	}
}

func tailLiveOut(bb *sir.BasicBlock) *sir.VarSet {
	return bb.Insts[len(bb.Insts)-1].LiveOut
}

// predecessorsOf maps each block id to the block ids with an edge into it.
func predecessorsOf(fn *sir.Function) [][]int {
	preds := make([][]int, len(fn.Body))
	for bid, bb := range fn.Body {
		switch k := bb.Insts[len(bb.Insts)-1].Kind.(type) {
		case sir.Jump:
			preds[k.Target] = append(preds[k.Target], bid)
		case sir.Branch:
			preds[k.Then] = append(preds[k.Then], bid)
			preds[k.Else] = append(preds[k.Else], bid)
		}
	}
	return preds
}

// rewriteBlock performs spec.md §4.6 step 3 for one block: drop unused
// carried-over variables at the head, then insert a Copy before any
// moved operand that survives the instruction and a Drop after any
// definition that is dead on arrival.
func rewriteBlock(fn *sir.Function, bb *sir.BasicBlock, co *sir.VarSet) {
	trueLiveIn := bb.LiveIn
	if trueLiveIn == nil {
		trueLiveIn = sir.NewVarSet()
	}

	var newInsts []*sir.Inst
	alive := co.Clone()
	unused := co.Clone()
	unused.DifferenceWith(trueLiveIn)
	for _, v := range unused.Members() {
		alive.Remove(v)
		newInsts = append(newInsts, &sir.Inst{Kind: sir.Drop{Rhs: v}, LiveOut: alive.Clone()})
	}

	before := alive

	for _, inst := range bb.Insts {
		origAfter := inst.LiveOut
		kind := inst.Kind

		if opnd, ok := movedOperand(kind); ok && origAfter.Contains(opnd) {
			fresh := fn.NumVars
			fn.NumVars++
			copyLiveOut := before.Clone()
			copyLiveOut.Insert(fresh)
			newInsts = append(newInsts, &sir.Inst{Kind: sir.Copy{Lhs: fresh, Rhs: opnd}, LiveOut: copyLiveOut})
			kind = rewriteOperand(kind, fresh)
		}

		inst.Kind = kind
		newInsts = append(newInsts, inst)

		if d, ok := singleDef(kind); ok && !origAfter.Contains(d) {
			inst.LiveOut = origAfter.Clone()
			inst.LiveOut.Insert(d)
			newInsts = append(newInsts, &sir.Inst{Kind: sir.Drop{Rhs: d}, LiveOut: origAfter.Clone()})
		}

		before = origAfter
	}

	bb.Insts = newInsts
	bb.LiveIn = co
}

// movedOperand reports the operand position an instruction consumes
// (moves out), per spec.md §4.6's moving-operand table. Copy is
// deliberately absent: it is the sole instruction that reads without
// moving.
func movedOperand(kind sir.InstKind) (int, bool) {
	switch k := kind.(type) {
	case sir.Branch:
		return k.Cond, true
	case sir.Return:
		return k.Rhs, true
	case sir.Drop:
		return k.Rhs, true
	case sir.PushArg:
		return k.ValueRef, true
	case sir.Call:
		return k.Callee, true
	default:
		return 0, false
	}
}

func rewriteOperand(kind sir.InstKind, fresh int) sir.InstKind {
	switch k := kind.(type) {
	case sir.Branch:
		k.Cond = fresh
		return k
	case sir.Return:
		k.Rhs = fresh
		return k
	case sir.Drop:
		k.Rhs = fresh
		return k
	case sir.PushArg:
		k.ValueRef = fresh
		return k
	case sir.Call:
		k.Callee = fresh
		return k
	default:
		return kind
	}
}

// singleDef reports the variable an instruction defines, if any.
func singleDef(kind sir.InstKind) (int, bool) {
	switch k := kind.(type) {
	case sir.Copy:
		return k.Lhs, true
	case sir.Literal:
		return k.Lhs, true
	case sir.Closure:
		return k.Lhs, true
	case sir.Builtin:
		return k.Lhs, true
	case sir.Call:
		return k.Lhs, true
	default:
		return 0, false
	}
}
