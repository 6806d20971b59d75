package sir

import (
	"fmt"

	"github.com/google/uuid"
)

// ValidationErrorKind discriminates the structural violations Validate can
// detect.
type ValidationErrorKind int

const (
	ExcessNumArgs ValidationErrorKind = iota
	ExpectedTailInstruction
	UnexpectedTailInstruction
	InvalidVariableID
	InvalidTargetBlock
	InvalidFunctionID
)

func (k ValidationErrorKind) String() string {
	switch k {
	case ExcessNumArgs:
		return "excess number of arguments"
	case ExpectedTailInstruction:
		return "expected tail instruction"
	case UnexpectedTailInstruction:
		return "unexpected tail instruction"
	case InvalidVariableID:
		return "invalid variable id"
	case InvalidTargetBlock:
		return "invalid jump/branch target"
	case InvalidFunctionID:
		return "invalid function id"
	default:
		return "unknown validation error"
	}
}

// Position pinpoints where in a ProgramUnit a ValidationError occurred.
// BlockID and InstID are nil when the error is at function or block
// granularity.
type Position struct {
	FunctionID int
	BlockID    *int
	InstID     *int
}

func (p Position) String() string {
	s := fmt.Sprintf("function %d", p.FunctionID)
	if p.BlockID != nil {
		s += fmt.Sprintf(", block %d", *p.BlockID)
		if p.InstID != nil {
			s += fmt.Sprintf(", inst %d", *p.InstID)
		}
	}
	return s
}

// ValidationError is a pinpointed structural violation of a ProgramUnit's
// well-formedness invariants (§3/§4.6). RunID correlates this error with
// the pipeline run that produced it.
type ValidationError struct {
	Kind  ValidationErrorKind
	Pos   Position
	RunID uuid.UUID
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s at %s", e.Kind, e.Pos)
}

// Validate checks every structural invariant named in §3 and §4.6 before
// the compilation pass is allowed to run.
func Validate(pu *ProgramUnit, runID uuid.UUID) error {
	for fid, fn := range pu.Functions {
		if err := validateFunction(pu, fn, fid, runID); err != nil {
			return err
		}
	}
	return nil
}

func validateFunction(pu *ProgramUnit, fn *Function, fid int, runID uuid.UUID) error {
	if fn.NumArgs > fn.NumVars {
		return &ValidationError{Kind: ExcessNumArgs, Pos: Position{FunctionID: fid}, RunID: runID}
	}
	for bid, bb := range fn.Body {
		if err := validateBlock(pu, fn, bb, fid, bid, runID); err != nil {
			return err
		}
	}
	return nil
}

func validateBlock(pu *ProgramUnit, fn *Function, bb *BasicBlock, fid, bid int, runID uuid.UUID) error {
	b := bid
	if len(bb.Insts) == 0 {
		return &ValidationError{Kind: ExpectedTailInstruction, Pos: Position{FunctionID: fid, BlockID: &b}, RunID: runID}
	}
	for iid, inst := range bb.Insts {
		isLast := iid == len(bb.Insts)-1
		i := iid
		pos := Position{FunctionID: fid, BlockID: &b, InstID: &i}
		if isLast && !inst.Kind.IsTail() {
			return &ValidationError{Kind: ExpectedTailInstruction, Pos: pos, RunID: runID}
		}
		if !isLast && inst.Kind.IsTail() {
			return &ValidationError{Kind: UnexpectedTailInstruction, Pos: pos, RunID: runID}
		}
		if err := validateInst(pu, fn, inst, pos, runID); err != nil {
			return err
		}
	}
	return nil
}

func validateInst(pu *ProgramUnit, fn *Function, inst *Inst, pos Position, runID uuid.UUID) error {
	invalidVar := func() error {
		return &ValidationError{Kind: InvalidVariableID, Pos: pos, RunID: runID}
	}
	invalidTarget := func() error {
		return &ValidationError{Kind: InvalidTargetBlock, Pos: pos, RunID: runID}
	}
	inRange := func(v int) bool { return v >= 0 && v < fn.NumVars }
	blockInRange := func(b int) bool { return b >= 0 && b < len(fn.Body) }

	switch k := inst.Kind.(type) {
	case Jump:
		if !blockInRange(k.Target) {
			return invalidTarget()
		}
	case Branch:
		if !inRange(k.Cond) {
			return invalidVar()
		}
		if !blockInRange(k.Then) || !blockInRange(k.Else) {
			return invalidTarget()
		}
	case Return:
		if !inRange(k.Rhs) {
			return invalidVar()
		}
	case Copy:
		if !inRange(k.Lhs) || !inRange(k.Rhs) {
			return invalidVar()
		}
	case Drop:
		if !inRange(k.Rhs) {
			return invalidVar()
		}
	case Literal:
		if !inRange(k.Lhs) {
			return invalidVar()
		}
	case Closure:
		if !inRange(k.Lhs) {
			return invalidVar()
		}
		if k.FunctionID < 0 || k.FunctionID >= len(pu.Functions) {
			return &ValidationError{Kind: InvalidFunctionID, Pos: pos, RunID: runID}
		}
	case Builtin:
		if !inRange(k.Lhs) {
			return invalidVar()
		}
	case PushArg:
		if !inRange(k.ValueRef) {
			return invalidVar()
		}
	case Call:
		if !inRange(k.Lhs) || !inRange(k.Callee) {
			return invalidVar()
		}
	}
	return nil
}
