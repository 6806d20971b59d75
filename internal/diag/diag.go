// Package diag renders pipeline errors as diagnostics, pinpointed to SIR
// coordinates where the error carries them, with ANSI color when the
// output stream is a terminal. TTY detection is grounded
// on the teacher's internal/evaluator/builtins_term.go use of
// github.com/mattn/go-isatty; correlation ids are grounded on
// internal/cctx's uuid.UUID run stamp.
package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"github.com/funvibe/umo/internal/sir"
	"github.com/funvibe/umo/internal/sirtypes"
)

// Diagnostic is one reported failure, tagged with the run it came from so
// concurrent pipelines' errors are distinguishable in a shared log
// stream (spec.md §5's concurrency model).
type Diagnostic struct {
	RunID   uuid.UUID
	Phase   string
	Message string
	Pos     *sir.Position
}

// ColorEnabled reports whether out should receive ANSI color codes:
// true only when out is backed by a real terminal and NO_COLOR is unset,
// matching the teacher's builtinTermIsTTY check.
func ColorEnabled(out *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())
}

const (
	colorReset = "\x1b[0m"
	colorRed   = "\x1b[31m"
	colorDim   = "\x1b[2m"
)

// Render writes d to w. When color is true the phase tag is dimmed and
// the "error:" label is red; the function/block/inst coordinates are
// printed uncolored.
func Render(w io.Writer, d Diagnostic, color bool) {
	if color {
		fmt.Fprintf(w, "%s[%s]%s %serror:%s %s\n", colorDim, d.Phase, colorReset, colorRed, colorReset, d.Message)
	} else {
		fmt.Fprintf(w, "[%s] error: %s\n", d.Phase, d.Message)
	}
	if d.Pos != nil {
		fmt.Fprintf(w, "  at %s\n", d.Pos)
	}
	fmt.Fprintf(w, "  run %s\n", d.RunID)
}

// FromError builds a Diagnostic from a pipeline-phase error, extracting a
// sir.Position when err itself carries one; wrapped errors are not
// unwrapped.
func FromError(runID uuid.UUID, phase string, err error) Diagnostic {
	d := Diagnostic{RunID: runID, Phase: phase, Message: err.Error()}
	if p, ok := positionOf(err); ok {
		d.Pos = &p
	}
	return d
}

// positionOf extracts the sir.Position pinpointed by the three pipeline
// error types that carry one. Errors from earlier phases (lexer, parser,
// ast resolve/check) have no SIR coordinate and report nil.
func positionOf(err error) (sir.Position, bool) {
	switch e := err.(type) {
	case *sir.ValidationError:
		return e.Pos, true
	case *sirtypes.MismatchError:
		return e.Pos, true
	case *sirtypes.PendingArgsError:
		return e.Pos, true
	default:
		return sir.Position{}, false
	}
}
