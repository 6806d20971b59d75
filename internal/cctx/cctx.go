// Package cctx provides the compiler-wide identity context: a monotonic
// fresh-id generator shared by variable names, builtins, and anything else
// that needs a stable, comparable token.
package cctx

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// ID is an opaque identity token. The zero value is the reserved "dummy" id
// meaning "unassigned". Two IDs compare equal iff they were produced by the
// same Fresh call; IDs carry no ordering significance beyond equality.
type ID struct {
	number uint64
}

// IsDummy reports whether id is the reserved sentinel value.
func (id ID) IsDummy() bool {
	return id.number == 0
}

// String renders the id for diagnostics. The underlying integer may be
// exposed; callers must not depend on its value beyond equality checks.
func (id ID) String() string {
	if id.IsDummy() {
		return "<dummy>"
	}
	return formatUint(id.number)
}

func formatUint(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// processCounter is the process-wide fresh-id counter shared by every
// Context; it starts at 1 (0 is reserved for the dummy id).
var processCounter uint64 = 1

// Context is the identity context of one compilation pipeline run. It is
// safe for concurrent use by multiple goroutines driving the same or
// different pipelines: every Context draws from the same atomic
// process-wide counter, and RunID is assigned once at construction and
// never mutated afterward.
type Context struct {
	next *uint64

	// RunID correlates diagnostics and validation errors produced by this
	// pipeline run when several pipelines execute concurrently. It has no
	// bearing on Id identity or program semantics.
	RunID uuid.UUID
}

// New creates a fresh identity context with a new RunID, issuing ids from
// the process-wide counter.
func New() *Context {
	return &Context{next: &processCounter, RunID: uuid.New()}
}

// Fresh issues a new, previously unseen Id.
func (c *Context) Fresh() ID {
	n := atomic.AddUint64(c.next, 1) - 1
	return ID{number: n}
}

// Less imposes an arbitrary but deterministic total order over Ids, used
// only to make passes that must process variables in "some fixed order"
// (e.g. dense slot renumbering during SIR lowering) reproducible. It
// carries no semantic meaning: issuance order is otherwise irrelevant to
// program behavior.
func (id ID) Less(other ID) bool {
	return id.number < other.number
}
