// Package stdouthost is the default sirvm.RuntimeHost used by cmd/umo: it
// writes each Puts call as a line to a wrapped io.Writer, grounded on the
// teacher's plain fmt.Fprintln output style (internal/evaluator's Out
// field usage).
package stdouthost

import (
	"fmt"
	"io"
)

// Host writes every Puts call to Out, one line per call.
type Host struct {
	Out io.Writer
}

// New wraps out as a RuntimeHost.
func New(out io.Writer) *Host {
	return &Host{Out: out}
}

// Puts implements sirvm.RuntimeHost.
func (h *Host) Puts(s string) {
	fmt.Fprintln(h.Out, s)
}
