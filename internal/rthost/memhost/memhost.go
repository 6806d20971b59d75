// Package memhost is the in-memory sirvm.RuntimeHost used throughout the
// test suite: spec.md §6's "mock implementation [that] collects into an
// in-memory buffer for testing."
package memhost

import "sync"

// Host records every Puts call, in order, behind a mutex so it is safe
// to share across a gRPC-fronted test harness (internal/rthost/grpchost)
// as well as direct interpreter calls.
type Host struct {
	mu    sync.Mutex
	lines []string
}

// New returns an empty Host.
func New() *Host {
	return &Host{}
}

// Puts implements sirvm.RuntimeHost.
func (h *Host) Puts(s string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lines = append(h.lines, s)
}

// Lines returns every string passed to Puts, in call order.
func (h *Host) Lines() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.lines))
	copy(out, h.lines)
	return out
}
