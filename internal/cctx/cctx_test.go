package cctx

import "testing"

func TestFreshIsMonotonicAndNeverDummy(t *testing.T) {
	ctx := New()
	a := ctx.Fresh()
	b := ctx.Fresh()
	c := ctx.Fresh()

	if a.IsDummy() || b.IsDummy() || c.IsDummy() {
		t.Fatalf("fresh ids must never be dummy: %v %v %v", a, b, c)
	}
	if a == b || b == c || a == c {
		t.Fatalf("fresh ids must be pairwise distinct: %v %v %v", a, b, c)
	}
}

func TestDummyIsZeroValue(t *testing.T) {
	var id ID
	if !id.IsDummy() {
		t.Fatalf("zero value ID must be dummy")
	}
	ctx := New()
	if ctx.Fresh().IsDummy() {
		t.Fatalf("Fresh() must never return the dummy id")
	}
}

func TestRunIDStableAcrossFreshCalls(t *testing.T) {
	ctx := New()
	run := ctx.RunID
	ctx.Fresh()
	ctx.Fresh()
	if ctx.RunID != run {
		t.Fatalf("RunID must not change across Fresh calls")
	}
}

func TestConcurrentFreshAreDistinct(t *testing.T) {
	ctx := New()
	const n = 200
	ids := make(chan ID, n)
	for i := 0; i < n; i++ {
		go func() { ids <- ctx.Fresh() }()
	}
	seen := make(map[ID]bool, n)
	for i := 0; i < n; i++ {
		id := <-ids
		if seen[id] {
			t.Fatalf("duplicate id issued under concurrency: %v", id)
		}
		seen[id] = true
	}
}
