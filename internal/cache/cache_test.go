package cache_test

import (
	"path/filepath"
	"testing"

	"github.com/funvibe/umo/internal/ast"
	"github.com/funvibe/umo/internal/cache"
	"github.com/funvibe/umo/internal/sir"
)

func sample() *sir.ProgramUnit {
	return &sir.ProgramUnit{Functions: []*sir.Function{{
		NumArgs: 0,
		NumVars: 1,
		Body: []*sir.BasicBlock{{Insts: []*sir.Inst{
			{Kind: sir.Literal{Lhs: 0, Value: sir.IntegerLit{Value: 7}}},
			{Kind: sir.Return{Rhs: 0}},
		}}},
	}}}
}

func TestStoreThenLookupRoundTrips(t *testing.T) {
	c, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer c.Close()

	key := cache.Key("puti(7);", "wrap")
	pu := sample()
	if err := c.Store(key, pu); err != nil {
		t.Fatalf("store: %v", err)
	}

	got, err := c.Lookup(key)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got == nil {
		t.Fatalf("expected a cache hit")
	}
	if len(got.Functions) != 1 || got.Functions[0].NumVars != 1 {
		t.Fatalf("got %+v, want a round-tripped single-function unit", got)
	}
}

func TestLookupMissReturnsNilWithoutError(t *testing.T) {
	c, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer c.Close()

	got, err := c.Lookup(cache.Key("puti(1);", "wrap"))
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got != nil {
		t.Fatalf("expected a miss, got %+v", got)
	}
}

func TestKeyDiffersByOverflowMode(t *testing.T) {
	a := cache.Key("puti(1);", "wrap")
	b := cache.Key("puti(1);", "panic")
	if a == b {
		t.Fatalf("expected distinct keys for distinct overflow modes")
	}
}

func TestStoreOverwritesPriorEntryForSameKey(t *testing.T) {
	c, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer c.Close()

	key := cache.Key("puti(7);", "wrap")
	if err := c.Store(key, sample()); err != nil {
		t.Fatalf("store 1: %v", err)
	}

	updated := &sir.ProgramUnit{Functions: []*sir.Function{{
		NumArgs: 0,
		NumVars: 2,
		Body: []*sir.BasicBlock{{Insts: []*sir.Inst{
			{Kind: sir.Builtin{Lhs: 1, Builtin: ast.Puti}},
			{Kind: sir.Return{Rhs: 1}},
		}}},
	}}}
	if err := c.Store(key, updated); err != nil {
		t.Fatalf("store 2: %v", err)
	}

	got, err := c.Lookup(key)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got.Functions[0].NumVars != 2 {
		t.Fatalf("expected overwritten entry with NumVars=2, got %+v", got.Functions[0])
	}
}
