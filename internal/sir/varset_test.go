package sir

import "testing"

func TestVarSetInsertContainsRemove(t *testing.T) {
	s := NewVarSet()
	s.Insert(3)
	s.Insert(130)
	if !s.Contains(3) || !s.Contains(130) {
		t.Fatalf("expected both members present")
	}
	s.Remove(3)
	if s.Contains(3) {
		t.Fatalf("3 should have been removed")
	}
	if !s.Contains(130) {
		t.Fatalf("130 should remain")
	}
}

func TestVarSetUnionAndDifference(t *testing.T) {
	a := VarSetOf(1, 2, 3)
	b := VarSetOf(2, 3, 4)
	a.UnionWith(b)
	for _, v := range []int{1, 2, 3, 4} {
		if !a.Contains(v) {
			t.Fatalf("expected %d in union", v)
		}
	}
	a.DifferenceWith(b)
	if !a.Contains(1) {
		t.Fatalf("1 should survive difference")
	}
	for _, v := range []int{2, 3, 4} {
		if a.Contains(v) {
			t.Fatalf("%d should be removed by difference", v)
		}
	}
}

func TestVarSetEqual(t *testing.T) {
	a := VarSetOf(1, 64, 128)
	b := VarSetOf(128, 1, 64)
	if !a.Equal(b) {
		t.Fatalf("sets with same members in different insertion order must be equal")
	}
	b.Insert(5)
	if a.Equal(b) {
		t.Fatalf("sets must differ once a member is added")
	}
}

func TestVarSetEmptyAndNil(t *testing.T) {
	var nilSet *VarSet
	if !nilSet.IsEmpty() {
		t.Fatalf("nil set must be empty")
	}
	if nilSet.Contains(0) {
		t.Fatalf("nil set must not contain anything")
	}
	s := NewVarSet()
	if !s.IsEmpty() {
		t.Fatalf("fresh set must be empty")
	}
	s.Insert(0)
	if s.IsEmpty() {
		t.Fatalf("set with a member must not be empty")
	}
}

func TestVarSetMembersSorted(t *testing.T) {
	s := VarSetOf(65, 1, 200, 0)
	got := s.Members()
	want := []int{0, 1, 65, 200}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
