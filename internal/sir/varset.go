package sir

import (
	"fmt"
	"sort"
	"strings"
)

const wordBits = 64

// VarSet is a dense bitset over variable slot indices, standing in for
// the Rust implementation's bit_set::BitSet<usize> (crate::sir_compile).
// No third-party bitset package appears anywhere in the reference corpus,
// so this is implemented directly on the standard library; see DESIGN.md.
type VarSet struct {
	words []uint64
}

// NewVarSet returns an empty set.
func NewVarSet() *VarSet {
	return &VarSet{}
}

// VarSetOf builds a set containing exactly the given variables.
func VarSetOf(vars ...int) *VarSet {
	s := NewVarSet()
	for _, v := range vars {
		s.Insert(v)
	}
	return s
}

func (s *VarSet) ensure(word int) {
	for len(s.words) <= word {
		s.words = append(s.words, 0)
	}
}

// Insert adds v to the set.
func (s *VarSet) Insert(v int) {
	s.ensure(v / wordBits)
	s.words[v/wordBits] |= 1 << uint(v%wordBits)
}

// Remove drops v from the set, if present.
func (s *VarSet) Remove(v int) {
	if v/wordBits >= len(s.words) {
		return
	}
	s.words[v/wordBits] &^= 1 << uint(v%wordBits)
}

// Contains reports whether v is a member.
func (s *VarSet) Contains(v int) bool {
	if s == nil || v/wordBits >= len(s.words) {
		return false
	}
	return s.words[v/wordBits]&(1<<uint(v%wordBits)) != 0
}

// Clone returns an independent copy.
func (s *VarSet) Clone() *VarSet {
	if s == nil {
		return NewVarSet()
	}
	words := make([]uint64, len(s.words))
	copy(words, s.words)
	return &VarSet{words: words}
}

// UnionWith merges other's members into s.
func (s *VarSet) UnionWith(other *VarSet) {
	if other == nil {
		return
	}
	s.ensure(len(other.words) - 1)
	for i, w := range other.words {
		s.words[i] |= w
	}
}

// DifferenceWith removes every member also present in other.
func (s *VarSet) DifferenceWith(other *VarSet) {
	if other == nil {
		return
	}
	for i := 0; i < len(s.words) && i < len(other.words); i++ {
		s.words[i] &^= other.words[i]
	}
}

// Equal reports whether s and other contain exactly the same members.
func (s *VarSet) Equal(other *VarSet) bool {
	a, b := s, other
	if a == nil {
		a = NewVarSet()
	}
	if b == nil {
		b = NewVarSet()
	}
	n := len(a.words)
	if len(b.words) > n {
		n = len(b.words)
	}
	for i := 0; i < n; i++ {
		var aw, bw uint64
		if i < len(a.words) {
			aw = a.words[i]
		}
		if i < len(b.words) {
			bw = b.words[i]
		}
		if aw != bw {
			return false
		}
	}
	return true
}

// IsEmpty reports whether the set has no members.
func (s *VarSet) IsEmpty() bool {
	if s == nil {
		return true
	}
	for _, w := range s.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// Members returns the set's elements in ascending order.
func (s *VarSet) Members() []int {
	if s == nil {
		return nil
	}
	var out []int
	for wi, w := range s.words {
		for w != 0 {
			bit := trailingZeros64(w)
			out = append(out, wi*wordBits+bit)
			w &^= 1 << uint(bit)
		}
	}
	sort.Ints(out)
	return out
}

func trailingZeros64(w uint64) int {
	if w == 0 {
		return wordBits
	}
	n := 0
	for w&1 == 0 {
		w >>= 1
		n++
	}
	return n
}

// String renders the set for diagnostics and test failure messages.
func (s *VarSet) String() string {
	members := s.Members()
	strs := make([]string, len(members))
	for i, m := range members {
		strs[i] = fmt.Sprintf("%d", m)
	}
	return "{" + strings.Join(strs, ", ") + "}"
}
