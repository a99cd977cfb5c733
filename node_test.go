// This is free and unencumbered software released into the public domain.
//
// Anyone is free to copy, modify, publish, use, compile, sell, or
// distribute this software, either in source code form or as a compiled
// binary, for any purpose, commercial or non-commercial, and by any
// means.
//
// In jurisdictions that recognize copyright laws, the author or authors
// of this software dedicate any and all copyright interest in the
// software to the public domain. We make this dedication for the benefit
// of the public at large and to the detriment of our heirs and
// successors. We intend this dedication to be an overt act of
// relinquishment in perpetuity of all present and future rights to this
// software under copyright law.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
// MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
// IN NO EVENT SHALL THE AUTHORS BE LIABLE FOR ANY CLAIM, DAMAGES OR
// OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE,
// ARISING FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
// OTHER DEALINGS IN THE SOFTWARE.
//
// For more information, please refer to <https://unlicense.org>

package hashlife

import "testing"

func TestCanonicalizeIsContentAddressed(t *testing.T) {
	s := newNodeStore(1)
	children := [4]Key{{Lo: 0x18}, {Lo: 0x3C}, {}, {Lo: 0xFF}}

	k1 := s.canonicalize(children)
	before := s.table.Len()
	k2 := s.canonicalize(children)

	if k1 != k2 {
		t.Fatalf("same children produced different keys: %v vs %v", k1, k2)
	}
	if s.table.Len() != before {
		t.Fatalf("re-canonicalizing identical children grew the table: %d -> %d", before, s.table.Len())
	}
	if k1.IsRaw() {
		t.Fatal("interior fingerprint unexpectedly carries the raw sentinel")
	}
}

func TestCanonicalizeSumsChildLiveCounts(t *testing.T) {
	s := newNodeStore(1)
	// 0x18 and 0x3C have 2 and 4 set bits; the interior node over them
	// (plus two dead leaves) must count 6.
	k := s.canonicalize([4]Key{{Lo: 0x18}, {Lo: 0x3C}, {}, {}})
	if got := s.get(k).liveCount; got != 6 {
		t.Fatalf("liveCount = %d, want 6", got)
	}

	// One level up, counts keep summing.
	parent := s.canonicalize([4]Key{k, k, s.blackKey(1), s.blackKey(1)})
	if got := s.get(parent).liveCount; got != 12 {
		t.Fatalf("parent liveCount = %d, want 12", got)
	}
}

// TestLiveCountConsistencyAfterStepping walks the whole node table of a
// stepped board and re-derives every stored liveCount from the node's
// children.
func TestLiveCountConsistencyAfterStepping(t *testing.T) {
	tree := FromPoints([]Point{
		{X: 1, Y: 0}, {X: 2, Y: 0},
		{X: 0, Y: 1}, {X: 1, Y: 1},
		{X: 1, Y: 2},
	})
	tree.Step(64)

	tree.store.table.Iter(func(k Key, rec nodeRecord) bool {
		var sum uint64
		for _, c := range rec.children {
			sum += tree.store.liveCountOf(c)
		}
		if sum != rec.liveCount {
			t.Fatalf("node %v: stored liveCount %d, children sum to %d", k, rec.liveCount, sum)
		}
		return true
	})
}

func TestBlackKeysAreAllDead(t *testing.T) {
	s := newNodeStore(1)
	for d := 0; d <= 5; d++ {
		k := s.blackKey(d)
		if got := s.liveCountOf(k); got != 0 {
			t.Fatalf("blackKey(%d) has liveCount %d, want 0", d, got)
		}
		if !s.isBlack(k) {
			t.Fatalf("isBlack(blackKey(%d)) = false", d)
		}
	}
	// The cache hands back the same canonical key on every call.
	if s.blackKey(3) != s.blackKey(3) {
		t.Fatal("blackKey(3) is not stable across calls")
	}
}
