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

import "math/bits"

// nodeRecord is the payload stored in the node table for one interior
// key: its four children, the single-slot memoized forward-evolution
// result, and the cached live-cell count used to short-circuit
// all-dead subtrees.
type nodeRecord struct {
	children     [4]Key
	forward      Key
	forwardSteps uint64
	liveCount    uint64
}

// nodeStore owns the interior-node table and the black-key cache
// (the canonical all-dead node at each depth).
type nodeStore struct {
	table     *largeKeyTable[nodeRecord]
	blackKeys []Key
}

func newNodeStore(capacityLog2 uint8) *nodeStore {
	return &nodeStore{
		table:     newLargeKeyTable[nodeRecord](capacityLog2),
		blackKeys: []Key{rawBlackKey},
	}
}

// liveCountOf returns the number of live cells under key, working for
// both raw leaves (popcount of the bitmask) and interior nodes (the
// cached count stored in their record).
func (s *nodeStore) liveCountOf(k Key) uint64 {
	if k.IsRaw() {
		return uint64(bits.OnesCount64(k.Lo))
	}
	return s.get(k).liveCount
}

// get looks up an interior node's record. A miss means a key escaped the
// table it was supposed to be canonicalized into, which is always a
// programming error, never bad input.
func (s *nodeStore) get(k Key) nodeRecord {
	rec, ok := s.table.Get(k)
	if !ok {
		panic("hashlife: lookup of a key absent from the node table")
	}
	return rec
}

// canonicalize returns the key for the interior node with the given
// four children, inserting it into the table if this is the first time
// this exact 512-bit child combination has been seen.
func (s *nodeStore) canonicalize(children [4]Key) Key {
	key := fingerprint(children)
	if _, ok := s.table.Get(key); ok {
		return key
	}
	var live uint64
	for _, c := range children {
		live += s.liveCountOf(c)
	}
	s.table.Put(key, nodeRecord{children: children, forward: nullKey, liveCount: live})
	return key
}

// isBlack reports whether key addresses an all-dead node or leaf.
func (s *nodeStore) isBlack(k Key) bool {
	if k == rawBlackKey {
		return true
	}
	return s.liveCountOf(k) == 0
}

// blackKey returns the canonical all-dead node at the given depth,
// building the cache lazily up from depth 0 (the raw all-dead leaf).
func (s *nodeStore) blackKey(depth int) Key {
	for len(s.blackKeys) <= depth {
		prev := s.blackKeys[len(s.blackKeys)-1]
		s.blackKeys = append(s.blackKeys, s.canonicalize([4]Key{prev, prev, prev, prev}))
	}
	return s.blackKeys[depth]
}

// transposeQuad interleaves the four 2x2 grandchild corners of a node
// (each supplied as the 4-child array of one of the node's own four
// children) into one row-major 4x4 grid, so 2x2 and 3x3 sub-windows of
// it can be sliced directly.
func transposeQuad(im [16]Key) [16]Key {
	return [16]Key{
		im[0], im[1], im[4], im[5],
		im[2], im[3], im[6], im[7],
		im[8], im[9], im[12], im[13],
		im[10], im[11], im[14], im[15],
	}
}

// sliceQuad extracts the 2x2 window of m whose top-left corner is at
// (x, y) in the 4x4 grid.
func sliceQuad(m [16]Key, x, y int) [4]Key {
	return [4]Key{
		m[(y+0)*4+x+0], m[(y+0)*4+x+1],
		m[(y+1)*4+x+0], m[(y+1)*4+x+1],
	}
}

// isOn4x4Border reports whether index i (row-major, 0..15) of a
// transposed 4x4 grid lies on its outer ring, i.e. is part of the
// one-cell border the step driver must verify is black before it can
// safely advance the root without losing information off the edge.
func isOn4x4Border(i int) bool {
	switch i {
	case 0, 1, 2, 3, 4, 7, 8, 11, 12, 13, 14, 15:
		return true
	default:
		return false
	}
}
