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

// stepForward advances the node at key (depth levels below the leaves,
// i.e. covering a (2^(depth+4))^2 cell square) by steps generations,
// where steps must not exceed 4<<depth. The single-slot memo on the
// node's record is consulted first; a miss recomputes and, for nonzero
// step counts, overwrites the memo (never grows it to a per-count map).
func (s *nodeStore) stepForward(key Key, depth int, steps uint64) Key {
	fullSteps := uint64(4) << uint(depth)
	if steps > fullSteps {
		panic("hashlife: step count exceeds the maximum representable at this depth")
	}
	rec := s.get(key)
	if steps != 0 && rec.forward != nullKey && rec.forwardSteps == steps {
		return rec.forward
	}
	result := s.computeForward(rec, depth, steps)
	if steps != 0 {
		rec.forward = result
		rec.forwardSteps = steps
		s.table.Put(key, rec)
	}
	return result
}

// computeForward does the actual recursive work behind stepForward. At
// depth 0 it delegates to
// the bit-parallel raw evolver; otherwise it reduces a 4x4 grid of
// grandchildren to a 3x3 grid of half-advanced nodes (pass one) and
// then to a 2x2 grid (pass two) that is combined into the result, each
// pass only as many
// generations as that quadrant can safely advance without touching data
// outside its 4x4 window.
func (s *nodeStore) computeForward(rec nodeRecord, depth int, steps uint64) Key {
	if depth == 0 {
		return stepForwardRaw(rec.children, steps)
	}
	if rec.liveCount == 0 {
		return s.blackKey(depth)
	}

	var grid [16]Key
	for i, c := range rec.children {
		childRec := s.get(c)
		copy(grid[i*4:i*4+4], childRec.children[:])
	}
	grid = transposeQuad(grid)

	if steps == 0 {
		return s.canonicalize(sliceQuad(grid, 1, 1))
	}

	halfFull := uint64(4) << uint(depth-1)
	for pass := 0; pass < 2; pass++ {
		remaining := int64(steps) - int64(halfFull)*int64(pass)
		if remaining < 0 {
			remaining = 0
		}
		dt := uint64(remaining)
		if dt > halfFull {
			dt = halfFull
		}

		size := 3 - pass
		var next [16]Key
		for x := 0; x < size; x++ {
			for y := 0; y < size; y++ {
				childKey := s.canonicalize(sliceQuad(grid, x, y))
				next[y*4+x] = s.stepForward(childKey, depth-1, dt)
			}
		}
		grid = next
	}

	return s.canonicalize(sliceQuad(grid, 0, 0))
}
