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

// iterGrayscalePoints walks the tree depth-first from root (at the given
// depth and top-left absolute point), calling visit at every level with
// that subtree's live-cell count. Descent stops where visit returns
// false. Below depth 0 a raw leaf is subdivided further down to
// individual cells (depth -3): negative depth means "still inside one
// raw leaf, just reporting finer detail".
func (t *Tree) iterGrayscalePoints(root Key, depth int64, cur Point, visit func(depth int64, p Point, count uint64) bool) {
	switch {
	case depth <= -3:
		visit(depth, cur, root.Lo&1)
	case depth <= 0:
		if !root.IsRaw() {
			panic("hashlife: expected a raw leaf at or below depth 0")
		}
		count := uint64(bits.OnesCount64(root.Lo))
		if !visit(depth, cur, count) {
			return
		}
		magnitude := int64(1) << uint(depth+2)
		for y := int64(0); y < 2; y++ {
			for x := int64(0); x < 2; x++ {
				sub := getSubchunk(root.Lo, depth, uint8(x), uint8(y))
				offset := Point{X: x, Y: y}.Scale(magnitude)
				t.iterGrayscalePoints(Key{Lo: sub}, depth-1, cur.Add(offset), visit)
			}
		}
	default:
		if root.IsRaw() {
			panic("hashlife: expected an interior node above depth 0")
		}
		rec := t.store.get(root)
		if !visit(depth, cur, rec.liveCount) {
			return
		}
		magnitude := int64(1) << uint(depth+2)
		for i, child := range rec.children {
			offset := Point{X: int64(i % 2), Y: int64(i / 2)}.Scale(magnitude)
			t.iterGrayscalePoints(child, depth-1, cur.Add(offset), visit)
		}
	}
}

// repBytes replicates byte v into all eight bytes of a uint64.
func repBytes(v uint8) uint64 {
	x := uint64(v)
	x |= x << 32
	x |= x << 16
	x |= x << 8
	return x
}

// getGrayMask returns a mask selecting one of the four sub-quadrants of
// an 8x8 raw leaf at subdivision depth d (d in {0, -1, -2}).
func getGrayMask(d int64) uint64 {
	nds := uint64(1) << uint(d+2)
	xmask := repBytes(uint8((uint64(1) << nds) - 1))
	ymask := (uint64(1) << (nds * 8)) - 1
	return xmask & ymask
}

// getSubchunk extracts the (x, y) sub-quadrant of a raw leaf's bitmask v
// at subdivision depth d.
func getSubchunk(v uint64, d int64, x, y uint8) uint64 {
	nds := uint64(1) << uint(d+2)
	shifted := v >> (nds * uint64(x))
	shifted >>= nds * 8 * uint64(y)
	return getGrayMask(d) & shifted
}

// powShiftL returns 1<<exp for exp >= 0, and 0 for exp < 0. Go panics
// on a negative shift count; callers here only ever need the "smaller
// than one pixel" case to saturate to zero, not to crash.
func powShiftL(exp int64) int64 {
	if exp < 0 {
		return 0
	}
	return int64(1) << uint(exp)
}

// Grayscale samples the board into a width*height byte buffer, one byte
// per pixel (0 = fully dark, up to 255), where origin is the absolute
// board coordinate mapped to pixel (0, 0) and zoom is the number of
// board cells, log2, covered by one pixel's side. brightness scales the
// raw cell-density-per-pixel ratio; values above 255 saturate.
func (t *Tree) Grayscale(origin Point, width, height int, zoom uint8, brightness float64) []byte {
	const b2 = 16
	out := make([]byte, width*height)
	brightnessFixed := uint64(brightness * float64(uint64(1)<<b2))
	zoomDiv := int64(1) << zoom
	start := origin.Neg().Add(t.offset)

	t.iterGrayscalePoints(t.root, int64(t.depth), start, func(depth int64, p Point, count uint64) bool {
		relmag := powShiftL(depth + 3 - int64(zoom))
		if relmag == 0 {
			// A node smaller than one pixel still occupies the pixel it lies in.
			relmag = 1
		}
		tx := p.X / zoomDiv
		ty := p.Y / zoomDiv
		switch {
		case count == 0:
			return false
		case tx >= int64(width) || ty >= int64(height) || tx+relmag <= 0 || ty+relmag <= 0:
			return false
		case int64(zoom) >= depth+3:
			areaLog2 := uint(zoom) * 2
			val := (255 * brightnessFixed * count) >> (b2 + areaLog2)
			if val > 255 {
				val = 255
			}
			out[ty*int64(width)+tx] = byte(val)
			return false
		default:
			return true
		}
	})
	return out
}
