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

// Package hashlife implements a Hashlife engine: a hashed quadtree over
// an unbounded Conway's-Life board that memoizes "this region, N
// generations later" so that large uniform or repetitive regions are
// evolved once and reused, rather than simulated cell by cell.
package hashlife

// Tree is a single Hashlife board. Its zero value is not usable; build
// one with New or FromPoints.
type Tree struct {
	store  *nodeStore
	root   Key
	depth  int
	offset Point
	age    uint64
}

// New returns an empty board at depth 2 (a 32x32 cell square). Step
// grows it to depth 3 before the first advance.
func New() *Tree {
	t := &Tree{store: newNodeStore(1), depth: 1}
	t.root = t.store.blackKey(1)
	t.increaseDepth()
	return t
}

// FromPoints builds a board whose live cells are exactly the given
// points (duplicates collapse harmlessly). Raw 8x8 tiles are assembled
// first, then combined upward until a single root remains and the tree
// is at least as deep as the step driver ever requires.
func FromPoints(points []Point) *Tree {
	if len(points) == 0 {
		return New()
	}

	// Tiles are indexed from non-negative coordinates, so a pattern that
	// reaches below zero is built shifted by bias (a multiple of 8) and
	// the shift is folded back into the offset.
	var bias Point
	for _, p := range points {
		bias = Point{X: min(bias.X, p.X), Y: min(bias.Y, p.Y)}
	}
	bias = Point{X: bias.X &^ 7, Y: bias.Y &^ 7}
	shifted := make([]Point, len(points))
	for i, p := range points {
		shifted[i] = p.Add(bias.Neg())
	}

	t := &Tree{store: newNodeStore(1)}
	level := gatherRawPoints(shifted)
	depth := 0
	for len(level) > 1 || depth < 3 {
		depth++
		level = t.gatherPointsRecursive(level, depth)
	}

	var rootPoint Point
	var rootKey Key
	for p, k := range level {
		rootPoint, rootKey = p, k
		break
	}

	magnitude := int64(8) << uint(depth-1)
	t.root = rootKey
	t.depth = depth
	t.offset = rootPoint.Scale(magnitude).Add(bias)
	return t
}

func gatherRawPoints(points []Point) map[Point]Key {
	tiles := make(map[Point]Key)
	for _, p := range points {
		loc := Point{X: p.X / 8, Y: p.Y / 8}
		bit := uint((p.Y%8)*8 + p.X%8)
		cur := tiles[loc]
		cur.Lo |= uint64(1) << bit
		tiles[loc] = cur
	}
	return tiles
}

func (t *Tree) gatherPointsRecursive(prev map[Point]Key, depth int) map[Point]Key {
	next := make(map[Point]Key, len(prev))
	for oldPoint := range prev {
		newPoint := Point{X: oldPoint.X / 2, Y: oldPoint.Y / 2}
		if _, done := next[newPoint]; done {
			continue
		}
		var children [4]Key
		for i, cp := range quadChildPoints(newPoint) {
			if k, ok := prev[cp]; ok {
				children[i] = k
			} else {
				children[i] = t.store.blackKey(depth - 1)
			}
		}
		next[newPoint] = t.store.canonicalize(children)
	}
	return next
}

func quadChildPoints(p Point) [4]Point {
	return [4]Point{
		{X: p.X*2 + 0, Y: p.Y*2 + 0},
		{X: p.X*2 + 1, Y: p.Y*2 + 0},
		{X: p.X*2 + 0, Y: p.Y*2 + 1},
		{X: p.X*2 + 1, Y: p.Y*2 + 1},
	}
}

// increaseDepth wraps the current root in a one-level-deeper black
// border, doubling the board's side length and shifting offset so that
// absolute cell coordinates are unaffected.
func (t *Tree) increaseDepth() {
	rec := t.store.get(t.root)
	border := t.store.blackKey(t.depth - 1)
	grid := [16]Key{
		border, border, border, border,
		border, rec.children[0], rec.children[1], border,
		border, rec.children[2], rec.children[3], border,
		border, border, border, border,
	}
	children := [4]Key{
		t.store.canonicalize(sliceQuad(grid, 0, 0)),
		t.store.canonicalize(sliceQuad(grid, 2, 0)),
		t.store.canonicalize(sliceQuad(grid, 0, 2)),
		t.store.canonicalize(sliceQuad(grid, 2, 2)),
	}
	t.root = t.store.canonicalize(children)
	t.depth++
	magnitude := int64(8) << uint(t.depth-2)
	t.offset = t.offset.Add(Point{X: -magnitude, Y: -magnitude})
}

// Step advances the board by n generations. It is a no-op for n == 0.
func (t *Tree) Step(n uint64) {
	if n == 0 {
		return
	}
	t.step(n)
}

// step is the top-level driver: it grows the
// tree until the outer ring of its 4x4 grandchild grid is black (so evolving
// the root can never be contaminated by data that fell off the edge),
// advances by as many generations as the current depth supports in one
// call, shrinks back by one level, and recurses on any steps left over.
func (t *Tree) step(n uint64) {
	for t.depth < 3 {
		t.increaseDepth()
	}

	rootRec := t.store.get(t.root)
	var grandchildren [16]Key
	for i, c := range rootRec.children {
		childRec := t.store.get(c)
		copy(grandchildren[i*4:i*4+4], childRec.children[:])
	}
	grandchildren = transposeQuad(grandchildren)

	for i, k := range grandchildren {
		if isOn4x4Border(i) && !t.store.isBlack(k) {
			t.increaseDepth()
			t.step(n)
			return
		}
	}

	maxSteps := uint64(4) << uint(t.depth-1)
	cur := n
	if cur > maxSteps {
		cur = maxSteps
	}
	t.increaseDepth()

	t.root = t.store.stepForward(t.root, t.depth-1, cur)
	t.depth--
	t.age += cur
	magnitude := int64(8) << uint(t.depth-1)
	t.offset = t.offset.Add(Point{X: magnitude, Y: magnitude})

	if rest := n - cur; rest != 0 {
		t.step(rest)
	}
}

// NumLive returns the number of live cells currently on the board.
func (t *Tree) NumLive() uint64 { return t.store.get(t.root).liveCount }

// NodeCount returns the number of distinct interior nodes currently
// held in the node table (raw leaves are not counted).
func (t *Tree) NodeCount() int { return t.store.table.Len() }

// Age returns the total number of generations this board has been
// advanced by since it was created.
func (t *Tree) Age() uint64 { return t.age }

// DumpPoints returns the board's live cells as a Point.Less-sorted
// slice, the inverse of FromPoints.
func (t *Tree) DumpPoints() []Point {
	var pts []Point
	t.iterGrayscalePoints(t.root, int64(t.depth), t.offset, func(depth int64, p Point, count uint64) bool {
		if count == 0 {
			return false
		}
		if depth == -3 {
			pts = append(pts, p)
			return false
		}
		return true
	})
	SortPoints(pts)
	return pts
}
