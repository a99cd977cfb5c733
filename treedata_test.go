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

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func TestNewTreeIsEmpty(t *testing.T) {
	tree := New()
	if tree.NumLive() != 0 {
		t.Fatalf("NumLive() = %d, want 0", tree.NumLive())
	}
	if tree.depth < 2 {
		t.Fatalf("depth = %d, want at least 2", tree.depth)
	}
	if got := tree.DumpPoints(); len(got) != 0 {
		t.Fatalf("DumpPoints() = %v, want empty", got)
	}
}

func TestFromPointsDumpPointsRoundTrip(t *testing.T) {
	pts := []Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 5, Y: 5}}
	tree := FromPoints(pts)

	want := append([]Point(nil), pts...)
	SortPoints(want)
	got := tree.DumpPoints()

	if !pointsEqual(got, want) {
		t.Fatalf("round trip mismatch:\ngot:  %s\nwant: %s", spew.Sdump(got), spew.Sdump(want))
	}
	if tree.NumLive() != uint64(len(pts)) {
		t.Fatalf("NumLive() = %d, want %d", tree.NumLive(), len(pts))
	}
}

func TestBlockStillLife(t *testing.T) {
	// A 2x2 block is a still life: it never changes.
	block := []Point{{X: 10, Y: 10}, {X: 11, Y: 10}, {X: 10, Y: 11}, {X: 11, Y: 11}}
	tree := FromPoints(block)
	tree.Step(37)

	want := append([]Point(nil), block...)
	SortPoints(want)
	got := tree.DumpPoints()
	if !pointsEqual(got, want) {
		t.Fatalf("block still life changed after 37 steps:\ngot:  %s\nwant: %s", spew.Sdump(got), spew.Sdump(want))
	}
	if tree.Age() != 37 {
		t.Fatalf("Age() = %d, want 37", tree.Age())
	}
}

func TestBlinkerOscillatesWithPeriodTwo(t *testing.T) {
	// A horizontal 3-cell blinker returns to its starting shape every 2
	// generations.
	blinker := []Point{{X: 9, Y: 10}, {X: 10, Y: 10}, {X: 11, Y: 10}}
	tree := FromPoints(blinker)
	tree.Step(2)

	want := append([]Point(nil), blinker...)
	SortPoints(want)
	got := tree.DumpPoints()
	if !pointsEqual(got, want) {
		t.Fatalf("blinker did not return to its original shape after 2 steps:\ngot:  %s\nwant: %s", spew.Sdump(got), spew.Sdump(want))
	}
}

func TestGliderTranslatesDiagonally(t *testing.T) {
	// A standard glider translates by (1, 1) every 4 generations and
	// is otherwise shape-invariant.
	glider := []Point{
		{X: 1, Y: 0},
		{X: 2, Y: 1},
		{X: 0, Y: 2}, {X: 1, Y: 2}, {X: 2, Y: 2},
	}
	tree := FromPoints(glider)
	tree.Step(4)

	want := make([]Point, len(glider))
	for i, p := range glider {
		want[i] = p.Add(Point{X: 1, Y: 1})
	}
	SortPoints(want)
	got := tree.DumpPoints()
	if !pointsEqual(got, want) {
		t.Fatalf("glider did not translate by (1,1) after 4 steps:\ngot:  %s\nwant: %s", spew.Sdump(got), spew.Sdump(want))
	}
}

func TestStepZeroIsNoOp(t *testing.T) {
	pts := []Point{{X: 3, Y: 4}, {X: 4, Y: 4}}
	tree := FromPoints(pts)
	tree.Step(0)
	if tree.Age() != 0 {
		t.Fatalf("Age() = %d after Step(0), want 0", tree.Age())
	}
	want := append([]Point(nil), pts...)
	SortPoints(want)
	if got := tree.DumpPoints(); !pointsEqual(got, want) {
		t.Fatalf("Step(0) changed the board:\ngot:  %s\nwant: %s", spew.Sdump(got), spew.Sdump(want))
	}
}

func TestRootStaysAtLeastDepthTwo(t *testing.T) {
	tree := FromPoints([]Point{{X: 0, Y: 0}})
	tree.Step(1)
	if tree.depth < 2 {
		t.Fatalf("depth = %d after Step, want at least 2", tree.depth)
	}
}

func TestStepAdditivity(t *testing.T) {
	// step(a); step(b) must land on the same live-cell set and age as a
	// single step(a+b) call from the same starting pattern.
	glider := []Point{
		{X: 1, Y: 0},
		{X: 2, Y: 1},
		{X: 0, Y: 2}, {X: 1, Y: 2}, {X: 2, Y: 2},
	}

	split := FromPoints(glider)
	split.Step(9)
	split.Step(13)

	combined := FromPoints(glider)
	combined.Step(22)

	if split.Age() != combined.Age() {
		t.Fatalf("age mismatch: split=%d combined=%d", split.Age(), combined.Age())
	}
	if !pointsEqual(split.DumpPoints(), combined.DumpPoints()) {
		t.Fatalf("live-cell sets diverged:\nsplit:    %s\ncombined: %s",
			spew.Sdump(split.DumpPoints()), spew.Sdump(combined.DumpPoints()))
	}
}

// stepReferenceOnce advances a live-cell set by one generation with a
// straightforward per-cell neighbor count, the slow evaluator the
// engine's results are checked against.
func stepReferenceOnce(alive map[Point]bool) map[Point]bool {
	counts := make(map[Point]int, len(alive)*4)
	for p := range alive {
		for dy := int64(-1); dy <= 1; dy++ {
			for dx := int64(-1); dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				counts[Point{X: p.X + dx, Y: p.Y + dy}]++
			}
		}
	}
	next := make(map[Point]bool, len(alive))
	for p, n := range counts {
		if n == 3 || (n == 2 && alive[p]) {
			next[p] = true
		}
	}
	return next
}

func stepReference(pts []Point, steps int) []Point {
	alive := make(map[Point]bool, len(pts))
	for _, p := range pts {
		alive[p] = true
	}
	for i := 0; i < steps; i++ {
		alive = stepReferenceOnce(alive)
	}
	out := make([]Point, 0, len(alive))
	for p := range alive {
		out = append(out, p)
	}
	SortPoints(out)
	return out
}

func TestStepMatchesReferenceEvaluator(t *testing.T) {
	// The R-pentomino is chaotic for over a thousand generations, so
	// agreeing with the per-cell evaluator across these step counts
	// exercises every depth of the recursive evolver rather than a
	// pattern with a short period.
	rPentomino := []Point{
		{X: 1, Y: 0}, {X: 2, Y: 0},
		{X: 0, Y: 1}, {X: 1, Y: 1},
		{X: 1, Y: 2},
	}
	for _, steps := range []int{1, 2, 3, 7, 16, 33, 100} {
		tree := FromPoints(rPentomino)
		tree.Step(uint64(steps))
		got := tree.DumpPoints()
		want := stepReference(rPentomino, steps)
		if !pointsEqual(got, want) {
			t.Fatalf("diverged from the reference evaluator after %d steps:\ngot:  %s\nwant: %s",
				steps, spew.Sdump(got), spew.Sdump(want))
		}
	}
}

func TestBlinkerFlipsVerticalAfterOneStep(t *testing.T) {
	blinker := []Point{{X: 9, Y: 10}, {X: 10, Y: 10}, {X: 11, Y: 10}}
	tree := FromPoints(blinker)
	tree.Step(1)

	want := []Point{{X: 10, Y: 9}, {X: 10, Y: 10}, {X: 10, Y: 11}}
	got := tree.DumpPoints()
	if !pointsEqual(got, want) {
		t.Fatalf("blinker did not flip vertical after 1 step:\ngot:  %s\nwant: %s",
			spew.Sdump(got), spew.Sdump(want))
	}
}

func pointsEqual(a, b []Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
