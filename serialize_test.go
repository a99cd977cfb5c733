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

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	pts := []Point{{X: 1, Y: 0}, {X: 2, Y: 1}, {X: 0, Y: 2}, {X: 1, Y: 2}, {X: 2, Y: 2}}
	tree := FromPoints(pts)
	tree.Step(4)

	blob := tree.Serialize()
	if len(blob) != headerSize+tree.NodeCount()*entrySize {
		t.Fatalf("serialized length = %d, want %d", len(blob), headerSize+tree.NodeCount()*entrySize)
	}

	restored, err := Deserialize(blob)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	if restored.root != tree.root || restored.depth != tree.depth || restored.age != tree.age || restored.offset != tree.offset {
		t.Fatalf("restored header mismatch: got %+v, want root=%v depth=%d age=%d offset=%v",
			restored, tree.root, tree.depth, tree.age, tree.offset)
	}
	if restored.NumLive() != tree.NumLive() {
		t.Fatalf("restored NumLive() = %d, want %d", restored.NumLive(), tree.NumLive())
	}
	if !pointsEqual(restored.DumpPoints(), tree.DumpPoints()) {
		t.Fatalf("restored DumpPoints() mismatch")
	}
}

// TestSerializeDeserializeThenStepMatchesUnbrokenRun exercises spec
// scenario S3: serialize a partially-stepped board, deserialize it,
// step the restored tree the rest of the way, and check that it lands
// on the same live-cell set and age as a fresh tree stepped the full
// distance in one unbroken run. This is the case the basic round-trip
// test above doesn't cover: it never advances the *restored* tree, so
// a restored node's memoized `forward`/`forwardSteps` fields are never
// read back by further evolution.
func TestSerializeDeserializeThenStepMatchesUnbrokenRun(t *testing.T) {
	glider := []Point{
		{X: 1, Y: 0},
		{X: 2, Y: 1},
		{X: 0, Y: 2}, {X: 1, Y: 2}, {X: 2, Y: 2},
	}
	const firstLeg, secondLeg = 4, 8

	tree := FromPoints(glider)
	tree.Step(firstLeg)

	blob := tree.Serialize()
	restored, err := Deserialize(blob)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	restored.Step(secondLeg)

	reference := FromPoints(glider)
	reference.Step(firstLeg + secondLeg)

	if restored.Age() != reference.Age() {
		t.Fatalf("Age() = %d, want %d", restored.Age(), reference.Age())
	}
	if !pointsEqual(restored.DumpPoints(), reference.DumpPoints()) {
		t.Fatalf("serialize/deserialize/step diverged from an unbroken run:\ngot:  %v\nwant: %v",
			restored.DumpPoints(), reference.DumpPoints())
	}
}

func TestDeserializeTruncated(t *testing.T) {
	tree := FromPoints([]Point{{X: 0, Y: 0}})
	blob := tree.Serialize()

	if _, err := Deserialize(blob[:headerSize-1]); err == nil {
		t.Fatal("expected an error for a header-truncated blob")
	}
	if len(blob) > headerSize {
		if _, err := Deserialize(blob[:len(blob)-1]); err == nil {
			t.Fatal("expected an error for a body-truncated blob")
		}
	}
}

func TestDeserializeImplausibleHeader(t *testing.T) {
	blob := make([]byte, headerSize)
	// entry count field (the u64 after depth, bytes 40..47) set to an
	// absurd value.
	for i := 0; i < 8; i++ {
		blob[headerSize-16+i] = 0xff
	}
	if _, err := Deserialize(blob); err == nil {
		t.Fatal("expected an error for an implausible entry count")
	}
}

func TestPrunedPreservesObservableState(t *testing.T) {
	pts := []Point{{X: 1, Y: 0}, {X: 2, Y: 1}, {X: 0, Y: 2}, {X: 1, Y: 2}, {X: 2, Y: 2}}
	tree := FromPoints(pts)
	tree.Step(8)

	pruned := tree.Pruned()
	if pruned.Age() != tree.Age() {
		t.Fatalf("Pruned() Age() = %d, want %d", pruned.Age(), tree.Age())
	}
	if pruned.NumLive() != tree.NumLive() {
		t.Fatalf("Pruned() NumLive() = %d, want %d", pruned.NumLive(), tree.NumLive())
	}
	if !pointsEqual(pruned.DumpPoints(), tree.DumpPoints()) {
		t.Fatal("Pruned() changed the visible pattern")
	}
	if pruned.NodeCount() > tree.NodeCount() {
		t.Fatalf("Pruned() grew the node table: %d > %d", pruned.NodeCount(), tree.NodeCount())
	}

	reprund := pruned.Pruned()
	if reprund.NodeCount() != pruned.NodeCount() {
		t.Fatalf("pruning an already-pruned tree changed node count: %d != %d", reprund.NodeCount(), pruned.NodeCount())
	}
}
