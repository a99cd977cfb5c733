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

// entry is one arena-backed slot: a 128-bit key and its associated
// value. largeKeyTable stores pointers to entries so that growing the
// slot array never invalidates an arena address.
type entry[T any] struct {
	key   Key
	value T
}

// largeKeyTable is an open-addressed hash table keyed by Key, backed by
// an arena of stable-address cells. Slots hold pointers into the arena,
// never values directly, so the table can be grown (a fresh, larger
// slot array) by re-inserting existing arena pointers without touching
// their contents.
type largeKeyTable[T any] struct {
	slots        []*entry[T]
	arena        *arena[entry[T]]
	count        int
	mask         uint64
	capacityLog2 uint8
}

func newLargeKeyTable[T any](capacityLog2 uint8) *largeKeyTable[T] {
	size := uint64(1) << capacityLog2
	return &largeKeyTable[T]{
		slots:        make([]*entry[T], size),
		arena:        newArena[entry[T]](),
		mask:         size - 1,
		capacityLog2: capacityLog2,
	}
}

// locate walks the probe sequence for key: initial index is its low 64
// bits masked to the table size; on every miss the probe advances by the
// low byte of a running shifted copy of the key (seeded at key>>24,
// shifted right one bit per miss). It returns the first empty slot or
// the slot already holding key.
func locate[T any](slots []*entry[T], mask uint64, key Key) (idx uint64, found bool) {
	probe := key.Shr(24)
	var offset uint64
	for {
		idx = (key.Lo + offset) & mask
		slot := slots[idx]
		if slot == nil {
			return idx, false
		}
		if slot.key == key {
			return idx, true
		}
		offset += probe.Lo & 0xff
		probe = probe.Shr(1)
	}
}

func (t *largeKeyTable[T]) Get(key Key) (T, bool) {
	idx, found := locate(t.slots, t.mask, key)
	if !found {
		var zero T
		return zero, false
	}
	return t.slots[idx].value, true
}

// Put inserts or overwrites key's value; after an insertion that brings
// the load factor to one half, it grows the table.
func (t *largeKeyTable[T]) Put(key Key, value T) {
	idx, found := locate(t.slots, t.mask, key)
	if found {
		t.slots[idx].value = value
		return
	}
	cell := t.arena.alloc(entry[T]{key: key, value: value})
	t.slots[idx] = cell
	t.count++
	if uint64(t.count)*2 >= uint64(len(t.slots)) {
		t.grow()
	}
}

func (t *largeKeyTable[T]) grow() {
	t.capacityLog2++
	newSize := uint64(1) << t.capacityLog2
	newSlots := make([]*entry[T], newSize)
	newMask := newSize - 1
	t.arena.each(func(e *entry[T]) bool {
		idx, found := locate(newSlots, newMask, e.key)
		if found {
			panic("hashlife: duplicate key encountered while growing the node table")
		}
		newSlots[idx] = e
		return true
	})
	t.slots = newSlots
	t.mask = newMask
}

// Iter walks every stored (key, value) pair in insertion order, stopping
// early if fn returns false.
func (t *largeKeyTable[T]) Iter(fn func(Key, T) bool) {
	t.arena.each(func(e *entry[T]) bool { return fn(e.key, e.value) })
}

func (t *largeKeyTable[T]) Len() int { return t.count }

func (t *largeKeyTable[T]) CapacityLog2() uint8 { return t.capacityLog2 }
