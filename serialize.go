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
	"encoding/binary"
	"fmt"
	"math/bits"

	"github.com/bits-and-blooms/bitset"
)

// Binary snapshot layout (all fields little-endian, no padding):
//
//	16B root key, 16B offset (two int64), 8B depth, 8B entry count,
//	8B age, then entry_count * (16B key + 96B node). A node is
//	4*16B children + 16B forward key + 8B forward_steps + 8B live_count.
const (
	headerSize          = 16 + 16 + 8 + 8 + 8
	nodeSize            = 4*16 + 16 + 8 + 8
	entrySize           = 16 + nodeSize
	maxPlausibleEntries = 1 << 40
)

func appendKey(buf []byte, k Key) []byte {
	buf = binary.LittleEndian.AppendUint64(buf, k.Lo)
	buf = binary.LittleEndian.AppendUint64(buf, k.Hi)
	return buf
}

// Serialize produces a flat, fixed-layout snapshot of the board: its
// root, offset, depth, age, and every reachable-or-not node currently in
// the table (the black-key cache is not serialized; it is recomputed
// lazily on load).
func (t *Tree) Serialize() []byte {
	n := t.store.table.Len()
	buf := make([]byte, 0, headerSize+n*entrySize)
	buf = appendKey(buf, t.root)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(t.offset.X))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(t.offset.Y))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(t.depth))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(n))
	buf = binary.LittleEndian.AppendUint64(buf, t.age)

	t.store.table.Iter(func(k Key, rec nodeRecord) bool {
		buf = appendKey(buf, k)
		for _, c := range rec.children {
			buf = appendKey(buf, c)
		}
		buf = appendKey(buf, rec.forward)
		buf = binary.LittleEndian.AppendUint64(buf, rec.forwardSteps)
		buf = binary.LittleEndian.AppendUint64(buf, rec.liveCount)
		return true
	})
	return buf
}

// decoder walks a snapshot byte slice, reporting the byte offset of any
// truncation it hits.
type decoder struct {
	data []byte
	pos  int
}

func (d *decoder) need(n int) error {
	if len(d.data)-d.pos < n {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncatedSnapshot, n, d.pos, len(d.data)-d.pos)
	}
	return nil
}

func (d *decoder) key() (Key, error) {
	if err := d.need(16); err != nil {
		return Key{}, err
	}
	lo := binary.LittleEndian.Uint64(d.data[d.pos:])
	hi := binary.LittleEndian.Uint64(d.data[d.pos+8:])
	d.pos += 16
	return Key{Lo: lo, Hi: hi}, nil
}

func (d *decoder) u64() (uint64, error) {
	if err := d.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(d.data[d.pos:])
	d.pos += 8
	return v, nil
}

func (d *decoder) i64() (int64, error) {
	v, err := d.u64()
	return int64(v), err
}

// Deserialize parses a snapshot produced by Serialize, rebuilding the
// node table (sized to the entry count so the load factor stays under
// one half) and the lazy black-key cache from scratch.
func Deserialize(data []byte) (*Tree, error) {
	d := &decoder{data: data}

	root, err := d.key()
	if err != nil {
		return nil, err
	}
	offX, err := d.i64()
	if err != nil {
		return nil, err
	}
	offY, err := d.i64()
	if err != nil {
		return nil, err
	}
	depth, err := d.u64()
	if err != nil {
		return nil, err
	}
	entries, err := d.u64()
	if err != nil {
		return nil, err
	}
	age, err := d.u64()
	if err != nil {
		return nil, err
	}

	if entries > maxPlausibleEntries {
		return nil, fmt.Errorf("%w: entry count %d at byte offset %d", ErrImplausibleHeader, entries, d.pos-16)
	}
	if need := int(entries) * entrySize; len(d.data)-d.pos < need {
		return nil, fmt.Errorf("%w: body needs %d more bytes at offset %d", ErrTruncatedSnapshot, need-(len(d.data)-d.pos), d.pos)
	}

	capacityLog2 := uint8(bits.Len64(entries+1)) + 1
	store := newNodeStore(capacityLog2)
	for i := uint64(0); i < entries; i++ {
		key, err := d.key()
		if err != nil {
			return nil, err
		}
		var rec nodeRecord
		for c := 0; c < 4; c++ {
			rec.children[c], err = d.key()
			if err != nil {
				return nil, err
			}
		}
		rec.forward, err = d.key()
		if err != nil {
			return nil, err
		}
		rec.forwardSteps, err = d.u64()
		if err != nil {
			return nil, err
		}
		rec.liveCount, err = d.u64()
		if err != nil {
			return nil, err
		}
		store.table.Put(key, rec)
	}

	return &Tree{
		store:  store,
		root:   root,
		depth:  int(depth),
		offset: Point{X: offX, Y: offY},
		age:    age,
	}, nil
}

// Pruned returns a copy of the board backed by a fresh node table
// holding only nodes reachable from the root (through children and any
// memoized forward-evolution results). The reachable-set is tracked with a
// fixed-size bitset indexed by each node's position in an insertion-
// order enumeration of the source table; each visited key is mapped to
// that position through a Key-indexed map.
func (t *Tree) Pruned() *Tree {
	indexOf := make(map[Key]uint, t.store.table.Len())
	var i uint
	t.store.table.Iter(func(k Key, _ nodeRecord) bool {
		indexOf[k] = i
		i++
		return true
	})

	visited := bitset.New(uint(len(indexOf)))
	newStore := newNodeStore(t.store.table.CapacityLog2())
	copyReachable(t.store, newStore, t.root, indexOf, visited)

	return &Tree{
		store:  newStore,
		root:   t.root,
		depth:  t.depth,
		offset: t.offset,
		age:    t.age,
	}
}

func copyReachable(src, dst *nodeStore, key Key, indexOf map[Key]uint, visited *bitset.BitSet) {
	if key.IsRaw() {
		return
	}
	idx, ok := indexOf[key]
	if !ok {
		panic("hashlife: prune encountered a key absent from the source table")
	}
	if visited.Test(idx) {
		return
	}
	visited.Set(idx)

	rec := src.get(key)
	for _, c := range rec.children {
		copyReachable(src, dst, c, indexOf, visited)
	}
	if rec.forward != nullKey && !rec.forward.IsRaw() {
		copyReachable(src, dst, rec.forward, indexOf, visited)
	}
	dst.table.Put(key, rec)
}
