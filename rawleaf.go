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
	"fmt"
	"sync"

	"github.com/klauspost/cpuid/v2"
)

// Raw leaves pack an 8x8 cell block into the low 64 bits of a Key, one
// bit per cell, row-major from the least significant bit: bit (8*y+x) is
// cell (x, y). The evolver below advances a 16x16 tile assembled from
// four such leaves by up to 4 generations using a bit-parallel,
// nibble-per-cell representation.

var (
	bit4MappingOnce sync.Once
	bit4Mapping     [1 << 16]uint64
	rawEvolverInfo  string
)

// bitsTo4Bit expands 16 packed bits into a 64-bit word with one nibble
// per bit, interleaving zero bits between each source bit so that
// sixteen independent 4-bit lanes can be summed without carrying into
// each other.
func bitsTo4Bit(x uint16) uint64 {
	q16 := uint64(x)
	q8 := (q16 | (q16 << 24)) & 0x000000ff000000ff
	q4 := (q8 | (q8 << 12)) & 0x000f000f000f000f
	q2 := (q4 | (q4 << 6)) & 0x0303030303030303
	q1 := (q2 | (q2 << 3)) & 0x1111111111111111
	return q1
}

func initBit4Mapping() {
	for i := range bit4Mapping {
		bit4Mapping[i] = bitsTo4Bit(uint16(i))
	}
	rawEvolverInfo = fmt.Sprintf("cpu=%s avx2=%t avx512=%t", cpuid.CPU.BrandName,
		cpuid.CPU.Supports(cpuid.AVX2), cpuid.CPU.Supports(cpuid.AVX512F))
}

func to4Bit(x uint16) uint64 {
	bit4MappingOnce.Do(initBit4Mapping)
	return bit4Mapping[x]
}

// RawEvolverInfo reports the host CPU features, detected on the first
// use of either the raw leaf evolver or this function. Diagnostics only: the nibble-plane algorithm
// itself is plain scalar Go regardless of what the host supports.
func RawEvolverInfo() string {
	bit4MappingOnce.Do(initBit4Mapping)
	return rawEvolverInfo
}

// pack4BitToBits is the inverse of bitsTo4Bit: it compacts one bit out of
// every nibble of a 32-bit value back into 8 packed bits.
func pack4BitToBits(x uint32) uint8 {
	g1 := x & 0x11111111
	g2 := ((g1 >> 3) | g1) & 0x03030303
	g4 := ((g2 >> 6) | g2) & 0x000f000f
	g8 := ((g4 >> 12) | g4) & 0x000000ff
	return uint8(g8)
}

// sumRow adds a row to its own left and right neighbor columns (shifted
// by one nibble each way), a step toward the 3x3 neighbor sum.
func sumRow(row uint64) uint64 {
	return row + (row << 4) + (row >> 4)
}

// calcResultBitsize applies Conway's B3/S23 rule to every nibble in
// parallel: a cell survives/is born when its neighbor sum is exactly 3,
// or is exactly 4 and it was already alive.
func calcResultBitsize(sums, orig uint64) uint64 {
	const mask = 0x1111111111111111
	bit1 := sums
	bit2 := sums >> 1
	bit4 := sums >> 2
	ge3 := bit1 & bit2
	eq4 := bit4 &^ bit1 &^ bit2
	eq3 := ge3 &^ bit4
	return ((eq4 & orig) | eq3) & mask
}

// stepForwardAutomata16x16 advances rows [1+step, 16-1-step) of prev by
// one generation into next, using a 3-row sliding sum so every row's
// neighbor count is computed from two additions, not nine.
func stepForwardAutomata16x16(prev, next []uint64, step int) {
	const rowMask = 0x0111111111111110
	s1 := sumRow(prev[step])
	s2 := sumRow(prev[step+1])
	csum := s1 + s2
	for y := 1 + step; y < 16-1-step; y++ {
		s3 := sumRow(prev[y+1])
		csum += s3
		next[y] = calcResultBitsize(csum, prev[y]) & rowMask
		csum -= s1
		s1 = s2
		s2 = s3
	}
}

// unpackToBit4 interleaves four raw 8x8 tiles (lt, rt, lb, rb, each one
// byte per row) into sixteen 4-bit-per-cell rows of a 16x16 grid.
func unpackToBit4(children [4]uint64) [16]uint64 {
	var rowBytes [32]byte
	for i, v := range children {
		for b := 0; b < 8; b++ {
			rowBytes[i*8+b] = byte(v >> (8 * b))
		}
	}
	var out [16]uint64
	for y := 0; y < 16; y++ {
		b := (y / 8) * 8
		lo := rowBytes[y+b]
		hi := rowBytes[y+b+8]
		out[y] = to4Bit(uint16(lo) | uint16(hi)<<8)
	}
	return out
}

// getInner8x8 extracts the center 8 rows x 8 columns of a 16x16 grid,
// still in 4-bit-per-cell form.
func getInner8x8(data [16]uint64) [8]uint32 {
	var out [8]uint32
	for y := 0; y < 8; y++ {
		out[y] = uint32(data[y+4] >> 16)
	}
	return out
}

// packFinishedBit4 compacts an 8-row, 4-bit-per-cell grid back into a
// single raw 8x8 leaf payload.
func packFinishedBit4(data [8]uint32) uint64 {
	var out uint64
	for i, v := range data {
		out |= uint64(pack4BitToBits(v)) << (8 * i)
	}
	return out
}

// stepForwardRaw advances the 16x16 tile formed by four raw leaf
// children by steps generations (0 to 4 inclusive) and returns the
// resulting center 8x8 tile as a new raw Key.
func stepForwardRaw(children [4]Key, steps uint64) Key {
	if steps > 4 {
		panic("hashlife: raw evolver asked to advance more than 4 generations at once")
	}
	var lows [4]uint64
	for i, c := range children {
		if !c.IsRaw() {
			panic("hashlife: raw evolver given a non-raw child key")
		}
		lows[i] = c.Lo
	}

	data1 := unpackToBit4(lows)
	var data2 [16]uint64
	for step := uint64(0); step < steps; step++ {
		if step%2 == 0 {
			stepForwardAutomata16x16(data1[:], data2[:], int(step))
		} else {
			stepForwardAutomata16x16(data2[:], data1[:], int(step))
		}
	}

	final := data1
	if steps%2 != 0 {
		final = data2
	}
	return Key{Lo: packFinishedBit4(getInner8x8(final))}
}
