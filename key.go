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

import "github.com/dchest/siphash"

// Key is the 128-bit content-addressed identity of a node: either a raw
// leaf (Hi == 0, Lo holding an 8x8 cell bitmask, one bit per cell,
// row-major from the least significant bit) or the strong fingerprint
// hash of an interior node's four children, looked up in a nodeStore.
type Key struct {
	Lo uint64
	Hi uint64
}

// IsRaw reports whether k addresses an 8x8 raw leaf rather than an
// interior node. The whole upper 64 bits being zero is the sentinel,
// accepted at face value even though an interior fingerprint could in
// principle collide with it.
func (k Key) IsRaw() bool { return k.Hi == 0 }

// rawBlackKey is the all-dead 8x8 raw leaf, the base case of the
// black-key cache.
var rawBlackKey = Key{Lo: 0, Hi: 0}

// nullKey marks "no forward cache computed yet" on a node record. Any
// fixed non-zero sentinel works as long as it can never collide with a
// genuine fingerprint in practice; siphash's 64-bit halves make this as
// safe as the 2^-64 assumption already accepted for node identity.
var nullKey = Key{Lo: 0xcccccccccccccccc, Hi: 0xcccccccccccccccc}

// Shr returns k right-shifted by n bits, treating k as a single 128-bit
// unsigned integer (Lo least significant). Used by the large-key table's
// probe sequence, which walks progressively higher bits of the key.
func (k Key) Shr(n uint) Key {
	if n >= 128 {
		return Key{}
	}
	if n >= 64 {
		return Key{Lo: k.Hi >> (n - 64)}
	}
	if n == 0 {
		return k
	}
	return Key{
		Lo: (k.Lo >> n) | (k.Hi << (64 - n)),
		Hi: k.Hi >> n,
	}
}

// siphash keys for the node fingerprint function. Fixed and arbitrary:
// node identity only needs to be well distributed, not secret.
const (
	fingerprintK0 = 0x9e3779b97f4a7c15
	fingerprintK1 = 0x6a09e667f3bcc909
)

// fingerprint hashes the 512-bit concatenation of four child keys into
// a single 128-bit Key, the content-addressed identity interior nodes
// are stored and looked up under.
func fingerprint(children [4]Key) Key {
	var buf [64]byte
	for i, c := range children {
		putKey(buf[i*16:i*16+16], c)
	}
	lo, hi := siphash.Hash128(fingerprintK0, fingerprintK1, buf[:])
	return Key{Lo: lo, Hi: hi}
}

func putKey(b []byte, k Key) {
	_ = b[15]
	b[0] = byte(k.Lo)
	b[1] = byte(k.Lo >> 8)
	b[2] = byte(k.Lo >> 16)
	b[3] = byte(k.Lo >> 24)
	b[4] = byte(k.Lo >> 32)
	b[5] = byte(k.Lo >> 40)
	b[6] = byte(k.Lo >> 48)
	b[7] = byte(k.Lo >> 56)
	b[8] = byte(k.Hi)
	b[9] = byte(k.Hi >> 8)
	b[10] = byte(k.Hi >> 16)
	b[11] = byte(k.Hi >> 24)
	b[12] = byte(k.Hi >> 32)
	b[13] = byte(k.Hi >> 40)
	b[14] = byte(k.Hi >> 48)
	b[15] = byte(k.Hi >> 56)
}
