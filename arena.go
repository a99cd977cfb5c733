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

// arenaBlock is one growth step of an arena: a slice whose backing array
// never reallocates once allocated, so pointers into it stay valid for
// the arena's whole lifetime.
type arenaBlock[T any] struct {
	data []T
}

// arena is a typed bump allocator that hands out stable pointers. It
// grows by appending a new, larger block rather than reallocating
// existing ones.
type arena[T any] struct {
	blocks []*arenaBlock[T]
}

func newArena[T any]() *arena[T] {
	return &arena[T]{blocks: []*arenaBlock[T]{{data: make([]T, 0, 8)}}}
}

// alloc copies v into the arena and returns a stable pointer to it.
func (a *arena[T]) alloc(v T) *T {
	last := a.blocks[len(a.blocks)-1]
	if len(last.data) == cap(last.data) {
		newCap := (cap(last.data)*4)/3 + 5
		last = &arenaBlock[T]{data: make([]T, 0, newCap)}
		a.blocks = append(a.blocks, last)
	}
	last.data = append(last.data, v)
	return &last.data[len(last.data)-1]
}

// each walks every allocated element in insertion order, stopping early
// if fn returns false.
func (a *arena[T]) each(fn func(*T) bool) {
	for _, blk := range a.blocks {
		for i := range blk.data {
			if !fn(&blk.data[i]) {
				return
			}
		}
	}
}
