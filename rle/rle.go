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

// Package rle reads and writes the run-length-encoded pattern format
// used by Conway's-Life tools: a header line followed by a body of
// b(lank)/o(n)/$(newline)/!(end) tokens, each optionally prefixed by a
// decimal repeat count.
package rle

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cellgrid/hashlife"
)

// Point is the coordinate type shared with package hashlife.
type Point = hashlife.Point

// ErrMalformedRLE is returned by Parse when the token stream contains a
// character that is not a digit, a line break (\n or \r), or one of
// b/o/$/!.
var ErrMalformedRLE = fmt.Errorf("rle: malformed pattern body")

// Parse reads an RLE document and returns its live cells. Leading lines
// starting with '#' are treated as comments and, along with the
// following header line (x = ..., y = ..., rule = ...), are discarded;
// everything after that is the token body.
func Parse(contents string) ([]Point, error) {
	lines := strings.Split(contents, "\n")
	i := 0
	for i < len(lines) && strings.HasPrefix(lines[i], "#") {
		i++
	}
	if i < len(lines) {
		i++ // discard the header/metadata line itself
	}

	var body strings.Builder
	for ; i < len(lines); i++ {
		body.WriteString(lines[i])
	}
	return iterCoords(body.String())
}

// iterCoords walks the b/o/$/! token stream.
func iterCoords(s string) ([]Point, error) {
	var pts []Point
	var x, y int64
	var prefix int64
	var havePrefix bool

	for _, c := range s {
		if c >= '0' && c <= '9' {
			prefix = prefix*10 + int64(c-'0')
			havePrefix = true
			continue
		}
		if c == '\n' || c == '\r' {
			// A run-length prefix is never split across a line break by
			// the writer below, so it is intentionally left standing
			// here rather than reset.
			continue
		}

		repeat := int64(1)
		if havePrefix {
			repeat = prefix
		}

		switch c {
		case 'b':
			x += repeat
		case 'o':
			for k := int64(0); k < repeat; k++ {
				pts = append(pts, Point{X: x + k, Y: y})
			}
			x += repeat
		case '$':
			y += repeat
			x = 0
		case '!':
			return pts, nil
		default:
			return nil, fmt.Errorf("%w: unexpected token %q", ErrMalformedRLE, c)
		}
		havePrefix = false
		prefix = 0
	}
	return pts, nil
}

const lineWidth = 70

// Write renders points as an RLE document: a header line giving the
// bounding box followed by a compressed, line-wrapped body.
func Write(points []Point) string {
	minX, minY, maxX, maxY := boundingBox(points)
	header := fmt.Sprintf("x = %d, y = %d, rule = B3/S23\n", maxX-minX+1, maxY-minY+1)
	body := compressRuns(generateBody(points))
	return header + splitLines(body)
}

func boundingBox(points []Point) (minX, minY, maxX, maxY int64) {
	if len(points) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = points[0].X, points[0].Y
	maxX, maxY = points[0].X, points[0].Y
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return
}

// generateBody emits the uncompressed b/o/$/! token stream for points in
// ascending (y, x) order.
func generateBody(points []Point) string {
	if len(points) == 0 {
		return "!\n"
	}
	sorted := append([]Point(nil), points...)
	hashlife.SortPoints(sorted)

	minX := sorted[0].X
	for _, p := range sorted {
		if p.X < minX {
			minX = p.X
		}
	}

	var sb strings.Builder
	x, y := minX, sorted[0].Y
	for _, p := range sorted {
		for y < p.Y {
			sb.WriteByte('$')
			x = minX
			y++
		}
		if gap := p.X - x; gap == 1 {
			sb.WriteByte('b')
		} else if gap > 1 {
			sb.WriteString(strconv.FormatInt(gap, 10))
			sb.WriteByte('b')
		}
		sb.WriteByte('o')
		x = p.X + 1
	}
	sb.WriteString("!\n")
	return sb.String()
}

// compressRuns collapses consecutive 'o' tokens into a decimal repeat
// count plus a single 'o'.
func compressRuns(s string) string {
	var sb strings.Builder
	run := 0
	flush := func() {
		switch {
		case run == 1:
			sb.WriteByte('o')
		case run > 1:
			sb.WriteString(strconv.Itoa(run))
			sb.WriteByte('o')
		}
		run = 0
	}
	for _, c := range s {
		if c == 'o' {
			run++
			continue
		}
		flush()
		sb.WriteRune(c)
	}
	flush()
	return sb.String()
}

// splitLines wraps s every lineWidth characters, never inside a run of
// digits.
func splitLines(s string) string {
	var sb strings.Builder
	lineStart := 0
	for _, c := range s {
		sb.WriteRune(c)
		if !(c >= '0' && c <= '9') && sb.Len() >= lineStart+lineWidth {
			sb.WriteByte('\n')
			lineStart = sb.Len()
		}
	}
	return sb.String()
}
