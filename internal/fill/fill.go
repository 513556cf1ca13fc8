// Package fill implements the mask-constrained scanline flood fill.
package fill

import (
	"fmt"
	"image"

	"github.com/maax3v3/zebra/internal/color"
	"github.com/maax3v3/zebra/internal/mask"
)

type seed struct{ x, y int }

// Fill paints the 4-connected paintable region of working that contains
// (seedX, seedY) with c.
//
// Filled cells are marked Fixed in working as they are painted, so each pixel
// is written exactly once. A seed that is out of bounds or not paintable
// leaves both working and pixels untouched. pixels must cover exactly
// working's dimensions starting at the origin.
func Fill(seedX, seedY int, working *mask.Mask, pixels *image.RGBA, c color.RGBA) {
	checkDims(working, pixels)
	visit(seedX, seedY, working, func(y, xStart, xEnd int) {
		off := pixels.PixOffset(xStart, y)
		for x := xStart; x <= xEnd; x++ {
			pixels.Pix[off+0] = c.R
			pixels.Pix[off+1] = c.G
			pixels.Pix[off+2] = c.B
			pixels.Pix[off+3] = c.A
			off += 4
		}
	})
}

// Region consumes the region containing (seedX, seedY) from working the same
// way Fill does and returns its size in pixels without painting anything.
func Region(seedX, seedY int, working *mask.Mask) int {
	n := 0
	visit(seedX, seedY, working, func(_, xStart, xEnd int) {
		n += xEnd - xStart + 1
	})
	return n
}

// visit walks the region span by span. span is called once per filled span
// after its cells have been consumed.
func visit(seedX, seedY int, m *mask.Mask, span func(y, xStart, xEnd int)) {
	if !m.In(seedX, seedY) || !m.At(seedX, seedY) {
		return
	}
	w, h := m.Width, m.Height
	cells := m.Cells

	stack := make([]seed, 0, 64)
	stack = append(stack, seed{seedX, seedY})
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		row := s.y * w
		if cells[row+s.x] != mask.Paintable {
			continue // consumed by an earlier span
		}

		xStart := s.x
		for xStart > 0 && cells[row+xStart-1] == mask.Paintable {
			xStart--
		}
		xEnd := s.x
		for xEnd < w-1 && cells[row+xEnd+1] == mask.Paintable {
			xEnd++
		}

		for x := xStart; x <= xEnd; x++ {
			cells[row+x] = mask.Fixed
		}
		span(s.y, xStart, xEnd)

		if s.y > 0 {
			stack = pushRuns(stack, cells[row-w:row], s.y-1, xStart, xEnd)
		}
		if s.y < h-1 {
			stack = pushRuns(stack, cells[row+w:row+2*w], s.y+1, xStart, xEnd)
		}
	}
}

// pushRuns appends one seed per maximal paintable run of line within
// [xStart, xEnd].
func pushRuns(stack []seed, line []byte, y, xStart, xEnd int) []seed {
	inRun := false
	for x := xStart; x <= xEnd; x++ {
		if line[x] == mask.Paintable {
			if !inRun {
				stack = append(stack, seed{x, y})
				inRun = true
			}
		} else {
			inRun = false
		}
	}
	return stack
}

func checkDims(m *mask.Mask, pixels *image.RGBA) {
	want := image.Rect(0, 0, m.Width, m.Height)
	if pixels.Bounds() != want || len(m.Cells) != m.Width*m.Height {
		panic(fmt.Sprintf("fill: mask %dx%d does not match pixels %v", m.Width, m.Height, pixels.Bounds()))
	}
}
