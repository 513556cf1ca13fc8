// Package mask classifies outline pixels as paintable or fixed and holds the
// per-pixel result used to constrain flood fills.
package mask

import (
	"fmt"

	"github.com/maax3v3/zebra/internal/color"
)

// Cell values stored in a Mask.
const (
	Fixed     byte = 0 // part of the outline, never painted
	Paintable byte = 1
)

// AlphaThreshold is the outline alpha from which a pixel stops being
// paintable. A pixel with alpha exactly at the threshold is fixed.
const AlphaThreshold = 224

// Alpha returns the outline alpha of a source pixel: 255 minus its brightness.
func Alpha(c color.RGBA) uint8 {
	return uint8(255 - c.Brightness())
}

// IsPaintable reports whether a source pixel may receive paint.
func IsPaintable(c color.RGBA) bool {
	return Alpha(c) < AlphaThreshold
}

// Mask holds one cell per pixel, row-major: index = y*Width + x.
type Mask struct {
	Width, Height int
	Cells         []byte
}

// New returns a mask with every cell Fixed.
func New(width, height int) *Mask {
	return &Mask{
		Width:  width,
		Height: height,
		Cells:  make([]byte, width*height),
	}
}

// In reports whether (x, y) lies inside the mask.
func (m *Mask) In(x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

// At returns whether the cell at (x, y) is paintable.
func (m *Mask) At(x, y int) bool {
	return m.Cells[y*m.Width+x] == Paintable
}

// Set stores v at (x, y).
func (m *Mask) Set(x, y int, paintable bool) {
	v := Fixed
	if paintable {
		v = Paintable
	}
	m.Cells[y*m.Width+x] = v
}

// CopyFrom overwrites m with the cells of src. Both masks must have the same
// dimensions; a mismatch is a programming error and panics.
func (m *Mask) CopyFrom(src *Mask) {
	if m.Width != src.Width || m.Height != src.Height {
		panic(fmt.Sprintf("mask: copy %dx%d into %dx%d", src.Width, src.Height, m.Width, m.Height))
	}
	copy(m.Cells, src.Cells)
}

// Clone returns an independent copy of m.
func (m *Mask) Clone() *Mask {
	c := New(m.Width, m.Height)
	copy(c.Cells, m.Cells)
	return c
}

// Count returns the number of paintable cells.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.Cells {
		if v == Paintable {
			n++
		}
	}
	return n
}
