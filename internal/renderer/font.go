package renderer

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// FontRenderer is the interface for drawing text onto images.
// Implementations can be swapped (e.g., bitmap font, TTF font).
type FontRenderer interface {
	// DrawString draws the given text centered at (cx, cy) on the image
	// with the specified color and font size (approximate height in pixels).
	DrawString(img *image.RGBA, text string, cx, cy int, col color.Color, size int)

	// MeasureString returns the approximate width and height of the text
	// at the given font size.
	MeasureString(text string, size int) (width, height int)
}

// FaceFont draws text with a fixed-size font.Face, enlarged by whole pixels
// to approach the requested size.
type FaceFont struct {
	Face font.Face
}

// NewFaceFont returns a FaceFont using the 7x13 basic font.
func NewFaceFont() *FaceFont {
	return &FaceFont{Face: basicfont.Face7x13}
}

func (f *FaceFont) scale(size int) int {
	h := f.Face.Metrics().Height.Ceil()
	s := size / h
	if s < 1 {
		s = 1
	}
	return s
}

// natural returns the unscaled text size.
func (f *FaceFont) natural(text string) (width, height int) {
	w := font.MeasureString(f.Face, text).Ceil()
	return w, f.Face.Metrics().Height.Ceil()
}

func (f *FaceFont) DrawString(img *image.RGBA, text string, cx, cy int, col color.Color, size int) {
	nw, nh := f.natural(text)
	if nw == 0 {
		return
	}
	glyphs := image.NewRGBA(image.Rect(0, 0, nw, nh))
	d := &font.Drawer{
		Dst:  glyphs,
		Src:  image.NewUniform(col),
		Face: f.Face,
		Dot:  fixed.P(0, f.Face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)

	s := f.scale(size)
	w, h := nw*s, nh*s
	dst := image.Rect(cx-w/2, cy-h/2, cx-w/2+w, cy-h/2+h).Add(img.Bounds().Min)
	if s == 1 {
		draw.Draw(img, dst, glyphs, image.Point{}, draw.Over)
		return
	}
	xdraw.NearestNeighbor.Scale(img, dst, glyphs, glyphs.Bounds(), draw.Over, nil)
}

func (f *FaceFont) MeasureString(text string, size int) (width, height int) {
	nw, nh := f.natural(text)
	if nw == 0 {
		return 0, 0
	}
	s := f.scale(size)
	return nw * s, nh * s
}
