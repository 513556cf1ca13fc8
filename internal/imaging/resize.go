package imaging

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// CoverClip scales src so that it covers a width × height box while keeping
// its aspect ratio, and crops the overflow equally from both sides. The result
// is composited over opaque white so transparent outline backgrounds read as
// paper. Sampling is approximate bilinear.
func CoverClip(src image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	if width <= 0 || height <= 0 {
		return dst
	}

	sr := coverRect(src.Bounds(), width, height)
	if sr.Empty() {
		return dst
	}
	if sr.Dx() == width && sr.Dy() == height {
		draw.Draw(dst, dst.Bounds(), src, sr.Min, draw.Over)
		return dst
	}
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, sr, draw.Over, nil)
	return dst
}

// coverRect returns the centered region of b with the aspect ratio of a
// width × height box. Scaling that region to the box is the same as scaling
// b to cover the box and clipping the overflow symmetrically.
func coverRect(b image.Rectangle, width, height int) image.Rectangle {
	sw, sh := b.Dx(), b.Dy()
	if sw <= 0 || sh <= 0 {
		return image.Rectangle{}
	}
	// Compare sw/sh with width/height without floating point.
	switch {
	case sw*height > sh*width:
		// Source is wider: keep full height, clip left and right.
		cw := (sh*width + height/2) / height
		if cw < 1 {
			cw = 1
		}
		x0 := b.Min.X + (sw-cw)/2
		return image.Rect(x0, b.Min.Y, x0+cw, b.Max.Y)
	case sw*height < sh*width:
		// Source is taller: keep full width, clip top and bottom.
		ch := (sw*height + width/2) / width
		if ch < 1 {
			ch = 1
		}
		y0 := b.Min.Y + (sh-ch)/2
		return image.Rect(b.Min.X, y0, b.Max.X, y0+ch)
	default:
		return b
	}
}
