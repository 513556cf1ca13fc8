package pictures

import (
	"image"
	"image/draw"
)

// Built-in outlines are drawn black on white at this size and scaled to the
// view by the preprocessor.
const (
	canvasW = 600
	canvasH = 800
	stroke  = 6
)

func newCanvas() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, canvasW, canvasH))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return img
}

// dot paints a filled square pen of the stroke width centered at (x, y).
func dot(img *image.Gray, x, y int) {
	r := image.Rect(x-stroke/2, y-stroke/2, x+stroke-stroke/2, y+stroke-stroke/2)
	draw.Draw(img, r.Intersect(img.Bounds()), image.Black, image.Point{}, draw.Src)
}

func line(img *image.Gray, x0, y0, x1, y1 int) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		dot(img, x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func rect(img *image.Gray, x0, y0, x1, y1 int) {
	line(img, x0, y0, x1, y0)
	line(img, x1, y0, x1, y1)
	line(img, x1, y1, x0, y1)
	line(img, x0, y1, x0, y0)
}

// ellipse outlines an axis-aligned ellipse using the midpoint algorithm.
func ellipse(img *image.Gray, cx, cy, rx, ry int) {
	plot := func(x, y int) {
		dot(img, cx+x, cy+y)
		dot(img, cx-x, cy+y)
		dot(img, cx+x, cy-y)
		dot(img, cx-x, cy-y)
	}
	rx2, ry2 := rx*rx, ry*ry
	x, y := 0, ry
	px, py := 0, 2*rx2*y
	p := ry2 - rx2*ry + rx2/4
	for px < py {
		plot(x, y)
		x++
		px += 2 * ry2
		if p < 0 {
			p += ry2 + px
		} else {
			y--
			py -= 2 * rx2
			p += ry2 + px - py
		}
	}
	p = ry2*(x*x+x) + rx2*(y-1)*(y-1) - rx2*ry2
	for y >= 0 {
		plot(x, y)
		y--
		py -= 2 * rx2
		if p > 0 {
			p += rx2 - py
		} else {
			x++
			px += 2 * ry2
			p += rx2 - py + px
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func drawBalloons() image.Image {
	img := newCanvas()
	balloons := []struct{ cx, cy, rx, ry int }{
		{170, 220, 100, 125},
		{330, 170, 95, 120},
		{450, 300, 90, 115},
	}
	knotX, knotY := 300, 650
	for _, b := range balloons {
		ellipse(img, b.cx, b.cy, b.rx, b.ry)
		// highlight
		ellipse(img, b.cx-b.rx/3, b.cy-b.ry/3, b.rx/6, b.ry/5)
		line(img, b.cx, b.cy+b.ry, knotX, knotY)
	}
	line(img, knotX, knotY, knotX-20, canvasH-40)
	// ground
	line(img, 0, canvasH-40, canvasW-1, canvasH-40)
	return img
}

func drawHouse() image.Image {
	img := newCanvas()
	// walls and roof
	rect(img, 120, 380, 480, 700)
	line(img, 90, 390, 300, 180)
	line(img, 300, 180, 510, 390)
	line(img, 90, 390, 510, 390)
	// door and windows
	rect(img, 260, 540, 340, 700)
	rect(img, 160, 440, 230, 510)
	rect(img, 370, 440, 440, 510)
	line(img, 195, 440, 195, 510)
	line(img, 405, 440, 405, 510)
	// sun
	ellipse(img, 500, 100, 50, 50)
	// ground
	line(img, 0, 700, canvasW-1, 700)
	return img
}

func drawGrid() image.Image {
	img := newCanvas()
	const step = 100
	for x := 0; x <= canvasW; x += step {
		line(img, min(x, canvasW-1), 0, min(x, canvasW-1), canvasH-1)
	}
	for y := 0; y <= canvasH; y += step {
		line(img, 0, min(y, canvasH-1), canvasW-1, min(y, canvasH-1))
	}
	return img
}
