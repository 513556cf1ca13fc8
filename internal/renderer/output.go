// Package renderer composes the painted picture with the swatch bar shown
// beneath it and maps clicks on the bar back to swatches.
package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	zcolor "github.com/maax3v3/zebra/internal/color"
	"github.com/maax3v3/zebra/internal/palette"
)

// Config holds rendering configuration.
type Config struct {
	BarPadding    int // vertical padding above and below the swatch rows
	SwatchSize    int // diameter of swatch circles
	SwatchSpacing int // spacing between swatches
	BarMargin     int // left/right margin for the bar
	RingWidth     int // thickness of the ring around the selected swatch
}

// DefaultConfig returns sensible default rendering configuration.
func DefaultConfig() Config {
	return Config{
		BarPadding:    16,
		SwatchSize:    44,
		SwatchSpacing: 18,
		BarMargin:     20,
		RingWidth:     3,
	}
}

var (
	barBackground = color.RGBA{245, 245, 245, 255}
	separator     = color.RGBA{200, 200, 200, 255}
	swatchBorder  = color.RGBA{100, 100, 100, 255}
	ringColor     = color.RGBA{0, 0, 0, 255}
	progressTrack = color.RGBA{220, 220, 220, 255}
	progressFill  = color.RGBA{30, 136, 229, 255}
)

// Compose draws picture with the swatch bar below it. Swatches are numbered
// from 1 in slot order.
func Compose(picture *image.RGBA, slots []palette.Slot, font FontRenderer, cfg Config) *image.RGBA {
	b := picture.Bounds()
	w, h := b.Dx(), b.Dy()
	barH := BarHeight(len(slots), w, cfg)

	out := image.NewRGBA(image.Rect(0, 0, w, h+barH))
	draw.Draw(out, image.Rect(0, 0, w, h), picture, b.Min, draw.Src)
	drawBar(out, slots, font, cfg, w, h)
	return out
}

// BarHeight returns the height of the swatch bar for n swatches.
func BarHeight(n, imgW int, cfg Config) int {
	if n == 0 {
		return 0
	}
	perRow := itemsPerRow(imgW, cfg)
	rows := (n + perRow - 1) / perRow
	return cfg.BarPadding + rows*(cfg.SwatchSize+cfg.SwatchSpacing) + cfg.BarPadding
}

// SwatchAt returns the slot index of the swatch under pt, in the coordinates
// of an image built by Compose, or -1.
func SwatchAt(pt image.Point, n, imgW, imgH int, cfg Config) int {
	if pt.Y < imgH {
		return -1
	}
	r := cfg.SwatchSize / 2
	for i, c := range swatchCenters(n, imgW, imgH, cfg) {
		dx, dy := pt.X-c.X, pt.Y-c.Y
		if dx*dx+dy*dy <= r*r {
			return i
		}
	}
	return -1
}

func itemsPerRow(imgW int, cfg Config) int {
	itemWidth := cfg.SwatchSize + cfg.SwatchSpacing
	n := (imgW - 2*cfg.BarMargin) / itemWidth
	if n < 1 {
		n = 1
	}
	return n
}

// swatchCenters lays swatches out in rows, each row centered.
func swatchCenters(n, imgW, drawingH int, cfg Config) []image.Point {
	itemWidth := cfg.SwatchSize + cfg.SwatchSpacing
	availableW := imgW - 2*cfg.BarMargin
	perRow := itemsPerRow(imgW, cfg)
	radius := cfg.SwatchSize / 2

	centers := make([]image.Point, n)
	for i := range centers {
		row := i / perRow
		col := i % perRow

		rowItems := perRow
		if remaining := n - row*perRow; remaining < perRow {
			rowItems = remaining
		}
		// the last item carries no trailing spacing
		rowWidth := rowItems*itemWidth - cfg.SwatchSpacing
		rowStartX := cfg.BarMargin + (availableW-rowWidth)/2

		centers[i] = image.Pt(
			rowStartX+col*itemWidth+radius,
			drawingH+cfg.BarPadding+row*itemWidth+radius+cfg.SwatchSpacing/2,
		)
	}
	return centers
}

func drawBar(img *image.RGBA, slots []palette.Slot, font FontRenderer, cfg Config, imgW, drawingH int) {
	if len(slots) == 0 {
		return
	}
	b := img.Bounds()
	draw.Draw(img, image.Rect(0, drawingH, imgW, b.Dy()), image.NewUniform(barBackground), image.Point{}, draw.Src)
	for x := 0; x < imgW; x++ {
		img.SetRGBA(x, drawingH, separator)
	}

	fontSize := cfg.SwatchSize / 2
	radius := cfg.SwatchSize / 2
	for i, c := range swatchCenters(len(slots), imgW, drawingH, cfg) {
		slot := slots[i]
		if slot.Selected {
			for k := 1; k <= cfg.RingWidth; k++ {
				drawCircleBorder(img, c.X, c.Y, radius+2+k, ringColor)
			}
		}
		drawFilledCircle(img, c.X, c.Y, radius, slot.Color.ToStdColor())
		drawCircleBorder(img, c.X, c.Y, radius, swatchBorder)

		textColor := color.Color(color.Black)
		if !slot.Color.IsLight() {
			textColor = color.White
		}
		font.DrawString(img, fmt.Sprintf("%d", i+1), c.X, c.Y, textColor, fontSize)
	}
}

// DrawProgress draws a horizontal progress bar across the middle of img.
func DrawProgress(img *image.RGBA, percent int) {
	b := img.Bounds()
	percent = max(0, min(percent, 100))
	margin := b.Dx() / 8
	barH := max(b.Dy()/40, 4)
	track := image.Rect(b.Min.X+margin, b.Min.Y+(b.Dy()-barH)/2, b.Max.X-margin, b.Min.Y+(b.Dy()+barH)/2)
	draw.Draw(img, track, image.NewUniform(progressTrack), image.Point{}, draw.Src)
	done := track
	done.Max.X = track.Min.X + track.Dx()*percent/100
	draw.Draw(img, done, image.NewUniform(progressFill), image.Point{}, draw.Src)
}

// Placeholder returns a white image of the given size, used before a picture
// is available.
func Placeholder(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(zcolor.White.ToStdColor()), image.Point{}, draw.Src)
	return img
}

func drawFilledCircle(img *image.RGBA, cx, cy, radius int, col color.RGBA) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				px, py := cx+dx, cy+dy
				if px >= 0 && px < img.Bounds().Dx() && py >= 0 && py < img.Bounds().Dy() {
					img.SetRGBA(px, py, col)
				}
			}
		}
	}
}

func drawCircleBorder(img *image.RGBA, cx, cy, radius int, col color.RGBA) {
	for angle := 0.0; angle < 2*math.Pi; angle += 0.01 {
		px := cx + int(math.Round(float64(radius)*math.Cos(angle)))
		py := cy + int(math.Round(float64(radius)*math.Sin(angle)))
		if px >= 0 && px < img.Bounds().Dx() && py >= 0 && py < img.Bounds().Dy() {
			img.SetRGBA(px, py, col)
		}
	}
}
