// Package zebra is a coloring book engine: it turns a line drawing into a
// surface whose enclosed regions can be flood-filled with a color, leaving
// the drawing's lines intact.
//
// Usage as a library:
//
//	img, _ := zebra.LoadImage("drawing.png")
//	canvas, _ := zebra.Prepare(img, 600, 800, nil)
//	canvas.SetColor(zebra.Color{R: 255, A: 255})
//	canvas.Fill(120, 300)
//	zebra.SavePNG("painted.png", canvas.Image())
//
// Or use the file-based convenience:
//
//	err := zebra.PaintFile("drawing.png", "painted.png", zebra.DefaultOptions())
package zebra

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/maax3v3/zebra/internal/color"
	"github.com/maax3v3/zebra/internal/config"
	"github.com/maax3v3/zebra/internal/imaging"
	"github.com/maax3v3/zebra/internal/logging"
	"github.com/maax3v3/zebra/internal/pipeline"
	"github.com/maax3v3/zebra/internal/preprocess"
	"github.com/maax3v3/zebra/internal/renderer"
	"github.com/maax3v3/zebra/internal/surface"
)

// Options configures PaintFile.
type Options struct {
	// Width and Height are the size of the painted picture. The drawing is
	// scaled to cover it and clipped. Default: 600x800.
	Width, Height int

	// Color fills every point in Taps. Default: black.
	Color Color

	// Taps are the points to fill, in picture coordinates.
	Taps []image.Point

	// Swatches appends the swatch bar below the picture.
	Swatches bool
}

// Color represents an RGBA color with 8-bit components.
type Color struct {
	R, G, B, A uint8
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Width:  600,
		Height: 800,
		Color:  Color{0, 0, 0, 255},
	}
}

// ParseColor parses a hex color ("#F0A", "#FF8800") or a color name
// ("tomato").
func ParseColor(s string) (Color, error) {
	c, err := color.Parse(s)
	if err != nil {
		return Color{}, err
	}
	return Color{R: c.R, G: c.G, B: c.B, A: c.A}, nil
}

// SetLogger sets the logger used by every zebra package. Nil silences them.
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// LoadImage reads an image from disk. Supports PNG, JPEG, and WEBP.
func LoadImage(path string) (image.Image, error) {
	return imaging.Load(path)
}

// SavePNG writes an image to disk as PNG.
func SavePNG(path string, img image.Image) error {
	return imaging.SavePNG(path, img)
}

// Canvas is a prepared drawing that can be filled region by region. It is
// safe for concurrent use.
type Canvas struct {
	s *surface.Surface
}

type imageDecoder struct{ img image.Image }

func (d imageDecoder) Decode(context.Context, string) (image.Image, error) { return d.img, nil }

// Prepare fits img to width × height and builds a blank canvas from it.
// progress, if not nil, receives values from 0 to 100.
func Prepare(img image.Image, width, height int, progress func(percent int)) (*Canvas, error) {
	if img == nil {
		return nil, fmt.Errorf("input image is nil")
	}
	var sink preprocess.Sink = preprocess.Nop
	if progress != nil {
		sink = preprocess.SinkFunc(progress)
	}
	s := surface.New()
	s.SetSize(width, height)
	gen := s.BeginLoad()
	pic, err := preprocess.Run(context.Background(), imageDecoder{img}, "image", width, height, sink)
	if err != nil {
		return nil, err
	}
	s.Commit(gen, pic)
	return &Canvas{s: s}, nil
}

// Size returns the canvas dimensions.
func (c *Canvas) Size() (width, height int) { return c.s.Size() }

// SetColor sets the color used by Fill.
func (c *Canvas) SetColor(col Color) {
	c.s.SetColor(color.RGBA{R: col.R, G: col.G, B: col.B, A: col.A})
}

// Fill paints the region containing (x, y) and reports whether anything was
// painted. Points on a line or outside the canvas are ignored.
func (c *Canvas) Fill(x, y int) bool { return c.s.PaintAt(x, y) }

// Image returns the painted picture with its lines drawn on top.
func (c *Canvas) Image() *image.RGBA { return c.s.Render() }

// PaintFile is a convenience that loads a drawing from inPath, fills
// opts.Taps and saves the result as PNG to outPath.
func PaintFile(inPath, outPath string, opts Options) error {
	cfg := config.Config{
		Command:     config.CmdRender,
		Width:       opts.Width,
		Height:      opts.Height,
		Picture:     filepath.Base(inPath),
		PicturesDir: filepath.Dir(inPath),
		InPath:      inPath,
		OutPath:     outPath,
		Taps:        opts.Taps,
		FillColor:   color.RGBA{R: opts.Color.R, G: opts.Color.G, B: opts.Color.B, A: opts.Color.A},
		Swatches:    opts.Swatches,
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d", cfg.Width, cfg.Height)
	}
	if err := pipeline.Run(context.Background(), cfg, renderer.NewFaceFont(), io.Discard); err != nil {
		return fmt.Errorf("painting %s: %w", inPath, err)
	}
	return nil
}
