// Package pipeline runs the headless render command: load a picture, fill
// the requested points and save the result.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"io"

	"github.com/maax3v3/zebra/internal/config"
	"github.com/maax3v3/zebra/internal/imaging"
	"github.com/maax3v3/zebra/internal/notify"
	"github.com/maax3v3/zebra/internal/palette"
	"github.com/maax3v3/zebra/internal/pictures"
	"github.com/maax3v3/zebra/internal/preprocess"
	"github.com/maax3v3/zebra/internal/renderer"
	"github.com/maax3v3/zebra/internal/surface"
)

// Run executes the render pipeline with the given configuration, writing
// progress lines to out.
func Run(ctx context.Context, cfg config.Config, font renderer.FontRenderer, out io.Writer) error {
	// Step 1: Prepare the surface
	lib := &pictures.Library{Dir: cfg.PicturesDir}
	sf := surface.New()
	sf.SetSize(cfg.Width, cfg.Height)
	gen := sf.BeginLoad()

	// Step 2: Load and scan the picture
	fmt.Fprintf(out, "Loading picture: %s (%dx%d)\n", cfg.Picture, cfg.Width, cfg.Height)
	var sink preprocess.Sink = &progressPrinter{out: out, last: -1}
	if cfg.Notify {
		sink = notify.NewSink(sink)
	}
	commit := func(p *preprocess.Picture) bool { return sf.Commit(gen, p) }
	if err := preprocess.Load(ctx, lib, cfg.Picture, cfg.Width, cfg.Height, commit, sink); err != nil {
		return err
	}

	// Step 3: Fill the requested points
	sf.SetColor(cfg.FillColor)
	filled := 0
	for _, p := range cfg.Taps {
		if sf.PaintAt(p.X, p.Y) {
			filled++
		} else {
			fmt.Fprintf(out, "Nothing to fill at %d,%d\n", p.X, p.Y)
		}
	}
	fmt.Fprintf(out, "Filled regions: %d / %d (color %s)\n", filled, len(cfg.Taps), cfg.FillColor)

	// Step 4: Render output image
	output := sf.Render()
	if cfg.Swatches {
		pm := palette.New(len(palette.DefaultColors))
		if err := pm.Initialize(palette.DefaultColors); err != nil {
			return err
		}
		if err := pm.SelectColor(cfg.FillColor); err != nil {
			return err
		}
		rcfg := renderer.DefaultConfig()
		scaleSwatchConfig(&rcfg, output.Bounds())
		output = renderer.Compose(output, pm.Slots(), font, rcfg)
	}

	// Step 5: Save output
	fmt.Fprintf(out, "Saving output: %s\n", cfg.OutPath)
	if err := imaging.SavePNG(cfg.OutPath, output); err != nil {
		return fmt.Errorf("saving output: %w", err)
	}

	fmt.Fprintln(out, "Done!")
	return nil
}

// progressPrinter prints load progress in steps of ten percent.
type progressPrinter struct {
	out  io.Writer
	last int
}

func (p *progressPrinter) Progress(percent int) {
	if step := percent / 10; step > p.last {
		p.last = step
		fmt.Fprintf(p.out, "Scanning: %3d%%\n", step*10)
	}
}

func (p *progressPrinter) Done() {
	fmt.Fprintln(p.out, "Picture ready")
}

func scaleSwatchConfig(cfg *renderer.Config, bounds image.Rectangle) {
	w := bounds.Dx()
	if w > 1000 {
		cfg.SwatchSize = 64
		cfg.SwatchSpacing = 25
		cfg.BarPadding = 30
		cfg.BarMargin = 30
	} else if w < 320 {
		cfg.SwatchSize = 28
		cfg.SwatchSpacing = 10
		cfg.BarPadding = 10
		cfg.BarMargin = 10
	}
	// Mid-sized pictures use the defaults
}
