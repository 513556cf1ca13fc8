// Package preprocess turns an arbitrary outline image into the structures a
// paint surface needs: a paintable/fixed mask, a black outline layer and a
// white pixel buffer, reporting progress as it goes.
package preprocess

import (
	"context"
	"errors"
	"fmt"
	"image"
	"runtime"
	"sync"
	"time"

	"github.com/maax3v3/zebra/internal/color"
	"github.com/maax3v3/zebra/internal/imaging"
	"github.com/maax3v3/zebra/internal/logging"
	"github.com/maax3v3/zebra/internal/mask"
)

// Progress budget. The three parts add up to 100.
const (
	ProgressDecode  = 10
	ProgressResize  = 10
	ProgressPerScan = 80 // one point per scanned row band
)

var (
	// ErrNotReady is returned when the target size is not known yet.
	ErrNotReady = errors.New("preprocess: target size not known yet")
	// ErrStale is returned by Load when a newer load superseded this one.
	ErrStale = errors.New("preprocess: load superseded")
)

// Decoder produces the source image for an outline identifier.
type Decoder interface {
	Decode(ctx context.Context, handle string) (image.Image, error)
}

// Picture is everything built for one loaded outline. All three parts have
// the same dimensions.
type Picture struct {
	Mask    *mask.Mask
	Outline *image.NRGBA // black, alpha = 255 - brightness
	Pixels  *image.RGBA  // painted picture, starts white
}

// Size returns the picture dimensions.
func (p *Picture) Size() (width, height int) {
	return p.Mask.Width, p.Mask.Height
}

// Run decodes handle, fits it to width × height and scans it into a Picture.
// Progress goes from 0 to 100; Done is left to the caller, which emits it once
// the picture is committed.
func Run(ctx context.Context, dec Decoder, handle string, width, height int, sink Sink) (*Picture, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrNotReady
	}
	if sink == nil {
		sink = Nop
	}
	log := logging.Logger().With("picture", handle, "width", width, "height", height)
	start := time.Now()

	progress := 0
	sink.Progress(progress)

	src, err := dec.Decode(ctx, handle)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var de *imaging.DecodeError
		if !errors.As(err, &de) {
			err = &imaging.DecodeError{Source: handle, Err: err}
		}
		return nil, fmt.Errorf("loading picture: %w", err)
	}
	progress += ProgressDecode
	sink.Progress(progress)

	resized := imaging.CoverClip(src, width, height)
	progress += ProgressResize
	sink.Progress(progress)

	m := mask.New(width, height)
	outline := image.NewNRGBA(image.Rect(0, 0, width, height))
	for band := 0; band < ProgressPerScan; band++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		yStart := band * height / ProgressPerScan
		yEnd := (band + 1) * height / ProgressPerScan
		parallelRows(yStart, yEnd, func(sy, ey int) {
			scanRows(resized, m, outline, sy, ey)
		})
		progress++
		sink.Progress(progress)
	}

	pixels := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := range pixels.Pix {
		pixels.Pix[i] = 0xff
	}

	log.Debug("picture scanned",
		"paintable", m.Count(),
		"elapsed", time.Since(start))
	return &Picture{Mask: m, Outline: outline, Pixels: pixels}, nil
}

// Load runs the pipeline and hands the result to commit. Done is emitted only
// when commit accepts the picture; otherwise Load returns ErrStale.
func Load(ctx context.Context, dec Decoder, handle string, width, height int, commit func(*Picture) bool, sink Sink) error {
	if sink == nil {
		sink = Nop
	}
	pic, err := Run(ctx, dec, handle, width, height, sink)
	if err != nil {
		return err
	}
	if !commit(pic) {
		return ErrStale
	}
	sink.Done()
	return nil
}

// Start runs Load on a new goroutine and streams its events. The last event
// is either Done or carries the error; the channel is closed afterwards.
func Start(ctx context.Context, dec Decoder, handle string, width, height int, commit func(*Picture) bool) <-chan Event {
	ch := make(chan Event, ProgressDecode+ProgressResize+ProgressPerScan+4)
	go func() {
		defer close(ch)
		if err := Load(ctx, dec, handle, width, height, commit, ChanSink(ch)); err != nil {
			ch <- Event{Err: err}
		}
	}()
	return ch
}

// scanRows classifies rows [sy, ey) of src into m and outline.
func scanRows(src *image.RGBA, m *mask.Mask, outline *image.NRGBA, sy, ey int) {
	w := m.Width
	for y := sy; y < ey; y++ {
		so := src.PixOffset(0, y)
		oo := outline.PixOffset(0, y)
		row := y * w
		for x := 0; x < w; x++ {
			c := color.RGBA{R: src.Pix[so], G: src.Pix[so+1], B: src.Pix[so+2], A: 255}
			alpha := mask.Alpha(c)
			if mask.IsPaintable(c) {
				m.Cells[row+x] = mask.Paintable
			} else {
				m.Cells[row+x] = mask.Fixed
			}
			outline.Pix[oo+0] = 0
			outline.Pix[oo+1] = 0
			outline.Pix[oo+2] = 0
			outline.Pix[oo+3] = alpha
			so += 4
			oo += 4
		}
	}
}

// parallelRows runs fn across sub-bands of [start, end) using multiple
// goroutines. Each worker only writes its own rows.
func parallelRows(start, end int, fn func(startY, endY int)) {
	h := end - start
	if h <= 0 {
		return
	}
	numWorkers := runtime.NumCPU()
	if numWorkers > h {
		numWorkers = h
	}
	if numWorkers <= 1 {
		fn(start, end)
		return
	}
	rowsPerWorker := (h + numWorkers - 1) / numWorkers
	var wg sync.WaitGroup
	for sy := start; sy < end; sy += rowsPerWorker {
		ey := sy + rowsPerWorker
		if ey > end {
			ey = end
		}
		wg.Add(1)
		go func(sy, ey int) {
			defer wg.Done()
			fn(sy, ey)
		}(sy, ey)
	}
	wg.Wait()
}
