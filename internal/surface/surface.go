// Package surface owns the committed state of a loaded picture and serializes
// every operation on it.
package surface

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"log/slog"
	"sync"

	"github.com/maax3v3/zebra/internal/color"
	"github.com/maax3v3/zebra/internal/fill"
	"github.com/maax3v3/zebra/internal/logging"
	"github.com/maax3v3/zebra/internal/mask"
	"github.com/maax3v3/zebra/internal/preprocess"
)

// Surface holds the outline mask, outline layer, painted pixels and active
// color of one paint view. The zero value is not usable; call New.
type Surface struct {
	mu sync.Mutex

	width, height int
	gen           uint64 // latest load generation handed out

	paintMask *mask.Mask // immutable once committed
	working   *mask.Mask // scratch copy, rebuilt before each fill
	outline   *image.NRGBA
	pixels    *image.RGBA
	color     color.RGBA
}

// New returns an empty surface painting in black until SetColor is called.
func New() *Surface {
	return &Surface{color: color.Black}
}

// SetSize records the measured view size. Only the first non-zero
// measurement is kept; it reports whether this call set it.
func (s *Surface) SetSize(width, height int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width != 0 && s.height != 0 {
		return false
	}
	if width <= 0 || height <= 0 {
		return false
	}
	s.width, s.height = width, height
	return true
}

// Size returns the measured dimensions, zero until SetSize succeeds.
func (s *Surface) Size() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// Ready reports whether a picture has been committed.
func (s *Surface) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paintMask != nil
}

// BeginLoad starts a new load generation. Any picture built for an older
// generation is discarded by Commit.
func (s *Surface) BeginLoad() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	return s.gen
}

// Commit installs pic if gen is still the latest load. All parts are swapped
// in one critical section so a concurrent fill never sees a partial picture.
// A picture whose size differs from the measured size panics.
func (s *Surface) Commit(gen uint64, pic *preprocess.Picture) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		logging.Logger().Debug("dropping stale picture", "generation", gen, "latest", s.gen)
		return false
	}
	w, h := pic.Size()
	if w != s.width || h != s.height ||
		pic.Outline.Bounds() != image.Rect(0, 0, w, h) ||
		pic.Pixels.Bounds() != image.Rect(0, 0, w, h) {
		panic(fmt.Sprintf("surface: picture %dx%d committed to %dx%d view", w, h, s.width, s.height))
	}
	s.paintMask = pic.Mask
	s.working = mask.New(w, h)
	s.outline = pic.Outline
	s.pixels = pic.Pixels
	return true
}

// SetColor changes the color used by later PaintAt calls.
func (s *Surface) SetColor(c color.RGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.color = c
}

// Color returns the active fill color.
func (s *Surface) Color() color.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.color
}

// PaintAt fills the region under (x, y) with the active color. Taps before
// the first commit, outside the picture, or on outline pixels do nothing.
// It reports whether any pixel was painted.
func (s *Surface) PaintAt(x, y int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paintMask == nil || !s.paintMask.In(x, y) || !s.paintMask.At(x, y) {
		return false
	}
	if log := logging.Logger(); log.Enabled(context.Background(), slog.LevelDebug) {
		log.Debug("filling region", "x", x, "y", y, "pixels", fill.Region(x, y, s.paintMask.Clone()))
	}
	s.working.CopyFrom(s.paintMask)
	fill.Fill(x, y, s.working, s.pixels, s.color)
	return true
}

// Render returns the painted pixels with the outline layer drawn on top, or
// nil before the first commit.
func (s *Surface) Render() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pixels == nil {
		return nil
	}
	out := image.NewRGBA(s.pixels.Bounds())
	copy(out.Pix, s.pixels.Pix)
	draw.Draw(out, out.Bounds(), s.outline, image.Point{}, draw.Over)
	return out
}

// Snapshot returns a copy of the painted pixels without the outline, or nil
// before the first commit.
func (s *Surface) Snapshot() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pixels == nil {
		return nil
	}
	out := image.NewRGBA(s.pixels.Bounds())
	copy(out.Pix, s.pixels.Pix)
	return out
}
