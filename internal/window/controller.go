package window

import (
	"image"
	"image/draw"
	"slices"
	"time"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/maax3v3/zebra/internal/logging"
	"github.com/maax3v3/zebra/internal/renderer"
	"github.com/maax3v3/zebra/internal/session"
)

// Controller maps window input onto a session and builds frames. It holds
// no shiny state so it can be driven directly.
type Controller struct {
	s       *session.Session
	cfg     renderer.Config
	font    renderer.FontRenderer
	copyImg func(image.Image) error

	width, height int // window size in pixels

	message      string
	messageUntil time.Time
}

// NewController returns a controller for s.
func NewController(s *session.Session) *Controller {
	return &Controller{
		s:       s,
		cfg:     renderer.DefaultConfig(),
		font:    renderer.NewFaceFont(),
		copyImg: writeClipboardImage,
	}
}

// WindowSize returns the window size that shows a width × height picture
// and its swatch bar at natural size.
func (c *Controller) WindowSize(width, height int) (int, int) {
	return width, height + renderer.BarHeight(len(c.s.Slots()), width, c.cfg)
}

// Resize records the window size. The area above the swatch bar is reported
// to the session as the picture size.
func (c *Controller) Resize(width, height int) {
	c.width, c.height = width, height
	pictureH := height - renderer.BarHeight(len(c.s.Slots()), width, c.cfg)
	if err := c.s.Layout(width, pictureH); err != nil {
		logging.Logger().Debug("layout", "err", err)
	}
}

// composed returns the picture with its swatch bar, or a placeholder with a
// progress bar while nothing is loaded.
func (c *Controller) composed() *image.RGBA {
	pic := c.s.Render()
	if pic == nil {
		w, h := c.s.Size()
		if w == 0 || h == 0 {
			w, h = c.width, c.height-renderer.BarHeight(len(c.s.Slots()), c.width, c.cfg)
		}
		pic = renderer.Placeholder(max(w, 1), max(h, 1))
		if st := c.s.Status(); st.Loading {
			renderer.DrawProgress(pic, st.Percent)
		}
	}
	return renderer.Compose(pic, c.s.Slots(), c.font, c.cfg)
}

// fit returns where src is drawn inside a dw × dh window: scaled down to fit,
// never enlarged, and centered.
func fit(src image.Rectangle, dw, dh int) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	if sw == 0 || sh == 0 || dw <= 0 || dh <= 0 {
		return image.Rectangle{}
	}
	w, h := sw, sh
	if sw > dw || sh > dh {
		if sw*dh > sh*dw {
			w, h = dw, sh*dw/sw
		} else {
			w, h = sw*dh/sh, dh
		}
	}
	x := (dw - w) / 2
	y := (dh - h) / 2
	return image.Rect(x, y, x+w, y+h)
}

// Frame renders the whole window into dst.
func (c *Controller) Frame(dst *image.RGBA) {
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	img := c.composed()
	r := fit(img.Bounds(), dst.Bounds().Dx(), dst.Bounds().Dy())
	if r.Size() == img.Bounds().Size() {
		draw.Draw(dst, r, img, image.Point{}, draw.Src)
	} else {
		xdraw.ApproxBiLinear.Scale(dst, r, img, img.Bounds(), draw.Src, nil)
	}
	c.drawMessage(dst)
}

func (c *Controller) drawMessage(dst *image.RGBA) {
	if c.message == "" || time.Now().After(c.messageUntil) {
		return
	}
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: dst, Src: image.Black, Face: face}
	wmsg := d.MeasureString(c.message).Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	descent := face.Metrics().Descent.Ceil()
	b := dst.Bounds()
	px := (b.Dx() - wmsg) / 2
	py := 8 + ascent
	rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
	draw.Draw(dst, rect, image.White, image.Point{}, draw.Src)
	d.Dot = fixed.P(px, py)
	d.DrawString(c.message)
}

func (c *Controller) say(msg string) {
	c.message = msg
	c.messageUntil = time.Now().Add(2 * time.Second)
	logging.Logger().Info(msg)
}

// Press handles a left click at window coordinates pt and reports whether
// the window needs repainting.
func (c *Controller) Press(pt image.Point) bool {
	w, h := c.s.Size()
	if w == 0 || h == 0 {
		return false
	}
	n := len(c.s.Slots())
	full := image.Rect(0, 0, w, h+renderer.BarHeight(n, w, c.cfg))
	r := fit(full, c.width, c.height)
	if !pt.In(r) {
		return false
	}
	// back to composed-image coordinates
	p := image.Pt(
		(pt.X-r.Min.X)*full.Dx()/r.Dx(),
		(pt.Y-r.Min.Y)*full.Dy()/r.Dy(),
	)
	if p.Y < h {
		return c.s.Tap(p.X, p.Y)
	}
	if i := renderer.SwatchAt(p, n, w, h, c.cfg); i >= 0 {
		return c.s.ClickSlot(i) == nil
	}
	return false
}

// Key handles a typed rune and reports whether the window needs repainting.
// Digits select swatches, 'n' loads the next picture and 'c' copies the
// painted picture to the clipboard.
func (c *Controller) Key(r rune) bool {
	switch {
	case r >= '1' && r <= '9':
		if err := c.s.ClickSlot(int(r - '1')); err != nil {
			return false
		}
		return true
	case r == 'n' || r == 'N':
		c.nextPicture()
		return true
	case r == 'c' || r == 'C':
		img := c.s.Render()
		if img == nil {
			return false
		}
		if err := c.copyImg(img); err != nil {
			logging.Logger().Warn("copy to clipboard", "err", err)
			c.say("copy failed")
			return true
		}
		c.say("picture copied to clipboard")
		return true
	}
	return false
}

func (c *Controller) nextPicture() {
	names, err := c.s.Pictures()
	if err != nil || len(names) == 0 {
		logging.Logger().Warn("listing pictures", "err", err)
		return
	}
	next := names[0]
	if i := slices.Index(names, c.s.Status().Picture); i >= 0 {
		next = names[(i+1)%len(names)]
	}
	if err := c.s.ChoosePicture(next); err != nil {
		logging.Logger().Warn("choosing picture", "picture", next, "err", err)
		return
	}
	c.say("loading " + next)
}
