// Package window shows a paint session in a desktop window.
package window

import (
	"fmt"
	"image"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/maax3v3/zebra/internal/logging"
	"github.com/maax3v3/zebra/internal/session"
)

// Options configures the window.
type Options struct {
	Title  string
	Width  int // picture width
	Height int // picture height
}

// Run opens a window for s and blocks until it is closed. It must be called
// from the main goroutine.
func Run(s *session.Session, opts Options) error {
	var runErr error
	driver.Main(func(scr screen.Screen) {
		runErr = loop(scr, s, opts)
	})
	return runErr
}

func loop(scr screen.Screen, s *session.Session, opts Options) error {
	c := NewController(s)
	width, height := c.WindowSize(opts.Width, opts.Height)
	w, err := scr.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: opts.Title})
	if err != nil {
		return fmt.Errorf("new window: %w", err)
	}
	defer w.Release()

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case ev := <-s.Events():
				if ev.Kind == session.EventFailed {
					logging.Logger().Error("picture failed to load", "picture", ev.Picture, "err", ev.Err)
				}
				w.Send(paint.Event{})
			case <-done:
				return
			}
		}
	}()

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return nil
			}
		case size.Event:
			width, height = e.WidthPx, e.HeightPx
			c.Resize(width, height)
			w.Send(paint.Event{})
		case paint.Event:
			if err := drawFrame(scr, w, c, width, height); err != nil {
				logging.Logger().Error("drawing frame", "err", err)
			}
		case mouse.Event:
			if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
				if c.Press(image.Pt(int(e.X), int(e.Y))) {
					w.Send(paint.Event{})
				}
			}
		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			if e.Code == key.CodeEscape {
				return nil
			}
			if c.Key(e.Rune) {
				w.Send(paint.Event{})
			}
		case error:
			logging.Logger().Error("window", "err", e)
		}
	}
}

func drawFrame(scr screen.Screen, w screen.Window, c *Controller, width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	b, err := scr.NewBuffer(image.Pt(width, height))
	if err != nil {
		return fmt.Errorf("new buffer: %w", err)
	}
	defer b.Release()

	c.Frame(b.RGBA())
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
	return nil
}
