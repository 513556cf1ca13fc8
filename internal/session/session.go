// Package session is the boundary between a host (window, HTTP server, CLI)
// and the paint core. Hosts translate their input into Session calls and
// redraw when the session tells them to.
package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/maax3v3/zebra/internal/color"
	"github.com/maax3v3/zebra/internal/logging"
	"github.com/maax3v3/zebra/internal/palette"
	"github.com/maax3v3/zebra/internal/pictures"
	"github.com/maax3v3/zebra/internal/preprocess"
	"github.com/maax3v3/zebra/internal/surface"
)

// Catalog resolves and lists pictures. *pictures.Library implements it.
type Catalog interface {
	preprocess.Decoder
	Names() ([]string, error)
}

// EventKind identifies what happened.
type EventKind int

const (
	EventProgress EventKind = iota // Percent is set
	EventLoaded                    // a picture was committed
	EventFailed                    // Err is set
	EventRedraw                    // the rendered picture or swatches changed
)

func (k EventKind) String() string {
	switch k {
	case EventProgress:
		return "progress"
	case EventLoaded:
		return "loaded"
	case EventFailed:
		return "failed"
	case EventRedraw:
		return "redraw"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is a notification for the host loop.
type Event struct {
	Kind    EventKind
	Picture string
	Percent int
	Err     error
}

// Status is a snapshot of the session's loading state.
type Status struct {
	Picture string // picture being loaded or shown
	Loading bool
	Percent int
	Ready   bool // a picture has been committed
	Err     error
}

// Options configures a Session.
type Options struct {
	Catalog Catalog         // default: built-in pictures only
	Picture string          // loaded on first layout, default pictures.Default
	Colors  []color.RGBA    // initial swatches, default palette.DefaultColors
	Sink    preprocess.Sink // extra progress receiver, e.g. a notifier
	Buffer  int             // event channel capacity, default 256
}

// Session owns one paint surface and one swatch palette.
type Session struct {
	surface *surface.Surface
	palette *palette.Manager
	catalog Catalog
	sink    preprocess.Sink
	events  chan Event

	ctx  context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup

	mu       sync.Mutex
	status   Status
	pending  string // picture requested before the first layout
	loadGen  uint64
	cancelFn context.CancelFunc
}

// New creates a session. Nothing is loaded until Layout reports a size.
func New(opts Options) (*Session, error) {
	if opts.Catalog == nil {
		opts.Catalog = &pictures.Library{}
	}
	if opts.Picture == "" {
		opts.Picture = pictures.Default
	}
	if len(opts.Colors) == 0 {
		opts.Colors = palette.DefaultColors
	}
	if opts.Sink == nil {
		opts.Sink = preprocess.Nop
	}
	if opts.Buffer <= 0 {
		opts.Buffer = 256
	}

	pm := palette.New(len(opts.Colors))
	if err := pm.Initialize(opts.Colors); err != nil {
		return nil, fmt.Errorf("initializing swatches: %w", err)
	}
	active, _ := pm.Active()
	sf := surface.New()
	sf.SetColor(active)

	ctx, stop := context.WithCancel(context.Background())
	return &Session{
		surface: sf,
		palette: pm,
		catalog: opts.Catalog,
		sink:    opts.Sink,
		events:  make(chan Event, opts.Buffer),
		ctx:     ctx,
		stop:    stop,
		pending: opts.Picture,
	}, nil
}

// Events delivers notifications for the host loop. Events are dropped when
// the channel is full; Status always reflects the latest state.
func (s *Session) Events() <-chan Event { return s.events }

// Layout reports the measured view size. The first real measurement fixes
// the picture size and starts loading the requested picture; later calls are
// ignored. A zero size returns preprocess.ErrNotReady and changes nothing.
func (s *Session) Layout(width, height int) error {
	if width <= 0 || height <= 0 {
		logging.Logger().Debug("layout deferred", "width", width, "height", height)
		return preprocess.ErrNotReady
	}
	if !s.surface.SetSize(width, height) {
		return nil
	}
	s.mu.Lock()
	name := s.pending
	s.pending = ""
	s.mu.Unlock()
	logging.Logger().Info("view measured", "width", width, "height", height)
	return s.ChoosePicture(name)
}

// Size returns the picture size, zero before the first Layout.
func (s *Session) Size() (width, height int) { return s.surface.Size() }

// ChoosePicture starts loading name in the background, superseding any load
// in progress. Before the first Layout the request is remembered and
// preprocess.ErrNotReady is returned.
func (s *Session) ChoosePicture(name string) error {
	w, h := s.surface.Size()
	if w == 0 || h == 0 {
		s.mu.Lock()
		s.pending = name
		s.mu.Unlock()
		return preprocess.ErrNotReady
	}
	if err := s.ctx.Err(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(s.ctx)

	// The generation and the cancel func are swapped together so concurrent
	// requests agree on which one is newest.
	s.mu.Lock()
	gen := s.surface.BeginLoad()
	if s.cancelFn != nil {
		s.cancelFn()
	}
	s.cancelFn = cancel
	s.loadGen = gen
	s.status.Picture = name
	s.status.Loading = true
	s.status.Percent = 0
	s.status.Err = nil
	s.mu.Unlock()

	logging.Logger().Info("loading picture", "picture", name, "generation", gen)
	events := preprocess.Start(ctx, s.catalog, name, w, h, func(p *preprocess.Picture) bool {
		return s.surface.Commit(gen, p)
	})

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		for ev := range events {
			s.handleLoadEvent(gen, name, ev)
		}
	}()
	return nil
}

func (s *Session) handleLoadEvent(gen uint64, name string, ev preprocess.Event) {
	s.mu.Lock()
	current := gen == s.loadGen
	if current {
		switch {
		case ev.Err != nil:
			s.status.Loading = false
			if !isCancel(ev.Err) {
				s.status.Err = ev.Err
			}
		case ev.Done:
			s.status.Loading = false
			s.status.Percent = 100
			s.status.Ready = true
		default:
			s.status.Percent = ev.Percent
		}
	}
	s.mu.Unlock()

	log := logging.Logger().With("picture", name, "generation", gen)
	switch {
	case ev.Err != nil:
		if isCancel(ev.Err) {
			log.Debug("load abandoned", "reason", ev.Err)
			return
		}
		log.Error("load failed", "err", ev.Err)
		if current {
			s.emit(Event{Kind: EventFailed, Picture: name, Err: ev.Err})
		}
	case ev.Done:
		log.Info("picture loaded")
		s.sink.Done()
		s.emit(Event{Kind: EventLoaded, Picture: name, Percent: 100})
		s.emit(Event{Kind: EventRedraw, Picture: name})
	default:
		if !current {
			return
		}
		s.sink.Progress(ev.Percent)
		s.emit(Event{Kind: EventProgress, Picture: name, Percent: ev.Percent})
	}
}

func isCancel(err error) bool {
	return errors.Is(err, preprocess.ErrStale) || errors.Is(err, context.Canceled)
}

func (s *Session) emit(ev Event) {
	select {
	case s.events <- ev:
	default:
		logging.Logger().Debug("event dropped", "kind", ev.Kind)
	}
}

// Tap paints the region under (x, y) in picture coordinates with the active
// color and reports whether anything was painted.
func (s *Session) Tap(x, y int) bool {
	if !s.surface.PaintAt(x, y) {
		return false
	}
	logging.Logger().Debug("painted", "x", x, "y", y, "color", s.surface.Color())
	s.emit(Event{Kind: EventRedraw})
	return true
}

// ClickSlot selects the swatch at position i (0 = most recently used).
func (s *Session) ClickSlot(i int) error {
	c, err := s.palette.SelectSlot(i)
	if err != nil {
		return err
	}
	s.surface.SetColor(c)
	s.emit(Event{Kind: EventRedraw})
	return nil
}

// PickColor makes c the active color, recycling the least recently used
// swatch if no swatch holds it.
func (s *Session) PickColor(c color.RGBA) error {
	if err := s.palette.SelectColor(c); err != nil {
		return err
	}
	active, err := s.palette.Active()
	if err != nil {
		return err
	}
	s.surface.SetColor(active)
	s.emit(Event{Kind: EventRedraw})
	return nil
}

// Color returns the active fill color.
func (s *Session) Color() color.RGBA { return s.surface.Color() }

// Slots returns the swatches, most recently used first.
func (s *Session) Slots() []palette.Slot { return s.palette.Slots() }

// Pictures lists the pictures that ChoosePicture accepts.
func (s *Session) Pictures() ([]string, error) { return s.catalog.Names() }

// Render returns the painted picture with its outline, or nil before the
// first picture is loaded.
func (s *Session) Render() *image.RGBA { return s.surface.Render() }

// Status returns a snapshot of the loading state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.status
	st.Ready = s.surface.Ready()
	return st
}

// Close cancels any load in progress and waits for it to stop.
func (s *Session) Close() {
	s.stop()
	s.wg.Wait()
}
