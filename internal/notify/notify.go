// Package notify sends a desktop notification when a picture finishes
// loading.
package notify

import (
	"github.com/maax3v3/zebra/internal/logging"
	"github.com/maax3v3/zebra/internal/preprocess"
)

const appName = "Zebra"

// Sink forwards progress to Next and raises a desktop notification on Done.
type Sink struct {
	Next  preprocess.Sink // may be nil
	Title string
	Body  string

	send func(title, body string) error
}

// NewSink returns a Sink that notifies through the platform notifier.
func NewSink(next preprocess.Sink) *Sink {
	return &Sink{
		Next:  next,
		Title: appName,
		Body:  "Your picture is ready to paint.",
		send:  Send,
	}
}

func (s *Sink) Progress(percent int) {
	if s.Next != nil {
		s.Next.Progress(percent)
	}
}

func (s *Sink) Done() {
	if s.Next != nil {
		s.Next.Done()
	}
	send := s.send
	if send == nil {
		send = Send
	}
	if err := send(s.Title, s.Body); err != nil {
		logging.Logger().Warn("desktop notification failed", "err", err)
	}
}
