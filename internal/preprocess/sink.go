package preprocess

// Sink receives progress notifications from a load. Calls come from the
// loading goroutine.
type Sink interface {
	Progress(percent int)
	Done()
}

// Event is one progress notification, as delivered over a channel.
type Event struct {
	Percent int
	Done    bool
	Err     error
}

// ChanSink forwards notifications as Events on a channel.
type ChanSink chan<- Event

func (c ChanSink) Progress(percent int) { c <- Event{Percent: percent} }
func (c ChanSink) Done()                { c <- Event{Percent: 100, Done: true} }

// SinkFunc adapts a progress callback to a Sink. Done is reported as 100.
type SinkFunc func(percent int)

func (f SinkFunc) Progress(percent int) { f(percent) }
func (f SinkFunc) Done()                { f(100) }

type nopSink struct{}

func (nopSink) Progress(int) {}
func (nopSink) Done()        {}

// Nop discards all notifications.
var Nop Sink = nopSink{}

// Tee forwards every notification to each of sinks in order.
func Tee(sinks ...Sink) Sink {
	return teeSink(sinks)
}

type teeSink []Sink

func (t teeSink) Progress(percent int) {
	for _, s := range t {
		s.Progress(percent)
	}
}

func (t teeSink) Done() {
	for _, s := range t {
		s.Done()
	}
}
