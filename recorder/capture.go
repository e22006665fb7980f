package recorder

import (
	"github.com/richinsley/goshaderplane/graphics"
	"github.com/richinsley/goshaderplane/loop"
)

// Sink consumes rendered frames.
type Sink interface {
	WriteFrame(pixels []byte) error
}

// Grabber returns the last rendered frame, reusing buf when it can.
type Grabber func(buf []byte) ([]byte, error)

// Capture is a graphics.Host for offline rendering. Size, pixel ratio and
// input come from the wrapped window; time advances a fixed step per frame
// and every presented frame is handed to the sink.
type Capture struct {
	graphics.Host
	Step *loop.FixedStep

	grab    Grabber
	sink    Sink
	buf     []byte
	err     error
	written int
}

func NewCapture(host graphics.Host, step *loop.FixedStep, grab Grabber, sink Sink) *Capture {
	return &Capture{Host: host, Step: step, grab: grab, sink: sink}
}

func (c *Capture) Now() float64 { return c.Step.Now() }

// NextFrame grabs and encodes the frame just rendered, then advances the
// fixed clock. It stops at the frame budget, when the window closes, or on
// the first capture error.
func (c *Capture) NextFrame() bool {
	px, err := c.grab(c.buf)
	if err != nil {
		c.err = err
		return false
	}
	c.buf = px
	if err := c.sink.WriteFrame(px); err != nil {
		c.err = err
		return false
	}
	c.written++
	if !c.Host.NextFrame() {
		return false
	}
	return c.Step.NextFrame()
}

// Err returns the error that stopped capture, if any.
func (c *Capture) Err() error { return c.err }

// Frames is the number of frames handed to the sink.
func (c *Capture) Frames() int { return c.written }
