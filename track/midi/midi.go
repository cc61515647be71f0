// Package midi adapts a MIDI input port into track control events, so a
// hardware controller can drive the transport and marks of a track the same
// way the on-screen buttons do.
package midi

import (
	"errors"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"github.com/jlammi/raide/track"
)

type (
	// Context listens to one MIDI input and drives one track's control
	// surface. Incoming messages are queued on the driver's goroutine and
	// consumed with ProcessMessages on the UI goroutine, so the routing core
	// stays single-threaded.
	Context struct {
		target    *track.ButtonsNode
		transport CursorTransport
		events    chan midi.Message
		in        drivers.In
		stop      func()

		// SamplesPerBeat converts a song position pointer (in MIDI beats,
		// i.e. sixteenth notes) to samples. The default is a sixteenth at
		// 120 BPM and 44.1 kHz.
		SamplesPerBeat float64
	}

	// CursorTransport moves the playback cursor of every track; the Manager
	// implements it. A nil transport ignores song position messages.
	CursorTransport interface {
		UpdateCursor(sample int)
	}
)

// Controller numbers a transport surface typically sends; the adapter maps
// them onto the skip commands.
const (
	ccSkipBackward uint8 = 0x2e
	ccSkipForward  uint8 = 0x2f
)

func NewContext(target *track.ButtonsNode, transport CursorTransport) *Context {
	return &Context{
		target:         target,
		transport:      transport,
		events:         make(chan midi.Message, 1024),
		SamplesPerBeat: 44100 * 60 / (120 * 4),
	}
}

// Listen starts receiving from the given input port.
func (c *Context) Listen(in drivers.In) error {
	if c.in != nil {
		return errors.New("already listening to a MIDI input")
	}
	if !in.IsOpen() {
		if err := in.Open(); err != nil {
			return err
		}
	}
	stop, err := midi.ListenTo(in, c.handleMessage)
	if err != nil {
		return err
	}
	c.in = in
	c.stop = stop
	return nil
}

// Close stops listening and closes the port.
func (c *Context) Close() {
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
	if c.in != nil && c.in.IsOpen() {
		c.in.Close()
	}
	c.in = nil
}

// handleMessage runs on the driver's goroutine; if the queue is full the
// message is dropped.
func (c *Context) handleMessage(msg midi.Message, timestampms int32) {
	select {
	case c.events <- msg:
	default:
	}
}

// ProcessMessages drains the queued messages and performs the actions they
// map to. Call it from the UI goroutine between events.
func (c *Context) ProcessMessages() {
	for {
		select {
		case msg := <-c.events:
			c.perform(msg)
		default:
			return
		}
	}
}

func (c *Context) perform(msg midi.Message) {
	switch msg.Type() {
	case midi.StartMsg, midi.ContinueMsg:
		c.target.PlayingSwitch().SetValue(true)
		return
	case midi.StopMsg:
		c.target.PlayingSwitch().SetValue(false)
		return
	}
	var pointer uint16
	if msg.GetSPP(&pointer) {
		if c.transport != nil {
			c.transport.UpdateCursor(int(float64(pointer) * c.SamplesPerBeat))
		}
		return
	}
	var channel, key, velocity uint8
	if msg.GetNoteOn(&channel, &key, &velocity) && velocity > 0 {
		// tapping a pad drops a mark at the cursor
		c.target.RequestMark().Do()
		return
	}
	var controller, value uint8
	if msg.GetControlChange(&channel, &controller, &value) && value > 0 {
		switch controller {
		case ccSkipForward:
			c.target.SkipForward().Do()
		case ccSkipBackward:
			c.target.SkipBackward().Do()
		}
	}
}
