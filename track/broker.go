package track

import (
	"time"

	"github.com/jlammi/raide"
)

type (
	// Broker carries the traffic between the Manager, which lives on the UI
	// goroutine, and the waveform renderer goroutine. Communication is one
	// channel per recipient: render requests go to ToRenderer, finished
	// waveforms come back on ToManager, and the Manager drains them with
	// ProcessMessages between events.
	//
	// For closing the renderer there are two channels: CloseRenderer has a
	// capacity of 1, so requesting closure never blocks; if the channel is
	// already full someone else has already requested it and dropping the
	// message is fine. FinishedRenderer is never sent to, only closed, so
	// waiting for shutdown is "<-FinishedRenderer", combined with a timeout
	// via TimeoutReceive when the caller cannot afford to wait forever.
	Broker struct {
		ToRenderer chan RenderRequest
		ToManager  chan RenderResult

		CloseRenderer    chan struct{}
		FinishedRenderer chan struct{}
	}

	// RenderRequest asks for the waveform of one block of one track's source.
	RenderRequest struct {
		Track  string
		Source raide.SampleSource
		Block  int
		Width  int
		Height int
	}

	// RenderResult is a finished waveform on its way back to the tracks.
	RenderResult struct {
		Track    string
		Waveform raide.Waveform
	}
)

func NewBroker() *Broker {
	return &Broker{
		ToRenderer:       make(chan RenderRequest, 1024),
		ToManager:        make(chan RenderResult, 1024),
		CloseRenderer:    make(chan struct{}, 1),
		FinishedRenderer: make(chan struct{}),
	}
}

// TrySend sends a value to a channel if it is not full. It is guaranteed to
// be non-blocking; the return value tells whether the value was sent.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}

// TimeoutReceive blocks until a value is received from the channel or the
// timeout elapses. ok is false on timeout and on a closed channel.
func TimeoutReceive[T any](c <-chan T, t time.Duration) (v T, ok bool) {
	select {
	case v, ok = <-c:
		return v, ok
	case <-time.After(t):
		return v, false
	}
}
