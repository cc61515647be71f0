package track

import (
	"github.com/viterin/vek/vek32"

	"github.com/jlammi/raide"
)

// Renderer is the waveform rendering backend. It runs on its own goroutine,
// consumes RenderRequests from the broker and answers with the per-column
// min/max shape of the requested block. Everything it knows about a track is
// in the request, so it holds no state between requests.
type Renderer struct {
	broker *Broker
	buf    raide.AudioBuffer
	tmp    []float32
}

func NewRenderer(broker *Broker) *Renderer {
	return &Renderer{broker: broker}
}

// Run processes requests until CloseRenderer is signalled. Call it as a
// goroutine; wait for FinishedRenderer to know it has stopped.
func (r *Renderer) Run() {
	defer close(r.broker.FinishedRenderer)
	for {
		select {
		case req := <-r.broker.ToRenderer:
			if result, ok := r.render(req); ok {
				TrySend(r.broker.ToManager, result)
			}
		case <-r.broker.CloseRenderer:
			return
		}
	}
}

func (r *Renderer) render(req RenderRequest) (RenderResult, bool) {
	if req.Source == nil || req.Width <= 0 {
		return RenderResult{}, false
	}
	offset := req.Block * raide.BlockSize
	if offset < 0 || offset >= req.Source.NumSamples() {
		return RenderResult{}, false
	}
	if cap(r.buf) < raide.BlockSize {
		r.buf = make(raide.AudioBuffer, raide.BlockSize)
	}
	r.buf = r.buf[:raide.BlockSize]
	n := req.Source.ReadSamples(offset, r.buf)
	if n == 0 {
		return RenderResult{}, false
	}
	wf := raide.Waveform{
		Block:  req.Block,
		Width:  req.Width,
		Height: req.Height,
		Mins:   make([]float32, req.Width),
		Maxs:   make([]float32, req.Width),
	}
	for col := 0; col < req.Width; col++ {
		lo := col * raide.BlockSize / req.Width
		hi := (col + 1) * raide.BlockSize / req.Width
		if lo >= n {
			break
		}
		if hi > n {
			hi = n
		}
		r.tmp = r.tmp[:0]
		for _, frame := range r.buf[lo:hi] {
			// mono mix for the shape; the columns are too narrow to show
			// the channels separately anyway
			r.tmp = append(r.tmp, (frame[0]+frame[1])/2)
		}
		if len(r.tmp) == 0 {
			continue
		}
		wf.Mins[col] = vek32.Min(r.tmp)
		wf.Maxs[col] = vek32.Max(r.tmp)
	}
	return RenderResult{Track: req.Track, Waveform: wf}, true
}
