package track

import (
	"github.com/jlammi/raide"
)

// WaveformNode is the layer caching the rendered waveform blocks. When the
// view or zoom changes it works out which visible blocks are missing from the
// cache and raises RequestWaveform for each; the rendering backend answers
// out of band with AddWaveform broadcasts, which land back here.
type WaveformNode struct {
	*Node
	visible   raide.Rect
	blocks    map[int]raide.Waveform
	requested map[int]bool
}

func NewWaveformNode(snapshot raide.TrackSnapshot) *WaveformNode {
	w := &WaveformNode{
		Node:      NewNode(snapshot),
		blocks:    make(map[int]raide.Waveform),
		requested: make(map[int]bool),
	}
	w.visible = raide.Rect{W: float64(snapshot.Width), H: float64(snapshot.Height)}
	w.HandleDown(AddWaveform, w.onAddWaveform)
	w.HandleDown(SetView, w.onSetView)
	w.HandleDown(Redraw, w.onRedraw)
	return w
}

func (w *WaveformNode) onAddWaveform(msg Msg) {
	wf := msg.Data.(AddWaveformMsg).Waveform
	w.blocks[wf.Block] = wf
	delete(w.requested, wf.Block)
	w.Relay(msg)
}

func (w *WaveformNode) onSetView(msg Msg) {
	w.visible = msg.Data.(ViewMsg).Rect
	w.requestVisible()
	w.Relay(msg)
}

// onRedraw drops the cache: the block pixmaps were rendered for the old zoom
// and are the wrong width now.
func (w *WaveformNode) onRedraw(msg Msg) {
	w.setZoom(msg.Data.(RedrawMsg).Zoom)
	w.blocks = make(map[int]raide.Waveform)
	w.requested = make(map[int]bool)
	w.requestVisible()
	w.Relay(msg)
}

// requestVisible raises RequestWaveform for every visible block that is
// neither cached nor already in flight.
func (w *WaveformNode) requestVisible() {
	width := w.BlockWidth()
	if width <= 0 {
		return
	}
	first := w.SampleAt(w.visible.X) / raide.BlockSize
	last := w.SampleAt(w.visible.Right()) / raide.BlockSize
	_, height := w.Size()
	for block := first; block <= last; block++ {
		if block < 0 {
			continue
		}
		if _, ok := w.blocks[block]; ok || w.requested[block] {
			continue
		}
		w.requested[block] = true
		w.EmitUp(RequestWaveform, RequestWaveformMsg{Block: block, Width: width, Height: height})
	}
}

// BlockWidth returns how many pixel columns one block occupies at the current
// zoom. Since the block size is static, the width alone encodes the zoom
// level for the renderer.
func (w *WaveformNode) BlockWidth() int {
	return int(w.PixelAt(raide.BlockSize))
}

// Block returns the cached waveform for a block index.
func (w *WaveformNode) Block(index int) (raide.Waveform, bool) {
	wf, ok := w.blocks[index]
	return wf, ok
}

// NumCached returns how many blocks are cached.
func (w *WaveformNode) NumCached() int { return len(w.blocks) }
