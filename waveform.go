package raide

// BlockSize is the granularity of waveform rendering, in sample frames. The
// block is the unit a layer requests from the renderer; at zoom factor 1 one
// block maps to BlockSize/SamplesPerPixel pixels.
const BlockSize = 1 << 16

// Waveform is the rendered shape of one block of audio: per pixel column the
// minimum and maximum sample value inside that column. It is what the
// rendering backend sends back for a RequestWaveform, and all a display layer
// needs to draw the block.
type Waveform struct {
	Block  int // block index into the source
	Width  int // number of pixel columns
	Height int
	Mins   []float32 `yaml:",flow"`
	Maxs   []float32 `yaml:",flow"`
}

func (w *Waveform) Copy() Waveform {
	mins := make([]float32, len(w.Mins))
	copy(mins, w.Mins)
	maxs := make([]float32, len(w.Maxs))
	copy(maxs, w.Maxs)
	return Waveform{Block: w.Block, Width: w.Width, Height: w.Height, Mins: mins, Maxs: maxs}
}

// NumBlocks returns how many blocks are needed to cover n samples.
func NumBlocks(n int) int {
	return (n + BlockSize - 1) / BlockSize
}
