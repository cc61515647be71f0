package raide

// AudioBuffer is a buffer of stereo audio samples, with each sample stored as
// a [2]float32 (left and right channel).
type AudioBuffer [][2]float32

// SampleSource provides random access to the decoded samples of one track.
// Decoding itself happens outside this module; the routing core only ever
// reads samples for waveform rendering and analysis.
type SampleSource interface {
	// NumSamples returns the total number of sample frames available.
	NumSamples() int
	// ReadSamples copies sample frames starting at offset into dst and
	// returns how many frames were copied. Short reads happen only at the
	// end of the source.
	ReadSamples(offset int, dst AudioBuffer) int
}

// BufferSource is a SampleSource backed by an in-memory AudioBuffer.
type BufferSource struct {
	Buffer AudioBuffer
}

func (b *BufferSource) NumSamples() int { return len(b.Buffer) }

func (b *BufferSource) ReadSamples(offset int, dst AudioBuffer) int {
	if offset < 0 || offset >= len(b.Buffer) {
		return 0
	}
	return copy(dst, b.Buffer[offset:])
}
