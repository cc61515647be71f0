package track

import (
	"errors"
	"math"

	"github.com/viterin/vek/vek32"

	"github.com/jlammi/raide"
	"github.com/jlammi/raide/track/types"
)

type (
	Decibel float32

	// AnalysisResult is the outcome of analyzing one selection: the average
	// and maximum momentary level plus the sample peak, per channel, in
	// decibels relative to full scale (0 dB = signal level of +-1).
	AnalysisResult struct {
		RMS          [2]Decibel
		MaxMomentary [2]Decibel
		Peak         [2]Decibel
	}

	// Analyzer measures the level of a sample range. Min and Max are hard
	// limits in decibels to keep silence from turning into negative
	// infinities.
	Analyzer struct {
		Min Decibel
		Max Decibel

		window [2]types.RingBuffer[float32] // momentary window per channel
		buf    raide.AudioBuffer
		tmp    [2][]float32
		tmp2   []float32
	}
)

// momentaryWindow is the length of the momentary measurement window in
// samples, 400 ms at 44.1 kHz.
const momentaryWindow = 17640

const analyzeChunk = 4096

var errEmptyRange = errors.New("selection is empty")
var errNaN = errors.New("NaN detected in the source")

func NewAnalyzer() *Analyzer {
	a := &Analyzer{Min: -100, Max: 20}
	for i := range a.window {
		a.window[i] = types.RingBuffer[float32]{Buffer: make([]float32, momentaryWindow)}
	}
	return a
}

// Analyze measures the given range of the source. The range is normalized
// first, so a backwards drag measures the same samples.
func (a *Analyzer) Analyze(source raide.SampleSource, r raide.SampleRange) (AnalysisResult, error) {
	if source == nil || r.Len() == 0 {
		return AnalysisResult{}, errEmptyRange
	}
	n := r.Normalized()
	if cap(a.buf) < analyzeChunk {
		a.buf = make(raide.AudioBuffer, analyzeChunk)
		for i := range a.tmp {
			a.tmp[i] = make([]float32, analyzeChunk)
		}
		a.tmp2 = make([]float32, analyzeChunk)
	}
	for i := range a.window {
		for j := range a.window[i].Buffer {
			a.window[i].Buffer[j] = 0
		}
		a.window[i].Cursor = 0
	}
	var result AnalysisResult
	var sumsq, peak, maxWindow [2]float32
	total := 0
	for offset := n.Start; offset <= n.End; offset += analyzeChunk {
		want := n.End - offset + 1
		if want > analyzeChunk {
			want = analyzeChunk
		}
		read := source.ReadSamples(offset, a.buf[:want])
		if read == 0 {
			break
		}
		for chn := 0; chn < 2; chn++ {
			ch := a.tmp[chn][:read]
			for i := 0; i < read; i++ {
				ch[i] = a.buf[i][chn]
			}
			sq := vek32.Mul_Into(a.tmp2[:read], ch, ch)
			sumsq[chn] += vek32.Mean(sq) * float32(read)
			a.window[chn].WriteWrap(sq)
			if w := vek32.Mean(a.window[chn].Buffer); w > maxWindow[chn] {
				maxWindow[chn] = w
			}
			vek32.Abs_Inplace(ch)
			if p := vek32.Max(ch); p > peak[chn] {
				peak[chn] = p
			}
		}
		total += read
	}
	if total == 0 {
		return AnalysisResult{}, errEmptyRange
	}
	for chn := 0; chn < 2; chn++ {
		rms := float64(sumsq[chn]) / float64(total)
		if math.IsNaN(rms) {
			return AnalysisResult{}, errNaN
		}
		result.RMS[chn] = a.clamp(10 * math.Log10(rms))
		result.MaxMomentary[chn] = a.clamp(10 * math.Log10(float64(maxWindow[chn])))
		result.Peak[chn] = a.clamp(20 * math.Log10(float64(peak[chn])))
	}
	return result, nil
}

func (a *Analyzer) clamp(dB float64) Decibel {
	d := Decibel(dB)
	if math.IsNaN(dB) || d < a.Min {
		return a.Min
	}
	if d > a.Max {
		return a.Max
	}
	return d
}
