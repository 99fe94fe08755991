package audio

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

const (
	FFTSize  = 256
	BinCount = FFTSize / 2
	BassBins = 10

	SmoothingTimeConstant = 0.8
	MinDecibels           = -100.0
	MaxDecibels           = -30.0
)

// Analyser turns the most recent block of samples into byte-scaled
// frequency magnitudes: Blackman window, real FFT, per-bin time smoothing,
// then a decibel range mapped onto [0,255].
type Analyser struct {
	mu       sync.Mutex
	fft      *fourier.FFT
	window   []float64
	block    []float64
	coeffs   []complex128
	smoothed []float64
	bytes    []uint8
}

func NewAnalyser() *Analyser {
	w := make([]float64, FFTSize)
	for i := range w {
		w[i] = 1
	}
	return &Analyser{
		fft:      fourier.NewFFT(FFTSize),
		window:   window.Blackman(w),
		block:    make([]float64, FFTSize),
		smoothed: make([]float64, BinCount),
		bytes:    make([]uint8, BinCount),
	}
}

// ByteFrequencyData analyses samples and returns BinCount magnitudes in
// [0,255]. Only the newest FFTSize samples are used; shorter input is
// zero-padded at the front. The returned slice is reused by the next call.
func (a *Analyser) ByteFrequencyData(samples [][2]float64) []uint8 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.analyse(samples)
}

func (a *Analyser) analyse(samples [][2]float64) []uint8 {
	if len(samples) > FFTSize {
		samples = samples[len(samples)-FFTSize:]
	}
	pad := FFTSize - len(samples)
	for i := range a.block {
		var mono float64
		if i >= pad {
			s := samples[i-pad]
			mono = (s[0] + s[1]) * 0.5
		}
		if math.IsNaN(mono) || math.IsInf(mono, 0) {
			mono = 0
		}
		a.block[i] = mono * a.window[i]
	}

	a.coeffs = a.fft.Coefficients(a.coeffs, a.block)

	const span = MaxDecibels - MinDecibels
	for k := 0; k < BinCount; k++ {
		c := a.coeffs[k]
		mag := math.Hypot(real(c), imag(c)) / FFTSize
		a.smoothed[k] = SmoothingTimeConstant*a.smoothed[k] + (1-SmoothingTimeConstant)*mag

		if a.smoothed[k] <= 0 {
			a.bytes[k] = 0
			continue
		}
		db := 20 * math.Log10(a.smoothed[k])
		scaled := math.Floor(255 * (db - MinDecibels) / span)
		a.bytes[k] = uint8(math.Min(math.Max(scaled, 0), 255))
	}
	return a.bytes
}

// BeatIntensity returns the mean of the lowest BassBins magnitudes scaled
// to [0,1]. Empty input yields 0 and leaves the smoothing state untouched.
func (a *Analyser) BeatIntensity(samples [][2]float64) float64 {
	if len(samples) == 0 {
		return 0
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	bins := a.analyse(samples)
	var sum int
	for _, b := range bins[:BassBins] {
		sum += int(b)
	}
	return float64(sum) / BassBins / 255
}

// Reset clears the smoothing history.
func (a *Analyser) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	clear(a.smoothed)
	clear(a.bytes)
}
