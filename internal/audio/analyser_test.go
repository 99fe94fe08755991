package audio

import (
	"math"
	"math/rand"
	"testing"
)

// tone returns n stereo samples of a sine sitting exactly on FFT bin k.
func tone(n, k int, amp float64) [][2]float64 {
	out := make([][2]float64, n)
	for i := range out {
		v := amp * math.Sin(2*math.Pi*float64(k)*float64(i)/FFTSize)
		out[i] = [2]float64{v, v}
	}
	return out
}

func settle(a *Analyser, samples [][2]float64) float64 {
	var beat float64
	for i := 0; i < 40; i++ {
		beat = a.BeatIntensity(samples)
	}
	return beat
}

func TestBeatIntensityEmpty(t *testing.T) {
	a := NewAnalyser()
	if got := a.BeatIntensity(nil); got != 0 {
		t.Errorf("BeatIntensity(nil) = %v, want 0", got)
	}
}

func TestBeatIntensitySilence(t *testing.T) {
	a := NewAnalyser()
	if got := settle(a, make([][2]float64, FFTSize)); got != 0 {
		t.Errorf("silence = %v, want 0", got)
	}
}

func TestBeatIntensityBassTone(t *testing.T) {
	a := NewAnalyser()
	got := settle(a, tone(FFTSize, 3, 0.8))
	if got <= 0.2 {
		t.Errorf("bass tone = %v, want clearly positive", got)
	}
	if got > 1 {
		t.Errorf("bass tone = %v, want <= 1", got)
	}
}

func TestBeatIntensityPrefersBass(t *testing.T) {
	bass := settle(NewAnalyser(), tone(FFTSize, 4, 0.5))
	treble := settle(NewAnalyser(), tone(FFTSize, 100, 0.5))
	if treble >= bass {
		t.Errorf("treble %v >= bass %v", treble, bass)
	}
}

func TestBeatIntensityAlwaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := NewAnalyser()
	for round := 0; round < 50; round++ {
		n := rng.Intn(2 * FFTSize)
		samples := make([][2]float64, n)
		for i := range samples {
			samples[i] = [2]float64{rng.Float64()*20 - 10, rng.Float64()*20 - 10}
		}
		if round%7 == 0 && n > 0 {
			samples[0][0] = math.NaN()
		}
		got := a.BeatIntensity(samples)
		if got < 0 || got > 1 || math.IsNaN(got) {
			t.Fatalf("round %d: BeatIntensity = %v", round, got)
		}
	}
}

func TestByteFrequencyDataLength(t *testing.T) {
	a := NewAnalyser()
	bins := a.ByteFrequencyData(tone(FFTSize/2, 2, 0.5))
	if len(bins) != BinCount {
		t.Errorf("len = %d, want %d", len(bins), BinCount)
	}
}

func TestAnalyserReset(t *testing.T) {
	a := NewAnalyser()
	settle(a, tone(FFTSize, 3, 0.8))
	a.Reset()
	if got := a.BeatIntensity(make([][2]float64, FFTSize)); got != 0 {
		t.Errorf("after reset, silence = %v, want 0", got)
	}
}
