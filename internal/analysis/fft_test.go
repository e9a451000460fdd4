package analysis

import (
	"math"
	"testing"
)

func TestFFTConstantSignal(t *testing.T) {
	data := []float64{1, 1, 1, 1}
	result := FFT(data)

	if math.Abs(real(result[0])-4) > 1e-12 {
		t.Errorf("DC bin should be 4, got %v", result[0])
	}
	for i := 1; i < len(result); i++ {
		if math.Abs(real(result[i])) > 1e-12 || math.Abs(imag(result[i])) > 1e-12 {
			t.Errorf("bin %d should be zero, got %v", i, result[i])
		}
	}
}

func TestPowerSpectrumSine(t *testing.T) {
	n := 256
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * 8 * float64(i) / float64(n))
	}

	ps := PowerSpectrum(data)

	maxIdx := 0
	for i := range ps {
		if ps[i] > ps[maxIdx] {
			maxIdx = i
		}
	}
	if maxIdx != 8 {
		t.Errorf("expected peak at bin 8, got %d", maxIdx)
	}
}

func TestPowerSpectrumRemovesMean(t *testing.T) {
	data := make([]float64, 64)
	for i := range data {
		data[i] = 5.0
	}

	ps := PowerSpectrum(data)
	for i, v := range ps {
		if v > 1e-9 {
			t.Errorf("flat signal should have empty spectrum, bin %d = %g", i, v)
		}
	}
}

func TestDominantFrequency(t *testing.T) {
	// 4 Hz sine sampled at 128 Hz for 2 seconds (power-of-two length, so
	// no padding distortion).
	n := 256
	duration := 2.0
	data := make([]float64, n)
	for i := range data {
		ti := duration * float64(i) / float64(n-1)
		data[i] = math.Sin(2 * math.Pi * 4 * ti)
	}

	freq := DominantFrequency(data, duration)
	if math.Abs(freq-4.0) > 0.5 {
		t.Errorf("expected ~4 Hz, got %g", freq)
	}
}

func TestDominantFrequencyFlat(t *testing.T) {
	data := make([]float64, 128)
	if f := DominantFrequency(data, 1.0); f != 0 {
		t.Errorf("expected 0 for flat series, got %g", f)
	}
}
