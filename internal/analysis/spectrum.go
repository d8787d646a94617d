package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/san-kum/spherelab/internal/dynamo"
)

// Series maps each snapshot through fn.
func Series(frames []dynamo.Snapshot, fn func(dynamo.Snapshot) float64) []float64 {
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = fn(f)
	}
	return out
}

// PowerSpectrum returns the magnitude of the first half of the spectrum of
// data with its mean removed, so bin 0 is always zero.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	spec := fft.FFTReal(centered)
	ps := make([]float64, len(spec)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spec[i])
	}
	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-zero
// bin for samples dt seconds apart, and 0 when there is none.
func DominantFrequency(data []float64, dt float64) float64 {
	ps := PowerSpectrum(data)
	if len(ps) < 2 || dt <= 0 {
		return 0
	}
	best := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}
	if ps[best] == 0 {
		return 0
	}
	return float64(best) / (float64(len(data)) * dt)
}
