// Package analysis post-processes recorded orbit history: spectral
// estimates of transit frequencies and Poincaré sections.
package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns |FFT|^2 of the mean-subtracted signal, positive
// frequencies only.
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
		m := cmplx.Abs(spec[i])
		ps[i] = m * m
	}
	return ps
}

// DominantFrequency estimates the strongest oscillation frequency [Hz] of
// samples taken at interval dt, e.g. the poloidal transit frequency of a
// recorded R(t) trace.
func DominantFrequency(data []float64, dt float64) float64 {
	ps := PowerSpectrum(data)
	if len(ps) < 2 || dt <= 0 {
		return 0
	}

	// Skip the DC bin.
	best := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}
	return float64(best) / (float64(len(data)) * dt)
}
