package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/ringsim/internal/network"
)

// Spectrum returns the amplitude of each Fourier mode of an activity
// profile across the ring, normalised by the population size. Only modes
// 0..n/2 are returned.
func Spectrum(m network.Vector) []float64 {
	n := len(m)
	if n == 0 {
		return []float64{}
	}
	coeffs := fft.FFTReal(m)
	out := make([]float64, n/2+1)
	for k := range out {
		out[k] = cmplx.Abs(coeffs[k]) / float64(n)
	}
	return out
}

// Selectivity is the ratio of the first harmonic to the mean of an activity
// profile. A flat profile gives 0 and a single active neuron gives 1.
func Selectivity(m network.Vector) float64 {
	s := Spectrum(m)
	if len(s) < 2 || s[0] == 0 {
		return 0
	}
	return s[1] / s[0]
}
