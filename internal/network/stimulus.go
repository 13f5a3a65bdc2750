package network

import "math"

// PreferredAngles returns n orientations evenly spaced over [-π/2, π/2],
// both endpoints included. A single neuron sits at -π/2.
func PreferredAngles(n int) (Vector, error) {
	if n < 0 {
		return nil, &DimensionError{What: "population", Got: n, Want: 0}
	}
	angles := make(Vector, n)
	if n == 0 {
		return angles, nil
	}
	start, stop := -math.Pi/2, math.Pi/2
	if n == 1 {
		angles[0] = start
		return angles, nil
	}
	step := (stop - start) / float64(n-1)
	for i := range angles {
		angles[i] = start + float64(i)*step
	}
	angles[n-1] = stop
	return angles, nil
}

// Stimulus is an oriented input held constant across a run.
type Stimulus struct {
	Theta0   float64 // orientation in radians
	Contrast float64
	Epsilon  float64 // selectivity in [0, 1]
}

// Drive returns the external input each neuron receives from s.
func (s Stimulus) Drive(angles Vector) Vector {
	return StimulusInput(angles, s.Theta0, s.Contrast, s.Epsilon)
}

// StimulusInput maps preferred angles to external drive:
// h_i = c(1-ε) + ε·cos(2(θ_i - θ0)). Contrast and selectivity are not
// range checked.
func StimulusInput(angles Vector, theta0, contrast, epsilon float64) Vector {
	h := make(Vector, len(angles))
	StimulusInputTo(h, angles, theta0, contrast, epsilon)
	return h
}

// StimulusInputTo is StimulusInput writing into dst, which must have
// len(angles) elements.
func StimulusInputTo(dst, angles Vector, theta0, contrast, epsilon float64) {
	base := contrast * (1 - epsilon)
	for i, theta := range angles {
		dst[i] = base + epsilon*math.Cos(2*(theta-theta0))
	}
}
