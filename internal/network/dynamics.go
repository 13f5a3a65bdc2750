package network

import "math"

// Neuron holds the parameters shared by every unit in the population.
type Neuron struct {
	Tau       float64 // decay time constant, in steps
	Threshold float64
	Beta      float64 // gain of the activation ramp
}

func DefaultNeuron() Neuron {
	return Neuron{Tau: 5, Threshold: 0, Beta: 0.1}
}

func (n Neuron) Validate() error {
	if !(n.Tau > 0) || math.IsInf(n.Tau, 1) {
		return invalidParam("tau", n.Tau)
	}
	if err := checkBeta(n.Beta); err != nil {
		return err
	}
	if math.IsNaN(n.Threshold) {
		return invalidParam("threshold", n.Threshold)
	}
	return nil
}

// Step advances activity m by one forward-Euler step under drive h.
func (n Neuron) Step(m, h Vector) (Vector, error) {
	next := make(Vector, len(m))
	scratch := make(Vector, len(h))
	if err := n.StepTo(next, m, h, scratch); err != nil {
		return nil, err
	}
	return next, nil
}

// StepTo computes m'_i = m_i + f(h)_i - m_i/τ into dst, using scratch for
// the filtered drive. dst may alias m; scratch must not alias either.
func (n Neuron) StepTo(dst, m, h, scratch Vector) error {
	if err := n.Validate(); err != nil {
		return err
	}
	if len(h) != len(m) {
		return &DimensionError{What: "drive", Got: len(h), Want: len(m)}
	}
	if len(dst) != len(m) {
		return &DimensionError{What: "destination", Got: len(dst), Want: len(m)}
	}
	if len(scratch) != len(m) {
		return &DimensionError{What: "scratch", Got: len(scratch), Want: len(m)}
	}
	if err := ActivationFilterTo(scratch, h, n.Threshold, n.Beta); err != nil {
		return err
	}
	for i := range m {
		dst[i] = m[i] + scratch[i] - m[i]/n.Tau
	}
	return nil
}

// Step is the free-function form of Neuron.Step.
func Step(m, h Vector, tau, threshold, beta float64) (Vector, error) {
	return Neuron{Tau: tau, Threshold: threshold, Beta: beta}.Step(m, h)
}
