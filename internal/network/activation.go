package network

import "math"

// Activate is the scalar transfer function: 0 at or below threshold, a
// linear ramp of slope beta up to threshold+1/beta, then 1. The ramp is
// clamped since beta*(h-threshold) can round above 1 near the upper edge.
func Activate(h, threshold, beta float64) float64 {
	switch {
	case h <= threshold:
		return 0
	case h <= threshold+1/beta:
		return math.Min(1, beta*(h-threshold))
	default:
		return 1
	}
}

// ActivationFilter applies Activate elementwise. The result lies in [0, 1].
func ActivationFilter(h Vector, threshold, beta float64) (Vector, error) {
	out := make(Vector, len(h))
	if err := ActivationFilterTo(out, h, threshold, beta); err != nil {
		return nil, err
	}
	return out, nil
}

// ActivationFilterTo is ActivationFilter writing into dst.
func ActivationFilterTo(dst, h Vector, threshold, beta float64) error {
	if err := checkBeta(beta); err != nil {
		return err
	}
	if len(dst) != len(h) {
		return &DimensionError{What: "activation", Got: len(dst), Want: len(h)}
	}
	for i, x := range h {
		dst[i] = Activate(x, threshold, beta)
	}
	return nil
}

func checkBeta(beta float64) error {
	if !(beta > 0) || math.IsInf(beta, 1) {
		return invalidParam("beta", beta)
	}
	return nil
}
