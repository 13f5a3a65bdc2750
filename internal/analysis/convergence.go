package analysis

import (
	"github.com/san-kum/ringsim/internal/network"
)

// Deltas returns ‖m_k - m_{k-1}‖ for every step k ≥ 1.
func Deltas(trajectory []network.Vector) []float64 {
	if len(trajectory) < 2 {
		return []float64{}
	}
	out := make([]float64, len(trajectory)-1)
	for k := 1; k < len(trajectory); k++ {
		out[k-1] = trajectory[k].Sub(trajectory[k-1]).Norm()
	}
	return out
}

// SettlingStep returns the first step k such that every later change is at
// most tol. ok is false when the trajectory is still moving at its end.
func SettlingStep(trajectory []network.Vector, tol float64) (step int, ok bool) {
	deltas := Deltas(trajectory)
	if len(deltas) == 0 {
		return 0, len(trajectory) > 0
	}
	if deltas[len(deltas)-1] > tol {
		return 0, false
	}
	step = len(deltas)
	for k := len(deltas) - 1; k >= 0; k-- {
		if deltas[k] > tol {
			break
		}
		step = k
	}
	return step, true
}

// FixedPoint returns τ·f(h), where the unconnected dynamics come to rest.
func FixedPoint(drive network.Vector, neuron network.Neuron) (network.Vector, error) {
	if err := neuron.Validate(); err != nil {
		return nil, err
	}
	f, err := network.ActivationFilter(drive, neuron.Threshold, neuron.Beta)
	if err != nil {
		return nil, err
	}
	return f.Scale(neuron.Tau), nil
}

// Point is one neuron's activity together with its preferred angle.
type Point struct {
	Angle    float64
	Activity float64
}

// TuningProfile pairs the activity at the given step with the angles.
func TuningProfile(trajectory []network.Vector, angles network.Vector, step int) ([]Point, error) {
	if step < 0 || step >= len(trajectory) {
		return nil, &network.DimensionError{What: "step index", Got: step, Want: len(trajectory)}
	}
	m := trajectory[step]
	if len(m) != len(angles) {
		return nil, &network.DimensionError{What: "activity", Got: len(m), Want: len(angles)}
	}
	out := make([]Point, len(m))
	for i := range m {
		out[i] = Point{Angle: angles[i], Activity: m[i]}
	}
	return out, nil
}
