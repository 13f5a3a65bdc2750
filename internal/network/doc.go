// Package network provides the numeric primitives of a ring-attractor
// population of orientation-tuned rate neurons.
//
// The package is pure: every function is deterministic and performs no I/O.
//
//   - [PreferredAngles]: evenly spaced preferred orientations on [-π/2, π/2]
//   - [StimulusInput]: external drive for a stimulus orientation
//   - [ActivationFilter]: piecewise-linear saturating transfer function
//   - [ConnectivityMatrix]: cosine coupling kernel between neurons
//   - [Step]: one forward-Euler step of leaky-integrator rate dynamics
//
// # Example
//
//	angles, _ := network.PreferredAngles(50)
//	h := network.StimulusInput(angles, 0, 1.2, 0.9)
//	m := make(network.Vector, 50)
//	m, err := network.Step(m, h, 5, 0, 0.1)
//
// # Thread Safety
//
// Vectors and matrices are plain values with no internal locking. Runs that
// share nothing may execute concurrently.
package network
