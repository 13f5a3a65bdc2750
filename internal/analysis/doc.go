// Package analysis characterises simulated activity trajectories.
//
//   - [Deltas]: size of each step's change in activity
//   - [SettlingStep]: first step after which activity stops changing
//   - [FixedPoint]: analytic steady state of an unconnected population
//   - [TuningProfile]: activity of every neuron at one step, with its angle
//   - [Spectrum], [Selectivity]: Fourier content of an activity profile
//
// # Convergence
//
// With a constant stimulus and no coupling every neuron relaxes
// geometrically towards τ·f(h):
//
//	fp, _ := analysis.FixedPoint(drive, neuron)
//	step, ok := analysis.SettlingStep(result.Trajectory, 1e-3)
package analysis
