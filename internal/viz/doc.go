// Package viz renders ring-network runs in the terminal.
//
//   - [Heatmap]: shaded neuron × time or neuron × neuron images
//   - [LinePlot]: asciigraph line charts of profiles and curves
//   - [LiveModel]: bubbletea program stepping a [sim.Runner] live
//
// Rendering is kept out of the simulation packages; viz only reads results.
package viz
