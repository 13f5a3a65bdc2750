package main

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/ringsim/internal/analysis"
	"github.com/san-kum/ringsim/internal/experiment"
	"github.com/san-kum/ringsim/internal/network"
	"github.com/san-kum/ringsim/internal/storage"
	"github.com/san-kum/ringsim/internal/viz"
)

const (
	plotHeight = 10
	plotWidth  = 80
)

// activityHeatmap draws a step × neuron matrix as neuron rows over time.
func activityHeatmap(rows [][]float64, caption string) string {
	return viz.Heatmap(viz.Transpose(rows), viz.HeatmapOptions{
		Caption:   caption,
		CellWidth: 2,
	})
}

func toRows(traj []network.Vector) [][]float64 {
	rows := make([][]float64, len(traj))
	for i, m := range traj {
		rows[i] = m
	}
	return rows
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	if len(traj) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("neurons: %d  steps: %d  connected: %v\n", meta.Config.Neurons, len(traj), meta.Config.Connected)
	fmt.Printf("stimulus: theta0=%.3f c=%.2f eps=%.2f\n\n",
		meta.Config.Stimulus.Theta0, meta.Config.Stimulus.Contrast, meta.Config.Stimulus.Epsilon)

	fmt.Println(activityHeatmap(toRows(traj), "activity (neuron × step)"))
	fmt.Println()

	final := traj[len(traj)-1]
	if len(final) == 0 {
		fmt.Println("empty network")
		return nil
	}
	fmt.Println(viz.LinePlot(final, "final activity by neuron", plotHeight, plotWidth))
	fmt.Println()

	angles, err := network.PreferredAngles(len(final))
	if err != nil {
		return err
	}
	profile, err := analysis.TuningProfile(traj, angles, len(traj)-1)
	if err != nil {
		return err
	}
	peak := profile[0]
	for _, p := range profile[1:] {
		if p.Activity > peak.Activity {
			peak = p
		}
	}
	fmt.Printf("peak: %.4f at theta=%.4f rad\n", peak.Activity, peak.Angle)

	deltas := analysis.Deltas(traj)
	if len(deltas) > 0 {
		fmt.Println(viz.LinePlot(deltas, "|m(t) - m(t-1)|", plotHeight, plotWidth))
		fmt.Println()
	}

	if spectrum := analysis.Spectrum(final); len(spectrum) > 1 {
		fmt.Println(viz.LinePlot(spectrum, "Fourier amplitude of final activity by mode", plotHeight, plotWidth))
		fmt.Println()
	}
	fmt.Printf("selectivity: %.4f\n", analysis.Selectivity(final))

	if step, ok := analysis.SettlingStep(traj, settleTolerance(final)); ok {
		fmt.Printf("settled after step %d\n", step)
	} else {
		fmt.Println("still changing at last step")
	}
	return nil
}

// settleTolerance scales a fixed relative tolerance by the activity level.
func settleTolerance(m network.Vector) float64 {
	return 1e-6 * math.Max(1, m.Norm())
}

func showWeights(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, preset)
	if err != nil {
		return err
	}

	w, err := network.ConnectivityMatrix(cfg.Neurons, cfg.Kernel.J0, cfg.Kernel.J2)
	if err != nil {
		return err
	}
	n, _ := w.Dims()
	if n == 0 {
		fmt.Println("empty network")
		return nil
	}

	rows := w.Rows()
	lo, hi := viz.Range(rows)
	fmt.Println(viz.Heatmap(rows, viz.HeatmapOptions{
		Caption:   fmt.Sprintf("W (j0=%g, j2=%g)", cfg.Kernel.J0, cfg.Kernel.J2),
		CellWidth: 2,
		Lo:        lo,
		Hi:        hi,
	}))
	fmt.Println()

	mid := n / 2
	fmt.Println(viz.LinePlot(w.Row(mid), fmt.Sprintf("row %d of W", mid), plotHeight, plotWidth))
	fmt.Printf("\nsymmetric: %v\n", w.IsSymmetric(1e-12))
	return nil
}

func showInput(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, preset)
	if err != nil {
		return err
	}

	angles, err := network.PreferredAngles(cfg.Neurons)
	if err != nil {
		return err
	}
	h := network.StimulusInput(angles, cfg.Stimulus.Theta0, cfg.Stimulus.Contrast, cfg.Stimulus.Epsilon)
	if len(h) > 0 {
		fmt.Println(viz.LinePlot(h, fmt.Sprintf("input h(theta) for theta0=%.3f c=%.2f eps=%.2f",
			cfg.Stimulus.Theta0, cfg.Stimulus.Contrast, cfg.Stimulus.Epsilon), plotHeight, plotWidth))
		fmt.Println()
	}

	_, ys, err := viz.ActivationCurve(cfg.Neuron.Threshold, cfg.Neuron.Beta, -15, 15, 30)
	if err != nil {
		return err
	}
	fmt.Println(viz.LinePlot(ys, fmt.Sprintf("f(h) on [-15, 15], T=%g beta=%g", cfg.Neuron.Threshold, cfg.Neuron.Beta), plotHeight, plotWidth))

	if len(h) > 0 {
		fp, err := analysis.FixedPoint(h, cfg.SimConfig().Neuron)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Println(viz.LinePlot(fp, "unconnected steady state tau*f(h)", plotHeight, plotWidth))
	}
	return nil
}

func comparePresets(cmd *cobra.Command, args []string) error {
	names := []string{"unconnected", "connected"}
	copy(names, args)

	registry := experiment.NewRegistry()
	exps := make([]*experiment.Experiment, len(names))
	for i, name := range names {
		cfg, err := resolveConfig(cmd, name)
		if err != nil {
			return err
		}
		exps[i] = experiment.New(name, cfg, registry, metricNames...)
	}

	logger.Info("compare started", "a", names[0], "b", names[1])
	results, err := experiment.Compare(exps...)
	if err != nil {
		return err
	}

	for i, res := range results {
		fmt.Println(viz.HeaderStyle.Render(names[i]))
		if len(res.Trajectory) > 0 {
			fmt.Println(activityHeatmap(res.Matrix(), "activity (neuron × step)"))
			fmt.Println()
		}
	}

	var finals [][]float64
	for _, res := range results {
		if f := res.Final(); len(f) > 0 {
			finals = append(finals, f)
		}
	}
	if len(finals) == len(results) && len(finals[0]) == len(finals[1]) {
		fmt.Println(viz.MultiPlot(finals, fmt.Sprintf("final activity: %s (cyan) vs %s (yellow)", names[0], names[1]), plotHeight, plotWidth))
		fmt.Println()
	}

	return printComparison(names, results[0].Metrics, results[1].Metrics)
}

func printComparison(names []string, a, b map[string]float64) error {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "METRIC\t%s\t%s\n", strings.ToUpper(names[0]), strings.ToUpper(names[1]))
	for _, k := range keys {
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\n", k, a[k], b[k])
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, preset)
	if err != nil {
		return err
	}

	name := defaultName(cfg)
	if preset != "" {
		name = preset
	}

	exp := experiment.New(name, cfg, experiment.NewRegistry())
	if err := exp.Setup(); err != nil {
		return err
	}
	defer exp.Close()

	m := viz.NewLiveModel(exp.Runner(), name, frameRate, exp.Metrics())

	p := tea.NewProgram(m)
	final, err := p.Run()
	if err != nil {
		return err
	}
	if lm, ok := final.(viz.LiveModel); ok {
		logger.Info("live session ended", "steps_taken", lm.Steps())
	}
	return nil
}
