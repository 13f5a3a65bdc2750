package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/ringsim/internal/automation"
	"github.com/san-kum/ringsim/internal/experiment"
	"github.com/san-kum/ringsim/internal/optim"
	"github.com/san-kum/ringsim/internal/storage"
	"github.com/san-kum/ringsim/internal/viz"
)

var (
	sweepParam   string
	sweepMin     float64
	sweepMax     float64
	sweepNum     int
	metricName   string
	trials       int
	perturbation float64
	seed         int64
	ranges       []string
	maximize     bool
)

func addBatchCommands(rootCmd *cobra.Command) {
	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run and save every run in a YAML scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "vary one parameter and plot a metric",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "j2", "parameter to vary")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 150, "last value")
	sweepCmd.Flags().IntVar(&sweepNum, "num", 16, "number of values")
	sweepCmd.Flags().StringVar(&metricName, "metric", "peak_activity", "metric to report")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "run from random initial activity and report where the bump settles",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addSimFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Float64Var(&perturbation, "perturb", 1, "upper bound of the initial activity")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0: time based)")

	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "grid search parameters for the best metric value",
		Args:  cobra.NoArgs,
		RunE:  runSearch,
	}
	addSimFlags(searchCmd)
	searchCmd.Flags().StringArrayVar(&ranges, "range", nil, "parameter range name=min:max:num (repeatable)")
	searchCmd.Flags().StringVar(&metricName, "metric", "peak_activity", "metric to optimise")
	searchCmd.Flags().BoolVar(&maximize, "maximize", false, "look for the largest value instead of the smallest")

	rootCmd.AddCommand(scenarioCmd, sweepCmd, monteCarloCmd, searchCmd)
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	outcomes, runErr := automation.RunScenario(cmd.Context(), scenario, experiment.NewRegistry(), logger)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tID\tSTEPS\tCONNECTED")
	for _, o := range outcomes {
		runID, err := st.Save(o.Name, o.Config, o.Result)
		if err != nil {
			return fmt.Errorf("save %s: %w", o.Name, err)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%v\n", o.Name, runID, o.Result.StepsTaken, o.Config.Connected)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, preset)
	if err != nil {
		return err
	}

	sweep := &automation.ParameterSweep{
		Base:    cfg,
		Param:   sweepParam,
		Min:     sweepMin,
		Max:     sweepMax,
		Num:     sweepNum,
		Metrics: []string{metricName},
	}

	logger.Info("sweep started", "param", sweepParam, "min", sweepMin, "max", sweepMax, "num", sweepNum)
	results, err := automation.RunSweep(cmd.Context(), sweep, experiment.NewRegistry())
	if err != nil {
		return err
	}

	values := make([]float64, len(results))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", sweepParam, metricName)
	for i, r := range results {
		values[i] = r.Metrics[metricName]
		fmt.Fprintf(w, "%.4g\t%.4f\n", r.Value, values[i])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(values) > 1 {
		fmt.Println()
		fmt.Println(viz.LinePlot(values, fmt.Sprintf("%s vs %s [%g, %g]", metricName, sweepParam, sweepMin, sweepMax), plotHeight, plotWidth))
	}
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, preset)
	if err != nil {
		return err
	}

	results, err := automation.RunMonteCarlo(cmd.Context(), &automation.MonteCarloConfig{
		Base:         cfg,
		Perturbation: perturbation,
		Trials:       trials,
		Seed:         seed,
	}, logger)
	if err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("trials: %d  stable: %d  unstable: %d\n", len(results), stable, unstable)
	fmt.Printf("orientation spread: %.4f rad\n\n", automation.OrientationSpread(results))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tORIENTATION\tPEAK\tSTABLE")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%v\n", r.TrialID, r.Orientation, r.Peak, r.Stable)
	}
	return w.Flush()
}

func runSearch(cmd *cobra.Command, args []string) error {
	if len(ranges) == 0 {
		return fmt.Errorf("at least one --range is required")
	}

	base, err := resolveConfig(cmd, preset)
	if err != nil {
		return err
	}

	names := make([]string, len(ranges))
	values := make([][]float64, len(ranges))
	for i, r := range ranges {
		names[i], values[i], err = optim.ParseRange(r)
		if err != nil {
			return err
		}
	}

	g, err := optim.NewGridSearch(names, values)
	if err != nil {
		return err
	}
	if maximize {
		g.Maximize()
	}

	registry := experiment.NewRegistry()
	build := func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := base.Clone()
		for k, v := range params {
			if err := cfg.SetParam(k, v); err != nil {
				return nil, err
			}
		}
		return experiment.New("search", cfg, registry, metricName), nil
	}

	logger.Info("search started", "points", g.Points(), "metric", metricName, "maximize", maximize)
	res, err := g.Search(cmd.Context(), build, metricName)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(res.Params))
	for k := range res.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Printf("evaluated: %d  failed: %d\n", res.Evaluated, res.Failed)
	fmt.Printf("best %s: %.4f\n", metricName, res.Value)
	for _, k := range keys {
		fmt.Printf("  %s = %g\n", k, res.Params[k])
	}
	return nil
}
