package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/ringsim/internal/config"
	"github.com/san-kum/ringsim/internal/experiment"
	"github.com/san-kum/ringsim/internal/logging"
	"github.com/san-kum/ringsim/internal/network"
	"github.com/san-kum/ringsim/internal/sim"
	"github.com/san-kum/ringsim/internal/storage"
	"github.com/san-kum/ringsim/internal/viz"
)

var (
	dataDir  string
	logLevel string

	neurons   int
	steps     int
	theta0    float64
	contrast  float64
	epsilon   float64
	tau       float64
	threshold float64
	beta      float64
	j0        float64
	j2        float64
	connected bool

	configFile  string
	preset      string
	runName     string
	metricNames []string
	showPlot    bool
	frameRate   int
)

var logger = logging.NewLogger(config.DefaultLogLevel, os.Stderr)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logFailure(err)
		stop()
		os.Exit(1)
	}
	stop()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ringsim",
		Short:         "ring attractor network simulator",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.NewLogger(logLevel, os.Stderr)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ringsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (trace, debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation and save the activity trajectory",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().StringVar(&runName, "name", "", "run name (default: connected or unconnected)")
	runCmd.Flags().StringSliceVar(&metricNames, "metrics", nil, "metrics to compute (default: all)")
	runCmd.Flags().BoolVar(&showPlot, "plot", false, "print the activity heatmap after the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot saved activity",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	weightsCmd := &cobra.Command{
		Use:   "weights",
		Short: "show the connectivity matrix",
		Args:  cobra.NoArgs,
		RunE:  showWeights,
	}
	addSimFlags(weightsCmd)

	inputCmd := &cobra.Command{
		Use:   "input",
		Short: "show the stimulus profile and activation function",
		Args:  cobra.NoArgs,
		RunE:  showInput,
	}
	addSimFlags(inputCmd)

	compareCmd := &cobra.Command{
		Use:   "compare [preset_a] [preset_b]",
		Short: "run two presets side by side (default: unconnected connected)",
		Args:  cobra.MaximumNArgs(2),
		RunE:  comparePresets,
	}
	addSimFlags(compareCmd)
	compareCmd.Flags().StringSliceVar(&metricNames, "metrics", nil, "metrics to compute (default: all)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "step the network interactively",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 10, "steps per second")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list configuration presets",
		RunE:  listPresets,
	}

	metricsCmd := &cobra.Command{
		Use:   "metrics",
		Short: "list available metrics",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range experiment.NewRegistry().ListMetrics() {
				fmt.Println(name)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "print or write the effective configuration as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE:  writeConfig,
	}
	addSimFlags(configCmd)

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run activity as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, weightsCmd, inputCmd, compareCmd,
		liveCmd, presetsCmd, metricsCmd, configCmd, exportJSONCmd, exportCSVCmd)
	addBatchCommands(rootCmd)
	return rootCmd
}

func addSimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVarP(&neurons, "neurons", "n", config.DefaultNeurons, "number of neurons")
	f.IntVarP(&steps, "steps", "t", config.DefaultSteps, "number of time steps")
	f.Float64Var(&theta0, "theta0", 0, "stimulus orientation (rad)")
	f.Float64VarP(&contrast, "contrast", "c", config.DefaultContrast, "stimulus contrast")
	f.Float64VarP(&epsilon, "epsilon", "e", config.DefaultEpsilon, "stimulus selectivity")
	f.Float64Var(&tau, "tau", config.DefaultTau, "membrane time constant (steps)")
	f.Float64Var(&threshold, "threshold", config.DefaultThreshold, "activation threshold")
	f.Float64Var(&beta, "beta", config.DefaultBeta, "activation gain")
	f.Float64Var(&j0, "j0", config.DefaultJ0, "uniform inhibition")
	f.Float64Var(&j2, "j2", config.DefaultJ2, "tuned excitation")
	f.BoolVar(&connected, "connected", false, "enable recurrent connectivity")
	f.StringVar(&configFile, "config", "", "YAML config file")
	f.StringVar(&preset, "preset", "", "configuration preset")
}

// resolveConfig layers a preset, then a config file, then explicitly set
// flags over the defaults.
func resolveConfig(cmd *cobra.Command, presetName string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if presetName != "" {
		p := config.GetPreset(presetName)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", presetName, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if !cmd.Flags().Changed("log-level") && cfg.LogLevel != "" {
			logger = logging.NewLogger(cfg.LogLevel, os.Stderr)
		}
	}

	f := cmd.Flags()
	if f.Changed("neurons") {
		cfg.Neurons = neurons
	}
	if f.Changed("steps") {
		cfg.Steps = steps
	}
	if f.Changed("theta0") {
		cfg.Stimulus.Theta0 = theta0
	}
	if f.Changed("contrast") {
		cfg.Stimulus.Contrast = contrast
	}
	if f.Changed("epsilon") {
		cfg.Stimulus.Epsilon = epsilon
	}
	if f.Changed("tau") {
		cfg.Neuron.Tau = tau
	}
	if f.Changed("threshold") {
		cfg.Neuron.Threshold = threshold
	}
	if f.Changed("beta") {
		cfg.Neuron.Beta = beta
	}
	if f.Changed("j0") {
		cfg.Kernel.J0 = j0
	}
	if f.Changed("j2") {
		cfg.Kernel.J2 = j2
	}
	if f.Changed("connected") {
		cfg.Connected = connected
	}
	if f.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	logger.Debug("resolved config",
		"preset", presetName,
		"file", configFile,
		"neurons", cfg.Neurons,
		"steps", cfg.Steps,
		"connected", cfg.Connected,
		"theta0", cfg.Stimulus.Theta0,
		"contrast", cfg.Stimulus.Contrast,
		"epsilon", cfg.Stimulus.Epsilon,
		"tau", cfg.Neuron.Tau,
		"threshold", cfg.Neuron.Threshold,
		"beta", cfg.Neuron.Beta,
		"j0", cfg.Kernel.J0,
		"j2", cfg.Kernel.J2,
	)
	return cfg, nil
}

func defaultName(cfg *config.Config) string {
	if cfg.Connected {
		return "connected"
	}
	return "unconnected"
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, preset)
	if err != nil {
		return err
	}

	name := runName
	if name == "" {
		name = defaultName(cfg)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(name, cfg, experiment.NewRegistry(), metricNames...)
	if err := exp.Setup(); err != nil {
		return err
	}
	defer exp.Close()

	if logger.Enabled(context.Background(), logging.LevelTrace) {
		exp.Runner().AddObserver(stepLogger{log: logger})
	}

	logger.Info("run started", "name", name, "neurons", cfg.Neurons, "steps", cfg.Steps, "connected", cfg.Connected)
	start := time.Now()

	result, err := exp.Run()
	if err != nil {
		if result != nil {
			logger.Warn("run stopped early", "steps_taken", result.StepsTaken)
		}
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(name, cfg, result)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	logger.Info("run saved", "id", runID, "elapsed", elapsed)

	fmt.Printf("run: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	printMetrics(result.Metrics)

	if showPlot && len(result.Trajectory) > 0 {
		fmt.Println()
		fmt.Println(activityHeatmap(result.Matrix(), "activity (neuron × step)"))
	}
	return nil
}

func printMetrics(m map[string]float64) {
	if len(m) == 0 {
		return
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println()
	for _, name := range names {
		fmt.Println(viz.MetricLabel.Render(name) + viz.MetricValue.Render(fmt.Sprintf("%.4f", m[name])))
	}
}

// stepLogger writes one trace record per step.
type stepLogger struct {
	log *slog.Logger
}

func (s stepLogger) OnStep(m network.Vector, step int) {
	s.log.Log(context.Background(), logging.LevelTrace, "step",
		"step", step,
		"mean", m.Mean(),
		"max", m.Max(),
	)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tN\tSTEPS\tCONNECTED\tTHETA0\tC\tEPS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%v\t%.3f\t%.2f\t%.2f\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Config.Neurons,
			run.Steps,
			run.Config.Connected,
			run.Config.Stimulus.Theta0,
			run.Config.Stimulus.Contrast,
			run.Config.Stimulus.Epsilon,
		)
	}

	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tN\tSTEPS\tCONNECTED\tTHETA0\tC\tEPS")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%d\t%v\t%.3f\t%.2f\t%.2f\n",
			name,
			p.Neurons,
			p.Steps,
			p.Connected,
			p.Stimulus.Theta0,
			p.Stimulus.Contrast,
			p.Stimulus.Epsilon,
		)
	}
	return w.Flush()
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, preset)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		if err := config.Save(args[0], cfg); err != nil {
			return err
		}
		logger.Info("config written", "path", args[0])
		return nil
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, traj)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	traj, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	return storage.ExportCSV(os.Stdout, traj)
}

// logFailure logs err together with whatever it names: the offending
// parameter, the mismatched dimension or the failing step.
func logFailure(err error) {
	attrs := []any{"err", err}

	var pe *network.ParamError
	var de *network.DimensionError
	var se *sim.StepError
	switch {
	case errors.As(err, &pe):
		attrs = append(attrs, "param", pe.Name, "value", pe.Value)
	case errors.As(err, &de):
		attrs = append(attrs, "dimension", de.What, "got", de.Got, "want", de.Want)
	case errors.As(err, &se):
		attrs = append(attrs, "step", se.Step)
	}

	logger.Error("command failed", attrs...)
}
