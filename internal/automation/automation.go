package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/cmplx"
	"math/rand"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/ringsim/internal/config"
	"github.com/san-kum/ringsim/internal/experiment"
	"github.com/san-kum/ringsim/internal/logging"
	"github.com/san-kum/ringsim/internal/metrics"
	"github.com/san-kum/ringsim/internal/network"
	"github.com/san-kum/ringsim/internal/sim"
)

// Scenario defines a scripted sequence of runs
type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Runs        []ScenarioRun `yaml:"runs"`
}

// ScenarioRun is a single run in a scenario. Params are applied over the
// preset (or the defaults when no preset is named).
type ScenarioRun struct {
	Name      string             `yaml:"name"`
	Preset    string             `yaml:"preset"`
	Connected *bool              `yaml:"connected"`
	Params    map[string]float64 `yaml:"params"`
	Metrics   []string           `yaml:"metrics"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}

	return &scenario, nil
}

// Config resolves the run's configuration.
func (r ScenarioRun) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if r.Preset != "" {
		cfg = config.GetPreset(r.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", r.Preset)
		}
	}
	if r.Connected != nil {
		cfg.Connected = *r.Connected
	}

	names := make([]string, 0, len(r.Params))
	for name := range r.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := cfg.SetParam(name, r.Params[name]); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Outcome is one completed scenario run.
type Outcome struct {
	Name   string
	Config *config.Config
	Result *sim.Result
}

// RunScenario executes the runs in order and stops at the first failure,
// returning the runs completed so far.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, log *slog.Logger) ([]Outcome, error) {
	if log == nil {
		log = logging.Discard()
	}
	outcomes := make([]Outcome, 0, len(scenario.Runs))

	for i, run := range scenario.Runs {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		name := run.Name
		if name == "" {
			name = fmt.Sprintf("%s_%d", scenario.Name, i+1)
		}
		log.Info("scenario run", "index", i+1, "of", len(scenario.Runs), "name", name)

		cfg, err := run.Config()
		if err != nil {
			return outcomes, fmt.Errorf("run %d: %w", i+1, err)
		}

		exp := experiment.New(name, cfg, registry, run.Metrics...)
		if err := exp.Setup(); err != nil {
			return outcomes, fmt.Errorf("run %d setup: %w", i+1, err)
		}
		result, err := exp.Run()
		exp.Close()
		if err != nil {
			return outcomes, fmt.Errorf("run %d: %w", i+1, err)
		}

		outcomes = append(outcomes, Outcome{Name: name, Config: cfg, Result: result})
	}

	return outcomes, nil
}

// ParameterSweep varies one parameter over an evenly spaced range.
type ParameterSweep struct {
	Base    *config.Config
	Param   string
	Min     float64
	Max     float64
	Num     int
	Metrics []string
}

// SweepResult holds the outcome at one parameter value
type SweepResult struct {
	Value   float64
	Final   network.Vector
	Metrics map[string]float64
}

// Values returns the sampled parameter values.
func (s *ParameterSweep) Values() []float64 {
	if s.Num <= 0 {
		return nil
	}
	values := make([]float64, s.Num)
	if s.Num == 1 {
		values[0] = s.Min
		return values
	}
	step := (s.Max - s.Min) / float64(s.Num-1)
	for i := range values {
		values[i] = s.Min + float64(i)*step
	}
	return values
}

// RunSweep executes the sweep. The points are independent and run
// concurrently.
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry) ([]SweepResult, error) {
	if sweep.Num <= 0 {
		return nil, fmt.Errorf("sweep needs at least one point, got %d", sweep.Num)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	values := sweep.Values()
	exps := make([]*experiment.Experiment, len(values))
	for i, v := range values {
		cfg := sweep.Base.Clone()
		if err := cfg.SetParam(sweep.Param, v); err != nil {
			return nil, err
		}
		exps[i] = experiment.New(fmt.Sprintf("%s=%g", sweep.Param, v), cfg, registry, sweep.Metrics...)
	}

	runs, err := experiment.Compare(exps...)
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, len(values))
	for i, r := range runs {
		results[i] = SweepResult{
			Value:   values[i],
			Final:   r.Final(),
			Metrics: r.Metrics,
		}
	}
	return results, nil
}

// MonteCarloConfig defines Monte Carlo simulation parameters
type MonteCarloConfig struct {
	Base *config.Config

	// Perturbation is the upper bound of the uniform initial activity.
	Perturbation float64
	Trials       int
	Seed         int64
}

// MonteCarloResult holds the outcome of one randomly initialised run
type MonteCarloResult struct {
	TrialID     int
	Initial     network.Vector
	Final       network.Vector
	Orientation float64
	Peak        float64
	Stable      bool
}

// RunMonteCarlo runs trials from random initial activity. A trial whose
// activity overflows is recorded as unstable rather than failing the batch.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, log *slog.Logger) ([]MonteCarloResult, error) {
	if log == nil {
		log = logging.Discard()
	}
	if cfg.Trials < 0 {
		return nil, &network.ParamError{Name: "trials", Value: float64(cfg.Trials), Err: network.ErrInvalidParameter}
	}
	simCfg := cfg.Base.SimConfig()
	if err := simCfg.Validate(); err != nil {
		return nil, err
	}
	angles, err := network.PreferredAngles(simCfg.Neurons)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	results := make([]MonteCarloResult, 0, cfg.Trials)
	for trial := 0; trial < cfg.Trials; trial++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		initial := make(network.Vector, simCfg.Neurons)
		for i := range initial {
			initial[i] = rng.Float64() * cfg.Perturbation
		}

		orientation := metrics.NewBumpOrientation(angles)
		peak := metrics.NewPeakActivity()
		res, err := sim.Run(initial, simCfg, orientation, peak)

		r := MonteCarloResult{TrialID: trial, Initial: initial, Stable: true}
		switch {
		case errors.Is(err, network.ErrNumericOverflow):
			r.Stable = false
			r.Final = res.Final()
		case err != nil:
			return results, fmt.Errorf("trial %d: %w", trial, err)
		default:
			r.Final = res.Final()
			r.Orientation = orientation.Value()
			r.Peak = peak.Value()
		}
		results = append(results, r)

		if (trial+1)%10 == 0 {
			log.Debug("monte carlo progress", "done", trial+1, "of", cfg.Trials)
		}
	}

	return results, nil
}

// MonteCarloStats counts stable and unstable trials
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}

// OrientationSpread returns the circular standard deviation of the decoded
// orientations of stable trials, in radians on the orientation half-circle.
// It is +Inf when the orientations cancel out or no trial is stable.
func OrientationSpread(results []MonteCarloResult) float64 {
	var sum complex128
	n := 0
	for _, r := range results {
		if !r.Stable {
			continue
		}
		sum += cmplx.Exp(complex(0, 2*r.Orientation))
		n++
	}
	if n == 0 {
		return math.Inf(1)
	}
	resultant := cmplx.Abs(sum) / float64(n)
	if resultant <= 0 {
		return math.Inf(1)
	}
	return math.Sqrt(-2*math.Log(math.Min(resultant, 1))) / 2
}
