package experiment

import (
	"fmt"

	"github.com/san-kum/ringsim/internal/config"
	"github.com/san-kum/ringsim/internal/network"
	"github.com/san-kum/ringsim/internal/sim"
)

// Experiment is a named, configured run together with its metrics.
type Experiment struct {
	Name        string
	cfg         *config.Config
	metricNames []string
	registry    *Registry
	runner      *sim.Runner
	metrics     []sim.Metric
}

func New(name string, cfg *config.Config, registry *Registry, metricNames ...string) *Experiment {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Experiment{
		Name:        name,
		cfg:         cfg,
		metricNames: metricNames,
		registry:    registry,
	}
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// Setup validates the configuration and builds the runner.
func (e *Experiment) Setup() error {
	simCfg := e.cfg.SimConfig()
	if err := simCfg.Validate(); err != nil {
		return err
	}

	angles, err := network.PreferredAngles(simCfg.Neurons)
	if err != nil {
		return err
	}
	e.metrics, err = e.registry.Metrics(e.metricNames, angles, simCfg.Neuron)
	if err != nil {
		return err
	}

	e.runner, err = sim.NewRunner(simCfg, e.cfg.InitialActivity(), sim.WithMetrics(e.metrics...))
	return err
}

func (e *Experiment) Run() (*sim.Result, error) {
	if e.runner == nil {
		return nil, fmt.Errorf("experiment %s not setup", e.Name)
	}
	return e.runner.Run()
}

// Runner returns the underlying runner for stepping or adding observers.
func (e *Experiment) Runner() *sim.Runner {
	return e.runner
}

// Metrics returns the metrics attached to the runner.
func (e *Experiment) Metrics() []sim.Metric {
	return e.metrics
}

// Close releases the runner's scratch buffers.
func (e *Experiment) Close() {
	if e.runner != nil {
		e.runner.Close()
		e.runner = nil
	}
}

// Job converts the experiment into an ensemble job with its own metrics.
func (e *Experiment) Job() (sim.Job, error) {
	simCfg := e.cfg.SimConfig()
	angles, err := network.PreferredAngles(simCfg.Neurons)
	if err != nil {
		return sim.Job{}, err
	}
	if _, err := e.registry.Metrics(e.metricNames, angles, simCfg.Neuron); err != nil {
		return sim.Job{}, err
	}

	return sim.Job{
		Name:    e.Name,
		Initial: e.cfg.InitialActivity(),
		Config:  simCfg,
		Metrics: func() []sim.Metric {
			ms, _ := e.registry.Metrics(e.metricNames, angles, simCfg.Neuron)
			return ms
		},
	}, nil
}

// Compare runs the experiments concurrently and returns their results in order.
func Compare(exps ...*Experiment) ([]*sim.Result, error) {
	ensemble := sim.NewEnsemble()
	for _, e := range exps {
		job, err := e.Job()
		if err != nil {
			return nil, fmt.Errorf("experiment %s: %w", e.Name, err)
		}
		ensemble.Add(job)
	}
	return ensemble.Run()
}
