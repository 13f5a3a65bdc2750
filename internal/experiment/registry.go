package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/ringsim/internal/metrics"
	"github.com/san-kum/ringsim/internal/network"
	"github.com/san-kum/ringsim/internal/sim"
)

// MetricFactory builds a metric for a population with the given preferred
// angles and neuron parameters.
type MetricFactory func(angles network.Vector, neuron network.Neuron) sim.Metric

type Registry struct {
	metrics map[string]MetricFactory
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]MetricFactory),
	}

	r.metrics["mean_activity"] = func(network.Vector, network.Neuron) sim.Metric { return metrics.NewMeanActivity() }
	r.metrics["peak_activity"] = func(network.Vector, network.Neuron) sim.Metric { return metrics.NewPeakActivity() }
	r.metrics["active_fraction"] = func(network.Vector, network.Neuron) sim.Metric { return metrics.NewActiveFraction(0) }
	r.metrics["bump_orientation"] = func(angles network.Vector, _ network.Neuron) sim.Metric {
		return metrics.NewBumpOrientation(angles)
	}
	// activity never exceeds τ when every filtered drive is at most 1
	r.metrics["stability"] = func(_ network.Vector, n network.Neuron) sim.Metric {
		return metrics.NewStability(n.Tau)
	}

	return r
}

func (r *Registry) Register(name string, f MetricFactory) {
	r.metrics[name] = f
}

func (r *Registry) GetMetric(name string, angles network.Vector, neuron network.Neuron) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(angles, neuron), nil
}

// Metrics builds the named metrics; an empty list means all of them.
func (r *Registry) Metrics(names []string, angles network.Vector, neuron network.Neuron) ([]sim.Metric, error) {
	if len(names) == 0 {
		names = r.ListMetrics()
	}
	out := make([]sim.Metric, 0, len(names))
	for _, name := range names {
		m, err := r.GetMetric(name, angles, neuron)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
