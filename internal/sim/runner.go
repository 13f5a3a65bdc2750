package sim

import (
	"github.com/san-kum/ringsim/internal/network"
)

// Runner drives one ring network through a fixed number of steps. It owns
// the activity vector and, when connected, the coupling matrix; neither is
// shared with other runners.
type Runner struct {
	cfg       Config
	angles    network.Vector
	external  network.Vector
	weights   *network.Matrix
	initial   network.Vector
	activity  network.Vector
	step      int
	pool      *VectorPool
	drive     network.Vector
	recurrent network.Vector
	filtered  network.Vector
	metrics   []Metric
	observers []Observer
}

// Option customises a Runner.
type Option func(*Runner)

// WithPool makes the runner borrow its scratch buffers from p. Pools whose
// size differs from the population are ignored.
func WithPool(p *VectorPool) Option {
	return func(r *Runner) {
		if p != nil && p.Size() == r.cfg.Neurons {
			r.pool = p
		}
	}
}

// WithMetrics attaches metrics at construction.
func WithMetrics(ms ...Metric) Option {
	return func(r *Runner) {
		for _, m := range ms {
			r.AddMetric(m)
		}
	}
}

// NewRunner validates cfg and initial eagerly and builds the constant parts
// of the run: angles, external drive and, if connected, the weights.
func NewRunner(cfg Config, initial network.Vector, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(initial) != cfg.Neurons {
		return nil, &network.DimensionError{What: "initial activity", Got: len(initial), Want: cfg.Neurons}
	}

	angles, err := network.PreferredAngles(cfg.Neurons)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		cfg:       cfg,
		angles:    angles,
		external:  cfg.Stimulus.Drive(angles),
		initial:   initial.Clone(),
		activity:  initial.Clone(),
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}

	if cfg.Connected {
		r.weights, err = cfg.Kernel.Weights(cfg.Neurons)
		if err != nil {
			return nil, err
		}
	}

	for _, opt := range opts {
		opt(r)
	}
	if r.pool == nil {
		r.pool = NewVectorPool(cfg.Neurons)
	}
	r.drive = r.pool.Get()
	r.recurrent = r.pool.Get()
	r.filtered = r.pool.Get()

	return r, nil
}

func (r *Runner) AddMetric(m Metric) {
	m.Reset()
	r.metrics = append(r.metrics, m)
}

func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) Config() Config { return r.cfg }

// Angles returns the preferred angles of the population.
func (r *Runner) Angles() network.Vector { return r.angles.Clone() }

// External returns the stimulus-driven part of the drive.
func (r *Runner) External() network.Vector { return r.external.Clone() }

// Weights returns the coupling matrix, or nil for an unconnected run.
func (r *Runner) Weights() *network.Matrix { return r.weights }

// Activity returns a copy of the current activity.
func (r *Runner) Activity() network.Vector { return r.activity.Clone() }

func (r *Runner) StepsTaken() int { return r.step }

func (r *Runner) Done() bool { return r.step >= r.cfg.Steps }

// Reset restores the initial activity and clears the metrics.
func (r *Runner) Reset() {
	copy(r.activity, r.initial)
	r.step = 0
	for _, m := range r.metrics {
		m.Reset()
	}
}

// Advance takes one step and returns a copy of the new activity. The drive
// is the external input plus, when connected, W·m of the previous activity.
func (r *Runner) Advance() (network.Vector, error) {
	if r.Done() {
		return nil, ErrFinished
	}

	copy(r.drive, r.external)
	if r.weights != nil {
		if err := r.weights.MulVecTo(r.recurrent, r.activity); err != nil {
			return nil, &StepError{Step: r.step, Activity: r.Activity(), Err: err}
		}
		for i := range r.drive {
			r.drive[i] += r.recurrent[i]
		}
	}

	if err := r.cfg.Neuron.StepTo(r.activity, r.activity, r.drive, r.filtered); err != nil {
		return nil, &StepError{Step: r.step, Activity: r.Activity(), Err: err}
	}
	step := r.step
	r.step++

	if r.cfg.ValidateState && !r.activity.IsValid() {
		return nil, &StepError{Step: step, Activity: r.Activity(), Err: network.ErrNumericOverflow}
	}

	m := r.activity.Clone()
	for _, metric := range r.metrics {
		metric.Observe(m, step)
	}
	for _, obs := range r.observers {
		obs.OnStep(m.Clone(), step)
	}
	return m, nil
}

// Run takes every remaining step. On failure the partial trajectory is
// returned together with the error.
func (r *Runner) Run() (*Result, error) {
	result := &Result{
		Trajectory: make([]network.Vector, 0, r.cfg.Steps-r.step),
		Metrics:    make(map[string]float64),
	}

	for !r.Done() {
		m, err := r.Advance()
		if err != nil {
			result.StepsTaken = len(result.Trajectory)
			return result, err
		}
		result.Trajectory = append(result.Trajectory, m)
	}
	result.StepsTaken = len(result.Trajectory)

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

// Close hands the scratch buffers back to the pool. The runner must not be
// advanced afterwards.
func (r *Runner) Close() {
	if r.pool == nil {
		return
	}
	r.pool.Put(r.drive)
	r.pool.Put(r.recurrent)
	r.pool.Put(r.filtered)
	r.drive, r.recurrent, r.filtered = nil, nil, nil
	r.pool = nil
}

// Run simulates one network from initial under cfg.
func Run(initial network.Vector, cfg Config, metrics ...Metric) (*Result, error) {
	r, err := NewRunner(cfg, initial, WithMetrics(metrics...))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.Run()
}

// RunSimulation runs with the default neuron and kernel parameters.
func RunSimulation(initial network.Vector, theta0 float64, nNeurons, timeSteps int, epsilon, contrast float64, connected bool) ([]network.Vector, error) {
	cfg := DefaultConfig()
	cfg.Neurons = nNeurons
	cfg.Steps = timeSteps
	cfg.Stimulus = network.Stimulus{Theta0: theta0, Contrast: contrast, Epsilon: epsilon}
	cfg.Connected = connected

	result, err := Run(initial, cfg)
	if err != nil {
		return nil, err
	}
	return result.Trajectory, nil
}
