package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/ringsim/internal/network"
)

// ErrFinished is returned by Runner.Advance once every step has been taken.
var ErrFinished = errors.New("sim: run finished")

// Metric summarises a run from the activity observed after each step.
// Observe must not modify m; it is the vector stored in the trajectory.
type Metric interface {
	Name() string
	Observe(m network.Vector, step int)
	Value() float64
	Reset()
}

// Observer is notified with each new activity vector. Each observer gets
// its own copy, so changes to m do not reach the trajectory.
type Observer interface {
	OnStep(m network.Vector, step int)
}

// Config fixes every parameter of a single run.
type Config struct {
	Neurons   int
	Steps     int
	Stimulus  network.Stimulus
	Neuron    network.Neuron
	Kernel    network.Kernel
	Connected bool

	// ValidateState aborts the run when activity becomes NaN or Inf.
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Neurons:       50,
		Steps:         30,
		Stimulus:      network.Stimulus{Theta0: 0, Contrast: 1.2, Epsilon: 0.9},
		Neuron:        network.DefaultNeuron(),
		Kernel:        network.DefaultKernel(),
		Connected:     false,
		ValidateState: true,
	}
}

// Validate checks structural preconditions without building anything.
func (c Config) Validate() error {
	if c.Neurons < 0 {
		return &network.DimensionError{What: "neurons", Got: c.Neurons, Want: 0}
	}
	if c.Steps < 0 {
		return &network.ParamError{Name: "steps", Value: float64(c.Steps), Err: network.ErrInvalidParameter}
	}
	return c.Neuron.Validate()
}

// Result is the time history of a run.
type Result struct {
	Trajectory []network.Vector
	Metrics    map[string]float64
	StepsTaken int
}

// Final returns the last activity vector, or nil for an empty trajectory.
func (r *Result) Final() network.Vector {
	if len(r.Trajectory) == 0 {
		return nil
	}
	return r.Trajectory[len(r.Trajectory)-1]
}

// Matrix returns the trajectory as plain rows, one per step.
func (r *Result) Matrix() [][]float64 {
	rows := make([][]float64, len(r.Trajectory))
	for i, m := range r.Trajectory {
		rows[i] = m
	}
	return rows
}

// StepError wraps a failure with the step at which it happened.
type StepError struct {
	Step     int
	Activity network.Vector
	Err      error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
