package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/ringsim/internal/network"
	"github.com/san-kum/ringsim/internal/sim"
)

const (
	DefaultNeurons   = 50
	DefaultSteps     = 30
	DefaultContrast  = 1.2
	DefaultEpsilon   = 0.9
	DefaultTau       = 5.0
	DefaultThreshold = 0.0
	DefaultBeta      = 0.1
	DefaultJ0        = 86.0
	DefaultJ2        = 112.0
	DefaultLogLevel  = "info"
)

type Config struct {
	Neurons   int            `json:"neurons" yaml:"neurons"`
	Steps     int            `json:"steps" yaml:"steps"`
	Connected bool           `json:"connected" yaml:"connected"`
	Stimulus  StimulusConfig `json:"stimulus" yaml:"stimulus"`
	Neuron    NeuronConfig   `json:"neuron" yaml:"neuron"`
	Kernel    KernelConfig   `json:"kernel" yaml:"kernel"`
	LogLevel  string         `json:"log_level" yaml:"log_level"`
}

type StimulusConfig struct {
	Theta0   float64 `json:"theta0" yaml:"theta0"`
	Contrast float64 `json:"contrast" yaml:"contrast"`
	Epsilon  float64 `json:"epsilon" yaml:"epsilon"`
}

type NeuronConfig struct {
	Tau       float64 `json:"tau" yaml:"tau"`
	Threshold float64 `json:"threshold" yaml:"threshold"`
	Beta      float64 `json:"beta" yaml:"beta"`
}

type KernelConfig struct {
	J0 float64 `json:"j0" yaml:"j0"`
	J2 float64 `json:"j2" yaml:"j2"`
}

func DefaultConfig() *Config {
	return &Config{
		Neurons: DefaultNeurons,
		Steps:   DefaultSteps,
		Stimulus: StimulusConfig{
			Contrast: DefaultContrast,
			Epsilon:  DefaultEpsilon,
		},
		Neuron: NeuronConfig{
			Tau:       DefaultTau,
			Threshold: DefaultThreshold,
			Beta:      DefaultBeta,
		},
		Kernel: KernelConfig{
			J0: DefaultJ0,
			J2: DefaultJ2,
		},
		LogLevel: DefaultLogLevel,
	}
}

// Load reads a YAML file over the defaults; keys absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SimConfig converts the file representation into a run configuration.
func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Neurons:   c.Neurons,
		Steps:     c.Steps,
		Connected: c.Connected,
		Stimulus: network.Stimulus{
			Theta0:   c.Stimulus.Theta0,
			Contrast: c.Stimulus.Contrast,
			Epsilon:  c.Stimulus.Epsilon,
		},
		Neuron: network.Neuron{
			Tau:       c.Neuron.Tau,
			Threshold: c.Neuron.Threshold,
			Beta:      c.Neuron.Beta,
		},
		Kernel: network.Kernel{
			J0: c.Kernel.J0,
			J2: c.Kernel.J2,
		},
		ValidateState: true,
	}
}

// InitialActivity returns a silent population of the configured size.
func (c *Config) InitialActivity() network.Vector {
	if c.Neurons < 0 {
		return nil
	}
	return make(network.Vector, c.Neurons)
}

// Clone returns an independent copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
