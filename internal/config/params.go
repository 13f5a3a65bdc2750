package config

import "fmt"

// ParamNames lists the scalar fields addressable by SetParam, in the order
// they appear in the YAML file.
func ParamNames() []string {
	return []string{"neurons", "steps", "theta0", "contrast", "epsilon", "tau", "threshold", "beta", "j0", "j2"}
}

// SetParam assigns a scalar field by name. Integer fields are truncated.
func (c *Config) SetParam(name string, v float64) error {
	switch name {
	case "neurons":
		c.Neurons = int(v)
	case "steps":
		c.Steps = int(v)
	case "theta0":
		c.Stimulus.Theta0 = v
	case "contrast":
		c.Stimulus.Contrast = v
	case "epsilon":
		c.Stimulus.Epsilon = v
	case "tau":
		c.Neuron.Tau = v
	case "threshold":
		c.Neuron.Threshold = v
	case "beta":
		c.Neuron.Beta = v
	case "j0":
		c.Kernel.J0 = v
	case "j2":
		c.Kernel.J2 = v
	default:
		return fmt.Errorf("unknown parameter: %s (available: %v)", name, ParamNames())
	}
	return nil
}

// Param returns a scalar field by name.
func (c *Config) Param(name string) (float64, error) {
	switch name {
	case "neurons":
		return float64(c.Neurons), nil
	case "steps":
		return float64(c.Steps), nil
	case "theta0":
		return c.Stimulus.Theta0, nil
	case "contrast":
		return c.Stimulus.Contrast, nil
	case "epsilon":
		return c.Stimulus.Epsilon, nil
	case "tau":
		return c.Neuron.Tau, nil
	case "threshold":
		return c.Neuron.Threshold, nil
	case "beta":
		return c.Neuron.Beta, nil
	case "j0":
		return c.Kernel.J0, nil
	case "j2":
		return c.Kernel.J2, nil
	}
	return 0, fmt.Errorf("unknown parameter: %s (available: %v)", name, ParamNames())
}
