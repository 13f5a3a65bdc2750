package config

import "sort"

func preset(mutate func(*Config)) *Config {
	cfg := DefaultConfig()
	mutate(cfg)
	return cfg
}

var Presets = map[string]*Config{
	"unconnected": preset(func(c *Config) {
		c.Stimulus = StimulusConfig{Theta0: 0, Contrast: 1.2, Epsilon: 0.9}
	}),
	"connected": preset(func(c *Config) {
		c.Connected = true
		c.Stimulus = StimulusConfig{Theta0: 0, Contrast: 1.2, Epsilon: 0.4}
	}),
	"broad": preset(func(c *Config) {
		c.Stimulus = StimulusConfig{Theta0: 0, Contrast: 3, Epsilon: 0.1}
	}),
	"silent": preset(func(c *Config) {
		c.Stimulus = StimulusConfig{Theta0: 0, Contrast: 0, Epsilon: 0}
	}),
	"silent_connected": preset(func(c *Config) {
		c.Connected = true
		c.Stimulus = StimulusConfig{Theta0: 0, Contrast: 0, Epsilon: 0}
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
