package config

import "sort"

func preset(apply func(c *Config)) *Config {
	c := DefaultConfig()
	apply(c)
	return c
}

var Presets = map[string]*Config{
	"studio": DefaultConfig(),
	"billiards": preset(func(c *Config) {
		c.Physics.Restitution = 0.95
		c.Physics.Friction = 0.05
	}),
	"syrup": preset(func(c *Config) {
		c.Physics.LinearDamping = 2.0
		c.ImpulseScale = 0.3
	}),
	"sticky": preset(func(c *Config) {
		c.Physics.Restitution = 0
		c.Physics.Friction = 1.0
	}),
}

// GetPreset returns a copy so callers can override fields freely.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
