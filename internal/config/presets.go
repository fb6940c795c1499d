package config

import "sort"

var Presets = map[string]map[string]*Config{
	Elastic2D: {
		"classic": variant(Elastic2D, nil),
		"crowded": variant(Elastic2D, func(c *Config) {
			c.Bodies = 60
			c.Spawn.Radius = RangeConfig{10, 14}
			c.Spawn.RandomColor = true
		}),
		"heavy_light": variant(Elastic2D, func(c *Config) {
			c.Bodies = 30
			c.Spawn.Radius = RangeConfig{8, 30}
			c.Spawn.Mass = RangeConfig{1, 500}
			c.Spawn.RandomColor = true
		}),
		"newton": variant(Elastic2D, func(c *Config) {
			c.Duration = 10
			c.FixedBodies = []BodyConfig{
				{Position: []float64{-300, 0}, Velocity: []float64{200, 0}, Mass: 50, Radius: 25, Color: "#ff5555"},
				{Position: []float64{-50, 0}, Velocity: []float64{0, 0}, Mass: 50, Radius: 25},
				{Position: []float64{0, 0}, Velocity: []float64{0, 0}, Mass: 50, Radius: 25},
				{Position: []float64{50, 0}, Velocity: []float64{0, 0}, Mass: 50, Radius: 25},
			}
		}),
	},
	Damped3D: {
		"classic": variant(Damped3D, nil),
		"zero_g": variant(Damped3D, func(c *Config) {
			c.Material.Gravity = nil
		}),
		"lossless": variant(Damped3D, func(c *Config) {
			c.Material.Restitution = 1
			c.Material.Damping = 1
		}),
		"sticky": variant(Damped3D, func(c *Config) {
			c.Material.Restitution = 0.3
			c.Material.Damping = 0.6
			c.Duration = 40
		}),
	},
	Container3D: {
		"classic": variant(Container3D, nil),
		"armed": variant(Container3D, func(c *Config) {
			c.CollisionsArmed = true
		}),
		"dense": variant(Container3D, func(c *Config) {
			c.Bodies = 120
			c.Spawn.Radius = RangeConfig{5, 12}
		}),
	},
}

func variant(name string, tweak func(*Config)) *Config {
	cfg, err := ForVariant(name)
	if err != nil {
		panic(err)
	}
	if tweak != nil {
		tweak(cfg)
	}
	return cfg
}

// GetPreset returns a copy of a preset, or nil if it does not exist.
func GetPreset(variant, preset string) *Config {
	variantPresets, ok := Presets[variant]
	if !ok {
		return nil
	}
	cfg, ok := variantPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(variant string) []string {
	variantPresets, ok := Presets[variant]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(variantPresets))
	for name := range variantPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
