package config

import (
	"fmt"
	"sort"
)

// Params lists the names accepted by SetParam.
var Params = []string{"bodies", "damping", "dt", "duration", "gravity", "mass", "radius", "restitution", "seed", "speed"}

// SetParam sets one tunable value by name. Range parameters (radius, mass,
// speed) collapse their range to the single value; gravity sets the vertical
// component. The config is not validated.
func (c *Config) SetParam(name string, v float64) error {
	switch name {
	case "bodies":
		c.Bodies = int(v)
		c.FixedBodies = nil
	case "damping":
		c.Material.Damping = v
	case "restitution":
		c.Material.Restitution = v
	case "dt":
		c.Dt = v
	case "duration":
		c.Duration = v
	case "seed":
		c.Seed = int64(v)
	case "gravity":
		g := make([]float64, c.Dims())
		copy(g, c.Material.Gravity)
		g[1] = v
		c.Material.Gravity = g
	case "radius":
		c.Spawn.Radius = RangeConfig{v, v}
	case "mass":
		c.Spawn.Mass = RangeConfig{v, v}
	case "speed":
		c.Spawn.Speed = []RangeConfig{{v, v}}
	default:
		return fmt.Errorf("%w: unknown parameter %q (known: %v)", ErrInvalidConfig, name, Params)
	}
	return nil
}

// SetParams applies every entry of params in name order.
func (c *Config) SetParams(params map[string]float64) error {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := c.SetParam(name, params[name]); err != nil {
			return err
		}
	}
	return nil
}
