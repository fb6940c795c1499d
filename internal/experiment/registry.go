package experiment

import (
	"fmt"

	"github.com/san-kum/ballsim/internal/config"
)

type Variant struct {
	Name        string
	Dims        int
	Description string
}

type Registry struct {
	variants map[string]Variant
	order    []string
}

func NewRegistry() *Registry {
	r := &Registry{variants: make(map[string]Variant)}

	r.add(Variant{config.Elastic2D, 2, "discs in a rectangle, perfectly elastic, no gravity"})
	r.add(Variant{config.Damped3D, 3, "spheres in a box with gravity and lossy walls"})
	r.add(Variant{config.Container3D, 3, "damped3d with pair collisions off until armed (press y)"})

	return r
}

func (r *Registry) add(v Variant) {
	r.variants[v.Name] = v
	r.order = append(r.order, v.Name)
}

func (r *Registry) Get(name string) (Variant, error) {
	v, ok := r.variants[name]
	if !ok {
		return Variant{}, fmt.Errorf("%w: %q", config.ErrUnknownVariant, name)
	}
	return v, nil
}

func (r *Registry) List() []Variant {
	out := make([]Variant, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.variants[name])
	}
	return out
}

// Resolve picks the config for a variant: the named preset when given,
// otherwise the variant defaults.
func (r *Registry) Resolve(variant, preset string) (*config.Config, error) {
	if _, err := r.Get(variant); err != nil {
		return nil, err
	}
	if preset == "" {
		return config.ForVariant(variant)
	}
	cfg := config.GetPreset(variant, preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset %q for %s (available: %v)", preset, variant, config.ListPresets(variant))
	}
	return cfg, nil
}
