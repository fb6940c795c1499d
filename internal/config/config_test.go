package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/san-kum/ballsim/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Variant != Elastic2D {
		t.Errorf("expected variant elastic2d, got %s", cfg.Variant)
	}
	if cfg.Bodies != 20 {
		t.Errorf("expected 20 bodies, got %d", cfg.Bodies)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestForVariant(t *testing.T) {
	tests := []struct {
		variant string
		dims    int
		armed   bool
		gravity bool
	}{
		{Elastic2D, 2, true, false},
		{Damped3D, 3, true, true},
		{Container3D, 3, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.variant, func(t *testing.T) {
			cfg, err := ForVariant(tt.variant)
			if err != nil {
				t.Fatal(err)
			}
			if cfg.Dims() != tt.dims || len(cfg.HalfExtents()) != tt.dims {
				t.Errorf("dims = %d, half-extents %v", cfg.Dims(), cfg.HalfExtents())
			}
			if cfg.CollisionsArmed != tt.armed {
				t.Errorf("armed = %v, want %v", cfg.CollisionsArmed, tt.armed)
			}
			if (len(cfg.Material.Gravity) > 0) != tt.gravity {
				t.Errorf("gravity = %v", cfg.Material.Gravity)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("invalid: %v", err)
			}
		})
	}

	if _, err := ForVariant("pendulum"); !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("expected ErrUnknownVariant, got %v", err)
	}
}

func TestPresetsValid(t *testing.T) {
	for variant, presets := range Presets {
		for name, cfg := range presets {
			if cfg.Variant != variant {
				t.Errorf("%s/%s: variant %s", variant, name, cfg.Variant)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("%s/%s: %v", variant, name, err)
			}
		}
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset(Container3D, "armed")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if !cfg.CollisionsArmed {
		t.Error("armed preset should arm collisions")
	}

	cfg.Material.Gravity[1] = 0
	if Presets[Container3D]["armed"].Material.Gravity[1] != StandardGravity {
		t.Error("GetPreset returned shared state")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset(Elastic2D, "nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if cfg := GetPreset("nonexistent", "classic"); cfg != nil {
		t.Error("expected nil for nonexistent variant")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets(Damped3D)
	if len(presets) == 0 {
		t.Fatal("expected presets for damped3d")
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Errorf("presets not sorted: %v", presets)
		}
	}

	if presets := ListPresets("nonexistent"); presets != nil {
		t.Error("expected nil for nonexistent variant")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := GetPreset(Elastic2D, "newton")
	cfg.Seed = 77

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if loaded.Seed != 77 || loaded.Variant != Elastic2D {
		t.Errorf("loaded %+v", loaded)
	}
	if len(loaded.FixedBodies) != 4 || loaded.FixedBodies[0].Color != "#ff5555" {
		t.Errorf("fixed bodies lost: %+v", loaded.FixedBodies)
	}
	if loaded.BodyCount() != 4 {
		t.Errorf("BodyCount = %d, want 4", loaded.BodyCount())
	}
}

func TestParseOverlaysVariantDefaults(t *testing.T) {
	cfg, err := Parse([]byte("variant: container3d\nbodies: 7\n"))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Bodies != 7 {
		t.Errorf("bodies = %d, want 7", cfg.Bodies)
	}
	if cfg.Boundary.Depth != 400 || cfg.CollisionsArmed {
		t.Errorf("container3d defaults not applied: %+v", cfg)
	}

	if _, err := Parse([]byte("variant: cube\n")); !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("expected ErrUnknownVariant, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		tweak func(*Config)
		want  error
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }, ErrInvalidConfig},
		{"negative duration", func(c *Config) { c.Duration = -1 }, ErrInvalidConfig},
		{"unknown variant", func(c *Config) { c.Variant = "x" }, ErrUnknownVariant},
		{"zero width", func(c *Config) { c.Boundary.Width = 0 }, dynamo.ErrInvalidBoundary},
		{"restitution", func(c *Config) { c.Material.Restitution = 2 }, dynamo.ErrInvalidCoefficient},
		{"damping", func(c *Config) { c.Material.Damping = -1 }, dynamo.ErrInvalidCoefficient},
		{"gravity dims", func(c *Config) { c.Material.Gravity = []float64{0, -9.8, 0} }, dynamo.ErrDimensionMismatch},
		{"radius", func(c *Config) { c.Spawn.Radius = RangeConfig{0, 1} }, dynamo.ErrInvalidRadius},
		{"mass", func(c *Config) { c.Spawn.Mass = RangeConfig{10, 1} }, dynamo.ErrInvalidMass},
		{"speed", func(c *Config) { c.Spawn.Speed = []RangeConfig{{5, 1}} }, ErrInvalidConfig},
		{"fixed dims", func(c *Config) {
			c.FixedBodies = []BodyConfig{{Position: []float64{0, 0, 0}, Velocity: []float64{0, 0}, Mass: 1, Radius: 1}}
		}, dynamo.ErrDimensionMismatch},
		{"fixed outside", func(c *Config) {
			c.FixedBodies = []BodyConfig{{Position: []float64{5000, 0}, Velocity: []float64{0, 0}, Mass: 1, Radius: 5}}
		}, dynamo.ErrInvalidBoundary},
		{"fixed through wall", func(c *Config) {
			c.FixedBodies = []BodyConfig{{Position: []float64{0, -c.Boundary.Height / 2}, Velocity: []float64{0, 0}, Mass: 1, Radius: 5}}
		}, dynamo.ErrInvalidBoundary},
		{"fixed color", func(c *Config) {
			c.FixedBodies = []BodyConfig{{Position: []float64{0, 0}, Velocity: []float64{0, 0}, Mass: 1, Radius: 1, Color: "red"}}
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.tweak(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSetParam(t *testing.T) {
	cfg, _ := ForVariant(Damped3D)
	cfg.FixedBodies = []BodyConfig{{Position: []float64{0, 0, 0}, Velocity: []float64{0, 0, 0}, Mass: 1, Radius: 1}}

	err := cfg.SetParams(map[string]float64{
		"restitution": 0.5,
		"damping":     0.8,
		"bodies":      7,
		"gravity":     -3,
		"radius":      4,
	})
	if err != nil {
		t.Fatalf("SetParams: %v", err)
	}
	if cfg.Material.Restitution != 0.5 || cfg.Material.Damping != 0.8 {
		t.Errorf("material = %+v", cfg.Material)
	}
	if cfg.Bodies != 7 || cfg.FixedBodies != nil {
		t.Errorf("bodies = %d, fixed = %v", cfg.Bodies, cfg.FixedBodies)
	}
	if g := cfg.Material.Gravity; len(g) != 3 || g[1] != -3 {
		t.Errorf("gravity = %v", g)
	}
	if cfg.Spawn.Radius != (RangeConfig{4, 4}) {
		t.Errorf("radius = %v", cfg.Spawn.Radius)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("config invalid after SetParams: %v", err)
	}
}

func TestSetParamGravityIn2D(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.SetParam("gravity", -9.8); err != nil {
		t.Fatal(err)
	}
	if g := cfg.Material.Gravity; len(g) != 2 || g[0] != 0 || g[1] != -9.8 {
		t.Errorf("gravity = %v", g)
	}
}

func TestSetParamUnknown(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.SetParam("viscosity", 1); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
