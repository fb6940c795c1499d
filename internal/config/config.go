package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/ballsim/internal/dynamo"
)

const (
	Elastic2D   = "elastic2d"
	Damped3D    = "damped3d"
	Container3D = "container3d"
)

const (
	DefaultDt          = 1.0 / 60
	DefaultDuration    = 20.0
	DefaultFPS         = 60
	DefaultRecordEvery = 1
	DefaultSeed        = 1
	DefaultAttempts    = 100
	StandardGravity    = -9.8
)

var (
	ErrUnknownVariant = errors.New("config: unknown variant")
	ErrInvalidConfig  = errors.New("config: invalid value")
)

// Variants lists the supported variant names in display order.
var Variants = []string{Elastic2D, Damped3D, Container3D}

type Config struct {
	Variant         string         `yaml:"variant"`
	Bodies          int            `yaml:"bodies"`
	Seed            int64          `yaml:"seed"`
	Dt              float64        `yaml:"dt"`
	Duration        float64        `yaml:"duration"`
	FPS             int            `yaml:"fps"`
	RecordEvery     int            `yaml:"record_every"`
	CollisionsArmed bool           `yaml:"collisions_armed"`
	Boundary        BoundaryConfig `yaml:"boundary"`
	Spawn           SpawnConfig    `yaml:"spawn"`
	Material        MaterialConfig `yaml:"material"`
	FixedBodies     []BodyConfig   `yaml:"fixed_bodies,omitempty"`
}

// BoundaryConfig gives the full extents of the box; Depth is ignored in 2D.
type BoundaryConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Depth  float64 `yaml:"depth,omitempty"`
}

type RangeConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

type SpawnConfig struct {
	Radius RangeConfig `yaml:"radius"`
	Mass   RangeConfig `yaml:"mass"`
	// Speed is per axis; the last entry covers the remaining axes.
	Speed                []RangeConfig `yaml:"speed"`
	RandomColor          bool          `yaml:"random_color"`
	MaxPlacementAttempts int           `yaml:"max_placement_attempts"`
}

type MaterialConfig struct {
	Restitution float64   `yaml:"restitution"`
	Damping     float64   `yaml:"damping"`
	Gravity     []float64 `yaml:"gravity,omitempty"`
}

// BodyConfig places one body explicitly instead of spawning it.
type BodyConfig struct {
	Position []float64 `yaml:"position"`
	Velocity []float64 `yaml:"velocity"`
	Mass     float64   `yaml:"mass"`
	Radius   float64   `yaml:"radius"`
	Color    string    `yaml:"color,omitempty"`
}

func DefaultConfig() *Config {
	cfg, _ := ForVariant(Elastic2D)
	return cfg
}

// ForVariant returns the stock configuration of a variant.
func ForVariant(variant string) (*Config, error) {
	base := &Config{
		Variant:     variant,
		Seed:        DefaultSeed,
		Dt:          DefaultDt,
		Duration:    DefaultDuration,
		FPS:         DefaultFPS,
		RecordEvery: DefaultRecordEvery,
	}

	switch variant {
	case Elastic2D:
		base.Bodies = 20
		base.CollisionsArmed = true
		base.Boundary = BoundaryConfig{Width: 800, Height: 600}
		base.Spawn = SpawnConfig{
			Radius:               RangeConfig{25, 25},
			Mass:                 RangeConfig{5, 100},
			Speed:                []RangeConfig{{75, 250}, {150, 250}},
			MaxPlacementAttempts: DefaultAttempts,
		}
		base.Material = MaterialConfig{Restitution: 1, Damping: 1}
	case Damped3D, Container3D:
		base.Bodies = 50
		base.CollisionsArmed = variant == Damped3D
		base.Boundary = BoundaryConfig{Width: 400, Height: 400, Depth: 400}
		base.Spawn = SpawnConfig{
			Radius:               RangeConfig{5, 25},
			Mass:                 RangeConfig{5, 100},
			Speed:                []RangeConfig{{45, 70}},
			RandomColor:          true,
			MaxPlacementAttempts: DefaultAttempts,
		}
		base.Material = MaterialConfig{
			Restitution: 0.99,
			Damping:     0.99,
			Gravity:     []float64{0, StandardGravity, 0},
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, variant)
	}
	return base, nil
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults of the variant it names, so a file
// only has to carry the fields it changes.
func Parse(data []byte) (*Config, error) {
	var head struct {
		Variant string `yaml:"variant"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	variant := head.Variant
	if variant == "" {
		variant = Elastic2D
	}
	cfg, err := ForVariant(variant)
	if err != nil {
		return nil, err
	}
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

// Dims is 2 for the planar variant and 3 otherwise.
func (c *Config) Dims() int {
	if c.Variant == Elastic2D {
		return 2
	}
	return 3
}

// HalfExtents returns half of each box dimension used by the variant.
func (c *Config) HalfExtents() []float64 {
	h := []float64{c.Boundary.Width / 2, c.Boundary.Height / 2}
	if c.Dims() == 3 {
		h = append(h, c.Boundary.Depth/2)
	}
	return h
}

// BodyCount is the number of bodies the config produces.
func (c *Config) BodyCount() int {
	if len(c.FixedBodies) > 0 {
		return len(c.FixedBodies)
	}
	return c.Bodies
}

func (c *Config) Clone() *Config {
	out := *c
	out.Spawn.Speed = slices.Clone(c.Spawn.Speed)
	out.Material.Gravity = slices.Clone(c.Material.Gravity)
	out.FixedBodies = make([]BodyConfig, len(c.FixedBodies))
	for i, b := range c.FixedBodies {
		b.Position = slices.Clone(b.Position)
		b.Velocity = slices.Clone(b.Velocity)
		out.FixedBodies[i] = b
	}
	if c.FixedBodies == nil {
		out.FixedBodies = nil
	}
	return &out
}

func (c *Config) Validate() error {
	if !slices.Contains(Variants, c.Variant) {
		return fmt.Errorf("%w: %q", ErrUnknownVariant, c.Variant)
	}
	if !(c.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %v", ErrInvalidConfig, c.Dt)
	}
	if !(c.Duration > 0) {
		return fmt.Errorf("%w: duration must be positive, got %v", ErrInvalidConfig, c.Duration)
	}
	if c.FPS < 0 || c.RecordEvery < 0 {
		return fmt.Errorf("%w: fps and record_every must not be negative", ErrInvalidConfig)
	}
	for axis, h := range c.HalfExtents() {
		if !(h > 0) {
			return fmt.Errorf("boundary axis %d extent %v: %w", axis, 2*h, dynamo.ErrInvalidBoundary)
		}
	}
	if !unit(c.Material.Restitution) {
		return fmt.Errorf("restitution %v: %w", c.Material.Restitution, dynamo.ErrInvalidCoefficient)
	}
	if !unit(c.Material.Damping) {
		return fmt.Errorf("damping %v: %w", c.Material.Damping, dynamo.ErrInvalidCoefficient)
	}
	if g := c.Material.Gravity; len(g) != 0 && len(g) != c.Dims() {
		return fmt.Errorf("gravity has %d components, want %d: %w", len(g), c.Dims(), dynamo.ErrDimensionMismatch)
	}

	if len(c.FixedBodies) > 0 {
		return c.validateFixed()
	}

	if c.Bodies < 0 {
		return fmt.Errorf("%w: bodies must not be negative, got %d", ErrInvalidConfig, c.Bodies)
	}
	s := c.Spawn
	if s.Radius.Min > s.Radius.Max || !(s.Radius.Min > 0) {
		return fmt.Errorf("radius range %v: %w", s.Radius, dynamo.ErrInvalidRadius)
	}
	if s.Mass.Min > s.Mass.Max || !(s.Mass.Min > 0) {
		return fmt.Errorf("mass range %v: %w", s.Mass, dynamo.ErrInvalidMass)
	}
	for axis, r := range s.Speed {
		if r.Min > r.Max || r.Min < 0 {
			return fmt.Errorf("%w: axis %d speed range %v", ErrInvalidConfig, axis, r)
		}
	}
	if len(s.Speed) > c.Dims() {
		return fmt.Errorf("speed has %d ranges, want at most %d: %w", len(s.Speed), c.Dims(), dynamo.ErrDimensionMismatch)
	}
	return nil
}

func (c *Config) validateFixed() error {
	half := c.HalfExtents()
	for i, b := range c.FixedBodies {
		if len(b.Position) != c.Dims() || len(b.Velocity) != c.Dims() {
			return fmt.Errorf("fixed body %d: %w", i, dynamo.ErrDimensionMismatch)
		}
		if !(b.Mass > 0) {
			return fmt.Errorf("fixed body %d mass %v: %w", i, b.Mass, dynamo.ErrInvalidMass)
		}
		if !(b.Radius > 0) {
			return fmt.Errorf("fixed body %d radius %v: %w", i, b.Radius, dynamo.ErrInvalidRadius)
		}
		for axis, x := range b.Position {
			if !(math.Abs(x)+b.Radius <= half[axis]) {
				return fmt.Errorf("fixed body %d axis %d at %v: %w", i, axis, x, dynamo.ErrInvalidBoundary)
			}
		}
		if b.Color != "" {
			if _, err := dynamo.ParseHex(b.Color); err != nil {
				return fmt.Errorf("fixed body %d: %w", i, err)
			}
		}
	}
	return nil
}

func unit(x float64) bool { return x >= 0 && x <= 1 }
