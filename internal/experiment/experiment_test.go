package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/dynamo"
)

func TestBuildVariants(t *testing.T) {
	for _, v := range NewRegistry().List() {
		t.Run(v.Name, func(t *testing.T) {
			cfg, err := config.ForVariant(v.Name)
			if err != nil {
				t.Fatal(err)
			}
			switch v.Dims {
			case 2:
				s, err := Build[mgl64.Vec2](cfg, 1)
				if err != nil {
					t.Fatal(err)
				}
				if len(s.Bodies()) != cfg.Bodies || s.Armed() != cfg.CollisionsArmed {
					t.Errorf("bodies %d armed %v", len(s.Bodies()), s.Armed())
				}
			case 3:
				s, err := Build[mgl64.Vec3](cfg, 1)
				if err != nil {
					t.Fatal(err)
				}
				if len(s.Bodies()) != cfg.Bodies || s.Armed() != cfg.CollisionsArmed {
					t.Errorf("bodies %d armed %v", len(s.Bodies()), s.Armed())
				}
				if g := s.Bodies()[0].Gravity; g != (mgl64.Vec3{0, config.StandardGravity, 0}) {
					t.Errorf("gravity = %v", g)
				}
			}
		})
	}
}

func TestBuildDimensionMismatch(t *testing.T) {
	cfg, _ := config.ForVariant(config.Damped3D)
	if _, err := Build[mgl64.Vec2](cfg, 1); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("error = %v, want ErrDimensionMismatch", err)
	}
}

func TestBuildFixedBodies(t *testing.T) {
	cfg := config.GetPreset(config.Elastic2D, "newton")

	s, err := Build[mgl64.Vec2](cfg, 1)
	if err != nil {
		t.Fatal(err)
	}

	bodies := s.Bodies()
	if len(bodies) != 4 {
		t.Fatalf("expected 4 bodies, got %d", len(bodies))
	}
	if bodies[0].Velocity != (mgl64.Vec2{200, 0}) || bodies[0].Color.Hex() != "#ff5555" {
		t.Errorf("first body %+v", bodies[0])
	}
	if bodies[1].Color != dynamo.White {
		t.Errorf("uncoloured body should be white, got %v", bodies[1].Color)
	}
}

func TestBuildFixedBodyOutsideBox(t *testing.T) {
	cfg, _ := config.ForVariant(config.Elastic2D)
	cfg.FixedBodies = []config.BodyConfig{
		{Position: []float64{5000, 0}, Velocity: []float64{0, 0}, Mass: 1, Radius: 5},
	}
	if _, err := Build[mgl64.Vec2](cfg, 1); !errors.Is(err, dynamo.ErrInvalidBoundary) {
		t.Errorf("error = %v, want ErrInvalidBoundary", err)
	}
}

func TestEnsembleNeedsRuns(t *testing.T) {
	cfg, _ := config.ForVariant(config.Elastic2D)
	for _, n := range []int{0, -3} {
		if _, err := New(cfg).Ensemble(context.Background(), n); err == nil {
			t.Errorf("n=%d: expected error", n)
		}
	}
}

func TestBuildSameSeedSameBodies(t *testing.T) {
	cfg, _ := config.ForVariant(config.Damped3D)

	a, err := Build[mgl64.Vec3](cfg, 9)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Build[mgl64.Vec3](cfg, 9)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Bodies() {
		if *a.Bodies()[i] != *b.Bodies()[i] {
			t.Fatalf("body %d differs", i)
		}
	}
}

func TestExperimentRun(t *testing.T) {
	cfg, _ := config.ForVariant(config.Damped3D)
	cfg.Bodies = 10
	cfg.Duration = 1
	cfg.RecordEvery = 10

	result, err := New(cfg).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if result.Dim != 3 {
		t.Errorf("Dim = %d", result.Dim)
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors %v", result.Errors)
	}
	if got := result.Metrics["containment"]; got != 1 {
		t.Errorf("containment = %f, want 1", got)
	}
	for _, name := range []string{"kinetic_energy", "energy_drift", "momentum", "collision_rate"} {
		if _, ok := result.Metrics[name]; !ok {
			t.Errorf("metric %s missing", name)
		}
	}
}

func TestExperimentEnsemble(t *testing.T) {
	cfg, _ := config.ForVariant(config.Elastic2D)
	cfg.Duration = 0.5

	results, err := New(cfg).Ensemble(context.Background(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	if len(r.List()) != 3 {
		t.Errorf("expected 3 variants, got %d", len(r.List()))
	}
	if _, err := r.Get("nope"); !errors.Is(err, config.ErrUnknownVariant) {
		t.Errorf("Get error = %v", err)
	}

	cfg, err := r.Resolve(config.Container3D, "armed")
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.CollisionsArmed {
		t.Error("armed preset not applied")
	}
	if _, err := r.Resolve(config.Container3D, "missing"); err == nil {
		t.Error("expected error for missing preset")
	}
}
