package sim

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/physics"
)

func newElastic(t *testing.T, seed int64, n int) *Simulation[mgl64.Vec2] {
	t.Helper()
	bound, err := physics.NewBoundary(mgl64.Vec2{400, 300})
	if err != nil {
		t.Fatal(err)
	}
	spawner := physics.NewSpawner(rand.New(rand.NewSource(seed)), physics.Ranges{
		Radius:               physics.Fixed(25),
		Mass:                 physics.Range{Min: 5, Max: 100},
		Speed:                []physics.Range{{Min: 75, Max: 250}, {Min: 150, Max: 250}},
		MaxPlacementAttempts: 50,
	})
	bodies, err := physics.Spawn(spawner, n, bound, physics.Elastic[mgl64.Vec2]())
	if err != nil {
		t.Fatal(err)
	}
	s, err := New(bound, bodies, true)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

type testMetric struct {
	count int
	sum   float64
}

func (m *testMetric) Name() string { return "test" }
func (m *testMetric) Observe(v View[mgl64.Vec2]) {
	m.count++
	m.sum += v.KineticEnergy()
}
func (m *testMetric) Value() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}
func (m *testMetric) Reset() {
	m.count = 0
	m.sum = 0
}

type baselineMetric struct {
	testMetric
	baselineFrame int
	baselines     int
}

func (m *baselineMetric) Baseline(v View[mgl64.Vec2]) {
	m.baselineFrame = v.Stats.Index
	m.baselines++
}

func TestRunForBaseline(t *testing.T) {
	s := newElastic(t, 3, 4)
	m := &baselineMetric{}
	s.AddMetric(m)

	if _, err := s.RunFor(context.Background(), RunConfig{Dt: 0.01, Duration: 0.1}); err != nil {
		t.Fatal(err)
	}
	if m.baselines != 1 || m.baselineFrame != 0 {
		t.Errorf("baselines %d at frame %d, want one at frame 0", m.baselines, m.baselineFrame)
	}
	if m.count != 10 {
		t.Errorf("observed %d frames, want 10", m.count)
	}
}

func TestRunFor(t *testing.T) {
	s := newElastic(t, 1, 20)

	result, err := s.RunFor(context.Background(), RunConfig{Dt: 0.1, Duration: 1.0, RecordEvery: 1})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.FramesRun != 10 {
		t.Errorf("expected 10 frames, got %d", result.FramesRun)
	}
	if len(result.Times) != 11 || len(result.Samples) != 11 {
		t.Errorf("expected 11 samples, got %d times / %d samples", len(result.Times), len(result.Samples))
	}
	if result.Dim != 2 {
		t.Errorf("Dim = %d, want 2", result.Dim)
	}
	if got := result.Times[len(result.Times)-1]; math.Abs(got-1.0) > 1e-9 {
		t.Errorf("final time = %f, want 1.0", got)
	}
	for _, smp := range result.Samples[0] {
		if len(smp.Position) != 2 || len(smp.Velocity) != 2 {
			t.Fatalf("sample has wrong dimension: %+v", smp)
		}
	}
}

func TestRunForRecordEvery(t *testing.T) {
	tests := []struct {
		every int
		want  []int
	}{
		{0, []int{0, 1, 2, 3, 4, 5, 6}},
		{2, []int{0, 2, 4, 6}},
		{4, []int{0, 4}},
	}

	for _, tt := range tests {
		s := newElastic(t, 2, 5)
		result, err := s.RunFor(context.Background(), RunConfig{Dt: 0.5, Duration: 3, RecordEvery: tt.every})
		if err != nil {
			t.Fatal(err)
		}
		if len(result.Frames) != len(tt.want) {
			t.Fatalf("every=%d: frames %v, want %v", tt.every, result.Frames, tt.want)
		}
		for i := range tt.want {
			if result.Frames[i] != tt.want[i] {
				t.Errorf("every=%d: frames %v, want %v", tt.every, result.Frames, tt.want)
				break
			}
		}
	}
}

func TestRunForInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  RunConfig
	}{
		{"zero dt", RunConfig{Dt: 0, Duration: 1.0}},
		{"negative dt", RunConfig{Dt: -0.1, Duration: 1.0}},
		{"nan dt", RunConfig{Dt: math.NaN(), Duration: 1.0}},
		{"zero duration", RunConfig{Dt: 0.1, Duration: 0}},
		{"negative record", RunConfig{Dt: 0.1, Duration: 1, RecordEvery: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newElastic(t, 1, 2)
			if _, err := s.RunFor(context.Background(), tt.cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestRunForValidateState(t *testing.T) {
	s := newElastic(t, 3, 3)
	s.Bodies()[1].Velocity = mgl64.Vec2{math.NaN(), 0}

	result, err := s.RunFor(context.Background(), RunConfig{Dt: 0.01, Duration: 1, ValidateState: true})
	if err != nil {
		t.Fatal(err)
	}

	if result.FramesRun != 1 {
		t.Errorf("expected the run to stop after 1 frame, ran %d", result.FramesRun)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", result.Errors)
	}
	var simErr *dynamo.SimulationError
	if !errors.As(result.Errors[0], &simErr) {
		t.Fatalf("error %T is not a SimulationError", result.Errors[0])
	}
	if simErr.Body != s.Bodies()[1].ID || !errors.Is(simErr, dynamo.ErrInvalidState) {
		t.Errorf("unexpected error %v", simErr)
	}
}

func TestRunForMetrics(t *testing.T) {
	s := newElastic(t, 4, 4)
	metric := &testMetric{}
	s.AddMetric(metric)

	result, err := s.RunFor(context.Background(), RunConfig{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}
	if metric.count != 10 {
		t.Errorf("expected 10 observations, got %d", metric.count)
	}
}

func TestRunForElasticEnergy(t *testing.T) {
	s := newElastic(t, 5, 20)

	result, err := s.RunFor(context.Background(), RunConfig{Dt: 1.0 / 60, Duration: 5, RecordEvery: 30})
	if err != nil {
		t.Fatal(err)
	}

	e0 := result.Energy[0]
	for i, e := range result.Energy {
		if math.Abs(e-e0) > 1e-6*e0 {
			t.Fatalf("sample %d: kinetic energy %f drifted from %f", i, e, e0)
		}
	}
}

func TestRunForAfterClose(t *testing.T) {
	s := newElastic(t, 1, 2)
	s.Frame(Input{Close: true}, 0)

	if _, err := s.RunFor(context.Background(), DefaultRunConfig()); !errors.Is(err, ErrClosed) {
		t.Errorf("error = %v, want ErrClosed", err)
	}
}

func TestEnsemble(t *testing.T) {
	build := func(seed int64) (*Simulation[mgl64.Vec2], error) {
		return newElastic(t, seed, 10), nil
	}
	e := NewEnsemble(build, 4, 100)

	results, err := e.Run(context.Background(), RunConfig{Dt: 0.05, Duration: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if results[0].Energy[0] == results[1].Energy[0] {
		t.Error("different seeds produced identical initial energy")
	}
}

func TestEnsembleBuildError(t *testing.T) {
	want := errors.New("boom")
	e := NewEnsemble(func(int64) (*Simulation[mgl64.Vec2], error) { return nil, want }, 2, 0)

	if _, err := e.Run(context.Background(), DefaultRunConfig()); !errors.Is(err, want) {
		t.Errorf("error = %v, want %v", err, want)
	}
}

func TestEnsembleRunCount(t *testing.T) {
	build := func(seed int64) (*Simulation[mgl64.Vec2], error) {
		return newElastic(t, seed, 2), nil
	}
	for _, n := range []int{0, -1} {
		if _, err := NewEnsemble(build, n, 0).Run(context.Background(), DefaultRunConfig()); err == nil {
			t.Errorf("numRuns=%d: expected error", n)
		}
	}
}

func TestClocks(t *testing.T) {
	if dt := (FixedClock{Dt: 0.02}).Elapsed(); dt != 0.02 {
		t.Errorf("FixedClock = %f", dt)
	}
	if dt := (ScaledClock{Clock: FixedClock{Dt: 0.02}, Scale: 0.5}).Elapsed(); dt != 0.01 {
		t.Errorf("ScaledClock = %f", dt)
	}

	start := time.Unix(0, 0)
	now := start
	c := &WallClock{last: start, now: func() time.Time { return now }}
	now = start.Add(250 * time.Millisecond)
	if dt := c.Elapsed(); dt != 0.25 {
		t.Errorf("first Elapsed = %f, want 0.25", dt)
	}
	now = now.Add(100 * time.Millisecond)
	if dt := c.Elapsed(); math.Abs(dt-0.1) > 1e-12 {
		t.Errorf("second Elapsed = %f, want 0.1", dt)
	}
}

func TestPhaseString(t *testing.T) {
	if Running.String() != "running" || Closing.String() != "closing" {
		t.Errorf("unexpected phase names %q %q", Running, Closing)
	}
}
