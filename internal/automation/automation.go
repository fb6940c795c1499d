package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/ballsim/internal/analysis"
	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/experiment"
	"github.com/san-kum/ballsim/internal/sim"
)

// Scenario defines a scripted sequence of headless runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run. Zero fields keep the variant or preset value.
type ScenarioStep struct {
	Variant  string             `yaml:"variant"`
	Preset   string             `yaml:"preset"`
	Duration float64            `yaml:"duration"`
	Dt       float64            `yaml:"dt"`
	Seed     int64              `yaml:"seed"`
	Armed    *bool              `yaml:"armed"`
	Params   map[string]float64 `yaml:"params"`
	SaveAs   string             `yaml:"save_as"`
}

// StepResult pairs a finished step with the config it ran.
type StepResult struct {
	Step   ScenarioStep
	Config *config.Config
	Result *sim.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// StepConfig resolves the config a step runs with.
func StepConfig(step ScenarioStep, registry *experiment.Registry) (*config.Config, error) {
	cfg, err := registry.Resolve(step.Variant, step.Preset)
	if err != nil {
		return nil, err
	}
	if step.Duration > 0 {
		cfg.Duration = step.Duration
	}
	if step.Dt > 0 {
		cfg.Dt = step.Dt
	}
	if step.Seed != 0 {
		cfg.Seed = step.Seed
	}
	if step.Armed != nil {
		cfg.CollisionsArmed = *step.Armed
	}
	if err := cfg.SetParams(step.Params); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// RunScenario executes all steps in order. On failure it returns the steps
// finished so far along with the error.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		log.Info("running step", "step", i+1, "of", len(scenario.Steps), "variant", step.Variant, "preset", step.Preset)

		cfg, err := StepConfig(step, registry)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		result, err := experiment.New(cfg).Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Step: step, Config: cfg, Result: result})
	}

	return results, nil
}

// ParameterSweep runs one variant across evenly spaced values of a parameter
type ParameterSweep struct {
	Base     *config.Config
	Param    string
	ParamMin float64
	ParamMax float64
	NumSteps int
}

// SweepResult holds one point of a sweep
type SweepResult struct {
	ParamValue float64
	Summary    analysis.Summary
	Metrics    map[string]float64
	Errors     []error
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}
	results := make([]SweepResult, 0, sweep.NumSteps)

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		cfg := sweep.Base.Clone()
		if err := cfg.SetParam(sweep.Param, paramVal); err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return results, fmt.Errorf("%s=%v: %w", sweep.Param, paramVal, err)
		}

		result, err := experiment.New(cfg).Run(ctx)
		if err != nil {
			return results, err
		}

		results = append(results, SweepResult{
			ParamValue: paramVal,
			Summary:    analysis.Summarize(result),
			Metrics:    result.Metrics,
			Errors:     result.Errors,
		})

		log.Debug("sweep point", "i", i+1, "of", sweep.NumSteps, sweep.Param, paramVal)
	}

	return results, nil
}

// MonteCarloConfig runs the same config over consecutive seeds
type MonteCarloConfig struct {
	Base      *config.Config
	NumTrials int
}

// MonteCarloResult holds the outcome of one seed
type MonteCarloResult struct {
	TrialID     int
	Seed        int64
	Collisions  int
	EnergyDrift float64
	Contained   bool // every body stayed inside the box on every frame
}

// RunMonteCarlo runs the trials in parallel and checks containment of each.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	if cfg.NumTrials < 1 {
		return nil, fmt.Errorf("monte carlo needs at least one trial, got %d", cfg.NumTrials)
	}

	runs, err := experiment.New(cfg.Base).Ensemble(ctx, cfg.NumTrials)
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, len(runs))
	for trial, r := range runs {
		results[trial] = MonteCarloResult{
			TrialID:     trial,
			Seed:        cfg.Base.Seed + int64(trial),
			Collisions:  r.TotalCollisions,
			EnergyDrift: r.Metrics["energy_drift"],
			Contained:   len(r.Errors) == 0 && r.Metrics["containment"] == 1,
		}
	}
	return results, nil
}

// MonteCarloStats counts contained and escaped trials
func MonteCarloStats(results []MonteCarloResult) (contained int, escaped int) {
	for _, r := range results {
		if r.Contained {
			contained++
		} else {
			escaped++
		}
	}
	return
}
