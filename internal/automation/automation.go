package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/san-kum/spherelab/internal/config"
	"github.com/san-kum/spherelab/internal/control"
	"github.com/san-kum/spherelab/internal/dynamo"
	"github.com/san-kum/spherelab/internal/metrics"
	"github.com/san-kum/spherelab/internal/sim"
	"github.com/san-kum/spherelab/internal/storage"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted sequence of headless runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run. Unset fields keep the base config or the
// named preset.
type ScenarioStep struct {
	Preset       string   `yaml:"preset"`
	Seed         *int64   `yaml:"seed"`
	Frames       int      `yaml:"frames"`
	ImpulseScale *float64 `yaml:"impulse_scale"`
	Restitution  *float64 `yaml:"restitution"`
	Friction     *float64 `yaml:"friction"`
	Repel        bool     `yaml:"repel"`
	Save         bool     `yaml:"save"`
}

// StepResult pairs a finished run with its saved id, if any.
type StepResult struct {
	Step   int
	RunID  string
	Result *dynamo.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// Config resolves the step against base.
func (s ScenarioStep) Config(base *config.Config) (*config.Config, error) {
	cfg := *base
	if s.Preset != "" {
		p := config.GetPreset(s.Preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
		cfg = *p
		cfg.Seed, cfg.DataDir = base.Seed, base.DataDir
	}
	if s.Seed != nil {
		cfg.Seed = *s.Seed
	}
	if s.Frames > 0 {
		cfg.Frames = s.Frames
	}
	if s.ImpulseScale != nil {
		cfg.ImpulseScale = *s.ImpulseScale
	}
	if s.Restitution != nil {
		cfg.Physics.Restitution = *s.Restitution
	}
	if s.Friction != nil {
		cfg.Physics.Friction = *s.Friction
	}
	return &cfg, cfg.Validate()
}

// RunScenario executes all steps in order. Steps with save set are written
// to st when st is non-nil. It stops at the first failing step.
func RunScenario(ctx context.Context, scenario *Scenario, base *config.Config, st *storage.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Config(base)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		sign := &control.Sign{}
		if step.Repel {
			sign.Press()
		}
		sc, err := sim.FromConfig(cfg, sign)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		d, err := sim.NewHeadless(sc, cfg.Frames)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		d.KeepEvery(1)
		for _, m := range metrics.Default(cfg.ImpulseScale, 10) {
			d.AddMetric(m)
		}

		result, err := d.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Step: i + 1, Result: result}
		if step.Save && st != nil {
			sr.RunID, err = st.Save(storage.RunInfo{
				Preset:       step.Preset,
				Seed:         cfg.Seed,
				Timestep:     sc.World.Params().Timestep,
				ImpulseScale: cfg.ImpulseScale,
				Radii:        sc.Store.Radii(),
			}, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}
