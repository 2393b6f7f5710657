package automation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/san-kum/esim/internal/config"
	"github.com/san-kum/esim/internal/experiment"
	"github.com/san-kum/esim/internal/sim"
	"github.com/san-kum/esim/internal/storage"
	"gopkg.in/yaml.v3"
)

var ErrInvalidScenario = errors.New("automation: invalid scenario")

// Scenario defines a scripted sequence of runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run in a scenario. The run starts from Preset
// (or the defaults), then Config, then Overrides, which is any fragment of
// a config document.
type ScenarioStep struct {
	Name      string    `yaml:"name"`
	Preset    string    `yaml:"preset"`
	Config    string    `yaml:"config"`
	Overrides yaml.Node `yaml:"overrides"`
	Save      bool      `yaml:"save"`
}

// Summary is the outcome of one scenario step.
type Summary struct {
	Name        string
	Seed        int64
	Bodies      int
	Steps       int
	Time        float64
	Collisions  int
	WallHits    int
	EnergyDrift float64
	Metrics     map[string]float64
	RunID       string
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
		return nil, fmt.Errorf("%w: no steps", ErrInvalidScenario)
	}
	return &scenario, nil
}

// Resolve builds the config for a step.
func (s ScenarioStep) Resolve() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("%w: unknown preset %q", ErrInvalidScenario, s.Preset)
		}
	}
	if s.Config != "" {
		data, err := os.ReadFile(s.Config)
		if err != nil {
			return nil, err
		}
		if err := cfg.Overlay(data); err != nil {
			return nil, fmt.Errorf("%s: %w", s.Config, err)
		}
	}
	if !s.Overrides.IsZero() {
		data, err := yaml.Marshal(&s.Overrides)
		if err != nil {
			return nil, err
		}
		if err := cfg.Overlay(data); err != nil {
			return nil, fmt.Errorf("overrides: %w", err)
		}
	}
	if s.Name != "" {
		cfg.Name = s.Name
	}
	if s.Save {
		cfg.Record = true
	}
	return cfg, cfg.Validate()
}

// RunScenario executes all steps in order. Steps with Save set are written
// to store, which may be nil otherwise.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, store *storage.Store) ([]Summary, error) {
	results := make([]Summary, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		log.Printf("scenario %s: step %d/%d: %s", scenario.Name, i+1, len(scenario.Steps), cfg.Name)

		exp, err := experiment.New(cfg)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		if err := exp.Setup(registry.DefaultMetrics()); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		summary := summarize(cfg.Name, result)
		if step.Save {
			if store == nil {
				return results, fmt.Errorf("step %d: %w: save requested without a store", i+1, ErrInvalidScenario)
			}
			if summary.RunID, err = store.Save(cfg, result); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, summary)
	}

	return results, nil
}

func summarize(name string, result *sim.Result) Summary {
	return Summary{
		Name:        name,
		Seed:        result.Seed,
		Bodies:      len(result.Final.Bodies),
		Steps:       result.StepsTaken,
		Time:        result.Time,
		Collisions:  int(result.Metrics["collisions"]),
		WallHits:    int(result.Metrics["wall_hits"]),
		EnergyDrift: result.EnergyDrift,
		Metrics:     result.Metrics,
	}
}

// ParameterSweep runs a config across evenly spaced values of one spawn or
// run parameter, with Seeds runs per value.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Seeds     int
}

// SweepResult holds seed-averaged metrics for one parameter value
type SweepResult struct {
	ParamValue float64
	Runs       int
	Metrics    map[string]float64
	Errors     int
}

// SweepParams lists the parameter names a sweep accepts.
func SweepParams() []string {
	return []string{"count", "mass", "max_advance", "radius", "speed"}
}

func setParam(cfg *config.Config, name string, v float64) error {
	switch name {
	case "count":
		cfg.Spawn.Count = int(v + 0.5)
	case "mass":
		cfg.Spawn.Mass = v
	case "max_advance":
		cfg.MaxAdvance = v
	case "radius":
		cfg.Spawn.Radius = v
	case "speed":
		cfg.Spawn.Speed = v
	default:
		return fmt.Errorf("%w: cannot sweep %q", ErrInvalidScenario, name)
	}
	return nil
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry) ([]SweepResult, error) {
	if sweep.Base == nil || sweep.NumSteps < 1 {
		return nil, fmt.Errorf("%w: sweep needs a base config and at least one step", ErrInvalidScenario)
	}
	seeds := max(sweep.Seeds, 1)

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		cfg := sweep.Base.Clone()
		if err := setParam(cfg, sweep.ParamName, paramVal); err != nil {
			return nil, err
		}
		simCfg, err := cfg.SimConfig()
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}

		runs, err := experiment.NewEnsemble(cfg, seeds, registry).Run(ctx, simCfg)
		if err != nil {
			return nil, err
		}

		results = append(results, average(paramVal, runs))
		log.Printf("sweep %d/%d: %s=%.4f", i+1, sweep.NumSteps, sweep.ParamName, paramVal)
	}

	return results, nil
}

// average folds ensemble runs into one result. Runs that failed before
// producing metrics only count as errors.
func average(v float64, runs []*sim.Result) SweepResult {
	out := SweepResult{ParamValue: v, Metrics: make(map[string]float64)}
	for _, r := range runs {
		if r == nil || len(r.Metrics) == 0 {
			out.Errors++
			continue
		}
		if len(r.Errors) > 0 {
			out.Errors++
		}
		out.Runs++
		for k, m := range r.Metrics {
			out.Metrics[k] += m
		}
	}
	if out.Runs > 0 {
		for k := range out.Metrics {
			out.Metrics[k] /= float64(out.Runs)
		}
	}
	return out
}
