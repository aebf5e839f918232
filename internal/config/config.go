// Economics/simulation document loader with CUE validation.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"survivallab/internal/entities"
)

// Investment gates skill upgrades: the flat cost of one upgrade and the
// skill-level gain a successful upgrade grants.
type Investment struct {
	SkillUpgradeCost float64 `yaml:"skill_upgrade_cost" json:"skill_upgrade_cost"`
	EfficiencyGain   float64 `yaml:"efficiency_gain" json:"efficiency_gain"`
}

// RewardMultipliers weight the four KPI-derived quality-score components.
type RewardMultipliers struct {
	DoorToDoctor float64 `yaml:"door_to_doctor" json:"door_to_doctor"`
	LengthOfStay float64 `yaml:"length_of_stay" json:"length_of_stay"`
	Throughput   float64 `yaml:"throughput" json:"throughput"`
	ErrorRate    float64 `yaml:"error_rate" json:"error_rate"`
}

// Simulation configures the per-round shift simulation.
// EventCatalog may add or override disruption kinds beyond the built-ins.
type Simulation struct {
	ShiftHours         int                              `yaml:"shift_hours" json:"shift_hours"`
	PatientsPerHour    int                              `yaml:"patients_per_hour" json:"patients_per_hour"`
	EventProbabilities map[string]float64               `yaml:"event_probabilities" json:"event_probabilities"`
	EventCatalog       map[string]entities.EventProfile `yaml:"event_catalog,omitempty" json:"event_catalog,omitempty"`
}

// Config is the immutable economics document handed to the engines at
// construction. The core never reads files or environment itself; this
// package is the only place the document is materialized.
type Config struct {
	InitialCapital    float64           `yaml:"initial_capital" json:"initial_capital"`
	HourlyBurnRate    float64           `yaml:"hourly_burn_rate" json:"hourly_burn_rate"`
	TokenCost         float64           `yaml:"token_cost" json:"token_cost"`
	APICallCost       float64           `yaml:"api_call_cost" json:"api_call_cost"`
	SimulationRunCost float64           `yaml:"simulation_run_cost" json:"simulation_run_cost"`
	ImpactFactor      float64           `yaml:"impact_factor" json:"impact_factor"`
	Investment        Investment        `yaml:"investment" json:"investment"`
	RewardMultipliers RewardMultipliers `yaml:"reward_multipliers" json:"reward_multipliers"`
	Simulation        Simulation        `yaml:"simulation" json:"simulation"`
}

// Load reads the document (YAML, or JSON via the YAML superset), validates it
// against the CUE schema, and runs the structural checks. Missing required
// keys fail here rather than defaulting silently: silent defaults would
// corrupt economic results.
func Load(configPath, cueSchemaPath string) (*Config, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate fails fast on a structurally unusable document. It is also the
// guard for configs built programmatically (tests, embedding callers) that
// never pass through the CUE schema.
func (c *Config) Validate() error {
	if c.InitialCapital <= 0 {
		return fmt.Errorf("config: initial_capital must be positive, got %v", c.InitialCapital)
	}
	if c.HourlyBurnRate < 0 {
		return fmt.Errorf("config: hourly_burn_rate must be non-negative, got %v", c.HourlyBurnRate)
	}
	if c.TokenCost < 0 || c.APICallCost < 0 || c.SimulationRunCost < 0 {
		return fmt.Errorf("config: usage unit costs must be non-negative")
	}
	if c.ImpactFactor <= 0 {
		return fmt.Errorf("config: impact_factor must be positive, got %v", c.ImpactFactor)
	}
	if c.Investment.SkillUpgradeCost <= 0 {
		return fmt.Errorf("config: investment.skill_upgrade_cost must be positive, got %v", c.Investment.SkillUpgradeCost)
	}
	if c.Simulation.ShiftHours <= 0 {
		return fmt.Errorf("config: simulation.shift_hours must be positive, got %d", c.Simulation.ShiftHours)
	}
	if c.Simulation.PatientsPerHour <= 0 {
		return fmt.Errorf("config: simulation.patients_per_hour must be positive, got %d", c.Simulation.PatientsPerHour)
	}
	for name, p := range c.Simulation.EventProbabilities {
		if p < 0 || p > 1 {
			return fmt.Errorf("config: event probability for %q must be in [0,1], got %v", name, p)
		}
	}
	for name, profile := range c.Simulation.EventCatalog {
		if profile.Severity < 0 || profile.DurationHours < 1 {
			return fmt.Errorf("config: event_catalog entry %q needs severity >= 0 and duration_hours >= 1", name)
		}
	}
	return nil
}
