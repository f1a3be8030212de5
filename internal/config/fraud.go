package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default returns the built-in fraud rule tables. These match the standard
// indicator catalog and are used whenever no YAML override is present.
func Default() *FraudConfig {
	return &FraudConfig{
		Indicators: map[string]Indicator{
			"high_cost_ratio": {
				Description: "Estimated repair cost exceeds typical range",
				Weight:      0.15,
			},
			"recent_policy": {
				Description: "Claim filed shortly after policy inception",
				Weight:      0.10,
			},
			"frequency": {
				Description: "Multiple claims in short period",
				Weight:      0.20,
			},
			"vague_description": {
				Description: "Loss description lacks specific details",
				Weight:      0.12,
			},
			"no_police_report": {
				Description: "No police report for significant damage",
				Weight:      0.08,
			},
			"suspicious_timing": {
				Description: "Claim filed on weekend/holiday or at unusual hours",
				Weight:      0.05,
			},
			"mismatched_damage": {
				Description: "Damage description inconsistent with loss type",
				Weight:      0.15,
			},
			"high_value_vehicle": {
				Description: "Claim on recently acquired high-value vehicle",
				Weight:      0.10,
			},
			"total_loss_new_vehicle": {
				Description: "Total loss claim on relatively new vehicle",
				Weight:      0.15,
			},
		},
		Thresholds: Thresholds{
			HighCost:            10000,
			PoliceReportCost:    5000,
			MinDescriptionWords: 10,
			MaxScoreAdjustment:  0.3,
		},
		Keywords: map[string][]string{
			"theft":     {"stolen", "theft", "break-in", "missing"},
			"collision": {"hit", "crash", "rear-end", "collide", "accident", "struck"},
			"weather":   {"storm", "hail", "flood", "wind", "tornado", "hurricane"},
			"vandalism": {"keyed", "vandal", "graffiti", "broken window", "slashed"},
		},
		Model: ModelConfig{
			MaxTokens:   400,
			Temperature: 0.0,
			Retry:       false,
		},
	}
}

// LoadFraudConfig reads the fraud rule tables from FRAUD_CONFIG_PATH (default
// configs/fraud.yaml). A missing default file is not an error: the built-in
// tables apply.
func LoadFraudConfig() (*FraudConfig, error) {
	path := os.Getenv("FRAUD_CONFIG_PATH")
	explicit := path != ""
	if path == "" {
		path = "configs/fraud.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read fraud config %s: %w", path, err)
	}

	var cfg FraudConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse fraud config %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *FraudConfig) {
	def := Default()

	if len(cfg.Indicators) == 0 {
		cfg.Indicators = def.Indicators
	}
	if len(cfg.Keywords) == 0 {
		cfg.Keywords = def.Keywords
	}
	if cfg.Thresholds.HighCost == 0 {
		cfg.Thresholds.HighCost = def.Thresholds.HighCost
	}
	if cfg.Thresholds.PoliceReportCost == 0 {
		cfg.Thresholds.PoliceReportCost = def.Thresholds.PoliceReportCost
	}
	if cfg.Thresholds.MinDescriptionWords == 0 {
		cfg.Thresholds.MinDescriptionWords = def.Thresholds.MinDescriptionWords
	}
	if cfg.Thresholds.MaxScoreAdjustment == 0 {
		cfg.Thresholds.MaxScoreAdjustment = def.Thresholds.MaxScoreAdjustment
	}
	if cfg.Model.MaxTokens == 0 {
		cfg.Model.MaxTokens = def.Model.MaxTokens
	}
}

func (c *FraudConfig) Validate() error {
	for name, ind := range c.Indicators {
		if ind.Weight < 0 || ind.Weight > 1 {
			return fmt.Errorf("indicator %s has weight %f outside [0, 1]", name, ind.Weight)
		}
	}
	if c.Thresholds.MaxScoreAdjustment < 0 || c.Thresholds.MaxScoreAdjustment > 1 {
		return fmt.Errorf("max_score_adjustment %f outside [0, 1]", c.Thresholds.MaxScoreAdjustment)
	}
	return nil
}
