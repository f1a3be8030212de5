package config

// FraudConfig holds the read-only rule tables used by the fraud scorer.
// Shared by all in-flight claim evaluations, never mutated after load.
type FraudConfig struct {
	Indicators map[string]Indicator `yaml:"indicators"`
	Thresholds Thresholds           `yaml:"thresholds"`
	// Keywords maps a loss type to the terms its description should contain.
	Keywords map[string][]string `yaml:"keywords"`
	Model    ModelConfig         `yaml:"model"`
}

// Indicator is one catalogued fraud signal and its score weight.
type Indicator struct {
	Description string  `yaml:"description"`
	Weight      float64 `yaml:"weight"`
}

type Thresholds struct {
	HighCost            float64 `yaml:"high_cost"`
	PoliceReportCost    float64 `yaml:"police_report_cost"`
	MinDescriptionWords int     `yaml:"min_description_words"`
	MaxScoreAdjustment  float64 `yaml:"max_score_adjustment"`
}

// ModelConfig bounds the optional reasoning-assisted fraud pass.
type ModelConfig struct {
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	Retry       bool    `yaml:"retry"`
}
