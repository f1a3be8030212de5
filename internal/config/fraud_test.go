package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_IndicatorCatalog(t *testing.T) {
	cfg := Default()

	weights := map[string]float64{
		"high_cost_ratio":        0.15,
		"recent_policy":          0.10,
		"frequency":              0.20,
		"vague_description":      0.12,
		"no_police_report":       0.08,
		"suspicious_timing":      0.05,
		"mismatched_damage":      0.15,
		"high_value_vehicle":     0.10,
		"total_loss_new_vehicle": 0.15,
	}

	if len(cfg.Indicators) != len(weights) {
		t.Fatalf("Expected %d indicators, got %d", len(weights), len(cfg.Indicators))
	}
	for name, weight := range weights {
		ind, ok := cfg.Indicators[name]
		if !ok {
			t.Errorf("Missing indicator %s", name)
			continue
		}
		if ind.Weight != weight {
			t.Errorf("Indicator %s: expected weight %f, got %f", name, weight, ind.Weight)
		}
	}

	if cfg.Thresholds.HighCost != 10000 {
		t.Errorf("Expected high_cost 10000, got %f", cfg.Thresholds.HighCost)
	}
	if cfg.Thresholds.MinDescriptionWords != 10 {
		t.Errorf("Expected min_description_words 10, got %d", cfg.Thresholds.MinDescriptionWords)
	}
	if cfg.Thresholds.MaxScoreAdjustment != 0.3 {
		t.Errorf("Expected max_score_adjustment 0.3, got %f", cfg.Thresholds.MaxScoreAdjustment)
	}
}

func TestLoadFraudConfig_MissingDefaultFileUsesBuiltIn(t *testing.T) {
	t.Setenv("FRAUD_CONFIG_PATH", "")
	t.Chdir(t.TempDir())

	cfg, err := LoadFraudConfig()
	if err != nil {
		t.Fatalf("LoadFraudConfig failed: %v", err)
	}
	if len(cfg.Indicators) != 9 {
		t.Errorf("Expected built-in catalog, got %d indicators", len(cfg.Indicators))
	}
}

func TestLoadFraudConfig_ExplicitMissingFileIsError(t *testing.T) {
	t.Setenv("FRAUD_CONFIG_PATH", "/nonexistent/fraud.yaml")

	if _, err := LoadFraudConfig(); err == nil {
		t.Error("Expected error for explicitly configured missing file")
	}
}

func TestLoadFraudConfig_PartialOverrideKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fraud.yaml")
	content := []byte(`
thresholds:
  high_cost: 20000
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FRAUD_CONFIG_PATH", path)

	cfg, err := LoadFraudConfig()
	if err != nil {
		t.Fatalf("LoadFraudConfig failed: %v", err)
	}

	if cfg.Thresholds.HighCost != 20000 {
		t.Errorf("Expected overridden high_cost 20000, got %f", cfg.Thresholds.HighCost)
	}
	if cfg.Thresholds.MinDescriptionWords != 10 {
		t.Errorf("Expected default min_description_words, got %d", cfg.Thresholds.MinDescriptionWords)
	}
	if len(cfg.Indicators) != 9 {
		t.Errorf("Expected default indicators, got %d", len(cfg.Indicators))
	}
}

func TestLoadFraudConfig_InvalidWeightRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fraud.yaml")
	content := []byte(`
indicators:
  high_cost_ratio:
    description: too heavy
    weight: 1.5
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FRAUD_CONFIG_PATH", path)

	if _, err := LoadFraudConfig(); err == nil {
		t.Error("Expected validation error for weight outside [0, 1]")
	}
}

func TestValidate_AdjustmentBound(t *testing.T) {
	cfg := Default()
	cfg.Thresholds.MaxScoreAdjustment = 1.2

	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation error for max_score_adjustment above 1")
	}
}
