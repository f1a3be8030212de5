package claim

import (
	"errors"
	"testing"

	"github.com/claimsight/claims-agent/internal/models"
	"github.com/rs/zerolog"
)

func testLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func TestNormalize_FullClaim(t *testing.T) {
	normalizer := NewNormalizer(testLogger())

	claim, err := normalizer.Normalize(map[string]any{
		"claim_number":          "CLM-2024-001",
		"policy_number":         "POL-9981",
		"claimant_name":         "Jordan Miles",
		"date_of_loss":          "2024-03-14",
		"loss_description":      "Rear-ended at a stop light",
		"loss_type":             "collision",
		"estimated_repair_cost": 4200.50,
		"vehicle_details":       map[string]any{"make": "Honda", "model": "Civic"},
		"third_party_involved":  true,
		"police_report_number":  "RPT-1234",
	})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if claim.ClaimNumber != "CLM-2024-001" {
		t.Errorf("Unexpected claim number %q", claim.ClaimNumber)
	}
	if claim.EstimatedRepairCost != 4200.50 {
		t.Errorf("Unexpected cost %f", claim.EstimatedRepairCost)
	}
	if !claim.ThirdPartyInvolved {
		t.Error("Expected third_party_involved=true")
	}
	if claim.VehicleDetails["make"] != "Honda" {
		t.Errorf("Unexpected vehicle details %v", claim.VehicleDetails)
	}
}

func TestNormalize_Defaults(t *testing.T) {
	normalizer := NewNormalizer(testLogger())

	claim, err := normalizer.Normalize(map[string]any{
		"loss_description": "minor scrape",
	})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if claim.LossType != models.LossTypeCollision {
		t.Errorf("Expected default loss type collision, got %s", claim.LossType)
	}
	if claim.EstimatedRepairCost != 0 {
		t.Errorf("Expected zero cost, got %f", claim.EstimatedRepairCost)
	}
	if claim.ThirdPartyInvolved {
		t.Error("Expected third_party_involved=false by default")
	}
}

func TestNormalize_StringCost(t *testing.T) {
	normalizer := NewNormalizer(testLogger())

	claim, err := normalizer.Normalize(map[string]any{
		"estimated_repair_cost": "3500.75",
	})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if claim.EstimatedRepairCost != 3500.75 {
		t.Errorf("Expected 3500.75, got %f", claim.EstimatedRepairCost)
	}
}

func TestNormalize_IntCost(t *testing.T) {
	normalizer := NewNormalizer(testLogger())

	claim, err := normalizer.Normalize(map[string]any{
		"estimated_repair_cost": 5000,
	})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if claim.EstimatedRepairCost != 5000 {
		t.Errorf("Expected 5000, got %f", claim.EstimatedRepairCost)
	}
}

func TestNormalize_InvalidCostString(t *testing.T) {
	normalizer := NewNormalizer(testLogger())

	_, err := normalizer.Normalize(map[string]any{
		"estimated_repair_cost": "a lot of money",
	})
	if err == nil {
		t.Fatal("Expected error for unparseable cost")
	}

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("Expected ValidationError, got %T", err)
	}
	if validationErr.Raw == nil {
		t.Error("ValidationError must carry the raw payload")
	}
}

func TestNormalize_NegativeCostRejected(t *testing.T) {
	normalizer := NewNormalizer(testLogger())

	_, err := normalizer.Normalize(map[string]any{
		"estimated_repair_cost": -500.0,
	})
	if err == nil {
		t.Fatal("Expected error for negative cost")
	}
}

func TestNormalize_StringBoolCoercion(t *testing.T) {
	normalizer := NewNormalizer(testLogger())

	claim, err := normalizer.Normalize(map[string]any{
		"third_party_involved": "true",
	})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if !claim.ThirdPartyInvolved {
		t.Error("Expected string \"true\" to coerce to true")
	}
}

func TestNormalize_NonStringFieldsCoerced(t *testing.T) {
	normalizer := NewNormalizer(testLogger())

	claim, err := normalizer.Normalize(map[string]any{
		"claim_number": 12345,
	})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if claim.ClaimNumber != "12345" {
		t.Errorf("Expected numeric claim number to coerce to string, got %q", claim.ClaimNumber)
	}
}
