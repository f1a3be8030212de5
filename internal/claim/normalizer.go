package claim

import (
	"fmt"
	"strconv"

	"github.com/claimsight/claims-agent/internal/models"
	"github.com/rs/zerolog"
)

// ValidationError carries the offending raw payload alongside the reason the
// claim could not be normalized.
type ValidationError struct {
	Reason string         `json:"error"`
	Raw    map[string]any `json:"raw_data"`
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Normalizer coerces raw untyped claim input into a CanonicalClaim. It is a
// pure transform: permissive defaults, no I/O.
type Normalizer struct {
	logger *zerolog.Logger
}

func NewNormalizer(logger *zerolog.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

func (n *Normalizer) Normalize(raw map[string]any) (models.CanonicalClaim, error) {
	cost, err := coerceFloat(raw["estimated_repair_cost"])
	if err != nil {
		n.logger.Error().Err(err).Msg("failed to normalize claim")
		return models.CanonicalClaim{}, &ValidationError{
			Reason: fmt.Sprintf("invalid estimated_repair_cost: %v", err),
			Raw:    raw,
		}
	}
	if cost < 0 {
		n.logger.Error().Float64("cost", cost).Msg("negative repair cost rejected")
		return models.CanonicalClaim{}, &ValidationError{
			Reason: "estimated_repair_cost must be non-negative",
			Raw:    raw,
		}
	}

	lossType := coerceString(raw["loss_type"])
	if lossType == "" {
		lossType = string(models.LossTypeCollision)
	}

	normalized := models.CanonicalClaim{
		ClaimNumber:         coerceString(raw["claim_number"]),
		PolicyNumber:        coerceString(raw["policy_number"]),
		ClaimantName:        coerceString(raw["claimant_name"]),
		DateOfLoss:          coerceString(raw["date_of_loss"]),
		LossDescription:     coerceString(raw["loss_description"]),
		LossType:            models.LossType(lossType),
		EstimatedRepairCost: cost,
		VehicleDetails:      coerceMap(raw["vehicle_details"]),
		ThirdPartyInvolved:  coerceBool(raw["third_party_involved"]),
		PoliceReportNumber:  coerceString(raw["police_report_number"]),
	}

	n.logger.Info().
		Str("claim_number", normalized.ClaimNumber).
		Str("loss_type", string(normalized.LossType)).
		Msg("claim normalized")

	return normalized, nil
}

func coerceString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func coerceFloat(v any) (float64, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case string:
		if t == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse %q as number", t)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unsupported numeric type %T", v)
	}
}

func coerceBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, err := strconv.ParseBool(t)
		return err == nil && b
	default:
		return false
	}
}

func coerceMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return nil
}
