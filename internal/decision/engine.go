package decision

import (
	"fmt"
	"strings"

	"github.com/claimsight/claims-agent/internal/models"
	"github.com/rs/zerolog"
)

// FraudDenialThreshold is the score above which coverage is denied outright.
const FraudDenialThreshold = 0.7

var denialKeywords = []string{"denied", "excluded", "not covered", "exclusion", "ineligible"}

// Engine combines a recommendation and a fraud assessment into the final
// coverage decision. Pure function over validated inputs, no I/O.
type Engine struct {
	logger *zerolog.Logger
}

func NewEngine(logger *zerolog.Logger) *Engine {
	return &Engine{logger: logger}
}

// Decide accepts a nil fraud assessment, which is treated as score 0.
func (e *Engine) Decide(claim models.CanonicalClaim, rec models.Recommendation, fraud *models.FraudAssessment) models.Decision {
	fraudScore := 0.0
	if fraud != nil {
		fraudScore = fraud.FraudScore
	}

	deductible := 0.0
	if rec.Deductible != nil {
		deductible = *rec.Deductible
	}
	settlement := 0.0
	if rec.SettlementAmount != nil {
		settlement = *rec.SettlementAmount
	}

	policySection := rec.PolicySection
	if policySection == "" {
		policySection = "General"
	}

	covered := true
	var factors []string
	var notes []string

	if containsDenialKeyword(rec.RecommendationSummary) {
		covered = false
		factors = append(factors, "Recommendation indicates exclusion or denial")
		notes = append(notes, fmt.Sprintf("Denied based on %s.", policySection))
	}

	if fraudScore > FraudDenialThreshold {
		covered = false
		factors = append(factors, fmt.Sprintf("High fraud score: %.2f", fraudScore))
		notes = append(notes, "Claim flagged for investigation due to high fraud risk.")
	} else if fraudScore > 0.3 {
		// Moderate fraud signal records a factor but never flips coverage.
		factors = append(factors, fmt.Sprintf("Moderate fraud score: %.2f - manual review advised", fraudScore))
		notes = append(notes, "Moderate fraud indicators detected. Review recommended.")
	}

	if covered {
		factors = append(factors, fmt.Sprintf("Coverage confirmed under %s", policySection))
		if settlement <= 0 {
			settlement = claim.EstimatedRepairCost - deductible
			if settlement < 0 {
				settlement = 0
			}
		}
		if rec.RecommendationSummary != "" {
			notes = append(notes, rec.RecommendationSummary)
		} else {
			notes = append(notes, fmt.Sprintf("Claim covered under %s.", policySection))
		}
	} else {
		deductible = 0
		settlement = 0
	}

	e.logger.Info().
		Str("claim_number", claim.ClaimNumber).
		Bool("covered", covered).
		Float64("payout", settlement).
		Msg("decision made")

	return models.Decision{
		ClaimNumber:       claim.ClaimNumber,
		Covered:           covered,
		Deductible:        deductible,
		RecommendedPayout: settlement,
		Notes:             strings.Join(notes, " "),
		DecisionFactors:   factors,
	}
}

func containsDenialKeyword(summary string) bool {
	lower := strings.ToLower(summary)
	for _, kw := range denialKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
