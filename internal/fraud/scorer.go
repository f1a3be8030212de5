package fraud

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/claimsight/claims-agent/internal/config"
	"github.com/claimsight/claims-agent/internal/llm"
	"github.com/claimsight/claims-agent/internal/models"
	"github.com/claimsight/claims-agent/internal/policy"
	"github.com/rs/zerolog"
)

// ReviewThreshold is the score above which a claim requires manual review.
const ReviewThreshold = 0.3

// Scorer accumulates a fraud score from independent rule predicates, each
// contributing its configured weight, then optionally adjusts the score
// upward with a reasoning pass. Reasoning failure never alters the
// rule-based score.
type Scorer struct {
	cfg       *config.FraudConfig
	llmClient llm.LLMClient
	logger    *zerolog.Logger
}

// NewScorer accepts a nil llmClient, which disables the reasoning pass.
func NewScorer(cfg *config.FraudConfig, llmClient llm.LLMClient, logger *zerolog.Logger) *Scorer {
	return &Scorer{
		cfg:       cfg,
		llmClient: llmClient,
		logger:    logger,
	}
}

func (s *Scorer) Analyze(ctx context.Context, claim models.CanonicalClaim) models.FraudAssessment {
	flags, score := s.ruleChecks(claim)

	if s.llmClient != nil {
		adjustment, extraFlags, err := s.reasonedAnalysis(ctx, claim)
		if err != nil {
			s.logger.Warn().Err(err).
				Str("claim_number", claim.ClaimNumber).
				Msg("LLM fraud analysis unavailable")
		} else {
			flags = append(flags, extraFlags...)
			score += adjustment
		}
	}

	score = clamp(score)

	assessment := models.FraudAssessment{
		FraudScore:     round4(score),
		Severity:       severityFor(score),
		Flags:          flags,
		FlagCount:      len(flags),
		Recommendation: recommendationFor(score),
		RequiresReview: score > ReviewThreshold,
	}

	s.logger.Info().
		Str("claim_number", claim.ClaimNumber).
		Float64("score", assessment.FraudScore).
		Int("flags", assessment.FlagCount).
		Msg("fraud analysis complete")

	return assessment
}

// ruleChecks evaluates the independent deterministic predicates. Predicates
// are not mutually exclusive.
func (s *Scorer) ruleChecks(claim models.CanonicalClaim) ([]models.FraudFlag, float64) {
	var flags []models.FraudFlag
	score := 0.0

	cost := claim.EstimatedRepairCost
	description := claim.LossDescription

	if cost > s.cfg.Thresholds.HighCost {
		flags = append(flags, models.FraudFlag{
			Indicator:   "high_cost_ratio",
			Description: fmt.Sprintf("High repair cost: $%.2f", cost),
			Severity:    models.SeverityMedium,
		})
		score += s.cfg.Indicators["high_cost_ratio"].Weight
	}

	if len(strings.Fields(description)) < s.cfg.Thresholds.MinDescriptionWords {
		flags = append(flags, models.FraudFlag{
			Indicator:   "vague_description",
			Description: "Loss description is unusually brief",
			Severity:    models.SeverityLow,
		})
		score += s.cfg.Indicators["vague_description"].Weight
	}

	if cost > s.cfg.Thresholds.PoliceReportCost && claim.PoliceReportNumber == "" {
		flags = append(flags, models.FraudFlag{
			Indicator:   "no_police_report",
			Description: "No police report for high-value claim",
			Severity:    models.SeverityMedium,
		})
		score += s.cfg.Indicators["no_police_report"].Weight
	}

	if keywords, ok := s.cfg.Keywords[string(claim.LossType)]; ok {
		if !containsAny(strings.ToLower(description), keywords) {
			flags = append(flags, models.FraudFlag{
				Indicator:   "mismatched_damage",
				Description: fmt.Sprintf("Description may not match loss type: %s", claim.LossType),
				Severity:    models.SeverityMedium,
			})
			score += s.cfg.Indicators["mismatched_damage"].Weight
		}
	}

	return flags, score
}

type reasonedResult struct {
	AdditionalFlags []models.FraudFlag `json:"additional_flags"`
	ScoreAdjustment float64            `json:"score_adjustment"`
	Analysis        string             `json:"analysis"`
}

func (s *Scorer) reasonedAnalysis(ctx context.Context, claim models.CanonicalClaim) (float64, []models.FraudFlag, error) {
	prompt := fmt.Sprintf(`Analyze this insurance claim for fraud indicators. Return JSON:
{"additional_flags": [{"indicator": "str", "description": "str", "severity": "low|medium|high"}], "score_adjustment": float_0_to_0.3, "analysis": "str"}
Claim: %s`, policy.MarshalClaim(claim))

	req := llm.LLMRequest{
		Prompt:      prompt,
		MaxTokens:   s.cfg.Model.MaxTokens,
		Temperature: s.cfg.Model.Temperature,
	}

	var resp *llm.LLMResponse
	var err error
	if s.cfg.Model.Retry {
		resp, err = s.llmClient.InvokeModelWithRetry(ctx, req)
	} else {
		resp, err = s.llmClient.InvokeModel(ctx, req)
	}
	if err != nil {
		return 0, nil, err
	}

	var result reasonedResult
	if err := llm.DecodeJSON(resp.Content, &result); err != nil {
		return 0, nil, fmt.Errorf("failed to decode fraud analysis: %w", err)
	}

	// The adjustment only ever moves the score upward, within the bound.
	adjustment := result.ScoreAdjustment
	if adjustment < 0 {
		adjustment = 0
	}
	if adjustment > s.cfg.Thresholds.MaxScoreAdjustment {
		adjustment = s.cfg.Thresholds.MaxScoreAdjustment
	}

	return adjustment, result.AdditionalFlags, nil
}

func severityFor(score float64) models.Severity {
	switch {
	case score > 0.8:
		return models.SeverityCritical
	case score > 0.6:
		return models.SeverityHigh
	case score > 0.3:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

func recommendationFor(score float64) string {
	switch {
	case score < 0.15:
		return "Low risk. Proceed with standard processing."
	case score < 0.3:
		return "Minor indicators detected. Standard review recommended."
	case score < 0.6:
		return "Moderate risk. Manual review by senior adjuster recommended."
	case score < 0.8:
		return "High risk. Detailed investigation required before processing."
	default:
		return "Critical risk. Refer to Special Investigations Unit (SIU) immediately."
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func clamp(score float64) float64 {
	return math.Min(1.0, math.Max(0.0, score))
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}
