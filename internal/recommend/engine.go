package recommend

import (
	"context"
	"fmt"

	"github.com/claimsight/claims-agent/internal/llm"
	"github.com/claimsight/claims-agent/internal/models"
	"github.com/claimsight/claims-agent/internal/policy"
	"github.com/rs/zerolog"
)

const (
	// StandardDeductible applies on the rule-based path.
	StandardDeductible = 500.0

	// policyTextLimit bounds the policy excerpt embedded in the prompt.
	policyTextLimit = 4000
)

var sectionByLossType = map[models.LossType]string{
	models.LossTypeCollision:     "Part D - Collision Coverage",
	models.LossTypeComprehensive: "Part E - Comprehensive Coverage",
	models.LossTypeLiability:     "Part A - Liability Coverage",
	"personal_injury":            "Part B - Medical Payments Coverage",
	"property_damage":            "Part A - Liability Coverage",
	models.LossTypeTheft:         "Part E - Comprehensive Coverage",
	models.LossTypeVandalism:     "Part E - Comprehensive Coverage",
	models.LossTypeWeather:       "Part E - Comprehensive Coverage",
}

// Engine produces a coverage recommendation by reasoning over the claim and
// policy text, falling back to the deterministic rule table when the
// reasoning backend is unavailable or returns an unusable shape.
type Engine struct {
	llmClient llm.LLMClient
	logger    *zerolog.Logger
}

func NewEngine(llmClient llm.LLMClient, logger *zerolog.Logger) *Engine {
	return &Engine{
		llmClient: llmClient,
		logger:    logger,
	}
}

func (e *Engine) Recommend(ctx context.Context, claim models.CanonicalClaim, policyText string) models.Recommendation {
	if e.llmClient == nil {
		return e.ruleBased(claim)
	}

	rec, err := e.reasoned(ctx, claim, policyText)
	if err != nil {
		e.logger.Warn().Err(err).
			Str("claim_number", claim.ClaimNumber).
			Msg("LLM recommendation unavailable, using rule-based path")
		return e.ruleBased(claim)
	}

	e.logger.Info().
		Str("claim_number", claim.ClaimNumber).
		Str("policy_section", rec.PolicySection).
		Msg("recommendation generated")

	return rec
}

func (e *Engine) reasoned(ctx context.Context, claim models.CanonicalClaim, policyText string) (models.Recommendation, error) {
	if len(policyText) > policyTextLimit {
		policyText = policyText[:policyTextLimit]
	}

	prompt := fmt.Sprintf(`Evaluate the following auto insurance claim against the policy text:
- Determine if the loss is covered, the deductible, settlement amount, and applicable policy section.
- Claim Info: %s
- Policy Text: %s
- Return a JSON object:
  {
    "policy_section": "str",
    "recommendation_summary": "str",
    "deductible": float or null,
    "settlement_amount": float or null
  }`, policy.MarshalClaim(claim), policyText)

	resp, err := e.llmClient.InvokeModel(ctx, llm.LLMRequest{
		Prompt:    prompt,
		MaxTokens: 500,
	})
	if err != nil {
		return models.Recommendation{}, err
	}

	var rec models.Recommendation
	if err := llm.DecodeJSON(resp.Content, &rec); err != nil {
		return models.Recommendation{}, fmt.Errorf("failed to decode recommendation: %w", err)
	}

	if err := validate(rec); err != nil {
		return models.Recommendation{}, err
	}

	return rec, nil
}

func validate(rec models.Recommendation) error {
	if rec.PolicySection == "" && rec.RecommendationSummary == "" {
		return fmt.Errorf("recommendation missing policy section and summary")
	}
	if rec.Deductible != nil && *rec.Deductible < 0 {
		return fmt.Errorf("negative deductible %f", *rec.Deductible)
	}
	if rec.SettlementAmount != nil && *rec.SettlementAmount < 0 {
		return fmt.Errorf("negative settlement amount %f", *rec.SettlementAmount)
	}
	return nil
}

func (e *Engine) ruleBased(claim models.CanonicalClaim) models.Recommendation {
	section, ok := sectionByLossType[claim.LossType]
	if !ok {
		section = "General Coverage"
	}

	deductible := StandardDeductible
	settlement := claim.EstimatedRepairCost - deductible
	if settlement < 0 {
		settlement = 0
	}

	summary := fmt.Sprintf(
		"Claim appears covered under %s. Estimated repair cost: $%.2f. "+
			"Standard deductible of $%.2f applies. Recommended settlement: $%.2f.",
		section, claim.EstimatedRepairCost, deductible, settlement)

	return models.Recommendation{
		PolicySection:         section,
		RecommendationSummary: summary,
		Deductible:            &deductible,
		SettlementAmount:      &settlement,
	}
}
