package policy

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/claimsight/claims-agent/internal/llm"
	"github.com/claimsight/claims-agent/internal/models"
	"github.com/rs/zerolog"
)

// Planner derives retrieval queries from a canonical claim. A reasoning
// backend may replace the deterministic query list; any backend failure keeps
// the deterministic list unchanged.
type Planner struct {
	llmClient llm.LLMClient
	logger    *zerolog.Logger
}

// NewPlanner accepts a nil llmClient, in which case only deterministic
// queries are produced.
func NewPlanner(llmClient llm.LLMClient, logger *zerolog.Logger) *Planner {
	return &Planner{
		llmClient: llmClient,
		logger:    logger,
	}
}

type plannedQueries struct {
	Queries []string `json:"queries"`
}

func (p *Planner) GenerateQueries(ctx context.Context, claim models.CanonicalClaim) models.PolicyQuerySet {
	queries := p.baseQueries(claim)

	if p.llmClient != nil {
		if planned, err := p.planWithLLM(ctx, claim); err != nil {
			p.logger.Warn().Err(err).
				Str("claim_number", claim.ClaimNumber).
				Msg("LLM query planning unavailable, keeping deterministic queries")
		} else if len(planned) > 0 {
			// The model's list replaces, never merges.
			queries = planned
		}
	}

	p.logger.Info().
		Str("claim_number", claim.ClaimNumber).
		Int("queries", len(queries)).
		Msg("policy queries generated")

	return models.PolicyQuerySet{Queries: queries}
}

func (p *Planner) baseQueries(claim models.CanonicalClaim) []string {
	lossType := string(claim.LossType)
	description := strings.ToLower(claim.LossDescription)

	queries := []string{
		fmt.Sprintf("%s coverage policy terms and conditions", lossType),
		fmt.Sprintf("deductible amount for %s claims", lossType),
		"claim settlement procedures and limits",
	}

	if claim.ThirdPartyInvolved {
		queries = append(queries, "third party liability coverage and procedures")
	}

	if claim.EstimatedRepairCost > 5000 {
		queries = append(queries, "high value claim review and approval process")
	}

	if strings.Contains(description, "theft") || claim.LossType == models.LossTypeTheft {
		queries = append(queries, "theft coverage exclusions and requirements")
	}

	if strings.Contains(description, "weather") || claim.LossType == models.LossTypeWeather {
		queries = append(queries, "comprehensive coverage weather related damage")
	}

	return queries
}

func (p *Planner) planWithLLM(ctx context.Context, claim models.CanonicalClaim) ([]string, error) {
	prompt := fmt.Sprintf(`Generate 3-5 search queries to find relevant auto insurance policy sections for this claim:
Loss type: %s
Description: %s
Cost: $%.2f
Third party: %t
Return a JSON object: {"queries": ["query1", "query2", ...]}`,
		claim.LossType, claim.LossDescription, claim.EstimatedRepairCost, claim.ThirdPartyInvolved)

	resp, err := p.llmClient.InvokeModel(ctx, llm.LLMRequest{
		Prompt:    prompt,
		MaxTokens: 300,
	})
	if err != nil {
		return nil, err
	}

	var planned plannedQueries
	if err := llm.DecodeJSON(resp.Content, &planned); err != nil {
		return nil, fmt.Errorf("failed to decode planned queries: %w", err)
	}

	return planned.Queries, nil
}

// MarshalClaim renders the claim as compact JSON for prompt embedding.
func MarshalClaim(claim models.CanonicalClaim) string {
	data, err := json.Marshal(claim)
	if err != nil {
		return ""
	}
	return string(data)
}
