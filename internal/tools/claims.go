package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/claimsight/claims-agent/internal/a2a"
	"github.com/claimsight/claims-agent/internal/models"
	"github.com/claimsight/claims-agent/internal/orchestrator"
	"github.com/rs/zerolog"
)

// NewClaimsDispatcher builds the static tool table over the claim stages and
// the full pipeline.
func NewClaimsDispatcher(stages a2a.Stages, pipeline *orchestrator.Pipeline, logger *zerolog.Logger) *Dispatcher {
	d := newDispatcher(logger)

	d.register(ToolSpec{
		Name:        "parse_claim",
		Description: "Parse raw claim data into a canonical claim record",
		InputSchema: objectSchema(map[string]any{
			"claim_data": map[string]any{
				"type":        "object",
				"description": "Raw claim data with fields: claim_number, policy_number, claimant_name, date_of_loss, loss_description, estimated_repair_cost",
			},
		}, "claim_data"),
	}, func(ctx context.Context, params map[string]any) (any, error) {
		return stages.Normalizer.Normalize(object(params, "claim_data"))
	})

	d.register(ToolSpec{
		Name:        "generate_policy_queries",
		Description: "Generate search queries for retrieving relevant policy sections from the knowledge base",
		InputSchema: objectSchema(map[string]any{
			"claim_info": map[string]any{"type": "object", "description": "Canonical claim record"},
		}, "claim_info"),
	}, func(ctx context.Context, params map[string]any) (any, error) {
		claimInfo, err := decodeClaim(object(params, "claim_info"))
		if err != nil {
			return nil, err
		}
		return stages.Planner.GenerateQueries(ctx, claimInfo), nil
	})

	d.register(ToolSpec{
		Name:        "retrieve_policy_text",
		Description: "Retrieve relevant policy document sections from the vector store",
		InputSchema: objectSchema(map[string]any{
			"queries": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Search queries for policy retrieval",
			},
		}, "queries"),
	}, func(ctx context.Context, params map[string]any) (any, error) {
		queries, err := stringSlice(params["queries"])
		if err != nil {
			return nil, fmt.Errorf("invalid queries parameter: %w", err)
		}
		return stages.Retriever.Retrieve(ctx, models.PolicyQuerySet{Queries: queries}), nil
	})

	d.register(ToolSpec{
		Name:        "generate_recommendation",
		Description: "Generate a coverage recommendation by evaluating claim against policy text",
		InputSchema: objectSchema(map[string]any{
			"claim_info":  map[string]any{"type": "object"},
			"policy_text": map[string]any{"type": "string"},
		}, "claim_info", "policy_text"),
	}, func(ctx context.Context, params map[string]any) (any, error) {
		claimInfo, err := decodeClaim(object(params, "claim_info"))
		if err != nil {
			return nil, err
		}
		policyText, _ := params["policy_text"].(string)
		return stages.Recommender.Recommend(ctx, claimInfo, policyText), nil
	})

	d.register(ToolSpec{
		Name:        "finalize_decision",
		Description: "Produce a final claim decision with coverage determination, deductible, and payout",
		InputSchema: objectSchema(map[string]any{
			"claim_info":     map[string]any{"type": "object"},
			"recommendation": map[string]any{"type": "object"},
			"fraud_result":   map[string]any{"type": "object"},
		}, "claim_info", "recommendation"),
	}, func(ctx context.Context, params map[string]any) (any, error) {
		var input struct {
			ClaimInfo      models.CanonicalClaim   `json:"claim_info"`
			Recommendation models.Recommendation   `json:"recommendation"`
			FraudResult    *models.FraudAssessment `json:"fraud_result"`
		}
		if err := remarshal(params, &input); err != nil {
			return nil, fmt.Errorf("invalid finalize_decision parameters: %w", err)
		}
		return stages.Decider.Decide(input.ClaimInfo, input.Recommendation, input.FraudResult), nil
	})

	d.register(ToolSpec{
		Name:        "detect_fraud",
		Description: "Analyze a claim for potential fraud indicators",
		InputSchema: objectSchema(map[string]any{
			"claim_data": map[string]any{"type": "object"},
		}, "claim_data"),
	}, func(ctx context.Context, params map[string]any) (any, error) {
		claimInfo, err := stages.Normalizer.Normalize(object(params, "claim_data"))
		if err != nil {
			return nil, err
		}
		return stages.FraudScorer.Analyze(ctx, claimInfo), nil
	})

	d.register(ToolSpec{
		Name:        "analyze_document",
		Description: "Analyze a claim document (invoice, repair estimate, police report) for data extraction",
		InputSchema: objectSchema(map[string]any{
			"document_url":  map[string]any{"type": "string"},
			"document_type": map[string]any{"type": "string"},
		}, "document_url"),
	}, func(ctx context.Context, params map[string]any) (any, error) {
		url, _ := params["document_url"].(string)
		docType, _ := params["document_type"].(string)
		return stages.Analyzer.Analyze(ctx, url, docType), nil
	})

	d.register(ToolSpec{
		Name:        "process_claim_full",
		Description: "Run the complete multi-agent claim processing pipeline",
		InputSchema: objectSchema(map[string]any{
			"claim_data": map[string]any{"type": "object"},
			"processing_type": map[string]any{
				"type": "string",
				"enum": []string{"full", "fraud_check", "policy_lookup", "recommendation"},
			},
		}, "claim_data"),
	}, func(ctx context.Context, params map[string]any) (any, error) {
		processingType, _ := params["processing_type"].(string)
		return pipeline.Process(ctx, object(params, "claim_data"), models.ProcessingType(processingType))
	})

	return d
}

func objectSchema(properties map[string]any, required ...string) map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

func object(params map[string]any, key string) map[string]any {
	if inner, ok := params[key].(map[string]any); ok {
		return inner
	}
	return params
}

func decodeClaim(raw map[string]any) (models.CanonicalClaim, error) {
	var claimInfo models.CanonicalClaim
	if err := remarshal(raw, &claimInfo); err != nil {
		return models.CanonicalClaim{}, fmt.Errorf("invalid claim_info parameter: %w", err)
	}
	return claimInfo, nil
}

func remarshal(m any, v any) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func stringSlice(v any) ([]string, error) {
	switch t := v.(type) {
	case []string:
		return t, nil
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected array of strings, got %T", v)
	}
}
