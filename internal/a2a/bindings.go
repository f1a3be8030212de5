package a2a

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/claimsight/claims-agent/internal/claim"
	"github.com/claimsight/claims-agent/internal/decision"
	"github.com/claimsight/claims-agent/internal/document"
	"github.com/claimsight/claims-agent/internal/fraud"
	"github.com/claimsight/claims-agent/internal/models"
	"github.com/claimsight/claims-agent/internal/policy"
	"github.com/claimsight/claims-agent/internal/recommend"
	"github.com/rs/zerolog"
)

// Agent identifiers addressable through the router.
const (
	AgentClaimParser      = "claim_parser"
	AgentPolicyRetriever  = "policy_retriever"
	AgentRecommendation   = "recommendation"
	AgentFraudDetector    = "fraud_detector"
	AgentDecisionMaker    = "decision_maker"
	AgentDocumentAnalyzer = "document_analyzer"
)

// Stages collects the per-stage components the registry binds actions to.
type Stages struct {
	Normalizer  *claim.Normalizer
	Planner     *policy.Planner
	Retriever   *policy.Retriever
	Recommender *recommend.Engine
	FraudScorer *fraud.Scorer
	Decider     *decision.Engine
	Analyzer    *document.Analyzer
}

// NewClaimsRegistry builds the closed agent/action table for the claims
// service. Each action decodes its payload against an explicit parameter
// shape; a single wrapped object parameter may also be passed unwrapped for
// wire compatibility with older callers.
func NewClaimsRegistry(stages Stages, logger *zerolog.Logger) *Registry {
	registry := NewRegistry(logger)

	registry.Register(models.AgentCard{
		AgentID:     AgentClaimParser,
		Name:        "Claim Parser Agent",
		Description: "Extracts and validates structured claim information from raw data",
	}, map[string]ActionHandler{
		"parse": func(ctx context.Context, payload map[string]any) (any, error) {
			return stages.Normalizer.Normalize(objectParam(payload, "claim_data"))
		},
	}, map[string]string{
		"parse": "Parse raw claim data into a canonical claim record",
	})

	registry.Register(models.AgentCard{
		AgentID:     AgentPolicyRetriever,
		Name:        "Policy Retriever Agent",
		Description: "Generates queries and retrieves relevant policy sections from the vector store",
	}, map[string]ActionHandler{
		"generate_queries": func(ctx context.Context, payload map[string]any) (any, error) {
			claimInfo, err := claimParam(payload, "claim_info")
			if err != nil {
				return nil, err
			}
			return stages.Planner.GenerateQueries(ctx, claimInfo), nil
		},
		"retrieve": func(ctx context.Context, payload map[string]any) (any, error) {
			var params struct {
				Queries []string `json:"queries"`
			}
			if err := decode(payload, &params); err != nil {
				return nil, fmt.Errorf("invalid retrieve payload: %w", err)
			}
			return stages.Retriever.Retrieve(ctx, models.PolicyQuerySet{Queries: params.Queries}), nil
		},
	}, map[string]string{
		"generate_queries": "Generate policy search queries from a canonical claim",
		"retrieve":         "Retrieve and assemble policy text for a query set",
	})

	registry.Register(models.AgentCard{
		AgentID:     AgentRecommendation,
		Name:        "Recommendation Agent",
		Description: "Evaluates claims against retrieved policy text to produce coverage recommendations",
	}, map[string]ActionHandler{
		"recommend": func(ctx context.Context, payload map[string]any) (any, error) {
			var params struct {
				ClaimInfo  models.CanonicalClaim `json:"claim_info"`
				PolicyText string                `json:"policy_text"`
			}
			if err := decode(payload, &params); err != nil {
				return nil, fmt.Errorf("invalid recommend payload: %w", err)
			}
			return stages.Recommender.Recommend(ctx, params.ClaimInfo, params.PolicyText), nil
		},
	}, map[string]string{
		"recommend": "Produce a coverage recommendation for a claim and policy text",
	})

	registry.Register(models.AgentCard{
		AgentID:     AgentFraudDetector,
		Name:        "Fraud Detection Agent",
		Description: "Analyzes claims for potential fraud indicators using rule-based and AI-powered detection",
	}, map[string]ActionHandler{
		"analyze": func(ctx context.Context, payload map[string]any) (any, error) {
			claimInfo, err := stages.Normalizer.Normalize(objectParam(payload, "claim_data"))
			if err != nil {
				return nil, err
			}
			return stages.FraudScorer.Analyze(ctx, claimInfo), nil
		},
	}, map[string]string{
		"analyze": "Compute a weighted fraud score and flag list for a claim",
	})

	registry.Register(models.AgentCard{
		AgentID:     AgentDecisionMaker,
		Name:        "Decision Maker Agent",
		Description: "Produces final claim decisions based on recommendations and fraud analysis",
	}, map[string]ActionHandler{
		"decide": func(ctx context.Context, payload map[string]any) (any, error) {
			var params struct {
				ClaimInfo      models.CanonicalClaim   `json:"claim_info"`
				Recommendation models.Recommendation   `json:"recommendation"`
				FraudResult    *models.FraudAssessment `json:"fraud_result"`
			}
			if err := decode(payload, &params); err != nil {
				return nil, fmt.Errorf("invalid decide payload: %w", err)
			}
			return stages.Decider.Decide(params.ClaimInfo, params.Recommendation, params.FraudResult), nil
		},
	}, map[string]string{
		"decide": "Combine recommendation and fraud assessment into a final decision",
	})

	registry.Register(models.AgentCard{
		AgentID:     AgentDocumentAnalyzer,
		Name:        "Document Analyzer Agent",
		Description: "Analyzes uploaded claim documents for data extraction and validation",
	}, map[string]ActionHandler{
		"analyze": func(ctx context.Context, payload map[string]any) (any, error) {
			var params struct {
				DocumentURL  string `json:"document_url"`
				DocumentType string `json:"document_type"`
			}
			if err := decode(payload, &params); err != nil {
				return nil, fmt.Errorf("invalid analyze payload: %w", err)
			}
			return stages.Analyzer.Analyze(ctx, params.DocumentURL, params.DocumentType), nil
		},
	}, map[string]string{
		"analyze": "Extract structured data from a claim document",
	})

	return registry
}

// decode maps an untyped payload onto a typed parameter struct.
func decode(payload map[string]any, v any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// objectParam returns the named object parameter, falling back to the whole
// payload when the wrapper key is absent (compatibility with callers that
// send the object unwrapped).
func objectParam(payload map[string]any, key string) map[string]any {
	if inner, ok := payload[key].(map[string]any); ok {
		return inner
	}
	return payload
}

// claimParam decodes a canonical claim from the named parameter, with the
// same unwrapped-payload compatibility as objectParam.
func claimParam(payload map[string]any, key string) (models.CanonicalClaim, error) {
	var claimInfo models.CanonicalClaim
	if err := decode(objectParam(payload, key), &claimInfo); err != nil {
		return models.CanonicalClaim{}, fmt.Errorf("invalid %s payload: %w", key, err)
	}
	return claimInfo, nil
}
