package mcpadapter

import (
	"context"

	"github.com/claimsight/claims-agent/internal/a2a"
	"github.com/claimsight/claims-agent/internal/models"
	"github.com/claimsight/claims-agent/internal/orchestrator"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ParseClaimInput is the MCP tool input schema for claim normalization.
type ParseClaimInput struct {
	ClaimData map[string]any `json:"claim_data" jsonschema:"raw claim data with claim_number, policy_number, claimant_name, date_of_loss, loss_description, estimated_repair_cost"`
}

// GenerateQueriesInput is the MCP tool input schema for query planning.
type GenerateQueriesInput struct {
	ClaimInfo models.CanonicalClaim `json:"claim_info" jsonschema:"canonical claim record"`
}

// RetrievePolicyInput is the MCP tool input schema for policy retrieval.
type RetrievePolicyInput struct {
	Queries []string `json:"queries" jsonschema:"search queries for policy retrieval"`
}

// RecommendInput is the MCP tool input schema for coverage recommendation.
type RecommendInput struct {
	ClaimInfo  models.CanonicalClaim `json:"claim_info" jsonschema:"canonical claim record"`
	PolicyText string                `json:"policy_text" jsonschema:"assembled policy text to evaluate against"`
}

// FinalizeDecisionInput is the MCP tool input schema for the final decision.
type FinalizeDecisionInput struct {
	ClaimInfo      models.CanonicalClaim   `json:"claim_info" jsonschema:"canonical claim record"`
	Recommendation models.Recommendation   `json:"recommendation" jsonschema:"coverage recommendation"`
	FraudResult    *models.FraudAssessment `json:"fraud_result,omitempty" jsonschema:"optional fraud assessment"`
}

// DetectFraudInput is the MCP tool input schema for fraud analysis.
type DetectFraudInput struct {
	ClaimData map[string]any `json:"claim_data" jsonschema:"raw claim data to analyze"`
}

// AnalyzeDocumentInput is the MCP tool input schema for document analysis.
type AnalyzeDocumentInput struct {
	DocumentURL  string `json:"document_url" jsonschema:"URL of the claim document"`
	DocumentType string `json:"document_type,omitempty" jsonschema:"document type: invoice, repair_estimate, police_report, photo, or other"`
}

// ProcessClaimInput is the MCP tool input schema for the full pipeline.
type ProcessClaimInput struct {
	ClaimData      map[string]any `json:"claim_data" jsonschema:"raw claim data to process"`
	ProcessingType string         `json:"processing_type,omitempty" jsonschema:"full, fraud_check, policy_lookup, or recommendation (default: full)"`
}

// AddClaimTools registers every claim processing stage as a typed MCP tool.
func AddClaimTools(server *mcp.Server, stages a2a.Stages, pipeline *orchestrator.Pipeline) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "parse_claim",
		Description: "Parse raw claim data into a canonical claim record",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input ParseClaimInput) (*mcp.CallToolResult, models.CanonicalClaim, error) {
		claimInfo, err := stages.Normalizer.Normalize(input.ClaimData)
		return nil, claimInfo, err
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_policy_queries",
		Description: "Generate search queries for retrieving relevant policy sections from the knowledge base",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input GenerateQueriesInput) (*mcp.CallToolResult, models.PolicyQuerySet, error) {
		return nil, stages.Planner.GenerateQueries(ctx, input.ClaimInfo), nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "retrieve_policy_text",
		Description: "Retrieve relevant policy document sections from the vector store",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input RetrievePolicyInput) (*mcp.CallToolResult, models.PolicyContext, error) {
		return nil, stages.Retriever.Retrieve(ctx, models.PolicyQuerySet{Queries: input.Queries}), nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_recommendation",
		Description: "Generate a coverage recommendation by evaluating claim against policy text",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input RecommendInput) (*mcp.CallToolResult, models.Recommendation, error) {
		return nil, stages.Recommender.Recommend(ctx, input.ClaimInfo, input.PolicyText), nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "finalize_decision",
		Description: "Produce a final claim decision with coverage determination, deductible, and payout",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input FinalizeDecisionInput) (*mcp.CallToolResult, models.Decision, error) {
		return nil, stages.Decider.Decide(input.ClaimInfo, input.Recommendation, input.FraudResult), nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "detect_fraud",
		Description: "Analyze a claim for potential fraud indicators",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input DetectFraudInput) (*mcp.CallToolResult, models.FraudAssessment, error) {
		claimInfo, err := stages.Normalizer.Normalize(input.ClaimData)
		if err != nil {
			return nil, models.FraudAssessment{}, err
		}
		return nil, stages.FraudScorer.Analyze(ctx, claimInfo), nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_document",
		Description: "Analyze a claim document (invoice, repair estimate, police report) for data extraction",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input AnalyzeDocumentInput) (*mcp.CallToolResult, models.DocumentAnalysis, error) {
		return nil, stages.Analyzer.Analyze(ctx, input.DocumentURL, input.DocumentType), nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "process_claim_full",
		Description: "Run the complete multi-agent claim processing pipeline",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input ProcessClaimInput) (*mcp.CallToolResult, *models.PipelineResult, error) {
		return processClaim(ctx, pipeline, input)
	})
}

func processClaim(ctx context.Context, pipeline *orchestrator.Pipeline, input ProcessClaimInput) (*mcp.CallToolResult, *models.PipelineResult, error) {
	result, err := pipeline.Process(ctx, input.ClaimData, models.ProcessingType(input.ProcessingType))
	if err != nil {
		return nil, nil, err
	}
	return nil, result, nil
}
