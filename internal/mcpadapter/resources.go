package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/claimsight/claims-agent/internal/a2a"
	"github.com/claimsight/claims-agent/internal/policy"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	policyResourceURI   = "insurance://policy/auto/standard"
	schemaResourceURI   = "insurance://claims/schema"
	registryResourceURI = "insurance://agents/registry"
)

// claimSchema describes the raw claim fields accepted by parse_claim and
// process_claim_full.
var claimSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"claim_number":          map[string]any{"type": "string", "description": "Unique claim identifier"},
		"policy_number":         map[string]any{"type": "string", "description": "Policy number the claim is filed under"},
		"claimant_name":         map[string]any{"type": "string", "description": "Name of the claimant"},
		"date_of_loss":          map[string]any{"type": "string", "description": "Date the loss occurred"},
		"loss_description":      map[string]any{"type": "string", "description": "Free-text description of the loss"},
		"estimated_repair_cost": map[string]any{"type": "number", "description": "Estimated repair cost in dollars"},
		"loss_type":             map[string]any{"type": "string", "enum": []string{"collision", "theft", "weather", "vandalism", "liability"}},
		"vehicle":               map[string]any{"type": "object", "description": "Vehicle details: year, make, model, vin"},
		"third_party_involved":  map[string]any{"type": "boolean"},
		"police_report_filed":   map[string]any{"type": "boolean"},
	},
	"required": []string{"claim_number", "loss_description"},
}

// AddClaimResources registers the static policy document, the claim input
// schema, and the live agent registry as MCP resources.
func AddClaimResources(server *mcp.Server, registry *a2a.Registry) {
	server.AddResource(&mcp.Resource{
		URI:         policyResourceURI,
		Name:        "Standard Auto Policy",
		Description: "Standard auto insurance policy document used when retrieval is unavailable",
		MIMEType:    "text/plain",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return textResource(policyResourceURI, "text/plain", policy.DefaultPolicyText), nil
	})

	server.AddResource(&mcp.Resource{
		URI:         schemaResourceURI,
		Name:        "Claim Schema",
		Description: "JSON schema for raw claim submissions",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		data, err := json.MarshalIndent(claimSchema, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to serialize claim schema: %w", err)
		}
		return textResource(schemaResourceURI, "application/json", string(data)), nil
	})

	server.AddResource(&mcp.Resource{
		URI:         registryResourceURI,
		Name:        "Agent Registry",
		Description: "Registered agents and the actions they handle",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		data, err := json.MarshalIndent(registry.AgentCards(), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to serialize agent registry: %w", err)
		}
		return textResource(registryResourceURI, "application/json", string(data)), nil
	})
}

func textResource(uri, mimeType, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{URI: uri, MIMEType: mimeType, Text: text},
		},
	}
}

// AddClaimPrompts registers guided prompts for claim processing and fraud
// analysis.
func AddClaimPrompts(server *mcp.Server) {
	server.AddPrompt(&mcp.Prompt{
		Name:        "process_claim",
		Description: "Guide an end-to-end claim review",
		Arguments: []*mcp.PromptArgument{
			{Name: "claim_number", Description: "Claim number to process", Required: true},
		},
	}, func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		claimNumber := req.Params.Arguments["claim_number"]
		text := fmt.Sprintf(
			"Process insurance claim %s through the full pipeline. "+
				"Use the process_claim_full tool with the claim data, then summarize "+
				"the coverage determination, deductible, settlement amount, and any "+
				"fraud indicators found.", claimNumber)
		return promptResult("End-to-end claim processing", text), nil
	})

	server.AddPrompt(&mcp.Prompt{
		Name:        "fraud_analysis",
		Description: "Guide a focused fraud review of a claim",
		Arguments: []*mcp.PromptArgument{
			{Name: "claim_number", Description: "Claim number to analyze", Required: true},
		},
	}, func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		claimNumber := req.Params.Arguments["claim_number"]
		text := fmt.Sprintf(
			"Analyze claim %s for potential fraud. Use the detect_fraud tool, "+
				"then explain each flagged indicator, the overall fraud score and "+
				"severity, and whether the claim requires manual review.", claimNumber)
		return promptResult("Fraud indicator analysis", text), nil
	})
}

func promptResult(description, text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: description,
		Messages: []*mcp.PromptMessage{
			{Role: "user", Content: &mcp.TextContent{Text: text}},
		},
	}
}
