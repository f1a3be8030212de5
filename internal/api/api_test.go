package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog"

	"github.com/claimsight/claims-agent/internal/a2a"
	"github.com/claimsight/claims-agent/internal/api"
	"github.com/claimsight/claims-agent/internal/api/middleware"
	"github.com/claimsight/claims-agent/internal/claim"
	"github.com/claimsight/claims-agent/internal/config"
	"github.com/claimsight/claims-agent/internal/decision"
	"github.com/claimsight/claims-agent/internal/document"
	"github.com/claimsight/claims-agent/internal/fraud"
	"github.com/claimsight/claims-agent/internal/models"
	"github.com/claimsight/claims-agent/internal/orchestrator"
	"github.com/claimsight/claims-agent/internal/policy"
	"github.com/claimsight/claims-agent/internal/recommend"
	"github.com/claimsight/claims-agent/internal/tools"
)

// setupTestAPI builds the full API over deterministic stages: no reasoning
// backend, no retrieval store.
func setupTestAPI(t *testing.T) *restful.Container {
	t.Helper()

	logger := zerolog.Nop()
	stages := a2a.Stages{
		Normalizer:  claim.NewNormalizer(&logger),
		Planner:     policy.NewPlanner(nil, &logger),
		Retriever:   policy.NewRetriever(nil, &logger),
		Recommender: recommend.NewEngine(nil, &logger),
		FraudScorer: fraud.NewScorer(config.Default(), nil, &logger),
		Decider:     decision.NewEngine(&logger),
		Analyzer:    document.NewAnalyzer(nil, &logger),
	}
	pipeline := orchestrator.NewPipeline(
		stages.Normalizer,
		stages.Planner,
		stages.Retriever,
		stages.Recommender,
		stages.FraudScorer,
		stages.Decider,
		&logger,
	)
	registry := a2a.NewClaimsRegistry(stages, &logger)
	router := a2a.NewRouter(registry, &logger)
	dispatcher := tools.NewClaimsDispatcher(stages, pipeline, &logger)

	handler := api.NewHandler(pipeline, router, registry, dispatcher, &logger)
	container := restful.NewContainer()
	container.Filter(middleware.RequestLogger(&logger))
	container.Filter(middleware.Recover(&logger))
	api.RegisterRoutes(container, handler)

	return container
}

func TestAPI_Health(t *testing.T) {
	container := setupTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	recorder := httptest.NewRecorder()
	container.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", recorder.Code)
	}

	var response api.HealthResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response.Status != "ok" {
		t.Errorf("Expected status 'ok', got '%s'", response.Status)
	}
}

func TestAPI_ProcessClaim(t *testing.T) {
	container := setupTestAPI(t)

	claimRequest := models.ClaimProcessRequest{
		ClaimNumber:         "CLM-2024-700",
		LossType:            "collision",
		LossDescription:     "Rear-end collision at intersection caused bumper and trunk damage requiring repair",
		EstimatedRepairCost: 4200,
		PoliceReportNumber:  "RPT-100",
	}
	body, _ := json.Marshal(claimRequest)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/claims/process", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	container.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var result models.PipelineResult
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if result.Decision == nil || !result.Decision.Covered {
		t.Error("Expected covered decision")
	}
	if result.ClaimInfo.ClaimNumber != "CLM-2024-700" {
		t.Errorf("Unexpected claim number %q", result.ClaimInfo.ClaimNumber)
	}
}

func TestAPI_ProcessClaim_InvalidClaim(t *testing.T) {
	container := setupTestAPI(t)

	body := []byte(`{"claim_number": "CLM-2024-701", "estimated_repair_cost": -50}`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/claims/process", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	container.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected status 422, got %d", recorder.Code)
	}
}

func TestAPI_ListAgents(t *testing.T) {
	container := setupTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/agents", nil)
	recorder := httptest.NewRecorder()
	container.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", recorder.Code)
	}

	var response api.AgentListResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response.Count != 6 {
		t.Errorf("Expected 6 agents, got %d", response.Count)
	}
}

func TestAPI_GetAgent_NotFound(t *testing.T) {
	container := setupTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/agents/nonexistent", nil)
	recorder := httptest.NewRecorder()
	container.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", recorder.Code)
	}
}

func TestAPI_RouteMessage_UnknownAgent(t *testing.T) {
	container := setupTestAPI(t)

	msg := a2a.NewMessage("client", "nonexistent", "act", nil, "corr-9")
	body, _ := json.Marshal(msg)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/a2a/route", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	container.ServeHTTP(recorder, req)

	// Routing failures still answer 200; the envelope carries the error.
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", recorder.Code)
	}

	var envelope a2a.Envelope
	if err := json.Unmarshal(recorder.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if envelope.Status != a2a.StatusError {
		t.Errorf("Expected error envelope, got %s", envelope.Status)
	}
	if envelope.CorrelationID != "corr-9" {
		t.Errorf("Expected correlation id echoed, got %q", envelope.CorrelationID)
	}
}

func TestAPI_ListTools(t *testing.T) {
	container := setupTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tools", nil)
	recorder := httptest.NewRecorder()
	container.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", recorder.Code)
	}

	var response api.ToolListResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response.Count != 8 {
		t.Errorf("Expected 8 tools, got %d", response.Count)
	}
}

func TestAPI_CallTool_Unknown(t *testing.T) {
	container := setupTestAPI(t)

	body := []byte(`{"tool_name": "mystery", "arguments": {}}`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tools/call", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	container.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", recorder.Code)
	}

	var result tools.ToolResult
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if result.Status != "error" {
		t.Errorf("Expected error result, got %s", result.Status)
	}
}
