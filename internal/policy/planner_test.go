package policy

import (
	"context"
	"errors"
	"testing"

	"github.com/claimsight/claims-agent/internal/llm"
	"github.com/claimsight/claims-agent/internal/models"
	"github.com/rs/zerolog"
)

type MockLLMClient struct {
	ResponseToReturn *llm.LLMResponse
	ErrorToReturn    error
	WasCalled        bool
}

func (m *MockLLMClient) InvokeModel(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	m.WasCalled = true
	return m.ResponseToReturn, m.ErrorToReturn
}

func (m *MockLLMClient) InvokeModelWithRetry(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	m.WasCalled = true
	return m.ResponseToReturn, m.ErrorToReturn
}

func testLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func TestGenerateQueries_Deterministic(t *testing.T) {
	planner := NewPlanner(nil, testLogger())

	querySet := planner.GenerateQueries(context.Background(), models.CanonicalClaim{
		LossType:            models.LossTypeCollision,
		LossDescription:     "Rear-ended at a stop light",
		EstimatedRepairCost: 3000,
	})

	if len(querySet.Queries) != 3 {
		t.Fatalf("Expected 3 base queries, got %d: %v", len(querySet.Queries), querySet.Queries)
	}
	if querySet.Queries[0] != "collision coverage policy terms and conditions" {
		t.Errorf("Unexpected first query: %q", querySet.Queries[0])
	}
}

func TestGenerateQueries_ConditionalQueries(t *testing.T) {
	planner := NewPlanner(nil, testLogger())

	querySet := planner.GenerateQueries(context.Background(), models.CanonicalClaim{
		LossType:            models.LossTypeCollision,
		LossDescription:     "Multi-car accident on the highway",
		EstimatedRepairCost: 12000,
		ThirdPartyInvolved:  true,
	})

	if len(querySet.Queries) != 5 {
		t.Fatalf("Expected 5 queries (3 base + third party + high value), got %d", len(querySet.Queries))
	}

	wantExtra := map[string]bool{
		"third party liability coverage and procedures": false,
		"high value claim review and approval process":  false,
	}
	for _, q := range querySet.Queries {
		if _, ok := wantExtra[q]; ok {
			wantExtra[q] = true
		}
	}
	for q, seen := range wantExtra {
		if !seen {
			t.Errorf("Missing conditional query %q", q)
		}
	}
}

func TestGenerateQueries_TheftAndWeather(t *testing.T) {
	planner := NewPlanner(nil, testLogger())

	theft := planner.GenerateQueries(context.Background(), models.CanonicalClaim{
		LossType:        models.LossTypeTheft,
		LossDescription: "Vehicle missing from driveway",
	})
	if !containsQuery(theft.Queries, "theft coverage exclusions and requirements") {
		t.Errorf("Expected theft query, got %v", theft.Queries)
	}

	weather := planner.GenerateQueries(context.Background(), models.CanonicalClaim{
		LossType:        models.LossTypeCollision,
		LossDescription: "Severe weather pushed the car off the road",
	})
	if !containsQuery(weather.Queries, "comprehensive coverage weather related damage") {
		t.Errorf("Expected weather query, got %v", weather.Queries)
	}
}

func TestGenerateQueries_LLMReplacesDeterministic(t *testing.T) {
	mockClient := &MockLLMClient{
		ResponseToReturn: &llm.LLMResponse{
			Content: `{"queries": ["collision deductible schedule", "rental reimbursement limits"]}`,
		},
	}
	planner := NewPlanner(mockClient, testLogger())

	querySet := planner.GenerateQueries(context.Background(), models.CanonicalClaim{
		LossType:        models.LossTypeCollision,
		LossDescription: "Fender bender in parking lot",
	})

	if !mockClient.WasCalled {
		t.Fatal("Expected LLM client to be called")
	}
	if len(querySet.Queries) != 2 {
		t.Fatalf("Expected planned queries to replace the deterministic list, got %v", querySet.Queries)
	}
	if querySet.Queries[0] != "collision deductible schedule" {
		t.Errorf("Unexpected query: %q", querySet.Queries[0])
	}
}

func TestGenerateQueries_LLMErrorKeepsDeterministic(t *testing.T) {
	mockClient := &MockLLMClient{
		ErrorToReturn: errors.New("model timeout"),
	}
	planner := NewPlanner(mockClient, testLogger())

	querySet := planner.GenerateQueries(context.Background(), models.CanonicalClaim{
		LossType:        models.LossTypeCollision,
		LossDescription: "Fender bender in parking lot",
	})

	if len(querySet.Queries) != 3 {
		t.Errorf("Expected 3 deterministic queries on LLM failure, got %d", len(querySet.Queries))
	}
}

func TestGenerateQueries_InvalidJSONKeepsDeterministic(t *testing.T) {
	mockClient := &MockLLMClient{
		ResponseToReturn: &llm.LLMResponse{Content: "Here are some queries you could try..."},
	}
	planner := NewPlanner(mockClient, testLogger())

	querySet := planner.GenerateQueries(context.Background(), models.CanonicalClaim{
		LossType:        models.LossTypeCollision,
		LossDescription: "Fender bender in parking lot",
	})

	if len(querySet.Queries) != 3 {
		t.Errorf("Expected 3 deterministic queries on undecodable response, got %d", len(querySet.Queries))
	}
	if querySet.Queries[2] != "claim settlement procedures and limits" {
		t.Errorf("Deterministic list must be unchanged, got %v", querySet.Queries)
	}
}

func TestGenerateQueries_EmptyPlannedListKeepsDeterministic(t *testing.T) {
	mockClient := &MockLLMClient{
		ResponseToReturn: &llm.LLMResponse{Content: `{"queries": []}`},
	}
	planner := NewPlanner(mockClient, testLogger())

	querySet := planner.GenerateQueries(context.Background(), models.CanonicalClaim{
		LossType:        models.LossTypeCollision,
		LossDescription: "Fender bender in parking lot",
	})

	if len(querySet.Queries) != 3 {
		t.Errorf("Expected 3 deterministic queries for empty planned list, got %d", len(querySet.Queries))
	}
}

func containsQuery(queries []string, want string) bool {
	for _, q := range queries {
		if q == want {
			return true
		}
	}
	return false
}
