package models

import (
	"time"
)

type LossType string

const (
	LossTypeCollision     LossType = "collision"
	LossTypeComprehensive LossType = "comprehensive"
	LossTypeLiability     LossType = "liability"
	LossTypeTheft         LossType = "theft"
	LossTypeVandalism     LossType = "vandalism"
	LossTypeWeather       LossType = "weather"
	LossTypeOther         LossType = "other"
)

type ProcessingType string

const (
	ProcessingFull           ProcessingType = "full"
	ProcessingFraudCheck     ProcessingType = "fraud_check"
	ProcessingPolicyLookup   ProcessingType = "policy_lookup"
	ProcessingRecommendation ProcessingType = "recommendation"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// CanonicalClaim is the validated, normalized claim record consumed by every
// pipeline stage. Immutable once produced by the normalizer.
type CanonicalClaim struct {
	ClaimNumber         string         `json:"claim_number"`
	PolicyNumber        string         `json:"policy_number"`
	ClaimantName        string         `json:"claimant_name"`
	DateOfLoss          string         `json:"date_of_loss"`
	LossDescription     string         `json:"loss_description"`
	LossType            LossType       `json:"loss_type"`
	EstimatedRepairCost float64        `json:"estimated_repair_cost"`
	VehicleDetails      map[string]any `json:"vehicle_details,omitempty"`
	ThirdPartyInvolved  bool           `json:"third_party_involved"`
	PoliceReportNumber  string         `json:"police_report_number,omitempty"`
}

// PolicyQuerySet is an ordered, never-empty set of retrieval queries.
type PolicyQuerySet struct {
	Queries []string `json:"queries"`
}

type PolicySource string

const (
	SourceRetrieved       PolicySource = "retrieved"
	SourceDefault         PolicySource = "default"
	SourceDefaultFallback PolicySource = "default_fallback"
)

// PolicyContext is the assembled policy text with its provenance.
type PolicyContext struct {
	PolicyText      string       `json:"policy_text"`
	Source          PolicySource `json:"source"`
	ChunksRetrieved int          `json:"chunks_retrieved"`
}

type Recommendation struct {
	PolicySection         string   `json:"policy_section"`
	RecommendationSummary string   `json:"recommendation_summary"`
	Deductible            *float64 `json:"deductible"`
	SettlementAmount      *float64 `json:"settlement_amount"`
}

type FraudFlag struct {
	Indicator   string   `json:"indicator"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

type FraudAssessment struct {
	FraudScore     float64     `json:"fraud_score"`
	Severity       Severity    `json:"severity"`
	Flags          []FraudFlag `json:"flags"`
	FlagCount      int         `json:"flag_count"`
	Recommendation string      `json:"recommendation"`
	RequiresReview bool        `json:"requires_review"`
}

// Decision is the terminal artifact of the pipeline. Deductible and payout
// are zeroed whenever Covered is false.
type Decision struct {
	ClaimNumber       string   `json:"claim_number"`
	Covered           bool     `json:"covered"`
	Deductible        float64  `json:"deductible"`
	RecommendedPayout float64  `json:"recommended_payout"`
	Notes             string   `json:"notes"`
	DecisionFactors   []string `json:"decision_factors"`
}

type StepStatus string

const (
	StepStarted   StepStatus = "started"
	StepCompleted StepStatus = "completed"
	StepFailed    StepStatus = "failed"
)

// ProcessingLogEntry records one stage transition. Entries are append-only
// and ordered by logical stage order.
type ProcessingLogEntry struct {
	Step          string        `json:"step"`
	Agent         string        `json:"agent"`
	Status        StepStatus    `json:"status"`
	Duration      time.Duration `json:"duration_ns,omitempty"`
	ResultSummary string        `json:"result_summary,omitempty"`
	Timestamp     time.Time     `json:"timestamp"`
}

// PipelineResult is the orchestrator output. Fields beyond ClaimInfo are
// populated according to the processing type that was requested.
type PipelineResult struct {
	ClaimInfo        CanonicalClaim       `json:"claim_info"`
	Queries          *PolicyQuerySet      `json:"queries,omitempty"`
	PolicyContext    *PolicyContext       `json:"policy_text,omitempty"`
	Recommendation   *Recommendation      `json:"recommendation,omitempty"`
	FraudAssessment  *FraudAssessment     `json:"fraud_analysis,omitempty"`
	Decision         *Decision            `json:"decision,omitempty"`
	ProcessingLog    []ProcessingLogEntry `json:"processing_log"`
	ProcessingTimeMS int64                `json:"processing_time_ms"`
}

// ClaimProcessRequest is the wire shape accepted by the API and the worker.
type ClaimProcessRequest struct {
	ClaimID             string         `json:"claim_id,omitempty"`
	ClaimNumber         string         `json:"claim_number"`
	PolicyNumber        string         `json:"policy_number"`
	ClaimantName        string         `json:"claimant_name"`
	DateOfLoss          string         `json:"date_of_loss"`
	LossDescription     string         `json:"loss_description"`
	LossType            string         `json:"loss_type"`
	EstimatedRepairCost float64        `json:"estimated_repair_cost"`
	VehicleDetails      map[string]any `json:"vehicle_details,omitempty"`
	ThirdPartyInvolved  bool           `json:"third_party_involved"`
	PoliceReportNumber  string         `json:"police_report_number,omitempty"`
	ProcessingType      string         `json:"processing_type,omitempty"`
}

// RawClaim converts the request into the untyped shape the normalizer accepts.
func (r ClaimProcessRequest) RawClaim() map[string]any {
	raw := map[string]any{
		"claim_number":          r.ClaimNumber,
		"policy_number":         r.PolicyNumber,
		"claimant_name":         r.ClaimantName,
		"date_of_loss":          r.DateOfLoss,
		"loss_description":      r.LossDescription,
		"loss_type":             r.LossType,
		"estimated_repair_cost": r.EstimatedRepairCost,
		"third_party_involved":  r.ThirdPartyInvolved,
	}
	if r.VehicleDetails != nil {
		raw["vehicle_details"] = r.VehicleDetails
	}
	if r.PoliceReportNumber != "" {
		raw["police_report_number"] = r.PoliceReportNumber
	}
	return raw
}

// DocumentAnalysis is the document analyzer output.
type DocumentAnalysis struct {
	DocumentType  string         `json:"document_type"`
	ExtractedData map[string]any `json:"extracted_data"`
	Confidence    float64        `json:"confidence"`
	Status        string         `json:"status"`
}

// AgentCapability describes one action an agent exposes.
type AgentCapability struct {
	Action      string `json:"action"`
	Description string `json:"description"`
}

// AgentCard is the discovery document for an addressable agent. Built once at
// startup, read-only; it never drives dispatch directly.
type AgentCard struct {
	AgentID      string            `json:"agent_id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Protocol     string            `json:"protocol"`
	Capabilities []AgentCapability `json:"capabilities"`
	Status       string            `json:"status"`
}
