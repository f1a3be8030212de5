package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/claimsight/claims-agent/internal/claim"
	"github.com/claimsight/claims-agent/internal/decision"
	"github.com/claimsight/claims-agent/internal/fraud"
	"github.com/claimsight/claims-agent/internal/models"
	"github.com/claimsight/claims-agent/internal/policy"
	"github.com/claimsight/claims-agent/internal/recommend"
	"github.com/rs/zerolog"
)

// Stage step and agent names as they appear in the processing log.
const (
	stepClaimParsing    = "claim_parsing"
	stepPolicyRetrieval = "policy_retrieval"
	stepRecommendation  = "recommendation"
	stepFraudDetection  = "fraud_detection"
	stepDecision        = "decision"

	agentClaimParser     = "claim_parser"
	agentPolicyRetriever = "policy_retriever"
	agentRecommendation  = "recommendation"
	agentFraudDetector   = "fraud_detector"
	agentDecisionMaker   = "decision_maker"
)

// Pipeline sequences the claim processing stages: Parse -> PolicyRetrieve ->
// Recommend -> FraudDetect -> Decide, honoring early-exit processing types.
// It never retries a stage; each stage owns its internal fallback.
type Pipeline struct {
	normalizer  *claim.Normalizer
	planner     *policy.Planner
	retriever   *policy.Retriever
	recommender *recommend.Engine
	fraudScorer *fraud.Scorer
	decider     *decision.Engine
	logger      *zerolog.Logger
}

func NewPipeline(
	normalizer *claim.Normalizer,
	planner *policy.Planner,
	retriever *policy.Retriever,
	recommender *recommend.Engine,
	fraudScorer *fraud.Scorer,
	decider *decision.Engine,
	logger *zerolog.Logger,
) *Pipeline {
	return &Pipeline{
		normalizer:  normalizer,
		planner:     planner,
		retriever:   retriever,
		recommender: recommender,
		fraudScorer: fraudScorer,
		decider:     decider,
		logger:      logger,
	}
}

// Process runs the pipeline over raw claim input. An unhandled stage failure
// aborts the remaining stages and propagates; the caller is responsible for
// marking the claim for manual review.
func (p *Pipeline) Process(ctx context.Context, raw map[string]any, processingType models.ProcessingType) (*models.PipelineResult, error) {
	if processingType == "" {
		processingType = models.ProcessingFull
	}

	started := time.Now()
	result := &models.PipelineResult{}
	log := newStageLog()

	// Stage 1: Parse
	parseStart := log.start(stepClaimParsing, agentClaimParser)
	claimInfo, err := p.normalizer.Normalize(raw)
	if err != nil {
		log.fail(stepClaimParsing, agentClaimParser, parseStart, err)
		result.ProcessingLog = log.entries
		return result, fmt.Errorf("claim parsing failed: %w", err)
	}
	log.complete(stepClaimParsing, agentClaimParser, parseStart,
		fmt.Sprintf("Parsed claim %s", displayClaimNumber(claimInfo)))
	result.ClaimInfo = claimInfo

	if processingType == models.ProcessingFraudCheck {
		return p.fraudCheckOnly(ctx, claimInfo, result, log, started)
	}

	// Stage 2: Generate queries and retrieve policy text
	retrieveStart := log.start(stepPolicyRetrieval, agentPolicyRetriever)
	queries := p.planner.GenerateQueries(ctx, claimInfo)
	policyCtx := p.retriever.Retrieve(ctx, queries)
	log.complete(stepPolicyRetrieval, agentPolicyRetriever, retrieveStart,
		fmt.Sprintf("Retrieved policy text with %d queries (%s)", len(queries.Queries), policyCtx.Source))
	result.Queries = &queries
	result.PolicyContext = &policyCtx

	if processingType == models.ProcessingPolicyLookup {
		return finish(result, log, started), nil
	}

	if processingType == models.ProcessingRecommendation {
		// Stage 3 only
		recStart := log.start(stepRecommendation, agentRecommendation)
		rec := p.recommender.Recommend(ctx, claimInfo, policyCtx.PolicyText)
		log.complete(stepRecommendation, agentRecommendation, recStart, rec.RecommendationSummary)
		result.Recommendation = &rec
		return finish(result, log, started), nil
	}

	// Stages 3 and 4 have no data dependency on each other and run
	// concurrently. Log entries keep logical stage order for audit.
	var (
		wg          sync.WaitGroup
		rec         models.Recommendation
		recStart    time.Time
		recDur      time.Duration
		fraudResult models.FraudAssessment
		fraudStart  time.Time
		fraudDur    time.Duration
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		recStart = time.Now()
		rec = p.recommender.Recommend(ctx, claimInfo, policyCtx.PolicyText)
		recDur = time.Since(recStart)
	}()
	go func() {
		defer wg.Done()
		fraudStart = time.Now()
		fraudResult = p.fraudScorer.Analyze(ctx, claimInfo)
		fraudDur = time.Since(fraudStart)
	}()
	wg.Wait()

	log.record(stepRecommendation, agentRecommendation, recStart, recDur, rec.RecommendationSummary)
	log.record(stepFraudDetection, agentFraudDetector, fraudStart, fraudDur,
		fmt.Sprintf("Fraud score: %.2f", fraudResult.FraudScore))
	result.Recommendation = &rec
	result.FraudAssessment = &fraudResult

	// Stage 5: Final decision
	decideStart := log.start(stepDecision, agentDecisionMaker)
	dec := p.decider.Decide(claimInfo, rec, &fraudResult)
	log.complete(stepDecision, agentDecisionMaker, decideStart,
		fmt.Sprintf("Decision: %s", coveredLabel(dec.Covered)))
	result.Decision = &dec

	p.logger.Info().
		Str("claim_number", claimInfo.ClaimNumber).
		Bool("covered", dec.Covered).
		Float64("fraud_score", fraudResult.FraudScore).
		Dur("elapsed", time.Since(started)).
		Msg("Claim processing completed")

	return finish(result, log, started), nil
}

func (p *Pipeline) fraudCheckOnly(
	ctx context.Context,
	claimInfo models.CanonicalClaim,
	result *models.PipelineResult,
	log *stageLog,
	started time.Time,
) (*models.PipelineResult, error) {
	fraudStart := log.start(stepFraudDetection, agentFraudDetector)
	fraudResult := p.fraudScorer.Analyze(ctx, claimInfo)
	log.complete(stepFraudDetection, agentFraudDetector, fraudStart,
		fmt.Sprintf("Fraud score: %.2f", fraudResult.FraudScore))
	result.FraudAssessment = &fraudResult

	// Minimal decision: fraud threshold only.
	result.Decision = &models.Decision{
		ClaimNumber: claimInfo.ClaimNumber,
		Covered:     fraudResult.FraudScore < decision.FraudDenialThreshold,
	}

	return finish(result, log, started), nil
}

func finish(result *models.PipelineResult, log *stageLog, started time.Time) *models.PipelineResult {
	result.ProcessingLog = log.entries
	result.ProcessingTimeMS = time.Since(started).Milliseconds()
	return result
}

func displayClaimNumber(c models.CanonicalClaim) string {
	if c.ClaimNumber == "" {
		return "N/A"
	}
	return c.ClaimNumber
}

func coveredLabel(covered bool) string {
	if covered {
		return "Covered"
	}
	return "Denied"
}

// stageLog builds the append-only processing log.
type stageLog struct {
	entries []models.ProcessingLogEntry
}

func newStageLog() *stageLog {
	return &stageLog{entries: []models.ProcessingLogEntry{}}
}

func (l *stageLog) start(step, agent string) time.Time {
	now := time.Now()
	l.entries = append(l.entries, models.ProcessingLogEntry{
		Step:      step,
		Agent:     agent,
		Status:    models.StepStarted,
		Timestamp: now,
	})
	return now
}

func (l *stageLog) complete(step, agent string, startedAt time.Time, summary string) {
	l.entries = append(l.entries, models.ProcessingLogEntry{
		Step:          step,
		Agent:         agent,
		Status:        models.StepCompleted,
		Duration:      time.Since(startedAt),
		ResultSummary: summary,
		Timestamp:     time.Now(),
	})
}

func (l *stageLog) fail(step, agent string, startedAt time.Time, err error) {
	l.entries = append(l.entries, models.ProcessingLogEntry{
		Step:          step,
		Agent:         agent,
		Status:        models.StepFailed,
		Duration:      time.Since(startedAt),
		ResultSummary: err.Error(),
		Timestamp:     time.Now(),
	})
}

// record appends a started/completed pair for a stage that already ran,
// preserving logical ordering for concurrently executed stages.
func (l *stageLog) record(step, agent string, startedAt time.Time, dur time.Duration, summary string) {
	l.entries = append(l.entries, models.ProcessingLogEntry{
		Step:      step,
		Agent:     agent,
		Status:    models.StepStarted,
		Timestamp: startedAt,
	})
	l.entries = append(l.entries, models.ProcessingLogEntry{
		Step:          step,
		Agent:         agent,
		Status:        models.StepCompleted,
		Duration:      dur,
		ResultSummary: summary,
		Timestamp:     startedAt.Add(dur),
	})
}
