package api

import (
	"fmt"
	"net/http"

	"github.com/claimsight/claims-agent/internal/a2a"
	"github.com/claimsight/claims-agent/internal/api/middleware"
	"github.com/claimsight/claims-agent/internal/models"
	"github.com/claimsight/claims-agent/internal/orchestrator"
	"github.com/claimsight/claims-agent/internal/tools"
	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog"
)

type Handler struct {
	pipeline   *orchestrator.Pipeline
	router     *a2a.Router
	registry   *a2a.Registry
	dispatcher *tools.Dispatcher
	logger     *zerolog.Logger
}

func NewHandler(
	pipeline *orchestrator.Pipeline,
	router *a2a.Router,
	registry *a2a.Registry,
	dispatcher *tools.Dispatcher,
	logger *zerolog.Logger,
) *Handler {
	return &Handler{
		pipeline:   pipeline,
		router:     router,
		registry:   registry,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// AgentListResponse wraps the registry listing.
type AgentListResponse struct {
	Agents []models.AgentCard `json:"agents"`
	Count  int                `json:"count"`
}

// ToolListResponse wraps the tool catalog.
type ToolListResponse struct {
	Tools []tools.ToolSpec `json:"tools"`
	Count int              `json:"count"`
}

// ToolCallRequest names a tool and carries its arguments.
type ToolCallRequest struct {
	ToolName  string         `json:"tool_name"`
	Arguments map[string]any `json:"arguments"`
}

// POST /api/v1/claims/process
// Body: ClaimProcessRequest
// Returns: PipelineResult
func (h *Handler) ProcessClaim(req *restful.Request, resp *restful.Response) {
	var claimRequest models.ClaimProcessRequest
	if err := req.ReadEntity(&claimRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	h.logger.Info().
		Str("claim_number", claimRequest.ClaimNumber).
		Str("processing_type", claimRequest.ProcessingType).
		Msg("Start claim processing")

	ctx := req.Request.Context()
	result, err := h.pipeline.Process(ctx, claimRequest.RawClaim(), models.ProcessingType(claimRequest.ProcessingType))
	if err != nil {
		h.logger.Error().Err(err).
			Str("claim_number", claimRequest.ClaimNumber).
			Msg("Claim processing failed")
		middleware.HandleError(resp, err, http.StatusUnprocessableEntity)
		return
	}

	h.logger.Info().
		Str("claim_number", claimRequest.ClaimNumber).
		Int64("processing_time_ms", result.ProcessingTimeMS).
		Msg("Claim processing complete")

	resp.WriteHeaderAndEntity(http.StatusOK, result)
}

// GET /api/v1/agents
func (h *Handler) ListAgents(req *restful.Request, resp *restful.Response) {
	cards := h.registry.AgentCards()
	resp.WriteHeaderAndEntity(http.StatusOK, AgentListResponse{
		Agents: cards,
		Count:  len(cards),
	})
}

// GET /api/v1/agents/{agent_id}
func (h *Handler) GetAgent(req *restful.Request, resp *restful.Response) {
	agentID := req.PathParameter("agent_id")
	card, ok := h.registry.AgentCard(agentID)
	if !ok {
		middleware.HandleError(resp, fmt.Errorf("agent %s not found", agentID), http.StatusNotFound)
		return
	}
	resp.WriteHeaderAndEntity(http.StatusOK, card)
}

// POST /api/v1/a2a/route
// Body: a2a.Message
// Returns: a2a.Envelope (status 200 even for routing errors; the envelope
// carries the error so callers never see a raised failure)
func (h *Handler) RouteMessage(req *restful.Request, resp *restful.Response) {
	var msg a2a.Message
	if err := req.ReadEntity(&msg); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	h.logger.Info().
		Str("to_agent", msg.ToAgent).
		Str("action", msg.Action).
		Str("correlation_id", msg.CorrelationID).
		Msg("Routing agent message")

	envelope := h.router.RouteMessage(req.Request.Context(), msg)
	resp.WriteHeaderAndEntity(http.StatusOK, envelope)
}

// GET /api/v1/tools
func (h *Handler) ListTools(req *restful.Request, resp *restful.Response) {
	specs := h.dispatcher.ListTools()
	resp.WriteHeaderAndEntity(http.StatusOK, ToolListResponse{
		Tools: specs,
		Count: len(specs),
	})
}

// POST /api/v1/tools/call
func (h *Handler) CallTool(req *restful.Request, resp *restful.Response) {
	var callRequest ToolCallRequest
	if err := req.ReadEntity(&callRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	h.logger.Info().
		Str("tool_name", callRequest.ToolName).
		Msg("Dispatching tool call")

	result := h.dispatcher.Call(req.Request.Context(), callRequest.ToolName, callRequest.Arguments)
	resp.WriteHeaderAndEntity(http.StatusOK, result)
}

// Health handler GET /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
	})
}
