package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"

	"github.com/claimsight/claims-agent/internal/a2a"
	"github.com/claimsight/claims-agent/internal/api/middleware"
	"github.com/claimsight/claims-agent/internal/models"
	"github.com/claimsight/claims-agent/internal/tools"
)

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	// Health endpoint
	ws.
		Route(ws.GET("health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.POST("/claims/process").
			To(handler.ProcessClaim).
			Doc("Process an insurance claim through the agent pipeline").
			Metadata(restfulspec.KeyOpenAPITags, []string{"claims"}).
			Reads(models.ClaimProcessRequest{}).
			Writes(models.PipelineResult{}).
			Returns(200, "OK", models.PipelineResult{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(422, "Claim Rejected", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.GET("/agents").
			To(handler.ListAgents).
			Doc("List registered agents and their capabilities").
			Metadata(restfulspec.KeyOpenAPITags, []string{"agents"}).
			Writes(AgentListResponse{}).
			Returns(200, "OK", AgentListResponse{}))

	ws.
		Route(ws.GET("/agents/{agent_id}").
			To(handler.GetAgent).
			Doc("Get a single agent card").
			Metadata(restfulspec.KeyOpenAPITags, []string{"agents"}).
			Param(ws.PathParameter("agent_id", "Agent identifier (claim_parser, policy_retriever, recommendation, fraud_detector, decision_maker, document_analyzer)").DataType("string")).
			Writes(models.AgentCard{}).
			Returns(200, "OK", models.AgentCard{}).
			Returns(404, "Agent Not Found", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/a2a/route").
			To(handler.RouteMessage).
			Doc("Route a message to an agent action").
			Metadata(restfulspec.KeyOpenAPITags, []string{"a2a"}).
			Reads(a2a.Message{}).
			Writes(a2a.Envelope{}).
			Returns(200, "OK", a2a.Envelope{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}))

	ws.
		Route(ws.GET("/tools").
			To(handler.ListTools).
			Doc("List available tools with their input schemas").
			Metadata(restfulspec.KeyOpenAPITags, []string{"tools"}).
			Writes(ToolListResponse{}).
			Returns(200, "OK", ToolListResponse{}))

	ws.
		Route(ws.POST("/tools/call").
			To(handler.CallTool).
			Doc("Invoke a tool by name").
			Metadata(restfulspec.KeyOpenAPITags, []string{"tools"}).
			Reads(ToolCallRequest{}).
			Writes(tools.ToolResult{}).
			Returns(200, "OK", tools.ToolResult{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}))

	container.Add(ws)
}
