package a2a

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Router resolves a message's target agent and action against the registry
// and executes the bound handler. Every outcome, including unknown targets,
// unknown actions, and handler failures, is returned as an envelope carrying
// the original correlation id.
type Router struct {
	registry *Registry
	logger   *zerolog.Logger
}

func NewRouter(registry *Registry, logger *zerolog.Logger) *Router {
	return &Router{
		registry: registry,
		logger:   logger,
	}
}

func (r *Router) RouteMessage(ctx context.Context, msg Message) Envelope {
	r.logger.Info().
		Str("from", msg.FromAgent).
		Str("to", msg.ToAgent).
		Str("action", msg.Action).
		Str("correlation_id", msg.CorrelationID).
		Msg("routing message")

	handler, agentKnown, actionKnown := r.registry.resolve(msg.ToAgent, msg.Action)
	if !agentKnown {
		r.logger.Warn().Str("to", msg.ToAgent).Msg("unknown target agent")
		return errorEnvelope(msg, fmt.Sprintf("Agent %s not found", msg.ToAgent))
	}
	if !actionKnown {
		r.logger.Warn().
			Str("to", msg.ToAgent).
			Str("action", msg.Action).
			Msg("unknown action")
		return errorEnvelope(msg, fmt.Sprintf("Unknown action %s for agent %s", msg.Action, msg.ToAgent))
	}

	result, err := func() (result any, err error) {
		// A handler must not take the service down with it: a panic inside a
		// stage becomes an error envelope like any other failure.
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("agent %s panicked: %v", msg.ToAgent, rec)
			}
		}()
		return handler(ctx, msg.Payload)
	}()
	if err != nil {
		r.logger.Error().Err(err).
			Str("to", msg.ToAgent).
			Str("action", msg.Action).
			Msg("agent action failed")
		return errorEnvelope(msg, err.Error())
	}

	return successEnvelope(msg, result)
}
