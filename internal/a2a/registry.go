package a2a

import (
	"context"

	"github.com/claimsight/claims-agent/internal/models"
	"github.com/rs/zerolog"
)

const protocolVersion = "a2a/1.0"

// ActionHandler executes one agent action against an already-decoded payload.
// Handlers return an error for malformed payloads; the router converts every
// error into an error envelope.
type ActionHandler func(ctx context.Context, payload map[string]any) (any, error)

type registeredAgent struct {
	card    models.AgentCard
	actions map[string]ActionHandler
}

// Registry is the closed table of addressable agents and their actions,
// built once at startup. Discovery reads the cards; dispatch resolves
// against the action table, never by reflection.
type Registry struct {
	agents map[string]*registeredAgent
	order  []string
	logger *zerolog.Logger
}

func NewRegistry(logger *zerolog.Logger) *Registry {
	return &Registry{
		agents: make(map[string]*registeredAgent),
		logger: logger,
	}
}

// Register adds an agent with its discovery card and action table. The card's
// capability list is derived from the table so discovery and dispatch cannot
// drift apart.
func (r *Registry) Register(card models.AgentCard, actions map[string]ActionHandler, descriptions map[string]string) {
	card.Protocol = protocolVersion
	card.Status = "available"
	for action := range actions {
		card.Capabilities = append(card.Capabilities, models.AgentCapability{
			Action:      action,
			Description: descriptions[action],
		})
	}

	r.agents[card.AgentID] = &registeredAgent{
		card:    card,
		actions: actions,
	}
	r.order = append(r.order, card.AgentID)

	r.logger.Info().
		Str("agent_id", card.AgentID).
		Int("actions", len(actions)).
		Msg("agent registered")
}

func (r *Registry) resolve(agentID, action string) (ActionHandler, bool, bool) {
	agent, ok := r.agents[agentID]
	if !ok {
		return nil, false, false
	}
	handler, ok := agent.actions[action]
	return handler, true, ok
}

// AgentCard returns the discovery card for one agent.
func (r *Registry) AgentCard(agentID string) (models.AgentCard, bool) {
	agent, ok := r.agents[agentID]
	if !ok {
		return models.AgentCard{}, false
	}
	return agent.card, true
}

// AgentCards returns all cards in registration order.
func (r *Registry) AgentCards() []models.AgentCard {
	cards := make([]models.AgentCard, 0, len(r.order))
	for _, id := range r.order {
		cards = append(cards, r.agents[id].card)
	}
	return cards
}

// AgentIDs returns the registered agent identifiers in registration order.
func (r *Registry) AgentIDs() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}
