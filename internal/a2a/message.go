package a2a

import (
	"time"

	"github.com/google/uuid"
)

// Message is the agent-to-agent wire format. The correlation id links a
// routed request to its eventual response envelope.
type Message struct {
	MessageID     string         `json:"message_id"`
	FromAgent     string         `json:"from_agent"`
	ToAgent       string         `json:"to_agent"`
	Action        string         `json:"action"`
	Payload       map[string]any `json:"payload"`
	CorrelationID string         `json:"correlation_id"`
	Timestamp     time.Time      `json:"timestamp"`
}

// NewMessage fills in message id, correlation id, and timestamp when absent.
func NewMessage(fromAgent, toAgent, action string, payload map[string]any, correlationID string) Message {
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	return Message{
		MessageID:     uuid.NewString(),
		FromAgent:     fromAgent,
		ToAgent:       toAgent,
		Action:        action,
		Payload:       payload,
		CorrelationID: correlationID,
		Timestamp:     time.Now(),
	}
}

type EnvelopeStatus string

const (
	StatusSuccess EnvelopeStatus = "success"
	StatusError   EnvelopeStatus = "error"
)

// Envelope is the uniform response for every routing attempt, successful or
// failed. Routing never raises across the dispatch boundary.
type Envelope struct {
	Status        EnvelopeStatus `json:"status"`
	MessageID     string         `json:"message_id"`
	CorrelationID string         `json:"correlation_id"`
	FromAgent     string         `json:"from_agent,omitempty"`
	Result        any            `json:"result,omitempty"`
	Error         string         `json:"error,omitempty"`
	Timestamp     time.Time      `json:"timestamp"`
}

func successEnvelope(msg Message, result any) Envelope {
	return Envelope{
		Status:        StatusSuccess,
		MessageID:     uuid.NewString(),
		CorrelationID: msg.CorrelationID,
		FromAgent:     msg.ToAgent,
		Result:        result,
		Timestamp:     time.Now(),
	}
}

func errorEnvelope(msg Message, errMsg string) Envelope {
	return Envelope{
		Status:        StatusError,
		MessageID:     msg.MessageID,
		CorrelationID: msg.CorrelationID,
		Error:         errMsg,
		Timestamp:     time.Now(),
	}
}
