package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	// EventWebhookStatusChanged fires when the upstream webhook reports a
	// ticket status transition.
	EventWebhookStatusChanged EventType = "webhook_status_changed"
)

// Event represents a background task published by handlers.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// WebhookStatusChangedPayload carries the webhook notification fields the
// background processor needs.
type WebhookStatusChangedPayload struct {
	TicketID       int64    `json:"ticket_id"`
	Status         string   `json:"status"`
	PreviousStatus string   `json:"previous_status"`
	Tags           []string `json:"tags,omitempty"`
	Description    string   `json:"description,omitempty"`
	ActorID        *int64   `json:"actor_id,omitempty"`
}
