package dto

// WebhookTicket is the ticket fragment of a status-change notification.
type WebhookTicket struct {
	ID          int64    `json:"id"`
	Status      string   `json:"status"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
}

// WebhookActor identifies who triggered the transition upstream.
type WebhookActor struct {
	ID   *int64 `json:"id"`
	Name string `json:"name"`
}

// StatusChangeWebhook payload as delivered by the upstream sender.
type StatusChangeWebhook struct {
	Ticket         *WebhookTicket `json:"ticket"`
	PreviousStatus string         `json:"previous_status"`
	Actor          *WebhookActor  `json:"actor"`
}
