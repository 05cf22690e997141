package worker

import (
	"github.com/spec-kit/helpdesk-bridge/internal/events"
	"github.com/spec-kit/helpdesk-bridge/internal/service"
)

// StartWebhookWorker registers webhook background handlers.
func StartWebhookWorker(dispatcher events.Dispatcher, webhookService *service.WebhookService) {
	if webhookService == nil {
		return
	}
	webhookService.RegisterHandlers(dispatcher)
}
