package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-bridge/internal/config"
	"github.com/spec-kit/helpdesk-bridge/internal/events"
	"github.com/spec-kit/helpdesk-bridge/internal/helpdesk"
)

// WebhookService processes ticket status-change notifications after the
// webhook response has already been acknowledged. All failures are logged
// only; there is no caller left to receive them.
type WebhookService struct {
	client   *helpdesk.Client
	comments *CommentService
	cfg      config.HelpdeskConfig
	logger   *zap.Logger
}

// NewWebhookService creates the service.
func NewWebhookService(client *helpdesk.Client, comments *CommentService, cfg config.HelpdeskConfig, logger *zap.Logger) *WebhookService {
	return &WebhookService{client: client, comments: comments, cfg: cfg, logger: logger}
}

// RegisterHandlers subscribes to background events.
func (s *WebhookService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventWebhookStatusChanged, s.handleStatusChanged)
}

func (s *WebhookService) handleStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.WebhookStatusChangedPayload)
	if !ok {
		s.logger.Error("unexpected webhook payload type", zap.String("event_id", event.ID))
		return nil
	}
	return s.ProcessStatusChange(ctx, payload)
}

// ProcessStatusChange appends the closing comment for a newly solved,
// chatbot-managed ticket. Redelivered webhooks are absorbed by scanning the
// thread for an existing closing comment before posting another.
func (s *WebhookService) ProcessStatusChange(ctx context.Context, payload events.WebhookStatusChangedPayload) error {
	log := s.logger.With(zap.Int64("ticket_id", payload.TicketID))

	if payload.Status != "solved" {
		log.Debug("ignoring webhook, ticket not solved", zap.String("status", payload.Status))
		return nil
	}
	if payload.PreviousStatus == "solved" {
		log.Debug("ignoring webhook, ticket was already solved")
		return nil
	}

	managed, err := s.isManaged(ctx, payload)
	if err != nil {
		log.Error("managed-ticket check failed", zap.Error(err))
		return err
	}
	if !managed {
		log.Debug("ignoring webhook, ticket not managed by this service")
		return nil
	}

	comments, err := s.client.ListComments(ctx, payload.TicketID)
	if err != nil {
		log.Error("comment scan failed", zap.Error(err))
		return err
	}
	for _, comment := range comments {
		if strings.Contains(comment.Body, ClosingMessage) {
			log.Info("closing comment already present, skipping")
			return nil
		}
	}

	if _, err := s.comments.SolveTicket(ctx, payload.TicketID); err != nil {
		log.Error("closing comment failed", zap.Error(err))
		return err
	}
	log.Info("closing comment appended")
	return nil
}

// isManaged checks the chatbot tag, falling back to a description marker
// when the webhook carried no tags.
func (s *WebhookService) isManaged(ctx context.Context, payload events.WebhookStatusChangedPayload) (bool, error) {
	if len(payload.Tags) > 0 {
		return containsTag(payload.Tags, s.cfg.ChatbotTag), nil
	}

	ticket, err := s.client.GetTicket(ctx, payload.TicketID)
	if err != nil {
		return false, err
	}
	if containsTag(ticket.Tags, s.cfg.ChatbotTag) {
		return true, nil
	}
	return strings.Contains(ticket.Description, s.cfg.DescriptionMarker), nil
}

func containsTag(tags []string, target string) bool {
	for _, tag := range tags {
		if tag == target {
			return true
		}
	}
	return false
}
