package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-bridge/internal/api/dto"
	"github.com/spec-kit/helpdesk-bridge/internal/events"
	apperrors "github.com/spec-kit/helpdesk-bridge/pkg/util"
)

// WebhookHandler receives upstream status-change notifications. It
// acknowledges before any processing: the sender enforces short response
// timeouts and retries anything slow, so the real work goes through the
// background dispatcher.
type WebhookHandler struct {
	dispatcher  events.Dispatcher
	sharedToken string
	logger      *zap.Logger
}

// NewWebhookHandler constructs handler. sharedToken may be empty, which
// disables webhook authentication.
func NewWebhookHandler(dispatcher events.Dispatcher, sharedToken string, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{dispatcher: dispatcher, sharedToken: sharedToken, logger: logger}
}

// StatusChanged POST /webhook.
func (h *WebhookHandler) StatusChanged(c *fiber.Ctx) error {
	if h.sharedToken != "" && c.Get("Authorization") != "Bearer "+h.sharedToken {
		return apperrors.NewUnauthorized("invalid webhook token")
	}

	var req dto.StatusChangeWebhook
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Ticket == nil || req.Ticket.ID == 0 {
		return apperrors.NewValidationError("ticket data required", nil)
	}

	payload := events.WebhookStatusChangedPayload{
		TicketID:       req.Ticket.ID,
		Status:         req.Ticket.Status,
		PreviousStatus: req.PreviousStatus,
		Tags:           req.Ticket.Tags,
		Description:    req.Ticket.Description,
	}
	if req.Actor != nil {
		payload.ActorID = req.Actor.ID
	}

	accepted := h.dispatcher.Publish(events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventWebhookStatusChanged,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
	if !accepted {
		h.logger.Warn("webhook event dropped", zap.Int64("ticket_id", req.Ticket.ID))
	}

	return c.JSON(fiber.Map{
		"ticketId": req.Ticket.ID,
		"status":   req.Ticket.Status,
	})
}
