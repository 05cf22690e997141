package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-bridge/internal/config"
	"github.com/spec-kit/helpdesk-bridge/internal/helpdesk"
	"github.com/spec-kit/helpdesk-bridge/internal/search"
	"github.com/spec-kit/helpdesk-bridge/internal/textutil"
	apperrors "github.com/spec-kit/helpdesk-bridge/pkg/util"
)

// fallbackRequesterName labels tickets opened by visitors who gave no name.
const fallbackRequesterName = "chat visitor"

// TicketService coordinates the search → create → comment → tag workflow.
type TicketService struct {
	client     *helpdesk.Client
	search     *search.Service
	cfg        config.TicketConfig
	chatbotTag string
	logger     *zap.Logger
}

// NewTicketService constructs the orchestrator.
func NewTicketService(client *helpdesk.Client, searchSvc *search.Service, cfg config.TicketConfig, chatbotTag string, logger *zap.Logger) *TicketService {
	return &TicketService{
		client:     client,
		search:     searchSvc,
		cfg:        cfg,
		chatbotTag: chatbotTag,
		logger:     logger,
	}
}

// SupportTicketInput describes a chat support request.
type SupportTicketInput struct {
	Message             string
	Name                string
	Email               string
	SearchQuery         string
	PerformSearch       *bool
	SkipTicketIfResults *bool
	Tags                []string
}

// SearchError is the structured record of a failed (but non-fatal) search
// step.
type SearchError struct {
	Message string `json:"message"`
}

// FeatureFlags describes which workflow features were active for a request.
type FeatureFlags struct {
	SearchEnabled       bool `json:"searchEnabled"`
	FederatedConfigured bool `json:"federatedConfigured"`
	SkipTicketIfResults bool `json:"skipTicketIfResults"`
}

// SupportTicketResult carries every field of the workflow outcome; fields
// for steps that failed or were skipped stay nil/false so clients never
// branch on absence.
type SupportTicketResult struct {
	TicketID        *int64
	RequesterID     *int64
	Search          *search.Response
	SearchPerformed bool
	SearchError     *SearchError
	TicketSkipped   bool
	SkipReason      string
	Features        FeatureFlags
}

// CreateSupportTicket runs the workflow. Only ticket creation is fatal; the
// search, confirmation comment, and tagging steps are isolated and logged.
// On a fatal error the returned result still carries the search outcome so
// the handler can render the degraded response body.
func (s *TicketService) CreateSupportTicket(ctx context.Context, input SupportTicketInput) (*SupportTicketResult, error) {
	result := &SupportTicketResult{
		Features: FeatureFlags{
			SearchEnabled:       s.cfg.SearchEnabled,
			FederatedConfigured: s.search.FederatedEnabled(),
			SkipTicketIfResults: s.skipIfResults(input),
		},
	}

	if raw := strings.TrimSpace(input.SearchQuery); raw != "" && s.searchRequested(input) {
		// Chat widgets forward the visitor's line verbatim, so strip the
		// transcript marker and conversational filler before searching.
		query := textutil.ExtractQuery(raw)
		if err := textutil.ValidateQuery(query); err != nil {
			s.logger.Debug("search skipped", zap.String("query", query), zap.Error(err))
		} else {
			result.SearchPerformed = true
			resp, err := s.search.Federated(ctx, query, 0, nil)
			if err != nil {
				result.SearchError = &SearchError{Message: err.Error()}
				s.logger.Warn("search step failed, continuing with ticket creation",
					zap.String("query", query), zap.Error(err))
			} else {
				result.Search = resp
			}
		}
	}

	if s.skipIfResults(input) && result.Search != nil && len(result.Search.Results) > 0 {
		result.TicketSkipped = true
		result.SkipReason = "knowledge base articles matched the search query"
		return result, nil
	}

	name := strings.TrimSpace(input.Name)
	hasUserInfo := name != "" || strings.TrimSpace(input.Email) != ""
	if name == "" {
		name = fallbackRequesterName
	}
	email := strings.TrimSpace(input.Email)
	if email == "" {
		email = fmt.Sprintf("chat-%s@placeholder.invalid", uuid.NewString()[:8])
	}

	tags := append([]string{s.cfg.ChannelTag}, input.Tags...)
	if hasUserInfo {
		tags = append(tags, "verified-user")
	} else {
		tags = append(tags, "anonymous-user")
	}

	ticket, err := s.client.CreateTicket(ctx, helpdesk.NewTicket{
		Subject:   fmt.Sprintf("support request from %s", name),
		Comment:   &helpdesk.TicketComment{Body: input.Message},
		Requester: &helpdesk.Requester{Name: name, Email: email},
		Tags:      tags,
	})
	if err != nil {
		return result, apperrors.NewUpstreamError("ticket creation failed", map[string]any{
			"cause": err.Error(),
		})
	}
	result.TicketID = &ticket.ID
	result.RequesterID = &ticket.RequesterID

	s.postConfirmation(ctx, ticket.ID)
	s.tagTicket(ctx, ticket.ID)

	return result, nil
}

// GetTicket relays a ticket metadata read.
func (s *TicketService) GetTicket(ctx context.Context, ticketID int64) (*helpdesk.Ticket, error) {
	ticket, err := s.client.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, mapTicketError(err, ticketID)
	}
	return ticket, nil
}

func (s *TicketService) searchRequested(input SupportTicketInput) bool {
	if input.PerformSearch != nil {
		return *input.PerformSearch
	}
	return s.cfg.SearchEnabled
}

func (s *TicketService) skipIfResults(input SupportTicketInput) bool {
	if input.SkipTicketIfResults != nil {
		return *input.SkipTicketIfResults
	}
	return s.cfg.SkipTicketIfResults
}

// postConfirmation appends the public creation acknowledgment. Best effort.
func (s *TicketService) postConfirmation(ctx context.Context, ticketID int64) {
	public := true
	body := fmt.Sprintf("Your support request #%d has been created. Our team will get back to you shortly.", ticketID)
	_, err := s.client.UpdateTicket(ctx, ticketID, helpdesk.TicketUpdate{
		Comment: &helpdesk.TicketComment{Body: body, Public: &public},
	})
	if err != nil {
		s.logger.Warn("confirmation comment failed", zap.Int64("ticket_id", ticketID), zap.Error(err))
	}
}

// tagTicket merges the chatbot marker tag onto the ticket. Best effort.
func (s *TicketService) tagTicket(ctx context.Context, ticketID int64) {
	_, err := s.client.UpdateTicket(ctx, ticketID, helpdesk.TicketUpdate{
		AdditionalTags: []string{s.chatbotTag},
	})
	if err != nil {
		s.logger.Warn("tagging failed", zap.Int64("ticket_id", ticketID), zap.Error(err))
	}
}
