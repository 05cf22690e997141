package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-bridge/internal/helpdesk"
	apperrors "github.com/spec-kit/helpdesk-bridge/pkg/util"
)

// ClosingMessage is the fixed public comment appended when a ticket is
// solved. The webhook processor scans comment bodies for this exact text to
// keep redelivered webhooks idempotent, so it must stay a single constant.
const ClosingMessage = "This ticket has been closed. If you need anything else, just send us a new message and we'll be happy to help. Thank you!"

// CommentService relays comments between the chat client and the upstream
// ticket thread.
type CommentService struct {
	client        *helpdesk.Client
	fallbackOrder []string
	logger        *zap.Logger
}

// NewCommentService constructs the relay. fallbackOrder lists the strategies
// tried, in order, when no end-user token is supplied.
func NewCommentService(client *helpdesk.Client, fallbackOrder []string, logger *zap.Logger) *CommentService {
	if len(fallbackOrder) == 0 {
		fallbackOrder = []string{"ticket_update", "request_update"}
	}
	return &CommentService{client: client, fallbackOrder: fallbackOrder, logger: logger}
}

// CommentAttempt records one failed strategy in the fallback chain.
type CommentAttempt struct {
	Strategy string `json:"strategy"`
	Status   int    `json:"status"`
	Error    string `json:"error"`
}

// PostCommentResult reports which path delivered the comment.
type PostCommentResult struct {
	Strategy string
	Attempts []CommentAttempt
}

// Thread bundles a ticket's comment list with its requester id, since the
// chat client needs both to render the conversation.
type Thread struct {
	RequesterID int64
	Comments    []helpdesk.Comment
}

type commentStrategy struct {
	name string
	post func(ctx context.Context, ticketID int64, message string) error
}

// PostComment appends a public comment. With an end-user token the comment
// is posted directly as that identity; without one, each configured fallback
// strategy is tried in order and the error after exhaustion lists every
// attempt with its upstream status.
func (s *CommentService) PostComment(ctx context.Context, ticketID int64, message, userToken string) (*PostCommentResult, error) {
	if userToken != "" {
		if err := s.client.UpdateRequest(ctx, ticketID, message, userToken); err != nil {
			return nil, apperrors.NewUpstreamError("end-user comment failed", map[string]any{
				"cause": err.Error(),
			})
		}
		return &PostCommentResult{Strategy: "end_user"}, nil
	}

	attempts := make([]CommentAttempt, 0, len(s.fallbackOrder))
	for _, strategy := range s.strategies() {
		err := strategy.post(ctx, ticketID, message)
		if err == nil {
			return &PostCommentResult{Strategy: strategy.name, Attempts: attempts}, nil
		}
		attempts = append(attempts, CommentAttempt{
			Strategy: strategy.name,
			Status:   upstreamStatus(err),
			Error:    err.Error(),
		})
		s.logger.Warn("comment strategy failed",
			zap.Int64("ticket_id", ticketID),
			zap.String("strategy", strategy.name),
			zap.Error(err))
	}

	details := make([]map[string]any, 0, len(attempts))
	for _, attempt := range attempts {
		details = append(details, map[string]any{
			"strategy": attempt.Strategy,
			"status":   attempt.Status,
			"error":    attempt.Error,
		})
	}
	return nil, apperrors.NewFallbackExhausted("all comment strategies failed", details)
}

// PostPrivateComment adds an internal note, always with the service
// credential and never visible to the requester.
func (s *CommentService) PostPrivateComment(ctx context.Context, ticketID int64, message string) error {
	public := false
	body := fmt.Sprintf("[internal note %s] %s", time.Now().UTC().Format(time.RFC1123), message)
	_, err := s.client.UpdateTicket(ctx, ticketID, helpdesk.TicketUpdate{
		Comment: &helpdesk.TicketComment{Body: body, Public: &public},
	})
	if err != nil {
		return apperrors.NewUpstreamError("private comment failed", map[string]any{"cause": err.Error()})
	}
	return nil
}

// GetThread fetches the comment list and the requester id in one call.
func (s *CommentService) GetThread(ctx context.Context, ticketID int64) (*Thread, error) {
	comments, err := s.client.ListComments(ctx, ticketID)
	if err != nil {
		return nil, mapTicketError(err, ticketID)
	}
	ticket, err := s.client.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, mapTicketError(err, ticketID)
	}
	return &Thread{RequesterID: ticket.RequesterID, Comments: comments}, nil
}

// SolveTicket transitions the ticket to solved and appends the closing
// comment in one combined call, so status and comment cannot diverge.
func (s *CommentService) SolveTicket(ctx context.Context, ticketID int64) (*helpdesk.Ticket, error) {
	public := true
	ticket, err := s.client.UpdateTicket(ctx, ticketID, helpdesk.TicketUpdate{
		Status:  "solved",
		Comment: &helpdesk.TicketComment{Body: ClosingMessage, Public: &public},
	})
	if err != nil {
		return nil, mapTicketError(err, ticketID)
	}
	return ticket, nil
}

func (s *CommentService) strategies() []commentStrategy {
	available := map[string]func(ctx context.Context, ticketID int64, message string) error{
		"ticket_update":  s.postViaTicketUpdate,
		"request_update": s.postViaRequestUpdate,
	}
	chain := make([]commentStrategy, 0, len(s.fallbackOrder))
	for _, name := range s.fallbackOrder {
		if post, ok := available[name]; ok {
			chain = append(chain, commentStrategy{name: name, post: post})
		}
	}
	return chain
}

func (s *CommentService) postViaTicketUpdate(ctx context.Context, ticketID int64, message string) error {
	public := true
	_, err := s.client.UpdateTicket(ctx, ticketID, helpdesk.TicketUpdate{
		Comment: &helpdesk.TicketComment{Body: message, Public: &public},
	})
	return err
}

func (s *CommentService) postViaRequestUpdate(ctx context.Context, ticketID int64, message string) error {
	annotated := message + "\n\n(sent by our support assistant on behalf of the requester)"
	return s.client.UpdateRequest(ctx, ticketID, annotated, "")
}

func upstreamStatus(err error) int {
	var apiErr *helpdesk.APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func mapTicketError(err error, ticketID int64) error {
	var apiErr *helpdesk.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == 404 {
		return apperrors.NewNotFound("ticket", map[string]any{"ticketId": ticketID})
	}
	return apperrors.NewUpstreamError("helpdesk call failed", map[string]any{"cause": err.Error()})
}
