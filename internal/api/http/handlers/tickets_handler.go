package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-bridge/internal/api/dto"
	"github.com/spec-kit/helpdesk-bridge/internal/helpdesk"
	"github.com/spec-kit/helpdesk-bridge/internal/service"
	apperrors "github.com/spec-kit/helpdesk-bridge/pkg/util"
)

// TicketsHandler manages the ticket workflow endpoints.
type TicketsHandler struct {
	tickets  *service.TicketService
	comments *service.CommentService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, comments *service.CommentService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, comments: comments}
}

// CreateTicket POST /ticket.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Message) == "" {
		return apperrors.NewValidationError("message required", nil)
	}

	name, email := req.Name, req.Email
	if req.User != nil {
		if req.User.Name != "" {
			name = req.User.Name
		}
		if req.User.Email != "" {
			email = req.User.Email
		}
	}

	result, err := h.tickets.CreateSupportTicket(c.UserContext(), service.SupportTicketInput{
		Message:             req.Message,
		Name:                name,
		Email:               email,
		SearchQuery:         req.SearchQuery,
		PerformSearch:       req.PerformSearch,
		SkipTicketIfResults: req.SkipTicketIfResults,
		Tags:                req.Tags,
	})
	if err != nil {
		domainErr := apperrors.ToDomainError(err)
		if result == nil || domainErr.Code != "UPSTREAM_ERROR" {
			return err
		}
		// Degraded body: the error plus every workflow field null-defaulted,
		// including whatever the search step produced before creation failed.
		return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{
			"error":   domainErr.Message,
			"details": domainErr.Details,
			"data":    createTicketResponse(result),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": createTicketResponse(result)})
}

// GetTicket GET /ticket/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticketID, err := parseTicketID(c)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.GetTicket(c.UserContext(), ticketID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// SolveTicket POST /ticket/:id/solve.
func (h *TicketsHandler) SolveTicket(c *fiber.Ctx) error {
	ticketID, err := parseTicketID(c)
	if err != nil {
		return err
	}
	ticket, err := h.comments.SolveTicket(c.UserContext(), ticketID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SolveTicketResponse{
		TicketID:       ticket.ID,
		Status:         ticket.Status,
		ClosingComment: service.ClosingMessage,
	}})
}

func parseTicketID(c *fiber.Ctx) (int64, error) {
	ticketID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || ticketID <= 0 {
		return 0, apperrors.NewValidationError("invalid ticket id", nil)
	}
	return ticketID, nil
}

func createTicketResponse(result *service.SupportTicketResult) dto.CreateTicketResponse {
	resp := dto.CreateTicketResponse{
		TicketID:        result.TicketID,
		RequesterID:     result.RequesterID,
		Search:          result.Search,
		SearchPerformed: result.SearchPerformed,
		SearchError:     result.SearchError,
		TicketSkipped:   result.TicketSkipped,
		Features:        result.Features,
	}
	if result.SkipReason != "" {
		reason := result.SkipReason
		resp.SkipReason = &reason
	}
	return resp
}

func ticketResponse(ticket *helpdesk.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:          ticket.ID,
		Subject:     ticket.Subject,
		Status:      ticket.Status,
		RequesterID: ticket.RequesterID,
		Tags:        ticket.Tags,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
}
