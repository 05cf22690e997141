package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-bridge/internal/api/dto"
	"github.com/spec-kit/helpdesk-bridge/internal/service"
	apperrors "github.com/spec-kit/helpdesk-bridge/pkg/util"
)

// CommentsHandler relays ticket comments.
type CommentsHandler struct {
	comments *service.CommentService
}

// NewCommentsHandler constructs handler.
func NewCommentsHandler(comments *service.CommentService) *CommentsHandler {
	return &CommentsHandler{comments: comments}
}

// AddComment POST /ticket/:id/comment.
func (h *CommentsHandler) AddComment(c *fiber.Ctx) error {
	ticketID, err := parseTicketID(c)
	if err != nil {
		return err
	}
	var req dto.AddCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Message) == "" {
		return apperrors.NewValidationError("message required", nil)
	}

	result, err := h.comments.PostComment(c.UserContext(), ticketID, req.Message, req.UserToken)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.AddCommentResponse{
		TicketID: ticketID,
		Strategy: result.Strategy,
	}})
}

// AddPrivateComment POST /ticket/:id/private-comment.
func (h *CommentsHandler) AddPrivateComment(c *fiber.Ctx) error {
	ticketID, err := parseTicketID(c)
	if err != nil {
		return err
	}
	var req dto.AddCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Message) == "" {
		return apperrors.NewValidationError("message required", nil)
	}

	if err := h.comments.PostPrivateComment(c.UserContext(), ticketID, req.Message); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"ticketId": ticketID,
		"private":  true,
	}})
}

// GetComments GET /ticket/:id/comments.
func (h *CommentsHandler) GetComments(c *fiber.Ctx) error {
	ticketID, err := parseTicketID(c)
	if err != nil {
		return err
	}
	thread, err := h.comments.GetThread(c.UserContext(), ticketID)
	if err != nil {
		return err
	}

	comments := make([]dto.CommentResponse, 0, len(thread.Comments))
	for _, comment := range thread.Comments {
		comments = append(comments, dto.CommentResponse{
			ID:        comment.ID,
			Body:      comment.Body,
			Public:    comment.Public,
			AuthorID:  comment.AuthorID,
			CreatedAt: comment.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": dto.ThreadResponse{
		RequesterID: thread.RequesterID,
		Comments:    comments,
	}})
}
