package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-bridge/internal/api/dto"
	"github.com/spec-kit/helpdesk-bridge/internal/helpdesk"
	apperrors "github.com/spec-kit/helpdesk-bridge/pkg/util"
)

// UsersHandler relays basic identity lookups.
type UsersHandler struct {
	client *helpdesk.Client
}

// NewUsersHandler constructs handler.
func NewUsersHandler(client *helpdesk.Client) *UsersHandler {
	return &UsersHandler{client: client}
}

// GetUser GET /user/:id.
func (h *UsersHandler) GetUser(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || userID <= 0 {
		return apperrors.NewValidationError("invalid user id", nil)
	}

	user, err := h.client.GetUser(c.UserContext(), userID)
	if err != nil {
		var apiErr *helpdesk.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == fiber.StatusNotFound {
			return apperrors.NewNotFound("user", map[string]any{"userId": userID})
		}
		return apperrors.NewUpstreamError("user lookup failed", map[string]any{"cause": err.Error()})
	}

	resp := dto.UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
	if user.Photo != nil {
		resp.PhotoURL = user.Photo.ContentURL
	}
	return c.JSON(fiber.Map{"data": resp})
}
