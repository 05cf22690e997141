package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-bridge/internal/api/dto"
	"github.com/spec-kit/helpdesk-bridge/internal/search"
	apperrors "github.com/spec-kit/helpdesk-bridge/pkg/util"
)

// SearchHandler exposes the knowledge-base search proxy.
type SearchHandler struct {
	search *search.Service
}

// NewSearchHandler constructs handler.
func NewSearchHandler(searchSvc *search.Service) *SearchHandler {
	return &SearchHandler{search: searchSvc}
}

// SearchHelpCenter POST /search-help-center.
func (h *SearchHandler) SearchHelpCenter(c *fiber.Ctx) error {
	var req dto.HelpCenterSearchRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	resp, err := h.search.HelpCenter(c.UserContext(), req.Query, req.Locale, req.PerPage)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": resp})
}

// SearchFederated POST /search/federated.
func (h *SearchHandler) SearchFederated(c *fiber.Ctx) error {
	var req dto.FederatedSearchRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	resp, err := h.search.Federated(c.UserContext(), req.Query, req.Limit, req.Filters)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": resp})
}
