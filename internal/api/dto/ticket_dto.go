package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-bridge/internal/search"
	"github.com/spec-kit/helpdesk-bridge/internal/service"
)

// CreateTicketRequest payload. User duplicates the flat name/email pair for
// chat clients that send a nested identity object; the nested form wins.
type CreateTicketRequest struct {
	Message             string   `json:"message"`
	Name                string   `json:"name"`
	Email               string   `json:"email"`
	SearchQuery         string   `json:"searchQuery"`
	PerformSearch       *bool    `json:"performSearch"`
	SkipTicketIfResults *bool    `json:"skipTicketIfResults"`
	Tags                []string `json:"tags"`
	User                *struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
}

// CreateTicketResponse response. Null fields mark steps that failed or were
// skipped; clients never need to branch on field absence.
type CreateTicketResponse struct {
	TicketID        *int64               `json:"ticketId"`
	RequesterID     *int64               `json:"requesterId"`
	Search          *search.Response     `json:"search"`
	SearchPerformed bool                 `json:"searchPerformed"`
	SearchError     *service.SearchError `json:"searchError"`
	TicketSkipped   bool                 `json:"ticketSkipped"`
	SkipReason      *string              `json:"skipReason"`
	Features        service.FeatureFlags `json:"features"`
}

// TicketResponse is the metadata view for GET and solve endpoints.
type TicketResponse struct {
	ID          int64     `json:"id"`
	Subject     string    `json:"subject"`
	Status      string    `json:"status"`
	RequesterID int64     `json:"requesterId"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SolveTicketResponse response.
type SolveTicketResponse struct {
	TicketID       int64  `json:"ticketId"`
	Status         string `json:"status"`
	ClosingComment string `json:"closingComment"`
}
