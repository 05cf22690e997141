package dto

import "time"

// AddCommentRequest payload. UserToken, when present, posts the comment as
// the chat user; otherwise the service falls back through its strategy
// chain.
type AddCommentRequest struct {
	Message   string `json:"message"`
	UserToken string `json:"userToken"`
}

// AddCommentResponse reports the delivery path.
type AddCommentResponse struct {
	TicketID int64  `json:"ticketId"`
	Strategy string `json:"strategy"`
}

// CommentResponse is one entry of a rendered thread.
type CommentResponse struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	Public    bool      `json:"public"`
	AuthorID  int64     `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
}

// ThreadResponse bundles the comment list with the requester id.
type ThreadResponse struct {
	RequesterID int64             `json:"requesterId"`
	Comments    []CommentResponse `json:"comments"`
}
