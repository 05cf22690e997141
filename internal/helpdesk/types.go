package helpdesk

import "time"

// Ticket mirrors the upstream ticket resource. Only the fields this service
// reads are declared.
type Ticket struct {
	ID          int64     `json:"id"`
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	RequesterID int64     `json:"requester_id"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Requester identifies the end user a ticket is opened for.
type Requester struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TicketComment is a comment embedded in a ticket create or update call.
type TicketComment struct {
	Body     string `json:"body"`
	Public   *bool  `json:"public,omitempty"`
	AuthorID *int64 `json:"author_id,omitempty"`
}

// NewTicket is the payload for ticket creation.
type NewTicket struct {
	Subject   string         `json:"subject"`
	Comment   *TicketComment `json:"comment,omitempty"`
	Requester *Requester     `json:"requester,omitempty"`
	Tags      []string       `json:"tags,omitempty"`
}

// TicketUpdate is the payload for ticket mutation. AdditionalTags are merged
// with the tags already on the ticket upstream.
type TicketUpdate struct {
	Status         string         `json:"status,omitempty"`
	Comment        *TicketComment `json:"comment,omitempty"`
	AdditionalTags []string       `json:"additional_tags,omitempty"`
}

// Comment is a comment as returned by the ticket comment listing.
type Comment struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	Public    bool      `json:"public"`
	AuthorID  int64     `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

// User is the upstream identity record.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Photo *struct {
		ContentURL string `json:"content_url"`
	} `json:"photo,omitempty"`
}

// Article is a help-center search hit. Body carries the raw HTML article
// text; snippet generation always starts from it, not from the upstream
// pre-trimmed Snippet.
type Article struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Snippet   string     `json:"snippet"`
	HTMLURL   string     `json:"html_url"`
	Score     float64    `json:"score"`
	SectionID int64      `json:"section_id"`
	Locale    string     `json:"locale"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type ticketEnvelope struct {
	Ticket *Ticket `json:"ticket"`
}

type commentsEnvelope struct {
	Comments []Comment `json:"comments"`
}

type userEnvelope struct {
	User *User `json:"user"`
}

type articleSearchEnvelope struct {
	Results []Article `json:"results"`
	Count   int       `json:"count"`
}

type requestUpdate struct {
	Request struct {
		Comment TicketComment `json:"comment"`
	} `json:"request"`
}
