package dto

// HelpCenterSearchRequest payload.
type HelpCenterSearchRequest struct {
	Query   string `json:"query"`
	Locale  string `json:"locale"`
	PerPage int    `json:"per_page"`
}

// FederatedSearchRequest payload.
type FederatedSearchRequest struct {
	Query   string            `json:"query"`
	Limit   int               `json:"limit"`
	Filters map[string]string `json:"filters"`
}
