package dto

// UserResponse is the basic identity view relayed to the chat client.
type UserResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	PhotoURL string `json:"photoUrl,omitempty"`
}
