package models

// AuthenticatedUser is a backend user as returned by login and search (no password).
//
// ID is issued by the backend and never changes for the lifetime of the account.
type AuthenticatedUser struct {
	ID              int     `json:"id"`
	Username        string  `json:"username"`
	Email           string  `json:"email"`
	Bio             *string `json:"bio"`
	ProfilePic      *string `json:"profile_pic"`
	CurrentLocation *string `json:"current_location"`
}

// LoginRequest is the body of POST /users/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is what POST /users/login returns on success.
type LoginResponse struct {
	AccessToken string            `json:"access_token"`
	TokenType   string            `json:"token_type"`
	User        AuthenticatedUser `json:"user"`
}

// RegisterRequest is the body of POST /users/register.
type RegisterRequest struct {
	Username        string  `json:"username"`
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	Bio             *string `json:"bio,omitempty"`
	ProfilePic      *string `json:"profile_pic,omitempty"`
	CurrentLocation *string `json:"current_location,omitempty"`
}
