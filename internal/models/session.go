package models

import "time"

// Session is the persisted login: a bearer token and the user it belongs to.
// The two are always stored and cleared together.
type Session struct {
	Token     string            `json:"token"`
	TokenType string            `json:"token_type"`
	User      AuthenticatedUser `json:"user"`
	SavedAt   time.Time         `json:"saved_at"`
}
