package models

// Photo options offered when creating a group. The backend stores whichever token is
// sent, so these are a client-side convenience only.
var GroupPhotoOptions = []string{"🌍", "✈️", "🏝️", "🏔️", "🎒", "🌆"}

// DefaultGroupPhoto is used when the creator does not pick an emoji.
const DefaultGroupPhoto = "🌍"

// GroupCreateRequest is the body of POST /groups/groups/.
type GroupCreateRequest struct {
	Name       string `json:"name"`
	CreatedBy  int    `json:"created_by"`
	GroupPhoto string `json:"group_photo"`
	IsPublic   bool   `json:"is_public"`
}

// GroupOut is a group as returned by the backend.
//
// CreatedDate is kept as the raw string the backend sends (ISO 8601 with optional
// timezone) so the client never has to guess the server's format.
type GroupOut struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	CreatedBy   int    `json:"created_by"`
	GroupPhoto  string `json:"group_photo"`
	IsPublic    bool   `json:"is_public"`
	CreatedDate string `json:"created_date"`
}
