package models

// InviteCreate is the body of POST /invites/invites/send.
type InviteCreate struct {
	GroupID         int `json:"group_id"`
	InvitedUserID   int `json:"invited_user_id"`
	InvitedByUserID int `json:"invited_by_user_id"`
}

// Invite is a pending or accepted group invitation.
type Invite struct {
	ID              int    `json:"id"`
	GroupID         int    `json:"group_id"`
	InvitedUserID   int    `json:"invited_user_id"`
	InvitedByUserID int    `json:"invited_by_user_id"`
	Accepted        bool   `json:"accepted"`
	CreatedAt       string `json:"created_at"`
}

// InvitePreferences is the body of POST /invites/invites/accept/{invite_id}.
// Unlike the group join payload every field is optional and budget is a string.
type InvitePreferences struct {
	Interests []string `json:"interests"`
	Period    *string  `json:"period,omitempty"`
	Weather   *string  `json:"weather,omitempty"`
	Budget    *string  `json:"budget,omitempty"`
}
