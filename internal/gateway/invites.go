package gateway

import (
	"context"
	"net/http"
	"strconv"

	"github.com/mmynk/triptangle/internal/models"
)

// SendInvite invites a user to a group.
func (c *Client) SendInvite(ctx context.Context, req models.InviteCreate) (*models.Invite, error) {
	var out models.Invite
	err := c.do(ctx, call{
		op:     "sendInvite",
		method: http.MethodPost,
		path:   "/invites/invites/send",
		body:   req,
		auth:   authOptional,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListInvites returns the pending invites addressed to userID.
func (c *Client) ListInvites(ctx context.Context, userID int) ([]models.Invite, error) {
	var out []models.Invite
	err := c.do(ctx, call{
		op:     "listInvites",
		method: http.MethodGet,
		path:   "/invites/invites/me/" + strconv.Itoa(userID),
		auth:   authOptional,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Invite{}
	}
	return out, nil
}

// AcceptInvite accepts an invite and records the invitee's preferences.
func (c *Client) AcceptInvite(ctx context.Context, inviteID int, prefs models.InvitePreferences) error {
	if prefs.Interests == nil {
		prefs.Interests = []string{}
	}
	return c.do(ctx, call{
		op:     "acceptInvite",
		method: http.MethodPost,
		path:   "/invites/invites/accept/" + strconv.Itoa(inviteID),
		body:   prefs,
		auth:   authOptional,
	}, nil)
}

// DeclineInvite deletes an invite.
func (c *Client) DeclineInvite(ctx context.Context, inviteID int) error {
	return c.do(ctx, call{
		op:     "declineInvite",
		method: http.MethodDelete,
		path:   "/invites/invites/" + strconv.Itoa(inviteID),
		auth:   authOptional,
	}, nil)
}
