package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mmynk/triptangle/internal/models"
)

// CreateGroup creates a group. Requires a token; without one it fails with
// ErrMissingAuth before any network I/O.
func (c *Client) CreateGroup(ctx context.Context, req models.GroupCreateRequest) (*models.GroupOut, error) {
	var out models.GroupOut
	err := c.do(ctx, call{
		op:     "createGroup",
		method: http.MethodPost,
		path:   "/groups/groups/",
		body:   req,
		auth:   authRequired,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// JoinGroup adds the user to a group with their travel preferences. Requires a token.
// The response body is ignored.
func (c *Client) JoinGroup(ctx context.Context, groupID int, req models.GroupJoinRequest) error {
	return c.do(ctx, call{
		op:     "joinGroup",
		method: http.MethodPost,
		path:   "/groups/groups/join/" + strconv.Itoa(groupID),
		body:   req,
		auth:   authRequired,
	}, nil)
}

// AnalyzeGroup asks the backend for destination suggestions based on every member's
// preferences. The token is sent when available but is not required.
func (c *Client) AnalyzeGroup(ctx context.Context, groupID int) (*models.AnalyzeResponse, error) {
	var out models.AnalyzeResponse
	err := c.do(ctx, call{
		op:     "analyzeGroup",
		method: http.MethodGet,
		path:   "/groups/groups/" + strconv.Itoa(groupID) + "/analyze",
		auth:   authOptional,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetGroup fetches a group by ID.
func (c *Client) GetGroup(ctx context.Context, groupID int) (*models.GroupOut, error) {
	var out models.GroupOut
	err := c.do(ctx, call{
		op:     "getGroup",
		method: http.MethodGet,
		path:   "/groups/groups/" + strconv.Itoa(groupID),
		auth:   authOptional,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListUserGroups lists the groups a user belongs to.
func (c *Client) ListUserGroups(ctx context.Context, userID int) ([]models.GroupOut, error) {
	var out []models.GroupOut
	err := c.do(ctx, call{
		op:     "listUserGroups",
		method: http.MethodGet,
		path:   "/groups/groups/",
		query:  url.Values{"user_id": {strconv.Itoa(userID)}},
		auth:   authOptional,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.GroupOut{}
	}
	return out, nil
}
