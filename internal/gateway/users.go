package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mmynk/triptangle/internal/models"
)

// Login exchanges credentials for a bearer token. A 401 yields ErrInvalidCredentials.
// Login never touches the session store; saving the result is the caller's job.
func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	var out models.LoginResponse
	err := c.do(ctx, call{
		op:       "login",
		method:   http.MethodPost,
		path:     "/users/login",
		body:     models.LoginRequest{Email: email, Password: password},
		exact200: true,
		mapStatus: func(status int) *Error {
			if status == http.StatusUnauthorized {
				return &Error{Kind: KindInvalidCredentials}
			}
			return nil
		},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthenticatedUser, error) {
	var out models.AuthenticatedUser
	err := c.do(ctx, call{
		op:     "register",
		method: http.MethodPost,
		path:   "/users/register",
		body:   req,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchUsers finds users whose username or email contains query, excluding
// currentUserID.
func (c *Client) SearchUsers(ctx context.Context, query string, currentUserID int) ([]models.AuthenticatedUser, error) {
	var out []models.AuthenticatedUser
	err := c.do(ctx, call{
		op:     "searchUsers",
		method: http.MethodGet,
		path:   "/users/search/",
		query: url.Values{
			"query":           {query},
			"current_user_id": {strconv.Itoa(currentUserID)},
		},
		exact200: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.AuthenticatedUser{}
	}
	return out, nil
}

// GetUser fetches a single user by ID.
func (c *Client) GetUser(ctx context.Context, userID int) (*models.AuthenticatedUser, error) {
	var out models.AuthenticatedUser
	err := c.do(ctx, call{
		op:     "getUser",
		method: http.MethodGet,
		path:   "/users/" + strconv.Itoa(userID),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
