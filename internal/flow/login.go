package flow

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmynk/triptangle/internal/models"
)

// AuthAPI is the part of the gateway used by login and signup.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthenticatedUser, error)
}

// LoginFlow signs a user in and persists the session.
type LoginFlow struct {
	form
	api      AuthAPI
	sessions Sessions
	nav      Navigator

	Email    string
	Password string
}

// NewLoginFlow creates a login form.
func NewLoginFlow(api AuthAPI, sessions Sessions, navigator Navigator) *LoginFlow {
	return &LoginFlow{api: api, sessions: sessions, nav: navigator}
}

// Submit logs in. On success the session is saved and navigation moves to main.
// A rejected login leaves the stored session untouched.
func (f *LoginFlow) Submit(ctx context.Context) error {
	if !f.guard.TryBegin() {
		return ErrBusy
	}
	defer f.guard.End()

	email := strings.TrimSpace(f.Email)
	if email == "" || f.Password == "" {
		return f.fail(ErrMissingFields)
	}

	if err := signIn(ctx, f.api, f.sessions, email, f.Password); err != nil {
		return f.fail(err)
	}

	f.succeed()
	f.nav.GoToMain()
	return nil
}

func signIn(ctx context.Context, api AuthAPI, sessions Sessions, email, password string) error {
	resp, err := api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := sessions.Save(ctx, resp.User, resp.AccessToken); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// SignupFlow registers an account and then logs into it.
type SignupFlow struct {
	form
	api      AuthAPI
	sessions Sessions
	nav      Navigator

	Username string
	Email    string
	Password string
	Bio      string
	Location string
}

// NewSignupFlow creates a signup form.
func NewSignupFlow(api AuthAPI, sessions Sessions, navigator Navigator) *SignupFlow {
	return &SignupFlow{api: api, sessions: sessions, nav: navigator}
}

// Submit registers the account, logs in with the same credentials and moves to main.
func (f *SignupFlow) Submit(ctx context.Context) error {
	if !f.guard.TryBegin() {
		return ErrBusy
	}
	defer f.guard.End()

	username := strings.TrimSpace(f.Username)
	email := strings.TrimSpace(f.Email)
	if username == "" || email == "" || f.Password == "" {
		return f.fail(ErrMissingFields)
	}

	req := models.RegisterRequest{
		Username: username,
		Email:    email,
		Password: f.Password,
		Bio:      optional(f.Bio),

		CurrentLocation: optional(f.Location),
	}

	if _, err := f.api.Register(ctx, req); err != nil {
		return f.fail(err)
	}
	if err := signIn(ctx, f.api, f.sessions, email, f.Password); err != nil {
		return f.fail(err)
	}

	f.succeed()
	f.nav.GoToMain()
	return nil
}

// optional returns nil for blank text.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
