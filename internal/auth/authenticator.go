package auth

import (
	"context"

	"github.com/mmynk/triptangle/internal/models"
)

// Authenticator defines the interface for backend-side authentication. The fake
// backend uses it so tests exercise a realistic register/login cycle.
type Authenticator interface {
	// Register creates a new user account. Returns the created user or an error if
	// registration fails.
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthenticatedUser, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	Authenticate(ctx context.Context, email, password string) (*models.AuthenticatedUser, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
