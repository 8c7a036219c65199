package auth

import (
	"context"

	"github.com/mpetrov/stagtrip/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods
// (password, OAuth, etc.) without changing the HTTP layer.
type Authenticator interface {
	// Register creates a new participant with the given email and credential.
	Register(ctx context.Context, email, name, credential string) (*models.Participant, error)

	// Authenticate verifies the credentials and returns the participant
	// if successful.
	Authenticate(ctx context.Context, email, credential string) (*models.Participant, error)

	// ValidateCredential checks if the credential meets the
	// implementation's requirements.
	ValidateCredential(credential string) error
}
