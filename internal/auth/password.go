package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mpetrov/stagtrip/internal/models"
	"github.com/mpetrov/stagtrip/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrEmailExists        = errors.New("email already registered")
)

// ParticipantStorage defines the persistence operations the authenticator
// needs. This keeps it independent of the full storage implementation.
type ParticipantStorage interface {
	CreateParticipant(ctx context.Context, p *models.Participant) error
	GetParticipantByEmail(ctx context.Context, email string) (*models.Participant, error)
	GetParticipant(ctx context.Context, id string) (*models.Participant, error)
}

// PasswordAuthenticator implements password-based authentication using bcrypt.
type PasswordAuthenticator struct {
	storage ParticipantStorage

	// adminEmail bootstraps the first admin: a registration with this
	// email gets the admin flag. Further admins are promoted by admins.
	adminEmail string
}

// NewPasswordAuthenticator creates a new password-based authenticator.
func NewPasswordAuthenticator(storage ParticipantStorage, adminEmail string) *PasswordAuthenticator {
	return &PasswordAuthenticator{
		storage:    storage,
		adminEmail: strings.ToLower(adminEmail),
	}
}

// ValidateCredential checks if the password meets minimum requirements.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if len(credential) < 8 {
		return ErrWeakPassword
	}
	return nil
}

// Register creates a new participant with a hashed password. New
// registrations join the roster as invited.
func (a *PasswordAuthenticator) Register(ctx context.Context, email, name, credential string) (*models.Participant, error) {
	if err := a.ValidateCredential(credential); err != nil {
		return nil, err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	existing, err := a.storage.GetParticipantByEmail(ctx, email)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	p := &models.Participant{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		TripStatus:   models.TripInvited,
		IsAdmin:      a.adminEmail != "" && email == a.adminEmail,
	}

	if err := a.storage.CreateParticipant(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create participant: %w", err)
	}

	return p, nil
}

// Authenticate verifies the email and password, returning the participant
// if valid.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, credential string) (*models.Participant, error) {
	p, err := a.storage.GetParticipantByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(credential)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return p, nil
}
