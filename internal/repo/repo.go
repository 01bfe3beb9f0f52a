package repo

import (
	"context"
	"errors"

	"github.com/engivora/backend/internal/models"
)

var (
	ErrEmailTaken  = errors.New("email already registered")
	ErrNotFound    = errors.New("user not found")
	ErrUnavailable = errors.New("credential store unavailable")
)

// CredentialRepository is the single lookup surface for user records.
// The database and the seeded in-memory list are two implementations
// behind the same interface, composed by FallbackRepository.
type CredentialRepository interface {
	Create(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	TouchLastLogin(ctx context.Context, id string) error
}
