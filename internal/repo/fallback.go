package repo

import (
	"context"
	"errors"

	"github.com/engivora/backend/internal/models"
)

// FallbackRepository routes reads to the primary store first and then
// to the seeded fallback: on ErrUnavailable because the database is
// down, on ErrNotFound because the seeded identities (the admin, the
// mock students) never live in the database at all. Writes go to the
// primary only: creating an account requires a durable store, so a
// dead database surfaces ErrUnavailable instead of a phantom success.
type FallbackRepository struct {
	Primary  CredentialRepository
	Fallback CredentialRepository
}

func NewFallbackRepository(primary, fallback CredentialRepository) *FallbackRepository {
	return &FallbackRepository{Primary: primary, Fallback: fallback}
}

func fallsThrough(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrNotFound)
}

func (r *FallbackRepository) Create(ctx context.Context, u *models.User) error {
	// a signup must not shadow a seeded identity's email
	if _, err := r.Fallback.FindByEmail(ctx, u.Email); err == nil {
		return ErrEmailTaken
	}
	return r.Primary.Create(ctx, u)
}

func (r *FallbackRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := r.Primary.FindByEmail(ctx, email)
	if err != nil && fallsThrough(err) {
		return r.Fallback.FindByEmail(ctx, email)
	}
	return u, err
}

func (r *FallbackRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, err := r.Primary.FindByID(ctx, id)
	if err != nil && fallsThrough(err) {
		return r.Fallback.FindByID(ctx, id)
	}
	return u, err
}

func (r *FallbackRepository) TouchLastLogin(ctx context.Context, id string) error {
	err := r.Primary.TouchLastLogin(ctx, id)
	if err != nil && fallsThrough(err) {
		return r.Fallback.TouchLastLogin(ctx, id)
	}
	return err
}
