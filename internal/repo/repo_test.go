package repo

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/engivora/backend/internal/models"
)

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

func testUser(email string) *models.User {
	return &models.User{
		Email:        email,
		PasswordHash: "$2a$10$fakefakefakefakefakefake",
		Role:         models.RoleStudent,
		FullName:     "Test User",
	}
}

func TestGormRepositoryCreateAndFind(t *testing.T) {
	ctx := context.Background()
	r := NewGormRepository(initTestDB(t))

	u := testUser("Ada@X.com")
	require.NoError(t, r.Create(ctx, u))
	require.NotEmpty(t, u.ID)
	require.Equal(t, "ada@x.com", u.Email)

	found, err := r.FindByEmail(ctx, "ADA@x.COM")
	require.NoError(t, err)
	require.Equal(t, u.ID, found.ID)

	byID, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Email, byID.Email)

	_, err = r.FindByEmail(ctx, "nobody@x.com")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGormRepositoryDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	r := NewGormRepository(initTestDB(t))

	require.NoError(t, r.Create(ctx, testUser("ada@x.com")))
	err := r.Create(ctx, testUser("ADA@x.com"))
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestGormRepositoryTouchLastLogin(t *testing.T) {
	ctx := context.Background()
	r := NewGormRepository(initTestDB(t))

	u := testUser("ada@x.com")
	require.NoError(t, r.Create(ctx, u))
	require.Nil(t, u.LastLoginAt)

	require.NoError(t, r.TouchLastLogin(ctx, u.ID))

	found, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, found.LastLoginAt)

	require.ErrorIs(t, r.TouchLastLogin(ctx, "missing-id"), ErrNotFound)
}

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	u := testUser("ada@x.com")
	require.NoError(t, r.Create(ctx, u))
	require.NotEmpty(t, u.ID)

	require.ErrorIs(t, r.Create(ctx, testUser("ADA@X.COM")), ErrEmailTaken)

	found, err := r.FindByEmail(ctx, "ada@x.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, found.ID)

	require.NoError(t, r.TouchLastLogin(ctx, u.ID))
	found, err = r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, found.LastLoginAt)

	_, err = r.FindByEmail(ctx, "nobody@x.com")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepositorySeedOverwrites(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	r.Seed(models.User{ID: "fixed-id", Email: "Admin@X.com", Role: models.RoleAdmin, PasswordHash: "h1"})
	r.Seed(models.User{ID: "fixed-id", Email: "admin@x.com", Role: models.RoleAdmin, PasswordHash: "h2"})

	found, err := r.FindByEmail(ctx, "admin@x.com")
	require.NoError(t, err)
	require.Equal(t, "fixed-id", found.ID)
	require.Equal(t, "h2", found.PasswordHash)
}

// downRepo simulates an unreachable primary store.
type downRepo struct{}

func (downRepo) Create(ctx context.Context, u *models.User) error {
	return fmt.Errorf("%w: dial tcp: connection refused", ErrUnavailable)
}

func (downRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, fmt.Errorf("%w: dial tcp: connection refused", ErrUnavailable)
}

func (downRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	return nil, fmt.Errorf("%w: dial tcp: connection refused", ErrUnavailable)
}

func (downRepo) TouchLastLogin(ctx context.Context, id string) error {
	return fmt.Errorf("%w: dial tcp: connection refused", ErrUnavailable)
}

func TestFallbackReadsDegrade(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryRepository()
	mem.Seed(models.User{ID: "mock-1", Email: "ravi@x.com", PasswordHash: "h", Role: models.RoleStudent})

	r := NewFallbackRepository(downRepo{}, mem)

	found, err := r.FindByEmail(ctx, "ravi@x.com")
	require.NoError(t, err)
	require.Equal(t, "mock-1", found.ID)

	found, err = r.FindByID(ctx, "mock-1")
	require.NoError(t, err)
	require.Equal(t, "ravi@x.com", found.Email)

	require.NoError(t, r.TouchLastLogin(ctx, "mock-1"))
}

func TestFallbackWritesFailClosed(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryRepository()
	r := NewFallbackRepository(downRepo{}, mem)

	err := r.Create(ctx, testUser("new@x.com"))
	require.ErrorIs(t, err, ErrUnavailable)

	// nothing must leak into the fallback store
	_, err = mem.FindByEmail(ctx, "new@x.com")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFallbackHealthyPrimaryWins(t *testing.T) {
	ctx := context.Background()
	primary := NewGormRepository(initTestDB(t))
	mem := NewMemoryRepository()
	mem.Seed(models.User{ID: "seed-admin", Email: "admin@x.com", PasswordHash: "h", Role: models.RoleAdmin})

	r := NewFallbackRepository(primary, mem)

	u := testUser("ada@x.com")
	require.NoError(t, r.Create(ctx, u))

	found, err := r.FindByEmail(ctx, "ada@x.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, found.ID)
}

func TestFallbackSeededIdentityResolvable(t *testing.T) {
	// the seeded identities never live in the database; reads must
	// reach them even when the primary store is healthy
	ctx := context.Background()
	primary := NewGormRepository(initTestDB(t))
	mem := NewMemoryRepository()
	mem.Seed(models.User{ID: "seed-admin", Email: "admin@x.com", PasswordHash: "h", Role: models.RoleAdmin})

	r := NewFallbackRepository(primary, mem)

	found, err := r.FindByEmail(ctx, "admin@x.com")
	require.NoError(t, err)
	require.Equal(t, "seed-admin", found.ID)

	found, err = r.FindByID(ctx, "seed-admin")
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, found.Role)

	_, err = r.FindByEmail(ctx, "nobody@x.com")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFallbackCreateCannotShadowSeededEmail(t *testing.T) {
	ctx := context.Background()
	primary := NewGormRepository(initTestDB(t))
	mem := NewMemoryRepository()
	mem.Seed(models.User{ID: "seed-admin", Email: "admin@x.com", PasswordHash: "h", Role: models.RoleAdmin})

	r := NewFallbackRepository(primary, mem)

	err := r.Create(ctx, testUser("admin@x.com"))
	require.ErrorIs(t, err, ErrEmailTaken)

	// the seeded record stays authoritative
	found, err := r.FindByEmail(ctx, "admin@x.com")
	require.NoError(t, err)
	require.Equal(t, "seed-admin", found.ID)
}
