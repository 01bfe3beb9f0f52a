package service

import (
	"github.com/engivora/backend/internal/hash"
	"github.com/engivora/backend/internal/models"
	"github.com/engivora/backend/internal/repo"
)

// Default admin credentials, overridable via config. The admin lives
// in the same repository abstraction as every other account.
const (
	DefaultAdminEmail    = "admin@engivora.com"
	DefaultAdminPassword = "engivora-admin-2024"
)

type mockUser struct {
	email    string
	password string
	name     string
	dept     string
}

var mockStudents = []mockUser{
	{email: "ravi@engivora.com", password: "ravi-fallback-1", name: "Ravi Kumar", dept: "CSE"},
	{email: "priya@engivora.com", password: "priya-fallback-1", name: "Priya Sharma", dept: "ECE"},
}

// SeedFallback populates the in-memory repository with the admin
// identity and the mock student list used when the database is down.
func SeedFallback(mem *repo.MemoryRepository, adminEmail, adminPassword string) error {
	if adminEmail == "" {
		adminEmail = DefaultAdminEmail
	}
	if adminPassword == "" {
		adminPassword = DefaultAdminPassword
	}

	adminHash, err := hash.HashPassword(adminPassword)
	if err != nil {
		return err
	}
	mem.Seed(models.User{
		ID:           AdminSubject,
		Email:        adminEmail,
		PasswordHash: adminHash,
		Role:         models.RoleAdmin,
		FullName:     "Engivora Admin",
	})

	for _, m := range mockStudents {
		h, err := hash.HashPassword(m.password)
		if err != nil {
			return err
		}
		mem.Seed(models.User{
			Email:        m.email,
			PasswordHash: h,
			Role:         models.RoleStudent,
			FullName:     m.name,
			Department:   m.dept,
		})
	}
	return nil
}
