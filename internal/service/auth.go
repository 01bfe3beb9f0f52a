package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/engivora/backend/internal/hash"
	"github.com/engivora/backend/internal/logging"
	"github.com/engivora/backend/internal/models"
	"github.com/engivora/backend/internal/repo"
	"github.com/engivora/backend/internal/token"
)

// AdminSubject is the fixed subject of the seeded admin identity.
const AdminSubject = "admin-engivora"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotAdmin           = errors.New("admin role required")
	ErrWrongAdmin         = errors.New("token does not belong to the admin identity")
)

// FieldErrors carries per-field validation messages for 400 responses.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for f, msg := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", f, msg))
	}
	return strings.Join(parts, "; ")
}

type AuthService struct {
	Repo   repo.CredentialRepository
	Issuer *token.Issuer
}

type SignupRequest struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Department  string `json:"department"`
	Year        int    `json:"year"`
	RollNumber  string `json:"roll_number"`
	DateOfBirth string `json:"date_of_birth"`
}

type AuthResult struct {
	User  *models.User
	Token string
}

func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.signup")

	if err := validateSignup(req); err != nil {
		l.Warn("signup_failed", "status", 400, "reason", "validation", "error", err)
		return nil, err
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("signup_failed", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{
		Email:        repo.NormalizeEmail(req.Email),
		PasswordHash: pwHash,
		Role:         models.RoleStudent,
		FullName:     req.FullName,
		Department:   req.Department,
		Year:         req.Year,
		RollNumber:   req.RollNumber,
		DateOfBirth:  req.DateOfBirth,
	}

	if err := s.Repo.Create(ctx, user); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			l.Warn("signup_failed", "status", 409, "reason", "email_taken")
			return nil, err
		}
		l.Error("signup_failed", "status", 500, "reason", "store_error", "error", err)
		return nil, err
	}

	tok, err := s.Issuer.Issue(user.ID, user.Role, 0)
	if err != nil {
		l.Error("signup_failed", "status", 500, "reason", "cannot create token", "error", err)
		return nil, err
	}

	l.Info("signup_success", "user_id", user.ID)
	return &AuthResult{User: user, Token: tok}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if err := validateLogin(email, password); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "validation", "error", err)
		return nil, err
	}

	user, err := s.Repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "invalid email or password")
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "status", 500, "reason", "store_error", "error", err)
		return nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "invalid email or password")
		return nil, ErrInvalidCredentials
	}

	if err := s.Repo.TouchLastLogin(ctx, user.ID); err != nil {
		// last-login is audit data, not worth failing the login over
		l.Warn("login_touch_failed", "user_id", user.ID, "error", err)
	}

	tok, err := s.Issuer.Issue(user.ID, user.Role, 0)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot create token", "error", err)
		return nil, err
	}

	l.Info("login_success", "user_id", user.ID, "role", user.Role)
	return &AuthResult{User: user, Token: tok}, nil
}

// AdminLogin resolves against the seeded admin record and rejects any
// matching account that does not carry the admin role.
func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (*AuthResult, error) {
	res, err := s.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if res.User.Role != models.RoleAdmin {
		logging.FromContext(ctx).Warn("admin_login_failed", "status", 401, "reason", "not_admin")
		return nil, ErrInvalidCredentials
	}
	return res, nil
}

// VerifyAdmin checks a bearer token for the admin role and the seeded
// admin identity. A valid admin-role token with a different subject is
// a distinct failure (403) from an invalid or non-admin token (401).
func (s *AuthService) VerifyAdmin(ctx context.Context, tokenStr string) (*token.Claims, error) {
	claims, err := s.Issuer.Verify(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.Role != models.RoleAdmin {
		return nil, ErrNotAdmin
	}
	if claims.Subject != AdminSubject {
		return nil, ErrWrongAdmin
	}
	return claims, nil
}

func validateSignup(req SignupRequest) error {
	errs := FieldErrors{}
	if strings.TrimSpace(req.FullName) == "" {
		errs["full_name"] = "full name is required"
	}
	if !validEmail(req.Email) {
		errs["email"] = "a valid email is required"
	}
	if len(req.Password) < 8 {
		errs["password"] = "password must be at least 8 characters"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateLogin(email, password string) error {
	errs := FieldErrors{}
	if !validEmail(email) {
		errs["email"] = "a valid email is required"
	}
	if password == "" {
		errs["password"] = "password is required"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validEmail(email string) bool {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	return strings.Contains(domain, ".") && !strings.ContainsAny(email, " \t")
}
