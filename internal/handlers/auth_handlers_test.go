package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/engivora/backend/internal/models"
	"github.com/engivora/backend/internal/repo"
	"github.com/engivora/backend/internal/service"
	"github.com/engivora/backend/internal/token"
)

func newTestAuthHandler(t *testing.T) *AuthHandler {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	mem := repo.NewMemoryRepository()
	require.NoError(t, service.SeedFallback(mem, service.DefaultAdminEmail, service.DefaultAdminPassword))

	return &AuthHandler{
		Svc: &service.AuthService{
			Repo:   repo.NewFallbackRepository(repo.NewGormRepository(db), mem),
			Issuer: &token.Issuer{Secret: []byte("test-secret"), TTL: time.Hour},
		},
	}
}

func jsonContext(e *echo.Echo, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSignupHandler(t *testing.T) {
	h := newTestAuthHandler(t)
	e := echo.New()

	c, rec := jsonContext(e, http.MethodPost, "/api/students/signup",
		`{"full_name":"Asha Verma","email":"asha@example.com","password":"secret-pass-1"}`)
	require.NoError(t, h.Signup(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool         `json:"success"`
		Student *models.User `json:"student"`
		Token   string       `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.NotEmpty(t, body.Token)
	require.Equal(t, "asha@example.com", body.Student.Email)
	require.Equal(t, models.RoleStudent, body.Student.Role)

	claims, err := h.Svc.Issuer.Verify(body.Token)
	require.NoError(t, err)
	require.Equal(t, body.Student.ID, claims.Subject)
}

func TestSignupHandlerDuplicateEmail(t *testing.T) {
	h := newTestAuthHandler(t)
	e := echo.New()

	c, _ := jsonContext(e, http.MethodPost, "/api/students/signup",
		`{"full_name":"Asha Verma","email":"asha@example.com","password":"secret-pass-1"}`)
	require.NoError(t, h.Signup(c))

	c, _ = jsonContext(e, http.MethodPost, "/api/students/signup",
		`{"full_name":"Other Person","email":"ASHA@example.com","password":"other-pass-1"}`)
	err := h.Signup(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusConflict, he.Code)
}

func TestSignupHandlerValidation(t *testing.T) {
	h := newTestAuthHandler(t)
	e := echo.New()

	c, _ := jsonContext(e, http.MethodPost, "/api/students/signup",
		`{"email":"not-an-email","password":"short"}`)
	err := h.Signup(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusBadRequest, he.Code)

	fields, ok := he.Message.(service.FieldErrors)
	require.True(t, ok, "expected FieldErrors message")
	require.Contains(t, fields, "full_name")
	require.Contains(t, fields, "email")
	require.Contains(t, fields, "password")
}

func TestLoginHandler(t *testing.T) {
	h := newTestAuthHandler(t)
	e := echo.New()

	c, _ := jsonContext(e, http.MethodPost, "/api/students/signup",
		`{"full_name":"Asha Verma","email":"asha@example.com","password":"secret-pass-1"}`)
	require.NoError(t, h.Signup(c))

	c, rec := jsonContext(e, http.MethodPost, "/api/students/login",
		`{"email":"asha@example.com","password":"secret-pass-1"}`)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.NotEmpty(t, body.Token)
}

func TestLoginHandlerWrongPassword(t *testing.T) {
	h := newTestAuthHandler(t)
	e := echo.New()

	c, _ := jsonContext(e, http.MethodPost, "/api/students/signup",
		`{"full_name":"Asha Verma","email":"asha@example.com","password":"secret-pass-1"}`)
	require.NoError(t, h.Signup(c))

	c, _ = jsonContext(e, http.MethodPost, "/api/students/login",
		`{"email":"asha@example.com","password":"wrong-password"}`)
	err := h.Login(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestAdminLoginHandler(t *testing.T) {
	h := newTestAuthHandler(t)
	e := echo.New()

	c, rec := jsonContext(e, http.MethodPost, "/api/admin/auth/login",
		`{"email":"admin@engivora.com","password":"engivora-admin-2024"}`)
	require.NoError(t, h.AdminLogin(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		User  *models.User `json:"user"`
		Token string       `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, models.RoleAdmin, body.User.Role)
	require.Equal(t, service.AdminSubject, body.User.ID)
}

func TestAdminLoginHandlerRejectsStudent(t *testing.T) {
	h := newTestAuthHandler(t)
	e := echo.New()

	c, _ := jsonContext(e, http.MethodPost, "/api/students/signup",
		`{"full_name":"Asha Verma","email":"asha@example.com","password":"secret-pass-1"}`)
	require.NoError(t, h.Signup(c))

	c, _ = jsonContext(e, http.MethodPost, "/api/admin/auth/login",
		`{"email":"asha@example.com","password":"secret-pass-1"}`)
	err := h.AdminLogin(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestAdminVerifyHandler(t *testing.T) {
	h := newTestAuthHandler(t)
	e := echo.New()

	c, rec := jsonContext(e, http.MethodPost, "/api/admin/auth/login",
		`{"email":"admin@engivora.com","password":"engivora-admin-2024"}`)
	require.NoError(t, h.AdminLogin(c))
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/auth/verify", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+login.Token)
	rec = httptest.NewRecorder()
	require.NoError(t, h.AdminVerify(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Valid bool         `json:"valid"`
		User  *models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.Valid)
	require.Equal(t, service.AdminSubject, body.User.ID)
}

func TestAdminVerifyHandlerRejectsStudentToken(t *testing.T) {
	h := newTestAuthHandler(t)
	e := echo.New()

	tok, err := h.Svc.Issuer.Issue("student-1", models.RoleStudent, 0)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/auth/verify", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
	err = h.AdminVerify(e.NewContext(req, httptest.NewRecorder()))
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestAdminVerifyHandlerRejectsImposter(t *testing.T) {
	h := newTestAuthHandler(t)
	e := echo.New()

	tok, err := h.Svc.Issuer.Issue("some-other-admin", models.RoleAdmin, 0)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/auth/verify", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
	err = h.AdminVerify(e.NewContext(req, httptest.NewRecorder()))
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusForbidden, he.Code)
}

func TestAdminVerifyHandlerMissingToken(t *testing.T) {
	h := newTestAuthHandler(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/admin/auth/verify", nil)
	err := h.AdminVerify(e.NewContext(req, httptest.NewRecorder()))
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusUnauthorized, he.Code)
}
