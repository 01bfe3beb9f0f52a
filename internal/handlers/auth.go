package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/engivora/backend/internal/events"
	"github.com/engivora/backend/internal/logging"
	mwauth "github.com/engivora/backend/internal/middleware/auth"
	"github.com/engivora/backend/internal/repo"
	"github.com/engivora/backend/internal/service"
	"github.com/engivora/backend/internal/token"
)

type AuthHandler struct {
	Svc      *service.AuthService
	Producer *events.Producer
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicUserEvents, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Warn("kafka_publish_failed", "error", err)
	}
}

func (h *AuthHandler) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "students_signup")

	var req service.SignupRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("signup_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Signup(ctx, req)
	if err != nil {
		var fields service.FieldErrors
		switch {
		case errors.As(err, &fields):
			return echo.NewHTTPError(http.StatusBadRequest, fields)
		case errors.Is(err, repo.ErrEmailTaken):
			return echo.NewHTTPError(http.StatusConflict, "email already registered")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	}

	h.publish(c, res.User.ID, map[string]any{
		"type":    "student_registered",
		"user_id": res.User.ID,
		"email":   res.User.Email,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"success": true, "student": res.User, "token": res.Token,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	res, err := h.login(c, "students_login")
	if err != nil {
		return err
	}

	h.publish(c, res.User.ID, map[string]any{
		"type":    "student_logged_in",
		"user_id": res.User.ID,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"success": true, "student": res.User, "token": res.Token,
	})
}

// AuthLogin is the generic user login; same flow as the student one,
// kept as a separate route for the clients that expect a "user" key.
func (h *AuthHandler) AuthLogin(c echo.Context) error {
	res, err := h.login(c, "auth_login")
	if err != nil {
		return err
	}

	h.publish(c, res.User.ID, map[string]any{
		"type":    "user_logged_in",
		"user_id": res.User.ID,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"success": true, "user": res.User, "token": res.Token,
	})
}

func (h *AuthHandler) login(c echo.Context, handler string) (*service.AuthResult, error) {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", handler)

	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, loginError(err)
	}
	return res, nil
}

func (h *AuthHandler) AdminLogin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_login")

	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("admin_login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.AdminLogin(ctx, req.Email, req.Password)
	if err != nil {
		return loginError(err)
	}

	h.publish(c, res.User.ID, map[string]any{
		"type":    "admin_logged_in",
		"user_id": res.User.ID,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"success": true, "user": res.User, "token": res.Token,
	})
}

func (h *AuthHandler) AdminVerify(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_verify")

	tokenStr := mwauth.ExtractToken(c)
	if tokenStr == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
	}

	claims, err := h.Svc.VerifyAdmin(ctx, tokenStr)
	if err != nil {
		switch {
		case errors.Is(err, token.ErrNotConfigured):
			l.Error("admin_verify_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		case errors.Is(err, service.ErrWrongAdmin):
			l.Warn("admin_verify_failed", "status", 403, "error", err)
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		default:
			l.Warn("admin_verify_failed", "status", 401, "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
	}

	user, err := h.Svc.Repo.FindByID(ctx, claims.Subject)
	if err != nil {
		// token outlives the record; claims are still authoritative here
		return c.JSON(http.StatusOK, echo.Map{
			"success": true, "valid": true,
			"user": echo.Map{"id": claims.Subject, "role": claims.Role},
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true, "valid": true, "user": user,
	})
}

func loginError(err error) error {
	var fields service.FieldErrors
	switch {
	case errors.As(err, &fields):
		return echo.NewHTTPError(http.StatusBadRequest, fields)
	case errors.Is(err, service.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, token.ErrNotConfigured):
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
