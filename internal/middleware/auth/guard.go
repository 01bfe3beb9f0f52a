package auth

import (
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/engivora/backend/internal/logging"
	"github.com/engivora/backend/internal/models"
	"github.com/engivora/backend/internal/token"
)

const (
	CtxUserID = "user_id"
	CtxRole   = "role"

	HeaderUserID   = "X-User-Id"
	HeaderUserRole = "X-User-Role"

	AccessCookie = "accessToken"
)

// Guard decides per request whether a valid token is required. Paths
// under /api get structured JSON errors; page paths are redirected to
// the login page. A trailing '*' in a public pattern matches by prefix.
type Guard struct {
	Issuer      *token.Issuer
	PublicPaths []string
	LoginPage   string
}

func NewGuard(issuer *token.Issuer, publicPaths []string) *Guard {
	return &Guard{
		Issuer:      issuer,
		PublicPaths: publicPaths,
		LoginPage:   "/admin/login",
	}
}

func (g *Guard) IsPublic(path string) bool {
	for _, p := range g.PublicPaths {
		if after, ok := strings.CutSuffix(p, "*"); ok {
			if strings.HasPrefix(path, after) {
				return true
			}
			continue
		}
		if path == p {
			return true
		}
	}
	return false
}

// ExtractToken prefers the Authorization bearer header and falls back
// to the access cookie.
func ExtractToken(c echo.Context) string {
	authz := c.Request().Header.Get(echo.HeaderAuthorization)
	if authz != "" && strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return strings.TrimSpace(authz[len("bearer "):])
	}
	if cookie, err := c.Cookie(AccessCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func (g *Guard) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if g.IsPublic(path) {
				return next(c)
			}

			tokenStr := ExtractToken(c)
			if tokenStr == "" {
				return g.reject(c, "missing access token")
			}

			claims, err := g.Issuer.Verify(tokenStr)
			if err != nil {
				if err == token.ErrNotConfigured {
					return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
				}
				return g.reject(c, err.Error())
			}

			c.Set(CtxUserID, claims.Subject)
			c.Set(CtxRole, claims.Role)
			c.Request().Header.Set(HeaderUserID, claims.Subject)
			c.Request().Header.Set(HeaderUserRole, claims.Role)
			return next(c)
		}
	}
}

func (g *Guard) RequireRole(required ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			if role == "" {
				return g.reject(c, "invalid or missing role")
			}
			if !slices.Contains(required, role) {
				return echo.NewHTTPError(http.StatusForbidden, "you don't have enough rights to see this page")
			}
			return next(c)
		}
	}
}

func (g *Guard) RequireAdmin() echo.MiddlewareFunc {
	return g.RequireRole(models.RoleAdmin)
}

func (g *Guard) reject(c echo.Context, reason string) error {
	path := c.Request().URL.Path
	logging.FromContext(c.Request().Context()).
		Warn("request_rejected", "path", path, "reason", reason)
	if strings.HasPrefix(path, "/api") {
		return echo.NewHTTPError(http.StatusUnauthorized, reason)
	}
	return c.Redirect(http.StatusFound, g.LoginPage)
}
